// Package geometry provides the planar primitives shared by the capture pipeline.
//
// The detector produces quadrilaterals in analysis-buffer pixels, the guidance
// engine compares them against a guide rectangle in display pixels, and the
// rectifier maps them into full-resolution pixels. All of these stages exchange
// the same float64 Point, Quad and Rect types defined here.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Because Y grows downward, a positive angle returned by TopEdgeAngle means the
// top edge descends from left to right, i.e. the document is rotated clockwise
// on screen.
//
// # Canonical Quad Order
//
// A Quad is always ordered top-left, top-right, bottom-right, bottom-left.
// Producers must pass raw corner sets through OrderQuad before handing a Quad
// to any consumer. The ordering sorts by Y to split the two top corners from the
// two bottom corners, then sorts each pair by X.
//
// # Polygon Helpers
//
// ConvexHull and ApproxPolygon turn a cloud of contour pixels into a small
// closed polygon. ApproxPolygon is a closed-curve Douglas-Peucker: the contour
// is split at the vertex farthest from the first vertex and each half is
// simplified independently, so the start vertex never biases the result.
package geometry
