// Package detection finds the document boundary in an analysis frame.
//
// # Algorithm
//
// Each pass runs the same pipeline with its own thresholds:
//
//  1. Grayscale and gaussian blur (imaging.Preprocess)
//  2. Canny edges with thresholds derived from the intensity spread
//  3. Dilation to close one-pixel gaps
//  4. External contours: 8-connected edge components that touch the
//     background reachable from the frame border
//  5. Convex hull and polygon approximation with a tolerance proportional
//     to the perimeter
//  6. Filters, in order: exactly four vertices, minimum area, minimum
//     solidity, canonical reorder, convexity, corner angles, aspect ratio
//  7. Score and keep the maximum
//
// The strict pass runs first. The loose pass relaxes every threshold and runs
// only when the strict pass finds nothing.
//
// # Misses
//
// A frame without an acceptable contour is not an error. Detect returns
// false and the caller tries again on the next tick.
//
// # Coordinate System
//
// Quads are returned in analysis-frame pixels, canonically ordered
// top-left, top-right, bottom-right, bottom-left.
package detection
