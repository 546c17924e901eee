// Package imaging provides the pixel-level operations behind boundary
// detection and the live preview.
//
// The detection pipeline uses, in order:
//   - Preprocess: grayscale conversion and gaussian blur into a float Field
//   - MeasureIntensity: mean and standard deviation of the blurred field
//   - AdaptiveThresholds: Canny thresholds derived from the standard deviation
//   - Canny: Sobel gradients, non-maximum suppression and hysteresis
//   - Dilate: closes one-pixel gaps in the edge map
//
// RenderOverlay draws the dashed guide rectangle and the detected outline on
// a display frame. EncodePNG, DataURL and Save encode images for the
// recognition service and for preview files.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward.
//
// # Thread Safety
//
// All functions are stateless and may be called concurrently. Input images
// are never modified.
package imaging
