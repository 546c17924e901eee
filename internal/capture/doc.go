// Package capture flattens a detected document into a fixed-size image.
//
// Rectifier.Capture scales the display-resolution quad to the capture
// buffer, solves the perspective transform that maps the canonical output
// rectangle onto the quad, and inverse-warps the capture buffer with
// bilinear sampling. The output is 1000x1400 by default, a portrait ratio
// close to A4's sqrt(2).
package capture
