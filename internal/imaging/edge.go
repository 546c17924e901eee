package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Field is a dense row-major grayscale buffer with intensities in 0-255.
type Field struct {
	Width  int
	Height int
	Pix    []float64
}

// At returns the intensity at (x, y) with coordinates clamped to the field.
func (f *Field) At(x, y int) float64 {
	x = clamp(x, 0, f.Width-1)
	y = clamp(y, 0, f.Height-1)
	return f.Pix[y*f.Width+x]
}

// Thresholds holds the low and high gradient thresholds for Canny.
type Thresholds struct {
	Low  float64
	High float64
}

// Adaptive threshold floors. Sigma is floored so that flat, dim frames still
// produce usable thresholds.
const (
	minSigma     = 10.0
	minThreshLow = 20.0
	minThreshHi  = 40.0
)

// AdaptiveThresholds derives Canny thresholds from the intensity standard
// deviation of the frame.
//
//	sigma = max(10, stddev)
//	low   = max(20, base*sigma)
//	high  = max(40, 2*base*sigma)
//
// A lower base detects fainter edges; the detector's loose pass uses a lower
// base than its strict pass.
func AdaptiveThresholds(stddev, base float64) Thresholds {
	sigma := math.Max(minSigma, stddev)
	return Thresholds{
		Low:  math.Max(minThreshLow, base*sigma),
		High: math.Max(minThreshHi, 2*base*sigma),
	}
}

// Preprocess converts img to grayscale and applies a gaussian blur of the
// given radius to suppress sensor noise.
//
// Grayscale conversion and blurring are delegated to bild. The result is
// returned as a Field so that the gradient stages can index it directly.
func Preprocess(img image.Image, radius float64) *Field {
	gray := effect.Grayscale(img)
	var src image.Image = gray
	if radius > 0 {
		src = blur.Gaussian(gray, radius)
	}

	bounds := src.Bounds()
	f := &Field{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]float64, bounds.Dx()*bounds.Dy()),
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, _, _, _ := src.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			f.Pix[y*f.Width+x] = float64(r >> 8)
		}
	}
	return f
}

// Canny performs Canny edge detection on a preprocessed field.
//
// Returns a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
//
// # Algorithm
//
//  1. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  2. Non-maximum suppression: Thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction
//
//  3. Hysteresis: pixels at or above t.High seed edges; pixels at or above
//     t.Low are kept when 8-connected to a seed, directly or through other
//     weak pixels.
func Canny(f *Field, t Thresholds) *image.Gray {
	width, height := f.Width, f.Height
	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := f.At(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag == 0 {
				continue
			}

			angle := direction[i]
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = magnitude[i-1]
				n2 = magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				// Gradient points down-right (Y grows downward).
				n1 = magnitude[i-width-1]
				n2 = magnitude[i+width+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = magnitude[i-width]
				n2 = magnitude[i+width]
			default:
				n1 = magnitude[i-width+1]
				n2 = magnitude[i+width-1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Hysteresis with connectivity tracking
	result := image.NewGray(image.Rect(0, 0, width, height))
	stack := make([]int, 0, 256)
	for i, v := range suppressed {
		if v >= t.High && result.Pix[i] == 0 {
			result.Pix[i] = 255
			stack = append(stack, i)
		}
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jx, jy := j%width, j/width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := jx+dx, jy+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					k := ny*width + nx
					if result.Pix[k] == 0 && suppressed[k] >= t.Low {
						result.Pix[k] = 255
						stack = append(stack, k)
					}
				}
			}
		}
	}

	return result
}

// Dilate thickens edges by radius pixels so that one-pixel gaps left by
// non-maximum suppression do not split a document outline into separate
// contours.
func Dilate(edges *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return edges
	}
	dilated := effect.Dilate(edges, radius)
	bounds := dilated.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, _, _, _ := dilated.At(x, y).RGBA()
			if r>>8 >= 128 {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
