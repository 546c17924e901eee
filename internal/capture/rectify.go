package capture

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/docscan/internal/camera"
	"github.com/ironsheep/docscan/internal/geometry"
	imgutil "github.com/ironsheep/docscan/internal/imaging"
	"golang.org/x/image/math/f64"
)

// Config sets the canonical output size.
type Config struct {
	Width  int `toml:"width" validate:"gt=0"`
	Height int `toml:"height" validate:"gt=0"`
}

// DefaultConfig returns the 1000x1400 portrait target.
func DefaultConfig() Config {
	return Config{Width: 1000, Height: 1400}
}

// CanonicalImage is the flattened, fixed-size capture result.
type CanonicalImage struct {
	Image *image.NRGBA

	// Source is the quad that was rectified, in full-resolution pixels.
	Source geometry.Quad
}

// PNG encodes the image as PNG.
func (c CanonicalImage) PNG() ([]byte, error) {
	return imgutil.EncodePNG(c.Image)
}

// DataURL encodes the image as a base64 PNG data URL.
func (c CanonicalImage) DataURL() (string, error) {
	return imgutil.DataURL(c.Image)
}

// Rectifier warps a detected document into the canonical rectangle.
type Rectifier struct {
	cfg Config
}

// NewRectifier creates a rectifier producing cfg.Width x cfg.Height images.
func NewRectifier(cfg Config) *Rectifier {
	return &Rectifier{cfg: cfg}
}

// Capture rectifies quad out of the full-resolution frame.
//
// quad is in display coordinates; display is the display buffer size. The
// quad is scaled to the full frame's resolution before warping, so the
// display and capture buffers may differ in size. A zero display size means
// the quad is already in full-resolution pixels.
//
// The only failure is a degenerate quad, which a detected quad never is.
func (r *Rectifier) Capture(full camera.Frame, quad geometry.Quad, display image.Point) (CanonicalImage, error) {
	src := quad
	if display.X > 0 && display.Y > 0 {
		src = quad.Scale(float64(full.Width)/float64(display.X), float64(full.Height)/float64(display.Y))
	}

	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	out := [4]geometry.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}

	m, err := Homography(out, src)
	if err != nil {
		return CanonicalImage{}, fmt.Errorf("failed to rectify: %w", err)
	}

	return CanonicalImage{
		Image:  Warp(imaging.Clone(full.Image), m, r.cfg.Width, r.cfg.Height),
		Source: src,
	}, nil
}

// Warp fills a width x height image by mapping each output pixel center
// through m into src and sampling bilinearly. Pixels that land outside src
// are opaque black.
func Warp(src *image.NRGBA, m f64.Mat3, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	b := src.Bounds()

	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			p := Apply(m, geometry.Point{X: float64(u) + 0.5, Y: float64(v) + 0.5})
			i := dst.PixOffset(u, v)
			px := sample(src, b, p.X-0.5, p.Y-0.5)
			copy(dst.Pix[i:i+4], px[:])
		}
	}
	return dst
}

// sample returns the bilinear interpolation of src at (x, y), relative to
// the bounds origin.
func sample(src *image.NRGBA, b image.Rectangle, x, y float64) [4]uint8 {
	w, h := b.Dx(), b.Dy()
	if math.IsNaN(x) || math.IsNaN(y) || x < -0.5 || y < -0.5 || x > float64(w)-0.5 || y > float64(h)-0.5 {
		return [4]uint8{0, 0, 0, 255}
	}

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	at := func(px, py int) []uint8 {
		px = clampInt(px, 0, w-1)
		py = clampInt(py, 0, h-1)
		i := src.PixOffset(b.Min.X+px, b.Min.Y+py)
		return src.Pix[i : i+4]
	}

	p00, p10 := at(x0, y0), at(x0+1, y0)
	p01, p11 := at(x0, y0+1), at(x0+1, y0+1)

	var out [4]uint8
	for c := 0; c < 4; c++ {
		top := float64(p00[c])*(1-fx) + float64(p10[c])*fx
		bot := float64(p01[c])*(1-fx) + float64(p11[c])*fx
		out[c] = uint8(math.Round(top*(1-fy) + bot*fy))
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
