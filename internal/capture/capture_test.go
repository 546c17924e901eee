package capture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/docscan/internal/camera"
	"github.com/ironsheep/docscan/internal/geometry"
)

// createGradientImage creates an image whose red channel encodes x and
// green channel encodes y, so sampling positions can be checked.
func createGradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / (width - 1)),
				G: uint8(y * 255 / (height - 1)),
				B: 100,
				A: 255,
			})
		}
	}
	return img
}

func TestHomography_MapsCorners(t *testing.T) {
	from := [4]geometry.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1400}, {X: 0, Y: 1400}}
	to := [4]geometry.Point{{X: 120, Y: 80}, {X: 860, Y: 130}, {X: 900, Y: 1250}, {X: 70, Y: 1190}}

	m, err := Homography(from, to)
	if err != nil {
		t.Fatalf("Homography failed: %v", err)
	}

	for i := range from {
		got := Apply(m, from[i])
		if got.Dist(to[i]) > 1e-6 {
			t.Errorf("corner %d: got %v, want %v", i, got, to[i])
		}
	}
}

func TestHomography_Degenerate(t *testing.T) {
	from := [4]geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	line := [4]geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}

	if _, err := Homography(line, from); !errors.Is(err, ErrDegenerate) {
		t.Errorf("got %v, want ErrDegenerate", err)
	}
}

func TestCapture_GuideRoundTrip(t *testing.T) {
	// Display and capture buffers differ by 2x; the quad is the guide itself.
	full := camera.NewFrame(createGradientImage(1000, 1400), time.Now())
	display := image.Point{X: 500, Y: 700}
	guide := geometry.Rect{X: 30, Y: 30, W: 440, H: 440 * math.Sqrt2}

	out, err := NewRectifier(DefaultConfig()).Capture(full, guide.Corners(), display)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	b := out.Image.Bounds()
	if b.Dx() != 1000 || b.Dy() != 1400 {
		t.Fatalf("dimensions: got %dx%d, want 1000x1400", b.Dx(), b.Dy())
	}
	if got := float64(b.Dy()) / float64(b.Dx()); got != 1.4 {
		t.Errorf("aspect: got %v, want 1.4", got)
	}

	want := guide.Corners().Scale(2, 2)
	for i := range want {
		if out.Source[i].Dist(want[i]) > 1e-9 {
			t.Errorf("source corner %d: got %v, want %v", i, out.Source[i], want[i])
		}
	}
}

func TestCapture_IdentityPreservesPixels(t *testing.T) {
	img := createGradientImage(100, 140)
	full := camera.NewFrame(img, time.Now())
	quad := geometry.Rect{X: 0, Y: 0, W: 100, H: 140}.Corners()

	r := NewRectifier(Config{Width: 100, Height: 140})
	out, err := r.Capture(full, quad, image.Point{})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	for _, p := range []image.Point{{0, 0}, {50, 70}, {99, 139}, {10, 120}} {
		got := out.Image.NRGBAAt(p.X, p.Y)
		want := img.NRGBAAt(p.X, p.Y)
		if absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 {
			t.Errorf("pixel %v: got %v, want %v", p, got, want)
		}
	}
}

func TestCapture_CropsRegion(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			c := color.NRGBA{0, 0, 0, 255}
			if x >= 50 && x < 150 && y >= 30 && y < 170 {
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	quad := geometry.Rect{X: 50, Y: 30, W: 100, H: 140}.Corners()
	out, err := NewRectifier(Config{Width: 50, Height: 70}).Capture(camera.NewFrame(img, time.Now()), quad, image.Point{})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	for _, p := range []image.Point{{1, 1}, {25, 35}, {48, 68}} {
		if c := out.Image.NRGBAAt(p.X, p.Y); c.R < 250 {
			t.Errorf("pixel %v: got %v, want white", p, c)
		}
	}
}

func TestWarp_OutsideIsBlack(t *testing.T) {
	src := createGradientImage(10, 10)
	// Shift everything 100 px right so every sample lands outside.
	m, _ := Homography(
		[4]geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		[4]geometry.Point{{X: 100, Y: 0}, {X: 110, Y: 0}, {X: 110, Y: 10}, {X: 100, Y: 10}},
	)

	out := Warp(src, m, 10, 10)
	if c := out.NRGBAAt(5, 5); c != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("got %v, want opaque black", c)
	}
}

func TestCanonicalImage_Encoding(t *testing.T) {
	ci := CanonicalImage{Image: createGradientImage(8, 8)}

	data, err := ci.PNG()
	if err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("PNG output does not decode: %v", err)
	}

	url, err := ci.DataURL()
	if err != nil {
		t.Fatalf("DataURL failed: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("unexpected data URL prefix: %.30s", url)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
