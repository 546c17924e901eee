package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestAdaptiveThresholds(t *testing.T) {
	tests := []struct {
		name      string
		std, base float64
		want      Thresholds
	}{
		{"flat frame uses floors", 2, 0.68, Thresholds{Low: 20, High: 40}},
		{"strict pass", 80, 0.68, Thresholds{Low: 54.4, High: 108.8}},
		{"loose pass", 80, 0.58, Thresholds{Low: 46.4, High: 92.8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdaptiveThresholds(tt.std, tt.base)
			if math.Abs(got.Low-tt.want.Low) > 1e-9 || math.Abs(got.High-tt.want.High) > 1e-9 {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPreprocess_Dimensions(t *testing.T) {
	img := createInMemoryImage(40, 30, color.RGBA{128, 128, 128, 255})
	f := Preprocess(img, 1.0)

	if f.Width != 40 || f.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", f.Width, f.Height)
	}
	if len(f.Pix) != 40*30 {
		t.Errorf("pix length: got %d, want %d", len(f.Pix), 40*30)
	}
	// Uniform gray stays uniform after blur. The blur runs two separable
	// passes and truncates to 8 bits after each, so a level may be lost per
	// pass.
	for i, v := range f.Pix {
		if math.Abs(v-128) > 2 {
			t.Fatalf("pix[%d] = %.1f, want ~128", i, v)
		}
	}
}

func TestCanny_UniformImage(t *testing.T) {
	img := createInMemoryImage(50, 50, color.RGBA{128, 128, 128, 255})
	edges := Canny(Preprocess(img, 1.0), Thresholds{Low: 20, High: 40})

	for i, v := range edges.Pix {
		if v != 0 {
			t.Fatalf("uniform image produced edge at index %d", i)
		}
	}
}

func TestCanny_StrongEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	edges := Canny(Preprocess(img, 1.0), Thresholds{Low: 20, High: 40})

	edgeFound := false
	for x := 47; x <= 52; x++ {
		if edges.GrayAt(x, 50).Y == 255 {
			edgeFound = true
			break
		}
	}
	if !edgeFound {
		t.Error("strong vertical edge was not detected")
	}

	// Far from the boundary there must be no edges.
	if edges.GrayAt(10, 50).Y != 0 || edges.GrayAt(90, 50).Y != 0 {
		t.Error("edges detected away from the boundary")
	}
}

func TestCanny_ClosedOutline(t *testing.T) {
	img := createEdgeTestImage(80, 80)
	edges := Canny(Preprocess(img, 1.0), Thresholds{Low: 20, High: 40})

	// Each side of the centered square should contain edge pixels.
	checks := []struct {
		name string
		x, y int
		dx   int
		dy   int
	}{
		{"left", 18, 40, 1, 0},
		{"right", 58, 40, 1, 0},
		{"top", 40, 18, 0, 1},
		{"bottom", 40, 58, 0, 1},
	}
	for _, c := range checks {
		found := false
		for i := 0; i < 5; i++ {
			if edges.GrayAt(c.x+c.dx*i, c.y+c.dy*i).Y == 255 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s side: no edge found", c.name)
		}
	}
}

func TestCanny_SmallImage(t *testing.T) {
	img := createInMemoryImage(5, 5, color.RGBA{128, 128, 128, 255})
	edges := Canny(Preprocess(img, 1.0), Thresholds{Low: 20, High: 40})

	if b := edges.Bounds(); b.Dx() != 5 || b.Dy() != 5 {
		t.Errorf("dimensions: got %dx%d, want 5x5", b.Dx(), b.Dy())
	}
}

func TestDilate(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 9, 9))
	edges.SetGray(4, 4, color.Gray{Y: 255})

	out := Dilate(edges, 1.5)

	if out.GrayAt(4, 4).Y != 255 {
		t.Error("center pixel lost after dilation")
	}
	if out.GrayAt(4, 3).Y != 255 || out.GrayAt(5, 4).Y != 255 {
		t.Error("direct neighbors should be set after dilation")
	}
	if out.GrayAt(0, 0).Y != 0 {
		t.Error("far pixel should remain unset")
	}
}

func TestDilate_ZeroRadius(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 3, 3))
	if out := Dilate(edges, 0); out != edges {
		t.Error("zero radius should return the input unchanged")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},   // within range
		{-1, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestMeasureIntensity(t *testing.T) {
	f := &Field{Width: 2, Height: 2, Pix: []float64{0, 0, 200, 200}}
	stats := MeasureIntensity(f)

	if stats.Mean != 100 {
		t.Errorf("Mean: got %v, want 100", stats.Mean)
	}
	if stats.StdDev != 100 {
		t.Errorf("StdDev: got %v, want 100", stats.StdDev)
	}

	if empty := MeasureIntensity(&Field{}); empty != (IntensityStats{}) {
		t.Errorf("empty field: got %+v, want zero", empty)
	}
}

// Helper functions

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createEdgeTestImage creates an image with a black rectangle on white background
// to create clear edges for testing
func createEdgeTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// White background
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	// Black rectangle in center (creates 4 edges)
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}

	return img
}
