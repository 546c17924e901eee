package geometry

import (
	"math"
	"testing"
)

func TestOrderQuad(t *testing.T) {
	want := Quad{{10, 10}, {110, 12}, {108, 150}, {8, 148}}

	perms := [][4]Point{
		{want[0], want[1], want[2], want[3]},
		{want[2], want[0], want[3], want[1]},
		{want[3], want[2], want[1], want[0]},
		{want[1], want[3], want[0], want[2]},
	}

	for i, p := range perms {
		got := OrderQuad(p)
		if got != want {
			t.Errorf("perm %d: got %v, want %v", i, got, want)
		}
		if !got.IsConvex() {
			t.Errorf("perm %d: ordered quad should be convex", i)
		}
	}
}

func TestQuad_IsConvex(t *testing.T) {
	tests := []struct {
		name string
		quad Quad
		want bool
	}{
		{"square", Quad{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, true},
		{"self-intersecting", Quad{{0, 0}, {10, 10}, {10, 0}, {0, 10}}, false},
		{"concave dart", Quad{{0, 0}, {10, 0}, {3, 3}, {0, 10}}, false},
		{"degenerate", Quad{{0, 0}, {5, 0}, {10, 0}, {0, 10}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.quad.IsConvex(); got != tt.want {
				t.Errorf("IsConvex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuad_Metrics(t *testing.T) {
	q := Rect{X: 10, Y: 20, W: 100, H: 141.4}.Corners()

	if got := q.Area(); math.Abs(got-14140) > 1e-6 {
		t.Errorf("Area() = %v, want 14140", got)
	}
	if c := q.Center(); c.X != 60 || math.Abs(c.Y-90.7) > 1e-9 {
		t.Errorf("Center() = %v, want (60, 90.7)", c)
	}
	if a := q.TopEdgeAngle(); a != 0 {
		t.Errorf("TopEdgeAngle() = %v, want 0", a)
	}
	if ar := q.AspectRatio(); math.Abs(ar-1.414) > 1e-9 {
		t.Errorf("AspectRatio() = %v, want 1.414", ar)
	}
	if dev := q.MaxRightAngleDeviation(); dev > 1e-9 {
		t.Errorf("MaxRightAngleDeviation() = %v, want 0", dev)
	}
}

func TestQuad_TopEdgeAngleSign(t *testing.T) {
	// Top edge descending to the right is a clockwise tilt on screen.
	q := Quad{{0, 0}, {100, 10}, {90, 110}, {-10, 100}}
	if a := q.TopEdgeAngle(); a <= 0 {
		t.Errorf("TopEdgeAngle() = %v, want positive", a)
	}
}

func TestQuad_Scale(t *testing.T) {
	q := Quad{{1, 2}, {3, 2}, {3, 4}, {1, 4}}.Scale(2, 3)
	want := Quad{{2, 6}, {6, 6}, {6, 12}, {2, 12}}
	if q != want {
		t.Errorf("Scale() = %v, want %v", q, want)
	}
}

func TestInteriorAngle(t *testing.T) {
	if a := InteriorAngle(Pt(1, 0), Pt(0, 0), Pt(0, 1)); math.Abs(a-90) > 1e-9 {
		t.Errorf("right angle: got %v", a)
	}
	if a := InteriorAngle(Pt(1, 0), Pt(0, 0), Pt(1, 1)); math.Abs(a-45) > 1e-9 {
		t.Errorf("45 degrees: got %v", a)
	}
	// Coincident points must not produce NaN.
	if a := InteriorAngle(Pt(0, 0), Pt(0, 0), Pt(1, 1)); math.IsNaN(a) {
		t.Error("coincident points produced NaN")
	}
}

func TestBoundingRect(t *testing.T) {
	r := BoundingRect([]Point{{5, 7}, {1, 9}, {4, 2}})
	want := Rect{X: 1, Y: 2, W: 4, H: 7}
	if r != want {
		t.Errorf("BoundingRect() = %v, want %v", r, want)
	}
	if !want.Contains(Rect{X: 2, Y: 3, W: 1, H: 1}) {
		t.Error("Contains() should report inner rect")
	}
	if want.Contains(Rect{X: 0, Y: 3, W: 1, H: 1}) {
		t.Error("Contains() should reject overlapping rect")
	}
}

func TestConvexHull_Rectangle(t *testing.T) {
	// Outline pixels of a 20x10 rectangle.
	var pts []Point
	for x := 0; x <= 20; x++ {
		pts = append(pts, Pt(float64(x), 0), Pt(float64(x), 10))
	}
	for y := 1; y < 10; y++ {
		pts = append(pts, Pt(0, float64(y)), Pt(20, float64(y)))
	}

	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull has %d points, want 4: %v", len(hull), hull)
	}
	if area := PolygonArea(hull); area != 200 {
		t.Errorf("hull area = %v, want 200", area)
	}
}

func TestApproxPolygon_CollapsesStaircase(t *testing.T) {
	// A rotated rectangle sampled on a pixel grid has many hull vertices
	// along each edge; the approximation should recover four corners.
	corners := Quad{{50, 10}, {130, 40}, {100, 120}, {20, 90}}
	var pts []Point
	for i := 0; i < 4; i++ {
		a, b := corners[i], corners[(i+1)%4]
		steps := int(a.Dist(b))
		for s := 0; s < steps; s++ {
			f := float64(s) / float64(steps)
			pts = append(pts, Pt(math.Round(a.X+(b.X-a.X)*f), math.Round(a.Y+(b.Y-a.Y)*f)))
		}
	}

	hull := ConvexHull(pts)
	approx := ApproxPolygon(hull, 0.02*Perimeter(hull))
	if len(approx) != 4 {
		t.Fatalf("approx has %d vertices, want 4: %v", len(approx), approx)
	}

	var quad [4]Point
	copy(quad[:], approx)
	ordered := OrderQuad(quad)
	for i := range ordered {
		if d := ordered[i].Dist(corners[i]); d > 2 {
			t.Errorf("corner %d: got %v, want near %v", i, ordered[i], corners[i])
		}
	}
}

func TestApproxPolygon_SmallInput(t *testing.T) {
	in := []Point{{0, 0}, {1, 0}, {0, 1}}
	if got := ApproxPolygon(in, 10); len(got) != 3 {
		t.Errorf("triangle should be returned unchanged, got %v", got)
	}
}

func TestPerimeter(t *testing.T) {
	sq := Rect{W: 3, H: 4}.Corners().Points()
	if p := Perimeter(sq); p != 14 {
		t.Errorf("Perimeter() = %v, want 14", p)
	}
}
