package geometry

import (
	"math"
	"sort"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Quad is a quadrilateral in canonical order: top-left, top-right,
// bottom-right, bottom-left.
type Quad [4]Point

// TL returns the top-left corner.
func (q Quad) TL() Point { return q[0] }

// TR returns the top-right corner.
func (q Quad) TR() Point { return q[1] }

// BR returns the bottom-right corner.
func (q Quad) BR() Point { return q[2] }

// BL returns the bottom-left corner.
func (q Quad) BL() Point { return q[3] }

// IsZero reports whether all four corners are at the origin.
func (q Quad) IsZero() bool {
	return q == Quad{}
}

// Points returns the corners as a slice.
func (q Quad) Points() []Point {
	return []Point{q[0], q[1], q[2], q[3]}
}

// Scale multiplies every corner by (sx, sy).
func (q Quad) Scale(sx, sy float64) Quad {
	var out Quad
	for i, p := range q {
		out[i] = Point{X: p.X * sx, Y: p.Y * sy}
	}
	return out
}

// Center returns the mean of the four corners.
func (q Quad) Center() Point {
	var c Point
	for _, p := range q {
		c.X += p.X
		c.Y += p.Y
	}
	return Point{X: c.X / 4, Y: c.Y / 4}
}

// Area returns the absolute shoelace area.
func (q Quad) Area() float64 {
	return PolygonArea(q.Points())
}

// TopEdgeAngle returns the angle of the TL->TR edge in degrees.
// Positive values mean the edge descends to the right.
func (q Quad) TopEdgeAngle() float64 {
	d := q[1].Sub(q[0])
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// AspectRatio returns long side / short side, measured along the top and
// left edges. The short side is floored at one pixel.
func (q Quad) AspectRatio() float64 {
	w := q[0].Dist(q[1])
	h := q[0].Dist(q[3])
	return math.Max(w, h) / math.Max(1, math.Min(w, h))
}

// IsConvex reports whether the four corners, taken in order, turn in the
// same direction at every vertex. Degenerate (collinear) corners fail.
func (q Quad) IsConvex() bool {
	var pos, neg int
	for i := 0; i < 4; i++ {
		c := cross(q[i], q[(i+1)%4], q[(i+2)%4])
		switch {
		case c > 0:
			pos++
		case c < 0:
			neg++
		}
	}
	return pos == 4 || neg == 4
}

// MaxRightAngleDeviation returns the largest |interior angle - 90| in degrees.
func (q Quad) MaxRightAngleDeviation() float64 {
	devs := []float64{
		math.Abs(InteriorAngle(q[3], q[0], q[1]) - 90),
		math.Abs(InteriorAngle(q[0], q[1], q[2]) - 90),
		math.Abs(InteriorAngle(q[1], q[2], q[3]) - 90),
		math.Abs(InteriorAngle(q[2], q[3], q[0]) - 90),
	}
	max := devs[0]
	for _, d := range devs[1:] {
		if d > max {
			max = d
		}
	}
	return max
}

// OrderQuad reorders four arbitrary corners into canonical TL, TR, BR, BL
// order. The two points with the smallest Y form the top edge.
func OrderQuad(pts [4]Point) Quad {
	sorted := pts
	sort.SliceStable(sorted[:], func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	top := [2]Point{sorted[0], sorted[1]}
	bottom := [2]Point{sorted[2], sorted[3]}
	if top[0].X > top[1].X {
		top[0], top[1] = top[1], top[0]
	}
	if bottom[0].X > bottom[1].X {
		bottom[0], bottom[1] = bottom[1], bottom[0]
	}
	return Quad{top[0], top[1], bottom[1], bottom[0]}
}

// InteriorAngle returns the angle p-q-r at vertex q in degrees.
func InteriorAngle(p, q, r Point) float64 {
	u := p.Sub(q)
	v := r.Sub(q)
	du := math.Hypot(u.X, u.Y)
	dv := math.Hypot(v.X, v.Y)
	if du == 0 {
		du = 1
	}
	if dv == 0 {
		dv = 1
	}
	cos := (u.X*v.X + u.Y*v.Y) / (du * dv)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// PolygonArea returns the absolute area of a closed polygon.
func PolygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the length of the closed polygon through pts.
func Perimeter(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var sum float64
	for i := range pts {
		sum += pts[i].Dist(pts[(i+1)%len(pts)])
	}
	return sum
}

// cross returns the z component of (b-a) x (c-b).
func cross(a, b, c Point) float64 {
	ab := b.Sub(a)
	bc := c.Sub(b)
	return ab.X*bc.Y - ab.Y*bc.X
}
