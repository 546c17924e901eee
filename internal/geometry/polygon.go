package geometry

import "sort"

// ConvexHull returns the convex hull of pts using Andrew's monotone chain.
//
// Collinear points on hull edges are dropped, so an axis-aligned rectangle of
// pixels yields exactly its four corners. Duplicate input points are allowed.
// Fewer than three distinct points are returned as-is.
func ConvexHull(pts []Point) []Point {
	if len(pts) < 3 {
		return append([]Point(nil), pts...)
	}

	sorted := append([]Point(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]Point, 0, 2*len(sorted))

	// Lower hull
	for _, p := range sorted {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Upper hull
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

// ApproxPolygon simplifies a closed polygon with the Douglas-Peucker
// algorithm. Vertices closer than epsilon to the simplified outline are
// removed.
func ApproxPolygon(pts []Point, epsilon float64) []Point {
	n := len(pts)
	if n <= 3 {
		return append([]Point(nil), pts...)
	}

	// Split the closed curve at the vertex farthest from pts[0].
	far := 0
	var best float64
	for i := 1; i < n; i++ {
		if d := pts[0].Dist(pts[i]); d > best {
			best = d
			far = i
		}
	}
	if far == 0 {
		return []Point{pts[0]}
	}

	first := pts[:far+1]
	second := append(append([]Point(nil), pts[far:]...), pts[0])

	a := simplify(first, epsilon)
	b := simplify(second, epsilon)

	// Both chains include their endpoints; drop the shared ones.
	out := make([]Point, 0, len(a)+len(b))
	out = append(out, a[:len(a)-1]...)
	out = append(out, b[:len(b)-1]...)
	return out
}

// simplify runs open-curve Douglas-Peucker, keeping both endpoints.
func simplify(pts []Point, epsilon float64) []Point {
	if len(pts) < 3 {
		return append([]Point(nil), pts...)
	}

	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true

	type span struct{ lo, hi int }
	stack := []span{{0, len(pts) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := -1
		var maxDist float64
		for i := s.lo + 1; i < s.hi; i++ {
			if d := segmentDistance(pts[i], pts[s.lo], pts[s.hi]); d > maxDist {
				maxDist = d
				idx = i
			}
		}
		if idx >= 0 && maxDist > epsilon {
			keep[idx] = true
			stack = append(stack, span{s.lo, idx}, span{idx, s.hi})
		}
	}

	out := make([]Point, 0, len(pts))
	for i, p := range pts {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// segmentDistance returns the perpendicular distance from p to the line
// through a and b, or the distance to a when a == b.
func segmentDistance(p, a, b Point) float64 {
	d := b.Sub(a)
	length := a.Dist(b)
	if length == 0 {
		return p.Dist(a)
	}
	num := d.Y*p.X - d.X*p.Y + b.X*a.Y - b.Y*a.X
	if num < 0 {
		num = -num
	}
	return num / length
}

// turn returns the z component of (b-a) x (c-a).
func turn(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
