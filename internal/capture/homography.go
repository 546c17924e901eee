package capture

import (
	"errors"
	"math"

	"github.com/ironsheep/docscan/internal/geometry"
	"golang.org/x/image/math/f64"
)

// ErrDegenerate is returned when four correspondences do not define a
// perspective transform (three collinear corners, for example).
var ErrDegenerate = errors.New("degenerate quadrilateral")

// Homography returns the 3x3 perspective transform (row-major, h[8] = 1)
// that maps each from[i] onto to[i].
func Homography(from, to [4]geometry.Point) (f64.Mat3, error) {
	// Two rows per correspondence:
	//   x' = (h0 x + h1 y + h2) / (h6 x + h7 y + 1)
	//   y' = (h3 x + h4 y + h5) / (h6 x + h7 y + 1)
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := from[i].X, from[i].Y
		u, v := to[i].X, to[i].Y
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -u * x, -u * y, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -v * x, -v * y, v}
	}

	h, err := solve(a)
	if err != nil {
		return f64.Mat3{}, err
	}
	return f64.Mat3{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}

// Apply maps p through m.
func Apply(m f64.Mat3, p geometry.Point) geometry.Point {
	w := m[6]*p.X + m[7]*p.Y + m[8]
	return geometry.Point{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / w,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / w,
	}
}

// solve runs Gaussian elimination with partial pivoting on the augmented
// 8x9 system.
func solve(a [8][9]float64) ([8]float64, error) {
	const n = 8
	var x [8]float64

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return x, ErrDegenerate
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c <= n; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	for r := n - 1; r >= 0; r-- {
		s := a[r][n]
		for c := r + 1; c < n; c++ {
			s -= a[r][c] * x[c]
		}
		x[r] = s / a[r][r]
	}
	return x, nil
}
