package imaging

import "math"

// IntensityStats summarizes the intensity distribution of a Field.
type IntensityStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// MeasureIntensity returns the mean and population standard deviation of
// the field's intensities. An empty field yields zero stats.
func MeasureIntensity(f *Field) IntensityStats {
	n := len(f.Pix)
	if n == 0 {
		return IntensityStats{}
	}

	var sum float64
	for _, v := range f.Pix {
		sum += v
	}
	mean := sum / float64(n)

	var variance float64
	for _, v := range f.Pix {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	return IntensityStats{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
	}
}
