package detection

// Pass holds the acceptance thresholds for one detection pass.
type Pass struct {
	// Name identifies the pass in stats and logs.
	Name string `toml:"-"`

	// ThresholdBase scales the intensity standard deviation into the
	// Canny low threshold. The high threshold is twice the low one.
	ThresholdBase float64 `toml:"threshold_base" validate:"gt=0"`

	// Epsilon is the polygon approximation tolerance as a fraction of the
	// contour perimeter.
	Epsilon float64 `toml:"epsilon" validate:"gt=0,lt=1"`

	// MinAreaFrac is the minimum quad area as a fraction of the frame area.
	MinAreaFrac float64 `toml:"min_area_frac" validate:"gt=0,lt=1"`

	// MinSolidity is the minimum ratio of quad area to bounding-box area.
	MinSolidity float64 `toml:"min_solidity" validate:"gt=0,lte=1"`

	// MaxAngleDev is the largest allowed |interior angle - 90| in degrees.
	MaxAngleDev float64 `toml:"max_angle_dev" validate:"gt=0,lt=90"`

	// AspectMin and AspectMax bound the long/short side ratio.
	AspectMin float64 `toml:"aspect_min" validate:"gte=1"`
	AspectMax float64 `toml:"aspect_max" validate:"gtfield=AspectMin"`
}

// Config controls the boundary detector.
type Config struct {
	// BlurRadius is the gaussian blur radius applied before edge detection.
	BlurRadius float64 `toml:"blur_radius" validate:"gte=0"`

	// DilateRadius closes small gaps in the edge map. Zero disables it.
	DilateRadius float64 `toml:"dilate_radius" validate:"gte=0"`

	// MinContourPixels drops edge components smaller than this many pixels.
	MinContourPixels int `toml:"min_contour_pixels" validate:"gte=1"`

	Strict Pass `toml:"strict"`
	Loose  Pass `toml:"loose"`
}

// DefaultConfig returns the tuned strict and loose passes.
func DefaultConfig() Config {
	return Config{
		BlurRadius:       1.5,
		DilateRadius:     1.5,
		MinContourPixels: 10,
		Strict: Pass{
			Name:          "strict",
			ThresholdBase: 0.68,
			Epsilon:       0.02,
			MinAreaFrac:   0.10,
			MinSolidity:   0.78,
			MaxAngleDev:   14,
			AspectMin:     1.26,
			AspectMax:     1.52,
		},
		Loose: Pass{
			Name:          "loose",
			ThresholdBase: 0.58,
			Epsilon:       0.03,
			MinAreaFrac:   0.06,
			MinSolidity:   0.70,
			MaxAngleDev:   18,
			AspectMin:     1.18,
			AspectMax:     1.62,
		},
	}
}
