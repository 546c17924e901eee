package guidance

import (
	"fmt"
	"time"
)

// Band is a symmetric tolerance around zero: |v| <= In counts toward
// readiness, |v| > Out needs correction.
type Band struct {
	In  float64 `toml:"in" validate:"gt=0"`
	Out float64 `toml:"out" validate:"gtfield=In"`
}

// RangeBand is a tolerance interval around 1 for the size ratio.
type RangeBand struct {
	InMin  float64 `toml:"in_min" validate:"gt=0"`
	InMax  float64 `toml:"in_max" validate:"gtfield=InMin"`
	OutMin float64 `toml:"out_min" validate:"gt=0"`
	OutMax float64 `toml:"out_max" validate:"gtfield=OutMin"`
}

// Config holds the alignment thresholds.
type Config struct {
	// Alpha is the exponential smoothing factor for new samples.
	Alpha float64 `toml:"alpha" validate:"gt=0,lte=1"`

	// DwellMS is how long every metric must stay inside its IN band
	// before capture.
	DwellMS int `toml:"dwell_ms" validate:"gt=0"`

	// Center is the offset band in display pixels, per axis.
	Center Band `toml:"center"`

	// Angle is the top-edge rotation band in degrees.
	Angle Band `toml:"angle"`

	// Size is the quad area over guide area band.
	Size RangeBand `toml:"size"`

	// GuideMargin is the guide rectangle margin as a fraction of the frame.
	GuideMargin float64 `toml:"guide_margin" validate:"gte=0,lt=0.5"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Alpha:   0.3,
		DwellMS: 900,
		Center:  Band{In: 30, Out: 84},
		Angle:   Band{In: 3.0, Out: 7.5},
		Size: RangeBand{
			InMin:  0.88,
			InMax:  1.16,
			OutMin: 0.78,
			OutMax: 1.22,
		},
		GuideMargin: 0.06,
	}
}

// Dwell returns DwellMS as a duration.
func (c Config) Dwell() time.Duration {
	return time.Duration(c.DwellMS) * time.Millisecond
}

// Validate checks that every IN band lies inside its OUT band.
func (c Config) Validate() error {
	if c.Center.In > c.Center.Out {
		return fmt.Errorf("center: in band %.2f exceeds out band %.2f", c.Center.In, c.Center.Out)
	}
	if c.Angle.In > c.Angle.Out {
		return fmt.Errorf("angle: in band %.2f exceeds out band %.2f", c.Angle.In, c.Angle.Out)
	}
	if c.Size.InMin < c.Size.OutMin || c.Size.InMax > c.Size.OutMax {
		return fmt.Errorf("size: in band [%.2f, %.2f] not inside out band [%.2f, %.2f]",
			c.Size.InMin, c.Size.InMax, c.Size.OutMin, c.Size.OutMax)
	}
	return nil
}
