package detection

import (
	"image"
	"math"

	"github.com/ironsheep/docscan/internal/geometry"
	"github.com/ironsheep/docscan/internal/imaging"
	"github.com/sirupsen/logrus"
)

// Candidate is a quadrilateral that passed every filter of a pass.
type Candidate struct {
	Quad     geometry.Quad `json:"quad"`
	AreaFrac float64       `json:"area_frac"`
	Solidity float64       `json:"solidity"`
	AngleDev float64       `json:"angle_dev"`
	Aspect   float64       `json:"aspect"`
	Score    float64       `json:"score"`
}

// PassStats reports what one pass saw.
type PassStats struct {
	Name       string             `json:"name"`
	Thresholds imaging.Thresholds `json:"thresholds"`
	Components int                `json:"components"`
	External   int                `json:"external"`
	FourSided  int                `json:"four_sided"`
	Accepted   int                `json:"accepted"`
}

// Stats reports a full detection run. Matched names the pass that produced
// the result and is empty when nothing was found.
type Stats struct {
	Intensity imaging.IntensityStats `json:"intensity"`
	Passes    []PassStats            `json:"passes"`
	Matched   string                 `json:"matched,omitempty"`
	Best      *Candidate             `json:"best,omitempty"`
}

// Detector finds the document boundary in an analysis frame.
//
// A Detector holds no per-frame state and is safe for concurrent use.
type Detector struct {
	cfg Config
	log *logrus.Entry
}

// NewDetector creates a detector with the given configuration.
func NewDetector(cfg Config, log *logrus.Entry) *Detector {
	if cfg.Strict.Name == "" {
		cfg.Strict.Name = "strict"
	}
	if cfg.Loose.Name == "" {
		cfg.Loose.Name = "loose"
	}
	if cfg.MinContourPixels < 1 {
		cfg.MinContourPixels = 1
	}
	return &Detector{cfg: cfg, log: log}
}

// Detect returns the best-scoring document quad in img, in canonical order.
// The second result is false when no contour satisfies either pass; no
// fallback guess is ever returned.
func (d *Detector) Detect(img image.Image) (geometry.Quad, bool) {
	q, _, ok := d.DetectWithStats(img)
	return q, ok
}

// DetectWithStats is Detect plus per-pass diagnostics.
//
// The strict pass runs first. The loose pass runs only when the strict pass
// accepts nothing.
func (d *Detector) DetectWithStats(img image.Image) (geometry.Quad, Stats, bool) {
	var stats Stats

	b := img.Bounds()
	frameArea := float64(b.Dx() * b.Dy())
	if frameArea == 0 {
		return geometry.Quad{}, stats, false
	}

	field := imaging.Preprocess(img, d.cfg.BlurRadius)
	stats.Intensity = imaging.MeasureIntensity(field)

	for _, pass := range []Pass{d.cfg.Strict, d.cfg.Loose} {
		best, ps := d.runPass(field, pass, stats.Intensity.StdDev, frameArea)
		stats.Passes = append(stats.Passes, ps)
		if best != nil {
			stats.Matched = pass.Name
			stats.Best = best
			d.log.WithFields(logrus.Fields{
				"pass":  pass.Name,
				"score": best.Score,
				"area":  best.AreaFrac,
			}).Trace("document boundary found")
			return best.Quad, stats, true
		}
	}

	d.log.WithField("passes", len(stats.Passes)).Trace("no document boundary")
	return geometry.Quad{}, stats, false
}

func (d *Detector) runPass(field *imaging.Field, pass Pass, stddev, frameArea float64) (*Candidate, PassStats) {
	ps := PassStats{Name: pass.Name}
	ps.Thresholds = imaging.AdaptiveThresholds(stddev, pass.ThresholdBase)

	edges := imaging.Dilate(imaging.Canny(field, ps.Thresholds), d.cfg.DilateRadius)
	comps := findComponents(edges, d.cfg.MinContourPixels)
	ps.Components = len(comps)

	minArea := pass.MinAreaFrac * frameArea
	var best *Candidate

	for _, c := range comps {
		if !c.external {
			continue
		}
		ps.External++

		// The quad cannot be larger than its component's bounding box.
		if float64(c.bounds.Dx()*c.bounds.Dy()) < minArea {
			continue
		}

		hull := geometry.ConvexHull(c.points())
		poly := geometry.ApproxPolygon(hull, pass.Epsilon*geometry.Perimeter(hull))
		if len(poly) != 4 {
			continue
		}
		ps.FourSided++

		cand, ok := evaluate([4]geometry.Point{poly[0], poly[1], poly[2], poly[3]}, pass, frameArea)
		if !ok {
			continue
		}
		ps.Accepted++
		if best == nil || cand.Score > best.Score {
			found := cand
			best = &found
		}
	}

	return best, ps
}

// evaluate applies the pass filters to a 4-vertex polygon, in order, and
// scores it.
func evaluate(pts [4]geometry.Point, pass Pass, frameArea float64) (Candidate, bool) {
	// Area is only meaningful once the corners go around the outline.
	q := geometry.OrderQuad(pts)

	area := geometry.PolygonArea(q.Points())
	if area < pass.MinAreaFrac*frameArea {
		return Candidate{}, false
	}

	box := geometry.BoundingRect(q.Points())
	if box.Area() <= 0 {
		return Candidate{}, false
	}
	solidity := area / box.Area()
	if solidity < pass.MinSolidity {
		return Candidate{}, false
	}

	if !q.IsConvex() {
		return Candidate{}, false
	}

	dev := q.MaxRightAngleDeviation()
	if dev > pass.MaxAngleDev {
		return Candidate{}, false
	}

	ar := q.AspectRatio()
	if ar < pass.AspectMin || ar > pass.AspectMax {
		return Candidate{}, false
	}

	cand := Candidate{
		Quad:     q,
		AreaFrac: area / frameArea,
		Solidity: solidity,
		AngleDev: dev,
		Aspect:   ar,
	}
	cand.Score = Score(cand.AreaFrac, dev, ar, solidity)
	return cand, true
}

// Score is the ranking used to pick between accepted candidates. It grows
// with area and solidity and shrinks with corner skew and distance from the
// A4 ratio.
func Score(areaFrac, angleDev, aspect, solidity float64) float64 {
	return 1.2*areaFrac -
		0.8*(angleDev/30) -
		0.8*math.Abs(math.Log(aspect/math.Sqrt2)) +
		0.6*(solidity-0.7)
}
