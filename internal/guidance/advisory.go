package guidance

import "strings"

// Kind identifies the corrective action an Advisory asks for.
type Kind int

const (
	KindNone Kind = iota
	KindTiltRight
	KindTiltLeft
	KindMove
	KindCloser
	KindFarther
	KindHold
)

func (k Kind) String() string {
	switch k {
	case KindTiltRight:
		return "tilt-right"
	case KindTiltLeft:
		return "tilt-left"
	case KindMove:
		return "move"
	case KindCloser:
		return "closer"
	case KindFarther:
		return "farther"
	case KindHold:
		return "hold"
	default:
		return "none"
	}
}

// Direction is one axis of a move advisory.
type Direction int

const (
	Stay Direction = iota
	Left
	Right
	Up
	Down
)

func (d Direction) phrase() string {
	switch d {
	case Left:
		return "왼쪽으로"
	case Right:
		return "오른쪽으로"
	case Up:
		return "위로"
	case Down:
		return "아래로"
	default:
		return ""
	}
}

// Metrics are the smoothed alignment measurements of one tick.
type Metrics struct {
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Angle float64 `json:"angle"`
	Size  float64 `json:"size"`
}

// Advisory is the engine's decision for one tick.
type Advisory struct {
	Kind       Kind      `json:"kind"`
	Horizontal Direction `json:"horizontal,omitempty"`
	Vertical   Direction `json:"vertical,omitempty"`
	Metrics    Metrics   `json:"metrics"`

	// InBand reports whether every metric was inside its IN band.
	InBand bool `json:"in_band"`

	// Ready is the one-shot capture signal.
	Ready bool `json:"ready"`
}

// Key identifies the advisory for duplicate suppression. Two advisories
// with the same key say the same thing.
func (a Advisory) Key() string {
	switch a.Kind {
	case KindTiltRight:
		return "ANG_R"
	case KindTiltLeft:
		return "ANG_L"
	case KindMove:
		return "MOVE|" + a.Horizontal.phrase() + "|" + a.Vertical.phrase()
	case KindCloser:
		return "SIZE_NEAR"
	case KindFarther:
		return "SIZE_FAR"
	case KindHold:
		return "HOLD"
	default:
		return ""
	}
}

// Phrase returns the spoken Korean text for the advisory.
func (a Advisory) Phrase() string {
	switch a.Kind {
	case KindTiltRight:
		return "오른쪽으로 기울었습니다. 수평을 맞춰 주세요."
	case KindTiltLeft:
		return "왼쪽으로 기울었습니다. 수평을 맞춰 주세요."
	case KindMove:
		var parts []string
		if p := a.Vertical.phrase(); p != "" {
			parts = append(parts, p)
		}
		if p := a.Horizontal.phrase(); p != "" {
			parts = append(parts, p)
		}
		if len(parts) == 0 {
			return ""
		}
		return strings.Join(parts, ", ") + " 이동해 주세요."
	case KindCloser:
		return "더 가까이 가져가세요."
	case KindFarther:
		return "더 멀리 떨어뜨리세요."
	case KindHold:
		return "좋아요, 그대로 유지해 주세요."
	default:
		return ""
	}
}

// Quality maps the metrics to [0, 1] for the preview outline color:
// 1 when every metric is centered, 0 when any metric is at or beyond its
// OUT band.
func (a Advisory) Quality(cfg Config) float64 {
	q := 1.0
	worst := func(v, out float64) {
		if out <= 0 {
			return
		}
		r := 1 - abs(v)/out
		if r < q {
			q = r
		}
	}
	worst(a.Metrics.DX, cfg.Center.Out)
	worst(a.Metrics.DY, cfg.Center.Out)
	worst(a.Metrics.Angle, cfg.Angle.Out)
	if a.Metrics.Size < 1 {
		worst(1-a.Metrics.Size, 1-cfg.Size.OutMin)
	} else {
		worst(a.Metrics.Size-1, cfg.Size.OutMax-1)
	}
	if q < 0 {
		return 0
	}
	return q
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
