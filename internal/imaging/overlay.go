package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ironsheep/docscan/internal/geometry"
	"github.com/lucasb-eyer/go-colorful"
)

// OverlayStyle controls how the live preview overlay is drawn.
type OverlayStyle struct {
	// GuideColor is the hex color of the dashed guide rectangle.
	GuideColor string `toml:"guide_color"`

	// PoorColor and GoodColor are the endpoints of the quad outline color
	// ramp. The outline is blended between them by alignment quality.
	PoorColor string `toml:"poor_color"`
	GoodColor string `toml:"good_color"`

	// LineWidth is the stroke width in pixels.
	LineWidth int `toml:"line_width"`

	// Dash and Gap are the dash pattern lengths for the guide, in pixels.
	Dash int `toml:"dash"`
	Gap  int `toml:"gap"`
}

// DefaultOverlayStyle returns a yellow dashed guide and a red-to-green
// outline ramp.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		GuideColor: "#FFD400",
		PoorColor:  "#FF3B30",
		GoodColor:  "#00FF00",
		LineWidth:  4,
		Dash:       10,
		Gap:        8,
	}
}

// RenderOverlay draws the guide rectangle and, when quad is non-nil, the
// detected document outline on a copy of img.
//
// Parameters:
//   - img: The display frame.
//   - guide: Guide rectangle in display pixels.
//   - quad: Detected boundary in display pixels, or nil when nothing was found.
//   - quality: Alignment quality in [0, 1]. 0 paints the outline with
//     PoorColor, 1 with GoodColor; values in between are blended in CIE-L*a*b*
//     space so the midpoint does not turn muddy brown.
//
// Invalid hex colors fall back to the default style's colors.
func RenderOverlay(img image.Image, guide geometry.Rect, quad *geometry.Quad, quality float64, style OverlayStyle) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	def := DefaultOverlayStyle()
	width := style.LineWidth
	if width <= 0 {
		width = def.LineWidth
	}

	guideColor := parseColor(style.GuideColor, def.GuideColor)
	corners := guide.Corners()
	for i := 0; i < 4; i++ {
		drawDashedLine(result, corners[i], corners[(i+1)%4], width, style.Dash, style.Gap, rgba(guideColor))
	}

	if quad != nil {
		poor := parseColor(style.PoorColor, def.PoorColor)
		good := parseColor(style.GoodColor, def.GoodColor)
		var outline color.RGBA
		switch {
		case quality <= 0:
			outline = rgba(poor)
		case quality >= 1:
			outline = rgba(good)
		default:
			outline = rgba(poor.BlendLab(good, quality).Clamped())
		}
		for i := 0; i < 4; i++ {
			drawDashedLine(result, quad[i], quad[(i+1)%4], width+1, 0, 0, outline)
		}
	}

	return result
}

// drawDashedLine strokes a line from a to b with a square brush. A
// non-positive dash draws a solid line.
func drawDashedLine(img *image.RGBA, a, b geometry.Point, width, dash, gap int, c color.RGBA) {
	length := a.Dist(b)
	if length == 0 {
		return
	}
	steps := int(math.Ceil(length))
	period := dash + gap
	half := width / 2

	for s := 0; s <= steps; s++ {
		if dash > 0 && period > 0 && s%period >= dash {
			continue
		}
		t := float64(s) / float64(steps)
		cx := int(math.Round(a.X + (b.X-a.X)*t))
		cy := int(math.Round(a.Y + (b.Y-a.Y)*t))
		for dy := -half; dy < width-half; dy++ {
			for dx := -half; dx < width-half; dx++ {
				p := image.Point{X: cx + dx, Y: cy + dy}
				if p.In(img.Rect) {
					img.SetRGBA(p.X, p.Y, c)
				}
			}
		}
	}
}

// parseColor parses a "#RRGGBB" string, falling back to def when invalid.
func parseColor(hex, def string) colorful.Color {
	if c, err := colorful.Hex(hex); err == nil {
		return c
	}
	c, _ := colorful.Hex(def)
	return c
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
