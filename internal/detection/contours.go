package detection

import (
	"image"

	"github.com/ironsheep/docscan/internal/geometry"
)

// component is one 8-connected group of edge pixels.
type component struct {
	pixels   []image.Point
	bounds   image.Rectangle
	external bool
}

// points converts the component pixels to geometry points.
func (c component) points() []geometry.Point {
	pts := make([]geometry.Point, len(c.pixels))
	for i, p := range c.pixels {
		pts[i] = geometry.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return pts
}

// findComponents groups edge pixels into 8-connected components and marks
// the external ones: components that touch the frame border or the
// background region reachable from it. Components enclosed by another
// closed outline (text printed on a document, for instance) are internal.
//
// Components smaller than minPixels are discarded as noise.
func findComponents(edges *image.Gray, minPixels int) []component {
	b := edges.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	isEdge := func(x, y int) bool {
		return edges.Pix[y*edges.Stride+x] != 0
	}

	outside := markOutside(width, height, isEdge)
	visited := make([]bool, width*height)
	var comps []component

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !isEdge(x, y) || visited[y*width+x] {
				continue
			}
			c := floodFill(x, y, width, height, isEdge, visited, outside)
			if len(c.pixels) >= minPixels {
				comps = append(comps, c)
			}
		}
	}
	return comps
}

// markOutside flags every non-edge pixel 4-connected to the frame border.
func markOutside(width, height int, isEdge func(x, y int) bool) []bool {
	outside := make([]bool, width*height)
	stack := make([]image.Point, 0, 2*(width+height))

	push := func(x, y int) {
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		i := y*width + x
		if outside[i] || isEdge(x, y) {
			return
		}
		outside[i] = true
		stack = append(stack, image.Point{X: x, Y: y})
	}

	for x := 0; x < width; x++ {
		push(x, 0)
		push(x, height-1)
	}
	for y := 0; y < height; y++ {
		push(0, y)
		push(width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}
	return outside
}

// floodFill collects the 8-connected edge component containing (startX, startY).
// Uses an explicit stack so large outlines cannot overflow the goroutine stack.
func floodFill(startX, startY, width, height int, isEdge func(x, y int) bool, visited, outside []bool) component {
	c := component{
		bounds: image.Rect(startX, startY, startX+1, startY+1),
	}
	stack := []image.Point{{X: startX, Y: startY}}
	visited[startY*width+startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c.pixels = append(c.pixels, p)
		c.bounds = c.bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

		if p.X == 0 || p.Y == 0 || p.X == width-1 || p.Y == height-1 {
			c.external = true
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				i := ny*width + nx
				if isEdge(nx, ny) {
					if !visited[i] {
						visited[i] = true
						stack = append(stack, image.Point{X: nx, Y: ny})
					}
				} else if outside[i] && (dx == 0 || dy == 0) {
					c.external = true
				}
			}
		}
	}
	return c
}
