package annotation

import (
	"seehuhn.de/go/geom/vec"
)

// EraserRadius is the distance, in page pixels, within which an eraser
// gesture touches a stroke vertex.
const EraserRadius = 10.0

// Point is a position in page-local pixels, at the scale the page was
// rendered when the annotation was captured. Coordinates are never rescaled
// when the page is later rendered at another zoom level.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) vec() vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies in r. Edges are inside.
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X <= r.X+r.Width &&
		r.Y <= p.Y && p.Y <= r.Y+r.Height
}

// Path is one freehand stroke.
type Path struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
}

// Near reports whether p is within radius of one of the path vertices.
//
// Only vertices are tested, not the segments between them: a sparsely
// sampled long straight stroke can be missed in its middle.
func (s Path) Near(p Point, radius float64) bool {
	for _, v := range s.Points {
		if v.vec().Sub(p.vec()).Length() <= radius {
			return true
		}
	}
	return false
}
