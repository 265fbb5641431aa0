package board

import "math"

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a selection rectangle. Width and Height are SIGNED: dragging up or
// left of the anchor produces negative values. This is the documented
// contract; consumers that need a normalized box must take absolute values.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EllipseParams derives an ellipse from the drag anchor and the current
// pointer position: the center is the midpoint, the radii the absolute
// per-axis distance from center to anchor.
func EllipseParams(anchor, current Point) (center Point, radiusX, radiusY float64) {
	center = Point{
		X: anchor.X + (current.X-anchor.X)/2,
		Y: anchor.Y + (current.Y-anchor.Y)/2,
	}
	radiusX = math.Abs(anchor.X - center.X)
	radiusY = math.Abs(anchor.Y - center.Y)
	return center, radiusX, radiusY
}

// SelectionRect builds the selection rectangle spanned by the anchor and the
// current pointer position, keeping the signed extent.
func SelectionRect(anchor, current Point) Rect {
	return Rect{
		X:      anchor.X,
		Y:      anchor.Y,
		Width:  current.X - anchor.X,
		Height: current.Y - anchor.Y,
	}
}
