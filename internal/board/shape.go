package board

// ShapeKind discriminates the drawable entity variants carried on the wire
// and held in the store.
type ShapeKind string

const (
	KindLine    ShapeKind = "line"
	KindEllipse ShapeKind = "ellipse"
	KindText    ShapeKind = "text"
)

// Shape is a drawable entity. Shapes are immutable value snapshots: an edit
// replaces the whole shape under the same id, never patches fields in place.
type Shape interface {
	ShapeID() string
	Kind() ShapeKind
}

// Line is a freehand stroke. Points holds flattened x,y pairs in draw order.
type Line struct {
	ID          string    `json:"id"`
	Points      []float64 `json:"points"`
	Stroke      string    `json:"stroke"`
	StrokeWidth float64   `json:"strokeWidth"`
}

func (l Line) ShapeID() string { return l.ID }

func (Line) Kind() ShapeKind { return KindLine }

// Ellipse is centered at X,Y with per-axis radii.
type Ellipse struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	RadiusX     float64 `json:"radiusX"`
	RadiusY     float64 `json:"radiusY"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

func (e Ellipse) ShapeID() string { return e.ID }

func (Ellipse) Kind() ShapeKind { return KindEllipse }

// Text is a text label anchored at X,Y.
type Text struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
	Fill     string  `json:"fill"`
}

func (t Text) ShapeID() string { return t.ID }

func (Text) Kind() ShapeKind { return KindText }
