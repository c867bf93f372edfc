// Package shape defines the drawable shapes of a scene (lines, squares and
// polygons), the vertices they hand to the renderer, and their XML element
// form.
package shape

import (
	"errors"
	"fmt"

	"github.com/rzkyif/webgl2d/internal/geom"
)

// DefaultColor is used for new shapes and for elements without a color.
const DefaultColor = "#555555"

// ErrMalformedShape is returned when an element is missing a required
// attribute or carries one that cannot be parsed.
var ErrMalformedShape = errors.New("malformed shape")

// Kind identifies a shape variant.
type Kind int

const (
	KindLine Kind = iota + 1
	KindSquare
	KindPolygon
)

// String returns the XML tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindSquare:
		return "square"
	case KindPolygon:
		return "polygon"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindForTag maps an XML tag to a kind. Tags are case-sensitive.
func KindForTag(tag string) (Kind, bool) {
	switch tag {
	case "line":
		return KindLine, true
	case "square":
		return KindSquare, true
	case "polygon":
		return KindPolygon, true
	}
	return 0, false
}

// Primitive tells the renderer how to connect a vertex list.
type Primitive int

const (
	PrimitivePoints Primitive = iota
	PrimitiveLines
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
)

func (p Primitive) String() string {
	switch p {
	case PrimitivePoints:
		return "points"
	case PrimitiveLines:
		return "lines"
	case PrimitiveTriangleStrip:
		return "triangle-strip"
	case PrimitiveTriangleFan:
		return "triangle-fan"
	default:
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
}

// MarshalText lets primitives appear by name in JSON frames.
func (p Primitive) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Shape is implemented by *Line, *Square and *Polygon only.
type Shape interface {
	Kind() Kind
	Color() string
	SetColor(hex string) error

	// Vertices returns x,y pairs in the order Primitive expects.
	Vertices() []float64
	Primitive() Primitive
	VertexCount() int

	// Handles are the draggable vertices, in a fixed order per kind.
	Handles() []geom.Point
	// HitBody reports whether p touches the shape itself. tolerance only
	// matters for shapes without area.
	HitBody(p geom.Point, tolerance float64) bool
	Translate(dx, dy float64)
	Bounds() geom.Rect

	Node() Node

	sealed()
}

// style carries the color shared by every variant.
type style struct {
	color string
}

func newStyle() style { return style{color: DefaultColor} }

func (s *style) Color() string { return s.color }

// SetColor accepts #RGB or #RRGGBB and stores the 6-digit form.
func (s *style) SetColor(hex string) error {
	full, err := geom.NormalizeHex(hex)
	if err != nil {
		return err
	}
	s.color = full
	return nil
}

func (*style) sealed() {}

// flatten turns points into an x,y float list.
func flatten(points []geom.Point) []float64 {
	out := make([]float64, 0, len(points)*2)
	for _, p := range points {
		out = append(out, p.X, p.Y)
	}
	return out
}
