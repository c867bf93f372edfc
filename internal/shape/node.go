package shape

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/rzkyif/webgl2d/internal/geom"
)

// Node is a generic XML element: its tag, its attributes in document order,
// and its child elements. Character data is dropped.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Node     `xml:",any"`
}

// Attr returns the value of an unqualified attribute.
func (n Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// MarshalXML writes the node with its own tag, ignoring start.
func (n Node) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: n.XMLName.Local}, Attr: n.Attrs}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func newNode(tag string) Node {
	return Node{XMLName: xml.Name{Local: tag}}
}

func (n *Node) setFloat(name string, v float64) {
	n.Attrs = append(n.Attrs, xml.Attr{
		Name:  xml.Name{Local: name},
		Value: strconv.FormatFloat(v, 'f', -1, 64),
	})
}

func (n *Node) setString(name, v string) {
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: v})
}

func (n Node) float(name string) (float64, error) {
	raw, ok := n.Attr(name)
	if !ok {
		return 0, fmt.Errorf("%w: <%s> missing attribute %q", ErrMalformedShape, n.XMLName.Local, name)
	}
	// ParseFloat also takes Go literal forms; attributes are plain decimal.
	if strings.ContainsAny(raw, "_xX") {
		return 0, fmt.Errorf("%w: <%s> attribute %q is not a decimal number: %q", ErrMalformedShape, n.XMLName.Local, name, raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !geom.IsFinite(v) {
		return 0, fmt.Errorf("%w: <%s> attribute %q is not a number: %q", ErrMalformedShape, n.XMLName.Local, name, raw)
	}
	return v, nil
}

func (n Node) color() (string, error) {
	raw, ok := n.Attr("color")
	if !ok {
		return DefaultColor, nil
	}
	full, err := geom.NormalizeHex(raw)
	if err != nil {
		return "", fmt.Errorf("%w: <%s>: %w", ErrMalformedShape, n.XMLName.Local, err)
	}
	return full, nil
}

// Decode builds a shape from a <line>, <square> or <polygon> element.
// Unknown attributes and unknown child elements are ignored.
func Decode(n Node) (Shape, error) {
	kind, ok := KindForTag(n.XMLName.Local)
	if !ok {
		return nil, fmt.Errorf("%w: unknown element <%s>", ErrMalformedShape, n.XMLName.Local)
	}

	switch kind {
	case KindLine:
		return decodeLine(n)
	case KindSquare:
		return decodeSquare(n)
	case KindPolygon:
		return decodePolygon(n)
	}
	panic("unreachable")
}

func decodeLine(n Node) (*Line, error) {
	var vals [4]float64
	for i, name := range []string{"ax", "ay", "bx", "by"} {
		v, err := n.float(name)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	color, err := n.color()
	if err != nil {
		return nil, err
	}

	l := NewLine(vals[0], vals[1], vals[2], vals[3])
	l.color = color
	return l, nil
}

func decodeSquare(n Node) (*Square, error) {
	x, err := n.float("x")
	if err != nil {
		return nil, err
	}
	y, err := n.float("y")
	if err != nil {
		return nil, err
	}
	size, err := n.float("size")
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: <square> negative size %v", ErrMalformedShape, size)
	}
	color, err := n.color()
	if err != nil {
		return nil, err
	}

	s := NewSquare(x, y, size)
	s.color = color
	return s, nil
}

func decodePolygon(n Node) (*Polygon, error) {
	color, err := n.color()
	if err != nil {
		return nil, err
	}

	p := &Polygon{style: style{color: color}}
	for _, child := range n.Children {
		if child.XMLName.Local != "point" {
			continue
		}
		pt, err := decodePoint(child)
		if err != nil {
			return nil, err
		}
		p.Points = append(p.Points, pt)
	}

	if len(p.Points) < MinPolygonPoints {
		return nil, fmt.Errorf("%w: <polygon> has %d points, need at least %d",
			ErrMalformedShape, len(p.Points), MinPolygonPoints)
	}
	return p, nil
}

func decodePoint(n Node) (Point, error) {
	x, err := n.float("x")
	if err != nil {
		return Point{}, err
	}
	y, err := n.float("y")
	if err != nil {
		return Point{}, err
	}
	color, err := n.color()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y, Color: color}, nil
}

// Node encodes the line as <line ax ay bx by color/>.
func (l *Line) Node() Node {
	n := newNode("line")
	n.setFloat("ax", l.AX)
	n.setFloat("ay", l.AY)
	n.setFloat("bx", l.BX)
	n.setFloat("by", l.BY)
	n.setString("color", l.color)
	return n
}

// Node encodes the square as <square x y size color/>.
func (s *Square) Node() Node {
	n := newNode("square")
	n.setFloat("x", s.X)
	n.setFloat("y", s.Y)
	n.setFloat("size", s.Size)
	n.setString("color", s.color)
	return n
}

// Node encodes the polygon with one <point> child per vertex.
func (p *Polygon) Node() Node {
	n := newNode("polygon")
	n.setString("color", p.color)
	for _, pt := range p.Points {
		c := newNode("point")
		c.setFloat("x", pt.X)
		c.setFloat("y", pt.Y)
		color := pt.Color
		if color == "" {
			color = DefaultColor
		}
		c.setString("color", color)
		n.Children = append(n.Children, c)
	}
	return n
}
