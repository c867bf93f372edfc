// Package document holds the scene: the ordered list of shapes being
// edited, and its XML form.
package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rzkyif/webgl2d/internal/geom"
	"github.com/rzkyif/webgl2d/internal/shape"
	"github.com/rzkyif/webgl2d/internal/typeid"
)

// RootTag is the root element of a scene document.
const RootTag = "shapes"

// ErrMalformedDocument is returned when the text is not XML or its root is
// not <shapes>.
var ErrMalformedDocument = errors.New("malformed document")

// Entry is a shape together with the ID it was given when it entered the
// scene. IDs are not persisted; a reload hands out new ones.
type Entry struct {
	ID    string
	Shape shape.Shape
}

// Scene is an ordered sequence of shapes. Order is both draw order and
// hit-test priority: the first matching entry wins.
type Scene struct {
	entries []Entry
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Len returns the number of shapes.
func (s *Scene) Len() int { return len(s.entries) }

// At returns the i-th entry.
func (s *Scene) At(i int) Entry { return s.entries[i] }

// Entries returns the entries in order. The slice is a copy; the shapes
// are shared.
func (s *Scene) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Append adds a shape at the end and returns its ID.
func (s *Scene) Append(sh shape.Shape) string {
	id := typeid.NewShapeID()
	s.entries = append(s.entries, Entry{ID: id, Shape: sh})
	return id
}

// Lookup finds a shape by ID.
func (s *Scene) Lookup(id string) (shape.Shape, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e.Shape, true
		}
	}
	return nil, false
}

// Bounds returns the box around every vertex of every shape. ok is false
// for an empty scene.
func (s *Scene) Bounds() (r geom.Rect, ok bool) {
	var pts []geom.Point
	for _, e := range s.entries {
		b := e.Shape.Bounds()
		pts = append(pts, geom.Pt(b.X, b.Y), geom.Pt(b.X+b.Width, b.Y+b.Height))
	}
	if len(pts) == 0 {
		return geom.Rect{}, false
	}
	return geom.BoundsOf(pts), true
}

type sceneXML struct {
	XMLName xml.Name     `xml:"shapes"`
	Nodes   []shape.Node `xml:",any"`
}

// ParseXML decodes a whole document. Element order is kept. Unknown
// elements under the root are skipped; any malformed shape, or anything but
// whitespace, comments and processing instructions after the root, fails
// the whole parse so that callers never see a partial scene.
func ParseXML(text string) (*Scene, error) {
	var raw sceneXML
	d := xml.NewDecoder(strings.NewReader(text))
	if err := d.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if err := expectEnd(d); err != nil {
		return nil, err
	}

	scene := New()
	for i, n := range raw.Nodes {
		if _, ok := shape.KindForTag(n.XMLName.Local); !ok {
			slog.Debug("skipping unknown element", "tag", n.XMLName.Local, "index", i)
			continue
		}
		sh, err := shape.Decode(n)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		scene.Append(sh)
	}
	return scene, nil
}

func expectEnd(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		switch tok := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(tok)) != 0 {
				return fmt.Errorf("%w: text after </%s>", ErrMalformedDocument, RootTag)
			}
		default:
			return fmt.Errorf("%w: content after </%s>", ErrMalformedDocument, RootTag)
		}
	}
}

// XML encodes the scene in order under a <shapes> root.
func (s *Scene) XML() (string, error) {
	raw := sceneXML{Nodes: make([]shape.Node, len(s.entries))}
	for i, e := range s.entries {
		raw.Nodes[i] = e.Shape.Node()
	}

	out, err := xml.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal scene: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}
