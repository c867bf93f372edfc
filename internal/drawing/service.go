// Package drawing stores named shape documents per user.
package drawing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rzkyif/webgl2d/internal/document"
	"github.com/rzkyif/webgl2d/internal/typeid"
)

var (
	ErrNotFound        = errors.New("drawing not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidDocument = errors.New("invalid document")
)

const maxNameLength = 200

// Publisher is told about every successful save.
type Publisher interface {
	PublishSaved(drawingID string, version int, userID string)
}

type Service struct {
	store     Store
	publisher Publisher
}

func NewService(store Store, publisher Publisher) *Service {
	return &Service{store: store, publisher: publisher}
}

type Drawing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Shapes    int    `json:"shapes"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Create stores a new drawing. An empty body stores an empty scene.
func (s *Service) Create(ctx context.Context, ownerID, name, body string) (*Drawing, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	body, shapes, err := canonicalize(body)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Create(ctx, Record{
		ID:      typeid.NewDrawingID(),
		OwnerID: ownerID,
		Name:    name,
		Shapes:  shapes,
	}, body)
	if err != nil {
		return nil, fmt.Errorf("create drawing: %w", err)
	}
	return toDrawing(rec), nil
}

func (s *Service) Get(ctx context.Context, drawingID, userID string) (*Drawing, string, error) {
	rec, body, err := s.owned(ctx, drawingID, userID)
	if err != nil {
		return nil, "", err
	}
	return toDrawing(rec), body, nil
}

// Scene loads a stored drawing as a scene.
func (s *Service) Scene(ctx context.Context, drawingID, userID string) (*document.Scene, error) {
	_, body, err := s.owned(ctx, drawingID, userID)
	if err != nil {
		return nil, err
	}
	scene, err := document.ParseXML(body)
	if err != nil {
		return nil, fmt.Errorf("stored drawing %s: %w", drawingID, err)
	}
	return scene, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Drawing, error) {
	records, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	drawings := make([]Drawing, len(records))
	for i, rec := range records {
		drawings[i] = *toDrawing(rec)
	}
	return drawings, nil
}

// Save replaces the document, and the name when one is given, then
// notifies watchers.
func (s *Service) Save(ctx context.Context, drawingID, userID, name, body string) (*Drawing, error) {
	rec, _, err := s.owned(ctx, drawingID, userID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = rec.Name
	} else if name, err = cleanName(name); err != nil {
		return nil, err
	}
	body, shapes, err := canonicalize(body)
	if err != nil {
		return nil, err
	}

	rec, err = s.store.Update(ctx, drawingID, name, body, shapes)
	if err != nil {
		return nil, fmt.Errorf("save drawing: %w", err)
	}

	slog.Info("drawing saved", "drawing", drawingID, "version", rec.Version, "shapes", shapes)
	if s.publisher != nil {
		s.publisher.PublishSaved(drawingID, rec.Version, userID)
	}
	return toDrawing(rec), nil
}

func (s *Service) Delete(ctx context.Context, drawingID, userID string) error {
	if _, _, err := s.owned(ctx, drawingID, userID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, drawingID); err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	return nil
}

// CanView reports whether userID may watch the drawing.
func (s *Service) CanView(ctx context.Context, drawingID, userID string) error {
	_, _, err := s.owned(ctx, drawingID, userID)
	return err
}

func (s *Service) owned(ctx context.Context, drawingID, userID string) (Record, string, error) {
	if err := typeid.Validate(drawingID, typeid.PrefixDrawing); err != nil {
		return Record{}, "", ErrNotFound
	}
	rec, body, err := s.store.Get(ctx, drawingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, "", ErrNotFound
		}
		return Record{}, "", fmt.Errorf("get drawing: %w", err)
	}
	if rec.OwnerID != userID {
		return Record{}, "", ErrForbidden
	}
	return rec, body, nil
}

// canonicalize parses body with the editor's loader and returns it
// re-serialized, so stored documents always use 6-digit colors and only
// known elements.
func canonicalize(body string) (string, int, error) {
	scene := document.New()
	if strings.TrimSpace(body) != "" {
		var err error
		if scene, err = document.ParseXML(body); err != nil {
			return "", 0, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	text, err := scene.XML()
	if err != nil {
		return "", 0, fmt.Errorf("serialize drawing: %w", err)
	}
	return text, scene.Len(), nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidDocument)
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("%w: name longer than %d bytes", ErrInvalidDocument, maxNameLength)
	}
	return name, nil
}

func toDrawing(rec Record) *Drawing {
	return &Drawing{
		ID:        rec.ID,
		Name:      rec.Name,
		OwnerID:   rec.OwnerID,
		Shapes:    rec.Shapes,
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: rec.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
