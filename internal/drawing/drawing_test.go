package drawing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzkyif/webgl2d/internal/auth"
	"github.com/rzkyif/webgl2d/internal/document"
)

type memStore struct {
	mu     sync.Mutex
	rows   map[string]Record
	bodies map[string]string
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]Record{}, bodies: map[string]string{}}
}

func (m *memStore) Create(_ context.Context, rec Record, body string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.Version = 1
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	m.rows[rec.ID] = rec
	m.bodies[rec.ID] = body
	return rec, nil
}

func (m *memStore) Get(_ context.Context, id string) (Record, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[id]
	if !ok {
		return Record{}, "", ErrNotFound
	}
	return rec, m.bodies[id], nil
}

func (m *memStore) ListByOwner(_ context.Context, ownerID string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Record{}
	for _, rec := range m.rows {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id, name, body string, shapes int) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Name, rec.Shapes = name, shapes
	rec.Version++
	rec.UpdatedAt = time.Now()
	m.rows[id] = rec
	m.bodies[id] = body
	return rec, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	delete(m.bodies, id)
	return nil
}

type savedEvent struct {
	drawingID string
	version   int
	userID    string
}

type recordingPublisher struct {
	events []savedEvent
}

func (p *recordingPublisher) PublishSaved(drawingID string, version int, userID string) {
	p.events = append(p.events, savedEvent{drawingID, version, userID})
}

const squareDoc = `<shapes><square x="0" y="0" size="10" color="#abc"/></shapes>`

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := NewService(newMemStore(), pub)

	d, err := s.Create(ctx, "user_a", "  Sketch ", "")
	require.NoError(t, err)
	assert.Equal(t, "Sketch", d.Name)
	assert.Equal(t, 0, d.Shapes)
	assert.True(t, strings.HasPrefix(d.ID, "drw_"))

	_, body, err := s.Get(ctx, d.ID, "user_a")
	require.NoError(t, err)
	scene, err := document.ParseXML(body)
	require.NoError(t, err)
	assert.Equal(t, 0, scene.Len())

	saved, err := s.Save(ctx, d.ID, "user_a", "", squareDoc)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)
	assert.Equal(t, 1, saved.Shapes)
	assert.Equal(t, "Sketch", saved.Name)
	assert.Equal(t, []savedEvent{{d.ID, 2, "user_a"}}, pub.events)

	_, body, err = s.Get(ctx, d.ID, "user_a")
	require.NoError(t, err)
	assert.Contains(t, body, `color="#aabbcc"`)

	scene, err = s.Scene(ctx, d.ID, "user_a")
	require.NoError(t, err)
	assert.Equal(t, 1, scene.Len())

	list, err := s.List(ctx, "user_a")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, d.ID, "user_a"))
	_, _, err = s.Get(ctx, d.ID, "user_a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceRejects(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := NewService(newMemStore(), pub)

	_, err := s.Create(ctx, "user_a", " ", "")
	assert.ErrorIs(t, err, ErrInvalidDocument)
	_, err = s.Create(ctx, "user_a", "bad", `<shapes><line ax="1"/></shapes>`)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	d, err := s.Create(ctx, "user_a", "mine", squareDoc)
	require.NoError(t, err)

	_, _, err = s.Get(ctx, d.ID, "user_b")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Save(ctx, d.ID, "user_b", "", squareDoc)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, s.Delete(ctx, d.ID, "user_b"), ErrForbidden)
	assert.ErrorIs(t, s.CanView(ctx, d.ID, "user_b"), ErrForbidden)

	_, err = s.Save(ctx, d.ID, "user_a", "", `<shapes><polygon><point x="0" y="0"/></polygon></shapes>`)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, body, err := s.Get(ctx, d.ID, "user_a")
	require.NoError(t, err)
	assert.Contains(t, body, "<square", "failed save leaves the stored document alone")
	assert.Empty(t, pub.events)
}

func newTestRouter(s *Service, maxBytes int64) *mux.Router {
	h := NewHandler(s, maxBytes)
	withUser := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			next(w, r.WithContext(auth.WithUserID(r.Context(), r.Header.Get("X-Test-User"))))
		}
	}
	r := mux.NewRouter()
	r.HandleFunc("/api/drawings", withUser(h.List)).Methods("GET")
	r.HandleFunc("/api/drawings", withUser(h.Create)).Methods("POST")
	r.HandleFunc("/api/drawings/{drawingId}", withUser(h.Get)).Methods("GET")
	r.HandleFunc("/api/drawings/{drawingId}", withUser(h.Save)).Methods("PUT")
	r.HandleFunc("/api/drawings/{drawingId}", withUser(h.Delete)).Methods("DELETE")
	return r
}

func do(r http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-Test-User", user)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlers(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(NewService(store, nil), 256)

	rec := do(router, "POST", "/api/drawings", "user_a", `{"name":"first"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var id string
	for k := range store.rows {
		id = k
	}
	path := "/api/drawings/" + id

	rec = do(router, "PUT", path+"?name=renamed", "user_a", squareDoc)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"renamed"`)

	rec = do(router, "GET", path, "user_a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "2", rec.Header().Get("X-Drawing-Version"))
	assert.Contains(t, rec.Body.String(), "<shapes>")

	rec = do(router, "PUT", path, "user_a", "<nope/>")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, "PUT", path, "user_a", "<shapes>"+strings.Repeat(" ", 300)+"</shapes>")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(router, "GET", path, "user_b", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, "GET", "/api/drawings", "user_a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id)

	rec = do(router, "DELETE", path, "user_a", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, "GET", path, "user_a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
