package drawing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is a drawings row without its body.
type Record struct {
	ID        string
	OwnerID   string
	Name      string
	Shapes    int
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists drawings. Missing rows are reported as ErrNotFound.
type Store interface {
	Create(ctx context.Context, rec Record, body string) (Record, error)
	Get(ctx context.Context, id string) (Record, string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Record, error)
	// Update replaces name and body and bumps the version.
	Update(ctx context.Context, id, name, body string, shapes int) (Record, error)
	Delete(ctx context.Context, id string) error
}

type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const recordColumns = `id, owner_id, name, shapes, version, created_at, updated_at`

func scanRecord(row pgx.Row, extra ...any) (Record, error) {
	var r Record
	dest := append([]any{&r.ID, &r.OwnerID, &r.Name, &r.Shapes, &r.Version, &r.CreatedAt, &r.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return r, nil
}

func (s *PGStore) Create(ctx context.Context, rec Record, body string) (Record, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO drawings (id, owner_id, name, body, shapes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+recordColumns,
		rec.ID, rec.OwnerID, rec.Name, body, rec.Shapes)
	out, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("insert drawing: %w", err)
	}
	return out, nil
}

func (s *PGStore) Get(ctx context.Context, id string) (Record, string, error) {
	var body string
	row := s.pool.QueryRow(ctx, `SELECT `+recordColumns+`, body FROM drawings WHERE id = $1`, id)
	rec, err := scanRecord(row, &body)
	if err != nil {
		return Record{}, "", fmt.Errorf("get drawing: %w", err)
	}
	return rec, body, nil
}

func (s *PGStore) ListByOwner(ctx context.Context, ownerID string) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM drawings WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan drawing: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	return records, nil
}

func (s *PGStore) Update(ctx context.Context, id, name, body string, shapes int) (Record, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE drawings
		 SET name = $2, body = $3, shapes = $4, version = version + 1, updated_at = now()
		 WHERE id = $1
		 RETURNING `+recordColumns,
		id, name, body, shapes)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("update drawing: %w", err)
	}
	return rec, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drawings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
