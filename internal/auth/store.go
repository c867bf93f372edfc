package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRecord is a users row including the password hash.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
}

// UserStore persists accounts. Lookups of unknown users return
// ErrUserNotFound; inserting a taken email returns ErrEmailTaken.
type UserStore interface {
	CreateUser(ctx context.Context, u UserRecord) error
	UserByEmail(ctx context.Context, email string) (UserRecord, error)
	UserByID(ctx context.Context, id string) (UserRecord, error)
}

type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) CreateUser(ctx context.Context, u UserRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password, display_name) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PGStore) UserByEmail(ctx context.Context, email string) (UserRecord, error) {
	return s.queryUser(ctx, `SELECT id, email, password, display_name FROM users WHERE email = $1`, email)
}

func (s *PGStore) UserByID(ctx context.Context, id string) (UserRecord, error) {
	return s.queryUser(ctx, `SELECT id, email, password, display_name FROM users WHERE id = $1`, id)
}

func (s *PGStore) queryUser(ctx context.Context, query string, arg string) (UserRecord, error) {
	var u UserRecord
	err := s.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
