package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"bestbosses/internal/profile"
	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
	txcontext "bestbosses/pkg/platform/tx"
)

// PostgresStore persists profiles in PostgreSQL. Writes issued inside a
// lifecycle transaction pick the transaction up from context.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, email, linkedin_profile, has_approved_nomination, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		p.UserID.String(), p.FirstName, p.LastName, p.Email, p.LinkedInProfile,
		p.HasApprovedNomination, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) ByUserID(ctx context.Context, userID id.UserID) (*profile.Profile, error) {
	query := `
		SELECT user_id, first_name, last_name, email, linkedin_profile, has_approved_nomination, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var row profile.Row
	err := s.execer(ctx).QueryRowContext(ctx, query, userID.String()).Scan(
		&row.UserID, &row.FirstName, &row.LastName, &row.Email, &row.LinkedInProfile,
		&row.HasApprovedNomination, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select profile: %w", err)
	}
	return profile.FromRow(row)
}

func (s *PostgresStore) SetHasApprovedNomination(ctx context.Context, userID id.UserID, value bool, now time.Time) error {
	query := `
		UPDATE profiles
		SET has_approved_nomination = $2, updated_at = $3
		WHERE user_id = $1
	`
	result, err := s.execer(ctx).ExecContext(ctx, query, userID.String(), value, now)
	if err != nil {
		return fmt.Errorf("update profile access flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile access flag: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
