package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"bestbosses/internal/boss"
	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
	txcontext "bestbosses/pkg/platform/tx"
)

const bossColumns = `
	id, nomination_id, nominator_id, first_name, last_name, company, location,
	industry, function, email, linkedin_profile, review, slug, created_at, updated_at
`

// PostgresStore persists materialized boss records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, b *boss.Boss) error {
	query := `
		INSERT INTO bosses (` + bossColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		b.ID.String(), b.NominationID.String(), b.NominatorID.String(),
		b.FirstName, b.LastName, b.Company, b.Location,
		b.Industry, b.Function, b.Email, b.LinkedInProfile, b.Review,
		b.Slug, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert boss: %w", err)
	}
	return nil
}

func (s *PostgresStore) BySlug(ctx context.Context, slug string) (*boss.Boss, error) {
	query := `SELECT ` + bossColumns + ` FROM bosses WHERE slug = $1`
	b, err := scanBoss(s.execer(ctx).QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select boss by slug: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) ByNominationID(ctx context.Context, nominationID id.NominationID) (*boss.Boss, error) {
	query := `SELECT ` + bossColumns + ` FROM bosses WHERE nomination_id = $1`
	b, err := scanBoss(s.execer(ctx).QueryRowContext(ctx, query, nominationID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select boss by nomination: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*boss.Boss, error) {
	query := `SELECT ` + bossColumns + ` FROM bosses ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select bosses: %w", err)
	}
	defer rows.Close()

	var out []*boss.Boss
	for rows.Next() {
		b, err := scanBoss(rows)
		if err != nil {
			return nil, fmt.Errorf("scan boss: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bosses: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoss(row rowScanner) (*boss.Boss, error) {
	var (
		rawID, rawNomination, rawNominator string
		b                                  boss.Boss
	)
	err := row.Scan(
		&rawID, &rawNomination, &rawNominator,
		&b.FirstName, &b.LastName, &b.Company, &b.Location,
		&b.Industry, &b.Function, &b.Email, &b.LinkedInProfile, &b.Review,
		&b.Slug, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if b.ID, err = id.ParseBossID(rawID); err != nil {
		return nil, fmt.Errorf("boss row has malformed id: %w", err)
	}
	if b.NominationID, err = id.ParseNominationID(rawNomination); err != nil {
		return nil, fmt.Errorf("boss row has malformed nomination id: %w", err)
	}
	if b.NominatorID, err = id.ParseUserID(rawNominator); err != nil {
		return nil, fmt.Errorf("boss row has malformed nominator id: %w", err)
	}
	return &b, nil
}
