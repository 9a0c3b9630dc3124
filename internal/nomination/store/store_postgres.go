package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bestbosses/internal/nomination"
	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
	txcontext "bestbosses/pkg/platform/tx"
)

const nominationColumns = `
	id, nominator_id, boss_first_name, boss_last_name, company, location,
	industry, function, email, linkedin_profile, review, status, created_at, updated_at
`

// PostgresStore persists nominations in PostgreSQL. Operations issued inside
// a lifecycle transaction pick the transaction up from context.
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

func (s *PostgresStore) Create(ctx context.Context, n *nomination.Nomination) error {
	query := `
		INSERT INTO nominations (` + nominationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		n.ID.String(), n.NominatorID.String(),
		n.Fields.BossFirstName, n.Fields.BossLastName, n.Fields.Company, n.Fields.Location,
		n.Fields.Industry, n.Fields.Function, n.Fields.Email, n.Fields.LinkedInProfile,
		n.Fields.Review, string(n.Status), n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert nomination: %w", err)
	}
	return nil
}

func (s *PostgresStore) ByID(ctx context.Context, nominationID id.NominationID) (*nomination.Nomination, error) {
	query := `SELECT ` + nominationColumns + ` FROM nominations WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, nominationID.String())
	n, err := scanNomination(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select nomination: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) ByNominator(ctx context.Context, nominatorID id.UserID) ([]*nomination.Nomination, error) {
	query := `SELECT ` + nominationColumns + ` FROM nominations WHERE nominator_id = $1 ORDER BY created_at DESC`
	return s.queryMany(ctx, query, nominatorID.String())
}

func (s *PostgresStore) List(ctx context.Context) ([]*nomination.Nomination, error) {
	query := `SELECT ` + nominationColumns + ` FROM nominations ORDER BY created_at DESC`
	return s.queryMany(ctx, query)
}

// UpdateStatus applies "set status where status is pending" in one statement.
// Concurrent moderator actions race on the WHERE clause; the loser gets
// sentinel.ErrInvalidState, never a silent overwrite.
func (s *PostgresStore) UpdateStatus(ctx context.Context, nominationID id.NominationID, next nomination.Status, now time.Time) (*nomination.Nomination, error) {
	query := `
		UPDATE nominations
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + nominationColumns
	row := s.execer(ctx).QueryRowContext(ctx, query, nominationID.String(), string(next), now)
	n, err := scanNomination(row)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update nomination status: %w", err)
	}

	// Disambiguate: missing row vs. non-pending row.
	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM nominations WHERE id = $1)`
	if err := s.execer(ctx).QueryRowContext(ctx, checkQuery, nominationID.String()).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check nomination existence: %w", err)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return nil, sentinel.ErrInvalidState
}

func (s *PostgresStore) queryMany(ctx context.Context, query string, args ...any) ([]*nomination.Nomination, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select nominations: %w", err)
	}
	defer rows.Close()

	var out []*nomination.Nomination
	for rows.Next() {
		n, err := scanNomination(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nomination: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nominations: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNomination(row rowScanner) (*nomination.Nomination, error) {
	var (
		rawID, rawNominator, rawStatus string
		n                              nomination.Nomination
	)
	err := row.Scan(
		&rawID, &rawNominator,
		&n.Fields.BossFirstName, &n.Fields.BossLastName, &n.Fields.Company, &n.Fields.Location,
		&n.Fields.Industry, &n.Fields.Function, &n.Fields.Email, &n.Fields.LinkedInProfile,
		&n.Fields.Review, &rawStatus, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if n.ID, err = id.ParseNominationID(rawID); err != nil {
		return nil, fmt.Errorf("nomination row has malformed id: %w", err)
	}
	if n.NominatorID, err = id.ParseUserID(rawNominator); err != nil {
		return nil, fmt.Errorf("nomination row has malformed nominator id: %w", err)
	}
	n.Status = nomination.Status(rawStatus)
	if !n.Status.Valid() {
		return nil, fmt.Errorf("nomination row has unknown status %q", rawStatus)
	}
	return &n, nil
}
