//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Schema is the full DDL for the service. Integration suites apply it to a
// fresh container; production deployments apply the same statements through
// their migration tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id                 UUID PRIMARY KEY,
	first_name              TEXT NOT NULL DEFAULT '',
	last_name               TEXT NOT NULL DEFAULT '',
	email                   TEXT NOT NULL,
	linkedin_profile        TEXT NOT NULL DEFAULT '',
	has_approved_nomination BOOLEAN NOT NULL DEFAULT FALSE,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS nominations (
	id               UUID PRIMARY KEY,
	boss_first_name  TEXT NOT NULL,
	boss_last_name   TEXT NOT NULL,
	company          TEXT NOT NULL,
	location         TEXT NOT NULL,
	industry         TEXT NOT NULL,
	function         TEXT NOT NULL,
	email            TEXT NOT NULL,
	linkedin_profile TEXT NOT NULL,
	review           TEXT NOT NULL,
	nominator_id     UUID NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_nominations_nominator ON nominations (nominator_id);
CREATE INDEX IF NOT EXISTS idx_nominations_created ON nominations (created_at DESC);

CREATE TABLE IF NOT EXISTS bosses (
	id               UUID PRIMARY KEY,
	first_name       TEXT NOT NULL,
	last_name        TEXT NOT NULL,
	company          TEXT NOT NULL,
	location         TEXT NOT NULL,
	industry         TEXT NOT NULL,
	function         TEXT NOT NULL,
	email            TEXT NOT NULL,
	linkedin_profile TEXT NOT NULL,
	review           TEXT NOT NULL,
	slug             TEXT NOT NULL UNIQUE,
	nomination_id    UUID NOT NULL UNIQUE,
	nominator_id     UUID NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_outbox (
	id           UUID PRIMARY KEY,
	type         TEXT NOT NULL,
	recipient    TEXT NOT NULL,
	data         JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_unpublished ON notification_outbox (created_at) WHERE published_at IS NULL;
`

// PostgresContainer wraps a testcontainers Postgres instance with the schema
// applied.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bestbosses"),
		tcpostgres.WithUsername("bestbosses"),
		tcpostgres.WithPassword("bestbosses"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		URL:       url,
		DB:        db,
	}
}

// Truncate clears all tables between tests.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx,
		`TRUNCATE profiles, nominations, bosses, notification_outbox`)
	return err
}
