package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/JakeFAU/forum-harvester/internal/extract"
	"github.com/JakeFAU/forum-harvester/internal/forum"
)

// PgxIface is the slice of pgxpool.Pool the provider actually uses,
// kept narrow so tests can substitute a mock pool.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresProvider implements Provider on PostgreSQL via pgx.
//
// Expected schema:
//
//	CREATE TABLE runs (
//	    id UUID PRIMARY KEY,
//	    seed TEXT NOT NULL,
//	    started_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE posts (
//	    run_id UUID REFERENCES runs(id),
//	    position INT NOT NULL,
//	    post_url TEXT NOT NULL,
//	    views INT, votes INT, title TEXT, excerpt TEXT, tags TEXT,
//	    post_date TIMESTAMPTZ, author TEXT, reputation INT, badges TEXT
//	);
//	CREATE TABLE question_details (
//	    run_id UUID REFERENCES runs(id),
//	    position INT NOT NULL,
//	    post_url TEXT NOT NULL,
//	    editor TEXT, edit_date TIMESTAMPTZ
//	);
//	CREATE TABLE answers (
//	    run_id UUID REFERENCES runs(id),
//	    position INT NOT NULL,
//	    post_url TEXT NOT NULL,
//	    answer_text TEXT, author TEXT, reputation TEXT, answered_date TEXT
//	);
//	CREATE TABLE comments (
//	    run_id UUID REFERENCES runs(id),
//	    position INT NOT NULL,
//	    post_url TEXT NOT NULL,
//	    comment_text TEXT, author TEXT, comment_date TEXT
//	);
type PostgresProvider struct {
	pool   PgxIface
	logger *zap.Logger
}

// NewPostgresProvider connects a pgx pool and pings it to fail fast on
// bad configuration.
func NewPostgresProvider(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresProvider, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresProvider{pool: pool, logger: logger}, nil
}

// NewPostgresProviderFromPool wraps an existing pool; tests inject a
// pgxmock pool here.
func NewPostgresProviderFromPool(pool PgxIface, logger *zap.Logger) *PostgresProvider {
	return &PostgresProvider{pool: pool, logger: logger}
}

// SaveDataset writes every table of the run in one transaction, rows in
// listing order.
func (p *PostgresProvider) SaveDataset(ctx context.Context, ds *forum.Dataset) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save run %s: %w", ds.RunID, err)
	}
	defer func() {
		if rerr := tx.Rollback(ctx); rerr != nil && rerr != pgx.ErrTxClosed {
			p.logger.Warn("Rollback failed", zap.Error(rerr))
		}
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO runs (id, seed, started_at) VALUES ($1, $2, $3)`,
		ds.RunID, ds.Seed, ds.StartedAt,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", ds.RunID, err)
	}

	for i, post := range ds.Posts {
		if _, err := tx.Exec(ctx,
			`INSERT INTO posts (run_id, position, post_url, views, votes, title, excerpt, tags, post_date, author, reputation, badges)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			ds.RunID, i, post.URL,
			nullInt(post.Views), nullInt(post.Votes),
			nullStr(post.Title), nullStr(post.Excerpt),
			joinedOrNull(post.Tags),
			nullTime(post.PostedAt),
			nullStr(post.Author), nullInt(post.Reputation),
			joinedOrNull(ds.Badges[i].Badges),
		); err != nil {
			return fmt.Errorf("insert post %s: %w", post.URL, err)
		}
	}

	for i, d := range ds.Details {
		if _, err := tx.Exec(ctx,
			`INSERT INTO question_details (run_id, position, post_url, editor, edit_date)
			 VALUES ($1, $2, $3, $4, $5)`,
			ds.RunID, i, d.PostURL, nullStr(d.Editor), nullTime(d.EditedAt),
		); err != nil {
			return fmt.Errorf("insert detail %s: %w", d.PostURL, err)
		}
	}

	for i, a := range ds.Answers {
		if _, err := tx.Exec(ctx,
			`INSERT INTO answers (run_id, position, post_url, answer_text, author, reputation, answered_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ds.RunID, i, a.PostURL, nullStr(a.Text),
			joinedOrNull(a.Authors), joinedInts(a.Reputations), joinedTimes(a.AnsweredAt),
		); err != nil {
			return fmt.Errorf("insert answers %s: %w", a.PostURL, err)
		}
	}

	for i, c := range ds.Comments {
		if _, err := tx.Exec(ctx,
			`INSERT INTO comments (run_id, position, post_url, comment_text, author, comment_date)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			ds.RunID, i, c.PostURL, nullStr(c.Text),
			joinedOrNull(c.Authors), joinedTimes(c.PostedAt),
		); err != nil {
			return fmt.Errorf("insert comments %s: %w", c.PostURL, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run %s: %w", ds.RunID, err)
	}
	return nil
}

// Close shuts down the connection pool.
func (p *PostgresProvider) Close() error {
	p.pool.Close()
	return nil
}

// Missing sentinels become SQL NULL; parallel per-answer sequences join
// into one display string at this boundary.

func nullStr(v extract.Value) any {
	if !v.Present() {
		return nil
	}
	return v.Str()
}

func nullInt(v extract.IntValue) any {
	if !v.Present() {
		return nil
	}
	return v.Int()
}

func nullTime(v extract.TimeValue) any {
	if !v.Present() {
		return nil
	}
	return v.Time()
}

func joinedOrNull(parts []string) any {
	if len(parts) == 0 {
		return nil
	}
	return strings.Join(parts, ", ")
}

func joinedInts(ns []int) any {
	if len(ns) == 0 {
		return nil
	}
	parts := make([]string, 0, len(ns))
	for _, n := range ns {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, ", ")
}

func joinedTimes(ts []time.Time) any {
	if len(ts) == 0 {
		return nil
	}
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, t.Format(time.RFC3339))
	}
	return strings.Join(parts, ", ")
}
