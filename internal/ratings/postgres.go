package ratings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/smartbet/internal/elo"
)

const createRatingsTable = `
CREATE TABLE IF NOT EXISTS team_ratings (
	sport      TEXT NOT NULL,
	team       TEXT NOT NULL,
	rating     DOUBLE PRECISION NOT NULL,
	form       DOUBLE PRECISION[] NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (sport, team)
)`

// Postgres stores rating tables in the team_ratings table.
type Postgres struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewPostgres creates a persister on an open pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// Migrate creates team_ratings if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createRatingsTable); err != nil {
		return fmt.Errorf("create team_ratings: %w", err)
	}
	return nil
}

// Load reads every team of a sport.
func (p *Postgres) Load(ctx context.Context, sport string) (elo.Table, error) {
	rows, err := p.db.Query(ctx,
		`SELECT team, rating, form FROM team_ratings WHERE sport = $1`, sport)
	if err != nil {
		return nil, fmt.Errorf("query team_ratings: %w", err)
	}
	defer rows.Close()

	table := elo.Table{}
	for rows.Next() {
		var (
			team string
			rec  elo.Record
		)
		if err := rows.Scan(&team, &rec.Rating, &rec.Form); err != nil {
			return nil, fmt.Errorf("scan team_ratings: %w", err)
		}
		table[team] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read team_ratings: %w", err)
	}
	return table, nil
}

// Save replaces the sport's rows in one transaction.
func (p *Postgres) Save(ctx context.Context, sport string, table elo.Table) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM team_ratings WHERE sport = $1`, sport); err != nil {
		return fmt.Errorf("delete team_ratings: %w", err)
	}

	if len(table) > 0 {
		if err := p.insert(ctx, tx, sport, table); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (p *Postgres) insert(ctx context.Context, tx pgx.Tx, sport string, table elo.Table) error {
	updatedAt := p.now().UTC()

	batch := &pgx.Batch{}
	for team, rec := range table {
		form := rec.Form
		if form == nil {
			form = []float64{}
		}
		batch.Queue(`
			INSERT INTO team_ratings (sport, team, rating, form, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, sport, team, rec.Rating, form, updatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	for range table {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert team_ratings: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return nil
}
