package writer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/smartbet/internal/model"
)

const createPredictionsTable = `
CREATE TABLE IF NOT EXISTS predictions (
	run_id       UUID NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL,
	sport        TEXT NOT NULL,
	home_team    TEXT NOT NULL,
	away_team    TEXT NOT NULL,
	kickoff      TIMESTAMPTZ NOT NULL,
	home_win     DOUBLE PRECISION NOT NULL,
	draw         DOUBLE PRECISION NOT NULL,
	away_win     DOUBLE PRECISION NOT NULL,
	home_rating  DOUBLE PRECISION NOT NULL,
	away_rating  DOUBLE PRECISION NOT NULL,
	home_form    DOUBLE PRECISION NOT NULL,
	away_form    DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, sport, home_team, away_team)
)`

// WriterMetrics tracks writer performance.
type WriterMetrics struct {
	Runs      int64
	Inserts   int64
	Conflicts int64
	Errors    int64
}

// PredictionWriter appends prediction runs to the predictions table.
type PredictionWriter struct {
	db     *pgxpool.Pool
	logger *slog.Logger

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewPredictionWriter creates a writer on an open pool.
func NewPredictionWriter(db *pgxpool.Pool, logger *slog.Logger) *PredictionWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionWriter{db: db, logger: logger}
}

// Migrate creates the predictions table if it does not exist.
func (w *PredictionWriter) Migrate(ctx context.Context) error {
	if _, err := w.db.Exec(ctx, createPredictionsTable); err != nil {
		return fmt.Errorf("create predictions: %w", err)
	}
	return nil
}

// Stats returns current metrics.
func (w *PredictionWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// HandleRun writes every entry of run in one batch.
func (w *PredictionWriter) HandleRun(ctx context.Context, run *model.PredictionRun) error {
	if len(run.Entries) == 0 {
		return nil
	}

	rows := make([]predictionRow, len(run.Entries))
	for i, e := range run.Entries {
		rows[i] = w.transform(run, e)
	}

	start := time.Now()
	conflicts, err := w.batchInsert(ctx, rows)
	if err != nil {
		w.mu.Lock()
		w.metrics.Errors++
		w.mu.Unlock()
		return fmt.Errorf("insert predictions: %w", err)
	}

	w.mu.Lock()
	w.metrics.Runs++
	w.metrics.Inserts += int64(len(rows) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.mu.Unlock()

	w.logger.Debug("logged predictions",
		"run_id", run.ID,
		"count", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// predictionRow is one row of the predictions table.
type predictionRow struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	Sport       string
	HomeTeam    string
	AwayTeam    string
	Kickoff     time.Time
	HomeWin     float64
	Draw        float64
	AwayWin     float64
	HomeRating  float64
	AwayRating  float64
	HomeForm    float64
	AwayForm    float64
}

// transform converts a run entry to a predictionRow.
func (w *PredictionWriter) transform(run *model.PredictionRun, e model.Entry) predictionRow {
	p := e.Prediction
	sport := e.Fixture.Sport
	if sport == "" {
		sport = p.Sport
	}
	return predictionRow{
		RunID:       run.ID,
		GeneratedAt: run.GeneratedAt.UTC(),
		Sport:       sport,
		HomeTeam:    e.Fixture.Home,
		AwayTeam:    e.Fixture.Away,
		Kickoff:     e.Fixture.Kickoff.UTC(),
		HomeWin:     p.HomeWin,
		Draw:        p.Draw,
		AwayWin:     p.AwayWin,
		HomeRating:  p.HomeRating,
		AwayRating:  p.AwayRating,
		HomeForm:    p.HomeForm,
		AwayForm:    p.AwayForm,
	}
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *PredictionWriter) batchInsert(ctx context.Context, rows []predictionRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO predictions (run_id, generated_at, sport, home_team, away_team, kickoff,
				home_win, draw, away_win, home_rating, away_rating, home_form, away_form)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (run_id, sport, home_team, away_team) DO NOTHING
		`, r.RunID, r.GeneratedAt, r.Sport, r.HomeTeam, r.AwayTeam, r.Kickoff,
			r.HomeWin, r.Draw, r.AwayWin, r.HomeRating, r.AwayRating, r.HomeForm, r.AwayForm)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
