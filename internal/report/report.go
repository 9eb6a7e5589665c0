package report

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"github.com/rickgao/smartbet/internal/config"
	"github.com/rickgao/smartbet/internal/model"
)

//go:embed templates/report.html.tmpl
var templates embed.FS

// Header timestamp layouts.
const (
	DateLayout    = "Monday, January 02, 2006"
	TimeLayout    = "03:04 PM UTC"
	stampLayout   = "2006-01-02 15:04:05 UTC"
	kickoffLayout = "15:04"
)

// Report renders runs to an HTML file.
type Report struct {
	path   string
	tmpl   *template.Template
	logger *slog.Logger
}

// New creates a Report writing to cfg.Path. A non-empty cfg.Template
// replaces the embedded template.
func New(cfg config.ReportConfig, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		tmpl *template.Template
		err  error
	)
	if cfg.Template != "" {
		tmpl, err = template.ParseFiles(cfg.Template)
	} else {
		tmpl, err = template.ParseFS(templates, "templates/report.html.tmpl")
	}
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}

	return &Report{path: cfg.Path, tmpl: tmpl, logger: logger}, nil
}

// Path returns the output file.
func (r *Report) Path() string {
	return r.path
}

// Render writes the page for run to w, followed by a last-updated comment.
func (r *Report) Render(w io.Writer, run *model.PredictionRun) error {
	if err := r.tmpl.Execute(w, newPage(run)); err != nil {
		return fmt.Errorf("execute report template: %w", err)
	}
	_, err := fmt.Fprintf(w, "\n<!-- Last updated: %s -->\n", run.GeneratedAt.UTC().Format(stampLayout))
	return err
}

// HandleRun renders run and atomically replaces the report file.
func (r *Report) HandleRun(_ context.Context, run *model.PredictionRun) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, run); err != nil {
		return err
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := renameio.WriteFile(r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	r.logger.Info("report written",
		"path", r.path,
		"matches", len(run.Entries),
		"bytes", buf.Len(),
	)
	return nil
}

// page is the template data.
type page struct {
	Date   string
	Time   string
	Sports []section
}

type section struct {
	Sport   string
	Title   string
	HasDraw bool
	Rows    []row
}

type row struct {
	Kickoff    string
	Home       string
	Away       string
	HomeWin    string
	Draw       string
	AwayWin    string
	Favourite  string // home, draw or away
	HasDraw    bool
	HomeRating string
	AwayRating string
	HomeForm   string
	AwayForm   string
	Odds       string
}

func newPage(run *model.PredictionRun) page {
	at := run.GeneratedAt.UTC()
	p := page{
		Date: at.Format(DateLayout),
		Time: at.Format(TimeLayout),
	}

	bySport := make(map[string][]model.Entry)
	for _, e := range run.Entries {
		bySport[e.Fixture.Sport] = append(bySport[e.Fixture.Sport], e)
	}
	sports := make([]string, 0, len(bySport))
	for sport := range bySport {
		sports = append(sports, sport)
	}
	sort.Strings(sports)

	for _, sport := range sports {
		s := section{Sport: sport, Title: title(sport)}
		for _, e := range bySport[sport] {
			r := newRow(e)
			s.HasDraw = s.HasDraw || r.HasDraw
			s.Rows = append(s.Rows, r)
		}
		for i := range s.Rows {
			s.Rows[i].HasDraw = s.HasDraw
		}
		p.Sports = append(p.Sports, s)
	}
	return p
}

func newRow(e model.Entry) row {
	pr := e.Prediction
	r := row{
		Kickoff:    e.Fixture.Kickoff.UTC().Format(kickoffLayout),
		Home:       e.Fixture.Home,
		Away:       e.Fixture.Away,
		HomeWin:    percent(pr.HomeWin),
		Draw:       percent(pr.Draw),
		AwayWin:    percent(pr.AwayWin),
		HasDraw:    pr.Draw > 0,
		HomeRating: fmt.Sprintf("%.0f", pr.HomeRating),
		AwayRating: fmt.Sprintf("%.0f", pr.AwayRating),
		HomeForm:   fmt.Sprintf("%.2f", pr.HomeForm),
		AwayForm:   fmt.Sprintf("%.2f", pr.AwayForm),
	}

	r.Favourite = "home"
	if pr.Draw > pr.HomeWin && pr.Draw >= pr.AwayWin {
		r.Favourite = "draw"
	} else if pr.AwayWin > pr.HomeWin {
		r.Favourite = "away"
	}

	if o := e.Odds; o != nil {
		prices := []string{fmt.Sprintf("%.2f", o.HomePrice)}
		if o.DrawPrice > 0 {
			prices = append(prices, fmt.Sprintf("%.2f", o.DrawPrice))
		}
		prices = append(prices, fmt.Sprintf("%.2f", o.AwayPrice))
		r.Odds = strings.Join(prices, " / ")
	}
	return r
}

func percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func title(sport string) string {
	if sport == "" {
		return ""
	}
	return strings.ToUpper(sport[:1]) + sport[1:]
}

// EnsureExists publishes an empty page when the report file is missing, so
// the site has something to serve before the first run completes.
func (r *Report) EnsureExists(ctx context.Context, now time.Time) error {
	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat report: %w", err)
	}
	r.logger.Info("report missing, writing placeholder", "path", r.path)
	return r.HandleRun(ctx, &model.PredictionRun{GeneratedAt: now.UTC()})
}
