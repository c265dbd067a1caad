package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/castor/internal/app/models"
)

// Source returns the raw catalog payload.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// Store is the read side of the course database used by a reconciliation run.
type Store interface {
	// ListCourses returns every stored course ordered by course number.
	ListCourses(ctx context.Context) ([]models.Course, error)
	// ListPrereqs returns the sorted prerequisite numbers of every course that has any.
	ListPrereqs(ctx context.Context) (map[int][]int, error)
}

// Result is the outcome of one reconciliation run.
type Result struct {
	RunID         uuid.UUID
	StartedAt     time.Time
	FinishedAt    time.Time
	Scraped       int
	Persisted     int
	Discrepancies []Discrepancy
}

// IssueCount returns the number of discrepancies found.
func (r *Result) IssueCount() int {
	return len(r.Discrepancies)
}

// Reconciler runs one catalog check: fetch, build, read the store, diff.
type Reconciler struct {
	rules  Rules
	source Source
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewReconciler creates a reconciler.
func NewReconciler(rules Rules, source Source, store Store, lgr zerolog.Logger) *Reconciler {
	return &Reconciler{
		rules:  rules,
		source: source,
		store:  store,
		logger: lgr,
		now:    time.Now,
	}
}

// Run performs a single reconciliation. Any fetch, parse or store failure
// aborts the run before a result is produced.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.New(), StartedAt: r.now()}
	lgr := r.logger.With().Str("run_id", res.RunID.String()).Logger()

	lgr.Info().Msg("Fetching course catalog...")
	payload, err := r.source.Fetch(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Catalog fetch failed")
		return nil, err
	}

	scraped, err := r.rules.Build([]byte(payload), lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Catalog payload could not be built")
		return nil, err
	}
	lgr.Info().Int("courses", len(scraped)).Msg("Catalog courses normalized")

	courses, err := r.store.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored courses: %w", err)
	}
	prereqs, err := r.store.ListPrereqs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored prerequisites: %w", err)
	}

	res.Discrepancies, _ = Diff(scraped, courses, prereqs)
	res.Scraped = len(scraped)
	res.Persisted = len(courses)
	res.FinishedAt = r.now()

	lgr.Info().
		Int("scraped", res.Scraped).
		Int("stored", res.Persisted).
		Int("issues", res.IssueCount()).
		Dur("elapsed", res.FinishedAt.Sub(res.StartedAt)).
		Msg("Catalog reconciliation complete")
	return res, nil
}
