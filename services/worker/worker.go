package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/temminks/fantastic-umbrella/internal/catalog"
	"github.com/temminks/fantastic-umbrella/internal/snapshot"
	"github.com/temminks/fantastic-umbrella/internal/source"
	"github.com/temminks/fantastic-umbrella/logger"
	"github.com/temminks/fantastic-umbrella/services/publisher"
)

// Worker drives the daily discovery cycle: sources, aggregation, merge with
// the previous snapshot, enrichment, persistence, publishing.
type Worker struct {
	ctx         context.Context
	sources     []source.Source
	enricher    *catalog.Enricher
	store       *snapshot.Store
	publisher   publisher.Publisher
	runInterval time.Duration
}

// NewWorker creates a new worker. The publisher may be nil, in which case
// newly discovered courses are not announced anywhere.
func NewWorker(
	ctx context.Context,
	sources []source.Source,
	enricher *catalog.Enricher,
	store *snapshot.Store,
	pub publisher.Publisher,
	runInterval time.Duration,
) *Worker {
	return &Worker{
		ctx:         ctx,
		sources:     sources,
		enricher:    enricher,
		store:       store,
		publisher:   pub,
		runInterval: runInterval,
	}
}

// Start runs the pipeline once per interval until the context is canceled
func (w *Worker) Start() error {
	log := logger.ForWorker()
	for {
		start := time.Now()
		if err := w.RunOnce(); err != nil {
			log.Error().Err(err).Msg("Run failed")
		} else {
			log.Info().Dur("elapsed", time.Since(start)).Msg("Run finished")
		}

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-time.After(w.runInterval):
		}
	}
}

// RunOnce executes one full pipeline run. Failing sources are reported and
// skipped; a failing enrichment batch aborts the run.
func (w *Worker) RunOnce() error {
	candidates := w.collectCandidates()

	previous, err := w.store.LatestLinks()
	if err != nil {
		return fmt.Errorf("snapshot merge stage: %w", err)
	}
	merged := source.Union(candidates, previous)

	records, err := w.enricher.Enrich(w.ctx, merged)
	if err != nil {
		return fmt.Errorf("enrichment stage: %w", err)
	}

	path, err := w.store.Write(time.Now(), records)
	if err != nil {
		return fmt.Errorf("snapshot write stage: %w", err)
	}

	logger.ForWorker().Info().
		Int("candidates", merged.Len()).
		Int("courses", len(records)).
		Str("snapshot", path).
		Msg("Snapshot written")

	w.publishNew(records, previous)
	return nil
}

// collectCandidates invokes every source sequentially and unions the
// results. A failed source costs completeness, not the run, so the failure
// is logged rather than returned.
func (w *Worker) collectCandidates() source.CourseSet {
	sets := make([]source.CourseSet, 0, len(w.sources))
	for _, s := range w.sources {
		log := logger.ForSource(s.GetName())

		courses, err := s.FetchCourses(w.ctx)
		if err != nil {
			log.Error().Err(err).Msg("Source failed, continuing without it")
			continue
		}

		log.Info().Msg(s.Summary())
		sets = append(sets, courses)
	}
	return source.Union(sets...)
}

// publishNew announces records whose link was absent from the previous
// snapshot
func (w *Worker) publishNew(records []catalog.Record, previous source.CourseSet) {
	if w.publisher == nil {
		return
	}
	log := logger.ForPublisher()

	published := 0
	for _, record := range records {
		if previous.Contains(record.Link) {
			continue
		}

		data, err := json.Marshal(record)
		if err != nil {
			log.Error().Err(err).Str("link", record.Link).Msg("Failed to marshal record")
			continue
		}
		if err := w.publisher.Publish(data); err != nil {
			log.Error().Err(err).Str("link", record.Link).Msg("Failed to publish record")
			continue
		}
		published++
	}

	if err := w.publisher.TrimStream(); err != nil {
		log.Error().Err(err).Msg("Failed to trim stream")
	}

	log.Info().Int("published", published).Msg("Announced new courses")
}
