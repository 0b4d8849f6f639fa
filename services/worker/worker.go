package worker

import (
	"context"
	"time"

	"couponworker/config"
	"couponworker/helpers"
	"couponworker/internal/message"
	"couponworker/internal/scraper"
	"couponworker/pkg/errors"
	"couponworker/services/dedupe"
	"couponworker/services/notifier"

	"golang.org/x/time/rate"
)

// Worker runs the scrape-dedupe-notify pipeline on a fixed interval.
// At most one run is ever in flight: runs execute on the worker's own
// loop and a run must finish before the next tick is handled.
type Worker struct {
	ctx       context.Context
	source    scraper.CourseSource
	store     dedupe.Store
	notifier  notifier.Notifier
	rules     []config.CategoryRule
	logger    helpers.LoggerInterface
	interval  time.Duration
	sendPacer *rate.Limiter
}

// NewWorker creates a new worker. sendDelay is the fixed pacing
// between outbound notification sends.
func NewWorker(
	ctx context.Context,
	source scraper.CourseSource,
	store dedupe.Store,
	n notifier.Notifier,
	rules []config.CategoryRule,
	logger helpers.LoggerInterface,
	interval time.Duration,
	sendDelay time.Duration,
) *Worker {
	return &Worker{
		ctx:       ctx,
		source:    source,
		store:     store,
		notifier:  n,
		rules:     rules,
		logger:    logger,
		interval:  interval,
		sendPacer: rate.NewLimiter(rate.Every(sendDelay), 1),
	}
}

// Start runs one pipeline pass immediately, then one per interval,
// until the context is cancelled
func (w *Worker) Start() error {
	w.runOnce()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-ticker.C:
			w.runOnce()
		}
	}
}

// runOnce executes a single pipeline run. A listing render failure
// aborts the run with the store untouched; everything else degrades
// inside its own candidate or category.
func (w *Worker) runOnce() {
	start := time.Now()

	courses, err := w.source.FetchCourses(w.ctx)
	if err != nil {
		w.logger.LogError(w.source.GetName(), err)
		return
	}

	fresh := w.filterNew(courses)

	w.logger.LogInfo("scrape finished: %d listed, %d new, took %s",
		len(courses), len(fresh), time.Since(start).Round(time.Second))

	if err := w.store.Persist(); err != nil {
		w.logger.LogError("store", errors.NewCache("persist", "failed to persist dedupe store", err))
	}

	if len(fresh) > 0 {
		w.dispatch(fresh)
	}
}

// filterNew keeps only courses whose canonical URL has not been
// surfaced before and records every one of them, including any that
// later fall past the per-message bound
func (w *Worker) filterNew(courses []scraper.ResolvedCourse) []scraper.ResolvedCourse {
	var fresh []scraper.ResolvedCourse
	now := time.Now()

	for _, course := range courses {
		if !w.store.IsNew(course.CanonicalURL) {
			continue
		}
		w.store.Record(course.CanonicalURL, now)
		fresh = append(fresh, course)
	}

	return fresh
}

// dispatch composes and sends one batch per category with new courses,
// walking rules in declared order. A category without a resolved
// destination is skipped; a delivery failure only costs that category.
func (w *Worker) dispatch(fresh []scraper.ResolvedCourse) {
	grouped := message.GroupByCategory(fresh)

	for _, rule := range w.rules {
		courses := grouped[rule.Name]
		if len(courses) == 0 {
			continue
		}

		if rule.Destination == "" {
			w.logger.LogInfo("no destination configured for %s, skipping %d courses", rule.Name, len(courses))
			continue
		}

		batch := message.Compose(rule.Name, courses)

		if err := w.sendPacer.Wait(w.ctx); err != nil {
			return
		}

		if err := w.notifier.Send(rule.Destination, batch.Text); err != nil {
			w.logger.LogError("notifier", errors.NewNotify(rule.Name, "failed to send batch", err))
			continue
		}

		w.logger.LogInfo("sent %d %s courses to %s", len(batch.Courses), rule.Name, rule.Destination)
	}
}
