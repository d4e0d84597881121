// Package harvest runs one-shot harvest cycles: invoke an adaptor, validate
// its candidates, persist the accepted ones in a batch, and advance the
// adaptor's harvest timestamp.
package harvest

import (
	"context"
	"fmt"
	"time"

	"github.com/aircast/hub/pkg/adaptor"
	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/intake"
	"github.com/aircast/hub/pkg/observability/metrics"
	"github.com/aircast/hub/pkg/request"
)

type RequestStore interface {
	CreateBatch(ctx context.Context, reqs []*request.Request) (int, error)
}

type HistoryStore interface {
	LastHarvest(ctx context.Context, adaptorName string) (time.Time, error)
	Record(ctx context.Context, adaptorName string, ts time.Time) error
}

type Publisher interface {
	PublishEvent(ctx context.Context, eventType, source string, data map[string]interface{}) error
}

type Result struct {
	Candidates int
	Accepted   int
	Rejected   int
	Saved      int
}

type Runner struct {
	validator *intake.Validator
	requests  RequestStore
	history   HistoryStore
	events    Publisher
	now       func() time.Time
}

func NewRunner(validator *intake.Validator, requests RequestStore, history HistoryStore, events Publisher) *Runner {
	return &Runner{
		validator: validator,
		requests:  requests,
		history:   history,
		events:    events,
		now:       time.Now,
	}
}

// Run executes one harvest cycle for the adaptor. Adaptor errors abort the
// cycle without advancing the harvest timestamp so the same window is
// retried next run. Validation rejections and persistence errors do not
// abort the cycle, and the timestamp is advanced unconditionally afterwards
// so stalled sources are not re-scanned from the beginning forever.
func (r *Runner) Run(ctx context.Context, a adaptor.Adaptor) (*Result, error) {
	info := a.Info()

	lastAccess, err := r.history.LastHarvest(ctx, info.Name)
	if err != nil {
		return nil, fmt.Errorf("looking up harvest history for %s: %w", info.Name, err)
	}

	candidates, err := a.GetRequests(ctx, lastAccess)
	if err != nil {
		return nil, fmt.Errorf("harvesting %s: %w", info.Name, err)
	}

	res := r.ingest(ctx, candidates)

	if err := r.history.Record(ctx, info.Name, r.now().UTC()); err != nil {
		logger.Log.WithError(err).WithField("adaptor", info.Name).Error("failed to record harvest timestamp")
	}

	metrics.ObserveHarvest(res.Accepted, res.Rejected, res.Saved)

	if r.events != nil {
		err := r.events.PublishEvent(ctx, "harvest.completed", info.Name, map[string]interface{}{
			"candidates": res.Candidates,
			"accepted":   res.Accepted,
			"rejected":   res.Rejected,
			"saved":      res.Saved,
		})
		if err != nil {
			logger.Log.WithError(err).Warn("failed to publish harvest event")
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"adaptor":  info.Name,
		"accepted": res.Accepted,
		"rejected": res.Rejected,
		"saved":    res.Saved,
	}).Info("harvest cycle completed")

	return res, nil
}

// Ingest validates candidates and persists the accepted ones in one batch.
// It is also used directly by hook-driven adaptors that bypass the cron
// cycle. A persistence failure is logged and reported as zero saved.
func (r *Runner) Ingest(ctx context.Context, candidates []intake.Candidate) (int, error) {
	res := r.ingest(ctx, candidates)
	metrics.ObserveHarvest(res.Accepted, res.Rejected, res.Saved)
	return res.Saved, nil
}

func (r *Runner) ingest(ctx context.Context, candidates []intake.Candidate) *Result {
	res := &Result{Candidates: len(candidates)}

	accepted := make([]*request.Request, 0, len(candidates))
	for _, c := range candidates {
		prepared, err := r.validator.Check(c)
		if err != nil {
			res.Rejected++
			logger.Log.WithError(err).WithFields(map[string]interface{}{
				"adaptor": c.AdaptorName,
				"kind":    intake.Kind(err),
			}).Warn("dropping invalid candidate")
			continue
		}
		accepted = append(accepted, request.New(prepared))
		res.Accepted++
	}

	saved, err := r.requests.CreateBatch(ctx, accepted)
	if err != nil {
		logger.Log.WithError(err).Error("failed to persist harvested requests")
		saved = 0
	}
	res.Saved = saved

	return res
}
