package jobs

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/internal/store"
	"github.com/nulzo/inference-gateway/internal/store/model"
	"github.com/nulzo/inference-gateway/pkg/api"
	"go.uber.org/zap"
)

// Defaults mirror the public pricing sheet.
const (
	DefaultBatchItemDuration     = 2 * time.Minute
	DefaultItemPriceUSD          = 0.001
	DefaultOutputBaseURL         = "https://storage.regraph.tech/batch"
	DefaultTrainingQueueDelay    = 30 * time.Second
	DefaultTrainingEpochDuration = 20 * time.Minute
	DefaultGPUEpochRateUSD       = 4.50

	DefaultListLimit = 20
	MaxListLimit     = 100
)

type Options struct {
	Stripes               int
	BatchItemDuration     time.Duration
	DefaultItemPriceUSD   float64
	OutputBaseURL         string
	TrainingQueueDelay    time.Duration
	TrainingEpochDuration time.Duration
	GPUEpochRateUSD       float64
}

func (o Options) withDefaults() Options {
	if o.BatchItemDuration <= 0 {
		o.BatchItemDuration = DefaultBatchItemDuration
	}
	if o.DefaultItemPriceUSD <= 0 {
		o.DefaultItemPriceUSD = DefaultItemPriceUSD
	}
	if o.OutputBaseURL == "" {
		o.OutputBaseURL = DefaultOutputBaseURL
	}
	if o.TrainingQueueDelay < 0 {
		o.TrainingQueueDelay = DefaultTrainingQueueDelay
	}
	if o.TrainingEpochDuration <= 0 {
		o.TrainingEpochDuration = DefaultTrainingEpochDuration
	}
	if o.GPUEpochRateUSD <= 0 {
		o.GPUEpochRateUSD = DefaultGPUEpochRateUSD
	}
	return o
}

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

type Option func(*Manager)

func WithClock(c Clock) Option {
	return func(m *Manager) { m.now = c }
}

// WithIDGenerator replaces the random id suffix generator.
func WithIDGenerator(f func() string) Option {
	return func(m *Manager) { m.newID = f }
}

// Manager owns the lifecycle of batch and training jobs. Jobs are bookkeeping
// records; their state advances from elapsed time whenever they are read.
type Manager struct {
	repo    store.JobRepository
	catalog *catalog.Catalog
	opts    Options
	locks   *stripedMutex
	now     Clock
	newID   func() string
	logger  *zap.Logger
}

func NewManager(repo store.JobRepository, cat *catalog.Catalog, opts Options, logger *zap.Logger, options ...Option) *Manager {
	opts = opts.withDefaults()
	m := &Manager{
		repo:    repo,
		catalog: cat,
		opts:    opts,
		locks:   newStripedMutex(opts.Stripes),
		now:     time.Now,
		newID:   func() string { return uuid.NewString()[:8] },
		logger:  logger,
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// ListResult is one page of jobs after their state has been advanced.
type ListResult struct {
	Jobs       []model.Job
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Get advances and returns one job of the given kind. Unknown ids, and ids of
// the other kind, are a 404 problem.
func (m *Manager) Get(ctx context.Context, kind model.JobKind, id string) (*model.Job, error) {
	unlock := m.locks.lock(id)
	defer unlock()

	job, err := m.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && job.Kind != kind) {
		return nil, notFound(kind, id)
	}
	if err != nil {
		return nil, api.InternalError("failed to load job", err)
	}

	if err := m.refresh(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// List returns one page of jobs of a kind, newest first.
func (m *Manager) List(ctx context.Context, kind model.JobKind, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	jobs, total, err := m.repo.List(ctx, store.ListFilter{Kind: kind, Page: page, Limit: limit})
	if err != nil {
		return nil, api.InternalError("failed to list jobs", err)
	}

	for i := range jobs {
		if err := m.refreshListed(ctx, &jobs[i]); err != nil {
			return nil, err
		}
	}

	return &ListResult{
		Jobs:       jobs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Cancel removes the job if it exists and is of the given kind. It succeeds for
// unknown and already-finished ids alike.
func (m *Manager) Cancel(ctx context.Context, kind model.JobKind, id string) (*api.Cancelled, error) {
	unlock := m.locks.lock(id)
	defer unlock()

	job, err := m.repo.Get(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, api.InternalError("failed to load job", err)
	case job.Kind == kind:
		if err := m.repo.Delete(ctx, id); err != nil {
			return nil, api.InternalError("failed to cancel job", err)
		}
		m.logger.Info("Job cancelled", zap.String("id", id), zap.String("kind", string(kind)),
			zap.String("previous_status", string(job.Status)))
	}

	message := "Batch cancelled successfully"
	if kind == model.KindTraining {
		message = "Training job cancelled successfully"
	}
	return &api.Cancelled{Message: message, ID: id, Status: string(model.StatusCancelled)}, nil
}

// refreshListed advances a job obtained from a listing. It re-reads the job
// under its stripe so a concurrent writer is not overwritten.
func (m *Manager) refreshListed(ctx context.Context, job *model.Job) error {
	unlock := m.locks.lock(job.ID)
	defer unlock()

	current, err := m.repo.Get(ctx, job.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return api.InternalError("failed to load job", err)
	}
	if err := m.refresh(ctx, current); err != nil {
		return err
	}
	*job = *current
	return nil
}

// refresh advances job to now and persists it when anything changed.
// The caller holds the job's stripe.
func (m *Manager) refresh(ctx context.Context, job *model.Job) error {
	if job.Status.Terminal() {
		return nil
	}

	now := m.now()
	var changed bool
	switch job.Kind {
	case model.KindBatch:
		changed = m.advanceBatch(job, now)
	case model.KindTraining:
		changed = m.advanceTraining(job, now)
	}
	if !changed {
		return nil
	}

	job.UpdatedAt = now
	if err := m.repo.Update(ctx, job); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// cancelled between list and refresh
			return nil
		}
		return api.InternalError("failed to update job", err)
	}
	return nil
}

func notFound(kind model.JobKind, id string) error {
	if kind == model.KindTraining {
		return api.NotFound("Training job " + id + " not found")
	}
	return api.NotFound("Batch " + id + " not found")
}

func roundUSD(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func ratio(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 1
	}
	r := float64(part) / float64(whole)
	return math.Max(0, math.Min(1, r))
}
