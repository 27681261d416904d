package jobs

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nulzo/inference-gateway/internal/store/model"
	"github.com/nulzo/inference-gateway/pkg/api"
	"go.uber.org/zap"
)

// Training defaults applied to zero-valued request fields.
const (
	DefaultEpochs       = 3
	DefaultLearningRate = 2e-5
	DefaultBatchSize    = 8
	DefaultLoraRank     = 16
	DefaultGPUType      = "A100"
	DefaultGPUCount     = 1
	DefaultMaxBudgetUSD = 100.0
)

var TrainingExample = map[string]interface{}{
	"model":   "meta-llama/Llama-3.1-8B",
	"dataset": "s3://my-bucket/train.jsonl",
	"config":  map[string]interface{}{"epochs": DefaultEpochs, "learning_rate": DefaultLearningRate},
}

// CreateTraining validates req, applies defaults and records a queued job.
func (m *Manager) CreateTraining(ctx context.Context, req *api.TrainingRequest) (*model.Job, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, api.MissingField("model", "model is required", api.WithExample(TrainingExample))
	}
	if strings.TrimSpace(req.Dataset) == "" {
		return nil, api.MissingField("dataset", "dataset is required", api.WithExample(TrainingExample))
	}

	t := &model.TrainingPayload{
		Dataset:      req.Dataset,
		Epochs:       orInt(req.Config.Epochs, DefaultEpochs),
		LearningRate: orFloat(req.Config.LearningRate, DefaultLearningRate),
		BatchSize:    orInt(req.Config.BatchSize, DefaultBatchSize),
		LoraRank:     orInt(req.Config.LoraRank, DefaultLoraRank),
		GPUType:      req.Hardware.GPUType,
		GPUCount:     orInt(req.Hardware.GPUCount, DefaultGPUCount),
		MaxBudgetUSD: orFloat(req.Hardware.MaxBudgetUSD, DefaultMaxBudgetUSD),
	}
	if t.GPUType == "" {
		t.GPUType = DefaultGPUType
	}

	now := m.now()
	run := time.Duration(t.Epochs) * m.epochDuration(t.GPUCount)
	t.ETASeconds = seconds(m.opts.TrainingQueueDelay + run)

	job := &model.Job{
		ID:                  "job_" + m.newID(),
		Kind:                model.KindTraining,
		Status:              model.StatusQueued,
		Model:               req.Model,
		EstimatedCostUSD:    roundUSD(float64(t.Epochs*t.GPUCount) * m.opts.GPUEpochRateUSD),
		CallbackURL:         req.CallbackURL,
		CreatedAt:           now,
		UpdatedAt:           now,
		EstimatedCompletion: now.Add(m.opts.TrainingQueueDelay + run),
		Payload:             model.Payload{Training: t},
	}

	unlock := m.locks.lock(job.ID)
	defer unlock()
	if err := m.repo.Create(ctx, job); err != nil {
		return nil, api.InternalError("failed to create training job", err)
	}

	m.logger.Info("Training job created",
		zap.String("id", job.ID),
		zap.String("model", job.Model),
		zap.Int("epochs", t.Epochs),
		zap.Int("gpus", t.GPUCount),
		zap.Float64("estimated_cost_usd", job.EstimatedCostUSD),
	)
	return job, nil
}

// epochDuration splits the configured single-GPU epoch time across gpus.
func (m *Manager) epochDuration(gpus int) time.Duration {
	if gpus < 1 {
		gpus = 1
	}
	return m.opts.TrainingEpochDuration / time.Duration(gpus)
}

// affordableEpochs is how many epochs the budget pays for.
func (m *Manager) affordableEpochs(t *model.TrainingPayload) int {
	perEpoch := float64(t.GPUCount) * m.opts.GPUEpochRateUSD
	if perEpoch <= 0 {
		return t.Epochs
	}
	return int(math.Floor(t.MaxBudgetUSD/perEpoch + 1e-9))
}

// advanceTraining moves a training job forward to now: queued for the queue
// delay, then one epoch per epoch duration until done or out of budget.
func (m *Manager) advanceTraining(job *model.Job, now time.Time) bool {
	t := job.Payload.Training
	if t == nil || t.Epochs < 1 {
		return false
	}
	before := *t
	prevStatus, prevProgress := job.Status, job.Progress

	epoch := m.epochDuration(t.GPUCount)
	runTotal := time.Duration(t.Epochs) * epoch
	elapsed := now.Sub(job.CreatedAt)
	delay := m.opts.TrainingQueueDelay

	if elapsed < delay && job.Status == model.StatusQueued {
		t.ETASeconds = seconds(delay - elapsed + runTotal)
		return t.ETASeconds != before.ETASeconds
	}

	job.Status = model.StatusRunning
	run := elapsed - delay
	if run < 0 {
		run = 0
	}
	done := int(run / epoch)
	if done > t.Epochs {
		done = t.Epochs
	}

	if k := m.affordableEpochs(t); k < t.Epochs && done >= k {
		t.CurrentEpoch = max(t.CurrentEpoch, k)
		t.ETASeconds = 0
		job.Progress = math.Max(job.Progress, float64(k)/float64(t.Epochs))
		job.Status = model.StatusFailed
		job.Error = fmt.Sprintf("max_budget_usd $%.2f covers %d of %d epochs at $%.2f per epoch",
			t.MaxBudgetUSD, k, t.Epochs, float64(t.GPUCount)*m.opts.GPUEpochRateUSD)
		m.finish(job, job.CreatedAt.Add(delay+time.Duration(k)*epoch))
		return true
	}

	if done >= t.Epochs {
		t.CurrentEpoch = t.Epochs
		t.ETASeconds = 0
		job.Progress = 1
		job.Status = model.StatusCompleted
		m.finish(job, job.CreatedAt.Add(delay+runTotal))
		return true
	}

	t.CurrentEpoch = max(t.CurrentEpoch, done+1)
	t.ETASeconds = seconds(runTotal - run)
	job.Progress = math.Max(job.Progress, ratio(run, runTotal))

	return job.Status != prevStatus || job.Progress != prevProgress ||
		t.CurrentEpoch != before.CurrentEpoch || t.ETASeconds != before.ETASeconds
}

func (m *Manager) finish(job *model.Job, at time.Time) {
	job.Payload.FinishedAt = &at
	m.logger.Info("Training job finished",
		zap.String("id", job.ID),
		zap.String("status", string(job.Status)),
		zap.Int("epochs", job.Payload.Training.CurrentEpoch),
	)
}

func seconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(math.Ceil(d.Seconds()))
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
