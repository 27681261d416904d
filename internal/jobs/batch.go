package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nulzo/inference-gateway/internal/store/model"
	"github.com/nulzo/inference-gateway/pkg/api"
	"go.uber.org/zap"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Multiplier scales the per-item duration.
func (p Priority) Multiplier() float64 {
	switch p {
	case PriorityHigh:
		return 0.5
	case PriorityLow:
		return 2
	}
	return 1
}

func parsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case "":
		return PriorityNormal, true
	case PriorityLow, PriorityNormal, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

var BatchExample = map[string]interface{}{
	"model":    "sdxl-turbo",
	"inputs":   []map[string]string{{"prompt": "a red cube"}, {"prompt": "a blue sphere"}},
	"priority": "normal",
}

// CreateBatch validates req and records a new batch job in the processing state.
func (m *Manager) CreateBatch(ctx context.Context, req *api.BatchRequest) (*model.Job, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, api.MissingField("model", "model is required", api.WithExample(BatchExample))
	}
	if len(req.Inputs) == 0 {
		return nil, api.MissingField("inputs", "inputs array is required and must not be empty",
			api.WithExample(BatchExample))
	}
	priority, ok := parsePriority(req.Priority)
	if !ok {
		return nil, api.ValidationError("priority must be one of low, normal, high",
			map[string]string{"priority": "must be one of low, normal, high"}, api.WithExample(BatchExample))
	}

	now := m.now()
	total := len(req.Inputs)
	duration := time.Duration(float64(total) * float64(m.opts.BatchItemDuration) * priority.Multiplier())

	job := &model.Job{
		ID:                  "batch_" + m.newID(),
		Kind:                model.KindBatch,
		Status:              model.StatusProcessing,
		Model:               req.Model,
		EstimatedCostUSD:    roundUSD(float64(total) * m.unitPrice(req.Model)),
		CallbackURL:         req.CallbackURL,
		CreatedAt:           now,
		UpdatedAt:           now,
		EstimatedCompletion: now.Add(duration),
		Payload: model.Payload{Batch: &model.BatchPayload{
			Priority:   string(priority),
			Inputs:     req.Inputs,
			TotalItems: total,
		}},
	}

	unlock := m.locks.lock(job.ID)
	defer unlock()
	if err := m.repo.Create(ctx, job); err != nil {
		return nil, api.InternalError("failed to create batch", err)
	}

	m.logger.Info("Batch created",
		zap.String("id", job.ID),
		zap.String("model", job.Model),
		zap.Int("items", total),
		zap.String("priority", string(priority)),
	)
	return job, nil
}

// unitPrice is the catalog price for one item of model, or the configured fallback.
func (m *Manager) unitPrice(modelID string) float64 {
	if m.catalog != nil {
		if d, ok := m.catalog.Lookup(modelID); ok {
			if p, ok := d.UnitPrice(); ok {
				return p
			}
		}
	}
	return m.opts.DefaultItemPriceUSD
}

// advanceBatch moves a batch forward to now. Items are processed in input order
// at a constant rate over the estimated duration.
func (m *Manager) advanceBatch(job *model.Job, now time.Time) bool {
	b := job.Payload.Batch
	if b == nil || b.TotalItems == 0 {
		return false
	}

	duration := job.EstimatedCompletion.Sub(job.CreatedAt)
	derived := int(math.Floor(float64(b.TotalItems) * ratio(now.Sub(job.CreatedAt), duration)))

	processed := b.CompletedItems + b.FailedItems
	if derived <= processed {
		return false
	}

	completed, failed := 0, 0
	for i := 0; i < derived; i++ {
		if itemError(b.Inputs[i]) != "" {
			failed++
		} else {
			completed++
		}
	}
	b.CompletedItems, b.FailedItems = completed, failed
	job.Progress = math.Max(job.Progress, float64(derived)/float64(b.TotalItems))

	if derived < b.TotalItems {
		return true
	}

	b.Results = make([]model.BatchResult, b.TotalItems)
	for i, in := range b.Inputs {
		if msg := itemError(in); msg != "" {
			b.Results[i] = model.BatchResult{Index: i, Status: "failed", Error: msg}
			continue
		}
		b.Results[i] = model.BatchResult{
			Index:     i,
			Status:    "success",
			OutputURL: fmt.Sprintf("%s/%s/output_%d.png", strings.TrimRight(m.opts.OutputBaseURL, "/"), job.ID, i),
		}
	}

	job.Progress = 1
	job.Status = model.StatusCompleted
	if failed == b.TotalItems {
		job.Status = model.StatusFailed
		job.Error = "all batch items failed"
	}
	finished := now
	job.Payload.FinishedAt = &finished

	m.logger.Info("Batch finished",
		zap.String("id", job.ID),
		zap.String("status", string(job.Status)),
		zap.Int("completed", completed),
		zap.Int("failed", failed),
	)
	return true
}

// itemError reports why an input cannot be processed, or "" when it can.
// Empty objects and blank prompts fail; other shapes pass through untouched.
func itemError(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "input is empty"
	}
	if trimmed[0] != '{' {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return "input is not valid JSON"
	}
	if len(fields) == 0 {
		return "input is empty"
	}
	if p, ok := fields["prompt"]; ok {
		var prompt string
		if err := json.Unmarshal(p, &prompt); err != nil || strings.TrimSpace(prompt) == "" {
			return "prompt must be a non-empty string"
		}
	}
	return ""
}
