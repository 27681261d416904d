package api

import (
	"encoding/json"
	"time"
)

// BatchRequest creates a batch inference job.
type BatchRequest struct {
	Model       string            `json:"model"`
	Inputs      []json.RawMessage `json:"inputs"`
	Priority    string            `json:"priority,omitempty" binding:"omitempty,oneof=low normal high"`
	CallbackURL string            `json:"callback_url,omitempty" binding:"omitempty,url"`
}

type BatchCreated struct {
	ID                  string    `json:"id"`
	BatchID             string    `json:"batch_id"`
	Status              string    `json:"status"`
	TotalItems          int       `json:"total_items"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
	EstimatedCostUSD    float64   `json:"estimated_cost_usd"`
}

// TrainingRequest creates a fine-tuning job. Zero values fall back to defaults.
type TrainingRequest struct {
	Model       string           `json:"model"`
	Dataset     string           `json:"dataset"`
	Config      TrainingConfig   `json:"config"`
	Hardware    TrainingHardware `json:"hardware"`
	CallbackURL string           `json:"callback_url,omitempty" binding:"omitempty,url"`
}

type TrainingConfig struct {
	Epochs       int     `json:"epochs,omitempty" binding:"omitempty,min=1,max=100"`
	LearningRate float64 `json:"learning_rate,omitempty" binding:"omitempty,gt=0"`
	BatchSize    int     `json:"batch_size,omitempty" binding:"omitempty,min=1"`
	LoraRank     int     `json:"lora_rank,omitempty" binding:"omitempty,min=1"`
}

type TrainingHardware struct {
	GPUType      string  `json:"gpu_type,omitempty"`
	GPUCount     int     `json:"gpu_count,omitempty" binding:"omitempty,min=1,max=64"`
	MaxBudgetUSD float64 `json:"max_budget_usd,omitempty" binding:"omitempty,gt=0"`
}

type TrainingCreated struct {
	ID                  string    `json:"id"`
	Status              string    `json:"status"`
	Model               string    `json:"model"`
	CreatedAt           time.Time `json:"created_at"`
	EstimatedCostUSD    float64   `json:"estimated_cost_usd"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
}

// Cancelled is returned by every DELETE on a job resource, known id or not.
type Cancelled struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Status  string `json:"status"`
}

type BatchResult struct {
	Index     int    `json:"index"`
	Status    string `json:"status"`
	OutputURL string `json:"output_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchStatus is the polled view of a batch job.
type BatchStatus struct {
	ID                  string        `json:"id"`
	BatchID             string        `json:"batch_id"`
	Status              string        `json:"status"`
	Model               string        `json:"model"`
	Priority            string        `json:"priority"`
	TotalItems          int           `json:"total_items"`
	CompletedItems      int           `json:"completed_items"`
	FailedItems         int           `json:"failed_items"`
	Progress            float64       `json:"progress"`
	CreatedAt           time.Time     `json:"created_at"`
	EstimatedCompletion time.Time     `json:"estimated_completion"`
	CompletedAt         *time.Time    `json:"completed_at,omitempty"`
	EstimatedCostUSD    float64       `json:"estimated_cost_usd"`
	CallbackURL         string        `json:"callback_url,omitempty"`
	Results             []BatchResult `json:"results,omitempty"`
}

// TrainingJob is the polled view of a fine-tuning job.
type TrainingJob struct {
	ID                  string           `json:"id"`
	Status              string           `json:"status"`
	Model               string           `json:"model"`
	Dataset             string           `json:"dataset"`
	Config              TrainingConfig   `json:"config"`
	Hardware            TrainingHardware `json:"hardware"`
	Progress            float64          `json:"progress"`
	CurrentEpoch        int              `json:"current_epoch"`
	TotalEpochs         int              `json:"total_epochs"`
	ETASeconds          int64            `json:"eta_seconds"`
	CreatedAt           time.Time        `json:"created_at"`
	EstimatedCompletion time.Time        `json:"estimated_completion"`
	CompletedAt         *time.Time       `json:"completed_at,omitempty"`
	EstimatedCostUSD    float64          `json:"estimated_cost_usd"`
	CallbackURL         string           `json:"callback_url,omitempty"`
	Error               string           `json:"error,omitempty"`
}
