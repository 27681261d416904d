package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type JobKind string

const (
	KindBatch    JobKind = "batch"
	KindTraining JobKind = "training"
)

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusRunning    JobStatus = "running"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Job is the persisted record of an asynchronous batch or training job.
// Kind-specific state lives in Payload, stored as a JSON column.
type Job struct {
	ID                  string    `db:"id" json:"id"`
	Kind                JobKind   `db:"kind" json:"kind"`
	Status              JobStatus `db:"status" json:"status"`
	Model               string    `db:"model" json:"model"`
	Progress            float64   `db:"progress" json:"progress"`
	EstimatedCostUSD    float64   `db:"estimated_cost_usd" json:"estimated_cost_usd"`
	CallbackURL         string    `db:"callback_url" json:"callback_url,omitempty"`
	Error               string    `db:"error" json:"error,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
	EstimatedCompletion time.Time `db:"estimated_completion" json:"estimated_completion"`
	Payload             Payload   `db:"payload" json:"payload"`
}

// Payload holds exactly one of Batch or Training, matching the job kind.
type Payload struct {
	Batch      *BatchPayload    `json:"batch,omitempty"`
	Training   *TrainingPayload `json:"training,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
}

// Value implements driver.Valuer.
func (p Payload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *Payload) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = Payload{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), p)
	case []byte:
		return json.Unmarshal(v, p)
	}
	return errors.New("model: unsupported payload column type")
}

type BatchPayload struct {
	Priority       string            `json:"priority"`
	Inputs         []json.RawMessage `json:"inputs"`
	TotalItems     int               `json:"total_items"`
	CompletedItems int               `json:"completed_items"`
	FailedItems    int               `json:"failed_items"`
	Results        []BatchResult     `json:"results,omitempty"`
}

type BatchResult struct {
	Index     int    `json:"index"`
	Status    string `json:"status"`
	OutputURL string `json:"output_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

type TrainingPayload struct {
	Dataset      string  `json:"dataset"`
	Epochs       int     `json:"epochs"`
	LearningRate float64 `json:"learning_rate"`
	BatchSize    int     `json:"batch_size"`
	LoraRank     int     `json:"lora_rank"`
	GPUType      string  `json:"gpu_type"`
	GPUCount     int     `json:"gpu_count"`
	MaxBudgetUSD float64 `json:"max_budget_usd"`
	CurrentEpoch int     `json:"current_epoch"`
	ETASeconds   int64   `json:"eta_seconds"`
}
