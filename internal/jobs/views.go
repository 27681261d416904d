package jobs

import (
	"github.com/nulzo/inference-gateway/internal/store/model"
	"github.com/nulzo/inference-gateway/pkg/api"
)

func BatchCreated(job *model.Job) api.BatchCreated {
	return api.BatchCreated{
		ID:                  job.ID,
		BatchID:             job.ID,
		Status:              string(job.Status),
		TotalItems:          job.Payload.Batch.TotalItems,
		EstimatedCompletion: job.EstimatedCompletion,
		EstimatedCostUSD:    job.EstimatedCostUSD,
	}
}

func TrainingCreated(job *model.Job) api.TrainingCreated {
	return api.TrainingCreated{
		ID:                  job.ID,
		Status:              string(job.Status),
		Model:               job.Model,
		CreatedAt:           job.CreatedAt,
		EstimatedCostUSD:    job.EstimatedCostUSD,
		EstimatedCompletion: job.EstimatedCompletion,
	}
}

func BatchView(job *model.Job) api.BatchStatus {
	out := api.BatchStatus{
		ID:                  job.ID,
		BatchID:             job.ID,
		Status:              string(job.Status),
		Model:               job.Model,
		Progress:            job.Progress,
		CreatedAt:           job.CreatedAt,
		EstimatedCompletion: job.EstimatedCompletion,
		CompletedAt:         job.Payload.FinishedAt,
		EstimatedCostUSD:    job.EstimatedCostUSD,
		CallbackURL:         job.CallbackURL,
	}
	if b := job.Payload.Batch; b != nil {
		out.Priority = b.Priority
		out.TotalItems = b.TotalItems
		out.CompletedItems = b.CompletedItems
		out.FailedItems = b.FailedItems
		for _, r := range b.Results {
			out.Results = append(out.Results, api.BatchResult(r))
		}
	}
	return out
}

func TrainingView(job *model.Job) api.TrainingJob {
	out := api.TrainingJob{
		ID:                  job.ID,
		Status:              string(job.Status),
		Model:               job.Model,
		Progress:            job.Progress,
		CreatedAt:           job.CreatedAt,
		EstimatedCompletion: job.EstimatedCompletion,
		CompletedAt:         job.Payload.FinishedAt,
		EstimatedCostUSD:    job.EstimatedCostUSD,
		CallbackURL:         job.CallbackURL,
		Error:               job.Error,
	}
	if t := job.Payload.Training; t != nil {
		out.Dataset = t.Dataset
		out.Config = api.TrainingConfig{
			Epochs:       t.Epochs,
			LearningRate: t.LearningRate,
			BatchSize:    t.BatchSize,
			LoraRank:     t.LoraRank,
		}
		out.Hardware = api.TrainingHardware{
			GPUType:      t.GPUType,
			GPUCount:     t.GPUCount,
			MaxBudgetUSD: t.MaxBudgetUSD,
		}
		out.CurrentEpoch = t.CurrentEpoch
		out.TotalEpochs = t.Epochs
		out.ETASeconds = t.ETASeconds
	}
	return out
}
