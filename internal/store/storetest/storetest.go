// Package storetest holds the behaviour every store.JobRepository backend shares.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/nulzo/inference-gateway/internal/store"
	"github.com/nulzo/inference-gateway/internal/store/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func batchJob(id string, created time.Time) *model.Job {
	return &model.Job{
		ID:                  id,
		Kind:                model.KindBatch,
		Status:              model.StatusProcessing,
		Model:               "sdxl-turbo",
		EstimatedCostUSD:    0.006,
		CallbackURL:         "https://example.com/hook",
		CreatedAt:           created,
		UpdatedAt:           created,
		EstimatedCompletion: created.Add(4 * time.Minute),
		Payload: model.Payload{Batch: &model.BatchPayload{
			Priority:   "high",
			Inputs:     []json.RawMessage{json.RawMessage(`{"prompt":"a"}`), json.RawMessage(`{"prompt":"b"}`)},
			TotalItems: 2,
		}},
	}
}

func trainingJob(id string, created time.Time) *model.Job {
	return &model.Job{
		ID:                  id,
		Kind:                model.KindTraining,
		Status:              model.StatusQueued,
		Model:               "llama-3.1-8b",
		EstimatedCostUSD:    13.5,
		CreatedAt:           created,
		UpdatedAt:           created,
		EstimatedCompletion: created.Add(time.Hour),
		Payload: model.Payload{Training: &model.TrainingPayload{
			Dataset: "s3://bucket/data.jsonl", Epochs: 3, LearningRate: 2e-5,
			BatchSize: 8, LoraRank: 16, GPUType: "A100", GPUCount: 1, MaxBudgetUSD: 100,
		}},
	}
}

// Run exercises repo against the JobRepository contract. newRepo must return an empty store.
func Run(t *testing.T, newRepo func(t *testing.T) store.JobRepository) {
	t.Run("CreateGet", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, batchJob("batch_a", base)))

		got, err := repo.Get(ctx, "batch_a")
		require.NoError(t, err)
		assert.Equal(t, model.KindBatch, got.Kind)
		assert.Equal(t, model.StatusProcessing, got.Status)
		assert.Equal(t, "https://example.com/hook", got.CallbackURL)
		assert.True(t, base.Equal(got.CreatedAt))
		assert.True(t, base.Add(4*time.Minute).Equal(got.EstimatedCompletion))
		require.NotNil(t, got.Payload.Batch)
		assert.Nil(t, got.Payload.Training)
		assert.Equal(t, 2, got.Payload.Batch.TotalItems)
		assert.JSONEq(t, `{"prompt":"b"}`, string(got.Payload.Batch.Inputs[1]))
	})

	t.Run("GetUnknown", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		job := trainingJob("job_a", base)
		require.NoError(t, repo.Create(ctx, job))

		job.Status = model.StatusRunning
		job.Progress = 0.5
		job.Payload.Training.CurrentEpoch = 2
		job.UpdatedAt = base.Add(time.Minute)
		require.NoError(t, repo.Update(ctx, job))

		got, err := repo.Get(ctx, "job_a")
		require.NoError(t, err)
		assert.Equal(t, model.StatusRunning, got.Status)
		assert.Equal(t, 0.5, got.Progress)
		assert.Equal(t, 2, got.Payload.Training.CurrentEpoch)

		assert.ErrorIs(t, repo.Update(ctx, trainingJob("job_missing", base)), store.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, batchJob("batch_d", base)))
		require.NoError(t, repo.Delete(ctx, "batch_d"))
		require.NoError(t, repo.Delete(ctx, "batch_d"))

		_, err := repo.Get(ctx, "batch_d")
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, total, err := repo.List(ctx, store.ListFilter{Kind: model.KindBatch, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("ListNewestFirstByKind", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			require.NoError(t, repo.Create(ctx, batchJob(fmt.Sprintf("batch_%d", i), base.Add(time.Duration(i)*time.Second))))
		}
		require.NoError(t, repo.Create(ctx, trainingJob("job_x", base.Add(time.Hour))))

		jobs, total, err := repo.List(ctx, store.ListFilter{Kind: model.KindBatch, Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, jobs, 2)
		assert.Equal(t, "batch_4", jobs[0].ID)
		assert.Equal(t, "batch_3", jobs[1].ID)

		jobs, _, err = repo.List(ctx, store.ListFilter{Kind: model.KindBatch, Page: 3, Limit: 2})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "batch_0", jobs[0].ID)

		jobs, _, err = repo.List(ctx, store.ListFilter{Kind: model.KindBatch, Page: 9, Limit: 2})
		require.NoError(t, err)
		assert.Empty(t, jobs)

		jobs, total, err = repo.List(ctx, store.ListFilter{Kind: model.KindTraining, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, jobs, 1)
		assert.Equal(t, "job_x", jobs[0].ID)
	})

	t.Run("ListHugePagesAreEmpty", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Create(ctx, batchJob(fmt.Sprintf("batch_%d", i), base.Add(time.Duration(i)*time.Second))))
		}

		for _, f := range []store.ListFilter{
			{Kind: model.KindBatch, Page: math.MaxInt/100 + 2, Limit: 100},
			{Kind: model.KindBatch, Page: math.MaxInt, Limit: math.MaxInt},
			{Kind: model.KindBatch, Page: 2, Limit: math.MaxInt},
		} {
			jobs, total, err := repo.List(ctx, f)
			require.NoError(t, err, "page %d limit %d", f.Page, f.Limit)
			assert.Empty(t, jobs, "page %d limit %d", f.Page, f.Limit)
			assert.Equal(t, 3, total)
		}

		jobs, _, err := repo.List(ctx, store.ListFilter{Kind: model.KindBatch, Page: 1, Limit: math.MaxInt})
		require.NoError(t, err)
		assert.Len(t, jobs, 3)
	})
}
