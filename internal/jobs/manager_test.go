package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/internal/store/memory"
	"github.com/nulzo/inference-gateway/internal/store/model"
	"github.com/nulzo/inference-gateway/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestManager(t *testing.T) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	var seq int
	var mu sync.Mutex
	ids := func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("%08d", seq)
	}
	m := NewManager(memory.NewJobStore(), catalog.New(), Options{TrainingQueueDelay: 30 * time.Second},
		zap.NewNop(), WithClock(clock.Now), WithIDGenerator(ids))
	return m, clock
}

func inputs(raw ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(raw))
	for i, r := range raw {
		out[i] = json.RawMessage(r)
	}
	return out
}

func fivePrompts() []json.RawMessage {
	return inputs(`{"prompt":"a"}`, `{"prompt":"b"}`, `{"prompt":"c"}`, `{"prompt":"d"}`, `{"prompt":"e"}`)
}

func requireProblem(t *testing.T, err error, status int, detail string) {
	t.Helper()
	var problem *api.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, status, problem.Status)
	if detail != "" {
		assert.Equal(t, detail, problem.Detail)
	}
}

func TestCreateBatch_Validation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.CreateBatch(ctx, &api.BatchRequest{Inputs: fivePrompts()})
	requireProblem(t, err, http.StatusBadRequest, "model is required")

	_, err = m.CreateBatch(ctx, &api.BatchRequest{Model: "sdxl-turbo"})
	requireProblem(t, err, http.StatusBadRequest, "inputs array is required and must not be empty")

	_, err = m.CreateBatch(ctx, &api.BatchRequest{Model: "sdxl-turbo", Inputs: fivePrompts(), Priority: "urgent"})
	requireProblem(t, err, http.StatusBadRequest, "")
}

func TestCreateBatch(t *testing.T) {
	m, clock := newTestManager(t)

	job, err := m.CreateBatch(context.Background(), &api.BatchRequest{
		Model:       "sdxl-turbo",
		Inputs:      fivePrompts(),
		CallbackURL: "https://example.com/done",
	})
	require.NoError(t, err)

	assert.Equal(t, "batch_00000001", job.ID)
	assert.Equal(t, model.StatusProcessing, job.Status)
	assert.Equal(t, "normal", job.Payload.Batch.Priority)
	assert.Equal(t, clock.Now().Add(10*time.Minute), job.EstimatedCompletion)
	// SDXL-Turbo is $0.001 per image
	assert.InDelta(t, 0.005, job.EstimatedCostUSD, 1e-9)

	created := BatchCreated(job)
	assert.Equal(t, created.ID, created.BatchID)
	assert.Equal(t, 5, created.TotalItems)
}

func TestCreateBatch_UnknownModelFallbackPrice(t *testing.T) {
	m, _ := newTestManager(t)
	job, err := m.CreateBatch(context.Background(), &api.BatchRequest{Model: "vendor/unknown", Inputs: inputs(`{}`, `{}`)})
	require.NoError(t, err)
	assert.InDelta(t, 2*DefaultItemPriceUSD, job.EstimatedCostUSD, 1e-9)
}

func TestCreateBatch_PriorityOrdersETA(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	eta := map[string]time.Time{}
	for _, p := range []string{"low", "normal", "high"} {
		job, err := m.CreateBatch(ctx, &api.BatchRequest{Model: "sdxl-turbo", Inputs: fivePrompts(), Priority: p})
		require.NoError(t, err)
		eta[p] = job.EstimatedCompletion
	}

	assert.True(t, eta["high"].Before(eta["normal"]))
	assert.True(t, eta["normal"].Before(eta["low"]))
	assert.Equal(t, 5*time.Minute, eta["high"].Sub(eta["normal"].Add(-10*time.Minute)))
}

func TestBatch_ProgressAndResults(t *testing.T) {
	m, clock := newTestManager(t)
	ctx := context.Background()

	job, err := m.CreateBatch(ctx, &api.BatchRequest{
		Model:  "sdxl-turbo",
		Inputs: inputs(`{"prompt":"a"}`, `{"prompt":"  "}`, `{}`, `{"prompt":"d"}`),
	})
	require.NoError(t, err)

	// 4 items at 2 minutes each
	clock.Advance(4 * time.Minute)
	got, err := m.Get(ctx, model.KindBatch, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, got.Status)
	assert.Equal(t, 0.5, got.Progress)
	assert.Equal(t, 1, got.Payload.Batch.CompletedItems)
	assert.Equal(t, 1, got.Payload.Batch.FailedItems)
	assert.Empty(t, got.Payload.Batch.Results)

	clock.Advance(time.Hour)
	got, err = m.Get(ctx, model.KindBatch, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, 1.0, got.Progress)
	require.NotNil(t, got.Payload.FinishedAt)

	view := BatchView(got)
	require.Len(t, view.Results, 4)
	assert.Equal(t, "success", view.Results[0].Status)
	assert.Equal(t, "https://storage.regraph.tech/batch/"+job.ID+"/output_0.png", view.Results[0].OutputURL)
	assert.Equal(t, "failed", view.Results[1].Status)
	assert.NotEmpty(t, view.Results[1].Error)
	assert.Equal(t, "failed", view.Results[2].Status)
	assert.Equal(t, "https://storage.regraph.tech/batch/"+job.ID+"/output_3.png", view.Results[3].OutputURL)
	assert.Equal(t, 2, view.CompletedItems)
	assert.Equal(t, 2, view.FailedItems)
}

func TestBatch_AllItemsFail(t *testing.T) {
	m, clock := newTestManager(t)
	ctx := context.Background()

	job, err := m.CreateBatch(ctx, &api.BatchRequest{Model: "sdxl-turbo", Inputs: inputs(`{}`, `{"prompt":""}`)})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	got, err := m.Get(ctx, model.KindBatch, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, got.Status)
}

func TestBatch_ProgressIsMonotonic(t *testing.T) {
	m, clock := newTestManager(t)
	ctx := context.Background()

	job, err := m.CreateBatch(ctx, &api.BatchRequest{Model: "sdxl-turbo", Inputs: fivePrompts()})
	require.NoError(t, err)

	last := 0.0
	for _, step := range []time.Duration{time.Minute, 3 * time.Minute, -2 * time.Minute, 30 * time.Second, 4 * time.Minute, -time.Minute} {
		clock.Advance(step)
		got, err := m.Get(ctx, model.KindBatch, job.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Progress, last)
		last = got.Progress
	}
}

func TestGet_UnknownAndWrongKind(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Get(ctx, model.KindBatch, "batch_nope")
	requireProblem(t, err, http.StatusNotFound, "")

	job, err := m.CreateTraining(ctx, &api.TrainingRequest{Model: "llama-3.1-8b", Dataset: "ds"})
	require.NoError(t, err)
	_, err = m.Get(ctx, model.KindBatch, job.ID)
	requireProblem(t, err, http.StatusNotFound, "")
}

func TestCancel_Idempotent(t *testing.T) {
	m, clock := newTestManager(t)
	ctx := context.Background()

	job, err := m.CreateBatch(ctx, &api.BatchRequest{Model: "sdxl-turbo", Inputs: fivePrompts()})
	require.NoError(t, err)

	first, err := m.Cancel(ctx, model.KindBatch, job.ID)
	require.NoError(t, err)
	second, err := m.Cancel(ctx, model.KindBatch, job.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "cancelled", first.Status)
	assert.Equal(t, job.ID, first.ID)

	_, err = m.Get(ctx, model.KindBatch, job.ID)
	requireProblem(t, err, http.StatusNotFound, "")

	// finished jobs and unknown ids confirm the same way
	done, err := m.CreateBatch(ctx, &api.BatchRequest{Model: "sdxl-turbo", Inputs: fivePrompts()})
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = m.Get(ctx, model.KindBatch, done.ID)
	require.NoError(t, err)
	res, err := m.Cancel(ctx, model.KindBatch, done.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", res.Status)

	res, err = m.Cancel(ctx, model.KindTraining, "job_unknown")
	require.NoError(t, err)
	assert.Equal(t, "Training job cancelled successfully", res.Message)
}

func TestCancel_OtherKindIsKept(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	job, err := m.CreateTraining(ctx, &api.TrainingRequest{Model: "m", Dataset: "d"})
	require.NoError(t, err)

	_, err = m.Cancel(ctx, model.KindBatch, job.ID)
	require.NoError(t, err)
	_, err = m.Get(ctx, model.KindTraining, job.ID)
	assert.NoError(t, err)
}

func TestList_NewestFirst(t *testing.T) {
	m, clock := newTestManager(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		job, err := m.CreateBatch(ctx, &api.BatchRequest{Model: "sdxl-turbo", Inputs: fivePrompts()})
		require.NoError(t, err)
		ids = append(ids, job.ID)
		clock.Advance(time.Second)
	}
	_, err := m.CreateTraining(ctx, &api.TrainingRequest{Model: "m", Dataset: "d"})
	require.NoError(t, err)

	res, err := m.List(ctx, model.KindBatch, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Jobs, 2)
	assert.Equal(t, ids[2], res.Jobs[0].ID)
	assert.Equal(t, ids[1], res.Jobs[1].ID)

	res, err = m.List(ctx, model.KindBatch, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, DefaultListLimit, res.Limit)
	assert.Len(t, res.Jobs, 3)
}

func TestConcurrentReadsAndCancels(t *testing.T) {
	m, clock := newTestManager(t)
	ctx := context.Background()

	job, err := m.CreateBatch(ctx, &api.BatchRequest{Model: "sdxl-turbo", Inputs: fivePrompts()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clock.Advance(10 * time.Second)
			if i == 10 {
				_, _ = m.Cancel(ctx, model.KindBatch, job.ID)
				return
			}
			_, _ = m.Get(ctx, model.KindBatch, job.ID)
			_, _ = m.List(ctx, model.KindBatch, 1, 10)
		}(i)
	}
	wg.Wait()

	_, err = m.Get(ctx, model.KindBatch, job.ID)
	requireProblem(t, err, http.StatusNotFound, "")
}
