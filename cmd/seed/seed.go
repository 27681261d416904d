package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/internal/config"
	"github.com/nulzo/inference-gateway/internal/jobs"
	"github.com/nulzo/inference-gateway/internal/platform/logger"
	"github.com/nulzo/inference-gateway/pkg/api"
	"go.uber.org/zap"
)

// seed fills the configured job store with sample batch and training jobs,
// for exercising the polling endpoints against a durable backend.
func main() {
	batches := flag.Int("batches", 3, "Number of batch jobs to create")
	training := flag.Int("training", 2, "Number of training jobs to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.Initialize(logger.FromConfig(cfg.Logging))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	repo, err := jobs.OpenRepository(cfg.Jobs)
	if err != nil {
		log.Fatal("Failed to open job store", zap.Error(err))
	}
	defer repo.Close()

	manager := jobs.NewManager(repo, catalog.New(), jobs.OptionsFrom(cfg.Jobs), log)
	ctx := context.Background()

	priorities := []string{"high", "normal", "low"}
	for i := 0; i < *batches; i++ {
		inputs := make([]json.RawMessage, i+2)
		for j := range inputs {
			inputs[j] = json.RawMessage(fmt.Sprintf(`{"prompt":"sample image %d-%d"}`, i, j))
		}
		job, err := manager.CreateBatch(ctx, &api.BatchRequest{
			Model:    "sdxl-turbo",
			Inputs:   inputs,
			Priority: priorities[i%len(priorities)],
		})
		if err != nil {
			log.Fatal("Failed to seed batch", zap.Error(err))
		}
		log.Info("Seeded batch", zap.String("id", job.ID), zap.Int("items", len(inputs)))
	}

	for i := 0; i < *training; i++ {
		job, err := manager.CreateTraining(ctx, &api.TrainingRequest{
			Model:    "meta-llama/Llama-3.1-8B",
			Dataset:  fmt.Sprintf("s3://datasets/sample-%d.jsonl", i),
			Config:   api.TrainingConfig{Epochs: i + 1},
			Hardware: api.TrainingHardware{GPUCount: i + 1},
		})
		if err != nil {
			log.Fatal("Failed to seed training job", zap.Error(err))
		}
		log.Info("Seeded training job", zap.String("id", job.ID), zap.Float64("cost_usd", job.EstimatedCostUSD))
	}

	fmt.Printf("Seeded %d batch and %d training jobs into the %q store\n", *batches, *training, cfg.Jobs.Store)
}
