package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nulzo/inference-gateway/internal/cli"
	"github.com/nulzo/inference-gateway/internal/config"
	"github.com/nulzo/inference-gateway/internal/llm"
	"go.uber.org/zap"
)

// BootstrapProviders builds every enabled provider from configuration and adds
// it to the registry. A failed health probe is reported but does not block
// registration; dispatch errors surface per request instead.
func BootstrapProviders(ctx context.Context, registry *Registry, providers []config.ProviderConfig, log *zap.Logger) int {
	registeredCount := 0
	validate := validator.New()

	for _, pCfg := range providers {
		if !pCfg.Enabled {
			continue
		}

		if err := validate.Struct(&pCfg); err != nil {
			log.Warn(fmt.Sprintf("%s %s %s",
				cli.WarningSign(),
				cli.Style(fmt.Sprintf("%s\t", pCfg.ID), cli.Bold),
				cli.Style("Skipping provider with invalid configuration", cli.Yellow),
			), zap.Error(err))
			continue
		}

		providerInstance, err := llm.New(pCfg)
		if err != nil {
			log.Error(fmt.Sprintf("%s provider %s failed to initialize", cli.CrossMark(), pCfg.ID),
				zap.String("id", pCfg.ID),
				zap.String("type", pCfg.Type),
				zap.Error(err),
			)
			continue
		}

		healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := providerInstance.Health(healthCtx); err != nil {
			log.Warn("Provider health probe failed",
				zap.String("id", pCfg.ID),
				zap.Error(err))
		}
		cancel()

		registry.Register(providerInstance)
		log.Info(fmt.Sprintf("%s provider %s", cli.CheckMark(), pCfg.ID), zap.String("type", pCfg.Type))
		registeredCount++
	}

	if registeredCount == 0 {
		log.Warn("No providers were registered. API will not function correctly.")
	}

	return registeredCount
}
