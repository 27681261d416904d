package analytics

import (
	"context"
	"os"

	"github.com/nulzo/inference-gateway/internal/config"
	"go.uber.org/zap"
)

// FromConfig builds the ingestor and its sinks. With logging disabled, or no
// sink configured, it returns an ingestor that discards everything.
func FromConfig(ctx context.Context, cfg config.RequestLogConfig, logger *zap.Logger) (Ingestor, error) {
	if !cfg.Enabled {
		return Nop(), nil
	}

	var sinks []Sink
	if cfg.Endpoint != "" {
		sinks = append(sinks, NewHTTPSink(HTTPSinkConfig{
			Endpoint: cfg.Endpoint,
			Token:    cfg.Token,
			Rate:     cfg.Rate,
			Burst:    cfg.Burst,
			Timeout:  cfg.Timeout,
		}))
	}
	if cfg.S3.Bucket != "" {
		host, _ := os.Hostname()
		s3Sink, err := NewS3Sink(ctx, S3SinkConfig{
			Bucket:   cfg.S3.Bucket,
			Region:   cfg.S3.Region,
			Prefix:   cfg.S3.Prefix,
			Endpoint: cfg.S3.Endpoint,
			Host:     host,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s3Sink)
	}

	if len(sinks) == 0 {
		logger.Warn("Request logging enabled without a sink; entries will be discarded")
		return Nop(), nil
	}

	return NewIngestor(logger, Options{
		Buffer:        cfg.Buffer,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
	}, sinks...), nil
}

type nopIngestor struct{}

// Nop returns an Ingestor that discards every entry.
func Nop() Ingestor { return nopIngestor{} }

func (nopIngestor) Log(*RequestLog) {}
func (nopIngestor) Start(context.Context) {}
func (nopIngestor) Stop(context.Context) error { return nil }
