package analytics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nulzo/inference-gateway/internal/httpclient"
	"golang.org/x/time/rate"
)

// HTTPSink posts each entry to the logging collaborator, paced by a token bucket.
type HTTPSink struct {
	client   httpclient.HTTPClient
	endpoint string
	headers  map[string]string
	limiter  *rate.Limiter
}

type HTTPSinkConfig struct {
	Endpoint string
	Token    string
	Rate     float64
	Burst    int
	Timeout  time.Duration
}

func NewHTTPSink(cfg HTTPSinkConfig) *HTTPSink {
	return NewHTTPSinkWithClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

func NewHTTPSinkWithClient(cfg HTTPSinkConfig, client httpclient.HTTPClient) *HTTPSink {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	headers := map[string]string{}
	if cfg.Token != "" {
		headers["Authorization"] = "Bearer " + cfg.Token
		headers["apikey"] = cfg.Token
	}

	return &HTTPSink{
		client:   client,
		endpoint: cfg.Endpoint,
		headers:  headers,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

func (s *HTTPSink) Name() string { return "http" }

// Write sends entries one by one and keeps going past failures.
func (s *HTTPSink) Write(ctx context.Context, logs []*RequestLog) error {
	var errs []error
	for _, l := range logs {
		if err := s.limiter.Wait(ctx); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := httpclient.SendRequest(ctx, s.client, http.MethodPost, s.endpoint, s.headers, l, nil); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
