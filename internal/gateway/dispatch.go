package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/internal/httpclient"
	"github.com/nulzo/inference-gateway/internal/llm"
	"github.com/nulzo/inference-gateway/pkg/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nulzo/inference-gateway/internal/gateway"

var imageModalities = []string{"image", "text"}

// DispatchOptions tunes the single outbound call.
type DispatchOptions struct {
	Timeout time.Duration
	// PropagateCancel lets a client disconnect abort the outbound call.
	PropagateCancel bool
}

// Dispatcher issues one outbound call per request, shaped by category.
type Dispatcher struct {
	registry *Registry
	opts     DispatchOptions
	tracer   trace.Tracer
}

func NewDispatcher(registry *Registry, opts DispatchOptions) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		opts:     opts,
		tracer:   otel.Tracer(tracerName),
	}
}

// Dispatch runs req against the provider routed for its category and returns the
// normalized response. Binary-input categories are answered locally.
func (d *Dispatcher) Dispatch(ctx context.Context, req *CanonicalRequest) (Response, error) {
	if req.Category.NeedsBinaryInput() {
		return unsupported(req.Category), nil
	}

	ctx, cancel := d.outboundContext(ctx)
	defer cancel()

	ctx, span := d.tracer.Start(ctx, "gateway.dispatch", trace.WithAttributes(
		attribute.String("gateway.category", string(req.Category)),
		attribute.String("gateway.model.requested", req.RequestedModel),
		attribute.String("gateway.model.resolved", req.ResolvedModel),
	))
	defer span.End()

	resp, err := d.dispatch(ctx, req)
	if err != nil {
		err = translate(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req *CanonicalRequest) (Response, error) {
	provider, err := d.registry.ForCategory(req.Category)
	if err != nil {
		return nil, err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("gateway.provider", provider.Name()))

	switch {
	case req.Category.IsText():
		raw, err := provider.Chat(ctx, chatRequest(req, nil))
		if err != nil {
			return nil, err
		}
		return NormalizeText(req.Instruction, raw), nil

	case req.Category == catalog.ImageGen:
		raw, err := provider.Chat(ctx, chatRequest(req, imageModalities))
		if err != nil {
			return nil, err
		}
		return NormalizeImage(raw)

	case req.Category == catalog.TTS:
		raw, err := provider.Speech(ctx, &llm.SpeechRequest{
			Model:          req.ResolvedModel,
			Input:          req.Instruction,
			Voice:          req.Voice,
			ResponseFormat: req.Format,
			Speed:          req.Speed,
		})
		if err != nil {
			return nil, err
		}
		return AudioResponse{Audio: raw.Audio, Format: req.Format, Voice: req.Voice}, nil

	case req.Category == catalog.Embedding:
		raw, err := provider.Embed(ctx, &llm.EmbeddingRequest{
			Model: req.ResolvedModel,
			Input: []string{req.Instruction},
		})
		if err != nil {
			return nil, err
		}
		return NormalizeEmbedding(raw)
	}

	return unsupported(req.Category), nil
}

func chatRequest(req *CanonicalRequest, modalities []string) *llm.ChatRequest {
	return &llm.ChatRequest{
		Model:       req.ResolvedModel,
		Messages:    []llm.ChatMessage{{Role: string(api.User), Content: req.Instruction}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Modalities:  modalities,
	}
}

func (d *Dispatcher) outboundContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if !d.opts.PropagateCancel {
		ctx = context.WithoutCancel(ctx)
	}
	if d.opts.Timeout > 0 {
		return context.WithTimeout(ctx, d.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// translate maps provider failures onto the error taxonomy.
func translate(err error) error {
	var problem *api.Problem
	if errors.As(err, &problem) {
		return problem
	}

	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusTooManyRequests:
			return api.RateLimited(err)
		case http.StatusPaymentRequired:
			return api.InsufficientCredits(err)
		}
		return api.UpstreamFailure(upstream.Diagnostic(), err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return api.UpstreamFailure("provider call timed out", err)
	}
	return api.UpstreamFailure(err.Error(), err)
}
