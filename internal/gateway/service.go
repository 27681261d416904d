package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/pkg/api"
	"go.uber.org/zap"
)

// Service is the inference surface consumed by the HTTP layer.
type Service interface {
	// Infer normalizes, classifies, resolves and dispatches one request.
	Infer(ctx context.Context, req *api.InferenceRequest) (*Result, error)
	// Speech serves /audio/speech.
	Speech(ctx context.Context, req *api.SpeechRequest) (*SpeechResult, error)
}

// SpeechExample is attached to /audio/speech validation failures.
var SpeechExample = map[string]interface{}{"model": "tts-1-hd", "input": "Hello world", "voice": DefaultVoice}

type SpeechResult struct {
	Audio       []byte
	ContentType string
	Model       string
}

var speechContentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"opus": "audio/opus",
	"aac":  "audio/aac",
	"flac": "audio/flac",
}

// ContentTypeFor maps an audio format to its MIME type. Unknown formats are served as mp3.
func ContentTypeFor(format string) string {
	if ct, ok := speechContentTypes[strings.ToLower(format)]; ok {
		return ct
	}
	return speechContentTypes["mp3"]
}

type service struct {
	logger     *zap.Logger
	resolver   *Resolver
	dispatcher *Dispatcher
}

func NewService(logger *zap.Logger, resolver *Resolver, dispatcher *Dispatcher) Service {
	return &service{
		logger:     logger,
		resolver:   resolver,
		dispatcher: dispatcher,
	}
}

func (s *service) Infer(ctx context.Context, req *api.InferenceRequest) (*Result, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, api.MissingField("model", "model is required", api.WithExample(InferenceExample))
	}

	canonical, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	canonical.Category = Classify(req.Model)
	if req.Category != "" {
		c, ok := catalog.ParseCategory(req.Category)
		if !ok {
			return nil, api.ValidationError(
				fmt.Sprintf("unknown category %q", req.Category),
				map[string]string{"category": "must be a known model category"},
			)
		}
		canonical.Category = c
	}
	canonical.ResolvedModel = s.resolver.Resolve(req.Model, canonical.Category)

	s.logger.Debug("Dispatching inference",
		zap.String("model", canonical.RequestedModel),
		zap.String("resolved", canonical.ResolvedModel),
		zap.String("category", string(canonical.Category)),
	)

	resp, err := s.dispatcher.Dispatch(ctx, canonical)
	if err != nil {
		return nil, err
	}

	return &Result{Category: canonical.Category, Model: canonical.ResolvedModel, Response: resp}, nil
}

func (s *service) Speech(ctx context.Context, req *api.SpeechRequest) (*SpeechResult, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, api.MissingField("input", "Input text is required", api.WithExample(SpeechExample))
	}

	canonical := &CanonicalRequest{
		Category:       catalog.TTS,
		RequestedModel: req.Model,
		ResolvedModel:  s.resolver.ResolveSpeech(req.Model),
		Instruction:    req.Input,
		Voice:          req.Voice,
		Format:         req.ResponseFormat,
		Speed:          DefaultSpeed,
	}
	if canonical.Voice == "" {
		canonical.Voice = DefaultVoice
	}
	if canonical.Format == "" {
		canonical.Format = DefaultAudioFormat
	}
	if req.Speed != nil {
		canonical.Speed = *req.Speed
	}

	resp, err := s.dispatcher.Dispatch(ctx, canonical)
	if err != nil {
		return nil, err
	}
	audio, ok := resp.(AudioResponse)
	if !ok {
		return nil, api.UpstreamFailure("speech synthesis returned no audio", nil)
	}

	return &SpeechResult{
		Audio:       audio.Audio,
		ContentType: ContentTypeFor(canonical.Format),
		Model:       canonical.ResolvedModel,
	}, nil
}
