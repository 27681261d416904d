package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/internal/httpclient"
	"github.com/nulzo/inference-gateway/internal/llm"
	"github.com/nulzo/inference-gateway/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(opts DispatchOptions) (*Dispatcher, *MockProvider) {
	p := newMockProvider("primary")
	reg := NewRegistry(nil, "")
	reg.Register(p)
	return NewDispatcher(reg, opts), p
}

func TestDispatch_Text(t *testing.T) {
	d, p := newTestDispatcher(DispatchOptions{})

	p.On("Chat", mock.Anything, mock.MatchedBy(func(r *llm.ChatRequest) bool {
		return r.Model == "meta-llama/llama-3.1-70b-instruct" &&
			len(r.Messages) == 1 && r.Messages[0].Content == "Hello" &&
			r.Modalities == nil && r.MaxTokens == DefaultMaxTokens
	})).Return(chatReply("Hi!", nil), nil).Once()

	resp, err := d.Dispatch(context.Background(), &CanonicalRequest{
		Category:      catalog.LLM,
		ResolvedModel: "meta-llama/llama-3.1-70b-instruct",
		Instruction:   "Hello",
		Temperature:   DefaultTemperature,
		MaxTokens:     DefaultMaxTokens,
	})
	require.NoError(t, err)

	text, ok := resp.(TextResponse)
	require.True(t, ok)
	assert.Equal(t, "Hi!", text.Content)
	assert.True(t, text.Usage.Estimated)
	p.AssertExpectations(t)
}

func TestDispatch_ImageRequestsModalities(t *testing.T) {
	d, p := newTestDispatcher(DispatchOptions{})

	p.On("Chat", mock.Anything, mock.MatchedBy(func(r *llm.ChatRequest) bool {
		return len(r.Modalities) == 2 && r.Modalities[0] == "image"
	})).Return(chatReply("no picture today", nil), nil).Once()

	_, err := d.Dispatch(context.Background(), &CanonicalRequest{Category: catalog.ImageGen, Instruction: "a fox"})
	var problem *api.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	p.AssertExpectations(t)
}

func TestDispatch_SpeechAndEmbedding(t *testing.T) {
	d, p := newTestDispatcher(DispatchOptions{})

	p.On("Speech", mock.Anything, mock.MatchedBy(func(r *llm.SpeechRequest) bool {
		return r.Voice == "nova" && r.ResponseFormat == "mp3" && r.Input == "Hello"
	})).Return(&llm.SpeechResponse{Audio: []byte{0x49, 0x44, 0x33}}, nil).Once()
	p.On("Embed", mock.Anything, mock.Anything).
		Return(&llm.EmbeddingResponse{Data: []llm.EmbeddingData{{Embedding: make([]float64, 8)}}}, nil).Once()

	resp, err := d.Dispatch(context.Background(), &CanonicalRequest{
		Category: catalog.TTS, Instruction: "Hello", Voice: "nova", Format: "mp3", Speed: 1,
	})
	require.NoError(t, err)
	audio := resp.(AudioResponse)
	assert.Equal(t, []byte("ID3"), audio.Audio)

	resp, err = d.Dispatch(context.Background(), &CanonicalRequest{Category: catalog.Embedding, Instruction: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.(EmbeddingResponse).Dimensions)
	p.AssertExpectations(t)
}

func TestDispatch_BinaryCategoriesMakeNoCall(t *testing.T) {
	d, p := newTestDispatcher(DispatchOptions{})

	for _, c := range []catalog.Category{catalog.Audio, catalog.ImageEdit, catalog.Video, catalog.Document, catalog.OCR} {
		resp, err := d.Dispatch(context.Background(), &CanonicalRequest{Category: c, Instruction: "x"})
		require.NoError(t, err)
		u, ok := resp.(UnsupportedResponse)
		require.True(t, ok)
		assert.Equal(t, c, u.Category)
	}
	p.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
	p.AssertNotCalled(t, "Speech", mock.Anything, mock.Anything)
	p.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}

func TestDispatch_ErrorMapping(t *testing.T) {
	long := strings.Repeat("e", 2000)

	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"rate limited", &httpclient.UpstreamError{StatusCode: 429}, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."},
		{"credits", &httpclient.UpstreamError{StatusCode: 402}, http.StatusPaymentRequired, "Insufficient credits. Please top up your account."},
		{"other status", &httpclient.UpstreamError{StatusCode: 503, Body: []byte(long)}, http.StatusInternalServerError, strings.Repeat("e", api.MaxDiagnosticLength)},
		{"transport", errors.New("connection refused"), http.StatusInternalServerError, "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, p := newTestDispatcher(DispatchOptions{})
			p.On("Chat", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			_, err := d.Dispatch(context.Background(), &CanonicalRequest{Category: catalog.Chat, Instruction: "x"})
			var problem *api.Problem
			require.ErrorAs(t, err, &problem)
			assert.Equal(t, tt.status, problem.Status)
			assert.Equal(t, tt.detail, problem.Detail)
			assert.LessOrEqual(t, len([]rune(problem.Detail)), api.MaxDiagnosticLength)
		})
	}
}

func TestDispatch_Timeout(t *testing.T) {
	d, p := newTestDispatcher(DispatchOptions{Timeout: 20 * time.Millisecond})

	p.On("Chat", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).Once()

	_, err := d.Dispatch(context.Background(), &CanonicalRequest{Category: catalog.Chat, Instruction: "x"})
	var problem *api.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, "provider call timed out", problem.Detail)
}

func TestDispatch_ClientCancelIsDetached(t *testing.T) {
	d, p := newTestDispatcher(DispatchOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p.On("Chat", mock.Anything, mock.Anything).Return(chatReply("done", nil), nil).
		Run(func(args mock.Arguments) {
			assert.NoError(t, args.Get(0).(context.Context).Err())
		}).Once()

	_, err := d.Dispatch(ctx, &CanonicalRequest{Category: catalog.Chat, Instruction: "x"})
	require.NoError(t, err)
}

func TestDispatch_NoProvider(t *testing.T) {
	d := NewDispatcher(NewRegistry(nil, ""), DispatchOptions{})
	_, err := d.Dispatch(context.Background(), &CanonicalRequest{Category: catalog.Chat, Instruction: "x"})
	var problem *api.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, http.StatusInternalServerError, problem.Status)
}

func TestRegistry_Routes(t *testing.T) {
	reg := NewRegistry(map[string]string{"tts": "voice", "bogus": "x"}, "")
	chat := newMockProvider("chat")
	voice := newMockProvider("voice")
	reg.Register(chat)
	reg.Register(voice)

	p, err := reg.ForCategory(catalog.TTS)
	require.NoError(t, err)
	assert.Equal(t, "voice", p.Name())

	p, err = reg.ForCategory(catalog.Code)
	require.NoError(t, err)
	assert.Equal(t, "chat", p.Name())

	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, ErrProviderNotFound)

	names := []string{}
	for _, p := range reg.Providers() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"chat", "voice"}, names)
}
