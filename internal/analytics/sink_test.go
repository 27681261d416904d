package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSink_PostsEachEntry(t *testing.T) {
	var mu sync.Mutex
	var got []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		got = append(got, body)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sink := NewHTTPSink(HTTPSinkConfig{Endpoint: server.URL, Token: "secret", Timeout: time.Second})
	err := sink.Write(context.Background(), []*RequestLog{
		{Method: "POST", Endpoint: "/v1/inference", StatusCode: 200, ResponseTimeMS: 12, APIKeyPrefix: "sk-abcde..."},
		{Method: "GET", Endpoint: "/v1/models", StatusCode: 200},
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "/v1/inference", got[0]["endpoint"])
	assert.Equal(t, float64(12), got[0]["response_time_ms"])
	assert.Equal(t, "sk-abcde...", got[0]["api_key_prefix"])
	assert.NotContains(t, got[1], "api_key_prefix")
}

func TestHTTPSink_ContinuesPastFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewHTTPSink(HTTPSinkConfig{Endpoint: server.URL, Rate: 1000, Burst: 10})
	err := sink.Write(context.Background(), []*RequestLog{entry("/a"), entry("/b")})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestHTTPSink_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	sink := NewHTTPSink(HTTPSinkConfig{Endpoint: server.URL, Rate: 0.001, Burst: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := sink.Write(ctx, []*RequestLog{entry("/a"), entry("/b")})
	assert.Error(t, err)
}

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Sink_WritesJSONLines(t *testing.T) {
	putter := &fakePutter{}
	sink := NewS3SinkWithClient(putter, S3SinkConfig{Bucket: "logs", Prefix: "gateway/", Host: "node-1"})
	sink.now = func() time.Time { return time.Date(2025, 11, 30, 14, 30, 22, 123, time.UTC) }

	require.NoError(t, sink.Write(context.Background(), []*RequestLog{entry("/a"), entry("/b")}))
	require.NoError(t, sink.Write(context.Background(), nil))

	require.Len(t, putter.inputs, 1)
	assert.Equal(t, "logs", aws.ToString(putter.inputs[0].Bucket))
	assert.Equal(t, "gateway/2025/11/30/node-1-20251130-143022-123.jsonl", aws.ToString(putter.inputs[0].Key))
	assert.Equal(t, "application/x-ndjson", aws.ToString(putter.inputs[0].ContentType))

	lines := strings.Split(strings.TrimSpace(putter.bodies[0]), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"method":"POST","endpoint":"/a","status_code":200,"response_time_ms":0}`, lines[0])
}

func TestS3Sink_WrapsErrors(t *testing.T) {
	sink := NewS3SinkWithClient(&fakePutter{err: errors.New("denied")}, S3SinkConfig{Bucket: "logs"})
	err := sink.Write(context.Background(), []*RequestLog{entry("/a")})
	assert.ErrorContains(t, err, "failed to upload to S3")
}
