package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, current, tag string, status int) *Checker {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/nulzo/inference-gateway/releases/latest", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `"}`))
	}))
	t.Cleanup(server.Close)

	c := NewChecker(server.Client(), "nulzo/inference-gateway")
	c.apiBase = server.URL
	c.current = current
	return c
}

func TestCheck_NewerRelease(t *testing.T) {
	c := newTestChecker(t, "v1.2.0", "v1.10.0", http.StatusOK)

	update, err := c.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, update)
	assert.Equal(t, "v1.10.0", update.Latest)
	assert.Equal(t, "v1.2.0", update.Current)
}

func TestCheck_UpToDate(t *testing.T) {
	for _, tag := range []string{"v1.2.0", "v1.1.9", "1.2.0-rc.1"} {
		c := newTestChecker(t, "v1.2.0", tag, http.StatusOK)
		update, err := c.Check(context.Background())
		require.NoError(t, err, tag)
		assert.Nil(t, update, tag)
	}
}

func TestCheck_Failures(t *testing.T) {
	_, err := newTestChecker(t, "v1.0.0", "v2.0.0", http.StatusForbidden).Check(context.Background())
	assert.Error(t, err)

	_, err = newTestChecker(t, "v1.0.0", "latest", http.StatusOK).Check(context.Background())
	assert.ErrorContains(t, err, "invalid release tag")

	_, err = newTestChecker(t, "dev", "v2.0.0", http.StatusOK).Check(context.Background())
	assert.ErrorContains(t, err, "invalid build version")
}
