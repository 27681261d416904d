package httpclient

import "fmt"

// UpstreamError is a non-2xx answer from a downstream provider.
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, e.URL)
}

// Diagnostic is the raw body, or the status line when the body is empty.
func (e *UpstreamError) Diagnostic() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return string(e.Body)
}
