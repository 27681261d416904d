package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Problem type URIs.
const (
	TypeValidation          = "https://regraph.tech/problems/validation"
	TypeMethodNotAllowed    = "https://regraph.tech/problems/method-not-allowed"
	TypeRateLimited         = "https://regraph.tech/problems/rate-limited"
	TypeInsufficientCredits = "https://regraph.tech/problems/insufficient-credits"
	TypeUpstreamFailure     = "https://regraph.tech/problems/upstream-failure"
	TypeNotFound            = "https://regraph.tech/problems/not-found"
)

// MaxDiagnosticLength bounds the downstream body echoed back in an UpstreamFailure.
const MaxDiagnosticLength = 500

// Problem implements RFC 9457
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`

	Log error `json:"-"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

func (p *Problem) Unwrap() error {
	return p.Log
}

func (p *Problem) MarshalJSON() ([]byte, error) {
	type Alias Problem

	data := make(map[string]interface{})

	for k, v := range p.Extensions {
		data[k] = v
	}

	stdJSON, err := json.Marshal(Alias(*p))
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(stdJSON, &data)

	return json.Marshal(data)
}

type ProblemOption func(*Problem)

// NewError creates a generic Problem
func NewError(status int, title, detail string, opts ...ProblemOption) *Problem {
	p := &Problem{
		Type:       "about:blank",
		Title:      title,
		Status:     status,
		Detail:     detail,
		Extensions: make(map[string]interface{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithExtension adds a custom key-value pair to the response
func WithExtension(key string, value interface{}) ProblemOption {
	return func(p *Problem) {
		p.Extensions[key] = value
	}
}

// WithExample attaches a corrective example payload.
func WithExample(example interface{}) ProblemOption {
	return WithExtension("example", example)
}

// WithLog attaches an internal error for server-side logging
func WithLog(err error) ProblemOption {
	return func(p *Problem) {
		p.Log = err
	}
}

// WithType sets the RFC "type" URI
func WithType(uri string) ProblemOption {
	return func(p *Problem) {
		p.Type = uri
	}
}

// ValidationError reports a missing or malformed field. fields maps json names to messages.
func ValidationError(detail string, fields map[string]string, opts ...ProblemOption) *Problem {
	base := []ProblemOption{WithType(TypeValidation)}
	if len(fields) > 0 {
		base = append(base, WithExtension("errors", fields))
	}
	return NewError(http.StatusBadRequest, "Validation Error", detail, append(base, opts...)...)
}

// MissingField is the common ValidationError for an absent required field.
func MissingField(field, message string, opts ...ProblemOption) *Problem {
	return ValidationError(message, map[string]string{field: message}, opts...)
}

func MethodNotAllowed(method string, opts ...ProblemOption) *Problem {
	return NewError(
		http.StatusMethodNotAllowed,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed on this endpoint", method),
		append([]ProblemOption{WithType(TypeMethodNotAllowed)}, opts...)...,
	)
}

func RateLimited(err error) *Problem {
	return NewError(
		http.StatusTooManyRequests,
		"Rate Limited",
		"Rate limit exceeded. Please try again later.",
		WithType(TypeRateLimited),
		WithLog(err),
	)
}

func InsufficientCredits(err error) *Problem {
	return NewError(
		http.StatusPaymentRequired,
		"Insufficient Credits",
		"Insufficient credits. Please top up your account.",
		WithType(TypeInsufficientCredits),
		WithLog(err),
	)
}

// UpstreamFailure wraps any other downstream failure. The diagnostic is cut to MaxDiagnosticLength.
func UpstreamFailure(diagnostic string, err error) *Problem {
	return NewError(
		http.StatusInternalServerError,
		"Upstream Failure",
		Truncate(diagnostic, MaxDiagnosticLength),
		WithType(TypeUpstreamFailure),
		WithLog(err),
	)
}

func NotFound(detail string) *Problem {
	return NewError(http.StatusNotFound, "Not Found", detail, WithType(TypeNotFound))
}

func BadRequest(detail string, opts ...ProblemOption) *Problem {
	return NewError(http.StatusBadRequest, "Bad Request", detail, opts...)
}

func InternalError(detail string, err error) *Problem {
	return NewError(http.StatusInternalServerError, "Internal Server Error", detail, WithLog(err))
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
