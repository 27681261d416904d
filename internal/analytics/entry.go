package analytics

import (
	"strings"
	"time"
)

// RequestLog is one request/response record sent to the logging sinks.
type RequestLog struct {
	Method         string `json:"method"`
	Endpoint       string `json:"endpoint"`
	StatusCode     int    `json:"status_code"`
	ResponseTimeMS int64  `json:"response_time_ms"`
	APIKeyPrefix   string `json:"api_key_prefix,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
	IPAddress      string `json:"ip_address,omitempty"`

	// Timestamp orders archived records; it is not part of the sink payload.
	Timestamp time.Time `json:"-"`
}

// keyPrefixLength is how much of a credential may leave the process.
const keyPrefixLength = 8

// KeyPrefix returns the loggable form of a credential: its first eight
// characters and "...", or "" when it is eight characters or shorter.
func KeyPrefix(credential string) string {
	r := []rune(credential)
	if len(r) <= keyPrefixLength {
		return ""
	}
	return string(r[:keyPrefixLength]) + "..."
}

// CredentialFrom picks the caller credential from x-api-key, then a bearer token.
func CredentialFrom(apiKey, authorization string) string {
	if apiKey != "" {
		return apiKey
	}
	const bearer = "Bearer "
	if len(authorization) > len(bearer) && strings.EqualFold(authorization[:len(bearer)], bearer) {
		return strings.TrimSpace(authorization[len(bearer):])
	}
	return ""
}
