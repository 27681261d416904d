package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "", KeyPrefix(""))
	assert.Equal(t, "", KeyPrefix("short"))
	assert.Equal(t, "", KeyPrefix("exactly8"))
	assert.Equal(t, "sk-abcde...", KeyPrefix("sk-abcdefghijkl"))
	assert.Equal(t, "12345678...", KeyPrefix("123456789"))
}

func TestCredentialFrom(t *testing.T) {
	assert.Equal(t, "key-from-header", CredentialFrom("key-from-header", "Bearer other"))
	assert.Equal(t, "tok", CredentialFrom("", "Bearer tok"))
	assert.Equal(t, "tok", CredentialFrom("", "bearer tok"))
	assert.Equal(t, "", CredentialFrom("", "Basic dXNlcjpwYXNz"))
	assert.Equal(t, "", CredentialFrom("", "Bearer "))
}
