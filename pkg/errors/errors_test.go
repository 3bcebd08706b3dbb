package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	err := NewWithCode(ErrorTypeHTTP, 503, "service unavailable")
	assert.Equal(t, "http error (code 503): service unavailable", err.Error())

	err = New(ErrorTypeAuth, "no guest token in response")
	assert.Equal(t, "auth error: no guest token in response", err.Error())
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeDiscovery, TypeOf(New(ErrorTypeDiscovery, "no bearer token found")))
	assert.Equal(t, ErrorType(""), TypeOf(fmt.Errorf("plain error")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))

	// wrapped errors still classify
	wrapped := fmt.Errorf("fetch tweet 123: %w", New(ErrorTypeRateLimit, "429"))
	assert.True(t, IsType(wrapped, ErrorTypeRateLimit))
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		fatal     bool
	}{
		{ErrorTypeAuth, true},
		{ErrorTypeDiscovery, true},
		{ErrorTypeUnknownShape, true},
		{ErrorTypeRateLimit, false},
		{ErrorTypeSchemaMismatch, false},
		{ErrorTypeHTTP, false},
		{ErrorTypeNetwork, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(New(tt.errorType, "x")))
		})
	}

	assert.False(t, IsFatal(fmt.Errorf("not an api error")))
}

func TestIsRetryableStatusCode(t *testing.T) {
	assert.True(t, IsRetryableStatusCode(429))
	assert.True(t, IsRetryableStatusCode(500))
	assert.True(t, IsRetryableStatusCode(503))
	assert.True(t, IsRetryableStatusCode(0))
	assert.False(t, IsRetryableStatusCode(200))
	assert.False(t, IsRetryableStatusCode(404))
	assert.False(t, IsRetryableStatusCode(403))
}
