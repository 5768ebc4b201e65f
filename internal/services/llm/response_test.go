package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdownFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\": 1}\n```\n  ", `{"a": 1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanMarkdownFences(tt.input))
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	assert.False(t, IsRateLimitError(nil))
	assert.False(t, IsRateLimitError(&testError{msg: "connection refused"}))
	assert.True(t, IsRateLimitError(&testError{msg: "429 Too Many Requests"}))
	assert.True(t, IsRateLimitError(&testError{msg: "RESOURCE_EXHAUSTED"}))
	assert.True(t, IsRateLimitError(&testError{msg: "quota exceeded"}))
}

func TestExtractRetryDelay(t *testing.T) {
	err := &testError{msg: "rate limited, retryDelay: 30s"}
	assert.Equal(t, 30*time.Second, ExtractRetryDelay(err))

	assert.Zero(t, ExtractRetryDelay(&testError{msg: "some other error"}))
	assert.Zero(t, ExtractRetryDelay(nil))
}

func TestCalculateBackoff_Capped(t *testing.T) {
	config := NewDefaultRetryConfig()

	first := config.CalculateBackoff(0, 0)
	assert.Equal(t, config.InitialBackoff, first)

	huge := config.CalculateBackoff(10, 0)
	assert.Equal(t, config.MaxBackoff, huge)

	withAPIDelay := config.CalculateBackoff(0, 20*time.Second)
	assert.Equal(t, 25*time.Second, withAPIDelay)
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
