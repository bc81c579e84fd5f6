package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryString(t *testing.T) {
	tests := map[ErrorCategory]string{
		Argument:      "Argument Error",
		Configuration: "Configuration Error",
		Repository:    "Repository Error",
		Runtime:       "Runtime Error",
	}

	for category, expected := range tests {
		assert.Equal(t, expected, category.String())
	}
}

func TestWrapWithMessage(t *testing.T) {
	wrapped := WrapWithMessage(errors.New("boom"), Runtime, "writing changelog")

	require.NotNil(t, wrapped)
	assert.Equal(t, Runtime, wrapped.Category)
	assert.Equal(t, "writing changelog: boom", wrapped.Message)

	assert.Nil(t, WrapWithMessage(nil, Runtime, "no-op"))
}

func TestFormatErrorPlain(t *testing.T) {
	err := NewRepositoryError("not a git repository: /tmp/x",
		"Run changeforge from inside a git repository")

	out := FormatErrorPlain(err)

	assert.Contains(t, out, "Error [Repository Error]: not a git repository: /tmp/x")
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "• Run changeforge from inside a git repository")
}

func TestFormatErrorPlain_WithUsage(t *testing.T) {
	err := &CLIError{
		Category: Argument,
		Message:  "unknown format",
		Usage:    "changeforge generate --format markdown|text|tree",
	}

	out := FormatErrorPlain(err)
	assert.Contains(t, out, "Usage: changeforge generate --format markdown|text|tree")
}

func TestFormatError_Nil(t *testing.T) {
	assert.Empty(t, FormatError(nil))
	assert.Empty(t, FormatErrorPlain(nil))
}
