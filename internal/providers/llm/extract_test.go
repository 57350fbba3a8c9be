package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Query      string  `json:"query"`
	Confidence float64 `json:"confidence"`
}

func TestExtractJSON_Plain(t *testing.T) {
	got, err := ExtractJSON[sample](`{"query": "SELECT 1", "confidence": 0.9}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", got.Query)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)
}

func TestExtractJSON_FencedWithProse(t *testing.T) {
	raw := "Here is the query you asked for:\n```json\n{\"query\": \"SELECT 1\", \"confidence\": 0.7}\n```\nLet me know if you need more."

	got, err := ExtractJSON[sample](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", got.Query)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"query": "SELECT '{a}' FROM t", "confidence": 1}`

	got, err := ExtractJSON[sample](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT '{a}' FROM t", got.Query)
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := ExtractJSON[sample]("sorry, I cannot help with that", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidatorRejects(t *testing.T) {
	validator := func(s sample) error {
		if s.Confidence < 0 || s.Confidence > 1 {
			return fmt.Errorf("confidence out of range: %f", s.Confidence)
		}
		return nil
	}

	_, err := ExtractJSON[sample](`{"query": "SELECT 1", "confidence": 3}`, validator)
	assert.True(t, errors.Is(err, ErrInvalidOutput))
}

func TestStripCodeFences(t *testing.T) {
	raw := "```html\n<table></table>\n```"
	assert.Equal(t, "<table></table>", StripCodeFences(raw))
}

func TestStripCodeFences_NoFences(t *testing.T) {
	assert.Equal(t, "plain answer", StripCodeFences("plain answer"))
}
