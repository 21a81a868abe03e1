package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"acceptability\": 0.9}\n```",
			expected: `{"acceptability": 0.9}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"acceptability\": 0.9}\n```",
			expected: `{"acceptability": 0.9}`,
		},
		{
			name:     "plain JSON",
			input:    `{"scores": {"position": 0.8}}`,
			expected: `{"scores": {"position": 0.8}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_SurroundingText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before object",
			input:    "Here is the classification:\n{\"scores\": {\"opinion\": 0.4}}",
			expected: `{"scores": {"opinion": 0.4}}`,
		},
		{
			name:     "trailing text",
			input:    "{\"acceptability\": 0.2}\n\nThe sentence lacks a verb.",
			expected: `{"acceptability": 0.2}`,
		},
		{
			name:     "preamble before array",
			input:    "Result: [0.1, 0.2]",
			expected: `[0.1, 0.2]`,
		},
		{
			name:     "braces inside strings",
			input:    `Output: {"reason": "uses {braces} and \"quotes\""} done`,
			expected: `{"reason": "uses {braces} and \"quotes\""}`,
		},
		{
			name:     "no JSON",
			input:    "not json",
			expected: "not json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `{"a": {"b": 1}}`, extractJSONObject(`{"a": {"b": 1}} tail`))
	assert.Equal(t, `[[1], [2]]`, extractJSONArray(`[[1], [2]], more`))
	assert.Equal(t, "", extractJSONObject(`{"unterminated": 1`))
	assert.Equal(t, "", extractJSONObject("plain"))
	assert.Equal(t, "", extractJSONArray(""))
}
