package sanitizex

import (
	"strings"
	"testing"
	"unicode"
)

func TestCleanSingleLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic trimming",
			input:    "  hello world  ",
			expected: "hello world",
		},
		{
			name:     "collapse multiple spaces",
			input:    "hello    world",
			expected: "hello world",
		},
		{
			name:     "remove newlines",
			input:    "hello\nworld",
			expected: "hello world",
		},
		{
			name:     "remove tabs",
			input:    "hello\tworld",
			expected: "hello world",
		},
		{
			name:     "control characters",
			input:    "hello\x00\x01\x02world",
			expected: "hello world",
		},
		{
			name:     "unicode normalization - decomposed",
			input:    "café",
			expected: "café",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   \n\t\r   ",
			expected: "",
		},
		{
			name:     "unicode characters preserved",
			input:    "김철수 дмитрий 你好",
			expected: "김철수 дмитрий 你好",
		},
		{
			name:     "mixed unicode and control chars",
			input:    "  héllo\x00\nwörld\t  ",
			expected: "héllo wörld",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanSingleLine(tt.input)
			if result != tt.expected {
				t.Errorf("CleanSingleLine(%q) = %q, want %q", tt.input, result, tt.expected)
			}

			for _, r := range result {
				if unicode.IsControl(r) {
					t.Errorf("CleanSingleLine(%q) = %q, should not contain control characters", tt.input, result)
					break
				}
			}

			if strings.Contains(result, "  ") {
				t.Errorf("CleanSingleLine(%q) = %q, should not contain multiple consecutive spaces", tt.input, result)
			}

			if result != strings.TrimSpace(result) {
				t.Errorf("CleanSingleLine(%q) = %q, should not have leading/trailing whitespace", tt.input, result)
			}
		})
	}
}

func TestCleanEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "Alice@Example.COM",
			expected: "alice@example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  bob@example.com\n",
			expected: "bob@example.com",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "decomposed accent composes",
			input:    "résume@example.com",
			expected: "résume@example.com",
		},
		{
			name:     "already clean",
			input:    "carol@example.com",
			expected: "carol@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanEmail(tt.input)
			if result != tt.expected {
				t.Errorf("CleanEmail(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCleanEmail_CaseVariantsCollapse(t *testing.T) {
	variants := []string{"hr@staffsync.io", "HR@staffsync.io", " hr@STAFFSYNC.IO "}
	first := CleanEmail(variants[0])
	for _, v := range variants[1:] {
		if CleanEmail(v) != first {
			t.Errorf("CleanEmail(%q) = %q, want %q", v, CleanEmail(v), first)
		}
	}
}
