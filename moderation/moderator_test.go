package moderation

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary avoids words hidden inside common ones ("ta" inside "data").
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"idiota", "palhaco", "scam"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "Esse prazo e de idiota",
			expected: "Esse prazo e de ******",
			words:    []string{"idiota"},
		},
		{
			name:     "Multiple occurrences",
			input:    "scam scam",
			expected: "**** ****",
			words:    []string{"scam", "scam"},
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Isso e um $.c.4.m ok",
			expected: "Isso e um ******* ok",
			words:    []string{"scam"},
		},
		{
			name:     "Uppercase and noise",
			input:    "P-A-L-H-A-C-O e IDIOTA",
			expected: "************* e ******",
			words:    []string{"palhaco", "idiota"},
		},
		{
			name:     "Accents are kept outside matches",
			input:    "Reunião às 10h, scam?",
			expected: "Reunião às 10h, ****?",
			words:    []string{"scam"},
		},
		{
			name:     "Nothing to censor",
			input:    "Projeto aprovado pela consultora",
			expected: "Projeto aprovado pela consultora",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content, "test=%s,", tt.name)
			req.Equal(tt.words, words, "expected=%s,words=%s", tt.expected, words)
		})
	}
}

func TestModerator_Noise_Only_Words(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a dictionary where only one entry has letters
	mod, err := NewModerator([]string{"...", ",,,", "", "scam"}, replacementChar, log)
	req.NoError(err)

	content, words := mod.Censor("not a scam")
	req.Equal("not a ****", content)
	req.Equal([]string{"scam"}, words)

	// Then punctuation in messages is left alone
	content, words = mod.Censor("Hello ...")
	req.Equal("Hello ...", content)
	req.Nil(words)

	// And a dictionary without letters censors nothing
	empty, err := NewModerator([]string{"...", "--"}, replacementChar, log)
	req.NoError(err)
	content, words = empty.Censor("anything goes")
	req.Equal("anything goes", content)
	req.Nil(words)
}

func BenchmarkModerator_Censor(b *testing.B) {
	log := logs.GetLoggerFromLevel(slog.LevelError)
	words := make([]string, 0, 10_000)
	for i := 0; i < 10_000; i++ {
		words = append(words, "forbidden"+strings.Repeat("x", i%20)+string(rune('a'+i%26)))
	}
	mod, err := NewModerator(words, replacementChar, log)
	require.NoError(b, err)

	message := strings.Repeat("the consultant sent the forbiddenxxb estimate ", 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = mod.Censor(message)
	}
}
