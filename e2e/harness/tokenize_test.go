package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name        string
		transcripts []Transcript
		want        TokenStream
	}{
		{
			name:        "splits words in order",
			transcripts: []Transcript{{"$ . ..", "dirOne dirTwo"}},
			want:        TokenStream{".", "..", "dirOne", "dirTwo"},
		},
		{
			name:        "drops every lone prompt",
			transcripts: []Transcript{{"$", "$ $ $", "  $  ", "$ ok"}},
			want:        TokenStream{"ok"},
		},
		{
			name:        "keeps prompt-like and numeric words verbatim",
			transcripts: []Transcript{{"$$ $x -5 myTextFile: 3290"}},
			want:        TokenStream{"$$", "$x", "-5", "myTextFile:", "3290"},
		},
		{
			name:        "concatenates transcripts in call order",
			transcripts: []Transcript{{"first"}, {"second", "third"}},
			want:        TokenStream{"first", "second", "third"},
		},
		{
			name:        "carriage returns are whitespace",
			transcripts: []Transcript{{"a\r", "b\tc\r"}},
			want:        TokenStream{"a", "b", "c"},
		},
		{
			name:        "empty output",
			transcripts: []Transcript{{}, {"", "   "}},
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.transcripts...))
		})
	}
}

func TestTokenizeIdempotentOnSingleWordLines(t *testing.T) {
	tokens := Tokenize(Transcript{"$ mkdir", "a b", "$", "-3"})
	again := Tokenize(Transcript(tokens))
	assert.Equal(t, tokens, again)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Transcript
	}{
		{name: "crlf", raw: "$ .\r\n..\r\n", want: Transcript{"$ .", ".."}},
		{name: "lf without trailing newline", raw: "a\nb", want: Transcript{"a", "b"}},
		{name: "bare cr", raw: "a\rb\r\n", want: Transcript{"a", "b"}},
		{name: "empty", raw: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines([]byte(tt.raw)))
		})
	}
}

func TestTokenStreamContains(t *testing.T) {
	tokens := TokenStream{"dirOne", "myFile123"}
	assert.True(t, tokens.Contains("dirOne"))
	assert.False(t, tokens.Contains("dir"))
	assert.False(t, tokens.Contains("DIRONE"))
}
