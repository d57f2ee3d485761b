package harness

import (
	"bytes"
	"strings"
)

// PromptMarker is the bare prompt the target prints before each command.
const PromptMarker = "$"

// Transcript holds the raw output lines of one session, in emission order.
type Transcript []string

// TokenStream is the ordered sequence of words extracted from one or more
// transcripts.
type TokenStream []string

// SplitLines turns raw terminal output into lines. The terminal layer
// emits CRLF, so carriage returns are treated as line breaks as well.
func SplitLines(raw []byte) Transcript {
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	raw = bytes.ReplaceAll(raw, []byte("\r"), []byte("\n"))
	text := strings.TrimSuffix(string(raw), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Tokenize flattens transcripts into a single stream of whitespace
// delimited words. Lone prompt markers are dropped; every other word is
// kept verbatim.
func Tokenize(transcripts ...Transcript) TokenStream {
	var tokens TokenStream
	for _, transcript := range transcripts {
		for _, line := range transcript {
			for _, word := range strings.Fields(line) {
				if word == PromptMarker {
					continue
				}
				tokens = append(tokens, word)
			}
		}
	}
	return tokens
}

// Contains reports whether token occurs anywhere in the stream.
func (s TokenStream) Contains(token string) bool {
	for _, t := range s {
		if t == token {
			return true
		}
	}
	return false
}

func (s TokenStream) String() string {
	return strings.Join(s, " ")
}
