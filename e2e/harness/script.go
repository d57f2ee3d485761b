package harness

import "strings"

const (
	// WriteVerb is the target's content-entry command.
	WriteVerb = "cat"
	// Terminator ends content-entry mode.
	Terminator = "."
	// ExitCommand is appended to every session script.
	ExitCommand = "exit"
)

// Join assembles command lines into one script, separated by single
// newlines. Commands are forwarded verbatim.
func Join(commands ...string) string {
	return strings.Join(commands, "\n")
}

// WriteRequest is a two-pass content entry for Filename. The target
// creates or truncates on every entry, so after the second pass the file
// holds only its own name; Lines are not left on disk.
type WriteRequest struct {
	Filename string
	Lines    []string
}

// Script renders the request: one content-entry pass with the lines, then
// a second pass whose only content line is the filename itself.
func (w WriteRequest) Script() string {
	lines := make([]string, 0, len(w.Lines)+5)
	lines = append(lines, writeCommand(w.Filename))
	lines = append(lines, w.Lines...)
	lines = append(lines, Terminator)
	lines = append(lines, Create(w.Filename))
	return Join(lines...)
}

// Create renders a single content-entry pass that stores the filename as
// the file's only line.
func Create(filename string) string {
	return Join(writeCommand(filename), filename, Terminator)
}

func writeCommand(filename string) string {
	return WriteVerb + " " + filename
}
