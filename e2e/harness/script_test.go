package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		name     string
		commands []string
	}{
		{name: "single command", commands: []string{"ls"}},
		{name: "several commands", commands: []string{"mkdir myDir", "cd myDir", "mkdir dirOne", "ls"}},
		{name: "paths and punctuation", commands: []string{"cd /one/two", "ln myLink /myFile123", "cd .."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := Join(tt.commands...)
			assert.Equal(t, tt.commands, strings.Split(script, "\n"))
			assert.False(t, strings.HasSuffix(script, "\n"), "no trailing separator")
		})
	}
}

func TestWriteRequestScript(t *testing.T) {
	req := WriteRequest{
		Filename: "myTextFile",
		Lines:    []string{"Hello World!", "second line"},
	}

	want := []string{
		"cat myTextFile",
		"Hello World!",
		"second line",
		".",
		"cat myTextFile",
		"myTextFile",
		".",
	}
	assert.Equal(t, want, strings.Split(req.Script(), "\n"))
}

func TestWriteRequestScriptNoLines(t *testing.T) {
	req := WriteRequest{Filename: "empty"}
	assert.Equal(t, "cat empty\n.\ncat empty\nempty\n.", req.Script())
}

func TestCreate(t *testing.T) {
	assert.Equal(t, "cat file1\nfile1\n.", Create("file1"))
}
