package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gorichtext/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", langdetect.Unknown},
		{"whitespace", "  \n\t", langdetect.Unknown},
		{"shebang sh", "#!/bin/sh\necho hello", "bash"},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"go", "package main\n\nfunc main() {\n\tprintln(1)\n}", "go"},
		{"python", "def foo():\n    pass", "python"},
		{"rust", "fn main() {\n    println!(\"hi\");\n}", "rust"},
		{"json", `{"key": "value", "n": 1}`, "json"},
		{"sql", "select * from users where id = 1", "sql"},
		{"javascript", "const f = () => 42;", "javascript"},
		{"html", "<!DOCTYPE html>\n<html></html>", "html"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, langdetect.Detect([]byte(testCase.content)))
		})
	}
}

func TestFromClass(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "go", langdetect.FromClass("language-go"))
	assert.Equal(t, "python", langdetect.FromClass("highlight lang-python"))
	assert.Equal(t, "mylang", langdetect.FromClass("language-MyLang"))
	assert.Equal(t, langdetect.Unknown, langdetect.FromClass("highlight"))
	assert.Equal(t, langdetect.Unknown, langdetect.FromClass("language-"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bash", langdetect.Normalize("Shell"))
	assert.Equal(t, "cpp", langdetect.Normalize("C++"))
	assert.Equal(t, "typescript", langdetect.Normalize("TypeScript"))
}
