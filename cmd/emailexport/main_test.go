package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<style>.lead{color:#ff0000}</style><p class="lead">Hello <b>there</b></p>`

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		stdin    string
		code     int
		contains []string
		excludes []string
		stderr   string
	}{
		{
			name:     "stdin with defaults",
			stdin:    page,
			contains: []string{"<!DOCTYPE", "color: #ff0000", "Hello"},
			excludes: []string{"<style>.lead"},
		},
		{
			name:     "title flag",
			args:     []string{"-title", "News"},
			stdin:    page,
			contains: []string{"<title>News</title>"},
		},
		{
			name:     "text only",
			args:     []string{"-text-only"},
			stdin:    page,
			contains: []string{"Hello there"},
			excludes: []string{"<p"},
		},
		{
			name:   "empty input",
			stdin:  "  ",
			code:   1,
			stderr: "error [general] empty input",
		},
		{
			name: "too many files",
			args: []string{"a.html", "b.html"},
			code: 2,
		},
		{
			name: "unknown flag",
			args: []string{"-nope"},
			code: 2,
		},
		{
			name:   "missing file",
			args:   []string{filepath.Join(t.TempDir(), "missing.html")},
			code:   1,
			stderr: "emailexport:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			require.Equal(t, tt.code, code, stderr.String())
			for _, s := range tt.contains {
				assert.Contains(t, stdout.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, stdout.String(), s)
			}
			if tt.stderr != "" {
				assert.Contains(t, stderr.String(), tt.stderr)
			}
		})
	}
}

func TestRun_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "in.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-q", "-minify", path}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Hello")
	assert.Empty(t, stderr.String())
}
