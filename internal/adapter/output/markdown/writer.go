package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type clock func() string

// Artifact is a rendered changelog destined for disk.
type Artifact struct {
	OutputDir  string
	Repository string // owner/name; only the name part lands in the filename
	Tag        string
	Content    string
}

// Writer persists changelog reports as Markdown files.
type Writer struct {
	now clock
}

// NewWriter constructs a Markdown writer with a timestamp supplier.
func NewWriter(now clock) *Writer {
	return &Writer{now: now}
}

// Write persists a Markdown artifact to disk and returns its path.
func (w *Writer) Write(ctx context.Context, artifact Artifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s_%s.md",
		sanitise(repoName(artifact.Repository)),
		sanitise(artifact.Tag),
		w.now(),
	)
	path := filepath.Join(artifact.OutputDir, filename)

	if err := os.WriteFile(path, []byte(artifact.Content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return path, nil
}

func repoName(repository string) string {
	if idx := strings.LastIndexByte(repository, '/'); idx >= 0 {
		return repository[idx+1:]
	}
	return repository
}

func sanitise(value string) string {
	if value == "" {
		return "unknown"
	}
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, string(filepath.Separator), "-")
	value = strings.ReplaceAll(value, " ", "-")
	return value
}
