package main

import (
	"path/filepath"
	"testing"
)

func TestRangeDescription(t *testing.T) {
	tests := []struct {
		name     string
		revRange string
		want     string
	}{
		{
			name:     "empty range means full history",
			revRange: "",
			want:     "in full history",
		},
		{
			name:     "two-dot range names the base",
			revRange: "v1.3.0..HEAD",
			want:     "since v1.3.0",
		},
		{
			name:     "single rev",
			revRange: "release-branch",
			want:     "from release-branch",
		},
		{
			name:     "range with empty base falls back to single-rev wording",
			revRange: "..HEAD",
			want:     "from ..HEAD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rangeDescription(tt.revRange); got != tt.want {
				t.Errorf("rangeDescription(%q) = %q, want %q", tt.revRange, got, tt.want)
			}
		})
	}
}

func TestOpenStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store := openStore(path)
	if store == nil {
		t.Fatal("expected store to open with a fresh nested directory")
	}
	defer store.Close()
}

func TestDefaultConfigPathsStartWithWorkingDirectory(t *testing.T) {
	paths := defaultConfigPaths()
	if len(paths) == 0 || paths[0] != "." {
		t.Fatalf("expected working directory first, got %v", paths)
	}
}
