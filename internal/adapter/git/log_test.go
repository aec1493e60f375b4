package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rydnr/jdfix/internal/adapter/git"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func signature(when time.Time) *object.Signature {
	return &object.Signature{
		Name:  "Test Author",
		Email: "author@example.com",
		When:  when,
	}
}

func commit(t *testing.T, wt *goGit.Worktree, dir, name, content, message string, when time.Time) {
	t.Helper()
	writeFile(t, dir, name, content)
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	if _, err := wt.Commit(message, &goGit.CommitOptions{Author: signature(when), Committer: signature(when)}); err != nil {
		t.Fatalf("commit %q: %v", message, err)
	}
}

func TestLogReturnsCommitsNewestFirst(t *testing.T) {
	tmp := t.TempDir()
	repo, err := goGit.PlainInit(tmp, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	commit(t, wt, tmp, "a.txt", "one", "Add parser", base)
	commit(t, wt, tmp, "a.txt", "two", "Fix anchor scan", base.Add(time.Hour))
	commit(t, wt, tmp, "a.txt", "three", "Update docs", base.Add(2*time.Hour))

	reader := git.NewLogReader(tmp)
	commits, err := reader.Log(context.Background(), "")
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	if len(commits) != 3 {
		t.Fatalf("got %d commits, want 3", len(commits))
	}
	if commits[0].Subject != "Update docs" || commits[2].Subject != "Add parser" {
		t.Errorf("commits out of order: %+v", commits)
	}
	if commits[0].Author != "Test Author" || commits[0].Email != "author@example.com" {
		t.Errorf("author metadata missing: %+v", commits[0])
	}
	if commits[0].Date != "2025-03-01" {
		t.Errorf("date = %q, want 2025-03-01", commits[0].Date)
	}
	if len(commits[0].Hash) != 7 {
		t.Errorf("hash = %q, want 7-char short hash", commits[0].Hash)
	}
}

func TestLogRangeExcludesBaseAncestors(t *testing.T) {
	tmp := t.TempDir()
	repo, err := goGit.PlainInit(tmp, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	commit(t, wt, tmp, "a.txt", "one", "Add initial layout", base)

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	baseRev := head.Hash().String()

	commit(t, wt, tmp, "a.txt", "two", "Fix off-by-one", base.Add(time.Hour))
	commit(t, wt, tmp, "a.txt", "three", "Add verification pass", base.Add(2*time.Hour))

	reader := git.NewLogReader(tmp)
	commits, err := reader.Log(context.Background(), baseRev+"..HEAD")
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2: %+v", len(commits), commits)
	}
	for _, c := range commits {
		if c.Subject == "Add initial layout" {
			t.Error("range must exclude the base commit and its ancestors")
		}
	}
}
