// Package git implements the commit-log collaborator backed by go-git.
package git

import (
	"context"
	"fmt"
	"strings"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rydnr/jdfix/internal/domain"
)

// shortHashLen matches the abbreviated hash width of `git log --pretty=%h`.
const shortHashLen = 7

// LogReader reads commit records from a repository.
type LogReader struct {
	repoDir string
}

// NewLogReader constructs a log reader for the provided repository directory.
func NewLogReader(repoDir string) *LogReader {
	if repoDir == "" {
		repoDir = "."
	}
	return &LogReader{repoDir: repoDir}
}

// Log returns commit records, most recent first, excluding merge commits.
// revRange is optional: empty means the full history from HEAD, a single
// rev means the history from that rev, and "A..B" means commits reachable
// from B but not from A.
func (r *LogReader) Log(ctx context.Context, revRange string) ([]domain.Commit, error) {
	repo, err := goGit.PlainOpenWithOptions(r.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	from, exclude, err := resolveRange(repo, revRange)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]bool)
	if exclude != nil {
		if err := markAncestors(ctx, repo, *exclude, excluded); err != nil {
			return nil, err
		}
	}

	iter, err := repo.Log(&goGit.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	var commits []domain.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if excluded[c.Hash] {
			return nil
		}
		if c.NumParents() > 1 {
			return nil
		}
		commits = append(commits, toRecord(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate log: %w", err)
	}

	return commits, nil
}

func toRecord(c *object.Commit) domain.Commit {
	subject := c.Message
	if idx := strings.IndexByte(subject, '\n'); idx >= 0 {
		subject = subject[:idx]
	}
	return domain.Commit{
		Hash:    c.Hash.String()[:shortHashLen],
		Subject: strings.TrimSpace(subject),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		Date:    c.Author.When.Format("2006-01-02"),
	}
}

// resolveRange maps a rev-range expression to a starting hash and an
// optional exclusion boundary.
func resolveRange(repo *goGit.Repository, revRange string) (from plumbing.Hash, exclude *plumbing.Hash, err error) {
	if revRange == "" {
		head, err := repo.Head()
		if err != nil {
			return plumbing.ZeroHash, nil, fmt.Errorf("resolve HEAD: %w", err)
		}
		return head.Hash(), nil, nil
	}

	if base, target, ok := strings.Cut(revRange, ".."); ok {
		baseHash, err := resolveRev(repo, base)
		if err != nil {
			return plumbing.ZeroHash, nil, fmt.Errorf("resolve base rev %s: %w", base, err)
		}
		targetHash, err := resolveRev(repo, target)
		if err != nil {
			return plumbing.ZeroHash, nil, fmt.Errorf("resolve target rev %s: %w", target, err)
		}
		return targetHash, &baseHash, nil
	}

	hash, err := resolveRev(repo, revRange)
	if err != nil {
		return plumbing.ZeroHash, nil, fmt.Errorf("resolve rev %s: %w", revRange, err)
	}
	return hash, nil, nil
}

// resolveRev tries the rev as given, then as a local branch, then as a
// remote-tracking branch.
func resolveRev(repo *goGit.Repository, rev string) (plumbing.Hash, error) {
	rev = strings.TrimSpace(rev)
	candidates := []string{
		rev,
		fmt.Sprintf("refs/heads/%s", rev),
		fmt.Sprintf("refs/remotes/origin/%s", rev),
	}

	var lastErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err != nil {
			lastErr = err
			continue
		}
		return *hash, nil
	}
	return plumbing.ZeroHash, lastErr
}

// markAncestors records the boundary commit and all of its ancestors so the
// log iteration can skip them.
func markAncestors(ctx context.Context, repo *goGit.Repository, from plumbing.Hash, seen map[plumbing.Hash]bool) error {
	iter, err := repo.Log(&goGit.LogOptions{From: from})
	if err != nil {
		return fmt.Errorf("walk excluded revs: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk excluded revs: %w", err)
	}
	return nil
}
