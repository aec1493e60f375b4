package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/rydnr/jdfix/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestGenerateGroupsAndOrdersSections(t *testing.T) {
	g := NewGeneratorWithClock(fixedClock)

	report := g.Generate(Request{
		Tag:        "v1.4.0",
		Repository: "rydnr/bytehot",
		RangeDesc:  "since v1.3.0",
		Commits: []domain.Commit{
			{Hash: "abc1234", Subject: "Fix anchor window off-by-one", Author: "jane", Email: "jane@example.com", Date: "2025-05-30"},
			{Hash: "def5678", Subject: "🔥 Revolutionary class redefinition", Author: "jane", Email: "jane@example.com", Date: "2025-05-29"},
			{Hash: "0123abc", Subject: "Bump year in license headers", Author: "ana", Email: "ana@example.com", Date: "2025-05-28"},
		},
	})

	if !strings.Contains(report, "# v1.4.0") {
		t.Error("missing tag header")
	}
	if !strings.Contains(report, "**Release Type:** Stable") {
		t.Error("missing release type")
	}
	if !strings.Contains(report, "**Build Date:** 2025-06-01 12:00:00 UTC") {
		t.Error("missing build date")
	}
	if !strings.Contains(report, "3 commits since v1.3.0") {
		t.Error("missing commit count and range description")
	}

	// Sections appear in priority order: major features before bug fixes
	// before the fallback bucket.
	major := strings.Index(report, "### 🔥 Major Features")
	bugs := strings.Index(report, "### 🐛 Bug Fixes")
	other := strings.Index(report, "### 📋 Other Changes")
	if major == -1 || bugs == -1 || other == -1 {
		t.Fatalf("missing sections:\n%s", report)
	}
	if !(major < bugs && bugs < other) {
		t.Errorf("sections out of priority order: major=%d bugs=%d other=%d", major, bugs, other)
	}

	if !strings.Contains(report, "[abc1234](https://github.com/rydnr/bytehot/commit/abc1234)") {
		t.Error("missing commit link")
	}
}

func TestGenerateIssueLinks(t *testing.T) {
	g := NewGeneratorWithClock(fixedClock)

	report := g.Generate(Request{
		Tag:        "v2.0.0",
		Repository: "rydnr/bytehot",
		Commits: []domain.Commit{
			{Hash: "aaa1111", Subject: "Fix crash on empty buffer #42"},
		},
	})

	if !strings.Contains(report, "[#42](https://github.com/rydnr/bytehot/issues/42)") {
		t.Errorf("missing issue link:\n%s", report)
	}
}

func TestGenerateWithoutRepositoryOmitsLinks(t *testing.T) {
	g := NewGeneratorWithClock(fixedClock)

	report := g.Generate(Request{
		Tag: "nightly-1",
		Commits: []domain.Commit{
			{Hash: "bbb2222", Subject: "Fix flaky retry"},
		},
	})

	if strings.Contains(report, "github.com") {
		t.Errorf("report should not fabricate links without a repository:\n%s", report)
	}
	if !strings.Contains(report, "(bbb2222)") {
		t.Error("bare hash missing")
	}
	if !strings.Contains(report, "**Release Type:** Development") {
		t.Error("wrong release type for nightly tag")
	}
}

func TestGenerateEmptyRange(t *testing.T) {
	g := NewGeneratorWithClock(fixedClock)

	report := g.Generate(Request{Tag: "v1.0.0", RangeDesc: "since v0.9.0"})
	if !strings.Contains(report, "No changes in this range.") {
		t.Errorf("empty range not reported:\n%s", report)
	}
}
