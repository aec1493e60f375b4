package changelog

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rydnr/jdfix/internal/domain"
)

// Request carries the inputs for one changelog report.
type Request struct {
	Tag        string
	Repository string // owner/name, used for commit and issue links
	RangeDesc  string // human description of the commit range
	Commits    []domain.Commit
}

// clock supplies the build timestamp; injectable for deterministic tests.
type clock func() time.Time

// Generator renders categorized commit records into a markdown report.
type Generator struct {
	now clock
}

// NewGenerator constructs a Generator using the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock constructs a Generator with a fixed clock.
func NewGeneratorWithClock(now clock) *Generator {
	return &Generator{now: now}
}

// Generate produces the full markdown changelog for the request. Commits
// are grouped by category and rendered in the conventional priority order;
// categories with no commits are omitted.
func (g *Generator) Generate(req Request) string {
	grouped := make(map[string][]domain.Commit)
	for _, commit := range req.Commits {
		category := Categorize(commit.Subject)
		grouped[category.Name] = append(grouped[category.Name], commit)
	}

	var b strings.Builder
	caser := cases.Title(language.English)

	fmt.Fprintf(&b, "# %s\n\n", req.Tag)
	fmt.Fprintf(&b, "> **Release Type:** %s  \n", caser.String(ReleaseType(req.Tag)))
	fmt.Fprintf(&b, "> **Build Date:** %s  \n", g.now().UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "> **Changes:** %d commits %s\n\n", len(req.Commits), req.RangeDesc)

	b.WriteString("## What's Changed\n\n")

	if len(req.Commits) == 0 {
		b.WriteString("No changes in this range.\n")
		return b.String()
	}

	for _, name := range renderOrder {
		commits, ok := grouped[name]
		if !ok {
			continue
		}
		category := categoryByName(name)

		fmt.Fprintf(&b, "### %s %s\n\n", category.Emoji, category.Name)
		for _, commit := range commits {
			b.WriteString(g.commitLine(req.Repository, commit))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (g *Generator) commitLine(repository string, commit domain.Commit) string {
	var b strings.Builder

	b.WriteString("- ")
	b.WriteString(commit.Subject)

	if repository != "" {
		fmt.Fprintf(&b, " ([%s](https://github.com/%s/commit/%s))", commit.Hash, repository, commit.Hash)
	} else {
		fmt.Fprintf(&b, " (%s)", commit.Hash)
	}

	if refs := ExtractIssueRefs(commit.Subject); len(refs) > 0 {
		links := make([]string, 0, len(refs))
		for _, ref := range refs {
			if repository != "" && isNumeric(ref) {
				links = append(links, fmt.Sprintf("[#%s](https://github.com/%s/issues/%s)", ref, repository, ref))
			} else {
				links = append(links, fmt.Sprintf("[%s]", ref))
			}
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(links, ", "))
	}

	b.WriteString("\n")
	return b.String()
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
