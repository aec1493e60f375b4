package changelog

import (
	"regexp"
	"strings"
)

// Category groups commits for the changelog report.
type Category struct {
	Emoji    string
	Name     string
	keywords []string
}

// categories in match order: the first category whose emoji appears in the
// subject, or whose keyword matches case-insensitively, wins. Rendering uses
// a separate priority order (see renderOrder).
var categories = []Category{
	{"🧪", "Tests & Validation", []string{"test", "spec", "validation"}},
	{"✅", "Features & Implementation", []string{"implement", "add", "feature"}},
	{"🔥", "Major Features", []string{"major", "milestone", "revolutionary"}},
	{"📚", "Documentation", []string{"docs", "documentation", "readme"}},
	{"🔒", "Security & Dependencies", []string{"security", "upgrade", "vulnerability"}},
	{"🏗️", "Infrastructure", []string{"infrastructure", "build", "ci"}},
	{"🐛", "Bug Fixes", []string{"fix", "bug", "issue"}},
	{"🚀", "Performance & Optimization", []string{"performance", "optimize", "improve"}},
	{"📝", "Content Updates", []string{"update", "modify", "change"}},
}

// renderOrder lists category names as sections appear in the report,
// most prominent first.
var renderOrder = []string{
	"Major Features",
	"Features & Implementation",
	"Tests & Validation",
	"Bug Fixes",
	"Documentation",
	"Security & Dependencies",
	"Performance & Optimization",
	"Infrastructure",
	"Content Updates",
	"Other Changes",
}

// fallbackCategory collects commits matching no convention.
var fallbackCategory = Category{Emoji: "📋", Name: "Other Changes"}

// categoryByName resolves a render-order entry back to its category.
func categoryByName(name string) Category {
	for _, c := range categories {
		if c.Name == name {
			return c
		}
	}
	return fallbackCategory
}

// Categorize assigns a commit subject to a changelog category based on the
// project's emoji and keyword conventions.
func Categorize(subject string) Category {
	lower := strings.ToLower(subject)
	for _, c := range categories {
		if strings.Contains(subject, c.Emoji) {
			return c
		}
		for _, keyword := range c.keywords {
			if strings.Contains(lower, keyword) {
				return c
			}
		}
	}
	return fallbackCategory
}

var issueRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[#(\d+)\]`),
	regexp.MustCompile(`#(\d+)`),
	regexp.MustCompile(`\[([^\]]+)\]`),
}

// ExtractIssueRefs pulls issue references out of a commit subject. Numeric
// refs render as issue links; bracketed text refs render verbatim.
func ExtractIssueRefs(subject string) []string {
	var refs []string
	for _, pattern := range issueRefPatterns {
		for _, m := range pattern.FindAllStringSubmatch(subject, -1) {
			refs = append(refs, m[1])
		}
	}
	return refs
}

var stableTagPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// ReleaseType classifies a tag: bare semver or a v-prefix means stable,
// a milestone marker means milestone, anything else is a development build.
func ReleaseType(tag string) string {
	switch {
	case stableTagPattern.MatchString(tag):
		return "stable"
	case strings.Contains(tag, "milestone"):
		return "milestone"
	case strings.HasPrefix(tag, "v"):
		return "stable"
	default:
		return "development"
	}
}
