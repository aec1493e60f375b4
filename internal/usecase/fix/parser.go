package fix

import (
	"strconv"
	"strings"

	"github.com/rydnr/jdfix/internal/domain"
)

// diagnosticMarkers are the substrings that qualify a lint output line as a
// diagnostic worth parsing. Anything else is ignored without error.
var diagnosticMarkers = []string{
	"warning:",
	"error:",
	"no @param for <",
}

// ParseDiagnostics converts raw linter output into structured issues.
//
// A line qualifies when it carries a diagnostic marker and splits on ":"
// into at least three segments shaped as file:line:message. The message may
// itself contain colons, so everything after the second colon is rejoined.
// Lines that fail to parse are silently skipped: they are not diagnostics,
// not errors.
//
// Known limitation: a file path containing a colon misparses. The linter
// this tool targets never emits such paths.
func ParseDiagnostics(text string) []domain.Issue {
	var issues []domain.Issue
	for _, line := range strings.Split(text, "\n") {
		issue, ok := parseLine(line)
		if !ok {
			continue
		}
		issues = append(issues, issue)
	}
	return issues
}

func parseLine(line string) (domain.Issue, bool) {
	if !hasMarker(line) {
		return domain.Issue{}, false
	}

	parts := strings.Split(line, ":")
	if len(parts) < 3 {
		return domain.Issue{}, false
	}

	file := strings.TrimSpace(parts[0])
	if file == "" {
		return domain.Issue{}, false
	}

	lineNum, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.Issue{}, false
	}

	message := strings.TrimSpace(strings.Join(parts[2:], ":"))
	return domain.Issue{File: file, Line: lineNum, Message: message}, true
}

func hasMarker(line string) bool {
	for _, marker := range diagnosticMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// Dedup removes duplicate issues, keeping the first occurrence of each full
// (file, line, message) tuple in input order.
func Dedup(issues []domain.Issue) []domain.Issue {
	seen := make(map[string]bool, len(issues))
	out := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		key := issue.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, issue)
	}
	return out
}
