package fix

import (
	"regexp"
	"strings"

	"github.com/rydnr/jdfix/internal/domain"
)

var genericParamPattern = regexp.MustCompile(`no @param for <([^>]+)>`)

// Classify maps an issue's message to a repair strategy. Matching order
// matters: a message could in principle satisfy more than one rule, and the
// first match wins. Messages matching no rule classify as StrategyUnknown
// and are skipped by the runner.
func Classify(issue domain.Issue) domain.Strategy {
	if m := genericParamPattern.FindStringSubmatch(issue.Message); m != nil {
		return domain.Strategy{Kind: domain.StrategyGenericParam, Param: m[1]}
	}

	if strings.Contains(issue.Message, "no @return") {
		return domain.Strategy{Kind: domain.StrategyMissingReturn}
	}

	// Package-level constructs need a package-info file, not a method
	// comment, so they stay out of scope.
	if strings.Contains(issue.Message, "no comment") && !strings.Contains(issue.Message, "package") {
		return domain.Strategy{Kind: domain.StrategyMissingComment}
	}

	return domain.Strategy{Kind: domain.StrategyUnknown}
}
