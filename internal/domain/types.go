package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Issue represents a single diagnostic reported by the doc linter.
// Line is 1-based, exactly as reported.
type Issue struct {
	File    string
	Line    int
	Message string
}

// Key returns the deduplication key for the issue: the full tuple.
// Two diagnostics that differ in any field are considered distinct.
func (i Issue) Key() string {
	return fmt.Sprintf("%s:%d:%s", i.File, i.Line, i.Message)
}

// Hash returns a deterministic identifier for the issue, suitable for
// persistence and cross-run correlation.
func (i Issue) Hash() string {
	sum := sha256.Sum256([]byte(i.Key()))
	return hex.EncodeToString(sum[:])
}

// StrategyKind identifies the repair recipe chosen for an issue.
type StrategyKind int

const (
	// StrategyUnknown marks issues outside the supported fix set. They are
	// skipped, not failed.
	StrategyUnknown StrategyKind = iota

	// StrategyGenericParam inserts a @param annotation for a generic type
	// parameter into the existing doc block.
	StrategyGenericParam

	// StrategyMissingReturn inserts a @return annotation into the existing
	// doc block.
	StrategyMissingReturn

	// StrategyMissingComment inserts a complete three-line doc block before
	// an undocumented method declaration.
	StrategyMissingComment
)

// String returns the strategy name used in logs and the history store.
func (k StrategyKind) String() string {
	switch k {
	case StrategyGenericParam:
		return "generic-param"
	case StrategyMissingReturn:
		return "missing-return"
	case StrategyMissingComment:
		return "missing-comment"
	default:
		return "unknown"
	}
}

// Strategy is the classified repair recipe for one issue. Param is only set
// for StrategyGenericParam.
type Strategy struct {
	Kind  StrategyKind
	Param string
}

// FixResult records the outcome of one fix attempt.
type FixResult struct {
	Issue   Issue
	Applied bool
	Reason  string
}

// RunSummary aggregates a full fix run. Remaining is the issue count
// reported by the post-run lint pass; it is informational only and valid
// only when Verified is true.
type RunSummary struct {
	IssuesFound int
	Attempted   int
	Applied     int
	Remaining   int
	Verified    bool
	Results     []FixResult
}

// Commit is one record from the commit-log collaborator. Date is formatted
// as YYYY-MM-DD.
type Commit struct {
	Hash    string
	Subject string
	Author  string
	Email   string
	Date    string
}
