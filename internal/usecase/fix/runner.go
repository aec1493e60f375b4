package fix

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rydnr/jdfix/internal/domain"
)

// ErrAnchorNotFound indicates the upward scan exhausted its window without
// finding a doc-block terminator. The fix is abandoned for that issue; the
// run continues.
var ErrAnchorNotFound = errors.New("doc block terminator not found within scan window")

// Linter abstracts the diagnostics collaborator: an external process whose
// stderr carries file:line:message diagnostics.
type Linter interface {
	Collect(ctx context.Context) (string, error)
}

// Logger is the optional structured-logging port for the runner.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Store is the optional persistence port for fix-run history.
type Store interface {
	SaveRun(ctx context.Context, run StoreRun) error
	SaveFixes(ctx context.Context, runID string, fixes []StoreFix) error
	Close() error
}

// StoreRun represents a fix run for persistence.
type StoreRun struct {
	RunID       string
	Timestamp   time.Time
	Script      string
	IssuesFound int
	Attempted   int
	Applied     int
	Remaining   int
}

// StoreFix represents a single fix outcome for persistence.
type StoreFix struct {
	IssueHash string
	File      string
	Line      int
	Message   string
	Strategy  string
	Applied   bool
	Reason    string
}

// RunnerDeps captures the collaborators for the fix runner.
type RunnerDeps struct {
	Linter  Linter
	Patcher *Patcher
	Logger  Logger    // Optional: structured logging for warnings and info
	Store   Store     // Optional: persistence for run history
	Out     io.Writer // Summary output; defaults to os.Stdout

	// Progress, when non-nil, receives one line per applied fix. The CLI
	// wires this to stdout only when it is a terminal.
	Progress io.Writer

	// Script is recorded with the run history; it is not executed here.
	Script string

	Dedup  bool
	DryRun bool

	// Scan windows; zero values fall back to the defaults.
	GenericWindow int
	ReturnWindow  int
	CommentWindow int
}

// Runner drives the fix cycle: collect diagnostics, fix each issue in input
// order, re-collect to report the residual count. Strictly sequential and
// non-retrying; no single-issue failure aborts the run.
type Runner struct {
	deps RunnerDeps
}

// NewRunner wires the runner dependencies and applies window defaults.
func NewRunner(deps RunnerDeps) *Runner {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.GenericWindow == 0 {
		deps.GenericWindow = GenericWindow
	}
	if deps.ReturnWindow == 0 {
		deps.ReturnWindow = ReturnWindow
	}
	if deps.CommentWindow == 0 {
		deps.CommentWindow = CommentWindow
	}
	return &Runner{deps: deps}
}

// Run executes one full fix cycle and returns the run summary. The returned
// error covers setup failures only; per-issue failures are folded into the
// summary's results.
func (r *Runner) Run(ctx context.Context) (domain.RunSummary, error) {
	if r.deps.Linter == nil {
		return domain.RunSummary{}, errors.New("linter is required")
	}
	if r.deps.Patcher == nil {
		return domain.RunSummary{}, errors.New("patcher is required")
	}

	// Collecting
	output, err := r.deps.Linter.Collect(ctx)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("collect diagnostics: %w", err)
	}

	issues := ParseDiagnostics(output)
	if r.deps.Dedup {
		issues = Dedup(issues)
	}

	summary := domain.RunSummary{IssuesFound: len(issues)}
	fmt.Fprintf(r.deps.Out, "Found %d issues to fix\n", len(issues))

	if len(issues) == 0 {
		summary.Verified = true
		return summary, nil
	}

	// Fixing
	for _, issue := range issues {
		result, attempted := r.fixIssue(ctx, issue)
		summary.Results = append(summary.Results, result)
		if attempted {
			summary.Attempted++
		}
		if result.Applied {
			summary.Applied++
			if r.deps.Progress != nil {
				fmt.Fprintf(r.deps.Progress, "  fixed %s:%d\n", issue.File, issue.Line)
			}
		}
	}

	fmt.Fprintf(r.deps.Out, "Applied %d/%d fixes\n", summary.Applied, summary.Attempted)

	// Verifying: re-run the linter and report the residual count. No
	// further action is taken on it.
	residual, err := r.deps.Linter.Collect(ctx)
	if err != nil {
		r.logWarning(ctx, "verification pass failed", map[string]interface{}{"error": err.Error()})
	} else {
		remaining := ParseDiagnostics(residual)
		if r.deps.Dedup {
			remaining = Dedup(remaining)
		}
		summary.Remaining = len(remaining)
		summary.Verified = true
		fmt.Fprintf(r.deps.Out, "Remaining issues: %d\n", summary.Remaining)
	}

	r.persist(ctx, summary)

	return summary, nil
}

// fixIssue attempts one fix. The second return reports whether the issue
// counted as attempted: unknown strategies are out of scope for auto-fix and
// are skipped without touching the failure tally.
func (r *Runner) fixIssue(ctx context.Context, issue domain.Issue) (domain.FixResult, bool) {
	strategy := Classify(issue)

	var err error
	switch strategy.Kind {
	case domain.StrategyGenericParam:
		err = r.applyGenericParam(issue, strategy.Param)
	case domain.StrategyMissingReturn:
		err = r.applyReturn(issue)
	case domain.StrategyMissingComment:
		err = r.applyComment(issue)
	default:
		return domain.FixResult{Issue: issue, Applied: false, Reason: "unsupported issue type"}, false
	}

	if err != nil {
		r.logWarning(ctx, "fix not applied", map[string]interface{}{
			"file":     issue.File,
			"line":     issue.Line,
			"strategy": strategy.Kind.String(),
			"reason":   err.Error(),
		})
		return domain.FixResult{Issue: issue, Applied: false, Reason: err.Error()}, true
	}

	if r.deps.DryRun {
		return domain.FixResult{Issue: issue, Applied: false, Reason: "dry run"}, true
	}

	r.logInfo(ctx, "fix applied", map[string]interface{}{
		"file":     issue.File,
		"line":     issue.Line,
		"strategy": strategy.Kind.String(),
	})
	return domain.FixResult{Issue: issue, Applied: true}, true
}

func (r *Runner) applyGenericParam(issue domain.Issue, param string) error {
	lines, err := r.deps.Patcher.Lines(issue.File)
	if err != nil {
		return err
	}

	anchor, ok := FindDocEnd(lines, issue.Line, r.deps.GenericWindow)
	if !ok {
		return ErrAnchorNotFound
	}

	annotation := fmt.Sprintf("     * @param <%s> %s", param, GenericParamDescription(param))
	return r.insert(issue.File, anchor, []string{annotation})
}

func (r *Runner) applyReturn(issue domain.Issue) error {
	lines, err := r.deps.Patcher.Lines(issue.File)
	if err != nil {
		return err
	}
	if issue.Line > len(lines) {
		return fmt.Errorf("reported line %d beyond end of file (%d lines)", issue.Line, len(lines))
	}

	anchor, ok := FindDocEnd(lines, issue.Line, r.deps.ReturnWindow)
	if !ok {
		return ErrAnchorNotFound
	}

	annotation := fmt.Sprintf("     * @return %s", ReturnDescription(lines[issue.Line-1]))
	return r.insert(issue.File, anchor, []string{annotation})
}

func (r *Runner) applyComment(issue domain.Issue) error {
	lines, err := r.deps.Patcher.Lines(issue.File)
	if err != nil {
		return err
	}
	if issue.Line > len(lines) {
		return fmt.Errorf("reported line %d beyond end of file (%d lines)", issue.Line, len(lines))
	}

	decl := lines[issue.Line-1]
	summary, ok := MethodSummary(decl)
	if !ok {
		return fmt.Errorf("no method declaration found on reported line")
	}

	// The whole block goes in front of the declaration itself; there is no
	// existing doc block to extend.
	indent := leadingWhitespace(decl)
	block := []string{
		indent + "/**",
		indent + " * " + summary,
		indent + " */",
	}
	return r.insert(issue.File, issue.Line-1, block)
}

func (r *Runner) insert(path string, anchor int, content []string) error {
	if r.deps.DryRun {
		return nil
	}
	return r.deps.Patcher.Insert(path, anchor, content)
}

// persist records the run in the history store. Store failures are logged
// and never abort the run.
func (r *Runner) persist(ctx context.Context, summary domain.RunSummary) {
	if r.deps.Store == nil || r.deps.DryRun {
		return
	}

	now := time.Now()
	runID := generateRunID(now)

	run := StoreRun{
		RunID:       runID,
		Timestamp:   now,
		Script:      r.deps.Script,
		IssuesFound: summary.IssuesFound,
		Attempted:   summary.Attempted,
		Applied:     summary.Applied,
		Remaining:   summary.Remaining,
	}
	if err := r.deps.Store.SaveRun(ctx, run); err != nil {
		r.logWarning(ctx, "failed to save run record", map[string]interface{}{
			"runID": runID,
			"error": err.Error(),
		})
		return
	}

	fixes := make([]StoreFix, 0, len(summary.Results))
	for _, result := range summary.Results {
		fixes = append(fixes, StoreFix{
			IssueHash: result.Issue.Hash(),
			File:      result.Issue.File,
			Line:      result.Issue.Line,
			Message:   result.Issue.Message,
			Strategy:  Classify(result.Issue).Kind.String(),
			Applied:   result.Applied,
			Reason:    result.Reason,
		})
	}
	if err := r.deps.Store.SaveFixes(ctx, runID, fixes); err != nil {
		r.logWarning(ctx, "failed to save fix records", map[string]interface{}{
			"runID": runID,
			"error": err.Error(),
		})
	}
}

func (r *Runner) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if r.deps.Logger != nil {
		r.deps.Logger.LogWarning(ctx, message, fields)
		return
	}
	log.Printf("warning: %s: %v", message, fields)
}

func (r *Runner) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if r.deps.Logger != nil {
		r.deps.Logger.LogInfo(ctx, message, fields)
	}
}

func generateRunID(now time.Time) string {
	sum := sha256.Sum256([]byte(now.Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:8])
}
