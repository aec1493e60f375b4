package fix

import "strings"

// docBlockTerminator ends a structured doc comment immediately preceding a
// declaration. New annotation lines are inserted just before it so they stay
// inside the block.
const docBlockTerminator = "*/"

// Scan windows, in candidate lines, for the upward anchor search. The
// return window is narrower: @return issues are reported closer to their
// doc block than generic-param issues.
const (
	GenericWindow = 18
	ReturnWindow  = 13
	CommentWindow = 18
)

// FindDocEnd locates the insertion anchor for an issue reported at
// reportedLine (1-based): the zero-based index of the nearest line above the
// declaration that contains the doc-block terminator.
//
// The scan starts at index reportedLine-2 (the line just above the reported
// one) and walks upward through at most window candidates. Index 0 is never
// scanned; a doc block terminating on the very first line of a file has no
// declaration above it to document. Returns false when the window is
// exhausted without a match.
func FindDocEnd(lines []string, reportedLine, window int) (int, bool) {
	start := reportedLine - 2
	stop := start - window
	if stop < 0 {
		stop = 0
	}

	for i := start; i > stop; i-- {
		if i >= len(lines) || i < 0 {
			continue
		}
		if strings.Contains(lines[i], docBlockTerminator) {
			return i, true
		}
	}
	return 0, false
}
