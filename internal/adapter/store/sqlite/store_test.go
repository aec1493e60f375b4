package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydnr/jdfix/internal/adapter/store/sqlite"
	"github.com/rydnr/jdfix/internal/usecase/fix"
)

func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	// Use in-memory database for testing
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err, "failed to create test store")

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestStore_SaveRun_GetRun(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	run := fix.StoreRun{
		RunID:       "run-123",
		Timestamp:   time.Now().Truncate(time.Second), // Truncate to avoid precision issues
		Script:      "./check-docs.sh",
		IssuesFound: 12,
		Attempted:   10,
		Applied:     8,
		Remaining:   4,
	}

	err := s.SaveRun(ctx, run)
	require.NoError(t, err)

	retrieved, err := s.GetRun(ctx, run.RunID)
	require.NoError(t, err)

	assert.Equal(t, run.RunID, retrieved.RunID)
	assert.Equal(t, run.Script, retrieved.Script)
	assert.Equal(t, run.IssuesFound, retrieved.IssuesFound)
	assert.Equal(t, run.Attempted, retrieved.Attempted)
	assert.Equal(t, run.Applied, retrieved.Applied)
	assert.Equal(t, run.Remaining, retrieved.Remaining)
	assert.True(t, run.Timestamp.Equal(retrieved.Timestamp))
}

func TestStore_GetRun_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestStore_ListRuns(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	runs := []fix.StoreRun{
		{RunID: "run-1", Timestamp: now.Add(-2 * time.Hour), Script: "a.sh"},
		{RunID: "run-2", Timestamp: now.Add(-1 * time.Hour), Script: "b.sh"},
		{RunID: "run-3", Timestamp: now, Script: "c.sh"},
	}

	for _, run := range runs {
		err := s.SaveRun(ctx, run)
		require.NoError(t, err)
	}

	// List runs (should be in descending timestamp order)
	retrieved, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, retrieved, 3)

	assert.Equal(t, "run-3", retrieved[0].RunID)
	assert.Equal(t, "run-2", retrieved[1].RunID)
	assert.Equal(t, "run-1", retrieved[2].RunID)

	// Test limit
	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_SaveFixes_GetFixes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	run := fix.StoreRun{
		RunID:     "run-123",
		Timestamp: time.Now().Truncate(time.Second),
		Script:    "./check-docs.sh",
	}
	require.NoError(t, s.SaveRun(ctx, run))

	fixes := []fix.StoreFix{
		{
			IssueHash: "hash1",
			File:      "src/main/java/Flow.java",
			Line:      42,
			Message:   "warning: no @param for <T>",
			Strategy:  "generic-param",
			Applied:   true,
		},
		{
			IssueHash: "hash2",
			File:      "src/main/java/Port.java",
			Line:      17,
			Message:   "warning: no @return",
			Strategy:  "missing-return",
			Applied:   false,
			Reason:    "doc block terminator not found within scan window",
		},
	}

	err := s.SaveFixes(ctx, "run-123", fixes)
	require.NoError(t, err)

	retrieved, err := s.GetFixesByRun(ctx, "run-123")
	require.NoError(t, err)
	require.Len(t, retrieved, 2)

	// Verify insertion order is preserved
	f1 := retrieved[0]
	assert.Equal(t, "hash1", f1.IssueHash)
	assert.Equal(t, "src/main/java/Flow.java", f1.File)
	assert.Equal(t, 42, f1.Line)
	assert.Equal(t, "generic-param", f1.Strategy)
	assert.True(t, f1.Applied)
	assert.Empty(t, f1.Reason)

	f2 := retrieved[1]
	assert.Equal(t, "missing-return", f2.Strategy)
	assert.False(t, f2.Applied)
	assert.Equal(t, "doc block terminator not found within scan window", f2.Reason)
}

func TestStore_ForeignKeyConstraints(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Try to save fixes without a run (should fail)
	fixes := []fix.StoreFix{
		{IssueHash: "hash1", File: "a.java", Line: 1, Message: "m", Strategy: "missing-comment"},
	}

	err := s.SaveFixes(ctx, "nonexistent-run", fixes)
	assert.Error(t, err, "should fail due to foreign key constraint")
}
