package sqltracker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

func openTest(t *testing.T) *Tracker {
	t.Helper()
	tr, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestTracker_CreateAndSearch(t *testing.T) {
	tr := openTest(t)
	ctx := context.Background()

	b, err := tr.CreateBoard(ctx, "Development Board")
	require.NoError(t, err)
	s, err := tr.CreateSprint(ctx, "Sprint 1", b.ID)
	require.NoError(t, err)

	var keys []string
	for _, summary := range []string{"a", "b", "c"} {
		ref, err := tr.CreateIssue(ctx, tracker.IssueRequest{
			Project: "MS", Summary: summary, IssueType: "Task",
			OriginalEstimate: "4h", RemainingEstimate: "4h",
		})
		require.NoError(t, err)
		keys = append(keys, ref.Key)
	}
	assert.Equal(t, []string{"MS-1", "MS-2", "MS-3"}, keys)

	require.NoError(t, tr.AssignIssuesToSprint(ctx, s.ID, keys[:2]))
	require.NoError(t, tr.TransitionIssue(ctx, keys[0], tracker.CodeDone))

	refs, err := tr.SearchIssues(ctx, "sprint = "+s.ID+" AND status = DONE")
	require.NoError(t, err)
	assert.Equal(t, []tracker.IssueRef{{Key: keys[0]}}, refs)

	refs, err = tr.SearchIssues(ctx, "status = todo")
	require.NoError(t, err)
	assert.Equal(t, []tracker.IssueRef{{Key: keys[1]}, {Key: keys[2]}}, refs)

	refs, err = tr.SearchIssues(ctx, "")
	require.NoError(t, err)
	assert.Len(t, refs, 3)

	code, err := tr.Status(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, tracker.CodeDone, code)
}

func TestTracker_Worklogs(t *testing.T) {
	tr := openTest(t)
	ctx := context.Background()
	_, err := tr.CreateBoard(ctx, "Development Board")
	require.NoError(t, err)
	ref, err := tr.CreateIssue(ctx, tracker.IssueRequest{Project: "MS", Summary: "a"})
	require.NoError(t, err)

	require.NoError(t, tr.AddWorklog(ctx, ref.Key, 3600, "alice"))
	require.NoError(t, tr.AddWorklog(ctx, ref.Key, 900, ""))
	total, err := tr.TimeSpent(ctx, ref.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), total)

	assert.Error(t, tr.AddWorklog(ctx, ref.Key, -5, ""))
	assert.ErrorIs(t, tr.AddWorklog(ctx, "MS-99", 60, ""), tracker.ErrNotFound)
}

func TestTracker_NotFound(t *testing.T) {
	tr := openTest(t)
	ctx := context.Background()

	_, err := tr.CreateSprint(ctx, "Sprint 1", "missing")
	assert.ErrorIs(t, err, tracker.ErrNotFound)
	var ge *tracker.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, tracker.OpCreateSprint, ge.Op)

	assert.ErrorIs(t, tr.TransitionIssue(ctx, "MS-1", tracker.CodeDone), tracker.ErrNotFound)
	assert.ErrorIs(t, tr.AssignIssuesToSprint(ctx, "missing", []string{"MS-1"}), tracker.ErrNotFound)
	_, err = tr.Status(ctx, "MS-1")
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestTracker_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tracker.db")
	ctx := context.Background()

	tr, err := Open(path)
	require.NoError(t, err)
	_, err = tr.CreateBoard(ctx, "Development Board")
	require.NoError(t, err)
	_, err = tr.CreateIssue(ctx, tracker.IssueRequest{Project: "MS", Summary: "a"})
	require.NoError(t, err)
	require.NoError(t, tr.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	refs, err := reopened.SearchIssues(ctx, "project = MS")
	require.NoError(t, err)
	assert.Equal(t, []tracker.IssueRef{{Key: "MS-1"}}, refs)

	ref, err := reopened.CreateIssue(ctx, tracker.IssueRequest{Project: "MS", Summary: "b"})
	require.NoError(t, err)
	assert.Equal(t, "MS-2", ref.Key, "sequence continues after reopening")
}

func TestTracker_TransitionErrorsCarryOp(t *testing.T) {
	tr, err := Open(":memory:")
	require.NoError(t, err)
	ctx := context.Background()
	_, err = tr.CreateBoard(ctx, "Development Board")
	require.NoError(t, err)
	ref, err := tr.CreateIssue(ctx, tracker.IssueRequest{Project: "MS", Summary: "a"})
	require.NoError(t, err)
	require.NoError(t, tr.TransitionIssue(ctx, ref.Key, tracker.CodeProgress))

	err = tr.TransitionIssue(ctx, "MS-9", tracker.CodeDone)
	assert.ErrorIs(t, err, tracker.ErrNotFound)

	require.NoError(t, tr.Close())
	err = tr.TransitionIssue(ctx, ref.Key, tracker.CodeDone)
	var ge *tracker.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, tracker.OpTransitionIssue, ge.Op)
}

func TestTracker_AssignIsIdempotent(t *testing.T) {
	tr := openTest(t)
	ctx := context.Background()
	b, err := tr.CreateBoard(ctx, "Development Board")
	require.NoError(t, err)
	s, err := tr.CreateSprint(ctx, "Sprint 1", b.ID)
	require.NoError(t, err)
	ref, err := tr.CreateIssue(ctx, tracker.IssueRequest{Project: "MS", Summary: "a"})
	require.NoError(t, err)

	require.NoError(t, tr.AssignIssuesToSprint(ctx, s.ID, []string{ref.Key, ref.Key}))
	require.NoError(t, tr.AssignIssuesToSprint(ctx, s.ID, []string{ref.Key}))

	refs, err := tr.SearchIssues(ctx, "sprint = "+s.ID)
	require.NoError(t, err)
	assert.Equal(t, []tracker.IssueRef{ref}, refs)
}
