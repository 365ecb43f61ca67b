package memtracker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

func seed(t *testing.T, tr *Tracker) (boardID, sprintID string, keys []string) {
	t.Helper()
	ctx := context.Background()
	b, err := tr.CreateBoard(ctx, "Development Board")
	require.NoError(t, err)
	s, err := tr.CreateSprint(ctx, "Sprint 1", b.ID)
	require.NoError(t, err)
	for _, summary := range []string{"a", "b", "c"} {
		ref, err := tr.CreateIssue(ctx, tracker.IssueRequest{Project: "MS", Summary: summary, IssueType: "Task", OriginalEstimate: "4h"})
		require.NoError(t, err)
		keys = append(keys, ref.Key)
	}
	return b.ID, s.ID, keys
}

func TestTracker_KeysAreSequentialPerProject(t *testing.T) {
	tr := New()
	_, _, keys := seed(t, tr)
	assert.Equal(t, []string{"MS-1", "MS-2", "MS-3"}, keys)

	ref, err := tr.CreateIssue(context.Background(), tracker.IssueRequest{Project: "OPS", Summary: "x"})
	require.NoError(t, err)
	assert.Equal(t, "OPS-1", ref.Key)
}

func TestTracker_IDsAreReproducible(t *testing.T) {
	b1, s1, _ := seed(t, New())
	b2, s2, _ := seed(t, New())
	assert.Equal(t, b1, b2)
	assert.Equal(t, s1, s2)
	assert.NotEqual(t, b1, s1)
}

func TestTracker_NotFound(t *testing.T) {
	tr := New()
	ctx := context.Background()
	_, err := tr.CreateSprint(ctx, "Sprint 1", "missing")
	assert.ErrorIs(t, err, tracker.ErrNotFound)
	var ge *tracker.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, tracker.OpCreateSprint, ge.Op)

	assert.ErrorIs(t, tr.AddWorklog(ctx, "MS-1", 60, ""), tracker.ErrNotFound)
	assert.ErrorIs(t, tr.TransitionIssue(ctx, "MS-1", tracker.CodeDone), tracker.ErrNotFound)
	assert.ErrorIs(t, tr.AssignIssuesToSprint(ctx, "missing", nil), tracker.ErrNotFound)
}

func TestTracker_RejectsInvalidInput(t *testing.T) {
	tr := New()
	_, _, keys := seed(t, tr)
	ctx := context.Background()

	_, err := tr.CreateBoard(ctx, " ")
	assert.Error(t, err)
	_, err = tr.CreateIssue(ctx, tracker.IssueRequest{Project: "MS", OriginalEstimate: "4 hours"})
	assert.Error(t, err)
	assert.Error(t, tr.AddWorklog(ctx, keys[0], 0, ""))
	assert.Error(t, tr.TransitionIssue(ctx, keys[0], tracker.StatusCode(12)))
}

func TestTracker_CancelledContext(t *testing.T) {
	tr := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.CreateBoard(ctx, "Development Board")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTracker_WorklogsAndTransitions(t *testing.T) {
	tr := New()
	_, _, keys := seed(t, tr)
	ctx := context.Background()

	require.NoError(t, tr.AddWorklog(ctx, keys[0], 3600, "alice"))
	require.NoError(t, tr.AddWorklog(ctx, keys[0], 1800, "alice"))
	require.NoError(t, tr.TransitionIssue(ctx, keys[0], tracker.CodeProgress))

	assert.Equal(t, int64(5400), tr.TimeSpent(keys[0]))
	assert.Zero(t, tr.TimeSpent("nope"))
	assert.Len(t, tr.Worklogs(), 2)
	assert.Equal(t, []Transition{{IssueKey: keys[0], Code: tracker.CodeProgress}}, tr.Transitions())
}

func TestTracker_SearchIssues(t *testing.T) {
	tr := New()
	_, sprintID, keys := seed(t, tr)
	ctx := context.Background()
	require.NoError(t, tr.AssignIssuesToSprint(ctx, sprintID, keys[:2]))
	require.NoError(t, tr.TransitionIssue(ctx, keys[1], tracker.CodeDone))

	tests := []struct {
		query string
		want  []string
	}{
		{"", keys},
		{"project = MS", keys},
		{"sprint = " + sprintID, keys[:2]},
		{"sprint = " + sprintID + " AND status = DONE", keys[1:2]},
		{"status = TODO", []string{keys[0], keys[2]}},
		{"project = OTHER", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			refs, err := tr.SearchIssues(ctx, tt.query)
			require.NoError(t, err)
			var got []string
			for _, r := range refs {
				got = append(got, r.Key)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := tr.SearchIssues(ctx, "owner = bob")
	assert.Error(t, err)
	assert.Equal(t, keys[:2], tr.SprintIssues(sprintID))
	assert.Nil(t, tr.SprintIssues("nope"))
}

func TestTracker_AssignIsIdempotent(t *testing.T) {
	tr := New()
	_, sprintID, keys := seed(t, tr)
	ctx := context.Background()

	require.NoError(t, tr.AssignIssuesToSprint(ctx, sprintID, []string{keys[0], keys[0]}))
	require.NoError(t, tr.AssignIssuesToSprint(ctx, sprintID, keys[:1]))
	assert.Equal(t, keys[:1], tr.SprintIssues(sprintID))

	refs, err := tr.SearchIssues(ctx, "sprint = "+sprintID)
	require.NoError(t, err)
	assert.Equal(t, []tracker.IssueRef{{Key: keys[0]}}, refs)
}
