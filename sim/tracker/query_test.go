package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(`project = MS AND status = done and sprint = "Sprint 1 and more"`)
	require.NoError(t, err)
	assert.Equal(t, []Clause{
		{Field: FieldProject, Value: "MS"},
		{Field: FieldStatus, Value: "DONE"},
		{Field: FieldSprint, Value: "Sprint 1 and more"},
	}, q.Clauses)
}

func TestParseQuery_Empty(t *testing.T) {
	q, err := ParseQuery("   ")
	require.NoError(t, err)
	assert.Empty(t, q.Clauses)
	assert.True(t, q.Matches(IssueView{Key: "X-1"}))
}

func TestParseQuery_Errors(t *testing.T) {
	for _, in := range []string{
		"project MS",
		"owner = bob",
		"status = blocked",
		"project = ",
		`project = ""`,
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseQuery(in)
			assert.Error(t, err)
		})
	}
}

func TestQuery_Matches(t *testing.T) {
	view := IssueView{Key: "MS-2", Project: "MS", Status: CodeProgress, Sprints: []string{"s1", "s2"}}
	tests := []struct {
		query string
		want  bool
	}{
		{"project = ms", true},
		{"key = MS-2", true},
		{"status = PROGRESS", true},
		{"status = DONE", false},
		{"sprint = s1", true},
		{"sprint = s3", false},
		{"project = MS AND sprint = s2 AND status = progress", true},
		{"project = OTHER AND sprint = s2", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Matches(view))
		})
	}
}
