// Package sqltracker is a tracker.Gateway backed by a SQLite database, so a
// simulated run leaves a queryable record of every board, sprint, issue,
// worklog and transition it produced.
package sqltracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

var namespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("sprint-sim/sqltracker"))

// Tracker implements tracker.Gateway on top of *sql.DB.
type Tracker struct {
	db *sql.DB
}

var _ tracker.Gateway = (*Tracker)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
// The special path ":memory:" opens a private in-memory database.
func Open(path string) (*Tracker, error) {
	dsn := "file::memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating tracker db directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening tracker db: %w", err)
	}
	// one connection keeps ":memory:" a single database and serializes writers
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating tracker db: %w", err)
	}
	return &Tracker{db: db}, nil
}

// Close releases the database.
func (t *Tracker) Close() error {
	return t.db.Close()
}

func (t *Tracker) newID(ctx context.Context, kind, name string) (string, error) {
	var n int64
	err := t.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM boards) + (SELECT COUNT(*) FROM sprints)`).Scan(&n)
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s|%d|%s", kind, n+1, name))).String(), nil
}

// CreateBoard inserts a board with a name-derived ID.
func (t *Tracker) CreateBoard(ctx context.Context, name string) (tracker.BoardRef, error) {
	if strings.TrimSpace(name) == "" {
		return tracker.BoardRef{}, tracker.Wrap(tracker.OpCreateBoard, fmt.Errorf("board name must not be empty"))
	}
	id, err := t.newID(ctx, "board", name)
	if err != nil {
		return tracker.BoardRef{}, tracker.Wrap(tracker.OpCreateBoard, err)
	}
	if _, err := t.db.ExecContext(ctx, `INSERT INTO boards(id, name) VALUES(?, ?)`, id, name); err != nil {
		return tracker.BoardRef{}, tracker.Wrap(tracker.OpCreateBoard, err)
	}
	return tracker.BoardRef{ID: id}, nil
}

// CreateSprint inserts a sprint on an existing board.
func (t *Tracker) CreateSprint(ctx context.Context, name string, boardID string) (tracker.SprintRef, error) {
	if err := t.mustExist(ctx, "boards", "id", boardID); err != nil {
		return tracker.SprintRef{}, tracker.Wrap(tracker.OpCreateSprint, err)
	}
	id, err := t.newID(ctx, "sprint", name)
	if err != nil {
		return tracker.SprintRef{}, tracker.Wrap(tracker.OpCreateSprint, err)
	}
	if _, err := t.db.ExecContext(ctx, `INSERT INTO sprints(id, name, board_id) VALUES(?, ?, ?)`, id, name, boardID); err != nil {
		return tracker.SprintRef{}, tracker.Wrap(tracker.OpCreateSprint, err)
	}
	return tracker.SprintRef{ID: id}, nil
}

// CreateIssue inserts an issue keyed PROJECT-n, n continuing the project's sequence.
func (t *Tracker) CreateIssue(ctx context.Context, req tracker.IssueRequest) (tracker.IssueRef, error) {
	if req.Project == "" {
		return tracker.IssueRef{}, tracker.Wrap(tracker.OpCreateIssue, fmt.Errorf("project must not be empty"))
	}
	for _, est := range []string{req.OriginalEstimate, req.RemainingEstimate} {
		if est == "" {
			continue
		}
		if _, err := tracker.ParseEstimate(est); err != nil {
			return tracker.IssueRef{}, tracker.Wrap(tracker.OpCreateIssue, err)
		}
	}
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return tracker.IssueRef{}, tracker.Wrap(tracker.OpCreateIssue, err)
	}
	defer tx.Rollback()
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM issues WHERE project = ?`, req.Project).Scan(&seq); err != nil {
		return tracker.IssueRef{}, tracker.Wrap(tracker.OpCreateIssue, err)
	}
	key := fmt.Sprintf("%s-%d", req.Project, seq)
	_, err = tx.ExecContext(ctx, `INSERT INTO issues(issue_key, seq, project, summary, description, issue_type, original_estimate, remaining_estimate, status)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key, seq, req.Project, req.Summary, req.Description, req.IssueType,
		nullable(req.OriginalEstimate), nullable(req.RemainingEstimate), int(tracker.CodeTodo))
	if err != nil {
		return tracker.IssueRef{}, tracker.Wrap(tracker.OpCreateIssue, err)
	}
	if err := tx.Commit(); err != nil {
		return tracker.IssueRef{}, tracker.Wrap(tracker.OpCreateIssue, err)
	}
	return tracker.IssueRef{Key: key}, nil
}

// AssignIssuesToSprint links issues to a sprint; existing links are kept once.
func (t *Tracker) AssignIssuesToSprint(ctx context.Context, sprintID string, issueKeys []string) error {
	if err := t.mustExist(ctx, "sprints", "id", sprintID); err != nil {
		return tracker.Wrap(tracker.OpAssignToSprint, err)
	}
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return tracker.Wrap(tracker.OpAssignToSprint, err)
	}
	defer tx.Rollback()
	for _, key := range issueKeys {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM issues WHERE issue_key = ?`, key).Scan(&n); err != nil {
			return tracker.Wrap(tracker.OpAssignToSprint, err)
		}
		if n == 0 {
			return tracker.Wrap(tracker.OpAssignToSprint, fmt.Errorf("issue %q: %w", key, tracker.ErrNotFound))
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO issue_sprints(issue_key, sprint_id) VALUES(?, ?)`, key, sprintID); err != nil {
			return tracker.Wrap(tracker.OpAssignToSprint, err)
		}
	}
	return tracker.Wrap(tracker.OpAssignToSprint, tx.Commit())
}

// AddWorklog records seconds spent on an issue.
func (t *Tracker) AddWorklog(ctx context.Context, issueKey string, secondsSpent int64, user string) error {
	if secondsSpent <= 0 {
		return tracker.Wrap(tracker.OpAddWorklog, fmt.Errorf("seconds spent must be positive, got %d", secondsSpent))
	}
	if err := t.mustExist(ctx, "issues", "issue_key", issueKey); err != nil {
		return tracker.Wrap(tracker.OpAddWorklog, err)
	}
	_, err := t.db.ExecContext(ctx, `INSERT INTO worklogs(issue_key, seconds_spent, user) VALUES(?, ?, ?)`, issueKey, secondsSpent, user)
	return tracker.Wrap(tracker.OpAddWorklog, err)
}

// TransitionIssue sets the issue status and records the transition.
func (t *Tracker) TransitionIssue(ctx context.Context, issueKey string, code tracker.StatusCode) error {
	if !code.Valid() {
		return tracker.Wrap(tracker.OpTransitionIssue, fmt.Errorf("unknown transition %s", code))
	}
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return tracker.Wrap(tracker.OpTransitionIssue, err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `UPDATE issues SET status = ? WHERE issue_key = ?`, int(code), issueKey)
	if err != nil {
		return tracker.Wrap(tracker.OpTransitionIssue, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return tracker.Wrap(tracker.OpTransitionIssue, err)
	}
	if n == 0 {
		return tracker.Wrap(tracker.OpTransitionIssue, fmt.Errorf("issue %q: %w", issueKey, tracker.ErrNotFound))
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO transitions(issue_key, code) VALUES(?, ?)`, issueKey, int(code)); err != nil {
		return tracker.Wrap(tracker.OpTransitionIssue, err)
	}
	return tracker.Wrap(tracker.OpTransitionIssue, tx.Commit())
}

// SearchIssues translates the query into SQL; results are ordered by project
// then creation sequence.
func (t *Tracker) SearchIssues(ctx context.Context, query string) ([]tracker.IssueRef, error) {
	q, err := tracker.ParseQuery(query)
	if err != nil {
		return nil, tracker.Wrap(tracker.OpSearchIssues, err)
	}
	where, args := whereClause(q)
	rows, err := t.db.QueryContext(ctx, `SELECT issue_key FROM issues`+where+` ORDER BY project, seq`, args...)
	if err != nil {
		return nil, tracker.Wrap(tracker.OpSearchIssues, err)
	}
	defer rows.Close()
	refs := make([]tracker.IssueRef, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, tracker.Wrap(tracker.OpSearchIssues, err)
		}
		refs = append(refs, tracker.IssueRef{Key: key})
	}
	return refs, tracker.Wrap(tracker.OpSearchIssues, rows.Err())
}

// TimeSpent returns the total seconds logged against an issue.
func (t *Tracker) TimeSpent(ctx context.Context, issueKey string) (int64, error) {
	var total int64
	err := t.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(seconds_spent), 0) FROM worklogs WHERE issue_key = ?`, issueKey).Scan(&total)
	return total, err
}

// Status returns the current status code of an issue.
func (t *Tracker) Status(ctx context.Context, issueKey string) (tracker.StatusCode, error) {
	var code int
	err := t.db.QueryRowContext(ctx, `SELECT status FROM issues WHERE issue_key = ?`, issueKey).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("issue %q: %w", issueKey, tracker.ErrNotFound)
	}
	return tracker.StatusCode(code), err
}

func whereClause(q tracker.Query) (string, []any) {
	if len(q.Clauses) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(q.Clauses))
	args := make([]any, 0, len(q.Clauses))
	for _, c := range q.Clauses {
		switch c.Field {
		case tracker.FieldProject:
			conds = append(conds, "project = ? COLLATE NOCASE")
			args = append(args, c.Value)
		case tracker.FieldKey:
			conds = append(conds, "issue_key = ? COLLATE NOCASE")
			args = append(args, c.Value)
		case tracker.FieldStatus:
			code, _ := tracker.ParseStatusName(c.Value)
			conds = append(conds, "status = ?")
			args = append(args, int(code))
		case tracker.FieldSprint:
			conds = append(conds, "EXISTS (SELECT 1 FROM issue_sprints s WHERE s.issue_key = issues.issue_key AND s.sprint_id = ?)")
			args = append(args, c.Value)
		}
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (t *Tracker) mustExist(ctx context.Context, table, column, value string) error {
	var n int
	err := t.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, table, column), value).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", strings.TrimSuffix(table, "s"), value, tracker.ErrNotFound)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
