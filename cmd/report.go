package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sprint-sim/sprint-sim/sim"
	"github.com/sprint-sim/sprint-sim/sim/trace"
)

func hours(d time.Duration) string {
	return fmt.Sprintf("%.2fh", d.Hours())
}

// renderRun prints the issue and sprint tables for a finished run, followed
// by any process failures.
func renderRun(w io.Writer, s *sim.Simulator) {
	sprintNames := make(map[string]string)
	sprints := table.NewWriter()
	sprints.SetOutputMirror(w)
	sprints.SetTitle("Sprints")
	sprints.AppendHeader(table.Row{"Name", "Start", "End", "Issues"})
	for _, sp := range s.Store.Sprints() {
		sprintNames[sp.ID] = sp.Name
		end := "open"
		if sp.Closed {
			end = fmt.Sprint(sp.EndTime)
		}
		sprints.AppendRow(table.Row{sp.Name, sp.StartTime, end, strings.Join(sp.Tasks, ", ")})
	}
	sprints.Render()

	issues := table.NewWriter()
	issues.SetOutputMirror(w)
	issues.SetTitle("Issues")
	issues.AppendHeader(table.Row{"Key", "Summary", "Status", "Estimate", "Actual", "Logged", "Sprints", "Done At"})
	for _, iss := range s.Store.Issues() {
		names := make([]string, 0, len(iss.SprintHistory))
		for _, id := range iss.SprintHistory {
			names = append(names, sprintNames[id])
		}
		doneAt := "-"
		if iss.Status == sim.StatusDone {
			doneAt = fmt.Sprint(iss.DoneAt)
		}
		issues.AppendRow(table.Row{
			iss.Key, iss.Summary, iss.Status,
			hours(iss.BaseEstimate), hours(iss.ActualEstimate), hours(iss.WorkLogged),
			strings.Join(names, " > "), doneAt,
		})
	}
	summary := trace.Summarize(s.Trace)
	issues.AppendFooter(table.Row{"", "", "", "", "", "", "end tick", s.Clock})
	issues.Render()

	fmt.Fprintf(w, "worklogs=%d transitions=%d carry_overs=%d failed_processes=%d\n",
		summary.Worklogs, summary.Transitions, summary.CarryOvers, summary.FailedProcesses)
	for _, f := range s.Failures() {
		fmt.Fprintf(w, "FAILED %s\n", f.Error())
	}
}
