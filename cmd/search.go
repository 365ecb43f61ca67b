package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sprint-sim/sprint-sim/sim/tracker/sqltracker"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search issues in a tracker database",
	Long: `Search issues recorded by a previous "run --db". The query is a conjunction of
field = value clauses over project, status, sprint and key, for example:

  sprintsim search --db sim.db 'project = MS AND status = DONE'`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dbPath := viper.GetString("db")
		if dbPath == "" {
			logrus.Fatalf("--db is required for search")
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		if err := searchIssues(cmd.Context(), dbPath, query, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Search failed: %v", err)
		}
	},
}

func searchIssues(ctx context.Context, dbPath, query string, w io.Writer) error {
	st, err := sqltracker.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	refs, err := st.SearchIssues(ctx, query)
	if err != nil {
		return err
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Key", "Status", "Time Spent"})
	for _, ref := range refs {
		code, err := st.Status(ctx, ref.Key)
		if err != nil {
			return err
		}
		spent, err := st.TimeSpent(ctx, ref.Key)
		if err != nil {
			return err
		}
		tw.AppendRow(table.Row{ref.Key, code, fmt.Sprintf("%.2fh", float64(spent)/3600)})
	}
	tw.AppendFooter(table.Row{"", "matches", len(refs)})
	tw.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
