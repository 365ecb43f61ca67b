package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/sprint-sim/sprint-sim/sim"
	"github.com/sprint-sim/sprint-sim/sim/scenario"
	"github.com/sprint-sim/sprint-sim/sim/trace"
	"github.com/sprint-sim/sprint-sim/sim/tracker/memtracker"
)

// sweepResult summarizes one seed of a sweep.
type sweepResult struct {
	Seed       int64
	EndTick    int64
	Done       int
	Issues     int
	Sprints    int
	CarryOvers int
	Failures   int
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the scenario once per seed and compare outcomes",
	Long: "Run the scenario for every seed in a range, each against its own in-memory tracker. " +
		"Runs are independent and execute concurrently.",
	Run: func(cmd *cobra.Command, args []string) {
		from, to, err := parseSeedRange(viper.GetString("seeds"))
		if err != nil {
			logrus.Fatalf("Invalid --seeds: %v", err)
		}
		spec, err := loadScenario(viper.GetString("scenario"))
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results, err := sweep(ctx, spec, from, to, viper.GetInt("parallel"))
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		renderSweep(cmd.OutOrStdout(), results)
	},
}

// parseSeedRange parses "N" or "A..B" (inclusive).
func parseSeedRange(s string) (int64, int64, error) {
	lo, hi, isRange := strings.Cut(strings.TrimSpace(s), "..")
	from, err := strconv.ParseInt(strings.TrimSpace(lo), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("seed %q: %w", lo, err)
	}
	if !isRange {
		return from, from, nil
	}
	to, err := strconv.ParseInt(strings.TrimSpace(hi), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("seed %q: %w", hi, err)
	}
	if to < from {
		return 0, 0, fmt.Errorf("empty seed range %d..%d", from, to)
	}
	return from, to, nil
}

// sweep runs spec once per seed in [from, to]. Every run owns its simulator
// and tracker, so runs share nothing but the read-only spec.
func sweep(ctx context.Context, spec *scenario.Spec, from, to int64, parallel int) ([]sweepResult, error) {
	results := make([]sweepResult, to-from+1)
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := range results {
		i := i
		seed := from + int64(i)
		g.Go(func() error {
			s, err := scenario.Run(ctx, spec.WithSeed(seed), memtracker.New())
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = summarizeRun(seed, s)
			logrus.Debugf("seed %d finished at tick %d", seed, s.Clock)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func summarizeRun(seed int64, s *sim.Simulator) sweepResult {
	r := sweepResult{
		Seed:       seed,
		EndTick:    s.Clock,
		Sprints:    s.Store.SprintCount(),
		CarryOvers: trace.Summarize(s.Trace).CarryOvers,
		Failures:   len(s.Failures()),
	}
	for _, iss := range s.Store.Issues() {
		r.Issues++
		if iss.Status == sim.StatusDone {
			r.Done++
		}
	}
	return r
}

func renderSweep(w io.Writer, results []sweepResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Seed", "End Tick", "Done", "Sprints", "Carry-overs", "Failures"})
	var totalEnd int64
	for _, r := range results {
		tw.AppendRow(table.Row{r.Seed, r.EndTick, fmt.Sprintf("%d/%d", r.Done, r.Issues), r.Sprints, r.CarryOvers, r.Failures})
		totalEnd += r.EndTick
	}
	if len(results) > 0 {
		tw.AppendFooter(table.Row{"mean", fmt.Sprintf("%.1f", float64(totalEnd)/float64(len(results)))})
	}
	tw.Render()
}

func init() {
	sweepCmd.Flags().String("seeds", "1..10", "Seed or inclusive seed range, e.g. 7 or 1..50")
	sweepCmd.Flags().Int("parallel", 0, "Maximum concurrent runs (0 = unlimited)")
	bindFlag(sweepCmd, "seeds")
	bindFlag(sweepCmd, "parallel")

	rootCmd.AddCommand(sweepCmd)
}
