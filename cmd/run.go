package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sprint-sim/sprint-sim/sim"
	"github.com/sprint-sim/sprint-sim/sim/scenario"
	"github.com/sprint-sim/sprint-sim/sim/tracker"
	"github.com/sprint-sim/sprint-sim/sim/tracker/memtracker"
	"github.com/sprint-sim/sprint-sim/sim/tracker/sqltracker"
)

// runOptions carries the resolved settings of one `run` invocation.
type runOptions struct {
	ScenarioPath string
	DBPath       string
	TraceOut     string
	Seed         *int64 // overrides the scenario seed when set
	CarryOver    *bool  // overrides the scenario carry_over when set
}

// runCmd executes one simulation and prints its summary
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sprint simulation",
	Run: func(cmd *cobra.Command, args []string) {
		opts := runOptions{
			ScenarioPath: viper.GetString("scenario"),
			DBPath:       viper.GetString("db"),
			TraceOut:     viper.GetString("trace-out"),
		}
		if viper.IsSet("seed") {
			seed := viper.GetInt64("seed")
			opts.Seed = &seed
		}
		if viper.IsSet("carry-over") {
			carry := viper.GetBool("carry-over")
			opts.CarryOver = &carry
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if !viper.GetBool("watch") {
			if err := runOnce(ctx, opts, cmd.OutOrStdout()); err != nil {
				logrus.Fatalf("Simulation failed: %v", err)
			}
			return
		}
		if opts.ScenarioPath == "" {
			logrus.Fatalf("--watch requires --scenario")
		}
		err := watchScenario(ctx, opts.ScenarioPath, func() {
			if err := runOnce(ctx, opts, cmd.OutOrStdout()); err != nil {
				logrus.Errorf("Simulation failed: %v", err)
			}
		})
		if err != nil {
			logrus.Fatalf("Watching %s: %v", opts.ScenarioPath, err)
		}
	},
}

// loadScenario reads path, or returns the built-in scenario when path is empty.
func loadScenario(path string) (*scenario.Spec, error) {
	if path == "" {
		return scenario.Default(), nil
	}
	return scenario.Load(path)
}

// openGateway returns the SQLite tracker for a non-empty dbPath and an
// in-memory tracker otherwise, with the matching close function.
func openGateway(dbPath string) (tracker.Gateway, func() error, error) {
	if dbPath == "" {
		return memtracker.New(), func() error { return nil }, nil
	}
	st, err := sqltracker.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return st, st.Close, nil
}

// runOnce loads, runs and reports one simulation.
func runOnce(ctx context.Context, opts runOptions, out io.Writer) error {
	spec, err := loadScenario(opts.ScenarioPath)
	if err != nil {
		return err
	}
	if opts.Seed != nil {
		spec = spec.WithSeed(*opts.Seed)
	}
	if opts.CarryOver != nil {
		carry := *opts.CarryOver
		spec.CarryOver = &carry
	}

	gw, closeGateway, err := openGateway(opts.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeGateway(); err != nil {
			logrus.Warnf("closing tracker: %v", err)
		}
	}()

	logrus.Infof("Starting simulation %q with seed=%d, carry_over=%v", spec.Board, spec.Seed, spec.CarryOverEnabled())
	startTime := time.Now()
	s, err := scenario.Run(ctx, spec, gw)
	if err != nil {
		return err
	}
	logrus.Infof("Simulation complete at tick %d in %s", s.Clock, time.Since(startTime))

	if opts.TraceOut != "" {
		if err := writeTrace(s, opts.TraceOut); err != nil {
			return err
		}
	}
	renderRun(out, s)
	return nil
}

func writeTrace(s *sim.Simulator, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	if err := s.Trace.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	runCmd.Flags().Int64("seed", 42, "Seed for estimate and productivity jitter (overrides the scenario seed)")
	runCmd.Flags().Bool("carry-over", true, "Carry incomplete issues into a successor sprint (overrides the scenario)")
	runCmd.Flags().String("trace-out", "", "Write the simulation trace as YAML to this file")
	runCmd.Flags().Bool("watch", false, "Re-run whenever the scenario file changes")
	for _, name := range []string{"seed", "carry-over", "trace-out", "watch"} {
		bindFlag(runCmd, name)
	}

	rootCmd.AddCommand(runCmd)
}
