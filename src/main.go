// Trajectory plot entrypoint.
//
// Reads the inference results document written by the simulation (default
// inference_results.json) and renders the ecofunctional trajectory chart to
// trajectory_plot.png in the working directory.
//
// Design notes:
//   - A missing input is reported on stdout and exits 0; every other failure exits non-zero.
//   - Settings come from defaults < trajplot.yaml < .env/TRAJPLOT_* < flags < positional input.
//   - --watch keeps re-rendering on input changes until interrupted.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iafilius/TrajectoryPlot/src/config"
	"github.com/iafilius/TrajectoryPlot/src/logging"
	"github.com/iafilius/TrajectoryPlot/src/plot"
	"github.com/iafilius/TrajectoryPlot/src/render"
	"github.com/iafilius/TrajectoryPlot/src/watch"
)

func newRootCmd(stdout io.Writer) *cobra.Command {
	var configFile string
	v := config.New()
	cmd := &cobra.Command{
		Use:   "trajplot [inference_results.json]",
		Short: "Render the ecofunctional trajectory chart from simulation results",
		Long: `Render the ecofunctional trajectory chart from simulation results.

Reads the "history" array of the given results document (default
inference_results.json), plots functional integrity and recovery capacity per
simulation step and writes trajectory_plot.png to the working directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(""); err != nil {
				return err
			}
			if err := config.ReadFile(v, configFile); err != nil {
				return err
			}
			if len(args) == 1 {
				v.Set(config.KeyInput, args[0])
			}
			cfg, err := config.Resolve(v)
			if err != nil {
				return err
			}
			logging.Configure(cfg.LogLevel, cfg.LogFormat)
			defer logging.Sync()
			logging.Debugf("config: %+v", cfg)

			pc := cfg.Plot()
			if !cfg.Watch {
				return plot.Run(pc, stdout)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch.Run(ctx, pc.Input, cfg.WatchDebounce, func() error { return plot.Run(pc, stdout) })
		},
	}
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "Config file (default ./trajplot.yaml if present)")
	f.StringP("output", "o", render.DefaultOutputFile, "Output PNG path")
	f.Float64("dpi", 100, "Figure resolution in dots per inch")
	f.Float64("width-in", 10, "Figure width in inches")
	f.Float64("height-in", 6, "Figure height in inches")
	f.Bool("show-resilience", false, "Also draw the resilience potential series")
	f.String("caption", "", "Optional caption stamped in the bottom-left corner")
	f.String("log-level", "info", "Log level (debug|info|warn|error)")
	f.String("log-format", "console", "Log format (console|json)")
	f.Bool("watch", false, "Re-render whenever the input file changes")
	f.Duration("watch-debounce", 200*time.Millisecond, "Quiet period before re-rendering in watch mode")
	cobra.CheckErr(config.BindFlags(v, f))
	return cmd
}

func main() {
	cmd := newRootCmd(os.Stdout)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
