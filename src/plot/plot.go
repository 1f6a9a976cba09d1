// Package plot wires loading, extraction and rendering into the single plotting routine.
package plot

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/iafilius/TrajectoryPlot/src/logging"
	"github.com/iafilius/TrajectoryPlot/src/render"
	"github.com/iafilius/TrajectoryPlot/src/trajectory"
)

// Config selects input, output and figure options for one run.
type Config struct {
	Input  string
	Output string
	Render render.Options
}

// DefaultConfig reads inference_results.json and writes trajectory_plot.png in the working directory.
func DefaultConfig() Config {
	return Config{
		Input:  trajectory.DefaultInputFile,
		Output: render.DefaultOutputFile,
		Render: render.DefaultOptions(),
	}
}

// NotFoundMessage is printed when the input document does not exist.
func NotFoundMessage(path string) string {
	return fmt.Sprintf("Error: %s not found. Run the C++ app first.", path)
}

// Run loads cfg.Input, renders the trajectory chart and saves it to cfg.Output, printing the
// outcome to stdout. A missing input is reported on stdout and is not an error; the output
// file is left untouched in that case.
func Run(cfg Config, stdout io.Writer) error {
	defer logging.TimeTrack(time.Now(), "plot "+cfg.Input)
	h, err := trajectory.Load(cfg.Input)
	if err != nil {
		if errors.Is(err, trajectory.ErrNotFound) {
			fmt.Fprintln(stdout, NotFoundMessage(cfg.Input))
			return nil
		}
		return err
	}
	s, err := trajectory.Extract(h)
	if err != nil {
		return fmt.Errorf("extract %s: %w", cfg.Input, err)
	}
	logging.Debugf("extracted %d steps from %s", s.Len(), cfg.Input)
	png, err := render.Render(s, cfg.Render)
	if err != nil {
		return fmt.Errorf("plot %s: %w", cfg.Input, err)
	}
	if err := render.Save(cfg.Output, png); err != nil {
		return err
	}
	logging.With("input", cfg.Input, "output", cfg.Output, "steps", s.Len(), "bytes", len(png)).Info("plot written")
	fmt.Fprintf(stdout, "Plot saved to %s\n", cfg.Output)
	return nil
}
