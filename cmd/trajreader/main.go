package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/iafilius/TrajectoryPlot/src/plot"
	"github.com/iafilius/TrajectoryPlot/src/trajectory"
)

func main() {
	var file string
	var max int
	flag.StringVar(&file, "file", trajectory.DefaultInputFile, "Path to inference_results.json (or pass it as the only argument)")
	flag.IntVar(&max, "n", 0, "Print only the last n steps (0 = all)")
	flag.Parse()
	input, err := inputPath(file, flag.Args())
	if err == nil {
		err = report(os.Stdout, input, max)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// inputPath picks the results file: a positional argument wins over -file, as with trajplot.
func inputPath(file string, args []string) (string, error) {
	switch len(args) {
	case 0:
		return file, nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected at most one input file, got %d", len(args))
	}
}

// report prints the extracted series as a table followed by the final state.
func report(w io.Writer, file string, max int) error {
	h, err := trajectory.Load(file)
	if err != nil {
		if errors.Is(err, trajectory.ErrNotFound) {
			fmt.Fprintln(w, plot.NotFoundMessage(file))
			return nil
		}
		return err
	}
	s, err := trajectory.Extract(h)
	if err != nil {
		return err
	}
	sum, err := trajectory.Summarize(s)
	if err != nil {
		return err
	}
	start := 0
	if max > 0 && max < s.Len() {
		start = s.Len() - max
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "step\tintegrity\trecovery\tresilience")
	for i := start; i < s.Len(); i++ {
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\n", s.Steps[i], s.Integrity[i], s.Recovery[i], s.Resilience[i])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Total steps: %d (%d..%d)\n", sum.Records, sum.FirstStep, sum.LastStep)
	fmt.Fprintf(w, "Final: integrity=%.2f recovery=%.2f resilience=%.2f\n", sum.FinalIntegrity, sum.FinalRecovery, sum.FinalResilience)
	return nil
}
