package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/verletsim/internal/export"
	"github.com/san-kum/verletsim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSTEPS\tDT\tPARTICLES\tCOLLISIONS")
	for _, run := range runs {
		name := run.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Dt,
			run.Particles,
			run.Stats.Collisions,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "samples: %d\n\n", len(series.Times))

	type plot struct {
		name string
		data []float64
	}
	plots := []plot{{"count", series.Counts}}
	for _, name := range series.Names {
		plots = append(plots, plot{name, series.Column(name)})
	}
	if metricName != "" {
		var picked []plot
		for _, p := range plots {
			if p.name == metricName {
				picked = append(picked, p)
			}
		}
		if len(picked) == 0 {
			return fmt.Errorf("run %s has no series %q", runID, metricName)
		}
		plots = picked
	}

	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.name+" vs time"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	if outFile != "" {
		svg := export.SeriesToSVG(series.Times, plots[0].data, 800, 300, "#00ccff")
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s (%s)\n", outFile, plots[0].name)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).CopySamples(cmd.OutOrStdout(), args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	frame, err := storage.New(dataDir).LoadFrame(args[0])
	if err != nil {
		return err
	}
	svg := export.FrameToSVG(frame, svgSize)
	if svg == "" {
		return fmt.Errorf("run %s: nothing to render", args[0])
	}
	if outFile == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}
