package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/physics"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/spawn"
	"github.com/san-kum/verletsim/internal/storage"
)

const containmentTolerance = 1e-6

// newRun wires a fresh system, emitter and runner for one seed.
func newRun(cfg *config.Config, runSeed int64, log dynamo.Logger) (sim.Member, error) {
	sys, err := cfg.NewSystem(log)
	if err != nil {
		return sim.Member{}, err
	}
	sp := spawn.New(cfg.Spawn, runSeed)

	r := sim.New(log)
	r.SetEmitter(spawn.NewEmitter(sp, cfg.Emitter, cfg.Spawn.Key, cfg.Spawn.Mass))
	r.AddMetric(metrics.NewKineticEnergy(cfg.Dt))
	r.AddMetric(metrics.NewContainment(containmentTolerance))
	r.AddMetric(metrics.NewOverlap())
	return sim.Member{System: sys, Runner: r}, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: true,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr, cfg)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	m, err := newRun(cfg, cfg.Seed, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name := cfg.Name
	if name == "" {
		name = "custom"
	}
	log.Infof("running %s: %d steps at dt=%.4f", name, cfg.Steps, cfg.Dt)
	start := time.Now()

	result, err := m.Runner.Run(ctx, m.System, simConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.Run{
		Preset: cfg.Name,
		Seed:   cfg.Seed,
		Dt:     cfg.Dt,
		Steps:  cfg.Steps,
		Result: result,
		System: m.System,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "particles: %d (emitted %d)\n", m.System.Len(), result.Emitted)
	fmt.Fprintf(out, "collisions: %d, degenerate pairs skipped: %d\n", result.Stats.Collisions, result.Stats.DegenerateSkips)
	fmt.Fprintln(out, "\nmetrics:")
	for _, metric := range result.MetricNames {
		fmt.Fprintf(out, "  %s: %.6f\n", metric, result.Metrics[metric])
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr, cfg)

	factory := func(s int64) (sim.Member, error) {
		return newRun(cfg, s, log)
	}
	ens := sim.NewEnsemble(factory, numRuns, cfg.Seed)
	limit := parallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	ens.SetLimit(limit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Infof("sweeping %d seeds from %d, %d at a time", numRuns, cfg.Seed, limit)
	start := time.Now()
	results, err := ens.Run(ctx, simConfig(cfg))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tEMITTED\tCOLLISIONS\tKINETIC\tCONTAINED\tMAX OVERLAP")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2f\t%.4f\t%.4f\n",
			cfg.Seed+int64(i),
			res.Emitted,
			res.Stats.Collisions,
			res.Metrics["kinetic_energy"],
			res.Metrics["containment"],
			res.Metrics["max_overlap"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d runs in %v\n", len(results), time.Since(start))
	return nil
}

// benchStep times Step for doubling particle counts. Pair checks grow with
// n², so steps/sec should fall roughly fourfold per row.
func benchStep(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTIME\tSTEPS/SEC\tPAIRS/SEC")

	for n := 100; n <= benchMax; n *= 2 {
		sys, err := benchSystem(cfg, n)
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			sys.Step(cfg.Dt)
		}
		elapsed := time.Since(start)

		stepsPerSec := float64(benchSteps) / elapsed.Seconds()
		pairs := float64(n) * float64(n-1)
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.3g\n", n, benchSteps, elapsed, stepsPerSec, pairs*stepsPerSec)
	}
	return w.Flush()
}

// benchSystem lays n particles on a square grid inside the default boundary.
func benchSystem(cfg *config.Config, n int) (*physics.System, error) {
	sys, err := cfg.NewSystem(nil)
	if err != nil {
		return nil, err
	}
	b := sys.Boundary()
	side := 1
	for side*side < n {
		side++
	}
	span := b.Radius() * 1.2
	spacing := span / float64(side)
	radius := spacing * 0.4

	for i := 0; i < n; i++ {
		pos := dynamo.Vec2{
			X: b.Center().X - span/2 + spacing*(float64(i%side)+0.5),
			Y: b.Center().Y - span/2 + spacing*(float64(i/side)+0.5),
		}
		p, err := physics.NewParticle(sys.NextID(), pos, radius, cfg.Spawn.Mass, "#ffffff")
		if err != nil {
			return nil, err
		}
		if _, err := sys.Add(p, 1); err != nil {
			return nil, err
		}
	}
	return sys, nil
}
