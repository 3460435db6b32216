package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/akmonengine/sinew"
)

var (
	dt         float64
	duration   float64
	configFile string
	preset     string
	workers    int
	csvPath    string
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sinewsim",
		Short: "rigid-body constraint solver playground",
	}

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and plot the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 5.0, "duration")
	runCmd.Flags().StringVar(&configFile, "config", "", "solver config file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "solver preset")
	runCmd.Flags().IntVar(&workers, "workers", 0, "override worker count")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "export the trace to a CSV file")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, name := range sceneNames() {
				fmt.Fprintf(w, "%s\t%s\n", name, scenes[name].Description)
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list solver presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSUBSTEPS\tITERATIONS\tBIAS\tSOFTNESS")
			for name, cfg := range sinew.Presets {
				fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.3f\n",
					name, cfg.Substeps, cfg.Iterations, cfg.BiasFactor, cfg.Softness)
			}
			return w.Flush()
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch [scene]",
		Short: "run a scene with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  watchScene,
	}
	watchCmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "timestep")
	watchCmd.Flags().StringVar(&configFile, "config", "", "solver config file (yaml)")
	watchCmd.Flags().StringVar(&preset, "preset", "", "solver preset")
	watchCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, scenesCmd, presetsCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSolverConfig() (*sinew.Config, error) {
	cfg := sinew.DefaultConfig()

	if preset != "" {
		presetCfg, ok := sinew.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
		clone := *presetCfg
		cfg = &clone
	}

	if configFile != "" {
		loaded, err := sinew.LoadConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if workers > 0 {
		cfg.Workers = workers
	}

	return cfg, nil
}

type sample struct {
	time    float64
	x, y, z float64
	energy  float64
	drift   float64
}

func runScene(cmd *cobra.Command, args []string) error {
	scene, err := sceneByName(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadSolverConfig()
	if err != nil {
		return err
	}

	world, focus := scene.Build(cfg)

	var broken, slept int
	world.Events.Subscribe(sinew.ON_JOINT_BREAK, func(sinew.Event) { broken++ })
	world.Events.Subscribe(sinew.ON_SLEEP, func(sinew.Event) { slept++ })

	steps := int(duration / dt)
	trace := make([]sample, 0, steps)

	fmt.Printf("running %s for %.1fs at dt=%.4fs...\n", scene.Name, duration, dt)
	start := time.Now()

	for i := 0; i < steps; i++ {
		world.Step(dt)

		s := sample{
			time:   float64(i+1) * dt,
			energy: kineticEnergy(world),
		}
		p := focus.WorldCenterOfMass()
		s.x, s.y, s.z = p.X(), p.Y(), p.Z()
		if scene.Drift != nil {
			s.drift = scene.Drift(world, focus)
		}
		trace = append(trace, s)
	}

	elapsed := time.Since(start)
	fmt.Printf("completed in %v (%.0f steps/s)\n\n", elapsed, float64(steps)/elapsed.Seconds())

	plot(trace, func(s sample) float64 { return s.y }, "focus body height")
	plot(trace, func(s sample) float64 { return s.energy }, "kinetic energy")
	if scene.Drift != nil {
		plot(trace, func(s sample) float64 { return s.drift }, "constraint drift")
	}

	fmt.Printf("bodies: %d  joints: %d  broken: %d  sleep events: %d\n",
		len(world.Bodies), len(world.Joints), broken, slept)
	if scene.Drift != nil && len(trace) > 0 {
		worst := 0.0
		for _, s := range trace {
			if s.drift > worst {
				worst = s.drift
			}
		}
		fmt.Printf("max constraint drift: %.6f\n", worst)
	}

	if csvPath != "" {
		if err := exportCSV(csvPath, trace); err != nil {
			return err
		}
		fmt.Printf("trace written to %s\n", csvPath)
	}

	return nil
}

func plot(trace []sample, pick func(sample) float64, caption string) {
	data := make([]float64, len(trace))
	for i, s := range trace {
		data[i] = pick(s)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()
}

func exportCSV(path string, trace []sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "y", "z", "energy", "drift"}); err != nil {
		return err
	}

	for _, s := range trace {
		row := []string{
			strconv.FormatFloat(s.time, 'f', 6, 64),
			strconv.FormatFloat(s.x, 'f', 6, 64),
			strconv.FormatFloat(s.y, 'f', 6, 64),
			strconv.FormatFloat(s.z, 'f', 6, 64),
			strconv.FormatFloat(s.energy, 'f', 6, 64),
			strconv.FormatFloat(s.drift, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func watchScene(cmd *cobra.Command, args []string) error {
	scene, err := sceneByName(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadSolverConfig()
	if err != nil {
		return err
	}

	p := tea.NewProgram(newWatchModel(scene, cfg, dt, frameRate))
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
