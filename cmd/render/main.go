package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mu-bmd-blender/internal/batch"
	"mu-bmd-blender/internal/browse"
	"mu-bmd-blender/internal/config"
	"mu-bmd-blender/internal/export"
	"mu-bmd-blender/internal/log"
	"mu-bmd-blender/internal/motion"
	"mu-bmd-blender/internal/texture"
)

// cameraDistance is the initial eye distance in world units.
const cameraDistance = 400

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	modelDir := flag.String("models", "", "Directory holding the BMD models (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <models>/renders)")
	fps := flag.Float64("fps", 0, "Motion and playback rate (default: 30)")
	frames := flag.Int("frames", 0, "Number of frames to play (default: 300)")
	speed := flag.Float64("speed", -1, "Play speed; 0 pauses (default: 1)")
	interp := flag.String("interp", "", "Orientation blending: shortest or legacy")
	workers := flag.Int("workers", 0, "Number of render goroutines (default: NumCPU)")
	level := flag.String("log", "", "Log level: debug, info, warn, error")
	dry := flag.Bool("dry", false, "Play and plot the session without rendering frames")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		ModelDir:  *modelDir,
		OutputDir: *outputDir,
		FPS:       *fps,
		Frames:    *frames,
		Speed:     *speed,
		Interp:    *interp,
		Workers:   *workers,
		LogLevel:  *level,
	})
	log.Init(cfg.LogLevel)

	if err := run(cfg, *dry); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, dry bool) error {
	paths, err := cfg.ModelPaths()
	if err != nil {
		return err
	}
	bmdOpts, err := cfg.BMDOptions()
	if err != nil {
		return err
	}
	blendOpts, err := cfg.BlendOptions()
	if err != nil {
		return err
	}
	script, err := cfg.Commands()
	if err != nil {
		return err
	}

	lib := motion.NewLibrary()
	if err := lib.LoadFiles(paths, bmdOpts, cfg.FPS); err != nil {
		return err
	}
	if lib.Count() == 0 {
		fmt.Println("No motions to play.")
		return nil
	}

	first, _ := lib.Motion(0)
	b, err := browse.New(lib, blendOpts, browse.NewCamera(first.RootPosition(0), cameraDistance))
	if err != nil {
		return err
	}
	b.SetSpeed(*cfg.Speed)
	b.SetAutoAdvance(*cfg.AutoAdvance)
	b.SetTrack(*cfg.Track)

	fmt.Printf("MU Online BMD motion blender → WebP\n")
	fmt.Printf("Models: %d, Motions: %d, Frames: %d @ %g fps, Workers: %d\n",
		len(paths), lib.Count(), cfg.Frames, cfg.FPS, cfg.Workers)
	fmt.Printf("Blending: %s, divisor %d, slope penalty %g\n",
		blendOpts.Interp, blendOpts.Divisor, blendOpts.SlopePenalty)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	var (
		jobs []batch.Job
		traj export.Trajectory
	)
	err = b.Play(cfg.Frames, 1/cfg.FPS, func(f browse.Frame) (bool, error) {
		from := b.Blender().From()
		traj.Record(from.Name, f.Pose.RootPosition)
		jobs = append(jobs, batch.NewJob(f, from, lib.Model(from), cfg.ViewExtent))

		for _, c := range script[f.Index] {
			log.Debug("script", "frame", f.Index, "command", c)
			if err := b.Handle(c); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	plotPath := filepath.Join(cfg.OutputDir, "trajectory.png")
	if err := traj.Save(plotPath, "Root trajectory"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: trajectory plot failed: %v\n", err)
	} else {
		fmt.Printf("Trajectory: %s (%d motions)\n", plotPath, traj.Segments())
	}

	var results []batch.Result
	if !dry {
		index := texture.BuildIndex(cfg.ModelDir)
		fmt.Printf("Textures: %d indexed\n", index.Len())

		start := time.Now()
		results = batch.Run(batch.Config{
			OutputDir: cfg.OutputDir,
			Textures:  texture.NewCache(index),
			Render:    cfg.RenderOptions(),
			Workers:   cfg.Workers,
			Progress:  2 * time.Second,
		}, jobs)
		fmt.Println("------------------------------------------------------------")
		fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())
	}

	manifest := batch.NewManifest(cfg.FPS, jobs, results)
	if !dry {
		fmt.Printf("Rendered: %d/%d\n", len(jobs)-manifest.Failed, len(jobs))
		printFailures(results)
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s (run %s)\n", manifestPath, manifest.RunID)
	}

	if manifest.Failed > 0 {
		return fmt.Errorf("%d frames failed", manifest.Failed)
	}
	return nil
}

func printFailures(results []batch.Result) {
	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return
	}
	fmt.Printf("\nFailed (%d):\n", len(failed))
	for _, r := range failed[:min(20, len(failed))] {
		fmt.Printf("  frame %d: %s\n", r.Index, r.Error)
	}
}
