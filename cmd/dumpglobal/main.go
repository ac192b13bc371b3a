package main

import (
	"flag"
	"fmt"
	"os"

	"mu-bmd-blender/internal/config"
	"mu-bmd-blender/internal/export"
	"mu-bmd-blender/internal/log"
	"mu-bmd-blender/internal/motion"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	modelDir := flag.String("models", "", "Directory holding the BMD models (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <models>/renders)")
	fps := flag.Float64("fps", 0, "Motion rate (default: 30)")
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
	cfg.Resolve(config.Flags{ModelDir: *modelDir, OutputDir: *outputDir, FPS: *fps, Speed: -1})
	log.Init(cfg.LogLevel)

	paths, err := cfg.ModelPaths()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	bmdOpts, err := cfg.BMDOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lib := motion.NewLibrary()
	if err := lib.LoadFiles(paths, bmdOpts, cfg.FPS); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	written, err := export.DumpLibrary(lib, cfg.OutputDir)
	fmt.Printf("Wrote %d/%d motion dumps to %s\n", len(written), lib.Count(), cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
