package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"mu-bmd-blender/internal/blend"
	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/browse"
	"mu-bmd-blender/internal/crypto"
	"mu-bmd-blender/internal/distmap"
	"mu-bmd-blender/internal/raster"
)

// Config holds the model set, blending, playback and render settings.
type Config struct {
	// Paths
	ModelDir  string   `json:"model_dir"`
	Models    []string `json:"models"` // relative to ModelDir; empty means every .bmd in it
	OutputDir string   `json:"output_dir"`

	// Motion and blending
	FPS          float64  `json:"fps"`
	Divisor      int      `json:"divisor"`
	Interp       string   `json:"interp"`
	SlopePenalty *float64 `json:"slope_penalty"`

	// Playback
	Frames      int      `json:"frames"`
	Speed       *float64 `json:"speed"`
	AutoAdvance *bool    `json:"auto_advance"`
	Track       *bool    `json:"track"`
	Script      []Step   `json:"script"`

	// Render settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	ViewExtent  float64 `json:"view_extent"` // world units across a frame; 0 fits the figure
	Floor       *bool   `json:"floor"`
	Workers     int     `json:"workers"`

	LogLevel string `json:"log_level"`
	LEAKey   string `json:"lea_key"` // hex, BMD v15 only
}

// Step issues a browse command when playback reaches Frame.
type Step struct {
	Frame   int    `json:"frame"`
	Command string `json:"command"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values (and a negative Speed) leave the file setting alone.
type Flags struct {
	ModelDir  string
	OutputDir string
	FPS       float64
	Frames    int
	Speed     float64
	Interp    string
	Workers   int
	LogLevel  string
}

// Resolve applies flags, then fills every unset field with its default.
func (c *Config) Resolve(flags Flags) {
	if flags.ModelDir != "" {
		c.ModelDir = flags.ModelDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Speed >= 0 {
		s := flags.Speed
		c.Speed = &s
	}
	if flags.Interp != "" {
		c.Interp = flags.Interp
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.ModelDir == "" {
		c.ModelDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.ModelDir, "renders")
	}

	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Divisor <= 0 {
		c.Divisor = blend.DefaultDivisor
	}
	if c.Interp == "" {
		c.Interp = blend.InterpShortestArc.String()
	}
	if c.SlopePenalty == nil {
		p := distmap.DefaultSlopePenalty
		c.SlopePenalty = &p
	}
	if c.Frames <= 0 {
		c.Frames = 300
	}
	if c.Speed == nil {
		s := browse.Speeds[0]
		c.Speed = &s
	}
	if c.AutoAdvance == nil {
		on := true
		c.AutoAdvance = &on
	}
	if c.Track == nil {
		on := true
		c.Track = &on
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Floor == nil {
		on := true
		c.Floor = &on
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ModelPaths returns the BMD files to load. With no explicit list every
// .bmd directly inside ModelDir is used, sorted by name.
func (c Config) ModelPaths() ([]string, error) {
	if len(c.Models) > 0 {
		paths := make([]string, len(c.Models))
		for i, m := range c.Models {
			if filepath.IsAbs(m) {
				paths[i] = m
			} else {
				paths[i] = filepath.Join(c.ModelDir, m)
			}
		}
		return paths, nil
	}

	entries, err := os.ReadDir(c.ModelDir)
	if err != nil {
		return nil, fmt.Errorf("config: scan %s: %w", c.ModelDir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".bmd") {
			paths = append(paths, filepath.Join(c.ModelDir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// BlendOptions converts the blending settings.
func (c Config) BlendOptions() (blend.Options, error) {
	interp, err := blend.ParseInterp(c.Interp)
	if err != nil {
		return blend.Options{}, fmt.Errorf("config: %w", err)
	}
	opts := blend.DefaultOptions()
	opts.Interp = interp
	if c.Divisor > 0 {
		opts.Divisor = c.Divisor
	}
	if c.SlopePenalty != nil {
		opts.SlopePenalty = *c.SlopePenalty
	}
	return opts, nil
}

// BMDOptions converts the decryption settings.
func (c Config) BMDOptions() (bmd.Options, error) {
	if c.LEAKey == "" {
		return bmd.Options{}, nil
	}
	key, err := crypto.ParseLEAKey(c.LEAKey)
	if err != nil {
		return bmd.Options{}, fmt.Errorf("config: lea_key: %w", err)
	}
	return bmd.Options{LEAKey: &key}, nil
}

// RenderOptions converts the render settings.
func (c Config) RenderOptions() raster.Options {
	opts := raster.DefaultOptions(c.RenderSize)
	opts.Supersample = c.Supersample
	if c.Floor != nil {
		opts.Floor = *c.Floor
	}
	return opts
}

// Commands maps scripted steps to frame indices. Unknown command names are
// an error.
func (c Config) Commands() (map[int][]browse.Command, error) {
	out := make(map[int][]browse.Command, len(c.Script))
	for _, s := range c.Script {
		cmd, err := browse.ParseCommand(s.Command)
		if err != nil {
			return nil, fmt.Errorf("config: script frame %d: %w", s.Frame, err)
		}
		out[s.Frame] = append(out[s.Frame], cmd)
	}
	return out, nil
}
