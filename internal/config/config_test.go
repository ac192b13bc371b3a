package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mu-bmd-blender/internal/blend"
	"mu-bmd-blender/internal/browse"
	"mu-bmd-blender/internal/distmap"
)

func noFlags() Flags {
	return Flags{Speed: -1}
}

func TestResolveDefaults(t *testing.T) {
	var c Config
	c.Resolve(noFlags())

	assert.Equal(t, ".", c.ModelDir)
	assert.Equal(t, filepath.Join(".", "renders"), c.OutputDir)
	assert.Equal(t, 30.0, c.FPS)
	assert.Equal(t, blend.DefaultDivisor, c.Divisor)
	assert.Equal(t, "shortest", c.Interp)
	assert.Equal(t, distmap.DefaultSlopePenalty, *c.SlopePenalty)
	assert.Equal(t, 300, c.Frames)
	assert.Equal(t, 1.0, *c.Speed)
	assert.True(t, *c.AutoAdvance)
	assert.True(t, *c.Track)
	assert.Equal(t, 256, c.RenderSize)
	assert.Equal(t, 2, c.Supersample)
	assert.Zero(t, c.ViewExtent)
	assert.True(t, *c.Floor)
	assert.Equal(t, runtime.NumCPU(), c.Workers)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadAndFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"model_dir": "/data/player",
		"fps": 24,
		"slope_penalty": 0,
		"speed": 0,
		"auto_advance": false,
		"workers": 3,
		"script": [{"frame": 10, "command": "next"}, {"frame": 10, "command": "speed"}]
	}`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	c.Resolve(Flags{OutputDir: "/tmp/out", Frames: 12, Speed: -1, Workers: 5})

	assert.Equal(t, "/data/player", c.ModelDir)
	assert.Equal(t, "/tmp/out", c.OutputDir)
	assert.Equal(t, 24.0, c.FPS)
	assert.Equal(t, 0.0, *c.SlopePenalty, "explicit zero survives defaults")
	assert.Equal(t, 0.0, *c.Speed)
	assert.False(t, *c.AutoAdvance)
	assert.Equal(t, 12, c.Frames)
	assert.Equal(t, 5, c.Workers)

	cmds, err := c.Commands()
	require.NoError(t, err)
	assert.Equal(t, []browse.Command{browse.CmdNextMotion, browse.CmdCycleSpeed}, cmds[10])
}

func TestSpeedFlag(t *testing.T) {
	var c Config
	c.Resolve(Flags{Speed: 0.5})
	assert.Equal(t, 0.5, *c.Speed)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "config: parse")
}

func TestModelPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.bmd", "a.BMD", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.bmd"), 0o755))

	c := Config{ModelDir: dir}
	paths, err := c.ModelPaths()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.BMD"), filepath.Join(dir, "b.bmd")}, paths)

	c.Models = []string{"x.bmd", "/abs/y.bmd"}
	paths, err = c.ModelPaths()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "x.bmd"), "/abs/y.bmd"}, paths)

	_, err = Config{ModelDir: filepath.Join(dir, "nope")}.ModelPaths()
	assert.Error(t, err)
}

func TestBlendOptions(t *testing.T) {
	var c Config
	c.Resolve(noFlags())
	c.Interp = "legacy"
	c.Divisor = 2

	opts, err := c.BlendOptions()
	require.NoError(t, err)
	assert.Equal(t, blend.InterpLegacy, opts.Interp)
	assert.Equal(t, 2, opts.Divisor)

	c.Interp = "cubic"
	_, err = c.BlendOptions()
	assert.ErrorIs(t, err, blend.ErrInterp)
}

func TestBMDOptions(t *testing.T) {
	opts, err := Config{}.BMDOptions()
	require.NoError(t, err)
	assert.Nil(t, opts.LEAKey)

	opts, err = Config{LEAKey: strings.Repeat("ab", 32)}.BMDOptions()
	require.NoError(t, err)
	require.NotNil(t, opts.LEAKey)
	assert.Equal(t, byte(0xab), opts.LEAKey[31])

	_, err = Config{LEAKey: "xyz"}.BMDOptions()
	assert.Error(t, err)
}

func TestRenderOptions(t *testing.T) {
	off := false
	c := Config{Floor: &off}
	c.Resolve(noFlags())

	opts := c.RenderOptions()
	assert.Equal(t, 256, opts.Size)
	assert.Equal(t, 2, opts.Supersample)
	assert.False(t, opts.Floor)
}

func TestCommandsUnknown(t *testing.T) {
	c := Config{Script: []Step{{Frame: 1, Command: "jump"}}}
	_, err := c.Commands()
	assert.ErrorIs(t, err, browse.ErrUnknownCommand)
}
