package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mu-bmd-blender/internal/mathutil"
	"mu-bmd-blender/internal/motion"
	"mu-bmd-blender/internal/testutil"
)

func library(t *testing.T) *motion.Library {
	t.Helper()
	model := testutil.ChainModel("hero", 3,
		testutil.ClipSpec{Keys: 6, Stride: 2, Height: 40, Swing: 0.2},
		testutil.ClipSpec{Keys: 4, Stride: 1, Height: 40, Yaw: 0.5},
	)
	lib := motion.NewLibrary()
	_, err := lib.AddModel(model, 30)
	require.NoError(t, err)
	return lib
}

func parse(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}

func TestWriteGlobalCSV(t *testing.T) {
	t.Parallel()

	m, err := library(t).Motion(0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGlobalCSV(&buf, m))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)

	assert.Equal(t, []string{
		"position.x", "position.z", "position.yaw", "root.x", "root.y", "root.z",
		"bone00.x", "bone00.y", "bone00.z",
		"bone01.x", "bone01.y", "bone01.z",
		"bone02.x", "bone02.y", "bone02.z",
	}, rows[0])

	last := rows[6]
	require.Len(t, last, 15)
	assert.InDelta(t, 10, parse(t, last[0]), 1e-4, "five strides from frame 0")
	assert.InDelta(t, 0, parse(t, last[2]), 1e-4)
	assert.InDelta(t, 10, parse(t, last[3]), 1e-4)
	assert.InDelta(t, 40, parse(t, last[4]), 1e-4)
	// The root bone tip is the root position itself.
	assert.Equal(t, last[3:6], last[6:9])
}

func TestWriteGlobalCSVNeedsSkeleton(t *testing.T) {
	t.Parallel()

	m, err := motion.New("bare", nil, []motion.Pose{motion.NewPose(1)}, 0.1)
	require.NoError(t, err)
	assert.ErrorIs(t, WriteGlobalCSV(&bytes.Buffer{}, m), ErrNoSkeleton)
}

func TestDumpLibrary(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "dump")
	paths, err := DumpLibrary(library(t), dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "hero_00.global"),
		filepath.Join(dir, "hero_01.global"),
	}, paths)

	raw, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestTrajectory(t *testing.T) {
	t.Parallel()

	var tr Trajectory
	for i := 0; i < 5; i++ {
		tr.Record("a", mathutil.Vec3{float64(i), 0, 0})
	}
	for i := 5; i < 9; i++ {
		tr.Record("b", mathutil.Vec3{float64(i), 0, -1})
	}
	tr.Record("a", mathutil.Vec3{9, 0, -2})

	assert.Equal(t, 10, tr.Len())
	assert.Equal(t, 3, tr.Segments())
	assert.Len(t, tr.chains, 2)

	p, err := tr.Plot("session")
	require.NoError(t, err)
	assert.Equal(t, "session", p.Title.Text)

	path := filepath.Join(t.TempDir(), "trajectory.png")
	require.NoError(t, tr.Save(path, "session"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPalette(t *testing.T) {
	t.Parallel()

	colors := palette(3)
	require.Len(t, colors, 3)
	assert.NotEqual(t, colors[0], colors[1])
	assert.Empty(t, palette(0))
}
