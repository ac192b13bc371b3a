package bmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/testutil"
)

// Keyframes are stored as float32; actions without keys decode to nil tracks.
var modelOpts = cmp.Options{cmpopts.EquateApprox(0, 1e-6), cmpopts.EquateEmpty()}

func fixture() *bmd.Model {
	m := testutil.ChainModel("hero", 3,
		testutil.ClipSpec{Keys: 5, Stride: 1.5, Height: 30, Swing: 0.4},
		testutil.ClipSpec{Keys: 0},
		testutil.ClipSpec{Keys: 3, Stride: 2, Height: 31, Swing: 0.2, Phase: 1, Yaw: 0.5},
	)
	m.Actions[2].LockPositions = true
	m.Actions[2].RootPositions = [][3]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	m.Bones = append(m.Bones, bmd.Bone{Parent: -1, IsDummy: true, Tracks: make([]bmd.Track, 3)})
	return m
}

func TestParseRoundTrip(t *testing.T) {
	encoders := map[string]struct {
		encode  func(*bmd.Model) []byte
		version byte
	}{
		"v10": {testutil.EncodeBMD, 10},
		"v12": {testutil.EncodeBMDv12, 12},
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			want := fixture()
			got, err := bmd.ParseBytes("hero.bmd", enc.encode(want), bmd.Options{})
			require.NoError(t, err)

			want.Version = enc.version
			if diff := cmp.Diff(want, got, modelOpts); diff != "" {
				t.Errorf("model mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	m := fixture()
	m.Name = ""
	path := filepath.Join(t.TempDir(), "Player01.bmd")
	require.NoError(t, os.WriteFile(path, testutil.EncodeBMD(m), 0o644))

	got, err := bmd.Parse(path, bmd.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Player01", got.Name, "file stem is the fallback name")
	assert.Len(t, got.Bones, 4)
	assert.Equal(t, 5, got.Actions[0].Keys)

	_, err = bmd.Parse(filepath.Join(t.TempDir(), "missing.bmd"), bmd.Options{})
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	full := testutil.EncodeBMD(fixture())

	t.Run("bad header", func(t *testing.T) {
		_, err := bmd.ParseBytes("x", []byte("XYZ\x0a"), bmd.Options{})
		assert.ErrorContains(t, err, "invalid header")

		_, err = bmd.ParseBytes("x", []byte("BM"), bmd.Options{})
		assert.Error(t, err)
	})

	t.Run("truncated body", func(t *testing.T) {
		_, err := bmd.ParseBytes("x", full[:len(full)-5], bmd.Options{})
		assert.ErrorIs(t, err, bmd.ErrTruncated)

		_, err = bmd.ParseBytes("x", full[:60], bmd.Options{})
		assert.ErrorIs(t, err, bmd.ErrTruncated)
	})

	t.Run("truncated v12 payload", func(t *testing.T) {
		enc := testutil.EncodeBMDv12(fixture())
		_, err := bmd.ParseBytes("x", enc[:len(enc)-1], bmd.Options{})
		assert.Error(t, err)

		_, err = bmd.ParseBytes("x", []byte("BMD\x0c\x01"), bmd.Options{})
		assert.Error(t, err)
	})

	t.Run("v15 needs key", func(t *testing.T) {
		_, err := bmd.ParseBytes("x", []byte("BMD\x0f\x00\x00\x00\x00"), bmd.Options{})
		assert.ErrorIs(t, err, bmd.ErrNoLEAKey)
	})
}
