package skeleton

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/mathutil"
	"mu-bmd-blender/internal/testutil"
)

func TestFromModel(t *testing.T) {
	t.Parallel()

	m := testutil.ChainModel("walker", 4, testutil.ClipSpec{Keys: 3})
	sk, err := FromModel(m)
	require.NoError(t, err)

	assert.Equal(t, "walker", sk.Name)
	assert.Equal(t, 4, sk.BoneCount())
	assert.Equal(t, 0, sk.Root)
	assert.Equal(t, -1, sk.Bones[0].Parent)
	assert.Equal(t, 2, sk.Bones[3].Parent)
	assert.Equal(t, mathutil.Vec3{0, 0, testutil.BoneLength}, sk.Bones[1].Offset)
}

func TestFromModelReparentsOrphans(t *testing.T) {
	t.Parallel()

	m := &bmd.Model{Name: "odd", Bones: []bmd.Bone{
		{Parent: -1, IsDummy: true},
		{Name: "root", Parent: -1},
		{Name: "orphan", Parent: -1},
		{Name: "forward", Parent: 5},
	}}
	sk, err := FromModel(m)
	require.NoError(t, err)

	assert.Equal(t, 1, sk.Root)
	assert.Equal(t, 1, sk.Bones[2].Parent)
	assert.Equal(t, 1, sk.Bones[3].Parent)
}

func TestFromModelWithoutRoot(t *testing.T) {
	t.Parallel()

	_, err := FromModel(&bmd.Model{Name: "empty"})
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestCompatible(t *testing.T) {
	t.Parallel()

	a, err := FromModel(testutil.ChainModel("a", 3, testutil.ClipSpec{Keys: 1}))
	require.NoError(t, err)
	b, err := FromModel(testutil.ChainModel("b", 3, testutil.ClipSpec{Keys: 2}))
	require.NoError(t, err)
	c, err := FromModel(testutil.ChainModel("c", 5, testutil.ClipSpec{Keys: 1}))
	require.NoError(t, err)

	assert.True(t, Compatible(a, a))
	assert.True(t, Compatible(a, b))
	assert.False(t, Compatible(a, c))
	assert.False(t, Compatible(a, nil))
}

func TestWorldMatricesChain(t *testing.T) {
	t.Parallel()

	sk, err := FromModel(testutil.ChainModel("chain", 3, testutil.ClipSpec{Keys: 1}))
	require.NoError(t, err)

	root := mathutil.FromQuatTranslation(mathutil.QuatIdentity(), mathutil.Vec3{5, 0, 0})
	bend := mathutil.Rotation(math.Pi/2, mathutil.Vec3{1, 0, 0})
	local := []mathutil.Quat{mathutil.QuatIdentity(), bend, mathutil.QuatIdentity()}

	tips := Tips(sk.WorldMatrices(root, local))
	want := []mathutil.Vec3{
		{5, 0, 0},
		{5, 0, testutil.BoneLength},
		// +Z offset turned onto -Y by the bend at bone 1.
		{5, -testutil.BoneLength, testutil.BoneLength},
	}
	for i := range want {
		assert.True(t, floats.EqualApprox(want[i][:], tips[i][:], 1e-9), "bone %d: want %v got %v", i, want[i], tips[i])
	}
}

func TestApplyTransformsCopies(t *testing.T) {
	t.Parallel()

	mesh := bmd.Mesh{
		Verts: [][3]float32{{1, 0, 0}, {0, 1, 0}},
		Nodes: []int16{0, 7},
	}
	worlds := []mathutil.Mat4{mathutil.FromQuatTranslation(mathutil.QuatIdentity(), mathutil.Vec3{0, 0, 2})}

	posed := ApplyTransforms([]bmd.Mesh{mesh}, worlds)
	require.Len(t, posed, 1)
	assert.Equal(t, [3]float32{1, 0, 2}, posed[0].Verts[0])
	assert.Equal(t, [3]float32{0, 1, 0}, posed[0].Verts[1], "unknown bone leaves vertex in place")
	assert.Equal(t, [3]float32{1, 0, 0}, mesh.Verts[0], "source mesh untouched")
}
