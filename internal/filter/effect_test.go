package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mu-bmd-blender/internal/bmd"
)

func TestIsEffectMesh(t *testing.T) {
	cases := map[string]bool{
		"body.jpg":                 false,
		`Player\HQSkinClass01.jpg`: false,
		"gra.jpg":                  true,
		"mini_gra2.tga":            true,
		"grass.jpg":                false,
		`Monster\wing_glow.tga`:    true,
		"flame01.jpg":              true,
		"box_flame_wood.jpg":       false,
		"":                         false,
	}
	for tex, want := range cases {
		assert.Equal(t, want, IsEffectMesh(&bmd.Mesh{TexPath: tex}), tex)
	}
}

func TestSolid(t *testing.T) {
	meshes := []bmd.Mesh{{TexPath: "arm.jpg"}, {TexPath: "aura01.tga"}, {TexPath: "leg.jpg"}}
	solid := Solid(meshes)
	assert.Equal(t, []bmd.Mesh{{TexPath: "arm.jpg"}, {TexPath: "leg.jpg"}}, solid)
	assert.Len(t, meshes, 3)
}
