// Package filter picks out meshes that should not be drawn as solid
// geometry: glow, aura and trail overlays that the game blends additively.
package filter

import (
	"path/filepath"
	"regexp"
	"strings"

	"mu-bmd-blender/internal/bmd"
)

var gradientRE = regexp.MustCompile(`^(?:mini_|hangul)?gra(?:\d|_|$)`)

var effectPatterns = []string{
	"glow", "flare", "chrome", "effect",
	"aura", "shiny", "spark", "fire", "blur",
	"energy", "plasma", "shine", "halo", "trail",
	"gradation", "alpha_line", "shockwave", "swordeff",
}

// "flame" only counts as a prefix; "box_flame_wood" is a solid texture.
var effectPrefixes = []string{"flame"}

func textureStem(m *bmd.Mesh) string {
	tex := strings.ToLower(strings.ReplaceAll(m.TexPath, "\\", "/"))
	base := filepath.Base(tex)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsEffectMesh reports whether m is an effect overlay, judged by its
// texture name.
func IsEffectMesh(m *bmd.Mesh) bool {
	stem := textureStem(m)
	if stem == "" || stem == "." {
		return false
	}
	if gradientRE.MatchString(stem) {
		return true
	}
	for _, p := range effectPatterns {
		if strings.Contains(stem, p) {
			return true
		}
	}
	for _, p := range effectPrefixes {
		if strings.HasPrefix(stem, p) {
			return true
		}
	}
	return false
}

// Solid returns the meshes that are not effect overlays. The input slice is
// not modified.
func Solid(meshes []bmd.Mesh) []bmd.Mesh {
	out := make([]bmd.Mesh, 0, len(meshes))
	for i := range meshes {
		if !IsEffectMesh(&meshes[i]) {
			out = append(out, meshes[i])
		}
	}
	return out
}
