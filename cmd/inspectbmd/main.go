package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/crypto"
	"mu-bmd-blender/internal/mathutil"
	"mu-bmd-blender/internal/motion"
	"mu-bmd-blender/internal/skeleton"
	"mu-bmd-blender/internal/texture"
)

func main() {
	fps := flag.Float64("fps", 30, "Frame rate used for motion durations")
	leaKey := flag.String("lea", "", "Hex LEA-256 key for v15 files")
	showBones := flag.Bool("bones", false, "List every bone")
	flag.Parse()

	var opts bmd.Options
	if *leaKey != "" {
		key, err := crypto.ParseLEAKey(*leaKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts.LEAKey = &key
	}

	for _, arg := range flag.Args() {
		model, err := bmd.Parse(arg, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			continue
		}
		fmt.Printf("\n=== %s %q (meshes=%d bones=%d actions=%d) ===\n",
			arg, model.Name, len(model.Meshes), len(model.Bones), len(model.Actions))

		cache := texture.NewCache(texture.BuildIndex(filepath.Dir(arg)))
		printMeshes(model.Meshes, cache)

		sk, err := skeleton.FromModel(model)
		if err != nil {
			fmt.Printf("--- no skeleton: %v\n", err)
			continue
		}
		fmt.Printf("--- skeleton %q: root=%d (%s)\n", sk.Name, sk.Root, sk.Bones[sk.Root].Name)
		if *showBones {
			for i, b := range sk.Bones {
				tag := ""
				if b.Dummy {
					tag = " [DUMMY]"
				}
				fmt.Printf("  Bone[%d] %-24s parent=%d offset=(%.1f,%.1f,%.1f)%s\n",
					i, b.Name, b.Parent, b.Offset[0], b.Offset[1], b.Offset[2], tag)
			}
		}

		fmt.Println("--- motions")
		for a := range model.Actions {
			printMotion(model, sk, a, *fps)
		}
	}
}

func printMotion(model *bmd.Model, sk *skeleton.Skeleton, action int, fps float64) {
	act := model.Actions[action]
	lock := ""
	if act.LockPositions {
		lock = " [LOCK]"
	}
	m, err := motion.FromAction(model, sk, action, fps)
	if err != nil {
		fmt.Printf("  Action[%d]: keys=%d%s: %v\n", action, act.Keys, lock, err)
		return
	}
	last := motion.FrameIndex(m.FrameCount() - 1)
	d := m.Delta(0, last)
	fmt.Printf("  %s: frames=%d duration=%.2fs travel=%.1f turn=%.0f°%s\n",
		m.Name, m.FrameCount(), m.Duration(), d.Position.Len(), d.Yaw*180/math.Pi, lock)
}

func printMeshes(meshes []bmd.Mesh, cache *texture.Cache) {
	for i, m := range meshes {
		name := strings.ReplaceAll(m.TexPath, "\\", "/")
		texInfo := "MISSING"
		if tex := cache.Resolve(m.TexPath); tex != nil {
			b := tex.Bounds()
			texInfo = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
		}

		if len(m.Verts) == 0 {
			fmt.Printf("  Mesh[%d]: empty tex=%q\n", i, name)
			continue
		}
		lo, hi := mathutil.Vec3From32(m.Verts[0]), mathutil.Vec3From32(m.Verts[0])
		for _, v := range m.Verts[1:] {
			p := mathutil.Vec3From32(v)
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], p[k])
				hi[k] = math.Max(hi[k], p[k])
			}
		}
		fmt.Printf("  Mesh[%d]: v=%d t=%d bones=%d tex=%q (%s) bbox=(%.0f,%.0f,%.0f)\n",
			i, len(m.Verts), len(m.Tris), distinctNodes(m.Nodes), name, texInfo,
			hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])
	}
}

func distinctNodes(nodes []int16) int {
	seen := make(map[int16]struct{}, 8)
	for _, n := range nodes {
		seen[n] = struct{}{}
	}
	return len(seen)
}
