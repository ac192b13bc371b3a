// Package export writes motion and session data for offline inspection:
// per-motion ".global" CSV tables and root trajectory plots.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mu-bmd-blender/internal/log"
	"mu-bmd-blender/internal/motion"
	"mu-bmd-blender/internal/skeleton"
)

// ErrNoSkeleton is returned for motions without a skeleton.
var ErrNoSkeleton = errors.New("export: motion has no skeleton")

// GlobalHeader returns the column names of the ".global" table for sk.
func GlobalHeader(sk *skeleton.Skeleton) []string {
	header := []string{"position.x", "position.z", "position.yaw", "root.x", "root.y", "root.z"}
	for i, b := range sk.Bones {
		name := b.Name
		if name == "" {
			name = "bone" + strconv.Itoa(i)
		}
		header = append(header, name+".x", name+".y", name+".z")
	}
	return header
}

// WriteGlobalCSV writes one row per frame of m: the root's planar travel
// and heading since frame 0, the clip-local root position, and the world
// position of every bone.
func WriteGlobalCSV(w io.Writer, m *motion.Motion) error {
	if m.Skeleton == nil {
		return fmt.Errorf("%w: %s", ErrNoSkeleton, m.Name)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(GlobalHeader(m.Skeleton)); err != nil {
		return err
	}

	row := make([]string, 0, 6+3*m.Skeleton.BoneCount())
	for f := 0; f < m.FrameCount(); f++ {
		i := motion.FrameIndex(f)
		p := m.Pose(i)
		d := m.Delta(0, i)

		row = row[:0]
		row = append(row, ff(d.Position[0]), ff(d.Position[2]), ff(d.Yaw))
		row = append(row, ff(p.RootPosition[0]), ff(p.RootPosition[1]), ff(p.RootPosition[2]))
		for _, tip := range skeleton.Tips(p.World(m.Skeleton)) {
			row = append(row, ff(tip[0]), ff(tip[1]), ff(tip[2]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// GlobalFileName is the dump file name for a motion.
func GlobalFileName(m *motion.Motion) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "#", "_", " ", "_")
	return r.Replace(m.Name) + ".global"
}

// DumpLibrary writes a ".global" file into dir for every motion in lib and
// returns the paths written.
func DumpLibrary(lib *motion.Library, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("export: create %s: %w", dir, err)
	}
	var paths []string
	for i := 0; i < lib.Count(); i++ {
		m, err := lib.Motion(i)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, GlobalFileName(m))
		log.Info("dumping motion", "motion", m.Name, "path", path)
		if err := writeFile(path, m); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, m *motion.Motion) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := WriteGlobalCSV(f, m); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return f.Close()
}
