package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// priority ranks extensions sharing a stem. Alpha-carrying formats win.
var priority = map[string]int{
	".jpeg": 1,
	".jpg":  1,
	".ozj":  2,
	".tga":  3,
	".ozt":  4,
}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string
}

// BuildIndex walks every dir recursively for texture files. Model folders
// usually keep textures beside the BMD or in a Texture/ subfolder; both are
// covered by the walk. Missing dirs are skipped.
func BuildIndex(dirs ...string) *Index {
	idx := &Index{entries: make(map[string]string)}
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			idx.add(path)
			return nil
		})
	}
	return idx
}

func (idx *Index) add(path string) {
	ext := strings.ToLower(filepath.Ext(path))
	rank, ok := priority[ext]
	if !ok {
		return
	}
	stem := stemOf(path)
	if existing, exists := idx.entries[stem]; exists {
		if priority[strings.ToLower(filepath.Ext(existing))] >= rank {
			return
		}
	}
	idx.entries[stem] = path
}

// stemOf strips directories (either slash style) and the extension.
func stemOf(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
// The BMD texture reference "Player\\skin01.jpg" matches skin01.OZJ.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	path, ok := idx.entries[stemOf(texName)]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
