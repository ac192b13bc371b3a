package motion

import (
	"errors"
	"fmt"

	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/log"
	"mu-bmd-blender/internal/skeleton"
)

// Library is the registry of loaded motions, indexed 0..Count()-1 in load
// order. It also keeps the model each motion came from for rendering.
type Library struct {
	motions []*Motion
	models  map[*Motion]*bmd.Model
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{models: make(map[*Motion]*bmd.Model)}
}

// Add registers m and returns its index.
func (l *Library) Add(m *Motion) int {
	l.motions = append(l.motions, m)
	return len(l.motions) - 1
}

// AddModel registers every action of model as a motion. Actions without
// keys are skipped with a warning. Returns the number of motions added.
func (l *Library) AddModel(model *bmd.Model, fps float64) (int, error) {
	sk, err := skeleton.FromModel(model)
	if err != nil {
		return 0, err
	}
	added := 0
	for a := range model.Actions {
		m, err := FromAction(model, sk, a, fps)
		if errors.Is(err, ErrEmptyMotion) {
			log.Warn("skipping motion with no frames", "model", model.Name, "action", a)
			continue
		}
		if err != nil {
			return added, err
		}
		l.models[m] = model
		l.Add(m)
		added++
	}
	return added, nil
}

// LoadFiles parses each BMD path and adds its actions. Models without a
// root bone carry no playable motion and are skipped with a warning.
func (l *Library) LoadFiles(paths []string, opts bmd.Options, fps float64) error {
	for _, path := range paths {
		model, err := bmd.Parse(path, opts)
		if err != nil {
			return err
		}
		n, err := l.AddModel(model, fps)
		if errors.Is(err, skeleton.ErrNoRoot) {
			log.Warn("skipping model without root bone", "path", path)
			continue
		}
		if err != nil {
			return fmt.Errorf("motion: load %s: %w", path, err)
		}
		log.Info("loaded model", "path", path, "bones", len(model.Bones), "motions", n)
	}
	return nil
}

// Count returns the number of motions.
func (l *Library) Count() int {
	return len(l.motions)
}

// Motion returns motion i.
func (l *Library) Motion(i int) (*Motion, error) {
	if i < 0 || i >= len(l.motions) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNotFound, i, len(l.motions))
	}
	return l.motions[i], nil
}

// Index returns the position of m in the library.
func (l *Library) Index(m *Motion) (int, error) {
	for i, x := range l.motions {
		if x == m {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, m.Name)
}

// Find returns the index of the first motion called name.
func (l *Library) Find(name string) (int, error) {
	for i, x := range l.motions {
		if x.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Next steps delta positions from i, wrapping around both ends.
func (l *Library) Next(i, delta int) int {
	n := len(l.motions)
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}

// NextCompatible steps delta positions from i like Next, then keeps moving
// in the same direction past motions that cannot be blended with ref. It
// falls back to i when nothing else fits.
func (l *Library) NextCompatible(i, delta int, ref *Motion) int {
	n := len(l.motions)
	if n == 0 || delta == 0 {
		return l.Next(i, delta)
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	j := l.Next(i, delta)
	for range n {
		if Compatible(ref, l.motions[j]) {
			return j
		}
		log.Warn("skipping incompatible motion", "motion", l.motions[j].Name, "ref", ref.Name,
			"bones", l.motions[j].BoneCount(), "want", ref.BoneCount())
		j = l.Next(j, step)
	}
	return l.Next(i, 0)
}

// Model returns the mesh source of m, or nil for motions added directly.
func (l *Library) Model(m *Motion) *bmd.Model {
	return l.models[m]
}
