// Package distmap aligns two motions for blending. The alignment is a
// monotonic path of frame pairs: the head of the first motion alone, a
// dynamic-time-warped blend window over its tail and the head of the second,
// then the rest of the second motion.
package distmap

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"mu-bmd-blender/internal/mathutil"
	"mu-bmd-blender/internal/motion"
)

// DefaultSlopePenalty is the extra cost of a non-diagonal lattice step.
const DefaultSlopePenalty = 0.05

var (
	// ErrWindow is returned for a window outside [1, min(frame counts)].
	ErrWindow = errors.New("distmap: invalid window")

	// ErrNoPath is returned if the lattice has no route to its far corner.
	ErrNoPath = errors.New("distmap: no alignment path")
)

// PathIndex is a position along an alignment path. It is not a frame number.
type PathIndex int

// Pair matches a frame of the from motion with a frame of the to motion.
type Pair struct {
	From motion.FrameIndex
	To   motion.FrameIndex
}

// Options tunes the window alignment.
type Options struct {
	SlopePenalty float64
}

// Map is an immutable alignment between two motions.
type Map struct {
	path   []Pair
	window int
	cost   float64
}

// Compute aligns from with to over a blend window of window frames.
func Compute(from, to *motion.Motion, window int, opts Options) (*Map, error) {
	nFrom, nTo := from.FrameCount(), to.FrameCount()
	if nFrom == 0 || nTo == 0 {
		return nil, motion.ErrEmptyMotion
	}
	if window < 1 || window > nFrom || window > nTo {
		return nil, fmt.Errorf("%w: %d for %d and %d frames", ErrWindow, window, nFrom, nTo)
	}

	start := nFrom - window
	m := &Map{window: window, path: make([]Pair, 0, nFrom+nTo)}
	for f := 0; f < start; f++ {
		m.path = append(m.path, Pair{From: motion.FrameIndex(f)})
	}

	steps, cost, err := solveWindow(from, to, start, window, opts.SlopePenalty)
	if err != nil {
		return nil, err
	}
	m.cost = cost
	m.path = append(m.path, steps...)

	for t := window; t < nTo; t++ {
		m.path = append(m.path, Pair{From: motion.FrameIndex(nFrom - 1), To: motion.FrameIndex(t)})
	}
	return m, nil
}

// solveWindow finds the cheapest monotonic route from (0,0) to (w-1,w-1)
// through the w×w lattice of from[start+i] against to[j].
func solveWindow(from, to *motion.Motion, start, w int, penalty float64) ([]Pair, float64, error) {
	cells := make([]float64, w*w)
	for i := 0; i < w; i++ {
		a := from.Pose(motion.FrameIndex(start + i))
		for j := 0; j < w; j++ {
			cells[i*w+j] = PoseDistance(a, to.Pose(motion.FrameIndex(j)))
		}
	}

	id := func(i, j int) int64 { return int64(i*w + j) }
	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	g.AddNode(simple.Node(0))
	for i := 0; i < w; i++ {
		for j := 0; j < w; j++ {
			u := simple.Node(id(i, j))
			if i+1 < w {
				g.SetWeightedEdge(g.NewWeightedEdge(u, simple.Node(id(i+1, j)), cells[(i+1)*w+j]+penalty))
			}
			if j+1 < w {
				g.SetWeightedEdge(g.NewWeightedEdge(u, simple.Node(id(i, j+1)), cells[i*w+j+1]+penalty))
			}
			if i+1 < w && j+1 < w {
				g.SetWeightedEdge(g.NewWeightedEdge(u, simple.Node(id(i+1, j+1)), cells[(i+1)*w+j+1]))
			}
		}
	}

	nodes, weight := path.DijkstraFrom(simple.Node(0), g).To(id(w-1, w-1))
	if len(nodes) == 0 {
		return nil, 0, ErrNoPath
	}
	out := make([]Pair, len(nodes))
	for k, n := range nodes {
		v := int(n.ID())
		out[k] = Pair{From: motion.FrameIndex(start + v/w), To: motion.FrameIndex(v % w)}
	}
	return out, cells[0] + weight, nil
}

// PoseDistance is the dissimilarity of two poses: the sum over every bone
// and the root of 1-|a·b|. Zero for identical orientations regardless of
// quaternion sign, and never negative.
func PoseDistance(a, b motion.Pose) float64 {
	d := orientationDistance(a.RootOrientation, b.RootOrientation)
	n := min(len(a.BoneOrientations), len(b.BoneOrientations))
	for i := 0; i < n; i++ {
		d += orientationDistance(a.BoneOrientations[i], b.BoneOrientations[i])
	}
	return d
}

func orientationDistance(a, b mathutil.Quat) float64 {
	return math.Max(0, 1-math.Abs(mathutil.QuatDot(a, b)))
}

// Path returns a copy of the alignment.
func (m *Map) Path() []Pair {
	return append([]Pair(nil), m.path...)
}

// Len returns the number of pairs.
func (m *Map) Len() int {
	return len(m.path)
}

// At returns pair i. i must be in [0, Len()).
func (m *Map) At(i PathIndex) Pair {
	return m.path[i]
}

// Valid reports whether i addresses a pair.
func (m *Map) Valid(i PathIndex) bool {
	return i >= 0 && int(i) < len(m.path)
}

// Window returns the blend window length in frames.
func (m *Map) Window() int {
	return m.window
}

// Cost returns the accumulated dissimilarity of the window route.
func (m *Map) Cost() float64 {
	return m.cost
}

// Find returns the first index whose from frame is f. The path is monotonic
// in From, so this is a binary search.
func (m *Map) Find(f motion.FrameIndex) (PathIndex, bool) {
	i := sort.Search(len(m.path), func(i int) bool { return m.path[i].From >= f })
	if i < len(m.path) && m.path[i].From == f {
		return PathIndex(i), true
	}
	return 0, false
}

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	c := *m
	c.path = m.Path()
	return &c
}
