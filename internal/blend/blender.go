// Package blend cross-fades two motions along their alignment path and
// chains blends into an endless, positionally continuous stream.
package blend

import (
	"fmt"
	"math"

	"mu-bmd-blender/internal/distmap"
	"mu-bmd-blender/internal/log"
	"mu-bmd-blender/internal/motion"
	"mu-bmd-blender/internal/worldstate"
)

// Blender plays from into to. Positions are path indices; the world state
// carries root motion across chained blenders.
//
// A Blender is not safe for concurrent use. Call Advance then Pose once per
// frame from a single goroutine.
type Blender struct {
	from, to *motion.Motion
	dist     *distmap.Map
	opts     Options

	cur, last distmap.PathIndex

	state    worldstate.GlobalState
	velocity worldstate.VelocityControl
}

// New aligns from with to and returns a blender at the start of the path.
func New(from, to *motion.Motion, opts Options) (*Blender, error) {
	if from == nil || to == nil {
		return nil, ErrNilMotion
	}
	for _, m := range []*motion.Motion{from, to} {
		if m.FrameCount() == 0 {
			log.Warn("motion has no frames, cannot blend", "motion", m.Name)
			return nil, fmt.Errorf("blend: %s: %w", m.Name, motion.ErrEmptyMotion)
		}
	}
	if !motion.Compatible(from, to) {
		return nil, fmt.Errorf("%w: %s has %d bones, %s has %d",
			ErrSkeletonMismatch, from.Name, from.BoneCount(), to.Name, to.BoneCount())
	}

	window := opts.WindowFor(from.FrameCount(), to.FrameCount())
	dist, err := distmap.Compute(from, to, window, distmap.Options{SlopePenalty: opts.SlopePenalty})
	if err != nil {
		return nil, fmt.Errorf("blend: align %s -> %s: %w", from.Name, to.Name, err)
	}

	b := &Blender{from: from, to: to, dist: dist, opts: opts}
	b.state.Clear()
	b.velocity.Clear()
	log.Debug("blend created", "from", from.Name, "to", to.Name, "window", window, "path", dist.Len(), "cost", dist.Cost())
	return b, nil
}

// Chain starts a blend from old's to motion into next. The new blender picks
// up at the frame old's to stream had reached, keeps old's step between
// current and last index, and inherits its world state.
func Chain(old *Blender, next *motion.Motion) (*Blender, error) {
	b, err := New(old.to, next, old.opts)
	if err != nil {
		return nil, err
	}

	target := old.dist.At(old.cur).To
	cur, ok := b.dist.Find(target)
	if !ok {
		log.Warn("chain target frame not on path, restarting", "motion", old.to.Name, "frame", target)
		cur = 0
	}
	b.cur = cur
	b.last = cur - (old.cur - old.last)
	b.state = old.state
	log.Debug("blend chained", "from", b.from.Name, "to", next.Name, "index", b.cur)
	return b, nil
}

// Advance moves delta path steps. Running past the end restarts at the
// beginning; running before the start jumps to the end. Both clear the world
// state. After an underflow LastIndex may lie outside the path.
func (b *Blender) Advance(delta int) {
	b.last = b.cur
	next := b.cur + distmap.PathIndex(delta)
	n := distmap.PathIndex(b.dist.Len())
	switch {
	case next >= 0 && next < n:
		b.cur = next
	case next >= n:
		b.cur, b.last = 0, 0
		b.state.Clear()
	default:
		b.cur = n - 1
		b.last = b.cur + distmap.PathIndex(delta)
		b.state.Clear()
	}
}

// Weight is the share of the to motion at to frame t: an exponential ramp
// exp(t/window)-1 clamped to [0, 1].
func (b *Blender) Weight(t motion.FrameIndex) float64 {
	return weight(t, b.dist.Window())
}

func weight(t motion.FrameIndex, window int) float64 {
	w := math.Exp(float64(t)/float64(window)) - 1
	return math.Max(0, math.Min(1, w))
}

// Pose returns the blended pose at the current index and integrates one
// step of root velocity into the world state. Calling it twice without an
// Advance integrates twice.
func (b *Blender) Pose() motion.Pose {
	pair := b.dist.At(b.cur)
	fromPose := b.from.Pose(pair.From)
	toPose := b.to.Pose(pair.To)
	t := b.Weight(pair.To)

	out := fromPose.Clone()
	for i := range out.BoneOrientations {
		out.BoneOrientations[i] = b.opts.Interp.slerp(fromPose.BoneOrientations[i], toPose.BoneOrientations[i], t)
	}
	out.RootOrientation = b.opts.Interp.slerp(fromPose.RootOrientation, toPose.RootOrientation, t)

	// Clip-local horizontal root positions are not comparable between clips,
	// so only height is blended and travel comes from velocity.
	y := fromPose.RootPosition[1] + (toPose.RootPosition[1]-fromPose.RootPosition[1])*t
	out.RootPosition[0], out.RootPosition[1], out.RootPosition[2] = 0, y, 0

	lastPair := pair
	if b.dist.Valid(b.last) {
		lastPair = b.dist.At(b.last)
	}
	fromVel := fromPose.RootPosition.Sub(b.from.RootPosition(lastPair.From))
	toVel := toPose.RootPosition.Sub(b.to.RootPosition(lastPair.To))
	b.velocity.DesiredVelocity = toVel.Scale(t).Add(fromVel.Scale(1 - t))

	b.velocity.ApplyTo(&b.state, 1)
	b.state.Apply(&out)
	return out
}

// FirstDone reports whether the from motion has played its last frame,
// i.e. the blend window has been consumed on the leading side.
func (b *Blender) FirstDone() bool {
	return int(b.dist.At(b.cur).From) >= b.from.FrameCount()-1
}

// Clone returns an independent copy sharing only the motions.
func (b *Blender) Clone() *Blender {
	c := *b
	c.dist = b.dist.Clone()
	return &c
}

// From returns the motion being blended out.
func (b *Blender) From() *motion.Motion { return b.from }

// To returns the motion being blended in.
func (b *Blender) To() *motion.Motion { return b.to }

// Index returns the current path index.
func (b *Blender) Index() distmap.PathIndex { return b.cur }

// LastIndex returns the path index before the latest Advance.
func (b *Blender) LastIndex() distmap.PathIndex { return b.last }

// Frame returns the frame pair at the current index.
func (b *Blender) Frame() distmap.Pair { return b.dist.At(b.cur) }

// WorkingFrames returns the alignment path length.
func (b *Blender) WorkingFrames() int { return b.dist.Len() }

// Window returns the blend window in frames.
func (b *Blender) Window() int { return b.dist.Window() }

// Path returns the alignment.
func (b *Blender) Path() *distmap.Map { return b.dist }

// State returns a copy of the accumulated world state.
func (b *Blender) State() worldstate.GlobalState { return b.state }

// Options returns the options the blender was built with.
func (b *Blender) Options() Options { return b.opts }
