// Package browse drives a blend session: wall-clock time becomes frame
// steps, finished blends chain into the next library motion, and user
// commands switch, scrub and retime playback.
package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mu-bmd-blender/internal/blend"
	"mu-bmd-blender/internal/log"
	"mu-bmd-blender/internal/motion"
)

// ErrNoMotions is returned when the library is empty.
var ErrNoMotions = errors.New("browse: library has no motions")

// Speeds is the play speed cycle. Zero pauses and enables frame stepping.
var Speeds = []float64{1, 0.5, 0.2, 0.1, 0}

// Frame is what a session produces on every tick.
type Frame struct {
	Index  int
	Pose   motion.Pose
	Camera Camera
	Status Status
}

// Browser owns the active blender and playback timing.
type Browser struct {
	mu sync.Mutex

	lib  *motion.Library
	opts blend.Options

	blender *blend.Blender
	current int // library index of the blender's from motion

	time  float64
	frame int

	speed       float64
	autoAdvance bool
	track       bool

	camera Camera
	pose   motion.Pose
}

// New starts a session blending motion 0 into motion 1.
func New(lib *motion.Library, opts blend.Options, camera Camera) (*Browser, error) {
	if lib.Count() == 0 {
		return nil, ErrNoMotions
	}
	b := &Browser{
		lib:         lib,
		opts:        opts,
		speed:       1,
		autoAdvance: true,
		camera:      camera,
	}
	if err := b.start(0); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Browser) start(i int) error {
	from, err := b.lib.Motion(i)
	if err != nil {
		return err
	}
	to, err := b.lib.Motion(b.lib.NextCompatible(i, 1, from))
	if err != nil {
		return err
	}
	bl, err := blend.New(from, to, b.opts)
	if err != nil {
		return fmt.Errorf("browse: start %s: %w", from.Name, err)
	}
	b.blender = bl
	b.current = i
	b.time, b.frame = 0, 0
	b.pose = motion.NewPose(from.BoneCount())
	return nil
}

// Update advances playback by elapsed seconds scaled by the play speed,
// chains to the next motion when the lead motion is done, and refreshes
// the pose. Time never runs below zero.
func (b *Browser) Update(elapsed float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.update(elapsed)
}

func (b *Browser) update(elapsed float64) error {
	m := b.blender.From()
	if m.FrameCount() == 0 {
		log.Warn("motion has zero frames", "motion", m.Name)
		return motion.ErrEmptyMotion
	}

	b.time += elapsed * b.speed
	if b.time < 0 {
		b.time = 0
	}
	frame := int(b.time / m.Timestep())
	b.blender.Advance(frame - b.frame)
	b.frame = frame

	if b.autoAdvance && b.blender.FirstDone() {
		if err := b.chain(); err != nil {
			return err
		}
	}

	b.pose = b.blender.Pose()
	if b.track {
		b.camera.Follow(b.pose.RootPosition)
	}
	return nil
}

// chain hands the blend over to the next motion that fits the skeleton of
// the current to motion. The clock is rescaled when the lead motion's
// timestep changes so the frame counter stays put.
func (b *Browser) chain() error {
	to := b.blender.To()
	toIdx, err := b.lib.Index(to)
	if err != nil {
		return err
	}
	next, err := b.lib.Motion(b.lib.NextCompatible(toIdx, 1, to))
	if err != nil {
		return err
	}
	bl, err := blend.Chain(b.blender, next)
	if err != nil {
		return fmt.Errorf("browse: chain to %s: %w", next.Name, err)
	}
	log.Info("auto-advance", "from", bl.From().Name, "to", next.Name)
	if oldTs, newTs := b.blender.From().Timestep(), to.Timestep(); oldTs != newTs {
		b.time *= newTs / oldTs
	}
	b.blender = bl
	b.current = toIdx
	return nil
}

// SwitchMotion drops the current blend and starts over from the motion
// delta places away, blending into its successor. World state and timing
// are reset.
func (b *Browser) SwitchMotion(delta int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.start(b.lib.Next(b.current, delta))
}

// StepFrame moves the clock by dir frames of the current motion. It only
// works while paused and reports whether it did anything.
func (b *Browser) StepFrame(dir int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.speed != 0 {
		return false
	}
	b.time += float64(dir) * b.blender.From().Timestep()
	return true
}

// CycleSpeed moves to the next entry of Speeds. An off-cycle speed goes back
// to full speed.
func (b *Browser) CycleSpeed() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := Speeds[0]
	for i, s := range Speeds {
		if s == b.speed {
			next = Speeds[(i+1)%len(Speeds)]
			break
		}
	}
	b.speed = next
	return next
}

// SetSpeed sets the play speed directly.
func (b *Browser) SetSpeed(s float64) {
	b.mu.Lock()
	b.speed = s
	b.mu.Unlock()
}

// ToggleAutoAdvance flips chaining on or off and returns the new setting.
func (b *Browser) ToggleAutoAdvance() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoAdvance = !b.autoAdvance
	return b.autoAdvance
}

// SetAutoAdvance sets chaining on or off.
func (b *Browser) SetAutoAdvance(on bool) {
	b.mu.Lock()
	b.autoAdvance = on
	b.mu.Unlock()
}

// ToggleTrack flips camera tracking and returns the new setting.
func (b *Browser) ToggleTrack() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.track = !b.track
	return b.track
}

// SetTrack sets camera tracking on or off.
func (b *Browser) SetTrack(on bool) {
	b.mu.Lock()
	b.track = on
	b.mu.Unlock()
}

// Handle applies one command.
func (b *Browser) Handle(c Command) error {
	switch c {
	case CmdToggleTrack:
		b.ToggleTrack()
	case CmdToggleAutoAdvance:
		b.ToggleAutoAdvance()
	case CmdNextMotion:
		return b.SwitchMotion(1)
	case CmdPrevMotion:
		return b.SwitchMotion(-1)
	case CmdStepForward:
		b.StepFrame(1)
	case CmdStepBack:
		b.StepFrame(-1)
	case CmdCycleSpeed:
		b.CycleSpeed()
	case CmdOrbitLeft:
		b.moveCamera(func(c *Camera) { c.Orbit(-OrbitStep, 0) })
	case CmdOrbitRight:
		b.moveCamera(func(c *Camera) { c.Orbit(OrbitStep, 0) })
	case CmdOrbitUp:
		b.moveCamera(func(c *Camera) { c.Orbit(0, OrbitStep) })
	case CmdOrbitDown:
		b.moveCamera(func(c *Camera) { c.Orbit(0, -OrbitStep) })
	case CmdZoomIn:
		b.moveCamera(func(c *Camera) { c.Zoom(ZoomStep) })
	case CmdZoomOut:
		b.moveCamera(func(c *Camera) { c.Zoom(1 / ZoomStep) })
	default:
		return fmt.Errorf("%w: %v", ErrUnknownCommand, c)
	}
	return nil
}

func (b *Browser) moveCamera(f func(*Camera)) {
	b.mu.Lock()
	f(&b.camera)
	b.mu.Unlock()
}

// Pose returns the pose computed by the last Update.
func (b *Browser) Pose() motion.Pose {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pose.Clone()
}

// Camera returns the current viewpoint.
func (b *Browser) Camera() Camera {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.camera
}

// Blender returns the active blender. It is replaced on chaining and
// switching, so callers should not hold on to it.
func (b *Browser) Blender() *blend.Blender {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blender
}

// Current returns the library index of the motion being blended out.
func (b *Browser) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Browser) snapshot(i int) Frame {
	return Frame{Index: i, Pose: b.pose.Clone(), Camera: b.camera, Status: b.status()}
}

// Play runs frames fixed steps of dt seconds and calls fn after each.
// Playback stops early when fn returns false or an error.
func (b *Browser) Play(frames int, dt float64, fn func(Frame) (bool, error)) error {
	for i := 0; i < frames; i++ {
		b.mu.Lock()
		err := b.update(dt)
		f := b.snapshot(i)
		b.mu.Unlock()
		if err != nil {
			return err
		}
		more, err := fn(f)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// Run plays in real time at fps until ctx is done or fn returns false.
// Commands received on cmds are applied between ticks.
func (b *Browser) Run(ctx context.Context, fps float64, cmds <-chan Command, fn func(Frame) bool) error {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
	defer ticker.Stop()

	last := time.Now()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case c := <-cmds:
			if err := b.Handle(c); err != nil {
				return err
			}
			i--

		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now

			b.mu.Lock()
			err := b.update(elapsed)
			f := b.snapshot(i)
			b.mu.Unlock()
			if err != nil {
				return err
			}
			if !fn(f) {
				return nil
			}
		}
	}
}
