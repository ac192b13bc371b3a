package browse

import "fmt"

// Status is the session summary shown next to the rendered frame.
type Status struct {
	From, To    string
	Skeleton    string
	Index       int
	Working     int
	FromFrames  int
	ToFrames    int
	FPS         float64
	Speed       float64
	AutoAdvance bool
	Track       bool
}

// Status returns the current session summary.
func (b *Browser) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status()
}

func (b *Browser) status() Status {
	from, to := b.blender.From(), b.blender.To()
	s := Status{
		From:        from.Name,
		To:          to.Name,
		Index:       int(b.blender.Index()),
		Working:     b.blender.WorkingFrames(),
		FromFrames:  from.FrameCount(),
		ToFrames:    to.FrameCount(),
		FPS:         1 / from.Timestep(),
		Speed:       b.speed,
		AutoAdvance: b.autoAdvance,
		Track:       b.track,
	}
	if from.Skeleton != nil {
		s.Skeleton = from.Skeleton.Name
	}
	return s
}

// Lines renders the overlay text.
func (s Status) Lines() []string {
	auto := "off"
	if s.AutoAdvance {
		auto = "on"
	}
	return []string{
		fmt.Sprintf("Blending: %s, %s", s.From, s.To),
		fmt.Sprintf("Skeleton: %s", s.Skeleton),
		fmt.Sprintf("Frame %d/%d (%d, %d) (%g fps)", s.Index, s.Working, s.FromFrames, s.ToFrames, s.FPS),
		fmt.Sprintf("%gx speed; auto-advance %s", s.Speed, auto),
	}
}
