package export

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"mu-bmd-blender/internal/mathutil"
)

// Trajectory records the world-space root path of a session, split into
// segments by the motion being blended out.
type Trajectory struct {
	segments []segment
	chains   plotter.XYs
}

type segment struct {
	motion string
	points plotter.XYs
}

// Record appends a root position seen while motion was playing. A change of
// motion starts a new segment and marks a hand-over point.
func (t *Trajectory) Record(motion string, root mathutil.Vec3) {
	pt := plotter.XY{X: root[0], Y: -root[2]}
	n := len(t.segments)
	if n == 0 || t.segments[n-1].motion != motion {
		if n > 0 {
			t.chains = append(t.chains, pt)
		}
		t.segments = append(t.segments, segment{motion: motion})
		n++
	}
	t.segments[n-1].points = append(t.segments[n-1].points, pt)
}

// Len returns the number of recorded points.
func (t *Trajectory) Len() int {
	total := 0
	for _, s := range t.segments {
		total += len(s.points)
	}
	return total
}

// Segments returns the number of motion segments.
func (t *Trajectory) Segments() int {
	return len(t.segments)
}

// Plot builds a top-down plot of the trajectory, one colour per motion.
func (t *Trajectory) Plot(title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "-Z"

	var names []string
	byName := map[string]int{}
	for _, s := range t.segments {
		if _, ok := byName[s.motion]; !ok {
			byName[s.motion] = len(names)
			names = append(names, s.motion)
		}
	}
	sort.Strings(names)
	for i, n := range names {
		byName[n] = i
	}
	colors := palette(len(names))

	labelled := map[string]bool{}
	for _, s := range t.segments {
		if len(s.points) < 2 {
			continue
		}
		line, err := plotter.NewLine(s.points)
		if err != nil {
			return nil, fmt.Errorf("export: segment %s: %w", s.motion, err)
		}
		line.Color = colors[byName[s.motion]]
		line.Width = vg.Points(1.5)
		p.Add(line)
		if !labelled[s.motion] {
			p.Legend.Add(s.motion, line)
			labelled[s.motion] = true
		}
	}

	if len(t.chains) > 0 {
		sc, err := plotter.NewScatter(t.chains)
		if err != nil {
			return nil, fmt.Errorf("export: chain points: %w", err)
		}
		sc.GlyphStyle.Color = color.Black
		sc.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(sc)
		p.Legend.Add("hand-over", sc)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// Save writes the trajectory plot; the format follows the file extension.
func (t *Trajectory) Save(path, title string) error {
	p, err := t.Plot(title)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

// palette spreads n hues around the colour wheel.
func palette(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		r, g, b := hslToRGB(float64(i)/float64(max(n, 1)), 0.7, 0.45)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255),
		uint8(hueToRGB(p, q, h) * 255),
		uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
