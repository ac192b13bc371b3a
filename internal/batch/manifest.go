package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest describes one rendered session.
type Manifest struct {
	RunID   string          `json:"run_id"`
	Created time.Time       `json:"created"`
	FPS     float64         `json:"fps"`
	Failed  int             `json:"failed"`
	Frames  []ManifestEntry `json:"frames"`
}

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index      int        `json:"index"`
	Image      string     `json:"image,omitempty"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	BlendFrame int        `json:"blend_frame"`
	Working    int        `json:"working_frames"`
	Speed      float64    `json:"speed"`
	Root       [3]float64 `json:"root"`
	Error      string     `json:"error,omitempty"`
}

// NewManifest pairs jobs with their results under a fresh run id.
func NewManifest(fps float64, jobs []Job, results []Result) Manifest {
	m := Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		FPS:     fps,
		Frames:  make([]ManifestEntry, len(jobs)),
	}
	for i, j := range jobs {
		e := ManifestEntry{
			Index:      j.Index,
			From:       j.Status.From,
			To:         j.Status.To,
			BlendFrame: j.Status.Index,
			Working:    j.Status.Working,
			Speed:      j.Status.Speed,
			Root:       j.Pose.RootPosition,
		}
		if i < len(results) {
			if results[i].Success {
				e.Image = results[i].Image
			} else {
				e.Error = results[i].Error
				m.Failed++
			}
		}
		m.Frames[i] = e
	}
	return m
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
