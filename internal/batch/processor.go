// Package batch renders a recorded browse session to WebP frames with a
// worker pool.
package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/browse"
	"mu-bmd-blender/internal/filter"
	"mu-bmd-blender/internal/log"
	"mu-bmd-blender/internal/motion"
	"mu-bmd-blender/internal/postprocess"
	"mu-bmd-blender/internal/raster"
	"mu-bmd-blender/internal/skeleton"
	"mu-bmd-blender/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Textures  texture.Resolver
	Render    raster.Options
	Workers   int
	Progress  time.Duration // zero disables progress logging
}

// Job is one frame of a session: the model in bind space and the pose to
// put it in.
type Job struct {
	Index    int
	Meshes   []bmd.Mesh
	Skeleton *skeleton.Skeleton
	Pose     motion.Pose
	View     raster.View
	Status   browse.Status
}

// NewJob builds the job for a session frame showing model, which supplies
// the meshes for the from motion's skeleton. extent zero fits the figure.
func NewJob(f browse.Frame, from *motion.Motion, model *bmd.Model, extent float64) Job {
	j := Job{
		Index:  f.Index,
		Pose:   f.Pose,
		Status: f.Status,
		View: raster.View{
			Eye:    f.Camera.Eye,
			Target: f.Camera.Target,
			Extent: extent,
			Zoom:   f.Camera.Magnification(),
		},
	}
	if from != nil {
		j.Skeleton = from.Skeleton
	}
	if model != nil {
		j.Meshes = model.Meshes
	}
	return j
}

// Result holds the outcome of one frame.
type Result struct {
	Index   int
	Image   string // path relative to OutputDir
	Success bool
	Error   string
}

// FrameName is the output file of frame i.
func FrameName(i int) string {
	return filepath.Join("frames", fmt.Sprintf("%05d.webp", i))
}

// Run renders all jobs using a worker pool. Results are in job order.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						log.Info("rendering", "done", p, "total", total, "fps", fmt.Sprintf("%.1f", rate))
					}
				}
			}
		}()
	}

	workers := max(1, cfg.Workers)
	queue := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	close(done)

	return results
}

// RenderFrame poses, rasterizes and downsamples one job. Effect overlays
// are left out.
func RenderFrame(cfg Config, job Job) *image.NRGBA {
	var meshes []bmd.Mesh
	if job.Skeleton != nil {
		meshes = skeleton.ApplyTransforms(filter.Solid(job.Meshes), job.Pose.World(job.Skeleton))
	}
	img := raster.Render(meshes, job.View, cfg.Textures, cfg.Render)
	if cfg.Render.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Render.Size)
	}
	return img
}

func processJob(cfg Config, job Job) Result {
	res := Result{Index: job.Index, Image: FrameName(job.Index)}

	img := RenderFrame(cfg, job)

	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}
