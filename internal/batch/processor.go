package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mesh-tga-renderer/internal/export"
	"mesh-tga-renderer/internal/model"
	"mesh-tga-renderer/internal/postprocess"
	"mesh-tga-renderer/internal/render"
	"mesh-tga-renderer/internal/texture"
)

// Job is one model to render. Empty fields fall back to the batch Config:
// Name defaults to the model's file stem, Output to OutputDir/Name.tga and
// Texture to the model's diffuse map.
type Job struct {
	Name    string `json:"name"`
	Model   string `json:"model"`
	Texture string `json:"texture"`
	Output  string `json:"output"`
	Mode    string `json:"mode"`
}

// LoadJobs reads a JSON array of jobs. Relative paths are resolved against
// the file's directory.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}
	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("batch: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range jobs {
		if jobs[i].Model == "" {
			return nil, fmt.Errorf("batch: %s: job %d has no model", path, i)
		}
		for _, p := range []*string{&jobs[i].Model, &jobs[i].Texture, &jobs[i].Output} {
			if *p != "" && !filepath.IsAbs(*p) {
				*p = filepath.Join(dir, *p)
			}
		}
	}
	return jobs, nil
}

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Options   render.Options
	Textures  texture.Resolver
	Normalize bool
	// FillRatio > 0 crops each render to its content and rescales it to
	// fill that fraction of the frame.
	FillRatio float64
	// Despeckle > 0 clears pixel islands smaller than that fraction of the
	// covered area before fitting.
	Despeckle float64
	RLE       bool
	Workers   int
	// Progress receives a line every two seconds; nil disables it.
	Progress io.Writer
}

// Result holds the outcome of processing one job.
type Result struct {
	Name    string
	Model   string
	Output  string
	Stats   render.Stats
	Success bool
	Error   string
}

// Run processes all jobs using a worker pool. Results are in job order.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f models/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	workers := max(cfg.Workers, 1)
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job) Result {
	res := Result{Name: job.Name, Model: job.Model, Output: job.Output}
	if res.Name == "" {
		res.Name = strings.TrimSuffix(filepath.Base(job.Model), filepath.Ext(job.Model))
	}
	if res.Output == "" {
		res.Output = filepath.Join(cfg.OutputDir, res.Name+".tga")
	} else if !filepath.IsAbs(res.Output) && cfg.OutputDir != "" {
		res.Output = filepath.Join(cfg.OutputDir, res.Output)
	}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	m, err := model.Load(job.Model)
	if err != nil {
		return fail(err)
	}
	if m.NFaces() == 0 {
		return fail(fmt.Errorf("no faces in %s", job.Model))
	}
	if cfg.Normalize {
		m.Normalize()
	}

	opts := cfg.Options
	if job.Mode != "" {
		if opts.Mode, err = render.ParseMode(job.Mode); err != nil {
			return fail(err)
		}
	}

	out, err := renderJob(cfg, job, m, opts)
	if err != nil {
		return fail(err)
	}
	res.Stats = out.Stats

	img := out.Image
	if cfg.Despeckle > 0 {
		img = postprocess.Despeckle(img, cfg.Despeckle)
	}
	if cfg.FillRatio > 0 {
		img = postprocess.Fit(img, cfg.FillRatio)
	}
	if err := export.Save(res.Output, img, export.Options{RLE: cfg.RLE}); err != nil {
		return fail(err)
	}
	res.Success = true
	return res
}

func renderJob(cfg Config, job Job, m *model.Model, opts render.Options) (*render.Result, error) {
	if opts.Mode != render.Textured {
		return render.Render(m, nil, opts)
	}
	name := job.Texture
	if name == "" {
		name = m.DiffuseMap()
	}
	if name == "" {
		return nil, fmt.Errorf("%s names no texture", job.Model)
	}
	if cfg.Textures == nil {
		return nil, fmt.Errorf("no texture resolver for %s", name)
	}
	tex := cfg.Textures.Resolve(name)
	if tex == nil {
		return nil, fmt.Errorf("texture not found: %s", name)
	}
	return render.Render(m, tex, opts)
}
