package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mesh-tga-renderer/internal/batch"
	"mesh-tga-renderer/internal/config"
	"mesh-tga-renderer/internal/export"
	"mesh-tga-renderer/internal/model"
	"mesh-tga-renderer/internal/postprocess"
	"mesh-tga-renderer/internal/render"
	"mesh-tga-renderer/internal/texture"
	"mesh-tga-renderer/internal/tga"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	modelPath := flag.String("model", "", "Model to render (.obj, .gltf, .glb)")
	texPath := flag.String("texture", "", "Texture for textured mode (default: the model's diffuse map)")
	texDir := flag.String("texdir", "", "Directory searched for textures by name")
	output := flag.String("o", "", "Output image (.tga, .png, .webp; default: output.tga)")
	depthOut := flag.String("depth", "", "Also write the depth buffer to this image")
	outputDir := flag.String("outdir", "", "Output directory for batch jobs (default: renders)")
	jobsFile := flag.String("jobs", "", "JSON list of jobs to render in batch")
	mode := flag.String("mode", "", "wireframe, flat, gouraud or textured (default: flat)")
	format := flag.String("format", "", "gray, rgb or rgba (default: rgb)")
	color := flag.String("color", "", "Draw colour: preset name or #rrggbb[aa] (default: white)")
	width := flag.Int("width", 0, "Image width (default: 800)")
	height := flag.Int("height", 0, "Image height (default: width)")
	supersample := flag.Int("ss", 0, "Supersample factor (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	perspective := flag.Bool("perspective", false, "Perspective projection")
	antialias := flag.Bool("aa", false, "Anti-aliased wireframe lines")
	normalize := flag.Bool("normalize", false, "Centre the model and scale it to fill the view")
	rle := flag.Bool("rle", false, "RLE-compress TGA output")
	verbose := flag.Bool("v", false, "Debug logging to stderr")

	flag.Parse()

	if *verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Model:       *modelPath,
		Texture:     *texPath,
		TextureDir:  *texDir,
		Output:      *output,
		DepthOut:    *depthOut,
		OutputDir:   *outputDir,
		Jobs:        *jobsFile,
		Mode:        *mode,
		Format:      *format,
		Color:       *color,
		Width:       *width,
		Height:      *height,
		Supersample: *supersample,
		Workers:     *workers,
		Perspective: *perspective,
		Antialias:   *antialias,
		Normalize:   *normalize,
		RLE:         *rle,
	})

	opts, err := cfg.RenderOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Build texture index
	var texIndex *texture.Index
	if cfg.TextureDir != "" {
		texIndex = texture.BuildIndex(cfg.TextureDir)
		fmt.Printf("Textures: %d indexed\n", texIndex.Len())
	}
	texCache := texture.NewCache(texIndex)

	switch {
	case cfg.Jobs != "":
		runBatch(cfg, opts, texCache)
	case cfg.Model != "":
		runSingle(cfg, opts, texCache)
	default:
		fmt.Fprintln(os.Stderr, "Error: nothing to render. Use -model, -jobs or config.json.")
		flag.Usage()
		os.Exit(1)
	}
}

func runSingle(cfg config.Config, opts render.Options, textures *texture.Cache) {
	m, err := model.Load(cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}
	if err := m.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if cfg.Normalize {
		m.Normalize()
	}
	fmt.Printf("Model: %s (%d vertices, %d faces)\n", cfg.Model, m.NVerts(), m.NFaces())

	var tex *tga.Image
	if opts.Mode == render.Textured {
		name := cfg.Texture
		if name == "" {
			name = m.DiffuseMap()
		}
		if tex = textures.Resolve(name); tex == nil {
			fmt.Fprintf(os.Stderr, "Error: texture not found: %q\n", name)
			os.Exit(1)
		}
		fmt.Printf("Texture: %s (%dx%d %v)\n", name, tex.Width(), tex.Height(), tex.Format())
	}

	start := time.Now()
	res, err := render.Render(m, tex, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	img := res.Image
	if cfg.Despeckle > 0 {
		img = postprocess.Despeckle(img, cfg.Despeckle)
	}
	if cfg.FillRatio > 0 {
		img = postprocess.Fit(img, cfg.FillRatio)
	}
	if err := export.Save(cfg.Output, img, export.Options{RLE: cfg.RLE}); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing image: %v\n", err)
		os.Exit(1)
	}
	if cfg.DepthOut != "" {
		if err := export.Save(cfg.DepthOut, res.Depth, export.Options{RLE: cfg.RLE}); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing depth: %v\n", err)
			os.Exit(1)
		}
	}

	st := res.Stats
	fmt.Printf("Rendered %s in %v: %d drawn, %d culled, %d skipped\n",
		cfg.Output, time.Since(start).Round(time.Millisecond), st.Drawn, st.Culled, st.Skipped)
}

func runBatch(cfg config.Config, opts render.Options, textures *texture.Cache) {
	jobs, err := batch.LoadJobs(cfg.Jobs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading jobs: %v\n", err)
		os.Exit(1)
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs to render.")
		os.Exit(0)
	}

	fmt.Printf("Mesh renderer → %s (%s)\n", cfg.OutputDir, opts.Mode)
	fmt.Printf("Jobs: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir: cfg.OutputDir,
		Options:   opts,
		Textures:  textures,
		Normalize: cfg.Normalize,
		FillRatio: cfg.FillRatio,
		Despeckle: cfg.Despeckle,
		RLE:       cfg.RLE,
		Workers:   cfg.Workers,
		Progress:  os.Stdout,
	}, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failed), len(jobs))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, e := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
