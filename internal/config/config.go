package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"mesh-tga-renderer/internal/mathutil"
	"mesh-tga-renderer/internal/render"
	"mesh-tga-renderer/internal/tga"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths. Relative paths are resolved against BaseDir, which defaults
	// to the directory of the config file.
	BaseDir    string `json:"base_dir"`
	Model      string `json:"model"`
	Texture    string `json:"texture"`
	TextureDir string `json:"texture_dir"`
	Output     string `json:"output"`
	DepthOut   string `json:"depth_output"`
	OutputDir  string `json:"output_dir"`
	Jobs       string `json:"jobs"`

	// Render settings
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Mode        string      `json:"mode"`
	Format      string      `json:"format"`
	Color       string      `json:"color"`
	Background  string      `json:"background"`
	Light       *[3]float64 `json:"light"`
	Eye         *[3]float64 `json:"eye"`
	Center      *[3]float64 `json:"center"`
	Up          *[3]float64 `json:"up"`
	Rotate      *[3]float64 `json:"rotate"`
	Perspective bool        `json:"perspective"`
	Antialias   bool        `json:"antialias"`
	Supersample int         `json:"supersample"`
	Normalize   bool        `json:"normalize"`
	FillRatio   float64     `json:"fill_ratio"`
	Despeckle   float64     `json:"despeckle"`
	RLE         bool        `json:"rle"`
	Workers     int         `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	} else if !filepath.IsAbs(cfg.BaseDir) {
		cfg.BaseDir = filepath.Join(filepath.Dir(path), cfg.BaseDir)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the file's setting alone.
type Flags struct {
	Model       string
	Texture     string
	TextureDir  string
	Output      string
	DepthOut    string
	OutputDir   string
	Jobs        string
	Mode        string
	Format      string
	Color       string
	Width       int
	Height      int
	Supersample int
	Workers     int
	Perspective bool
	Antialias   bool
	Normalize   bool
	RLE         bool
}

// Resolve applies flag overrides, resolves relative paths and fills in
// defaults for anything still unset.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	override(&c.Model, flags.Model)
	override(&c.Texture, flags.Texture)
	override(&c.TextureDir, flags.TextureDir)
	override(&c.Output, flags.Output)
	override(&c.DepthOut, flags.DepthOut)
	override(&c.OutputDir, flags.OutputDir)
	override(&c.Jobs, flags.Jobs)
	override(&c.Mode, flags.Mode)
	override(&c.Format, flags.Format)
	override(&c.Color, flags.Color)
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	c.Perspective = c.Perspective || flags.Perspective
	c.Antialias = c.Antialias || flags.Antialias
	c.Normalize = c.Normalize || flags.Normalize
	c.RLE = c.RLE || flags.RLE

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		for _, p := range []*string{&c.Model, &c.Texture, &c.TextureDir, &c.Output, &c.DepthOut, &c.OutputDir, &c.Jobs} {
			if *p != "" && !filepath.IsAbs(*p) {
				*p = filepath.Join(c.BaseDir, *p)
			}
		}
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = c.Width
	}
	if c.Mode == "" {
		c.Mode = string(render.Flat)
	}
	if c.Format == "" {
		c.Format = "rgb"
	}
	if c.Color == "" {
		c.Color = "white"
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Output == "" {
		c.Output = "output.tga"
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// RenderOptions converts the resolved settings into render.Options.
func (c *Config) RenderOptions() (render.Options, error) {
	opts := render.DefaultOptions()
	opts.Width, opts.Height = c.Width, c.Height
	opts.Perspective = c.Perspective
	opts.Antialias = c.Antialias
	opts.Supersample = c.Supersample

	var err error
	if opts.Mode, err = render.ParseMode(c.Mode); err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}
	if opts.Format, err = ParseFormat(c.Format); err != nil {
		return opts, err
	}
	if opts.Color, err = ParseColor(c.Color); err != nil {
		return opts, err
	}
	if c.Background != "" {
		if opts.Background, err = ParseColor(c.Background); err != nil {
			return opts, err
		}
	}
	setVec(&opts.Light, c.Light)
	setVec(&opts.Eye, c.Eye)
	setVec(&opts.Center, c.Center)
	setVec(&opts.Up, c.Up)
	setVec(&opts.Rotate, c.Rotate)
	return opts, nil
}

func setVec(dst *mathutil.Vec3, v *[3]float64) {
	if v != nil {
		*dst = mathutil.Vec3(*v)
	}
}

// ParseFormat accepts "gray", "grayscale", "rgb" or "rgba".
func ParseFormat(s string) (tga.Format, error) {
	switch strings.ToLower(s) {
	case "gray", "grayscale":
		return tga.Grayscale, nil
	case "rgb":
		return tga.RGB, nil
	case "rgba":
		return tga.RGBA, nil
	}
	return 0, fmt.Errorf("config: unknown pixel format %q", s)
}

// ParseColor accepts a preset name such as "red" or a hex value written as
// #rrggbb or #rrggbbaa.
func ParseColor(s string) (tga.Color, error) {
	if c, ok := tga.Named(s); ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return tga.Color{}, fmt.Errorf("config: unknown color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tga.Color{}, fmt.Errorf("config: bad color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return tga.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
