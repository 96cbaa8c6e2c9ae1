package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mesh-tga-renderer/internal/mathutil"
	"mesh-tga-renderer/internal/model"
	"mesh-tga-renderer/internal/postprocess"
	"mesh-tga-renderer/internal/raster"
	"mesh-tga-renderer/internal/tga"
)

var (
	// ErrOptions marks an Options value Render cannot work with.
	ErrOptions = errors.New("render: invalid options")
	// ErrNoTexture is returned in textured mode when the texture or the
	// mesh's texture coordinates are missing.
	ErrNoTexture = errors.New("render: textured mode needs a texture and texture coordinates")
)

// Mode selects how faces are drawn.
type Mode string

const (
	// Wireframe outlines every face with Options.Color; no depth test.
	Wireframe Mode = "wireframe"
	// Flat fills faces with Options.Color scaled by one Lambert factor per
	// face. Faces turned away from the light are culled.
	Flat Mode = "flat"
	// Gouraud lights every pixel from interpolated vertex normals. Meshes
	// without normals fall back to the face normal.
	Gouraud Mode = "gouraud"
	// Textured samples the texture at interpolated coordinates, lit like
	// Gouraud when the mesh has normals and like Flat otherwise.
	Textured Mode = "textured"
)

// Modes lists every mode in documentation order.
var Modes = []Mode{Wireframe, Flat, Gouraud, Textured}

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(s))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrOptions, s)
}

// Mesh is the read side of model.Model that Render needs.
type Mesh interface {
	NVerts() int
	NFaces() int
	Vert(i int) mathutil.Vec3
	TexCoord(i int) mathutil.Vec2
	Normal(i int) mathutil.Vec3
	Face(i int) model.Face
	HasTexCoords() bool
	HasNormals() bool
}

// depthRange is the span of the depth axis after the viewport transform.
const depthRange = 255

// Options configures one render.
type Options struct {
	Width, Height int
	Mode          Mode
	// Light is the direction light travels, in world space.
	Light mathutil.Vec3

	// Rotate turns the model by Euler angles in degrees (Rz·Ry·Rx) before
	// it is viewed.
	Rotate mathutil.Vec3

	Eye, Center, Up mathutil.Vec3
	// Perspective divides by 1 - z/|Eye-Center|; otherwise the projection
	// is orthographic.
	Perspective bool
	// Antialias applies to wireframe lines.
	Antialias bool

	Color      tga.Color
	Background tga.Color
	Format     tga.Format
	// Supersample renders at N times the size and filters down. 0 means 1.
	Supersample int
}

// DefaultOptions is an 800×800 flat-shaded orthographic view down -z.
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      800,
		Mode:        Flat,
		Light:       raster.DefaultLight,
		Eye:         mathutil.Vec3{0, 0, 3},
		Center:      mathutil.Vec3{0, 0, 0},
		Up:          mathutil.Vec3{0, 1, 0},
		Color:       tga.White,
		Format:      tga.RGB,
		Supersample: 1,
	}
}

func (o Options) scale() int {
	return max(o.Supersample, 1)
}

func (o Options) validate() error {
	ss := o.scale()
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrOptions, o.Width, o.Height)
	case o.Supersample < 0:
		return fmt.Errorf("%w: supersample %d", ErrOptions, o.Supersample)
	case o.Width*ss > 0xffff || o.Height*ss > 0xffff:
		return fmt.Errorf("%w: %dx%d at supersample %d exceeds 65535", ErrOptions, o.Width, o.Height, ss)
	case !o.Format.Valid():
		return fmt.Errorf("%w: format %v", ErrOptions, o.Format)
	case o.Eye == o.Center:
		return fmt.Errorf("%w: eye and center coincide", ErrOptions)
	}
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	return nil
}

// Stats counts what happened to the mesh's faces.
type Stats struct {
	Faces   int // faces visited
	Drawn   int // faces handed to the rasterizer
	Culled  int // faces turned away from the light
	Skipped int // faces with indices outside the mesh
	Pixels  int // pixels written by filled faces
}

// Result is a finished render. Image and Depth have row 0 at the top.
type Result struct {
	Image *tga.Image
	// Depth visualizes the depth buffer as grayscale; 0 where nothing was
	// drawn, brighter is nearer.
	Depth *tga.Image
	Stats Stats
}

// Render draws m into a new image. tex is only used in Textured mode; it is
// treated as read-only, so one texture may be shared between concurrent
// renders. Each call allocates its own image and depth buffer.
func Render(m Mesh, tex *tga.Image, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Mode == Textured && (tex == nil || !m.HasTexCoords()) {
		return nil, ErrNoTexture
	}

	start := time.Now()
	ss := opts.scale()
	w, h := opts.Width*ss, opts.Height*ss

	img := tga.New(w, h, opts.Format)
	if opts.Background != (tga.Color{}) {
		img.Fill(opts.Background)
	}
	zbuf := raster.NewDepthBuffer(w, h)

	p := newPipeline(opts, w, h)
	if opts.Mode == Textured {
		// texture rows run top-down; v=0 is the bottom of the picture
		p.tex = tex.Clone()
		p.tex.FlipVertically()
	}

	var st Stats
	for i := 0; i < m.NFaces(); i++ {
		st.Faces++
		f := m.Face(i)
		if !faceInRange(m, f) {
			st.Skipped++
			continue
		}

		var world, screen [3]mathutil.Vec3
		for k, fv := range f {
			world[k] = p.rot.MulVec3(m.Vert(fv.V))
			screen[k] = p.toScreen(world[k])
		}

		if opts.Mode == Wireframe {
			raster.DrawWireTriangle(screen[0].XY(), screen[1].XY(), screen[2].XY(), img, opts.Color, opts.Antialias)
			st.Drawn++
			continue
		}

		verts, sh, ok := p.shade(m, f, world, screen)
		if !ok {
			st.Culled++
			continue
		}
		n, err := raster.DrawTriangle(verts[0], verts[1], verts[2], img, zbuf, sh)
		if err != nil {
			return nil, fmt.Errorf("render: face %d: %w", i, err)
		}
		st.Drawn++
		st.Pixels += n
	}

	depth := zbuf.Visualize()
	if ss > 1 {
		img = postprocess.Downsample(img, opts.Width, opts.Height)
		depth = postprocess.Nearest(depth, opts.Width, opts.Height)
	}
	img.FlipVertically()
	depth.FlipVertically()

	Logger().Debug("render: pass",
		"mode", opts.Mode,
		"size", fmt.Sprintf("%dx%d", w, h),
		"faces", st.Faces,
		"drawn", st.Drawn,
		"culled", st.Culled,
		"skipped", st.Skipped,
		"pixels", st.Pixels,
		"elapsed", time.Since(start))

	return &Result{Image: img, Depth: depth, Stats: st}, nil
}

func faceInRange(m Mesh, f model.Face) bool {
	for _, fv := range f {
		if fv.V < 0 || fv.V >= m.NVerts() {
			return false
		}
	}
	return true
}

// pipeline holds the per-render transforms and shading inputs.
type pipeline struct {
	opts     Options
	rot      mathutil.Mat3
	viewProj mathutil.Mat4
	viewport mathutil.Mat4
	tex      *tga.Image
}

func newPipeline(opts Options, w, h int) *pipeline {
	coeff := 0.0
	if opts.Perspective {
		coeff = -1 / opts.Eye.Sub(opts.Center).Len()
	}
	view := mathutil.LookAt(opts.Eye, opts.Center, opts.Up)
	return &pipeline{
		opts:     opts,
		rot:      mathutil.Euler(opts.Rotate[0], opts.Rotate[1], opts.Rotate[2]),
		viewProj: mathutil.Mat4Mul(mathutil.Projection(coeff), view),
		viewport: mathutil.Viewport(0, 0, float64(w), float64(h), depthRange),
	}
}

// toScreen maps a world-space point to pixel x, y and depth.
func (p *pipeline) toScreen(v mathutil.Vec3) mathutil.Vec3 {
	return p.viewport.MulPoint(p.viewProj.Project(v))
}

// shade builds the rasterizer input for one face. ok is false when the
// face is culled.
func (p *pipeline) shade(m Mesh, f model.Face, world, screen [3]mathutil.Vec3) (verts [3]raster.Vertex, sh raster.Shading, ok bool) {
	for k := range verts {
		verts[k].Pos = screen[k]
	}
	sh.Base = p.opts.Color

	perPixel := p.opts.Mode == Gouraud || (p.opts.Mode == Textured && m.HasNormals())
	if perPixel {
		faceN := raster.FaceNormal(world[0], world[1], world[2])
		for k, fv := range f {
			verts[k].Normal = faceN
			if n := m.Normal(fv.VN); fv.VN >= 0 && n != (mathutil.Vec3{}) {
				verts[k].Normal = p.rot.MulVec3(n)
			}
		}
		sh.UseNormals = true
		sh.Light = p.opts.Light
	} else {
		intensity := raster.FaceIntensity(world[0], world[1], world[2], p.opts.Light)
		if !(intensity > 0) {
			return verts, sh, false
		}
		sh.Intensity = intensity
	}

	if p.opts.Mode == Textured {
		for k, fv := range f {
			if fv.VT >= 0 {
				verts[k].UV = m.TexCoord(fv.VT)
			}
		}
		sh.UseTexture = true
		sh.Texture = p.tex
	}
	return verts, sh, true
}
