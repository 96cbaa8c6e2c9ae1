package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mesh-tga-renderer/internal/mathutil"
)

// LoadOBJ reads a Wavefront OBJ file. Supported statements are v, vt, vn,
// f, mtllib and usemtl; everything else is skipped. A missing material
// library is not an error.
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: read %s: %w", path, err)
	}
	defer f.Close()

	p := objParser{m: &Model{}}
	if err := p.parse(f); err != nil {
		return nil, fmt.Errorf("model: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	materials := map[string]string{}
	for _, lib := range p.mtllibs {
		mats, err := readMTL(filepath.Join(dir, lib))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for name, tex := range mats {
			materials[name] = tex
		}
	}
	if tex := pickDiffuse(materials, p.usemtl); tex != "" {
		p.m.diffuse = filepath.Join(dir, tex)
	}
	return p.m, nil
}

// pickDiffuse returns the map_Kd of the first material a face used, or the
// map_Kd of the library's single material if faces never selected one.
func pickDiffuse(materials map[string]string, used []string) string {
	for _, name := range used {
		if tex := materials[name]; tex != "" {
			return tex
		}
	}
	if len(used) == 0 && len(materials) == 1 {
		for _, tex := range materials {
			return tex
		}
	}
	return ""
}

type objParser struct {
	m       *Model
	line    int
	mtllibs []string
	usemtl  []string
}

func (p *objParser) parse(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		var err error
		switch fields[0] {
		case "v":
			var v mathutil.Vec3
			if v, err = parseVec3(fields[1:]); err == nil {
				p.m.verts = append(p.m.verts, v)
			}
		case "vn":
			var v mathutil.Vec3
			if v, err = parseVec3(fields[1:]); err == nil {
				p.m.normals = append(p.m.normals, v)
			}
		case "vt":
			var uv mathutil.Vec2
			if uv, err = parseVec2(fields[1:]); err == nil {
				p.m.uvs = append(p.m.uvs, uv)
			}
		case "f":
			err = p.face(fields[1:])
		case "mtllib":
			p.mtllibs = append(p.mtllibs, fields[1:]...)
		case "usemtl":
			if len(fields) > 1 {
				p.usemtl = append(p.usemtl, fields[1])
			}
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	return sc.Err()
}

// face fans an n-gon into n-2 triangles around its first corner.
func (p *objParser) face(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face has %d vertices, need at least 3", len(fields))
	}
	corners := make([]FaceVertex, len(fields))
	for i, s := range fields {
		fv, err := p.corner(s)
		if err != nil {
			return err
		}
		corners[i] = fv
	}
	for i := 1; i+1 < len(corners); i++ {
		p.m.faces = append(p.m.faces, Face{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

// corner parses v, v/vt, v//vn or v/vt/vn.
func (p *objParser) corner(s string) (FaceVertex, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return FaceVertex{}, fmt.Errorf("bad face vertex %q", s)
	}
	fv := FaceVertex{V: -1, VT: -1, VN: -1}
	var err error
	if fv.V, err = resolveIndex(parts[0], len(p.m.verts)); err != nil {
		return fv, err
	}
	if fv.V < 0 {
		return fv, fmt.Errorf("face vertex %q has no position", s)
	}
	if len(parts) > 1 {
		if fv.VT, err = resolveIndex(parts[1], len(p.m.uvs)); err != nil {
			return fv, err
		}
	}
	if len(parts) > 2 {
		if fv.VN, err = resolveIndex(parts[2], len(p.m.normals)); err != nil {
			return fv, err
		}
	}
	return fv, nil
}

// resolveIndex turns a 1-based or negative (relative) OBJ index into a
// 0-based one. An empty field resolves to -1.
func resolveIndex(s string, n int) (int, error) {
	if s == "" {
		return -1, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("bad index %q", s)
	}
	switch {
	case i > 0:
		return i - 1, nil
	case i < 0 && n+i >= 0:
		return n + i, nil
	case i < 0:
		return -1, fmt.Errorf("relative index %d reaches before the first element", i)
	default:
		return -1, fmt.Errorf("index 0 is not valid")
	}
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", fields[i])
		}
		out[i] = f
	}
	return out, nil
}

func parseVec3(fields []string) (mathutil.Vec3, error) {
	f, err := parseFloats(fields, 3)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	return mathutil.Vec3{f[0], f[1], f[2]}, nil
}

// parseVec2 reads u and v; a third component is ignored.
func parseVec2(fields []string) (mathutil.Vec2, error) {
	f, err := parseFloats(fields, 2)
	if err != nil {
		return mathutil.Vec2{}, err
	}
	return mathutil.Vec2{f[0], f[1]}, nil
}

// readMTL returns the map_Kd path of every material in a library.
func readMTL(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: read %s: %w", path, err)
	}
	defer f.Close()

	mats := map[string]string{}
	current := ""
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			current = fields[1]
			mats[current] = ""
		case "map_Kd":
			// options such as -s or -o come first; the file name is last
			mats[current] = filepath.FromSlash(strings.ReplaceAll(fields[len(fields)-1], "\\", "/"))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("model: parse %s: %w", path, err)
	}
	return mats, nil
}
