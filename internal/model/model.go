package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mesh-tga-renderer/internal/mathutil"
)

// ErrUnsupported is returned by Load for file extensions it cannot read.
var ErrUnsupported = errors.New("model: unsupported file type")

// FaceVertex indexes one corner of a face. VT and VN are -1 when the
// corner carries no texture coordinate or normal.
type FaceVertex struct {
	V, VT, VN int
}

// Face is a triangle. Polygons are fanned into triangles while loading.
type Face [3]FaceVertex

var noFace = Face{{-1, -1, -1}, {-1, -1, -1}, {-1, -1, -1}}

// Model is an indexed triangle mesh with optional texture coordinates and
// normals. All accessors are total: an index out of range yields the zero
// value, and Validate reports such indices up front.
type Model struct {
	verts   []mathutil.Vec3
	uvs     []mathutil.Vec2
	normals []mathutil.Vec3
	faces   []Face

	diffuse string
}

// Load reads a mesh, choosing the parser by file extension.
func Load(path string) (*Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

func (m *Model) NVerts() int { return len(m.verts) }
func (m *Model) NFaces() int { return len(m.faces) }

func (m *Model) HasTexCoords() bool { return len(m.uvs) > 0 }
func (m *Model) HasNormals() bool   { return len(m.normals) > 0 }

// DiffuseMap is the path of the diffuse texture named by the source file,
// or "" if there is none.
func (m *Model) DiffuseMap() string { return m.diffuse }

func (m *Model) Vert(i int) mathutil.Vec3 {
	if i < 0 || i >= len(m.verts) {
		return mathutil.Vec3{}
	}
	return m.verts[i]
}

func (m *Model) TexCoord(i int) mathutil.Vec2 {
	if i < 0 || i >= len(m.uvs) {
		return mathutil.Vec2{}
	}
	return m.uvs[i]
}

func (m *Model) Normal(i int) mathutil.Vec3 {
	if i < 0 || i >= len(m.normals) {
		return mathutil.Vec3{}
	}
	return m.normals[i]
}

func (m *Model) Face(i int) Face {
	if i < 0 || i >= len(m.faces) {
		return noFace
	}
	return m.faces[i]
}

// Bounds returns the axis-aligned box around all vertices.
func (m *Model) Bounds() (lo, hi mathutil.Vec3) {
	if len(m.verts) == 0 {
		return
	}
	lo, hi = m.verts[0], m.verts[0]
	for _, v := range m.verts[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	return lo, hi
}

// Validate checks that every face index resolves.
func (m *Model) Validate() error {
	for i, f := range m.faces {
		for _, fv := range f {
			if fv.V < 0 || fv.V >= len(m.verts) {
				return fmt.Errorf("model: face %d: vertex index %d out of range [0,%d)", i, fv.V, len(m.verts))
			}
			if fv.VT >= len(m.uvs) {
				return fmt.Errorf("model: face %d: texcoord index %d out of range [0,%d)", i, fv.VT, len(m.uvs))
			}
			if fv.VN >= len(m.normals) {
				return fmt.Errorf("model: face %d: normal index %d out of range [0,%d)", i, fv.VN, len(m.normals))
			}
		}
	}
	return nil
}

// Normalize translates and uniformly scales the mesh so that it is centred
// on the origin and its largest extent spans [-1,1].
func (m *Model) Normalize() {
	lo, hi := m.Bounds()
	center := lo.Add(hi).Scale(0.5)
	ext := hi.Sub(lo)
	size := max(ext[0], ext[1], ext[2])
	if size == 0 {
		return
	}
	s := 2 / size
	for i, v := range m.verts {
		m.verts[i] = v.Sub(center).Scale(s)
	}
}
