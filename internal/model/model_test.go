package model

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"mesh-tga-renderer/internal/mathutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const quadOBJ = `# a unit quad
mtllib quad.mtl
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1 0
vt 0 1
vn 0 0 1
usemtl skin
f 1/1/1 2/2/1 3/3/1 4/4/1
`

const quadMTL = `newmtl skin
Kd 1 1 1
map_Kd -s 1 1 1 textures/skin.tga
`

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quad.obj", quadOBJ)
	os.MkdirAll(filepath.Join(dir, "textures"), 0755)
	writeFile(t, dir, "quad.mtl", quadMTL)

	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.NVerts() != 4 || m.NFaces() != 2 {
		t.Fatalf("want 4 verts and 2 faces, got %d and %d", m.NVerts(), m.NFaces())
	}
	if !m.HasTexCoords() || !m.HasNormals() {
		t.Error("texture coordinates and normals were not loaded")
	}
	if err := m.Validate(); err != nil {
		t.Error(err)
	}

	// the quad is fanned around its first corner
	want := []Face{
		{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}},
		{{0, 0, 0}, {2, 2, 0}, {3, 3, 0}},
	}
	for i, f := range want {
		if got := m.Face(i); got != f {
			t.Errorf("face %d: want %v, got %v", i, f, got)
		}
	}
	if got := m.TexCoord(2); got != (mathutil.Vec2{1, 1}) {
		t.Errorf("three-component vt: got %v", got)
	}
	if got, want := m.DiffuseMap(), filepath.Join(dir, "textures", "skin.tga"); got != want {
		t.Errorf("diffuse map: want %q, got %q", want, got)
	}
}

func TestOBJFaceForms(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1 2 3
f 1//1 2//1 3//1
f -3 -2 -1
`
	m, err := LoadOBJ(writeFile(t, t.TempDir(), "forms.obj", src))
	if err != nil {
		t.Fatal(err)
	}
	if m.NFaces() != 3 {
		t.Fatalf("want 3 faces, got %d", m.NFaces())
	}
	if got, want := m.Face(0)[1], (FaceVertex{1, -1, -1}); got != want {
		t.Errorf("plain index: want %v, got %v", want, got)
	}
	if got, want := m.Face(1)[2], (FaceVertex{2, -1, 0}); got != want {
		t.Errorf("v//vn: want %v, got %v", want, got)
	}
	if got, want := m.Face(2), m.Face(0); got != want {
		t.Errorf("relative indices: want %v, got %v", want, got)
	}
	if m.HasTexCoords() {
		t.Error("no vt lines, yet HasTexCoords is true")
	}
	if m.DiffuseMap() != "" {
		t.Errorf("no material, got diffuse %q", m.DiffuseMap())
	}
}

func TestOBJErrors(t *testing.T) {
	tests := map[string]string{
		"short vertex":   "v 1 2\n",
		"bad number":     "v 1 x 3\n",
		"two-gon":        "v 0 0 0\nv 1 1 1\nf 1 2\n",
		"zero index":     "v 0 0 0\nf 0 1 1\n",
		"relative range": "v 0 0 0\nf -1 -2 -3\n",
		"no position":    "v 0 0 0\nvt 0 0\nf /1 /1 /1\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadOBJ(writeFile(t, t.TempDir(), "bad.obj", src))
			if err == nil {
				t.Fatal("want an error")
			}
			if !strings.Contains(err.Error(), "line ") {
				t.Errorf("error does not name the line: %v", err)
			}
		})
	}
}

func TestOBJMissingMaterialLibrary(t *testing.T) {
	src := "mtllib nowhere.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	m, err := LoadOBJ(writeFile(t, t.TempDir(), "m.obj", src))
	if err != nil {
		t.Fatal(err)
	}
	if m.DiffuseMap() != "" {
		t.Errorf("got diffuse %q", m.DiffuseMap())
	}
}

func TestValidateReportsBadIndex(t *testing.T) {
	// forward references parse but do not resolve
	src := "v 0 0 0\nv 1 0 0\nf 1 2 7\n"
	m, err := LoadOBJ(writeFile(t, t.TempDir(), "m.obj", src))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err == nil {
		t.Error("Validate accepted a face pointing past the vertex list")
	}
	if got := m.Vert(6); got != (mathutil.Vec3{}) {
		t.Errorf("out-of-range vertex: want zero, got %v", got)
	}
	if got := m.Face(99); got != noFace {
		t.Errorf("out-of-range face: got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	src := "v 10 0 0\nv 14 2 0\nv 10 2 1\nf 1 2 3\n"
	m, err := LoadOBJ(writeFile(t, t.TempDir(), "m.obj", src))
	if err != nil {
		t.Fatal(err)
	}
	m.Normalize()

	lo, hi := m.Bounds()
	if lo[0] != -1 || hi[0] != 1 {
		t.Errorf("largest extent should span [-1,1], got %v..%v", lo, hi)
	}
	if math.Abs(lo[1]+hi[1]) > 1e-12 {
		t.Errorf("not centred on y: %v..%v", lo, hi)
	}
}

func TestLoadDispatch(t *testing.T) {
	_, err := Load("mesh.fbx")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
	_, err = Load(filepath.Join(t.TempDir(), "missing.OBJ"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("want a not-exist error for .OBJ, got %v", err)
	}
}

// gltfTriangle builds a one-triangle document with an embedded buffer and a
// node translated one unit along x.
func gltfTriangle() string {
	var buf bytes.Buffer
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	uvs := [][2]float32{{0, 0}, {1, 0}, {0, 0.25}}
	binary.Write(&buf, binary.LittleEndian, positions)
	binary.Write(&buf, binary.LittleEndian, uvs)
	data := base64.StdEncoding.EncodeToString(buf.Bytes())

	return fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"mesh": 0, "translation": [1, 0, 0]}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0, "TEXCOORD_0": 1}, "material": 0}]}],
  "materials": [{"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}}],
  "textures": [{"source": 0}],
  "images": [{"uri": "diffuse.png"}],
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 24}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC2"}
  ]
}`, buf.Len(), data)
}

func TestLoadGLTF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tri.gltf", gltfTriangle())

	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.NVerts() != 3 || m.NFaces() != 1 {
		t.Fatalf("want 3 verts and 1 face, got %d and %d", m.NVerts(), m.NFaces())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if got, want := m.Vert(1), (mathutil.Vec3{2, 0, 0}); got != want {
		t.Errorf("node translation not applied: want %v, got %v", want, got)
	}
	if m.HasNormals() {
		t.Error("the document has no normals")
	}
	f := m.Face(0)
	if f[2].VN != -1 || f[2].VT != 2 {
		t.Errorf("face corner: got %+v", f[2])
	}
	if got, want := m.TexCoord(2), (mathutil.Vec2{0, 0.75}); got != want {
		t.Errorf("v must be flipped: want %v, got %v", want, got)
	}
	if got, want := m.DiffuseMap(), filepath.Join(dir, "diffuse.png"); got != want {
		t.Errorf("diffuse: want %q, got %q", want, got)
	}
}

func TestLocalTransformOrder(t *testing.T) {
	// scale first, then rotate 90° about z, then translate
	q := mathutil.Quat{0, 0, math.Sin(math.Pi / 4), math.Cos(math.Pi / 4)}
	m := localTransform(&gltf.Node{
		Translation: [3]float64{0, 0, 5},
		Rotation:    [4]float64(q),
		Scale:       [3]float64{2, 2, 2},
	})

	got := m.MulPoint(mathutil.Vec3{1, 0, 0})
	want := mathutil.Vec3{0, 2, 5}
	for k := range got {
		if math.Abs(got[k]-want[k]) > 1e-9 {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestGLTFAccessorOutOfRange(t *testing.T) {
	five := 5
	tests := map[string]*gltf.Primitive{
		"position": {Attributes: map[string]int{"POSITION": 3}},
		"normal":   {Attributes: map[string]int{"POSITION": 0, "NORMAL": 9}},
		"texcoord": {Attributes: map[string]int{"POSITION": 0, "TEXCOORD_0": -1}},
		"indices":  {Attributes: map[string]int{"POSITION": 0}, Indices: &five},
	}
	for name, prim := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := gltf.Open(writeFile(t, t.TempDir(), "tri.gltf", gltfTriangle()))
			if err != nil {
				t.Fatal(err)
			}
			l := gltfLoader{doc: doc, m: &Model{}}
			err = l.primitive(prim, mathutil.Mat4Identity())
			if err == nil || !strings.Contains(err.Error(), "out of range") {
				t.Errorf("want an out-of-range error, got %v", err)
			}
		})
	}
}
