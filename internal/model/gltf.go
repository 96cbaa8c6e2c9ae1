package model

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"mesh-tga-renderer/internal/mathutil"
)

// LoadGLTF reads a .gltf or .glb file and flattens every triangle primitive
// reachable from the default scene into one Model, with node transforms
// applied. Texture v coordinates are flipped to the OBJ convention (v=0 at
// the bottom). The diffuse map is the first external base-colour image.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}

	l := gltfLoader{doc: doc, dir: filepath.Dir(path), m: &Model{}}
	for _, root := range l.roots() {
		if err := l.node(root, mathutil.Mat4Identity(), 0); err != nil {
			return nil, fmt.Errorf("model: load %s: %w", path, err)
		}
	}
	return l.m, nil
}

type gltfLoader struct {
	doc *gltf.Document
	dir string
	m   *Model
}

// roots returns the default scene's nodes, or every parentless node when the
// document names no scene.
func (l *gltfLoader) roots() []int {
	if l.doc.Scene != nil && *l.doc.Scene < len(l.doc.Scenes) {
		return l.doc.Scenes[*l.doc.Scene].Nodes
	}
	hasParent := make([]bool, len(l.doc.Nodes))
	for _, n := range l.doc.Nodes {
		for _, c := range n.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range l.doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// maxDepth stops malformed documents whose node graph has cycles.
const maxDepth = 64

func (l *gltfLoader) node(idx int, parent mathutil.Mat4, depth int) error {
	if idx < 0 || idx >= len(l.doc.Nodes) {
		return fmt.Errorf("node %d out of range", idx)
	}
	if depth > maxDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxDepth)
	}
	n := l.doc.Nodes[idx]
	world := mathutil.Mat4Mul(parent, localTransform(n))

	if n.Mesh != nil && *n.Mesh < len(l.doc.Meshes) {
		mesh := l.doc.Meshes[*n.Mesh]
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := l.primitive(prim, world); err != nil {
				return fmt.Errorf("mesh %d prim %d: %w", *n.Mesh, pi, err)
			}
		}
	}
	for _, c := range n.Children {
		if err := l.node(c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// localTransform is the node matrix if one is given, else T·R·S.
func localTransform(n *gltf.Node) mathutil.Mat4 {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		// glTF matrices are column-major
		var out mathutil.Mat4
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				out[r*4+c] = m[c*4+r]
			}
		}
		return out
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault() // x, y, z, w
	s := n.ScaleOrDefault()
	rot := mathutil.QuatToMat3(mathutil.Quat{r[0], r[1], r[2], r[3]})
	linear := mathutil.Mat3Mul(rot, mathutil.Mat3Diag(s[0], s[1], s[2]))
	return mathutil.FromMat3Translation(linear, mathutil.Vec3{t[0], t[1], t[2]})
}

func (l *gltfLoader) primitive(prim *gltf.Primitive, world mathutil.Mat4) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	acr, err := l.accessor(posIdx)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(l.doc, acr, nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		acr, err := l.accessor(idx)
		if err == nil {
			normals, err = modeler.ReadNormal(l.doc, acr, nil)
		}
		if err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		acr, err := l.accessor(idx)
		if err == nil {
			uvs, err = modeler.ReadTextureCoord(l.doc, acr, nil)
		}
		if err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := l.accessor(*prim.Indices)
		if err == nil {
			indices, err = modeler.ReadIndices(l.doc, acr, nil)
		}
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	vBase, tBase, nBase := len(l.m.verts), len(l.m.uvs), len(l.m.normals)
	for _, p := range positions {
		v := mathutil.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
		l.m.verts = append(l.m.verts, world.MulPoint(v))
	}
	hasNormals := len(normals) == len(positions)
	if hasNormals {
		nm := mathutil.NormalMatrix(world)
		for _, n := range normals {
			v := mathutil.Vec3{float64(n[0]), float64(n[1]), float64(n[2])}
			l.m.normals = append(l.m.normals, nm.MulVec3(v).Normalize())
		}
	}
	hasUVs := len(uvs) == len(positions)
	if hasUVs {
		for _, uv := range uvs {
			l.m.uvs = append(l.m.uvs, mathutil.Vec2{float64(uv[0]), 1 - float64(uv[1])})
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		var f Face
		for k := 0; k < 3; k++ {
			idx := int(indices[i+k])
			fv := FaceVertex{V: vBase + idx, VT: -1, VN: -1}
			if hasUVs {
				fv.VT = tBase + idx
			}
			if hasNormals {
				fv.VN = nBase + idx
			}
			f[k] = fv
		}
		l.m.faces = append(l.m.faces, f)
	}

	if l.m.diffuse == "" && prim.Material != nil {
		l.m.diffuse = l.baseColorImage(*prim.Material)
	}
	return nil
}

func (l *gltfLoader) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(l.doc.Accessors) || l.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", idx, len(l.doc.Accessors))
	}
	return l.doc.Accessors[idx], nil
}

// baseColorImage returns the file path behind a material's base-colour
// texture, or "" when it is missing or embedded.
func (l *gltfLoader) baseColorImage(matIdx int) string {
	if matIdx >= len(l.doc.Materials) {
		return ""
	}
	pbr := l.doc.Materials[matIdx].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return ""
	}
	ti := pbr.BaseColorTexture.Index
	if ti >= len(l.doc.Textures) || l.doc.Textures[ti].Source == nil {
		return ""
	}
	src := *l.doc.Textures[ti].Source
	if src >= len(l.doc.Images) {
		return ""
	}
	img := l.doc.Images[src]
	if img.URI == "" || img.IsEmbeddedResource() {
		return ""
	}
	return filepath.Join(l.dir, filepath.FromSlash(img.URI))
}
