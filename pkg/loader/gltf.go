package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/philipparndt/goview/pkg/geometry"
	"github.com/philipparndt/goview/pkg/mesh"
)

// LoadGLTF reads a .gltf or .glb file. Node transforms are baked into the
// vertices and only triangle primitives are kept.
func LoadGLTF(path string) (*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF: %w", err)
	}

	m, err := FromDocument(doc)
	if err != nil {
		return nil, err
	}
	m.Source = path
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// FromDocument flattens the default scene of doc into a mesh. Documents
// without scenes fall back to every node that is nobody's child.
func FromDocument(doc *gltf.Document) (*mesh.Mesh, error) {
	m := mesh.New("")

	for _, root := range rootNodes(doc) {
		if err := addNode(doc, m, root, identity(), 0); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func rootNodes(doc *gltf.Document) []uint32 {
	if len(doc.Scenes) > 0 {
		scene := 0
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			scene = int(*doc.Scene)
		}
		return doc.Scenes[scene].Nodes
	}

	child := make(map[uint32]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

// maxDepth guards against cyclic node graphs in malformed files
const maxDepth = 64

func addNode(doc *gltf.Document, m *mesh.Mesh, index uint32, parent transform, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("node hierarchy deeper than %d levels", maxDepth)
	}
	if int(index) >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", index)
	}

	node := doc.Nodes[index]
	world := parent.mul(nodeTransform(node))

	if node.Mesh != nil {
		if int(*node.Mesh) >= len(doc.Meshes) {
			return fmt.Errorf("node %d references missing mesh %d", index, *node.Mesh)
		}
		gm := doc.Meshes[*node.Mesh]
		if m.Name == "" {
			m.Name = gm.Name
		}
		for i, prim := range gm.Primitives {
			if err := addPrimitive(doc, m, prim, world); err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", gm.Name, i, err)
			}
		}
	}

	for _, c := range node.Children {
		if err := addNode(doc, m, c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func addPrimitive(doc *gltf.Document, m *mesh.Mesh, prim *gltf.Primitive, world transform) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil
	}

	posIndex, ok := prim.Attributes[gltf.POSITION]
	if !ok || int(posIndex) >= len(doc.Accessors) {
		return nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], nil)
	if err != nil {
		return fmt.Errorf("failed to read positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		if int(*prim.Indices) >= len(doc.Accessors) {
			return fmt.Errorf("missing index accessor %d", *prim.Indices)
		}
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	vertex := func(i uint32) (geometry.Vector3, error) {
		if int(i) >= len(positions) {
			return geometry.Vector3{}, fmt.Errorf("index %d out of range", i)
		}
		p := positions[i]
		return world.apply(geometry.NewVector3(float64(p[0]), float64(p[1]), float64(p[2]))), nil
	}

	for i := 0; i+2 < len(indices); i += 3 {
		v1, err := vertex(indices[i])
		if err != nil {
			return err
		}
		v2, err := vertex(indices[i+1])
		if err != nil {
			return err
		}
		v3, err := vertex(indices[i+2])
		if err != nil {
			return err
		}
		m.AddTriangle(geometry.TriangleFromVertices(v1, v2, v3))
	}
	return nil
}
