package collision

import (
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ncsound919/pyrite64/internal/engine"
)

// Mesh blob layout (little-endian, 4-byte aligned between sections):
//
//	u16 triCount, u16 vertCount
//	int16  indices  [triCount*3]
//	f32x3  normals  [triCount]     (align 4)
//	f32x3  verts    [vertCount]    (align 4)
//	u16 nodeCount, u16 dataCount   (align 4)
//	node   nodes    [nodeCount]    (packed value + int16 AABB, 16 bytes)
//	int16  data     [dataCount]
const meshHeaderSize = 4

const bvhNodeSize = int(unsafe.Sizeof(bvhNodeRaw{}))

// Triangle references three vertex positions of its mesh plus the normal
// precomputed at bake time. Normals are never derived at runtime.
type Triangle struct {
	V0, V1, V2 *rl.Vector3
	Normal     rl.Vector3
}

// Mesh is a loaded collision mesh: typed views into one contiguous blob,
// plus the decoded geometry index. Immutable after load.
type Mesh struct {
	TriCount  int32
	VertCount int32
	Indices   []int16
	Normals   []rl.Vector3
	Verts     []rl.Vector3
	BVH       BVH

	raw []byte // keeps the blob alive; all slices above point into it
}

func align4(off int) int {
	return (off + 3) &^ 3
}

// LoadMesh reinterprets a baked blob in place. It trusts the asset pipeline
// completely: no bounds or consistency checks happen here (the hot runtime
// path stays validation-free), a corrupt blob means undefined traversal.
// The blob must be 4-byte aligned and outlive the mesh.
func LoadMesh(raw []byte) *Mesh {
	m := &Mesh{raw: raw}

	m.TriCount = int32(*(*uint16)(unsafe.Pointer(&raw[0])))
	m.VertCount = int32(*(*uint16)(unsafe.Pointer(&raw[2])))

	off := meshHeaderSize
	m.Indices = unsafe.Slice((*int16)(unsafe.Pointer(&raw[off])), m.TriCount*3)

	off = align4(off + int(m.TriCount)*3*2)
	m.Normals = unsafe.Slice((*rl.Vector3)(unsafe.Pointer(&raw[off])), m.TriCount)

	off = align4(off + int(m.TriCount)*12)
	m.Verts = unsafe.Slice((*rl.Vector3)(unsafe.Pointer(&raw[off])), m.VertCount)

	off = align4(off + int(m.VertCount)*12)
	nodeCount := int32(*(*uint16)(unsafe.Pointer(&raw[off])))
	dataCount := int32(*(*uint16)(unsafe.Pointer(&raw[off+2])))
	off += 4

	rawNodes := unsafe.Slice((*bvhNodeRaw)(unsafe.Pointer(&raw[off])), nodeCount)
	m.BVH.Nodes = make([]BVHNode, nodeCount)
	for i := range rawNodes {
		m.BVH.Nodes[i] = decodeNode(rawNodes[i], int32(i))
	}

	off += int(nodeCount) * bvhNodeSize
	m.BVH.Data = unsafe.Slice((*int16)(unsafe.Pointer(&raw[off])), dataCount)

	return m
}

// LoadMeshChecked is the validating variant for tools and tests. It walks
// the same layout but verifies every section length and index range before
// trusting it. Game code loads with LoadMesh.
func LoadMeshChecked(raw []byte) (*Mesh, error) {
	if len(raw) < meshHeaderSize {
		return nil, fmt.Errorf("collision mesh blob too short: %d bytes", len(raw))
	}
	triCount := int(*(*uint16)(unsafe.Pointer(&raw[0])))
	vertCount := int(*(*uint16)(unsafe.Pointer(&raw[2])))

	off := meshHeaderSize
	need := func(section string, bytes int) error {
		if off+bytes > len(raw) {
			return fmt.Errorf("collision mesh blob truncated in %s section: need %d bytes at offset %d, have %d",
				section, bytes, off, len(raw))
		}
		return nil
	}

	if err := need("index", triCount*3*2); err != nil {
		return nil, err
	}
	off = align4(off + triCount*3*2)
	if err := need("normal", triCount*12); err != nil {
		return nil, err
	}
	off = align4(off + triCount*12)
	if err := need("vertex", vertCount*12); err != nil {
		return nil, err
	}
	off = align4(off + vertCount*12)
	if err := need("bvh header", 4); err != nil {
		return nil, err
	}
	nodeCount := int(*(*uint16)(unsafe.Pointer(&raw[off])))
	dataCount := int(*(*uint16)(unsafe.Pointer(&raw[off+2])))
	off += 4
	if err := need("bvh node", nodeCount*bvhNodeSize); err != nil {
		return nil, err
	}
	off += nodeCount * bvhNodeSize
	if err := need("bvh data", dataCount*2); err != nil {
		return nil, err
	}

	m := LoadMesh(raw)

	for i := range m.Indices {
		if idx := int(m.Indices[i]); idx < 0 || idx >= vertCount {
			return nil, fmt.Errorf("triangle index %d out of range: vertex %d of %d", i, idx, vertCount)
		}
	}
	for i, n := range m.BVH.Nodes {
		if n.Count == 0 {
			if n.Offset < 0 || n.Offset+1 >= int32(nodeCount) {
				return nil, fmt.Errorf("bvh node %d: child index %d out of range (%d nodes)", i, n.Offset, nodeCount)
			}
			if n.Offset <= int32(i) {
				return nil, fmt.Errorf("bvh node %d: child index %d not past parent", i, n.Offset)
			}
		} else {
			if n.Offset < 0 || n.Offset+n.Count > int32(dataCount) {
				return nil, fmt.Errorf("bvh node %d: leaf data [%d,%d) out of range (%d entries)",
					i, n.Offset, n.Offset+n.Count, dataCount)
			}
		}
	}
	for i, d := range m.BVH.Data {
		if int(d) < 0 || int(d) >= triCount {
			return nil, fmt.Errorf("bvh data %d: triangle %d out of range (%d triangles)", i, d, triCount)
		}
	}
	return m, nil
}

// Triangle assembles the i-th triangle as references into the vertex array.
func (m *Mesh) Triangle(i int32) Triangle {
	return Triangle{
		V0:     &m.Verts[m.Indices[i*3+0]],
		V1:     &m.Verts[m.Indices[i*3+1]],
		V2:     &m.Verts[m.Indices[i*3+2]],
		Normal: m.Normals[i],
	}
}

// Bounds returns the root node's box in mesh-local float coordinates.
func (m *Mesh) Bounds() (min, max rl.Vector3) {
	if len(m.BVH.Nodes) == 0 {
		return
	}
	root := &m.BVH.Nodes[0]
	min = rl.Vector3{X: float32(root.Min[0]), Y: float32(root.Min[1]), Z: float32(root.Min[2])}
	max = rl.Vector3{X: float32(root.Max[0]), Y: float32(root.Max[1]), Z: float32(root.Max[2])}
	return
}

// MeshInstance places a mesh resource in the world via its owning object's
// transform. Instances register with the scene on creation and deregister
// on destruction; the mesh itself stays in local space and queries are
// transformed into it.
type MeshInstance struct {
	Mesh   *Mesh
	Object *engine.Object
}

func NewMeshInstance(mesh *Mesh, obj *engine.Object) *MeshInstance {
	return &MeshInstance{Mesh: mesh, Object: obj}
}

// IntoLocal converts a world-space point into mesh-local space.
func (mi *MeshInstance) IntoLocal(p rl.Vector3) rl.Vector3 {
	return mi.Object.Transform.PointToLocal(p)
}

// OutOfLocal converts a mesh-local point into world space.
func (mi *MeshInstance) OutOfLocal(p rl.Vector3) rl.Vector3 {
	return mi.Object.Transform.PointToWorld(p)
}
