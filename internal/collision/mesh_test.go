package collision

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bakeQuad bakes a flat two-triangle floor quad at y=0, normals up.
func bakeQuad(t *testing.T, half float32) ([]byte, *Mesh) {
	t.Helper()
	verts := []rl.Vector3{
		{X: -half, Z: -half},
		{X: half, Z: -half},
		{X: half, Z: half},
		{X: -half, Z: half},
	}
	indices := []int16{0, 2, 1, 0, 3, 2}
	blob, err := BakeMesh(verts, indices)
	require.NoError(t, err)
	mesh, err := LoadMeshChecked(blob)
	require.NoError(t, err)
	return blob, mesh
}

// bakeGridMesh bakes a grid terrain with deterministic per-vertex heights.
func bakeGridMesh(t *testing.T, segments int, extent float32) *Mesh {
	t.Helper()
	grid := segments + 1
	verts := make([]rl.Vector3, 0, grid*grid)
	for z := 0; z < grid; z++ {
		for x := 0; x < grid; x++ {
			verts = append(verts, rl.Vector3{
				X: float32(x)/float32(segments)*extent*2 - extent,
				Y: float32((x*7+z*13)%5) * 0.5,
				Z: float32(z)/float32(segments)*extent*2 - extent,
			})
		}
	}
	indices := make([]int16, 0, segments*segments*6)
	for z := 0; z < segments; z++ {
		for x := 0; x < segments; x++ {
			i0 := int16(z*grid + x)
			i1 := i0 + 1
			i2 := i0 + int16(grid)
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}
	blob, err := BakeMesh(verts, indices)
	require.NoError(t, err)
	mesh, err := LoadMeshChecked(blob)
	require.NoError(t, err)
	return mesh
}

func TestLoadBakedQuad(t *testing.T) {
	_, mesh := bakeQuad(t, 4)

	assert.EqualValues(t, 2, mesh.TriCount)
	assert.EqualValues(t, 4, mesh.VertCount)
	require.Len(t, mesh.Indices, 6)
	require.Len(t, mesh.Normals, 2)
	require.Len(t, mesh.Verts, 4)

	for i := int32(0); i < mesh.TriCount; i++ {
		assert.InDelta(t, 1, mesh.Normals[i].Y, 1e-5)
	}

	// triangles reference the vertex array, not copies
	tri := mesh.Triangle(0)
	assert.Same(t, &mesh.Verts[mesh.Indices[0]], tri.V0)

	lo, hi := mesh.Bounds()
	assert.LessOrEqual(t, lo.X, float32(-4))
	assert.LessOrEqual(t, lo.Z, float32(-4))
	assert.GreaterOrEqual(t, hi.X, float32(4))
	assert.GreaterOrEqual(t, hi.Z, float32(4))
}

func TestLoadMeshMatchesChecked(t *testing.T) {
	blob, checked := bakeQuad(t, 4)

	mesh := LoadMesh(blob)
	assert.Equal(t, checked.TriCount, mesh.TriCount)
	assert.Equal(t, checked.VertCount, mesh.VertCount)
	assert.Equal(t, checked.Indices, mesh.Indices)
	assert.Equal(t, checked.BVH.Nodes, mesh.BVH.Nodes)
	assert.Equal(t, checked.BVH.Data, mesh.BVH.Data)
}

func TestLoadMeshCheckedTruncated(t *testing.T) {
	blob, _ := bakeQuad(t, 4)

	for _, cut := range []int{0, 2, 5, len(blob) / 2, len(blob) - 1} {
		_, err := LoadMeshChecked(blob[:cut])
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestLoadMeshCheckedBadIndex(t *testing.T) {
	blob, _ := bakeQuad(t, 4)

	// first index entry sits right after the header
	corrupt := append([]byte(nil), blob...)
	corrupt[meshHeaderSize] = 0xFF
	corrupt[meshHeaderSize+1] = 0x7F

	_, err := LoadMeshChecked(corrupt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestBakeRejectsBadInput(t *testing.T) {
	verts := []rl.Vector3{{}, {X: 1}, {Z: 1}}

	_, err := BakeMesh(verts, []int16{0, 1})
	assert.Error(t, err)

	_, err = BakeMesh(verts, nil)
	assert.Error(t, err)

	_, err = BakeMesh(verts, []int16{0, 1, 3})
	assert.Error(t, err)
}

func TestBakeCoversEveryTriangleOnce(t *testing.T) {
	mesh := bakeGridMesh(t, 8, 10)
	require.Greater(t, int(mesh.TriCount), maxLeafTris) // forces internal nodes

	seen := make(map[int16]int)
	for _, d := range mesh.BVH.Data {
		seen[d]++
	}
	require.Len(t, seen, int(mesh.TriCount))
	for tri, n := range seen {
		assert.Equal(t, 1, n, "triangle %d", tri)
	}
}

func TestBakeRootBoundsEnvelopeMesh(t *testing.T) {
	mesh := bakeGridMesh(t, 8, 10)

	lo, hi := mesh.Bounds()
	for _, v := range mesh.Verts {
		assert.LessOrEqual(t, lo.X, v.X)
		assert.LessOrEqual(t, lo.Y, v.Y)
		assert.LessOrEqual(t, lo.Z, v.Z)
		assert.GreaterOrEqual(t, hi.X, v.X)
		assert.GreaterOrEqual(t, hi.Y, v.Y)
		assert.GreaterOrEqual(t, hi.Z, v.Z)
	}
}

func TestMeshInstanceLocalRoundTrip(t *testing.T) {
	_, mesh := bakeQuad(t, 4)
	obj := newMeshObject(t, rl.Vector3{X: 3, Y: 1, Z: -2})
	obj.Transform.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 0.7)

	mi := NewMeshInstance(mesh, obj)
	p := rl.Vector3{X: 1.5, Y: 2, Z: 0.5}
	back := mi.OutOfLocal(mi.IntoLocal(p))
	assert.InDelta(t, p.X, back.X, 1e-4)
	assert.InDelta(t, p.Y, back.Y, 1e-4)
	assert.InDelta(t, p.Z, back.Z, 1e-4)
}
