package collision

import (
	"encoding/binary"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// The real collision blobs come out of the offline asset pipeline; this
// baker produces the same wire format for tests, tools and demo scenes,
// and doubles as executable documentation of the layout.

// maxLeafTris is bounded by the 4-bit leaf count in the packed node value.
const maxLeafTris = 4

// the packed relative offset is 12 bits signed
const (
	minPackedOffset = -2048
	maxPackedOffset = 2047
)

type bakeNode struct {
	min, max [3]int16
	offset   int32 // relative child offset, or absolute data offset
	count    int32
}

type bakeContext struct {
	verts    []rl.Vector3
	indices  []int16
	centroid []rl.Vector3
	nodes    []bakeNode
	data     []int16
}

func (b *bakeContext) triBounds(tris []int16) (lo, hi rl.Vector3) {
	lo = rl.Vector3{X: math.MaxFloat32, Y: math.MaxFloat32, Z: math.MaxFloat32}
	hi = rl.Vector3{X: -math.MaxFloat32, Y: -math.MaxFloat32, Z: -math.MaxFloat32}
	for _, t := range tris {
		for c := 0; c < 3; c++ {
			v := b.verts[b.indices[int(t)*3+c]]
			lo = rl.Vector3{X: min32(lo.X, v.X), Y: min32(lo.Y, v.Y), Z: min32(lo.Z, v.Z)}
			hi = rl.Vector3{X: max32(hi.X, v.X), Y: max32(hi.Y, v.Y), Z: max32(hi.Z, v.Z)}
		}
	}
	return
}

func axisValue(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// partition splits tris around the mean centroid on the given axis,
// falling back to a halfway split when all centroids coincide.
func (b *bakeContext) partition(tris []int16, axis int) int {
	var center float32
	for _, t := range tris {
		center += axisValue(b.centroid[t], axis)
	}
	center /= float32(len(tris))

	left, right := 0, len(tris)-1
	for left <= right {
		if axisValue(b.centroid[tris[left]], axis) < center {
			left++
		} else {
			tris[left], tris[right] = tris[right], tris[left]
			right--
		}
	}
	if left == 0 || left == len(tris) {
		left = len(tris) / 2
	}
	return left
}

// build appends the subtree for tris and returns its root node index.
// Children of one node are always adjacent, matching the wire contract
// (right child at left+1).
func (b *bakeContext) build(tris []int16) int32 {
	self := int32(len(b.nodes))
	b.nodes = append(b.nodes, bakeNode{})

	lo, hi := b.triBounds(tris)
	n := &b.nodes[self]
	n.min = [3]int16{snapDown(lo.X), snapDown(lo.Y), snapDown(lo.Z)}
	n.max = [3]int16{snapUp(hi.X), snapUp(hi.Y), snapUp(hi.Z)}

	if len(tris) <= maxLeafTris {
		n.offset = int32(len(b.data))
		n.count = int32(len(tris))
		b.data = append(b.data, tris...)
		return self
	}

	size := rl.Vector3Subtract(hi, lo)
	axis := 0
	if size.Y > size.X {
		axis = 1
	}
	if size.Z > axisValue(size, axis) {
		axis = 2
	}
	mid := b.partition(tris, axis)

	left := b.build(tris[:mid])
	right := b.build(tris[mid:])
	if right != left+1 {
		// the recursion lays children out depth-first; the left subtree
		// owns every index between the two, so this cannot happen unless
		// the builder itself regresses
		panic("bake: sibling nodes not adjacent")
	}
	b.nodes[self].offset = left - self
	b.nodes[self].count = 0
	return self
}

func packNodeValue(n bakeNode) (int32, error) {
	if n.offset < minPackedOffset || n.offset > maxPackedOffset {
		return 0, fmt.Errorf("bvh offset %d outside packed 12-bit range", n.offset)
	}
	if n.count < 0 || n.count > 15 {
		return 0, fmt.Errorf("bvh leaf count %d outside packed 4-bit range", n.count)
	}
	v16 := int16(n.offset)<<4 | int16(n.count)
	return int32(v16), nil
}

// BakeMesh builds a collision mesh blob from indexed triangle geometry.
// Normals are computed here, at bake time. The returned blob is ready for
// LoadMesh; keep it alive as long as the mesh.
func BakeMesh(verts []rl.Vector3, indices []int16) ([]byte, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	triCount := len(indices) / 3
	if triCount == 0 || triCount > math.MaxUint16 {
		return nil, fmt.Errorf("unsupported triangle count %d", triCount)
	}
	if len(verts) > math.MaxInt16 {
		return nil, fmt.Errorf("unsupported vertex count %d", len(verts))
	}
	for i, idx := range indices {
		if int(idx) < 0 || int(idx) >= len(verts) {
			return nil, fmt.Errorf("index %d references vertex %d of %d", i, idx, len(verts))
		}
	}

	normals := make([]rl.Vector3, triCount)
	ctx := bakeContext{
		verts:    verts,
		indices:  indices,
		centroid: make([]rl.Vector3, triCount),
	}
	for i := 0; i < triCount; i++ {
		v0 := verts[indices[i*3+0]]
		v1 := verts[indices[i*3+1]]
		v2 := verts[indices[i*3+2]]
		normals[i] = rl.Vector3Normalize(rl.Vector3CrossProduct(
			rl.Vector3Subtract(v1, v0), rl.Vector3Subtract(v2, v0)))
		ctx.centroid[i] = rl.Vector3Scale(rl.Vector3Add(rl.Vector3Add(v0, v1), v2), 1.0/3.0)
	}

	order := make([]int16, triCount)
	for i := range order {
		order[i] = int16(i)
	}
	ctx.build(order)

	if len(ctx.data) > maxPackedOffset+1 {
		return nil, fmt.Errorf("bvh data array too large to address: %d entries", len(ctx.data))
	}

	// serialize; sections 4-byte aligned like the asset pipeline output
	size := meshHeaderSize
	size = align4(size + triCount*3*2)
	size = align4(size + triCount*12)
	size = align4(size + len(verts)*12)
	size += 4 + len(ctx.nodes)*bvhNodeSize + len(ctx.data)*2

	blob := make([]byte, align4(size))
	le := binary.LittleEndian

	le.PutUint16(blob[0:], uint16(triCount))
	le.PutUint16(blob[2:], uint16(len(verts)))

	off := meshHeaderSize
	for _, idx := range indices {
		le.PutUint16(blob[off:], uint16(idx))
		off += 2
	}
	off = align4(off)
	putVec3 := func(v rl.Vector3) {
		le.PutUint32(blob[off:], math.Float32bits(v.X))
		le.PutUint32(blob[off+4:], math.Float32bits(v.Y))
		le.PutUint32(blob[off+8:], math.Float32bits(v.Z))
		off += 12
	}
	for _, n := range normals {
		putVec3(n)
	}
	off = align4(off)
	for _, v := range verts {
		putVec3(v)
	}
	off = align4(off)

	le.PutUint16(blob[off:], uint16(len(ctx.nodes)))
	le.PutUint16(blob[off+2:], uint16(len(ctx.data)))
	off += 4
	for _, n := range ctx.nodes {
		value, err := packNodeValue(n)
		if err != nil {
			return nil, err
		}
		le.PutUint32(blob[off:], uint32(value))
		for c := 0; c < 3; c++ {
			le.PutUint16(blob[off+4+c*2:], uint16(n.min[c]))
		}
		for c := 0; c < 3; c++ {
			le.PutUint16(blob[off+10+c*2:], uint16(n.max[c]))
		}
		off += bvhNodeSize
	}
	for _, d := range ctx.data {
		le.PutUint16(blob[off:], uint16(d))
		off += 2
	}

	return blob, nil
}
