// Package collision implements the static-geometry collision core: a flat
// BVH over baked triangle meshes, the per-triangle narrow phase for dynamic
// sphere/box shapes, the per-frame scene coordinator and the moving-platform
// attachment tracker.
package collision

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxQueryResults is the fixed capacity of a query's result buffer. It is
// shared by the index and every caller; overflowing queries truncate.
const MaxQueryResults = 32

// QueryResult is a caller-supplied, fixed-capacity triangle index buffer.
// Truncated is set when matching triangles were dropped for lack of room.
type QueryResult struct {
	TriIndex  [MaxQueryResults]int16
	Count     int32
	Truncated bool
}

func (r *QueryResult) reset() {
	r.Count = 0
	r.Truncated = false
}

// bvhNodeRaw is the wire form of one node: a packed value (signed relative
// offset << 4, leaf count in the low 4 bits) and a quantized AABB. 16 bytes.
type bvhNodeRaw struct {
	Value int32
	Min   [3]int16
	Max   [3]int16
}

// BVHNode is the decoded in-memory node. Leaf nodes (Count > 0) reference
// Count entries of the data array starting at Offset; internal nodes
// (Count == 0) have children at absolute indices Offset and Offset+1.
type BVHNode struct {
	Min    [3]int16
	Max    [3]int16
	Offset int32
	Count  int32
}

// BVH is the immutable spatial index over a mesh's triangle bounding boxes.
// The packed relative offsets of the wire format are resolved to absolute
// indices once at load time, so traversal never re-derives the branch/leaf
// tag or the node's position in memory.
type BVH struct {
	Nodes []BVHNode
	Data  []int16
}

// decodeNode unpacks a wire node at the given index into the explicit form.
// The offset field is 16-bit on the wire, sign must survive the shift.
func decodeNode(raw bvhNodeRaw, selfIndex int32) BVHNode {
	count := raw.Value & 0b1111
	offset := int32(int16(raw.Value)) >> 4
	n := BVHNode{Min: raw.Min, Max: raw.Max, Count: count}
	if count == 0 {
		n.Offset = selfIndex + offset
	} else {
		n.Offset = offset
	}
	return n
}

// quantized query bounds. Snapping is outward (floor for min, ceil for max)
// so the int16 grid can only widen a query, never lose candidates.
type queryBounds struct {
	min [3]int16
	max [3]int16
}

func snapDown(v float32) int16 {
	f := math32.Floor(v)
	if f < -32768 {
		return -32768
	}
	if f > 32767 {
		return 32767
	}
	return int16(f)
}

func snapUp(v float32) int16 {
	c := math32.Ceil(v)
	if c < -32768 {
		return -32768
	}
	if c > 32767 {
		return 32767
	}
	return int16(c)
}

func makeQueryBounds(min, max rl.Vector3) queryBounds {
	return queryBounds{
		min: [3]int16{snapDown(min.X), snapDown(min.Y), snapDown(min.Z)},
		max: [3]int16{snapUp(max.X), snapUp(max.Y), snapUp(max.Z)},
	}
}

// queryContext carries one traversal's state explicitly through the
// recursion, so queries are re-entrant and never share hidden state.
type queryContext struct {
	nodes []BVHNode
	data  []int16
	box   queryBounds
	res   *QueryResult
}

func (c *queryContext) pushLeaf(n *BVHNode) {
	end := n.Offset + n.Count
	for i := n.Offset; i < end; i++ {
		if c.res.Count >= MaxQueryResults {
			c.res.Truncated = true
			return
		}
		c.res.TriIndex[c.res.Count] = c.data[i]
		c.res.Count++
	}
}

func (c *queryContext) queryNodeBox(idx int32) {
	n := &c.nodes[idx]
	for axis := 0; axis < 3; axis++ {
		if n.Min[axis] > c.box.max[axis] || n.Max[axis] < c.box.min[axis] {
			return
		}
	}
	if n.Count == 0 {
		c.queryNodeBox(n.Offset)
		c.queryNodeBox(n.Offset + 1)
		return
	}
	c.pushLeaf(n)
}

// queryNodeFloor culls against the node's horizontal (x,z) extent only,
// ignoring height: anything under the column is a candidate floor.
func (c *queryContext) queryNodeFloor(idx int32) {
	n := &c.nodes[idx]
	if n.Min[0] > c.box.max[0] || n.Max[0] < c.box.min[0] ||
		n.Min[2] > c.box.max[2] || n.Max[2] < c.box.min[2] {
		return
	}
	if n.Count == 0 {
		c.queryNodeFloor(n.Offset)
		c.queryNodeFloor(n.Offset + 1)
		return
	}
	c.pushLeaf(n)
}

// QueryBox collects triangle indices whose leaf bounds overlap the given
// box, depth-first from the root, into res. Allocation-free; once res is
// full remaining candidates are dropped and res.Truncated is set.
func (b *BVH) QueryBox(min, max rl.Vector3, res *QueryResult) {
	res.reset()
	if len(b.Nodes) == 0 {
		return
	}
	ctx := queryContext{nodes: b.Nodes, data: b.Data, box: makeQueryBounds(min, max), res: res}
	ctx.queryNodeBox(0)
}

// QueryFloor collects triangles whose leaf bounds contain the (x,z) column
// of pos, used to find candidate floors below a point.
func (b *BVH) QueryFloor(pos rl.Vector3, res *QueryResult) {
	res.reset()
	if len(b.Nodes) == 0 {
		return
	}
	ctx := queryContext{nodes: b.Nodes, data: b.Data, box: makeQueryBounds(pos, pos), res: res}
	ctx.queryNodeFloor(0)
}
