package collision

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Scene coordinates the per-frame collision step: it owns the registered
// static mesh instances and dynamic shapes, queries each mesh's geometry
// index for candidates, runs the narrow phase and applies the corrections.
// Everything runs on the simulation thread, once per frame.
type Scene struct {
	meshes   []*MeshInstance
	byObject map[uint16]*MeshInstance
	shapes   []*Shape

	// profiling counters, read by the debug overlay
	Ticks        time.Duration
	TicksBVH     time.Duration
	RaycastCount uint64
}

func NewScene() *Scene {
	return &Scene{byObject: make(map[uint16]*MeshInstance)}
}

func (s *Scene) RegisterMesh(mi *MeshInstance) {
	s.meshes = append(s.meshes, mi)
	s.byObject[mi.Object.ID] = mi
}

func (s *Scene) UnregisterMesh(mi *MeshInstance) {
	for i, m := range s.meshes {
		if m == mi {
			s.meshes = append(s.meshes[:i], s.meshes[i+1:]...)
			break
		}
	}
	delete(s.byObject, mi.Object.ID)
}

func (s *Scene) RegisterShape(shape *Shape) {
	s.shapes = append(s.shapes, shape)
}

func (s *Scene) UnregisterShape(shape *Shape) {
	for i, sh := range s.shapes {
		if sh == shape {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			return
		}
	}
}

// MeshInstanceByObject resolves a registered instance by its owning
// object's id. Returns nil for unknown or stale ids.
func (s *Scene) MeshInstanceByObject(id uint16) *MeshInstance {
	return s.byObject[id]
}

func (s *Scene) Shapes() []*Shape {
	return s.shapes
}

// Update advances every shape by its velocity and resolves it against all
// registered static geometry. Shapes are independent: order between them
// does not matter and no shape-vs-shape coupling happens here.
func (s *Scene) Update(deltaTime float32) {
	start := time.Now()
	for _, shape := range s.shapes {
		s.resolveShape(shape, deltaTime)
	}
	s.Ticks += time.Since(start)
}

// localBounds transforms a world-space box into mesh-local space by taking
// the extremes of its eight corners, so instance rotation can only widen
// the query, never miss.
func localBounds(mi *MeshInstance, min, max rl.Vector3) (rl.Vector3, rl.Vector3) {
	first := mi.IntoLocal(min)
	lo, hi := first, first
	for i := 1; i < 8; i++ {
		corner := rl.Vector3{X: min.X, Y: min.Y, Z: min.Z}
		if i&1 != 0 {
			corner.X = max.X
		}
		if i&2 != 0 {
			corner.Y = max.Y
		}
		if i&4 != 0 {
			corner.Z = max.Z
		}
		p := mi.IntoLocal(corner)
		lo = rl.Vector3{X: min32(lo.X, p.X), Y: min32(lo.Y, p.Y), Z: min32(lo.Z, p.Z)}
		hi = rl.Vector3{X: max32(hi.X, p.X), Y: max32(hi.Y, p.Y), Z: max32(hi.Z, p.Z)}
	}
	return lo, hi
}

func (s *Scene) resolveShape(shape *Shape, deltaTime float32) {
	qmin, qmax := shape.sweptBounds(deltaTime)
	shape.Center = rl.Vector3Add(shape.Center, rl.Vector3Scale(shape.Velocity, deltaTime))

	shape.LastContact = CollInfo{}

	var res QueryResult
	for _, mi := range s.meshes {
		lmin, lmax := localBounds(mi, qmin, qmax)

		bvhStart := time.Now()
		mi.Mesh.BVH.QueryBox(lmin, lmax, &res)
		s.TicksBVH += time.Since(bvhStart)

		scale := mi.Object.Transform.Scale
		for i := int32(0); i < res.Count; i++ {
			localCenter := mi.IntoLocal(shape.Center)

			var info CollInfo
			if shape.Kind == ShapeSphere {
				info = mi.Mesh.VsSphere(localCenter, shape.Radius/scale.X, int32(res.TriIndex[i]))
			} else {
				he := rl.Vector3{
					X: shape.HalfExtents.X / scale.X,
					Y: shape.HalfExtents.Y / scale.Y,
					Z: shape.HalfExtents.Z / scale.Z,
				}
				info = mi.Mesh.VsBox(localCenter, he, int32(res.TriIndex[i]))
			}
			if info.Count == 0 {
				continue
			}

			// contacts resolve sequentially so a shared edge between two
			// triangles does not push twice
			worldPen := mi.Object.Transform.VectorToWorld(info.Penetration)
			shape.Center = rl.Vector3Subtract(shape.Center, worldPen)

			shape.LastContact.Count += info.Count
			shape.LastContact.Penetration = rl.Vector3Subtract(shape.LastContact.Penetration, worldPen)
			shape.LastContact.FloorWallAngle = mi.Object.Transform.NormalToWorld(info.FloorWallAngle)
		}
	}
}

// RaycastFloor finds the highest floor at or below pos across all
// registered geometry. Instances are walked in registration order and
// ties keep the earlier hit, so overlapping meshes resolve
// deterministically. The zero result means nothing is below.
func (s *Scene) RaycastFloor(pos rl.Vector3) RaycastResult {
	s.RaycastCount++

	var best RaycastResult
	var bestY float32
	found := false

	var res QueryResult
	for _, mi := range s.meshes {
		local := mi.IntoLocal(pos)

		bvhStart := time.Now()
		mi.Mesh.BVH.QueryFloor(local, &res)
		s.TicksBVH += time.Since(bvhStart)

		for i := int32(0); i < res.Count; i++ {
			hit, ok := mi.Mesh.VsFloorRay(local, int32(res.TriIndex[i]))
			if !ok {
				continue
			}
			world := mi.OutOfLocal(hit.HitPos)
			if world.Y > pos.Y {
				continue
			}
			if !found || world.Y > bestY {
				found = true
				bestY = world.Y
				best = RaycastResult{
					HitPos: world,
					Normal: mi.Object.Transform.NormalToWorld(hit.Normal),
				}
			}
		}
	}
	return best
}
