package collision

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ncsound919/pyrite64/internal/engine"
)

type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
)

// Shape is a dynamic bounding collision shape (BCS), owned by exactly one
// object. The scene resolves shapes against static meshes only; shapes
// never interact with each other inside the coordinator.
type Shape struct {
	Kind        ShapeKind
	Center      rl.Vector3
	Radius      float32    // sphere only
	HalfExtents rl.Vector3 // box only
	Velocity    rl.Vector3
	Owner       *engine.Object

	// Contact state of the last resolved frame, for callers doing
	// floor/wall classification.
	LastContact CollInfo
}

func NewSphereShape(owner *engine.Object, radius float32) *Shape {
	return &Shape{
		Kind:   ShapeSphere,
		Center: owner.Transform.Position,
		Radius: radius,
		Owner:  owner,
	}
}

func NewBoxShape(owner *engine.Object, halfExtents rl.Vector3) *Shape {
	return &Shape{
		Kind:        ShapeBox,
		Center:      owner.Transform.Position,
		HalfExtents: halfExtents,
		Owner:       owner,
	}
}

// extents is the half-size of the shape's bounding box.
func (s *Shape) extents() rl.Vector3 {
	if s.Kind == ShapeSphere {
		return rl.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	}
	return s.HalfExtents
}

// sweptBounds is the shape's bounding box expanded to cover its motion over
// the frame, in world space.
func (s *Shape) sweptBounds(deltaTime float32) (min, max rl.Vector3) {
	ext := s.extents()
	next := rl.Vector3Add(s.Center, rl.Vector3Scale(s.Velocity, deltaTime))
	lo := rl.Vector3{
		X: min32(s.Center.X, next.X), Y: min32(s.Center.Y, next.Y), Z: min32(s.Center.Z, next.Z),
	}
	hi := rl.Vector3{
		X: max32(s.Center.X, next.X), Y: max32(s.Center.Y, next.Y), Z: max32(s.Center.Z, next.Z),
	}
	return rl.Vector3Subtract(lo, ext), rl.Vector3Add(hi, ext)
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
