package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Transform holds an object's placement as quaternion + position + scale.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
}

func NewTransform() Transform {
	return Transform{
		Rotation: rl.QuaternionIdentity(),
		Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
	}
}

// PointToWorld converts a local-space point into world space (scale, rotate, translate).
func (t *Transform) PointToWorld(p rl.Vector3) rl.Vector3 {
	scaled := rl.Vector3{X: p.X * t.Scale.X, Y: p.Y * t.Scale.Y, Z: p.Z * t.Scale.Z}
	return rl.Vector3Add(t.Position, rl.Vector3RotateByQuaternion(scaled, t.Rotation))
}

// PointToLocal converts a world-space point into local space.
func (t *Transform) PointToLocal(p rl.Vector3) rl.Vector3 {
	inv := rl.QuaternionInvert(t.Rotation)
	local := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(p, t.Position), inv)
	return rl.Vector3{X: local.X / t.Scale.X, Y: local.Y / t.Scale.Y, Z: local.Z / t.Scale.Z}
}

// VectorToWorld rotates and scales a local-space direction, without translation.
func (t *Transform) VectorToWorld(v rl.Vector3) rl.Vector3 {
	scaled := rl.Vector3{X: v.X * t.Scale.X, Y: v.Y * t.Scale.Y, Z: v.Z * t.Scale.Z}
	return rl.Vector3RotateByQuaternion(scaled, t.Rotation)
}

// VectorToLocal is the inverse of VectorToWorld.
func (t *Transform) VectorToLocal(v rl.Vector3) rl.Vector3 {
	inv := rl.QuaternionInvert(t.Rotation)
	local := rl.Vector3RotateByQuaternion(v, inv)
	return rl.Vector3{X: local.X / t.Scale.X, Y: local.Y / t.Scale.Y, Z: local.Z / t.Scale.Z}
}

// NormalToWorld rotates a unit normal into world space, ignoring scale.
func (t *Transform) NormalToWorld(n rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(n, t.Rotation)
}

// Object is the scene-side entity components attach to. Ids are engine-wide
// unique and never 0, so 0 can mean "no object" in by-id references.
type Object struct {
	ID         uint16
	Name       string
	Transform  Transform
	Active     bool
	components []Component
	started    bool
}

var nextObjectID uint16 = 1

func NewObject(name string) *Object {
	id := nextObjectID
	nextObjectID++
	if nextObjectID == 0 {
		nextObjectID = 1
	}
	return &Object{
		ID:        id,
		Name:      name,
		Active:    true,
		Transform: NewTransform(),
	}
}

func (o *Object) AddComponent(c Component) {
	c.SetObject(o)
	o.components = append(o.components, c)
}

// GetComponent returns the first component of type T attached to the object.
func GetComponent[T Component](o *Object) T {
	var zero T
	for _, c := range o.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

func (o *Object) Start() {
	if o.started {
		return
	}
	for _, c := range o.components {
		c.Start()
	}
	o.started = true
}

func (o *Object) Update(deltaTime float32) {
	if !o.Active {
		return
	}
	for _, c := range o.components {
		c.Update(deltaTime)
	}
}

// Destroy tears the object down, giving every component a chance to
// deregister from whatever it hooked into during Start.
func (o *Object) Destroy() {
	for _, c := range o.components {
		c.OnDestroy()
	}
	o.components = nil
	o.Active = false
}

func (o *Object) Components() []Component {
	return o.components
}
