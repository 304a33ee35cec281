package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ncsound919/pyrite64/internal/collision"
	"github.com/ncsound919/pyrite64/internal/engine"
)

// CollisionShape attaches a dynamic bounding collision shape to an object.
// The scene moves and resolves the shape during its update; this component
// mirrors the resolved center back into the object transform.
type CollisionShape struct {
	engine.BaseComponent
	scene *collision.Scene

	kind        collision.ShapeKind
	radius      float32
	halfExtents rl.Vector3

	Shape *collision.Shape
}

func NewSphereCollisionShape(scene *collision.Scene, radius float32) *CollisionShape {
	return &CollisionShape{scene: scene, kind: collision.ShapeSphere, radius: radius}
}

func NewBoxCollisionShape(scene *collision.Scene, halfExtents rl.Vector3) *CollisionShape {
	return &CollisionShape{scene: scene, kind: collision.ShapeBox, halfExtents: halfExtents}
}

func (c *CollisionShape) Start() {
	obj := c.GetObject()
	if c.kind == collision.ShapeSphere {
		c.Shape = collision.NewSphereShape(obj, c.radius)
	} else {
		c.Shape = collision.NewBoxShape(obj, c.halfExtents)
	}
	c.scene.RegisterShape(c.Shape)
}

func (c *CollisionShape) Update(deltaTime float32) {
	c.GetObject().Transform.Position = c.Shape.Center
}

// Teleport moves the shape without sweeping through the world.
func (c *CollisionShape) Teleport(pos rl.Vector3) {
	c.Shape.Center = pos
	c.GetObject().Transform.Position = pos
}

func (c *CollisionShape) OnDestroy() {
	if c.Shape != nil {
		c.scene.UnregisterShape(c.Shape)
		c.Shape = nil
	}
}
