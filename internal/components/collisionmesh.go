// Package components glues the collision core into the object framework:
// each component registers its collision primitive with the scene when its
// object starts and deregisters when the object is destroyed.
package components

import (
	"github.com/ncsound919/pyrite64/internal/collision"
	"github.com/ncsound919/pyrite64/internal/engine"
)

// CollisionMesh places a loaded collision mesh in the world under its
// object's transform and keeps it registered as a static collider.
type CollisionMesh struct {
	engine.BaseComponent
	scene *collision.Scene
	mesh  *collision.Mesh

	Instance *collision.MeshInstance
}

func NewCollisionMesh(scene *collision.Scene, mesh *collision.Mesh) *CollisionMesh {
	return &CollisionMesh{scene: scene, mesh: mesh}
}

func (c *CollisionMesh) Start() {
	c.Instance = collision.NewMeshInstance(c.mesh, c.GetObject())
	c.scene.RegisterMesh(c.Instance)
}

func (c *CollisionMesh) OnDestroy() {
	if c.Instance != nil {
		c.scene.UnregisterMesh(c.Instance)
		c.Instance = nil
	}
}
