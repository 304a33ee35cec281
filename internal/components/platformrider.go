package components

import (
	"github.com/ncsound919/pyrite64/internal/collision"
	"github.com/ncsound919/pyrite64/internal/engine"
)

// PlatformRider carries its object along with a moving collision mesh.
// Gameplay code points Platform at whatever the object currently stands
// on (and clears it when airborne); the component re-arms the tracker
// every frame, as the tracker's consumed-reference contract requires.
type PlatformRider struct {
	engine.BaseComponent
	scene  *collision.Scene
	attach *collision.Attach

	Platform *collision.MeshInstance
}

func NewPlatformRider(scene *collision.Scene) *PlatformRider {
	return &PlatformRider{scene: scene, attach: collision.NewAttach(scene)}
}

func (p *PlatformRider) Update(deltaTime float32) {
	if p.Platform != nil {
		p.attach.SetReference(p.Platform)
	}
	obj := p.GetObject()
	delta := p.attach.Update(obj.Transform.Position)
	obj.Transform.Position.X += delta.X
	obj.Transform.Position.Y += delta.Y
	obj.Transform.Position.Z += delta.Z

	if shape := engine.GetComponent[*CollisionShape](obj); shape != nil && shape.Shape != nil {
		shape.Shape.Center = obj.Transform.Position
	}
}
