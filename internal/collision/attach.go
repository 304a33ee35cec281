package collision

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Attach tracks a point on a moving collision mesh so a rider object can
// be carried along. The reference is held by object id and re-resolved on
// every update, never by pointer, so a platform being destroyed degrades
// to "no displacement" instead of a dangling reference.
//
// The reference is consumed by every Update call: callers must call
// SetReference each frame they want tracking to continue, or it silently
// stops. The surrounding object framework is expected to enforce that
// per-frame call.
type Attach struct {
	scene *Scene

	refPos      rl.Vector3 // rider position cached at the previous update
	refPosLocal rl.Vector3 // same point, in the reference's local space

	refID     uint16
	lastRefID uint16
}

func NewAttach(scene *Scene) *Attach {
	return &Attach{scene: scene}
}

// SetReference arms the tracker with the mesh instance to follow for the
// next Update. Passing nil clears it.
func (a *Attach) SetReference(mi *MeshInstance) {
	if mi != nil {
		a.refID = mi.Object.ID
	} else {
		a.refID = 0
	}
}

// Update returns the world-space displacement of the tracked point since
// the previous call, then re-caches ownPos in the reference's local space.
// The first call after arming, any call where the reference changed, and
// any call with a missing/stale reference all return zero.
func (a *Attach) Update(ownPos rl.Vector3) rl.Vector3 {
	tracked := a.scene.MeshInstanceByObject(a.refID)

	var diff rl.Vector3
	if tracked != nil {
		if a.lastRefID == a.refID {
			diff = rl.Vector3Subtract(tracked.OutOfLocal(a.refPosLocal), a.refPos)
		}
		a.lastRefID = a.refID
		a.refPos = ownPos
		a.refPosLocal = tracked.IntoLocal(ownPos)
	} else {
		a.lastRefID = 0
	}
	a.refID = 0
	return diff
}
