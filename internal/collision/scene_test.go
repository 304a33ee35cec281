package collision

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncsound919/pyrite64/internal/engine"
)

func newMeshObject(t *testing.T, pos rl.Vector3) *engine.Object {
	t.Helper()
	obj := engine.NewObject("static")
	obj.Transform.Position = pos
	return obj
}

// floorScene registers one flat quad floor at the given height.
func floorScene(t *testing.T, y float32) (*Scene, *MeshInstance) {
	t.Helper()
	_, mesh := bakeQuad(t, 10)
	scene := NewScene()
	mi := NewMeshInstance(mesh, newMeshObject(t, rl.Vector3{Y: y}))
	scene.RegisterMesh(mi)
	return scene, mi
}

func TestSceneResolvesSphereOntoFloor(t *testing.T) {
	scene, _ := floorScene(t, 0)

	obj := engine.NewObject("ball")
	obj.Transform.Position = rl.Vector3{X: 3, Y: 0.5, Z: -2}
	shape := NewSphereShape(obj, 1)
	scene.RegisterShape(shape)

	scene.Update(1.0 / 60.0)

	assert.InDelta(t, 1.0, shape.Center.Y, 1e-4)
	assert.InDelta(t, 3, shape.Center.X, 1e-4)
	assert.InDelta(t, -2, shape.Center.Z, 1e-4)
	require.Greater(t, shape.LastContact.Count, int32(0))
	assert.InDelta(t, 1, shape.LastContact.FloorWallAngle.Y, 1e-4)
}

func TestSceneResolvesBoxOntoFloor(t *testing.T) {
	scene, _ := floorScene(t, 0)

	obj := engine.NewObject("crate")
	obj.Transform.Position = rl.Vector3{X: -4, Y: 0.2, Z: 5}
	shape := NewBoxShape(obj, rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5})
	scene.RegisterShape(shape)

	scene.Update(1.0 / 60.0)

	assert.InDelta(t, 0.5, shape.Center.Y, 1e-4)
	assert.Greater(t, shape.LastContact.Count, int32(0))
}

func TestSceneIntegratesVelocity(t *testing.T) {
	scene, _ := floorScene(t, 0)

	obj := engine.NewObject("ball")
	obj.Transform.Position = rl.Vector3{Y: 5}
	shape := NewSphereShape(obj, 0.5)
	shape.Velocity = rl.Vector3{Y: -10}
	scene.RegisterShape(shape)

	scene.Update(0.1)
	assert.InDelta(t, 4.0, shape.Center.Y, 1e-4)
	assert.EqualValues(t, 0, shape.LastContact.Count)

	// a step ending just inside the floor resolves back onto it
	scene.Update(0.36)
	assert.InDelta(t, 0.5, shape.Center.Y, 1e-4)
	assert.Greater(t, shape.LastContact.Count, int32(0))
}

func TestSceneResolvesAgainstTransformedInstance(t *testing.T) {
	_, mesh := bakeQuad(t, 10)
	scene := NewScene()

	platform := newMeshObject(t, rl.Vector3{X: 2, Y: 4, Z: 2})
	platform.Transform.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 0.9)
	scene.RegisterMesh(NewMeshInstance(mesh, platform))

	obj := engine.NewObject("ball")
	obj.Transform.Position = rl.Vector3{X: 2, Y: 4.2, Z: 2}
	shape := NewSphereShape(obj, 0.5)
	scene.RegisterShape(shape)

	scene.Update(1.0 / 60.0)

	// yaw does not tilt the floor plane: still pushed straight up
	assert.InDelta(t, 4.5, shape.Center.Y, 1e-4)
	assert.InDelta(t, 1, shape.LastContact.FloorWallAngle.Y, 1e-4)
}

func TestSceneScaledInstance(t *testing.T) {
	_, mesh := bakeQuad(t, 2)
	scene := NewScene()

	ground := newMeshObject(t, rl.Vector3{})
	ground.Transform.Scale = rl.Vector3{X: 5, Y: 5, Z: 5}
	scene.RegisterMesh(NewMeshInstance(mesh, ground))

	// x=8 is outside the unscaled quad but inside the scaled one
	obj := engine.NewObject("ball")
	obj.Transform.Position = rl.Vector3{X: 8, Y: 0.5, Z: 0}
	shape := NewSphereShape(obj, 1)
	scene.RegisterShape(shape)

	scene.Update(1.0 / 60.0)
	assert.InDelta(t, 1.0, shape.Center.Y, 1e-4)
}

func TestRaycastFloorPicksHighest(t *testing.T) {
	scene, _ := floorScene(t, 0)
	_, upper := bakeQuad(t, 10)
	scene.RegisterMesh(NewMeshInstance(upper, newMeshObject(t, rl.Vector3{Y: 2})))

	hit := scene.RaycastFloor(rl.Vector3{X: 1, Y: 5, Z: 1})
	assert.InDelta(t, 2.0, hit.HitPos.Y, 1e-4)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-4)

	// between the two floors only the lower one is below
	hit = scene.RaycastFloor(rl.Vector3{X: 1, Y: 1, Z: 1})
	assert.InDelta(t, 0.0, hit.HitPos.Y, 1e-4)

	// under everything: zero result
	hit = scene.RaycastFloor(rl.Vector3{X: 1, Y: -1, Z: 1})
	assert.Equal(t, RaycastResult{}, hit)

	assert.EqualValues(t, 3, scene.RaycastCount)
}

func TestRaycastFloorOrderIndependentHeight(t *testing.T) {
	// the highest floor wins regardless of registration order
	_, lower := bakeQuad(t, 10)
	_, upper := bakeQuad(t, 10)

	scene := NewScene()
	scene.RegisterMesh(NewMeshInstance(upper, newMeshObject(t, rl.Vector3{Y: 2})))
	scene.RegisterMesh(NewMeshInstance(lower, newMeshObject(t, rl.Vector3{})))

	hit := scene.RaycastFloor(rl.Vector3{X: 1, Y: 5, Z: 1})
	assert.InDelta(t, 2.0, hit.HitPos.Y, 1e-4)
}

func TestSceneUnregister(t *testing.T) {
	scene, mi := floorScene(t, 0)

	require.NotNil(t, scene.MeshInstanceByObject(mi.Object.ID))
	scene.UnregisterMesh(mi)
	assert.Nil(t, scene.MeshInstanceByObject(mi.Object.ID))

	hit := scene.RaycastFloor(rl.Vector3{Y: 5})
	assert.Equal(t, RaycastResult{}, hit)

	obj := engine.NewObject("ball")
	shape := NewSphereShape(obj, 1)
	scene.RegisterShape(shape)
	require.Len(t, scene.Shapes(), 1)
	scene.UnregisterShape(shape)
	assert.Empty(t, scene.Shapes())
}

func TestSceneTimingCounters(t *testing.T) {
	scene, _ := floorScene(t, 0)

	obj := engine.NewObject("ball")
	obj.Transform.Position = rl.Vector3{Y: 0.5}
	scene.RegisterShape(NewSphereShape(obj, 1))

	before := scene.Ticks
	scene.Update(1.0 / 60.0)
	assert.GreaterOrEqual(t, scene.Ticks, before)

	scene.RaycastFloor(rl.Vector3{Y: 5})
	assert.EqualValues(t, 1, scene.RaycastCount)
}
