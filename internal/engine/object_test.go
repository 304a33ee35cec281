package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformPointRoundTrip(t *testing.T) {
	tr := NewTransform()
	tr.Position = rl.Vector3{X: 3, Y: -1, Z: 2}
	tr.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{X: 0.5, Y: 1, Z: 0.2}, 1.1)
	tr.Scale = rl.Vector3{X: 2, Y: 3, Z: 0.5}

	p := rl.Vector3{X: 1.5, Y: -0.5, Z: 4}
	back := tr.PointToLocal(tr.PointToWorld(p))
	assert.InDelta(t, p.X, back.X, 1e-4)
	assert.InDelta(t, p.Y, back.Y, 1e-4)
	assert.InDelta(t, p.Z, back.Z, 1e-4)

	v := rl.Vector3{X: -2, Y: 1, Z: 0.5}
	vback := tr.VectorToLocal(tr.VectorToWorld(v))
	assert.InDelta(t, v.X, vback.X, 1e-4)
	assert.InDelta(t, v.Y, vback.Y, 1e-4)
	assert.InDelta(t, v.Z, vback.Z, 1e-4)
}

func TestTransformVectorIgnoresTranslation(t *testing.T) {
	tr := NewTransform()
	tr.Position = rl.Vector3{X: 100, Y: 100, Z: 100}

	v := tr.VectorToWorld(rl.Vector3{X: 1})
	assert.InDelta(t, 1, v.X, 1e-5)
	assert.InDelta(t, 0, v.Y, 1e-5)
	assert.InDelta(t, 0, v.Z, 1e-5)
}

func TestNormalToWorldIgnoresScale(t *testing.T) {
	tr := NewTransform()
	tr.Scale = rl.Vector3{X: 10, Y: 0.1, Z: 10}
	tr.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, 90*rl.Deg2rad)

	n := tr.NormalToWorld(rl.Vector3{Y: 1})
	assert.InDelta(t, 1, rl.Vector3Length(n), 1e-5)
	assert.InDelta(t, -1, n.X, 1e-5)
}

func TestObjectIDsUniqueAndNonZero(t *testing.T) {
	seen := map[uint16]bool{}
	for i := 0; i < 64; i++ {
		obj := NewObject("o")
		require.NotZero(t, obj.ID)
		require.False(t, seen[obj.ID])
		seen[obj.ID] = true
	}
}

type recordingComponent struct {
	BaseComponent
	starts    int
	updates   int
	destroyed int
}

func (r *recordingComponent) Start()            { r.starts++ }
func (r *recordingComponent) Update(dt float32) { r.updates++ }
func (r *recordingComponent) OnDestroy()        { r.destroyed++ }

type otherComponent struct{ BaseComponent }

func TestObjectComponentLifecycle(t *testing.T) {
	obj := NewObject("thing")
	rec := &recordingComponent{}
	obj.AddComponent(rec)

	assert.Same(t, obj, rec.GetObject())

	obj.Start()
	obj.Start() // idempotent
	assert.Equal(t, 1, rec.starts)

	obj.Update(0.016)
	assert.Equal(t, 1, rec.updates)

	obj.Active = false
	obj.Update(0.016)
	assert.Equal(t, 1, rec.updates)

	obj.Destroy()
	assert.Equal(t, 1, rec.destroyed)
	assert.Empty(t, obj.Components())
}

func TestGetComponent(t *testing.T) {
	obj := NewObject("thing")
	rec := &recordingComponent{}
	obj.AddComponent(rec)

	assert.Same(t, rec, GetComponent[*recordingComponent](obj))
	assert.Nil(t, GetComponent[*otherComponent](obj))
}
