package collision

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DebugDraw renders wireframe collision geometry into the current raylib
// 3D mode. Visualization only; it never touches collision state beyond
// reading it.
func (s *Scene) DebugDraw(showMeshes, showShapes bool) {
	if showMeshes {
		for _, mi := range s.meshes {
			drawMeshWires(mi)
		}
	}
	if showShapes {
		for _, shape := range s.shapes {
			drawShapeWires(shape)
		}
	}
}

func drawMeshWires(mi *MeshInstance) {
	mesh := mi.Mesh
	for i := int32(0); i < mesh.TriCount; i++ {
		tri := mesh.Triangle(i)
		v0 := mi.OutOfLocal(*tri.V0)
		v1 := mi.OutOfLocal(*tri.V1)
		v2 := mi.OutOfLocal(*tri.V2)
		rl.DrawLine3D(v0, v1, rl.Green)
		rl.DrawLine3D(v1, v2, rl.Green)
		rl.DrawLine3D(v2, v0, rl.Green)
	}

	lo, hi := mesh.Bounds()
	center := mi.OutOfLocal(rl.Vector3Scale(rl.Vector3Add(lo, hi), 0.5))
	size := mi.Object.Transform.VectorToWorld(rl.Vector3Subtract(hi, lo))
	rl.DrawCubeWiresV(center, size, rl.Fade(rl.Green, 0.3))
}

func drawShapeWires(shape *Shape) {
	color := rl.Yellow
	if shape.LastContact.Count > 0 {
		color = rl.Red
	}
	if shape.Kind == ShapeSphere {
		rl.DrawSphereWires(shape.Center, shape.Radius, 8, 8, color)
		return
	}
	size := rl.Vector3Scale(shape.HalfExtents, 2)
	rl.DrawCubeWiresV(shape.Center, size, color)
}
