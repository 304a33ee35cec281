// Interactive viewer for the collision engine: a baked terrain, a moving
// platform with a rider, and a rain of dynamic shapes, drawn as wireframes
// with a raygui overlay for toggles and timing counters.
package main

import (
	"flag"
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/ncsound919/pyrite64/internal/collision"
	"github.com/ncsound919/pyrite64/internal/components"
	"github.com/ncsound919/pyrite64/internal/config"
	"github.com/ncsound919/pyrite64/internal/engine"
	"github.com/ncsound919/pyrite64/internal/logger"
)

const gravity = 20.0

func main() {
	configPath := flag.String("config", "", "path to a collision.yaml config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		panic(err)
	}
	defer logger.Sync()

	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "pyrite64 collision viewer")
	defer rl.CloseWindow()
	if cfg.Window.FPSLimit > 0 {
		rl.SetTargetFPS(int32(cfg.Window.FPSLimit))
	} else if cfg.Window.VSync {
		rl.SetTargetFPS(60)
	}

	scene := collision.NewScene()
	rng := rand.New(rand.NewSource(cfg.Scene.Seed))

	var objects []*engine.Object

	groundMesh := bakeGround(cfg.Scene.GroundExtent, cfg.Scene.GroundSegments, rng)
	ground := engine.NewObject("ground")
	ground.AddComponent(components.NewCollisionMesh(scene, groundMesh))
	objects = append(objects, ground)

	platformMesh := bakePlatform(4)
	platform := engine.NewObject("platform")
	platform.Transform.Position = rl.Vector3{Y: 4}
	platformComp := components.NewCollisionMesh(scene, platformMesh)
	platform.AddComponent(platformComp)
	objects = append(objects, platform)

	rider := engine.NewObject("rider")
	rider.Transform.Position = rl.Vector3{Y: 5}
	riderComp := components.NewPlatformRider(scene)
	rider.AddComponent(riderComp)
	rider.AddComponent(components.NewSphereCollisionShape(scene, 0.5))
	objects = append(objects, rider)

	var dynamics []*components.CollisionShape
	spawn := func(shape *components.CollisionShape, name string) {
		obj := engine.NewObject(name)
		obj.Transform.Position = rl.Vector3{
			X: rng.Float32()*20 - 10,
			Y: 8 + rng.Float32()*10,
			Z: rng.Float32()*20 - 10,
		}
		obj.AddComponent(shape)
		objects = append(objects, obj)
		dynamics = append(dynamics, shape)
	}
	for i := 0; i < cfg.Scene.SphereCount; i++ {
		spawn(components.NewSphereCollisionShape(scene, 0.3+rng.Float32()*0.5), "sphere")
	}
	for i := 0; i < cfg.Scene.BoxCount; i++ {
		he := rl.Vector3{
			X: 0.3 + rng.Float32()*0.4,
			Y: 0.3 + rng.Float32()*0.4,
			Z: 0.3 + rng.Float32()*0.4,
		}
		spawn(components.NewBoxCollisionShape(scene, he), "box")
	}

	for _, obj := range objects {
		obj.Start()
	}
	logger.Info("scene ready",
		zap.Int("objects", len(objects)),
		zap.Int32("groundTris", groundMesh.TriCount))

	camera := rl.Camera3D{
		Position:   rl.Vector3{X: 30, Y: 25, Z: 30},
		Target:     rl.Vector3{Y: 2},
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	showMeshes := true
	showShapes := true
	var elapsed float32

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		elapsed += dt

		// platform sways on a sine, rider follows through the tracker
		platform.Transform.Position.X = math32.Sin(elapsed*0.7) * 6
		platform.Transform.Position.Y = 4 + math32.Sin(elapsed*1.3)

		riderComp.Platform = platformComp.Instance

		for _, d := range dynamics {
			d.Shape.Velocity.Y -= gravity * dt
			if contact := d.Shape.LastContact; contact.Count > 0 && contact.FloorWallAngle.Y > 0.7 {
				d.Shape.Velocity.Y = 0
			}
			if d.Shape.Center.Y < -20 {
				d.Teleport(rl.Vector3{
					X: rng.Float32()*20 - 10,
					Y: 12 + rng.Float32()*6,
					Z: rng.Float32()*20 - 10,
				})
				d.Shape.Velocity = rl.Vector3{}
			}
		}

		scene.Update(dt)

		// dynamic shapes push each other apart; the scene only resolves
		// against static geometry
		for i := 0; i < len(dynamics); i++ {
			for j := i + 1; j < len(dynamics); j++ {
				separateShapes(dynamics[i].Shape, dynamics[j].Shape)
			}
		}

		for _, obj := range objects {
			obj.Update(dt)
		}

		floorHit := scene.RaycastFloor(rider.Transform.Position)

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(18, 18, 24, 255))

		rl.BeginMode3D(camera)
		scene.DebugDraw(showMeshes, showShapes)
		if floorHit.Normal.Y != 0 {
			rl.DrawSphereWires(floorHit.HitPos, 0.15, 6, 6, rl.SkyBlue)
		}
		rl.EndMode3D()

		showMeshes = gui.CheckBox(rl.NewRectangle(10, 10, 20, 20), "meshes", showMeshes)
		showShapes = gui.CheckBox(rl.NewRectangle(10, 38, 20, 20), "shapes", showShapes)
		rl.DrawText(fmt.Sprintf("coll %8v  bvh %8v  rays %d",
			scene.Ticks, scene.TicksBVH, scene.RaycastCount), 10, 66, 10, rl.RayWhite)
		rl.DrawFPS(10, 84)

		rl.EndDrawing()
	}
}

// bakeGround builds a gently rolling terrain around the origin.
func bakeGround(extent float32, segments int, rng *rand.Rand) *collision.Mesh {
	if segments < 1 {
		segments = 1
	}
	grid := segments + 1
	verts := make([]rl.Vector3, 0, grid*grid)
	for z := 0; z < grid; z++ {
		for x := 0; x < grid; x++ {
			verts = append(verts, rl.Vector3{
				X: float32(x)/float32(segments)*extent*2 - extent,
				Y: rng.Float32() * 1.5,
				Z: float32(z)/float32(segments)*extent*2 - extent,
			})
		}
	}
	indices := make([]int16, 0, segments*segments*6)
	for z := 0; z < segments; z++ {
		for x := 0; x < segments; x++ {
			i0 := int16(z*grid + x)
			i1 := i0 + 1
			i2 := i0 + int16(grid)
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}
	return mustBake(verts, indices)
}

// bakePlatform builds a flat quad of the given half-extent.
func bakePlatform(half float32) *collision.Mesh {
	verts := []rl.Vector3{
		{X: -half, Z: -half},
		{X: half, Z: -half},
		{X: half, Z: half},
		{X: -half, Z: half},
	}
	indices := []int16{0, 2, 1, 0, 3, 2}
	return mustBake(verts, indices)
}

func separateShapes(a, b *collision.Shape) {
	switch {
	case a.Kind == collision.ShapeSphere && b.Kind == collision.ShapeSphere:
		collision.SphereVsSphere(a, b)
	case a.Kind == collision.ShapeSphere:
		collision.SphereVsBox(a, b)
	case b.Kind == collision.ShapeSphere:
		collision.SphereVsBox(b, a)
	default:
		collision.BoxVsBox(a, b)
	}
}

func mustBake(verts []rl.Vector3, indices []int16) *collision.Mesh {
	blob, err := collision.BakeMesh(verts, indices)
	if err != nil {
		logger.Fatal("bake failed", zap.Error(err))
	}
	mesh, err := collision.LoadMeshChecked(blob)
	if err != nil {
		logger.Fatal("baked blob failed validation", zap.Error(err))
	}
	return mesh
}
