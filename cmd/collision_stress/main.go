// Headless benchmark comparing BVH queries against brute-force
// triangle-bounds scans over baked collision meshes.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/ncsound919/pyrite64/internal/collision"
	"github.com/ncsound919/pyrite64/internal/config"
	"github.com/ncsound919/pyrite64/internal/logger"
)

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

	for _, count := range cfg.Stress.TriangleCounts {
		benchMesh(count, cfg.Stress.QueriesPerMesh, cfg.Stress.Seed)
	}
}

// terrainMesh bakes a random-height grid with roughly triCount triangles.
func terrainMesh(triCount int, rng *rand.Rand) *collision.Mesh {
	grid := 2
	for 2*(grid-1)*(grid-1) < triCount {
		grid++
	}

	extent := float32(grid) * 2
	verts := make([]rl.Vector3, 0, grid*grid)
	for z := 0; z < grid; z++ {
		for x := 0; x < grid; x++ {
			verts = append(verts, rl.Vector3{
				X: float32(x)/float32(grid-1)*extent - extent/2,
				Y: rng.Float32() * 4,
				Z: float32(z)/float32(grid-1)*extent - extent/2,
			})
		}
	}

	indices := make([]int16, 0, 2*(grid-1)*(grid-1)*3)
	for z := 0; z < grid-1; z++ {
		for x := 0; x < grid-1; x++ {
			i0 := int16(z*grid + x)
			i1 := i0 + 1
			i2 := i0 + int16(grid)
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}

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

func benchMesh(triCount, queries int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	mesh := terrainMesh(triCount, rng)

	logger.Info("mesh baked",
		zap.Int32("triangles", mesh.TriCount),
		zap.Int("bvhNodes", len(mesh.BVH.Nodes)))

	// per-triangle bounds for the brute-force pass
	type triBounds struct{ min, max rl.Vector3 }
	bounds := make([]triBounds, mesh.TriCount)
	for i := int32(0); i < mesh.TriCount; i++ {
		tri := mesh.Triangle(i)
		b := triBounds{min: *tri.V0, max: *tri.V0}
		for _, v := range []*rl.Vector3{tri.V1, tri.V2} {
			b.min.X = minf(b.min.X, v.X)
			b.min.Y = minf(b.min.Y, v.Y)
			b.min.Z = minf(b.min.Z, v.Z)
			b.max.X = maxf(b.max.X, v.X)
			b.max.Y = maxf(b.max.Y, v.Y)
			b.max.Z = maxf(b.max.Z, v.Z)
		}
		bounds[i] = b
	}

	lo, hi := mesh.Bounds()
	queryBoxes := make([][2]rl.Vector3, queries)
	for i := range queryBoxes {
		c := rl.Vector3{
			X: lo.X + rng.Float32()*(hi.X-lo.X),
			Y: lo.Y + rng.Float32()*(hi.Y-lo.Y),
			Z: lo.Z + rng.Float32()*(hi.Z-lo.Z),
		}
		ext := rl.Vector3{X: 1 + rng.Float32(), Y: 1 + rng.Float32(), Z: 1 + rng.Float32()}
		queryBoxes[i] = [2]rl.Vector3{rl.Vector3Subtract(c, ext), rl.Vector3Add(c, ext)}
	}

	var res collision.QueryResult

	bvhStart := time.Now()
	var bvhHits int
	for _, q := range queryBoxes {
		mesh.BVH.QueryBox(q[0], q[1], &res)
		bvhHits += int(res.Count)
	}
	bvhTime := time.Since(bvhStart) / time.Duration(queries)

	bruteStart := time.Now()
	var bruteHits int
	for _, q := range queryBoxes {
		for i := range bounds {
			b := &bounds[i]
			if b.min.X <= q[1].X && b.max.X >= q[0].X &&
				b.min.Y <= q[1].Y && b.max.Y >= q[0].Y &&
				b.min.Z <= q[1].Z && b.max.Z >= q[0].Z {
				bruteHits++
			}
		}
	}
	bruteTime := time.Since(bruteStart) / time.Duration(queries)

	speedup := float64(bruteTime) / float64(bvhTime)
	fmt.Printf("%5d tris: bvh %8v/query (%6d hits) | brute %8v/query (%6d hits) | %.1fx speedup\n",
		triCount, bvhTime, bvhHits, bruteTime, bruteHits, speedup)
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
