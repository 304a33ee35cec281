package collision

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// CollInfo is the narrow phase output: the penetration vector (subtract
// from the shape's center to resolve), the contact normal used for
// floor/wall classification, and the contact count (0 or 1).
type CollInfo struct {
	Penetration    rl.Vector3
	FloorWallAngle rl.Vector3
	Count          int32
}

// RaycastResult is a floor ray hit. The zero value means no hit.
type RaycastResult struct {
	HitPos rl.Vector3
	Normal rl.Vector3
}

const minPenetration = 0.0001

var (
	unitAxisX = rl.Vector3{X: 1}
	unitAxisY = rl.Vector3{Y: 1}
	unitAxisZ = rl.Vector3{Z: 1}
)

func pointPlaneDistance(p, planePos, planeNorm rl.Vector3) float32 {
	return rl.Vector3DotProduct(rl.Vector3Subtract(p, planePos), planeNorm)
}

// triBaryCoord returns barycentric coordinates of p projected into the
// triangle. A degenerate (zero-area) triangle yields (-1,-1,-1), which
// reads as "outside" and lets the edge test take over.
func triBaryCoord(p, a, b, c rl.Vector3) rl.Vector3 {
	v0 := rl.Vector3Subtract(c, a)
	v1 := rl.Vector3Subtract(b, a)
	v2 := rl.Vector3Subtract(p, a)

	dot00 := rl.Vector3DotProduct(v0, v0)
	dot01 := rl.Vector3DotProduct(v0, v1)
	dot11 := rl.Vector3DotProduct(v1, v1)

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return rl.Vector3{X: -1, Y: -1, Z: -1}
	}

	dot02 := rl.Vector3DotProduct(v0, v2)
	dot12 := rl.Vector3DotProduct(v1, v2)

	invDenom := 1.0 / denom
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return rl.Vector3{X: 1 - u - v, Y: v, Z: u}
}

func closestPointOnLine(p, a, b rl.Vector3) rl.Vector3 {
	lineVec := rl.Vector3Subtract(b, a)
	length := rl.Vector3Length(lineVec)
	if length < minPenetration {
		return a
	}
	lineDir := rl.Vector3Scale(lineVec, 1/length)
	pointDist := rl.Vector3DotProduct(rl.Vector3Subtract(p, a), lineDir)
	return rl.Vector3Add(a, rl.Vector3Scale(lineDir, clamp32(pointDist, 0, length)))
}

func clamp32(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}

func distSqr(a, b rl.Vector3) float32 {
	d := rl.Vector3Subtract(a, b)
	return rl.Vector3DotProduct(d, d)
}

// TriVsSphere tests a sphere against one triangle.
//
// The plane distance is halved when the center is behind the face, so
// back-side contacts must be twice as deep before they register. This
// keeps spheres from popping through thin double-sided geometry; the
// factor is load-bearing, do not tune it.
func TriVsSphere(center rl.Vector3, radius float32, tri Triangle) CollInfo {
	vert0 := *tri.V0
	vert1 := *tri.V1
	vert2 := *tri.V2

	planeDist := pointPlaneDistance(center, vert0, tri.Normal)
	planeDistAbs := planeDist
	if planeDist < 0 {
		planeDistAbs = math32.Abs(planeDist * 2)
	}

	if planeDistAbs < radius {
		bary := triBaryCoord(center, vert0, vert1, vert2)
		if bary.X >= 0 && bary.Y >= 0 && bary.X+bary.Y <= 1 {
			return CollInfo{
				Penetration:    rl.Vector3Scale(tri.Normal, planeDist-radius),
				FloorWallAngle: tri.Normal,
				Count:          1,
			}
		}
	}

	closest1 := closestPointOnLine(center, vert0, vert1)
	closest2 := closestPointOnLine(center, vert1, vert2)
	closest3 := closestPointOnLine(center, vert2, vert0)

	dist1 := distSqr(center, closest1)
	dist2 := distSqr(center, closest2)
	dist3 := distSqr(center, closest3)

	closestDist := math32.Min(dist1, math32.Min(dist2, dist3))
	if closestDist <= radius*radius {
		contactPoint := closest3
		if closestDist == dist1 {
			contactPoint = closest1
		} else if closestDist == dist2 {
			contactPoint = closest2
		}

		penVector := rl.Vector3Subtract(contactPoint, center)

		// contact on the mesh's back side along an edge
		if rl.Vector3DotProduct(penVector, tri.Normal) > 0 {
			return CollInfo{}
		}

		penLen := rl.Vector3Length(penVector)
		pen := rl.Vector3Scale(penVector, math32.Max(radius-penLen, 0)/penLen)

		return CollInfo{
			Penetration:    pen,
			FloorWallAngle: tri.Normal,
			Count:          1,
		}
	}

	return CollInfo{}
}

func sign32(v float32) float32 {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

// TriVsBox tests an axis-aligned box against one triangle via a 13-axis
// separating axis test: the box's three face normals (the triangle is
// shifted into box-local space first, so these are the unit axes), the
// triangle normal, and the nine unit-axis x edge cross products. Any
// separating axis exits immediately; otherwise the axis with the smallest
// overlap becomes the push-out direction.
func TriVsBox(center, halfExtents rl.Vector3, tri Triangle) CollInfo {
	v0 := rl.Vector3Subtract(*tri.V0, center)
	v1 := rl.Vector3Subtract(*tri.V1, center)
	v2 := rl.Vector3Subtract(*tri.V2, center)

	edge0 := rl.Vector3Subtract(v1, v0)
	edge1 := rl.Vector3Subtract(v2, v1)
	edge2 := rl.Vector3Subtract(v0, v2)

	distance := float32(math32.MaxFloat32)
	var bestAxis rl.Vector3

	testAxis := func(axis rl.Vector3) bool {
		if axis.X == 0 && axis.Y == 0 && axis.Z == 0 {
			return true
		}

		p0 := rl.Vector3DotProduct(v0, axis)
		p1 := rl.Vector3DotProduct(v1, axis)
		p2 := rl.Vector3DotProduct(v2, axis)

		// box projection; its own center is at the origin here
		r := halfExtents.X*math32.Abs(axis.X) +
			halfExtents.Y*math32.Abs(axis.Y) +
			halfExtents.Z*math32.Abs(axis.Z)

		pMin := math32.Min(p0, math32.Min(p1, p2))
		pMax := math32.Max(p0, math32.Max(p1, p2))

		overlap := r - math32.Max(-pMax, pMin)
		if overlap <= 0 {
			return false
		}
		if overlap < distance {
			distance = overlap
			bestAxis = rl.Vector3{
				X: axis.X * sign32(p0),
				Y: axis.Y * sign32(p1),
				Z: axis.Z * sign32(p2),
			}
		}
		return true
	}

	isColl := testAxis(unitAxisX) &&
		testAxis(unitAxisY) &&
		testAxis(unitAxisZ) &&

		testAxis(tri.Normal) &&

		testAxis(rl.Vector3CrossProduct(unitAxisX, edge0)) &&
		testAxis(rl.Vector3CrossProduct(unitAxisX, edge1)) &&
		testAxis(rl.Vector3CrossProduct(unitAxisX, edge2)) &&
		testAxis(rl.Vector3CrossProduct(unitAxisY, edge0)) &&
		testAxis(rl.Vector3CrossProduct(unitAxisY, edge1)) &&
		testAxis(rl.Vector3CrossProduct(unitAxisY, edge2)) &&
		testAxis(rl.Vector3CrossProduct(unitAxisZ, edge0)) &&
		testAxis(rl.Vector3CrossProduct(unitAxisZ, edge1)) &&
		testAxis(rl.Vector3CrossProduct(unitAxisZ, edge2))

	if isColl {
		return CollInfo{
			Penetration:    rl.Vector3Scale(bestAxis, distance),
			FloorWallAngle: tri.Normal,
			Count:          1,
		}
	}

	return CollInfo{}
}

// pointVsTriangle2D runs three half-plane sign checks on the horizontal
// projection. Comparing the signs directly handles both winding orders.
func pointVsTriangle2D(px, pz float32, a, b, c rl.Vector3) bool {
	b0 := (px-a.X)*(a.Z-b.Z)+(pz-a.Z)*(b.X-a.X) > 0
	b1 := (px-b.X)*(b.Z-c.Z)+(pz-b.Z)*(c.X-b.X) > 0
	b2 := (px-c.X)*(c.Z-a.Z)+(pz-c.Z)*(a.X-c.X) > 0
	return b0 == b1 && b1 == b2
}

// TriVsFloorRay casts a vertical ray down the (x,z) column of origin
// against one triangle. Hits above the origin are rejected: this query
// only ever finds floors below the caller.
func TriVsFloorRay(origin rl.Vector3, tri Triangle) (RaycastResult, bool) {
	vert0 := *tri.V0
	vert1 := *tri.V1
	vert2 := *tri.V2

	if !pointVsTriangle2D(origin.X, origin.Z, vert0, vert1, vert2) {
		return RaycastResult{}, false
	}

	// solve the plane equation for the height under (x,z)
	t := (rl.Vector3DotProduct(tri.Normal, origin) - rl.Vector3DotProduct(tri.Normal, vert0)) / tri.Normal.Y
	hitPos := rl.Vector3{X: origin.X, Y: origin.Y - t, Z: origin.Z}

	if hitPos.Y > origin.Y {
		return RaycastResult{}, false
	}

	return RaycastResult{HitPos: hitPos, Normal: tri.Normal}, true
}

// VsSphere runs the sphere narrow phase against one of the mesh's
// triangles, in mesh-local space.
func (m *Mesh) VsSphere(center rl.Vector3, radius float32, triIndex int32) CollInfo {
	return TriVsSphere(center, radius, m.Triangle(triIndex))
}

// VsBox runs the box narrow phase against one of the mesh's triangles.
func (m *Mesh) VsBox(center, halfExtents rl.Vector3, triIndex int32) CollInfo {
	return TriVsBox(center, halfExtents, m.Triangle(triIndex))
}

// VsFloorRay casts the floor ray against one of the mesh's triangles.
func (m *Mesh) VsFloorRay(origin rl.Vector3, triIndex int32) (RaycastResult, bool) {
	return TriVsFloorRay(origin, m.Triangle(triIndex))
}

// SphereVsSphere separates two dynamic spheres, moving each by half the
// overlap. Returns false when they don't touch. Shape-vs-shape handling
// lives outside the scene's static resolve loop.
func SphereVsSphere(a, b *Shape) bool {
	diff := rl.Vector3Subtract(a.Center, b.Center)
	dist := rl.Vector3Length(diff)
	minDist := a.Radius + b.Radius
	if dist >= minDist || dist < minPenetration {
		return false
	}
	push := rl.Vector3Scale(diff, (minDist-dist)/dist*0.5)
	a.Center = rl.Vector3Add(a.Center, push)
	b.Center = rl.Vector3Subtract(b.Center, push)
	return true
}

// SphereVsBox separates a dynamic sphere from a dynamic axis-aligned box,
// moving each by half the overlap.
func SphereVsBox(sphere, box *Shape) bool {
	closest := rl.Vector3{
		X: clamp32(sphere.Center.X, box.Center.X-box.HalfExtents.X, box.Center.X+box.HalfExtents.X),
		Y: clamp32(sphere.Center.Y, box.Center.Y-box.HalfExtents.Y, box.Center.Y+box.HalfExtents.Y),
		Z: clamp32(sphere.Center.Z, box.Center.Z-box.HalfExtents.Z, box.Center.Z+box.HalfExtents.Z),
	}
	diff := rl.Vector3Subtract(sphere.Center, closest)
	dist := rl.Vector3Length(diff)
	if dist >= sphere.Radius || dist < minPenetration {
		return false
	}
	push := rl.Vector3Scale(diff, (sphere.Radius-dist)/dist*0.5)
	sphere.Center = rl.Vector3Add(sphere.Center, push)
	box.Center = rl.Vector3Subtract(box.Center, push)
	return true
}

// BoxVsBox separates two dynamic axis-aligned boxes along the axis of
// least overlap, moving each by half.
func BoxVsBox(a, b *Shape) bool {
	d := rl.Vector3Subtract(b.Center, a.Center)
	overlapX := a.HalfExtents.X + b.HalfExtents.X - math32.Abs(d.X)
	overlapY := a.HalfExtents.Y + b.HalfExtents.Y - math32.Abs(d.Y)
	overlapZ := a.HalfExtents.Z + b.HalfExtents.Z - math32.Abs(d.Z)
	if overlapX <= 0 || overlapY <= 0 || overlapZ <= 0 {
		return false
	}

	var push rl.Vector3
	switch {
	case overlapX <= overlapY && overlapX <= overlapZ:
		push = rl.Vector3{X: overlapX * 0.5 * -sign32(d.X)}
	case overlapY <= overlapZ:
		push = rl.Vector3{Y: overlapY * 0.5 * -sign32(d.Y)}
	default:
		push = rl.Vector3{Z: overlapZ * 0.5 * -sign32(d.Z)}
	}
	a.Center = rl.Vector3Add(a.Center, push)
	b.Center = rl.Vector3Subtract(b.Center, push)
	return true
}
