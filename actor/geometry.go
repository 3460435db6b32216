package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GeometryType identifies the primitive behind a Geometry value
type GeometryType int

const (
	GeometryTypeSphere GeometryType = iota
	GeometryTypeBox
	GeometryTypeCylinder
	GeometryTypeCone
	GeometryTypeEllipsoid
	GeometryTypeTriangle
)

// Geometry is an immutable shape description. A single Geometry instance can
// be shared by several ShapeComponents; all methods are pure functions of the
// shape dimensions and their arguments.
type Geometry interface {
	Type() GeometryType
	// Support returns the farthest point on the surface along direction,
	// in the shape's local frame. A zero-length direction returns a finite
	// point on the surface, never NaN.
	Support(direction mgl64.Vec3) mgl64.Vec3
	// Inertia returns the body-local inertia tensor for the given mass
	Inertia(mass float64) mgl64.Mat3
	// Mass computes the shape mass for a given density
	Mass(density float64) float64
	// BoundingRadius is the radius of the smallest enclosing sphere
	// centered on the shape origin
	BoundingRadius() float64
	// AABB returns a conservative world-space bounding box at the given transform
	AABB(transform Transform) AABB
}

const directionEpsilon = 1e-12

// safeNormalize normalizes v, falling back to +X for degenerate input
func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	if length < directionEpsilon {
		return mgl64.Vec3{1, 0, 0}
	}

	return v.Mul(1.0 / length)
}

func radiusAABB(position mgl64.Vec3, radius float64) AABB {
	radiusVec := mgl64.Vec3{radius, radius, radius}

	return AABB{
		Min: position.Sub(radiusVec),
		Max: position.Add(radiusVec),
	}
}

// Sphere primitive, centered on its local origin
type Sphere struct {
	Radius float64
}

func (s Sphere) Type() GeometryType { return GeometryTypeSphere }

func (s Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return safeNormalize(direction).Mul(s.Radius)
}

func (s Sphere) Inertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r², identique sur les trois axes
	i := 0.4 * mass * s.Radius * s.Radius

	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

func (s Sphere) Mass(density float64) float64 {
	return density * (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)
}

func (s Sphere) BoundingRadius() float64 { return s.Radius }

func (s Sphere) AABB(transform Transform) AABB {
	return radiusAABB(transform.Position, s.Radius)
}

// Box primitive defined by its half-extents
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b Box) Type() GeometryType { return GeometryTypeBox }

func (b Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

func (b Box) Inertia(mass float64) mgl64.Mat3 {
	// Dimensions complètes
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (dimension1² + dimension2²)
	factor := mass / 12.0
	ix := factor * (y*y + z*z)
	iy := factor * (x*x + z*z)
	iz := factor * (x*x + y*y)

	return mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
}

func (b Box) Mass(density float64) float64 {
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b Box) BoundingRadius() float64 { return b.HalfExtents.Len() }

func (b Box) AABB(transform Transform) AABB {
	// Les 8 coins de la boîte en espace local
	corners := [8]mgl64.Vec3{
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
	}

	worldCorner := transform.Rotation.Rotate(corners[0]).Add(transform.Position)
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = transform.Rotation.Rotate(corners[i]).Add(transform.Position)

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	return AABB{Min: min, Max: max}
}

// Cylinder primitive, axis along local Y
type Cylinder struct {
	Radius     float64
	HalfHeight float64
}

func (c Cylinder) Type() GeometryType { return GeometryTypeCylinder }

func (c Cylinder) Support(direction mgl64.Vec3) mgl64.Vec3 {
	radial := mgl64.Vec3{direction.X(), 0, direction.Z()}
	radialLen := radial.Len()

	var point mgl64.Vec3
	if radialLen > directionEpsilon {
		point = radial.Mul(c.Radius / radialLen)
	}

	if direction.Y() < 0 {
		point[1] = -c.HalfHeight
	} else {
		point[1] = c.HalfHeight
	}

	return point
}

func (c Cylinder) Inertia(mass float64) mgl64.Mat3 {
	h := c.HalfHeight * 2
	r2 := c.Radius * c.Radius

	// Axe du cylindre : I = (1/2) m r² ; axes transverses : (m/12)(3r² + h²)
	iy := 0.5 * mass * r2
	it := (mass / 12.0) * (3.0*r2 + h*h)

	return mgl64.Mat3{
		it, 0, 0,
		0, iy, 0,
		0, 0, it,
	}
}

func (c Cylinder) Mass(density float64) float64 {
	return density * math.Pi * c.Radius * c.Radius * (c.HalfHeight * 2)
}

func (c Cylinder) BoundingRadius() float64 {
	return math.Hypot(c.Radius, c.HalfHeight)
}

func (c Cylinder) AABB(transform Transform) AABB {
	return radiusAABB(transform.Position, c.BoundingRadius())
}

// Cone primitive, axis along local Y, apex at +HalfHeight, base at -HalfHeight
type Cone struct {
	Radius     float64
	HalfHeight float64
}

func (c Cone) Type() GeometryType { return GeometryTypeCone }

func (c Cone) Support(direction mgl64.Vec3) mgl64.Vec3 {
	apex := mgl64.Vec3{0, c.HalfHeight, 0}

	rim := mgl64.Vec3{0, -c.HalfHeight, 0}
	radial := mgl64.Vec3{direction.X(), 0, direction.Z()}
	radialLen := radial.Len()
	if radialLen > directionEpsilon {
		rim = rim.Add(radial.Mul(c.Radius / radialLen))
	}

	if direction.Dot(apex) > direction.Dot(rim) {
		return apex
	}

	return rim
}

func (c Cone) Inertia(mass float64) mgl64.Mat3 {
	h := c.HalfHeight * 2
	r2 := c.Radius * c.Radius

	// Cône plein, autour du centre géométrique
	iy := (3.0 / 10.0) * mass * r2
	it := mass * ((3.0/20.0)*r2 + (3.0/80.0)*h*h)

	return mgl64.Mat3{
		it, 0, 0,
		0, iy, 0,
		0, 0, it,
	}
}

func (c Cone) Mass(density float64) float64 {
	return density * math.Pi * c.Radius * c.Radius * (c.HalfHeight * 2) / 3.0
}

func (c Cone) BoundingRadius() float64 {
	return math.Hypot(c.Radius, c.HalfHeight)
}

func (c Cone) AABB(transform Transform) AABB {
	return radiusAABB(transform.Position, c.BoundingRadius())
}

// Ellipsoid primitive with per-axis radii
type Ellipsoid struct {
	Radii mgl64.Vec3
}

func (e Ellipsoid) Type() GeometryType { return GeometryTypeEllipsoid }

func (e Ellipsoid) Support(direction mgl64.Vec3) mgl64.Vec3 {
	n := safeNormalize(direction)

	// support = (a²nx, b²ny, c²nz) / |(a·nx, b·ny, c·nz)|
	a, b, c := e.Radii.X(), e.Radii.Y(), e.Radii.Z()
	scaled := mgl64.Vec3{a * n.X(), b * n.Y(), c * n.Z()}
	length := scaled.Len()
	if length < directionEpsilon {
		return mgl64.Vec3{a, 0, 0}
	}

	return mgl64.Vec3{a * a * n.X(), b * b * n.Y(), c * c * n.Z()}.Mul(1.0 / length)
}

func (e Ellipsoid) Inertia(mass float64) mgl64.Mat3 {
	a2 := e.Radii.X() * e.Radii.X()
	b2 := e.Radii.Y() * e.Radii.Y()
	c2 := e.Radii.Z() * e.Radii.Z()

	factor := mass / 5.0

	return mgl64.Mat3{
		factor * (b2 + c2), 0, 0,
		0, factor * (a2 + c2), 0,
		0, 0, factor * (a2 + b2),
	}
}

func (e Ellipsoid) Mass(density float64) float64 {
	return density * (4.0 / 3.0) * math.Pi * e.Radii.X() * e.Radii.Y() * e.Radii.Z()
}

func (e Ellipsoid) BoundingRadius() float64 {
	return math.Max(e.Radii.X(), math.Max(e.Radii.Y(), e.Radii.Z()))
}

func (e Ellipsoid) AABB(transform Transform) AABB {
	return radiusAABB(transform.Position, e.BoundingRadius())
}

// Triangle primitive, vertices in the local frame
type Triangle struct {
	A, B, C mgl64.Vec3
}

func (t Triangle) Type() GeometryType { return GeometryTypeTriangle }

func (t Triangle) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := t.A
	bestDot := direction.Dot(t.A)

	if dot := direction.Dot(t.B); dot > bestDot {
		best, bestDot = t.B, dot
	}
	if dot := direction.Dot(t.C); dot > bestDot {
		best = t.C
	}

	return best
}

func (t Triangle) Inertia(mass float64) mgl64.Mat3 {
	// Lame mince, approximée par trois masses ponctuelles m/3 au sommets,
	// autour du barycentre
	centroid := t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)

	var inertia mgl64.Mat3
	for _, vertex := range []mgl64.Vec3{t.A, t.B, t.C} {
		r := vertex.Sub(centroid)
		d2 := r.Dot(r)

		pointInertia := mgl64.Ident3().Mul(d2).Sub(outerProduct(r, r))
		inertia = inertia.Add(pointInertia.Mul(mass / 3.0))
	}

	return inertia
}

// Mass treats the triangle as a surface: density is per unit area
func (t Triangle) Mass(density float64) float64 {
	area := t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Len() * 0.5

	return density * area
}

func (t Triangle) BoundingRadius() float64 {
	return math.Max(t.A.Len(), math.Max(t.B.Len(), t.C.Len()))
}

func (t Triangle) AABB(transform Transform) AABB {
	worldVertex := transform.Rotation.Rotate(t.A).Add(transform.Position)
	min := worldVertex
	max := worldVertex

	for _, vertex := range []mgl64.Vec3{t.B, t.C} {
		worldVertex = transform.Rotation.Rotate(vertex).Add(transform.Position)

		for axis := 0; axis < 3; axis++ {
			min[axis] = math.Min(min[axis], worldVertex[axis])
			max[axis] = math.Max(max[axis], worldVertex[axis])
		}
	}

	return AABB{Min: min, Max: max}
}

func outerProduct(a, b mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3{
		a.X() * b.X(), a.Y() * b.X(), a.Z() * b.X(),
		a.X() * b.Y(), a.Y() * b.Y(), a.Z() * b.Y(),
		a.X() * b.Z(), a.Y() * b.Z(), a.Z() * b.Z(),
	}
}
