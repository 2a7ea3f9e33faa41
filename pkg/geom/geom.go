// Package geom provides the vector and transform math used by the habitat
// engine. It builds on the sdfx vector/matrix types (v3.Vec, sdf.M44) and is
// stateless: identical inputs always produce identical outputs.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec is the 3-vector type used throughout the engine.
type Vec = v3.Vec

// V is a shorthand constructor for a Vec.
func V(x, y, z float64) Vec {
	return Vec{X: x, Y: y, Z: z}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec) float64 {
	return a.Sub(b).Length()
}

// NormalizeSafe returns the unit vector in the direction of v, or the zero
// vector if v has zero length. Normalizing a zero vector is defined
// behavior here, not a failure.
func NormalizeSafe(v Vec) Vec {
	if v.Length() == 0 {
		return Vec{}
	}
	return v.Normalize()
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RotateY rotates v around the Y axis by the given angle in degrees.
func RotateY(v Vec, deg float64) Vec {
	return sdf.RotateY(DegToRad(deg)).MulPosition(v)
}

// Transform maps module-local coordinates into world space. Rotation is
// applied around the Y axis only; the X and Z Euler components of a module's
// stored rotation are intentionally ignored. This matches the single-axis
// rotation the editor supports.
type Transform struct {
	Position  Vec
	RotationY float64 // degrees
}

// Matrix returns the full local-to-world matrix (rotate, then translate).
func (t Transform) Matrix() sdf.M44 {
	return sdf.Translate3d(t.Position).Mul(sdf.RotateY(DegToRad(t.RotationY)))
}

// Point maps a local position into world space.
func (t Transform) Point(local Vec) Vec {
	return RotateY(local, t.RotationY).Add(t.Position)
}

// Direction maps a local direction into world space and re-normalizes it.
// The result is always unit length (or zero for a zero input).
func (t Transform) Direction(local Vec) Vec {
	return NormalizeSafe(RotateY(local, t.RotationY))
}
