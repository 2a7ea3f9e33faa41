package geom

import (
	"github.com/deadsy/sdfx/sdf"
)

// Box is an axis-aligned bounding box.
type Box = sdf.Box3

// BoxAt returns the axis-aligned box of the given size centered at center.
func BoxAt(center, size Vec) Box {
	half := size.MulScalar(0.5)
	return Box{Min: center.Sub(half), Max: center.Add(half)}
}

// Inflate grows the box by m on every side.
func Inflate(b Box, m float64) Box {
	d := Vec{X: m, Y: m, Z: m}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Overlaps reports whether two boxes overlap on all three axes
// simultaneously. Touching faces do not count as overlap.
func Overlaps(a, b Box) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y &&
		a.Min.Z < b.Max.Z && b.Min.Z < a.Max.Z
}

// Union returns the smallest box enclosing both a and b.
func Union(a, b Box) Box {
	return Box{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max)}
}

// Size returns the box extent along each axis.
func Size(b Box) Vec {
	return b.Max.Sub(b.Min)
}

// Volume returns the box volume, 0 for degenerate boxes.
func Volume(b Box) float64 {
	s := Size(b)
	if s.X <= 0 || s.Y <= 0 || s.Z <= 0 {
		return 0
	}
	return s.X * s.Y * s.Z
}

// Corners returns the 8 corner points of the box.
// Order: bottom face (-Y) counterclockwise from Min, then top face (+Y).
func Corners(b Box) [8]Vec {
	return [8]Vec{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}
