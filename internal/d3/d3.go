// Package d3 has small 3D vector and box helpers shared by the renderer.
package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Elem returns a vector with all components set to v.
func Elem(v float64) r3.Vec {
	return r3.Vec{X: v, Y: v, Z: v}
}

// MinElem returns the component-wise minimum of two vectors.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem returns the component-wise maximum of two vectors.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// AbsElem returns the component-wise absolute value of a vector.
func AbsElem(a r3.Vec) r3.Vec {
	return r3.Vec{X: math.Abs(a.X), Y: math.Abs(a.Y), Z: math.Abs(a.Z)}
}

// Max returns the largest component of a vector.
func Max(a r3.Vec) float64 {
	return math.Max(a.Z, math.Max(a.X, a.Y))
}

// EqualWithin compares vectors component-wise within an absolute tolerance.
func EqualWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// Box is a 3d bounding box.
type Box r3.Box

// Size returns the size of the box.
func (a Box) Size() r3.Vec { return r3.Sub(a.Max, a.Min) }

// Center returns the center of the box.
func (a Box) Center() r3.Vec { return r3.Add(a.Min, r3.Scale(0.5, a.Size())) }

// Extend returns a box enclosing both a and b.
func (a Box) Extend(b Box) Box {
	return Box{Min: MinElem(a.Min, b.Min), Max: MaxElem(a.Max, b.Max)}
}

// ScaleAboutCenter returns the box scaled by k about its center.
func (a Box) ScaleAboutCenter(k float64) Box {
	half := r3.Scale(0.5*k, a.Size())
	c := a.Center()
	return Box{Min: r3.Sub(c, half), Max: r3.Add(c, half)}
}

// Contains reports whether v lies in the box, bounds included.
func (a Box) Contains(v r3.Vec) bool {
	return a.Min.X <= v.X && a.Min.Y <= v.Y && a.Min.Z <= v.Z &&
		v.X <= a.Max.X && v.Y <= a.Max.Y && v.Z <= a.Max.Z
}

// Empty reports whether the box has zero or negative extent on any axis.
func (a Box) Empty() bool {
	return a.Min.X >= a.Max.X || a.Min.Y >= a.Max.Y || a.Min.Z >= a.Max.Z
}
