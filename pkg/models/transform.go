package models

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// EmptyBounds returns a box that any point will replace on Extend.
func EmptyBounds() Bounds {
	inf := float32(math.Inf(1))
	return Bounds{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// BoundsOf computes the bounding box of points.
func BoundsOf(points []mgl32.Vec3) Bounds {
	b := EmptyBounds()
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// Extend grows the box to contain p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Size returns the extent along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	if b.Empty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the center of the box.
func (b Bounds) Center() mgl32.Vec3 {
	if b.Empty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// scale uniformly scales the raw vertices so the largest extent equals maxDim.
func (b *builder) scale(maxDim float32) {
	if len(b.vertices) < 2 {
		return
	}
	box := BoundsOf(b.vertices)
	size := box.Size()
	largest := max(size[0], size[1], size[2])
	if largest <= 0 || maxDim <= 0 {
		b.log.Warn("cannot scale model", zap.Float32("largest_extent", largest), zap.Float32("max_dimension", maxDim))
		return
	}

	f := maxDim / largest
	for i, v := range b.vertices {
		b.vertices[i] = v.Mul(f)
	}
	b.bounds = Bounds{Min: box.Min.Mul(f), Max: box.Max.Mul(f)}
}

// translate moves the raw vertices so the bounding box is centered on origin.
func (b *builder) translate(origin mgl32.Vec3) {
	if len(b.vertices) < 2 {
		return
	}
	box := BoundsOf(b.vertices)
	d := origin.Sub(box.Center())
	for i, v := range b.vertices {
		b.vertices[i] = v.Add(d)
	}
	b.bounds = Bounds{Min: box.Min.Add(d), Max: box.Max.Add(d)}
}
