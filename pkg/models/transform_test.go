package models

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const boxOBJ = `
v 0 0 0
v 4 0 0
v 4 2 0
v 0 2 1
f 1 2 3 4
`

func loadBox(t *testing.T, opts LoadOptions) *Mesh {
	t.Helper()
	l, _ := observedLoader()
	mesh, err := l.LoadWith(strings.NewReader(boxOBJ), "box.obj", opts)
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	return mesh
}

func TestScaleToFit(t *testing.T) {
	mesh := loadBox(t, LoadOptions{MaxDimension: 2})

	if !mesh.Size().ApproxEqual(mgl32.Vec3{2, 1, 0.5}) {
		t.Errorf("Size() = %v, want (2,1,0.5)", mesh.Size())
	}
	p, _, _ := mesh.GetVertex(1)
	if !p.ApproxEqual(mgl32.Vec3{2, 0, 0}) {
		t.Errorf("vertex 1 = %v, want (2,0,0)", p)
	}
}

func TestTranslateToOrigin(t *testing.T) {
	mesh := loadBox(t, LoadOptions{Origin: &mgl32.Vec3{}})

	if !mesh.Center().ApproxEqual(mgl32.Vec3{}) {
		t.Errorf("Center() = %v, want origin", mesh.Center())
	}
	if !mesh.BoundsMin.ApproxEqual(mgl32.Vec3{-2, -1, -0.5}) {
		t.Errorf("BoundsMin = %v, want (-2,-1,-0.5)", mesh.BoundsMin)
	}
}

func TestScaleThenTranslate(t *testing.T) {
	origin := mgl32.Vec3{1, 1, 1}
	mesh := loadBox(t, LoadOptions{MaxDimension: 2, Origin: &origin})

	// Origin is expressed in scaled units.
	if !mesh.Center().ApproxEqual(origin) {
		t.Errorf("Center() = %v, want %v", mesh.Center(), origin)
	}
	if !mesh.Size().ApproxEqual(mgl32.Vec3{2, 1, 0.5}) {
		t.Errorf("Size() = %v, want (2,1,0.5)", mesh.Size())
	}
	if !mesh.BoundsMin.ApproxEqual(mgl32.Vec3{0, 0.5, 0.75}) {
		t.Errorf("BoundsMin = %v, want (0,0.5,0.75)", mesh.BoundsMin)
	}
}

func TestTransformNeedsTwoVertices(t *testing.T) {
	b := newBuilder("one.obj", zap.NewNop())
	b.Vertex(mgl32.Vec3{3, 3, 3})

	b.scale(10)
	b.translate(mgl32.Vec3{})
	if b.vertices[0] != (mgl32.Vec3{3, 3, 3}) {
		t.Errorf("single vertex moved to %v", b.vertices[0])
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}})
	if b.Min != (mgl32.Vec3{0, 0, 0}) || b.Max != (mgl32.Vec3{2, 3, 0}) {
		t.Errorf("BoundsOf = %+v, want min (0,0,0) max (2,3,0)", b)
	}

	empty := EmptyBounds()
	if !empty.Empty() {
		t.Error("EmptyBounds() should be empty")
	}
	if empty.Size() != (mgl32.Vec3{}) || empty.Center() != (mgl32.Vec3{}) {
		t.Error("empty bounds should report zero size and center")
	}
}
