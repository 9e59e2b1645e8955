package models

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMeshClone(t *testing.T) {
	mesh := loadString(t, NewOBJLoader(), "v 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl m\nf 1 2 3\n")
	mesh.Materials["m"] = &Material{Name: "m", Kd: mgl32.Vec3{1, 0, 0}}

	clone := mesh.Clone()

	// Modify clone
	clone.Vertices[0] = 99
	clone.Objects[0].Groups[0].MaterialGroups[0].Indices[0] = 2
	clone.Materials["m"].Kd = mgl32.Vec3{0, 1, 0}

	if mesh.Vertices[0] == 99 {
		t.Error("clone modified original vertices")
	}
	if mesh.Objects[0].Groups[0].MaterialGroups[0].Indices[0] != 0 {
		t.Error("clone modified original indices")
	}
	if mesh.Materials["m"].Kd != (mgl32.Vec3{1, 0, 0}) {
		t.Error("clone modified original material")
	}
	if clone.Objects[0].Groups[0].MaterialGroups[0].Material != clone.Materials["m"] {
		t.Error("clone material groups should bind the clone's materials")
	}
}

func TestMeshTrim(t *testing.T) {
	mesh := NewMesh("trim")
	mesh.Vertices = []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	mesh.Objects = []*Object{
		{Name: "empty"},
		{Name: "full", Groups: []*Group{
			{Name: "hollow", MaterialGroups: []*MaterialGroup{{Name: "a"}}},
			{Name: "solid", MaterialGroups: []*MaterialGroup{
				{Name: "a"},
				{Name: "b", Indices: []uint32{0, 1, 2}},
			}},
		}},
	}

	mesh.Trim()

	if len(mesh.Objects) != 1 || mesh.Objects[0].Name != "full" {
		t.Fatalf("objects after trim = %+v", mesh.Objects)
	}
	groups := mesh.Objects[0].Groups
	if len(groups) != 1 || groups[0].Name != "solid" {
		t.Fatalf("groups after trim = %+v", groups)
	}
	if len(groups[0].MaterialGroups) != 1 || groups[0].MaterialGroups[0].Name != "b" {
		t.Errorf("material groups after trim = %+v", groups[0].MaterialGroups)
	}
}

func TestMeshQueries(t *testing.T) {
	mesh := loadString(t, NewOBJLoader(), "v -1 0 0\nv 3 0 0\nv -1 2 4\nf 1 2 3\n")

	if got := mesh.Center(); got != (mgl32.Vec3{1, 1, 2}) {
		t.Errorf("Center() = %v, want (1,1,2)", got)
	}
	if got := mesh.Size(); got != (mgl32.Vec3{4, 2, 4}) {
		t.Errorf("Size() = %v, want (4,2,4)", got)
	}
	if got := mesh.CenteredTranslation(); got != (mgl32.Vec3{-1, -1, -2}) {
		t.Errorf("CenteredTranslation() = %v, want (-1,-1,-2)", got)
	}

	tests := []struct {
		w, h, d float32
		want    float32
	}{
		{8, 8, 8, 2},
		{2, 8, 8, 0.5},
		{8, 1, 8, 0.5},
		{8, 8, 2, 0.5},
	}
	for _, tt := range tests {
		if got := mesh.ScaleFactor(tt.w, tt.h, tt.d); got != tt.want {
			t.Errorf("ScaleFactor(%v, %v, %v) = %v, want %v", tt.w, tt.h, tt.d, got, tt.want)
		}
	}
}

func TestScaleFactorFlatAxes(t *testing.T) {
	mesh := NewMesh("flat")
	mesh.BoundsMax = mgl32.Vec3{2, 0, 0}
	if got := mesh.ScaleFactor(4, 4, 4); got != 2 {
		t.Errorf("ScaleFactor = %v, want 2", got)
	}

	point := NewMesh("point")
	if got := point.ScaleFactor(4, 4, 4); got != 1 {
		t.Errorf("ScaleFactor of a point = %v, want 1", got)
	}
}

func TestCalculateBounds(t *testing.T) {
	mesh := NewMesh("bounds")
	mesh.Vertices = []float32{0, 0, 0, 2, 0, 0, 0, 3, 0}
	mesh.CalculateBounds()

	if mesh.BoundsMin != (mgl32.Vec3{0, 0, 0}) || mesh.BoundsMax != (mgl32.Vec3{2, 3, 0}) {
		t.Errorf("bounds = %v..%v, want (0,0,0)..(2,3,0)", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Mesh)
		wantErr bool
	}{
		{"valid", func(m *Mesh) {}, false},
		{"short normals", func(m *Mesh) { m.Normals = []float32{0, 0, 1} }, true},
		{"short texcoords", func(m *Mesh) { m.TexCoords = []float32{0, 0} }, true},
		{"partial triangle", func(m *Mesh) {
			mg := m.Objects[0].Groups[0].MaterialGroups[0]
			mg.Indices = mg.Indices[:2]
		}, true},
		{"index out of range", func(m *Mesh) {
			m.Objects[0].Groups[0].MaterialGroups[0].Indices[2] = 3
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := loadString(t, NewOBJLoader(), "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
			tt.mutate(mesh)
			if err := mesh.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestElementCompare(t *testing.T) {
	elems := []Element{{2, 0, 0}, {1, 2, 3}, {1, 2, Absent}, {1, Absent, 5}}
	slices.SortFunc(elems, Element.Compare)

	want := []Element{{1, Absent, 5}, {1, 2, Absent}, {1, 2, 3}, {2, 0, 0}}
	if !slices.Equal(elems, want) {
		t.Errorf("sorted = %v, want %v", elems, want)
	}
	if (Element{1, 2, 3}).Compare(Element{1, 2, 3}) != 0 {
		t.Error("equal elements should compare as 0")
	}
}

func TestFan(t *testing.T) {
	if fan([]Element{{V: 0}, {V: 1}}) != nil {
		t.Error("fan of 2 elements should be nil")
	}
	tris := fan([]Element{{V: 0}, {V: 1}, {V: 2}, {V: 3}})
	want := []Triangle{
		{{V: 0}, {V: 1}, {V: 2}},
		{{V: 0}, {V: 2}, {V: 3}},
	}
	if !slices.Equal(tris, want) {
		t.Errorf("fan = %v, want %v", tris, want)
	}
}
