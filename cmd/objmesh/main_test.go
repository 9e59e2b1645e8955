package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
)

const quadOBJ = `
mtllib quad.mtl
o quad
usemtl red
v 0 0 0
v 2 0 0
v 2 2 0
v 0 2 0
f 1 2 3 4
`

const quadMTL = `
newmtl red
Kd 1 0 0
`

func writeModel(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{"quad.obj": quadOBJ, "quad.mtl": quadMTL} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	dir := writeModel(t)

	out, err := execute(t, "info", filepath.Join(dir, "quad.obj"), "--center")
	if err != nil {
		t.Fatalf("info: %v\n%s", err, out)
	}

	for _, want := range []string{
		"Vertices:   4",
		"Triangles:  2",
		"Normals:    no",
		"Center:     (0.000, 0.000, 0.000)",
		"Object quad",
		"Material red (defined): 2 triangles",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoSharesMaterialsAcrossModels(t *testing.T) {
	dir := writeModel(t)
	reuse := filepath.Join(dir, "reuse.obj")
	if err := os.WriteFile(reuse, []byte("usemtl red\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	quad := filepath.Join(dir, "quad.obj")

	tests := []struct {
		name string
		flag string
		want string
	}{
		{"isolated loads", "", "Material red (default): 1 triangles"},
		{"keep materials", "--keep-materials", "Material red (defined): 1 triangles"},
		{"global materials", "--global-materials", "Material red (defined): 1 triangles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"info", quad, reuse}
			if tt.flag != "" {
				args = append(args, tt.flag)
			}
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("info: %v\n%s", err, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	dir := writeModel(t)
	outPath := filepath.Join(dir, "quad.glb")

	out, err := execute(t, "convert", filepath.Join(dir, "quad.obj"), outPath, "--max-dim", "1")
	if err != nil {
		t.Fatalf("convert: %v\n%s", err, out)
	}

	doc, err := gltf.Open(outPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	if len(doc.Nodes) != 1 || doc.Nodes[0].Name != "quad" {
		t.Errorf("nodes = %+v, want one node named quad", doc.Nodes)
	}
	pos := doc.Accessors[doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION]]
	if len(pos.Max) != 3 || pos.Max[0] != 1 {
		t.Errorf("position max = %v, want x scaled to 1", pos.Max)
	}
}

func TestConvertSTL(t *testing.T) {
	dir := writeModel(t)
	outPath := filepath.Join(dir, "quad.stl")

	if out, err := execute(t, "convert", filepath.Join(dir, "quad.obj"), outPath); err != nil {
		t.Fatalf("convert: %v\n%s", err, out)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 84+2*50 {
		t.Errorf("stl size = %d, want %d", info.Size(), 84+2*50)
	}
}

func TestConvertRejectsWrongExtension(t *testing.T) {
	dir := writeModel(t)
	if _, err := execute(t, "convert", filepath.Join(dir, "quad.obj"), filepath.Join(dir, "quad.fbx")); err == nil {
		t.Error("expected error for unsupported output format")
	}
}

func TestInfoUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.stl")
	if err := os.WriteFile(path, []byte("solid x\nendsolid x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "info", path); err == nil {
		t.Error("expected error for unsupported format")
	}
}
