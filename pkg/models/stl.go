package models

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// Binary STL layout: 80-byte header, uint32 triangle count, then per
// triangle a normal, three vertices (12 float32s) and a uint16 attribute.
const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// WriteSTL writes the mesh as binary STL. Material and texture data are
// dropped; facet normals are computed from the triangle winding.
func (m *Mesh) WriteSTL(w io.Writer) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid mesh: %w", err)
	}

	tris := m.TriangleCount()
	if uint64(tris) > math.MaxUint32 {
		return fmt.Errorf("too many triangles for STL: %d", tris)
	}

	bw := bufio.NewWriter(w)

	header := make([]byte, stlHeaderSize)
	copy(header, "objmesh "+m.Name)
	bw.Write(header)

	var buf [stlTriangleSize]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(tris))
	bw.Write(buf[:4])

	m.EachMaterialGroup(func(_ *Object, _ *Group, mg *MaterialGroup) {
		for i := 0; i+2 < len(mg.Indices); i += 3 {
			a, _, _ := m.GetVertex(int(mg.Indices[i]))
			b, _, _ := m.GetVertex(int(mg.Indices[i+1]))
			c, _, _ := m.GetVertex(int(mg.Indices[i+2]))

			putVec3(buf[0:], faceNormal(a, b, c))
			putVec3(buf[12:], a)
			putVec3(buf[24:], b)
			putVec3(buf[36:], c)
			binary.LittleEndian.PutUint16(buf[48:], 0)
			bw.Write(buf[:])
		}
	})

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write stl: %w", err)
	}
	return nil
}

// SaveSTL writes the mesh as a binary STL file.
func SaveSTL(m *Mesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create STL file: %w", err)
	}
	if err := m.WriteSTL(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// faceNormal returns the unit normal of a counter-clockwise triangle, or
// zero for a degenerate one.
func faceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{}
}

func putVec3(dst []byte, v mgl32.Vec3) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v[i]))
	}
}
