package models

import "cmp"

// Absent marks a texcoord or normal index that is not present.
const Absent = -1

// Element is one face-vertex: indices into the raw position, texcoord and
// normal arrays. Before resolution the fields hold OBJ indices as written
// (1-based, negative, or 0 for "not given").
type Element struct {
	V, VT, VN int
}

// Compare orders elements lexicographically by V, VT, VN. It returns -1, 0 or 1.
func (e Element) Compare(o Element) int {
	switch {
	case e.V != o.V:
		return cmp.Compare(e.V, o.V)
	case e.VT != o.VT:
		return cmp.Compare(e.VT, o.VT)
	default:
		return cmp.Compare(e.VN, o.VN)
	}
}

// Triangle is three resolved elements in file winding order.
type Triangle [3]Element

// fan triangulates a polygon around its first vertex:
// (v0, v[i], v[i+1]) for i in 1..n-2. It returns nil for fewer than 3 elements.
func fan(elems []Element) []Triangle {
	if len(elems) < 3 {
		return nil
	}
	tris := make([]Triangle, 0, len(elems)-2)
	for i := 1; i < len(elems)-1; i++ {
		tris = append(tris, Triangle{elems[0], elems[i], elems[i+1]})
	}
	return tris
}
