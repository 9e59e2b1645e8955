package models

import (
	"fmt"

	"go.uber.org/zap"
)

// resolveIndex converts OBJ 1-indexed (or negative) index to 0-indexed.
// Returns Absent if index was 0 (not specified). Negative indices count back
// from count, the number of entries parsed so far.
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return Absent
	}
	if idx < 0 {
		return count + idx // Negative indices count from end
	}
	return idx - 1 // Convert 1-indexed to 0-indexed
}

// resolve converts one raw face vertex against the arrays as they stand now.
// A missing or backward-out-of-range texcoord or normal disables that
// attribute for the whole mesh. Positions have no absent form.
func (b *builder) resolve(e Element) (Element, error) {
	v := resolveIndex(e.V, len(b.vertices))
	switch {
	case e.V == 0:
		return Element{}, fmt.Errorf("%w: vertex index 0 is not valid", ErrSyntax)
	case v < 0:
		return Element{}, fmt.Errorf("%w: vertex index %d out of range (%d vertices so far)",
			ErrSyntax, e.V, len(b.vertices))
	}

	vt := resolveIndex(e.VT, len(b.texCoords))
	if vt < 0 {
		if e.VT != 0 {
			b.dropTexCoords("texture coordinate index out of range", zap.Int("index", e.VT))
		} else {
			b.dropTexCoords("")
		}
		vt = Absent
	}

	vn := resolveIndex(e.VN, len(b.normals))
	if vn < 0 {
		if e.VN != 0 {
			b.dropNormals("normal index out of range", zap.Int("index", e.VN))
		} else {
			b.dropNormals("")
		}
		vn = Absent
	}

	return Element{V: v, VT: vt, VN: vn}, nil
}

// dropTexCoords latches texture coordinate suppression for this load. An
// empty reason means the attribute was simply not given.
func (b *builder) dropTexCoords(reason string, fields ...zap.Field) {
	if b.noTexCoords {
		return
	}
	b.noTexCoords = true
	if reason == "" {
		b.log.Debug("face without texture coordinates, texture coordinates disabled")
		return
	}
	b.log.Warn(reason+", texture coordinates disabled", fields...)
}

// dropNormals latches normal suppression for this load.
func (b *builder) dropNormals(reason string, fields ...zap.Field) {
	if b.noNormals {
		return
	}
	b.noNormals = true
	if reason == "" {
		b.log.Debug("face without normals, normals disabled")
		return
	}
	b.log.Warn(reason+", normals disabled", fields...)
}
