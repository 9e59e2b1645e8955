package models

import orderedmap "github.com/wk8/go-ordered-map/v2"

// The scene tree is kept in insertion-ordered maps so the compactor walks it
// in file order.

func getOrCreate[V any](om *orderedmap.OrderedMap[string, V], key string, mk func() V) V {
	if v, ok := om.Get(key); ok {
		return v
	}
	v := mk()
	om.Set(key, v)
	return v
}

// each calls fn for every value in insertion order.
func each[V any](om *orderedmap.OrderedMap[string, V], fn func(V) error) error {
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		if err := fn(pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// Parse-time scene tree: objects hold groups, groups hold material groups,
// material groups accumulate raw triangles.

type loaderMatGroup struct {
	material string
	faces    []Triangle
}

type loaderGroup struct {
	name      string
	matGroups *orderedmap.OrderedMap[string, *loaderMatGroup]
}

func newLoaderGroup(name string) *loaderGroup {
	return &loaderGroup{name: name, matGroups: orderedmap.New[string, *loaderMatGroup]()}
}

type loaderObject struct {
	name   string
	groups *orderedmap.OrderedMap[string, *loaderGroup]
}

func newLoaderObject(name string) *loaderObject {
	return &loaderObject{name: name, groups: orderedmap.New[string, *loaderGroup]()}
}

// pendingSwitch records o/g/usemtl directives that take effect at the next
// face. Names persist after a switch is applied; only the flags reset.
type pendingSwitch struct {
	object, group, material          string
	hasObject, hasGroup, hasMaterial bool
}

// cursor points at the live nodes faces are currently appended to.
type cursor struct {
	object   *loaderObject
	group    *loaderGroup
	matGroup *loaderMatGroup
}
