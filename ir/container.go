package ir

import (
	"sort"

	"mplcg/diag"
)

// Container is the namespace for every named object in the program:
// iteration in insertion order, lookup by name in at worst O(log N). The
// source uses intrusive tree/list structures with external compare
// functions; the clean model here is a single owning slice plus an
// auxiliary name-to-index map (§9 "Back-pointers and containers").
type Container struct {
	order []*Object       // insertion order; survives removal of earlier entries
	byIdx map[string]int  // name -> index into order
}

// NewContainer constructs an empty, ready-to-use Container.
func NewContainer() *Container {
	return &Container{byIdx: make(map[string]int)}
}

// Add inserts obj, keyed by its name. Fails with Unnamed if the object's
// name has never been set, DuplicateName if it's already present.
func (c *Container) Add(obj *Object) error {
	if obj.name == "" {
		return diag.Errorf(diag.Unnamed, "ir.Container.Add", "")
	}
	if _, exists := c.byIdx[obj.name]; exists {
		return diag.Errorf(diag.DuplicateName, "ir.Container.Add", obj.name)
	}
	c.byIdx[obj.name] = len(c.order)
	c.order = append(c.order, obj)
	return nil
}

// Find looks up an object by name.
func (c *Container) Find(name string) (*Object, error) {
	idx, ok := c.byIdx[name]
	if !ok {
		return nil, diag.Errorf(diag.NotFound, "ir.Container.Find", name)
	}
	return c.order[idx], nil
}

// Remove deletes a named object. Used exclusively by the liveness pass to
// drop dead temporaries; fails with NotFound otherwise.
func (c *Container) Remove(name string) error {
	idx, ok := c.byIdx[name]
	if !ok {
		return diag.Errorf(diag.NotFound, "ir.Container.Remove", name)
	}
	delete(c.byIdx, name)
	c.order = append(c.order[:idx], c.order[idx+1:]...)
	// Every index after idx shifted down by one.
	for name2, i := range c.byIdx {
		if i > idx {
			c.byIdx[name2] = i - 1
		}
	}
	return nil
}

// Iterate produces a restartable ordered sequence (insertion order, with
// prior removals compacted).
func (c *Container) Iterate() []*Object {
	out := make([]*Object, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of live objects in the container.
func (c *Container) Len() int { return len(c.order) }

// Names returns every object's name, in insertion order. Callers that want
// a deterministic-but-sorted view (e.g. debug dumps) should sort it
// themselves; Container never reorders for them.
func (c *Container) Names() []string {
	out := make([]string, len(c.order))
	for i, o := range c.order {
		out[i] = o.name
	}
	return out
}

// SortedNames is a convenience for diagnostics/tests that want a stable,
// content-independent ordering rather than insertion order.
func (c *Container) SortedNames() []string {
	out := c.Names()
	sort.Strings(out)
	return out
}
