// Package namespace is a small nested-map convenience for grouping
// human-readable diagnostics, such as the CLI's region listing by
// producer class. It is never consulted by the assembler or runner:
// the deterministic region naming rule in package graph replaced its
// only production role.
//
// Unlike the original's auto-vivifying attribute access, a Namespace
// here never creates a child on plain lookup: Create and Attach are
// the only ways to add structure.
package namespace

// Namespace is one node of a nested, explicitly constructed tree.
type Namespace struct {
	children map[string]*Namespace
	values   map[string]any
}

// New returns an empty root namespace.
func New() *Namespace {
	return &Namespace{
		children: make(map[string]*Namespace),
		values:   make(map[string]any),
	}
}

// Create walks path from this namespace, creating any child segment
// that does not yet exist, and returns the namespace at the end of
// path. Calling Create with no path returns the receiver itself.
func (n *Namespace) Create(path ...string) *Namespace {
	cur := n
	for _, seg := range path {
		child, ok := cur.children[seg]
		if !ok {
			child = New()
			cur.children[seg] = child
		}
		cur = child
	}
	return cur
}

// Attach records value under key on this namespace, overwriting any
// previous value at that key.
func (n *Namespace) Attach(key string, value any) {
	n.values[key] = value
}

// Get returns the value attached at key on this namespace, and
// whether it was present. It does not look at children.
func (n *Namespace) Get(key string) (any, bool) {
	v, ok := n.values[key]
	return v, ok
}

// Child returns the child namespace at seg, or nil if Create was never
// called for it. It does not create one, unlike the original's
// auto-vivifying attribute access.
func (n *Namespace) Child(seg string) *Namespace {
	return n.children[seg]
}

// Keys returns the names of all values directly attached to this
// namespace, in no particular order.
func (n *Namespace) Keys() []string {
	out := make([]string, 0, len(n.values))
	for k := range n.values {
		out = append(out, k)
	}
	return out
}

// ChildNames returns the names of all child namespaces created under
// this one, in no particular order.
func (n *Namespace) ChildNames() []string {
	out := make([]string, 0, len(n.children))
	for k := range n.children {
		out = append(out, k)
	}
	return out
}
