package interp

import "fmt"

// Scope is the nested lexical scope of spec §3: a name->value map, an
// optional parent, and an optional namespace name (non-empty iff this
// scope is a namespace root). Grounded on the teacher's scope/frame
// separation (breadchris-yaegi keeps a *scope per frame alongside a
// runtime value frame) generalized to our simpler map-per-scope model,
// and on t73fde-sx's Frame.parent walk in Environment.Resolve.
type Scope struct {
	data      map[string]Value
	parent    *Scope
	namespace string // "" unless this is a namespace root
}

// NewRootScope creates the "root" namespace scope with no parent.
func NewRootScope() *Scope {
	return &Scope{data: map[string]Value{}, namespace: "root"}
}

// NewNamespaceScope creates a namespace root whose parent is always the
// global root (spec §3 "Every namespace in the namespace registry has
// parent = root").
func NewNamespaceScope(name string, root *Scope) *Scope {
	return &Scope{data: map[string]Value{}, parent: root, namespace: name}
}

// NewChildScope creates a lexical frame (function call, progn-like block)
// with no namespace name.
func NewChildScope(parent *Scope) *Scope {
	return &Scope{data: map[string]Value{}, parent: parent}
}

func (s *Scope) IsNamespace() bool { return s.namespace != "" }
func (s *Scope) Namespace() string { return s.namespace }
func (s *Scope) Parent() *Scope     { return s.parent }

// Get looks up name in this scope only (no parent walk).
func (s *Scope) Get(name string) (Value, bool) {
	v, ok := s.data[name]
	return v, ok
}

// Set writes name in this scope only.
func (s *Scope) Set(name string, v Value) { s.data[name] = v }

// Delete removes name from this scope only (`undef`).
func (s *Scope) Delete(name string) { delete(s.data, name) }

// Lookup walks the parent chain, stopping at a namespace root with no
// parent or the global root (spec §3 "A lexical lookup walks parent
// pointers until it hits either a namespace root with no parent or the
// global root").
func (s *Scope) Lookup(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.data[name]; ok {
			return v, true
		}
	}
	return Nil, false
}

// SetExisting writes to the nearest ancestor scope that already defines
// name (`set`, spec §4.4); it reports false if name is unbound anywhere.
func (s *Scope) SetExisting(name string, v Value) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.data[name]; ok {
			cur.data[name] = v
			return true
		}
	}
	return false
}

func (s *Scope) String() string {
	if s.IsNamespace() {
		return fmt.Sprintf("#<scope ns=%s>", s.namespace)
	}
	return "#<scope>"
}
