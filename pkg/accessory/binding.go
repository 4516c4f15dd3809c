package accessory

import (
	"fmt"

	"github.com/teslashibe/go-avatar/pkg/rig"
)

// Resolve finds the bone an accessory attaches to: an exact name match
// first, then the rig's fallback search (Mixamo prefix, case-insensitive).
func Resolve(a Accessory, s *rig.Session) (*rig.Node, bool) {
	if s == nil || a.BoneName == "" {
		return nil, false
	}
	if n, ok := s.Exact(a.BoneName); ok {
		return n, true
	}
	return s.Lookup(a.BoneName)
}

// Binding is one row of the attachment table handed to the renderer.
type Binding struct {
	Accessory Accessory `json:"accessory"`
	Bone      string    `json:"bone,omitempty"`
	Resolved  bool      `json:"resolved"`

	node *rig.Node
}

// Node returns the resolved bone, or nil.
func (b Binding) Node() *rig.Node {
	return b.node
}

// Table is the ordered set of accessories of one avatar and their current
// bone bindings. It is not safe for concurrent use.
type Table struct {
	items   []Accessory
	nodes   map[string]*rig.Node
	session *rig.Session
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{nodes: make(map[string]*rig.Node)}
}

// Rebind re-resolves every accessory against a new rig session.
func (t *Table) Rebind(s *rig.Session) {
	t.session = s
	for _, a := range t.items {
		t.resolve(a)
	}
}

// Replace swaps the table contents, e.g. after loading a saved layout.
func (t *Table) Replace(items []Accessory) {
	t.items = append([]Accessory(nil), items...)
	t.nodes = make(map[string]*rig.Node, len(items))
	for _, a := range t.items {
		t.resolve(a)
	}
}

// Add appends an accessory and resolves its bone.
func (t *Table) Add(a Accessory) {
	t.items = append(t.items, a)
	t.resolve(a)
}

// Get returns the accessory with the given id.
func (t *Table) Get(id string) (Accessory, bool) {
	i := t.find(id)
	if i < 0 {
		return Accessory{}, false
	}
	return t.items[i], true
}

// Update applies a patch. The bone is re-resolved only when the bone name
// changes.
func (t *Table) Update(id string, p Patch) (Accessory, error) {
	i := t.find(id)
	if i < 0 {
		return Accessory{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	prev := t.items[i]
	t.items[i] = p.Apply(prev)
	if t.items[i].BoneName != prev.BoneName {
		t.resolve(t.items[i])
	}
	return t.items[i], nil
}

// Remove deletes an accessory.
func (t *Table) Remove(id string) error {
	i := t.find(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	t.items = append(t.items[:i], t.items[i+1:]...)
	delete(t.nodes, id)
	return nil
}

// List returns a copy of the accessories in insertion order.
func (t *Table) List() []Accessory {
	return append([]Accessory(nil), t.items...)
}

// Len returns the number of accessories.
func (t *Table) Len() int {
	return len(t.items)
}

// Bindings returns the attachment table.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.items))
	for i, a := range t.items {
		n := t.nodes[a.ID]
		out[i] = Binding{Accessory: a, Resolved: n != nil, node: n}
		if n != nil {
			out[i].Bone = n.Name
		}
	}
	return out
}

func (t *Table) resolve(a Accessory) {
	if n, ok := Resolve(a, t.session); ok {
		t.nodes[a.ID] = n
		return
	}
	delete(t.nodes, a.ID)
}

func (t *Table) find(id string) int {
	for i, a := range t.items {
		if a.ID == id {
			return i
		}
	}
	return -1
}
