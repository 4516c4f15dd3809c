package rig

import "fmt"

// Binder resolves canonical names against arbitrary rigs.
type Binder struct {
	names Names
}

// NewBinder creates a binder using the given name table.
func NewBinder(names Names) *Binder {
	return &Binder{names: names}
}

// Names returns the binder's name table.
func (b *Binder) Names() Names {
	return b.names
}

// Bind resolves every region and morph mesh under root and captures rest
// poses. The returned Session is fully built before Bind returns, and Bind
// never mutates root.
func (b *Binder) Bind(root *Node) (*Session, error) {
	if root == nil {
		return nil, ErrNilRig
	}
	if err := Validate(root); err != nil {
		return nil, err
	}

	ix := NewIndex(root)
	s := &Session{
		ID:    newSessionID(),
		Root:  root,
		index: ix,
	}

	for _, g := range []struct {
		region Region
		names  []string
	}{
		{Head, b.names.Head},
		{Body, b.names.Body},
		{Legs, b.names.Legs},
	} {
		bones, keys := resolveAll(ix, g.names)
		s.groups[g.region] = newGroup(g.region, bones, keys)
	}

	for _, side := range []struct {
		region Region
		name   string
	}{
		{LeftHand, b.names.LeftHand},
		{RightHand, b.names.RightHand},
	} {
		hand, ok := ix.Lookup(side.name)
		if !ok {
			s.groups[side.region] = newGroup(side.region, nil, nil)
			continue
		}
		s.handRoots[side.region] = hand
		bones := hand.Descendants()
		keys := make([]string, len(bones))
		for i, n := range bones {
			keys[i] = n.Name
		}
		s.groups[side.region] = newGroup(side.region, bones, keys)
	}

	for _, name := range b.names.Meshes {
		if n, ok := ix.Lookup(name); ok && n.Mesh != nil {
			s.Meshes = append(s.Meshes, n.Mesh)
		}
	}

	return s, nil
}

func resolveAll(ix *Index, names []string) ([]*Node, []string) {
	var (
		bones []*Node
		keys  []string
	)
	for _, name := range names {
		if n, ok := ix.Lookup(name); ok {
			bones = append(bones, n)
			keys = append(keys, name)
		}
	}
	return bones, keys
}

// Validate checks that every node under root is reached exactly once and
// that parent links agree with child lists.
func Validate(root *Node) error {
	if root == nil {
		return ErrNilRig
	}
	seen := make(map[*Node]bool)
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			return fmt.Errorf("%w: node %q reached twice", ErrNotTree, n.Name)
		}
		seen[n] = true
		for _, c := range n.Children {
			if c == nil {
				return fmt.Errorf("%w: nil child under %q", ErrNotTree, n.Name)
			}
			if c.Parent != n {
				return fmt.Errorf("%w: %q does not point back to parent %q", ErrNotTree, c.Name, n.Name)
			}
			stack = append(stack, c)
		}
	}
	return nil
}
