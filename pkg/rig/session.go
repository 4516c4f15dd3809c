package rig

import "github.com/google/uuid"

// Session is one bound avatar: resolved bone groups with their rest poses and
// the resolved morph meshes. A Session is never patched; rebinding produces a
// new one.
type Session struct {
	ID     string
	Root   *Node
	Meshes []*Mesh

	groups    [regionCount]*Group
	handRoots [regionCount]*Node
	index     *Index
}

// Group returns the bone group of a region. It is never nil for a valid
// region; an unresolved region has an empty group.
func (s *Session) Group(r Region) *Group {
	if r < 0 || r >= regionCount {
		return &Group{Region: r}
	}
	return s.groups[r]
}

// HandRoot returns the Hand bone whose descendants form the given hand
// region.
func (s *Session) HandRoot(r Region) (*Node, bool) {
	if r != LeftHand && r != RightHand {
		return nil, false
	}
	n := s.handRoots[r]
	return n, n != nil
}

// Lookup resolves a name with the rig's name index.
func (s *Session) Lookup(name string) (*Node, bool) {
	return s.index.Lookup(name)
}

// Exact resolves a name without prefix or case fallbacks.
func (s *Session) Exact(name string) (*Node, bool) {
	return s.index.Exact(name)
}

// Summary reports the number of resolved bones per region and the number of
// morph meshes.
func (s *Session) Summary() map[string]int {
	out := make(map[string]int, len(Regions)+1)
	for _, r := range Regions {
		out[r.String()] = s.Group(r).Len()
	}
	out["meshes"] = len(s.Meshes)
	return out
}

func newSessionID() string {
	return uuid.NewString()
}
