package rig

// Mesh is a morph-capable mesh: a list of named morph targets and their
// current weights.
type Mesh struct {
	Name    string
	Targets []string
	Weights []float64

	index map[string]int
}

// NewMesh creates a mesh with all target weights at zero.
func NewMesh(name string, targets []string) *Mesh {
	m := &Mesh{
		Name:    name,
		Targets: targets,
		Weights: make([]float64, len(targets)),
		index:   make(map[string]int, len(targets)),
	}
	for i, t := range targets {
		if _, dup := m.index[t]; !dup {
			m.index[t] = i
		}
	}
	return m
}

// TargetIndex returns the weight index of the named morph target.
func (m *Mesh) TargetIndex(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// SetWeight sets the named target's weight. It reports false when the mesh
// has no such target.
func (m *Mesh) SetWeight(name string, w float64) bool {
	i, ok := m.index[name]
	if !ok {
		return false
	}
	m.Weights[i] = w
	return true
}

// Weight returns the named target's weight.
func (m *Mesh) Weight(name string) (float64, bool) {
	i, ok := m.index[name]
	if !ok {
		return 0, false
	}
	return m.Weights[i], true
}

// Zero sets every weight to 0.
func (m *Mesh) Zero() {
	for i := range m.Weights {
		m.Weights[i] = 0
	}
}
