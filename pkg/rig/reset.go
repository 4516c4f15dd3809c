package rig

// Reset puts every bone of the region back to its rest rotation. Resetting
// Head also zeroes every morph weight of every tracked mesh. Reset is
// instantaneous and idempotent.
func (s *Session) Reset(r Region) {
	g := s.Group(r)
	for i, b := range g.Bones {
		b.Rotation = g.Rest[i]
	}
	if r == Head {
		for _, m := range s.Meshes {
			m.Zero()
		}
	}
}

// ResetAll resets every region.
func (s *Session) ResetAll() {
	for _, r := range Regions {
		s.Reset(r)
	}
}
