package avatar

// TrackingState is the set of regions the user has enabled. Legs is a
// sub-toggle of Body.
type TrackingState struct {
	Face  bool `json:"face"`
	Body  bool `json:"body"`
	Hands bool `json:"hands"`
	Legs  bool `json:"legs"`
}

// DefaultTracking enables every region.
func DefaultTracking() TrackingState {
	return TrackingState{Face: true, Body: true, Hands: true, Legs: true}
}

// TrackingPatch is a partial tracking update. Nil fields are unchanged.
type TrackingPatch struct {
	Face  *bool `json:"face,omitempty"`
	Body  *bool `json:"body,omitempty"`
	Hands *bool `json:"hands,omitempty"`
	Legs  *bool `json:"legs,omitempty"`
}

// Apply returns t with the patch applied.
func (p TrackingPatch) Apply(t TrackingState) TrackingState {
	if p.Face != nil {
		t.Face = *p.Face
	}
	if p.Body != nil {
		t.Body = *p.Body
	}
	if p.Hands != nil {
		t.Hands = *p.Hands
	}
	if p.Legs != nil {
		t.Legs = *p.Legs
	}
	return t
}
