package avatar

import (
	"github.com/teslashibe/go-avatar/pkg/accessory"
)

// AddAccessory attaches a new accessory built from an asset to the default
// bone and returns it.
func (s *Session) AddAccessory(source string) accessory.Accessory {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := accessory.New(source)
	s.accessories.Add(a)
	return a
}

// UpdateAccessory applies a partial change to an accessory.
func (s *Session) UpdateAccessory(id string, p accessory.Patch) (accessory.Accessory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessories.Update(id, p)
}

// RemoveAccessory detaches and forgets an accessory.
func (s *Session) RemoveAccessory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessories.Remove(id)
}

// Accessory returns one accessory by id.
func (s *Session) Accessory(id string) (accessory.Accessory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessories.Get(id)
}

// Accessories returns the accessories of the current avatar.
func (s *Session) Accessories() []accessory.Accessory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessories.List()
}

// SetAccessories replaces the accessory layout, e.g. with one loaded from a
// store after an avatar change.
func (s *Session) SetAccessories(items []accessory.Accessory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessories.Replace(items)
}

// Bindings returns the accessory attachment table for the renderer.
func (s *Session) Bindings() []accessory.Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessories.Bindings()
}
