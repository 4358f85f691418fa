package navigation

// Sections is the expanded/collapsed flag per sidebar section. Each key is
// independent, so any number of sections may be open at once.
type Sections map[string]bool

// DefaultSections is the state a sidebar mounts with.
func DefaultSections() Sections {
	return Sections{
		SectionSecondary: true,
		SectionAccount:   false,
	}
}

// Expanded reports whether id is open. Unknown ids are closed.
func (s Sections) Expanded(id string) bool {
	return s[id]
}

// Toggle flips id and returns its new state.
func (s Sections) Toggle(id string) bool {
	s[id] = !s[id]
	return s[id]
}
