package sequencer

// Section is one recorded segment of the procedure.
type Section struct {
	Name    string `json:"name"`
	Index   int    `json:"index"`
	Skipped bool   `json:"skipped"`
	// Payload references the external artifact for the section, for
	// example a rendered clip. The sequencer never inspects it.
	Payload any `json:"payload,omitempty"`
}

// Timeline is the ordered, finalized list of sections.
type Timeline []Section

// Names returns the section names in order.
func (tl Timeline) Names() []string {
	names := make([]string, len(tl))
	for i, s := range tl {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the first section with the given name.
func (tl Timeline) Lookup(name string) (Section, bool) {
	for _, s := range tl {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Skipped returns the number of sections marked skippable.
func (tl Timeline) Skipped() int {
	n := 0
	for _, s := range tl {
		if s.Skipped {
			n++
		}
	}
	return n
}
