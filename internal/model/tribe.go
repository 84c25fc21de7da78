package model

// Tribe is a federally recognized tribal nation tracked by the registry.
type Tribe struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	States     []string `json:"states"`                // USPS codes for every state the land base touches
	GeoClasses []string `json:"geo_classes,omitempty"` // geographic classification codes, e.g. "coastal", "arid_southwest"
}

// InState reports whether the tribe's land base touches the given state code.
func (t Tribe) InState(code string) bool {
	for _, s := range t.States {
		if s == code {
			return true
		}
	}
	return false
}

// Member is one congressional delegation member.
type Member struct {
	BioguideID string   `json:"bioguide_id,omitempty"`
	Name       string   `json:"name"`
	State      string   `json:"state"`
	Party      string   `json:"party,omitempty"`
	Committees []string `json:"committees,omitempty"`
}

// Identity returns the stable identifier for overlap matching: the bioguide
// ID when present, otherwise the display name.
func (m Member) Identity() string {
	if m.BioguideID != "" {
		return m.BioguideID
	}
	return m.Name
}

// Delegation is the cached congressional delegation for one tribe.
type Delegation struct {
	TribeID         string   `json:"tribe_id"`
	Senators        []Member `json:"senators"`
	Representatives []Member `json:"representatives"`
	Source          string   `json:"source,omitempty"`
	AsOf            string   `json:"as_of,omitempty"`
}

// Empty reports whether the delegation carries no members at all.
func (d *Delegation) Empty() bool {
	return d == nil || (len(d.Senators) == 0 && len(d.Representatives) == 0)
}
