package dashboard

import "github.com/ziadkadry99/hydradash/internal/config"

// Section is one entry of the route table.
type Section struct {
	Name     string
	Title    string
	Endpoint string
}

// RouteTable maps section names to backend endpoints. It is fixed once built.
type RouteTable struct {
	sections []Section
	index    map[string]int
}

// NewRouteTable builds a route table from configuration, keeping its order.
// A later duplicate name replaces the earlier entry in place.
func NewRouteTable(cfgs []config.SectionConfig) RouteTable {
	t := RouteTable{index: make(map[string]int, len(cfgs))}
	for _, c := range cfgs {
		s := Section{Name: c.Name, Title: c.Title, Endpoint: c.Endpoint}
		if s.Title == "" {
			s.Title = s.Name
		}
		if i, ok := t.index[s.Name]; ok {
			t.sections[i] = s
			continue
		}
		t.index[s.Name] = len(t.sections)
		t.sections = append(t.sections, s)
	}
	return t
}

// Lookup returns the section with the given name.
func (t RouteTable) Lookup(name string) (Section, bool) {
	i, ok := t.index[name]
	if !ok {
		return Section{}, false
	}
	return t.sections[i], true
}

// Endpoint returns the backend endpoint for a section, or "" if unknown.
func (t RouteTable) Endpoint(name string) string {
	s, _ := t.Lookup(name)
	return s.Endpoint
}

// Names returns the section names in table order.
func (t RouteTable) Names() []string {
	names := make([]string, len(t.sections))
	for i, s := range t.sections {
		names[i] = s.Name
	}
	return names
}

// Sections returns a copy of the table entries.
func (t RouteTable) Sections() []Section {
	out := make([]Section, len(t.sections))
	copy(out, t.sections)
	return out
}
