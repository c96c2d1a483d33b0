package dashboard

import (
	"fmt"
	"strings"
	"sync"
)

// NavEntry is one navigation link together with its content container.
type NavEntry struct {
	Name    string
	Title   string
	Active  bool
	Visible bool
}

// View is a snapshot of the navigation state.
type View struct {
	Entries []NavEntry
	// Active is the active section, empty before the first Show.
	Active string
}

// Navigator tracks which section is active. It starts with none active.
type Navigator struct {
	mu       sync.Mutex
	sections []Section
	def      string
	active   string
}

// NewNavigator creates a Navigator over sections with the given default.
func NewNavigator(sections []Section, def string) *Navigator {
	return &Navigator{sections: sections, def: def}
}

// Show makes section the only active and visible entry.
func (n *Navigator) Show(section string) (View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.known(section) {
		return n.view(), fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	n.active = section
	return n.view(), nil
}

// Current resolves the section to display from a URL fragment, falling back
// to the active entry and then the default.
func (n *Navigator) Current(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	n.mu.Lock()
	defer n.mu.Unlock()
	if fragment != "" && n.known(fragment) {
		return fragment
	}
	if n.active != "" {
		return n.active
	}
	return n.def
}

// Snapshot returns the current navigation state.
func (n *Navigator) Snapshot() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view()
}

func (n *Navigator) view() View {
	v := View{Active: n.active, Entries: make([]NavEntry, len(n.sections))}
	for i, s := range n.sections {
		on := s.Name == n.active
		v.Entries[i] = NavEntry{Name: s.Name, Title: s.Title, Active: on, Visible: on}
	}
	return v
}

func (n *Navigator) known(name string) bool {
	for _, s := range n.sections {
		if s.Name == name {
			return true
		}
	}
	return false
}
