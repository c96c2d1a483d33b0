package dashboard

import (
	"errors"
	"testing"
)

func testSections() []Section {
	return []Section{
		{Name: "status", Title: "Status"},
		{Name: "libraries", Title: "Libraries"},
		{Name: "documents", Title: "Documents"},
	}
}

func TestNavigatorInitiallyNone(t *testing.T) {
	n := NewNavigator(testSections(), "status")
	v := n.Snapshot()
	if v.Active != "" {
		t.Errorf("Active = %q, want none", v.Active)
	}
	for _, e := range v.Entries {
		if e.Active || e.Visible {
			t.Errorf("entry %s should start inactive", e.Name)
		}
	}
}

func TestNavigatorShow(t *testing.T) {
	n := NewNavigator(testSections(), "status")
	n.Show("libraries")

	v, err := n.Show("documents")
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if v.Active != "documents" {
		t.Errorf("Active = %q", v.Active)
	}
	for _, e := range v.Entries {
		want := e.Name == "documents"
		if e.Active != want || e.Visible != want {
			t.Errorf("entry %s: active=%v visible=%v, want %v", e.Name, e.Active, e.Visible, want)
		}
	}
}

func TestNavigatorShowUnknown(t *testing.T) {
	n := NewNavigator(testSections(), "status")
	n.Show("libraries")

	v, err := n.Show("nope")
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if v.Active != "libraries" {
		t.Errorf("unknown section changed the active entry to %q", v.Active)
	}
}

func TestNavigatorCurrent(t *testing.T) {
	n := NewNavigator(testSections(), "status")

	if got := n.Current(""); got != "status" {
		t.Errorf("Current before Show = %q, want default", got)
	}
	if got := n.Current("#documents"); got != "documents" {
		t.Errorf("Current(#documents) = %q", got)
	}

	n.Show("libraries")
	if got := n.Current(""); got != "libraries" {
		t.Errorf("Current with active entry = %q", got)
	}
	if got := n.Current("#bogus"); got != "libraries" {
		t.Errorf("Current with unknown fragment = %q", got)
	}
}

func TestRouteTable(t *testing.T) {
	f := setupTest(t)
	rt := f.d.Routes()

	s, ok := rt.Lookup("libraries")
	if !ok || s.Endpoint != "/hydra/libraries" {
		t.Errorf("Lookup(libraries) = %+v, %v", s, ok)
	}
	if _, ok := rt.Lookup("nope"); ok {
		t.Error("unexpected section nope")
	}
	want := []string{"status", "stagegroups", "libraries", "documents", "history"}
	got := rt.Names()
	if len(got) != len(want) {
		t.Fatalf("Names = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if rt.Endpoint("history") != "" {
		t.Error("history is served locally")
	}
}
