package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"sync"
)

// editableSections hold forms an operator may be part way through. Their
// fragments go back to the requester only and are never pushed.
var editableSections = map[string]bool{"libraries": true, "documents": true}

// RefreshPage fetches a section's payload, renders it and stores it as the
// section's view state. Fragments of read-only sections are also pushed to
// websocket clients showing that section.
func (d *Dashboard) RefreshPage(ctx context.Context, section string) (template.HTML, error) {
	data, err := d.Fetch(ctx, section)
	if err != nil {
		return "", fmt.Errorf("refreshing %s: %w", section, err)
	}

	frag, err := d.set.Render(section, data)
	if err != nil {
		return "", err
	}

	d.storeView(section, data, frag)
	if !editableSections[section] {
		d.hub.Broadcast(Event{Type: EventFragment, Section: section, Target: section + "_content", HTML: string(frag)})
	}
	return frag, nil
}

// RefreshAll refreshes every section concurrently and returns the errors of
// those that failed, keyed by section.
func (d *Dashboard) RefreshAll(ctx context.Context) map[string]error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs = map[string]error{}
	)
	for _, name := range d.routes.Names() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.RefreshPage(ctx, name); err != nil {
				log.Printf("dashboard: %v", err)
				mu.Lock()
				errs[name] = err
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errs
}

// RefreshCurrentPage refreshes the section named by fragment, or the active
// section when fragment is empty or unknown.
func (d *Dashboard) RefreshCurrentPage(ctx context.Context, fragment string) (template.HTML, error) {
	return d.RefreshPage(ctx, d.nav.Current(fragment))
}

// Fetch returns a section's transformed payload without rendering it.
func (d *Dashboard) Fetch(ctx context.Context, section string) (map[string]any, error) {
	s, ok := d.routes.Lookup(section)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	data, err := d.fetch(ctx, s)
	if err != nil {
		return nil, err
	}
	if t, ok := d.transforms[section]; ok {
		data = t(data)
	}
	return data, nil
}

func (d *Dashboard) fetch(ctx context.Context, s Section) (map[string]any, error) {
	if s.Endpoint == "" {
		src, ok := d.sources[s.Name]
		if !ok {
			return nil, fmt.Errorf("section %q has no endpoint", s.Name)
		}
		return src(ctx)
	}
	data, err := d.client.GetJSON(ctx, s.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
