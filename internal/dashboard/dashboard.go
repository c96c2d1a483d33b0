// Package dashboard is the Hydra admin dashboard controller. It owns the
// route table, the compiled section templates, navigation state and the
// mutation actions proxied to the backend.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/hydradash/internal/config"
	"github.com/ziadkadry99/hydradash/internal/history"
	"github.com/ziadkadry99/hydradash/internal/hydra"
	"github.com/ziadkadry99/hydradash/internal/render"
)

// Title is shown in the page header and browser tab.
const Title = "Hydra Admin"

var (
	ErrUnknownSection    = errors.New("unknown section")
	ErrMissingLibraryID  = errors.New("library id is required")
	ErrInvalidDocument   = errors.New("document is not valid JSON")
	ErrArchiveRejected   = errors.New("archive name does not match an accepted pattern")
	ErrInvalidKind       = errors.New("kind must be source or dispatcher")
	ErrInvalidVerb       = errors.New("verb must be start or stop")
	ErrMissingStageField = errors.New("libId and stageName are required")
	// ErrInvalidPathSegment is returned for ids and names containing a
	// slash or dot segment.
	ErrInvalidPathSegment = errors.New("invalid path segment")
)

// Transform post-processes a section payload before it is rendered.
type Transform func(map[string]any) map[string]any

// LocalSource produces the payload of a section that has no backend endpoint.
type LocalSource func(ctx context.Context) (map[string]any, error)

// ViewState is the last payload fetched for a section.
type ViewState struct {
	Data      map[string]any
	Fragment  template.HTML
	FetchedAt time.Time
}

// Dashboard is the controller behind the admin pages.
type Dashboard struct {
	cfg     *config.Config
	routes  RouteTable
	set     *render.Set
	client  *hydra.Client
	history *history.Store
	hub     *Hub

	// nav resolves URL fragments to sections. It is never shown, so
	// requests do not share an active section.
	nav *Navigator

	transforms map[string]Transform
	sources    map[string]LocalSource

	mu    sync.Mutex
	views map[string]ViewState
}

// New creates a Dashboard. hist may be nil, in which case actions are not
// recorded and the history section is unavailable.
func New(cfg *config.Config, client *hydra.Client, set *render.Set, hist *history.Store) (*Dashboard, error) {
	routes := NewRouteTable(cfg.Sections)
	d := &Dashboard{
		cfg:        cfg,
		routes:     routes,
		set:        set,
		client:     client,
		history:    hist,
		hub:        NewHub(),
		nav:        NewNavigator(routes.Sections(), cfg.DefaultSection),
		transforms: map[string]Transform{"libraries": TransformLibraries},
		sources:    map[string]LocalSource{},
		views:      map[string]ViewState{},
	}
	if hist != nil {
		d.sources["history"] = d.historySource
	}

	for _, s := range routes.Sections() {
		if !set.Has(s.Name) {
			return nil, fmt.Errorf("section %q has no template", s.Name)
		}
		if s.Endpoint == "" && d.sources[s.Name] == nil {
			return nil, fmt.Errorf("section %q has no endpoint and no local source", s.Name)
		}
	}
	return d, nil
}

// Routes returns the dashboard's route table.
func (d *Dashboard) Routes() RouteTable { return d.routes }


// Hub returns the websocket event hub.
func (d *Dashboard) Hub() *Hub { return d.hub }

// View returns the last state stored for section.
func (d *Dashboard) View(section string) (ViewState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.views[section]
	return v, ok
}

func (d *Dashboard) storeView(section string, data map[string]any, frag template.HTML) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.views[section] = ViewState{Data: data, Fragment: frag, FetchedAt: time.Now()}
}

func (d *Dashboard) historySource(ctx context.Context) (map[string]any, error) {
	entries, err := d.history.List(ctx, history.Filter{Limit: d.cfg.HistoryLimit})
	if err != nil {
		return nil, err
	}
	return map[string]any{"entries": entries}, nil
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.handleIndex)
	r.Handle("/static/*", staticHandler())
	r.Get("/fragments/{section}", d.handleFragment)
	r.Get("/ws", d.hub.ServeHTTP)

	r.Post("/api/refresh", d.handleRefreshAll)
	r.Post("/api/sources/{name}/{verb}", d.handleControl("source"))
	r.Post("/api/dispatchers/{name}/{verb}", d.handleControl("dispatcher"))
	r.Get("/api/documents", d.handleQueryDocuments)
	r.Post("/api/documents", d.handleAddDocument)
	r.Post("/api/libraries", d.handleAddLibrary)
	r.Post("/api/stages", d.handleAddStage)
	r.Post("/api/stages/{name}/delete", d.handleDeleteStage)

	if d.history != nil {
		history.RegisterRoutes(r, d.history)
	}
}
