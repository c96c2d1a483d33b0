package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/hydradash/internal/history"
	"github.com/ziadkadry99/hydradash/internal/hydra"
)

const defaultDocumentsEndpoint = "/hydra/documents"

// Control starts or stops a named source or dispatcher.
func (d *Dashboard) Control(ctx context.Context, verb, kind, name string) error {
	target := kind + "=" + name
	if verb != "start" && verb != "stop" {
		return d.record(ctx, history.Action(verb), target, fmt.Errorf("%w: %q", ErrInvalidVerb, verb))
	}
	action := history.ActionStart
	if verb == "stop" {
		action = history.ActionStop
	}
	if kind != "source" && kind != "dispatcher" {
		return d.record(ctx, action, target, fmt.Errorf("%w: %q", ErrInvalidKind, kind))
	}

	_, err := d.client.Post(ctx, joinPath(d.cfg.ControlBase, verb), url.Values{kind: {name}})
	if err != nil {
		err = fmt.Errorf("%s %s %s: %w", verb, kind, name, err)
	}
	return d.record(ctx, action, target, err)
}

// FetchDocuments runs a document query and merges in the matching count.
// An empty query matches everything.
func (d *Dashboard) FetchDocuments(ctx context.Context, q string) (map[string]any, error) {
	endpoint := d.documentsEndpoint()
	var query url.Values
	if strings.TrimSpace(q) != "" {
		query = url.Values{"q": {q}}
	}

	data, err := d.client.GetJSON(ctx, endpoint, query)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}

	count, err := d.client.GetJSON(ctx, joinPath(endpoint, "count"), query)
	if err != nil {
		log.Printf("dashboard: counting documents: %v", err)
		return data, nil
	}
	if n, ok := count["numberOfDocuments"]; ok {
		data["numberOfDocuments"] = n
	}
	return data, nil
}

// QueryDocuments runs a document query and renders the result list. The
// list is returned to the caller only.
func (d *Dashboard) QueryDocuments(ctx context.Context, q string) (template.HTML, error) {
	data, err := d.FetchDocuments(ctx, q)
	if err != nil {
		return "", err
	}
	return d.set.Render("documents_list_items", data)
}

// AddDocument inserts a JSON document and re-runs query q. A body that is
// not JSON is rejected before any request is made.
func (d *Dashboard) AddDocument(ctx context.Context, body, q string) (template.HTML, error) {
	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return "", d.record(ctx, history.ActionAddDocument, "", fmt.Errorf("%w: %v", ErrInvalidDocument, err))
	}

	_, err := d.client.PostJSON(ctx, joinPath(d.documentsEndpoint(), "new"), nil, json.RawMessage(body))
	if err != nil {
		err = fmt.Errorf("adding document: %w", err)
	}
	if err := d.record(ctx, history.ActionAddDocument, "", err); err != nil {
		return "", err
	}
	return d.QueryDocuments(ctx, q)
}

// AcceptArchive reports whether name matches one of the glob patterns. No
// patterns accepts everything.
func AcceptArchive(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

// AddLibrary uploads a library archive under libID. An empty id fails with
// ErrMissingLibraryID before any request is made.
func (d *Dashboard) AddLibrary(ctx context.Context, libID string, archive hydra.Archive, progress hydra.ProgressFunc) (map[string]any, error) {
	libID = strings.TrimSpace(libID)
	if libID == "" {
		return nil, d.record(ctx, history.ActionAddLibrary, archive.Name, ErrMissingLibraryID)
	}
	if !AcceptArchive(d.cfg.ArchivePatterns, archive.Name) {
		return nil, d.record(ctx, history.ActionAddLibrary, libID, fmt.Errorf("%w: %s", ErrArchiveRejected, archive.Name))
	}

	report := func(sent, total int64) {
		d.hub.Broadcast(Event{Type: EventProgress, Target: "jarupload", Sent: sent, Total: total})
		if progress != nil {
			progress(sent, total)
		}
	}

	out, err := d.client.Upload(ctx, joinPath(d.cfg.UploadBase, libID), archive, report)
	if err != nil {
		err = fmt.Errorf("uploading library %s: %w", libID, err)
	}
	return out, d.record(ctx, history.ActionAddLibrary, libID, err)
}

// AddStage creates or updates a stage from the fields of its form.
func (d *Dashboard) AddStage(ctx context.Context, fields []FormField) error {
	draft := BuildStageDraft(fields)
	target := draftString(draft["stageName"])

	endpoint, err := StageURL(d.cfg.UploadBase, draft)
	if err != nil {
		return d.record(ctx, history.ActionAddStage, target, err)
	}
	if _, err := d.client.PostJSON(ctx, endpoint, nil, draft); err != nil {
		return d.record(ctx, history.ActionAddStage, target, fmt.Errorf("adding stage %s: %w", target, err))
	}
	return d.record(ctx, history.ActionAddStage, target, nil)
}

// DeleteStage removes a stage from the pipeline.
func (d *Dashboard) DeleteStage(ctx context.Context, name string) error {
	if name == "" {
		return d.record(ctx, history.ActionDeleteStage, name, ErrMissingStageField)
	}
	if err := checkSegment(name); err != nil {
		return d.record(ctx, history.ActionDeleteStage, name, err)
	}
	_, err := d.client.GetJSON(ctx, joinPath(d.cfg.StagesBase, name, "delete"), nil)
	if err != nil {
		err = fmt.Errorf("deleting stage %s: %w", name, err)
	}
	return d.record(ctx, history.ActionDeleteStage, name, err)
}

func (d *Dashboard) documentsEndpoint() string {
	if e := d.routes.Endpoint("documents"); e != "" {
		return e
	}
	return defaultDocumentsEndpoint
}

// record stores the outcome of an action, notifies websocket clients and
// returns err unchanged.
func (d *Dashboard) record(ctx context.Context, action history.Action, target string, err error) error {
	entry := history.Entry{Action: action, Target: target, OK: err == nil}
	msg := fmt.Sprintf("%s succeeded", action)
	if target != "" {
		msg = fmt.Sprintf("%s %s succeeded", action, target)
	}
	if err != nil {
		entry.Error = err.Error()
		msg = err.Error()
		log.Printf("dashboard: %s %s: %v", action, target, err)
	}

	if d.history != nil {
		// The outcome is recorded even when the request context is done.
		hctx := context.WithoutCancel(ctx)
		if _, herr := d.history.Log(hctx, entry); herr != nil {
			log.Printf("dashboard: recording history: %v", herr)
		} else if _, herr := d.history.Trim(hctx, d.cfg.HistoryLimit); herr != nil {
			log.Printf("dashboard: trimming history: %v", herr)
		}
	}

	d.hub.Broadcast(Event{Type: EventNotice, OK: err == nil, Message: msg})
	return err
}
