package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/hydradash/internal/hydra"
)

// maxUploadMemory is how much of a multipart upload is buffered in memory.
const maxUploadMemory = 32 << 20

// actionResponse is the JSON answer of every mutation endpoint.
type actionResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Data  any    `json:"data,omitempty"`
	// Section and HTML carry the refreshed page after a successful action.
	Section string `json:"section,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// documentRequest is the body of POST /api/documents.
type documentRequest struct {
	Document string `json:"document"`
	Query    string `json:"query"`
}

// stageRequest is the body of POST /api/stages.
type stageRequest struct {
	Fields []FormField `json:"fields"`
	// Section is the URL fragment of the page that submitted the form.
	Section string `json:"section"`
}

type indexData struct {
	Title string
	View  View
}

// handleIndex renders the shell. Navigation state is per request; the
// browser keeps the active section in the URL fragment.
func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	nav := NewNavigator(d.routes.Sections(), d.cfg.DefaultSection)
	view, err := nav.Show(nav.Current(r.URL.Query().Get("page")))
	if err != nil {
		view, _ = nav.Show(d.cfg.DefaultSection)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := d.set.Execute(w, "index", indexData{Title: Title, View: view}); err != nil {
		log.Printf("dashboard: rendering index: %v", err)
	}
}

func (d *Dashboard) handleFragment(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if _, ok := d.routes.Lookup(section); !ok {
		d.writeErrorFragment(w, http.StatusNotFound, section, fmt.Errorf("%w: %s", ErrUnknownSection, section))
		return
	}

	frag, err := d.RefreshPage(r.Context(), section)
	if err != nil {
		d.writeErrorFragment(w, statusFor(err), section, err)
		return
	}
	writeHTML(w, http.StatusOK, frag)
}

func (d *Dashboard) handleRefreshAll(w http.ResponseWriter, r *http.Request) {
	errs := d.RefreshAll(r.Context())
	if len(errs) == 0 {
		writeJSON(w, http.StatusOK, actionResponse{OK: true})
		return
	}

	failed := make(map[string]string, len(errs))
	names := make([]string, 0, len(errs))
	for name, err := range errs {
		failed[name] = err.Error()
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusBadGateway, actionResponse{
		Error: "refresh failed for " + strings.Join(names, ", "),
		Data:  failed,
	})
}

func (d *Dashboard) handleControl(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		verb := chi.URLParam(r, "verb")

		if err := d.Control(r.Context(), verb, kind, name); err != nil {
			writeAction(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, d.refreshAfter(r, r.URL.Query().Get("section"), nil))
	}
}

func (d *Dashboard) handleQueryDocuments(w http.ResponseWriter, r *http.Request) {
	frag, err := d.QueryDocuments(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		d.writeErrorFragment(w, statusFor(err), "documents", err)
		return
	}
	writeHTML(w, http.StatusOK, frag)
}

func (d *Dashboard) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{Error: "invalid request body"})
		return
	}

	frag, err := d.AddDocument(r.Context(), req.Document, req.Query)
	if err != nil {
		writeAction(w, err, nil)
		return
	}
	writeAction(w, nil, map[string]string{"html": string(frag)})
}

func (d *Dashboard) handleAddLibrary(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{Error: "invalid multipart form: " + err.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	libID := r.FormValue("libId")
	file, header, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		writeJSON(w, http.StatusBadRequest, actionResponse{Error: err.Error()})
		return
	}

	archive := hydra.Archive{Body: strings.NewReader("")}
	if file != nil {
		defer file.Close()
		archive = hydra.Archive{Name: header.Filename, Size: header.Size, Body: file}
	} else if strings.TrimSpace(libID) != "" {
		writeJSON(w, http.StatusBadRequest, actionResponse{Error: "file is required"})
		return
	}

	out, err := d.AddLibrary(r.Context(), libID, archive, nil)
	if err != nil {
		writeAction(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, d.refreshAfter(r, "libraries", out))
}

func (d *Dashboard) handleAddStage(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{Error: "invalid request body"})
		return
	}

	if err := d.AddStage(r.Context(), req.Fields); err != nil {
		writeAction(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, d.refreshAfter(r, req.Section, nil))
}

func (d *Dashboard) handleDeleteStage(w http.ResponseWriter, r *http.Request) {
	if err := d.DeleteStage(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeAction(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, d.refreshAfter(r, r.URL.Query().Get("section"), nil))
}

// refreshAfter refreshes the page an action was submitted from and returns
// the success response carrying it. A failed refresh only logs; the action
// itself succeeded.
func (d *Dashboard) refreshAfter(r *http.Request, fragment string, data any) actionResponse {
	resp := actionResponse{OK: true, Data: data}
	frag, err := d.RefreshCurrentPage(r.Context(), fragment)
	if err != nil {
		log.Printf("dashboard: refresh after action: %v", err)
		return resp
	}
	resp.Section, resp.HTML = d.nav.Current(fragment), string(frag)
	return resp
}

func (d *Dashboard) writeErrorFragment(w http.ResponseWriter, status int, section string, err error) {
	frag, rerr := d.set.Render("error", map[string]string{"Section": section, "Error": err.Error()})
	if rerr != nil {
		http.Error(w, err.Error(), status)
		return
	}
	writeHTML(w, status, frag)
}

// statusFor maps an action error to the HTTP status reported to the browser.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnknownSection):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingLibraryID),
		errors.Is(err, ErrInvalidDocument),
		errors.Is(err, ErrArchiveRejected),
		errors.Is(err, ErrInvalidKind),
		errors.Is(err, ErrInvalidVerb),
		errors.Is(err, ErrMissingStageField),
		errors.Is(err, ErrInvalidPathSegment):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeAction(w http.ResponseWriter, err error, data any) {
	if err != nil {
		writeJSON(w, statusFor(err), actionResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{OK: true, Data: data})
}

func writeHTML(w http.ResponseWriter, status int, frag template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, string(frag))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
