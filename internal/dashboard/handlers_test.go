package dashboard

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ziadkadry99/hydradash/internal/history"
)

func (f *fixture) do(t *testing.T, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeAction(t *testing.T, w *httptest.ResponseRecorder) actionResponse {
	t.Helper()
	var resp actionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestServeIndex(t *testing.T) {
	f := setupTest(t)

	w := f.do(t, http.MethodGet, "/?page=documents", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Hydra Admin") {
		t.Error("expected page title")
	}
	if n := strings.Count(body, `class="active"`); n != 1 {
		t.Errorf("expected exactly one active entry, got %d", n)
	}
	if !strings.Contains(body, `<li class="active"><a href="#documents">`) {
		t.Error("documents entry should be active")
	}
	if !strings.Contains(body, `id="documents_content" style="display: block"`) {
		t.Error("documents container should be visible")
	}
	if n := strings.Count(body, "display: block"); n != 1 {
		t.Errorf("expected one visible container, got %d", n)
	}
}

func TestServeIndexUnknownPageFallsBack(t *testing.T) {
	f := setupTest(t)

	w := f.do(t, http.MethodGet, "/?page=bogus", nil, "")
	if !strings.Contains(w.Body.String(), `id="status_content" style="display: block"`) {
		t.Error("unknown page should fall back to the default section")
	}
}

func TestStaticAssets(t *testing.T) {
	f := setupTest(t)

	for _, path := range []string{"/static/app.js", "/static/style.css"} {
		w := f.do(t, http.MethodGet, path, nil, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: status %d", path, w.Code)
		}
		if w.Body.Len() == 0 {
			t.Errorf("%s: empty body", path)
		}
	}
}

func TestFragmentEndpoint(t *testing.T) {
	f := setupTest(t)

	w := f.do(t, http.MethodGet, "/fragments/status", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Documents in pipeline") {
		t.Errorf("unexpected fragment: %s", w.Body.String())
	}
}

func TestFragmentRequestsDoNotMoveOtherBrowsers(t *testing.T) {
	f := setupTest(t)

	if w := f.do(t, http.MethodGet, "/fragments/libraries", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w := f.do(t, http.MethodGet, "/", nil, "")
	if !strings.Contains(w.Body.String(), `id="status_content" style="display: block"`) {
		t.Error("a fresh page should open the default section, not the one another client loaded")
	}
	if strings.Contains(w.Body.String(), `<li class="active"><a href="#libraries">`) {
		t.Error("libraries should not be active on a fresh page")
	}
}

func TestFragmentEndpointErrors(t *testing.T) {
	f := setupTest(t)

	w := f.do(t, http.MethodGet, "/fragments/nope", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown section: expected 404, got %d", w.Code)
	}

	f.backend.fail["/hydra/libraries"] = http.StatusInternalServerError
	w = f.do(t, http.MethodGet, "/fragments/libraries", nil, "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("backend failure: expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Could not refresh libraries") {
		t.Errorf("expected error fragment, got %s", w.Body.String())
	}
}

func TestRefreshAllEndpoint(t *testing.T) {
	f := setupTest(t)

	w := f.do(t, http.MethodPost, "/api/refresh", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp := decodeAction(t, w); !resp.OK {
		t.Errorf("unexpected response: %+v", resp)
	}

	f.backend.fail["/hydra"] = http.StatusInternalServerError
	w = f.do(t, http.MethodPost, "/api/refresh", nil, "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if resp := decodeAction(t, w); resp.OK || !strings.Contains(resp.Error, "status") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestControlEndpoint(t *testing.T) {
	f := setupTest(t)

	w := f.do(t, http.MethodPost, "/api/dispatchers/solr/stop?section=status", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decodeAction(t, w); !resp.OK {
		t.Errorf("unexpected response: %+v", resp)
	}

	reqs := f.backend.seen()
	if reqs[0].Path != "/api/stop" || reqs[0].Query != "dispatcher=solr" {
		t.Errorf("unexpected control request: %+v", reqs[0])
	}
	if reqs[len(reqs)-1].Path != "/hydra" {
		t.Errorf("expected the status page to refresh, got %+v", reqs[len(reqs)-1])
	}
}

func TestControlEndpointBadVerb(t *testing.T) {
	f := setupTest(t)

	w := f.do(t, http.MethodPost, "/api/sources/crawler/pause", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := decodeAction(t, w); resp.OK || resp.Error == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestControlEndpointBackendFailure(t *testing.T) {
	f := setupTest(t)
	f.backend.fail["/api/start"] = http.StatusInternalServerError

	w := f.do(t, http.MethodPost, "/api/sources/crawler/start", nil, "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	resp := decodeAction(t, w)
	if resp.OK || !strings.Contains(resp.Error, "backend says no") {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(f.backend.seen()) != 1 {
		t.Error("failed action should not refresh the page")
	}
}

func TestQueryDocumentsEndpoint(t *testing.T) {
	f := setupTest(t)

	w := f.do(t, http.MethodGet, "/api/documents?q=%7B%7D", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `class="well"`) {
		t.Errorf("expected rendered documents, got %s", w.Body.String())
	}
	if q := f.backend.seen()[0].Query; q != "q=%7B%7D" {
		t.Errorf("backend query = %q", q)
	}
}

func TestAddDocumentEndpoint(t *testing.T) {
	f := setupTest(t)

	body, _ := json.Marshal(documentRequest{Document: `{"a":1}`, Query: ""})
	w := f.do(t, http.MethodPost, "/api/documents", bytes.NewBuffer(body), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeAction(t, w)
	data, _ := resp.Data.(map[string]any)
	if !resp.OK || !strings.Contains(data["html"].(string), `class="well"`) {
		t.Errorf("unexpected response: %+v", resp)
	}

	body, _ = json.Marshal(documentRequest{Document: `nope`})
	w = f.do(t, http.MethodPost, "/api/documents", bytes.NewBuffer(body), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid document: expected 400, got %d", w.Code)
	}
}

func multipartUpload(t *testing.T, libID, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("libId", libID)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write([]byte(content))
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestAddLibraryEndpoint(t *testing.T) {
	f := setupTest(t)

	body, ct := multipartUpload(t, "L9", "stages.jar", "jar-bytes")
	w := f.do(t, http.MethodPost, "/api/libraries", body, ct)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	reqs := f.backend.seen()
	if reqs[0].Path != "/hydra/libraries/L9" || !strings.Contains(reqs[0].Body, "jar-bytes") {
		t.Errorf("unexpected upload request: %+v", reqs[0])
	}
	if reqs[len(reqs)-1].Path != "/hydra/libraries" {
		t.Errorf("expected the libraries page to refresh, got %+v", reqs[len(reqs)-1])
	}
}

func TestAddLibraryEndpointMissingID(t *testing.T) {
	f := setupTest(t)

	body, ct := multipartUpload(t, "", "stages.jar", "jar-bytes")
	w := f.do(t, http.MethodPost, "/api/libraries", body, ct)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := decodeAction(t, w); resp.OK || resp.Error != ErrMissingLibraryID.Error() {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(f.backend.seen()) != 0 {
		t.Error("missing library id should not reach the backend")
	}
}

func TestAddLibraryEndpointMissingFile(t *testing.T) {
	f := setupTest(t)

	body, ct := multipartUpload(t, "L1", "", "")
	w := f.do(t, http.MethodPost, "/api/libraries", body, ct)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(f.backend.seen()) != 0 {
		t.Error("missing file should not reach the backend")
	}
}

func TestAddStageEndpoint(t *testing.T) {
	f := setupTest(t)

	body, _ := json.Marshal(stageRequest{
		Fields: []FormField{
			{ID: "libId", Value: "L1"},
			{ID: "stageName", Value: "bar"},
			{ID: "threshold", Value: "42"},
		},
		Section: "libraries",
	})
	w := f.do(t, http.MethodPost, "/api/stages", bytes.NewBuffer(body), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	reqs := f.backend.seen()
	if reqs[0].Path != "/hydra/libraries/L1/stages/bar" {
		t.Errorf("unexpected stage request: %+v", reqs[0])
	}
	if reqs[len(reqs)-1].Path != "/hydra/libraries" {
		t.Errorf("expected the submitting page to refresh, got %+v", reqs[len(reqs)-1])
	}
	resp := decodeAction(t, w)
	if !resp.OK || resp.Section != "libraries" || !strings.Contains(resp.HTML, "BarStage") {
		t.Errorf("response should carry the refreshed libraries page: %+v", resp)
	}
}

func TestAddStageEndpointRejectsSlash(t *testing.T) {
	f := setupTest(t)

	body, _ := json.Marshal(stageRequest{
		Fields: []FormField{
			{ID: "libId", Value: "L1"},
			{ID: "stageName", Value: "tika/extract"},
		},
	})
	w := f.do(t, http.MethodPost, "/api/stages", bytes.NewBuffer(body), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if len(f.backend.seen()) != 0 {
		t.Errorf("rejected stage reached the backend: %+v", f.backend.seen())
	}
}

func TestDeleteStageEndpoint(t *testing.T) {
	f := setupTest(t)

	w := f.do(t, http.MethodPost, "/api/stages/bar/delete", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := f.backend.seen()[0]; got.Path != "/hydra/stages/bar/delete" {
		t.Errorf("unexpected request: %+v", got)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	f := setupTest(t)
	f.do(t, http.MethodPost, "/api/stages/bar/delete", nil, "")

	w := f.do(t, http.MethodGet, "/api/history", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entries []history.Entry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != history.ActionDeleteStage || !entries[0].OK {
		t.Errorf("unexpected history: %+v", entries)
	}

	w = f.do(t, http.MethodGet, "/fragments/history", nil, "")
	if !strings.Contains(w.Body.String(), "delete_stage") {
		t.Errorf("history fragment should list the action: %s", w.Body.String())
	}
}
