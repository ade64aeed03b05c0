package writing

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (http.Handler, *fakeGateway) {
	t.Helper()
	svc, gw := newService(t)
	r := chi.NewRouter()
	r.Route("/api", NewHandler(svc, zap.NewNop()).Routes)
	return r, gw
}

func call(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func docPath(name string, suffix ...string) string {
	return "/api/documents/" + url.PathEscape(name) + strings.Join(suffix, "")
}

func TestHandler_DocumentLifecycle(t *testing.T) {
	h, _ := newRouter(t)

	rec, body := call(t, h, http.MethodPost, "/api/documents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	name := body["name"].(string)
	assert.Equal(t, "Untitled Paper 1", name)

	rec, body = call(t, h, http.MethodGet, docPath(name), "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, name, data["id"])
	assert.Equal(t, name, data["documentName"])
	assert.Equal(t, "locked", data["title"].(map[string]any)["status"])

	rec, _ = call(t, h, http.MethodPut, docPath(name),
		`{"id":"whatever","title":{"content":"My Title","status":"completed"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = call(t, h, http.MethodPost, docPath(name, "/rename"), `{"name":"Final: v1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Final v1", body["name"])

	rec, _ = call(t, h, http.MethodGet, docPath(name), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, body = call(t, h, http.MethodGet, "/api/documents", "")
	assert.Equal(t, []any{map[string]any{"id": "Final v1", "documentName": "Final v1"}}, body["documents"])

	rec, body = call(t, h, http.MethodDelete, docPath("Final v1"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["deleted"])

	_, body = call(t, h, http.MethodDelete, docPath("Final v1"), "")
	assert.Equal(t, false, body["deleted"])
}

func TestHandler_RenameConflict(t *testing.T) {
	h, _ := newRouter(t)
	call(t, h, http.MethodPost, "/api/documents", "")
	call(t, h, http.MethodPost, "/api/documents", "")

	rec, body := call(t, h, http.MethodPost, docPath("Untitled Paper 1", "/rename"), `{"name":"Untitled Paper 2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "error", body["status"])

	rec, _ = call(t, h, http.MethodPost, docPath("Untitled Paper 1", "/rename"), `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Generate(t *testing.T) {
	h, gw := newRouter(t)

	rec, body := call(t, h, http.MethodPost, docPath("Anything", "/generate"),
		`{"apiKey":"k","target_section":"title","temperature":"0.5","paper_data":{"idea":{"content":"IDEA","status":"completed"}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "generated text", body["content"])
	assert.InDelta(t, 0.5, gw.opts[0].Temperature, 1e-9)

	rec, _ = call(t, h, http.MethodPost, docPath("Anything", "/generate"),
		`{"apiKey":"k","target_section":"title","action_type":"rewrite","paper_data":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = call(t, h, http.MethodPost, docPath("Anything", "/generate"),
		`{"apiKey":"k","target_section":"title","temperature":[1]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Export(t *testing.T) {
	h, _ := newRouter(t)
	call(t, h, http.MethodPut, docPath("Draft"), `{"title":{"content":"Größe: A/B","status":"completed"},"abstract":{"content":"Abs","status":"completed"}}`)

	rec, _ := call(t, h, http.MethodGet, docPath("Draft", "/export"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# Größe: A/B\n\n## Abstract\n\nAbs\n", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/markdown"))

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "Größe- A-B.md", params["filename"])

	rec, _ = call(t, h, http.MethodGet, docPath("Missing", "/export"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ModelsAndSections(t *testing.T) {
	h, _ := newRouter(t)

	_, body := call(t, h, http.MethodGet, "/api/models", "")
	assert.Equal(t, []any{"gemini-2.5-pro", "gemini-2.5-flash"}, body["models"])

	_, body = call(t, h, http.MethodGet, "/api/sections", "")
	secs := body["sections"].([]any)
	require.Len(t, secs, 10)
	assert.Equal(t, "idea", secs[0].(map[string]any)["key"])
}
