package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/config"
	"github.com/ishfaqbuilds/commandghost/internal/db"
	"github.com/ishfaqbuilds/commandghost/internal/ops"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

func setupTest(t *testing.T) *Handlers {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}

	return &Handlers{
		settings: settings.NewSQLite(database),
		cfg:      config.DefaultConfig(),
		renderer: NewRenderer(templateSub, "test"),
	}
}

// seedCommand adds a personal command and returns its id.
func seedCommand(t *testing.T, h *Handlers, cmd, desc, category string) string {
	t.Helper()
	out, err := ops.Add(context.Background(), h.settings, ops.AddInput{
		Kind:        command.Personal,
		Command:     cmd,
		Description: desc,
		Category:    category,
	})
	if err != nil {
		t.Fatalf("seed %q: %v", cmd, err)
	}
	return out.ID
}

func seedBuiltin(t *testing.T, h *Handlers) {
	t.Helper()
	if _, err := ops.EnsureSeeded(context.Background(), h.settings); err != nil {
		t.Fatalf("EnsureSeeded: %v", err)
	}
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// serve routes req through the full mux so path values are populated.
func serve(t *testing.T, h *Handlers, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		t.Fatalf("static sub-FS: %v", err)
	}
	rec := httptest.NewRecorder()
	securityHeaders(routes(h, staticSub)).ServeHTTP(rec, req)
	return rec
}

func personalRaws(t *testing.T, h *Handlers) []string {
	t.Helper()
	raws, err := h.settings.GetStringList(context.Background(), command.Personal.SettingsKey())
	if err != nil {
		t.Fatalf("GetStringList: %v", err)
	}
	return raws
}

// --- Settings ---

func TestRootRedirectsToSettings(t *testing.T) {
	h := setupTest(t)
	rec := serve(t, h, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/settings" {
		t.Errorf("Location = %q, want /settings", loc)
	}
}

func TestHandleSettings_Defaults(t *testing.T) {
	h := setupTest(t)
	rec := serve(t, h, httptest.NewRequest("GET", "/settings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<option value="hacker" selected>`) {
		t.Error("expected hacker theme selected")
	}
	if !strings.Contains(body, `<option value="500" selected>`) {
		t.Error("expected 500px width selected")
	}
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("expected full layout")
	}
}

func TestHandleSettings_HTMXRendersContentOnly(t *testing.T) {
	h := setupTest(t)
	req := httptest.NewRequest("GET", "/settings", nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(t, h, req)

	if strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Error("htmx response should not include the layout")
	}
}

func TestHandleSettingsSave(t *testing.T) {
	h := setupTest(t)
	form := url.Values{"theme": {"purple"}, "box_width": {"650"}, "enabled": {"on"}}
	rec := serve(t, h, postForm("/settings", form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	prefs, err := ops.GetPrefs(context.Background(), h.settings)
	if err != nil {
		t.Fatalf("GetPrefs: %v", err)
	}
	want := ops.Prefs{Theme: "purple", BoxWidth: 650, ShowEmoji: false, Enabled: true}
	if *prefs != want {
		t.Errorf("prefs = %+v, want %+v", *prefs, want)
	}
}

func TestHandleSettingsSave_InvalidWidth(t *testing.T) {
	h := setupTest(t)
	req := postForm("/settings", url.Values{"box_width": {"333"}})
	req.Header.Set("Accept", "application/json")
	rec := serve(t, h, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"]["code"] != "INVALID_REQUEST" {
		t.Errorf("code = %v, want INVALID_REQUEST", body["error"]["code"])
	}

	prefs, _ := ops.GetPrefs(context.Background(), h.settings)
	if prefs.BoxWidth != ops.DefaultBoxWidth {
		t.Errorf("box width changed to %d", prefs.BoxWidth)
	}
}

func TestHandleReset_RequiresConfirm(t *testing.T) {
	h := setupTest(t)
	seedCommand(t, h, "deploy", "Ship", "")

	rec := serve(t, h, postForm("/settings/reset", url.Values{"library": {"personal"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(personalRaws(t, h)) != 1 {
		t.Fatal("library should be untouched without confirm")
	}

	rec = serve(t, h, postForm("/settings/reset", url.Values{"library": {"personal"}, "confirm": {"true"}}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := personalRaws(t, h); len(got) != 0 {
		t.Errorf("personal = %v, want empty", got)
	}
}

// --- Commands ---

func TestHandleCommands_ListAndFilter(t *testing.T) {
	h := setupTest(t)
	seedCommand(t, h, "make deploy", "Ship it", "Ops")
	seedCommand(t, h, "go test ./...", "Run tests", "")

	rec := serve(t, h, httptest.NewRequest("GET", "/commands/personal", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"make deploy", "go test ./...", "Ops (1)", "Personal (1)", "All (2)"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	rec = serve(t, h, httptest.NewRequest("GET", "/commands/personal?category=Ops", nil))
	body = rec.Body.String()
	if !strings.Contains(body, "make deploy") || strings.Contains(body, `value="go test ./..."`) {
		t.Error("category filter not applied")
	}
}

func TestHandleCommands_JSON(t *testing.T) {
	h := setupTest(t)
	seedBuiltin(t, h)

	req := httptest.NewRequest("GET", "/commands/builtin?category=Docker", nil)
	req.Header.Set("Accept", "application/json")
	rec := serve(t, h, req)

	var out ops.ListOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Items) != 5 {
		t.Errorf("docker items = %d, want 5", len(out.Items))
	}
	if out.Total != 53 {
		t.Errorf("total = %d, want 53", out.Total)
	}
}

func TestHandleCommands_UnknownLibrary(t *testing.T) {
	h := setupTest(t)
	rec := serve(t, h, httptest.NewRequest("GET", "/commands/shared", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error 400") {
		t.Error("expected error page")
	}
}

func TestHandleCommandAdd(t *testing.T) {
	h := setupTest(t)
	form := url.Values{"command": {"  kubectl get pods "}, "description": {"List pods"}, "category": {"K8s"}}
	rec := serve(t, h, postForm("/commands/personal", form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/commands/personal" {
		t.Errorf("Location = %q", loc)
	}
	raws := personalRaws(t, h)
	if len(raws) != 1 || raws[0] != "kubectl get pods|List pods|K8s" {
		t.Errorf("raws = %v", raws)
	}
}

func TestHandleCommandAdd_ConcurrentJSONClients(t *testing.T) {
	h := setupTest(t)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		t.Fatalf("static sub-FS: %v", err)
	}
	srv := httptest.NewServer(routes(h, staticSub))
	defer srv.Close()

	const clients = 200
	var wg sync.WaitGroup
	codes := make(chan int, clients)
	for i := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			form := url.Values{"command": {fmt.Sprintf("job-%03d", i)}, "description": {"Concurrent add"}}
			req, err := http.NewRequest("POST", srv.URL+"/commands/personal", strings.NewReader(form.Encode()))
			if err != nil {
				t.Errorf("new request: %v", err)
				return
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("Accept", "application/json")
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Errorf("POST: %v", err)
				return
			}
			resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		if code != http.StatusCreated {
			t.Errorf("status = %d, want 201", code)
		}
	}
	if raws := personalRaws(t, h); len(raws) != clients {
		t.Errorf("stored %d records, want %d", len(raws), clients)
	}
	ids, err := h.settings.GetStringList(context.Background(), command.Personal.IDsKey())
	if err != nil {
		t.Fatalf("GetStringList: %v", err)
	}
	unique := make(map[string]bool, len(ids))
	for _, id := range ids {
		unique[id] = true
	}
	if len(unique) != clients {
		t.Errorf("%d unique ids, want %d", len(unique), clients)
	}
}

func TestHandleCommandAdd_RejectsDelimiter(t *testing.T) {
	h := setupTest(t)
	req := postForm("/commands/personal", url.Values{"command": {"a | b"}, "description": {"pipe"}})
	req.Header.Set("HX-Request", "true")
	rec := serve(t, h, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `class="error-message"`) {
		t.Error("expected htmx error fragment")
	}
	if len(personalRaws(t, h)) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestHandleCommandEdit(t *testing.T) {
	h := setupTest(t)
	id := seedCommand(t, h, "make deploy", "Ship it", "")

	req := postForm("/commands/personal/"+id, url.Values{"command": {"make release"}, "description": {"Tag and ship"}})
	req.Header.Set("Accept", "application/json")
	rec := serve(t, h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var out ops.EditOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != id || out.Category != "Personal" {
		t.Errorf("edited = %+v", out)
	}
	if raws := personalRaws(t, h); raws[0] != "make release|Tag and ship|Personal" {
		t.Errorf("raw = %q", raws[0])
	}
}

func TestHandleCommandEdit_UnknownID(t *testing.T) {
	h := setupTest(t)
	seedCommand(t, h, "make deploy", "Ship it", "")

	req := postForm("/commands/personal/01ARZ3NDEKTSV4RRFFQ69G5FAV", url.Values{"command": {"x"}, "description": {"y"}})
	rec := serve(t, h, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleCommandDelete(t *testing.T) {
	h := setupTest(t)
	id := seedCommand(t, h, "make deploy", "Ship it", "")
	seedCommand(t, h, "make test", "Test it", "")

	req := httptest.NewRequest("DELETE", "/commands/personal/"+id, nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(t, h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/commands/personal" {
		t.Errorf("HX-Redirect = %q", got)
	}
	raws := personalRaws(t, h)
	if len(raws) != 1 || !strings.HasPrefix(raws[0], "make test|") {
		t.Errorf("raws = %v", raws)
	}
}

// --- Categories ---

func TestCategoryRoutes(t *testing.T) {
	h := setupTest(t)
	seedBuiltin(t, h)
	accept := func(r *http.Request) *http.Request {
		r.Header.Set("Accept", "application/json")
		return r
	}

	rec := serve(t, h, accept(postForm("/categories/builtin", url.Values{"name": {"Git"}})))
	if rec.Code != http.StatusConflict {
		t.Errorf("create existing: status = %d, want 409", rec.Code)
	}

	rec = serve(t, h, accept(postForm("/categories/builtin/rename", url.Values{"old": {"Git"}, "new": {"GitOps"}})))
	var renamed ops.RenameCategoryOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &renamed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if renamed.Renamed != 12 {
		t.Errorf("renamed = %d, want 12", renamed.Renamed)
	}

	rec = serve(t, h, accept(postForm("/categories/builtin/delete", url.Values{"name": {"Vim"}})))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("delete without confirm: status = %d, want 400", rec.Code)
	}

	rec = serve(t, h, accept(postForm("/categories/builtin/delete", url.Values{"name": {"Vim"}, "confirm": {"true"}})))
	var removed ops.DeleteCategoryOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &removed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if removed.Removed != 11 {
		t.Errorf("removed = %d, want 11", removed.Removed)
	}
}

// --- Suggest ---

func TestHandleSuggest_Preview(t *testing.T) {
	h := setupTest(t)
	seedBuiltin(t, h)
	rec := serve(t, h, httptest.NewRequest("GET", "/suggest?q=git+st", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"theme-hacker", "w-500", "Command Ghost whispers...", "git status"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestHandleSuggest_ResultsFragment(t *testing.T) {
	h := setupTest(t)
	req := httptest.NewRequest("GET", "/suggest?q=zzzz", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "results")
	rec := serve(t, h, req)

	body := rec.Body.String()
	if strings.Contains(body, "<form") {
		t.Error("fragment should not include the search form")
	}
	if !strings.Contains(body, "No suggestions") {
		t.Errorf("body = %q", body)
	}
}

func TestHandleSuggest_JSONCapsAtFive(t *testing.T) {
	h := setupTest(t)
	seedBuiltin(t, h)
	req := httptest.NewRequest("GET", "/suggest?q=git", nil)
	req.Header.Set("Accept", "application/json")
	rec := serve(t, h, req)

	var out ops.SuggestOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Visible || len(out.Items) != 5 {
		t.Errorf("visible=%v items=%d, want true/5", out.Visible, len(out.Items))
	}
}

// --- Cheat sheet ---

func TestHandleCheatsheet(t *testing.T) {
	h := setupTest(t)
	seedBuiltin(t, h)
	seedCommand(t, h, "echo `date`", "Print <the> date", "Shell")

	rec := serve(t, h, httptest.NewRequest("GET", "/cheatsheet", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<table>", "<h3>Docker</h3>", "<h3>Shell</h3>", "<code>echo `date`</code>", "Print &lt;the&gt; date"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestHandleCheatsheet_Markdown(t *testing.T) {
	h := setupTest(t)
	rec := serve(t, h, httptest.NewRequest("GET", "/cheatsheet?format=markdown", nil))

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "No commands yet.") {
		t.Error("empty libraries should say so")
	}
}

func TestCodeSpan(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ls -la", "`ls -la`"},
		{"echo `date`", "`` echo `date` ``"},
	}
	for _, tt := range tests {
		if got := codeSpan(tt.in); got != tt.want {
			t.Errorf("codeSpan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- Server ---

func TestSecurityHeaders(t *testing.T) {
	h := setupTest(t)
	rec := serve(t, h, httptest.NewRequest("GET", "/static/style.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'self'") {
		t.Errorf("CSP = %q", got)
	}
}

func TestNewServer(t *testing.T) {
	srv, err := NewServer(settings.NewMemory(), config.DefaultConfig(), "test", "127.0.0.1", 8765)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if srv.Addr != "127.0.0.1:8765" {
		t.Errorf("Addr = %q", srv.Addr)
	}
}
