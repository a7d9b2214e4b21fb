package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amterp/teams/internal/engine"
	"github.com/amterp/teams/internal/export"
	"github.com/amterp/teams/internal/i18n"
	"github.com/amterp/teams/internal/model"
	"github.com/amterp/teams/internal/store"
	"go.uber.org/zap"
)

// testAPI provides a complete test environment for API handler tests.
type testAPI struct {
	handler   *Handler
	mux       *http.ServeMux
	engine    *engine.Engine
	locale    *i18n.Locale
	settings  *store.FileSettingsStore
	exportDir string
}

type testAPIOption func(*HandlerConfig)

func withNegotiation() testAPIOption {
	return func(cfg *HandlerConfig) { cfg.Negotiate = true }
}

func withExporter(e *export.Exporter) testAPIOption {
	return func(cfg *HandlerConfig) { cfg.Exporter = e }
}

// setupTestAPI creates a test environment with a seeded engine and temp directories.
func setupTestAPI(t *testing.T, opts ...testAPIOption) *testAPI {
	t.Helper()

	tempDir := t.TempDir()
	n := 0
	machine := engine.NewMachine(
		engine.WithRand(engine.NewRand(7)),
		engine.WithRosterIDs(func() string {
			n++
			return fmt.Sprintf("roster-%d", n)
		}),
	)
	eng := engine.New(machine, zap.NewNop())
	locale := i18n.NewLocale(i18n.English)
	settings := store.NewSettingsStore(filepath.Join(tempDir, "config.toml"))
	exportDir := filepath.Join(tempDir, "Documents")

	cfg := HandlerConfig{
		Engine:    eng,
		Exporter:  export.NewExporter(export.NewPNGRenderer(export.DefaultLayout(), nil), zap.NewNop()),
		Locale:    locale,
		Settings:  settings,
		ExportDir: exportDir,
		Logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	handler := NewHandler(cfg)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &testAPI{
		handler:   handler,
		mux:       mux,
		engine:    eng,
		locale:    locale,
		settings:  settings,
		exportDir: exportDir,
	}
}

// request makes an HTTP request and returns the response.
func (api *testAPI) request(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	switch b := body.(type) {
	case nil:
		bodyReader = bytes.NewReader(nil)
	case string:
		bodyReader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)
	return w
}

// decodeJSON decodes the response body into the given target.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func (api *testAPI) buildRoster(t *testing.T, text string) StateResponse {
	t.Helper()
	w := api.request("POST", "/api/v1/roster", BuildRosterRequest{Text: text})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 building roster, got %d: %s", w.Code, w.Body.String())
	}
	var state StateResponse
	decodeJSON(t, w, &state)
	return state
}

// ============================================================================
// Session Endpoint Tests
// ============================================================================

func TestHandler_GetState_Initial(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/state", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}

	var state StateResponse
	decodeJSON(t, w, &state)
	if state.Revision != 0 || len(state.Session.Roster) != 0 {
		t.Errorf("Expected empty initial session, got %+v", state)
	}
	if len(state.Groups) != model.MinPaletteSize {
		t.Errorf("Expected %d groups, got %d", model.MinPaletteSize, len(state.Groups))
	}
	if len(state.MasterPalette) != model.MaxPaletteSize {
		t.Errorf("Expected full master palette, got %v", state.MasterPalette)
	}
	if state.Language != i18n.English || state.Messages["appTitle"] != "Team Color Sorter" {
		t.Errorf("Expected English messages, got %s / %q", state.Language, state.Messages["appTitle"])
	}
}

func TestHandler_BuildRoster(t *testing.T) {
	api := setupTestAPI(t)

	state := api.buildRoster(t, "Alice\n\n  Bob  \r\nCarl")

	if state.Revision != 1 {
		t.Errorf("Expected revision 1, got %d", state.Revision)
	}
	if state.Session.RosterID != "roster-1" {
		t.Errorf("Expected roster id roster-1, got %q", state.Session.RosterID)
	}
	names := []string{}
	for _, p := range state.Unassigned {
		names = append(names, p.Name)
	}
	if strings.Join(names, ",") != "Alice,Bob,Carl" {
		t.Errorf("Unexpected unassigned list %v", names)
	}
	if state.Progress != (model.Progress{Assigned: 0, Total: 3}) {
		t.Errorf("Unexpected progress %+v", state.Progress)
	}
}

func TestHandler_BuildRoster_Blank(t *testing.T) {
	api := setupTestAPI(t)

	for _, body := range []any{BuildRosterRequest{Text: "  \n\t\n"}, `{"text": ""}`} {
		w := api.request("POST", "/api/v1/roster", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %v, got %d", body, w.Code)
		}
	}
	if _, rev := api.engine.Current(); rev != 0 {
		t.Error("Blank input must not reach the engine")
	}
}

func TestHandler_BuildRoster_InvalidJSON(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("POST", "/api/v1/roster", "{not json")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestHandler_DispatchEvent_Toggle(t *testing.T) {
	api := setupTestAPI(t)
	api.buildRoster(t, "Alice\nBob")

	w := api.request("POST", "/api/v1/events", `{"type": "toggle_assign", "person_id": 1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var state StateResponse
	decodeJSON(t, w, &state)
	if len(state.Groups[0].Members) != 1 || state.Groups[0].Members[0].Name != "Bob" {
		t.Errorf("Expected Bob in the first group, got %+v", state.Groups[0].Members)
	}
	if state.Groups[0].Members[0].Color != state.Session.ActiveColor {
		t.Errorf("Expected Bob on the active color")
	}
}

func TestHandler_DispatchEvent_ResizeAndRecolor(t *testing.T) {
	api := setupTestAPI(t)
	api.buildRoster(t, "Alice\nBob")

	api.request("POST", "/api/v1/events", `{"type": "resize_palette", "size": 4}`)
	api.request("POST", "/api/v1/events", `{"type": "toggle_assign", "person_id": 0}`)
	w := api.request("POST", "/api/v1/events", `{"type": "recolor_slot", "index": 0, "color": "#000"}`)

	var state StateResponse
	decodeJSON(t, w, &state)
	if len(state.Session.Palette) != 4 || state.Session.Palette[0] != "#000000" {
		t.Errorf("Unexpected palette %v", state.Session.Palette)
	}
	if state.Session.Roster[0].Color != "#000000" {
		t.Errorf("Expected Alice to follow the recolor, got %q", state.Session.Roster[0].Color)
	}
	if state.Groups[0].TextColor != model.TextLight {
		t.Errorf("Expected light text on black, got %s", state.Groups[0].TextColor)
	}
}

func TestHandler_DispatchEvent_AutoAssign(t *testing.T) {
	api := setupTestAPI(t)
	api.buildRoster(t, "a\nb\nc\nd\ne")

	w := api.request("POST", "/api/v1/events", `{"type": "auto_assign"}`)

	var state StateResponse
	decodeJSON(t, w, &state)
	if state.Progress.Assigned != 5 || len(state.Unassigned) != 0 {
		t.Errorf("Expected everyone assigned, got %+v", state.Progress)
	}
	sizes := []int{len(state.Groups[0].Members), len(state.Groups[1].Members)}
	if sizes[0]+sizes[1] != 5 || sizes[0]-sizes[1] > 1 || sizes[1]-sizes[0] > 1 {
		t.Errorf("Expected balanced groups, got %v", sizes)
	}
}

func TestHandler_DispatchEvent_Invalid(t *testing.T) {
	api := setupTestAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"type":`},
		{"unknown type", `{"type": "shuffle_everything"}`},
		{"missing field", `{"type": "toggle_assign"}`},
		{"blank roster", `{"type": "build_roster", "text": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.request("POST", "/api/v1/events", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
			var resp map[string]string
			decodeJSON(t, w, &resp)
			if resp["error"] == "" {
				t.Error("Expected error message in response")
			}
		})
	}

	if _, rev := api.engine.Current(); rev != 0 {
		t.Errorf("Invalid events must not be dispatched, revision is %d", rev)
	}
}

func TestHandler_DispatchEvent_InvalidInputIsNoop(t *testing.T) {
	api := setupTestAPI(t)
	before := api.buildRoster(t, "Alice")

	w := api.request("POST", "/api/v1/events", `{"type": "toggle_assign", "person_id": 99}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var after StateResponse
	decodeJSON(t, w, &after)
	if after.Revision != before.Revision+1 {
		t.Errorf("Expected the event to be applied as a no-op")
	}
	if after.Session.Roster[0].Color != "" {
		t.Error("Unknown person id changed the roster")
	}
}

func TestHandler_DispatchEvent_ToggleFromOldRoster(t *testing.T) {
	api := setupTestAPI(t)
	old := api.buildRoster(t, "Alice\nBob")
	api.buildRoster(t, "Carol\nDave")

	body := fmt.Sprintf(`{"type": "toggle_assign", "person_id": 0, "roster_id": %q}`, old.Session.RosterID)
	w := api.request("POST", "/api/v1/events", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var state StateResponse
	decodeJSON(t, w, &state)
	if state.Session.Roster[0].Color != "" {
		t.Errorf("Toggle from an old roster assigned %s", state.Session.Roster[0].Name)
	}
}

func TestHandler_Reset(t *testing.T) {
	api := setupTestAPI(t)
	api.buildRoster(t, "Alice\nBob")
	api.request("POST", "/api/v1/events", `{"type": "resize_palette", "size": 6}`)

	w := api.request("POST", "/api/v1/reset", nil)

	var state StateResponse
	decodeJSON(t, w, &state)
	if len(state.Session.Roster) != 0 || len(state.Session.Palette) != model.InitialPaletteSize {
		t.Errorf("Expected initial session after reset, got %+v", state.Session)
	}
	if state.Session.ActiveColor != state.Session.Palette[0] {
		t.Errorf("Expected first color active after reset")
	}
}

// ============================================================================
// Export Endpoint Tests
// ============================================================================

type failingCapturer struct{}

func (failingCapturer) Capture(model.Session) ([]byte, error) { return nil, errors.New("no canvas") }
func (failingCapturer) Ext() string                           { return "png" }

func TestHandler_DownloadImage(t *testing.T) {
	api := setupTestAPI(t)
	api.buildRoster(t, "Alice\nBob")
	api.request("POST", "/api/v1/events", `{"type": "auto_assign"}`)

	w := api.request("GET", "/api/v1/export.png", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	want := "attachment; filename=team-assignments.png"
	if cd := w.Header().Get("Content-Disposition"); cd != want {
		t.Errorf("Expected %q, got %q", want, cd)
	}
	if _, err := png.Decode(w.Body); err != nil {
		t.Errorf("Body is not a PNG: %v", err)
	}
}

func TestHandler_SaveImage(t *testing.T) {
	api := setupTestAPI(t)
	api.buildRoster(t, "Alice")

	w := api.request("POST", "/api/v1/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp ExportResponse
	decodeJSON(t, w, &resp)
	if filepath.Dir(resp.Location) != api.exportDir {
		t.Errorf("Expected image in %s, got %s", api.exportDir, resp.Location)
	}
	if !strings.HasPrefix(filepath.Base(resp.Location), "team-assignments-") {
		t.Errorf("Expected timestamped file name, got %s", resp.Location)
	}
	if _, err := os.Stat(resp.Location); err != nil {
		t.Errorf("Saved image missing: %v", err)
	}
	if resp.Message != i18n.Translate(i18n.English, i18n.KeyImageSavedToDownloads) {
		t.Errorf("Unexpected message %q", resp.Message)
	}
}

func TestHandler_ExportFailureIsLocalized(t *testing.T) {
	failing := export.NewExporter(failingCapturer{}, zap.NewNop())
	api := setupTestAPI(t, withExporter(failing))
	api.locale.Set(i18n.Latvian)

	for _, req := range [][2]string{{"GET", "/api/v1/export.png"}, {"POST", "/api/v1/export"}} {
		w := api.request(req[0], req[1], nil)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: expected status 500, got %d", req[0], req[1], w.Code)
			continue
		}
		var resp map[string]string
		decodeJSON(t, w, &resp)
		if resp["error"] != i18n.Translate(i18n.Latvian, i18n.KeyImageError) {
			t.Errorf("%s %s: expected localized image error, got %q", req[0], req[1], resp["error"])
		}
	}

	entries, _ := os.ReadDir(api.exportDir)
	if len(entries) != 0 {
		t.Errorf("Failed export left %d files behind", len(entries))
	}
}

// ============================================================================
// Locale Endpoint Tests
// ============================================================================

func TestHandler_SetLocale(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PUT", "/api/v1/locale", SetLocaleRequest{Language: "lv"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp LocaleResponse
	decodeJSON(t, w, &resp)
	if resp.Language != i18n.Latvian || len(resp.Supported) != len(i18n.Supported) {
		t.Errorf("Unexpected locale response %+v", resp)
	}
	if api.locale.Current() != i18n.Latvian {
		t.Errorf("Locale not switched, got %s", api.locale.Current())
	}

	settings, err := api.settings.Load()
	if err != nil {
		t.Fatalf("Failed to load saved settings: %v", err)
	}
	if settings.Language != "lv" {
		t.Errorf("Expected language saved, got %q", settings.Language)
	}
}

func TestHandler_SetLocale_Unsupported(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PUT", "/api/v1/locale", SetLocaleRequest{Language: "de"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if api.locale.Current() != i18n.English {
		t.Errorf("Locale changed on bad input: %s", api.locale.Current())
	}
}

func TestHandler_LocaleNegotiation(t *testing.T) {
	api := setupTestAPI(t, withNegotiation())

	w := api.request("GET", "/api/v1/locale", nil, "Accept-Language", "lv-LV,lv;q=0.9,en;q=0.5")
	var resp LocaleResponse
	decodeJSON(t, w, &resp)
	if resp.Language != i18n.Latvian {
		t.Errorf("Expected negotiated Latvian, got %s", resp.Language)
	}

	w = api.request("GET", "/api/v1/state", nil, "Accept-Language", "de-DE")
	var state StateResponse
	decodeJSON(t, w, &state)
	if state.Language != i18n.Default {
		t.Errorf("Expected default language for unsupported header, got %s", state.Language)
	}

	// An explicit choice ends negotiation.
	api.request("PUT", "/api/v1/locale", SetLocaleRequest{Language: "en"})
	w = api.request("GET", "/api/v1/locale", nil, "Accept-Language", "lv")
	decodeJSON(t, w, &resp)
	if resp.Language != i18n.English {
		t.Errorf("Expected chosen English to win over header, got %s", resp.Language)
	}
}

// ============================================================================
// Static and Favicon Tests
// ============================================================================

func TestHandler_Favicon(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/favicon.svg", nil)

	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Expected svg content type, got %q", ct)
	}
	for _, c := range model.MasterPalette[:model.InitialPaletteSize] {
		if !strings.Contains(w.Body.String(), c) {
			t.Errorf("Expected favicon to contain %s", c)
		}
	}
}

func TestGenerateFaviconSVG_SkipsInvalid(t *testing.T) {
	svg := GenerateFaviconSVG([]string{"nope", "#ABC"})

	if strings.Contains(svg, "nope") {
		t.Error("Invalid color leaked into favicon")
	}
	if !strings.Contains(svg, "#aabbcc") {
		t.Errorf("Expected normalized color, got %s", svg)
	}
}

func TestHandler_StaticFiles(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "app.js") {
		t.Errorf("Expected index.html, got %d", w.Code)
	}

	w = api.request("GET", "/service-worker.js", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected service worker, got %d", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Expected no-cache for service worker, got %q", cc)
	}
	if !strings.Contains(w.Body.String(), "team-color-sorter-v") {
		t.Error("Expected versioned cache name in service worker")
	}
}
