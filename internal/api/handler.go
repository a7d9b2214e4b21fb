package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/amterp/teams/internal/engine"
	teamserr "github.com/amterp/teams/internal/errors"
	"github.com/amterp/teams/internal/export"
	"github.com/amterp/teams/internal/i18n"
	"github.com/amterp/teams/internal/model"
	"github.com/amterp/teams/internal/roster"
	"github.com/amterp/teams/internal/store"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; a roster of names is small.
const maxBodyBytes = 1 << 20

// StateResponse is the full view of the session sent to the web UI.
type StateResponse struct {
	Revision       uint64            `json:"revision"`
	Language       i18n.Language     `json:"language"`
	Session        model.Session     `json:"session"`
	Groups         []model.Group     `json:"groups"`
	Unassigned     []model.Person    `json:"unassigned"`
	Progress       model.Progress    `json:"progress"`
	MasterPalette  []string          `json:"master_palette"`
	MinPaletteSize int               `json:"min_palette_size"`
	MaxPaletteSize int               `json:"max_palette_size"`
	Messages       map[string]string `json:"messages"`
}

// LanguageInfo describes one selectable language.
type LanguageInfo struct {
	Code i18n.Language `json:"code"`
	Name string        `json:"name"`
}

// LocaleResponse is the JSON response for the locale endpoints.
type LocaleResponse struct {
	Language  i18n.Language     `json:"language"`
	Supported []LanguageInfo    `json:"supported"`
	Messages  map[string]string `json:"messages"`
}

// ExportResponse is the JSON response for a saved image.
type ExportResponse struct {
	Location string `json:"location"`
	Bytes    int    `json:"bytes"`
	Message  string `json:"message"`
}

// Handler contains all HTTP handlers for the API.
//
// Design: single-user, single-session. Every request reads and mutates the
// one Engine, which serializes transitions itself. All connected browser
// tabs see the same session.
type Handler struct {
	engine    *engine.Engine
	exporter  *export.Exporter
	locale    *i18n.Locale
	settings  store.SettingsStore
	exportDir string
	logger    *zap.Logger

	// negotiate is set while no language was chosen explicitly; the
	// browser's Accept-Language then decides per request.
	negotiate atomic.Bool
}

// HandlerConfig holds the dependencies of a Handler.
type HandlerConfig struct {
	Engine    *engine.Engine
	Exporter  *export.Exporter
	Locale    *i18n.Locale
	Settings  store.SettingsStore // nil disables persisting language changes
	ExportDir string
	Negotiate bool // follow Accept-Language until a language is picked
	Logger    *zap.Logger
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		engine:    cfg.Engine,
		exporter:  cfg.Exporter,
		locale:    cfg.Locale,
		settings:  cfg.Settings,
		exportDir: cfg.ExportDir,
		logger:    logger,
	}
	h.negotiate.Store(cfg.Negotiate)
	return h
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Session routes
	mux.HandleFunc("GET /api/v1/state", h.GetState)
	mux.HandleFunc("POST /api/v1/roster", h.BuildRoster)
	mux.HandleFunc("POST /api/v1/events", h.DispatchEvent)
	mux.HandleFunc("POST /api/v1/reset", h.Reset)

	// Export routes
	mux.HandleFunc("GET /api/v1/export.png", h.DownloadImage)
	mux.HandleFunc("POST /api/v1/export", h.SaveImage)

	// Locale routes
	mux.HandleFunc("GET /api/v1/locale", h.GetLocale)
	mux.HandleFunc("PUT /api/v1/locale", h.SetLocale)

	mux.HandleFunc("GET /favicon.svg", h.GetFavicon)

	// Static files (frontend)
	mux.Handle("/", h.StaticHandler())
}

// language returns the display language for a request.
func (h *Handler) language(r *http.Request) i18n.Language {
	if r != nil && h.negotiate.Load() {
		return i18n.Match(r.Header.Get("Accept-Language"))
	}
	return h.locale.Current()
}

// State builds the response for a session at a revision in the given language.
func (h *Handler) State(lang i18n.Language, s model.Session, revision uint64) StateResponse {
	return StateResponse{
		Revision:       revision,
		Language:       lang,
		Session:        s,
		Groups:         s.Groups(),
		Unassigned:     s.Unassigned(),
		Progress:       s.Progress(),
		MasterPalette:  h.engine.Machine().MasterPalette(),
		MinPaletteSize: model.MinPaletteSize,
		MaxPaletteSize: model.MaxPaletteSize,
		Messages:       i18n.Messages(lang),
	}
}

// BroadcastState builds the state pushed to websocket clients after a change.
func (h *Handler) BroadcastState(s model.Session, revision uint64) any {
	return h.State(h.locale.Current(), s, revision)
}

// CurrentState returns the engine's session and revision.
func (h *Handler) CurrentState() (model.Session, uint64) {
	return h.engine.Current()
}

func (h *Handler) writeState(w http.ResponseWriter, r *http.Request) {
	s, rev := h.engine.Current()
	JSON(w, http.StatusOK, h.State(h.language(r), s, rev))
}

// --- Session Handlers ---

// GetState returns the current session with derived groups and display strings.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r)
}

// BuildRosterRequest is the JSON body for processing a list of names.
type BuildRosterRequest struct {
	Text string `json:"text"`
}

// BuildRoster replaces the roster with the names in the request.
func (h *Handler) BuildRoster(w http.ResponseWriter, r *http.Request) {
	var req BuildRosterRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	if roster.IsBlank(req.Text) {
		Error(w, teamserr.EmptyRoster())
		return
	}

	h.engine.Dispatch(engine.BuildRoster{Text: req.Text})
	h.writeState(w, r)
}

// DispatchEvent applies one engine event given in its JSON wire form.
func (h *Handler) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		BadRequest(w, "failed to read body")
		return
	}

	ev, err := engine.DecodeEvent(body)
	if err != nil {
		Error(w, err)
		return
	}

	if b, ok := ev.(engine.BuildRoster); ok && roster.IsBlank(b.Text) {
		Error(w, teamserr.EmptyRoster())
		return
	}

	h.engine.Dispatch(ev)
	h.writeState(w, r)
}

// Reset starts over with an empty roster and the initial palette.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.engine.Dispatch(engine.Reset{})
	h.writeState(w, r)
}

// --- Export Handlers ---

// DownloadImage renders the groups and sends them as an attachment.
func (h *Handler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.Render(h.engine.Snapshot())
	if err != nil {
		h.exportFailed(w, r, err)
		return
	}

	name := export.FileName(false, time.Time{}, h.exporter.Ext())
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// SaveImage renders the groups into the export directory.
func (h *Handler) SaveImage(w http.ResponseWriter, r *http.Request) {
	res, err := h.exporter.Export(r.Context(), h.engine.Snapshot(), export.DirSink{Dir: h.exportDir})
	if err != nil {
		h.exportFailed(w, r, err)
		return
	}

	JSON(w, http.StatusOK, ExportResponse{
		Location: res.Location,
		Bytes:    res.Bytes,
		Message:  i18n.Translate(h.language(r), i18n.KeyImageSavedToDownloads),
	})
}

func (h *Handler) exportFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("export failed", zap.Error(err))
	JSON(w, http.StatusInternalServerError, map[string]string{
		"error": i18n.Translate(h.language(r), i18n.KeyImageError),
	})
}

// --- Locale Handlers ---

func (h *Handler) localeResponse(lang i18n.Language) LocaleResponse {
	supported := make([]LanguageInfo, len(i18n.Supported))
	for i, l := range i18n.Supported {
		supported[i] = LanguageInfo{Code: l, Name: i18n.Names[l]}
	}
	return LocaleResponse{
		Language:  lang,
		Supported: supported,
		Messages:  i18n.Messages(lang),
	}
}

// GetLocale returns the display language and its strings.
func (h *Handler) GetLocale(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.localeResponse(h.language(r)))
}

// SetLocaleRequest is the JSON body for changing the display language.
type SetLocaleRequest struct {
	Language string `json:"language"`
}

// SetLocale selects the display language and remembers it in the settings file.
func (h *Handler) SetLocale(w http.ResponseWriter, r *http.Request) {
	var req SetLocaleRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	lang, err := i18n.Parse(req.Language)
	if err != nil {
		Error(w, err)
		return
	}

	h.locale.Set(lang)
	h.negotiate.Store(false)
	h.persistLanguage(lang)

	JSON(w, http.StatusOK, h.localeResponse(lang))
}

// persistLanguage saves the language preference. Failure only costs the
// preference on the next start, so it is logged rather than returned.
func (h *Handler) persistLanguage(lang i18n.Language) {
	if h.settings == nil {
		return
	}
	settings, err := h.settings.Load()
	if err != nil {
		h.logger.Warn("failed to load settings", zap.Error(err))
		return
	}
	settings.Language = string(lang)
	if err := h.settings.Save(settings); err != nil {
		h.logger.Warn("failed to save settings", zap.Error(err))
	}
}
