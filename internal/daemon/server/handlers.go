package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/botboard-io/botboard/internal/daemon/hub"
	"github.com/botboard-io/botboard/internal/models"
)

// Source produces status snapshots. The collector is the production Source.
type Source interface {
	Snapshot(ctx context.Context) models.MonitoringData
	Reported(ctx context.Context) models.RealStatusResponse
	Bot(ctx context.Context, id string) (models.BotStatus, bool)
	Activity(id string, limit int) ([]models.Activity, bool)
	Workstreams() []models.Workstream
}

// Error messages served on failure.
const (
	errBotStatus = "Failed to get bot status"
)

// DefaultActivityLimit is used when /activity is called without ?limit.
const DefaultActivityLimit = 20

type api struct {
	source  func() Source
	hub     *hub.Hub
	version string
	started time.Time
}

// NewHandler returns the HTTP API over source. hub may be nil, in which
// case the WebSocket stream is not mounted.
func NewHandler(source func() Source, h *hub.Hub, version string) http.Handler {
	a := &api{source: source, hub: h, version: version, started: time.Now()}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recovery)
	r.Use(CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", a.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/bot-status", a.botStatus)
		r.Get("/real-bot-status", a.realBotStatus)
		r.Get("/workstreams", a.workstreams)
		r.Get("/bots/{id}", a.bot)
		r.Get("/bots/{id}/activity", a.activity)
	})
	if h != nil {
		r.Get("/ws/bot-status", a.stream)
	}
	return r
}

// recoverAs converts a panic inside a status handler into the endpoint's
// own error body.
func recoverAs(w http.ResponseWriter, msg string, withDetails bool) {
	rec := recover()
	if rec == nil {
		return
	}
	log.Printf("[http] %s: %v", msg, rec)
	if withDetails {
		writeErrorDetails(w, http.StatusInternalServerError, msg, fmt.Sprint(rec))
		return
	}
	writeError(w, http.StatusInternalServerError, msg)
}

func (a *api) botStatus(w http.ResponseWriter, r *http.Request) {
	defer recoverAs(w, errBotStatus, false)

	snap := a.source().Snapshot(r.Context())
	if err := writeJSON(w, http.StatusOK, snap); err != nil {
		log.Printf("[http] encode bot status: %v", err)
		writeError(w, http.StatusInternalServerError, errBotStatus)
	}
}

func (a *api) realBotStatus(w http.ResponseWriter, r *http.Request) {
	defer recoverAs(w, errBotStatus, true)

	resp := a.source().Reported(r.Context())
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.Printf("[http] encode real bot status: %v", err)
		writeErrorDetails(w, http.StatusInternalServerError, errBotStatus, err.Error())
	}
}

func (a *api) bot(w http.ResponseWriter, r *http.Request) {
	defer recoverAs(w, errBotStatus, false)

	id := chi.URLParam(r, "id")
	b, ok := a.source().Bot(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown bot %q", id))
		return
	}
	if err := writeJSON(w, http.StatusOK, b); err != nil {
		writeError(w, http.StatusInternalServerError, errBotStatus)
	}
}

func (a *api) activity(w http.ResponseWriter, r *http.Request) {
	limit := DefaultActivityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	id := chi.URLParam(r, "id")
	records, ok := a.source().Activity(id, limit)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown bot %q", id))
		return
	}
	if err := writeJSON(w, http.StatusOK, records); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode activity")
	}
}

type workstreamView struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Path          string              `json:"path"`
	Extensions    []string            `json:"extensions"`
	ExpectedFiles int                 `json:"expectedFiles"`
	Liveness      models.LivenessKind `json:"liveness"`
	LogsDir       string              `json:"logsDir"`
}

func (a *api) workstreams(w http.ResponseWriter, r *http.Request) {
	ws := a.source().Workstreams()
	out := make([]workstreamView, 0, len(ws))
	for i := range ws {
		out = append(out, workstreamView{
			ID:            ws[i].ID,
			Name:          ws[i].DisplayName(),
			Path:          ws[i].Path,
			Extensions:    ws[i].Extensions,
			ExpectedFiles: len(ws[i].ExpectedFiles),
			Liveness:      ws[i].Liveness.Kind,
			LogsDir:       ws[i].LogsDir,
		})
	}
	_ = writeJSON(w, http.StatusOK, out)
}

type healthView struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Workstreams   int    `json:"workstreams"`
	Subscribers   int    `json:"subscribers"`
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	subs := 0
	if a.hub != nil {
		subs = a.hub.ClientCount()
	}
	_ = writeJSON(w, http.StatusOK, healthView{
		Status:        "ok",
		Version:       a.version,
		UptimeSeconds: int64(time.Since(a.started).Seconds()),
		Workstreams:   len(a.source().Workstreams()),
		Subscribers:   subs,
	})
}

func (a *api) stream(w http.ResponseWriter, r *http.Request) {
	a.hub.Serve(w, r, a.source().Snapshot(r.Context()))
}
