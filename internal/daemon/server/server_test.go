package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/models"
)

type fakeSource struct {
	snap        models.MonitoringData
	real        models.RealStatusResponse
	panicReal   bool
	workstreams []models.Workstream
	activities  map[string][]models.Activity
	gotLimit    int
}

func (f *fakeSource) Snapshot(context.Context) models.MonitoringData { return f.snap }

func (f *fakeSource) Reported(context.Context) models.RealStatusResponse {
	if f.panicReal {
		panic("status file exploded")
	}
	return f.real
}

func (f *fakeSource) Bot(_ context.Context, id string) (models.BotStatus, bool) {
	for _, b := range f.snap.Bots {
		if b.ID == id {
			return b, true
		}
	}
	return models.BotStatus{}, false
}

func (f *fakeSource) Activity(id string, limit int) ([]models.Activity, bool) {
	recs, ok := f.activities[id]
	f.gotLimit = limit
	return recs, ok
}

func (f *fakeSource) Workstreams() []models.Workstream { return f.workstreams }

func newFake() *fakeSource {
	return &fakeSource{
		snap: models.MonitoringData{
			Timestamp: "2024-05-01T12:00:00.000Z",
			Bots: []models.BotStatus{
				{ID: "backend", Name: "Backend Bot", Status: models.StateActive, Progress: 50, Errors: []string{}},
			},
			Coordination: models.Coordination{IntegrationPoints: 4, SyncStatus: models.SyncSynced},
			Efficiency:   models.Efficiency{ParallelSpeedup: 1, TimelineProgress: 50},
		},
		real: models.RealStatusResponse{
			Bots:          []models.RealBotStatus{{ID: "backend", Name: "Backend Bot", Status: models.StateIdle}},
			LastUpdated:   "2024-05-01T12:00:00.000Z",
			TotalProgress: 10,
		},
		workstreams: []models.Workstream{{ID: "backend", Path: "/src/backend", ExpectedFiles: []string{"a.py", "b.py"}}},
		activities: map[string][]models.Activity{
			"backend": {{Bot: "backend", ActivityType: "file_created", Description: "created a.py"}},
		},
	}
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestRoutes(t *testing.T) {
	f := newFake()
	h := NewHandler(func() Source { return f }, nil, "1.2.3")

	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		contains string
	}{
		{"bot status", http.MethodGet, "/api/bot-status", 200, `"syncStatus":"synced"`},
		{"real bot status", http.MethodGet, "/api/real-bot-status", 200, `"totalProgress":10`},
		{"one bot", http.MethodGet, "/api/bots/backend", 200, `"name":"Backend Bot"`},
		{"unknown bot", http.MethodGet, "/api/bots/nope", 404, `unknown bot`},
		{"activity", http.MethodGet, "/api/bots/backend/activity", 200, `"activity_type":"file_created"`},
		{"activity unknown bot", http.MethodGet, "/api/bots/nope/activity", 404, `unknown bot`},
		{"bad limit", http.MethodGet, "/api/bots/backend/activity?limit=x", 400, `limit`},
		{"negative limit", http.MethodGet, "/api/bots/backend/activity?limit=-1", 400, `limit`},
		{"workstreams", http.MethodGet, "/api/workstreams", 200, `"expectedFiles":2`},
		{"health", http.MethodGet, "/health", 200, `"version":"1.2.3"`},
		{"not found", http.MethodGet, "/api/missing", 404, `"error":"not found"`},
		{"method not allowed", http.MethodPost, "/api/bot-status", 405, `method not allowed`},
		{"no stream without hub", http.MethodGet, "/ws/bot-status", 404, `not found`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body = %s, want it to contain %s", rec.Body.String(), tt.contains)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestActivityLimit(t *testing.T) {
	f := newFake()
	h := NewHandler(func() Source { return f }, nil, "dev")

	do(t, h, http.MethodGet, "/api/bots/backend/activity")
	if f.gotLimit != DefaultActivityLimit {
		t.Errorf("default limit = %d, want %d", f.gotLimit, DefaultActivityLimit)
	}
	do(t, h, http.MethodGet, "/api/bots/backend/activity?limit=3")
	if f.gotLimit != 3 {
		t.Errorf("limit = %d, want 3", f.gotLimit)
	}
}

func TestBotStatusEncodeFailure(t *testing.T) {
	f := newFake()
	f.snap.Efficiency.TimelineProgress = math.NaN()
	h := NewHandler(func() Source { return f }, nil, "dev")

	rec := do(t, h, http.MethodGet, "/api/bot-status")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["error"] != "Failed to get bot status" {
		t.Errorf("error = %q", body["error"])
	}
	if _, ok := body["details"]; ok {
		t.Errorf("file variant error carries details: %v", body)
	}
}

func TestRealBotStatusPanic(t *testing.T) {
	f := newFake()
	f.panicReal = true
	h := NewHandler(func() Source { return f }, nil, "dev")

	rec := do(t, h, http.MethodGet, "/api/real-bot-status")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["error"] != "Failed to get bot status" {
		t.Errorf("error = %q", body["error"])
	}
	if body["details"] != "status file exploded" {
		t.Errorf("details = %q", body["details"])
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFake()
	h := NewHandler(func() Source { return f }, nil, "dev")

	rec := do(t, h, http.MethodOptions, "/api/bot-status")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestRequestID(t *testing.T) {
	f := newFake()
	h := NewHandler(func() Source { return f }, nil, "dev")

	rec := do(t, h, http.MethodGet, "/health")
	if id := rec.Header().Get("X-Request-ID"); len(id) != 8 {
		t.Errorf("X-Request-ID = %q, want 8 chars", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if id := rec.Header().Get("X-Request-ID"); id != "abc" {
		t.Errorf("X-Request-ID = %q, want propagated abc", id)
	}
}

func TestServerServesAPIAndHealthRPC(t *testing.T) {
	t.Setenv("BOTBOARD_HOME", t.TempDir())

	settings := models.NewSettings()
	settings.Stream.WatchFiles = false
	srv, err := New("127.0.0.1", 0, settings, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve() }()
	defer func() {
		srv.Stop()
		if err := <-errCh; err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	}()

	addr := fmt.Sprintf("127.0.0.1:%d", srv.Port())

	resp, err := http.Get("http://" + addr + "/api/bot-status")
	if err != nil {
		t.Fatalf("GET bot-status: %v", err)
	}
	var snap models.MonitoringData
	err = json.NewDecoder(resp.Body).Decode(&snap)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || len(snap.Bots) != 0 || snap.Coordination.SyncStatus != models.SyncPending {
		t.Errorf("empty daemon snapshot = %d %+v", resp.StatusCode, snap)
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: models.HealthService})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("health = %v, want SERVING", res.GetStatus())
	}
}

func TestReloadAppliesSettings(t *testing.T) {
	home := t.TempDir()
	t.Setenv("BOTBOARD_HOME", home)

	settings := models.NewSettings()
	settings.Stream.WatchFiles = false
	srv, err := New("127.0.0.1", 0, settings, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer srv.Stop()

	ctx := context.Background()
	before := srv.Collector().Snapshot(ctx).Coordination.IntegrationPoints

	manifest := &models.Manifest{Version: 1, Workstreams: []models.Workstream{
		{ID: "api", Path: t.TempDir(), Liveness: models.LivenessProbe{Kind: models.LivenessNone}},
	}}
	manifest.ApplyDefaults()
	if err := config.SaveManifest(manifest); err != nil {
		t.Fatal(err)
	}
	edited := models.NewSettings()
	edited.Timeline.IntegrationPoints = before + 5
	if err := config.SaveSettings(edited); err != nil {
		t.Fatal(err)
	}

	srv.reload()

	snap := srv.Collector().Snapshot(ctx)
	if len(snap.Bots) != 1 {
		t.Fatalf("reloaded bots = %d, want 1", len(snap.Bots))
	}
	if got := snap.Coordination.IntegrationPoints; got != before+5 {
		t.Errorf("integration points after reload = %d, want %d", got, before+5)
	}
}
