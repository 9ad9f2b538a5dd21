package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/botboard-io/botboard/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadYAMLOrDefaultKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "server:\n  port: 9000\n")

	s, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		t.Fatalf("LoadYAMLOrDefault: %v", err)
	}
	if s.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", s.Server.Port)
	}
	if s.Server.Host != "localhost" {
		t.Errorf("host = %q, want default localhost", s.Server.Host)
	}
	if s.Timeline.WindowDays != 42 {
		t.Errorf("window_days = %d, want 42", s.Timeline.WindowDays)
	}
}

func TestLoadYAMLOrDefaultMissingFile(t *testing.T) {
	s, err := LoadYAMLOrDefault(filepath.Join(t.TempDir(), "nope.yaml"), models.NewSettings)
	if err != nil {
		t.Fatalf("LoadYAMLOrDefault: %v", err)
	}
	if s.Thresholds.ActiveMinutes != 5 {
		t.Errorf("active_minutes = %d, want 5", s.Thresholds.ActiveMinutes)
	}
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "servr:\n  port: 1\n")

	var s models.Settings
	if err := LoadYAML(path, &s); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestSaveYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "daemon.yaml")
	in := models.NewDaemonInfo("localhost", 7420, 42, "dev")
	if err := SaveYAML(path, in); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}
	var out models.DaemonInfo
	if err := LoadYAML(path, &out); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if out.Addr() != "localhost:7420" || out.PID != 42 {
		t.Errorf("got %+v", out)
	}
	if FileExists(path + ".tmp") {
		t.Error("temp file left behind")
	}
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv(EnvPort, "8123")
	t.Setenv(EnvHost, "0.0.0.0")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Server.Port != 8123 || s.Server.Host != "0.0.0.0" {
		t.Errorf("server = %+v", s.Server)
	}
}

func TestLoadSettingsBadEnv(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv(EnvPort, "eighty")

	if _, err := LoadSettings(); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Settings)
		wantErr string
	}{
		{"defaults", func(*models.Settings) {}, ""},
		{"port range", func(s *models.Settings) { s.Server.Port = 70000 }, "server.port"},
		{"idle below active", func(s *models.Settings) { s.Thresholds.IdleMinutes = 1 }, "idle_minutes"},
		{"telemetry without key", func(s *models.Settings) { s.Telemetry.Enabled = true }, "api_key"},
		{"export without address", func(s *models.Settings) {
			s.Elasticsearch.Enabled = true
			s.Elasticsearch.Addresses = nil
		}, "addresses"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadManifestFileResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workstreams.yaml")
	writeFile(t, path, `version: 1
logs_dir: logs
workstreams:
  - id: backend
    path: scriby-backend
    expected_files: [manage.py]
  - id: devops
    path: /srv/infra
    expected_files: []
    liveness:
      kind: pidfile
      path: /tmp/devops.pid
`)

	m, err := LoadManifestFile(path)
	if err != nil {
		t.Fatalf("LoadManifestFile: %v", err)
	}
	backend, ok := m.Find("backend")
	if !ok {
		t.Fatal("backend not found")
	}
	if backend.Path != filepath.Join(dir, "scriby-backend") {
		t.Errorf("path = %q", backend.Path)
	}
	if backend.LogsDir != filepath.Join(dir, "logs") {
		t.Errorf("logs_dir = %q", backend.LogsDir)
	}
	if backend.Liveness.Kind != models.LivenessProcess {
		t.Errorf("liveness = %q, want process", backend.Liveness.Kind)
	}
	if len(backend.Extensions) == 0 {
		t.Error("extensions not defaulted")
	}
	devops, _ := m.Find("devops")
	if devops.Path != "/srv/infra" {
		t.Errorf("absolute path rewritten: %q", devops.Path)
	}
}

func TestValidateManifest(t *testing.T) {
	tests := []struct {
		name    string
		ws      []models.Workstream
		wantErr string
	}{
		{"ok", []models.Workstream{{ID: "a", Path: "/a"}, {ID: "b", Path: "/b"}}, ""},
		{"missing id", []models.Workstream{{Path: "/a"}}, "id is required"},
		{"duplicate", []models.Workstream{{ID: "a", Path: "/a"}, {ID: "A", Path: "/b"}}, "duplicate"},
		{"missing path", []models.Workstream{{ID: "a"}}, "path is required"},
		{"bad kind", []models.Workstream{{ID: "a", Path: "/a", Liveness: models.LivenessProbe{Kind: "psychic"}}}, "unknown liveness"},
		{"heartbeat path", []models.Workstream{{ID: "a", Path: "/a", Liveness: models.LivenessProbe{Kind: models.LivenessHeartbeat}}}, "needs a path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifest(&models.Manifest{Workstreams: tt.ws})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadManifestMissing(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	if _, err := LoadManifest(); err != ErrNoManifest {
		t.Fatalf("err = %v, want ErrNoManifest", err)
	}
}

func TestIsDaemonRunning(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	running, info, err := IsDaemonRunning()
	if err != nil || running || info != nil {
		t.Fatalf("no daemon.yaml: running=%v info=%v err=%v", running, info, err)
	}

	if err := SaveDaemonInfo(models.NewDaemonInfo("localhost", 1, os.Getpid(), "dev")); err != nil {
		t.Fatal(err)
	}
	running, _, err = IsDaemonRunning()
	if err != nil || !running {
		t.Fatalf("own pid: running=%v err=%v", running, err)
	}

	// PIDs this large are never allocated on Linux or macOS.
	if err := SaveDaemonInfo(models.NewDaemonInfo("localhost", 1, 1<<30, "dev")); err != nil {
		t.Fatal(err)
	}
	running, _, err = IsDaemonRunning()
	if err != nil || running {
		t.Fatalf("dead pid: running=%v err=%v", running, err)
	}
	path, _ := GlobalDaemonFile()
	if FileExists(path) {
		t.Error("stale daemon.yaml not removed")
	}
}
