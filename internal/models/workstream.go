package models

import (
	"path/filepath"
	"strings"
	"unicode"
)

// LivenessKind selects how a workstream's bot process is detected.
type LivenessKind string

// Liveness kinds
const (
	LivenessProcess   LivenessKind = "process"   // command line substring match
	LivenessPIDFile   LivenessKind = "pidfile"   // PID read from a file, probed with signal 0
	LivenessHeartbeat LivenessKind = "heartbeat" // file touched within max_age
	LivenessNone      LivenessKind = "none"
)

// LivenessProbe configures the liveness check of a workstream.
type LivenessProbe struct {
	Kind    LivenessKind `yaml:"kind"`
	Pattern string       `yaml:"pattern,omitempty"`
	Path    string       `yaml:"path,omitempty"`
	MaxAge  string       `yaml:"max_age,omitempty"` // Go duration, heartbeat only
}

// Workstream describes one observed development effort ("bot").
type Workstream struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name,omitempty"`
	Path          string        `yaml:"path"`
	Extensions    []string      `yaml:"extensions,omitempty"`
	SkipDirs      []string      `yaml:"skip_dirs,omitempty"`
	ExpectedFiles []string      `yaml:"expected_files"`
	Liveness      LivenessProbe `yaml:"liveness"`
	LogsDir       string        `yaml:"logs_dir,omitempty"`
	Command       []string      `yaml:"command,omitempty"`
	CommandDir    string        `yaml:"command_dir,omitempty"`
}

// DisplayName returns the configured name or "<Id> Bot".
func (w *Workstream) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	if w.ID == "" {
		return "Bot"
	}
	r := []rune(w.ID)
	r[0] = unicode.ToUpper(r[0])
	return string(r) + " Bot"
}

// ProcessPattern returns the command line pattern used by process liveness.
func (w *Workstream) ProcessPattern() string {
	if w.Liveness.Pattern != "" {
		return w.Liveness.Pattern
	}
	return w.ID + "-bot.py --continuous"
}

// ActivityLogPath returns the JSONL activity log of this workstream.
func (w *Workstream) ActivityLogPath() string {
	return filepath.Join(w.LogsDir, w.ID+"_activity.jsonl")
}

// StatusFilePath returns the externally reported status file.
func (w *Workstream) StatusFilePath() string {
	return filepath.Join(w.LogsDir, "bot_status_real.json")
}

// Manifest is the set of observed workstreams.
// This corresponds to ~/.botboard/workstreams.yaml.
type Manifest struct {
	Version     int          `yaml:"version"`
	LogsDir     string       `yaml:"logs_dir,omitempty"`
	Workstreams []Workstream `yaml:"workstreams"`
}

// Find returns the workstream with the given ID.
func (m *Manifest) Find(id string) (*Workstream, bool) {
	for i := range m.Workstreams {
		if strings.EqualFold(m.Workstreams[i].ID, id) {
			return &m.Workstreams[i], true
		}
	}
	return nil, false
}

// IDs returns workstream IDs in manifest order.
func (m *Manifest) IDs() []string {
	ids := make([]string, 0, len(m.Workstreams))
	for _, ws := range m.Workstreams {
		ids = append(ids, ws.ID)
	}
	return ids
}

// DefaultExtensions returns the file extensions counted when a workstream
// sets none.
func DefaultExtensions() []string {
	return []string{"py", "ts", "tsx", "dart", "yml", "yaml", "json"}
}

// DefaultSkipDirs returns the directory names skipped when a workstream sets
// none.
func DefaultSkipDirs() []string {
	return []string{"node_modules", "__pycache__"}
}

// ApplyDefaults fills unset workstream fields from the manifest-level values.
func (m *Manifest) ApplyDefaults() {
	for i := range m.Workstreams {
		ws := &m.Workstreams[i]
		if len(ws.Extensions) == 0 {
			ws.Extensions = DefaultExtensions()
		}
		if ws.SkipDirs == nil {
			ws.SkipDirs = DefaultSkipDirs()
		}
		if ws.Liveness.Kind == "" {
			ws.Liveness.Kind = LivenessProcess
		}
		if ws.LogsDir == "" {
			ws.LogsDir = m.LogsDir
		}
		if ws.LogsDir == "" {
			ws.LogsDir = filepath.Join(ws.Path, "logs")
		}
	}
}

// NewDefaultManifest returns the four standard workstreams rooted under base.
func NewDefaultManifest(base string) *Manifest {
	bot := func(id string) []string {
		return []string{"python3", filepath.Join("scripts", id+"-bot.py"), "--continuous"}
	}
	m := &Manifest{
		Version: 1,
		LogsDir: filepath.Join(base, "logs"),
		Workstreams: []Workstream{
			{
				ID:   "backend",
				Path: filepath.Join(base, "scriby-backend"),
				ExpectedFiles: []string{
					"requirements.txt",
					"manage.py",
					"config/settings/base.py",
					"config/settings/development.py",
					"config/settings/production.py",
					"config/urls.py",
					"config/wsgi.py",
					"config/celery.py",
					"apps/users/models.py",
					"apps/users/serializers.py",
					"apps/users/views.py",
					"apps/transcriptions/models.py",
					"apps/transcriptions/serializers.py",
					"apps/transcriptions/views.py",
					"apps/analytics/models.py",
					"apps/analytics/views.py",
					"apps/billing/models.py",
				},
				Command:    bot("backend"),
				CommandDir: base,
			},
			{
				ID:   "dashboard",
				Path: filepath.Join(base, "scriby-dashboard"),
				ExpectedFiles: []string{
					"package.json",
					"next.config.js",
					"app/layout.tsx",
					"app/page.tsx",
					"app/globals.css",
					"components/layout/sidebar.tsx",
					"components/layout/header.tsx",
					"components/ui/button.tsx",
					"components/charts/aarrr-metrics.tsx",
					"components/charts/cost-monitoring.tsx",
					"app/dashboard/page.tsx",
					"app/auth/login/page.tsx",
				},
				Command:    bot("dashboard"),
				CommandDir: base,
			},
			{
				ID:   "mobile",
				Path: filepath.Join(base, "scriby"),
				ExpectedFiles: []string{
					"lib/core/api/api_client.dart",
					"lib/features/transcription/providers/transcription_provider.dart",
					"lib/features/transcription/models/transcription_model.dart",
					"lib/features/auth/providers/auth_provider.dart",
					"lib/shared/widgets/upload_button.dart",
					"lib/features/sync/providers/sync_provider.dart",
					"lib/core/storage/local_storage.dart",
					"lib/features/recording/widgets/recording_controls.dart",
				},
				Command:    bot("mobile"),
				CommandDir: base,
			},
			{
				ID:   "devops",
				Path: filepath.Join(base, "scriby-infra"),
				ExpectedFiles: []string{
					"docker-compose.yml",
					".env.example",
					"Dockerfile.backend",
					"Dockerfile.dashboard",
					"docker/database/init.sql",
					".github/workflows/ci.yml",
					".github/workflows/deploy.yml",
					"scripts/deploy.sh",
					"monitoring/prometheus.yml",
					"monitoring/grafana-dashboard.json",
				},
				Command:    bot("devops"),
				CommandDir: base,
			},
		},
	}
	m.ApplyDefaults()
	return m
}
