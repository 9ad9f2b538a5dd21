package models

import "time"

// ServerConfig holds the daemon listen address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"` // 0 = dynamic allocation
}

// ThresholdsConfig holds the status derivation thresholds shared by both
// status variants.
type ThresholdsConfig struct {
	ActiveMinutes     int `yaml:"active_minutes"`
	IdleMinutes       int `yaml:"idle_minutes"`
	ErrorLimit        int `yaml:"error_limit"`
	ProgressPerAction int `yaml:"progress_per_action"`
}

// TimelineConfig holds the inputs of the coordination and efficiency summaries.
type TimelineConfig struct {
	WindowDays         int     `yaml:"window_days"`
	IntegrationPoints  int     `yaml:"integration_points"`
	ParallelEfficiency float64 `yaml:"parallel_efficiency"`
}

// StreamConfig controls the WebSocket push loop and the filesystem trigger.
type StreamConfig struct {
	IntervalSeconds int  `yaml:"interval_seconds"`
	WatchFiles      bool `yaml:"watch_files"`
	DebounceMillis  int  `yaml:"debounce_ms"`
}

// UIConfig holds terminal dashboard settings.
type UIConfig struct {
	PollSeconds int    `yaml:"poll_seconds"`
	Theme       string `yaml:"theme"` // "system" | "light" | "dark"
}

// TelemetryConfig holds opt-in usage analytics settings.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

// ElasticsearchConfig holds snapshot export settings.
type ElasticsearchConfig struct {
	Enabled         bool     `yaml:"enabled"`
	Addresses       []string `yaml:"addresses"`
	Index           string   `yaml:"index"`
	IntervalSeconds int      `yaml:"interval_seconds"`
}

// UpdatesConfig holds settings for release checks.
type UpdatesConfig struct {
	CheckOnStartup bool       `yaml:"check_on_startup"`
	LastChecked    *time.Time `yaml:"last_checked,omitempty"`
}

// Settings represents global application settings.
// This corresponds to ~/.botboard/settings.yaml.
type Settings struct {
	Version       int                 `yaml:"version"`
	Server        ServerConfig        `yaml:"server"`
	Thresholds    ThresholdsConfig    `yaml:"thresholds"`
	Timeline      TimelineConfig      `yaml:"timeline"`
	Stream        StreamConfig        `yaml:"stream"`
	UI            UIConfig            `yaml:"ui"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Updates       UpdatesConfig       `yaml:"updates"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Server: ServerConfig{
			Host: "localhost",
			Port: 7420,
		},
		Thresholds: ThresholdsConfig{
			ActiveMinutes:     5,
			IdleMinutes:       15,
			ErrorLimit:        5,
			ProgressPerAction: 2,
		},
		Timeline: TimelineConfig{
			WindowDays:         42,
			IntegrationPoints:  4,
			ParallelEfficiency: 0.8,
		},
		Stream: StreamConfig{
			IntervalSeconds: 5,
			WatchFiles:      true,
			DebounceMillis:  500,
		},
		UI: UIConfig{
			PollSeconds: 5,
			Theme:       "system",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "https://us.i.posthog.com",
		},
		Elasticsearch: ElasticsearchConfig{
			Enabled:         false,
			Addresses:       []string{"http://localhost:9200"},
			Index:           "botboard-status",
			IntervalSeconds: 60,
		},
		Updates: UpdatesConfig{
			CheckOnStartup: false,
		},
	}
}
