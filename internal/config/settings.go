package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/botboard-io/botboard/internal/models"
)

// Environment overrides applied on top of settings.yaml.
const (
	EnvHost      = "BOTBOARD_HOST"
	EnvPort      = "BOTBOARD_PORT"
	EnvTelemetry = "BOTBOARD_TELEMETRY"
)

// LoadSettings loads the global settings from settings.yaml.
// If the file doesn't exist, returns default settings. Environment
// overrides are applied and the result is validated.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(settings); err != nil {
		return nil, err
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings saves the global settings to settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

func applyEnv(s *models.Settings) error {
	if v := os.Getenv(EnvHost); v != "" {
		s.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		s.Server.Port = port
	}
	if v := os.Getenv(EnvTelemetry); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			s.Telemetry.Enabled = true
		case "0", "false", "no", "off":
			s.Telemetry.Enabled = false
		default:
			return fmt.Errorf("%s: unrecognized value %q", EnvTelemetry, v)
		}
	}
	return nil
}

// ValidateSettings checks value ranges.
func ValidateSettings(s *models.Settings) error {
	var errs []error
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", s.Server.Port))
	}
	t := s.Thresholds
	if t.ActiveMinutes <= 0 {
		errs = append(errs, errors.New("thresholds.active_minutes must be positive"))
	}
	if t.IdleMinutes < t.ActiveMinutes {
		errs = append(errs, errors.New("thresholds.idle_minutes must not be below active_minutes"))
	}
	if t.ErrorLimit < 0 {
		errs = append(errs, errors.New("thresholds.error_limit must not be negative"))
	}
	if t.ProgressPerAction < 0 {
		errs = append(errs, errors.New("thresholds.progress_per_action must not be negative"))
	}
	if s.Timeline.WindowDays < 0 {
		errs = append(errs, errors.New("timeline.window_days must not be negative"))
	}
	if s.Stream.IntervalSeconds <= 0 {
		errs = append(errs, errors.New("stream.interval_seconds must be positive"))
	}
	if s.UI.PollSeconds <= 0 {
		errs = append(errs, errors.New("ui.poll_seconds must be positive"))
	}
	if s.Telemetry.Enabled && s.Telemetry.APIKey == "" {
		errs = append(errs, errors.New("telemetry.api_key is required when telemetry is enabled"))
	}
	if s.Elasticsearch.Enabled && len(s.Elasticsearch.Addresses) == 0 {
		errs = append(errs, errors.New("elasticsearch.addresses is required when export is enabled"))
	}
	return errors.Join(errs...)
}

// StreamInterval returns the WebSocket push interval.
func StreamInterval(s *models.Settings) time.Duration {
	return time.Duration(s.Stream.IntervalSeconds) * time.Second
}

// DebounceInterval returns the filesystem change debounce window.
func DebounceInterval(s *models.Settings) time.Duration {
	if s.Stream.DebounceMillis <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(s.Stream.DebounceMillis) * time.Millisecond
}
