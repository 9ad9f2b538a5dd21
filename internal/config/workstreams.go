package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/botboard-io/botboard/internal/models"
)

// ErrNoManifest is returned when workstreams.yaml has not been created yet.
var ErrNoManifest = errors.New("no workstreams configured (run `botboard workstreams init`)")

// LoadManifest loads the workstream manifest from workstreams.yaml.
func LoadManifest() (*models.Manifest, error) {
	path, err := GlobalWorkstreamsFile()
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		return nil, ErrNoManifest
	}
	return LoadManifestFile(path)
}

// LoadManifestFile loads, defaults and validates a manifest at path.
// Relative workstream paths are resolved against the manifest's directory.
func LoadManifestFile(path string) (*models.Manifest, error) {
	var m models.Manifest
	if err := LoadYAML(path, &m); err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	if m.LogsDir != "" && !filepath.IsAbs(m.LogsDir) {
		m.LogsDir = filepath.Join(base, m.LogsDir)
	}
	for i := range m.Workstreams {
		ws := &m.Workstreams[i]
		if ws.Path != "" && !filepath.IsAbs(ws.Path) {
			ws.Path = filepath.Join(base, ws.Path)
		}
		if ws.LogsDir != "" && !filepath.IsAbs(ws.LogsDir) {
			ws.LogsDir = filepath.Join(base, ws.LogsDir)
		}
	}
	if err := ValidateManifest(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	m.ApplyDefaults()
	return &m, nil
}

// SaveManifest writes the manifest to workstreams.yaml.
func SaveManifest(m *models.Manifest) error {
	path, err := GlobalWorkstreamsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, m)
}

// ValidateManifest checks that workstream IDs are unique and every
// workstream names a root directory.
func ValidateManifest(m *models.Manifest) error {
	var errs []error
	seen := make(map[string]bool, len(m.Workstreams))
	for i, ws := range m.Workstreams {
		id := strings.ToLower(strings.TrimSpace(ws.ID))
		switch {
		case id == "":
			errs = append(errs, fmt.Errorf("workstream %d: id is required", i))
		case strings.ContainsAny(id, `/\ `):
			errs = append(errs, fmt.Errorf("workstream %q: id must not contain slashes or spaces", ws.ID))
		case seen[id]:
			errs = append(errs, fmt.Errorf("workstream %q: duplicate id", ws.ID))
		}
		seen[id] = true
		if strings.TrimSpace(ws.Path) == "" {
			errs = append(errs, fmt.Errorf("workstream %q: path is required", ws.ID))
		}
		switch ws.Liveness.Kind {
		case "", models.LivenessProcess, models.LivenessNone:
		case models.LivenessPIDFile, models.LivenessHeartbeat:
			if ws.Liveness.Kind == models.LivenessHeartbeat && ws.Liveness.Path == "" {
				errs = append(errs, fmt.Errorf("workstream %q: heartbeat liveness needs a path", ws.ID))
			}
		default:
			errs = append(errs, fmt.Errorf("workstream %q: unknown liveness kind %q", ws.ID, ws.Liveness.Kind))
		}
	}
	return errors.Join(errs...)
}
