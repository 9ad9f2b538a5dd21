// Package telemetry sends opt-in usage events to PostHog.
package telemetry

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/botboard-io/botboard/internal/buildinfo"
	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/models"
)

// Event names.
const (
	EventDaemonStarted = "daemon_started"
	EventDaemonStopped = "daemon_stopped"
	EventCLICommand    = "cli_command"
)

// Client records usage events. The zero value and a nil *Client are
// disabled clients that drop everything.
type Client struct {
	ph         posthog.Client
	distinctID string
}

// New returns a client for cfg. Telemetry is off unless cfg.Enabled is set
// and an API key is configured.
func New(cfg models.TelemetryConfig, installID string) (*Client, error) {
	if !cfg.Enabled || cfg.APIKey == "" {
		return &Client{}, nil
	}
	ph, err := posthog.NewWithConfig(cfg.APIKey, posthog.Config{Endpoint: cfg.Endpoint})
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry client: %w", err)
	}
	return &Client{ph: ph, distinctID: installID}, nil
}

// Enabled reports whether events are sent.
func (c *Client) Enabled() bool {
	return c != nil && c.ph != nil
}

// Track enqueues an event with the given properties.
func (c *Client) Track(event string, props map[string]interface{}) {
	if !c.Enabled() {
		return
	}
	p := posthog.NewProperties().
		Set("version", buildinfo.Version).
		Set("os", runtime.GOOS).
		Set("arch", runtime.GOARCH)
	for k, v := range props {
		p.Set(k, v)
	}
	if err := c.ph.Enqueue(posthog.Capture{
		DistinctId: c.distinctID,
		Event:      event,
		Properties: p,
	}); err != nil {
		log.Printf("[telemetry] enqueue %s: %v", event, err)
	}
}

// Close flushes pending events.
func (c *Client) Close() {
	if !c.Enabled() {
		return
	}
	if err := c.ph.Close(); err != nil {
		log.Printf("[telemetry] close: %v", err)
	}
}

// InstallID returns the anonymous installation ID, creating it on first use.
func InstallID() (string, error) {
	dir, err := config.GlobalDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, config.InstallIDFileName)

	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	if err := config.EnsureGlobalDir(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("failed to write install id: %w", err)
	}
	return id, nil
}
