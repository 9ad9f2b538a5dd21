// Package client reads bot status from a running daemon over HTTP, or
// computes it in-process when no daemon is available.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/daemon/collector"
	"github.com/botboard-io/botboard/internal/models"
)

// Source is what the CLI and dashboard read from.
type Source interface {
	BotStatus(ctx context.Context) (*models.MonitoringData, error)
	RealBotStatus(ctx context.Context) (*models.RealStatusResponse, error)
	Activity(ctx context.Context, botID string, limit int) ([]models.Activity, error)
	Describe() string
}

// ErrUnknownBot is returned for a bot ID that is not configured.
var ErrUnknownBot = errors.New("unknown bot")

// HTTP talks to the daemon's JSON API.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTP returns a client for the daemon at baseURL.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Describe names the source for status lines.
func (c *HTTP) Describe() string {
	return c.BaseURL
}

// APIError is a non-2xx response from the daemon.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("daemon returned %d: %s (%s)", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("daemon returned %d: %s", e.Status, e.Message)
}

func (c *HTTP) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			apiErr.Message, apiErr.Details = e.Error, e.Details
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrUnknownBot, apiErr.Message)
		}
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// BotStatus fetches the file-ratio snapshot.
func (c *HTTP) BotStatus(ctx context.Context) (*models.MonitoringData, error) {
	var data models.MonitoringData
	if err := c.get(ctx, "/api/bot-status", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RealBotStatus fetches the log-based snapshot.
func (c *HTTP) RealBotStatus(ctx context.Context) (*models.RealStatusResponse, error) {
	var data models.RealStatusResponse
	if err := c.get(ctx, "/api/real-bot-status", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Activity fetches the newest activity records of a bot.
func (c *HTTP) Activity(ctx context.Context, botID string, limit int) ([]models.Activity, error) {
	var records []models.Activity
	path := "/api/bots/" + url.PathEscape(botID) + "/activity?limit=" + strconv.Itoa(limit)
	if err := c.get(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Local computes status in-process from the configuration files.
type Local struct {
	Collector *collector.Collector
}

// NewLocal loads settings and the workstream manifest and builds a
// collector over them.
func NewLocal() (*Local, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	manifest, err := config.LoadManifest()
	if err != nil {
		return nil, err
	}
	return &Local{Collector: collector.New(manifest, collector.WithSettings(settings))}, nil
}

// Describe names the source for status lines.
func (l *Local) Describe() string {
	return "local scan"
}

// BotStatus computes the file-ratio snapshot.
func (l *Local) BotStatus(ctx context.Context) (*models.MonitoringData, error) {
	data := l.Collector.Snapshot(ctx)
	return &data, nil
}

// RealBotStatus computes the log-based snapshot.
func (l *Local) RealBotStatus(ctx context.Context) (*models.RealStatusResponse, error) {
	data := l.Collector.Reported(ctx)
	return &data, nil
}

// Activity reads the newest activity records of a bot.
func (l *Local) Activity(_ context.Context, botID string, limit int) ([]models.Activity, error) {
	records, ok := l.Collector.Activity(botID, limit)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownBot, botID)
	}
	return records, nil
}

// Resolve picks the daemon at addr when given, the running daemon when
// there is one, and an in-process collector otherwise.
func Resolve(addr string) (Source, error) {
	if addr != "" {
		if !strings.Contains(addr, "://") {
			addr = "http://" + addr
		}
		return NewHTTP(addr), nil
	}
	running, info, err := config.IsDaemonRunning()
	if err == nil && running && info != nil {
		return NewHTTP(info.BaseURL()), nil
	}
	return NewLocal()
}
