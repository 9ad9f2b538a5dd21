package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Activity is one record of a workstream's JSONL activity log.
type Activity struct {
	Timestamp      string                     `json:"timestamp"`
	Bot            string                     `json:"bot"`
	ActivityType   string                     `json:"activity_type"`
	Description    string                     `json:"description"`
	Details        map[string]json.RawMessage `json:"details,omitempty"`
	SessionMetrics map[string]json.RawMessage `json:"session_metrics,omitempty"`
}

// Time parses the record timestamp. Timestamps without a zone are local time.
func (a Activity) Time() (time.Time, bool) {
	return ParseTimestamp(a.Timestamp)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC 3339 and naive ISO-8601 timestamps.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.Contains(layout, "Z07") {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ReportedMetrics are the counters a bot writes to the status file.
type ReportedMetrics struct {
	FilesCreated           int     `json:"files_created"`
	FilesModified          int     `json:"files_modified"`
	CommandsExecuted       int     `json:"commands_executed"`
	ErrorsEncountered      int     `json:"errors_encountered"`
	SessionDurationMinutes float64 `json:"session_duration_minutes"`
}

// Actions is the number of recorded actions that count toward progress.
func (m ReportedMetrics) Actions() int {
	return m.FilesCreated + m.FilesModified + m.CommandsExecuted
}

// ReportedStatus is one entry of bot_status_real.json.
type ReportedStatus struct {
	LastActivity string          `json:"last_activity"`
	Status       string          `json:"status"`
	SessionStart string          `json:"session_start"`
	Metrics      ReportedMetrics `json:"metrics"`
}

// RealBotStatus is the reported status of one workstream.
type RealBotStatus struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Status           BotState        `json:"status"`
	LastActivity     string          `json:"last_activity"`
	SessionStart     string          `json:"session_start"`
	Metrics          ReportedMetrics `json:"metrics"`
	RecentActivities []Activity      `json:"recent_activities"`
	Progress         int             `json:"progress"`
	IsProcessRunning bool            `json:"isProcessRunning"`
}

// RealStatusResponse is the payload served by /api/real-bot-status.
type RealStatusResponse struct {
	Bots          []RealBotStatus `json:"bots"`
	LastUpdated   string          `json:"lastUpdated"`
	TotalProgress int             `json:"totalProgress"`
}
