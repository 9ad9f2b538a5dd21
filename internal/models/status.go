package models

import "time"

// BotState is the derived status label of a workstream.
type BotState string

// File-ratio variant states
const (
	StateActive    BotState = "active"
	StateIdle      BotState = "idle"
	StateError     BotState = "error"
	StateCompleted BotState = "completed"
)

// Reported variant adds an inactive state.
const StateInactive BotState = "inactive"

// NeverActive is reported as lastActivity when no modification time exists.
const NeverActive = "Never"

// SyncStatus values
const (
	SyncSynced  = "synced"
	SyncPending = "pending"
)

// BotMetrics holds the file-ratio variant's per-bot counters.
type BotMetrics struct {
	LinesOfCode  int `json:"linesOfCode"`
	Commits      int `json:"commits"`
	TestsWritten int `json:"testsWritten"`
	APIEndpoints int `json:"apiEndpoints"`
}

// BotStatus is the file-ratio status of one workstream.
type BotStatus struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Status       BotState   `json:"status"`
	Progress     int        `json:"progress"`
	FilesCreated int        `json:"filesCreated"`
	TotalFiles   int        `json:"totalFiles"`
	LastActivity string     `json:"lastActivity"`
	CurrentTask  string     `json:"currentTask"`
	Errors       []string   `json:"errors"`
	Metrics      BotMetrics `json:"metrics"`
}

// Coordination summarizes cross-workstream integration.
type Coordination struct {
	IntegrationPoints int    `json:"integrationPoints"`
	Conflicts         int    `json:"conflicts"`
	SyncStatus        string `json:"syncStatus"`
}

// Efficiency summarizes parallel throughput and the completion projection.
type Efficiency struct {
	ParallelSpeedup     float64 `json:"parallelSpeedup"`
	TimelineProgress    float64 `json:"timelineProgress"`
	EstimatedCompletion string  `json:"estimatedCompletion"`
}

// MonitoringData is the snapshot served by /api/bot-status.
type MonitoringData struct {
	Timestamp    string       `json:"timestamp"`
	Bots         []BotStatus  `json:"bots"`
	Coordination Coordination `json:"coordination"`
	Efficiency   Efficiency   `json:"efficiency"`
}

// FormatTimestamp renders t as ISO-8601 UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
