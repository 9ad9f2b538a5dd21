package models

import (
	"fmt"
	"time"
)

// DaemonInfo describes a running botboardd instance.
// This corresponds to ~/.botboard/daemon.yaml.
type DaemonInfo struct {
	Version   int       `yaml:"version"`
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	PID       int       `yaml:"pid"`
	BuildTag  string    `yaml:"build"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates daemon info for the current process.
func NewDaemonInfo(host string, port, pid int, build string) *DaemonInfo {
	return &DaemonInfo{
		Version:   1,
		Host:      host,
		Port:      port,
		PID:       pid,
		BuildTag:  build,
		StartedAt: time.Now().UTC(),
	}
}

// Addr returns host:port.
func (d *DaemonInfo) Addr() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// BaseURL returns the HTTP base URL of the daemon API.
func (d *DaemonInfo) BaseURL() string {
	return "http://" + d.Addr()
}

// HealthService is the gRPC health service name the daemon reports for its
// status collector.
const HealthService = "botboard.Collector"
