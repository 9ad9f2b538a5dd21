// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global botboard directory.
	GlobalDirName = ".botboard"

	// HomeEnv overrides the global directory location.
	HomeEnv = "BOTBOARD_HOME"

	// RunDirName holds PID files of bots started by `botboard run`.
	RunDirName = "run"

	// LogsDirName is the name of the daemon logs directory.
	LogsDirName = "logs"
)

// File names
const (
	DaemonFileName      = "daemon.yaml"
	SettingsFileName    = "settings.yaml"
	WorkstreamsFileName = "workstreams.yaml"
	InstallIDFileName   = "install_id"
)

// GlobalDir returns the global botboard directory ($BOTBOARD_HOME or ~/.botboard/).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

func globalFile(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) { return globalFile(DaemonFileName) }

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) { return globalFile(SettingsFileName) }

// GlobalWorkstreamsFile returns the path to the workstreams.yaml file.
func GlobalWorkstreamsFile() (string, error) { return globalFile(WorkstreamsFileName) }

// GlobalLogsDir returns the path to the logs directory.
func GlobalLogsDir() (string, error) { return globalFile(LogsDirName) }

// RunDir returns the directory holding bot PID files.
func RunDir() (string, error) { return globalFile(RunDirName) }

// PIDFile returns the PID file written for a bot started by `botboard run`.
func PIDFile(botID string) (string, error) {
	dir, err := RunDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, botID+".pid"), nil
}

// EnsureGlobalDir creates the global botboard directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// EnsureRunDir creates the PID file directory if it doesn't exist.
func EnsureRunDir() error {
	dir, err := RunDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
