// Package main is the entry point for the botboardd daemon.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/botboard-io/botboard/internal/buildinfo"
	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/daemon/server"
	"github.com/botboard-io/botboard/internal/daemon/tray"
	"github.com/botboard-io/botboard/internal/models"
	"github.com/botboard-io/botboard/internal/telemetry"
)

func main() {
	foreground := flag.Bool("foreground", false, "Run in foreground (no system tray)")
	port := flag.Int("port", -1, "Port to listen on (0 for dynamic allocation, default from settings)")
	flag.Parse()

	log.SetPrefix("[botboardd] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := config.EnsureGlobalDir(); err != nil {
		log.Fatalf("Failed to create global directory: %v", err)
	}

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *port >= 0 {
		settings.Server.Port = *port
	}

	d := &daemon{settings: settings}
	if *foreground {
		log.Println("Running in foreground mode (no system tray)")
		d.runForeground()
	} else {
		log.Println("Running in background mode (with system tray)")
		d.runWithTray()
	}
}

type daemon struct {
	settings *models.Settings
	srv      *server.Server
	events   *telemetry.Client
}

// start creates the server and records daemon.yaml.
func (d *daemon) start() {
	manifest, err := config.LoadManifest()
	switch {
	case errors.Is(err, config.ErrNoManifest):
		log.Printf("No workstreams configured yet; run `botboard workstreams init` (the daemon picks it up automatically)")
	case err != nil:
		log.Fatalf("Failed to load workstreams: %v", err)
	}

	d.srv, err = server.New(d.settings.Server.Host, d.settings.Server.Port, d.settings, manifest)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	daemonInfo := models.NewDaemonInfo(d.settings.Server.Host, d.srv.Port(), os.Getpid(), buildinfo.Version)
	if err := config.SaveDaemonInfo(daemonInfo); err != nil {
		log.Fatalf("Failed to write daemon info: %v", err)
	}

	d.events = newTelemetry(d.settings)
	d.events.Track(telemetry.EventDaemonStarted, map[string]interface{}{
		"workstreams": len(d.srv.Collector().Workstreams()),
	})

	log.Printf("Daemon %s started on port %d (PID %d)", buildinfo.Summary(), d.srv.Port(), os.Getpid())
}

// stop shuts the server down and removes daemon.yaml.
func (d *daemon) stop() {
	if d.srv != nil {
		d.srv.Stop()
	}
	d.events.Track(telemetry.EventDaemonStopped, nil)
	d.events.Close()

	if err := config.RemoveDaemonInfo(); err != nil {
		log.Printf("Failed to remove daemon info: %v", err)
	}
	fmt.Println("Daemon stopped")
}

func newTelemetry(settings *models.Settings) *telemetry.Client {
	if !settings.Telemetry.Enabled {
		return nil
	}
	id, err := telemetry.InstallID()
	if err != nil {
		log.Printf("Telemetry disabled: %v", err)
		return nil
	}
	c, err := telemetry.New(settings.Telemetry, id)
	if err != nil {
		log.Printf("Telemetry disabled: %v", err)
		return nil
	}
	return c
}

// runForeground runs the daemon without a system tray, blocking on signals.
func (d *daemon) runForeground() {
	d.start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.srv.Serve()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-errCh:
		log.Printf("Server error: %v", err)
	}

	d.stop()
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func (d *daemon) runWithTray() {
	onStart := func() {
		d.start()

		go func() {
			if err := d.srv.Serve(); err != nil {
				log.Printf("Server error: %v", err)
				tray.Quit()
			}
		}()

		// Handle OS signals: quit tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Printf("Received signal %v, shutting down...", sig)
			tray.Quit()
		}()
	}

	// The tray needs a DaemonState before the server exists, so it gets a
	// lazy wrapper that reports zero values until onStart has run.
	lazyState := &lazyDaemonState{getSrv: func() *server.Server { return d.srv }}

	// This blocks the main goroutine until tray exits.
	tray.Run(lazyState, onStart, d.stop)
}
