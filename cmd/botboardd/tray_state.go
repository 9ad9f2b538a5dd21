package main

import (
	"context"
	"os"
	"syscall"

	"github.com/botboard-io/botboard/internal/daemon/server"
	"github.com/botboard-io/botboard/internal/daemon/tray"
)

// lazyDaemonState adapts the server to tray.DaemonState. The server is nil
// at tray startup and created inside onStart.
type lazyDaemonState struct {
	getSrv func() *server.Server
}

func (l *lazyDaemonState) Port() int {
	if srv := l.getSrv(); srv != nil {
		return srv.Port()
	}
	return 0
}

func (l *lazyDaemonState) WorkstreamCount() int {
	if srv := l.getSrv(); srv != nil {
		return len(srv.Collector().Workstreams())
	}
	return 0
}

func (l *lazyDaemonState) Bots() []tray.BotInfo {
	srv := l.getSrv()
	if srv == nil {
		return nil
	}
	snap := srv.Collector().Snapshot(context.Background())
	bots := make([]tray.BotInfo, 0, len(snap.Bots))
	for _, b := range snap.Bots {
		bots = append(bots, tray.BotInfo{
			Name:     b.Name,
			Status:   string(b.Status),
			Progress: b.Progress,
		})
	}
	return bots
}

// RequestShutdown sends SIGINT to the current process to trigger a graceful shutdown.
func (l *lazyDaemonState) RequestShutdown() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(syscall.SIGINT)
}
