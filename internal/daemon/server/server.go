// Package server implements the daemon's HTTP API, WebSocket stream and
// gRPC health service, all served on one port.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/botboard-io/botboard/internal/buildinfo"
	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/daemon/collector"
	"github.com/botboard-io/botboard/internal/daemon/export"
	"github.com/botboard-io/botboard/internal/daemon/hub"
	"github.com/botboard-io/botboard/internal/daemon/watcher"
	"github.com/botboard-io/botboard/internal/models"
)

// Server is the daemon's network front end.
type Server struct {
	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	port       int

	settings  *models.Settings
	collector atomic.Pointer[collector.Collector]
	hub       *hub.Hub
	watcher   *watcher.Watcher
	exporter  *export.Exporter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a server listening on host:port with the given settings and
// manifest. Pass port 0 for dynamic allocation.
func New(host string, port int, settings *models.Settings, manifest *models.Manifest) (*Server, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := &Server{
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
		listener:   listener,
		port:       listener.Addr().(*net.TCPAddr).Port,
		settings:   settings,
		hub:        hub.New(),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.collector.Store(newCollector(manifest, settings))

	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(models.HealthService, healthpb.HealthCheckResponse_SERVING)

	if settings.Stream.WatchFiles {
		w, err := watcher.New(config.DebounceInterval(settings))
		if err != nil {
			log.Printf("[server] file watching disabled: %v", err)
		} else {
			s.watcher = w
		}
	}

	if settings.Elasticsearch.Enabled {
		exp, err := export.New(settings.Elasticsearch)
		if err != nil {
			log.Printf("[server] elasticsearch export disabled: %v", err)
		} else {
			s.exporter = exp
		}
	}

	api := NewHandler(s.source, s.hub, buildinfo.Version)
	s.httpServer = &http.Server{
		Handler:           s.multiplex(api),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func newCollector(m *models.Manifest, settings *models.Settings) *collector.Collector {
	return collector.New(m, collector.WithSettings(settings))
}

func (s *Server) source() Source {
	return s.collector.Load()
}

// multiplex routes gRPC (HTTP/2 cleartext) and gRPC-Web to the gRPC server
// and everything else to the JSON API.
func (s *Server) multiplex(api http.Handler) http.Handler {
	web := grpcweb.WrapServer(s.grpcServer, grpcweb.WithOriginFunc(func(string) bool { return true }))
	mux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case web.IsGrpcWebRequest(r) || web.IsAcceptableGrpcCorsRequest(r):
			web.ServeHTTP(w, r)
		case r.ProtoMajor == 2 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc"):
			s.grpcServer.ServeHTTP(w, r)
		default:
			api.ServeHTTP(w, r)
		}
	})
	return h2c.NewHandler(mux, &http2.Server{})
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Collector returns the active collector.
func (s *Server) Collector() *collector.Collector {
	return s.collector.Load()
}

// Serve starts background loops and serves requests. It blocks until Stop
// is called.
func (s *Server) Serve() error {
	ctx := s.ctx

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.hub.Run(ctx)
	}()

	var events <-chan watcher.Event
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			log.Printf("[server] watcher start: %v", err)
		} else {
			s.watchWorkstreams()
			events = s.watcher.Events()
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.streamLoop(ctx, events)
	}()

	if s.exporter != nil {
		interval := time.Duration(s.settings.Elasticsearch.IntervalSeconds) * time.Second
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.exporter.Run(ctx, interval, func(ctx context.Context) models.MonitoringData {
				return s.Collector().Snapshot(ctx)
			})
		}()
	}

	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
	s.grpcServer.Stop()

	s.cancel()
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.wg.Wait()
}

func (s *Server) watchWorkstreams() {
	for _, ws := range s.Collector().Workstreams() {
		s.watcher.WatchWorkstream(ws.ID, ws.Path, ws.LogsDir, ws.SkipDirs)
	}
}

// streamLoop pushes a fresh snapshot to WebSocket subscribers on every tick
// and after each debounced file change.
func (s *Server) streamLoop(ctx context.Context, events <-chan watcher.Event) {
	ticker := time.NewTicker(config.StreamInterval(s.settings))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.push(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Type == watcher.EventManifestChanged {
				s.reload()
			}
			s.push(ctx)
		}
	}
}

func (s *Server) push(ctx context.Context) {
	if s.hub.ClientCount() == 0 {
		return
	}
	if _, err := s.hub.Broadcast(s.Collector().Snapshot(ctx)); err != nil {
		log.Printf("[server] broadcast: %v", err)
	}
}

// reload rebuilds the collector from workstreams.yaml and settings.yaml. A
// broken manifest keeps the current one. Thresholds and timeline take effect
// immediately; listen address and stream settings keep their startup values.
func (s *Server) reload() {
	m, err := config.LoadManifest()
	if err != nil {
		log.Printf("[server] keeping current workstreams: %v", err)
		return
	}
	settings, err := config.LoadSettings()
	if err != nil {
		log.Printf("[server] keeping current thresholds: %v", err)
		settings = s.settings
	}
	s.collector.Store(newCollector(m, settings))
	if s.watcher != nil {
		s.watcher.UnwatchAll()
		s.watchWorkstreams()
	}
	log.Printf("[server] reloaded %d workstreams", len(m.Workstreams))
}
