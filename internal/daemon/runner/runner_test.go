package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func start(t *testing.T, opts Options) *Process {
	t.Helper()
	p, err := Start(opts)
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	return p
}

func TestStartRequiresCommand(t *testing.T) {
	if _, err := Start(Options{BotID: "backend"}); err == nil {
		t.Fatal("Start() error = nil, want error for empty command")
	}
}

func TestRunCapturesOutputAndRemovesPIDFile(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "backend.pid")
	out := &syncBuffer{}

	p := start(t, Options{
		BotID:   "backend",
		Command: []string{"sh", "-c", "echo hello; sleep 0.2"},
		PIDFile: pidFile,
		Output:  out,
	})

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("pid file not written: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got == "" || got == "0" {
		t.Errorf("pid file = %q", got)
	}

	if err := p.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if !strings.Contains(out.String(), "hello") {
		t.Errorf("output = %q, want hello", out.String())
	}
	if _, err := os.Stat(pidFile); !os.IsNotExist(err) {
		t.Errorf("pid file still present after exit: %v", err)
	}
}

func TestStop(t *testing.T) {
	p := start(t, Options{BotID: "devops", Command: []string{"sleep", "30"}})

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(StopTimeout + 2*time.Second):
		t.Fatal("Stop() did not return")
	}
	select {
	case <-p.Done():
	default:
		t.Error("Done() not closed after Stop()")
	}
}
