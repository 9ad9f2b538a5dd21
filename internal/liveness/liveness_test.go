package liveness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/models"
)

type fakeLister struct {
	lines []string
	err   error
}

func (f fakeLister) CommandLines(context.Context) ([]string, error) { return f.lines, f.err }

func TestProcessTable(t *testing.T) {
	ctx := context.Background()
	lines := []string{
		"/usr/bin/python3 scripts/backend-bot.py --continuous",
		"/bin/zsh -l",
	}
	tests := []struct {
		name    string
		pattern string
		lister  ProcessLister
		want    bool
	}{
		{"match", "backend-bot.py --continuous", fakeLister{lines: lines}, true},
		{"no match", "mobile-bot.py --continuous", fakeLister{lines: lines}, false},
		{"one-shot run does not match", "backend-bot.py --continuous", fakeLister{lines: []string{"python3 backend-bot.py"}}, false},
		{"empty pattern", "", fakeLister{lines: lines}, false},
		{"lister error", "backend-bot.py", fakeLister{lines: lines, err: errors.New("denied")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (ProcessTable{Pattern: tt.pattern, Lister: tt.lister}).Running(ctx); got != tt.want {
				t.Errorf("Running() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSystemProcessesSkipsSelf(t *testing.T) {
	if _, err := (SystemProcesses{}).CommandLines(context.Background()); err != nil {
		t.Skipf("process table unavailable: %v", err)
	}
	// The test binary lives at a unique temporary path.
	self := ProcessTable{Pattern: os.Args[0], Lister: SystemProcesses{}}
	if self.Running(context.Background()) {
		t.Error("own command line matched")
	}
}

func TestPIDFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"own pid", write("self.pid", strconv.Itoa(os.Getpid())+"\n"), true},
		{"dead pid", write("dead.pid", strconv.Itoa(1<<30)), false},
		{"garbage", write("junk.pid", "not a pid"), false},
		{"missing", filepath.Join(dir, "missing.pid"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (PIDFile{Path: tt.path}).Running(context.Background()); got != tt.want {
				t.Errorf("Running() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeartbeat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeat")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	beat := time.Now().Add(-30 * time.Second).Truncate(time.Second)
	if err := os.Chtimes(path, beat, beat); err != nil {
		t.Fatal(err)
	}
	now := func() time.Time { return beat.Add(45 * time.Second) }

	if !(Heartbeat{Path: path, MaxAge: time.Minute, Now: now}).Running(context.Background()) {
		t.Error("fresh heartbeat reported not running")
	}
	if (Heartbeat{Path: path, MaxAge: 10 * time.Second, Now: now}).Running(context.Background()) {
		t.Error("stale heartbeat reported running")
	}
	if (Heartbeat{Path: path + ".missing", MaxAge: time.Hour}).Running(context.Background()) {
		t.Error("missing heartbeat reported running")
	}
}

func TestFromWorkstream(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	pidPath, _ := config.PIDFile("devops")

	tests := []struct {
		name  string
		probe models.LivenessProbe
		want  Checker
	}{
		{"default process", models.LivenessProbe{}, ProcessTable{Pattern: "devops-bot.py --continuous"}},
		{"custom pattern", models.LivenessProbe{Kind: models.LivenessProcess, Pattern: "ansible"}, ProcessTable{Pattern: "ansible"}},
		{"pidfile default path", models.LivenessProbe{Kind: models.LivenessPIDFile}, PIDFile{Path: pidPath}},
		{"pidfile explicit", models.LivenessProbe{Kind: models.LivenessPIDFile, Path: "/run/x.pid"}, PIDFile{Path: "/run/x.pid"}},
		{"heartbeat", models.LivenessProbe{Kind: models.LivenessHeartbeat, Path: "/tmp/hb", MaxAge: "2m"}, Heartbeat{Path: "/tmp/hb", MaxAge: 2 * time.Minute}},
		{"heartbeat bad age", models.LivenessProbe{Kind: models.LivenessHeartbeat, Path: "/tmp/hb", MaxAge: "soon"}, Heartbeat{Path: "/tmp/hb", MaxAge: DefaultHeartbeatAge}},
		{"none", models.LivenessProbe{Kind: models.LivenessNone}, Never{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := &models.Workstream{ID: "devops", Liveness: tt.probe}
			got := FromWorkstream(ws, nil)
			switch want := tt.want.(type) {
			case ProcessTable:
				pt, ok := got.(ProcessTable)
				if !ok || pt.Pattern != want.Pattern {
					t.Errorf("got %#v, want %#v", got, want)
				}
			case Heartbeat:
				hb, ok := got.(Heartbeat)
				if !ok || hb.Path != want.Path || hb.MaxAge != want.MaxAge {
					t.Errorf("got %#v, want %#v", got, want)
				}
			default:
				if got != tt.want {
					t.Errorf("got %#v, want %#v", got, tt.want)
				}
			}
		})
	}
}
