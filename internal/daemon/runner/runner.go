// Package runner launches a workstream's bot command under a pseudo-terminal
// and records its PID so pidfile liveness probes can see it.
package runner

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// StopTimeout is how long Stop waits after SIGTERM before SIGKILL.
const StopTimeout = 5 * time.Second

// Options configures a bot process.
type Options struct {
	BotID   string
	Command []string
	Dir     string
	Env     []string
	PIDFile string    // written after start, removed on exit; empty to skip
	Output  io.Writer // receives everything the bot prints; nil discards
	Rows    int
	Cols    int
}

// Process is a running bot.
type Process struct {
	botID   string
	cmd     *exec.Cmd
	ptyFile *os.File
	pidFile string
	output  io.Writer

	done        chan struct{}
	exitErr     error
	cleanupOnce sync.Once
	startedAt   time.Time
}

// Start launches the bot command in a PTY.
func Start(opts Options) (*Process, error) {
	if len(opts.Command) == 0 {
		return nil, errors.New("no command configured")
	}
	rows, cols := opts.Rows, opts.Cols
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	p := &Process{
		botID:     opts.BotID,
		cmd:       cmd,
		ptyFile:   ptmx,
		pidFile:   opts.PIDFile,
		output:    out,
		done:      make(chan struct{}),
		startedAt: time.Now().UTC(),
	}

	if p.pidFile != "" {
		if err := os.WriteFile(p.pidFile, []byte(strconv.Itoa(cmd.Process.Pid)+"\n"), 0o644); err != nil {
			log.Printf("[runner] %s: failed to write pid file: %v", p.botID, err)
		}
	}

	go p.readLoop()
	return p, nil
}

func (p *Process) readLoop() {
	buf := make([]byte, 32*1024)
	for {
		n, err := p.ptyFile.Read(buf)
		if n > 0 {
			if _, werr := p.output.Write(buf[:n]); werr != nil {
				log.Printf("[runner] %s: output: %v", p.botID, werr)
				p.output = io.Discard
			}
		}
		if err != nil {
			break
		}
	}

	p.exitErr = p.cmd.Wait()
	p.Cleanup()
	close(p.done)
}

// PID returns the bot's process ID.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// StartedAt returns when the bot was launched.
func (p *Process) StartedAt() time.Time {
	return p.startedAt
}

// SendInput writes data to the PTY.
func (p *Process) SendInput(data []byte) error {
	_, err := p.ptyFile.Write(data)
	return err
}

// Resize changes the PTY size.
func (p *Process) Resize(rows, cols int) error {
	if err := pty.Setsize(p.ptyFile, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		return fmt.Errorf("failed to resize PTY: %w", err)
	}
	return nil
}

// Stop sends SIGTERM, waits StopTimeout, then kills the bot.
func (p *Process) Stop() {
	if p.cmd.Process == nil {
		return
	}
	_ = p.cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-p.done:
		return
	case <-time.After(StopTimeout):
	}

	_ = p.cmd.Process.Kill()
	<-p.done
}

// Cleanup closes the PTY and removes the PID file. Safe to call more than once.
func (p *Process) Cleanup() {
	p.cleanupOnce.Do(func() {
		_ = p.ptyFile.Close()
		if p.pidFile != "" {
			if err := os.Remove(p.pidFile); err != nil && !os.IsNotExist(err) {
				log.Printf("[runner] %s: failed to remove pid file: %v", p.botID, err)
			}
		}
	})
}

// Done is closed when the bot exits.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the bot exits and returns its exit error.
func (p *Process) Wait() error {
	<-p.done
	return p.exitErr
}
