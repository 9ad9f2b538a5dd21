package runner

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

// Attach connects the calling terminal to p: stdin is switched to raw mode
// and forwarded, and window size changes are propagated. It returns the
// bot's exit error once it exits, or ctx.Err() if ctx ends first.
func Attach(ctx context.Context, p *Process, stdin *os.File) error {
	fd := int(stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err == nil {
			defer func() { _ = term.Restore(fd, oldState) }()
		}
		syncSize(p, fd)

		winch := make(chan os.Signal, 1)
		signal.Notify(winch, syscall.SIGWINCH)
		defer signal.Stop(winch)
		go func() {
			for {
				select {
				case <-p.Done():
					return
				case <-winch:
					syncSize(p, fd)
				}
			}
		}()
	}

	go func() {
		_, _ = io.Copy(ptyWriter{p}, stdin)
	}()

	select {
	case <-p.Done():
		return p.Wait()
	case <-ctx.Done():
		p.Stop()
		return ctx.Err()
	}
}

func syncSize(p *Process, fd int) {
	if cols, rows, err := term.GetSize(fd); err == nil {
		_ = p.Resize(rows, cols)
	}
}

type ptyWriter struct{ p *Process }

func (w ptyWriter) Write(b []byte) (int, error) {
	if err := w.p.SendInput(b); err != nil {
		return 0, err
	}
	return len(b), nil
}
