package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// ExecOutput plays audio by piping the stream into an external player process, so
// playback starts while the body is still arriving.
type ExecOutput struct {
	Command string
	Args    []string
}

func NewFFPlayOutput() *ExecOutput {
	return &ExecOutput{
		Command: "ffplay",
		Args:    []string{"-nodisp", "-autoexit", "-loglevel", "error", "-i", "-"},
	}
}

func (o *ExecOutput) Open(ctx context.Context, audio *Audio) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(o.Command, o.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: stdin pipe: %w", o.Command, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: start: %w", o.Command, err)
	}

	h := &execHandle{cmd: cmd, done: make(chan struct{})}
	go func() {
		_, _ = io.Copy(stdin, audio.Body)
		_ = stdin.Close()
	}()
	go func() {
		h.err = cmd.Wait()
		close(h.done)
	}()
	return h, nil
}

type execHandle struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error

	mu     sync.Mutex
	killed bool
}

func (h *execHandle) Wait() error {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.killed {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(h.err, &exitErr) {
		return fmt.Errorf("player exited: %w", h.err)
	}
	return h.err
}

func (h *execHandle) Close() error {
	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		return nil
	default:
	}
	h.killed = true
	h.mu.Unlock()

	err := h.cmd.Process.Kill()
	<-h.done
	if errors.Is(err, errors.ErrUnsupported) {
		return nil
	}
	return err
}
