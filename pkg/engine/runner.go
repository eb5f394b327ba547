package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrSpawn indicates the engine binary could not be launched at all, as
// opposed to launching and then failing. Usually a missing or
// unexecutable binary path.
var ErrSpawn = errors.New("engine binary could not be launched")

// Process is a running engine invocation with lifecycle management.
type Process struct {
	cmd      *exec.Cmd
	pid      int
	done     chan struct{}
	err      error
	stderr   bytes.Buffer
	progress chan<- Progress
}

// PID returns the process ID, or 0 if not started.
func (p *Process) PID() int {
	return p.pid
}

// Wait blocks until the process completes and returns any error.
func (p *Process) Wait() error {
	<-p.done
	return p.err
}

// Kill sends SIGKILL to the process.
func (p *Process) Kill() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

// Signal sends a signal to the process.
func (p *Process) Signal(sig os.Signal) error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Signal(sig)
}

// Done returns a channel that closes when the process exits.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Stderr returns the captured stderr output (available after Wait).
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// start launches the render binary with the given arguments. The caller
// must Wait or Kill. When progress is non-nil the process is expected to
// write progress key=value output on stdout; the channel is closed when
// the process exits.
func (e *Engine) start(ctx context.Context, args []string, progress chan<- Progress) (*Process, error) {
	cmd := exec.CommandContext(ctx, e.ffmpeg, args...)

	p := &Process{
		cmd:      cmd,
		done:     make(chan struct{}),
		progress: progress,
	}

	cmd.Stderr = &p.stderr

	if progress != nil {
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
		}

		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
		}

		p.pid = cmd.Process.Pid

		go func() {
			defer close(p.done)

			scanner := bufio.NewScanner(stdout)
			pumpProgress(scanner, progress)

			p.finish(cmd.Path, args, cmd.Wait())
			close(progress)
		}()
	} else {
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
		}

		p.pid = cmd.Process.Pid

		go func() {
			defer close(p.done)
			p.finish(cmd.Path, args, cmd.Wait())
		}()
	}

	return p, nil
}

// finish records the wait outcome, wrapping failures with the full
// invocation context.
func (p *Process) finish(bin string, args []string, waitErr error) {
	if waitErr == nil {
		return
	}
	code := -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code = exitErr.ExitCode()
	}
	p.err = &Error{
		Bin:      bin,
		Args:     args,
		Stderr:   p.stderr.String(),
		ExitCode: code,
		Err:      waitErr,
	}
}

// Error is a failed engine invocation with its captured context.
type Error struct {
	Bin      string
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

// Error keeps the message short: the exit condition plus the last few
// stderr lines, which is where the engine states the actual problem.
func (e *Error) Error() string {
	lines := strings.Split(strings.TrimSpace(e.Stderr), "\n")
	var lastLines string
	if len(lines) > 3 {
		lastLines = strings.Join(lines[len(lines)-3:], "\n")
	} else {
		lastLines = strings.Join(lines, "\n")
	}

	if lastLines != "" {
		return fmt.Sprintf("engine: %v: %s", e.Err, lastLines)
	}
	return fmt.Sprintf("engine: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Diagnostic returns the complete stderr output, verbatim.
func (e *Error) Diagnostic() string {
	return e.Stderr
}

// Command returns the invocation that failed.
func (e *Error) Command() string {
	return e.Bin + " " + strings.Join(e.Args, " ")
}
