// Package runner executes shell commands for the engine. The engine depends
// on subprocess spawning only through the narrow CommandRunner and
// ProcessStarter interfaces defined here; ShellRunner is the os/exec
// implementation.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"syscall"
	"time"

	specerrors "specrun/internal/errors"
)

// MaxCaptureBytes caps each captured stream at 10 MiB. Output beyond the
// cap is drained and discarded so the subprocess never blocks on a full
// pipe.
const MaxCaptureBytes = 10 << 20

// Result is the observed outcome of a completed command.
type Result struct {
	Stdout   []byte
	Stderr   []byte // diagnostics only, never affects the verdict
	ExitCode int    // negative for signal-terminated processes
	Duration time.Duration
}

// CommandRunner runs a command to completion and reports what it did.
// A returned error means the command could not be spawned; a non-zero exit
// is reported through Result, not as an error.
type CommandRunner interface {
	Run(ctx context.Context, command string, stdin []byte) (*Result, error)
}

// ProcessStarter spawns a command without waiting for it, for background
// setup processes that teardown later kills by name.
type ProcessStarter interface {
	Start(ctx context.Context, command string) (*Proc, error)
}

// Proc is a handle to a background process started during setup.
type Proc struct {
	Name string
	cmd  *exec.Cmd
}

// Kill terminates the process and reaps it. Best effort: errors are
// returned for logging but the process is gone or never existed either way.
func (p *Proc) Kill() error {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	err := p.cmd.Process.Kill()
	// Reap regardless of the kill outcome so the child never zombies.
	_ = p.cmd.Wait()
	return err
}

// ShellRunner runs commands through `sh -c`.
type ShellRunner struct {
	Dir string // working directory for spawned commands; empty means inherit
}

// NewShell creates a ShellRunner rooted at dir.
func NewShell(dir string) *ShellRunner {
	return &ShellRunner{Dir: dir}
}

// Run executes command, piping stdin when provided and capturing stdout and
// stderr up to MaxCaptureBytes each. No timeout is applied beyond what the
// context carries.
func (r *ShellRunner) Run(ctx context.Context, command string, stdin []byte) (*Result, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = r.Dir
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr cappedBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = decodeExitCode(exitErr)
			return res, nil
		}
		return nil, specerrors.Execution(specerrors.ReasonSpawnFailed, "failed to spawn %q: %v", firstToken(command), err)
	}
	return res, nil
}

// Start spawns command in the background. Output is discarded; the caller
// keeps the handle for a later Kill.
func (r *ShellRunner) Start(ctx context.Context, command string) (*Proc, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = r.Dir
	var sink cappedBuffer
	cmd.Stdout = &sink
	cmd.Stderr = &sink

	if err := cmd.Start(); err != nil {
		return nil, specerrors.Execution(specerrors.ReasonSpawnFailed, "failed to start %q: %v", firstToken(command), err)
	}
	return &Proc{cmd: cmd}, nil
}

// decodeExitCode surfaces signal termination as a negative encoded exit
// code rather than the -1 that ExitCode() reports for any signal.
func decodeExitCode(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	return exitErr.ExitCode()
}

func firstToken(command string) string {
	if fields := strings.Fields(command); len(fields) > 0 {
		return fields[0]
	}
	return command
}

// cappedBuffer accepts all writes but retains only the first
// MaxCaptureBytes of them.
type cappedBuffer struct {
	buf bytes.Buffer
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if remain := MaxCaptureBytes - b.buf.Len(); remain > 0 {
		if len(p) > remain {
			b.buf.Write(p[:remain])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
