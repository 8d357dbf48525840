package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

const (
	defaultCLITimeout = 120 * time.Second
	probeTimeout      = 10 * time.Second
	// killGrace is how long a terminated process gets before SIGKILL.
	killGrace = 5 * time.Second
	// pipeGrace bounds waiting on output pipes held open by grandchildren.
	pipeGrace = 2 * time.Second
)

// ClaudeCodeProvider runs the Claude Code CLI as a child process, writing
// the whole prompt to its stdin and reading stdout to completion.
type ClaudeCodeProvider struct {
	path      string
	args      []string
	probeArgs []string
	timeout   time.Duration
	terminate func(*os.Process) error
}

func NewClaudeCodeProvider(path string, timeout time.Duration) *ClaudeCodeProvider {
	if path == "" {
		path = "claude"
	}
	if timeout <= 0 {
		timeout = defaultCLITimeout
	}
	return &ClaudeCodeProvider{
		path:      path,
		args:      []string{"--print"},
		probeArgs: []string{"--version"},
		timeout:   timeout,
		terminate: func(p *os.Process) error { return p.Signal(syscall.SIGTERM) },
	}
}

func (p *ClaudeCodeProvider) Name() string { return "Claude Code" }

// Configured only looks the binary up; Ready runs the version probe.
func (p *ClaudeCodeProvider) Configured() bool {
	_, err := exec.LookPath(p.path)
	return err == nil
}

func (p *ClaudeCodeProvider) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, p.path, p.probeArgs...).Run(); err != nil {
		return &NotReadyError{
			Provider: p.Name(),
			Err:      fmt.Errorf("%w: %v", ErrNotInstalled, err),
			Message:  "Claude Code CLI not found. Please install it with: npm install -g @anthropic-ai/claude-code",
		}
	}
	return nil
}

// Summarize resolves exactly once: either the process finishes, or the
// timeout fires first and the process is sent one termination signal.
func (p *ClaudeCodeProvider) Summarize(ctx context.Context, prompt Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(p.path, p.args...)
	cmd.Stdin = strings.NewReader(prompt.String())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = pipeGrace

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("starting %s: %w", p.path, err)
	}

	// Buffered so the waiter never blocks if nobody is left to receive.
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	return p.await(ctx, cmd.Process, done, &stdout, &stderr)
}

// await settles on the first of process exit or ctx expiry. An exit that
// is already available wins over an expired ctx.
func (p *ClaudeCodeProvider) await(ctx context.Context, proc *os.Process, done <-chan error, stdout, stderr *bytes.Buffer) (string, error) {
	select {
	case err := <-done:
		return p.result(err, stdout, stderr)

	case <-ctx.Done():
		select {
		case err := <-done:
			return p.result(err, stdout, stderr)
		default:
		}
		_ = p.terminate(proc)
		select {
		case <-done:
		case <-time.After(killGrace):
			_ = proc.Kill()
			<-done
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &TimeoutError{Provider: p.Name(), After: p.timeout}
		}
		return "", ctx.Err()
	}
}

func (p *ClaudeCodeProvider) result(err error, stdout, stderr *bytes.Buffer) (string, error) {
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExitError{
				Provider: p.Name(),
				Code:     exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return "", fmt.Errorf("running %s: %w", p.path, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
