// wifiswitch/wifictl/runner.go
package wifictl

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"
)

const (
	redacted = "<redacted>"
	// waitDelay bounds how long Run waits for output after the process is
	// killed, in case a child still holds the pipes open.
	waitDelay = 500 * time.Millisecond
)

// Command describes a single process invocation. Args are passed to the
// process as an argument vector and are never joined into a shell string.
type Command struct {
	Name string
	Args []string
	// Env replaces the inherited environment when non-nil.
	Env []string
	// Timeout bounds the run when positive.
	Timeout time.Duration
	// Secret lists indexes into Args that must not appear in logs or errors.
	Secret []int
}

// String renders the command for logs with secret arguments masked.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for i, a := range c.Args {
		if c.isSecret(i) {
			parts = append(parts, redacted)
			continue
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

func (c Command) isSecret(i int) bool {
	for _, s := range c.Secret {
		if s == i {
			return true
		}
	}
	return false
}

// Result holds the captured output streams of a finished command.
type Result struct {
	Stdout string
	Stderr string
}

// Runner executes commands. ExecRunner is the real implementation; tests
// substitute their own.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// CommandError reports a command that failed to run, exited non-zero or
// wrote to its error stream.
type CommandError struct {
	Command string // already redacted
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	switch {
	case e.Stderr != "" && e.Err != nil:
		return fmt.Sprintf("command '%s' failed: %s (underlying error: %v)", e.Command, e.Stderr, e.Err)
	case e.Stderr != "":
		return fmt.Sprintf("command '%s' failed: %s", e.Command, e.Stderr)
	case e.Err != nil:
		return fmt.Sprintf("command '%s' failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command '%s' failed", e.Command)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes cmd and captures both streams. Output on stderr counts as
// failure even when the process exits zero.
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if c.Env != nil {
		cmd.Env = c.Env
	}
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Printf("Executing command: %s", c)
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: strings.TrimSpace(stderr.String())}
	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("timed out after %s: %w", c.Timeout, ctx.Err())
	}
	return res, checkResult(c, res, err)
}

// checkResult converts a raw run outcome into the package's failure rule.
func checkResult(c Command, res Result, err error) error {
	if err == nil && res.Stderr == "" {
		return nil
	}
	if res.Stderr != "" {
		log.Printf("command '%s' stderr: %s", c, res.Stderr)
	}
	return &CommandError{Command: c.String(), Stderr: res.Stderr, Err: err}
}
