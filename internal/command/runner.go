package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"transcriber/internal/logging"
	"transcriber/internal/services"
)

const (
	logPreviewLimit = 512
	logArgLimit     = 96
)

// Runner executes external tools with a fixed child environment and captures
// their output. It never changes the environment of the current process.
type Runner struct {
	logger *slog.Logger
	env    []string
}

// NewRunner returns a runner whose children see env. A nil env inherits the
// current process environment.
func NewRunner(logger *slog.Logger, env []string) *Runner {
	return &Runner{
		logger: logging.NewComponentLogger(logger, "command"),
		env:    cloneEnv(env),
	}
}

// WithEnv returns a copy of the runner that launches children with env.
func (r *Runner) WithEnv(env []string) *Runner {
	clone := *r
	clone.env = cloneEnv(env)
	return &clone
}

// Env returns a copy of the child environment. Nil means inherited.
func (r *Runner) Env() []string {
	return cloneEnv(r.env)
}

// Run executes argv and returns its stdout. A nonzero exit yields a
// *CommandFailure whose message prefers stderr, then stdout.
func (r *Runner) Run(ctx context.Context, argv ...string) (string, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return "", services.Wrap(services.ErrConfiguration, "", "run", "empty command", nil)
	}
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("Running: " + commandLine(argv))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	if r.env != nil {
		cmd.Env = r.env
	}
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	elapsed := time.Since(started)

	if err != nil {
		failure := &CommandFailure{
			Argv:     append([]string(nil), argv...),
			ExitCode: -1,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			failure.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			failure.Err = ctxErr
		}
		logger.Debug("command failed",
			logging.String(logging.FieldTool, argv[0]),
			logging.Int("exit_code", failure.ExitCode),
			logging.Duration("elapsed", elapsed),
			logging.String("stderr", preview(failure.Stderr)),
		)
		return failure.Stdout, failure
	}

	logger.Debug("command finished",
		logging.String(logging.FieldTool, argv[0]),
		logging.Duration("elapsed", elapsed),
		logging.String("stdout", preview(stdout.String())),
	)
	return stdout.String(), nil
}

// RunJSON executes argv and decodes stdout into v. Output that is not valid
// JSON is reported as a *CommandFailure even when the exit status is zero.
func (r *Runner) RunJSON(ctx context.Context, v any, argv ...string) error {
	out, err := r.Run(ctx, argv...)
	if err != nil {
		return err
	}
	if decodeErr := json.Unmarshal([]byte(out), v); decodeErr != nil {
		return &CommandFailure{
			Argv:     append([]string(nil), argv...),
			ExitCode: 0,
			Stdout:   out,
			Err:      fmt.Errorf("invalid JSON output: %w", decodeErr),
		}
	}
	return nil
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= logPreviewLimit {
		return s
	}
	return s[:logPreviewLimit] + "…"
}

// commandLine renders argv for the log. Multi-line arguments such as inline
// interpreter scripts are replaced by a line count, and long arguments are
// cut to logArgLimit runes.
func commandLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		switch {
		case strings.Contains(arg, "\n"):
			parts[i] = fmt.Sprintf("<script: %d lines>", strings.Count(strings.TrimRight(arg, "\n"), "\n")+1)
		case utf8.RuneCountInString(arg) > logArgLimit:
			parts[i] = string([]rune(arg)[:logArgLimit]) + "…"
		default:
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}

func cloneEnv(env []string) []string {
	if env == nil {
		return nil
	}
	return append([]string{}, env...)
}
