package command

import (
	"fmt"
	"strings"

	"transcriber/internal/services"
)

// CommandFailure describes a tool that exited unsuccessfully or produced
// unusable output.
type CommandFailure struct {
	Argv     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Message returns the most useful diagnostic text: trimmed stderr, then
// trimmed stdout. A spawn failure or invalid output falls back to the
// underlying error, and a silent nonzero exit to a generic message.
func (e *CommandFailure) Message() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(e.Stdout); msg != "" {
		return msg
	}
	if e.Err != nil && e.ExitCode <= 0 {
		return e.Err.Error()
	}
	return "command failed"
}

func (e *CommandFailure) Error() string {
	if e == nil {
		return ""
	}
	name := "command"
	if len(e.Argv) > 0 {
		name = e.Argv[0]
	}
	return fmt.Sprintf("%s (exit %d): %s", name, e.ExitCode, e.Message())
}

// Unwrap exposes the external tool marker and the underlying exec error.
func (e *CommandFailure) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err == nil {
		return []error{services.ErrExternalTool}
	}
	return []error{services.ErrExternalTool, e.Err}
}
