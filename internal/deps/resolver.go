package deps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"transcriber/internal/command"
	"transcriber/internal/logging"
)

var errNotFound = errors.New("executable not found")

// ProbeFunc runs a lookup command and returns its stdout.
type ProbeFunc func(ctx context.Context, name string, args ...string) (string, error)

// Resolver locates executables: PATH first, then platform lookup commands.
type Resolver struct {
	logger   *slog.Logger
	lookPath func(string) (string, error)
	probe    ProbeFunc
	goos     string
}

// NewResolver builds a resolver for the running platform.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		logger:   logging.NewComponentLogger(logger, "deps"),
		lookPath: exec.LookPath,
		probe:    runnerProbe(command.NewRunner(logger, nil)),
		goos:     runtime.GOOS,
	}
}

// WithProbe replaces the lookup command runner and target platform (for testing).
func (r *Resolver) WithProbe(goos string, probe ProbeFunc) *Resolver {
	clone := *r
	clone.goos = goos
	clone.probe = probe
	return &clone
}

// WithLookPath replaces the PATH search (for testing).
func (r *Resolver) WithLookPath(fn func(string) (string, error)) *Resolver {
	clone := *r
	clone.lookPath = fn
	return &clone
}

// Resolve returns the absolute path of name. A non-empty override wins but
// must exist on disk; a missing override is an error even when name itself
// would resolve.
func (r *Resolver) Resolve(ctx context.Context, name, override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		if strings.ContainsAny(override, `/\`) {
			if _, err := os.Stat(override); err != nil {
				return "", fmt.Errorf("configured %s path does not exist: %s", name, override)
			}
			r.logger.Info(fmt.Sprintf("Using configured %s path.", name), logging.String(logging.FieldTool, name), logging.String("path", override))
			return override, nil
		}
		path, err := r.find(ctx, override)
		if err != nil {
			return "", fmt.Errorf("configured %s command %q not found", name, override)
		}
		r.logger.Info(fmt.Sprintf("Resolved %s at %s", name, path), logging.String(logging.FieldTool, name))
		return path, nil
	}

	path, err := r.find(ctx, name)
	if err != nil {
		return "", err
	}
	r.logger.Info(fmt.Sprintf("Resolved %s at %s", name, path), logging.String(logging.FieldTool, name))
	return path, nil
}

// OnPath reports whether name is found by a plain PATH lookup, without the
// shell fallbacks Resolve uses.
func (r *Resolver) OnPath(name string) bool {
	_, err := r.lookPath(name)
	return err == nil
}

func (r *Resolver) find(ctx context.Context, name string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		if info, err := os.Stat(name); err == nil && isExecutable(info, r.goos) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", errNotFound, name)
	}
	if path, err := r.lookPath(name); err == nil {
		return path, nil
	}
	for _, argv := range fallbackCommands(r.goos, name) {
		out, err := r.probe(ctx, argv[0], argv[1:]...)
		if err != nil {
			r.logger.Debug("lookup fallback failed", logging.String("command", strings.Join(argv, " ")), logging.Error(err))
			continue
		}
		if path := firstLine(out); path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errNotFound, name)
}

// fallbackCommands lists the lookup commands tried after PATH. GUI launches on
// Windows often inherit a stale PATH, and on Unix a login shell picks up
// profile additions such as ~/.local/bin.
func fallbackCommands(goos, name string) [][]string {
	if goos == "windows" {
		candidates := []string{name}
		if !strings.HasSuffix(strings.ToLower(name), ".exe") {
			candidates = append(candidates, name+".exe")
		}
		var cmds [][]string
		for _, c := range candidates {
			cmds = append(cmds, []string{"where", c}, []string{"cmd", "/c", "where", c})
		}
		script := fmt.Sprintf("$p=(Get-Command %s -ErrorAction SilentlyContinue).Source;if ($p) { $p }", name)
		return append(cmds, []string{"powershell", "-NoProfile", "-Command", script})
	}
	return [][]string{{"sh", "-lc", "command -v " + shellQuote(name)}}
}

func runnerProbe(runner *command.Runner) ProbeFunc {
	return func(ctx context.Context, name string, args ...string) (string, error) {
		return runner.Run(ctx, append([]string{name}, args...)...)
	}
}

func firstLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isExecutable(info os.FileInfo, goos string) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if goos == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
