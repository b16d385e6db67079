package acquire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"transcriber/internal/logging"
	"transcriber/internal/services"
)

const (
	outputTemplate = "%(id)s.%(ext)s"
	// postprocessorArgs asks the extract step for the engine's input format
	// directly so most items need no second conversion pass.
	postprocessorArgs = "ExtractAudio:-ac 1 -ar 16000"
)

// Runner executes a command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, argv ...string) (string, error)
	RunJSON(ctx context.Context, v any, argv ...string) error
}

// Strategy downloads audio for a URL into dir and reports what was fetched.
type Strategy interface {
	Name() string
	Download(ctx context.Context, url, dir string) (*Manifest, error)
}

// SelectOptions controls strategy selection.
type SelectOptions struct {
	// LibraryMode prefers the embedded downloader driver.
	LibraryMode bool
	// AutoInstall lets the driver fetch a yt-dlp build when none is available.
	AutoInstall bool
	YTDLP       string
	FFmpeg      string
}

// SelectStrategy picks the download strategy once per run. The library
// strategy is used when enabled and a yt-dlp executable can be provided for it;
// otherwise the CLI strategy runs the resolved yt-dlp binary.
func SelectStrategy(ctx context.Context, runner Runner, opts SelectOptions, logger *slog.Logger) (Strategy, error) {
	logger = logging.NewComponentLogger(logger, "acquire")
	if opts.LibraryMode {
		executable := opts.YTDLP
		if executable == "" {
			installed, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{DisableDownload: !opts.AutoInstall})
			if err != nil {
				logging.WarnWithContext(logger, "yt-dlp library driver unavailable", "downloader_install",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "install yt-dlp or enable runtime.auto_install"),
				)
			} else {
				executable = installed.Executable
			}
		}
		if executable != "" {
			return NewLibraryStrategy(executable, opts.FFmpeg, logger), nil
		}
	}
	if opts.YTDLP == "" {
		return nil, services.Wrap(services.ErrConfiguration, "acquiring", "yt-dlp", "yt-dlp CLI not found", nil)
	}
	if opts.LibraryMode {
		logger.Info("yt-dlp library driver not available. Falling back to CLI.")
	}
	return NewCLIStrategy(runner, opts.YTDLP, opts.FFmpeg, logger), nil
}

// LibraryStrategy drives yt-dlp through the go-ytdlp command builder in a
// single pass that downloads, extracts audio, and prints one info JSON object
// per item.
type LibraryStrategy struct {
	executable string
	ffmpeg     string
	logger     *slog.Logger
	run        func(ctx context.Context, cmd *ytdlp.Command, args ...string) (string, error)
}

// NewLibraryStrategy builds a library strategy bound to a yt-dlp executable.
func NewLibraryStrategy(executable, ffmpeg string, logger *slog.Logger) *LibraryStrategy {
	return &LibraryStrategy{
		executable: executable,
		ffmpeg:     ffmpeg,
		logger:     logging.NewComponentLogger(logger, "acquire"),
		run:        runYTDLP,
	}
}

func (s *LibraryStrategy) Name() string { return "library" }

func (s *LibraryStrategy) command(dir string) *ytdlp.Command {
	cmd := ytdlp.New().
		SetExecutable(s.executable).
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat("wav").
		AudioQuality("0").
		Output(filepath.Join(dir, outputTemplate)).
		IgnoreErrors().
		NoWarnings().
		NoProgress().
		YesPlaylist().
		PrintJSON()
	if s.ffmpeg != "" {
		cmd = cmd.FFmpegLocation(s.ffmpeg)
	}
	return cmd
}

func (s *LibraryStrategy) Download(ctx context.Context, url, dir string) (*Manifest, error) {
	s.logger.Info("Downloading audio with yt-dlp module...")
	stdout, runErr := s.run(ctx, s.command(dir), "--postprocessor-args", postprocessorArgs, url)

	entries, parseErr := parseInfoLines(stdout)
	if parseErr != nil {
		return nil, services.Wrap(services.ErrExternalTool, "acquiring", "yt-dlp", "decode info JSON", parseErr)
	}
	if runErr != nil {
		if ctx.Err() != nil || len(entries) == 0 {
			return nil, services.Wrap(services.ErrExternalTool, "acquiring", "yt-dlp", "download failed", runErr)
		}
		// Ignore-errors mode exits nonzero when some members of a collection fail.
		logging.WarnWithContext(s.logger, "yt-dlp reported errors for some entries", "download_partial",
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, "entries without audio are skipped"),
		)
	}
	if len(entries) == 1 && !LooksLikePlaylist(url) {
		return entries[0], nil
	}
	return &Manifest{Type: "playlist", WebpageURL: url, Entries: entries}, nil
}

func runYTDLP(ctx context.Context, cmd *ytdlp.Command, args ...string) (string, error) {
	result, err := cmd.Run(ctx, args...)
	if result == nil {
		return "", err
	}
	if err != nil && strings.TrimSpace(result.Stderr) != "" {
		err = fmt.Errorf("%w: %s", err, strings.TrimSpace(result.Stderr))
	}
	return result.Stdout, err
}

// parseInfoLines decodes the one-object-per-line output of --print-json.
// Non-JSON lines are ignored.
func parseInfoLines(stdout string) ([]*Manifest, error) {
	var entries []*Manifest
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var m Manifest
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			return nil, err
		}
		entries = append(entries, &m)
	}
	return entries, nil
}

// CLIStrategy runs the yt-dlp binary twice: once for the JSON manifest and
// once to download and extract audio.
type CLIStrategy struct {
	runner Runner
	ytdlp  string
	ffmpeg string
	logger *slog.Logger
}

// NewCLIStrategy builds a CLI strategy around a resolved yt-dlp path.
func NewCLIStrategy(runner Runner, ytdlpPath, ffmpeg string, logger *slog.Logger) *CLIStrategy {
	return &CLIStrategy{
		runner: runner,
		ytdlp:  ytdlpPath,
		ffmpeg: ffmpeg,
		logger: logging.NewComponentLogger(logger, "acquire"),
	}
}

func (s *CLIStrategy) Name() string { return "cli" }

func (s *CLIStrategy) Download(ctx context.Context, url, dir string) (*Manifest, error) {
	var manifest Manifest
	if err := s.runner.RunJSON(ctx, &manifest, s.ytdlp, "--dump-single-json", url); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "acquiring", "yt-dlp", "fetch manifest", err)
	}

	argv := []string{
		s.ytdlp,
		"-x",
		"--audio-format", "wav",
		"--audio-quality", "0",
		"--postprocessor-args", postprocessorArgs,
		"-o", filepath.Join(dir, outputTemplate),
		"--yes-playlist",
		"--ignore-errors",
	}
	if s.ffmpeg != "" {
		argv = append(argv, "--ffmpeg-location", s.ffmpeg)
	}
	argv = append(argv, url)

	s.logger.Info("Downloading audio with yt-dlp CLI...")
	if _, err := s.runner.Run(ctx, argv...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !manifest.IsCollection() {
			return nil, services.Wrap(services.ErrExternalTool, "acquiring", "yt-dlp", "download failed", err)
		}
		logging.WarnWithContext(s.logger, "yt-dlp reported errors for some entries", "download_partial",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "entries without audio are skipped"),
		)
	}
	return &manifest, nil
}

var errNoFile = errors.New("downloaded file not found")
