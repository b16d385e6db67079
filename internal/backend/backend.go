package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"transcriber/internal/logging"
	"transcriber/internal/services"
)

// Device identifies the compute backend handed to the transcription engine.
type Device struct {
	// Handle is the torch device string, e.g. "cuda" or "privateuseone:0".
	Handle string
	// Name is the human-readable label reported to the observer.
	Name string
}

var (
	CPU      = Device{Handle: "cpu", Name: "CPU"}
	CUDA     = Device{Handle: "cuda", Name: "CUDA"}
	DirectML = Device{Handle: "privateuseone:0", Name: "DirectML"}
)

// Runner executes a command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, argv ...string) (string, error)
}

// Options configures runtime bootstrap and probing.
type Options struct {
	Python       string
	AutoInstall  bool
	CUDAIndexURL string
	CPUIndexURL  string
	// HasNVIDIA reports whether an NVIDIA driver is present. It gates the
	// CUDA wheel install attempt.
	HasNVIDIA func() bool
}

// Selector picks the best available compute device for the Python runtime.
type Selector struct {
	runner Runner
	opts   Options
	logger *slog.Logger
}

// NewSelector builds a selector that probes through runner.
func NewSelector(runner Runner, opts Options, logger *slog.Logger) *Selector {
	if opts.HasNVIDIA == nil {
		opts.HasNVIDIA = func() bool { return false }
	}
	return &Selector{
		runner: runner,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "backend"),
	}
}

// Select makes sure torch and whisper are importable and then returns CUDA,
// DirectML, or CPU in that order of preference. Only a failed CPU install of
// the runtime is fatal; accelerator problems fall through to the next option.
func (s *Selector) Select(ctx context.Context) (Device, error) {
	if strings.TrimSpace(s.opts.Python) == "" {
		return Device{}, services.Wrap(services.ErrConfiguration, "selecting_backend", "python", "python interpreter not resolved", nil)
	}
	if err := s.ensureTorch(ctx); err != nil {
		return Device{}, err
	}
	if err := s.ensureWhisper(ctx); err != nil {
		return Device{}, err
	}

	if s.cudaAvailable(ctx) {
		s.logger.Info("Using NVIDIA CUDA backend.", logging.String(logging.FieldDevice, CUDA.Handle))
		return CUDA, nil
	}

	if device, err := s.directML(ctx); err == nil {
		s.logger.Info("Using DirectML backend.", logging.String(logging.FieldDevice, device.Handle))
		return device, nil
	} else if !errors.Is(err, errSkipped) {
		s.logger.Info(fmt.Sprintf("DirectML unavailable: %v", err))
	}

	s.logger.Info("Falling back to CPU backend.", logging.String(logging.FieldDevice, CPU.Handle))
	return CPU, nil
}

var errSkipped = errors.New("skipped")

func (s *Selector) cudaAvailable(ctx context.Context) bool {
	out, err := s.python(ctx, "import torch; print(torch.cuda.is_available())")
	if err != nil {
		s.logger.Debug("cuda probe failed", logging.Error(err))
		return false
	}
	return strings.TrimSpace(out) == "True"
}

func (s *Selector) directML(ctx context.Context) (Device, error) {
	major, minor, err := s.pythonVersion(ctx)
	if err != nil {
		return Device{}, fmt.Errorf("determine python version: %w", err)
	}
	if major > 3 || (major == 3 && minor >= 12) {
		s.logger.Info("torch-directml is not available for this Python version. Skipping.")
		return Device{}, errSkipped
	}
	if _, err := s.python(ctx, "import torch_directml"); err == nil {
		s.logger.Info("torch-directml already installed.")
	} else {
		if !s.opts.AutoInstall {
			return Device{}, fmt.Errorf("torch-directml not installed")
		}
		s.logger.Info("torch-directml not found. Installing...")
		if err := s.pipInstall(ctx, []string{"torch-directml"}, ""); err != nil {
			return Device{}, err
		}
	}
	out, err := s.python(ctx, "import torch_directml; print(torch_directml.device())")
	if err != nil {
		return Device{}, err
	}
	handle := strings.TrimSpace(out)
	if handle == "" || handle == "None" {
		return Device{}, fmt.Errorf("no DirectML device reported")
	}
	return Device{Handle: handle, Name: DirectML.Name}, nil
}

func (s *Selector) pythonVersion(ctx context.Context) (int, int, error) {
	out, err := s.python(ctx, "import sys; print('%d.%d' % sys.version_info[:2])")
	if err != nil {
		return 0, 0, err
	}
	majorText, minorText, ok := strings.Cut(strings.TrimSpace(out), ".")
	if !ok {
		return 0, 0, fmt.Errorf("unexpected version output %q", strings.TrimSpace(out))
	}
	major, err := strconv.Atoi(majorText)
	if err != nil {
		return 0, 0, fmt.Errorf("parse major version: %w", err)
	}
	minor, err := strconv.Atoi(minorText)
	if err != nil {
		return 0, 0, fmt.Errorf("parse minor version: %w", err)
	}
	return major, minor, nil
}

func (s *Selector) python(ctx context.Context, code string) (string, error) {
	return s.runner.Run(ctx, s.opts.Python, "-c", code)
}
