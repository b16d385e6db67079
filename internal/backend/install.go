package backend

import (
	"context"
	"strings"

	"transcriber/internal/services"
)

var torchPackages = []string{"torch", "torchvision", "torchaudio"}

// ensureTorch installs PyTorch when it cannot be imported. With an NVIDIA
// driver present the CUDA wheel index is tried first and a failure there
// falls back to the CPU build.
func (s *Selector) ensureTorch(ctx context.Context) error {
	if _, err := s.python(ctx, "import torch"); err == nil {
		s.logger.Info("PyTorch already installed.")
		return nil
	}
	if !s.opts.AutoInstall {
		return services.Wrap(services.ErrConfiguration, "selecting_backend", "torch",
			"PyTorch is not installed and runtime.auto_install is disabled", nil)
	}
	s.logger.Info("PyTorch not found. Installing...")

	if s.opts.HasNVIDIA() && s.opts.CUDAIndexURL != "" {
		s.logger.Info("NVIDIA GPU detected. Trying CUDA-enabled PyTorch install...")
		if err := s.pipInstall(ctx, torchPackages, s.opts.CUDAIndexURL); err == nil {
			return nil
		}
		s.logger.Info("CUDA install failed. Falling back to CPU-only PyTorch.")
	}

	if err := s.pipInstall(ctx, torchPackages, s.opts.CPUIndexURL); err != nil {
		return services.Wrap(services.ErrExternalTool, "selecting_backend", "torch", "install PyTorch", err)
	}
	return nil
}

func (s *Selector) ensureWhisper(ctx context.Context) error {
	if _, err := s.python(ctx, "import whisper"); err == nil {
		s.logger.Info("Whisper already installed.")
		return nil
	}
	if !s.opts.AutoInstall {
		return services.Wrap(services.ErrConfiguration, "selecting_backend", "whisper",
			"openai-whisper is not installed and runtime.auto_install is disabled", nil)
	}
	s.logger.Info("Whisper not found. Installing openai-whisper...")
	if err := s.pipInstall(ctx, []string{"openai-whisper"}, ""); err != nil {
		return services.Wrap(services.ErrExternalTool, "selecting_backend", "whisper", "install openai-whisper", err)
	}
	return nil
}

func (s *Selector) pipInstall(ctx context.Context, packages []string, indexURL string) error {
	argv := []string{s.opts.Python, "-m", "pip", "install"}
	argv = append(argv, packages...)
	if indexURL != "" {
		argv = append(argv, "--index-url", indexURL)
	}
	s.logger.Info("Installing: " + strings.Join(packages, " "))
	_, err := s.runner.Run(ctx, argv...)
	return err
}
