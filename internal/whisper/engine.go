package whisper

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"transcriber/internal/acquire"
	"transcriber/internal/backend"
	"transcriber/internal/command"
	"transcriber/internal/logging"
	"transcriber/internal/services"
)

//go:embed driver.py
var driverSource string

// torchWeightsEnv forces torch.load back to full unpickling. Torch 2.6 made
// weights_only the default, which rejects older Whisper checkpoints.
const torchWeightsEnv = "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD"

// Runner executes the Python driver.
type Runner interface {
	Run(ctx context.Context, argv ...string) (string, error)
	RunJSON(ctx context.Context, v any, argv ...string) error
}

// Model is a loaded model handle bound to a device.
type Model struct {
	Name   string
	Device backend.Device
}

// Result is the transcription of one item.
type Result struct {
	Text string
	// Language is the detected or forced language. Empty means unknown.
	Language string
	Item     acquire.MediaItem
}

// Engine runs Whisper through the resolved Python interpreter.
type Engine struct {
	runner Runner
	python string
	logger *slog.Logger
}

// NewEngine builds an engine. The runner's environment should come from Env.
func NewEngine(runner Runner, python string, logger *slog.Logger) *Engine {
	return &Engine{
		runner: runner,
		python: python,
		logger: logging.NewComponentLogger(logger, "whisper"),
	}
}

// Env returns the child environment the engine needs on top of base: ffmpeg
// first on PATH for audio decoding and legacy checkpoint loading in torch.
func Env(base []string, ffmpeg string) []string {
	var extra []string
	if _, ok := command.LookupEnv(base, torchWeightsEnv); !ok {
		extra = append(extra, torchWeightsEnv+"=1")
	}
	return command.ToolEnv(base, ffmpeg, extra...)
}

type loadPayload struct {
	Model  string `json:"model"`
	Device string `json:"device"`
}

type transcribePayload struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// LoadModel loads name onto device, downloading weights on first use.
func (e *Engine) LoadModel(ctx context.Context, name string, device backend.Device) (*Model, error) {
	if !ValidModel(name) {
		return nil, services.Wrap(services.ErrConfiguration, "loading_model", "validate model",
			fmt.Sprintf("unknown model %q (choose one of %s)", name, strings.Join(Models, ", ")), nil)
	}
	e.logger.Info("Loading Whisper model: " + name)

	var payload loadPayload
	if err := e.runner.RunJSON(ctx, &payload, e.argv("load", name, device)...); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "loading_model", "load model", name, err)
	}
	e.logger.Debug("model ready",
		logging.String("model", name),
		logging.String(logging.FieldDevice, payload.Device),
	)
	return &Model{Name: name, Device: device}, nil
}

// Transcribe runs the model over item's audio. language is a selector as
// accepted by LanguageHint. There are no retries.
func (e *Engine) Transcribe(ctx context.Context, model *Model, item acquire.MediaItem, language string) (Result, error) {
	if model == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "transcribing", "transcribe", "model not loaded", nil)
	}
	argv := e.argv("transcribe", model.Name, model.Device, "--audio", item.AudioPath)
	if hint := LanguageHint(language); hint != "" {
		argv = append(argv, "--language", hint)
	}

	var payload transcribePayload
	if err := e.runner.RunJSON(ctx, &payload, argv...); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcribing", "transcribe", item.ID, err)
	}
	return Result{
		Text:     strings.TrimSpace(payload.Text),
		Language: strings.TrimSpace(payload.Language),
		Item:     item,
	}, nil
}

func (e *Engine) argv(mode, model string, device backend.Device, extra ...string) []string {
	argv := []string{e.python, "-c", driverSource, mode, "--model", model, "--device", device.Handle}
	return append(argv, extra...)
}
