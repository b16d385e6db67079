package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"transcriber/internal/acquire"
	"transcriber/internal/config"
	"transcriber/internal/deps"
	"transcriber/internal/history"
	"transcriber/internal/logging"
	"transcriber/internal/output"
	"transcriber/internal/services"
	"transcriber/internal/whisper"
)

const (
	defaultDataDir  = "data"
	eventBufferSize = 64
	stageResolving  = string(StateResolvingEnvironment)
	stageTranscribe = string(StateTranscribing)
)

// ErrNoAudio means acquisition finished without a single usable item.
var ErrNoAudio = errors.New("no audio files were downloaded")

// DocumentWriter persists one transcript and returns its path.
type DocumentWriter interface {
	Write(dir string, result whisper.Result, model string) (string, error)
}

// Recorder stores run history. Failures are logged and never affect a run.
type Recorder interface {
	BeginRun(ctx context.Context, run history.Run) error
	SetBackend(ctx context.Context, runID, backend string) error
	RecordItem(ctx context.Context, item history.Item) error
	FinishRun(ctx context.Context, run history.Run) error
}

// Option configures optional Pipeline behavior.
type Option func(*Pipeline)

// WithBuilder replaces the tool resolver and toolchain factory.
func WithBuilder(builder Builder) Option {
	return func(p *Pipeline) { p.builder = builder }
}

// WithWriter replaces the document writer.
func WithWriter(writer DocumentWriter) Option {
	return func(p *Pipeline) { p.writer = writer }
}

// WithRecorder records every run in history.
func WithRecorder(recorder Recorder) Option {
	return func(p *Pipeline) { p.recorder = recorder }
}

// Pipeline runs URL-to-transcript jobs one at a time.
type Pipeline struct {
	dataDir  string
	python   string
	logger   *slog.Logger
	builder  Builder
	writer   DocumentWriter
	recorder Recorder

	running atomic.Bool

	mu    sync.Mutex
	state State
}

// New builds a pipeline from the config file settings. The scratch directory
// is cfg.Paths.DataDir; it is emptied at the end of every run.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		dataDir: defaultDataDir,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		state:   StateIdle,
	}
	if cfg != nil {
		if cfg.Paths.DataDir != "" {
			p.dataDir = cfg.Paths.DataDir
		}
		p.python = cfg.Tools.Python
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.builder == nil {
		p.builder = NewSystemBuilder(cfg)
	}
	if p.writer == nil {
		p.writer = output.NewWriter(logger)
	}
	return p
}

// Start validates rc, claims the single-run guard, and runs in the
// background. The returned channel yields log, backend, and progress events
// and then exactly one EventFinished before it is closed. Cancelling ctx
// aborts child processes immediately; token stops between items.
func (p *Pipeline) Start(ctx context.Context, rc RunConfig, token *CancelToken) (<-chan Event, error) {
	rc = rc.normalized()
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	release, err := p.acquireRun()
	if err != nil {
		return nil, err
	}

	events := make(chan Event, eventBufferSize)
	go func() {
		defer close(events)
		defer release()
		p.execute(ctx, rc, token, func(ev Event) { events <- ev })
	}()
	return events, nil
}

// Run is the synchronous form of Start. Every event is passed to sink on the
// calling goroutine. The returned error is the Summary's terminal error.
func (p *Pipeline) Run(ctx context.Context, rc RunConfig, token *CancelToken, sink func(Event)) (Summary, error) {
	rc = rc.normalized()
	if err := rc.Validate(); err != nil {
		return Summary{}, err
	}
	release, err := p.acquireRun()
	if err != nil {
		return Summary{}, err
	}
	defer release()

	if sink == nil {
		sink = func(Event) {}
	}
	summary := p.execute(ctx, rc, token, sink)
	return summary, summary.Err
}

// execute drives one run to completion. Scratch cleanup and the Finished
// event happen on every path.
func (p *Pipeline) execute(ctx context.Context, rc RunConfig, token *CancelToken, emit func(Event)) Summary {
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)

	sink := logging.NewSinkHandler(slog.LevelInfo, func(level slog.Level, msg string) {
		emit(Event{Kind: EventLog, Level: level, Message: msg})
	})
	runLogger := logging.Tee(p.logger, sink)
	logger := logging.WithContext(ctx, runLogger)

	summary := Summary{RunID: runID}
	p.recordBegin(ctx, rc, runID, logger)

	err := p.stages(ctx, rc, token, runLogger, emit, &summary)
	if err == nil {
		err = summary.failureError()
	}
	summary.Err = err
	summary.Cancelled = isCancellation(err)

	if err != nil && !summary.Cancelled && !errors.Is(err, services.ErrItemProcessing) {
		logging.ErrorWithContext(logger, "Run failed", "run_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
		)
	}

	p.setState(StateCleaning)
	output.CleanScratch(p.dataDir, runLogger)

	success, message := finishMessage(err)
	p.recordFinish(ctx, &summary, message, logger)
	p.setState(StateDone)
	emit(Event{Kind: EventFinished, Success: success, Message: message})
	return summary
}

func (p *Pipeline) stages(ctx context.Context, rc RunConfig, token *CancelToken, logger *slog.Logger, emit func(Event), summary *Summary) error {
	p.setState(StateResolvingEnvironment)
	tools, err := p.builder.ResolveTools(ctx, deps.Overrides{
		FFmpeg: rc.FFmpegPath,
		YTDLP:  rc.YTDLPPath,
		Python: p.python,
	}, logger)
	if err != nil {
		return err
	}
	for _, dir := range []string{p.dataDir, rc.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrConfiguration, stageResolving, "create directory", dir, err)
		}
	}
	chain, err := p.builder.Toolchain(ctx, tools, logger)
	if err != nil {
		return err
	}

	p.setState(StateSelectingBackend)
	device, err := chain.Selector.Select(ctx)
	if err != nil {
		return err
	}
	summary.Backend = device.Name
	emit(Event{Kind: EventBackend, Backend: device.Name})
	p.recordBackend(ctx, summary.RunID, device.Name, logger)

	p.setState(StateAcquiring)
	items, err := chain.Acquirer.Acquire(ctx, rc.URL, p.dataDir)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrNoAudio
	}
	if token.Cancelled() {
		logger.Info("Cancelled before transcription.")
		return services.ErrCancelled
	}

	p.setState(StateLoadingModel)
	model, err := chain.Engine.LoadModel(ctx, rc.Model, device)
	if err != nil {
		return err
	}

	p.setState(StateTranscribing)
	total := len(items)
	for i, item := range items {
		index := i + 1
		if token.Cancelled() {
			logger.Info("Cancellation detected. Stopping further processing.")
			return services.ErrCancelled
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		emit(Event{Kind: EventProgress, Current: index - 1, Total: total})
		logger.Info(fmt.Sprintf("Transcribing %s (%d/%d)...", item.ID, index, total))

		outcome := p.processItem(ctx, chain.Engine, model, item, rc)
		if outcome.Err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Err != nil {
			summary.Failed++
			logging.WarnWithContext(logger, fmt.Sprintf("Failed %s: %v", item.ID, outcome.Err), "item_failed",
				logging.String(logging.FieldItemID, item.ID),
				logging.String(logging.FieldErrorHint, services.Hint(outcome.Err)),
			)
		} else {
			summary.Succeeded++
			logger.Info(fmt.Sprintf("Saved transcript for %s.", item.ID))
		}
		p.recordItem(ctx, summary.RunID, outcome, logger)
		emit(Event{Kind: EventProgress, Current: index, Total: total})
	}
	return nil
}

// processItem transcribes and writes one item. Its errors never end the run.
func (p *Pipeline) processItem(ctx context.Context, engine Engine, model *whisper.Model, item acquire.MediaItem, rc RunConfig) ItemOutcome {
	ctx = services.WithItemID(ctx, item.ID)
	ctx = services.WithStage(ctx, stageTranscribe)
	outcome := ItemOutcome{ItemID: item.ID, Title: item.Title}

	result, err := engine.Transcribe(ctx, model, item, rc.Language)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	path, err := p.writer.Write(rc.OutputDir, result, rc.Model)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Path = path
	return outcome
}
