package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"transcriber/internal/logging"
	"transcriber/internal/pipeline"
)

var errRunIncomplete = errors.New("run finished with errors")

type runFlags struct {
	language  string
	model     string
	ffmpeg    string
	ytdlp     string
	outputDir string
	noHistory bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <url>",
		Short: "Transcribe a video or playlist URL",
		Long: "Download the audio behind a video or playlist URL, transcribe every item with\n" +
			"Whisper, and write one Markdown document per item. Press Ctrl-C once to stop\n" +
			"after the current item and twice to abort immediately.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscription(cmd, ctx, strings.TrimSpace(args[0]), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Spoken language code, or \"auto\" to detect")
	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "Whisper model name (see `transcriber models`)")
	cmd.Flags().StringVar(&flags.ffmpeg, "ffmpeg", "", "Path to the ffmpeg executable")
	cmd.Flags().StringVar(&flags.ytdlp, "yt-dlp", "", "Path to the yt-dlp executable")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for transcript documents")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not record this run in the history database")
	return cmd
}

func (f runFlags) apply(rc *pipeline.RunConfig) {
	if v := strings.TrimSpace(f.language); v != "" {
		rc.Language = v
	}
	if v := strings.TrimSpace(f.model); v != "" {
		rc.Model = v
	}
	if v := strings.TrimSpace(f.ffmpeg); v != "" {
		rc.FFmpegPath = v
	}
	if v := strings.TrimSpace(f.ytdlp); v != "" {
		rc.YTDLPPath = v
	}
	if v := strings.TrimSpace(f.outputDir); v != "" {
		rc.OutputDir = v
	}
}

func runTranscription(cmd *cobra.Command, ctx *commandContext, url string, flags runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	rc := pipeline.RunConfigFromConfig(cfg, url)
	flags.apply(&rc)

	logger, err := logging.NewFromConfig(cfg, false)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var opts []pipeline.Option
	if !flags.noHistory {
		store, err := ctx.openHistory()
		if err != nil {
			fmt.Fprintf(errOut, "History disabled: %v\n", err)
		} else {
			defer store.Close()
			opts = append(opts, pipeline.WithRecorder(store))
		}
	}
	opts = append(opts, ctx.pipelineOpts...)

	runCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	token := &pipeline.CancelToken{}
	stop := watchInterrupts(runCtx, token, cancel, errOut)
	defer stop()

	events, err := pipeline.New(cfg, logger, opts...).Start(runCtx, rc, token)
	if err != nil {
		return err
	}
	return renderEvents(out, events, shouldColorize(out))
}

// renderEvents prints events until the channel closes and turns the finished
// event into the command result.
func renderEvents(out io.Writer, events <-chan pipeline.Event, colorize bool) error {
	var finished *pipeline.Event
	for ev := range events {
		fmt.Fprintln(out, renderEvent(ev, colorize))
		if ev.Kind == pipeline.EventFinished {
			final := ev
			finished = &final
		}
	}
	switch {
	case finished == nil:
		return errRunIncomplete
	case finished.Success:
		return nil
	case finished.Message == "Cancelled":
		return context.Canceled
	default:
		return errRunIncomplete
	}
}

// watchInterrupts maps the first interrupt to a graceful stop between items
// and the second to an immediate abort of the running child process.
func watchInterrupts(ctx context.Context, token *pipeline.CancelToken, abort context.CancelFunc, errOut io.Writer) func() {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		received := 0
		for {
			select {
			case <-signals:
				received++
				if received == 1 {
					token.Cancel()
					fmt.Fprintln(errOut, "Stopping after the current item. Press Ctrl-C again to abort now.")
					continue
				}
				abort()
				return
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(signals)
		close(done)
	}
}
