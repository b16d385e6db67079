package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"transcriber/internal/logging"
	"transcriber/internal/services"
)

// MediaItem is one unit of transcription work. AudioPath always points at a
// mono 16 kHz WAV file.
type MediaItem struct {
	ID        string
	Title     string
	URL       string
	AudioPath string
}

// Acquirer turns a URL into local audio files ready for transcription.
type Acquirer struct {
	strategy  Strategy
	converter *Converter
	logger    *slog.Logger
}

// New builds an acquirer around a chosen strategy.
func New(strategy Strategy, converter *Converter, logger *slog.Logger) *Acquirer {
	return &Acquirer{
		strategy:  strategy,
		converter: converter,
		logger:    logging.NewComponentLogger(logger, "acquire"),
	}
}

// Strategy returns the download strategy in use.
func (a *Acquirer) Strategy() Strategy { return a.strategy }

// Acquire downloads url into dir and returns one item per entry whose audio
// could be materialized, in manifest order. Entries without usable audio are
// logged and skipped. An empty result is not an error here.
func (a *Acquirer) Acquire(ctx context.Context, url, dir string) ([]MediaItem, error) {
	if a.strategy == nil {
		return nil, services.Wrap(services.ErrConfiguration, "acquiring", "strategy", "no download strategy configured", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	manifest, err := a.strategy.Download(ctx, url, dir)
	if err != nil {
		return nil, err
	}

	entries := NormalizeEntries(manifest, url)
	a.logCollection(manifest, url, len(entries))

	items := make([]MediaItem, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := a.materialize(ctx, entry, dir)
		if err != nil {
			if errors.Is(err, services.ErrAcquisitionGap) {
				a.logger.Info(fmt.Sprintf("Skipping %s: %s", entry.ID, gapReason(err)),
					logging.String(logging.FieldItemID, entry.ID))
				continue
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (a *Acquirer) logCollection(manifest *Manifest, url string, count int) {
	switch {
	case manifest.IsCollection():
		a.logger.Info(fmt.Sprintf("Detected playlist with %d items", count))
	case LooksLikePlaylist(url):
		a.logger.Info("Detected playlist from URL pattern")
	default:
		a.logger.Info("Detected single video")
	}
}

// materialize locates the file produced for entry and brings it to the
// target format. Conversion leftovers never survive a failed item.
func (a *Acquirer) materialize(ctx context.Context, entry Entry, dir string) (MediaItem, error) {
	target := filepath.Join(dir, entry.ID+".wav")
	source, err := locate(dir, entry.ID)
	if err != nil {
		return MediaItem{}, gap(entry.ID, err)
	}

	if !strings.EqualFold(filepath.Ext(source), ".wav") {
		if err := a.converter.ToWAV(ctx, source, target); err != nil {
			if ctx.Err() != nil {
				return MediaItem{}, ctx.Err()
			}
			return MediaItem{}, gap(entry.ID, fmt.Errorf("convert %s: %w", filepath.Base(source), err))
		}
		if err := os.Remove(source); err != nil && !errors.Is(err, os.ErrNotExist) {
			a.logger.Debug("remove original after conversion failed", logging.Error(err))
		}
		source = target
	}

	format, err := ReadFormat(source)
	if err != nil || !format.IsTarget() {
		if err := a.resample(ctx, source); err != nil {
			if ctx.Err() != nil {
				return MediaItem{}, ctx.Err()
			}
			return MediaItem{}, gap(entry.ID, err)
		}
		if format, err = ReadFormat(source); err != nil {
			return MediaItem{}, gap(entry.ID, err)
		}
		if !format.IsTarget() {
			return MediaItem{}, gap(entry.ID, fmt.Errorf("audio is %s after conversion", format))
		}
	}

	return MediaItem{ID: entry.ID, Title: entry.Title, URL: entry.URL, AudioPath: source}, nil
}

// resample rewrites a WAV in place as mono 16 kHz.
func (a *Acquirer) resample(ctx context.Context, path string) error {
	tmp := strings.TrimSuffix(path, filepath.Ext(path)) + ".16k.wav"
	_ = os.Remove(tmp)
	if err := a.converter.ToWAV(ctx, path, tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("resample %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// locate returns <dir>/<id>.wav when present, otherwise the first file
// matching <id>.* in name order.
func locate(dir, id string) (string, error) {
	exact := filepath.Join(dir, id+".wav")
	if info, err := os.Stat(exact); err == nil && !info.IsDir() {
		return exact, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, escapeGlob(id)+".*"))
	if err != nil {
		return "", err
	}
	sort.Strings(matches)
	for _, match := range matches {
		if strings.HasSuffix(match, ".part") || strings.HasSuffix(match, ".ytdl") {
			continue
		}
		if info, err := os.Stat(match); err == nil && !info.IsDir() {
			return match, nil
		}
	}
	return "", errNoFile
}

func escapeGlob(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`)
	return replacer.Replace(s)
}

type gapError struct {
	id  string
	err error
}

func (e *gapError) Error() string { return e.id + ": " + e.err.Error() }

func (e *gapError) Unwrap() []error { return []error{services.ErrAcquisitionGap, e.err} }

func gap(id string, err error) error {
	return &gapError{id: id, err: err}
}

func gapReason(err error) string {
	var g *gapError
	if errors.As(err, &g) {
		return g.err.Error()
	}
	return err.Error()
}
