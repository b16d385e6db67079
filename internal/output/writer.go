package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"transcriber/internal/fileutil"
	"transcriber/internal/logging"
	"transcriber/internal/services"
	"transcriber/internal/textutil"
	"transcriber/internal/whisper"
)

// maxCollisionSuffix is the highest numeric suffix tried before falling back
// to the item ID.
const maxCollisionSuffix = 999

// timestampLayout is RFC 3339 with a numeric UTC offset.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// Writer renders transcripts as Markdown documents.
type Writer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewWriter returns a writer stamped with the current time.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{
		logger: logging.NewComponentLogger(logger, "output"),
		now:    time.Now,
	}
}

// Write renders result into a new document under dir and returns its path.
// Existing documents are never overwritten unless every numbered name for
// the title is taken.
func (w *Writer) Write(dir string, result whisper.Result, model string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrItemProcessing, "writing", "ensure output dir", dir, err)
	}
	title := documentTitle(result.Item.Title, result.Item.ID)
	path := OutputPath(dir, title, result.Item.ID)
	doc := Render(result, model, w.now())

	if err := fileutil.WriteFileAtomic(path, []byte(doc), 0o644); err != nil {
		return "", services.Wrap(services.ErrItemProcessing, "writing", "write transcript", filepath.Base(path), err)
	}
	w.logger.Debug("transcript written",
		logging.String(logging.FieldItemID, result.Item.ID),
		logging.String("path", path),
		logging.Int("bytes", len(doc)),
	)
	return path, nil
}

// Render produces the document body for result.
func Render(result whisper.Result, model string, at time.Time) string {
	item := result.Item
	language := result.Language
	if language == "" {
		language = "unknown"
	}
	lines := []string{
		"# " + documentTitle(item.Title, item.ID),
		"",
		"## Video Information",
		"",
		fmt.Sprintf("- **Video ID**: %s", item.ID),
		fmt.Sprintf("- **URL**: [%s](%s)", item.URL, item.URL),
		fmt.Sprintf("- **Language**: %s", language),
		fmt.Sprintf("- **Model**: %s", model),
		fmt.Sprintf("- **Transcribed**: %s", at.UTC().Format(timestampLayout)),
		"",
		"## Transcript",
		"",
		strings.TrimSpace(result.Text),
		"",
	}
	return strings.Join(lines, "\n")
}

// OutputPath picks the first free name among <stem>.md, <stem>-1.md through
// <stem>-999.md, then falls back to <id>.md without checking it. The stem is
// the sanitized title, or the ID when sanitizing leaves nothing.
func OutputPath(dir, title, id string) string {
	stem := textutil.SanitizeFileName(title)
	if stem == "" {
		stem = id
	}
	candidate := filepath.Join(dir, stem+".md")
	if !fileutil.Exists(candidate) {
		return candidate
	}
	for suffix := 1; suffix <= maxCollisionSuffix; suffix++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d.md", stem, suffix))
		if !fileutil.Exists(candidate) {
			return candidate
		}
	}
	return filepath.Join(dir, id+".md")
}

func documentTitle(title, id string) string {
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return id
}
