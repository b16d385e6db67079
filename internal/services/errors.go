package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool   = errors.New("external tool error")
	ErrConfiguration  = errors.New("configuration error")
	ErrAcquisitionGap = errors.New("acquisition gap")
	ErrItemProcessing = errors.New("item processing failed")
	ErrCancelled      = errors.New("cancelled")
	ErrTransient      = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to the short classification recorded in run history and
// attached to log lines as the error hint.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrAcquisitionGap):
		return "acquisition"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	case errors.Is(err, ErrItemProcessing):
		return "item"
	default:
		return "internal"
	}
}

// Hint returns an operator-facing next step for the error classification.
func Hint(err error) string {
	switch Kind(err) {
	case "configuration":
		return "check flags and the config file (transcriber config show)"
	case "external_tool":
		return "inspect the tool stderr above; run transcriber doctor"
	case "acquisition":
		return "the downloader reported an entry without producing audio"
	case "item":
		return "re-run the URL after fixing the failed entries"
	case "":
		return ""
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
