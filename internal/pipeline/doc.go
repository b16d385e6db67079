// Package pipeline orchestrates a transcription run: resolve tools, select
// a compute backend, acquire audio, transcribe each item, write documents,
// and clean the scratch directory.
//
// A run executes on its own goroutine and reports to its observer only
// through an event channel. Only one run may be active per pipeline and per
// scratch directory; the second is rejected with ErrRunInProgress. Items are
// isolated from each other: a failure in one is recorded in the Summary and
// the run moves on. A CancelToken stops the run between items, while
// cancelling the context passed to Start aborts the current child process.
package pipeline
