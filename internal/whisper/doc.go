// Package whisper adapts the Python openai-whisper package to the pipeline.
//
// The engine shells out to an embedded driver script through the resolved
// interpreter. LoadModel verifies that the model loads on the selected device
// and fetches its weights; Transcribe runs one audio file and returns the text
// and detected language reported by the driver as a single JSON object.
package whisper
