// Package language normalizes transcription language selectors and turns
// language codes into display names.
//
// Selectors are what users type: "auto", ISO 639 codes, or English language
// names the engine accepts. Codes outside the built-in table are checked
// against golang.org/x/text/language.
package language
