// Package output writes transcript documents and clears the scratch
// directory at the end of a run.
//
// Documents are Markdown with a fixed header block followed by the transcript
// text. File names derive from the item title and never collide with an
// existing document in the output directory.
package output
