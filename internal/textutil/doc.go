// Package textutil provides filename and token sanitization for transcript
// documents and history records.
package textutil
