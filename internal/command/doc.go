// Package command runs external tools as subprocesses with an explicit child
// environment, captured output, and a typed failure that carries the tool's
// diagnostic text.
package command
