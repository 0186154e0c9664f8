// Package host holds the services the interpreter relies on to talk to the
// outside world: console output, diagnostics, line input, files and time.
package host

import "time"

type Host interface {
	Print(string)
	Report(error)
	ReadLine(prompt string) (string, error)
	ReadFile(path string) (string, error)
	WriteFile(path, contents string) error
	Sleep(time.Duration)
	Now() time.Time
}

// LineReader is satisfied by line editors such as liner.State.
type LineReader interface {
	Prompt(string) (string, error)
}
