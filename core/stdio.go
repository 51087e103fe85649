package core

import "os"

// Stdio holds the interpreter's standard streams. Children inherit the
// descriptors directly.
type Stdio struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// DefaultStdio uses the process's own streams.
func DefaultStdio() Stdio {
	return Stdio{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
