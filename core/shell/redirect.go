package shell

import (
	"fmt"
	"os"
)

// Operators recognized in a command line. Each must be a token of its own.
const (
	OpPipe        = "|"
	OpRedirectIn  = "<"
	OpRedirectOut = ">"
)

// RedirectOutPerm is the mode of files created by OpRedirectOut.
const RedirectOutPerm os.FileMode = 0644

// Redirects holds the redirection targets of a pipeline.
type Redirects struct {
	// In is the file the first stage reads, empty for the inherited stdin.
	In string
	// Out is the file the last stage writes, empty for the inherited stdout.
	Out string
}

// StripRedirects extracts the redirection operators and their targets from
// tokens. The returned tokens are a new slice; the input isn't modified.
func StripRedirects(tokens []string) (Redirects, []string, error) {
	var r Redirects
	filtered := make([]string, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		var target *string
		switch tokens[i] {
		case OpRedirectIn:
			target = &r.In
		case OpRedirectOut:
			target = &r.Out
		default:
			filtered = append(filtered, tokens[i])
			continue
		}

		op := tokens[i]
		if i+1 >= len(tokens) {
			return Redirects{}, nil, fmt.Errorf("%w: %s requires a file path", ErrMalformedCommand, op)
		}
		if *target != "" {
			return Redirects{}, nil, fmt.Errorf("%w: multiple %s redirects", ErrMalformedCommand, op)
		}
		i++
		switch tokens[i] {
		case OpPipe, OpRedirectIn, OpRedirectOut:
			return Redirects{}, nil, fmt.Errorf("%w: %s requires a file path, got %q", ErrMalformedCommand, op, tokens[i])
		}
		*target = tokens[i]
	}

	return r, filtered, nil
}

// Endpoints holds the opened redirection files of a pipeline. A nil field
// means the stream is inherited from the interpreter.
type Endpoints struct {
	Stdin  *os.File
	Stdout *os.File
}

// Open opens the redirection targets. The input is opened first so a missing
// input file never truncates the output file.
func (r Redirects) Open() (*Endpoints, error) {
	ep := &Endpoints{}

	if r.In != "" {
		fd, err := os.Open(r.In)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		ep.Stdin = fd
	}

	if r.Out != "" {
		fd, err := os.OpenFile(r.Out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, RedirectOutPerm)
		if err != nil {
			ep.Close()
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		ep.Stdout = fd
	}

	return ep, nil
}

// Close releases any files still held. It's safe to call more than once.
func (ep *Endpoints) Close() error {
	var lastErr error
	for _, fd := range []**os.File{&ep.Stdin, &ep.Stdout} {
		if *fd == nil {
			continue
		}
		if err := (*fd).Close(); err != nil {
			lastErr = err
		}
		*fd = nil
	}
	return lastErr
}
