package core

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/abiosoft/readline"
	"golang.org/x/term"
)

// LineReader reads one line of input per call.
type LineReader interface {
	// ReadLine shows the prompt and returns the next line without its line
	// terminator. It returns io.EOF once the input is exhausted.
	ReadLine(prompt string) (string, error)
	// AddHistory makes line available to the reader's editing history.
	AddHistory(line string)
	Close() error
}

// NewLineReader uses readline when stdin is a terminal and an unbuffered
// reader otherwise.
func NewLineReader(stdio Stdio, historySize int) (LineReader, error) {
	if term.IsTerminal(int(stdio.Stdin.Fd())) {
		return newTerminalReader(stdio, historySize)
	}
	return NewFileReader(stdio.Stdin, stdio.Stdout), nil
}

// FileReader reads lines from a non-terminal input.
//
// It reads a single byte at a time so nothing past the current line is
// consumed: children started afterwards read the rest of the input.
type FileReader struct {
	r      io.Reader
	prompt io.Writer
	buf    [1]byte
}

var _ LineReader = (*FileReader)(nil)

// NewFileReader creates a reader that writes prompts to prompt.
func NewFileReader(r io.Reader, prompt io.Writer) *FileReader {
	return &FileReader{r: r, prompt: prompt}
}

func (fr *FileReader) ReadLine(prompt string) (string, error) {
	if prompt != "" && fr.prompt != nil {
		fmt.Fprint(fr.prompt, prompt)
	}

	var line strings.Builder
	for {
		n, err := fr.r.Read(fr.buf[:])
		if n > 0 {
			if fr.buf[0] == '\n' {
				return strings.TrimSuffix(line.String(), "\r"), nil
			}
			line.WriteByte(fr.buf[0])
			continue
		}

		switch {
		case err == io.EOF && line.Len() > 0:
			return strings.TrimSuffix(line.String(), "\r"), nil
		case err != nil:
			return "", err
		}
	}
}

// AddHistory is a no-op, there's no line editing.
func (fr *FileReader) AddHistory(string) {}

func (fr *FileReader) Close() error {
	return nil
}

type terminalReader struct {
	rl    *readline.Instance
	stdin *gatedReader
}

func newTerminalReader(stdio Stdio, historySize int) (*terminalReader, error) {
	stdin := newGatedReader(stdio.Stdin)

	cfg := &readline.Config{
		Stdin:                  stdin,
		Stdout:                 stdio.Stdout,
		Stderr:                 stdio.Stderr,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		FuncIsTerminal: func() bool {
			return true
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &terminalReader{rl: rl, stdin: stdin}, nil
}

func (tr *terminalReader) ReadLine(prompt string) (string, error) {
	tr.rl.SetPrompt(prompt)
	tr.stdin.allow()
	return tr.rl.Readline()
}

func (tr *terminalReader) AddHistory(line string) {
	_ = tr.rl.SaveHistory(line)
}

func (tr *terminalReader) Close() error {
	tr.stdin.Close()
	return tr.rl.Close()
}

// gatedReader hands the terminal to readline only while a line is being
// edited. readline reads from a background goroutine, so reads past the end
// of a line block until the next prompt and keystrokes typed while a command
// runs reach that command.
type gatedReader struct {
	r    io.Reader
	gate chan struct{}
	done chan struct{}
	once sync.Once

	// open is only touched by the reading goroutine.
	open bool
}

func newGatedReader(r io.Reader) *gatedReader {
	return &gatedReader{
		r:    r,
		gate: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// allow lets reads through until the end of the next line.
func (g *gatedReader) allow() {
	select {
	case g.gate <- struct{}{}:
	default:
	}
}

func (g *gatedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if !g.open {
		select {
		case <-g.gate:
			g.open = true
		case <-g.done:
			return 0, io.EOF
		}
	}

	n, err := g.r.Read(p[:1])
	if n == 1 && (p[0] == '\r' || p[0] == '\n') {
		g.open = false
	}
	return n, err
}

func (g *gatedReader) Close() error {
	g.once.Do(func() { close(g.done) })
	return nil
}
