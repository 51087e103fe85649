// Package core runs the interactive command interpreter: it reads lines,
// dispatches builtins and executes pipelines of external programs.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/nsh/core/config"
	"github.com/josephlewis42/nsh/core/history"
	"github.com/josephlewis42/nsh/core/logger"
	"github.com/josephlewis42/nsh/core/proc"
	"github.com/josephlewis42/nsh/core/shell"
	"golang.org/x/term"
)

const (
	// ExitMessage is printed when the interpreter is interrupted.
	ExitMessage = "Attempting to exit..."

	diagnosticPrefix = "nsh"
)

type Shell struct {
	Config *config.Configuration
	Stdio
	Lines LineReader
	Log   *logger.SessionLogger

	User     string
	Hostname string

	history      *history.Ring
	orchestrator *proc.Orchestrator
	color        ColorPrinter

	lastRet int

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates an interpreter reading from stdio. A nil sessionLog drops
// every event.
func NewShell(cfg *config.Configuration, stdio Stdio, sessionLog *logger.SessionLogger) (*Shell, error) {
	lines, err := NewLineReader(stdio, cfg.HistorySize)
	if err != nil {
		return nil, err
	}

	if sessionLog == nil {
		sessionLog = logger.NewNopLogger().Sessionless()
	}

	host, _ := os.Hostname()

	return &Shell{
		Config:   cfg,
		Stdio:    stdio,
		Lines:    lines,
		Log:      sessionLog,
		User:     CurrentUser(),
		Hostname: host,

		history: cfg.NewHistory(),
		orchestrator: &proc.Orchestrator{
			Launcher: &proc.Launcher{Stderr: stdio.Stderr},
			Stdin:    stdio.Stdin,
			Stdout:   stdio.Stdout,
		},
		color: ColorPrinter{
			Mode:       cfg.Color,
			IsTerminal: term.IsTerminal(int(stdio.Stdout.Fd())),
		},
	}, nil
}

// History gets the successfully executed lines.
func (s *Shell) History() *history.Ring {
	return s.history
}

// LastStatus is the status of the most recently executed line.
func (s *Shell) LastStatus() int {
	return s.lastRet
}

// Run reads and executes lines until the input ends, the exit builtin runs
// or ctx is cancelled. It returns the interpreter's exit status.
func (s *Shell) Run(ctx context.Context) int {
	s.record(&logger.LogEntry{
		SessionStart: &logger.SessionStart{User: s.User, Interactive: s.interactive()},
	})

	for !s.Quit {
		line, err := s.readLine(ctx)

		switch {
		case err == io.EOF:
			s.end("eof")
			return proc.StatusOK

		case errors.Is(err, readline.ErrInterrupt), ctx.Err() != nil:
			return s.interrupted()

		case err != nil:
			s.diagnostic(err)
			s.end("error")
			return proc.StatusFailure
		}

		s.RunLine(ctx, line)

		if ctx.Err() != nil {
			return s.interrupted()
		}
	}

	s.end("exit")
	return proc.StatusOK
}

func (s *Shell) interactive() bool {
	return term.IsTerminal(int(s.Stdin.Fd()))
}

func (s *Shell) interrupted() int {
	fmt.Fprintln(s.Stdout, ExitMessage)
	s.end("interrupt")
	return proc.StatusOK
}

func (s *Shell) end(reason string) {
	s.record(&logger.LogEntry{SessionEnd: &logger.SessionEnd{Reason: reason}})
}

// readLine reads the next line, giving up early if ctx is cancelled.
func (s *Shell) readLine(ctx context.Context) (string, error) {
	type readResult struct {
		line string
		err  error
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	prompt := s.prompt()
	results := make(chan readResult, 1)
	go func() {
		line, err := s.Lines.ReadLine(prompt)
		results <- readResult{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-results:
		return res.line, res.err
	}
}

// RunLine executes a single line and returns its status. Lines that complete
// with a success status are added to the history, builtins never are.
func (s *Shell) RunLine(ctx context.Context, line string) int {
	if builtin, ok := AllBuiltins[line]; ok {
		s.lastRet = builtin.Main(s, []string{line})
		s.record(&logger.LogEntry{
			Builtin: &logger.Builtin{Name: line, Status: s.lastRet},
		})
		return s.lastRet
	}

	start := time.Now()
	pipeline, err := shell.Parse(line, s.Config.Limits())
	if pipeline == nil && err == nil {
		// Blank lines keep the previous status.
		return s.lastRet
	}

	result := proc.Result{Status: proc.StatusFailure}
	if err == nil {
		result, err = s.execute(ctx, pipeline)
	}
	if err != nil {
		s.diagnostic(err)
	}

	s.lastRet = result.Status
	if err == nil && result.OK() {
		s.history.Record(line)
		s.Lines.AddHistory(line)
	}

	event := &logger.RunCommand{
		Line:           line,
		Status:         result.Status,
		NotFound:       result.NotFound,
		DurationMicros: time.Since(start).Microseconds(),
	}
	if pipeline != nil {
		event.Stages = pipeline.Argv()
	}
	if err != nil {
		event.Error = err.Error()
	}
	s.record(&logger.LogEntry{RunCommand: event})

	return s.lastRet
}

func (s *Shell) execute(ctx context.Context, pipeline *shell.Pipeline) (proc.Result, error) {
	endpoints, err := pipeline.Redirects.Open()
	if err != nil {
		return proc.Result{Status: proc.StatusFailure}, err
	}

	// Run owns the endpoints from here on.
	return s.orchestrator.Run(ctx, pipeline.Argv(), endpoints.Stdin, endpoints.Stdout)
}

func (s *Shell) diagnostic(err error) {
	fmt.Fprintf(s.Stderr, "%s: %v\n", diagnosticPrefix, err)
}

func (s *Shell) record(le *logger.LogEntry) {
	if err := s.Log.Record(le); err != nil {
		fmt.Fprintf(s.Stderr, "%s: event log: %v\n", diagnosticPrefix, err)
	}
}

// Close waits for background stages and releases the line reader.
func (s *Shell) Close() error {
	s.orchestrator.Drain()
	return s.Lines.Close()
}
