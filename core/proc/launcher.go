// Package proc runs pipelines of external programs connected by OS pipes.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
)

var (
	// ErrExecNotFound is returned when a program doesn't exist or can't be
	// executed.
	ErrExecNotFound = errors.New("invalid command")

	// ErrSpawnFailure is returned when a process or pipe can't be created.
	ErrSpawnFailure = errors.New("spawn failure")
)

const (
	StatusOK      = 0
	StatusFailure = 1
	// statusSignalBase is added to the signal number of a signalled child.
	statusSignalBase = 128
)

// Launcher starts one child process per pipeline stage.
type Launcher struct {
	// Stderr is the standard error of every child, os.Stderr if nil. Children
	// inherit the descriptor directly.
	Stderr *os.File
	// Env is the child environment, the interpreter's if nil.
	Env []string
	// Dir is the child working directory, the interpreter's if empty.
	Dir string
}

// Stage is a started child process.
type Stage struct {
	Args []string
	cmd  *exec.Cmd
}

func (l *Launcher) stderr() *os.File {
	if l.Stderr == nil {
		return os.Stderr
	}
	return l.Stderr
}

// Start launches args[0], found in PATH, with the given standard input and
// output. The child gets its own copy of both descriptors; the caller still
// owns stdin and stdout and should close them once they aren't needed.
// Start doesn't wait for the child.
func (l *Launcher) Start(ctx context.Context, args []string, stdin, stdout *os.File) (*Stage, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no program given", ErrSpawnFailure)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = l.stderr()
	cmd.Env = l.Env
	cmd.Dir = l.Dir

	if err := cmd.Start(); err != nil {
		if isNotExecutable(err) {
			return nil, fmt.Errorf("%s: %w", args[0], ErrExecNotFound)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawnFailure, args[0], err)
	}

	return &Stage{Args: args, cmd: cmd}, nil
}

func isNotExecutable(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, exec.ErrDot) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOEXEC)
}

// Wait blocks until the child exits and returns its exit status. Signalled
// children report 128 plus the signal number.
func (s *Stage) Wait() int {
	err := s.cmd.Wait()
	return exitStatus(s.cmd.ProcessState, err)
}

// Kill stops the child without waiting for it.
func (s *Stage) Kill() error {
	return s.cmd.Process.Kill()
}

// Pid gets the process ID of the child.
func (s *Stage) Pid() int {
	return s.cmd.Process.Pid
}

func exitStatus(state *os.ProcessState, err error) int {
	if state == nil {
		return StatusFailure
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return statusSignalBase + int(ws.Signal())
	}
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	if err != nil {
		return StatusFailure
	}
	return StatusOK
}
