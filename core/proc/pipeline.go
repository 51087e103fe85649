package proc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Orchestrator runs pipelines, chaining each stage's stdout to the next
// stage's stdin.
type Orchestrator struct {
	Launcher *Launcher

	// Stdin is read by the first stage unless the input is redirected.
	Stdin *os.File
	// Stdout is written by the last stage unless the output is redirected.
	Stdout *os.File

	reapers sync.WaitGroup
}

// Result describes a finished pipeline.
type Result struct {
	// Status is the exit status of the last stage.
	Status int
	// NotFound lists the programs that couldn't be executed.
	NotFound []string
}

// OK reports whether the last stage succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

func (o *Orchestrator) launcher() *Launcher {
	if o.Launcher == nil {
		return &Launcher{}
	}
	return o.Launcher
}

func (o *Orchestrator) stdin() *os.File {
	if o.Stdin == nil {
		return os.Stdin
	}
	return o.Stdin
}

func (o *Orchestrator) stdout() *os.File {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

// Run starts one process per entry of stages and waits for the last one.
//
// in and out, when non-nil, replace the first stage's stdin and the last
// stage's stdout. Run takes ownership of them: they're closed before Run
// returns whether or not the pipeline started.
//
// A stage whose program can't be executed reports "NAME: invalid command" on
// the launcher's stderr and exits with StatusFailure; the other stages keep
// running. Any other launch failure kills the stages already started and
// returns an error wrapping ErrSpawnFailure.
//
// Only the last stage is waited on. The others are reaped in the background,
// use Drain to wait for them.
func (o *Orchestrator) Run(ctx context.Context, stages [][]string, in, out *os.File) (Result, error) {
	var fds fdSet
	defer fds.Close()

	current := o.stdin()
	if in != nil {
		current = fds.add(in)
	}
	final := o.stdout()
	if out != nil {
		final = fds.add(out)
	}

	if len(stages) == 0 {
		return Result{Status: StatusFailure}, fmt.Errorf("%w: empty pipeline", ErrSpawnFailure)
	}

	var (
		result   = Result{Status: StatusFailure}
		started  []*Stage
		terminal *Stage
	)
	for i, args := range stages {
		last := i == len(stages)-1

		var next *os.File
		sink := final
		if !last {
			r, w, err := os.Pipe()
			if err != nil {
				o.abort(started)
				return result, fmt.Errorf("%w: pipe: %v", ErrSpawnFailure, err)
			}
			next, sink = fds.add(r), fds.add(w)
		}

		stage, err := o.launcher().Start(ctx, args, current, sink)

		// The child has its own copies now; closing ours lets the next stage
		// see EOF once this one exits.
		fds.release(current)
		fds.release(sink)

		switch {
		case errors.Is(err, ErrExecNotFound):
			fmt.Fprintf(o.launcher().stderr(), "%s: invalid command\n", args[0])
			result.NotFound = append(result.NotFound, args[0])
		case err != nil:
			o.abort(started)
			return result, err
		case last:
			terminal = stage
		default:
			started = append(started, stage)
		}

		current = next
	}

	for _, stage := range started {
		o.reap(stage)
	}

	if terminal != nil {
		result.Status = terminal.Wait()
	}
	return result, nil
}

func (o *Orchestrator) reap(stage *Stage) {
	o.reapers.Add(1)
	go func() {
		defer o.reapers.Done()
		stage.Wait()
	}()
}

// abort kills and reaps stages of a pipeline that failed to start.
func (o *Orchestrator) abort(started []*Stage) {
	for _, stage := range started {
		stage.Kill()
		stage.Wait()
	}
}

// Drain waits until every background stage has been reaped.
func (o *Orchestrator) Drain() {
	o.reapers.Wait()
}
