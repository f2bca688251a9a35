// Package pipeline holds the decode loop, the stream arithmetic shared by
// the encoder tasks, and the worker plumbing the orchestrator runs them on.
package pipeline

import (
	"fmt"
	"runtime/debug"
)

// Worker is one side of the decode/encode pair.
type Worker[Out any] interface {
	// Run does the worker's whole job on the calling goroutine.
	Run() (Out, error)
}

// WorkerFunc is a function adapter for the Worker interface.
type WorkerFunc[Out any] func() (Out, error)

// Run implements Worker.
func (f WorkerFunc[Out]) Run() (Out, error) {
	return f()
}

// Outcome is how a worker ended.
type Outcome[Out any] struct {
	Value    Out
	Err      error
	Panicked bool
	// Panic holds the recovered value and stack when Panicked is set.
	Panic string
}

// Failed reports whether the worker returned an error or panicked.
func (o Outcome[Out]) Failed() bool {
	return o.Err != nil || o.Panicked
}

// Start runs w on its own goroutine. The returned channel yields exactly one
// Outcome, also when w panics.
func Start[Out any](w Worker[Out]) <-chan Outcome[Out] {
	done := make(chan Outcome[Out], 1)
	go func() {
		var out Outcome[Out]
		defer func() {
			if r := recover(); r != nil {
				out = Outcome[Out]{
					Panicked: true,
					Panic:    fmt.Sprintf("%v\n%s", r, debug.Stack()),
				}
			}
			done <- out
		}()
		out.Value, out.Err = w.Run()
	}()
	return done
}
