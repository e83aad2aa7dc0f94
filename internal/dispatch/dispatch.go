// Package dispatch maps classified command strings onto handler functions and
// executes them concurrently with isolated failure handling.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Handler executes one command. The argument is the command with its
// registered prefix stripped.
type Handler func(ctx context.Context, arg string) error

type entry struct {
	prefix string
	fn     Handler
}

// Dispatcher holds an append-ordered prefix table. Registration happens at
// process start; the table is read-only afterwards, so Dispatch is safe for
// concurrent use.
type Dispatcher struct {
	entries []entry
	log     *zap.Logger
}

// New creates an empty dispatcher.
func New(log *zap.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Register appends a prefix-to-handler mapping. Matching is first registered
// wins, so register a prefix before any shorter prefix of it.
func (d *Dispatcher) Register(prefix string, fn Handler) {
	d.entries = append(d.entries, entry{prefix: prefix, fn: fn})
}

// Result reports the outcome of one command in a batch.
type Result struct {
	Command string
	Matched bool
	Err     error
}

// Dispatch resolves each command against the prefix table and runs every
// matched handler concurrently, one task per command. It returns once all
// tasks finish; a failing or panicking handler yields an error result without
// affecting its siblings. Unmatched commands are reported, not raised.
func (d *Dispatcher) Dispatch(ctx context.Context, commands []string) []Result {
	results := make([]Result, len(commands))

	var wg sync.WaitGroup
	for i, command := range commands {
		results[i].Command = command

		fn, arg, ok := d.resolve(command)
		if !ok {
			d.log.Warn("no handler found", zap.String("command", command))
			continue
		}
		results[i].Matched = true

		wg.Add(1)
		go func(i int, fn Handler, arg string) {
			defer wg.Done()
			results[i].Err = runSafe(ctx, fn, arg)
			if results[i].Err != nil {
				d.log.Warn("command failed",
					zap.String("command", results[i].Command),
					zap.Error(results[i].Err))
			}
		}(i, fn, arg)
	}
	wg.Wait()

	return results
}

// resolve finds the first registered prefix the command starts with.
func (d *Dispatcher) resolve(command string) (Handler, string, bool) {
	for _, e := range d.entries {
		if strings.HasPrefix(command, e.prefix) {
			return e.fn, strings.TrimSpace(command[len(e.prefix):]), true
		}
	}
	return nil, "", false
}

// runSafe converts a handler panic into an error so one command can never
// take down the batch.
func runSafe(ctx context.Context, fn Handler, arg string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return fn(ctx, arg)
}
