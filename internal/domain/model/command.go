// Package model contains the values passed between the app and its
// command dispatcher.
package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ApplyFunc mutates application state. It always runs on the dispatcher
// goroutine, one command at a time.
type ApplyFunc func(ctx context.Context) error

// Command is one unit of work for the dispatcher.
type Command struct {
	ID         uuid.UUID
	Name       string
	EnqueuedAt time.Time
	Apply      ApplyFunc

	done chan error
}

// NewCommand creates a command whose completion can be awaited with Done.
func NewCommand(name string, apply ApplyFunc) Command {
	return Command{
		ID:         uuid.New(),
		Name:       name,
		EnqueuedAt: time.Now(),
		Apply:      apply,
		done:       make(chan error, 1),
	}
}

// Done yields the command's result once it has run.
func (c Command) Done() <-chan error { return c.done }

// Complete publishes err as the command's result. Only the first call
// has an effect.
func (c Command) Complete(err error) {
	if c.done == nil {
		return
	}
	select {
	case c.done <- err:
	default:
	}
}
