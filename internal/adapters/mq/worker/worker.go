// Package worker runs queued commands one at a time.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/tierlist/internal/domain/model"
	"github.com/okian/tierlist/pkg/logger"
	"github.com/okian/tierlist/pkg/metrics"
)

// Command abstracts what the dispatcher reads off the queue.
type Command = model.Command

// Queue defines how the dispatcher receives commands.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Command
}

// Worker runs commands until stopped.
type Worker interface {
	// Run starts the loop until ctx is canceled, Shutdown is called or the
	// queue is closed.
	Run(ctx context.Context)

	// Shutdown stops the loop and fails any commands still queued.
	Shutdown(ctx context.Context) error
}

// Dispatcher is the single goroutine that applies every state change, so
// each command runs to completion before the next one starts.
type Dispatcher struct {
	queue Queue
	name  string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewDispatcher creates a dispatcher reading from q.
func NewDispatcher(q Queue, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:    q,
		name:     "dispatcher",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named(d.name)
	return d
}

// Run starts the dispatch loop.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	commands := d.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, commands)
			return
		case <-d.shutdown:
			d.drain(ctx, commands)
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			d.apply(ctx, cmd)
		}
	}
}

// Done is closed once Run has returned.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

// Shutdown stops the dispatcher and waits for the loop to exit.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.shutdownOnce.Do(func() { close(d.shutdown) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (d *Dispatcher) apply(ctx context.Context, cmd Command) { //nolint:gocritic // hugeParam: Command is passed by value through the channel
	err := d.safeApply(ctx, cmd)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		d.logger.Debug(ctx, "command failed",
			logger.String("command", cmd.Name),
			logger.String("command_id", cmd.ID.String()),
			logger.Error(err),
		)
	}
	metrics.RecordCommand(cmd.Name, outcome, float64(time.Since(cmd.EnqueuedAt).Milliseconds()))
	cmd.Complete(err)
}

func (d *Dispatcher) safeApply(ctx context.Context, cmd Command) (err error) { //nolint:gocritic // hugeParam
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordErrorByComponent("dispatcher", "panic")
			d.logger.Error(ctx, "command panicked",
				logger.String("command", cmd.Name),
				logger.Any("panic", r),
			)
			err = fmt.Errorf("%w: %s: %v", ErrPanic, cmd.Name, r)
		}
	}()
	if cmd.Apply == nil {
		return nil
	}
	return cmd.Apply(ctx)
}

// drain fails commands that were queued but will never run.
func (d *Dispatcher) drain(ctx context.Context, commands <-chan Command) {
	n := 0
	defer func() {
		d.logger.Debug(ctx, "dispatcher stopped", logger.Int("dropped", n))
	}()
	for {
		select {
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			cmd.Complete(ErrStopped)
			n++
		default:
			return
		}
	}
}
