// Package service wires the board, the placement engine and the external
// collaborators behind the operations the HTTP API and the CLI call.
package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/okian/tierlist/internal/adapters/ethos"
	"github.com/okian/tierlist/internal/adapters/export"
	"github.com/okian/tierlist/internal/adapters/mq/queue"
	"github.com/okian/tierlist/internal/adapters/mq/worker"
	"github.com/okian/tierlist/internal/domain/board"
	"github.com/okian/tierlist/internal/domain/model"
	"github.com/okian/tierlist/internal/domain/placement"
	"github.com/okian/tierlist/pkg/logger"
	"github.com/okian/tierlist/pkg/metrics"
)

const (
	defaultQueueSize = 256
	stopTimeout      = 5 * time.Second
)

// Rasterizer draws a board snapshot.
type Rasterizer interface {
	Render(ctx context.Context, snap board.Snapshot, opts export.Options) (*image.RGBA, error)
}

// Service implements the API dependencies for the tier list.
//
// Board and engine state is only touched by commands running on the
// dispatcher goroutine. The lookup and the export are the two suspension
// points; each allows a single call in flight.
type Service struct {
	mu sync.RWMutex

	// Configuration
	tiers      []board.TierSpec
	queueSize  int
	exportOpts export.Options
	clock      func() time.Time

	// Collaborators
	looker     ethos.Looker
	rasterizer Rasterizer
	download   export.Sink
	clipboard  export.Sink

	// Owned by the dispatcher goroutine
	engine *placement.Engine

	// Dispatch
	queue      *queue.InMemoryQueue
	dispatcher *worker.Dispatcher
	cancel     context.CancelFunc

	lookups *semaphore.Weighted
	exports *semaphore.Weighted

	shareMu sync.RWMutex
	share   *Share

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTiers sets the ranked rows.
func WithTiers(tiers []board.TierSpec) Option {
	return func(s *Service) {
		if len(tiers) > 0 {
			s.tiers = tiers
		}
	}
}

// WithQueueSize sets the maximum number of waiting commands.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithExportOptions sets the screenshot options used by Export.
func WithExportOptions(opts export.Options) Option {
	return func(s *Service) {
		s.exportOpts = opts
	}
}

// WithLooker sets the Ethos profile source.
func WithLooker(l ethos.Looker) Option {
	return func(s *Service) {
		if l != nil {
			s.looker = l
		}
	}
}

// WithRasterizer sets the board rasterizer.
func WithRasterizer(r Rasterizer) Option {
	return func(s *Service) {
		if r != nil {
			s.rasterizer = r
		}
	}
}

// WithDownloadSink sets where Download writes images.
func WithDownloadSink(sink export.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.download = sink
		}
	}
}

// WithClipboardSink sets where CopyToClipboard writes images.
func WithClipboardSink(sink export.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.clipboard = sink
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default collaborators. Call Start before use.
func New(opts ...Option) *Service {
	s := &Service{
		tiers:      board.DefaultTiers(),
		queueSize:  defaultQueueSize,
		exportOpts: export.DefaultOptions(),
		clock:      time.Now,
		looker:     ethos.NewClient(),
		rasterizer: export.NewRasterizer(),
		download:   export.FileSink{Dir: "."},
		clipboard:  export.NewClipboardSink(),
		lookups:    semaphore.NewWeighted(1),
		exports:    semaphore.NewWeighted(1),
		logger:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("service")
	return s
}

// Start builds the board and starts the dispatcher.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	b, err := board.New(s.tiers)
	if err != nil {
		return fmt.Errorf("build board: %w", err)
	}
	s.engine = placement.NewEngine(b, placement.WithClock(s.clock))

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.dispatcher = worker.NewDispatcher(s.queue, worker.WithLogger(s.logger))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.dispatcher.Run(runCtx)

	s.started = true
	metrics.UpdateBoard(0, 0)
	s.logger.Info(ctx, "tier list service started",
		logger.Int("tiers", len(s.tiers)),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop drains the dispatcher and releases it. It is safe to call twice.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	_ = s.queue.Close()
	if err := s.dispatcher.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "dispatcher shutdown", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "tier list service stopped")
}

// do runs fn on the dispatcher and waits for it. A command whose caller
// has gone away by the time it is dequeued is skipped, so a cancelled call
// never changes the board.
func (s *Service) do(ctx context.Context, name string, fn model.ApplyFunc) error {
	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	cmd := model.NewCommand(name, func(runCtx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(runCtx)
	})
	if err := q.Enqueue(ctx, cmd); err != nil {
		switch {
		case errors.Is(err, queue.ErrFull):
			return ErrBusy
		case errors.Is(err, queue.ErrClosed):
			return ErrNotStarted
		default:
			return err
		}
	}

	select {
	case err := <-cmd.Done():
		if errors.Is(err, worker.ErrStopped) {
			return ErrNotStarted
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// observe refreshes the board gauges. Runs on the dispatcher.
func (s *Service) observe() {
	b := s.engine.Board()
	total := b.Len()
	pool, _ := b.Container(board.PoolID)
	metrics.UpdateBoard(total, total-len(pool.Entries))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	stats := map[string]interface{}{
		"started":   started,
		"queueSize": s.queueSize,
		"tiers":     len(s.tiers),
	}
	if started {
		stats["queueLength"] = s.queue.Len(context.Background())
	}
	s.mu.RUnlock()

	if started {
		_ = s.do(context.Background(), "stats", func(context.Context) error {
			b := s.engine.Board()
			stats["entries"] = b.Len()
			pool, _ := b.Container(board.PoolID)
			stats["ranked"] = b.Len() - len(pool.Entries)
			stats["deleteMode"] = s.engine.DeleteMode()
			_, dragging := s.engine.Session()
			stats["dragging"] = dragging
			return nil
		})
	}

	s.shareMu.RLock()
	stats["hasImage"] = s.share != nil
	s.shareMu.RUnlock()
	return stats
}
