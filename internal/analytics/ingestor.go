package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBuffer        = 10000
	DefaultBatchSize     = 50
	DefaultFlushInterval = 5 * time.Second
)

// Sink receives flushed batches. Errors are logged by the ingestor and never retried.
type Sink interface {
	Name() string
	Write(ctx context.Context, logs []*RequestLog) error
}

// Ingestor ships request logs to the sinks in the background.
type Ingestor interface {
	// Log enqueues without blocking. A full buffer drops the entry.
	Log(log *RequestLog)
	Start(ctx context.Context)
	// Stop flushes what is buffered and waits for the worker to exit. When ctx
	// expires first, the flush in progress is cancelled, whatever is left is
	// dropped, and ctx.Err() is returned.
	Stop(ctx context.Context) error
}

type Options struct {
	Buffer        int
	BatchSize     int
	FlushInterval time.Duration
}

type ingestor struct {
	logger    *zap.Logger
	sinks     []Sink
	logChan   chan *RequestLog
	batchSize int
	flushTime time.Duration

	mu          sync.RWMutex
	started     bool
	stopped     bool
	done        chan struct{}
	flushCtx    context.Context
	cancelFlush context.CancelFunc
}

func NewIngestor(logger *zap.Logger, opts Options, sinks ...Sink) Ingestor {
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultBuffer
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultFlushInterval
	}
	return &ingestor{
		logger:    logger,
		sinks:     sinks,
		logChan:   make(chan *RequestLog, opts.Buffer),
		batchSize: opts.BatchSize,
		flushTime: opts.FlushInterval,
		done:      make(chan struct{}),
	}
}

func (i *ingestor) Log(log *RequestLog) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.stopped {
		return
	}

	select {
	case i.logChan <- log:
	default:
		i.logger.Warn("Request log buffer full, dropping entry",
			zap.String("method", log.Method),
			zap.String("endpoint", log.Endpoint),
		)
	}
}

func (i *ingestor) Start(ctx context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.started || i.stopped {
		return
	}
	i.started = true
	// sinks outlive the request and the shutdown signal; only Stop's deadline cuts them off
	i.flushCtx, i.cancelFlush = context.WithCancel(context.WithoutCancel(ctx))
	go i.worker(ctx)
}

func (i *ingestor) Stop(ctx context.Context) error {
	i.mu.Lock()
	if !i.stopped {
		i.stopped = true
		close(i.logChan)
	}
	started := i.started
	i.mu.Unlock()

	if !started {
		return nil
	}

	select {
	case <-i.done:
		return nil
	case <-ctx.Done():
		i.cancelFlush()
		<-i.done
		return ctx.Err()
	}
}

func (i *ingestor) worker(ctx context.Context) {
	defer close(i.done)
	defer i.cancelFlush()

	batch := make([]*RequestLog, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	dropped := 0
	defer func() {
		if dropped > 0 {
			i.logger.Warn("Request log shutdown deadline passed, dropping entries",
				zap.Int("count", dropped),
			)
		}
	}()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if i.flushCtx.Err() != nil {
			dropped += len(batch)
			batch = make([]*RequestLog, 0, i.batchSize)
			return
		}
		for _, s := range i.sinks {
			if err := s.Write(i.flushCtx, batch); err != nil {
				i.logger.Error("Failed to ship request logs",
					zap.String("sink", s.Name()),
					zap.Int("count", len(batch)),
					zap.Error(err),
				)
			}
		}
		batch = make([]*RequestLog, 0, i.batchSize)
	}

	for {
		select {
		case log, ok := <-i.logChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, log)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			i.drain(&batch)
			flush()
			return
		}
	}
}

// drain moves whatever is already buffered into batch without blocking.
func (i *ingestor) drain(batch *[]*RequestLog) {
	for {
		select {
		case log, ok := <-i.logChan:
			if !ok {
				return
			}
			*batch = append(*batch, log)
		default:
			return
		}
	}
}
