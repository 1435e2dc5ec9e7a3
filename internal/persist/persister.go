// Package persist mirrors in-memory state to a kv.Backend in the background.
//
// Callers mutate their own state synchronously and hand an encoded snapshot to
// Schedule, which returns immediately. A single worker goroutine writes the
// snapshots, keeping only the latest value per key. Write failures are logged and
// counted, never retried and never returned to the caller.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/tuifit/internal/kv"
	"github.com/verte-zerg/tuifit/internal/metrics"
)

const defaultWriteTimeout = 5 * time.Second

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("persister is closed")

type waiter struct {
	target uint64
	ch     chan struct{}
}

// Persister is a write-through mirror for a kv.Backend.
type Persister struct {
	backend      kv.Backend
	metrics      *metrics.Manager
	log          logrus.FieldLogger
	writeTimeout time.Duration

	mu        sync.Mutex
	pending   map[string][]byte
	order     []string
	scheduled uint64
	written   uint64
	waiters   []waiter
	closed    bool

	wake    chan struct{}
	stop    chan struct{}
	stopped chan struct{}
}

// Option customizes a Persister.
type Option func(*Persister)

// WithMetrics records writes and failures into m.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Persister) { p.metrics = m }
}

// WithLogger replaces the default logrus logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Persister) { p.log = l }
}

// New starts the background writer for backend.
func New(backend kv.Backend, opts ...Option) *Persister {
	p := &Persister{
		backend:      backend,
		log:          logrus.StandardLogger(),
		writeTimeout: defaultWriteTimeout,
		pending:      map[string][]byte{},
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.run()
	return p
}

// Load reads and decodes key into dst. It reports whether a value was found.
// Read or decode failures are logged and reported as "not found".
func (p *Persister) Load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := p.backend.Get(ctx, key)
	if err != nil {
		p.readFailed(key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		p.readFailed(key, err)
		return false
	}
	return true
}

// ScheduleJSON encodes v now and schedules the write. Encoding happens on the
// caller's goroutine so the snapshot reflects the state at call time.
func (p *Persister) ScheduleJSON(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		p.log.WithField("key", key).Warnf("failed to encode record: %s", err)
		return
	}
	p.Schedule(key, raw)
}

// Schedule queues value for key, replacing any not yet written value.
func (p *Persister) Schedule(key string, value []byte) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.log.WithField("key", key).Warn("dropping write scheduled after close")
		return
	}
	if _, ok := p.pending[key]; !ok {
		p.order = append(p.order, key)
	}
	p.pending[key] = value
	p.scheduled++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every write scheduled before the call has been attempted.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	if p.written >= p.scheduled {
		p.mu.Unlock()
		return nil
	}
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	w := waiter{target: p.scheduled, ch: make(chan struct{})}
	p.waiters = append(p.waiters, w)
	p.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes and stops the worker. It does not close the backend.
func (p *Persister) Close(ctx context.Context) error {
	flushErr := p.Flush(ctx)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return flushErr
	}
	p.closed = true
	p.mu.Unlock()

	close(p.stop)
	select {
	case <-p.stopped:
	case <-ctx.Done():
		if flushErr == nil {
			flushErr = ctx.Err()
		}
	}
	return flushErr
}

func (p *Persister) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stop:
			p.drain()
			p.releaseAll()
			return
		}
	}
}

func (p *Persister) drain() {
	for {
		p.mu.Lock()
		if len(p.order) == 0 {
			p.mu.Unlock()
			return
		}
		batch := p.pending
		order := p.order
		target := p.scheduled
		p.pending = map[string][]byte{}
		p.order = nil
		p.mu.Unlock()

		for _, key := range order {
			p.write(key, batch[key])
		}

		p.mu.Lock()
		p.written = target
		p.releaseLocked()
		p.mu.Unlock()
	}
}

func (p *Persister) write(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	start := time.Now()
	err := p.backend.Set(ctx, key, value)
	if p.metrics != nil {
		p.metrics.HistWriteDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		p.log.WithField("key", key).Warnf("failed to save record: %s", err)
		if p.metrics != nil {
			p.metrics.CounterWriteFailures.WithLabelValues(key).Inc()
		}
		return
	}
	p.log.WithField("key", key).Tracef("saved %d bytes", len(value))
	if p.metrics != nil {
		p.metrics.CounterWrites.WithLabelValues(key).Inc()
	}
}

func (p *Persister) readFailed(key string, err error) {
	p.log.WithField("key", key).Warnf("failed to load record: %s", err)
	if p.metrics != nil {
		p.metrics.CounterReadFailures.WithLabelValues(key).Inc()
	}
}

func (p *Persister) releaseLocked() {
	kept := p.waiters[:0]
	for _, w := range p.waiters {
		if w.target <= p.written {
			close(w.ch)
			continue
		}
		kept = append(kept, w)
	}
	p.waiters = kept
}

func (p *Persister) releaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.waiters {
		close(w.ch)
	}
	p.waiters = nil
}
