// Package command queues operator commands and hands them to the control
// API without ever blocking the UI loop.
package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/OCAP2/radar/internal/channel"
)

// Kind names a command.
type Kind string

const (
	KindPause  Kind = "pause"
	KindAdd    Kind = "add"
	KindRemove Kind = "remove"
	KindUpdate Kind = "update"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrQueueFull      = errors.New("command queue full")
	ErrClosed         = errors.New("dispatcher closed")
)

// Command is one operator request. TargetID is set for remove and update,
// Speed and Heading for update only.
type Command struct {
	Kind     Kind
	TargetID string
	Speed    float64
	Heading  float64
}

// HandlerFunc executes a command.
type HandlerFunc func(ctx context.Context, c Command) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	logged     bool
	timeout    time.Duration
}

// Buffered runs the handler on its own worker with a queue of the given
// size. Commands are dropped when the queue is full.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Logged adds debug logging and failure logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Timeout bounds each handler call.
func Timeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Dispatcher routes commands to registered handlers.
type Dispatcher struct {
	handlers map[Kind]HandlerFunc
	logger   Logger

	sent      metric.Int64Counter
	failed    metric.Int64Counter
	dropped   metric.Int64Counter
	queueSize metric.Int64ObservableGauge

	mu      sync.RWMutex
	closed  bool
	buffers map[Kind]channel.Channel[Command]
	workers sync.WaitGroup
}

// New creates a new Dispatcher with the given logger. m records command
// counters; nil falls back to the global OTel meter.
func New(logger Logger, m metric.Meter) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[Kind]HandlerFunc),
		buffers:  make(map[Kind]channel.Channel[Command]),
		logger:   logger,
	}

	if m == nil {
		m = meter()
	}
	var err error

	d.sent, err = m.Int64Counter(
		"command.sent",
		metric.WithDescription("Commands delivered to the server"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sent counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"command.failed",
		metric.WithDescription("Commands the server rejected or that could not be delivered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"command.dropped",
		metric.WithDescription("Commands dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	d.queueSize, err = m.Int64ObservableGauge(
		"command.queue.size",
		metric.WithDescription("Current number of queued commands"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for kind, buf := range d.buffers {
				o.ObserveInt64(d.queueSize, int64(buf.Len()),
					metric.WithAttributes(attribute.String("command", string(kind))))
			}
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given kind with optional configuration.
func (d *Dispatcher) Register(kind Kind, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := d.withMetrics(kind, h)

	if cfg.timeout > 0 {
		handler = withTimeout(cfg.timeout, handler)
	}

	if cfg.logged {
		handler = d.withLogging(kind, handler)
	}

	if cfg.bufferSize > 0 {
		handler = d.withBuffer(kind, cfg.bufferSize, handler)
	}

	d.mu.Lock()
	d.handlers[kind] = handler
	d.mu.Unlock()
}

// Dispatch routes a command to its handler. Buffered handlers return as
// soon as the command is queued.
func (d *Dispatcher) Dispatch(c Command) error {
	d.mu.RLock()
	h, ok := d.handlers[c.Kind]
	closed := d.closed
	d.mu.RUnlock()

	if closed {
		return ErrClosed
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, c.Kind)
	}
	return h(context.Background(), c)
}

// Close stops accepting commands and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, buf := range d.buffers {
		buf.Close()
	}
	d.mu.Unlock()

	d.workers.Wait()
}

func (d *Dispatcher) withBuffer(kind Kind, size int, h HandlerFunc) HandlerFunc {
	buffer := channel.New[Command](size)

	d.mu.Lock()
	d.buffers[kind] = buffer
	d.mu.Unlock()

	cmdAttr := attribute.String("command", string(kind))

	d.workers.Add(1)
	go func() {
		defer d.workers.Done()
		for c := range buffer.Receive() {
			_ = h(context.Background(), c)
		}
	}()

	return func(_ context.Context, c Command) error {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.closed {
			return ErrClosed
		}
		if !buffer.TrySend(c) {
			d.dropped.Add(context.Background(), 1, metric.WithAttributes(cmdAttr))
			return fmt.Errorf("%w: %s", ErrQueueFull, kind)
		}
		return nil
	}
}

func (d *Dispatcher) withMetrics(kind Kind, h HandlerFunc) HandlerFunc {
	cmdAttr := metric.WithAttributes(attribute.String("command", string(kind)))
	return func(ctx context.Context, c Command) error {
		err := h(ctx, c)
		if err != nil {
			d.failed.Add(context.Background(), 1, cmdAttr)
		} else {
			d.sent.Add(context.Background(), 1, cmdAttr)
		}
		return err
	}
}

func withTimeout(timeout time.Duration, h HandlerFunc) HandlerFunc {
	return func(ctx context.Context, c Command) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return h(ctx, c)
	}
}

func (d *Dispatcher) withLogging(kind Kind, h HandlerFunc) HandlerFunc {
	return func(ctx context.Context, c Command) error {
		start := time.Now()
		d.logger.Debug("sending command", "command", string(kind), "target", c.TargetID)

		err := h(ctx, c)

		if err != nil {
			d.logger.Error("command failed", "command", string(kind), "target", c.TargetID, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("command complete", "command", string(kind), "target", c.TargetID, "duration", time.Since(start))
		}
		return err
	}
}
