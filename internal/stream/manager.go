// Package stream maintains the persistent push channel from the radar
// server and hands every decoded snapshot to a sink.
package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/OCAP2/radar/pkg/core"
	"github.com/OCAP2/radar/pkg/streaming"
)

// Defaults applied when Config leaves them unset.
const (
	DefaultReconnectDelay   = time.Second
	DefaultPongWait         = 60 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
)

// State of the push channel.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Sink receives decoded snapshots. Send is called from the read goroutine
// and must not block.
type Sink interface {
	Send(core.Snapshot)
}

// Config holds push channel settings.
type Config struct {
	URL              string // ws:// or wss:// URL of the stream endpoint
	Header           http.Header
	ReconnectDelay   time.Duration
	PongWait         time.Duration
	HandshakeTimeout time.Duration
}

// Stats are cumulative counters since the manager was created.
type Stats struct {
	Received   uint64
	Malformed  uint64
	Reconnects uint64
	Dials      uint64
}

// Manager owns at most one open channel at a time and reconnects forever at
// a fixed interval after loss, until Close.
type Manager struct {
	cfg    Config
	sink   Sink
	logger *slog.Logger

	mu    sync.Mutex
	state State
	conn  *connection
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc

	received   atomic.Uint64
	malformed  atomic.Uint64
	reconnects atomic.Uint64
	dials      atomic.Uint64
}

// New creates a manager in the Idle state. Nothing is dialled until Connect.
func New(cfg Config, sink Sink, logger *slog.Logger) *Manager {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = DefaultPongWait
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:    cfg,
		sink:   sink,
		logger: logger.With("component", "stream"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// State returns the current channel state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Stats returns the manager counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Received:   m.received.Load(),
		Malformed:  m.malformed.Load(),
		Reconnects: m.reconnects.Load(),
		Dials:      m.dials.Load(),
	}
}

// Connect opens the channel in the background. It is a no-op while a
// channel is open or being opened, and after Close.
func (m *Manager) Connect() {
	m.mu.Lock()
	switch m.state {
	case StateConnecting, StateOpen, StateStopped:
		m.mu.Unlock()
		return
	}
	m.state = StateConnecting
	m.mu.Unlock()

	go m.dial()
}

// Close stops the channel and cancels any pending reconnect. Idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.state == StateStopped {
		m.mu.Unlock()
		return nil
	}
	m.state = StateStopped
	conn := m.conn
	m.conn = nil
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	m.cancel()
	if conn != nil {
		conn.shutdown(true)
	}
	m.logger.Info("Stream closed")
	return nil
}

func (m *Manager) dial() {
	m.dials.Add(1)
	dialer := ws.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: m.cfg.HandshakeTimeout,
	}
	raw, resp, err := dialer.DialContext(m.ctx, m.cfg.URL, m.cfg.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		m.logger.Warn("Stream dial failed", "url", m.cfg.URL, "error", err)
		m.lost(nil)
		return
	}

	conn := newConnection(raw)

	m.mu.Lock()
	if m.state == StateStopped {
		m.mu.Unlock()
		conn.shutdown(true)
		return
	}
	m.conn = conn
	m.state = StateOpen
	m.mu.Unlock()

	m.logger.Info("Stream connected", "url", m.cfg.URL)

	go conn.pingLoop(m.cfg.PongWait * 9 / 10)
	go m.readLoop(conn)
}

// readLoop decodes every message on conn until it fails.
func (m *Manager) readLoop(conn *connection) {
	_ = conn.conn.SetReadDeadline(time.Now().Add(m.cfg.PongWait))
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(m.cfg.PongWait))
	})

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			select {
			case <-conn.done:
				return
			default:
			}
			m.logger.Warn("Stream read error", "error", err)
			m.lost(conn)
			return
		}
		_ = conn.conn.SetReadDeadline(time.Now().Add(m.cfg.PongWait))

		snap, err := streaming.DecodeSnapshot(data)
		if err != nil {
			m.malformed.Add(1)
			m.logger.Debug("Dropping malformed snapshot", "error", err, "bytes", len(data))
			continue
		}
		m.received.Add(1)
		m.sink.Send(snap)
	}
}

// lost marks the channel closed and schedules the next attempt. conn is the
// connection that failed, or nil when a dial failed. Stale reports from a
// connection that was already replaced are ignored.
func (m *Manager) lost(conn *connection) {
	m.mu.Lock()
	if m.state == StateStopped {
		m.mu.Unlock()
		return
	}
	if conn != nil && m.conn != conn {
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.state = StateClosed
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.cfg.ReconnectDelay, m.retry)
	m.mu.Unlock()

	if conn != nil {
		conn.shutdown(false)
	}
	m.logger.Warn("Stream lost, reconnect scheduled", "delay", m.cfg.ReconnectDelay)
}

func (m *Manager) retry() {
	m.mu.Lock()
	m.timer = nil
	if m.state != StateClosed {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.reconnects.Add(1)
	m.logger.Info("Reconnecting stream", "attempt", m.reconnects.Load())
	m.Connect()
}
