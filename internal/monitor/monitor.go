package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/OCAP2/radar/internal/influx"
	"github.com/OCAP2/radar/internal/stream"
)

// Measurement is the InfluxDB measurement name of status points.
const Measurement = "radar_client"

// DefaultInterval between two status samples.
const DefaultInterval = 10 * time.Second

// PointWriter accepts InfluxDB points. *influx.Manager satisfies it.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point) error
}

// ClientStats are counters owned by the display loop.
type ClientStats struct {
	Frames  uint64
	Version uint64
	Ships   int
	Alerts  int
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger      *slog.Logger
	ClientID    string
	Stream      func() stream.Stats
	StreamState func() stream.State
	Client      func() ClientStats
	Overwritten func() uint64
	LogFailures func() uint64
	PointsSent  func() uint64 // points accepted by the point writer
	Points      PointWriter   // optional
	StatusPath  string        // optional
	Interval    time.Duration
}

// Status is one sample of client health.
type Status struct {
	Time        time.Time `json:"time"`
	ClientID    string    `json:"clientId"`
	StreamState string    `json:"streamState"`
	Received    uint64    `json:"received"`
	Malformed   uint64    `json:"malformed"`
	Reconnects  uint64    `json:"reconnects"`
	Dials       uint64    `json:"dials"`
	Overwritten uint64    `json:"overwritten"`
	Frames      uint64    `json:"frames"`
	Version     uint64    `json:"version"`
	Ships       int       `json:"ships"`
	Alerts      int       `json:"alerts"`
	LogFailures uint64    `json:"logFailures"`
	PointsSent  uint64    `json:"pointsSent"`
}

// Point converts the status into an InfluxDB point.
func (s Status) Point() *influxdb2_write.Point {
	return influx.NewPoint(Measurement,
		map[string]string{
			"client": s.ClientID,
			"stream": s.StreamState,
		},
		map[string]any{
			"received":    int64(s.Received),
			"malformed":   int64(s.Malformed),
			"reconnects":  int64(s.Reconnects),
			"dials":       int64(s.Dials),
			"overwritten": int64(s.Overwritten),
			"frames":      int64(s.Frames),
			"version":     int64(s.Version),
			"ships":       s.Ships,
			"alerts":      s.Alerts,
			"logFailures": int64(s.LogFailures),
			"pointsSent":  int64(s.PointsSent),
		},
		s.Time,
	)
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.Mutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// Collect samples every configured source.
func (s *Service) Collect() Status {
	st := Status{
		Time:     time.Now().UTC(),
		ClientID: s.deps.ClientID,
	}
	if s.deps.Stream != nil {
		ss := s.deps.Stream()
		st.Received = ss.Received
		st.Malformed = ss.Malformed
		st.Reconnects = ss.Reconnects
		st.Dials = ss.Dials
	}
	if s.deps.StreamState != nil {
		st.StreamState = s.deps.StreamState().String()
	}
	if s.deps.Overwritten != nil {
		st.Overwritten = s.deps.Overwritten()
	}
	if s.deps.LogFailures != nil {
		st.LogFailures = s.deps.LogFailures()
	}
	if s.deps.PointsSent != nil {
		st.PointsSent = s.deps.PointsSent()
	}
	if s.deps.Client != nil {
		cs := s.deps.Client()
		st.Frames = cs.Frames
		st.Version = cs.Version
		st.Ships = cs.Ships
		st.Alerts = cs.Alerts
	}
	return st
}

// Sample collects one status and publishes it to every configured output.
func (s *Service) Sample() Status {
	st := s.Collect()
	logger := s.deps.Logger

	if s.deps.StatusPath != "" {
		if err := writeStatusFile(s.deps.StatusPath, st); err != nil {
			logger.Error("Error writing status file", "error", err)
		}
	}
	if s.deps.Points != nil {
		if err := s.deps.Points.WritePoint(st.Point()); err != nil {
			logger.Error("Error writing status point", "error", err)
		}
	}
	logger.Debug("Client status",
		"stream", st.StreamState,
		"received", st.Received,
		"malformed", st.Malformed,
		"reconnects", st.Reconnects,
		"frames", st.Frames,
	)
	return st
}

func writeStatusFile(path string, st Status) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			close(done)
		}()

		s.deps.Logger.Debug("Starting status monitor", "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.Sample()
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for the goroutine to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	done := s.done
	s.mu.Unlock()
	<-done
}
