package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/radar/pkg/core"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// fakeServer upgrades every request and hands the server side of the socket
// to the test, which pushes messages on it.
type fakeServer struct {
	srv      *httptest.Server
	conns    chan *ws.Conn
	accepted atomic.Int32
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{conns: make(chan *ws.Conn, 16)}
	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer c.Close()
		fs.accepted.Add(1)
		fs.conns <- c

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeServer) url() string {
	return "ws" + strings.TrimPrefix(fs.srv.URL, "http") + "/ws"
}

func (fs *fakeServer) next(t *testing.T) *ws.Conn {
	t.Helper()
	select {
	case c := <-fs.conns:
		return c
	case <-time.After(waitFor):
		t.Fatal("no connection accepted")
		return nil
	}
}

type recordingSink struct {
	mu    sync.Mutex
	snaps []core.Snapshot
}

func (s *recordingSink) Send(snap core.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
}

func (s *recordingSink) all() []core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]core.Snapshot, len(s.snaps))
	copy(cp, s.snaps)
	return cp
}

func newTestManager(t *testing.T, url string, sink Sink) *Manager {
	t.Helper()
	m := New(Config{URL: url, ReconnectDelay: 20 * time.Millisecond}, sink, nil)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func push(t *testing.T, c *ws.Conn, payload string) {
	t.Helper()
	require.NoError(t, c.WriteMessage(ws.TextMessage, []byte(payload)))
}

func TestManager_DeliversSnapshots(t *testing.T) {
	fs := newFakeServer(t)
	sink := &recordingSink{}
	m := newTestManager(t, fs.url(), sink)

	assert.Equal(t, StateIdle, m.State())
	m.Connect()
	c := fs.next(t)
	require.Eventually(t, func() bool { return m.State() == StateOpen }, waitFor, tick)

	push(t, c, `{"ships": [{"id": "OWN"}], "alerts": [], "is_paused": false}`)
	push(t, c, `{"ships": [`)
	push(t, c, `{"ships": [{"id": "OWN"}, {"id": "A"}], "alerts": [{"target_id": "A", "level": "WARNING"}], "is_paused": true}`)

	require.Eventually(t, func() bool { return len(sink.all()) == 2 }, waitFor, tick)
	snaps := sink.all()
	assert.Len(t, snaps[0].Ships, 1)
	assert.Len(t, snaps[1].Ships, 2)
	assert.True(t, snaps[1].Paused)

	stats := m.Stats()
	assert.Equal(t, uint64(2), stats.Received)
	assert.Equal(t, uint64(1), stats.Malformed)
	assert.Equal(t, StateOpen, m.State(), "a malformed payload does not drop the channel")
}

func TestManager_ReconnectsAfterServerClose(t *testing.T) {
	fs := newFakeServer(t)
	sink := &recordingSink{}
	m := newTestManager(t, fs.url(), sink)

	m.Connect()
	first := fs.next(t)
	require.Eventually(t, func() bool { return m.State() == StateOpen }, waitFor, tick)

	require.NoError(t, first.Close())

	second := fs.next(t)
	require.Eventually(t, func() bool { return m.State() == StateOpen }, waitFor, tick)
	assert.GreaterOrEqual(t, m.Stats().Reconnects, uint64(1))

	push(t, second, `{"ships": [], "alerts": [], "is_paused": false}`)
	require.Eventually(t, func() bool { return len(sink.all()) == 1 }, waitFor, tick)
}

func TestManager_RetriesWhileServerUnreachable(t *testing.T) {
	fs := newFakeServer(t)
	url := fs.url()
	fs.srv.Close()

	m := newTestManager(t, url, &recordingSink{})
	m.Connect()

	require.Eventually(t, func() bool { return m.Stats().Dials >= 3 }, waitFor, tick)
	assert.NotEqual(t, StateOpen, m.State())

	require.NoError(t, m.Close())
	assert.Equal(t, StateStopped, m.State())

	time.Sleep(50 * time.Millisecond)
	dials := m.Stats().Dials
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, dials, m.Stats().Dials, "no attempts after close")
}

func TestManager_ConnectIsNoopWhileOpen(t *testing.T) {
	fs := newFakeServer(t)
	m := newTestManager(t, fs.url(), &recordingSink{})

	m.Connect()
	fs.next(t)
	require.Eventually(t, func() bool { return m.State() == StateOpen }, waitFor, tick)

	m.Connect()
	m.Connect()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fs.accepted.Load())
	assert.Equal(t, uint64(1), m.Stats().Dials)
}

func TestManager_CloseStopsReconnect(t *testing.T) {
	fs := newFakeServer(t)
	m := newTestManager(t, fs.url(), &recordingSink{})

	m.Connect()
	fs.next(t)
	require.Eventually(t, func() bool { return m.State() == StateOpen }, waitFor, tick)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Equal(t, StateStopped, m.State())

	m.Connect()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), fs.accepted.Load())
	assert.Equal(t, StateStopped, m.State())
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		base    string
		path    string
		want    string
		wantErr bool
	}{
		{"http://localhost:8000", "/ws", "ws://localhost:8000/ws", false},
		{"https://radar.example.com/app/", "/ws", "wss://radar.example.com/ws", false},
		{"ws://10.0.0.1:9000", "ws", "ws://10.0.0.1:9000/ws", false},
		{"ftp://host", "/ws", "", true},
		{"http://", "/ws", "", true},
		{"://bad", "/ws", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := StreamURL(tt.base, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown", State(42).String())
}
