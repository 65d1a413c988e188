package stream

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
)

// connection wraps one open WebSocket. A connection is never reused: after
// loss the manager dials a fresh one.
type connection struct {
	conn *ws.Conn
	done chan struct{}
	once sync.Once
}

func newConnection(conn *ws.Conn) *connection {
	return &connection{conn: conn, done: make(chan struct{})}
}

// pingLoop keeps the read deadline alive on an idle but healthy channel.
// It returns when the connection is shut down or a ping cannot be written;
// the read loop then observes the failure.
func (c *connection) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(ws.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// shutdown closes the socket. When graceful is set a close frame is sent
// first. Safe to call more than once.
func (c *connection) shutdown(graceful bool) {
	c.once.Do(func() {
		close(c.done)
		if graceful {
			_ = c.conn.WriteControl(
				ws.CloseMessage,
				ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
		}
		_ = c.conn.Close()
	})
}

// StreamURL derives the push channel URL from the server base URL:
// http becomes ws, https becomes wss, and path replaces the base path.
func StreamURL(baseURL, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme %q", baseURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: missing host", baseURL)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = path
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
