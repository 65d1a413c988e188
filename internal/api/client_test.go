// internal/api/client_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type recordedRequest struct {
	method   string
	path     string
	rawPath  string
	query    map[string]string
	clientID string
}

// recordingServer answers every request with status and records it.
func recordingServer(t *testing.T, status int) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			method:   r.Method,
			path:     r.URL.Path,
			rawPath:  r.URL.EscapedPath(),
			query:    q,
			clientID: r.Header.Get(ClientIDHeader),
		})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestNew(t *testing.T) {
	c := New("http://localhost:8000", "client-1")

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.baseURL != "http://localhost:8000" {
		t.Errorf("expected baseURL=http://localhost:8000, got %s", c.baseURL)
	}
	if c.clientID != "client-1" {
		t.Errorf("expected clientID=client-1, got %s", c.clientID)
	}
	if c.httpClient == nil {
		t.Error("httpClient is nil")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:8000/", "")
	if c.baseURL != "http://localhost:8000" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
}

func TestCommands_Endpoints(t *testing.T) {
	srv, requests := recordingServer(t, http.StatusOK)
	c := New(srv.URL, "session-42")
	ctx := context.Background()

	if err := c.Pause(ctx); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := c.Add(ctx); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Remove(ctx, "TGT_001"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := c.Update(ctx, "TGT_002", 12, 270); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got := requests()
	if len(got) != 4 {
		t.Fatalf("expected 4 requests, got %d", len(got))
	}

	wantPaths := []string{
		"/api/control/pause",
		"/api/control/add",
		"/api/control/remove/TGT_001",
		"/api/control/update/TGT_002",
	}
	for i, want := range wantPaths {
		if got[i].method != http.MethodPost {
			t.Errorf("request %d: expected POST, got %s", i, got[i].method)
		}
		if got[i].path != want {
			t.Errorf("request %d: expected path %s, got %s", i, want, got[i].path)
		}
		if got[i].clientID != "session-42" {
			t.Errorf("request %d: expected client id header, got %q", i, got[i].clientID)
		}
	}

	if got[3].query["speed"] != "12" || got[3].query["heading"] != "270" {
		t.Errorf("expected speed=12 heading=270, got %v", got[3].query)
	}
}

func TestUpdate_FractionalValues(t *testing.T) {
	srv, requests := recordingServer(t, http.StatusOK)
	c := New(srv.URL, "")

	if err := c.Update(context.Background(), "A", 7.25, 0.5); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	q := requests()[0].query
	if q["speed"] != "7.25" || q["heading"] != "0.5" {
		t.Errorf("unexpected query %v", q)
	}
	if requests()[0].clientID != "" {
		t.Error("expected no client id header when unset")
	}
}

func TestRemove_EscapesID(t *testing.T) {
	srv, requests := recordingServer(t, http.StatusOK)
	c := New(srv.URL, "")

	if err := c.Remove(context.Background(), "a/b c"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	got := requests()[0]
	if got.rawPath != "/api/control/remove/a%2Fb%20c" {
		t.Errorf("expected escaped path, got %s", got.rawPath)
	}
	if got.path != "/api/control/remove/a/b c" {
		t.Errorf("expected decoded path, got %s", got.path)
	}
}

func TestCommands_ErrorStatus(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusNotFound)
	c := New(srv.URL, "")

	if err := c.Remove(context.Background(), "missing"); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestCommands_ServerDown(t *testing.T) {
	c := New("http://localhost:59999", "") // unlikely to be listening
	if err := c.Pause(context.Background()); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestCommands_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := c.Add(ctx); err == nil {
		t.Error("expected error when context expires")
	}
}

func TestHealthcheck(t *testing.T) {
	srv, requests := recordingServer(t, http.StatusOK)
	c := New(srv.URL, "")

	if err := c.Healthcheck(context.Background()); err != nil {
		t.Errorf("Healthcheck failed: %v", err)
	}
	if requests()[0].method != http.MethodGet {
		t.Errorf("expected GET, got %s", requests()[0].method)
	}

	down, _ := recordingServer(t, http.StatusBadGateway)
	if err := New(down.URL, "").Healthcheck(context.Background()); err == nil {
		t.Error("expected error for 502 response")
	}
}
