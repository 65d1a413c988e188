package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) { l.add("DEBUG", msg, keysAndValues) }
func (l *testLogger) Info(msg string, keysAndValues ...any)  { l.add("INFO", msg, keysAndValues) }
func (l *testLogger) Error(msg string, keysAndValues ...any) { l.add("ERROR", msg, keysAndValues) }

func (l *testLogger) add(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s %v", level, msg, kv))
}

func (l *testLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages...)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	t.Helper()
	logger := &testLogger{}
	d, err := New(logger, nil)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d, logger
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var got Command
	d.Register(KindUpdate, func(_ context.Context, c Command) error {
		got = c
		return nil
	})

	err := d.Dispatch(Command{Kind: KindUpdate, TargetID: "A", Speed: 12, Heading: 270})
	require.NoError(t, err)
	assert.Equal(t, Command{Kind: KindUpdate, TargetID: "A", Speed: 12, Heading: 270}, got)
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)
	err := d.Dispatch(Command{Kind: "launch"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDispatcher_BufferedHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var processed atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)
	d.Register(KindAdd, func(context.Context, Command) error {
		processed.Add(1)
		wg.Done()
		return nil
	}, Buffered(16))

	for i := 0; i < 3; i++ {
		require.NoError(t, d.Dispatch(Command{Kind: KindAdd}))
	}
	wg.Wait()
	assert.Equal(t, int32(3), processed.Load())
}

func TestDispatcher_BufferedDropsWhenFull(t *testing.T) {
	d, _ := newTestDispatcher(t)

	block := make(chan struct{})
	started := make(chan struct{}, 1)
	d.Register(KindPause, func(context.Context, Command) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
		return nil
	}, Buffered(2))

	require.NoError(t, d.Dispatch(Command{Kind: KindPause}))
	<-started
	require.NoError(t, d.Dispatch(Command{Kind: KindPause}))
	require.NoError(t, d.Dispatch(Command{Kind: KindPause}))

	done := make(chan error, 1)
	go func() { done <- d.Dispatch(Command{Kind: KindPause}) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on a full queue")
	}

	close(block)
}

func TestDispatcher_LoggedFailure(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register(KindRemove, func(context.Context, Command) error {
		return errors.New("404")
	}, Logged())

	err := d.Dispatch(Command{Kind: KindRemove, TargetID: "A"})
	assert.Error(t, err)

	hasError := false
	for _, msg := range logger.all() {
		if strings.HasPrefix(msg, "ERROR: command failed") {
			hasError = true
		}
	}
	assert.True(t, hasError, "expected error log message")
}

func TestDispatcher_BufferedFailureIsNotReturned(t *testing.T) {
	d, logger := newTestDispatcher(t)

	var wg sync.WaitGroup
	wg.Add(1)
	d.Register(KindRemove, func(context.Context, Command) error {
		defer wg.Done()
		return errors.New("server unreachable")
	}, Buffered(4), Logged())

	assert.NoError(t, d.Dispatch(Command{Kind: KindRemove, TargetID: "A"}))
	wg.Wait()

	assert.Eventually(t, func() bool {
		for _, msg := range logger.all() {
			if strings.HasPrefix(msg, "ERROR") {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcher_Timeout(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register(KindAdd, func(ctx context.Context, _ Command) error {
		<-ctx.Done()
		return ctx.Err()
	}, Timeout(10*time.Millisecond))

	err := d.Dispatch(Command{Kind: KindAdd})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcher_Close(t *testing.T) {
	logger := &testLogger{}
	d, err := New(logger, nil)
	require.NoError(t, err)

	var processed atomic.Int32
	d.Register(KindAdd, func(context.Context, Command) error {
		processed.Add(1)
		return nil
	}, Buffered(8))

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Dispatch(Command{Kind: KindAdd}))
	}
	d.Close()
	d.Close()

	assert.Equal(t, int32(5), processed.Load(), "queued commands drain before close returns")
	assert.ErrorIs(t, d.Dispatch(Command{Kind: KindAdd}), ErrClosed)
}

type countingMeter struct {
	noop.Meter
	mu     sync.Mutex
	counts map[string]*atomic.Int64
}

type countingCounter struct {
	noop.Int64Counter
	n *atomic.Int64
}

func (c countingCounter) Add(_ context.Context, incr int64, _ ...metric.AddOption) {
	c.n.Add(incr)
}

func (m *countingMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]*atomic.Int64)
	}
	n := new(atomic.Int64)
	m.counts[name] = n
	return countingCounter{n: n}, nil
}

func (m *countingMeter) count(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.counts[name]; ok {
		return n.Load()
	}
	return -1
}

func TestDispatcher_InjectedMeter(t *testing.T) {
	m := &countingMeter{}
	d, err := New(&testLogger{}, m)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	d.Register(KindPause, func(context.Context, Command) error { return nil })
	d.Register(KindAdd, func(context.Context, Command) error { return errors.New("503") })

	require.NoError(t, d.Dispatch(Command{Kind: KindPause}))
	require.NoError(t, d.Dispatch(Command{Kind: KindPause}))
	require.Error(t, d.Dispatch(Command{Kind: KindAdd}))

	assert.Equal(t, int64(2), m.count("command.sent"))
	assert.Equal(t, int64(1), m.count("command.failed"))
	assert.Equal(t, int64(0), m.count("command.dropped"))
}

type fakeControl struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeControl) record(s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	return nil
}

func (f *fakeControl) Pause(context.Context) error { return f.record("pause") }
func (f *fakeControl) Add(context.Context) error   { return f.record("add") }
func (f *fakeControl) Remove(_ context.Context, id string) error {
	return f.record("remove " + id)
}
func (f *fakeControl) Update(_ context.Context, id string, speed, heading float64) error {
	return f.record(fmt.Sprintf("update %s %g %g", id, speed, heading))
}

func TestRegisterControl(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctl := &fakeControl{}
	RegisterControl(d, ctl)

	require.NoError(t, d.Dispatch(Command{Kind: KindPause}))
	require.NoError(t, d.Dispatch(Command{Kind: KindAdd}))
	require.NoError(t, d.Dispatch(Command{Kind: KindRemove, TargetID: "T1"}))
	require.NoError(t, d.Dispatch(Command{Kind: KindUpdate, TargetID: "T2", Speed: 12, Heading: 270}))
	assert.Error(t, d.Dispatch(Command{Kind: KindUpdate}))

	assert.Equal(t, []string{"pause", "add", "remove T1", "update T2 12 270"}, ctl.calls)
}
