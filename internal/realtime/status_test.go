package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
)

type fakeClient struct {
	mu        sync.Mutex
	msgs      [][]byte
	pings     int
	deadlines int
	closed    bool
	fail      bool
	block     chan struct{}
}

func (f *fakeClient) WriteMessage(messageType int, data []byte) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	if messageType == websocket.PingMessage {
		f.pings++
		return nil
	}
	f.msgs = append(f.msgs, data)
	return nil
}

func (f *fakeClient) SetWriteDeadline(time.Time) error {
	f.mu.Lock()
	f.deadlines++
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func (f *fakeClient) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// returnsWithin fails the test if fn is still running after 2s
func returnsWithin(t *testing.T, name string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s blocked", name)
	}
}

func TestHubBroadcastAndReplay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewStatusHub()
	go hub.Run(ctx)

	first := &fakeClient{}
	hub.Register(first)
	hub.Publish([]byte("a"))
	waitFor(t, func() bool { return first.count() == 1 })

	// late joiner gets the last snapshot
	second := &fakeClient{}
	hub.Register(second)
	waitFor(t, func() bool { return second.count() == 1 })

	broken := &fakeClient{fail: true}
	hub.Register(broken)
	waitFor(t, func() bool { return hub.ClientCount() == 2 && broken.isClosed() })

	hub.Unregister(first)
	waitFor(t, func() bool { return hub.ClientCount() == 1 && first.isClosed() })
}

func TestHubStopReleasesHandlers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewStatusHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &fakeClient{}
	hub.Register(client)
	cancel()
	<-stopped

	waitFor(t, client.isClosed)
	returnsWithin(t, "Unregister after stop", func() { hub.Unregister(client) })

	late := &fakeClient{}
	returnsWithin(t, "Register after stop", func() {
		if hub.Register(late) {
			t.Error("Register accepted a client after stop")
		}
	})
	if !late.isClosed() || hub.ClientCount() != 0 {
		t.Fatalf("late client closed=%v, clients=%d", late.isClosed(), hub.ClientCount())
	}

	returnsWithin(t, "Publish after stop", func() { hub.Publish([]byte("x")) })
}

func TestHubPingsIdleClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewStatusHub()
	hub.PingInterval = 10 * time.Millisecond
	go hub.Run(ctx)

	client := &fakeClient{}
	hub.Register(client)

	waitFor(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.pings >= 2 && client.deadlines >= client.pings
	})
}

func TestHubStalledClientDoesNotBlockOthers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewStatusHub()
	go hub.Run(ctx)

	stalled := &fakeClient{block: make(chan struct{})}
	defer close(stalled.block)
	healthy := &fakeClient{}
	hub.Register(stalled)
	hub.Register(healthy)

	for i := 0; i < sendBuffer+3; i++ {
		hub.Publish([]byte{byte('a' + i)})
		waitFor(t, func() bool { return healthy.count() == i+1 })
	}

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	healthy.mu.Lock()
	defer healthy.mu.Unlock()
	if healthy.deadlines < len(healthy.msgs) {
		t.Fatalf("write deadline set %d times for %d writes", healthy.deadlines, len(healthy.msgs))
	}
}

func TestTickerSkipsUnchangedSnapshots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewStatusHub()
	go hub.Run(ctx)

	client := &fakeClient{}
	hub.Register(client)

	var mu sync.Mutex
	calls := 0
	snapshot := func(context.Context) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls < 4 {
			return []byte("same"), nil
		}
		return []byte("changed"), nil
	}

	go RunStatusTicker(ctx, hub, 5*time.Millisecond, snapshot)

	waitFor(t, func() bool { return client.count() >= 2 })
	cancel()

	client.mu.Lock()
	defer client.mu.Unlock()
	if string(client.msgs[0]) != "same" || string(client.msgs[1]) != "changed" {
		t.Fatalf("unexpected messages: %q", client.msgs)
	}
}
