package realtime

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Client - satu koneksi websocket (*websocket.Conn memenuhi interface ini)
type Client interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

const (
	defaultPingInterval = 25 * time.Second
	defaultWriteWait    = 3 * time.Second
	sendBuffer          = 4
)

// subscriber - semua write ke satu client lewat goroutine writeLoop,
// jadi ping dan broadcast tidak pernah nulis bersamaan.
type subscriber struct {
	client Client
	send   chan []byte
	done   chan struct{}
}

type StatusHub struct {
	Broadcast chan []byte

	// PingInterval dan WriteWait dibaca saat Register, set sebelum dipakai
	PingInterval time.Duration
	WriteWait    time.Duration

	mu      sync.RWMutex
	clients map[Client]*subscriber
	last    []byte
	stopped bool
	done    chan struct{}
}

func NewStatusHub() *StatusHub {
	return &StatusHub{
		Broadcast:    make(chan []byte, 8),
		PingInterval: defaultPingInterval,
		WriteWait:    defaultWriteWait,
		clients:      make(map[Client]*subscriber),
		done:         make(chan struct{}),
	}
}

var Status = NewStatusHub()

// Register tambah client dan kirim snapshot terakhir. Return false (dan
// client ditutup) kalau hub sudah berhenti.
func (h *StatusHub) Register(c Client) bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		_ = c.Close()
		return false
	}
	sub := &subscriber{
		client: c,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	h.clients[c] = sub
	if h.last != nil {
		sub.send <- h.last
	}
	ping, wait := h.PingInterval, h.WriteWait
	h.mu.Unlock()

	go h.writeLoop(sub, ping, wait)
	return true
}

// Unregister aman dipanggil berkali-kali, juga setelah Run selesai
func (h *StatusHub) Unregister(c Client) {
	h.mu.Lock()
	sub, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		close(sub.done)
	}
}

func (h *StatusHub) writeLoop(sub *subscriber, ping, wait time.Duration) {
	ticker := time.NewTicker(ping)
	defer func() {
		ticker.Stop()
		_ = sub.client.Close()
	}()

	write := func(messageType int, data []byte) bool {
		_ = sub.client.SetWriteDeadline(time.Now().Add(wait))
		if err := sub.client.WriteMessage(messageType, data); err != nil {
			zap.L().Debug("status ws write failed, dropping client", zap.Error(err))
			h.Unregister(sub.client)
			return false
		}
		return true
	}

	for {
		select {
		case <-sub.done:
			return
		case msg := <-sub.send:
			if !write(websocket.TextMessage, msg) {
				return
			}
		case <-ticker.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

// Run loop utama hub, berhenti kalau ctx selesai
func (h *StatusHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return
		case msg := <-h.Broadcast:
			h.mu.Lock()
			h.last = msg
			var slow []Client
			for c, sub := range h.clients {
				select {
				case sub.send <- msg:
				default:
					// buffer penuh, client terlalu lambat
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				zap.L().Debug("status ws client too slow, dropping")
				h.Unregister(c)
			}
		}
	}
}

func (h *StatusHub) stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	close(h.done)
	subs := make([]*subscriber, 0, len(h.clients))
	for c, sub := range h.clients {
		subs = append(subs, sub)
		delete(h.clients, c)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		close(sub.done)
	}
}

func (h *StatusHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish kirim payload ke broadcaster tanpa blocking lama
func (h *StatusHub) Publish(msg []byte) {
	select {
	case h.Broadcast <- msg:
	case <-h.done:
	case <-time.After(time.Second):
		zap.L().Warn("status broadcast dropped, hub busy")
	}
}

// RunStatusTicker hitung ulang status semua restoran tiap interval dan
// broadcast hanya kalau payload berubah.
func RunStatusTicker(ctx context.Context, hub *StatusHub, interval time.Duration, snapshot func(context.Context) ([]byte, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var prev []byte
	tick := func() {
		msg, err := snapshot(ctx)
		if err != nil {
			zap.L().Warn("status snapshot failed", zap.Error(err))
			return
		}
		if bytes.Equal(msg, prev) {
			return
		}
		prev = msg
		hub.Publish(msg)
	}

	tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}
