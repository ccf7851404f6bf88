package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"restoran-miniapp/internal/realtime"
)

// WSUpgrade - tolak request biasa ke endpoint websocket
func WSUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

var _ realtime.Client = (*websocket.Conn)(nil)

// hub ping tiap 25s, jadi client pasif tetap lewat deadline ini
const statusReadWait = 90 * time.Second

// StatusWS - stream status buka/tutup semua restoran
func StatusWS(c *websocket.Conn) {
	// write (snapshot + ping) dijalankan hub, handler ini cuma baca
	if !realtime.Status.Register(c) {
		return
	}
	defer realtime.Status.Unregister(c)

	zap.L().Debug("status ws connected", zap.String("remote", c.RemoteAddr().String()))

	c.SetReadDeadline(time.Now().Add(statusReadWait))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(statusReadWait))
		return nil
	})

	// listen client
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
		c.SetReadDeadline(time.Now().Add(statusReadWait))
	}
}
