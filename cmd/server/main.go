package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"restoran-miniapp/internal/config"
	"restoran-miniapp/internal/http/handler"
	"restoran-miniapp/internal/http/middleware"
	"restoran-miniapp/internal/models"
	"restoran-miniapp/internal/notify"
	"restoran-miniapp/internal/realtime"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	config.LoadEnv()
	logger := config.InitLogger()
	defer logger.Sync()

	config.InitRedis()
	defer config.CloseRedis()
	config.InitDB()
	defer config.CloseDB()

	botToken := config.GetEnv("TELEGRAM_BOT_TOKEN", "")
	adminChatID := int64(config.GetEnvInt("TELEGRAM_ADMIN_CHAT_ID", 0))
	handler.Notifier = notify.New(botToken, adminChatID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go realtime.Status.Run(ctx)
	go realtime.RunStatusTicker(ctx, realtime.Status, time.Minute, handler.StatusSnapshot)

	app := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))

	app.Get("/", handler.Health)
	app.Get("/metrics-basic", middleware.BasicAuth(), handler.BasicMetrics)
	app.Post("/auth/login", handler.Login)

	// Public mini app
	app.Get("/api/restaurants", handler.GetRestaurants)
	app.Get("/api/restaurants/:id", handler.GetRestaurantByID)
	app.Get("/api/restaurants/:id/status", handler.GetRestaurantStatus)
	app.Post("/api/worktime/status", handler.PreviewStatus)
	app.Get("/ws/status", handler.WSUpgrade, websocket.New(handler.StatusWS))

	// Tamu Telegram (initData)
	tgAuth := middleware.TelegramAuth(botToken, 24*time.Hour)
	app.Post("/api/restaurants/:id/bookings", tgAuth, middleware.RateLimit(3*time.Second, 5), handler.CreateBooking)
	app.Get("/api/bookings/my", tgAuth, handler.GetMyBookings)

	// ===== STAFF ROUTES =====
	admin := app.Group("/api/admin", middleware.JWTAuth())
	admin.Post("/logout", handler.Logout)

	// Bookings (admin + manager)
	admin.Get("/bookings", middleware.RoleAuth(models.RoleAdmin, models.RoleManager), handler.GetBookings)
	admin.Put("/bookings/:id/status", middleware.RoleAuth(models.RoleAdmin, models.RoleManager), handler.UpdateBookingStatus)

	// Restaurants & worktime (admin only)
	admin.Post("/restaurants", middleware.RoleAuth(models.RoleAdmin), middleware.StaffCheck(models.RoleAdmin), handler.CreateRestaurant)
	admin.Put("/restaurants/:id", middleware.RoleAuth(models.RoleAdmin), middleware.StaffCheck(models.RoleAdmin), handler.UpdateRestaurant)
	admin.Put("/restaurants/:id/worktime", middleware.RoleAuth(models.RoleAdmin), middleware.StaffCheck(models.RoleAdmin), handler.UpdateWorktime)

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zap.L().Error("shutdown", zap.Error(err))
		}
	}()

	addr := config.GetEnv("APP_HOST", "") + ":" + config.GetEnv("APP_PORT", "8080")
	zap.L().Info("Server jalan", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zap.L().Fatal("listen", zap.Error(err))
	}
}
