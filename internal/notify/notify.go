package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"restoran-miniapp/internal/models"
)

// Notifier kirim kabar ke staff restoran
type Notifier interface {
	BookingCreated(ctx context.Context, restaurantName string, b models.Booking) error
}

// Nop dipakai kalau TELEGRAM_BOT_TOKEN kosong
type Nop struct{}

func (Nop) BookingCreated(context.Context, string, models.Booking) error { return nil }

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	zap.L().Info("telegram bot authorized", zap.String("username", bot.Self.UserName))
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// New pilih implementasi sesuai config
func New(token string, chatID int64) Notifier {
	if token == "" || chatID == 0 {
		zap.L().Info("telegram notifier disabled")
		return Nop{}
	}

	tg, err := NewTelegram(token, chatID)
	if err != nil {
		zap.L().Error("telegram notifier disabled", zap.Error(err))
		return Nop{}
	}
	return tg
}

func (t *Telegram) BookingCreated(ctx context.Context, restaurantName string, b models.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, BookingMessage(restaurantName, b))
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send booking %s: %w", b.ID, err)
	}
	return nil
}

// BookingMessage - teks notifikasi booking baru untuk chat admin
func BookingMessage(restaurantName string, b models.Booking) string {
	var sb strings.Builder
	sb.WriteString("🆕 <b>Новая бронь</b>\n")
	fmt.Fprintf(&sb, "Ресторан: %s\n", tgbotapi.EscapeText(tgbotapi.ModeHTML, restaurantName))
	fmt.Fprintf(&sb, "Имя: %s\n", tgbotapi.EscapeText(tgbotapi.ModeHTML, b.Name))
	fmt.Fprintf(&sb, "Телефон: +%s\n", b.Phone)
	fmt.Fprintf(&sb, "Гостей: %d\n", b.Guests)
	fmt.Fprintf(&sb, "Дата: %s %s\n", b.Date, b.Time)
	if b.Comment != "" {
		fmt.Fprintf(&sb, "Комментарий: %s\n", tgbotapi.EscapeText(tgbotapi.ModeHTML, b.Comment))
	}
	fmt.Fprintf(&sb, "ID: <code>%s</code>", b.ID)
	return sb.String()
}
