package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"restoran-miniapp/internal/models"
)

var (
	ErrInitDataMissing   = errors.New("initData kosong")
	ErrInitDataSignature = errors.New("signature initData tidak valid")
	ErrInitDataExpired   = errors.New("initData kadaluarsa")
	ErrInitDataFuture    = errors.New("auth_date initData di masa depan")
	ErrInitDataUser      = errors.New("user initData tidak valid")
)

// toleransi jam client vs server
const authDateSkew = time.Minute

// VerifyInitData validates Telegram WebApp initData signed with botToken
// and returns the user it carries. maxAge <= 0 skips the expiry check;
// an auth_date later than now is always rejected.
func VerifyInitData(initData, botToken string, maxAge time.Duration, now time.Time) (models.TelegramUser, error) {
	if initData == "" || botToken == "" {
		return models.TelegramUser{}, ErrInitDataMissing
	}

	if err := initdata.Validate(initData, botToken, 0); err != nil {
		return models.TelegramUser{}, ErrInitDataSignature
	}

	data, err := initdata.Parse(initData)
	if err != nil {
		return models.TelegramUser{}, ErrInitDataSignature
	}

	authDate := data.AuthDate()
	if authDate.After(now.Add(authDateSkew)) {
		return models.TelegramUser{}, ErrInitDataFuture
	}
	if maxAge > 0 && now.Sub(authDate) > maxAge {
		return models.TelegramUser{}, ErrInitDataExpired
	}

	if data.User.ID == 0 {
		return models.TelegramUser{}, ErrInitDataUser
	}

	return models.TelegramUser{
		ID:        data.User.ID,
		FirstName: data.User.FirstName,
		LastName:  data.User.LastName,
		Username:  data.User.Username,
		Language:  data.User.LanguageCode,
	}, nil
}

// TelegramAuth - auth untuk tamu mini app, header "Authorization: tma <initData>"
func TelegramAuth(botToken string, maxAge time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		raw, ok := strings.CutPrefix(authHeader, "tma ")
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Missing Telegram init data",
			})
		}

		user, err := VerifyInitData(raw, botToken, maxAge, time.Now())
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid Telegram init data",
			})
		}

		c.Locals("tg_user_id", user.ID)
		c.Locals("tg_user", user)

		return c.Next()
	}
}
