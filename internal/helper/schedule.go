package helper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"restoran-miniapp/internal/config"
	"restoran-miniapp/internal/worktime"
)

const worktimeCacheTTL = 10 * time.Minute

var ErrRestaurantNotFound = errors.New("restoran tidak ditemukan")

func worktimeKey(restaurantID int64) string {
	return fmt.Sprintf("restaurant:%d:worktime", restaurantID)
}

// LoadWorktime ambil jadwal dari Redis dulu, kalau miss baru ke DB
func LoadWorktime(ctx context.Context, restaurantID int64) ([]worktime.Interval, error) {
	key := worktimeKey(restaurantID)

	if config.Redis != nil {
		raw, err := config.Redis.Get(ctx, key).Bytes()
		if err == nil {
			var cached []worktime.Interval
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			zap.L().Warn("worktime cache read failed", zap.Int64("restaurant_id", restaurantID), zap.Error(err))
		}
	}

	schedule, err := QueryWorktime(ctx, config.DB, restaurantID)
	if err != nil {
		return nil, err
	}

	if config.Redis != nil {
		if raw, err := json.Marshal(schedule); err == nil {
			if err := config.Redis.Set(ctx, key, raw, worktimeCacheTTL).Err(); err != nil {
				zap.L().Warn("worktime cache write failed", zap.Int64("restaurant_id", restaurantID), zap.Error(err))
			}
		}
	}

	return schedule, nil
}

// InvalidateWorktime dipanggil setelah jadwal diubah admin
func InvalidateWorktime(ctx context.Context, restaurantID int64) {
	if config.Redis == nil {
		return
	}
	if err := config.Redis.Del(ctx, worktimeKey(restaurantID)).Err(); err != nil {
		zap.L().Warn("worktime cache invalidate failed", zap.Int64("restaurant_id", restaurantID), zap.Error(err))
	}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func QueryWorktime(ctx context.Context, db querier, restaurantID int64) ([]worktime.Interval, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT weekday, time_start, time_end
		FROM restaurant_worktime
		WHERE restaurant_id = ?
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedule := []worktime.Interval{}
	for rows.Next() {
		var iv worktime.Interval
		if err := rows.Scan(&iv.Weekday, &iv.TimeStart, &iv.TimeEnd); err != nil {
			return nil, err
		}
		// MySQL TIME balikin HH:MM:SS
		iv.TimeStart = worktime.Normalize(iv.TimeStart)
		iv.TimeEnd = worktime.Normalize(iv.TimeEnd)
		schedule = append(schedule, iv)
	}

	SortWorktime(schedule)
	return schedule, rows.Err()
}

// SortWorktime urutkan sesuai urutan hari пн..вс
func SortWorktime(schedule []worktime.Interval) {
	sort.SliceStable(schedule, func(i, j int) bool {
		return worktime.IndexOf(schedule[i].Weekday) < worktime.IndexOf(schedule[j].Weekday)
	})
}
