package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"restoran-miniapp/internal/config"
	"restoran-miniapp/internal/helper"
	"restoran-miniapp/internal/models"
	"restoran-miniapp/internal/realtime"
	"restoran-miniapp/internal/worktime"
)

const restaurantColumns = "id, name, address, phone, is_active, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (models.Restaurant, error) {
	var r models.Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.Address, &r.Phone, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func withStatus(r models.Restaurant, now time.Time) models.RestaurantWithStatus {
	status := helper.StatusAt(r.Worktime, now)
	return models.RestaurantWithStatus{
		Restaurant: r,
		Open:       status.Open,
		Status:     status.Message(),
	}
}

// listRestaurants - ambil restoran + jadwal sekaligus (2 query, bukan N+1)
func listRestaurants(ctx context.Context, onlyActive bool) ([]models.Restaurant, error) {
	query := "SELECT " + restaurantColumns + " FROM restaurants"
	if onlyActive {
		query += " WHERE is_active = 'y'"
	}
	query += " ORDER BY name ASC"

	rows, err := config.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []models.Restaurant{}
	index := map[int64]int{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		r.Worktime = []worktime.Interval{}
		index[r.ID] = len(restaurants)
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	wrows, err := config.DB.QueryContext(ctx, "SELECT restaurant_id, weekday, time_start, time_end FROM restaurant_worktime")
	if err != nil {
		return nil, err
	}
	defer wrows.Close()

	for wrows.Next() {
		var restaurantID int64
		var iv worktime.Interval
		if err := wrows.Scan(&restaurantID, &iv.Weekday, &iv.TimeStart, &iv.TimeEnd); err != nil {
			return nil, err
		}
		i, ok := index[restaurantID]
		if !ok {
			continue
		}
		iv.TimeStart = worktime.Normalize(iv.TimeStart)
		iv.TimeEnd = worktime.Normalize(iv.TimeEnd)
		restaurants[i].Worktime = append(restaurants[i].Worktime, iv)
	}

	for i := range restaurants {
		helper.SortWorktime(restaurants[i].Worktime)
	}
	return restaurants, wrows.Err()
}

func findRestaurant(ctx context.Context, id int64) (models.Restaurant, error) {
	row := config.DB.QueryRowContext(ctx, "SELECT "+restaurantColumns+" FROM restaurants WHERE id = ?", id)
	r, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return r, helper.ErrRestaurantNotFound
	}
	if err != nil {
		return r, err
	}

	r.Worktime, err = helper.LoadWorktime(ctx, id)
	return r, err
}

// GetRestaurants - list restoran aktif untuk mini app, lengkap dengan status buka/tutup
func GetRestaurants(c *fiber.Ctx) error {
	restaurants, err := listRestaurants(c.UserContext(), c.Query("all") != "y")
	if err != nil {
		zap.L().Error("list restaurants", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось загрузить рестораны",
		})
	}

	now := time.Now()
	data := make([]models.RestaurantWithStatus, 0, len(restaurants))
	for _, r := range restaurants {
		data = append(data, withStatus(r, now))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func GetRestaurantByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Некорректный id ресторана",
		})
	}

	r, err := findRestaurant(c.UserContext(), int64(id))
	if errors.Is(err, helper.ErrRestaurantNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Ресторан не найден",
		})
	}
	if err != nil {
		zap.L().Error("get restaurant", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось загрузить ресторан",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    withStatus(r, time.Now()),
	})
}

// CreateRestaurant - admin only
func CreateRestaurant(c *fiber.Ctx) error {
	var req models.CreateRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.Address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Название и адрес обязательны",
		})
	}

	if req.IsActive == "" {
		req.IsActive = "y"
	}
	if req.IsActive != "y" && req.IsActive != "n" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "is_active должен быть y или n",
		})
	}

	result, err := config.DB.ExecContext(c.UserContext(),
		"INSERT INTO restaurants (name, address, phone, is_active) VALUES (?, ?, ?, ?)",
		req.Name, req.Address, req.Phone, req.IsActive,
	)
	if err != nil {
		zap.L().Error("create restaurant", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось создать ресторан",
		})
	}

	id, _ := result.LastInsertId()
	r, _ := findRestaurant(c.UserContext(), id)

	broadcastStatus(c.UserContext())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Ресторан создан",
		"data":    r,
	})
}

// UpdateRestaurant - update sebagian field, yang kosong tidak diubah
func UpdateRestaurant(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Некорректный id ресторана",
		})
	}

	var req models.UpdateRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.IsActive != "" && req.IsActive != "y" && req.IsActive != "n" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "is_active должен быть y или n",
		})
	}

	// Build query dinamis
	sets := []string{}
	args := []interface{}{}
	if v := strings.TrimSpace(req.Name); v != "" {
		sets = append(sets, "name = ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		sets = append(sets, "address = ?")
		args = append(args, v)
	}
	if req.Phone != "" {
		sets = append(sets, "phone = ?")
		args = append(args, req.Phone)
	}
	if req.IsActive != "" {
		sets = append(sets, "is_active = ?")
		args = append(args, req.IsActive)
	}

	if len(sets) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Нет данных для обновления",
		})
	}

	args = append(args, id)
	result, err := config.DB.ExecContext(c.UserContext(),
		"UPDATE restaurants SET "+strings.Join(sets, ", ")+", updated_at = NOW() WHERE id = ?",
		args...,
	)
	if err != nil {
		zap.L().Error("update restaurant", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось обновить ресторан",
		})
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Ресторан не найден",
		})
	}

	r, _ := findRestaurant(c.UserContext(), int64(id))
	broadcastStatus(c.UserContext())

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Ресторан обновлён",
		"data":    r,
	})
}

// StatusSnapshot - payload websocket berisi status semua restoran aktif
func StatusSnapshot(ctx context.Context) ([]byte, error) {
	restaurants, err := listRestaurants(ctx, true)
	if err != nil {
		return nil, err
	}

	type item struct {
		ID     int64  `json:"id"`
		Open   bool   `json:"open"`
		Status string `json:"status"`
	}

	now := time.Now()
	items := make([]item, 0, len(restaurants))
	for _, r := range restaurants {
		status := helper.StatusAt(r.Worktime, now)
		items = append(items, item{ID: r.ID, Open: status.Open, Status: status.Message()})
	}

	return json.Marshal(fiber.Map{
		"type": "status",
		"data": items,
	})
}

func broadcastStatus(ctx context.Context) {
	payload, err := StatusSnapshot(ctx)
	if err != nil {
		zap.L().Warn("status snapshot failed", zap.Error(err))
		return
	}
	realtime.Status.Publish(payload)
}
