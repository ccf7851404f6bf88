package config

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var DB *sql.DB

func dsn() string {
	if v := GetEnv("DB_DSN", ""); v != "" {
		return v
	}

	cfg := mysql.NewConfig()
	cfg.User = GetEnv("DB_USER", "root")
	cfg.Passwd = GetEnv("DB_PASS", "")
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%s", GetEnv("DB_HOST", "127.0.0.1"), GetEnv("DB_PORT", "3306"))
	cfg.DBName = GetEnv("DB_NAME", "restoran")
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

func InitDB() {
	var err error
	DB, err = sql.Open("mysql", dsn())
	if err != nil {
		zap.L().Fatal("Gagal buka koneksi database", zap.Error(err))
	}

	DB.SetMaxOpenConns(GetEnvInt("DB_MAX_OPEN", 20))
	DB.SetMaxIdleConns(GetEnvInt("DB_MAX_IDLE", 10))
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err := DB.Ping(); err != nil {
		zap.L().Fatal("Database tidak nyambung", zap.Error(err))
	}

	zap.L().Info("Database connected")
}

func CloseDB() {
	if DB != nil {
		_ = DB.Close()
	}
}
