package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL    string
	HTTPAddr       string
	SessionSecret  string
	AdminEmail     string // учётка админа, создаётся при первом старте
	AdminPassword  string
	Location       *time.Location
	MaxUploadBytes int64
	LogLevel       string
	Env            string // dev|prod
	SentryDSN      string
}

const defaultMaxUpload = 16 << 20 // как в исходной форме загрузки

func Load() (*Config, error) {
	tz := getenv("TZ", "Europe/Moscow")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	maxUpload := int64(defaultMaxUpload)
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxUpload = n
		}
	}

	cfg := &Config{
		DatabaseURL:    mustEnv("DATABASE_URL"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		SessionSecret:  mustEnv("SESSION_SECRET"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		Location:       loc,
		MaxUploadBytes: maxUpload,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Env:            getenv("ENV", "dev"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
