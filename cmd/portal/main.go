package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/school-club-portal/internal/config"
	"github.com/Spok95/school-club-portal/internal/db"
	"github.com/Spok95/school-club-portal/internal/jobs"
	"github.com/Spok95/school-club-portal/internal/logging"
	"github.com/Spok95/school-club-portal/internal/observability"
	"github.com/Spok95/school-club-portal/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("логгер: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "school-club-portal")
	if err != nil {
		lg.Sugar.Warnw("sentry не инициализирован", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Sugar.Fatalw("подключение к БД", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(ctx, database); err != nil {
		lg.Sugar.Fatalw("миграции", "err", err)
	}

	// Первичная учётка админа: только отсюда, не из формы регистрации.
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			lg.Sugar.Fatalw("хэш пароля админа", "err", err)
		}
		if err := db.EnsureAdmin(ctx, database, cfg.AdminEmail, string(hash)); err != nil {
			lg.Sugar.Fatalw("создание админа", "err", err)
		}
	}

	runner := jobs.New(ctx)
	runner.Every(30*time.Second, "db_ping", jobs.DBPing(database))

	srv := web.New(database, lg.Sugar, cfg)
	srv.Start(ctx, cfg.HTTPAddr)
	lg.Sugar.Infow("портал запущен", "addr", cfg.HTTPAddr, "env", cfg.Env)

	<-ctx.Done()
	lg.Sugar.Info("остановка по сигналу")
}
