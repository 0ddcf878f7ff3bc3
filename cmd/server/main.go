package main

import (
	"KeyGuardian/internal/access"
	"KeyGuardian/internal/config"
	"KeyGuardian/internal/crypto"
	"KeyGuardian/internal/handlers"
	"KeyGuardian/internal/mailer"
	"KeyGuardian/internal/middleware"
	"KeyGuardian/internal/repo"
	"KeyGuardian/internal/service"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	// ключ выводится один раз до открытия БД; без мастер-секрета сервер не стартует
	box, err := crypto.NewBoxFromSecret(cfg.MasterSecret)
	if err != nil {
		sugar.Fatalw("failed to initialize encryption", "error", err)
	}

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	store := repo.NewStore(gormDB)

	var m mailer.Mailer = mailer.NewLogMailer(sugar, cfg.PublicURL)
	if cfg.SMTPAddr != "" {
		m = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Addr:      cfg.SMTPAddr,
			User:      cfg.SMTPUser,
			Password:  cfg.SMTPPassword,
			From:      cfg.SMTPFrom,
			PublicURL: cfg.PublicURL,
		})
	}

	verifier := service.NewVerificationService(store, sugar, service.WithTokenTTL(cfg.VerificationTTL))
	userService := service.NewUserService(store, verifier, m, sugar)
	gate := access.New(
		service.NewVaultService(store, box, sugar),
		service.NewCategoryService(store, sugar),
		service.NewAuditService(store, sugar),
	)

	h := handlers.NewHandler(userService, verifier, gate, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("shutdown failed", "error", err)
		}
	}()

	sugar.Infow("Starting server",
		"addr", cfg.BaseURL,
		"public_url", cfg.PublicURL,
		"smtp", cfg.SMTPAddr != "",
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}
