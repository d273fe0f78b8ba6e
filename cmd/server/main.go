// Command server runs the users API.
//
//	@title						Users API
//	@version					1.0
//	@description				User records behind cookie-based JWT authentication and role-based access.
//	@BasePath					/
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						token
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/api"
	"github.com/99minutos/users-api/internal/core/auth"
	"github.com/99minutos/users-api/internal/core/ports"
	"github.com/99minutos/users-api/internal/core/service"
	"github.com/99minutos/users-api/internal/infrastructure/broker/rabbitmq"
	"github.com/99minutos/users-api/internal/infrastructure/db/redis"
	"github.com/99minutos/users-api/internal/infrastructure/queue"
	"github.com/99minutos/users-api/internal/infrastructure/store"
	"github.com/99minutos/users-api/internal/pkg/config"
	"github.com/99minutos/users-api/pkg/logger"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 15 * time.Second
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.New(logger.Options{})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "users-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Store ---
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()
	log.Info().Str("driver", cfg.Database.Driver).Msg("store connected")

	checkers := []ports.DependencyChecker{st.Checker}

	// --- Token revocation ---
	var revocations ports.RevocationStore
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		rs := redis.NewRevocationStore(rdb)
		revocations = rs
		checkers = append(checkers, rs)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else {
		log.Warn().Msg("redis disabled, logout and role changes will not revoke tokens")
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, revocations, log)

	// --- Events ---
	var publisher ports.EventPublisher
	if cfg.Events.AMQPURL != "" {
		rp, err := rabbitmq.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Queue, log)
		if err != nil {
			return err
		}
		defer rp.Close()
		publisher = rp
		checkers = append(checkers, rp)
		log.Info().Str("queue", cfg.Events.Queue).Msg("rabbitmq connected")
	} else {
		publisher = rabbitmq.NewLogPublisher(log)
	}
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, publisher, log)
	dispatcher.Start()

	// --- Services & HTTP ---
	authService := service.NewAuthService(st.Users, tokens, dispatcher, cfg.Auth.BcryptCost, log)
	userService := service.NewUserService(st.Users, dispatcher, tokens, log)

	e := api.NewRouter(api.Dependencies{
		Log:          log,
		Version:      version,
		CORSOrigins:  cfg.CORSOrigins,
		SecureCookie: !cfg.IsDevelopment(),
		Verifier:     tokens,
		AuthService:  authService,
		UserService:  userService,
		Checkers:     checkers,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
