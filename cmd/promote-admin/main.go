// Command promote-admin grants the admin role to an existing account.
// Registration always creates plain users, so this is how the first admin
// is made.
//
//	go run ./cmd/promote-admin -email user@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/infrastructure/store"
	"github.com/99minutos/users-api/internal/pkg/config"
	"github.com/99minutos/users-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "Email of the user to promote to admin")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: promote-admin -email user@example.com")
		os.Exit(2)
	}

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	cfg, err := config.Load(ctx)
	if err != nil {
		cancel()
		l := logger.New(logger.Options{})
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "promote-admin"})

	err = run(ctx, cfg, *email)
	cancel()
	if err != nil {
		l := logger.Get()
		l.Error().Err(err).Str("email", *email).Msg("promotion failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, email string) error {
	log := logger.Get()

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()

	user, err := st.Users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.Role == domain.RoleAdmin {
		fmt.Printf("User %s is already an admin.\n", user.Email)
		return nil
	}

	role := domain.RoleAdmin
	if _, err := st.Users.Update(ctx, user.ID, domain.UserPatch{Role: &role}, time.Now().UTC()); err != nil {
		return fmt.Errorf("promote user %d: %w", user.ID, err)
	}

	log.Info().Int64("user_id", user.ID).Msg("user promoted to admin")
	fmt.Printf("User %s promoted to admin.\n", user.Email)
	return nil
}
