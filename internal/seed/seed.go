package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/repositories"
	"github.com/ddct/showcase/internal/pkg/auth"
)

const defaultAdminEmail = "admin@showcase.ddct.edu"

// CreateDefaultData provisions the default admin account on first boot.
// The password comes from ADMIN_PASSWORD; without it no account is
// created so a fresh database never carries a known credential.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin account exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin account already exists, skipping creation")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		lgr.Warn().Msg("ADMIN_PASSWORD not set, skipping default admin creation")
		return nil
	}
	if len(password) < 8 {
		return errors.New("ADMIN_PASSWORD must be at least 8 characters")
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &models.User{
		Email:     defaultAdminEmail,
		Password:  hashedPassword,
		FirstName: "Showcase",
		LastName:  "Administrator",
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Str("email", defaultAdminEmail).Msg("Default admin account created")
	return nil
}
