// seed-admin creates the first admin profile so the API can be used.
//
// Usage:
//
//	MONGO_URI=... SEED_PASSWORD=... go run ./cmd/seed-admin
//
// SEED_USER_ID sets the profile id, which must be the Firebase uid when
// AUTH_PROVIDER=firebase.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/auth"
	"github.com/grupomm-oficial/mm-frota/internal/config"
	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	log "github.com/sirupsen/logrus"
)

type seedInput struct {
	ID       string
	Username string
	Password string
	Name     string
	StoreID  string
}

var errAlreadySeeded = errors.New("user already exists")

func seedAdmin(ctx context.Context, users db.UserCollection, svc *auth.Service, in seedInput) (string, error) {
	if err := svc.ValidateUsername(in.Username); err != nil {
		return "", err
	}
	if err := svc.ValidatePassword(in.Password); err != nil {
		return "", err
	}

	existing, err := users.FindUserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return existing.ID, errAlreadySeeded
	case !errors.Is(err, db.ErrNotFound):
		return "", fmt.Errorf("failed to lookup user: %w", err)
	}

	hash, err := svc.HashPassword(in.Password)
	if err != nil {
		return "", err
	}
	return users.InsertUser(ctx, models.User{
		ID:           in.ID,
		Username:     in.Username,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		StoreID:      in.StoreID,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	client, err := db.ConnectMongo(cfg.Mongo.URI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	store := db.NewStore(client, cfg.Mongo.Database, false)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer store.Close(ctx)

	in := seedInput{
		ID:       os.Getenv("SEED_USER_ID"),
		Username: envOr("SEED_USERNAME", "admin"),
		Password: os.Getenv("SEED_PASSWORD"),
		Name:     envOr("SEED_NAME", "Administrador"),
		StoreID:  envOr("SEED_STORE_ID", "matriz"),
	}
	svc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, store.Users)

	id, err := seedAdmin(ctx, store.Users, svc, in)
	if errors.Is(err, errAlreadySeeded) {
		log.WithFields(log.Fields{"user_id": id, "username": in.Username}).Info("Admin user already exists")
		return
	}
	if err != nil {
		log.WithError(err).Fatal("Failed to seed admin user")
	}
	log.WithFields(log.Fields{"user_id": id, "username": in.Username}).Info("Created admin user")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
