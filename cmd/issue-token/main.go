package main

import (
	"context"
	"flag"
	"fmt"

	"vox-populi/internal/auth"
	"vox-populi/internal/config"
	"vox-populi/internal/database"
	"vox-populi/internal/logger"
	"vox-populi/internal/repository"
	"vox-populi/internal/services"
)

func main() {
	userID := flag.Uint("user-id", 0, "numeric user id (required)")
	username := flag.String("username", "", "username carried in the token")
	staff := flag.Bool("staff", false, "grant staff rights")
	location := flag.String("location", "", "profile location, e.g. \"new hampshire\" or \"other\"")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New("issue-token", "info").WithError(err).Fatal("Failed to load config")
	}
	log := logger.New("issue-token", cfg.App.LogLevel)

	if *userID == 0 {
		log.Fatal("-user-id is required")
	}

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	ctx := context.Background()
	users := services.NewUserService(repository.NewRepository(db), log)
	actor := &services.Actor{UserID: *userID, Username: *username, IsStaff: *staff}
	if err := users.Provision(ctx, actor); err != nil {
		log.WithError(err).Fatal("Failed to provision user")
	}
	if *location != "" {
		if _, err := users.UpdateLocation(ctx, actor, *location); err != nil {
			log.WithError(err).Fatal("Failed to set location")
		}
	}

	tokens, err := auth.NewTokenManager(cfg.App.JWTSecret, cfg.App.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize tokens")
	}
	// Sign what was stored so a generated username ends up in the token
	user, err := users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		log.WithError(err).Fatal("Failed to load user")
	}
	token, err := tokens.GenerateToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		log.WithError(err).Fatal("Failed to issue token")
	}

	fmt.Println(token)
}
