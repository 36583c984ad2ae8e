package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/realtime"
	"github.com/rhamilton21/rememora-web/internal/router"
	"github.com/rhamilton21/rememora-web/pkg/config"
	"github.com/rhamilton21/rememora-web/pkg/firebase"
	"github.com/rhamilton21/rememora-web/pkg/mailer"
	"github.com/rhamilton21/rememora-web/pkg/storage"
	"github.com/rhamilton21/rememora-web/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Initialize the media store for uploaded item files
	mediaStore, err := storage.NewS3MediaStore(cfg.S3Region, cfg.S3Bucket, cfg.S3KeyPrefix)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// Mailer is optional: without SMTP settings, share-by-email returns 503
	var mail *mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		log.Println("SMTP not configured, share-by-email disabled.")
	}

	// Realtime notification hub
	hub := realtime.NewHub()
	go hub.Run()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, firebaseApp.AuthClient, mediaStore, mail, hub)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
