package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"quest-board/handlers"
	"quest-board/middleware"
	"quest-board/models"
	"quest-board/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	// Composite-keyed pivot with cascade FKs
	if err := db.SetupJoinTable(&models.Request{}, "Adventurers", &models.RequestAdventurer{}); err != nil {
		log.Fatal("failed to set up join table:", err)
	}

	if err := db.AutoMigrate(
		&models.Speciality{},
		&models.Adventurer{},
		&models.Request{},
		&models.RequestAdventurer{},
		&models.User{},
		&models.ApiToken{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	authService := services.NewAuthService(db, jwtSecret)
	adventurerService := services.NewAdventurerService(db)
	requestService := services.NewRequestService(db)
	specialityService := services.NewSpecialityService(db)
	sweeper := services.NewSweeper(db)

	if strings.ToLower(os.Getenv("SEED_ON_BOOT")) != "false" {
		if err := models.SeedSpecialities(db); err != nil {
			log.Fatal("failed to seed specialities:", err)
		}
		adminEmail := os.Getenv("ADMIN_EMAIL")
		adminPassword := os.Getenv("ADMIN_PASSWORD")
		if adminEmail != "" && adminPassword != "" {
			if err := authService.EnsureAdminUser(adminEmail, adminPassword, "Guild Master"); err != nil {
				log.Fatal("failed to seed admin user:", err)
			}
		} else {
			log.Println("⚠️  ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		}
	}

	sweepMinutes := 60
	if v := os.Getenv("SWEEP_INTERVAL_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Fatal("SWEEP_INTERVAL_MINUTES must be a non-negative integer")
		}
		sweepMinutes = n
	}
	if sweepMinutes > 0 {
		sweeper.StartSweepScheduler(time.Duration(sweepMinutes) * time.Minute)
	}

	// ✅ Setup routes — /login public, everything else behind token auth
	auth := middleware.TokenAuthMiddleware(db, []byte(jwtSecret))
	handlers.SetupSecurityRoutes(app, auth, authService)
	handlers.SetupAdventurerRoutes(app, auth, adventurerService, specialityService)
	handlers.SetupRequestRoutes(app, auth, requestService, sweeper)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Quest board running on http://localhost:%s", port)
	if sweepMinutes > 0 {
		log.Printf("✅ Expiration sweep running (every %dm)", sweepMinutes)
	}
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
