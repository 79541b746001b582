package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"club-management-system/handlers"
	"club-management-system/middleware"
	"club-management-system/models"
	"club-management-system/repository"
	"club-management-system/services"
	"club-management-system/utils"
	"club-management-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — club logos only
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

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
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Club{},
		&models.ClubEvent{},
		&models.Season{},
		&models.Competition{},
		&models.MissionProgress{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Stores
	competitionStore := repository.NewGormCompetitionStore(db)
	progressStore := repository.NewGormMissionProgressStore(db)
	clubLedger := repository.NewGormClubLedger(db)
	seasonStore := repository.NewGormSeasonStore(db)

	// Gamification engine — explicit wiring, no lazy singletons: the tracker
	// only needs the stores, the registry needs the tracker.
	completionBus := services.NewCompletionEventBus(256)
	tracker := services.NewMissionProgressTracker(progressStore, competitionStore, clubLedger, completionBus)
	registry := services.NewCompetitionRegistry(competitionStore, tracker)
	stats := services.NewStatisticsAggregator(competitionStore, progressStore, clubLedger, seasonStore)
	clubService := services.NewClubService(db, tracker)

	// Optional leaderboard cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		cache := services.NewLeaderboardCache(rdb, 30*time.Second)
		stats.Cache = cache
		completionBus.Subscribe(&services.LeaderboardInvalidator{Cache: cache})
		log.Printf("✅ Leaderboard cache enabled (redis %s)", redisAddr)
	}

	// --- Membership service sync ---
	membershipURL := os.Getenv("MEMBERSHIP_SERVICE_URL")
	if membershipURL == "" {
		log.Fatal("MEMBERSHIP_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("CLUB_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("CLUB_SERVICE_TOKEN environment variable not set")
	}

	syncWorker := workers.NewClubSyncWorker(db, tracker, membershipURL, "/api/v1/public/clubs", serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting Club Sync Worker...")
		syncWorker.Start(ctx)
	}()

	registry.StartSweepScheduler()

	// ✅ Setup routes — enforced Gateway auth on everything
	handlers.SetupClubRoutes(app, clubService)
	handlers.SetupCompetitionRoutes(app, registry, seasonStore)
	handlers.SetupStatisticsRoutes(app, stats)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Club Sync Worker running")
	log.Println("✅ Competition sweep scheduler running (every 1m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	completionBus.Close()
}
