package main // Entry point package

import (
	"log"      // fatal startup errors
	"log/slog" // structured runtime logging
	"os"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/roomhive/room-rental-api/internal/config"
	"github.com/roomhive/room-rental-api/internal/database"
	"github.com/roomhive/room-rental-api/internal/handler"
	"github.com/roomhive/room-rental-api/internal/mail"
	appmw "github.com/roomhive/room-rental-api/internal/middleware"
	"github.com/roomhive/room-rental-api/internal/queue"
	"github.com/roomhive/room-rental-api/internal/repository"
	"github.com/roomhive/room-rental-api/internal/router"
	"github.com/roomhive/room-rental-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql connect failed: %v", err)
	}

	// Redis backs the revocation store; without it, revoked tokens would
	// be honored, so startup fails hard instead of degrading.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis connect failed: revocation store unavailable")
	}

	accounts := repository.NewAccountRepo(db)
	blacklist := repository.NewBlacklistRepo(rdb)
	buildings := repository.NewBuildingRepo(db)
	rooms := repository.NewRoomRepo(db)

	mailer := service.NewEmailPublisher(logger)
	sessions := service.NewSessionService(cfg, accounts, blacklist, mailer, logger)

	// Background email delivery: consume events and hand them to SMTP.
	sender := mail.NewSMTPSenderFromEnv()
	go queue.StartEmailConsumer(sender.Send)

	e := echo.New()
	router.RegisterRoutes(e)

	rl := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, sessions), cfg.JWTAccessSecret, sessions, rl)
	router.RegisterAccount(e, handler.NewAccountHandler(cfg, sessions), cfg.JWTAccessSecret, sessions)
	router.RegisterOwner(e, handler.NewOwnerHandler(cfg, buildings, rooms), cfg.JWTAccessSecret, sessions)
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, sessions), cfg.JWTAccessSecret, sessions)
	router.RegisterPublic(e, handler.NewPublicHandler(buildings, rooms),
		appmw.NewRedisCache(config.LoadCacheConfig(), rdb))

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
