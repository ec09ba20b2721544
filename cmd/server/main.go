package main // Entry point package

import (
	"log" // Logging library
	"os"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/arashnm/gym-portal/internal/audit"
	"github.com/arashnm/gym-portal/internal/config"
	"github.com/arashnm/gym-portal/internal/database"
	"github.com/arashnm/gym-portal/internal/queue"
	"github.com/arashnm/gym-portal/internal/repository"
	"github.com/arashnm/gym-portal/internal/router"
)

func main() {
	_ = godotenv.Load() // optional .env; real env vars win

	cfg := config.Load() // Load environment config
	rateCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		// Revocation and rate limiting degrade to no-ops; the rest of
		// the pipeline keeps serving.
		log.Printf("redis unreachable: token revocation and rate limiting disabled")
	}

	publish := os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != ""
	auditLog := audit.New(publish)
	if publish {
		go func() {
			if err := queue.StartSecurityConsumer(); err != nil {
				log.Printf("security consumer stopped: %v", err)
			}
		}()
	}

	deps := router.Deps{
		Cfg:      cfg,
		RateCfg:  rateCfg,
		Users:    repository.NewUserRepo(db),
		Tokens:   repository.NewRevocationRepo(rdb, rateCfg.Prefix),
		Subs:     repository.NewSubscriptionRepo(db),
		Sessions: repository.NewSessionRepo(db),
		Audit:    auditLog,
	}

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAPI(e, deps)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
