package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/colegium/campus-api/internal/config"
	"github.com/colegium/campus-api/internal/database"
	"github.com/colegium/campus-api/internal/handler"
	"github.com/colegium/campus-api/internal/middleware"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/queue"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/router"
	"github.com/colegium/campus-api/internal/service"
	"github.com/colegium/campus-api/internal/validation"
)

// tokenGCInterval is how often expired refresh tokens are purged. MySQL has
// no row TTL, so a background sweep keeps the table from growing unbounded.
const tokenGCInterval = time.Hour

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	roles := repository.NewRoleRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	accounts := repository.NewAccountRepo(db)
	divisions := repository.NewDivisionRepo(db)
	students := repository.NewStudentRepo(db)
	associations := repository.NewAssociationRepo(db)
	activePointers := repository.NewActiveAssociationRepo(db)
	events := repository.NewEventRepo(db)
	attendance := repository.NewAttendanceRepo(db)
	notifications := repository.NewNotificationRepo(db)
	documents := repository.NewDocumentRepo(db)
	activities := repository.NewActivityRepo(db)

	if cfg.SeedRoles {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := roles.Seed(ctx, model.DefaultRoles()); err != nil {
			cancel()
			log.Fatalf("seed roles: %v", err)
		}
		cancel()
	}

	authSvc := service.NewAuthService(service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, users, tokens)
	assocSvc := service.NewAssociationService(associations, activePointers, roles)
	notifierSvc := service.NewNotificationService(notifications, service.AMQPPublisher{})

	// Background workers: refresh-token GC and the broker consumer. Both are
	// resilient to their backends being down and just keep retrying.
	go func() {
		ticker := time.NewTicker(tokenGCInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			n, err := tokens.DeleteExpired(ctx)
			cancel()
			if err != nil {
				log.Printf("token gc: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("token gc: purged %d expired refresh tokens", n)
			}
		}
	}()
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	publicCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Handlers{
		Auth:          handler.NewAuthHandler(authSvc, roles),
		Context:       handler.NewContextHandler(assocSvc),
		Associations:  handler.NewAssociationHandler(assocSvc),
		Users:         handler.NewUserHandler(users, assocSvc),
		Accounts:      handler.NewAccountHandler(accounts, roles, cfg.BcryptCost),
		Divisions:     handler.NewDivisionHandler(divisions, assocSvc),
		Students:      handler.NewStudentHandler(students, assocSvc),
		Events:        handler.NewEventHandler(events, assocSvc),
		Attendance:    handler.NewAttendanceHandler(attendance),
		Notifications: handler.NewNotificationHandler(notifierSvc, notifications, assocSvc),
		Documents:     handler.NewDocumentHandler(documents, assocSvc),
		Activities:    handler.NewActivityHandler(activities, assocSvc),
		Roles:         handler.NewRoleHandler(roles),
	}, authSvc, assocSvc, rateLimit, publicCache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
