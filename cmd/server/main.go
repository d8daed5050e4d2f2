package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/ticket-booking/internal/config"
	"github.com/iliyamo/ticket-booking/internal/database"
	"github.com/iliyamo/ticket-booking/internal/handler"
	"github.com/iliyamo/ticket-booking/internal/queue"
	"github.com/iliyamo/ticket-booking/internal/repository"
	"github.com/iliyamo/ticket-booking/internal/router"
	"github.com/iliyamo/ticket-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.Migrate(ctx, db); err != nil {
			cancel()
			log.Fatalf("migrate: %v", err)
		}
		cancel()
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	bookingRepo := repository.NewBookingRepo(db)
	userRepo := repository.NewUserRepo(db)
	eventRepo := repository.NewEventRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	bookingSvc := service.NewBookingService(bookingRepo)
	accountSvc := service.NewAccountService(bookingRepo)

	go queue.StartLifecycleConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, router.Deps{
		Cfg:      cfg,
		Auth:     handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Bookings: handler.NewBookingHandler(bookingSvc, eventRepo),
		Account:  handler.NewAccountHandler(accountSvc),
		Events:   handler.NewEventHandler(eventRepo),
		Redis:    rdb,
	})

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
