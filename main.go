package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-reminders/internal/config"
	"ms-reminders/internal/database/migrations"
	"ms-reminders/internal/dispatch"
	"ms-reminders/internal/events"
	eventdb "ms-reminders/internal/events/db"
	"ms-reminders/internal/events/event_api"
	"ms-reminders/internal/kafka"
	"ms-reminders/internal/logger"
	"ms-reminders/internal/metric"
	"ms-reminders/internal/models"
	"ms-reminders/internal/notify"
)

func openDatabase(cfg *config.Config, log *logger.Logger) *bun.DB {
	if dsn := cfg.Database.PostgresDSN; dsn != "" {
		var sqldb *sql.DB
		var err error
		maxRetries := 5

		for i := 0; i < maxRetries; i++ {
			log.Info("DATABASE", fmt.Sprintf("Connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
			sqldb, err = sql.Open("postgres", dsn)
			if err == nil {
				err = sqldb.Ping()
			}
			if err == nil {
				break
			}
			log.Error("DATABASE", fmt.Sprintf("PostgreSQL connection failed: %v", err))
			if i < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
		}
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
		}

		log.Info("DATABASE", "PostgreSQL connection successful")
		return bun.NewDB(sqldb, pgdialect.New())
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open SQLite database: %v", err))
	}
	if _, err := sqldb.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Warn("DATABASE", fmt.Sprintf("Failed to enable foreign keys: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("SQLite database opened at %s", cfg.Database.SQLitePath))
	return bun.NewDB(sqldb, sqlitedialect.New())
}

func buildDeliverer(cfg *config.Config, log *logger.Logger) (notify.Deliverer, func()) {
	router := notify.NewRouter(&notify.LogDeliverer{Logger: log})
	closers := func() {}

	if cfg.Kafka.Enabled {
		topics := []string{cfg.Kafka.Topics.Email, cfg.Kafka.Topics.SMS, cfg.Kafka.Topics.Push}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Notification topics ensured")
		}

		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		deliverer := notify.NewKafkaDeliverer(producer, cfg.Kafka.Topics)
		router.Route(models.MethodEmail, deliverer)
		router.Route(models.MethodSMS, deliverer)
		router.Route(models.MethodPush, deliverer)
		log.Info("KAFKA", "Email, SMS and Push deliveries routed to Kafka")

		prev := closers
		closers = func() {
			prev()
			producer.Close()
		}
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
		}
		log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))

		router.Route(models.MethodInApp, notify.NewRedisDeliverer(client, cfg.Redis.Channel))
		log.Info("REDIS", fmt.Sprintf("In-App deliveries routed to Redis channel %s", cfg.Redis.Channel))

		prev := closers
		closers = func() {
			prev()
			client.Close()
		}
	}

	return router, closers
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Reminder Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()
	loc := cfg.Location()
	log.Info("CONFIG", fmt.Sprintf("Using timezone %s", loc))

	bunDB := openDatabase(cfg, log)
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
			MigrationsDir: "./migrations",
			AutoMigrate:   true,
			Postgres:      cfg.Database.PostgresDSN != "",
		})
		if err := runner.Up(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		log.Info("DATABASE", "Migrations applied")
	}
	if cfg.Database.SeedData {
		if err := eventdb.Seed(bunDB, loc, 20); err != nil {
			log.Warn("DATABASE", fmt.Sprintf("Seeding failed: %v", err))
		} else {
			log.Info("DATABASE", "Sample events seeded")
		}
	}

	deliverer, closeTransports := buildDeliverer(cfg, log)
	defer closeTransports()

	store := &eventdb.DB{Bun: bunDB, Loc: loc}
	service := events.NewService(store, loc)
	handler := event_api.NewHandler(service, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Handle("/metrics", promhttp.Handler())
	handler.RegisterRoutes(r)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go metric.WatchDatabase(ctx, bunDB, 15*time.Second)

	if cfg.Dispatch.Enabled {
		loop := dispatch.NewLoop(store, deliverer, log, loc, cfg.Dispatch.Interval)
		go func() {
			if err := loop.Run(ctx); err != nil {
				log.Error("DISPATCH", fmt.Sprintf("Dispatch loop error: %v", err))
			}
		}()
	} else {
		log.Warn("DISPATCH", "Dispatch loop disabled by configuration")
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Reminder Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Reminder Service shutdown complete")
	}
}
