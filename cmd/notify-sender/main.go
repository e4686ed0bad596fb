package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-reminders/internal/config"
	"ms-reminders/internal/dispatch"
	eventdb "ms-reminders/internal/events/db"
	"ms-reminders/internal/logger"
	"ms-reminders/internal/notify"
)

// notify-sender runs only the reminder dispatch loop, for deployments that
// keep the API and the notification sender as separate processes.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	loc := cfg.Location()

	var bunDB *bun.DB
	if dsn := cfg.Database.PostgresDSN; dsn != "" {
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Fatalf("[Database] Failed to open PostgreSQL: %v", err)
		}
		if err := sqldb.Ping(); err != nil {
			log.Fatalf("[Database] Failed to connect to PostgreSQL: %v", err)
		}
		bunDB = bun.NewDB(sqldb, pgdialect.New())
	} else {
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.SQLitePath)
		if err != nil {
			log.Fatalf("[Database] Failed to open SQLite: %v", err)
		}
		bunDB = bun.NewDB(sqldb, sqlitedialect.New())
	}
	defer bunDB.Close()

	appLogger := logger.NewLogger()
	defer appLogger.Close()

	store := &eventdb.DB{Bun: bunDB, Loc: loc}
	deliverer := &notify.LogDeliverer{Logger: appLogger}
	loop := dispatch.NewLoop(store, deliverer, appLogger, loc, cfg.Dispatch.Interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		cancel()
	}()

	log.Println("Starting the event reminder notification service...")
	if err := loop.Run(ctx); err != nil {
		log.Fatalf("dispatch loop error: %v", err)
	}
}
