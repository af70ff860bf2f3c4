// cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/customer-service/internal/config"
	"github.com/unclebandit/customer-service/internal/controller"
	"github.com/unclebandit/customer-service/internal/db"
	"github.com/unclebandit/customer-service/internal/handler"
	"github.com/unclebandit/customer-service/internal/logs"
	"github.com/unclebandit/customer-service/internal/queue"
	"github.com/unclebandit/customer-service/internal/repository"
)

func main() {
	cfg, found, err := config.Load()
	if err != nil {
		logs.Log.Fatal(err)
	}
	logs.Setup(cfg.LogLevel, cfg.LogFormat)
	if !found {
		logs.Log.Warn("⚠️ No .env file found, relying on OS environment variables")
	}
	if err := cfg.Validate(); err != nil {
		logs.Log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.Open(ctx, cfg)
	if err != nil {
		logs.Log.Fatal(err)
	}
	defer sqlDB.Close()

	customerRepo, err := newCustomerRepository(cfg, sqlDB)
	if err != nil {
		logs.Log.Fatal(err)
	}

	events, closeEvents, err := newEventQueue(cfg, customerRepo)
	if err != nil {
		logs.Log.Fatal(err)
	}
	defer closeEvents()

	customerController := &controller.CustomerController{
		Repo:   customerRepo,
		Events: events,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(customerController, handler.NewSystemHandler(sqlDB)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logs.Log.WithError(err).Error("shutdown failed")
		}
	}()

	logs.Log.Infof("🚀 Server running on %s", cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logs.Log.Fatal(err)
	}
}

// newCustomerRepository picks the SQL adapter for postgres and the GORM
// adapter, with auto migration, for sqlite.
func newCustomerRepository(cfg *config.Config, sqlDB *sql.DB) (repository.CustomerRepositoryInterface, error) {
	if cfg.DBDriver == config.DriverPostgres {
		return &repository.CustomerRepository{DB: sqlDB}, nil
	}

	gdb, err := db.OpenGorm(sqlDB)
	if err != nil {
		return nil, err
	}
	repo := repository.NewGormCustomerRepository(gdb)
	if err := repo.AutoMigrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

// newEventQueue publishes to RabbitMQ when AMQP_URL is set. Otherwise events
// stay in process and are logged by a local subscriber.
func newEventQueue(cfg *config.Config, repo repository.CustomerRepositoryInterface) (queue.Queue, func(), error) {
	if cfg.AMQPURL != "" {
		q, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			return nil, nil, err
		}
		return q, func() { q.Close() }, nil
	}

	q := queue.NewInMemoryQueue()
	if err := queue.StartCustomerCreatedSubscriber(q, repo); err != nil {
		return nil, nil, err
	}
	return q, func() {}, nil
}
