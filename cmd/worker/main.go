package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/customer-service/internal/config"
	"github.com/unclebandit/customer-service/internal/db"
	"github.com/unclebandit/customer-service/internal/logs"
	"github.com/unclebandit/customer-service/internal/queue"
	"github.com/unclebandit/customer-service/internal/repository"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		logs.Log.Fatal(err)
	}
	logs.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logs.Log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.AMQPURL == "" {
		logs.Log.Fatal("AMQP_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to DB
	sqlDB, err := db.Open(ctx, cfg)
	if err != nil {
		logs.Log.Fatal(err)
	}
	defer sqlDB.Close()

	var customerRepo repository.CustomerRepositoryInterface = &repository.CustomerRepository{DB: sqlDB}
	if cfg.DBDriver == config.DriverSQLite {
		gdb, err := db.OpenGorm(sqlDB)
		if err != nil {
			logs.Log.Fatal(err)
		}
		customerRepo = repository.NewGormCustomerRepository(gdb)
	}

	// Connect to RabbitMQ
	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		logs.Log.Fatal(err)
	}
	defer q.Close()

	if err := run(ctx, q, customerRepo); err != nil {
		logs.Log.Fatal(err)
	}
}

// run subscribes to customer events and blocks until ctx is done or the
// queue stops delivering, in which case the queue's error is returned.
func run(ctx context.Context, q queue.Queue, repo repository.CustomerRepositoryInterface) error {
	if err := queue.StartCustomerCreatedSubscriber(q, repo); err != nil {
		return err
	}

	var stopped <-chan error
	if s, ok := q.(queue.Stopper); ok {
		stopped = s.Done()
	}

	logs.Log.Info("Worker running, waiting for messages...")
	select {
	case <-ctx.Done():
		logs.Log.Info("Worker stopping")
		return nil
	case err := <-stopped:
		return err
	}
}
