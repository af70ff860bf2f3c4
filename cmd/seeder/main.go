//cmd/seeder/main.go
package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/unclebandit/customer-service/internal/config"
	"github.com/unclebandit/customer-service/internal/db"
	"github.com/unclebandit/customer-service/internal/logs"
)

var seedFiles = []string{
	"seed/schema.sql",
	"seed/customers.sql",
}

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		logs.Log.Fatal(err)
	}
	logs.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.DBDriver != config.DriverPostgres {
		logs.Log.Fatal("the seeder only targets postgres; sqlite is migrated by the server")
	}

	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		logs.Log.Fatal(err)
	}
	defer conn.Close()

	if err := seed(conn, seedFiles); err != nil {
		logs.Log.Fatal(err)
	}
	logs.Log.Info("Database seeding completed successfully!")
}

func seed(conn *sql.DB, files []string) error {
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		if _, err := conn.Exec(string(content)); err != nil {
			return err
		}
		logs.Log.WithField("file", file).Info("seeded")
	}
	return nil
}
