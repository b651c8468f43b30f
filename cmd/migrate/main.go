package main

import (
	"context"
	"flag"
	"log"

	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/matyusmilan/xm-forex/pkg/migration"
	migrationpg "github.com/matyusmilan/xm-forex/pkg/migration-pg"
	"github.com/matyusmilan/xm-forex/pkg/postgresql"
	"github.com/matyusmilan/xm-forex/pkg/questdb"
)

// runner is the shared surface of the postgres and questdb migration
// runners.
type runner interface {
	EnsureMigrationTable() error
	MigrateUp(steps int) error
	MigrateDown(steps int) error
}

func main() {
	var (
		db        = flag.String("db", "postgres", "Target database: postgres or questdb")
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
	)
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var r runner
	switch *db {
	case "postgres":
		client, err := postgresql.NewClient(ctx, cfg.Postgres.Client)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
		}
		defer client.Close()

		r = migrationpg.NewRunner(ctx, client, migrationpg.Config{
			MigrationDir: "internal/infrastructure/postgresql/migrations",
			Schema:       "public",
			TableName:    "schema_migrations",
		})
	case "questdb":
		client, err := questdb.NewClient(ctx, cfg.QuestDB.Client)
		if err != nil {
			log.Fatalf("Failed to initialize QuestDB client: %v", err)
		}
		defer client.Close()

		r = migration.NewRunner(ctx, client, "internal/infrastructure/questdb/migrations")
	default:
		log.Fatalf("Invalid db: %s. Use 'postgres' or 'questdb'", *db)
	}

	// Ensure migration tracking table exists
	if err := r.EnsureMigrationTable(); err != nil {
		log.Fatalf("Failed to create migration table: %v", err)
	}

	// Run migrations based on direction
	switch *direction {
	case "up":
		if err := r.MigrateUp(*steps); err != nil {
			log.Fatalf("Failed to migrate up: %v", err)
		}
	case "down":
		if err := r.MigrateDown(*steps); err != nil {
			log.Fatalf("Failed to migrate down: %v", err)
		}
	default:
		log.Fatalf("Invalid direction: %s. Use 'up' or 'down'", *direction)
	}

	log.Printf("Migration %s completed successfully", *direction)
}
