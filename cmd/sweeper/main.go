// Command sweeper runs InventoryService.SweepExpirations across every
// active tenant. Intended to run on a schedule (cron, k8s CronJob) separate
// from the HTTP server, mirroring the teacher's preference for small
// single-purpose binaries over an in-process scheduler goroutine.
package main

import (
	"context"
	"log"
	"time"

	"costengine/internal/config"
	"costengine/internal/core"
	"costengine/internal/core/postgres"
	"costengine/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tenants := postgres.NewTenantStore(db)
	batches := postgres.NewBatchStore(db)
	movements := postgres.NewMovementLog(db)
	catalog := postgres.NewCatalogReader(db)
	inventory := core.NewInventoryService(batches, movements, catalog)

	ctx := context.Background()
	activeTenants, err := tenants.ListActiveTenants(ctx)
	if err != nil {
		log.Fatalf("failed to list active tenants: %v", err)
	}

	now := time.Now().UTC()
	var totalSwept int
	for _, tenant := range activeTenants {
		swept, err := inventory.SweepExpirations(ctx, tenant, now)
		if err != nil {
			log.Printf("tenant %s: sweep failed: %v", tenant, err)
			continue
		}
		if swept > 0 {
			log.Printf("tenant %s: marked %d batch(es) expired", tenant, swept)
		}
		totalSwept += swept
	}

	log.Printf("sweep complete: %d tenant(s) checked, %d batch(es) marked expired", len(activeTenants), totalSwept)
}
