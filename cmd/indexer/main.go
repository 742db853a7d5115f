package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mbengwi/pharmafind/backend/internal/adapters/database"
	"github.com/mbengwi/pharmafind/backend/internal/adapters/search"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/postgres"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/typesense"
	"github.com/mbengwi/pharmafind/backend/pkg/config"
)

const pharmacyBatchLimit = 1000

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	pharmacyRepo := database.NewPharmacyAdapter(pgClient)
	offerRepo := database.NewOfferAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting drug offers collection before reindex")
		if err := adapter.DropSchema(ctx); err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	pharmacies, err := pharmacyRepo.ListApproved(ctx, repositories.PharmacyFilter{Limit: pharmacyBatchLimit})
	if err != nil {
		return err
	}

	log.Printf("Indexing offers from %d pharmacies...", len(pharmacies))

	indexed := 0
	for _, pharmacy := range pharmacies {
		if pharmacy == nil {
			continue
		}

		offers, err := offerRepo.ListByPharmacy(ctx, pharmacy.ID)
		if err != nil {
			log.Printf("Warning: failed to load offers for %s: %v", pharmacy.ID, err)
			continue
		}

		for i := range offers {
			if err := adapter.Index(ctx, pharmacy, &offers[i]); err != nil {
				log.Printf("Failed to index offer %s: %v", offers[i].ID, err)
				continue
			}
			indexed++
		}
	}

	log.Printf("Indexing complete. %d offers indexed.", indexed)
	return nil
}
