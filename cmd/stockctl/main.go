package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"pharmstock/internal/config"
	"pharmstock/internal/database"
	"pharmstock/internal/domain"
	"pharmstock/internal/logger"
	"pharmstock/internal/repository"
	"pharmstock/internal/seed"
	"pharmstock/internal/server"
	"pharmstock/internal/service"
	"pharmstock/internal/store"

	"github.com/joho/godotenv"
)

// stockctl is the operator tool for the inventory store: it reseeds
// collections, checks ledger/catalog drift and reports migration status
// without going through the HTTP API.
func main() {
	reseed := flag.Bool("reseed", false, "overwrite both collections with the seed baselines")
	verify := flag.Bool("verify", false, "replay the ledger and report catalog drift per product")
	status := flag.Bool("status", false, "print migration status (postgres backend only)")
	flag.Parse()

	if !*reseed && !*verify && !*status {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg := config.Load()
	zlog := logger.NewWithDefaults()
	defer zlog.Sync()
	ctx := context.Background()

	kv, err := server.OpenStore(ctx, cfg, zlog)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer kv.Close()

	if *status {
		pg, ok := kv.(*store.Postgres)
		if !ok {
			log.Fatalf("migration status requires the postgres backend, got %q", cfg.Store.Backend)
		}
		if err := database.MigrationStatus(pg.DB(), "migrations"); err != nil {
			log.Fatalf("failed to get migration status: %v", err)
		}
	}

	if *reseed {
		if err := runReseed(ctx, kv, cfg.Seed.Dir); err != nil {
			log.Fatalf("reseed failed: %v", err)
		}
		fmt.Println("collections reseeded from", cfg.Seed.Dir)
	}

	if *verify {
		if err := runVerify(ctx, kv, cfg.Seed.Dir); err != nil {
			log.Fatalf("verify failed: %v", err)
		}
	}
}

// runReseed writes the seed baselines over both collections,
// discarding whatever the store currently holds.
func runReseed(ctx context.Context, kv store.Store, seedDir string) error {
	src := seed.New(seedDir)

	products, err := src.Inventory()
	if err != nil {
		return err
	}
	transactions, err := src.Transactions()
	if err != nil {
		return err
	}
	if products == nil {
		products = []domain.Product{}
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	invDoc, err := json.Marshal(map[string]interface{}{"products": products})
	if err != nil {
		return err
	}
	if err := kv.Set(ctx, repository.InventoryKey, invDoc); err != nil {
		return err
	}

	txDoc, err := json.Marshal(map[string]interface{}{"transactions": transactions})
	if err != nil {
		return err
	}
	return kv.Set(ctx, repository.TransactionsKey, txDoc)
}

// runVerify folds each product's ledger entries over the stock recorded
// before its first movement and compares the result with the catalog.
func runVerify(ctx context.Context, kv store.Store, seedDir string) error {
	src := seed.New(seedDir)
	productRepo := repository.NewProductRepository(kv, src)
	transactionRepo := repository.NewTransactionRepository(kv, src)
	ledger := service.NewLedgerService(transactionRepo, productRepo)

	products, err := productRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	transactions, err := transactionRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	// baseline per product is the stock snapshot of its earliest entry
	baselines := make(map[int]int)
	earliest := make(map[int]int)
	for _, tx := range transactions {
		if id, ok := earliest[tx.ProductID]; !ok || tx.ID < id {
			earliest[tx.ProductID] = tx.ID
			baselines[tx.ProductID] = tx.PreviousStock
		}
	}

	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	drifted := 0
	for _, p := range products {
		baseline, hasHistory := baselines[p.ID]
		if !hasHistory {
			fmt.Printf("product %d (%s): no ledger history, catalog stock %d\n", p.ID, p.Name, p.Stock)
			continue
		}

		ledgerStock, err := ledger.ReplayStockFor(ctx, p.ID, baseline)
		if err != nil {
			return err
		}

		if ledgerStock == p.Stock {
			fmt.Printf("product %d (%s): in sync at %d\n", p.ID, p.Name, p.Stock)
		} else {
			drifted++
			fmt.Printf("product %d (%s): DRIFT ledger=%d catalog=%d\n", p.ID, p.Name, ledgerStock, p.Stock)
		}
	}

	if drifted > 0 {
		return fmt.Errorf("%d product(s) drifted from the ledger", drifted)
	}
	fmt.Println("ledger and catalog agree")
	return nil
}
