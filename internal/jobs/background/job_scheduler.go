package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/shopspring/decimal"

	"fashionwms/internal/caching"
	"fashionwms/internal/repositories"
)

// JobScheduler manages the recurring maintenance jobs: verifying that every
// stock snapshot still equals the sum of its ledger entries, and flagging
// materials that ran low.
type JobScheduler struct {
	scheduler gocron.Scheduler
	db        repositories.DB
	stockRepo repositories.StockRepository
	txnRepo   repositories.TransactionRepository
	cacheSvc  caching.CacheService

	reconcileEvery    time.Duration
	lowStockEvery     time.Duration
	lowStockThreshold decimal.Decimal

	jobs map[string]gocron.Job
	mu   sync.RWMutex
}

func NewJobScheduler(
	db repositories.DB,
	stockRepo repositories.StockRepository,
	txnRepo repositories.TransactionRepository,
	cacheSvc caching.CacheService,
	reconcileEvery, lowStockEvery time.Duration,
	lowStockThreshold decimal.Decimal,
) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:         scheduler,
		db:                db,
		stockRepo:         stockRepo,
		txnRepo:           txnRepo,
		cacheSvc:          cacheSvc,
		reconcileEvery:    reconcileEvery,
		lowStockEvery:     lowStockEvery,
		lowStockThreshold: lowStockThreshold,
		jobs:              make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	reconcileJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.reconcileEvery),
		gocron.NewTask(js.ReconcileLedger, context.Background()),
		gocron.WithName("ledger-reconciliation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create ledger reconciliation job: %v", err)
	} else {
		js.setJob("reconcile", reconcileJob)
	}

	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.lowStockEvery),
		gocron.NewTask(js.LowStockSweep, context.Background()),
		gocron.WithName("low-stock-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low stock job: %v", err)
	} else {
		js.setJob("low-stock", lowStockJob)
	}
}

func (js *JobScheduler) setJob(name string, job gocron.Job) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.jobs[name] = job
}

// ReconcileLedger recomputes every snapshot from its ledger entries and logs
// any drift. A mismatch means something mutated inventory_stocks outside the
// ledger and needs a human.
func (js *JobScheduler) ReconcileLedger(ctx context.Context) {
	stocks, err := js.stockRepo.ListAll(ctx, js.db)
	if err != nil {
		log.Printf("ledger reconciliation: listing stocks failed: %v", err)
		return
	}

	mismatches := 0
	for _, stock := range stocks {
		sum, err := js.txnRepo.SumByStock(ctx, js.db, stock.WarehouseID, stock.VariantID)
		if err != nil {
			log.Printf("ledger reconciliation: summing %s/%s failed: %v", stock.WarehouseID, stock.VariantID, err)
			continue
		}
		if !sum.Equal(stock.OnHand) {
			mismatches++
			log.Printf("ledger reconciliation: drift on %s/%s: snapshot=%s ledger=%s",
				stock.WarehouseID, stock.VariantID, stock.OnHand, sum)
		}
	}
	log.Printf("ledger reconciliation: checked %d stock rows, %d mismatches", len(stocks), mismatches)
}

// LowStockSweep logs every stock row at or below the configured threshold so
// purchasing can restock before production stalls.
func (js *JobScheduler) LowStockSweep(ctx context.Context) {
	stocks, err := js.stockRepo.ListAll(ctx, js.db)
	if err != nil {
		log.Printf("low stock sweep: listing stocks failed: %v", err)
		return
	}

	alerts := 0
	for _, stock := range stocks {
		if stock.OnHand.LessThanOrEqual(js.lowStockThreshold) {
			alerts++
			log.Printf("low stock: %s/%s down to %s", stock.WarehouseID, stock.VariantID, stock.OnHand)
			if js.cacheSvc != nil {
				if err := js.cacheSvc.DeleteWarehouseSummary(ctx, stock.WarehouseID); err != nil {
					log.Printf("low stock sweep: cache invalidation failed for %s: %v", stock.WarehouseID, err)
				}
			}
		}
	}
	log.Printf("low stock sweep: checked %d stock rows, %d alerts", len(stocks), alerts)
}
