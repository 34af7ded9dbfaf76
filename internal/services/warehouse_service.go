package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/caching"
	"fashionwms/internal/common"
	"fashionwms/internal/models"
	"fashionwms/internal/repositories"
)

const warehouseSummaryTTL = 5 * time.Minute

type WarehouseService interface {
	CreateBrand(ctx context.Context, name string) (*models.Brand, error)
	ListBrands(ctx context.Context) ([]*models.Brand, error)

	Create(ctx context.Context, brandID uuid.UUID, name, address string, isCentral bool) (*models.Warehouse, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	// List honors the warehouse visibility scope carried on the context.
	List(ctx context.Context) ([]*models.Warehouse, error)
	Update(ctx context.Context, id uuid.UUID, name, address string) (*models.Warehouse, error)
	// Delete removes the warehouse with its stock snapshot and ledger rows.
	// A warehouse still referenced by purchase or production orders, or
	// still holding stock, cannot be deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// Summary returns cached headline numbers for one warehouse.
	Summary(ctx context.Context, id uuid.UUID) (map[string]interface{}, error)
}

type warehouseService struct {
	db            repositories.DB
	tx            repositories.TxManager
	warehouseRepo repositories.WarehouseRepository
	stockRepo     repositories.StockRepository
	txnRepo       repositories.TransactionRepository
	cacheService  caching.CacheService
}

func NewWarehouseService(
	db repositories.DB,
	tx repositories.TxManager,
	warehouseRepo repositories.WarehouseRepository,
	stockRepo repositories.StockRepository,
	txnRepo repositories.TransactionRepository,
	cacheService caching.CacheService,
) WarehouseService {
	return &warehouseService{
		db:            db,
		tx:            tx,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		txnRepo:       txnRepo,
		cacheService:  cacheService,
	}
}

func (s *warehouseService) CreateBrand(ctx context.Context, name string) (*models.Brand, error) {
	if name == "" {
		return nil, apperrors.Validation("brand name is required")
	}
	brand := &models.Brand{ID: uuid.New(), Name: name}
	if err := s.warehouseRepo.CreateBrand(ctx, s.db, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *warehouseService) ListBrands(ctx context.Context) ([]*models.Brand, error) {
	return s.warehouseRepo.ListBrands(ctx, s.db)
}

func (s *warehouseService) Create(ctx context.Context, brandID uuid.UUID, name, address string, isCentral bool) (*models.Warehouse, error) {
	if name == "" {
		return nil, apperrors.Validation("warehouse name is required")
	}
	if _, err := s.warehouseRepo.GetBrand(ctx, s.db, brandID); err != nil {
		return nil, err
	}
	warehouse := &models.Warehouse{
		ID:        uuid.New(),
		BrandID:   brandID,
		Name:      name,
		IsCentral: isCentral,
		Address:   address,
	}
	if err := s.warehouseRepo.Create(ctx, s.db, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (s *warehouseService) Get(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	return s.warehouseRepo.Get(ctx, s.db, id)
}

func (s *warehouseService) List(ctx context.Context) ([]*models.Warehouse, error) {
	if scope, restricted := common.WarehouseScope(ctx); restricted {
		return s.warehouseRepo.List(ctx, s.db, scope)
	}
	return s.warehouseRepo.List(ctx, s.db, nil)
}

func (s *warehouseService) Update(ctx context.Context, id uuid.UUID, name, address string) (*models.Warehouse, error) {
	if name == "" {
		return nil, apperrors.Validation("warehouse name is required")
	}
	warehouse, err := s.warehouseRepo.Get(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.UpdateNameAddress(ctx, s.db, id, name, address); err != nil {
		return nil, err
	}
	warehouse.Name = name
	warehouse.Address = address
	return warehouse, nil
}

func (s *warehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		warehouse, err := s.warehouseRepo.Get(ctx, db, id)
		if err != nil {
			return err
		}
		hasPurchases, err := s.warehouseRepo.HasPurchaseOrders(ctx, db, id)
		if err != nil {
			return err
		}
		if hasPurchases {
			return apperrors.New(apperrors.KindCannotDelete, warehouse.Name, "warehouse still has purchase orders")
		}
		hasProduction, err := s.warehouseRepo.HasProductionOrders(ctx, db, id)
		if err != nil {
			return err
		}
		if hasProduction {
			return apperrors.New(apperrors.KindCannotDelete, warehouse.Name, "warehouse still has production orders")
		}
		onHand, err := s.stockRepo.SumForWarehouse(ctx, db, id)
		if err != nil {
			return err
		}
		if onHand.Sign() > 0 {
			return apperrors.New(apperrors.KindCannotDelete, warehouse.Name, "warehouse still holds %s units of stock", onHand)
		}

		if err := s.txnRepo.DeleteForWarehouse(ctx, db, id); err != nil {
			return err
		}
		if err := s.stockRepo.DeleteForWarehouse(ctx, db, id); err != nil {
			return err
		}
		return s.warehouseRepo.Delete(ctx, db, id)
	})
	if err != nil {
		return err
	}
	if s.cacheService != nil {
		if cacheErr := s.cacheService.DeleteWarehouseSummary(ctx, id); cacheErr != nil {
			log.Printf("failed to invalidate warehouse summary cache %s: %v", id, cacheErr)
		}
	}
	return nil
}

func (s *warehouseService) Summary(ctx context.Context, id uuid.UUID) (map[string]interface{}, error) {
	if s.cacheService != nil {
		cached, err := s.cacheService.GetWarehouseSummary(ctx, id)
		if err != nil {
			log.Printf("warehouse summary cache read failed %s: %v", id, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	warehouse, err := s.warehouseRepo.Get(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	total, err := s.stockRepo.SumForWarehouse(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	stocks, err := s.stockRepo.ListByWarehouse(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	summary := map[string]interface{}{
		"warehouse_id":   warehouse.ID.String(),
		"warehouse_name": warehouse.Name,
		"is_central":     warehouse.IsCentral,
		"total_on_hand":  total.String(),
		"distinct_skus":  len(stocks),
	}
	if s.cacheService != nil {
		if cacheErr := s.cacheService.SetWarehouseSummary(ctx, id, summary, warehouseSummaryTTL); cacheErr != nil {
			log.Printf("warehouse summary cache write failed %s: %v", id, cacheErr)
		}
	}
	return summary, nil
}
