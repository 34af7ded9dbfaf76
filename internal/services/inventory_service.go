package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/caching"
	"fashionwms/internal/common"
	"fashionwms/internal/ledger"
	"fashionwms/internal/models"
	"fashionwms/internal/repositories"
)

const onHandCacheTTL = 5 * time.Minute

// TransferItem is one variant line of a warehouse transfer.
type TransferItem struct {
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferParams moves stock between two warehouses of the same brand
// network. All items move together; a shortage on any line rolls the whole
// transfer back.
type TransferParams struct {
	FromWarehouseID uuid.UUID      `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID      `json:"to_warehouse_id"`
	Items           []TransferItem `json:"items"`
	Note            string         `json:"note"`
}

// InventoryService exposes stock movements and reads. Per-warehouse
// operations honor the warehouse visibility scope carried on the context.
type InventoryService interface {
	Transfer(ctx context.Context, params TransferParams) error
	OnHand(ctx context.Context, warehouseID, variantID uuid.UUID) (decimal.Decimal, error)
	TotalOnHand(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error)
	History(ctx context.Context, warehouseID, variantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error)
	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]*models.Stock, error)
}

type inventoryService struct {
	db            repositories.DB
	tx            repositories.TxManager
	ledger        ledger.Ledger
	stockRepo     repositories.StockRepository
	variantRepo   repositories.VariantRepository
	warehouseRepo repositories.WarehouseRepository
	cacheService  caching.CacheService
}

func NewInventoryService(
	db repositories.DB,
	tx repositories.TxManager,
	ldg ledger.Ledger,
	stockRepo repositories.StockRepository,
	variantRepo repositories.VariantRepository,
	warehouseRepo repositories.WarehouseRepository,
	cacheService caching.CacheService,
) InventoryService {
	return &inventoryService{
		db:            db,
		tx:            tx,
		ledger:        ldg,
		stockRepo:     stockRepo,
		variantRepo:   variantRepo,
		warehouseRepo: warehouseRepo,
		cacheService:  cacheService,
	}
}

func (s *inventoryService) Transfer(ctx context.Context, params TransferParams) error {
	if len(params.Items) == 0 {
		return apperrors.Validation("a transfer needs at least one item")
	}
	for _, item := range params.Items {
		if item.Quantity.Sign() <= 0 {
			return apperrors.Validation("transfer quantity must be positive")
		}
	}
	if params.FromWarehouseID == params.ToWarehouseID {
		return apperrors.Validation("source and destination warehouses must differ")
	}
	if err := s.checkScope(ctx, params.FromWarehouseID); err != nil {
		return err
	}
	if err := s.checkScope(ctx, params.ToWarehouseID); err != nil {
		return err
	}
	if _, err := s.warehouseRepo.Get(ctx, s.db, params.FromWarehouseID); err != nil {
		return err
	}
	if _, err := s.warehouseRepo.Get(ctx, s.db, params.ToWarehouseID); err != nil {
		return err
	}
	variants := make([]*models.Variant, 0, len(params.Items))
	for _, item := range params.Items {
		variant, err := s.variantRepo.GetVariant(ctx, s.db, item.VariantID)
		if err != nil {
			return err
		}
		variants = append(variants, variant)
	}

	transferID := uuid.New()
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		for i, item := range params.Items {
			variant := variants[i]
			if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
				WarehouseID: params.FromWarehouseID,
				VariantID:   variant.ID,
				Delta:       item.Quantity.Neg(),
				Kind:        models.KindTransferOut,
				ReferenceID: &transferID,
				Resource:    variant.SKU,
				Note:        params.Note,
			}); err != nil {
				return err
			}
			if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
				WarehouseID: params.ToWarehouseID,
				VariantID:   variant.ID,
				Delta:       item.Quantity,
				Kind:        models.KindTransferIn,
				ReferenceID: &transferID,
				Resource:    variant.SKU,
				Note:        params.Note,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.cacheService != nil {
		for _, warehouseID := range []uuid.UUID{params.FromWarehouseID, params.ToWarehouseID} {
			for _, variant := range variants {
				if cacheErr := s.cacheService.DeleteOnHand(ctx, warehouseID, variant.ID); cacheErr != nil {
					log.Printf("failed to invalidate on-hand cache %s/%s: %v", warehouseID, variant.ID, cacheErr)
				}
			}
			if cacheErr := s.cacheService.DeleteWarehouseSummary(ctx, warehouseID); cacheErr != nil {
				log.Printf("failed to invalidate warehouse summary cache %s: %v", warehouseID, cacheErr)
			}
		}
	}
	return nil
}

// checkScope hides warehouses outside the caller's visibility scope. Out of
// scope reads the same as nonexistent so the scope does not leak.
func (s *inventoryService) checkScope(ctx context.Context, warehouseID uuid.UUID) error {
	scope, restricted := common.WarehouseScope(ctx)
	if !restricted {
		return nil
	}
	for _, id := range scope {
		if id == warehouseID {
			return nil
		}
	}
	return apperrors.NotFound("warehouse")
}

// OnHand reads through the cache; misses hit the stock snapshot and backfill
// with a short TTL.
func (s *inventoryService) OnHand(ctx context.Context, warehouseID, variantID uuid.UUID) (decimal.Decimal, error) {
	if err := s.checkScope(ctx, warehouseID); err != nil {
		return decimal.Zero, err
	}
	if s.cacheService != nil {
		cached, err := s.cacheService.GetOnHand(ctx, warehouseID, variantID)
		if err != nil {
			log.Printf("on-hand cache read failed %s/%s: %v", warehouseID, variantID, err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	qty, err := s.ledger.OnHand(ctx, s.db, warehouseID, variantID)
	if err != nil {
		return decimal.Zero, err
	}

	if s.cacheService != nil {
		if cacheErr := s.cacheService.SetOnHand(ctx, warehouseID, variantID, qty, onHandCacheTTL); cacheErr != nil {
			log.Printf("on-hand cache write failed %s/%s: %v", warehouseID, variantID, cacheErr)
		}
	}
	return qty, nil
}

func (s *inventoryService) TotalOnHand(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	return s.ledger.TotalOnHand(ctx, s.db, variantID)
}

func (s *inventoryService) History(ctx context.Context, warehouseID, variantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	if err := s.checkScope(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.ledger.History(ctx, s.db, warehouseID, variantID, limit, offset)
}

func (s *inventoryService) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]*models.Stock, error) {
	if err := s.checkScope(ctx, warehouseID); err != nil {
		return nil, err
	}
	if _, err := s.warehouseRepo.Get(ctx, s.db, warehouseID); err != nil {
		return nil, err
	}
	return s.stockRepo.ListByWarehouse(ctx, s.db, warehouseID)
}
