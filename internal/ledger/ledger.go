// Package ledger owns every stock quantity change. All higher-level
// operations (production start/receive, purchase, transfer, reverts) are
// expressed as Adjust calls inside one unit of work; nothing else mutates
// the inventory_stocks snapshot.
package ledger

import (
	"context"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/models"
	"fashionwms/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustParams describes one signed stock movement.
type AdjustParams struct {
	WarehouseID uuid.UUID
	VariantID   uuid.UUID
	Delta       decimal.Decimal
	Kind        models.TransactionKind
	ReferenceID *uuid.UUID
	Resource    string // human-readable name for error messages, e.g. the SKU
	Note        string
}

type Ledger interface {
	// Adjust changes on-hand by Delta and appends one ledger entry. The
	// availability check and the write happen on the same locked row, so
	// two concurrent consumers of one stock row serialize here.
	Adjust(ctx context.Context, db repositories.DB, p AdjustParams) error
	OnHand(ctx context.Context, db repositories.DB, warehouseID, variantID uuid.UUID) (decimal.Decimal, error)
	TotalOnHand(ctx context.Context, db repositories.DB, variantID uuid.UUID) (decimal.Decimal, error)
	History(ctx context.Context, db repositories.DB, warehouseID, variantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error)
}

type ledger struct {
	stockRepo repositories.StockRepository
	txnRepo   repositories.TransactionRepository
}

func New(stockRepo repositories.StockRepository, txnRepo repositories.TransactionRepository) Ledger {
	return &ledger{stockRepo: stockRepo, txnRepo: txnRepo}
}

func (l *ledger) Adjust(ctx context.Context, db repositories.DB, p AdjustParams) error {
	if p.Delta.IsZero() {
		return apperrors.Validation("adjustment quantity must be non-zero")
	}

	stock, err := l.stockRepo.GetForUpdate(ctx, db, p.WarehouseID, p.VariantID)
	if err != nil {
		return err
	}

	current := decimal.Zero
	if stock != nil {
		current = stock.OnHand
	}

	next := current.Add(p.Delta)
	if next.IsNegative() {
		return apperrors.InsufficientStock(p.Resource, p.Delta.Neg(), current)
	}

	if stock == nil {
		stock = &models.Stock{
			ID:          uuid.New(),
			WarehouseID: p.WarehouseID,
			VariantID:   p.VariantID,
			OnHand:      next,
		}
		if err := l.stockRepo.Insert(ctx, db, stock); err != nil {
			return err
		}
	} else if err := l.stockRepo.UpdateOnHand(ctx, db, stock.ID, next); err != nil {
		return err
	}

	return l.txnRepo.Append(ctx, db, &models.InventoryTransaction{
		ID:          uuid.New(),
		WarehouseID: p.WarehouseID,
		VariantID:   p.VariantID,
		Kind:        p.Kind,
		Quantity:    p.Delta,
		ReferenceID: p.ReferenceID,
		Note:        p.Note,
	})
}

func (l *ledger) OnHand(ctx context.Context, db repositories.DB, warehouseID, variantID uuid.UUID) (decimal.Decimal, error) {
	return l.stockRepo.OnHand(ctx, db, warehouseID, variantID)
}

func (l *ledger) TotalOnHand(ctx context.Context, db repositories.DB, variantID uuid.UUID) (decimal.Decimal, error) {
	return l.stockRepo.TotalOnHand(ctx, db, variantID)
}

func (l *ledger) History(ctx context.Context, db repositories.DB, warehouseID, variantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	return l.txnRepo.ListByStock(ctx, db, warehouseID, variantID, limit, offset)
}
