// Package costing maintains the single global weighted-average unit cost per
// variant. Cost is global, not per-warehouse: the averaging basis is on-hand
// summed across every warehouse.
package costing

import (
	"context"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// costScale bounds the stored precision of unit costs.
const costScale = 4

// MaterialCost is one priced BOM/reservation line used when rolling up a
// finished-good unit cost.
type MaterialCost struct {
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

type Engine interface {
	// ApplyReceipt folds one receipt into the variant's weighted-average
	// cost: (basisQty*cost + qty*price) / (basisQty + qty).
	ApplyReceipt(ctx context.Context, db repositories.DB, variantID uuid.UUID, qty, unitPrice decimal.Decimal) error
	// Recompute derives the cost from the full purchase line history. It is
	// idempotent and must be used after a historical line is edited or
	// deleted, because incremental averaging cannot undo a prior receipt.
	Recompute(ctx context.Context, db repositories.DB, variantID uuid.UUID) error
}

type engine struct {
	variantRepo  repositories.VariantRepository
	stockRepo    repositories.StockRepository
	purchaseRepo repositories.PurchaseRepository
}

func NewEngine(variantRepo repositories.VariantRepository, stockRepo repositories.StockRepository, purchaseRepo repositories.PurchaseRepository) Engine {
	return &engine{variantRepo: variantRepo, stockRepo: stockRepo, purchaseRepo: purchaseRepo}
}

func (e *engine) ApplyReceipt(ctx context.Context, db repositories.DB, variantID uuid.UUID, qty, unitPrice decimal.Decimal) error {
	if qty.Sign() <= 0 {
		return apperrors.Validation("receipt quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return apperrors.Validation("unit price cannot be negative")
	}

	variant, err := e.variantRepo.GetVariant(ctx, db, variantID)
	if err != nil {
		return err
	}
	basis, err := e.stockRepo.TotalOnHand(ctx, db, variantID)
	if err != nil {
		return err
	}
	if basis.IsNegative() {
		basis = decimal.Zero
	}

	cost := WeightedAverage(basis, variant.UnitCost, qty, unitPrice)
	return e.variantRepo.UpdateUnitCost(ctx, db, variantID, cost)
}

func (e *engine) Recompute(ctx context.Context, db repositories.DB, variantID uuid.UUID) error {
	totalQty, totalValue, err := e.purchaseRepo.HistoryForVariant(ctx, db, variantID)
	if err != nil {
		return err
	}

	cost := decimal.Zero
	if totalQty.Sign() > 0 {
		cost = totalValue.DivRound(totalQty, costScale)
	}
	return e.variantRepo.UpdateUnitCost(ctx, db, variantID, cost)
}

// WeightedAverage blends an existing (qty, cost) basis with a new receipt.
// A zero combined quantity leaves the cost at zero.
func WeightedAverage(basisQty, basisCost, receiptQty, receiptPrice decimal.Decimal) decimal.Decimal {
	total := basisQty.Add(receiptQty)
	if total.Sign() <= 0 {
		return decimal.Zero
	}
	value := basisQty.Mul(basisCost).Add(receiptQty.Mul(receiptPrice))
	return value.DivRound(total, costScale)
}

// FinishedUnitCost prices one unit of a production run:
// (Σ material qty × material cost + Σ fixed fees) / planned quantity.
// Computed once at order creation and never retroactively adjusted by
// partial receipts.
func FinishedUnitCost(materials []MaterialCost, fees decimal.Decimal, plannedQty int) (decimal.Decimal, error) {
	if plannedQty <= 0 {
		return decimal.Zero, apperrors.InvalidBatchSize(plannedQty)
	}

	total := fees
	for _, m := range materials {
		total = total.Add(m.Quantity.Mul(m.UnitCost))
	}
	return total.DivRound(decimal.NewFromInt(int64(plannedQty)), costScale), nil
}
