package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock is the current on-hand snapshot for one (warehouse, variant) pair.
// Rows are created implicitly on first movement in and never go negative.
type Stock struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	WarehouseID uuid.UUID       `json:"warehouse_id" db:"warehouse_id"`
	VariantID   uuid.UUID       `json:"variant_id" db:"variant_id"`
	OnHand      decimal.Decimal `json:"quantity_on_hand" db:"quantity_on_hand"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// TransactionKind classifies a ledger entry by the business event that
// produced it. Direction is carried by the sign of the quantity.
type TransactionKind string

const (
	KindPurchaseIn    TransactionKind = "purchase_in"
	KindProductionOut TransactionKind = "production_out"
	KindProductionIn  TransactionKind = "production_in"
	KindTransferIn    TransactionKind = "transfer_in"
	KindTransferOut   TransactionKind = "transfer_out"
)

// InventoryTransaction is one immutable, append-only ledger entry. The ledger
// is the audit trail; the Stock snapshot is derivable from it.
type InventoryTransaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	WarehouseID uuid.UUID       `json:"warehouse_id" db:"warehouse_id"`
	VariantID   uuid.UUID       `json:"variant_id" db:"variant_id"`
	Kind        TransactionKind `json:"transaction_type" db:"transaction_type"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	ReferenceID *uuid.UUID      `json:"reference_id" db:"reference_id"`
	Note        string          `json:"note" db:"note"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
