package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Supplier struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PurchaseOrder is a posted supplier receipt. TotalAmount is derived from the
// lines and re-derived on every update.
type PurchaseOrder struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Code        string          `json:"po_code" db:"po_code"`
	WarehouseID uuid.UUID       `json:"warehouse_id" db:"warehouse_id"`
	SupplierID  uuid.UUID       `json:"supplier_id" db:"supplier_id"`
	OrderDate   time.Time       `json:"order_date" db:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type PurchaseLine struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"purchase_order_id" db:"purchase_order_id"`
	VariantID uuid.UUID       `json:"variant_id" db:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}
