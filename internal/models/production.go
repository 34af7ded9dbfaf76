package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusDraft      OrderStatus = "draft"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
)

// CostComponents are the fixed fees folded into the finished-good unit cost
// at order creation.
type CostComponents struct {
	Labor     decimal.Decimal `json:"labor_fee" db:"labor_fee"`
	Shipping  decimal.Decimal `json:"shipping_fee" db:"shipping_fee"`
	Packaging decimal.Decimal `json:"packaging_fee" db:"packaging_fee"`
	Marketing decimal.Decimal `json:"marketing_fee" db:"marketing_fee"`
	Printing  decimal.Decimal `json:"printing_fee" db:"printing_fee"`
	Other     decimal.Decimal `json:"other_fee" db:"other_fee"`
}

func (c CostComponents) Total() decimal.Decimal {
	return c.Labor.Add(c.Shipping).Add(c.Packaging).Add(c.Marketing).Add(c.Printing).Add(c.Other)
}

// ProductionOrder converts raw materials into a finished-good variant.
// QuantityPlanned is always the sum of the size sub-items.
type ProductionOrder struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Code             string          `json:"code" db:"code"`
	WarehouseID      uuid.UUID       `json:"warehouse_id" db:"warehouse_id"`
	OutputVariantID  uuid.UUID       `json:"output_variant_id" db:"output_variant_id"`
	QuantityPlanned  int             `json:"quantity_planned" db:"quantity_planned"`
	QuantityFinished int             `json:"quantity_finished" db:"quantity_finished"`
	Status           OrderStatus     `json:"status" db:"status"`
	UnitCost         decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	Fees             CostComponents  `json:"fees"`
	StartDate        time.Time       `json:"start_date" db:"start_date"`
	DueDate          time.Time       `json:"due_date" db:"due_date"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// SizeItem is one size row of an order, e.g. (M, 120 planned, 80 finished).
type SizeItem struct {
	ID               uuid.UUID `json:"id" db:"id"`
	OrderID          uuid.UUID `json:"order_id" db:"order_id"`
	Label            string    `json:"label" db:"label"`
	QuantityPlanned  int       `json:"quantity_planned" db:"quantity_planned"`
	QuantityFinished int       `json:"quantity_finished" db:"quantity_finished"`
	Position         int       `json:"position" db:"position"`
}

// MaterialReservation records the exact material quantity committed to an
// order at start time. Once production has started this row, not the BOM, is
// the ground truth for what the order consumed.
type MaterialReservation struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	OrderID           uuid.UUID       `json:"order_id" db:"order_id"`
	MaterialVariantID uuid.UUID       `json:"material_variant_id" db:"material_variant_id"`
	Quantity          decimal.Decimal `json:"quantity" db:"quantity"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// ReceiveLog is one partial goods-receipt event. Append-only except for the
// explicit revert operation, which deletes the row after compensating it.
type ReceiveLog struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	SizeItemID uuid.UUID `json:"size_item_id" db:"size_item_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ProgressStep is one typed production step on an order (cutting, sewing,
// ironing, ...), kept as a fixed ordered list.
type ProgressStep struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	OrderID  uuid.UUID  `json:"order_id" db:"order_id"`
	Name     string     `json:"name" db:"name"`
	Done     bool       `json:"done" db:"done"`
	Deadline *time.Time `json:"deadline" db:"deadline"`
	Position int        `json:"position" db:"position"`
}

// OrderImage is an already-uploaded image URL attached to an order.
type OrderImage struct {
	ID      uuid.UUID `json:"id" db:"id"`
	OrderID uuid.UUID `json:"order_id" db:"order_id"`
	URL     string    `json:"image_url" db:"image_url"`
}

// DefaultProgressSteps is the garment workshop's standard step list, seeded
// on every new order.
var DefaultProgressSteps = []string{"cutting", "printing", "sewing", "finishing", "packing"}
