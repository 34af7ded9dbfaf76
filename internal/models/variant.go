package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType distinguishes raw materials from sellable finished goods.
type ProductType string

const (
	ProductTypeMaterial     ProductType = "material"
	ProductTypeFinishedGood ProductType = "finished_good"
)

// Product is the parent grouping for variants, e.g. "Shirt Button" or
// "Summer Dress 2025". Variants carry the SKU and the cost.
type Product struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Type      ProductType `json:"type" db:"type"`
	BaseUnit  string      `json:"base_unit" db:"base_unit"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// Variant is a purchasable/usable unit identified by a globally unique SKU.
// UnitCost is the global weighted-average cost and is mutated only by the
// costing engine.
type Variant struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ProductID  uuid.UUID       `json:"product_id" db:"product_id"`
	SKU        string          `json:"sku" db:"sku"`
	Name       string          `json:"name" db:"name"`
	Attributes string          `json:"attributes" db:"attributes"`
	UnitCost   decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// VariantWithStock is the listing row: a variant plus its on-hand total
// summed across all warehouses.
type VariantWithStock struct {
	Variant
	ProductName string          `json:"product_name"`
	ProductType ProductType     `json:"product_type"`
	BaseUnit    string          `json:"base_unit"`
	OnHand      decimal.Decimal `json:"quantity_on_hand"`
}
