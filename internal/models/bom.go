package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOM is the named recipe owned by a finished-good variant.
type BOM struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OutputVariantID uuid.UUID `json:"output_variant_id" db:"output_variant_id"`
	Name            string    `json:"name" db:"name"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// BOMLine is one material requirement, stored as a per-unit-of-output rate so
// the recipe stays valid when the batch size changes.
type BOMLine struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	BOMID             uuid.UUID       `json:"bom_id" db:"bom_id"`
	MaterialVariantID uuid.UUID       `json:"material_variant_id" db:"material_variant_id"`
	QtyPerUnit        decimal.Decimal `json:"quantity_needed" db:"quantity_needed"`
}

// MaterialRequirement is an input line expressed as a total for the whole
// batch, the way quick orders state material needs.
type MaterialRequirement struct {
	MaterialVariantID uuid.UUID       `json:"material_variant_id"`
	TotalQty          decimal.Decimal `json:"total_quantity"`
}
