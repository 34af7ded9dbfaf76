// Package bom stores and evaluates material recipes. Recipes are kept as
// per-unit-of-output rates so a recipe authored for one batch size remains
// valid for any other.
package bom

import (
	"context"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/models"
	"fashionwms/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rateScale bounds per-unit rates derived from batch totals.
const rateScale = 6

// Requirement is one resolved material need for a concrete batch.
type Requirement struct {
	MaterialVariantID uuid.UUID
	QtyPerUnit        decimal.Decimal
	TotalQty          decimal.Decimal
}

type Resolver interface {
	// DefineRecipe replaces the recipe owned by the output variant. Lines
	// are per-unit rates.
	DefineRecipe(ctx context.Context, db repositories.DB, outputVariantID uuid.UUID, name string, lines []models.BOMLine) error
	// RecipeFor loads the recipe, failing with RecipeMissing when the
	// output variant has none.
	RecipeFor(ctx context.Context, db repositories.DB, outputVariantID uuid.UUID, resource string) (*models.BOM, []models.BOMLine, error)
	// TotalRequirements scales the recipe to a batch.
	TotalRequirements(lines []models.BOMLine, batchQty int) ([]Requirement, error)
}

type resolver struct {
	bomRepo repositories.BOMRepository
}

func NewResolver(bomRepo repositories.BOMRepository) Resolver {
	return &resolver{bomRepo: bomRepo}
}

func (r *resolver) DefineRecipe(ctx context.Context, db repositories.DB, outputVariantID uuid.UUID, name string, lines []models.BOMLine) error {
	if len(lines) == 0 {
		return apperrors.Validation("a recipe needs at least one material line")
	}
	for _, line := range lines {
		if line.QtyPerUnit.Sign() <= 0 {
			return apperrors.Validation("material %s: per-unit quantity must be positive", line.MaterialVariantID)
		}
	}

	header := &models.BOM{
		ID:              uuid.New(),
		OutputVariantID: outputVariantID,
		Name:            name,
	}
	withIDs := make([]models.BOMLine, len(lines))
	for i, line := range lines {
		line.ID = uuid.New()
		line.BOMID = header.ID
		withIDs[i] = line
	}
	return r.bomRepo.Replace(ctx, db, header, withIDs)
}

func (r *resolver) RecipeFor(ctx context.Context, db repositories.DB, outputVariantID uuid.UUID, resource string) (*models.BOM, []models.BOMLine, error) {
	header, lines, err := r.bomRepo.GetByOutputVariant(ctx, db, outputVariantID)
	if err != nil {
		return nil, nil, err
	}
	if header == nil || len(lines) == 0 {
		return nil, nil, apperrors.RecipeMissing(resource)
	}
	return header, lines, nil
}

func (r *resolver) TotalRequirements(lines []models.BOMLine, batchQty int) ([]Requirement, error) {
	if batchQty <= 0 {
		return nil, apperrors.InvalidBatchSize(batchQty)
	}

	batch := decimal.NewFromInt(int64(batchQty))
	out := make([]Requirement, len(lines))
	for i, line := range lines {
		out[i] = Requirement{
			MaterialVariantID: line.MaterialVariantID,
			QtyPerUnit:        line.QtyPerUnit,
			TotalQty:          line.QtyPerUnit.Mul(batch),
		}
	}
	return out, nil
}

// PerUnitRates converts total-batch material requirements, the way quick
// orders state them, into per-unit recipe lines.
func PerUnitRates(totals []models.MaterialRequirement, batchQty int) ([]models.BOMLine, error) {
	if batchQty <= 0 {
		return nil, apperrors.InvalidBatchSize(batchQty)
	}

	batch := decimal.NewFromInt(int64(batchQty))
	lines := make([]models.BOMLine, len(totals))
	for i, total := range totals {
		if total.TotalQty.Sign() <= 0 {
			return nil, apperrors.Validation("material %s: total quantity must be positive", total.MaterialVariantID)
		}
		lines[i] = models.BOMLine{
			MaterialVariantID: total.MaterialVariantID,
			QtyPerUnit:        total.TotalQty.DivRound(batch, rateScale),
		}
	}
	return lines, nil
}
