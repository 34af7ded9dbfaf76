package repositories

import (
	"context"
	"errors"

	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BOMRepository interface {
	// Replace installs the recipe for the output variant, dropping any
	// previous recipe. Only callable while the owning order is in draft.
	Replace(ctx context.Context, db DB, bom *models.BOM, lines []models.BOMLine) error
	// GetByOutputVariant returns (nil, nil, nil) when no recipe exists.
	GetByOutputVariant(ctx context.Context, db DB, outputVariantID uuid.UUID) (*models.BOM, []models.BOMLine, error)
	UpdateLineRate(ctx context.Context, db DB, lineID uuid.UUID, line models.BOMLine) error
}

type bomRepo struct{}

func NewBOMRepo() BOMRepository {
	return &bomRepo{}
}

func (r *bomRepo) Replace(ctx context.Context, db DB, bom *models.BOM, lines []models.BOMLine) error {
	del := `
		DELETE FROM bom_materials
		WHERE bom_id IN (SELECT id FROM bom WHERE output_variant_id = $1)
	`
	if _, err := db.Exec(ctx, del, bom.OutputVariantID); err != nil {
		return err
	}
	if _, err := db.Exec(ctx, `DELETE FROM bom WHERE output_variant_id = $1`, bom.OutputVariantID); err != nil {
		return err
	}

	insertBOM := `
		INSERT INTO bom (id, output_variant_id, name, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := db.Exec(ctx, insertBOM, bom.ID, bom.OutputVariantID, bom.Name); err != nil {
		return err
	}

	insertLine := `
		INSERT INTO bom_materials (id, bom_id, material_variant_id, quantity_needed)
		VALUES ($1, $2, $3, $4)
	`
	for _, line := range lines {
		if _, err := db.Exec(ctx, insertLine, line.ID, bom.ID, line.MaterialVariantID, line.QtyPerUnit); err != nil {
			return err
		}
	}
	return nil
}

func (r *bomRepo) GetByOutputVariant(ctx context.Context, db DB, outputVariantID uuid.UUID) (*models.BOM, []models.BOMLine, error) {
	bom := &models.BOM{}
	query := `
		SELECT id, output_variant_id, name, created_at
		FROM bom
		WHERE output_variant_id = $1
	`
	err := db.QueryRow(ctx, query, outputVariantID).Scan(&bom.ID, &bom.OutputVariantID, &bom.Name, &bom.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	lineQuery := `
		SELECT id, bom_id, material_variant_id, quantity_needed
		FROM bom_materials
		WHERE bom_id = $1
		ORDER BY material_variant_id
	`
	rows, err := db.Query(ctx, lineQuery, bom.ID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var lines []models.BOMLine
	for rows.Next() {
		var line models.BOMLine
		if err := rows.Scan(&line.ID, &line.BOMID, &line.MaterialVariantID, &line.QtyPerUnit); err != nil {
			return nil, nil, err
		}
		lines = append(lines, line)
	}
	return bom, lines, rows.Err()
}

func (r *bomRepo) UpdateLineRate(ctx context.Context, db DB, lineID uuid.UUID, line models.BOMLine) error {
	query := `
		UPDATE bom_materials
		SET quantity_needed = $1
		WHERE id = $2
	`
	_, err := db.Exec(ctx, query, line.QtyPerUnit, lineID)
	return err
}
