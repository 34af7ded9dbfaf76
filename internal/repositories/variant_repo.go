package repositories

import (
	"context"
	"errors"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type VariantRepository interface {
	CreateProduct(ctx context.Context, db DB, product *models.Product) error
	GetProductByName(ctx context.Context, db DB, name string) (*models.Product, error)
	CreateVariant(ctx context.Context, db DB, variant *models.Variant) error
	GetVariant(ctx context.Context, db DB, id uuid.UUID) (*models.Variant, error)
	GetVariantBySKU(ctx context.Context, db DB, sku string) (*models.Variant, error)
	UpdateUnitCost(ctx context.Context, db DB, id uuid.UUID, cost decimal.Decimal) error
	UpdateSKU(ctx context.Context, db DB, id uuid.UUID, sku string) error
	ListWithStock(ctx context.Context, db DB, productType *models.ProductType, limit, offset int) ([]*models.VariantWithStock, error)
}

type variantRepo struct{}

func NewVariantRepo() VariantRepository {
	return &variantRepo{}
}

func (r *variantRepo) CreateProduct(ctx context.Context, db DB, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, type, base_unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := db.Exec(ctx, query, product.ID, product.Name, product.Type, product.BaseUnit)
	return err
}

func (r *variantRepo) GetProductByName(ctx context.Context, db DB, name string) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, name, type, base_unit, created_at, updated_at
		FROM products
		WHERE name = $1
	`
	err := db.QueryRow(ctx, query, name).Scan(&product.ID, &product.Name, &product.Type, &product.BaseUnit, &product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("product " + name)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *variantRepo) CreateVariant(ctx context.Context, db DB, variant *models.Variant) error {
	query := `
		INSERT INTO product_variants (id, product_id, sku, name, attributes, unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := db.Exec(ctx, query, variant.ID, variant.ProductID, variant.SKU, variant.Name, variant.Attributes, variant.UnitCost)
	if IsUniqueViolation(err) {
		return apperrors.DuplicateCode(variant.SKU)
	}
	return err
}

func (r *variantRepo) GetVariant(ctx context.Context, db DB, id uuid.UUID) (*models.Variant, error) {
	variant := &models.Variant{}
	query := `
		SELECT id, product_id, sku, name, attributes, unit_cost, created_at, updated_at
		FROM product_variants
		WHERE id = $1
	`
	err := db.QueryRow(ctx, query, id).Scan(&variant.ID, &variant.ProductID, &variant.SKU, &variant.Name, &variant.Attributes, &variant.UnitCost, &variant.CreatedAt, &variant.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("variant " + id.String())
	}
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *variantRepo) GetVariantBySKU(ctx context.Context, db DB, sku string) (*models.Variant, error) {
	variant := &models.Variant{}
	query := `
		SELECT id, product_id, sku, name, attributes, unit_cost, created_at, updated_at
		FROM product_variants
		WHERE sku = $1
	`
	err := db.QueryRow(ctx, query, sku).Scan(&variant.ID, &variant.ProductID, &variant.SKU, &variant.Name, &variant.Attributes, &variant.UnitCost, &variant.CreatedAt, &variant.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("variant " + sku)
	}
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *variantRepo) UpdateUnitCost(ctx context.Context, db DB, id uuid.UUID, cost decimal.Decimal) error {
	query := `
		UPDATE product_variants
		SET unit_cost = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := db.Exec(ctx, query, cost, id)
	return err
}

func (r *variantRepo) UpdateSKU(ctx context.Context, db DB, id uuid.UUID, sku string) error {
	query := `
		UPDATE product_variants
		SET sku = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := db.Exec(ctx, query, sku, id)
	if IsUniqueViolation(err) {
		return apperrors.DuplicateCode(sku)
	}
	return err
}

func (r *variantRepo) ListWithStock(ctx context.Context, db DB, productType *models.ProductType, limit, offset int) ([]*models.VariantWithStock, error) {
	query := `
		SELECT v.id, v.product_id, v.sku, v.name, v.attributes, v.unit_cost, v.created_at, v.updated_at,
		       p.name, p.type, p.base_unit,
		       COALESCE(SUM(s.quantity_on_hand), 0)
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		LEFT JOIN inventory_stocks s ON s.variant_id = v.id
		WHERE ($1::text IS NULL OR p.type = $1)
		GROUP BY v.id, v.product_id, v.sku, v.name, v.attributes, v.unit_cost, v.created_at, v.updated_at, p.name, p.type, p.base_unit
		ORDER BY v.sku
		LIMIT $2 OFFSET $3
	`
	rows, err := db.Query(ctx, query, productType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.VariantWithStock
	for rows.Next() {
		v := &models.VariantWithStock{}
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.Attributes, &v.UnitCost, &v.CreatedAt, &v.UpdatedAt,
			&v.ProductName, &v.ProductType, &v.BaseUnit, &v.OnHand); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
