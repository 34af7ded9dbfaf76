package repositories

import (
	"context"
	"errors"

	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type StockRepository interface {
	// GetForUpdate locks the (warehouse, variant) row for the remainder of
	// the transaction. Returns (nil, nil) when no row exists yet.
	GetForUpdate(ctx context.Context, db DB, warehouseID, variantID uuid.UUID) (*models.Stock, error)
	Insert(ctx context.Context, db DB, stock *models.Stock) error
	UpdateOnHand(ctx context.Context, db DB, id uuid.UUID, onHand decimal.Decimal) error
	OnHand(ctx context.Context, db DB, warehouseID, variantID uuid.UUID) (decimal.Decimal, error)
	TotalOnHand(ctx context.Context, db DB, variantID uuid.UUID) (decimal.Decimal, error)
	SumForWarehouse(ctx context.Context, db DB, warehouseID uuid.UUID) (decimal.Decimal, error)
	ListByWarehouse(ctx context.Context, db DB, warehouseID uuid.UUID) ([]*models.Stock, error)
	ListAll(ctx context.Context, db DB) ([]*models.Stock, error)
	DeleteForWarehouse(ctx context.Context, db DB, warehouseID uuid.UUID) error
}

type stockRepo struct{}

func NewStockRepo() StockRepository {
	return &stockRepo{}
}

func (r *stockRepo) GetForUpdate(ctx context.Context, db DB, warehouseID, variantID uuid.UUID) (*models.Stock, error) {
	stock := &models.Stock{}
	query := `
		SELECT id, warehouse_id, variant_id, quantity_on_hand, updated_at
		FROM inventory_stocks
		WHERE warehouse_id = $1 AND variant_id = $2
		FOR UPDATE
	`
	err := db.QueryRow(ctx, query, warehouseID, variantID).Scan(&stock.ID, &stock.WarehouseID, &stock.VariantID, &stock.OnHand, &stock.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return stock, nil
}

func (r *stockRepo) Insert(ctx context.Context, db DB, stock *models.Stock) error {
	query := `
		INSERT INTO inventory_stocks (id, warehouse_id, variant_id, quantity_on_hand, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := db.Exec(ctx, query, stock.ID, stock.WarehouseID, stock.VariantID, stock.OnHand)
	return err
}

func (r *stockRepo) UpdateOnHand(ctx context.Context, db DB, id uuid.UUID, onHand decimal.Decimal) error {
	query := `
		UPDATE inventory_stocks
		SET quantity_on_hand = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := db.Exec(ctx, query, onHand, id)
	return err
}

func (r *stockRepo) OnHand(ctx context.Context, db DB, warehouseID, variantID uuid.UUID) (decimal.Decimal, error) {
	var onHand decimal.Decimal
	query := `
		SELECT COALESCE(SUM(quantity_on_hand), 0)
		FROM inventory_stocks
		WHERE warehouse_id = $1 AND variant_id = $2
	`
	err := db.QueryRow(ctx, query, warehouseID, variantID).Scan(&onHand)
	return onHand, err
}

func (r *stockRepo) TotalOnHand(ctx context.Context, db DB, variantID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(quantity_on_hand), 0)
		FROM inventory_stocks
		WHERE variant_id = $1
	`
	err := db.QueryRow(ctx, query, variantID).Scan(&total)
	return total, err
}

func (r *stockRepo) SumForWarehouse(ctx context.Context, db DB, warehouseID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(quantity_on_hand), 0)
		FROM inventory_stocks
		WHERE warehouse_id = $1
	`
	err := db.QueryRow(ctx, query, warehouseID).Scan(&total)
	return total, err
}

func (r *stockRepo) ListByWarehouse(ctx context.Context, db DB, warehouseID uuid.UUID) ([]*models.Stock, error) {
	query := `
		SELECT id, warehouse_id, variant_id, quantity_on_hand, updated_at
		FROM inventory_stocks
		WHERE warehouse_id = $1
		ORDER BY variant_id
	`
	rows, err := db.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStocks(rows)
}

func (r *stockRepo) ListAll(ctx context.Context, db DB) ([]*models.Stock, error) {
	query := `
		SELECT id, warehouse_id, variant_id, quantity_on_hand, updated_at
		FROM inventory_stocks
		ORDER BY warehouse_id, variant_id
	`
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStocks(rows)
}

func (r *stockRepo) DeleteForWarehouse(ctx context.Context, db DB, warehouseID uuid.UUID) error {
	query := `DELETE FROM inventory_stocks WHERE warehouse_id = $1`
	_, err := db.Exec(ctx, query, warehouseID)
	return err
}

func scanStocks(rows pgx.Rows) ([]*models.Stock, error) {
	var out []*models.Stock
	for rows.Next() {
		s := &models.Stock{}
		if err := rows.Scan(&s.ID, &s.WarehouseID, &s.VariantID, &s.OnHand, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
