package repositories

import (
	"context"

	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRepository is append-only: ledger rows are never updated. The
// only delete is the warehouse teardown path, which runs after the warehouse
// has been verified empty.
type TransactionRepository interface {
	Append(ctx context.Context, db DB, txn *models.InventoryTransaction) error
	ListByStock(ctx context.Context, db DB, warehouseID, variantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error)
	SumByStock(ctx context.Context, db DB, warehouseID, variantID uuid.UUID) (decimal.Decimal, error)
	DeleteForWarehouse(ctx context.Context, db DB, warehouseID uuid.UUID) error
}

type transactionRepo struct{}

func NewTransactionRepo() TransactionRepository {
	return &transactionRepo{}
}

func (r *transactionRepo) Append(ctx context.Context, db DB, txn *models.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (id, warehouse_id, variant_id, transaction_type, quantity, reference_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := db.Exec(ctx, query, txn.ID, txn.WarehouseID, txn.VariantID, txn.Kind, txn.Quantity, txn.ReferenceID, txn.Note)
	return err
}

func (r *transactionRepo) ListByStock(ctx context.Context, db DB, warehouseID, variantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	query := `
		SELECT id, warehouse_id, variant_id, transaction_type, quantity, reference_id, note, created_at
		FROM inventory_transactions
		WHERE warehouse_id = $1 AND variant_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := db.Query(ctx, query, warehouseID, variantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.InventoryTransaction
	for rows.Next() {
		t := &models.InventoryTransaction{}
		if err := rows.Scan(&t.ID, &t.WarehouseID, &t.VariantID, &t.Kind, &t.Quantity, &t.ReferenceID, &t.Note, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactionRepo) SumByStock(ctx context.Context, db DB, warehouseID, variantID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_transactions
		WHERE warehouse_id = $1 AND variant_id = $2
	`
	err := db.QueryRow(ctx, query, warehouseID, variantID).Scan(&sum)
	return sum, err
}

func (r *transactionRepo) DeleteForWarehouse(ctx context.Context, db DB, warehouseID uuid.UUID) error {
	query := `DELETE FROM inventory_transactions WHERE warehouse_id = $1`
	_, err := db.Exec(ctx, query, warehouseID)
	return err
}
