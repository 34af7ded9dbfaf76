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

type PurchaseRepository interface {
	CreateOrder(ctx context.Context, db DB, order *models.PurchaseOrder) error
	GetOrder(ctx context.Context, db DB, id uuid.UUID) (*models.PurchaseOrder, error)
	ListOrders(ctx context.Context, db DB, limit, offset int) ([]*models.PurchaseOrder, error)
	UpdateOrderHeader(ctx context.Context, db DB, order *models.PurchaseOrder) error
	DeleteOrder(ctx context.Context, db DB, id uuid.UUID) error

	InsertLine(ctx context.Context, db DB, line *models.PurchaseLine) error
	GetLine(ctx context.Context, db DB, id uuid.UUID) (*models.PurchaseLine, error)
	ListLines(ctx context.Context, db DB, orderID uuid.UUID) ([]models.PurchaseLine, error)
	UpdateLine(ctx context.Context, db DB, line *models.PurchaseLine) error
	DeleteLines(ctx context.Context, db DB, orderID uuid.UUID) error

	// HistoryForVariant sums (Σ qty, Σ qty×price) over every purchase line
	// ever posted for the variant — the idempotent costing basis.
	HistoryForVariant(ctx context.Context, db DB, variantID uuid.UUID) (totalQty, totalValue decimal.Decimal, err error)
}

type purchaseRepo struct{}

func NewPurchaseRepo() PurchaseRepository {
	return &purchaseRepo{}
}

func (r *purchaseRepo) CreateOrder(ctx context.Context, db DB, order *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, po_code, warehouse_id, supplier_id, order_date, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := db.Exec(ctx, query, order.ID, order.Code, order.WarehouseID, order.SupplierID, order.OrderDate, order.TotalAmount)
	if IsUniqueViolation(err) {
		return apperrors.DuplicateCode(order.Code)
	}
	return err
}

func (r *purchaseRepo) GetOrder(ctx context.Context, db DB, id uuid.UUID) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}
	query := `
		SELECT id, po_code, warehouse_id, supplier_id, order_date, total_amount, created_at
		FROM purchase_orders
		WHERE id = $1
	`
	err := db.QueryRow(ctx, query, id).Scan(&order.ID, &order.Code, &order.WarehouseID, &order.SupplierID, &order.OrderDate, &order.TotalAmount, &order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("purchase order " + id.String())
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *purchaseRepo) ListOrders(ctx context.Context, db DB, limit, offset int) ([]*models.PurchaseOrder, error) {
	query := `
		SELECT id, po_code, warehouse_id, supplier_id, order_date, total_amount, created_at
		FROM purchase_orders
		ORDER BY order_date DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PurchaseOrder
	for rows.Next() {
		order := &models.PurchaseOrder{}
		if err := rows.Scan(&order.ID, &order.Code, &order.WarehouseID, &order.SupplierID, &order.OrderDate, &order.TotalAmount, &order.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func (r *purchaseRepo) UpdateOrderHeader(ctx context.Context, db DB, order *models.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET po_code = $1, supplier_id = $2, order_date = $3, total_amount = $4
		WHERE id = $5
	`
	_, err := db.Exec(ctx, query, order.Code, order.SupplierID, order.OrderDate, order.TotalAmount, order.ID)
	if IsUniqueViolation(err) {
		return apperrors.DuplicateCode(order.Code)
	}
	return err
}

func (r *purchaseRepo) DeleteOrder(ctx context.Context, db DB, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	return err
}

func (r *purchaseRepo) InsertLine(ctx context.Context, db DB, line *models.PurchaseLine) error {
	query := `
		INSERT INTO purchase_order_items (id, purchase_order_id, variant_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.Exec(ctx, query, line.ID, line.OrderID, line.VariantID, line.Quantity, line.UnitPrice, line.Subtotal)
	return err
}

func (r *purchaseRepo) GetLine(ctx context.Context, db DB, id uuid.UUID) (*models.PurchaseLine, error) {
	line := &models.PurchaseLine{}
	query := `
		SELECT id, purchase_order_id, variant_id, quantity, unit_price, subtotal
		FROM purchase_order_items
		WHERE id = $1
	`
	err := db.QueryRow(ctx, query, id).Scan(&line.ID, &line.OrderID, &line.VariantID, &line.Quantity, &line.UnitPrice, &line.Subtotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("purchase line " + id.String())
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (r *purchaseRepo) ListLines(ctx context.Context, db DB, orderID uuid.UUID) ([]models.PurchaseLine, error) {
	query := `
		SELECT id, purchase_order_id, variant_id, quantity, unit_price, subtotal
		FROM purchase_order_items
		WHERE purchase_order_id = $1
		ORDER BY id
	`
	rows, err := db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PurchaseLine
	for rows.Next() {
		var line models.PurchaseLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.VariantID, &line.Quantity, &line.UnitPrice, &line.Subtotal); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (r *purchaseRepo) UpdateLine(ctx context.Context, db DB, line *models.PurchaseLine) error {
	query := `
		UPDATE purchase_order_items
		SET quantity = $1, unit_price = $2, subtotal = $3
		WHERE id = $4
	`
	_, err := db.Exec(ctx, query, line.Quantity, line.UnitPrice, line.Subtotal, line.ID)
	return err
}

func (r *purchaseRepo) DeleteLines(ctx context.Context, db DB, orderID uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM purchase_order_items WHERE purchase_order_id = $1`, orderID)
	return err
}

func (r *purchaseRepo) HistoryForVariant(ctx context.Context, db DB, variantID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var totalQty, totalValue decimal.Decimal
	query := `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * unit_price), 0)
		FROM purchase_order_items
		WHERE variant_id = $1
	`
	err := db.QueryRow(ctx, query, variantID).Scan(&totalQty, &totalValue)
	return totalQty, totalValue, err
}
