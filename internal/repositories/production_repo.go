package repositories

import (
	"context"
	"errors"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductionOrderRepository interface {
	Create(ctx context.Context, db DB, order *models.ProductionOrder) error
	Get(ctx context.Context, db DB, id uuid.UUID) (*models.ProductionOrder, error)
	// GetForUpdate locks the order row so two state transitions cannot
	// interleave on the same order.
	GetForUpdate(ctx context.Context, db DB, id uuid.UUID) (*models.ProductionOrder, error)
	List(ctx context.Context, db DB, limit, offset int) ([]*models.ProductionOrder, error)
	UpdateStatus(ctx context.Context, db DB, id uuid.UUID, status models.OrderStatus) error
	UpdateHeader(ctx context.Context, db DB, order *models.ProductionOrder) error
	AddFinished(ctx context.Context, db DB, id uuid.UUID, delta int) error
	Delete(ctx context.Context, db DB, id uuid.UUID) error

	InsertSizeItems(ctx context.Context, db DB, items []models.SizeItem) error
	ListSizeItems(ctx context.Context, db DB, orderID uuid.UUID) ([]models.SizeItem, error)
	GetSizeItem(ctx context.Context, db DB, id uuid.UUID) (*models.SizeItem, error)
	UpdateSizeItemPlanned(ctx context.Context, db DB, id uuid.UUID, planned int) error
	AddSizeItemFinished(ctx context.Context, db DB, id uuid.UUID, delta int) error
	DeleteSizeItems(ctx context.Context, db DB, orderID uuid.UUID) error

	ReplaceImages(ctx context.Context, db DB, orderID uuid.UUID, urls []string) error
	ListImages(ctx context.Context, db DB, orderID uuid.UUID) ([]models.OrderImage, error)
	DeleteImages(ctx context.Context, db DB, orderID uuid.UUID) error

	InsertSteps(ctx context.Context, db DB, steps []models.ProgressStep) error
	ListSteps(ctx context.Context, db DB, orderID uuid.UUID) ([]models.ProgressStep, error)
	SetStepDone(ctx context.Context, db DB, stepID uuid.UUID, done bool) error
	DeleteSteps(ctx context.Context, db DB, orderID uuid.UUID) error
}

type productionOrderRepo struct{}

func NewProductionOrderRepo() ProductionOrderRepository {
	return &productionOrderRepo{}
}

const productionOrderColumns = `
	id, code, warehouse_id, output_variant_id, quantity_planned, quantity_finished,
	status, unit_cost, labor_fee, shipping_fee, packaging_fee, marketing_fee,
	printing_fee, other_fee, start_date, due_date, created_at, updated_at`

func scanProductionOrder(row pgx.Row) (*models.ProductionOrder, error) {
	o := &models.ProductionOrder{}
	err := row.Scan(&o.ID, &o.Code, &o.WarehouseID, &o.OutputVariantID, &o.QuantityPlanned, &o.QuantityFinished,
		&o.Status, &o.UnitCost, &o.Fees.Labor, &o.Fees.Shipping, &o.Fees.Packaging, &o.Fees.Marketing,
		&o.Fees.Printing, &o.Fees.Other, &o.StartDate, &o.DueDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *productionOrderRepo) Create(ctx context.Context, db DB, order *models.ProductionOrder) error {
	query := `
		INSERT INTO production_orders (id, code, warehouse_id, output_variant_id, quantity_planned, quantity_finished,
			status, unit_cost, labor_fee, shipping_fee, packaging_fee, marketing_fee, printing_fee, other_fee,
			start_date, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	`
	_, err := db.Exec(ctx, query, order.ID, order.Code, order.WarehouseID, order.OutputVariantID,
		order.QuantityPlanned, order.QuantityFinished, order.Status, order.UnitCost,
		order.Fees.Labor, order.Fees.Shipping, order.Fees.Packaging, order.Fees.Marketing,
		order.Fees.Printing, order.Fees.Other, order.StartDate, order.DueDate)
	if IsUniqueViolation(err) {
		return apperrors.DuplicateCode(order.Code)
	}
	return err
}

func (r *productionOrderRepo) Get(ctx context.Context, db DB, id uuid.UUID) (*models.ProductionOrder, error) {
	query := `SELECT` + productionOrderColumns + ` FROM production_orders WHERE id = $1`
	order, err := scanProductionOrder(db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("production order " + id.String())
	}
	return order, err
}

func (r *productionOrderRepo) GetForUpdate(ctx context.Context, db DB, id uuid.UUID) (*models.ProductionOrder, error) {
	query := `SELECT` + productionOrderColumns + ` FROM production_orders WHERE id = $1 FOR UPDATE`
	order, err := scanProductionOrder(db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("production order " + id.String())
	}
	return order, err
}

func (r *productionOrderRepo) List(ctx context.Context, db DB, limit, offset int) ([]*models.ProductionOrder, error) {
	query := `SELECT` + productionOrderColumns + ` FROM production_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ProductionOrder
	for rows.Next() {
		order, err := scanProductionOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func (r *productionOrderRepo) UpdateStatus(ctx context.Context, db DB, id uuid.UUID, status models.OrderStatus) error {
	query := `UPDATE production_orders SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.Exec(ctx, query, status, id)
	return err
}

func (r *productionOrderRepo) UpdateHeader(ctx context.Context, db DB, order *models.ProductionOrder) error {
	query := `
		UPDATE production_orders
		SET quantity_planned = $1, labor_fee = $2, shipping_fee = $3, packaging_fee = $4,
			marketing_fee = $5, printing_fee = $6, other_fee = $7, start_date = $8, due_date = $9,
			unit_cost = $10, updated_at = NOW()
		WHERE id = $11
	`
	_, err := db.Exec(ctx, query, order.QuantityPlanned, order.Fees.Labor, order.Fees.Shipping,
		order.Fees.Packaging, order.Fees.Marketing, order.Fees.Printing, order.Fees.Other,
		order.StartDate, order.DueDate, order.UnitCost, order.ID)
	return err
}

func (r *productionOrderRepo) AddFinished(ctx context.Context, db DB, id uuid.UUID, delta int) error {
	query := `UPDATE production_orders SET quantity_finished = quantity_finished + $1, updated_at = NOW() WHERE id = $2`
	_, err := db.Exec(ctx, query, delta, id)
	return err
}

func (r *productionOrderRepo) Delete(ctx context.Context, db DB, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM production_orders WHERE id = $1`, id)
	return err
}

func (r *productionOrderRepo) InsertSizeItems(ctx context.Context, db DB, items []models.SizeItem) error {
	query := `
		INSERT INTO production_order_sizes (id, order_id, label, quantity_planned, quantity_finished, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range items {
		if _, err := db.Exec(ctx, query, item.ID, item.OrderID, item.Label, item.QuantityPlanned, item.QuantityFinished, item.Position); err != nil {
			return err
		}
	}
	return nil
}

func (r *productionOrderRepo) ListSizeItems(ctx context.Context, db DB, orderID uuid.UUID) ([]models.SizeItem, error) {
	query := `
		SELECT id, order_id, label, quantity_planned, quantity_finished, position
		FROM production_order_sizes
		WHERE order_id = $1
		ORDER BY position
	`
	rows, err := db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.SizeItem
	for rows.Next() {
		var item models.SizeItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Label, &item.QuantityPlanned, &item.QuantityFinished, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *productionOrderRepo) GetSizeItem(ctx context.Context, db DB, id uuid.UUID) (*models.SizeItem, error) {
	item := &models.SizeItem{}
	query := `
		SELECT id, order_id, label, quantity_planned, quantity_finished, position
		FROM production_order_sizes
		WHERE id = $1
	`
	err := db.QueryRow(ctx, query, id).Scan(&item.ID, &item.OrderID, &item.Label, &item.QuantityPlanned, &item.QuantityFinished, &item.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("size item " + id.String())
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *productionOrderRepo) UpdateSizeItemPlanned(ctx context.Context, db DB, id uuid.UUID, planned int) error {
	query := `UPDATE production_order_sizes SET quantity_planned = $1 WHERE id = $2`
	_, err := db.Exec(ctx, query, planned, id)
	return err
}

func (r *productionOrderRepo) AddSizeItemFinished(ctx context.Context, db DB, id uuid.UUID, delta int) error {
	query := `UPDATE production_order_sizes SET quantity_finished = quantity_finished + $1 WHERE id = $2`
	_, err := db.Exec(ctx, query, delta, id)
	return err
}

func (r *productionOrderRepo) DeleteSizeItems(ctx context.Context, db DB, orderID uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM production_order_sizes WHERE order_id = $1`, orderID)
	return err
}

func (r *productionOrderRepo) ReplaceImages(ctx context.Context, db DB, orderID uuid.UUID, urls []string) error {
	if _, err := db.Exec(ctx, `DELETE FROM production_order_images WHERE order_id = $1`, orderID); err != nil {
		return err
	}
	query := `INSERT INTO production_order_images (id, order_id, image_url) VALUES ($1, $2, $3)`
	for _, url := range urls {
		if _, err := db.Exec(ctx, query, uuid.New(), orderID, url); err != nil {
			return err
		}
	}
	return nil
}

func (r *productionOrderRepo) ListImages(ctx context.Context, db DB, orderID uuid.UUID) ([]models.OrderImage, error) {
	query := `SELECT id, order_id, image_url FROM production_order_images WHERE order_id = $1 ORDER BY id`
	rows, err := db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.OrderImage
	for rows.Next() {
		var img models.OrderImage
		if err := rows.Scan(&img.ID, &img.OrderID, &img.URL); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *productionOrderRepo) DeleteImages(ctx context.Context, db DB, orderID uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM production_order_images WHERE order_id = $1`, orderID)
	return err
}

func (r *productionOrderRepo) InsertSteps(ctx context.Context, db DB, steps []models.ProgressStep) error {
	query := `
		INSERT INTO production_order_steps (id, order_id, name, done, deadline, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, step := range steps {
		if _, err := db.Exec(ctx, query, step.ID, step.OrderID, step.Name, step.Done, step.Deadline, step.Position); err != nil {
			return err
		}
	}
	return nil
}

func (r *productionOrderRepo) ListSteps(ctx context.Context, db DB, orderID uuid.UUID) ([]models.ProgressStep, error) {
	query := `
		SELECT id, order_id, name, done, deadline, position
		FROM production_order_steps
		WHERE order_id = $1
		ORDER BY position
	`
	rows, err := db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []models.ProgressStep
	for rows.Next() {
		var step models.ProgressStep
		if err := rows.Scan(&step.ID, &step.OrderID, &step.Name, &step.Done, &step.Deadline, &step.Position); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func (r *productionOrderRepo) SetStepDone(ctx context.Context, db DB, stepID uuid.UUID, done bool) error {
	query := `UPDATE production_order_steps SET done = $1 WHERE id = $2`
	_, err := db.Exec(ctx, query, done, stepID)
	return err
}

func (r *productionOrderRepo) DeleteSteps(ctx context.Context, db DB, orderID uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM production_order_steps WHERE order_id = $1`, orderID)
	return err
}
