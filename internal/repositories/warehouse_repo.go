package repositories

import (
	"context"
	"errors"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WarehouseRepository interface {
	CreateBrand(ctx context.Context, db DB, brand *models.Brand) error
	GetBrand(ctx context.Context, db DB, id uuid.UUID) (*models.Brand, error)
	ListBrands(ctx context.Context, db DB) ([]*models.Brand, error)

	Create(ctx context.Context, db DB, warehouse *models.Warehouse) error
	Get(ctx context.Context, db DB, id uuid.UUID) (*models.Warehouse, error)
	// List returns all warehouses, or only those in allowedIDs when the
	// caller supplies a visibility scope. An empty non-nil scope yields
	// nothing.
	List(ctx context.Context, db DB, allowedIDs []uuid.UUID) ([]*models.Warehouse, error)
	UpdateNameAddress(ctx context.Context, db DB, id uuid.UUID, name, address string) error
	Delete(ctx context.Context, db DB, id uuid.UUID) error

	HasPurchaseOrders(ctx context.Context, db DB, id uuid.UUID) (bool, error)
	HasProductionOrders(ctx context.Context, db DB, id uuid.UUID) (bool, error)
}

type warehouseRepo struct{}

func NewWarehouseRepo() WarehouseRepository {
	return &warehouseRepo{}
}

func (r *warehouseRepo) CreateBrand(ctx context.Context, db DB, brand *models.Brand) error {
	query := `INSERT INTO brands (id, name, created_at) VALUES ($1, $2, NOW())`
	_, err := db.Exec(ctx, query, brand.ID, brand.Name)
	return err
}

func (r *warehouseRepo) GetBrand(ctx context.Context, db DB, id uuid.UUID) (*models.Brand, error) {
	brand := &models.Brand{}
	query := `SELECT id, name, created_at FROM brands WHERE id = $1`
	err := db.QueryRow(ctx, query, id).Scan(&brand.ID, &brand.Name, &brand.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("brand " + id.String())
	}
	if err != nil {
		return nil, err
	}
	return brand, nil
}

func (r *warehouseRepo) ListBrands(ctx context.Context, db DB) ([]*models.Brand, error) {
	rows, err := db.Query(ctx, `SELECT id, name, created_at FROM brands ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Brand
	for rows.Next() {
		brand := &models.Brand{}
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, brand)
	}
	return out, rows.Err()
}

func (r *warehouseRepo) Create(ctx context.Context, db DB, warehouse *models.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, brand_id, name, is_central, address, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := db.Exec(ctx, query, warehouse.ID, warehouse.BrandID, warehouse.Name, warehouse.IsCentral, warehouse.Address)
	return err
}

func (r *warehouseRepo) Get(ctx context.Context, db DB, id uuid.UUID) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{}
	query := `SELECT id, brand_id, name, is_central, address, created_at FROM warehouses WHERE id = $1`
	err := db.QueryRow(ctx, query, id).Scan(&warehouse.ID, &warehouse.BrandID, &warehouse.Name, &warehouse.IsCentral, &warehouse.Address, &warehouse.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("warehouse " + id.String())
	}
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (r *warehouseRepo) List(ctx context.Context, db DB, allowedIDs []uuid.UUID) ([]*models.Warehouse, error) {
	if allowedIDs != nil && len(allowedIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, brand_id, name, is_central, address, created_at
		FROM warehouses
		WHERE ($1::uuid[] IS NULL OR id = ANY($1))
		ORDER BY brand_id, is_central DESC, name
	`
	rows, err := db.Query(ctx, query, allowedIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Warehouse
	for rows.Next() {
		warehouse := &models.Warehouse{}
		if err := rows.Scan(&warehouse.ID, &warehouse.BrandID, &warehouse.Name, &warehouse.IsCentral, &warehouse.Address, &warehouse.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, warehouse)
	}
	return out, rows.Err()
}

func (r *warehouseRepo) UpdateNameAddress(ctx context.Context, db DB, id uuid.UUID, name, address string) error {
	query := `UPDATE warehouses SET name = $1, address = $2 WHERE id = $3`
	_, err := db.Exec(ctx, query, name, address, id)
	return err
}

func (r *warehouseRepo) Delete(ctx context.Context, db DB, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id)
	return err
}

func (r *warehouseRepo) HasPurchaseOrders(ctx context.Context, db DB, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM purchase_orders WHERE warehouse_id = $1)`
	err := db.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}

func (r *warehouseRepo) HasProductionOrders(ctx context.Context, db DB, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM production_orders WHERE warehouse_id = $1)`
	err := db.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}
