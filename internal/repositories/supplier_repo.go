package repositories

import (
	"context"
	"errors"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SupplierRepository interface {
	Create(ctx context.Context, db DB, supplier *models.Supplier) error
	Get(ctx context.Context, db DB, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, db DB, limit, offset int) ([]*models.Supplier, error)
}

type supplierRepo struct{}

func NewSupplierRepo() SupplierRepository {
	return &supplierRepo{}
}

func (r *supplierRepo) Create(ctx context.Context, db DB, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, phone, address, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := db.Exec(ctx, query, supplier.ID, supplier.Name, supplier.Phone, supplier.Address)
	return err
}

func (r *supplierRepo) Get(ctx context.Context, db DB, id uuid.UUID) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	query := `SELECT id, name, phone, address, created_at FROM suppliers WHERE id = $1`
	err := db.QueryRow(ctx, query, id).Scan(&supplier.ID, &supplier.Name, &supplier.Phone, &supplier.Address, &supplier.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("supplier " + id.String())
	}
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *supplierRepo) List(ctx context.Context, db DB, limit, offset int) ([]*models.Supplier, error) {
	query := `SELECT id, name, phone, address, created_at FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Supplier
	for rows.Next() {
		supplier := &models.Supplier{}
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.Phone, &supplier.Address, &supplier.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, supplier)
	}
	return out, rows.Err()
}
