package repositories

import (
	"context"
	"errors"

	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ReservationRepository interface {
	Insert(ctx context.Context, db DB, res *models.MaterialReservation) error
	ListByOrder(ctx context.Context, db DB, orderID uuid.UUID) ([]models.MaterialReservation, error)
	// GetByOrderAndMaterial returns (nil, nil) when the order holds no
	// reservation for the material.
	GetByOrderAndMaterial(ctx context.Context, db DB, orderID, materialVariantID uuid.UUID) (*models.MaterialReservation, error)
	UpdateQuantity(ctx context.Context, db DB, id uuid.UUID, quantity decimal.Decimal) error
	DeleteByOrder(ctx context.Context, db DB, orderID uuid.UUID) error
}

type reservationRepo struct{}

func NewReservationRepo() ReservationRepository {
	return &reservationRepo{}
}

func (r *reservationRepo) Insert(ctx context.Context, db DB, res *models.MaterialReservation) error {
	query := `
		INSERT INTO production_material_reservations (id, order_id, material_variant_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := db.Exec(ctx, query, res.ID, res.OrderID, res.MaterialVariantID, res.Quantity)
	return err
}

func (r *reservationRepo) ListByOrder(ctx context.Context, db DB, orderID uuid.UUID) ([]models.MaterialReservation, error) {
	query := `
		SELECT id, order_id, material_variant_id, quantity, created_at
		FROM production_material_reservations
		WHERE order_id = $1
		ORDER BY material_variant_id
	`
	rows, err := db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MaterialReservation
	for rows.Next() {
		var res models.MaterialReservation
		if err := rows.Scan(&res.ID, &res.OrderID, &res.MaterialVariantID, &res.Quantity, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *reservationRepo) GetByOrderAndMaterial(ctx context.Context, db DB, orderID, materialVariantID uuid.UUID) (*models.MaterialReservation, error) {
	res := &models.MaterialReservation{}
	query := `
		SELECT id, order_id, material_variant_id, quantity, created_at
		FROM production_material_reservations
		WHERE order_id = $1 AND material_variant_id = $2
	`
	err := db.QueryRow(ctx, query, orderID, materialVariantID).Scan(&res.ID, &res.OrderID, &res.MaterialVariantID, &res.Quantity, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepo) UpdateQuantity(ctx context.Context, db DB, id uuid.UUID, quantity decimal.Decimal) error {
	query := `UPDATE production_material_reservations SET quantity = $1 WHERE id = $2`
	_, err := db.Exec(ctx, query, quantity, id)
	return err
}

func (r *reservationRepo) DeleteByOrder(ctx context.Context, db DB, orderID uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM production_material_reservations WHERE order_id = $1`, orderID)
	return err
}
