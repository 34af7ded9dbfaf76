package repositories

import (
	"context"
	"errors"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReceiveLogRepository interface {
	Insert(ctx context.Context, db DB, log *models.ReceiveLog) error
	Get(ctx context.Context, db DB, id uuid.UUID) (*models.ReceiveLog, error)
	ListByOrder(ctx context.Context, db DB, orderID uuid.UUID) ([]models.ReceiveLog, error)
	Delete(ctx context.Context, db DB, id uuid.UUID) error
	DeleteByOrder(ctx context.Context, db DB, orderID uuid.UUID) error
}

type receiveLogRepo struct{}

func NewReceiveLogRepo() ReceiveLogRepository {
	return &receiveLogRepo{}
}

func (r *receiveLogRepo) Insert(ctx context.Context, db DB, log *models.ReceiveLog) error {
	query := `
		INSERT INTO production_receive_logs (id, order_id, size_item_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := db.Exec(ctx, query, log.ID, log.OrderID, log.SizeItemID, log.Quantity)
	return err
}

func (r *receiveLogRepo) Get(ctx context.Context, db DB, id uuid.UUID) (*models.ReceiveLog, error) {
	log := &models.ReceiveLog{}
	query := `
		SELECT id, order_id, size_item_id, quantity, created_at
		FROM production_receive_logs
		WHERE id = $1
	`
	err := db.QueryRow(ctx, query, id).Scan(&log.ID, &log.OrderID, &log.SizeItemID, &log.Quantity, &log.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("receive log " + id.String())
	}
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (r *receiveLogRepo) ListByOrder(ctx context.Context, db DB, orderID uuid.UUID) ([]models.ReceiveLog, error) {
	query := `
		SELECT id, order_id, size_item_id, quantity, created_at
		FROM production_receive_logs
		WHERE order_id = $1
		ORDER BY created_at DESC
	`
	rows, err := db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReceiveLog
	for rows.Next() {
		var log models.ReceiveLog
		if err := rows.Scan(&log.ID, &log.OrderID, &log.SizeItemID, &log.Quantity, &log.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

func (r *receiveLogRepo) Delete(ctx context.Context, db DB, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM production_receive_logs WHERE id = $1`, id)
	return err
}

func (r *receiveLogRepo) DeleteByOrder(ctx context.Context, db DB, orderID uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM production_receive_logs WHERE order_id = $1`, orderID)
	return err
}
