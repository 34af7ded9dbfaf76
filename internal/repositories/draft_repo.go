package repositories

import (
	"context"
	"errors"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DraftRepository interface {
	Create(ctx context.Context, db DB, draft *models.DraftOrder) error
	Get(ctx context.Context, db DB, id uuid.UUID) (*models.DraftOrder, error)
	List(ctx context.Context, db DB, limit, offset int) ([]*models.DraftOrder, error)
	UpdateHeader(ctx context.Context, db DB, draft *models.DraftOrder) error
	ReplaceImages(ctx context.Context, db DB, draftID uuid.UUID, urls []string) error
	Delete(ctx context.Context, db DB, id uuid.UUID) error
}

type draftRepo struct{}

func NewDraftRepo() DraftRepository {
	return &draftRepo{}
}

func (r *draftRepo) Create(ctx context.Context, db DB, draft *models.DraftOrder) error {
	query := `
		INSERT INTO draft_orders (id, code, name, note, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := db.Exec(ctx, query, draft.ID, draft.Code, draft.Name, draft.Note, draft.Status)
	if IsUniqueViolation(err) {
		return apperrors.DuplicateCode(draft.Code)
	}
	return err
}

func (r *draftRepo) Get(ctx context.Context, db DB, id uuid.UUID) (*models.DraftOrder, error) {
	draft := &models.DraftOrder{}
	query := `SELECT id, code, name, note, status, created_at FROM draft_orders WHERE id = $1`
	err := db.QueryRow(ctx, query, id).Scan(&draft.ID, &draft.Code, &draft.Name, &draft.Note, &draft.Status, &draft.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("draft order " + id.String())
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, db, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (r *draftRepo) List(ctx context.Context, db DB, limit, offset int) ([]*models.DraftOrder, error) {
	query := `
		SELECT id, code, name, note, status, created_at
		FROM draft_orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DraftOrder
	for rows.Next() {
		draft := &models.DraftOrder{}
		if err := rows.Scan(&draft.ID, &draft.Code, &draft.Name, &draft.Note, &draft.Status, &draft.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, draft)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, draft := range out {
		if err := r.loadImages(ctx, db, draft); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *draftRepo) loadImages(ctx context.Context, db DB, draft *models.DraftOrder) error {
	rows, err := db.Query(ctx, `SELECT image_url FROM draft_order_images WHERE draft_order_id = $1 ORDER BY id`, draft.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return err
		}
		draft.ImageURLs = append(draft.ImageURLs, url)
	}
	return rows.Err()
}

func (r *draftRepo) UpdateHeader(ctx context.Context, db DB, draft *models.DraftOrder) error {
	query := `UPDATE draft_orders SET code = $1, name = $2, note = $3, status = $4 WHERE id = $5`
	_, err := db.Exec(ctx, query, draft.Code, draft.Name, draft.Note, draft.Status, draft.ID)
	if IsUniqueViolation(err) {
		return apperrors.DuplicateCode(draft.Code)
	}
	return err
}

func (r *draftRepo) ReplaceImages(ctx context.Context, db DB, draftID uuid.UUID, urls []string) error {
	if _, err := db.Exec(ctx, `DELETE FROM draft_order_images WHERE draft_order_id = $1`, draftID); err != nil {
		return err
	}
	query := `INSERT INTO draft_order_images (id, draft_order_id, image_url) VALUES ($1, $2, $3)`
	for _, url := range urls {
		if _, err := db.Exec(ctx, query, uuid.New(), draftID, url); err != nil {
			return err
		}
	}
	return nil
}

func (r *draftRepo) Delete(ctx context.Context, db DB, id uuid.UUID) error {
	if _, err := db.Exec(ctx, `DELETE FROM draft_order_images WHERE draft_order_id = $1`, id); err != nil {
		return err
	}
	_, err := db.Exec(ctx, `DELETE FROM draft_orders WHERE id = $1`, id)
	return err
}
