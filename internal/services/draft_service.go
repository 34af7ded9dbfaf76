package services

import (
	"context"

	"github.com/google/uuid"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/models"
	"fashionwms/internal/repositories"
)

// DraftInput captures a sample design idea; drafts never touch stock.
type DraftInput struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Note      string   `json:"note"`
	Status    string   `json:"status"`
	ImageURLs []string `json:"images"`
}

type DraftService interface {
	Create(ctx context.Context, input DraftInput) (*models.DraftOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*models.DraftOrder, error)
	List(ctx context.Context, limit, offset int) ([]*models.DraftOrder, error)
	Update(ctx context.Context, id uuid.UUID, input DraftInput) (*models.DraftOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type draftService struct {
	db        repositories.DB
	tx        repositories.TxManager
	draftRepo repositories.DraftRepository
}

func NewDraftService(db repositories.DB, tx repositories.TxManager, draftRepo repositories.DraftRepository) DraftService {
	return &draftService{db: db, tx: tx, draftRepo: draftRepo}
}

func (s *draftService) Create(ctx context.Context, input DraftInput) (*models.DraftOrder, error) {
	if input.Code == "" {
		return nil, apperrors.Validation("draft code is required")
	}
	if input.Name == "" {
		return nil, apperrors.Validation("draft name is required")
	}
	status := input.Status
	if status == "" {
		status = "idea"
	}
	draft := &models.DraftOrder{
		ID:        uuid.New(),
		Code:      input.Code,
		Name:      input.Name,
		Note:      input.Note,
		Status:    status,
		ImageURLs: input.ImageURLs,
	}
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		if err := s.draftRepo.Create(ctx, db, draft); err != nil {
			return err
		}
		if len(input.ImageURLs) > 0 {
			return s.draftRepo.ReplaceImages(ctx, db, draft.ID, input.ImageURLs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *draftService) Get(ctx context.Context, id uuid.UUID) (*models.DraftOrder, error) {
	return s.draftRepo.Get(ctx, s.db, id)
}

func (s *draftService) List(ctx context.Context, limit, offset int) ([]*models.DraftOrder, error) {
	return s.draftRepo.List(ctx, s.db, limit, offset)
}

func (s *draftService) Update(ctx context.Context, id uuid.UUID, input DraftInput) (*models.DraftOrder, error) {
	var draft *models.DraftOrder
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		current, err := s.draftRepo.Get(ctx, db, id)
		if err != nil {
			return err
		}
		if input.Code != "" {
			current.Code = input.Code
		}
		if input.Name != "" {
			current.Name = input.Name
		}
		if input.Status != "" {
			current.Status = input.Status
		}
		current.Note = input.Note
		if err := s.draftRepo.UpdateHeader(ctx, db, current); err != nil {
			return err
		}
		if input.ImageURLs != nil {
			if err := s.draftRepo.ReplaceImages(ctx, db, current.ID, input.ImageURLs); err != nil {
				return err
			}
			current.ImageURLs = input.ImageURLs
		}
		draft = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *draftService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(db repositories.DB) error {
		if _, err := s.draftRepo.Get(ctx, db, id); err != nil {
			return err
		}
		return s.draftRepo.Delete(ctx, db, id)
	})
}
