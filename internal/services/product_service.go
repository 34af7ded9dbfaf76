package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/caching"
	"fashionwms/internal/models"
	"fashionwms/internal/repositories"
)

const variantCacheTTL = 10 * time.Minute

// VariantInput registers one variant, attaching it to an existing product of
// the same name or creating the product on the fly.
type VariantInput struct {
	ProductName string             `json:"product_name"`
	ProductType models.ProductType `json:"product_type"`
	BaseUnit    string             `json:"base_unit"`
	VariantName string             `json:"variant_name"`
	SKU         string             `json:"sku"`
	Attributes  string             `json:"attributes"`
	UnitCost    decimal.Decimal    `json:"unit_cost"`
}

type ProductService interface {
	CreateVariant(ctx context.Context, input VariantInput) (*models.Variant, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	GetVariantBySKU(ctx context.Context, sku string) (*models.Variant, error)
	List(ctx context.Context, productType *models.ProductType, limit, offset int) ([]*models.VariantWithStock, error)
}

type productService struct {
	db           repositories.DB
	tx           repositories.TxManager
	variantRepo  repositories.VariantRepository
	cacheService caching.CacheService
}

func NewProductService(db repositories.DB, tx repositories.TxManager, variantRepo repositories.VariantRepository, cacheService caching.CacheService) ProductService {
	return &productService{db: db, tx: tx, variantRepo: variantRepo, cacheService: cacheService}
}

func (s *productService) CreateVariant(ctx context.Context, input VariantInput) (*models.Variant, error) {
	if input.SKU == "" {
		return nil, apperrors.Validation("SKU is required")
	}
	if input.ProductName == "" {
		return nil, apperrors.Validation("product name is required")
	}
	if input.ProductType != models.ProductTypeMaterial && input.ProductType != models.ProductTypeFinishedGood {
		return nil, apperrors.Validation("product type must be material or finished_good")
	}
	if input.UnitCost.IsNegative() {
		return nil, apperrors.Validation("unit cost cannot be negative")
	}

	var variant *models.Variant
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		product, err := s.variantRepo.GetProductByName(ctx, db, input.ProductName)
		if err != nil {
			if apperrors.KindOf(err) != apperrors.KindNotFound {
				return err
			}
			baseUnit := input.BaseUnit
			if baseUnit == "" {
				baseUnit = "pcs"
			}
			product = &models.Product{
				ID:       uuid.New(),
				Name:     input.ProductName,
				Type:     input.ProductType,
				BaseUnit: baseUnit,
			}
			if err := s.variantRepo.CreateProduct(ctx, db, product); err != nil {
				return err
			}
		} else if product.Type != input.ProductType {
			return apperrors.Validation("product %s already exists with type %s", product.Name, product.Type)
		}

		name := input.VariantName
		if name == "" {
			name = input.ProductName
		}
		variant = &models.Variant{
			ID:         uuid.New(),
			ProductID:  product.ID,
			SKU:        input.SKU,
			Name:       name,
			Attributes: input.Attributes,
			UnitCost:   input.UnitCost,
		}
		return s.variantRepo.CreateVariant(ctx, db, variant)
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *productService) GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	if s.cacheService != nil {
		cached, err := s.cacheService.GetVariant(ctx, id)
		if err != nil {
			log.Printf("variant cache read failed %s: %v", id, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	variant, err := s.variantRepo.GetVariant(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if cacheErr := s.cacheService.SetVariant(ctx, variant, variantCacheTTL); cacheErr != nil {
			log.Printf("variant cache write failed %s: %v", id, cacheErr)
		}
	}
	return variant, nil
}

func (s *productService) GetVariantBySKU(ctx context.Context, sku string) (*models.Variant, error) {
	return s.variantRepo.GetVariantBySKU(ctx, s.db, sku)
}

func (s *productService) List(ctx context.Context, productType *models.ProductType, limit, offset int) ([]*models.VariantWithStock, error) {
	return s.variantRepo.ListWithStock(ctx, s.db, productType, limit, offset)
}
