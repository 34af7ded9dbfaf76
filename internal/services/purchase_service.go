package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/caching"
	"fashionwms/internal/costing"
	"fashionwms/internal/ledger"
	"fashionwms/internal/models"
	"fashionwms/internal/repositories"
)

// SupplierInput registers a supplier inline while posting a purchase.
type SupplierInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PurchaseLineInput is one received material line.
type PurchaseLineInput struct {
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PurchaseParams posts a supplier receipt. Either SupplierID or NewSupplier
// must be set.
type PurchaseParams struct {
	Code        string
	WarehouseID uuid.UUID
	SupplierID  *uuid.UUID
	NewSupplier *SupplierInput
	OrderDate   time.Time
	Lines       []PurchaseLineInput
}

// PurchaseDetails is the purchase read model.
type PurchaseDetails struct {
	Order    *models.PurchaseOrder `json:"order"`
	Supplier *models.Supplier      `json:"supplier"`
	Lines    []models.PurchaseLine `json:"lines"`
}

type PurchaseService interface {
	Create(ctx context.Context, params PurchaseParams) (*PurchaseDetails, error)
	Get(ctx context.Context, orderID uuid.UUID) (*PurchaseDetails, error)
	List(ctx context.Context, limit, offset int) ([]*models.PurchaseOrder, error)
	// Update replaces the line set. Stock moves by the per-variant deltas
	// and every touched variant's cost is recomputed from history.
	Update(ctx context.Context, orderID uuid.UUID, orderDate *time.Time, lines []PurchaseLineInput) (*PurchaseDetails, error)
	Delete(ctx context.Context, orderID uuid.UUID) error

	CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, limit, offset int) ([]*models.Supplier, error)
}

type purchaseService struct {
	db            repositories.DB
	tx            repositories.TxManager
	ledger        ledger.Ledger
	costing       costing.Engine
	purchaseRepo  repositories.PurchaseRepository
	supplierRepo  repositories.SupplierRepository
	variantRepo   repositories.VariantRepository
	warehouseRepo repositories.WarehouseRepository
	cacheService  caching.CacheService
}

func NewPurchaseService(
	db repositories.DB,
	tx repositories.TxManager,
	ldg ledger.Ledger,
	costingEngine costing.Engine,
	purchaseRepo repositories.PurchaseRepository,
	supplierRepo repositories.SupplierRepository,
	variantRepo repositories.VariantRepository,
	warehouseRepo repositories.WarehouseRepository,
	cacheService caching.CacheService,
) PurchaseService {
	return &purchaseService{
		db:            db,
		tx:            tx,
		ledger:        ldg,
		costing:       costingEngine,
		purchaseRepo:  purchaseRepo,
		supplierRepo:  supplierRepo,
		variantRepo:   variantRepo,
		warehouseRepo: warehouseRepo,
		cacheService:  cacheService,
	}
}

func (s *purchaseService) Create(ctx context.Context, params PurchaseParams) (*PurchaseDetails, error) {
	if params.Code == "" {
		return nil, apperrors.Validation("purchase code is required")
	}
	if len(params.Lines) == 0 {
		return nil, apperrors.Validation("a purchase needs at least one line")
	}
	if params.SupplierID == nil && params.NewSupplier == nil {
		return nil, apperrors.Validation("a supplier is required")
	}
	if _, err := s.warehouseRepo.Get(ctx, s.db, params.WarehouseID); err != nil {
		return nil, err
	}
	if err := validatePurchaseLines(params.Lines); err != nil {
		return nil, err
	}
	orderDate := params.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	var details *PurchaseDetails
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		supplier, err := s.resolveSupplier(ctx, db, params.SupplierID, params.NewSupplier)
		if err != nil {
			return err
		}

		order := &models.PurchaseOrder{
			ID:          uuid.New(),
			Code:        params.Code,
			WarehouseID: params.WarehouseID,
			SupplierID:  supplier.ID,
			OrderDate:   orderDate,
			TotalAmount: lineTotal(params.Lines),
		}
		if err := s.purchaseRepo.CreateOrder(ctx, db, order); err != nil {
			return err
		}

		lines := make([]models.PurchaseLine, 0, len(params.Lines))
		for _, in := range params.Lines {
			variant, err := s.variantRepo.GetVariant(ctx, db, in.VariantID)
			if err != nil {
				return err
			}

			// Cost first: the average blends the pre-receipt on-hand
			// with this receipt, so it must see the old quantity.
			if err := s.costing.ApplyReceipt(ctx, db, variant.ID, in.Quantity, in.UnitPrice); err != nil {
				return err
			}
			if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
				WarehouseID: order.WarehouseID,
				VariantID:   variant.ID,
				Delta:       in.Quantity,
				Kind:        models.KindPurchaseIn,
				ReferenceID: &order.ID,
				Resource:    variant.SKU,
				Note:        "purchase " + order.Code,
			}); err != nil {
				return err
			}

			line := models.PurchaseLine{
				ID:        uuid.New(),
				OrderID:   order.ID,
				VariantID: variant.ID,
				Quantity:  in.Quantity,
				UnitPrice: in.UnitPrice,
				Subtotal:  in.Quantity.Mul(in.UnitPrice),
			}
			if err := s.purchaseRepo.InsertLine(ctx, db, &line); err != nil {
				return err
			}
			lines = append(lines, line)
		}

		details = &PurchaseDetails{Order: order, Supplier: supplier, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, params.WarehouseID, params.Lines)
	return details, nil
}

func (s *purchaseService) Get(ctx context.Context, orderID uuid.UUID) (*PurchaseDetails, error) {
	order, err := s.purchaseRepo.GetOrder(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.Get(ctx, s.db, order.SupplierID)
	if err != nil {
		return nil, err
	}
	lines, err := s.purchaseRepo.ListLines(ctx, s.db, order.ID)
	if err != nil {
		return nil, err
	}
	return &PurchaseDetails{Order: order, Supplier: supplier, Lines: lines}, nil
}

func (s *purchaseService) List(ctx context.Context, limit, offset int) ([]*models.PurchaseOrder, error) {
	return s.purchaseRepo.ListOrders(ctx, s.db, limit, offset)
}

func (s *purchaseService) Update(ctx context.Context, orderID uuid.UUID, orderDate *time.Time, lines []PurchaseLineInput) (*PurchaseDetails, error) {
	if len(lines) == 0 {
		return nil, apperrors.Validation("a purchase needs at least one line")
	}
	if err := validatePurchaseLines(lines); err != nil {
		return nil, err
	}

	var details *PurchaseDetails
	var warehouseID uuid.UUID
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		order, err := s.purchaseRepo.GetOrder(ctx, db, orderID)
		if err != nil {
			return err
		}
		warehouseID = order.WarehouseID
		existing, err := s.purchaseRepo.ListLines(ctx, db, order.ID)
		if err != nil {
			return err
		}

		// Per-variant quantity deltas between the old and the new line set.
		deltas := make(map[uuid.UUID]decimal.Decimal)
		for _, line := range existing {
			deltas[line.VariantID] = deltas[line.VariantID].Sub(line.Quantity)
		}
		for _, in := range lines {
			deltas[in.VariantID] = deltas[in.VariantID].Add(in.Quantity)
		}

		for variantID, delta := range deltas {
			if delta.IsZero() {
				continue
			}
			variant, err := s.variantRepo.GetVariant(ctx, db, variantID)
			if err != nil {
				return err
			}
			if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
				WarehouseID: order.WarehouseID,
				VariantID:   variantID,
				Delta:       delta,
				Kind:        models.KindPurchaseIn,
				ReferenceID: &order.ID,
				Resource:    variant.SKU,
				Note:        "purchase edit " + order.Code,
			}); err != nil {
				return err
			}
		}

		if err := s.purchaseRepo.DeleteLines(ctx, db, order.ID); err != nil {
			return err
		}
		newLines := make([]models.PurchaseLine, 0, len(lines))
		for _, in := range lines {
			line := models.PurchaseLine{
				ID:        uuid.New(),
				OrderID:   order.ID,
				VariantID: in.VariantID,
				Quantity:  in.Quantity,
				UnitPrice: in.UnitPrice,
				Subtotal:  in.Quantity.Mul(in.UnitPrice),
			}
			if err := s.purchaseRepo.InsertLine(ctx, db, &line); err != nil {
				return err
			}
			newLines = append(newLines, line)
		}

		if orderDate != nil {
			order.OrderDate = *orderDate
		}
		order.TotalAmount = lineTotal(lines)
		if err := s.purchaseRepo.UpdateOrderHeader(ctx, db, order); err != nil {
			return err
		}

		// Editing history invalidates the incremental average, so every
		// touched variant is repriced from the full purchase history.
		for variantID := range deltas {
			if err := s.costing.Recompute(ctx, db, variantID); err != nil {
				return err
			}
		}

		supplier, err := s.supplierRepo.Get(ctx, db, order.SupplierID)
		if err != nil {
			return err
		}
		details = &PurchaseDetails{Order: order, Supplier: supplier, Lines: newLines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, warehouseID, lines)
	return details, nil
}

// Delete reverses the receipt. It fails when the received quantity is no
// longer present in the warehouse, because removing it would drive stock
// negative.
func (s *purchaseService) Delete(ctx context.Context, orderID uuid.UUID) error {
	var warehouseID uuid.UUID
	var touched []uuid.UUID
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		order, err := s.purchaseRepo.GetOrder(ctx, db, orderID)
		if err != nil {
			return err
		}
		warehouseID = order.WarehouseID
		lines, err := s.purchaseRepo.ListLines(ctx, db, order.ID)
		if err != nil {
			return err
		}

		for _, line := range lines {
			variant, err := s.variantRepo.GetVariant(ctx, db, line.VariantID)
			if err != nil {
				return err
			}
			onHand, err := s.ledger.OnHand(ctx, db, order.WarehouseID, line.VariantID)
			if err != nil {
				return err
			}
			if onHand.LessThan(line.Quantity) {
				return apperrors.CannotDelete(variant.SKU, line.Quantity, onHand)
			}
			if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
				WarehouseID: order.WarehouseID,
				VariantID:   line.VariantID,
				Delta:       line.Quantity.Neg(),
				Kind:        models.KindPurchaseIn,
				ReferenceID: &order.ID,
				Resource:    variant.SKU,
				Note:        "purchase deleted " + order.Code,
			}); err != nil {
				return err
			}
			touched = append(touched, line.VariantID)
		}

		if err := s.purchaseRepo.DeleteLines(ctx, db, order.ID); err != nil {
			return err
		}
		if err := s.purchaseRepo.DeleteOrder(ctx, db, order.ID); err != nil {
			return err
		}

		for _, variantID := range touched {
			if err := s.costing.Recompute(ctx, db, variantID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.cacheService != nil {
		if cacheErr := s.cacheService.DeleteWarehouseSummary(ctx, warehouseID); cacheErr != nil {
			log.Printf("failed to invalidate warehouse summary cache %s: %v", warehouseID, cacheErr)
		}
		for _, variantID := range touched {
			if cacheErr := s.cacheService.DeleteVariant(ctx, variantID); cacheErr != nil {
				log.Printf("failed to invalidate variant cache %s: %v", variantID, cacheErr)
			}
		}
	}
	return nil
}

func (s *purchaseService) CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	if input.Name == "" {
		return nil, apperrors.Validation("supplier name is required")
	}
	supplier := &models.Supplier{
		ID:      uuid.New(),
		Name:    input.Name,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := s.supplierRepo.Create(ctx, s.db, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *purchaseService) GetSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return s.supplierRepo.Get(ctx, s.db, id)
}

func (s *purchaseService) ListSuppliers(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	return s.supplierRepo.List(ctx, s.db, limit, offset)
}

func (s *purchaseService) resolveSupplier(ctx context.Context, db repositories.DB, supplierID *uuid.UUID, input *SupplierInput) (*models.Supplier, error) {
	if supplierID != nil {
		return s.supplierRepo.Get(ctx, db, *supplierID)
	}
	if input.Name == "" {
		return nil, apperrors.Validation("supplier name is required")
	}
	supplier := &models.Supplier{
		ID:      uuid.New(),
		Name:    input.Name,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := s.supplierRepo.Create(ctx, db, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *purchaseService) invalidate(ctx context.Context, warehouseID uuid.UUID, lines []PurchaseLineInput) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeleteWarehouseSummary(ctx, warehouseID); err != nil {
		log.Printf("failed to invalidate warehouse summary cache %s: %v", warehouseID, err)
	}
	for _, line := range lines {
		if err := s.cacheService.DeleteVariant(ctx, line.VariantID); err != nil {
			log.Printf("failed to invalidate variant cache %s: %v", line.VariantID, err)
		}
		if err := s.cacheService.DeleteOnHand(ctx, warehouseID, line.VariantID); err != nil {
			log.Printf("failed to invalidate on-hand cache %s/%s: %v", warehouseID, line.VariantID, err)
		}
	}
}

func lineTotal(lines []PurchaseLineInput) decimal.Decimal {
	total := decimal.Zero
	for _, in := range lines {
		total = total.Add(in.Quantity.Mul(in.UnitPrice))
	}
	return total
}

func validatePurchaseLines(lines []PurchaseLineInput) error {
	for _, in := range lines {
		if in.Quantity.Sign() <= 0 {
			return apperrors.Validation("line quantity must be positive")
		}
		if in.UnitPrice.IsNegative() {
			return apperrors.Validation("unit price cannot be negative")
		}
	}
	return nil
}
