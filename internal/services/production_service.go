package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/bom"
	"fashionwms/internal/caching"
	"fashionwms/internal/costing"
	"fashionwms/internal/ledger"
	"fashionwms/internal/models"
	"fashionwms/internal/repositories"
)

// SizeInput is one requested size row on a new order.
type SizeInput struct {
	Label    string `json:"label"`
	Quantity int    `json:"quantity"`
}

// ReceiveItem is one size-level quantity in a goods receipt.
type ReceiveItem struct {
	SizeItemID uuid.UUID `json:"size_item_id"`
	Quantity   int       `json:"quantity"`
}

// CreateOrderParams creates an order against an already registered finished
// good. Materials is optional; when present it (re)defines the variant's
// recipe as batch totals before the order is priced.
type CreateOrderParams struct {
	Code            string
	WarehouseID     uuid.UUID
	OutputVariantID uuid.UUID
	Sizes           []SizeInput
	PlannedQty      int // used only when Sizes is empty
	Materials       []models.MaterialRequirement
	RecipeName      string
	Fees            models.CostComponents
	StartDate       time.Time
	DueDate         time.Time
	ImageURLs       []string
}

// QuickOrderParams registers a brand-new finished good, its recipe, and an
// order over it in one shot, optionally starting production immediately.
type QuickOrderParams struct {
	Code        string
	WarehouseID uuid.UUID
	ProductName string
	VariantName string
	SKU         string
	BaseUnit    string
	Sizes       []SizeInput
	Materials   []models.MaterialRequirement
	RecipeName  string
	Fees        models.CostComponents
	StartDate   time.Time
	DueDate     time.Time
	ImageURLs   []string
	AutoStart   bool
}

// SizeEdit changes the planned quantity of one existing size row.
type SizeEdit struct {
	SizeItemID uuid.UUID `json:"size_item_id"`
	Planned    int       `json:"quantity_planned"`
}

// MaterialEdit restates the total batch quantity of one material. On a draft
// order it rewrites the recipe; on a started order it adjusts the reservation
// and compensates stock by the delta.
type MaterialEdit struct {
	MaterialVariantID uuid.UUID       `json:"material_variant_id"`
	TotalQty          decimal.Decimal `json:"total_quantity"`
}

// UpdateOrderParams carries a partial edit; nil fields are left untouched.
type UpdateOrderParams struct {
	Fees          *models.CostComponents
	StartDate     *time.Time
	DueDate       *time.Time
	SizeEdits     []SizeEdit
	MaterialEdits []MaterialEdit
	NewSKU        *string
	ImageURLs     *[]string
}

// OrderDetails is the full read model for one order.
type OrderDetails struct {
	Order   *models.ProductionOrder `json:"order"`
	Variant *models.Variant         `json:"variant"`
	Sizes   []models.SizeItem       `json:"sizes"`
	Images  []models.OrderImage     `json:"images"`
	Steps   []models.ProgressStep   `json:"steps"`
}

// PrintMaterial is one costed material line on the shop-floor sheet.
type PrintMaterial struct {
	Variant  *models.Variant `json:"variant"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Amount   decimal.Decimal `json:"amount"`
}

// PrintData is everything the printable order sheet needs: the order, its
// sizes, and the costed material list with totals.
type PrintData struct {
	Order         *models.ProductionOrder `json:"order"`
	Variant       *models.Variant         `json:"variant"`
	Sizes         []models.SizeItem       `json:"sizes"`
	Materials     []PrintMaterial         `json:"materials"`
	MaterialTotal decimal.Decimal         `json:"material_total"`
	FeesTotal     decimal.Decimal         `json:"fees_total"`
}

type ProductionService interface {
	CreateRecipe(ctx context.Context, outputVariantID uuid.UUID, name string, lines []models.BOMLine) error
	GetRecipe(ctx context.Context, outputVariantID uuid.UUID) (*models.BOM, []models.BOMLine, error)

	Create(ctx context.Context, params CreateOrderParams) (*OrderDetails, error)
	CreateQuick(ctx context.Context, params QuickOrderParams) (*OrderDetails, error)
	List(ctx context.Context, limit, offset int) ([]*models.ProductionOrder, error)
	GetDetails(ctx context.Context, orderID uuid.UUID) (*OrderDetails, error)

	Start(ctx context.Context, orderID uuid.UUID) error
	Receive(ctx context.Context, orderID uuid.UUID, items []ReceiveItem) error
	RevertReceiveLog(ctx context.Context, logID uuid.UUID) error
	ForceFinish(ctx context.Context, orderID uuid.UUID) error
	Update(ctx context.Context, orderID uuid.UUID, params UpdateOrderParams) error
	Delete(ctx context.Context, orderID uuid.UUID) error

	ReceiveHistory(ctx context.Context, orderID uuid.UUID) ([]models.ReceiveLog, error)
	Reservations(ctx context.Context, orderID uuid.UUID) ([]models.MaterialReservation, error)
	PrintData(ctx context.Context, orderID uuid.UUID) (*PrintData, error)
	SetStepDone(ctx context.Context, orderID, stepID uuid.UUID, done bool) error
}

type productionService struct {
	db              repositories.DB
	tx              repositories.TxManager
	ledger          ledger.Ledger
	resolver        bom.Resolver
	variantRepo     repositories.VariantRepository
	orderRepo       repositories.ProductionOrderRepository
	reservationRepo repositories.ReservationRepository
	receiveLogRepo  repositories.ReceiveLogRepository
	warehouseRepo   repositories.WarehouseRepository
	cacheService    caching.CacheService
}

func NewProductionService(
	db repositories.DB,
	tx repositories.TxManager,
	ldg ledger.Ledger,
	resolver bom.Resolver,
	variantRepo repositories.VariantRepository,
	orderRepo repositories.ProductionOrderRepository,
	reservationRepo repositories.ReservationRepository,
	receiveLogRepo repositories.ReceiveLogRepository,
	warehouseRepo repositories.WarehouseRepository,
	cacheService caching.CacheService,
) ProductionService {
	return &productionService{
		db:              db,
		tx:              tx,
		ledger:          ldg,
		resolver:        resolver,
		variantRepo:     variantRepo,
		orderRepo:       orderRepo,
		reservationRepo: reservationRepo,
		receiveLogRepo:  receiveLogRepo,
		warehouseRepo:   warehouseRepo,
		cacheService:    cacheService,
	}
}

func (s *productionService) CreateRecipe(ctx context.Context, outputVariantID uuid.UUID, name string, lines []models.BOMLine) error {
	variant, err := s.variantRepo.GetVariant(ctx, s.db, outputVariantID)
	if err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(db repositories.DB) error {
		return s.resolver.DefineRecipe(ctx, db, variant.ID, name, lines)
	})
}

func (s *productionService) GetRecipe(ctx context.Context, outputVariantID uuid.UUID) (*models.BOM, []models.BOMLine, error) {
	variant, err := s.variantRepo.GetVariant(ctx, s.db, outputVariantID)
	if err != nil {
		return nil, nil, err
	}
	return s.resolver.RecipeFor(ctx, s.db, variant.ID, variant.SKU)
}

func (s *productionService) Create(ctx context.Context, params CreateOrderParams) (*OrderDetails, error) {
	if params.Code == "" {
		return nil, apperrors.Validation("order code is required")
	}
	if _, err := s.warehouseRepo.Get(ctx, s.db, params.WarehouseID); err != nil {
		return nil, err
	}
	variant, err := s.variantRepo.GetVariant(ctx, s.db, params.OutputVariantID)
	if err != nil {
		return nil, err
	}

	sizes, planned, err := normalizeSizes(params.Sizes, params.PlannedQty)
	if err != nil {
		return nil, err
	}

	var details *OrderDetails
	err = s.tx.RunInTx(ctx, func(db repositories.DB) error {
		if len(params.Materials) > 0 {
			lines, err := bom.PerUnitRates(params.Materials, planned)
			if err != nil {
				return err
			}
			if err := s.resolver.DefineRecipe(ctx, db, variant.ID, params.RecipeName, lines); err != nil {
				return err
			}
		}

		unitCost, err := s.priceFinishedUnit(ctx, db, variant, planned, params.Fees)
		if err != nil {
			return err
		}

		order := &models.ProductionOrder{
			ID:              uuid.New(),
			Code:            params.Code,
			WarehouseID:     params.WarehouseID,
			OutputVariantID: variant.ID,
			QuantityPlanned: planned,
			Status:          models.StatusDraft,
			UnitCost:        unitCost,
			Fees:            params.Fees,
			StartDate:       params.StartDate,
			DueDate:         params.DueDate,
		}
		details, err = s.insertOrderGraph(ctx, db, order, variant, sizes, params.ImageURLs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (s *productionService) CreateQuick(ctx context.Context, params QuickOrderParams) (*OrderDetails, error) {
	if params.Code == "" {
		return nil, apperrors.Validation("order code is required")
	}
	if params.SKU == "" {
		return nil, apperrors.Validation("SKU is required for a new finished good")
	}
	if len(params.Materials) == 0 {
		return nil, apperrors.Validation("a quick order needs at least one material line")
	}
	if _, err := s.warehouseRepo.Get(ctx, s.db, params.WarehouseID); err != nil {
		return nil, err
	}

	sizes, planned, err := normalizeSizes(params.Sizes, 0)
	if err != nil {
		return nil, err
	}

	lines, err := bom.PerUnitRates(params.Materials, planned)
	if err != nil {
		return nil, err
	}

	var details *OrderDetails
	err = s.tx.RunInTx(ctx, func(db repositories.DB) error {
		// Price materials at their current weighted-average cost before
		// anything moves.
		materials := make([]costing.MaterialCost, 0, len(params.Materials))
		for _, m := range params.Materials {
			mv, err := s.variantRepo.GetVariant(ctx, db, m.MaterialVariantID)
			if err != nil {
				return err
			}
			materials = append(materials, costing.MaterialCost{Quantity: m.TotalQty, UnitCost: mv.UnitCost})
		}
		unitCost, err := costing.FinishedUnitCost(materials, params.Fees.Total(), planned)
		if err != nil {
			return err
		}

		baseUnit := params.BaseUnit
		if baseUnit == "" {
			baseUnit = "pcs"
		}
		productName := params.ProductName
		if productName == "" {
			productName = params.VariantName
		}
		product := &models.Product{
			ID:       uuid.New(),
			Name:     productName,
			Type:     models.ProductTypeFinishedGood,
			BaseUnit: baseUnit,
		}
		if err := s.variantRepo.CreateProduct(ctx, db, product); err != nil {
			return err
		}
		variant := &models.Variant{
			ID:        uuid.New(),
			ProductID: product.ID,
			SKU:       params.SKU,
			Name:      params.VariantName,
			UnitCost:  unitCost,
		}
		if err := s.variantRepo.CreateVariant(ctx, db, variant); err != nil {
			return err
		}

		if err := s.resolver.DefineRecipe(ctx, db, variant.ID, params.RecipeName, lines); err != nil {
			return err
		}

		order := &models.ProductionOrder{
			ID:              uuid.New(),
			Code:            params.Code,
			WarehouseID:     params.WarehouseID,
			OutputVariantID: variant.ID,
			QuantityPlanned: planned,
			Status:          models.StatusDraft,
			UnitCost:        unitCost,
			Fees:            params.Fees,
			StartDate:       params.StartDate,
			DueDate:         params.DueDate,
		}
		details, err = s.insertOrderGraph(ctx, db, order, variant, sizes, params.ImageURLs)
		if err != nil {
			return err
		}

		if params.AutoStart {
			if err := s.startLocked(ctx, db, order); err != nil {
				return err
			}
			details.Order.Status = models.StatusInProgress
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if params.AutoStart {
		s.invalidateWarehouse(ctx, params.WarehouseID)
	}
	return details, nil
}

func (s *productionService) List(ctx context.Context, limit, offset int) ([]*models.ProductionOrder, error) {
	return s.orderRepo.List(ctx, s.db, limit, offset)
}

func (s *productionService) GetDetails(ctx context.Context, orderID uuid.UUID) (*OrderDetails, error) {
	order, err := s.orderRepo.Get(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	return s.loadDetails(ctx, s.db, order)
}

// Start moves a draft order to in_progress, deducting every recipe material
// from the order's warehouse and recording a reservation per material. Any
// shortage rolls back the whole operation; no partial deduction survives.
func (s *productionService) Start(ctx context.Context, orderID uuid.UUID) error {
	var warehouseID uuid.UUID
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		order, err := s.orderRepo.GetForUpdate(ctx, db, orderID)
		if err != nil {
			return err
		}
		warehouseID = order.WarehouseID
		return s.startLocked(ctx, db, order)
	})
	if err != nil {
		return err
	}
	s.invalidateWarehouse(ctx, warehouseID)
	return nil
}

func (s *productionService) startLocked(ctx context.Context, db repositories.DB, order *models.ProductionOrder) error {
	if order.Status != models.StatusDraft {
		return apperrors.InvalidStateTransition(order.Code, string(order.Status), string(models.StatusInProgress))
	}
	if order.QuantityPlanned <= 0 {
		return apperrors.InvalidBatchSize(order.QuantityPlanned)
	}

	variant, err := s.variantRepo.GetVariant(ctx, db, order.OutputVariantID)
	if err != nil {
		return err
	}
	_, lines, err := s.resolver.RecipeFor(ctx, db, order.OutputVariantID, variant.SKU)
	if err != nil {
		return err
	}
	reqs, err := s.resolver.TotalRequirements(lines, order.QuantityPlanned)
	if err != nil {
		return err
	}

	for _, req := range reqs {
		material, err := s.variantRepo.GetVariant(ctx, db, req.MaterialVariantID)
		if err != nil {
			return err
		}
		if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
			WarehouseID: order.WarehouseID,
			VariantID:   req.MaterialVariantID,
			Delta:       req.TotalQty.Neg(),
			Kind:        models.KindProductionOut,
			ReferenceID: &order.ID,
			Resource:    material.SKU,
			Note:        "production start " + order.Code,
		}); err != nil {
			return err
		}
		if err := s.reservationRepo.Insert(ctx, db, &models.MaterialReservation{
			ID:                uuid.New(),
			OrderID:           order.ID,
			MaterialVariantID: req.MaterialVariantID,
			Quantity:          req.TotalQty,
		}); err != nil {
			return err
		}
	}

	return s.orderRepo.UpdateStatus(ctx, db, order.ID, models.StatusInProgress)
}

// Receive posts finished units against size rows. Over-receipt beyond the
// planned quantity is allowed; each call appends one log row per item so the
// receipt can be reverted later.
func (s *productionService) Receive(ctx context.Context, orderID uuid.UUID, items []ReceiveItem) error {
	if len(items) == 0 {
		return apperrors.Validation("a receipt needs at least one size line")
	}
	var warehouseID uuid.UUID
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		order, err := s.orderRepo.GetForUpdate(ctx, db, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.StatusInProgress {
			return apperrors.InvalidStateTransition(order.Code, string(order.Status), "receive")
		}
		warehouseID = order.WarehouseID

		total := 0
		for _, item := range items {
			if item.Quantity <= 0 {
				return apperrors.Validation("receipt quantity must be positive")
			}
			sizeItem, err := s.orderRepo.GetSizeItem(ctx, db, item.SizeItemID)
			if err != nil {
				return err
			}
			if sizeItem.OrderID != order.ID {
				return apperrors.Validation("size item %s does not belong to order %s", item.SizeItemID, order.Code)
			}
			if err := s.orderRepo.AddSizeItemFinished(ctx, db, sizeItem.ID, item.Quantity); err != nil {
				return err
			}
			if err := s.receiveLogRepo.Insert(ctx, db, &models.ReceiveLog{
				ID:         uuid.New(),
				OrderID:    order.ID,
				SizeItemID: sizeItem.ID,
				Quantity:   item.Quantity,
			}); err != nil {
				return err
			}
			total += item.Quantity
		}

		if err := s.orderRepo.AddFinished(ctx, db, order.ID, total); err != nil {
			return err
		}
		return s.ledger.Adjust(ctx, db, ledger.AdjustParams{
			WarehouseID: order.WarehouseID,
			VariantID:   order.OutputVariantID,
			Delta:       decimal.NewFromInt(int64(total)),
			Kind:        models.KindProductionIn,
			ReferenceID: &order.ID,
			Note:        "goods receipt " + order.Code,
		})
	})
	if err != nil {
		return err
	}
	s.invalidateWarehouse(ctx, warehouseID)
	return nil
}

// RevertReceiveLog undoes one receipt event: finished stock leaves the
// warehouse again and the counters roll back. It fails when the finished
// goods have already moved on.
func (s *productionService) RevertReceiveLog(ctx context.Context, logID uuid.UUID) error {
	var warehouseID uuid.UUID
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		entry, err := s.receiveLogRepo.Get(ctx, db, logID)
		if err != nil {
			return err
		}
		order, err := s.orderRepo.GetForUpdate(ctx, db, entry.OrderID)
		if err != nil {
			return err
		}
		warehouseID = order.WarehouseID

		variant, err := s.variantRepo.GetVariant(ctx, db, order.OutputVariantID)
		if err != nil {
			return err
		}
		qty := decimal.NewFromInt(int64(entry.Quantity))
		onHand, err := s.ledger.OnHand(ctx, db, order.WarehouseID, order.OutputVariantID)
		if err != nil {
			return err
		}
		if onHand.LessThan(qty) {
			return apperrors.CannotRevert(variant.SKU, qty, onHand)
		}

		if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
			WarehouseID: order.WarehouseID,
			VariantID:   order.OutputVariantID,
			Delta:       qty.Neg(),
			Kind:        models.KindProductionOut,
			ReferenceID: &order.ID,
			Resource:    variant.SKU,
			Note:        "receipt revert " + order.Code,
		}); err != nil {
			return err
		}
		if err := s.orderRepo.AddSizeItemFinished(ctx, db, entry.SizeItemID, -entry.Quantity); err != nil {
			return err
		}
		if err := s.orderRepo.AddFinished(ctx, db, order.ID, -entry.Quantity); err != nil {
			return err
		}
		return s.receiveLogRepo.Delete(ctx, db, entry.ID)
	})
	if err != nil {
		return err
	}
	s.invalidateWarehouse(ctx, warehouseID)
	return nil
}

// ForceFinish closes an in-progress order regardless of how many units came
// back. Reservations stay untouched: whatever the order consumed is what it
// consumed.
func (s *productionService) ForceFinish(ctx context.Context, orderID uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(db repositories.DB) error {
		order, err := s.orderRepo.GetForUpdate(ctx, db, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.StatusInProgress {
			return apperrors.InvalidStateTransition(order.Code, string(order.Status), string(models.StatusCompleted))
		}
		return s.orderRepo.UpdateStatus(ctx, db, order.ID, models.StatusCompleted)
	})
}

func (s *productionService) Update(ctx context.Context, orderID uuid.UUID, params UpdateOrderParams) error {
	var warehouseID uuid.UUID
	var touchedStock bool
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		order, err := s.orderRepo.GetForUpdate(ctx, db, orderID)
		if err != nil {
			return err
		}
		warehouseID = order.WarehouseID

		if params.Fees != nil {
			order.Fees = *params.Fees
		}
		if params.StartDate != nil {
			order.StartDate = *params.StartDate
		}
		if params.DueDate != nil {
			order.DueDate = *params.DueDate
		}

		for _, edit := range params.SizeEdits {
			if edit.Planned < 0 {
				return apperrors.Validation("planned quantity cannot be negative")
			}
			sizeItem, err := s.orderRepo.GetSizeItem(ctx, db, edit.SizeItemID)
			if err != nil {
				return err
			}
			if sizeItem.OrderID != order.ID {
				return apperrors.Validation("size item %s does not belong to order %s", edit.SizeItemID, order.Code)
			}
			if err := s.orderRepo.UpdateSizeItemPlanned(ctx, db, sizeItem.ID, edit.Planned); err != nil {
				return err
			}
		}
		if len(params.SizeEdits) > 0 {
			sizes, err := s.orderRepo.ListSizeItems(ctx, db, order.ID)
			if err != nil {
				return err
			}
			planned := 0
			for _, sz := range sizes {
				planned += sz.QuantityPlanned
			}
			if planned <= 0 {
				return apperrors.InvalidBatchSize(planned)
			}
			order.QuantityPlanned = planned
		}

		if len(params.MaterialEdits) > 0 {
			if order.Status == models.StatusDraft {
				if err := s.editDraftMaterials(ctx, db, order, params.MaterialEdits); err != nil {
					return err
				}
			} else {
				touchedStock = true
				if err := s.editStartedMaterials(ctx, db, order, params.MaterialEdits); err != nil {
					return err
				}
			}
		}

		if params.NewSKU != nil {
			if err := s.variantRepo.UpdateSKU(ctx, db, order.OutputVariantID, *params.NewSKU); err != nil {
				return err
			}
			if s.cacheService != nil {
				if cacheErr := s.cacheService.DeleteVariant(ctx, order.OutputVariantID); cacheErr != nil {
					log.Printf("failed to invalidate variant cache %s: %v", order.OutputVariantID, cacheErr)
				}
			}
		}
		if params.ImageURLs != nil {
			if err := s.orderRepo.ReplaceImages(ctx, db, order.ID, *params.ImageURLs); err != nil {
				return err
			}
		}

		return s.orderRepo.UpdateHeader(ctx, db, order)
	})
	if err != nil {
		return err
	}
	if touchedStock {
		s.invalidateWarehouse(ctx, warehouseID)
	}
	return nil
}

// editDraftMaterials rewrites the recipe so the edited totals hold for the
// current planned quantity. Stock is untouched while the order is a draft.
func (s *productionService) editDraftMaterials(ctx context.Context, db repositories.DB, order *models.ProductionOrder, edits []MaterialEdit) error {
	variant, err := s.variantRepo.GetVariant(ctx, db, order.OutputVariantID)
	if err != nil {
		return err
	}
	recipe, lines, err := s.resolver.RecipeFor(ctx, db, order.OutputVariantID, variant.SKU)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindRecipeMissing {
			return err
		}
		recipe = &models.BOM{Name: variant.Name}
	}

	totals := make([]models.MaterialRequirement, 0, len(lines)+len(edits))
	seen := make(map[uuid.UUID]int)
	planned := decimal.NewFromInt(int64(order.QuantityPlanned))
	for _, line := range lines {
		seen[line.MaterialVariantID] = len(totals)
		totals = append(totals, models.MaterialRequirement{
			MaterialVariantID: line.MaterialVariantID,
			TotalQty:          line.QtyPerUnit.Mul(planned),
		})
	}
	for _, edit := range edits {
		if idx, ok := seen[edit.MaterialVariantID]; ok {
			totals[idx].TotalQty = edit.TotalQty
		} else {
			totals = append(totals, models.MaterialRequirement{
				MaterialVariantID: edit.MaterialVariantID,
				TotalQty:          edit.TotalQty,
			})
		}
	}
	kept := totals[:0]
	for _, t := range totals {
		if t.TotalQty.Sign() > 0 {
			kept = append(kept, t)
		}
	}

	newLines, err := bom.PerUnitRates(kept, order.QuantityPlanned)
	if err != nil {
		return err
	}
	if err := s.resolver.DefineRecipe(ctx, db, order.OutputVariantID, recipe.Name, newLines); err != nil {
		return err
	}

	unitCost, err := s.priceFinishedUnit(ctx, db, variant, order.QuantityPlanned, order.Fees)
	if err != nil {
		return err
	}
	order.UnitCost = unitCost
	return nil
}

// editStartedMaterials compensates an already started order: raising a total
// deducts the difference from stock, lowering it returns the difference. The
// reservation rows follow so they keep reflecting actual consumption.
func (s *productionService) editStartedMaterials(ctx context.Context, db repositories.DB, order *models.ProductionOrder, edits []MaterialEdit) error {
	for _, edit := range edits {
		if edit.TotalQty.IsNegative() {
			return apperrors.Validation("material total cannot be negative")
		}
		material, err := s.variantRepo.GetVariant(ctx, db, edit.MaterialVariantID)
		if err != nil {
			return err
		}
		reservation, err := s.reservationRepo.GetByOrderAndMaterial(ctx, db, order.ID, edit.MaterialVariantID)
		if err != nil {
			return err
		}

		current := decimal.Zero
		if reservation != nil {
			current = reservation.Quantity
		}
		delta := edit.TotalQty.Sub(current)
		if delta.IsZero() {
			continue
		}

		kind := models.KindProductionOut
		note := "material added to " + order.Code
		if delta.IsNegative() {
			kind = models.KindProductionIn
			note = "material returned from " + order.Code
		}
		if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
			WarehouseID: order.WarehouseID,
			VariantID:   edit.MaterialVariantID,
			Delta:       delta.Neg(),
			Kind:        kind,
			ReferenceID: &order.ID,
			Resource:    material.SKU,
			Note:        note,
		}); err != nil {
			return err
		}

		if reservation == nil {
			if err := s.reservationRepo.Insert(ctx, db, &models.MaterialReservation{
				ID:                uuid.New(),
				OrderID:           order.ID,
				MaterialVariantID: edit.MaterialVariantID,
				Quantity:          edit.TotalQty,
			}); err != nil {
				return err
			}
		} else if err := s.reservationRepo.UpdateQuantity(ctx, db, reservation.ID, edit.TotalQty); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the order and, when production already ran, reverses its
// stock footprint: reserved materials return and still-present finished goods
// leave. Finished goods that already left the warehouse block the delete.
func (s *productionService) Delete(ctx context.Context, orderID uuid.UUID) error {
	var warehouseID uuid.UUID
	var touchedStock bool
	err := s.tx.RunInTx(ctx, func(db repositories.DB) error {
		order, err := s.orderRepo.GetForUpdate(ctx, db, orderID)
		if err != nil {
			return err
		}
		warehouseID = order.WarehouseID

		if order.Status != models.StatusDraft {
			touchedStock = true
			reservations, err := s.reservationRepo.ListByOrder(ctx, db, order.ID)
			if err != nil {
				return err
			}
			for _, res := range reservations {
				material, err := s.variantRepo.GetVariant(ctx, db, res.MaterialVariantID)
				if err != nil {
					return err
				}
				if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
					WarehouseID: order.WarehouseID,
					VariantID:   res.MaterialVariantID,
					Delta:       res.Quantity,
					Kind:        models.KindProductionIn,
					ReferenceID: &order.ID,
					Resource:    material.SKU,
					Note:        "order cancelled " + order.Code,
				}); err != nil {
					return err
				}
			}

			if order.QuantityFinished > 0 {
				variant, err := s.variantRepo.GetVariant(ctx, db, order.OutputVariantID)
				if err != nil {
					return err
				}
				finished := decimal.NewFromInt(int64(order.QuantityFinished))
				onHand, err := s.ledger.OnHand(ctx, db, order.WarehouseID, order.OutputVariantID)
				if err != nil {
					return err
				}
				if onHand.LessThan(finished) {
					return apperrors.CannotDelete(variant.SKU, finished, onHand)
				}
				if err := s.ledger.Adjust(ctx, db, ledger.AdjustParams{
					WarehouseID: order.WarehouseID,
					VariantID:   order.OutputVariantID,
					Delta:       finished.Neg(),
					Kind:        models.KindProductionOut,
					ReferenceID: &order.ID,
					Resource:    variant.SKU,
					Note:        "order cancelled " + order.Code,
				}); err != nil {
					return err
				}
			}
		}

		if err := s.receiveLogRepo.DeleteByOrder(ctx, db, order.ID); err != nil {
			return err
		}
		if err := s.reservationRepo.DeleteByOrder(ctx, db, order.ID); err != nil {
			return err
		}
		if err := s.orderRepo.DeleteSizeItems(ctx, db, order.ID); err != nil {
			return err
		}
		if err := s.orderRepo.DeleteImages(ctx, db, order.ID); err != nil {
			return err
		}
		if err := s.orderRepo.DeleteSteps(ctx, db, order.ID); err != nil {
			return err
		}
		return s.orderRepo.Delete(ctx, db, order.ID)
	})
	if err != nil {
		return err
	}
	if touchedStock {
		s.invalidateWarehouse(ctx, warehouseID)
	}
	return nil
}

func (s *productionService) ReceiveHistory(ctx context.Context, orderID uuid.UUID) ([]models.ReceiveLog, error) {
	if _, err := s.orderRepo.Get(ctx, s.db, orderID); err != nil {
		return nil, err
	}
	return s.receiveLogRepo.ListByOrder(ctx, s.db, orderID)
}

func (s *productionService) Reservations(ctx context.Context, orderID uuid.UUID) ([]models.MaterialReservation, error) {
	if _, err := s.orderRepo.Get(ctx, s.db, orderID); err != nil {
		return nil, err
	}
	return s.reservationRepo.ListByOrder(ctx, s.db, orderID)
}

// PrintData assembles the shop-floor sheet. For a draft the material list
// comes from the recipe; once started it comes from the reservations, which
// record what was actually taken.
func (s *productionService) PrintData(ctx context.Context, orderID uuid.UUID) (*PrintData, error) {
	order, err := s.orderRepo.Get(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	variant, err := s.variantRepo.GetVariant(ctx, s.db, order.OutputVariantID)
	if err != nil {
		return nil, err
	}
	sizes, err := s.orderRepo.ListSizeItems(ctx, s.db, order.ID)
	if err != nil {
		return nil, err
	}

	type materialLine struct {
		variantID uuid.UUID
		quantity  decimal.Decimal
	}
	var lines []materialLine
	if order.Status == models.StatusDraft {
		_, recipeLines, err := s.resolver.RecipeFor(ctx, s.db, order.OutputVariantID, variant.SKU)
		if err != nil && apperrors.KindOf(err) != apperrors.KindRecipeMissing {
			return nil, err
		}
		if err == nil {
			reqs, err := s.resolver.TotalRequirements(recipeLines, order.QuantityPlanned)
			if err != nil {
				return nil, err
			}
			for _, req := range reqs {
				lines = append(lines, materialLine{variantID: req.MaterialVariantID, quantity: req.TotalQty})
			}
		}
	} else {
		reservations, err := s.reservationRepo.ListByOrder(ctx, s.db, order.ID)
		if err != nil {
			return nil, err
		}
		for _, res := range reservations {
			lines = append(lines, materialLine{variantID: res.MaterialVariantID, quantity: res.Quantity})
		}
	}

	data := &PrintData{
		Order:         order,
		Variant:       variant,
		Sizes:         sizes,
		MaterialTotal: decimal.Zero,
		FeesTotal:     order.Fees.Total(),
	}
	for _, line := range lines {
		mv, err := s.variantRepo.GetVariant(ctx, s.db, line.variantID)
		if err != nil {
			return nil, err
		}
		amount := line.quantity.Mul(mv.UnitCost)
		data.Materials = append(data.Materials, PrintMaterial{
			Variant:  mv,
			Quantity: line.quantity,
			UnitCost: mv.UnitCost,
			Amount:   amount,
		})
		data.MaterialTotal = data.MaterialTotal.Add(amount)
	}
	return data, nil
}

func (s *productionService) SetStepDone(ctx context.Context, orderID, stepID uuid.UUID, done bool) error {
	return s.tx.RunInTx(ctx, func(db repositories.DB) error {
		order, err := s.orderRepo.Get(ctx, db, orderID)
		if err != nil {
			return err
		}
		steps, err := s.orderRepo.ListSteps(ctx, db, order.ID)
		if err != nil {
			return err
		}
		for _, step := range steps {
			if step.ID == stepID {
				return s.orderRepo.SetStepDone(ctx, db, stepID, done)
			}
		}
		return apperrors.NotFound("progress step")
	})
}

// insertOrderGraph writes the order with its size rows, images, and the
// default step list, and returns the assembled read model.
func (s *productionService) insertOrderGraph(ctx context.Context, db repositories.DB, order *models.ProductionOrder, variant *models.Variant, sizes []models.SizeItem, imageURLs []string) (*OrderDetails, error) {
	if err := s.orderRepo.Create(ctx, db, order); err != nil {
		return nil, err
	}
	for i := range sizes {
		sizes[i].ID = uuid.New()
		sizes[i].OrderID = order.ID
		sizes[i].Position = i
	}
	if err := s.orderRepo.InsertSizeItems(ctx, db, sizes); err != nil {
		return nil, err
	}
	if len(imageURLs) > 0 {
		if err := s.orderRepo.ReplaceImages(ctx, db, order.ID, imageURLs); err != nil {
			return nil, err
		}
	}
	steps := make([]models.ProgressStep, 0, len(models.DefaultProgressSteps))
	for i, name := range models.DefaultProgressSteps {
		steps = append(steps, models.ProgressStep{
			ID:       uuid.New(),
			OrderID:  order.ID,
			Name:     name,
			Position: i,
		})
	}
	if err := s.orderRepo.InsertSteps(ctx, db, steps); err != nil {
		return nil, err
	}

	images := make([]models.OrderImage, 0, len(imageURLs))
	for _, url := range imageURLs {
		images = append(images, models.OrderImage{OrderID: order.ID, URL: url})
	}
	return &OrderDetails{
		Order:   order,
		Variant: variant,
		Sizes:   sizes,
		Images:  images,
		Steps:   steps,
	}, nil
}

func (s *productionService) loadDetails(ctx context.Context, db repositories.DB, order *models.ProductionOrder) (*OrderDetails, error) {
	variant, err := s.variantRepo.GetVariant(ctx, db, order.OutputVariantID)
	if err != nil {
		return nil, err
	}
	sizes, err := s.orderRepo.ListSizeItems(ctx, db, order.ID)
	if err != nil {
		return nil, err
	}
	images, err := s.orderRepo.ListImages(ctx, db, order.ID)
	if err != nil {
		return nil, err
	}
	steps, err := s.orderRepo.ListSteps(ctx, db, order.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetails{Order: order, Variant: variant, Sizes: sizes, Images: images, Steps: steps}, nil
}

// priceFinishedUnit rolls the recipe materials (at current weighted-average
// cost) and the fixed fees into a per-unit cost. Without a recipe the cost is
// fees only.
func (s *productionService) priceFinishedUnit(ctx context.Context, db repositories.DB, variant *models.Variant, planned int, fees models.CostComponents) (decimal.Decimal, error) {
	_, lines, err := s.resolver.RecipeFor(ctx, db, variant.ID, variant.SKU)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindRecipeMissing {
			return costing.FinishedUnitCost(nil, fees.Total(), planned)
		}
		return decimal.Zero, err
	}
	reqs, err := s.resolver.TotalRequirements(lines, planned)
	if err != nil {
		return decimal.Zero, err
	}
	materials := make([]costing.MaterialCost, 0, len(reqs))
	for _, req := range reqs {
		mv, err := s.variantRepo.GetVariant(ctx, db, req.MaterialVariantID)
		if err != nil {
			return decimal.Zero, err
		}
		materials = append(materials, costing.MaterialCost{Quantity: req.TotalQty, UnitCost: mv.UnitCost})
	}
	return costing.FinishedUnitCost(materials, fees.Total(), planned)
}

// invalidateWarehouse drops the cached summary for a warehouse whose stock
// changed. Cache failures are logged, never surfaced.
func (s *productionService) invalidateWarehouse(ctx context.Context, warehouseID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeleteWarehouseSummary(ctx, warehouseID); err != nil {
		log.Printf("failed to invalidate warehouse summary cache %s: %v", warehouseID, err)
	}
}

func normalizeSizes(inputs []SizeInput, fallbackQty int) ([]models.SizeItem, int, error) {
	if len(inputs) == 0 {
		if fallbackQty <= 0 {
			return nil, 0, apperrors.InvalidBatchSize(fallbackQty)
		}
		// Orders created without a size breakdown get one catch-all row so
		// receipts and reverts work the same way everywhere.
		inputs = []SizeInput{{Label: "ALL", Quantity: fallbackQty}}
	}
	sizes := make([]models.SizeItem, 0, len(inputs))
	planned := 0
	for _, in := range inputs {
		if in.Quantity < 0 {
			return nil, 0, apperrors.Validation("size %q: quantity cannot be negative", in.Label)
		}
		planned += in.Quantity
		sizes = append(sizes, models.SizeItem{Label: in.Label, QuantityPlanned: in.Quantity})
	}
	if planned <= 0 {
		return nil, 0, apperrors.InvalidBatchSize(planned)
	}
	return sizes, planned, nil
}
