package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"fashionwms/internal/models"
	"fashionwms/internal/repositories"
)

// fakeTxManager runs the unit of work directly; the service tests exercise
// business behavior, not transaction plumbing.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(db repositories.DB) error) error {
	return fn(nil)
}

type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) CreateProduct(ctx context.Context, db repositories.DB, product *models.Product) error {
	args := m.Called(ctx, db, product)
	return args.Error(0)
}

func (m *MockVariantRepository) GetProductByName(ctx context.Context, db repositories.DB, name string) (*models.Product, error) {
	args := m.Called(ctx, db, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockVariantRepository) CreateVariant(ctx context.Context, db repositories.DB, variant *models.Variant) error {
	args := m.Called(ctx, db, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) GetVariant(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.Variant, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Variant), args.Error(1)
}

func (m *MockVariantRepository) GetVariantBySKU(ctx context.Context, db repositories.DB, sku string) (*models.Variant, error) {
	args := m.Called(ctx, db, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Variant), args.Error(1)
}

func (m *MockVariantRepository) UpdateUnitCost(ctx context.Context, db repositories.DB, id uuid.UUID, cost decimal.Decimal) error {
	args := m.Called(ctx, db, id, cost)
	return args.Error(0)
}

func (m *MockVariantRepository) UpdateSKU(ctx context.Context, db repositories.DB, id uuid.UUID, sku string) error {
	args := m.Called(ctx, db, id, sku)
	return args.Error(0)
}

func (m *MockVariantRepository) ListWithStock(ctx context.Context, db repositories.DB, productType *models.ProductType, limit, offset int) ([]*models.VariantWithStock, error) {
	args := m.Called(ctx, db, productType, limit, offset)
	return args.Get(0).([]*models.VariantWithStock), args.Error(1)
}

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) GetForUpdate(ctx context.Context, db repositories.DB, warehouseID, variantID uuid.UUID) (*models.Stock, error) {
	args := m.Called(ctx, db, warehouseID, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stock), args.Error(1)
}

func (m *MockStockRepository) Insert(ctx context.Context, db repositories.DB, stock *models.Stock) error {
	args := m.Called(ctx, db, stock)
	return args.Error(0)
}

func (m *MockStockRepository) UpdateOnHand(ctx context.Context, db repositories.DB, id uuid.UUID, onHand decimal.Decimal) error {
	args := m.Called(ctx, db, id, onHand)
	return args.Error(0)
}

func (m *MockStockRepository) OnHand(ctx context.Context, db repositories.DB, warehouseID, variantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, db, warehouseID, variantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStockRepository) TotalOnHand(ctx context.Context, db repositories.DB, variantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, db, variantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStockRepository) SumForWarehouse(ctx context.Context, db repositories.DB, warehouseID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, db, warehouseID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStockRepository) ListByWarehouse(ctx context.Context, db repositories.DB, warehouseID uuid.UUID) ([]*models.Stock, error) {
	args := m.Called(ctx, db, warehouseID)
	return args.Get(0).([]*models.Stock), args.Error(1)
}

func (m *MockStockRepository) ListAll(ctx context.Context, db repositories.DB) ([]*models.Stock, error) {
	args := m.Called(ctx, db)
	return args.Get(0).([]*models.Stock), args.Error(1)
}

func (m *MockStockRepository) DeleteForWarehouse(ctx context.Context, db repositories.DB, warehouseID uuid.UUID) error {
	args := m.Called(ctx, db, warehouseID)
	return args.Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, db repositories.DB, txn *models.InventoryTransaction) error {
	args := m.Called(ctx, db, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByStock(ctx context.Context, db repositories.DB, warehouseID, variantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, db, warehouseID, variantID, limit, offset)
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByStock(ctx context.Context, db repositories.DB, warehouseID, variantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, db, warehouseID, variantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) DeleteForWarehouse(ctx context.Context, db repositories.DB, warehouseID uuid.UUID) error {
	args := m.Called(ctx, db, warehouseID)
	return args.Error(0)
}

type MockBOMRepository struct {
	mock.Mock
}

func (m *MockBOMRepository) Replace(ctx context.Context, db repositories.DB, bom *models.BOM, lines []models.BOMLine) error {
	args := m.Called(ctx, db, bom, lines)
	return args.Error(0)
}

func (m *MockBOMRepository) GetByOutputVariant(ctx context.Context, db repositories.DB, outputVariantID uuid.UUID) (*models.BOM, []models.BOMLine, error) {
	args := m.Called(ctx, db, outputVariantID)
	var header *models.BOM
	if args.Get(0) != nil {
		header = args.Get(0).(*models.BOM)
	}
	var lines []models.BOMLine
	if args.Get(1) != nil {
		lines = args.Get(1).([]models.BOMLine)
	}
	return header, lines, args.Error(2)
}

func (m *MockBOMRepository) UpdateLineRate(ctx context.Context, db repositories.DB, lineID uuid.UUID, line models.BOMLine) error {
	args := m.Called(ctx, db, lineID, line)
	return args.Error(0)
}

type MockProductionOrderRepository struct {
	mock.Mock
}

func (m *MockProductionOrderRepository) Create(ctx context.Context, db repositories.DB, order *models.ProductionOrder) error {
	args := m.Called(ctx, db, order)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) Get(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.ProductionOrder, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductionOrder), args.Error(1)
}

func (m *MockProductionOrderRepository) GetForUpdate(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.ProductionOrder, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductionOrder), args.Error(1)
}

func (m *MockProductionOrderRepository) List(ctx context.Context, db repositories.DB, limit, offset int) ([]*models.ProductionOrder, error) {
	args := m.Called(ctx, db, limit, offset)
	return args.Get(0).([]*models.ProductionOrder), args.Error(1)
}

func (m *MockProductionOrderRepository) UpdateStatus(ctx context.Context, db repositories.DB, id uuid.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, db, id, status)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) UpdateHeader(ctx context.Context, db repositories.DB, order *models.ProductionOrder) error {
	args := m.Called(ctx, db, order)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) AddFinished(ctx context.Context, db repositories.DB, id uuid.UUID, delta int) error {
	args := m.Called(ctx, db, id, delta)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) Delete(ctx context.Context, db repositories.DB, id uuid.UUID) error {
	args := m.Called(ctx, db, id)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) InsertSizeItems(ctx context.Context, db repositories.DB, items []models.SizeItem) error {
	args := m.Called(ctx, db, items)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) ListSizeItems(ctx context.Context, db repositories.DB, orderID uuid.UUID) ([]models.SizeItem, error) {
	args := m.Called(ctx, db, orderID)
	return args.Get(0).([]models.SizeItem), args.Error(1)
}

func (m *MockProductionOrderRepository) GetSizeItem(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.SizeItem, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SizeItem), args.Error(1)
}

func (m *MockProductionOrderRepository) UpdateSizeItemPlanned(ctx context.Context, db repositories.DB, id uuid.UUID, planned int) error {
	args := m.Called(ctx, db, id, planned)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) AddSizeItemFinished(ctx context.Context, db repositories.DB, id uuid.UUID, delta int) error {
	args := m.Called(ctx, db, id, delta)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) DeleteSizeItems(ctx context.Context, db repositories.DB, orderID uuid.UUID) error {
	args := m.Called(ctx, db, orderID)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) ReplaceImages(ctx context.Context, db repositories.DB, orderID uuid.UUID, urls []string) error {
	args := m.Called(ctx, db, orderID, urls)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) ListImages(ctx context.Context, db repositories.DB, orderID uuid.UUID) ([]models.OrderImage, error) {
	args := m.Called(ctx, db, orderID)
	return args.Get(0).([]models.OrderImage), args.Error(1)
}

func (m *MockProductionOrderRepository) DeleteImages(ctx context.Context, db repositories.DB, orderID uuid.UUID) error {
	args := m.Called(ctx, db, orderID)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) InsertSteps(ctx context.Context, db repositories.DB, steps []models.ProgressStep) error {
	args := m.Called(ctx, db, steps)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) ListSteps(ctx context.Context, db repositories.DB, orderID uuid.UUID) ([]models.ProgressStep, error) {
	args := m.Called(ctx, db, orderID)
	return args.Get(0).([]models.ProgressStep), args.Error(1)
}

func (m *MockProductionOrderRepository) SetStepDone(ctx context.Context, db repositories.DB, stepID uuid.UUID, done bool) error {
	args := m.Called(ctx, db, stepID, done)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) DeleteSteps(ctx context.Context, db repositories.DB, orderID uuid.UUID) error {
	args := m.Called(ctx, db, orderID)
	return args.Error(0)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Insert(ctx context.Context, db repositories.DB, res *models.MaterialReservation) error {
	args := m.Called(ctx, db, res)
	return args.Error(0)
}

func (m *MockReservationRepository) ListByOrder(ctx context.Context, db repositories.DB, orderID uuid.UUID) ([]models.MaterialReservation, error) {
	args := m.Called(ctx, db, orderID)
	return args.Get(0).([]models.MaterialReservation), args.Error(1)
}

func (m *MockReservationRepository) GetByOrderAndMaterial(ctx context.Context, db repositories.DB, orderID, materialVariantID uuid.UUID) (*models.MaterialReservation, error) {
	args := m.Called(ctx, db, orderID, materialVariantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaterialReservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateQuantity(ctx context.Context, db repositories.DB, id uuid.UUID, quantity decimal.Decimal) error {
	args := m.Called(ctx, db, id, quantity)
	return args.Error(0)
}

func (m *MockReservationRepository) DeleteByOrder(ctx context.Context, db repositories.DB, orderID uuid.UUID) error {
	args := m.Called(ctx, db, orderID)
	return args.Error(0)
}

type MockReceiveLogRepository struct {
	mock.Mock
}

func (m *MockReceiveLogRepository) Insert(ctx context.Context, db repositories.DB, log *models.ReceiveLog) error {
	args := m.Called(ctx, db, log)
	return args.Error(0)
}

func (m *MockReceiveLogRepository) Get(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.ReceiveLog, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReceiveLog), args.Error(1)
}

func (m *MockReceiveLogRepository) ListByOrder(ctx context.Context, db repositories.DB, orderID uuid.UUID) ([]models.ReceiveLog, error) {
	args := m.Called(ctx, db, orderID)
	return args.Get(0).([]models.ReceiveLog), args.Error(1)
}

func (m *MockReceiveLogRepository) Delete(ctx context.Context, db repositories.DB, id uuid.UUID) error {
	args := m.Called(ctx, db, id)
	return args.Error(0)
}

func (m *MockReceiveLogRepository) DeleteByOrder(ctx context.Context, db repositories.DB, orderID uuid.UUID) error {
	args := m.Called(ctx, db, orderID)
	return args.Error(0)
}

type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) CreateBrand(ctx context.Context, db repositories.DB, brand *models.Brand) error {
	args := m.Called(ctx, db, brand)
	return args.Error(0)
}

func (m *MockWarehouseRepository) GetBrand(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.Brand, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Brand), args.Error(1)
}

func (m *MockWarehouseRepository) ListBrands(ctx context.Context, db repositories.DB) ([]*models.Brand, error) {
	args := m.Called(ctx, db)
	return args.Get(0).([]*models.Brand), args.Error(1)
}

func (m *MockWarehouseRepository) Create(ctx context.Context, db repositories.DB, warehouse *models.Warehouse) error {
	args := m.Called(ctx, db, warehouse)
	return args.Error(0)
}

func (m *MockWarehouseRepository) Get(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.Warehouse, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) List(ctx context.Context, db repositories.DB, allowedIDs []uuid.UUID) ([]*models.Warehouse, error) {
	args := m.Called(ctx, db, allowedIDs)
	return args.Get(0).([]*models.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) UpdateNameAddress(ctx context.Context, db repositories.DB, id uuid.UUID, name, address string) error {
	args := m.Called(ctx, db, id, name, address)
	return args.Error(0)
}

func (m *MockWarehouseRepository) Delete(ctx context.Context, db repositories.DB, id uuid.UUID) error {
	args := m.Called(ctx, db, id)
	return args.Error(0)
}

func (m *MockWarehouseRepository) HasPurchaseOrders(ctx context.Context, db repositories.DB, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, db, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarehouseRepository) HasProductionOrders(ctx context.Context, db repositories.DB, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, db, id)
	return args.Bool(0), args.Error(1)
}

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) CreateOrder(ctx context.Context, db repositories.DB, order *models.PurchaseOrder) error {
	args := m.Called(ctx, db, order)
	return args.Error(0)
}

func (m *MockPurchaseRepository) GetOrder(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseRepository) ListOrders(ctx context.Context, db repositories.DB, limit, offset int) ([]*models.PurchaseOrder, error) {
	args := m.Called(ctx, db, limit, offset)
	return args.Get(0).([]*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseRepository) UpdateOrderHeader(ctx context.Context, db repositories.DB, order *models.PurchaseOrder) error {
	args := m.Called(ctx, db, order)
	return args.Error(0)
}

func (m *MockPurchaseRepository) DeleteOrder(ctx context.Context, db repositories.DB, id uuid.UUID) error {
	args := m.Called(ctx, db, id)
	return args.Error(0)
}

func (m *MockPurchaseRepository) InsertLine(ctx context.Context, db repositories.DB, line *models.PurchaseLine) error {
	args := m.Called(ctx, db, line)
	return args.Error(0)
}

func (m *MockPurchaseRepository) GetLine(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.PurchaseLine, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseLine), args.Error(1)
}

func (m *MockPurchaseRepository) ListLines(ctx context.Context, db repositories.DB, orderID uuid.UUID) ([]models.PurchaseLine, error) {
	args := m.Called(ctx, db, orderID)
	return args.Get(0).([]models.PurchaseLine), args.Error(1)
}

func (m *MockPurchaseRepository) UpdateLine(ctx context.Context, db repositories.DB, line *models.PurchaseLine) error {
	args := m.Called(ctx, db, line)
	return args.Error(0)
}

func (m *MockPurchaseRepository) DeleteLines(ctx context.Context, db repositories.DB, orderID uuid.UUID) error {
	args := m.Called(ctx, db, orderID)
	return args.Error(0)
}

func (m *MockPurchaseRepository) HistoryForVariant(ctx context.Context, db repositories.DB, variantID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, db, variantID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, db repositories.DB, supplier *models.Supplier) error {
	args := m.Called(ctx, db, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Get(ctx context.Context, db repositories.DB, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) List(ctx context.Context, db repositories.DB, limit, offset int) ([]*models.Supplier, error) {
	args := m.Called(ctx, db, limit, offset)
	return args.Get(0).([]*models.Supplier), args.Error(1)
}
