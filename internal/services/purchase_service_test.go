package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/costing"
	"fashionwms/internal/ledger"
	"fashionwms/internal/models"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	variantRepo   *MockVariantRepository
	stockRepo     *MockStockRepository
	txnRepo       *MockTransactionRepository
	purchaseRepo  *MockPurchaseRepository
	supplierRepo  *MockSupplierRepository
	warehouseRepo *MockWarehouseRepository
	service       PurchaseService
	ctx           context.Context

	warehouseID uuid.UUID
	variantID   uuid.UUID
	supplierID  uuid.UUID
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.variantRepo = new(MockVariantRepository)
	suite.stockRepo = new(MockStockRepository)
	suite.txnRepo = new(MockTransactionRepository)
	suite.purchaseRepo = new(MockPurchaseRepository)
	suite.supplierRepo = new(MockSupplierRepository)
	suite.warehouseRepo = new(MockWarehouseRepository)

	suite.service = NewPurchaseService(
		nil,
		fakeTxManager{},
		ledger.New(suite.stockRepo, suite.txnRepo),
		costing.NewEngine(suite.variantRepo, suite.stockRepo, suite.purchaseRepo),
		suite.purchaseRepo,
		suite.supplierRepo,
		suite.variantRepo,
		suite.warehouseRepo,
		nil,
	)
	suite.ctx = context.Background()
	suite.warehouseID = uuid.New()
	suite.variantID = uuid.New()
	suite.supplierID = uuid.New()
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}

func (suite *PurchaseServiceTestSuite) supplier() *models.Supplier {
	return &models.Supplier{ID: suite.supplierID, Name: "Textile Co"}
}

func (suite *PurchaseServiceTestSuite) TestCreate_BlendsCostFromPreReceiptOnHand() {
	stockID := uuid.New()
	variant := &models.Variant{ID: suite.variantID, SKU: "FAB-01", UnitCost: dec("2.00")}

	suite.warehouseRepo.On("Get", mock.Anything, mock.Anything, suite.warehouseID).
		Return(&models.Warehouse{ID: suite.warehouseID}, nil)
	suite.supplierRepo.On("Get", mock.Anything, mock.Anything, suite.supplierID).Return(suite.supplier(), nil)
	suite.purchaseRepo.On("CreateOrder", mock.Anything, mock.Anything, mock.MatchedBy(func(order *models.PurchaseOrder) bool {
		return order.Code == "PO-001" && order.TotalAmount.Equal(dec("130"))
	})).Return(nil)

	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, suite.variantID).Return(variant, nil)
	// 100 on hand at 2.00 plus 50 at 2.60 -> 2.2
	suite.stockRepo.On("TotalOnHand", mock.Anything, mock.Anything, suite.variantID).Return(dec("100"), nil)
	suite.variantRepo.On("UpdateUnitCost", mock.Anything, mock.Anything, suite.variantID, mock.MatchedBy(func(cost decimal.Decimal) bool {
		return cost.Equal(dec("2.2"))
	})).Return(nil)

	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.warehouseID, suite.variantID).
		Return(&models.Stock{ID: stockID, OnHand: dec("100")}, nil)
	suite.stockRepo.On("UpdateOnHand", mock.Anything, mock.Anything, stockID, mock.MatchedBy(func(onHand decimal.Decimal) bool {
		return onHand.Equal(dec("150"))
	})).Return(nil)
	suite.txnRepo.On("Append", mock.Anything, mock.Anything, mock.MatchedBy(func(txn *models.InventoryTransaction) bool {
		return txn.Kind == models.KindPurchaseIn && txn.Quantity.Equal(dec("50"))
	})).Return(nil)
	suite.purchaseRepo.On("InsertLine", mock.Anything, mock.Anything, mock.MatchedBy(func(line *models.PurchaseLine) bool {
		return line.VariantID == suite.variantID && line.Subtotal.Equal(dec("130"))
	})).Return(nil)

	details, err := suite.service.Create(suite.ctx, PurchaseParams{
		Code:        "PO-001",
		WarehouseID: suite.warehouseID,
		SupplierID:  &suite.supplierID,
		Lines:       []PurchaseLineInput{{VariantID: suite.variantID, Quantity: dec("50"), UnitPrice: dec("2.60")}},
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), details.Lines, 1)
	suite.variantRepo.AssertExpectations(suite.T())
	suite.stockRepo.AssertExpectations(suite.T())
	suite.purchaseRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestCreate_RequiresSupplier() {
	_, err := suite.service.Create(suite.ctx, PurchaseParams{
		Code:        "PO-002",
		WarehouseID: suite.warehouseID,
		Lines:       []PurchaseLineInput{{VariantID: suite.variantID, Quantity: dec("1"), UnitPrice: dec("1")}},
	})
	assert.Equal(suite.T(), apperrors.KindValidation, apperrors.KindOf(err))
}

func (suite *PurchaseServiceTestSuite) TestCreate_RegistersInlineSupplier() {
	stockID := uuid.New()
	variant := &models.Variant{ID: suite.variantID, SKU: "BTN-01", UnitCost: decimal.Zero}

	suite.warehouseRepo.On("Get", mock.Anything, mock.Anything, suite.warehouseID).
		Return(&models.Warehouse{ID: suite.warehouseID}, nil)
	suite.supplierRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(s *models.Supplier) bool {
		return s.Name == "Button House" && s.ID != uuid.Nil
	})).Return(nil)
	suite.purchaseRepo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, suite.variantID).Return(variant, nil)
	suite.stockRepo.On("TotalOnHand", mock.Anything, mock.Anything, suite.variantID).Return(decimal.Zero, nil)
	suite.variantRepo.On("UpdateUnitCost", mock.Anything, mock.Anything, suite.variantID, mock.Anything).Return(nil)
	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.warehouseID, suite.variantID).
		Return(&models.Stock{ID: stockID, OnHand: dec("0")}, nil)
	suite.stockRepo.On("UpdateOnHand", mock.Anything, mock.Anything, stockID, mock.Anything).Return(nil)
	suite.txnRepo.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.purchaseRepo.On("InsertLine", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	details, err := suite.service.Create(suite.ctx, PurchaseParams{
		Code:        "PO-003",
		WarehouseID: suite.warehouseID,
		NewSupplier: &SupplierInput{Name: "Button House"},
		Lines:       []PurchaseLineInput{{VariantID: suite.variantID, Quantity: dec("500"), UnitPrice: dec("0.05")}},
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Button House", details.Supplier.Name)
	suite.supplierRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestUpdate_AdjustsStockByDeltaAndRecomputes() {
	orderID := uuid.New()
	stockID := uuid.New()
	variant := &models.Variant{ID: suite.variantID, SKU: "FAB-01", UnitCost: dec("2")}
	order := &models.PurchaseOrder{ID: orderID, Code: "PO-004", WarehouseID: suite.warehouseID, SupplierID: suite.supplierID}

	suite.purchaseRepo.On("GetOrder", mock.Anything, mock.Anything, orderID).Return(order, nil)
	suite.purchaseRepo.On("ListLines", mock.Anything, mock.Anything, orderID).
		Return([]models.PurchaseLine{{ID: uuid.New(), OrderID: orderID, VariantID: suite.variantID, Quantity: dec("10"), UnitPrice: dec("2")}}, nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, suite.variantID).Return(variant, nil)

	// 10 -> 15 means five more units enter the warehouse.
	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.warehouseID, suite.variantID).
		Return(&models.Stock{ID: stockID, OnHand: dec("10")}, nil)
	suite.stockRepo.On("UpdateOnHand", mock.Anything, mock.Anything, stockID, mock.MatchedBy(func(onHand decimal.Decimal) bool {
		return onHand.Equal(dec("15"))
	})).Return(nil)
	suite.txnRepo.On("Append", mock.Anything, mock.Anything, mock.MatchedBy(func(txn *models.InventoryTransaction) bool {
		return txn.Quantity.Equal(dec("5"))
	})).Return(nil)

	suite.purchaseRepo.On("DeleteLines", mock.Anything, mock.Anything, orderID).Return(nil)
	suite.purchaseRepo.On("InsertLine", mock.Anything, mock.Anything, mock.MatchedBy(func(line *models.PurchaseLine) bool {
		return line.Quantity.Equal(dec("15")) && line.Subtotal.Equal(dec("30"))
	})).Return(nil)
	suite.purchaseRepo.On("UpdateOrderHeader", mock.Anything, mock.Anything, mock.MatchedBy(func(o *models.PurchaseOrder) bool {
		return o.TotalAmount.Equal(dec("30"))
	})).Return(nil)

	// The historical average is repriced from scratch.
	suite.purchaseRepo.On("HistoryForVariant", mock.Anything, mock.Anything, suite.variantID).
		Return(dec("15"), dec("30"), nil)
	suite.variantRepo.On("UpdateUnitCost", mock.Anything, mock.Anything, suite.variantID, mock.MatchedBy(func(cost decimal.Decimal) bool {
		return cost.Equal(dec("2"))
	})).Return(nil)
	suite.supplierRepo.On("Get", mock.Anything, mock.Anything, suite.supplierID).Return(suite.supplier(), nil)

	details, err := suite.service.Update(suite.ctx, orderID, nil, []PurchaseLineInput{
		{VariantID: suite.variantID, Quantity: dec("15"), UnitPrice: dec("2")},
	})
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), details.Order.TotalAmount.Equal(dec("30")))
	suite.purchaseRepo.AssertExpectations(suite.T())
	suite.variantRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestDelete_BlockedWhenReceiptConsumed() {
	orderID := uuid.New()
	variant := &models.Variant{ID: suite.variantID, SKU: "FAB-01"}
	order := &models.PurchaseOrder{ID: orderID, Code: "PO-005", WarehouseID: suite.warehouseID}

	suite.purchaseRepo.On("GetOrder", mock.Anything, mock.Anything, orderID).Return(order, nil)
	suite.purchaseRepo.On("ListLines", mock.Anything, mock.Anything, orderID).
		Return([]models.PurchaseLine{{VariantID: suite.variantID, Quantity: dec("10"), UnitPrice: dec("2")}}, nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, suite.variantID).Return(variant, nil)
	suite.stockRepo.On("OnHand", mock.Anything, mock.Anything, suite.warehouseID, suite.variantID).Return(dec("4"), nil)

	err := suite.service.Delete(suite.ctx, orderID)
	assert.Equal(suite.T(), apperrors.KindCannotDelete, apperrors.KindOf(err))
	suite.purchaseRepo.AssertNotCalled(suite.T(), "DeleteOrder", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestDelete_ReversesReceiptAndRecomputes() {
	orderID := uuid.New()
	stockID := uuid.New()
	variant := &models.Variant{ID: suite.variantID, SKU: "FAB-01"}
	order := &models.PurchaseOrder{ID: orderID, Code: "PO-006", WarehouseID: suite.warehouseID}

	suite.purchaseRepo.On("GetOrder", mock.Anything, mock.Anything, orderID).Return(order, nil)
	suite.purchaseRepo.On("ListLines", mock.Anything, mock.Anything, orderID).
		Return([]models.PurchaseLine{{VariantID: suite.variantID, Quantity: dec("10"), UnitPrice: dec("2")}}, nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, suite.variantID).Return(variant, nil)
	suite.stockRepo.On("OnHand", mock.Anything, mock.Anything, suite.warehouseID, suite.variantID).Return(dec("25"), nil)

	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.warehouseID, suite.variantID).
		Return(&models.Stock{ID: stockID, OnHand: dec("25")}, nil)
	suite.stockRepo.On("UpdateOnHand", mock.Anything, mock.Anything, stockID, mock.MatchedBy(func(onHand decimal.Decimal) bool {
		return onHand.Equal(dec("15"))
	})).Return(nil)
	suite.txnRepo.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	suite.purchaseRepo.On("DeleteLines", mock.Anything, mock.Anything, orderID).Return(nil)
	suite.purchaseRepo.On("DeleteOrder", mock.Anything, mock.Anything, orderID).Return(nil)
	suite.purchaseRepo.On("HistoryForVariant", mock.Anything, mock.Anything, suite.variantID).
		Return(decimal.Zero, decimal.Zero, nil)
	suite.variantRepo.On("UpdateUnitCost", mock.Anything, mock.Anything, suite.variantID, mock.MatchedBy(func(cost decimal.Decimal) bool {
		return cost.IsZero()
	})).Return(nil)

	err := suite.service.Delete(suite.ctx, orderID)
	assert.NoError(suite.T(), err)
	suite.purchaseRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestCreate_TotalsAcrossAllLines() {
	secondVariantID := uuid.New()
	fabric := &models.Variant{ID: suite.variantID, SKU: "FAB-01", UnitCost: decimal.Zero}
	buttons := &models.Variant{ID: secondVariantID, SKU: "BTN-01", UnitCost: decimal.Zero}

	suite.warehouseRepo.On("Get", mock.Anything, mock.Anything, suite.warehouseID).
		Return(&models.Warehouse{ID: suite.warehouseID}, nil)
	suite.supplierRepo.On("Get", mock.Anything, mock.Anything, suite.supplierID).Return(suite.supplier(), nil)
	// 10 @ 2.00 plus 4 @ 2.50 -> 30 across both lines.
	suite.purchaseRepo.On("CreateOrder", mock.Anything, mock.Anything, mock.MatchedBy(func(order *models.PurchaseOrder) bool {
		return order.TotalAmount.Equal(dec("30"))
	})).Return(nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, suite.variantID).Return(fabric, nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, secondVariantID).Return(buttons, nil)
	suite.stockRepo.On("TotalOnHand", mock.Anything, mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	suite.variantRepo.On("UpdateUnitCost", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.warehouseID, mock.Anything).Return(nil, nil)
	suite.stockRepo.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.txnRepo.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.purchaseRepo.On("InsertLine", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	details, err := suite.service.Create(suite.ctx, PurchaseParams{
		Code:        "PO-010",
		WarehouseID: suite.warehouseID,
		SupplierID:  &suite.supplierID,
		Lines: []PurchaseLineInput{
			{VariantID: suite.variantID, Quantity: dec("10"), UnitPrice: dec("2.00")},
			{VariantID: secondVariantID, Quantity: dec("4"), UnitPrice: dec("2.50")},
		},
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), details.Lines, 2)
	suite.purchaseRepo.AssertExpectations(suite.T())
}
