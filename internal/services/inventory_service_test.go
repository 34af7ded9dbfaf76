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
	"fashionwms/internal/common"
	"fashionwms/internal/ledger"
	"fashionwms/internal/models"
)

type InventoryServiceTestSuite struct {
	suite.Suite
	variantRepo   *MockVariantRepository
	stockRepo     *MockStockRepository
	txnRepo       *MockTransactionRepository
	warehouseRepo *MockWarehouseRepository
	service       InventoryService
	ctx           context.Context

	fromID    uuid.UUID
	toID      uuid.UUID
	variantID uuid.UUID
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.variantRepo = new(MockVariantRepository)
	suite.stockRepo = new(MockStockRepository)
	suite.txnRepo = new(MockTransactionRepository)
	suite.warehouseRepo = new(MockWarehouseRepository)

	suite.service = NewInventoryService(
		nil,
		fakeTxManager{},
		ledger.New(suite.stockRepo, suite.txnRepo),
		suite.stockRepo,
		suite.variantRepo,
		suite.warehouseRepo,
		nil,
	)
	suite.ctx = context.Background()
	suite.fromID = uuid.New()
	suite.toID = uuid.New()
	suite.variantID = uuid.New()
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}

func (suite *InventoryServiceTestSuite) TestTransfer_MovesBothSidesUnderOneReference() {
	srcStockID := uuid.New()
	variant := &models.Variant{ID: suite.variantID, SKU: "DRESS-01"}

	suite.warehouseRepo.On("Get", mock.Anything, mock.Anything, suite.fromID).
		Return(&models.Warehouse{ID: suite.fromID, IsCentral: true}, nil)
	suite.warehouseRepo.On("Get", mock.Anything, mock.Anything, suite.toID).
		Return(&models.Warehouse{ID: suite.toID}, nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, suite.variantID).Return(variant, nil)

	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.fromID, suite.variantID).
		Return(&models.Stock{ID: srcStockID, OnHand: dec("30")}, nil)
	suite.stockRepo.On("UpdateOnHand", mock.Anything, mock.Anything, srcStockID, mock.MatchedBy(func(onHand decimal.Decimal) bool {
		return onHand.Equal(dec("20"))
	})).Return(nil)
	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.toID, suite.variantID).Return(nil, nil)
	suite.stockRepo.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(s *models.Stock) bool {
		return s.WarehouseID == suite.toID && s.OnHand.Equal(dec("10"))
	})).Return(nil)

	var posted []models.InventoryTransaction
	suite.txnRepo.On("Append", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		posted = append(posted, *args.Get(2).(*models.InventoryTransaction))
	}).Return(nil)

	err := suite.service.Transfer(suite.ctx, TransferParams{
		FromWarehouseID: suite.fromID,
		ToWarehouseID:   suite.toID,
		Items:           []TransferItem{{VariantID: suite.variantID, Quantity: dec("10")}},
		Note:            "restock satellite",
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), posted, 2)
	assert.Equal(suite.T(), models.KindTransferOut, posted[0].Kind)
	assert.Equal(suite.T(), models.KindTransferIn, posted[1].Kind)
	assert.True(suite.T(), posted[0].Quantity.Equal(dec("-10")))
	assert.True(suite.T(), posted[1].Quantity.Equal(dec("10")))
	// Both legs share one reference so the pair stays traceable.
	assert.NotNil(suite.T(), posted[0].ReferenceID)
	assert.NotNil(suite.T(), posted[1].ReferenceID)
	assert.Equal(suite.T(), *posted[0].ReferenceID, *posted[1].ReferenceID)
	suite.stockRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestTransfer_MultiItemSharesOneReference() {
	secondVariantID := uuid.New()
	fabric := &models.Variant{ID: suite.variantID, SKU: "FABRIC-01"}
	buttons := &models.Variant{ID: secondVariantID, SKU: "BTN-01"}
	fabricStockID := uuid.New()
	buttonStockID := uuid.New()

	suite.warehouseRepo.On("Get", mock.Anything, mock.Anything, suite.fromID).
		Return(&models.Warehouse{ID: suite.fromID}, nil)
	suite.warehouseRepo.On("Get", mock.Anything, mock.Anything, suite.toID).
		Return(&models.Warehouse{ID: suite.toID}, nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, suite.variantID).Return(fabric, nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, secondVariantID).Return(buttons, nil)

	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.fromID, suite.variantID).
		Return(&models.Stock{ID: fabricStockID, OnHand: dec("50")}, nil)
	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.fromID, secondVariantID).
		Return(&models.Stock{ID: buttonStockID, OnHand: dec("200")}, nil)
	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.toID, mock.Anything).Return(nil, nil)
	suite.stockRepo.On("UpdateOnHand", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.stockRepo.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var posted []models.InventoryTransaction
	suite.txnRepo.On("Append", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		posted = append(posted, *args.Get(2).(*models.InventoryTransaction))
	}).Return(nil)

	err := suite.service.Transfer(suite.ctx, TransferParams{
		FromWarehouseID: suite.fromID,
		ToWarehouseID:   suite.toID,
		Items: []TransferItem{
			{VariantID: suite.variantID, Quantity: dec("10")},
			{VariantID: secondVariantID, Quantity: dec("120")},
		},
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), posted, 4)
	for _, txn := range posted {
		assert.NotNil(suite.T(), txn.ReferenceID)
		assert.Equal(suite.T(), *posted[0].ReferenceID, *txn.ReferenceID)
	}
}

func (suite *InventoryServiceTestSuite) TestTransfer_RejectsSameWarehouse() {
	err := suite.service.Transfer(suite.ctx, TransferParams{
		FromWarehouseID: suite.fromID,
		ToWarehouseID:   suite.fromID,
		Items:           []TransferItem{{VariantID: suite.variantID, Quantity: dec("5")}},
	})
	assert.Equal(suite.T(), apperrors.KindValidation, apperrors.KindOf(err))
}

func (suite *InventoryServiceTestSuite) TestTransfer_RejectsEmptyItems() {
	err := suite.service.Transfer(suite.ctx, TransferParams{
		FromWarehouseID: suite.fromID,
		ToWarehouseID:   suite.toID,
	})
	assert.Equal(suite.T(), apperrors.KindValidation, apperrors.KindOf(err))
}

func (suite *InventoryServiceTestSuite) TestTransfer_RejectsNonPositiveQuantity() {
	err := suite.service.Transfer(suite.ctx, TransferParams{
		FromWarehouseID: suite.fromID,
		ToWarehouseID:   suite.toID,
		Items:           []TransferItem{{VariantID: suite.variantID, Quantity: decimal.Zero}},
	})
	assert.Equal(suite.T(), apperrors.KindValidation, apperrors.KindOf(err))
}

func (suite *InventoryServiceTestSuite) TestTransfer_SourceShortageLeavesDestinationUntouched() {
	variant := &models.Variant{ID: suite.variantID, SKU: "DRESS-01"}

	suite.warehouseRepo.On("Get", mock.Anything, mock.Anything, suite.fromID).
		Return(&models.Warehouse{ID: suite.fromID}, nil)
	suite.warehouseRepo.On("Get", mock.Anything, mock.Anything, suite.toID).
		Return(&models.Warehouse{ID: suite.toID}, nil)
	suite.variantRepo.On("GetVariant", mock.Anything, mock.Anything, suite.variantID).Return(variant, nil)
	suite.stockRepo.On("GetForUpdate", mock.Anything, mock.Anything, suite.fromID, suite.variantID).
		Return(&models.Stock{ID: uuid.New(), OnHand: dec("5")}, nil)

	err := suite.service.Transfer(suite.ctx, TransferParams{
		FromWarehouseID: suite.fromID,
		ToWarehouseID:   suite.toID,
		Items:           []TransferItem{{VariantID: suite.variantID, Quantity: dec("10")}},
	})
	assert.Equal(suite.T(), apperrors.KindInsufficientStock, apperrors.KindOf(err))
	suite.stockRepo.AssertNotCalled(suite.T(), "Insert", mock.Anything, mock.Anything, mock.Anything)
	suite.txnRepo.AssertNotCalled(suite.T(), "Append", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestOnHand_ReadsSnapshot() {
	warehouseID := uuid.New()
	suite.stockRepo.On("OnHand", mock.Anything, mock.Anything, warehouseID, suite.variantID).Return(dec("42"), nil)

	onHand, err := suite.service.OnHand(suite.ctx, warehouseID, suite.variantID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), onHand.Equal(dec("42")))
}

func (suite *InventoryServiceTestSuite) TestReads_HideWarehousesOutsideScope() {
	allowedID := uuid.New()
	hiddenID := uuid.New()
	ctx := common.WithWarehouseScope(context.Background(), []uuid.UUID{allowedID})

	_, err := suite.service.OnHand(ctx, hiddenID, suite.variantID)
	assert.Equal(suite.T(), apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = suite.service.History(ctx, hiddenID, suite.variantID, 50, 0)
	assert.Equal(suite.T(), apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = suite.service.ListByWarehouse(ctx, hiddenID)
	assert.Equal(suite.T(), apperrors.KindNotFound, apperrors.KindOf(err))

	suite.stockRepo.AssertNotCalled(suite.T(), "OnHand", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.stockRepo.AssertNotCalled(suite.T(), "ListByWarehouse", mock.Anything, mock.Anything, mock.Anything)
	suite.txnRepo.AssertNotCalled(suite.T(), "ListByStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestReads_AllowScopedWarehouse() {
	allowedID := uuid.New()
	ctx := common.WithWarehouseScope(context.Background(), []uuid.UUID{allowedID})
	suite.stockRepo.On("OnHand", mock.Anything, mock.Anything, allowedID, suite.variantID).Return(dec("7"), nil)

	onHand, err := suite.service.OnHand(ctx, allowedID, suite.variantID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), onHand.Equal(dec("7")))
}
