package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type StockRepoTestSuite struct {
	suite.Suite
	mock        pgxmock.PgxPoolIface
	repo        StockRepository
	warehouseID uuid.UUID
	variantID   uuid.UUID
	context     context.Context
}

func (suite *StockRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewStockRepo()
	suite.warehouseID = uuid.New()
	suite.variantID = uuid.New()
	suite.context = context.Background()
}

func (suite *StockRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestStockRepoTestSuite(t *testing.T) {
	suite.Run(t, new(StockRepoTestSuite))
}

func (suite *StockRepoTestSuite) TestGetForUpdate_Found() {
	stockID := uuid.New()
	rows := pgxmock.NewRows([]string{"id", "warehouse_id", "variant_id", "quantity_on_hand", "updated_at"}).
		AddRow(stockID, suite.warehouseID, suite.variantID, decimal.RequireFromString("42.5"), time.Now())

	suite.mock.ExpectQuery(`
		SELECT id, warehouse_id, variant_id, quantity_on_hand, updated_at
		FROM inventory_stocks
		WHERE warehouse_id = \$1 AND variant_id = \$2
		FOR UPDATE
	`).WithArgs(suite.warehouseID, suite.variantID).WillReturnRows(rows)

	stock, err := suite.repo.GetForUpdate(suite.context, suite.mock, suite.warehouseID, suite.variantID)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), stock)
	assert.Equal(suite.T(), stockID, stock.ID)
	assert.True(suite.T(), stock.OnHand.Equal(decimal.RequireFromString("42.5")))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockRepoTestSuite) TestGetForUpdate_NoRowMeansNilStock() {
	rows := pgxmock.NewRows([]string{"id", "warehouse_id", "variant_id", "quantity_on_hand", "updated_at"})

	suite.mock.ExpectQuery(`
		SELECT id, warehouse_id, variant_id, quantity_on_hand, updated_at
		FROM inventory_stocks
		WHERE warehouse_id = \$1 AND variant_id = \$2
		FOR UPDATE
	`).WithArgs(suite.warehouseID, suite.variantID).WillReturnRows(rows)

	stock, err := suite.repo.GetForUpdate(suite.context, suite.mock, suite.warehouseID, suite.variantID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), stock)
}

func (suite *StockRepoTestSuite) TestUpdateOnHand() {
	stockID := uuid.New()
	onHand := decimal.RequireFromString("17")

	suite.mock.ExpectExec(`
		UPDATE inventory_stocks
		SET quantity_on_hand = \$1, updated_at = NOW\(\)
		WHERE id = \$2
	`).WithArgs(onHand, stockID).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateOnHand(suite.context, suite.mock, stockID, onHand)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockRepoTestSuite) TestOnHand_SumsSnapshot() {
	rows := pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("120"))

	suite.mock.ExpectQuery(`
		SELECT COALESCE\(SUM\(quantity_on_hand\), 0\)
		FROM inventory_stocks
		WHERE warehouse_id = \$1 AND variant_id = \$2
	`).WithArgs(suite.warehouseID, suite.variantID).WillReturnRows(rows)

	onHand, err := suite.repo.OnHand(suite.context, suite.mock, suite.warehouseID, suite.variantID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), onHand.Equal(decimal.RequireFromString("120")))
}

func (suite *StockRepoTestSuite) TestTotalOnHand_SpansWarehouses() {
	rows := pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("300"))

	suite.mock.ExpectQuery(`
		SELECT COALESCE\(SUM\(quantity_on_hand\), 0\)
		FROM inventory_stocks
		WHERE variant_id = \$1
	`).WithArgs(suite.variantID).WillReturnRows(rows)

	total, err := suite.repo.TotalOnHand(suite.context, suite.mock, suite.variantID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), total.Equal(decimal.RequireFromString("300")))
}

func (suite *StockRepoTestSuite) TestDeleteForWarehouse() {
	suite.mock.ExpectExec(`DELETE FROM inventory_stocks WHERE warehouse_id = \$1`).
		WithArgs(suite.warehouseID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	err := suite.repo.DeleteForWarehouse(suite.context, suite.mock, suite.warehouseID)
	assert.NoError(suite.T(), err)
}
