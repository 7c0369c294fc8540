package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/service"
	"github.com/mkorolev/dp-store/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

// fakeLinesRepo отдает заранее заданный состав заказа
type fakeLinesRepo struct {
	fakeOrderRepo
	lines map[int64][]*models.OrderLine
}

func (f *fakeLinesRepo) GetOrderLines(ctx context.Context, orderID int64) ([]*models.OrderLine, error) {
	return f.lines[orderID], nil
}

var _ storage.OrderStorage = (*fakeLinesRepo)(nil)

func TestExportOrder_BuildsWorkbook(t *testing.T) {
	repo := &fakeLinesRepo{lines: map[int64][]*models.OrderLine{
		42: {
			{AttributeID: 10, ProductTitle: "T-Shirt", SizeLabel: "M", Quantity: 3, UnitCost: decimal.RequireFromString("19.99")},
			{AttributeID: 11, ProductTitle: "Mug", Quantity: 1, UnitCost: decimal.RequireFromString("5.50")},
		},
	}}
	svc := service.NewExportService(discardLogger(), repo)

	filename, data, err := svc.ExportOrder(context.Background(), 42)
	assert.NoError(t, err)
	assert.Regexp(t, `^Order_\d{14}\.xlsx$`, filename)
	assert.NotEmpty(t, data)

	// Книга читается обратно, и ячейки содержат ожидаемые значения
	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Order Details", "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Product", header)

	title, err := f.GetCellValue("Order Details", "A2")
	assert.NoError(t, err)
	assert.Equal(t, "T-Shirt", title)

	qty, err := f.GetCellValue("Order Details", "B2")
	assert.NoError(t, err)
	assert.Equal(t, "3", qty)

	total, err := f.GetCellValue("Order Details", "D2")
	assert.NoError(t, err)
	assert.Equal(t, "59.97", total)
}

// Денежные ячейки заполняются точной десятичной строкой, без float-округления
func TestExportOrder_ExactMoneyCells(t *testing.T) {
	repo := &fakeLinesRepo{lines: map[int64][]*models.OrderLine{
		7: {
			{AttributeID: 1, ProductTitle: "Sticker", Quantity: 3, UnitCost: decimal.RequireFromString("0.10")},
		},
	}}
	svc := service.NewExportService(discardLogger(), repo)

	_, data, err := svc.ExportOrder(context.Background(), 7)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	unit, err := f.GetCellValue("Order Details", "C2")
	assert.NoError(t, err)
	assert.Equal(t, "0.10", unit)

	total, err := f.GetCellValue("Order Details", "D2")
	assert.NoError(t, err)
	assert.Equal(t, "0.30", total)
}

func TestExportOrder_NoData(t *testing.T) {
	repo := &fakeLinesRepo{lines: map[int64][]*models.OrderLine{}}
	svc := service.NewExportService(discardLogger(), repo)

	_, _, err := svc.ExportOrder(context.Background(), 7)
	assert.ErrorIs(t, err, service.ErrNoExportData)
}
