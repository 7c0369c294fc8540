package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkorolev/dp-store/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var ErrNoExportData = errors.New("no data to export")

// ExportService выгружает состав заказа в xlsx
type ExportService interface {
	ExportOrder(ctx context.Context, orderID int64) (filename string, data []byte, err error)
}

type exportService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
}

func NewExportService(log *slog.Logger, orderRepo storage.OrderStorage) ExportService {
	return &exportService{log: log, orderRepo: orderRepo}
}

const exportSheet = "Order Details"

// ExportOrder собирает xlsx-файл со строками состава заказа
func (s *exportService) ExportOrder(ctx context.Context, orderID int64) (string, []byte, error) {
	const op = "service.ExportService.ExportOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	lines, err := s.orderRepo.GetOrderLines(ctx, orderID)
	if err != nil {
		logger.Error("failed to get order lines", slog.Any("error", err))
		return "", nil, fmt.Errorf("%s: failed to get order lines: %w", op, err)
	}
	if len(lines) == 0 {
		logger.Warn("nothing to export")
		return "", nil, fmt.Errorf("%s: %w", op, ErrNoExportData)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	headers := []string{"Product", "Quantity", "Unit Price", "Total Price"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return "", nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	// Денежные колонки с форматом 0.00
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("0.00")})
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	for i, line := range lines {
		row := i + 2
		total := line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity)))
		values := []any{line.ProductTitle, line.Quantity}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return "", nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		// Деньги пишутся десятичной строкой в числовую ячейку,
		// без прохода через float
		money := []string{line.UnitCost.StringFixed(2), total.StringFixed(2)}
		for col, v := range money {
			cell, _ := excelize.CoordinatesToCellName(col+3, row)
			if err := f.SetCellDefault(exportSheet, cell, v); err != nil {
				return "", nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}
	if err := f.SetColStyle(exportSheet, "C:D", moneyStyle); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("failed to serialize workbook", slog.Any("error", err))
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	filename := fmt.Sprintf("Order_%s.xlsx", time.Now().UTC().Format("20060102150405"))
	logger.Info("order exported", slog.String("filename", filename), slog.Int("lines", len(lines)))
	return filename, buf.Bytes(), nil
}

func strPtr(s string) *string { return &s }
