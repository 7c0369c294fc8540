package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mkorolev/dp-store/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler – POST /api/cart/export?orderId: состав заказа в xlsx
func ExportHandler(log *slog.Logger, export service.ExportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ExportHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := strconv.ParseInt(r.URL.Query().Get("orderId"), 10, 64)
		if err != nil || orderID <= 0 {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid orderId")
			return
		}

		filename, data, err := export.ExportOrder(r.Context(), orderID)
		if err != nil {
			logger.Warn("export failed", slog.Int64("orderID", orderID), slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			logger.Error("failed to write response", slog.Any("error", err))
		}
	}
}
