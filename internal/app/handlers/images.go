package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/service"
)

// Ограничение размера загружаемого изображения
const maxImageBytes = 10 << 20

// ImagesHandler — загрузка и выдача изображений товаров.
// Байты принимаются multipart-формой и отдаются как есть
type ImagesHandler struct {
	log    *slog.Logger
	images service.ImageService
}

func NewImagesHandler(log *slog.Logger, images service.ImageService) *ImagesHandler {
	return &ImagesHandler{log: log, images: images}
}

func (h *ImagesHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ImagesHandler.List"
		logger := h.log.With(slog.String("op", op))

		infos, err := h.images.List(r.Context())
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, infos)
	}
}

// ListByProduct – GET /api/images/by-product/{id}
func (h *ImagesHandler) ListByProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ImagesHandler.ListByProduct"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		infos, err := h.images.ListByProduct(r.Context(), id)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, infos)
	}
}

// Data – GET /api/images/{id}/data: необработанные байты изображения
func (h *ImagesHandler) Data() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ImagesHandler.Data"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		img, err := h.images.GetData(r.Context(), id)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		w.Header().Set("Content-Type", http.DetectContentType(img.Data))
		w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(img.Data); err != nil {
			logger.Error("failed to write image data", slog.Any("error", err))
		}
	}
}

// Create – POST /api/images: multipart-форма с полями productId, title, file
func (h *ImagesHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ImagesHandler.Create"
		logger := h.log.With(slog.String("op", op))

		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			logger.Error("invalid multipart form", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid multipart form")
			return
		}
		productID, err := strconv.ParseInt(r.FormValue("productId"), 10, 64)
		if err != nil || productID <= 0 {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid productId")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "missing file")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
		if err != nil {
			logger.Error("failed to read uploaded file", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "failed to read file")
			return
		}

		title := r.FormValue("title")
		if title == "" {
			title = header.Filename
		}
		created, err := h.images.Create(r.Context(), &models.Image{
			ProductID: productID,
			Title:     title,
			Data:      data,
		})
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, models.ImageInfo{
			ID:        created.ID,
			ProductID: created.ProductID,
			Title:     created.Title,
			ByteSize:  len(created.Data),
		})
	}
}

func (h *ImagesHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ImagesHandler.Delete"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		if err := h.images.Delete(r.Context(), id); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
