package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"lavapop_analytics/internal/store"
)

// UploadHandler serve o histórico de importações.
type UploadHandler struct {
	uploads *store.UploadStore
}

// NewUploadHandler cria o handler do histórico de importações.
func NewUploadHandler(uploads *store.UploadStore) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// HandleRecent trata GET /uploads — execuções recentes do importador.
// Query: limit.
func (h *UploadHandler) HandleRecent(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		limit := int64(20)
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		recs, err := h.uploads.Recent(c.Context(), limit)
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, fiber.Map{"uploads": recs}, nil)
		return nil
	})
}
