package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cmplus/unit-booking-backend/internal/pkg/apperror"
	"github.com/cmplus/unit-booking-backend/internal/pkg/response"
	"github.com/cmplus/unit-booking-backend/internal/unit"
)

// maxPriceDocBytes bounds uploaded price documents. A year of daily rates
// is a few kilobytes; a megabyte is already suspicious.
const maxPriceDocBytes = 1 << 20

var errBadUpload = apperror.New(http.StatusUnprocessableEntity, "request body is not a valid JSON document")

type Handler struct {
	repo unit.Repository
}

func NewHandler(repo unit.Repository) *Handler {
	return &Handler{repo: repo}
}

// SavePrices replaces a unit's price document. The store snapshots the
// previous document before the new one lands, so a bad upload is always
// recoverable.
func (h *Handler) SavePrices(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPriceDocBytes+1))
	if err != nil || len(body) == 0 || len(body) > maxPriceDocBytes {
		response.Error(c, errBadUpload)
		return
	}
	if !json.Valid(body) {
		response.Error(c, errBadUpload)
		return
	}

	unitID := unit.SanitizeID(c.Param("unit"))
	if err := h.repo.SavePrices(c.Request.Context(), unitID, body); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, SavePricesResponse{Unit: unitID, Bytes: len(body)})
}

// SavePricesResponse acknowledges a stored price document.
type SavePricesResponse struct {
	Unit  string `json:"unit"`
	Bytes int    `json:"bytes"`
}
