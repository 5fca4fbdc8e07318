package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cmplus/unit-booking-backend/internal/ics"
	"github.com/cmplus/unit-booking-backend/internal/pkg/apperror"
	"github.com/cmplus/unit-booking-backend/internal/pkg/response"
	"github.com/cmplus/unit-booking-backend/internal/unit"
)

type Handler struct {
	exporter ics.Exporter
	importer ics.Importer
}

func NewHandler(exporter ics.Exporter, importer ics.Importer) *Handler {
	return &Handler{exporter: exporter, importer: importer}
}

// Feed serves the unit's calendar feed. The unit path segment may carry the
// conventional .ics suffix. Failures come back as a calendar with a single
// explanatory event: the consumers on the other end are feed pollers, not
// JSON clients.
func (h *Handler) Feed(c *gin.Context) {
	unitID := unit.SanitizeID(strings.TrimSuffix(c.Param("unit"), ".ics"))

	var req FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		feedError(c, unitID, ics.ErrBadMode)
		return
	}
	if err := req.Validate(); err != nil {
		feedError(c, unitID, err)
		return
	}

	feed, err := h.exporter.Feed(c.Request.Context(), unitID, req.Mode, req.Key)
	if err != nil {
		feedError(c, unitID, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+unitID+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

func feedError(c *gin.Context, unitID string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status = appErr.Code
		msg = appErr.Message
	}
	body := ics.ErrorFeed(unitID, c.Request.Host, msg, time.Now())
	c.Data(status, "text/calendar; charset=utf-8", []byte(body))
}

// Pull triggers an immediate import of one platform feed and returns the
// resulting state. Fetch failures are part of the state, not HTTP errors.
func (h *Handler) Pull(c *gin.Context) {
	var req PullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, ics.ErrBadURL)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	state, err := h.importer.Pull(c.Request.Context(), c.Param("unit"), req.Platform, req.URL)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// FeedState returns the persisted outcome of the most recent pull for one
// platform.
func (h *Handler) FeedState(c *gin.Context) {
	state, err := h.importer.State(c.Request.Context(), c.Param("unit"), c.Param("platform"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
