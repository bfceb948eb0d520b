package checkins

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nutricoach-backend/internal/shared/server/middleware"
	"nutricoach-backend/internal/shared/server/respond"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches check-in routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkins", h.submit)
	rg.GET("/checkins", h.list)
	rg.GET("/checkins/latest-recommendation", h.latest)
	rg.GET("/checkins/export", h.export)
	rg.GET("/checkins/:id", h.get)
}

func (h *Handler) submit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	checkIn, err := h.Svc.Submit(c.Request.Context(), SubmitInput{
		UserID:       userID,
		WeekStart:    req.WeekStart,
		WeightKg:     req.WeightKg,
		GoalWeightKg: req.GoalWeightKg,
		Notes:        req.Notes,
		Challenges:   req.Challenges,
		AIResponse:   req.aiResponse(),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to save check-in", nil)
		}
		return
	}

	c.Set(middleware.CheckinIDKey, checkIn.ID)
	c.Set(middleware.RecommendationSourceKey, string(checkIn.RecommendationSource))
	respond.Created(c, toResponse(checkIn))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, err := queryInt(c, "limit", 20)
	if err != nil || limit < 1 || limit > maxListLimit {
		respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100", nil)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be zero or positive", nil)
		return
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list check-ins", nil)
		return
	}

	out := make([]checkInResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	respond.OK(c, listResponse{Items: out, Limit: limit, Offset: offset})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")

	checkIn, err := h.Svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "check-in not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load check-in", nil)
		return
	}

	c.Set(middleware.CheckinIDKey, checkIn.ID)
	respond.OK(c, toResponse(checkIn))
}

func (h *Handler) latest(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	rec, err := h.Svc.Latest(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no recommendation yet", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load recommendation", nil)
		return
	}
	respond.OK(c, latestResponse{Recommendation: rec})
}

func (h *Handler) export(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	data, err := h.Svc.ExportXLSX(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to export progress", nil)
		return
	}

	respond.Attachment(c, "progress.xlsx", xlsxContentType, data)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
