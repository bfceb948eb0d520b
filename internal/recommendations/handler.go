package recommendations

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"nutricoach-backend/internal/extract"
	"nutricoach-backend/internal/shared/server/middleware"
	"nutricoach-backend/internal/shared/server/respond"
	"nutricoach-backend/internal/shared/storage/object"
	"nutricoach-backend/internal/shared/telemetry"
)

const maxNormalizeBody = 1 << 20

// Handler exposes the normalizer over HTTP.
type Handler struct {
	Store object.Store
}

// NewHandler constructs a Handler. store archives imported files and may be nil.
func NewHandler(store object.Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations/normalize", h.normalize)
	rg.POST("/recommendations/import", h.importFile)
}

type normalizeResponse struct {
	Recommendation Record `json:"recommendation"`
	Source         Source `json:"source"`
}

func (h *Handler) normalize(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxNormalizeBody))
	if err != nil {
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", nil)
		return
	}

	h.reply(c, json.RawMessage(body))
}

func (h *Handler) importFile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, extract.MaxUploadBytes+(64<<10))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	var text string
	if h.Store != nil {
		key, size, mimeType, err := h.Store.Save(ctx, userID, fileHeader.Filename, file)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		telemetry.Info("recommendations.import.stored", map[string]any{
			"user_id":    userID,
			"key":        key,
			"size_bytes": size,
			"mime_type":  mimeType,
		})
		text, err = extract.ExtractText(ctx, h.Store, key, mimeType, fileHeader.Filename)
	} else {
		var data []byte
		data, err = io.ReadAll(file)
		if err == nil {
			text, err = extract.ExtractTextFromBytes(ctx, data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
		}
	}
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "file must be PDF, DOCX or plain text", nil)
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "unable to extract text from file", err.Error())
		return
	}

	h.reply(c, text)
}

func (h *Handler) reply(c *gin.Context, raw any) {
	rec, source, ok := NormalizeObserved(raw)
	c.Set(middleware.RecommendationSourceKey, string(source))
	if !ok {
		respond.Error(c, http.StatusUnprocessableEntity, "no_recommendation", "No recommendation could be produced from the response", nil)
		return
	}
	respond.OK(c, normalizeResponse{Recommendation: rec, Source: source})
}
