package analyses

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/credits"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/util"
)

const maxUploadBytes = 10 << 20

var allowedContentTypes = map[string]struct{}{
	extract.MimePDF:  {},
	extract.MimeDOCX: {},
}

// Handler exposes the analysis endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analyze", h.status)
	rg.POST("/analyze", h.analyze)
}

func (h *Handler) status(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{
		"message": "Resume analysis API is ready",
		"methods": []string{"POST"},
	})
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds 10 MiB limit", nil)
		return
	}

	fileName, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	contentType := normalizeContentType(header.Header.Get("Content-Type"))
	if _, ok := allowedContentTypes[contentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "unsupported_type", "only PDF and DOCX files are supported", nil)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}
	if len(data) > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds 10 MiB limit", nil)
		return
	}

	c.Set("fileName", fileName)

	report, err := h.Svc.Analyze(c.Request.Context(), AnalyzeInput{
		UserID:         userID,
		Filename:       fileName,
		MimeType:       contentType,
		Data:           data,
		JobDescription: c.PostForm("jobDescription"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, report)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var parseErr *extract.ParseError
	var provErr *llm.ProviderError

	switch {
	case errors.Is(err, credits.ErrInsufficientCredits):
		respond.Error(c, http.StatusPaymentRequired, "insufficient_credits",
			"not enough credits to run an analysis", gin.H{"required": credits.ScanCost})
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_type",
			"only PDF and DOCX files are supported", nil)
	case errors.As(err, &parseErr):
		respond.Error(c, http.StatusBadRequest, "extraction_failed",
			"could not read the uploaded "+parseErr.Format+" file", nil)
	case errors.Is(err, extract.ErrNoText):
		respond.Error(c, http.StatusBadRequest, "empty_extraction",
			"no text could be extracted from the file", nil)
	case errors.Is(err, llm.ErrMissingCredential):
		respond.Error(c, http.StatusInternalServerError, "provider_not_configured",
			"analysis provider is not configured", nil)
	case errors.As(err, &provErr):
		telemetry.Error("provider.call_failed", map[string]any{
			"provider":   provErr.Provider,
			"error":      provErr.Err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusBadGateway, "provider_error",
			"the "+provErr.Provider+" analysis service failed", nil)
	case errors.Is(err, ErrInvalidProviderOutput):
		respond.Error(c, http.StatusInternalServerError, "invalid_provider_output",
			"analysis produced an invalid result", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error",
			"analysis failed", nil)
	}
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
