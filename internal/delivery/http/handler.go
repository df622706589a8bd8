package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mapalengke/backend/internal/domain"
	"github.com/mapalengke/backend/internal/usecase"
	"go.uber.org/zap"
)

const (
	serviceName    = "mapalengke-backend"
	serviceVersion = "1.0.0"
)

// DirectoryUsecase is the directory behaviour the handlers depend on
type DirectoryUsecase interface {
	BrowseCategory(ctx context.Context, request usecase.BrowseRequest) (*usecase.BrowseResult, error)
	VendorDetails(ctx context.Context, vendorID, query string) (*domain.VendorDetails, error)
	Categories() []domain.Category
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	directory DirectoryUsecase
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil directory makes every API
// endpoint answer 501.
func NewHandler(directory DirectoryUsecase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		directory: directory,
		logger:    logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ListCategories returns the browsing menu
func (h *Handler) ListCategories(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": h.directory.Categories()})
}

// BrowseCategory returns the vendors of a category.
// GET /api/v1/categories/:category/vendors?sort=alpha|stall
func (h *Handler) BrowseCategory(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	mode, err := usecase.ParseSortMode(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be 'alpha' or 'stall'"})
		return
	}

	result, err := h.directory.BrowseCategory(c.Request.Context(), usecase.BrowseRequest{
		Category: c.Param("category"),
		Sort:     mode,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// VendorDetails returns a vendor page.
// GET /api/v1/vendors/:id?q=
func (h *Handler) VendorDetails(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	details, err := h.directory.VendorDetails(c.Request.Context(), c.Param("id"), c.Query("q"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Dashboard returns the signed-in vendor's dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	dashboard, err := h.directory.Dashboard(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.directory == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "directory service not configured"})
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.ErrUnauthorized.Error()
	case errors.Is(err, domain.ErrVendorNotFound):
		return http.StatusNotFound, domain.ErrVendorNotFound.Error()
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, domain.ErrRateLimited.Error()
	case errors.Is(err, domain.ErrBackendFailure):
		return http.StatusBadGateway, "market directory is temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
