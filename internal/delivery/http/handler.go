package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricepulse/backend/internal/domain"
	"github.com/pricepulse/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products *usecase.ProductService
}

// NewHandler creates a new HTTP handler
func NewHandler(products *usecase.ProductService) *Handler {
	return &Handler{products: products}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricepulse-backend",
		"version": "1.0.0",
	})
}

// LookupProducts handles bulk product lookup by ASIN or product URL
func (h *Handler) LookupProducts(c *gin.Context) {
	var req domain.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	refs := append(append([]string{}, req.ASINs...), req.URLs...)
	products, err := h.products.Lookup(c.Request.Context(), refs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// SearchProducts handles keyword search requests
func (h *Handler) SearchProducts(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	results, err := h.products.Search(c.Request.Context(), req.Keywords, req.ItemCount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// respondError maps the domain error taxonomy onto HTTP statuses. The
// classified kind stays visible to API consumers so they can make their own
// retry decisions.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "internal"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidASIN):
		status, kind = http.StatusBadRequest, "validation"
	case errors.Is(err, domain.ErrProductNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrRateLimited):
		status, kind = http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, domain.ErrAuthFailed):
		status, kind = http.StatusBadGateway, "upstream_auth"
	case errors.Is(err, domain.ErrTransient):
		status, kind = http.StatusBadGateway, "transient"
	case errors.Is(err, domain.ErrUpstreamFormat):
		status, kind = http.StatusBadGateway, "upstream_format"
	}

	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}
