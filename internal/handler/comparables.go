package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"villa-predictor/internal/metrics"
	"villa-predictor/internal/model"
	"villa-predictor/internal/service"

	"github.com/gin-gonic/gin"
)

// ComparablesHandler handles comparable villa HTTP requests
type ComparablesHandler struct {
	comparables  *service.ComparablesService
	defaultLimit int
	maxLimit     int
}

// NewComparablesHandler creates a new comparables handler
func NewComparablesHandler(comparables *service.ComparablesService, defaultLimit, maxLimit int) *ComparablesHandler {
	return &ComparablesHandler{
		comparables:  comparables,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Find handles POST /api/v1/comparables
func (h *ComparablesHandler) Find(c *gin.Context) {
	if !h.comparables.Enabled() {
		metrics.ObserveComparables("disabled")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": service.ErrComparablesDisabled.Error()})
		return
	}

	var req model.VillaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	// Validate and cap limits
	if limit <= 0 {
		limit = h.defaultLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	response, err := h.comparables.Find(c.Request.Context(), req.Features(), limit)
	if err != nil {
		metrics.ObserveComparables("error")
		log.Printf("[ERROR] request %s: %v", RequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Comparables lookup failed: " + err.Error()})
		return
	}

	if response.EstimateFellBack {
		log.Printf("[WARN] request %s priced by rule-based fallback", RequestID(c))
		c.Header(FallbackHeader, "true")
	}

	metrics.ObserveComparables("ok")
	c.JSON(http.StatusOK, response)
}

// GetListing handles GET /api/v1/listings/:id
func (h *ComparablesHandler) GetListing(c *gin.Context) {
	listing, err := h.comparables.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrComparablesDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing: " + err.Error()})
		return
	}

	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// BatchImport handles POST /api/v1/listings/batch
func (h *ComparablesHandler) BatchImport(c *gin.Context) {
	if !h.comparables.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": service.ErrComparablesDisabled.Error()})
		return
	}

	var req model.ListingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	success, errs, err := h.comparables.ImportListings(c.Request.Context(), req.Listings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed: " + err.Error()})
		return
	}

	response := model.ListingBatchResponse{
		Success: success,
		Failed:  len(req.Listings) - success,
		Errors:  errs,
	}

	if len(errs) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}
