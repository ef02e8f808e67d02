package handler

import (
	"errors"
	"log"
	"net/http"

	"villa-predictor/internal/model"
	"villa-predictor/internal/service"

	"github.com/gin-gonic/gin"
)

// FallbackHeader is set on responses priced by the rule-based formula after a model failure
const FallbackHeader = "X-Prediction-Fallback"

// PredictHandler handles price prediction HTTP requests
type PredictHandler struct {
	pricing *service.PricingService
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(pricing *service.PricingService) *PredictHandler {
	return &PredictHandler{
		pricing: pricing,
	}
}

// Root handles GET /
func (h *PredictHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.StatusResponse{
		Message:     "🏖️ Villa Price Predictor API",
		Status:      "active",
		ModelLoaded: h.pricing.ModelLoaded(),
	})
}

// Predict handles POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var req model.VillaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, estimate, err := h.pricing.Predict(req.Features())
	if err != nil {
		log.Printf("[ERROR] request %s: %v", RequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed: " + err.Error()})
		return
	}

	if estimate.FellBack() {
		log.Printf("[WARN] request %s priced by rule-based fallback: %v", RequestID(c), estimate.FallbackErr)
		c.Header(FallbackHeader, "true")
	}

	c.JSON(http.StatusOK, response)
}

// ModelInfo handles GET /model-info
func (h *PredictHandler) ModelInfo(c *gin.Context) {
	info, err := h.pricing.ModelInfo()
	if err != nil {
		if errors.Is(err, service.ErrMetadataUnavailable) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Model not loaded"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", info)
}
