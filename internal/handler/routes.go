package handler

import (
	"villa-predictor/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the prediction and comparables endpoints.
// The root-level routes serve the existing frontend; /api/v1 mirrors them.
func RegisterRoutes(router *gin.Engine, predict *PredictHandler, comparables *ComparablesHandler) {
	router.GET("/", predict.Root)
	router.POST("/predict", predict.Predict)
	router.GET("/model-info", predict.ModelInfo)
	router.GET("/metrics", metrics.Handler())

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/predict", predict.Predict)
		apiV1.GET("/model-info", predict.ModelInfo)

		apiV1.POST("/comparables", comparables.Find)
		apiV1.GET("/listings/:id", comparables.GetListing)
		apiV1.POST("/listings/batch", comparables.BatchImport)
	}
}
