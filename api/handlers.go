package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-fuzzy-search/config"
	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// metricsSource is implemented by engines that record match metrics.
type metricsSource interface {
	MatchMetrics() *metrics.MatchMetrics
}

// API holds dependencies for API handlers, primarily the collection manager.
type API struct {
	engine services.CollectionManager
	logger *zap.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.CollectionManager, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.L()
	}
	return &API{
		engine: engine,
		logger: logger,
	}
}

// SetupRoutes defines all the API routes for the fuzzy search service.
func SetupRoutes(router *gin.Engine, engine services.CollectionManager, logger *zap.Logger) {
	apiHandler := NewAPI(engine, logger)

	// Health check and metrics
	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", apiHandler.GetMetricsHandler)

	// Collection management routes
	collectionRoutes := router.Group("/collections")
	{
		collectionRoutes.POST("", apiHandler.CreateCollectionHandler)                         // Create a new collection
		collectionRoutes.GET("", apiHandler.ListCollectionsHandler)                           // List all collections
		collectionRoutes.GET("/:name", apiHandler.GetCollectionHandler)                       // Settings and stats
		collectionRoutes.DELETE("/:name", apiHandler.DeleteCollectionHandler)                 // Delete a collection
		collectionRoutes.PATCH("/:name/settings", apiHandler.UpdateCollectionSettingsHandler) // Update match defaults
		collectionRoutes.POST("/:name/rename", apiHandler.RenameCollectionHandler)            // Rename a collection
		collectionRoutes.PUT("/:name/candidates", apiHandler.SetCandidatesHandler)            // Replace the candidate snapshot

		// Match route per collection
		collectionRoutes.POST("/:name/_match", apiHandler.MatchHandler)
	}
}

// CreateCollectionHandler handles the request to create a new collection.
// Request Body: config.CollectionSettings
func (api *API) CreateCollectionHandler(c *gin.Context) {
	var settings config.CollectionSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		sendBindError(c, err)
		return
	}

	if result := ValidateCollectionSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.CreateCollection(settings); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrCollectionAlreadyExists):
			SendCollectionExistsError(c, settings.Name)
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendInternalError(c, "create collection", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Collection '" + settings.Name + "' created successfully"})
}

// ListCollectionsHandler lists all collection names.
func (api *API) ListCollectionsHandler(c *gin.Context) {
	names := api.engine.ListCollections()
	c.JSON(http.StatusOK, gin.H{
		"collections": names,
		"count":       len(names),
	})
}

// GetCollectionHandler returns the settings and stats of one collection.
func (api *API) GetCollectionHandler(c *gin.Context) {
	accessor, ok := api.collection(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": accessor.Settings(),
		"stats":    accessor.Stats(),
	})
}

// DeleteCollectionHandler deletes a collection.
func (api *API) DeleteCollectionHandler(c *gin.Context) {
	name := c.Param("name")
	if result := ValidateCollectionName(name); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.DeleteCollection(name); err != nil {
		if errors.Is(err, internalErrors.ErrCollectionNotFound) {
			SendCollectionNotFoundError(c, name)
			return
		}
		SendInternalError(c, "delete collection", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collection '" + name + "' deleted successfully"})
}

// UpdateCollectionSettingsHandler updates the match defaults of a collection.
// Request Body: config.CollectionSettings (name may be omitted)
func (api *API) UpdateCollectionSettingsHandler(c *gin.Context) {
	name := c.Param("name")
	if result := ValidateCollectionName(name); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var settings config.CollectionSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		sendBindError(c, err)
		return
	}

	if err := api.engine.UpdateCollectionSettings(name, settings); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrCollectionNotFound):
			SendCollectionNotFoundError(c, name)
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendInternalError(c, "update collection settings", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings for collection '" + name + "' updated successfully"})
}

// RenameRequest is the body of a rename call.
type RenameRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// RenameCollectionHandler renames a collection.
func (api *API) RenameCollectionHandler(c *gin.Context) {
	name := c.Param("name")
	if result := ValidateCollectionName(name); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, err)
		return
	}
	if result := ValidateCollectionName(req.NewName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.RenameCollection(name, req.NewName); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrSameName):
			SendSameNameError(c, req.NewName)
		case errors.Is(err, internalErrors.ErrCollectionNotFound):
			SendCollectionNotFoundError(c, name)
		case errors.Is(err, internalErrors.ErrCollectionAlreadyExists):
			SendCollectionExistsError(c, req.NewName)
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendInternalError(c, "rename collection", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collection '" + name + "' renamed to '" + req.NewName + "'"})
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "go-fuzzy-search",
		"collections": len(api.engine.ListCollections()),
		"timestamp":   fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// GetMetricsHandler returns match performance metrics.
func (api *API) GetMetricsHandler(c *gin.Context) {
	source, ok := api.engine.(metricsSource)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInvalidRequest, "Metrics are not available for this engine")
		return
	}

	collector := source.MatchMetrics()
	c.JSON(http.StatusOK, gin.H{
		"metrics":           collector.GetMetrics(),
		"cancellation_rate": collector.GetCancellationRate(),
		"recent_average_ms": gin.H{
			string(metrics.MatchModeParallel):    millis(collector.GetAverageExecutionTimeByMode(metrics.MatchModeParallel)),
			string(metrics.MatchModeSynchronous): millis(collector.GetAverageExecutionTimeByMode(metrics.MatchModeSynchronous)),
			string(metrics.MatchModeEmptyQuery):  millis(collector.GetAverageExecutionTimeByMode(metrics.MatchModeEmptyQuery)),
		},
	})
}

// collection resolves the :name parameter, writing the error response itself
// when the collection cannot be used.
func (api *API) collection(c *gin.Context) (services.CollectionAccessor, bool) {
	name := c.Param("name")
	if result := ValidateCollectionName(name); result.HasErrors() {
		SendValidationError(c, result)
		return nil, false
	}

	accessor, err := api.engine.GetCollection(name)
	if err != nil {
		if errors.Is(err, internalErrors.ErrCollectionNotFound) {
			SendCollectionNotFoundError(c, name)
			return nil, false
		}
		SendInternalError(c, "get collection", err)
		return nil, false
	}
	return accessor, true
}

func sendBindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeInvalidRequest,
			fmt.Sprintf("Request body exceeds %d bytes", maxBytesErr.Limit))
		return
	}
	SendInvalidJSONError(c, err)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
