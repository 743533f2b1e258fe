package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"picklist/internal/models"
	"picklist/internal/services"
)

// Extractor is the image-to-products collaborator.
type Extractor interface {
	ExtractProducts(ctx context.Context, image string) (*models.ImageExtraction, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// APIHandler handles all API requests
type APIHandler struct {
	lists     *services.ListService
	trips     *services.TripService
	extractor Extractor
	health    HealthChecker
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(lists *services.ListService, trips *services.TripService, extractor Extractor, health HealthChecker) *APIHandler {
	return &APIHandler{
		lists:     lists,
		trips:     trips,
		extractor: extractor,
		health:    health,
	}
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.POST("/products", h.CreateProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)
		api.POST("/products/:id/toggle", h.ToggleShoppingList)

		api.GET("/shopping-list", h.GetShoppingList)
		api.POST("/shopping-list/:id/check", h.CheckOffProduct)
		api.POST("/shopping-list/:id/uncheck", h.UncheckProduct)

		api.POST("/trips/complete", h.CompleteTrip)
		api.GET("/trips", h.ListTrips)

		api.POST("/extract-products", h.ExtractProducts)

		api.GET("/health", h.HealthCheck)
	}
}

type productRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Source   string  `json:"source"`
	Price    string  `json:"price"`
	Notes    string  `json:"notes"`
}

type productUpdateRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Order    *int     `json:"order"`
	Price    *string  `json:"price"`
	Notes    *string  `json:"notes"`
}

type completeTripRequest struct {
	Location  string `json:"location"`
	StartTime string `json:"start_time"`
}

type extractRequest struct {
	Image string `json:"image" binding:"required"`
}

// ListProducts returns the full picklist
func (h *APIHandler) ListProducts(c *gin.Context) {
	products, err := h.lists.ListPicklist(c.Request.Context())
	if err != nil {
		log.Printf("Error listing products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// CreateProduct adds a product to the picklist
func (h *APIHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}
	if req.Unit != "" && !models.ValidUnit(req.Unit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown unit"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.Unit == "" {
		req.Unit = "unit"
	}

	product, err := h.lists.CreateProduct(c.Request.Context(), services.NewProduct{
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Source:   req.Source,
		Details:  models.ProductDetails{Price: req.Price, Notes: req.Notes},
	})
	if err != nil {
		log.Printf("Error creating product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct applies a partial update to a product
func (h *APIHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Category != nil && !models.ValidCategory(*req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}
	if req.Unit != nil && !models.ValidUnit(*req.Unit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown unit"})
		return
	}

	product, err := h.lists.UpdateProduct(c.Request.Context(), id, services.ProductUpdate{
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Order:    req.Order,
		Price:    req.Price,
		Notes:    req.Notes,
	})
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("Error updating product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product from the picklist
func (h *APIHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	err := h.lists.DeleteProduct(c.Request.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleShoppingList moves a product into or out of the shopping list
func (h *APIHandler) ToggleShoppingList(c *gin.Context) {
	id := c.Param("id")

	product, err := h.lists.ToggleShoppingList(c.Request.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("Error toggling product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetShoppingList returns the shopping list ordered by the learned in-store
// traversal. The optional "location" query parameter is the current location
// fingerprint; a missing or malformed value degrades to global scoring.
func (h *APIHandler) GetShoppingList(c *gin.Context) {
	location := c.Query("location")

	items, learningActive, err := h.lists.SortedShoppingList(c.Request.Context(), location)
	if err != nil {
		log.Printf("Error loading shopping list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shopping list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":           items,
		"learning_active": learningActive,
	})
}

// CheckOffProduct marks a shopping-list item as picked up
func (h *APIHandler) CheckOffProduct(c *gin.Context) {
	id := c.Param("id")

	product, err := h.lists.CheckOff(c.Request.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in shopping list"})
		return
	}
	if err != nil {
		log.Printf("Error checking off product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check off product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UncheckProduct reverts a check-off
func (h *APIHandler) UncheckProduct(c *gin.Context) {
	id := c.Param("id")

	product, err := h.lists.Uncheck(c.Request.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in shopping list"})
		return
	}
	if err != nil {
		log.Printf("Error unchecking product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to uncheck product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CompleteTrip records the current session as an immutable trip record
func (h *APIHandler) CompleteTrip(c *gin.Context) {
	var req completeTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.trips.CompleteTrip(c.Request.Context(), req.Location, req.StartTime)
	if errors.Is(err, services.ErrNoCheckedItems) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No checked-off items to record"})
		return
	}
	if err != nil {
		log.Printf("Error completing trip: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete trip"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// ListTrips returns the full trip history, newest first
func (h *APIHandler) ListTrips(c *gin.Context) {
	trips, err := h.trips.ListTrips(c.Request.Context())
	if err != nil {
		log.Printf("Error listing trips: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// ExtractProducts forwards an image to the extraction provider and returns
// the candidate products
func (h *APIHandler) ExtractProducts(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: image"})
		return
	}

	result, err := h.extractor.ExtractProducts(c.Request.Context(), req.Image)
	if err != nil {
		log.Printf("Error extracting products: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Extraction failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HealthCheck reports service and store health
func (h *APIHandler) HealthCheck(c *gin.Context) {
	if err := h.health.Health(c.Request.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
