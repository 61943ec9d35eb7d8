package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/domain/models"
	"github.com/davuth/shopledger/internal/repository/mongodb"
)

// ProductStore is the catalog persistence the product handler needs.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	AppendActivity(ctx context.Context, activity models.RecentActivity) error
}

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	store  ProductStore
	logger *zap.Logger
	now    func() time.Time
}

// NewProductHandler constructs the HTTP handler adapter.
func NewProductHandler(store ProductStore, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{store: store, logger: logger, now: time.Now}
}

type productRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price"`
	Cost     float64 `json:"cost"`
	Stock    int     `json:"stock"`
	LowStock int     `json:"lowStock"`
}

type productResponse struct {
	models.Product
	DisplayID string `json:"displayId"`
}

// List returns every product with its derived display id.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, productResponse{Product: p, DisplayID: models.ProductDisplayID(p.ID)})
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds a catalog entry and records it on the activity feed.
func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid product payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product := models.Product{
		Name:     req.Name,
		Price:    req.Price,
		Cost:     req.Cost,
		Stock:    req.Stock,
		LowStock: req.LowStock,
	}
	if err := h.store.CreateProduct(c.Request.Context(), &product); err != nil {
		h.logger.Error("failed creating product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	activity := models.RecentActivity{
		Type:        models.ActivityProduct,
		Description: fmt.Sprintf("New product added: %s", product.Name),
		Time:        h.now(),
		Person:      "Internal",
	}
	if err := h.store.AppendActivity(c.Request.Context(), activity); err != nil {
		h.logger.Warn("failed recording product activity", zap.Error(err))
	}

	c.JSON(http.StatusCreated, productResponse{Product: product, DisplayID: models.ProductDisplayID(product.ID)})
}

// Update replaces a product's editable fields. Stock is not editable here;
// it only moves through posted transactions.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product := models.Product{
		ID:       id,
		Name:     req.Name,
		Price:    req.Price,
		Cost:     req.Cost,
		LowStock: req.LowStock,
	}
	if err := h.store.UpdateProduct(c.Request.Context(), &product); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("failed updating product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a product. Historical ledger rows keep its name.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.store.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("failed deleting product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	c.Status(http.StatusNoContent)
}
