package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/domain/models"
	"github.com/davuth/shopledger/internal/repository/mongodb"
	"github.com/davuth/shopledger/internal/service/reports"
)

// VendorStore is the persistence surface the vendor handler needs.
type VendorStore interface {
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	CreateVendor(ctx context.Context, vendor *models.Vendor) error
	UpdateVendor(ctx context.Context, vendor *models.Vendor) error
	DeleteVendor(ctx context.Context, id primitive.ObjectID) error
	ListPurchases(ctx context.Context, from, to time.Time) ([]models.Purchase, error)
	ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error)
}

// VendorHandler serves the vendor directory endpoints.
type VendorHandler struct {
	store  VendorStore
	logger *zap.Logger
}

// NewVendorHandler constructs the HTTP handler adapter.
func NewVendorHandler(store VendorStore, logger *zap.Logger) *VendorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VendorHandler{store: store, logger: logger}
}

type vendorRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Category      string `json:"category"`
	Phone         string `json:"phone"`
	Location      string `json:"location"`
}

type vendorResponse struct {
	models.Vendor
	DisplayID string `json:"displayId"`
}

// List returns every vendor with totals covering purchases and any expense
// tagged with the vendor's name.
func (h *VendorHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	vendors, err := h.store.ListVendors(ctx)
	if err != nil {
		h.logger.Error("failed listing vendors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vendors"})
		return
	}
	purchases, err := h.store.ListPurchases(ctx, time.Time{}, time.Time{})
	if err != nil {
		h.logger.Error("failed loading purchases for vendor totals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vendors"})
		return
	}
	expenses, err := h.store.ListExpenses(ctx, time.Time{}, time.Time{})
	if err != nil {
		h.logger.Error("failed loading expenses for vendor totals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vendors"})
		return
	}

	resp := make([]vendorResponse, 0, len(vendors))
	for _, v := range reports.VendorsWithTotals(vendors, purchases, expenses) {
		resp = append(resp, vendorResponse{Vendor: v, DisplayID: models.VendorDisplayID(v.ID)})
	}
	c.JSON(http.StatusOK, resp)
}

// Create registers a vendor.
func (h *VendorHandler) Create(c *gin.Context) {
	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid vendor payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vendor := models.Vendor{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Category:      req.Category,
		Phone:         req.Phone,
		Location:      req.Location,
	}
	if err := h.store.CreateVendor(c.Request.Context(), &vendor); err != nil {
		h.logger.Error("failed creating vendor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create vendor"})
		return
	}

	c.JSON(http.StatusCreated, vendorResponse{Vendor: vendor, DisplayID: models.VendorDisplayID(vendor.ID)})
}

// Update replaces a vendor's contact fields.
func (h *VendorHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vendor := models.Vendor{
		ID:            id,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Category:      req.Category,
		Phone:         req.Phone,
		Location:      req.Location,
	}
	if err := h.store.UpdateVendor(c.Request.Context(), &vendor); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
			return
		}
		h.logger.Error("failed updating vendor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update vendor"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a vendor. Ledger rows keep the vendor name.
func (h *VendorHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	if err := h.store.DeleteVendor(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
			return
		}
		h.logger.Error("failed deleting vendor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete vendor"})
		return
	}

	c.Status(http.StatusNoContent)
}
