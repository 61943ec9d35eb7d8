package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/domain/models"
	"github.com/davuth/shopledger/internal/repository/mongodb"
	"github.com/davuth/shopledger/internal/service/reports"
)

// ClientStore is the persistence surface the client handler needs. Sales are
// read so listings can recompute per-client spend instead of trusting the
// stored aggregates.
type ClientStore interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	CountClientsByPhone(ctx context.Context, phone string) (int64, error)
	CreateClient(ctx context.Context, client *models.Client) error
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id primitive.ObjectID) error
	ListSales(ctx context.Context, from, to time.Time) ([]models.Sale, error)
	AppendActivity(ctx context.Context, activity models.RecentActivity) error
}

// ClientHandler serves the client directory endpoints.
type ClientHandler struct {
	store  ClientStore
	logger *zap.Logger
	now    func() time.Time
}

// NewClientHandler constructs the HTTP handler adapter.
func NewClientHandler(store ClientStore, logger *zap.Logger) *ClientHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientHandler{store: store, logger: logger, now: time.Now}
}

type clientRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Province string `json:"province"`
	Location string `json:"location"`
}

type clientResponse struct {
	models.Client
	DisplayID string `json:"displayId"`
}

// List returns every client with spend totals recomputed from the ledger.
func (h *ClientHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	clients, err := h.store.ListClients(ctx)
	if err != nil {
		h.logger.Error("failed listing clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clients"})
		return
	}
	sales, err := h.store.ListSales(ctx, time.Time{}, time.Time{})
	if err != nil {
		h.logger.Error("failed loading sales for client totals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clients"})
		return
	}

	resp := make([]clientResponse, 0, len(clients))
	for _, cl := range reports.ClientsWithTotals(clients, sales) {
		resp = append(resp, clientResponse{Client: cl, DisplayID: models.ClientDisplayID(cl.ID)})
	}
	c.JSON(http.StatusOK, resp)
}

// Create registers a client. The phone pre-check gives a friendly conflict
// message; the unique index is what actually prevents a racing duplicate.
func (h *ClientHandler) Create(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid client payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()

	count, err := h.store.CountClientsByPhone(ctx, req.Phone)
	if err != nil {
		h.logger.Error("failed checking phone", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create client"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "a client with this phone number already exists"})
		return
	}

	client := models.Client{
		Name:     req.Name,
		Phone:    req.Phone,
		Province: req.Province,
		Location: req.Location,
	}
	if err := h.store.CreateClient(ctx, &client); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "a client with this phone number already exists"})
			return
		}
		h.logger.Error("failed creating client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create client"})
		return
	}

	activity := models.RecentActivity{
		Type:        models.ActivityClient,
		Description: fmt.Sprintf("New client added: %s", client.Name),
		Time:        h.now(),
		Person:      client.Name,
	}
	if err := h.store.AppendActivity(ctx, activity); err != nil {
		h.logger.Warn("failed recording client activity", zap.Error(err))
	}

	c.JSON(http.StatusCreated, clientResponse{Client: client, DisplayID: models.ClientDisplayID(client.ID)})
}

// Update replaces a client's contact fields.
func (h *ClientHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	client := models.Client{
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		Province: req.Province,
		Location: req.Location,
	}
	if err := h.store.UpdateClient(c.Request.Context(), &client); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "a client with this phone number already exists"})
			return
		}
		h.logger.Error("failed updating client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update client"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a client. Ledger rows keep the client name.
func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	if err := h.store.DeleteClient(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		h.logger.Error("failed deleting client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete client"})
		return
	}

	c.Status(http.StatusNoContent)
}
