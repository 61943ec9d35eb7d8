package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/domain/models"
	"github.com/davuth/shopledger/internal/service/ledger"
	"github.com/davuth/shopledger/internal/service/reports"
	"github.com/davuth/shopledger/pkg/export"
	"github.com/davuth/shopledger/pkg/metrics"
)

const dateLayout = "2006-01-02"

// TransactionHandler serves the ledger endpoints.
type TransactionHandler struct {
	ledgerSvc  *ledger.Service
	reportsSvc *reports.Service
	logger     *zap.Logger
}

// NewTransactionHandler constructs the HTTP handler adapter.
func NewTransactionHandler(ledgerSvc *ledger.Service, reportsSvc *reports.Service, logger *zap.Logger) *TransactionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionHandler{ledgerSvc: ledgerSvc, reportsSvc: reportsSvc, logger: logger}
}

type saleItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
}

type purchaseItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Cost      float64 `json:"cost"`
}

type transactionRequest struct {
	Type models.TransactionType `json:"transactionType" binding:"required"`
	Date string                 `json:"date"`

	ClientID      string            `json:"clientId"`
	SaleItems     []saleItemRequest `json:"saleItems"`
	DeliveryFee   float64           `json:"deliveryFee"`
	PaymentMethod string            `json:"paymentMethod"`

	VendorID      string                `json:"vendorId"`
	PurchaseItems []purchaseItemRequest `json:"purchaseItems"`

	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (r transactionRequest) toPostInput() (ledger.PostInput, error) {
	in := ledger.PostInput{
		Type:          r.Type,
		DeliveryFee:   r.DeliveryFee,
		PaymentMethod: r.PaymentMethod,
		Description:   r.Description,
		Amount:        r.Amount,
	}

	if r.Date != "" {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return in, fmt.Errorf("invalid date %q", r.Date)
		}
		in.Date = date
	} else {
		in.Date = time.Now()
	}

	if r.ClientID != "" {
		id, err := primitive.ObjectIDFromHex(r.ClientID)
		if err != nil {
			return in, errors.New("invalid client id")
		}
		in.ClientID = id
	}
	if r.VendorID != "" {
		id, err := primitive.ObjectIDFromHex(r.VendorID)
		if err != nil {
			return in, errors.New("invalid vendor id")
		}
		if r.Type == models.TypeExpense {
			in.ExpenseVendorID = id
		} else {
			in.VendorID = id
		}
	}

	for _, item := range r.SaleItems {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return in, errors.New("invalid product id in sale items")
		}
		in.SaleItems = append(in.SaleItems, models.SaleItem{
			ProductID: id,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Discount:  item.Discount,
		})
	}
	for _, item := range r.PurchaseItems {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return in, errors.New("invalid product id in purchase items")
		}
		in.PurchaseItems = append(in.PurchaseItems, models.PurchaseItem{
			ProductID: id,
			Quantity:  item.Quantity,
			Cost:      item.Cost,
		})
	}

	return in, nil
}

// List returns the merged ledger, newest first. Supports type, from and to
// query filters.
func (h *TransactionHandler) List(c *gin.Context) {
	typ := models.TransactionType(c.Query("type"))
	if typ != "" && !typ.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown transaction type"})
		return
	}

	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.reportsSvc.Load(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed loading ledger", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, reports.MergedLedger(snap, typ))
}

// Create posts a transaction atomically with its stock and counter effects.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid transaction payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	in, err := req.toPostInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := h.ledgerSvc.Post(c.Request.Context(), in)
	if err != nil {
		metrics.TransactionFailures.WithLabelValues("post").Inc()
		h.respondLedgerError(c, err, "failed to post transaction")
		return
	}

	metrics.TransactionsPosted.WithLabelValues(string(in.Type)).Inc()
	c.JSON(http.StatusCreated, row)
}

// Update edits a posted transaction and reconciles stock with the delta.
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	in, err := req.toPostInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ledgerSvc.Edit(c.Request.Context(), id, in); err != nil {
		metrics.TransactionFailures.WithLabelValues("edit").Inc()
		h.respondLedgerError(c, err, "failed to update transaction")
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a posted transaction and reverses its stock effect.
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	typ := models.TransactionType(c.Query("type"))
	if !typ.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type query parameter is required"})
		return
	}

	if err := h.ledgerSvc.Delete(c.Request.Context(), id, typ); err != nil {
		metrics.TransactionFailures.WithLabelValues("delete").Inc()
		h.respondLedgerError(c, err, "failed to delete transaction")
		return
	}

	c.Status(http.StatusNoContent)
}

// Export streams the full merged ledger as an Excel workbook.
func (h *TransactionHandler) Export(c *gin.Context) {
	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.reportsSvc.Load(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed loading ledger for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export transactions"})
		return
	}

	buf, err := export.TransactionsWorkbook(reports.MergedLedger(snap, ""))
	if err != nil {
		h.logger.Error("failed building workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export transactions"})
		return
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *TransactionHandler) respondLedgerError(c *gin.Context, err error, fallback string) {
	var stockErr *ledger.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error()})
	case errors.Is(err, ledger.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, ledger.ErrProductNotFound),
		errors.Is(err, ledger.ErrClientNotFound),
		errors.Is(err, ledger.ErrVendorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromStr != "" {
		if from, err = time.Parse(dateLayout, fromStr); err != nil {
			return from, to, fmt.Errorf("invalid from date %q", fromStr)
		}
	}
	if toStr != "" {
		if to, err = time.Parse(dateLayout, toStr); err != nil {
			return from, to, fmt.Errorf("invalid to date %q", toStr)
		}
		// Make the upper bound inclusive of the whole day.
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}
