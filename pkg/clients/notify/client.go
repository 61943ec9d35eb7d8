package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/config"
	"github.com/davuth/shopledger/internal/domain/models"
)

// lowStockAlert is the webhook payload posted when a sale drops a product
// to or below its low-stock mark.
type lowStockAlert struct {
	Event     string    `json:"event"`
	ProductID string    `json:"productId"`
	Product   string    `json:"product"`
	Stock     int       `json:"stock"`
	LowStock  int       `json:"lowStock"`
	Time      time.Time `json:"time"`
}

// WebhookNotifier posts low-stock alerts to a configured endpoint. Delivery
// is best effort; failures are logged and dropped.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
}

// NewWebhookNotifier builds a notifier from configuration. It returns nil
// when no webhook URL is configured, which callers treat as disabled.
func NewWebhookNotifier(cfg config.NotifierConfig, logger *zap.Logger) *WebhookNotifier {
	if cfg.WebhookURL == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	return &WebhookNotifier{httpClient: restyClient, url: cfg.WebhookURL, logger: logger}
}

// NotifyLowStock delivers one alert for the given product.
func (n *WebhookNotifier) NotifyLowStock(ctx context.Context, product models.Product) {
	alert := lowStockAlert{
		Event:     "low_stock",
		ProductID: product.ID.Hex(),
		Product:   product.Name,
		Stock:     product.Stock,
		LowStock:  product.LowStock,
		Time:      time.Now(),
	}

	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(alert).
		Post(n.url)
	if err != nil {
		n.logger.Warn("low stock webhook failed", zap.String("product", product.Name), zap.Error(err))
		return
	}
	if resp.IsError() {
		n.logger.Warn("low stock webhook rejected",
			zap.String("product", product.Name),
			zap.Int("status", resp.StatusCode()))
		return
	}

	n.logger.Info("low stock alert delivered", zap.String("product", product.Name), zap.Int("stock", product.Stock))
}
