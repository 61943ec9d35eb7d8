package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransactionsPosted counts committed ledger posts by transaction type.
var TransactionsPosted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shopledger_transactions_posted_total",
	Help: "Number of ledger transactions successfully posted.",
}, []string{"type"})

// TransactionFailures counts rejected or failed ledger operations.
var TransactionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shopledger_transaction_failures_total",
	Help: "Number of ledger operations that were rejected or failed.",
}, []string{"operation"})

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "shopledger_http_request_duration_seconds",
	Help:    "HTTP request latency by route and status.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path", "status"})

// Middleware records request latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
