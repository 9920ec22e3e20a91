package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_login_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_register_total",
			Help: "Total number of user registrations",
		},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "user_not_found", "invalid_password", "invalid_token" etc.
	)

	TenantOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_tenant_operations_total",
			Help: "Total number of tenant profile operations",
		},
		[]string{"operation"},
	)

	BotConfigOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_botconfig_operations_total",
			Help: "Total number of bot configuration operations",
		},
		[]string{"operation"},
	)

	AugmentationOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_augmentation_operations_total",
			Help: "Total number of data augmentation operations",
		},
		[]string{"source", "operation"}, // source is "document", "url" or "database"
	)

	LeadOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_lead_operations_total",
			Help: "Total number of lead operations",
		},
		[]string{"operation"},
	)

	TrainingOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_training_operations_total",
			Help: "Total number of training configuration operations",
		},
		[]string{"operation"},
	)

	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	ActiveTenantsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_active_tenants",
			Help: "Number of currently active tenants",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portal_info",
			Help: "Information about the chatbot admin portal",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(TenantOperationCounter)
	prometheus.MustRegister(BotConfigOperationCounter)
	prometheus.MustRegister(AugmentationOperationCounter)
	prometheus.MustRegister(LeadOperationCounter)
	prometheus.MustRegister(TrainingOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveTenantsGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordTenantOperation records a tenant profile operation
func RecordTenantOperation(operation string) {
	TenantOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordBotConfigOperation records a bot configuration operation
func RecordBotConfigOperation(operation string) {
	BotConfigOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAugmentationOperation records a data augmentation operation by source
func RecordAugmentationOperation(source, operation string) {
	AugmentationOperationCounter.With(prometheus.Labels{
		"source":    source,
		"operation": operation,
	}).Inc()
}

// RecordLeadOperation records a lead operation
func RecordLeadOperation(operation string) {
	LeadOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordTrainingOperation records a training configuration operation
func RecordTrainingOperation(operation string) {
	TrainingOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// UpdateActiveTenants updates the active tenants gauge
func UpdateActiveTenants(count int64) {
	ActiveTenantsGauge.Set(float64(count))
}
