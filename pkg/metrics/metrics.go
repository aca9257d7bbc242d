// Package metrics prometheus-метрики сервиса: HTTP, база данных и
// доменные счётчики инвентаря (холды, бронирования, sweep).
package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics контейнер всех prometheus-коллекторов сервиса
type Metrics struct {
	serviceName string

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Database
	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      prometheus.Gauge
	dbPoolInUse     prometheus.Gauge
	dbPoolIdle      prometheus.Gauge
	dbPoolWaitCount prometheus.Gauge

	// Domain
	holdsCreated      prometheus.Counter
	holdsConfirmed    prometheus.Counter
	holdsExpired      prometheus.Counter
	holdsReleased     prometheus.Counter
	bookingsCreated   prometheus.Counter
	bookingsConfirmed prometheus.Counter
	bookingsCancelled prometheus.Counter
	bookingsExpired   prometheus.Counter
	sweepRuns         prometheus.Counter
	sweepErrors       prometheus.Counter
}

// New создает и регистрирует все метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		serviceName: serviceName,

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		dbPoolOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_open_connections", Help: "Open connections in the pool", ConstLabels: constLabels,
		}),
		dbPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections", Help: "Connections currently in use", ConstLabels: constLabels,
		}),
		dbPoolIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections", Help: "Idle connections in the pool", ConstLabels: constLabels,
		}),
		dbPoolWaitCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_wait_count", Help: "Total number of connections waited for", ConstLabels: constLabels,
		}),

		holdsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inventory_holds_created_total", Help: "Inventory holds created", ConstLabels: constLabels,
		}),
		holdsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inventory_holds_confirmed_total", Help: "Inventory holds confirmed (committed)", ConstLabels: constLabels,
		}),
		holdsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inventory_holds_expired_total", Help: "Inventory holds expired by sweep or on access", ConstLabels: constLabels,
		}),
		holdsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inventory_holds_released_total", Help: "Inventory holds released explicitly", ConstLabels: constLabels,
		}),
		bookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total", Help: "Bookings created", ConstLabels: constLabels,
		}),
		bookingsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookings_confirmed_total", Help: "Bookings confirmed", ConstLabels: constLabels,
		}),
		bookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookings_cancelled_total", Help: "Bookings cancelled", ConstLabels: constLabels,
		}),
		bookingsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookings_expired_total", Help: "Pending bookings expired after hold expiry", ConstLabels: constLabels,
		}),
		sweepRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hold_sweep_runs_total", Help: "Expiry sweep iterations", ConstLabels: constLabels,
		}),
		sweepErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hold_sweep_errors_total", Help: "Expiry sweep iterations that failed after retries", ConstLabels: constLabels,
		}),
	}
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(seconds)
}

// SetPoolStats обновляет gauge-метрики пула соединений
func (m *Metrics) SetPoolStats(stats sql.DBStats) {
	m.dbPoolOpen.Set(float64(stats.OpenConnections))
	m.dbPoolInUse.Set(float64(stats.InUse))
	m.dbPoolIdle.Set(float64(stats.Idle))
	m.dbPoolWaitCount.Set(float64(stats.WaitCount))
}

func (m *Metrics) IncHoldCreated()       { m.holdsCreated.Inc() }
func (m *Metrics) IncHoldConfirmed()     { m.holdsConfirmed.Inc() }
func (m *Metrics) IncHoldExpired()       { m.holdsExpired.Inc() }
func (m *Metrics) IncHoldReleased()      { m.holdsReleased.Inc() }
func (m *Metrics) IncBookingCreated()    { m.bookingsCreated.Inc() }
func (m *Metrics) IncBookingConfirmed()  { m.bookingsConfirmed.Inc() }
func (m *Metrics) IncBookingCancelled()  { m.bookingsCancelled.Inc() }
func (m *Metrics) IncBookingExpired()    { m.bookingsExpired.Inc() }
func (m *Metrics) IncSweepRun()          { m.sweepRuns.Inc() }
func (m *Metrics) IncSweepError()        { m.sweepErrors.Inc() }
