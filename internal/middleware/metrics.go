package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dilse_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// FeedEventsPublished counts live-feed events published by type.
	FeedEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dilse_feed_events_published_total",
		Help: "Total number of feed events published by event type",
	}, []string{"event_type"})

	// FeedDrops counts feed messages dropped on slow websocket clients.
	FeedDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dilse_feed_drops_total",
		Help: "Total number of feed messages dropped due to backpressure",
	}, []string{"reason"})

	// ActiveFeedSockets tracks currently connected live-feed websockets.
	ActiveFeedSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dilse_active_feed_sockets",
		Help: "Number of currently connected live feed websocket clients",
	})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-metrics handler for the Fiber app.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
