// Package metrics provides Prometheus instrumentation for the auction engine.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BidsTotal counts bid attempts, partitioned by engine outcome.
	BidsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosterbid_bids_total",
		Help: "Total bid attempts by outcome",
	}, []string{"outcome"})

	// PlayersSoldTotal counts players awarded to a team.
	PlayersSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rosterbid_players_sold_total",
		Help: "Players sold during auctions",
	})

	// PlayersUnsoldTotal counts players that failed to sell.
	PlayersUnsoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rosterbid_players_unsold_total",
		Help: "Players passed unsold during auctions",
	})

	// AuctionTimerSeconds mirrors the floor countdown.
	AuctionTimerSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rosterbid_auction_timer_seconds",
		Help: "Seconds remaining on the auction floor clock",
	})

	// WebSocketClients tracks connected WebSocket viewers.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rosterbid_websocket_clients",
		Help: "Number of connected WebSocket viewers",
	})

	// SnapshotSaves counts snapshot persistence attempts by result.
	SnapshotSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosterbid_snapshot_saves_total",
		Help: "Snapshot save attempts",
	}, []string{"status"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosterbid_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rosterbid_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the route pattern for path label to avoid high cardinality.
		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack delegates to the wrapped writer so WebSocket upgrades work through
// the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: underlying ResponseWriter does not support hijacking")
	}
	return hj.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
