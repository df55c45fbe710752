package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clubportal", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"handler"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "clubportal", Name: "handler_errors_total", Help: "Handler errors",
	})
	Registrations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "clubportal", Name: "event_registrations_total", Help: "Event attendance registrations",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "clubportal", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HandlerErrors, Registrations, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
