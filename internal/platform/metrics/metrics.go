package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "judge_web_backend_requests_total",
		Help: "Calls made to the judge backend, by operation and response code.",
	}, []string{"op", "code"})

	LiveEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "judge_web_live_events_total",
		Help: "Live status events received from the backend, by outcome.",
	}, []string{"outcome"})

	LiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "judge_web_live_subscriptions",
		Help: "Open live status subscriptions.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
