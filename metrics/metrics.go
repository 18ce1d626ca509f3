// Package metrics exposes payment lifecycle and provider traffic to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eamirgh/gopay/payment"
)

// Metrics groups the collectors. Register them with any prometheus.Registerer.
type Metrics struct {
	payments        *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		payments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gopay_payments_total",
				Help: "Payments by driver and lifecycle event (purchased/verified).",
			},
			[]string{"driver", "event"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gopay_gateway_requests_total",
				Help: "Requests sent to payment providers by status code and method.",
			},
			[]string{"code", "method"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gopay_gateway_request_duration_seconds",
				Help:    "Latency of requests sent to payment providers.",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"code", "method"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gopay_gateway_requests_in_flight",
			Help: "Requests to payment providers currently in flight.",
		}),
	}
}

func (m *Metrics) MustRegister(r prometheus.Registerer) {
	r.MustRegister(m.payments, m.requests, m.requestDuration, m.inFlight)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (m *Metrics) Purchased(_ context.Context, e payment.PurchasedEvent) {
	m.payments.WithLabelValues(norm(e.Driver), "purchased").Inc()
}

func (m *Metrics) Verified(_ context.Context, e payment.VerifiedEvent) {
	m.payments.WithLabelValues(norm(e.Driver), "verified").Inc()
}

// InstrumentClient returns a copy of c whose transport records provider traffic.
func (m *Metrics) InstrumentClient(c *http.Client) *http.Client {
	if c == nil {
		c = &http.Client{}
	}
	next := c.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	out := *c
	out.Transport = promhttp.InstrumentRoundTripperInFlight(m.inFlight,
		promhttp.InstrumentRoundTripperCounter(m.requests,
			promhttp.InstrumentRoundTripperDuration(m.requestDuration, next),
		),
	)
	return &out
}

var _ payment.Listener = (*Metrics)(nil)
