// Package metrics collects Prometheus counters for authentication and
// domain events.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeInactive = "inactive"
	OutcomeError    = "error"

	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultExpired = "expired"
)

// Recorder is what the service and middleware layers report to.
type Recorder interface {
	RecordLogin(outcome string)
	RecordRefresh(outcome string)
	RecordTokenVerify(result string)
	RecordEventPublished(eventType, result string)
}

// Collector is the Prometheus Recorder.
type Collector struct {
	logins    *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	verifies  *prometheus.CounterVec
	events    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its counters with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_refresh_total",
			Help: "Refresh attempts by outcome",
		}, []string{"outcome"}),
		verifies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_verify_total",
			Help: "Bearer token verifications by result",
		}, []string{"result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_events_published_total",
			Help: "Domain events handed to the broker",
		}, []string{"type", "result"}),
	}

	reg.MustRegister(c.logins, c.refreshes, c.verifies, c.events)
	return c
}

func (c *Collector) RecordLogin(outcome string)      { c.logins.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordRefresh(outcome string)    { c.refreshes.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordTokenVerify(result string) { c.verifies.WithLabelValues(result).Inc() }

func (c *Collector) RecordEventPublished(eventType, result string) {
	c.events.WithLabelValues(eventType, result).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordLogin(string)                 {}
func (Nop) RecordRefresh(string)               {}
func (Nop) RecordTokenVerify(string)           {}
func (Nop) RecordEventPublished(string, string) {}
