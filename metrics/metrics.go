// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	votesCast        *prometheus.CounterVec
	votesUpdated     *prometheus.CounterVec
	voteRejections   *prometheus.CounterVec
	proposalsCreated prometheus.Counter
	rateLimited      prometheus.Counter
	requestDuration  *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		votesCast: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civicvote_votes_cast_total",
			Help: "Total number of votes cast, by choice",
		}, []string{"choice"}),
		votesUpdated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civicvote_votes_updated_total",
			Help: "Total number of vote changes, by new choice",
		}, []string{"choice"}),
		voteRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civicvote_vote_rejections_total",
			Help: "Total number of rejected vote attempts, by reason",
		}, []string{"reason"}),
		proposalsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "civicvote_proposals_created_total",
			Help: "Total number of proposals created",
		}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "civicvote_rate_limited_requests_total",
			Help: "Total number of requests refused by the rate limiter",
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civicvote_http_request_duration_seconds",
			Help:    "HTTP request latency, by method, route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) VoteCast(choice string) {
	if m == nil {
		return
	}
	m.votesCast.WithLabelValues(choice).Inc()
}

func (m *Metrics) VoteUpdated(choice string) {
	if m == nil {
		return
	}
	m.votesUpdated.WithLabelValues(choice).Inc()
}

// VoteRejected counts a refused vote. reason is a short label such as
// "already_voted" or "not_eligible".
func (m *Metrics) VoteRejected(reason string) {
	if m == nil {
		return
	}
	m.voteRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ProposalCreated() {
	if m == nil {
		return
	}
	m.proposalsCreated.Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// ObserveRequest records one HTTP request. route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
