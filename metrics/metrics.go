// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "craque"

var (
	BallotsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ballots_created_total",
			Help:      "Ballot create calls by result (created or existing).",
		},
		[]string{"result"},
	)

	VotesCast = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Votes recorded on open ballots.",
		},
	)

	VotesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_rejected_total",
			Help:      "Rejected cast-vote calls by reason.",
		},
		[]string{"reason"},
	)

	ApuracaoRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apuracao_runs_total",
			Help:      "Tally lookups by outcome (cached, computed, in_progress, error).",
		},
		[]string{"outcome"},
	)

	ApuracaoDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apuracao_duration_seconds",
			Help:      "Time spent computing and persisting a weekly tally.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		},
		[]string{"method", "code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method string, code int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(method).Observe(d.Seconds())
}
