package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "joyjuncture", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "joyjuncture", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "joyjuncture", Name: "http_requests_total", Help: "HTTP requests by route, method and status."},
		[]string{"route", "method", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "joyjuncture", Name: "http_request_duration_seconds", Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets},
		[]string{"route", "method"},
	)

	// PuzzlePicks counts random candidate picks by difficulty and result (found|empty).
	PuzzlePicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "joyjuncture", Name: "puzzle_random_picks_total", Help: "Random unassigned puzzle picks."},
		[]string{"difficulty", "result"},
	)
	// PuzzleAssignments counts conditional assign writes by result (assigned|conflict|missing).
	PuzzleAssignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "joyjuncture", Name: "puzzle_assignments_total", Help: "Puzzle assign attempts by result."},
		[]string{"result"},
	)
	PuzzleUnpublished = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "joyjuncture", Name: "puzzle_unpublished_total", Help: "Puzzles unpublished by admins."},
	)
	WalletCoinsCredited = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "joyjuncture", Name: "wallet_coins_credited_total", Help: "Coins credited to user wallets."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(PuzzlePicks)
	reg.MustRegister(PuzzleAssignments)
	reg.MustRegister(PuzzleUnpublished)
	reg.MustRegister(WalletCoinsCredited)
}
