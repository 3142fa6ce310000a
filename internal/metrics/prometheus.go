package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postop_turns_total",
			Help: "Chat turns processed, by resolution outcome",
		},
		[]string{"outcome"},
	)

	TurnDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "postop_turn_duration_seconds",
			Help:    "Turn processing duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	MatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "postop_match_score",
			Help:    "Best cosine similarity score per medical lookup",
			Buckets: []float64{0.05, 0.1, 0.15, 0.2, 0.3, 0.4, 0.6, 0.8, 1.0},
		},
	)

	GuardTriggered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postop_guard_triggered_total",
			Help: "Safety guard interceptions, by signal",
		},
		[]string{"signal"},
	)

	UnansweredLogged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "postop_unanswered_logged_total",
			Help: "Queries routed to the human review log",
		},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "postop_match_cache_hits_total",
			Help: "Similarity lookup cache hits",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "postop_match_cache_misses_total",
			Help: "Similarity lookup cache misses",
		},
	)

	KnowledgeEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "postop_knowledge_entries",
			Help: "Entries in the loaded knowledge base",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "postop_active_sessions",
			Help: "Sessions with carried context tags",
		},
	)
)

func Init() {
	prometheus.MustRegister(TurnsTotal)
	prometheus.MustRegister(TurnDuration)
	prometheus.MustRegister(MatchScore)
	prometheus.MustRegister(GuardTriggered)
	prometheus.MustRegister(UnansweredLogged)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(KnowledgeEntries)
	prometheus.MustRegister(ActiveSessions)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
