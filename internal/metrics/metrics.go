package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medibook",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	slotQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medibook",
			Name:      "slot_queries_total",
			Help:      "Count of slot generation queries.",
		},
	)

	slotsGenerated = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "medibook",
			Name:      "slots_generated_per_query",
			Help:      "Number of bookable slots returned per query.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
	)

	meetingEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medibook",
			Name:      "meeting_evaluations_total",
			Help:      "Count of meeting-window evaluations by outcome.",
		},
		[]string{"available"},
	)

	windowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medibook",
			Name:      "meeting_window_transitions_total",
			Help:      "Count of meeting-window open/close transitions.",
		},
		[]string{"transition"},
	)

	nextWindowOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "medibook",
			Name:      "next_meeting_window_open_seconds",
			Help:      "Seconds until the next tracked meeting window opens.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, slotQueries, slotsGenerated,
			meetingEvaluated, windowTransitions, nextWindowOpen)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncSlotQuery(slotCount int) {
	slotQueries.Inc()
	slotsGenerated.Observe(float64(slotCount))
}

func IncMeetingEvaluated(available bool) {
	label := "false"
	if available {
		label = "true"
	}
	meetingEvaluated.WithLabelValues(label).Inc()
}

func IncWindowTransition(transition string) {
	windowTransitions.WithLabelValues(transition).Inc()
}

func SetNextWindowOpenSeconds(v float64) {
	nextWindowOpen.Set(v)
}
