// Package metrics holds the prometheus collectors of the round engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BetsAdmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_bets_admitted_total", Help: "bets accepted into an open round",
	}, []string{"game"})
	BetsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_bets_rejected_total", Help: "bet requests rejected, by error code",
	}, []string{"game", "code"})
	StakedCC = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_staked_cc_total", Help: "currency debited by bet admission",
	}, []string{"game"})
	PaidCC = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_paid_cc_total", Help: "currency credited by settlement",
	}, []string{"game"})

	RoundsOpened = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_opened_total", Help: "rounds created",
	}, []string{"game"})
	RoundsSettled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_settled_total", Help: "rounds that completed settlement",
	}, []string{"game"})
	RacesLost = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_races_lost_total", Help: "conditional transitions another caller won",
	}, []string{"transition"})
	SettlementErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_settlement_errors_total", Help: "settlements left claimed-incomplete",
	}, []string{"game"})
	SettlementSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "rounds_settlement_seconds", Help: "claim to completion latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"game"})

	SSEConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rounds_sse_connections_active", Help: "open room event streams",
	})
	WSConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rounds_ws_connections_active", Help: "open room websockets",
	})
	EventPublishErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rounds_event_publish_errors_total", Help: "events an external publisher refused",
	})
	EventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_events_dropped_total", Help: "events dropped because a publisher queue was full",
	}, []string{"publisher"})

	PushSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_push_sent_total", Help: "webhook messages delivered",
	}, []string{"platform"})
	PushFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_push_failed_total", Help: "webhook deliveries that failed",
	}, []string{"platform"})
	PushRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rounds_push_retries_total", Help: "webhook deliveries scheduled for retry",
	})
	PushDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rounds_push_dropped_total", Help: "webhook messages given up on",
	}, []string{"reason"})
	PushQueueLen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rounds_push_queue_len", Help: "webhook messages waiting for a worker",
	})
)

func init() {
	prometheus.MustRegister(
		BetsAdmitted, BetsRejected, StakedCC, PaidCC,
		RoundsOpened, RoundsSettled, RacesLost, SettlementErrors, SettlementSeconds,
		SSEConnections, WSConnections, EventPublishErrors, EventsDropped,
		PushSent, PushFailed, PushRetries, PushDropped, PushQueueLen,
	)
}
