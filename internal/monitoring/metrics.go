package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	wsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Current number of live websocket connections",
		},
	)

	openRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "open_rooms",
			Help: "Current number of non-empty broadcast rooms",
		},
	)

	broadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_broadcasts_total",
			Help: "Total broadcasts fanned out, by message type",
		},
		[]string{"type"},
	)

	droppedDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dropped_deliveries_total",
			Help: "Broadcast deliveries skipped due to slow or dead connections",
		},
	)

	membershipOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_operations_total",
			Help: "Join/leave operations by outcome",
		},
		[]string{"operation", "status"},
	)
)

func ConnectionOpened() {
	wsConnections.Inc()
}

func ConnectionClosed() {
	wsConnections.Dec()
}

func SetOpenRooms(n int) {
	openRooms.Set(float64(n))
}

func BroadcastSent(msgType string) {
	broadcasts.WithLabelValues(msgType).Inc()
}

func DeliveryDropped() {
	droppedDeliveries.Inc()
}

func MembershipOp(operation, status string) {
	membershipOps.WithLabelValues(operation, status).Inc()
}
