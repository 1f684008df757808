// Package metrics defines all custom Prometheus metrics for the truck
// management API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register themselves with the default
// registry via promauto on first import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "truckmgmt"

// ── Realtime metrics ──────────────────────────────────────────────────────────

// WebsocketConnections tracks the current number of registered realtime
// clients.
var WebsocketConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_connections",
		Help:      "Current number of connected realtime clients.",
	},
)

// EventsBroadcastTotal counts change events fanned out to clients.
// Label:
//   - type: the event type ("truck_created", "truck_updated", ...)
var EventsBroadcastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_broadcast_total",
		Help:      "Total number of change events broadcast, by event type.",
	},
	[]string{"type"},
)

// BroadcastDropsTotal counts connections dropped after a failed delivery.
var BroadcastDropsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_drops_total",
		Help:      "Total number of connections dropped due to failed deliveries.",
	},
)

// ── Import metrics ────────────────────────────────────────────────────────────

// ImportRowsTotal counts the per-row outcomes of confirmed import batches.
// Label:
//   - result: "imported" or "failed"
var ImportRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Total number of import rows processed, by outcome.",
	},
	[]string{"result"},
)

// ImportSessionsTotal counts staged preview sessions.
var ImportSessionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_sessions_total",
		Help:      "Total number of import preview sessions staged.",
	},
)

// ── Truck metrics ─────────────────────────────────────────────────────────────

// TrucksCreatedTotal counts newly created truck records.
// Label:
//   - terminal: the terminal the truck was registered at
var TrucksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trucks_created_total",
		Help:      "Total number of truck records created, by terminal.",
	},
	[]string{"terminal"},
)
