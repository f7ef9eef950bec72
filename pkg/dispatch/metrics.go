package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramflow_updates_received_total",
		Help: "Update containers received by the dispatcher",
	})
	containersSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramflow_update_containers_skipped_total",
		Help: "Update containers of kinds the dispatcher does not explode",
	})
	eventsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramflow_events_built_total",
		Help: "Events constructed from updates, before filtering",
	})
	eventsFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramflow_events_filtered_total",
		Help: "Events dropped by scope filtering",
	})
	eventsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramflow_events_delivered_total",
		Help: "Events delivered to handlers",
	})
	handlerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramflow_handler_errors_total",
		Help: "Errors returned by event handlers",
	})
	snapshotEntities = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramflow_snapshot_entities_total",
		Help: "Entities collected from update container snapshots",
	})
)
