package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lanwatch_checks_total",
		Help: "Number of completed checks per snapshot source.",
	}, []string{"source"})

	IncidentsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lanwatch_incidents_opened_total",
		Help: "Number of incidents opened, by type and severity.",
	}, []string{"type", "severity"})

	IncidentsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lanwatch_incidents_resolved_total",
		Help: "Number of incidents resolved, by type.",
	}, []string{"type"})

	OpenIncidents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lanwatch_open_incidents",
		Help: "Number of currently open incidents.",
	})
)
