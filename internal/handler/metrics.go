package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	shipmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "postal_service",
		Subsystem: "shipments",
		Name:      "created_total",
		Help:      "Total number of shipments created.",
	})

	statusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "postal_service",
		Subsystem: "shipments",
		Name:      "status_updates_total",
		Help:      "Total number of shipment status updates.",
	}, []string{"status"})

	loginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "postal_service",
		Subsystem: "auth",
		Name:      "login_failures_total",
		Help:      "Total number of rejected login attempts.",
	})
)
