package observ

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoices_created_total",
		Help: "Gateway invoices created",
	})

	PurchasesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "purchases_resolved_total",
		Help: "Purchases that reached a terminal state, by outcome",
	}, []string{"outcome"})

	ConfigsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "configs_issued_total",
		Help: "Config rows consumed from inventory",
	})

	FulfillmentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_failures_total",
		Help: "Failures after a successful payment (manual intervention)",
	})
)
