package access

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	accessChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "access_checks_total",
		Help: "Feature access decisions by result.",
	}, []string{"result"})

	requestDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "role_request_decisions_total",
		Help: "Role request decisions by outcome.",
	}, []string{"status"})
)
