package recipes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values.
const (
	sourceRemote = "remote"
	sourceLocal  = "local"
	sourceMode   = "mode"

	resultOK            = "ok"
	resultError         = "error"
	resultAlreadySeeded = "already_seeded"
)

var (
	getCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "recipes_get_total",
			Help: "Number of recipe list requests, by backend and result.",
		},
		[]string{"source", "result"},
	)

	seedCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "recipes_seed_total",
			Help: "Number of local store seeding attempts, by result.",
		},
		[]string{"result"},
	)
)

func observeGet(source string, err error) {
	getCounter.WithLabelValues(source, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return resultError
	}

	return resultOK
}
