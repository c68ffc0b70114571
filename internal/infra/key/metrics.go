package key

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	derivationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hdkey_derivations_total",
		Help: "Number of wallet key derivations, by kind.",
	}, []string{"kind"})

	passphraseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hdkey_passphrase_failures_total",
		Help: "Number of decrypt attempts rejected by the public key cross-check.",
	})

	rootKeysCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hdkey_root_keys_created_total",
		Help: "Number of root keys created.",
	})
)
