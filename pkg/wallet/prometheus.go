package wallet

import (
	"errors"
	"time"

	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring keystore usage.
var (
	//nep2Decrypts prometheus metric.
	nep2Decrypts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of NEP-2 key decryption attempts by result",
			Name:      "nep2_decrypt_total",
			Namespace: "neokeystore",
		},
		[]string{"result"},
	)
	//scryptDuration prometheus metric.
	scryptDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Help:      "Time spent on NEP-2 encryption and decryption",
			Name:      "scrypt_seconds",
			Namespace: "neokeystore",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)
	//signatures prometheus metric.
	signatures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of witnesses produced",
			Name:      "signatures_total",
			Namespace: "neokeystore",
		},
	)
)

const (
	decryptOK            = "ok"
	decryptWrongPassword = "wrong_password"
	decryptError         = "error"
)

func init() {
	prometheus.MustRegister(
		nep2Decrypts,
		scryptDuration,
		signatures,
	)
}

func updateDecryptMetric(err error, start time.Time) {
	scryptDuration.Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		nep2Decrypts.WithLabelValues(decryptOK).Inc()
	case errors.Is(err, keys.ErrWrongPassword):
		nep2Decrypts.WithLabelValues(decryptWrongPassword).Inc()
	default:
		nep2Decrypts.WithLabelValues(decryptError).Inc()
	}
}

func updateEncryptMetric(start time.Time) {
	scryptDuration.Observe(time.Since(start).Seconds())
}

func updateSignaturesMetric() {
	signatures.Inc()
}
