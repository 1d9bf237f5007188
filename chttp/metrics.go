package chttp

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors,
// registered against a private registry
// so tests can run many servers in one process.
type Metrics struct {
	reg *prometheus.Registry

	UploadedFiles  prometheus.Counter
	ProofsServed   prometheus.Counter
	MultiProofs    prometheus.Counter
	RequestErrors  *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		reg: reg,

		UploadedFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crest_uploaded_files_total",
			Help: "Number of files accepted through the upload endpoint.",
		}),
		ProofsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crest_proofs_served_total",
			Help: "Number of single-leaf proofs served.",
		}),
		MultiProofs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crest_multiproofs_served_total",
			Help: "Number of compact multiproofs served.",
		}),
		RequestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crest_request_errors_total",
			Help: "Number of requests answered with a client or server error.",
		}, []string{"route", "code"}),
		RequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crest_request_duration_seconds",
			Help:    "Wall time spent handling requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.UploadedFiles,
		m.ProofsServed,
		m.MultiProofs,
		m.RequestErrors,
		m.RequestSeconds,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
