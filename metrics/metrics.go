// Copyright 2026 The GeneLab DAPI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics records per-route request counts and latencies and
// exposes them in Prometheus format. Metrics are labeled by route
// pattern, not raw path, so dataset accessions do not explode the
// cardinality.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"genelab.dev/dapi/router"
)

// Option configures a Recorder.
type Option func(*Recorder)

// Recorder owns a private Prometheus registry with the service's HTTP
// instruments. A private registry avoids collisions with the client
// library's global default and keeps tests isolated.
type Recorder struct {
	registry  *prometheus.Registry
	namespace string

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// WithNamespace sets the metric name prefix. Defaults to "dapi".
func WithNamespace(ns string) Option {
	return func(r *Recorder) { r.namespace = ns }
}

// New creates a Recorder and registers its instruments.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		registry:  prometheus.NewRegistry(),
		namespace: "dapi",
	}
	for _, opt := range opts {
		opt(r)
	}

	r.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method, and status.",
	}, []string{"route", "method", "status"})

	r.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern and method.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method"})

	r.inflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	r.registry.MustRegister(r.requests, r.duration, r.inflight)
	return r
}

// Middleware returns the recording middleware. Install it early in the
// chain so the histogram covers downstream middleware too.
func (r *Recorder) Middleware() router.HandlerFunc {
	return func(c *router.Context) {
		start := time.Now()
		r.inflight.Inc()

		rec := &statusRecorder{ResponseWriter: c.Response, status: http.StatusOK}
		c.Response = rec

		c.Next()

		r.inflight.Dec()
		route := c.RoutePattern()
		method := c.Request.Method
		r.requests.WithLabelValues(route, method, strconv.Itoa(rec.status)).Inc()
		r.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for callers registering
// their own collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
