// Package metrics counts what happens in an edit session.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "kn"

// Session holds the counters for one edit run; it satisfies editor.Recorder
type Session struct {
	namespace string
	registry  *prometheus.Registry

	edits        *prometheus.CounterVec
	clamped      prometheus.Counter
	saves        prometheus.Counter
	saveFailures prometheus.Counter
	cells        prometheus.Gauge
}

// Option configures a Session
type Option func(*Session)

// WithNamespace overrides the metric namespace
func WithNamespace(ns string) Option {
	return func(s *Session) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithRegistry uses an existing registry
func WithRegistry(r *prometheus.Registry) Option {
	return func(s *Session) {
		if r != nil {
			s.registry = r
		}
	}
}

// New creates and registers the session metrics
func New(opts ...Option) *Session {
	s := &Session{namespace: defaultNamespace}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.edits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: s.namespace,
		Name:      "edits_total",
		Help:      "Grid mutations by intent.",
	}, []string{"intent"})
	s.clamped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: s.namespace,
		Name:      "clamped_total",
		Help:      "Mutations whose value was clamped.",
	})
	s.saves = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: s.namespace,
		Name:      "saves_total",
		Help:      "Successful saves.",
	})
	s.saveFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: s.namespace,
		Name:      "save_failures_total",
		Help:      "Failed saves.",
	})
	s.cells = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: s.namespace,
		Name:      "cells",
		Help:      "Cells holding a value.",
	})

	s.registry.MustRegister(s.edits, s.clamped, s.saves, s.saveFailures, s.cells)
	return s
}

// Edit counts one mutation
func (s *Session) Edit(intent string, clamped bool) {
	s.edits.WithLabelValues(intent).Inc()
	if clamped {
		s.clamped.Inc()
	}
}

// Save counts a save attempt by result
func (s *Session) Save(err error) {
	if err != nil {
		s.saveFailures.Inc()
		return
	}
	s.saves.Inc()
}

// Cells sets the number of present cells
func (s *Session) Cells(n int) {
	s.cells.Set(float64(n))
}

// Registry exposes the underlying registry
func (s *Session) Registry() *prometheus.Registry { return s.registry }

// WriteTextfile dumps all metrics in text exposition format
func (s *Session) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, s.registry)
}
