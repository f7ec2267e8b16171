// Copyright 2026 Google LLC. All Rights Reserved.
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

// Package prometheus provides a Prometheus-based implementation of the
// MetricFactory abstraction.
package prometheus

import (
	"fmt"

	"github.com/google/batchverify/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"k8s.io/klog/v2"
)

// MetricFactory allows the creation of Prometheus-based metrics.
type MetricFactory struct {
	Prefix string
	// Registerer is where new metrics are registered. If nil,
	// prometheus.DefaultRegisterer is used.
	Registerer prometheus.Registerer
}

func (pmf MetricFactory) mustRegister(c prometheus.Collector) {
	r := pmf.Registerer
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	r.MustRegister(c)
}

// NewCounter creates a new Counter object backed by Prometheus.
func (pmf MetricFactory) NewCounter(name, help string, labelNames ...string) monitoring.Counter {
	opts := prometheus.CounterOpts{Name: pmf.Prefix + name, Help: help}
	if len(labelNames) == 0 {
		counter := prometheus.NewCounter(opts)
		pmf.mustRegister(counter)
		return &Counter{single: counter}
	}
	vec := prometheus.NewCounterVec(opts, labelNames)
	pmf.mustRegister(vec)
	return &Counter{labelNames: labelNames, vec: vec}
}

// NewGauge creates a new Gauge object backed by Prometheus.
func (pmf MetricFactory) NewGauge(name, help string, labelNames ...string) monitoring.Gauge {
	opts := prometheus.GaugeOpts{Name: pmf.Prefix + name, Help: help}
	if len(labelNames) == 0 {
		gauge := prometheus.NewGauge(opts)
		pmf.mustRegister(gauge)
		return &Gauge{single: gauge}
	}
	vec := prometheus.NewGaugeVec(opts, labelNames)
	pmf.mustRegister(vec)
	return &Gauge{labelNames: labelNames, vec: vec}
}

// NewHistogram creates a new Histogram object backed by Prometheus, using the
// default Prometheus buckets.
func (pmf MetricFactory) NewHistogram(name, help string, labelNames ...string) monitoring.Histogram {
	return pmf.NewHistogramWithBuckets(name, help, nil, labelNames...)
}

// NewHistogramWithBuckets creates a new Histogram object backed by Prometheus
// with the given bucket upper bounds. Nil buckets select the Prometheus
// defaults.
func (pmf MetricFactory) NewHistogramWithBuckets(name, help string, buckets []float64, labelNames ...string) monitoring.Histogram {
	opts := prometheus.HistogramOpts{Name: pmf.Prefix + name, Help: help, Buckets: buckets}
	if len(labelNames) == 0 {
		histogram := prometheus.NewHistogram(opts)
		pmf.mustRegister(histogram)
		return &Histogram{single: histogram}
	}
	vec := prometheus.NewHistogramVec(opts, labelNames)
	pmf.mustRegister(vec)
	return &Histogram{labelNames: labelNames, vec: vec}
}

// Counter is a wrapper around a Prometheus Counter or CounterVec object.
type Counter struct {
	labelNames []string
	single     prometheus.Counter
	vec        *prometheus.CounterVec
}

func (m *Counter) counter(labelVals []string) (prometheus.Counter, bool) {
	if m.vec == nil {
		if len(labelVals) != 0 {
			klog.Errorf("got %d label values for unlabelled counter", len(labelVals))
			return nil, false
		}
		return m.single, true
	}
	labels, err := labelsFor(m.labelNames, labelVals)
	if err != nil {
		klog.Error(err.Error())
		return nil, false
	}
	return m.vec.With(labels), true
}

// Inc adds 1 to a counter.
func (m *Counter) Inc(labelVals ...string) {
	if c, ok := m.counter(labelVals); ok {
		c.Inc()
	}
}

// Add adds the given amount to a counter.
func (m *Counter) Add(val float64, labelVals ...string) {
	if c, ok := m.counter(labelVals); ok {
		c.Add(val)
	}
}

// Value returns the current amount of a counter.
func (m *Counter) Value(labelVals ...string) float64 {
	c, ok := m.counter(labelVals)
	if !ok {
		return 0.0
	}
	metricpb, ok := read(c)
	if !ok || metricpb.Counter == nil {
		return 0.0
	}
	return metricpb.Counter.GetValue()
}

// Gauge is a wrapper around a Prometheus Gauge or GaugeVec object.
type Gauge struct {
	labelNames []string
	single     prometheus.Gauge
	vec        *prometheus.GaugeVec
}

func (m *Gauge) gauge(labelVals []string) (prometheus.Gauge, bool) {
	if m.vec == nil {
		if len(labelVals) != 0 {
			klog.Errorf("got %d label values for unlabelled gauge", len(labelVals))
			return nil, false
		}
		return m.single, true
	}
	labels, err := labelsFor(m.labelNames, labelVals)
	if err != nil {
		klog.Error(err.Error())
		return nil, false
	}
	return m.vec.With(labels), true
}

// Inc adds 1 to a gauge.
func (m *Gauge) Inc(labelVals ...string) {
	if g, ok := m.gauge(labelVals); ok {
		g.Inc()
	}
}

// Dec subtracts 1 from a gauge.
func (m *Gauge) Dec(labelVals ...string) {
	if g, ok := m.gauge(labelVals); ok {
		g.Dec()
	}
}

// Add adds given value to a gauge.
func (m *Gauge) Add(val float64, labelVals ...string) {
	if g, ok := m.gauge(labelVals); ok {
		g.Add(val)
	}
}

// Set sets the value of a gauge.
func (m *Gauge) Set(val float64, labelVals ...string) {
	if g, ok := m.gauge(labelVals); ok {
		g.Set(val)
	}
}

// Value returns the current amount of a gauge.
func (m *Gauge) Value(labelVals ...string) float64 {
	g, ok := m.gauge(labelVals)
	if !ok {
		return 0.0
	}
	metricpb, ok := read(g)
	if !ok || metricpb.Gauge == nil {
		return 0.0
	}
	return metricpb.Gauge.GetValue()
}

// Histogram is a wrapper around a Prometheus Histogram or HistogramVec object.
type Histogram struct {
	labelNames []string
	single     prometheus.Histogram
	vec        *prometheus.HistogramVec
}

func (m *Histogram) histogram(labelVals []string) (prometheus.Metric, prometheus.Observer, bool) {
	if m.vec == nil {
		if len(labelVals) != 0 {
			klog.Errorf("got %d label values for unlabelled histogram", len(labelVals))
			return nil, nil, false
		}
		return m.single, m.single, true
	}
	labels, err := labelsFor(m.labelNames, labelVals)
	if err != nil {
		klog.Error(err.Error())
		return nil, nil, false
	}
	o := m.vec.With(labels)
	return o.(prometheus.Metric), o, true
}

// Observe adds a single observation to the histogram.
func (m *Histogram) Observe(val float64, labelVals ...string) {
	if _, o, ok := m.histogram(labelVals); ok {
		o.Observe(val)
	}
}

// Info returns the count and sum of observations for the histogram.
func (m *Histogram) Info(labelVals ...string) (uint64, float64) {
	metric, _, ok := m.histogram(labelVals)
	if !ok {
		return 0, 0.0
	}
	metricpb, ok := read(metric)
	if !ok || metricpb.Histogram == nil {
		return 0, 0.0
	}
	return metricpb.Histogram.GetSampleCount(), metricpb.Histogram.GetSampleSum()
}

func read(metric prometheus.Metric) (*dto.Metric, bool) {
	var metricpb dto.Metric
	if err := metric.Write(&metricpb); err != nil {
		klog.Errorf("failed to Write metric: %v", err)
		return nil, false
	}
	return &metricpb, true
}

func labelsFor(names, values []string) (prometheus.Labels, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("got %d (%v) values for %d labels (%v)", len(values), values, len(names), names)
	}
	labels := make(prometheus.Labels)
	for i, name := range names {
		labels[name] = values[i]
	}
	return labels, nil
}
