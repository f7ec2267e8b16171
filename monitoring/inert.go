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

package monitoring

import (
	"fmt"
	"strings"
	"sync"

	"k8s.io/klog/v2"
)

// InertMetricFactory creates metrics that are only kept in memory. It is the
// default factory of the verifier, and lets tests inspect what was recorded.
type InertMetricFactory struct{}

// NewCounter creates a new inert Counter.
func (InertMetricFactory) NewCounter(name, help string, labelNames ...string) Counter {
	return &InertFloat{store: newStore[float64](name, len(labelNames))}
}

// NewGauge creates a new inert Gauge.
func (InertMetricFactory) NewGauge(name, help string, labelNames ...string) Gauge {
	return &InertFloat{store: newStore[float64](name, len(labelNames))}
}

// NewHistogram creates a new inert Histogram.
func (InertMetricFactory) NewHistogram(name, help string, labelNames ...string) Histogram {
	return &InertDistribution{store: newStore[distribution](name, len(labelNames))}
}

// NewHistogramWithBuckets creates a new inert Histogram. The buckets are not
// used.
func (imf InertMetricFactory) NewHistogramWithBuckets(name, help string, _ []float64, labelNames ...string) Histogram {
	return imf.NewHistogram(name, help, labelNames...)
}

// store holds one value per combination of label values.
type store[V any] struct {
	name       string
	labelCount int
	mu         sync.Mutex
	vals       map[string]V
}

func newStore[V any](name string, labelCount int) store[V] {
	return store[V]{name: name, labelCount: labelCount, vals: make(map[string]V)}
}

// update applies fn to the value for labelVals. Calls with the wrong number of
// labels are logged and dropped.
func (s *store[V]) update(labelVals []string, fn func(*V)) {
	key, err := keyForLabels(labelVals, s.labelCount)
	if err != nil {
		klog.Errorf("%s: %v", s.name, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.vals[key]
	fn(&v)
	s.vals[key] = v
}

func (s *store[V]) get(labelVals []string) V {
	var v V
	key, err := keyForLabels(labelVals, s.labelCount)
	if err != nil {
		klog.Errorf("%s: %v", s.name, err)
		return v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vals[key]
}

// InertFloat is an in-memory implementation of both the Counter and Gauge
// interfaces.
type InertFloat struct {
	store store[float64]
}

// Inc adds 1 to the value.
func (m *InertFloat) Inc(labelVals ...string) {
	m.Add(1.0, labelVals...)
}

// Dec subtracts 1 from the value.
func (m *InertFloat) Dec(labelVals ...string) {
	m.Add(-1.0, labelVals...)
}

// Add adds the given amount to the value.
func (m *InertFloat) Add(val float64, labelVals ...string) {
	m.store.update(labelVals, func(v *float64) { *v += val })
}

// Set sets the value.
func (m *InertFloat) Set(val float64, labelVals ...string) {
	m.store.update(labelVals, func(v *float64) { *v = val })
}

// Value returns the current value.
func (m *InertFloat) Value(labelVals ...string) float64 {
	return m.store.get(labelVals)
}

type distribution struct {
	count uint64
	sum   float64
}

// InertDistribution is an in-memory implementation of the Histogram interface.
type InertDistribution struct {
	store store[distribution]
}

// Observe adds a single observation to the distribution.
func (m *InertDistribution) Observe(val float64, labelVals ...string) {
	m.store.update(labelVals, func(d *distribution) {
		d.count++
		d.sum += val
	})
}

// Info returns count, sum for the distribution.
func (m *InertDistribution) Info(labelVals ...string) (uint64, float64) {
	d := m.store.get(labelVals)
	return d.count, d.sum
}

func keyForLabels(labelVals []string, count int) (string, error) {
	if len(labelVals) != count {
		return "", fmt.Errorf("invalid label count %d; want %d", len(labelVals), count)
	}
	return strings.Join(labelVals, "|"), nil
}
