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

// Package testonly contains checks shared by the MetricFactory
// implementations, and helpers for asserting on metric changes in tests.
package testonly

import (
	"testing"

	"github.com/google/batchverify/monitoring"
)

type labelCase struct {
	name       string
	labelNames []string
	labelVals  []string
}

func labelCases(kind string) []labelCase {
	return []labelCase{
		{name: kind + "0"},
		{name: kind + "1", labelNames: []string{"key1"}, labelVals: []string{"val1"}},
		{name: kind + "2", labelNames: []string{"key1", "key2"}, labelVals: []string{"val1", "val2"}},
	}
}

// bogus returns vals with one label too many.
func bogus(vals []string) []string {
	return append(append([]string{}, vals...), "bogus")
}

// TestCounter runs a test on a Counter produced from the provided MetricFactory.
func TestCounter(t *testing.T, factory monitoring.MetricFactory) {
	t.Helper()
	for _, test := range labelCases("counter") {
		counter := factory.NewCounter("test_"+test.name, "Test only", test.labelNames...)
		check := func(want float64, vals ...string) {
			t.Helper()
			if got := counter.Value(vals...); got != want {
				t.Errorf("Counter(test_%s)[%v].Value()=%v; want %v", test.name, vals, got, want)
			}
		}
		check(0.0, test.labelVals...)
		counter.Inc(test.labelVals...)
		check(1.0, test.labelVals...)
		counter.Add(2.5, test.labelVals...)
		check(3.5, test.labelVals...)

		libels := bogus(test.labelVals)
		counter.Add(10.0, libels...)
		counter.Inc(libels...)
		check(0.0, libels...)
		check(3.5, test.labelVals...)
	}
}

// TestGauge runs a test on a Gauge produced from the provided MetricFactory.
func TestGauge(t *testing.T, factory monitoring.MetricFactory) {
	t.Helper()
	for _, test := range labelCases("gauge") {
		gauge := factory.NewGauge("test_"+test.name, "Test only", test.labelNames...)
		check := func(want float64, vals ...string) {
			t.Helper()
			if got := gauge.Value(vals...); got != want {
				t.Errorf("Gauge(test_%s)[%v].Value()=%v; want %v", test.name, vals, got, want)
			}
		}
		check(0.0, test.labelVals...)
		gauge.Inc(test.labelVals...)
		check(1.0, test.labelVals...)
		gauge.Dec(test.labelVals...)
		check(0.0, test.labelVals...)
		gauge.Add(2.5, test.labelVals...)
		check(2.5, test.labelVals...)
		gauge.Set(42.0, test.labelVals...)
		check(42.0, test.labelVals...)

		libels := bogus(test.labelVals)
		gauge.Add(10.0, libels...)
		gauge.Inc(libels...)
		gauge.Dec(libels...)
		gauge.Set(120.0, libels...)
		check(0.0, libels...)
		check(42.0, test.labelVals...)
	}
}

// TestHistogram runs a test on a Histogram produced from the provided MetricFactory.
func TestHistogram(t *testing.T, factory monitoring.MetricFactory) {
	t.Helper()
	for _, test := range labelCases("histogram") {
		histogram := factory.NewHistogram("test_"+test.name, "Test only", test.labelNames...)
		check := func(wantCount uint64, wantSum float64, vals ...string) {
			t.Helper()
			if gotCount, gotSum := histogram.Info(vals...); gotCount != wantCount || gotSum != wantSum {
				t.Errorf("Histogram(test_%s)[%v].Info()=%v,%v; want %v,%v", test.name, vals, gotCount, gotSum, wantCount, wantSum)
			}
		}
		check(0, 0.0, test.labelVals...)
		histogram.Observe(1.0, test.labelVals...)
		histogram.Observe(2.0, test.labelVals...)
		histogram.Observe(3.0, test.labelVals...)
		check(3, 6.0, test.labelVals...)

		libels := bogus(test.labelVals)
		histogram.Observe(100.0, libels...)
		histogram.Observe(200.0, libels...)
		check(0, 0.0, libels...)
		check(3, 6.0, test.labelVals...)
	}
}
