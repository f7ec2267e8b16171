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

package verifier

import (
	"github.com/google/batchverify/monitoring"
	"k8s.io/klog/v2"
)

// Values of the result label of the verifications counter.
const (
	resultOK                 = "ok"
	resultOversizedInput     = "oversized_input"
	resultMalformedBatch     = "malformed_batch"
	resultEmptyBatch         = "empty_batch"
	resultRootLengthMismatch = "root_length_mismatch"
	resultRootMismatch       = "root_mismatch"
	resultInternal           = "internal"
)

type metrics struct {
	verifications monitoring.Counter
	inFlight      monitoring.Gauge
	batchBytes    monitoring.Histogram
	batchRecords  monitoring.Histogram
	latency       monitoring.Histogram
}

func newMetrics(mf monitoring.MetricFactory) *metrics {
	if mf == nil {
		mf = monitoring.InertMetricFactory{}
	}
	return &metrics{
		verifications: mf.NewCounter("batch_verifications", "Number of batch verifications by result", "result"),
		inFlight:      mf.NewGauge("batch_verifications_in_flight", "Number of batch verifications in progress"),
		batchBytes:    mf.NewHistogramWithBuckets("batch_verify_bytes", "Size of verified batches in bytes", monitoring.SizeBuckets(26)),
		batchRecords:  mf.NewHistogramWithBuckets("batch_verify_records", "Number of records in decoded batches", monitoring.SizeBuckets(20)),
		latency:       mf.NewHistogramWithBuckets("batch_verify_latency_seconds", "Latency of batch verifications in seconds", monitoring.LatencyBuckets()),
	}
}

func (m *metrics) record(result string, batchLen, records int, seconds float64) {
	m.verifications.Inc(result)
	m.latency.Observe(seconds)
	if result != resultOversizedInput {
		m.batchBytes.Observe(float64(batchLen))
	}
	if records > 0 {
		m.batchRecords.Observe(float64(records))
	}
	klog.V(2).Infof("batch verification: result=%s bytes=%d records=%d seconds=%.6f", result, batchLen, records, seconds)
}
