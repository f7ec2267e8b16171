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

// The verify_batch binary checks that a JSON batch of verification records
// hashes to an expected Merkle root. It exits with status 0 if the batch
// verifies and 1 otherwise.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/batchverify/cmd"
	verrors "github.com/google/batchverify/errors"
	"github.com/google/batchverify/merkle/root"
	"github.com/google/batchverify/monitoring"
	"github.com/google/batchverify/monitoring/prometheus"
	"github.com/google/batchverify/verification"
	"github.com/google/batchverify/verifier"
	prom "github.com/prometheus/client_golang/prometheus"
	"k8s.io/klog/v2"
)

var (
	batchFile         = flag.String("batch_file", "", "Path of the JSON batch to verify, or - for stdin")
	expectedRoot      = flag.String("expected_root", "", "Hex encoded Merkle root the batch must hash to")
	maxBatchSize      = flag.Int("max_batch_size", verifier.MaxBatchSize, "Largest batch accepted, in bytes")
	workers           = flag.Int("workers", runtime.GOMAXPROCS(0), "Number of goroutines hashing large batches")
	parallelThreshold = flag.Int("parallel_threshold", verifier.DefaultParallelThreshold, "Number of records from which hashing is done concurrently")
	printRoot         = flag.Bool("print_root", false, "Print the root of the batch instead of verifying it")
	metricsTextfile   = flag.String("metrics_textfile", "", "If set, write metrics in the Prometheus text format to this file on exit. Verification results are only recorded when --print_root is false")
	configFile        = flag.String("config", "", "Config file containing flags, file contents can be overridden by command line flags")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if *configFile != "" {
		if err := cmd.ParseFlagFile(*configFile); err != nil {
			klog.Exitf("Failed to load flags from config file %q: %s", *configFile, err)
		}
	}
	if *batchFile == "" {
		klog.Exit("--batch_file must be set")
	}

	var mf monitoring.MetricFactory = monitoring.InertMetricFactory{}
	var registry *prom.Registry
	if *metricsTextfile != "" {
		registry = prom.NewRegistry()
		mf = prometheus.MetricFactory{Prefix: "batchverify_", Registerer: registry}
	}
	v := verifier.New(
		verifier.WithMaxBatchSize(*maxBatchSize),
		verifier.WithConcurrency(*workers, *parallelThreshold),
		verifier.WithMetricFactory(mf),
	)

	batch, err := readBatch(*batchFile, v.MaxBatchSize())
	if err != nil {
		klog.Exitf("Failed to read batch: %v", err)
	}

	if *printRoot {
		r, err := computeRoot(v, batch)
		if werr := writeMetrics(*metricsTextfile, registry); werr != nil {
			klog.Errorf("Failed to write metrics: %v", werr)
		}
		if err != nil {
			klog.Exitf("Failed to compute root: %v", verrors.ToStatus(err))
		}
		fmt.Println(r)
		return
	}

	want, err := root.FromHex(*expectedRoot)
	if err != nil {
		klog.Exitf("Invalid --expected_root: %v", err)
	}
	err = v.Verify(batch, len(batch), want.Bytes())
	if werr := writeMetrics(*metricsTextfile, registry); werr != nil {
		klog.Errorf("Failed to write metrics: %v", werr)
	}
	if err != nil {
		klog.Exitf("Batch does not verify: %v", verrors.ToStatus(err))
	}
	fmt.Printf("Batch verifies against root %s\n", want)
}

// readBatch reads at most limit+1 bytes, so that an oversized batch is still
// rejected by the verifier without being read in full.
func readBatch(path string, limit int) ([]byte, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return io.ReadAll(io.LimitReader(r, int64(limit)+1))
}

// writeMetrics writes the metrics in registry to path in the Prometheus text
// format. It does nothing if registry is nil.
func writeMetrics(path string, registry *prom.Registry) error {
	if registry == nil {
		return nil
	}
	return prom.WriteToTextfile(path, registry)
}

func computeRoot(v *verifier.Verifier, batch []byte) (root.Hash, error) {
	if len(batch) > v.MaxBatchSize() {
		return root.Hash{}, fmt.Errorf("%w: batch exceeds %d bytes", verrors.OversizedInput, v.MaxBatchSize())
	}
	records, err := verification.DecodeBatch(batch)
	if err != nil {
		return root.Hash{}, fmt.Errorf("%w: %v", verrors.MalformedBatch, err)
	}
	return v.ComputeRoot(records)
}
