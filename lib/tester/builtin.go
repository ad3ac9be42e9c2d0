// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package tester

import (
	"fmt"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// builtins returns the built-in measurement strategies. All of them
// run once per file in CI, so the compressors favor ratio over speed:
// sizes reported here should match what a production web server with
// maximum compression would actually send.
func builtins() []Tester {
	return []Tester{
		Func{TesterID: "none", TesterLabel: "raw", MeasureFunc: measureRaw},
		Func{TesterID: "gzip", TesterLabel: "gzip", MeasureFunc: measureGzip},
		Func{TesterID: "zstd", TesterLabel: "zstd", MeasureFunc: measureZstd},
		Func{TesterID: "brotli", TesterLabel: "brotli", MeasureFunc: measureBrotli},
	}
}

// countingWriter counts bytes without buffering them. The testers
// only need the encoded length, never the encoded content.
type countingWriter struct {
	bytes int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.bytes += int64(len(p))
	return len(p), nil
}

func measureRaw(data []byte) (int64, error) {
	return int64(len(data)), nil
}

func measureGzip(data []byte) (int64, error) {
	counter := &countingWriter{}
	writer := gzip.NewWriter(counter)
	if _, err := writer.Write(data); err != nil {
		return 0, fmt.Errorf("tester: gzip: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("tester: gzip: %w", err)
	}
	return counter.bytes, nil
}

// zstdEncoder is reused across calls to avoid repeated initialization
// overhead. EncodeAll on a shared encoder is safe for concurrent use.
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		panic("tester: zstd encoder initialization failed: " + err.Error())
	}
}

func measureZstd(data []byte) (int64, error) {
	return int64(len(zstdEncoder.EncodeAll(data, nil))), nil
}

func measureBrotli(data []byte) (int64, error) {
	counter := &countingWriter{}
	// Quality 11 is maximum compression. This runs in CI, not a hot
	// path, and matches what static-asset pipelines precompress with.
	writer := brotli.NewWriterLevel(counter, brotli.BestCompression)
	if _, err := writer.Write(data); err != nil {
		return 0, fmt.Errorf("tester: brotli: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("tester: brotli: %w", err)
	}
	return counter.bytes, nil
}
