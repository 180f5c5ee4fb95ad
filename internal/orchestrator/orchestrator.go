// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package orchestrator sequences a single "analyze source" request over
// the core components, emitting phase progress and aggregating results.
package orchestrator

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/carver"
	"github.com/sscafiti/corescan/internal/estimator"
	"github.com/sscafiti/corescan/internal/partition"
	"github.com/sscafiti/corescan/internal/scanner"
	"github.com/sscafiti/corescan/internal/sigcatalog"
	"github.com/sscafiti/corescan/internal/source"
	"github.com/sscafiti/corescan/internal/volume"
)

// Options configures a single analysis run.
type Options struct {
	ScanConfig    scanner.Config
	BlockSize     int    // for RecoverabilityEstimator, default 4096
	MaxCarveSize  uint64 // default carver.DefaultMaxSize
	StrictCarving bool   // use internal/carver's format-aware end detection
	Logger        *slog.Logger
}

// SizedDetection pairs a Detection with the length the carver would
// produce, computed without writing any payload.
type SizedDetection struct {
	scanner.Detection
	CarvedLength uint64
}

// Result aggregates everything a single analysis run discovers.
type Result struct {
	Recoverability float64
	Partitions     partition.Table
	Volumes        []volume.Descriptor
	Detections     []SizedDetection
	Cancelled      bool
}

// Progress reports overall percentage in [0, 100]; a false return requests
// cancellation.
type Progress func(percent float64) bool

// Analyze drives recoverability estimation, partition/filesystem decoding,
// signature scanning, and per-detection sizing against src. The ByteSource
// is never closed by Analyze — the caller owns its lifecycle.
func Analyze(src source.ByteSource, opts Options, progress Progress) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var result Result

	report := func(phase string, pct float64) bool {
		logger.Info("phase", "name", phase, "percent", pct)
		if progress == nil {
			return true
		}
		return progress(pct)
	}

	if !report("recoverability", 0) {
		result.Cancelled = true
		return result, nil
	}
	score, err := estimator.Estimate(src, opts.BlockSize)
	if err != nil {
		return result, errors.Wrap(err, "estimate recoverability")
	}
	result.Recoverability = score
	if !report("recoverability", 20) {
		result.Cancelled = true
		return result, nil
	}

	table, err := partition.DecodeMBR(src)
	if err != nil {
		return result, errors.Wrap(err, "decode MBR")
	}
	if !table.Present() {
		if gptTable, err := partition.DecodeGPT(src); err != nil {
			return result, errors.Wrap(err, "decode GPT")
		} else if gptTable.Present() {
			table = gptTable
		}
	}
	result.Partitions = table
	if !report("partitions", 40) {
		result.Cancelled = true
		return result, nil
	}

	volumes, err := volume.DecodeAny(src)
	if err != nil {
		return result, errors.Wrap(err, "decode filesystems")
	}
	result.Volumes = volumes

	scanned, err := scanner.Scan(src, opts.ScanConfig, func(pct float64) bool {
		return report("scan", 40+pct*0.4)
	})
	if err != nil {
		return result, errors.Wrap(err, "scan signatures")
	}

	maxCarveSize := opts.MaxCarveSize
	if maxCarveSize == 0 {
		maxCarveSize = carver.DefaultMaxSize
	}

	sized := make([]SizedDetection, 0, len(scanned))
	total := len(scanned)
	for i, d := range scanned {
		sig, ok := sigcatalog.Get(d.Signature)
		if !ok {
			continue
		}
		carved, err := carver.CarveWithOptions(src, sig, d.Offset, carver.Options{MaxSize: maxCarveSize, Strict: opts.StrictCarving})
		if errors.Is(err, carver.ErrTooSmall) {
			continue
		}
		if err != nil {
			return result, errors.Wrapf(err, "size detection at %d", d.Offset)
		}
		sized = append(sized, SizedDetection{Detection: d, CarvedLength: carved.PayloadLength})

		pct := 80.0
		if total > 0 {
			pct = 80 + float64(i+1)/float64(total)*20
		}
		if !report("sizing", pct) {
			result.Cancelled = true
			result.Detections = sized
			return result, nil
		}
	}
	result.Detections = sized

	report("done", 100)
	return result, nil
}
