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

// Package scanner performs chunked, overlap-safe signature scanning over a
// ByteSource, with per-type validation and an optional false-positive
// filter pass.
package scanner

// Detection is a single accepted signature match.
type Detection struct {
	Signature     string
	Offset        uint64
	EstimatedSize uint64 // 0 until the false-positive filter fills it in
}

// Config is the fixed scan configuration. A zero ChunkSize is replaced with
// DefaultChunkSize by Scan; a zero MaxCarveWindow is replaced with its
// default by the false-positive filter.
type Config struct {
	SelectedTypes  []string // empty means "all catalog entries"
	FilterEnabled  bool
	ChunkSize      int
	MaxCarveWindow uint64 // window used by the filter's fast end-offset estimate
}

// Progress is invoked after each chunk with a percentage in [0, 100]. A
// false return requests cancellation; the scanner returns the detections
// accumulated so far.
type Progress func(percent float64) bool

const (
	DefaultChunkSize      = 1 << 20 // 1 MiB
	defaultFilterFootprint = 10 << 20 // 10 MiB, the filter's fast footer search window
	defaultQuickEstimate   = 5000     // bytes, fallback when no footer exists
	nearDuplicateWindow    = 64
)
