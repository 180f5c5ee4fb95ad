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

// Package carver determines a carved file's end offset and materializes
// its payload, one file at a time.
package carver

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/sigcatalog"
	"github.com/sscafiti/corescan/internal/source"
)

// MinPayloadSize is the absolute floor below which a carve is rejected as
// too small to be meaningful, independent of the signature's own min_size.
const MinPayloadSize = 100

// DefaultMaxSize bounds both footer search and heuristic end-detection.
const DefaultMaxSize = 50 << 20 // 50 MiB

// CarvedFile is a materialized carve result.
type CarvedFile struct {
	Signature     string
	Offset        uint64
	EndOffset     uint64
	PayloadLength uint64
	Payload       []byte
}

// ErrTooSmall is returned when the carved range is under MinPayloadSize.
var ErrTooSmall = errors.New("carver: payload below minimum size")

// Carve determines the end offset for the detection at offset o with the
// given signature and reads [o, end) from src, using the plain end-marker
// heuristics.
func Carve(src source.ByteSource, sig sigcatalog.Signature, offset uint64, maxSize uint64) (CarvedFile, error) {
	return CarveWithOptions(src, sig, offset, Options{MaxSize: maxSize})
}

// Options configures a single Carve call.
type Options struct {
	MaxSize uint64
	Strict  bool // use internal/format's format-aware parsers where one exists
}

// CarveWithOptions is Carve with strict end-detection available. When
// Strict is set and a format-aware parser exists for sig.Name, its result
// is used in place of the footer search and heuristic fallback; when the
// strict parser rejects the candidate, Carve falls back to the plain path
// rather than failing outright.
func CarveWithOptions(src source.ByteSource, sig sigcatalog.Signature, offset uint64, opts Options) (CarvedFile, error) {
	maxSize := opts.MaxSize
	if maxSize == 0 {
		maxSize = DefaultMaxSize
	}
	total := src.Len()

	var end uint64
	var err error
	if opts.Strict {
		if strictResult, ok, serr := strictEnd(src, sig.Name, offset, total, maxSize); serr != nil {
			return CarvedFile{}, serr
		} else if ok {
			end = strictResult
		}
	}
	if end == 0 {
		end, err = determineEnd(src, sig, offset, total, maxSize)
		if err != nil {
			return CarvedFile{}, err
		}
	}

	if end <= offset {
		return CarvedFile{}, ErrTooSmall
	}
	length := end - offset
	if length < MinPayloadSize {
		return CarvedFile{}, ErrTooSmall
	}

	payload := make([]byte, length)
	n, err := src.ReadAt(offset, payload)
	if err != nil {
		return CarvedFile{}, errors.Wrap(err, "read carved range")
	}
	payload = payload[:n]
	if uint64(len(payload)) < MinPayloadSize {
		return CarvedFile{}, ErrTooSmall
	}

	return CarvedFile{
		Signature:     sig.Name,
		Offset:        offset,
		EndOffset:     offset + uint64(len(payload)),
		PayloadLength: uint64(len(payload)),
		Payload:       payload,
	}, nil
}

func determineEnd(src source.ByteSource, sig sigcatalog.Signature, offset, total, maxSize uint64) (uint64, error) {
	if len(sig.Footer) > 0 {
		limit := offset + maxSize
		if limit > total {
			limit = total
		}
		if limit > offset {
			window := make([]byte, limit-offset)
			n, err := src.ReadAt(offset, window)
			if err != nil {
				return 0, errors.Wrap(err, "read footer search window")
			}
			window = window[:n]
			if idx := bytes.Index(window, sig.Footer); idx >= 0 {
				return offset + uint64(idx) + uint64(len(sig.Footer)), nil
			}
		}
	}

	return heuristicEnd(src, sig.Name, offset, total, maxSize)
}

// heuristicEnd implements the named end markers for JPEG/PNG/PDF and the
// default sliding zero-run window for everything else.
func heuristicEnd(src source.ByteSource, name string, offset, total, maxSize uint64) (uint64, error) {
	limit := offset + maxSize
	if limit > total {
		limit = total
	}
	if limit <= offset {
		return limit, nil
	}

	window := make([]byte, limit-offset)
	n, err := src.ReadAt(offset, window)
	if err != nil {
		return 0, errors.Wrap(err, "read heuristic window")
	}
	window = window[:n]

	switch name {
	case "JPEG", "JPEG_ALT":
		if idx := bytes.Index(window, []byte{0xFF, 0xD9}); idx >= 0 {
			return offset + uint64(idx) + 2, nil
		}
	case "PNG":
		if idx := bytes.Index(window, []byte("IEND")); idx >= 0 {
			return offset + uint64(idx) + 8, nil
		}
	case "PDF":
		if idx := bytes.Index(window, []byte("%%EOF")); idx >= 0 {
			return offset + uint64(idx) + 5, nil
		}
	}

	return defaultZeroRunEnd(window, offset, limit), nil
}

const (
	zeroRunBlock     = 4096
	zeroRunThreshold = 0.8
)

// defaultZeroRunEnd slides a fixed-size window forward and stops at the
// first block whose zero-byte fraction exceeds the threshold.
func defaultZeroRunEnd(window []byte, offset, limit uint64) uint64 {
	for start := 0; start+zeroRunBlock <= len(window); start += zeroRunBlock {
		block := window[start : start+zeroRunBlock]
		zeros := 0
		for _, b := range block {
			if b == 0 {
				zeros++
			}
		}
		if float64(zeros)/float64(len(block)) > zeroRunThreshold {
			return offset + uint64(start) + zeroRunBlock
		}
	}
	return limit
}
