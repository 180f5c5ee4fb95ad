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

package scanner

import (
	"bytes"

	"github.com/sscafiti/corescan/internal/sigcatalog"
	"github.com/sscafiti/corescan/internal/source"
)

// applyFilter discards implausible candidates: too-small estimated payload,
// or a near-duplicate of an already-accepted detection of the same
// signature. It never adds a detection the unfiltered pass did not
// produce (property 4).
func applyFilter(src source.ByteSource, sigs []sigcatalog.Signature, in []Detection, cfg Config) []Detection {
	byName := make(map[string]sigcatalog.Signature, len(sigs))
	for _, s := range sigs {
		byName[s.Name] = s
	}

	footprint := cfg.MaxCarveWindow
	if footprint == 0 {
		footprint = defaultFilterFootprint
	}

	total := src.Len()
	lastAccepted := make(map[string]uint64) // signature -> most recent accepted offset

	out := make([]Detection, 0, len(in))
	for _, d := range in {
		sig, ok := byName[d.Signature]
		if !ok {
			continue
		}

		end := quickEstimateEnd(src, sig, d.Offset, total, footprint)
		size := end - d.Offset
		if size < uint64(sig.MinSize) {
			continue
		}

		if prev, ok := lastAccepted[d.Signature]; ok {
			delta := d.Offset - prev
			if d.Offset >= prev && delta < nearDuplicateWindow {
				continue
			}
		}

		d.EstimatedSize = size
		out = append(out, d)
		lastAccepted[d.Signature] = d.Offset
	}

	return out
}

// quickEstimateEnd is the filter's fast path, distinct from the carver's
// full end-detection: footer search bounded by footprint, or a fixed-size
// guess when there is no footer.
func quickEstimateEnd(src source.ByteSource, sig sigcatalog.Signature, offset, total, footprint uint64) uint64 {
	if len(sig.Footer) == 0 {
		end := offset + defaultQuickEstimate
		if end > total {
			end = total
		}
		return end
	}

	searchLimit := offset + footprint
	if searchLimit > total {
		searchLimit = total
	}
	if searchLimit <= offset {
		return offset
	}

	window := make([]byte, searchLimit-offset)
	n, err := src.ReadAt(offset, window)
	if err != nil {
		return offset
	}
	window = window[:n]

	if idx := bytes.Index(window, sig.Footer); idx >= 0 {
		return offset + uint64(idx) + uint64(len(sig.Footer))
	}
	end := offset + defaultQuickEstimate
	if end > total {
		end = total
	}
	return end
}
