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
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/sigcatalog"
	"github.com/sscafiti/corescan/internal/source"
	"github.com/sscafiti/corescan/pkg/table"
)

func itoa(v uint64) string { return strconv.FormatUint(v, 10) }

// Scan performs the chunked overlap-safe scan described by the catalog
// subset in cfg. Detections are returned in ascending offset order. No
// (signature, offset) pair is reported twice, but signatures that share a
// header (ZIP, DOCX, XLSX) are each reported at the same offset.
func Scan(src source.ByteSource, cfg Config, progress Progress) ([]Detection, error) {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	sigs := sigcatalog.All()
	if len(cfg.SelectedTypes) > 0 {
		sigs = filterCatalog(sigs, cfg.SelectedTypes)
	}

	headerIndex := buildHeaderTable(sigs)
	maxHeaderLen := sigcatalog.MaxHeaderLen(cfg.SelectedTypes)
	overlap := maxHeaderLen - 1
	if overlap < 0 {
		overlap = 0
	}

	total := src.Len()
	if total == 0 || len(sigs) == 0 {
		return nil, nil
	}

	var detections []Detection
	seen := make(map[string]bool) // "<name>@<offset>", guards against re-detecting the overlap tail

	var prevTail []byte
	var bytesDone uint64

	for chunkStart := uint64(0); chunkStart < total; chunkStart += uint64(chunkSize) {
		remaining := total - chunkStart
		readLen := uint64(chunkSize)
		if remaining < readLen {
			readLen = remaining
		}

		chunk := make([]byte, readLen)
		n, err := src.ReadAt(chunkStart, chunk)
		if err != nil {
			return detections, errors.Wrapf(err, "read chunk at %d", chunkStart)
		}
		chunk = chunk[:n]

		window := append(append([]byte(nil), prevTail...), chunk...)
		windowBase := chunkStart - uint64(len(prevTail))

		for pos := 0; pos < len(window); pos++ {
			end := pos + maxHeaderLen
			if end > len(window) {
				end = len(window)
			}
			headerIndex.Walk(window[pos:end], func(names []string) bool {
				offset := windowBase + uint64(pos)
				for _, name := range names {
					key := name + "@" + itoa(offset)
					if seen[key] {
						continue
					}
					sig, ok := sigcatalog.Get(name)
					if !ok {
						continue
					}
					if !validate(src, name, offset, len(sig.Header), total) {
						continue
					}
					detections = append(detections, Detection{Signature: name, Offset: offset})
					seen[key] = true
				}
				return false
			})
		}

		if overlap > 0 && len(chunk) >= overlap {
			prevTail = append([]byte(nil), chunk[len(chunk)-overlap:]...)
		} else if overlap > 0 {
			prevTail = append(append([]byte(nil), prevTail...), chunk...)
			if len(prevTail) > overlap {
				prevTail = prevTail[len(prevTail)-overlap:]
			}
		} else {
			prevTail = nil
		}

		bytesDone += uint64(n)
		if progress != nil {
			percent := float64(100)
			if total > 0 {
				percent = float64(bytesDone) / float64(total) * 100
				if percent > 100 {
					percent = 100
				}
			}
			if !progress(percent) {
				sort.SliceStable(detections, func(i, j int) bool { return detections[i].Offset < detections[j].Offset })
				return detections, nil
			}
		}
	}

	sort.SliceStable(detections, func(i, j int) bool { return detections[i].Offset < detections[j].Offset })

	if cfg.FilterEnabled {
		detections = applyFilter(src, sigs, detections, cfg)
	}

	return detections, nil
}

// buildHeaderTable groups catalog entries by identical header bytes (DOCX
// and XLSX share one) and inserts each group once.
func buildHeaderTable(sigs []sigcatalog.Signature) *table.PrefixTable[[]string] {
	groups := make(map[string][]string)
	order := make([]string, 0, len(sigs))
	for _, s := range sigs {
		key := string(s.Header)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s.Name)
	}

	t := table.New[[]string]()
	for _, key := range order {
		t.Insert([]byte(key), groups[key])
	}
	return t
}

func filterCatalog(sigs []sigcatalog.Signature, names []string) []sigcatalog.Signature {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	out := make([]sigcatalog.Signature, 0, len(names))
	for _, s := range sigs {
		if wanted[s.Name] {
			out = append(out, s)
		}
	}
	return out
}
