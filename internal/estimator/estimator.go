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

// Package estimator computes a coarse recoverability score over a source's
// fixed-size blocks.
package estimator

import (
	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/source"
)

const DefaultBlockSize = 4096

const distinctByteThreshold = 10

// Estimate walks src in blockSize blocks (default 4096) and returns a score
// in [0, 100]: the percentage of blocks classified "valid" (more than 10
// distinct byte values). An empty source scores 0.
func Estimate(src source.ByteSource, blockSize int) (float64, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	total := src.Len()
	if total == 0 {
		return 0, nil
	}

	block := make([]byte, blockSize)
	var totalBlocks, validBlocks uint64

	for offset := uint64(0); offset < total; offset += uint64(blockSize) {
		n, err := src.ReadAt(offset, block)
		if err != nil {
			return 0, errors.Wrapf(err, "read block at %d", offset)
		}
		if n == 0 {
			break
		}
		totalBlocks++
		if classify(block[:n]) == classValid {
			validBlocks++
		}
	}

	if totalBlocks == 0 {
		return 0, nil
	}
	return float64(validBlocks) / float64(totalBlocks) * 100, nil
}

type class int

const (
	classZero class = iota
	classValid
	classOther
)

func classify(block []byte) class {
	var seen [256]bool
	distinct := 0
	allZero := true

	for _, b := range block {
		if b != 0 {
			allZero = false
		}
		if !seen[b] {
			seen[b] = true
			distinct++
		}
	}

	if allZero {
		return classZero
	}
	if distinct > distinctByteThreshold {
		return classValid
	}
	return classOther
}
