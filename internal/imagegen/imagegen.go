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

// Package imagegen builds synthetic disk images: either randomized gaps
// between real files (for manual fixture construction, "merge") or exact
// byte layouts built up piece by piece (for deterministic test fixtures).
package imagegen

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"os"

	osutil "github.com/sscafiti/corescan/pkg/util/os"
)

// GapRange bounds the random padding inserted between files by MergeFiles.
type GapRange struct {
	Min int
	Max int
}

// Options configures MergeFiles.
type Options struct {
	Gap       GapRange
	BlockSize int // each file but the last is followed by padding that rounds its length up to a multiple of BlockSize; default 512
}

// MergeFiles concatenates the files at paths into w, separated by random
// gaps of crypto-random bytes sized within opts.Gap. Each file except the
// last is followed by extra random padding that rounds its length up to a
// multiple of opts.BlockSize; the random gap is added on top, so file start
// offsets are not aligned to opts.BlockSize. Returns the total number of
// bytes written.
func MergeFiles(w io.Writer, paths []string, opts Options) (int64, error) {
	if opts.Gap.Min <= 0 {
		return 0, fmt.Errorf("imagegen: gap.Min must be greater than 0")
	}
	if opts.Gap.Min > opts.Gap.Max {
		return 0, fmt.Errorf("imagegen: gap.Min (%d) cannot exceed gap.Max (%d)", opts.Gap.Min, opts.Gap.Max)
	}
	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = 512
	}

	bw := bufio.NewWriter(w)

	var written int64
	gapSize := randGap(opts.Gap)
	for _, path := range paths {
		n, err := io.CopyN(bw, rand.Reader, int64(gapSize))
		if err != nil {
			return written, fmt.Errorf("imagegen: write gap: %w", err)
		}
		written += n

		copied, err := osutil.CopyFile(bw, path)
		if err != nil {
			return written, fmt.Errorf("imagegen: copy %s: %w", path, err)
		}
		written += copied

		padding := int64(blockSize) - copied%int64(blockSize)
		if padding == int64(blockSize) {
			padding = 0
		}
		gapSize = randGap(opts.Gap) + int(padding)
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("imagegen: flush: %w", err)
	}
	return written, nil
}

func randGap(g GapRange) int {
	return g.Min + mrand.IntN(g.Max-g.Min+1)
}

// MergeFilesToPath is the convenience form MergeFiles is normally called
// through from the CLI, expanding directories via osutil.ListFiles first.
func MergeFilesToPath(outPath string, inputs []string, opts Options) (int64, error) {
	paths := make([]string, 0, len(inputs))
	for _, in := range inputs {
		expanded, err := osutil.ListFiles(in)
		if err != nil {
			return 0, err
		}
		paths = append(paths, expanded...)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("imagegen: create %s: %w", outPath, err)
	}
	defer f.Close()

	return MergeFiles(f, paths, opts)
}
