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

package source

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/pkg/reader"
)

// segmentSource presents a sequence of raw split-image segments (e.g.
// image.001, image.002, ...) as a single contiguous ByteSource, backed by
// reader.MultiReadSeeker.
type segmentSource struct {
	mu      sync.Mutex
	files   []*os.File
	mrs     *reader.MultiReadSeeker
	readPos uint64
	length  uint64
}

// OpenSegments opens each of paths in order and presents their
// concatenation as a single ByteSource, the way forensic tooling splits a
// raw image across fixed-size segment files. Segments are read in the
// order given; Len is the sum of their individual sizes.
func OpenSegments(paths []string) (ByteSource, error) {
	if len(paths) == 0 {
		return nil, errors.New("corescan/source: no segments given")
	}

	files := make([]*os.File, 0, len(paths))
	readers := make([]io.ReadSeeker, 0, len(paths))
	sizes := make([]int64, 0, len(paths))

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, mapOpenErr(err)
		}
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			for _, opened := range files {
				opened.Close()
			}
			return nil, errors.Wrapf(err, "stat %q", p)
		}
		files = append(files, f)
		readers = append(readers, f)
		sizes = append(sizes, fi.Size())
	}

	var total uint64
	for _, s := range sizes {
		total += uint64(s)
	}

	return &segmentSource{
		files:  files,
		mrs:    reader.NewMultiReadSeeker(readers, sizes),
		length: total,
	}, nil
}

func (s *segmentSource) Len() uint64 {
	return s.length
}

func (s *segmentSource) ReadAt(offset uint64, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if offset >= s.length {
		return 0, nil
	}

	if offset != s.readPos {
		if _, err := s.mrs.Seek(int64(offset), io.SeekStart); err != nil {
			return 0, errors.Wrap(err, "seek")
		}
		s.readPos = offset
	}

	n, err := s.mrs.Read(buf)
	s.readPos += uint64(n)
	if err == io.EOF {
		return n, nil
	}
	if err != nil {
		return n, errors.Wrap(err, "read")
	}
	return n, nil
}

func (s *segmentSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.files = nil
	return errors.Wrap(firstErr, "close")
}
