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

// bufferedSource wraps an io.ReadSeeker (typically a device or pipe that
// mmap rejected) behind reader.BufferedReadSeeker, tracking a logical length
// discovered either from Stat or from reading to EOF once. The length is
// not capped.
type bufferedSource struct {
	mu      sync.Mutex
	closer  io.Closer
	brs     *reader.BufferedReadSeeker
	readPos uint64
	length  uint64
}

const bufferedChunkSize = 1 << 20 // 1 MiB, matches the scanner's chunk size

func openBuffered(path string) (*bufferedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mapOpenErr(err)
	}

	length := uint64(0)
	if fi, statErr := f.Stat(); statErr == nil && fi.Size() > 0 {
		length = uint64(fi.Size())
	}

	return &bufferedSource{
		closer: f,
		brs:    reader.NewBufferedReadSeeker(f, bufferedChunkSize),
		length: length,
	}, nil
}

func (b *bufferedSource) Len() uint64 {
	return b.length
}

// ReadAt only supports forward-advancing or backward seeks within what the
// underlying ReadSeeker allows; random access degrades to a Seek call.
func (b *bufferedSource) ReadAt(offset uint64, buf []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.length > 0 && offset >= b.length {
		return 0, nil
	}

	if offset != b.readPos {
		if _, err := b.brs.Seek(int64(offset), io.SeekStart); err != nil {
			return 0, errors.Wrap(err, "seek")
		}
		b.readPos = offset
	}

	n, err := b.brs.Read(buf)
	b.readPos += uint64(n)
	if err == io.EOF {
		if b.length == 0 {
			b.length = b.readPos
		}
		return n, nil
	}
	if err != nil {
		return n, errors.Wrap(err, "read")
	}
	return n, nil
}

func (b *bufferedSource) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closer == nil {
		return nil
	}
	err := b.closer.Close()
	b.closer = nil
	return errors.Wrap(err, "close")
}
