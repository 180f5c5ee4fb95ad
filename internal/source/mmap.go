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
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mmapSource maps a whole regular file or block device read-only into the
// process address space. Reads are plain slice copies, no syscalls.
type mmapSource struct {
	mu   sync.Mutex
	f    *os.File
	data []byte
}

// openMmap maps path read-only. The caller is responsible for falling back
// to a buffered source on error; not every error here is fatal (e.g. a pipe
// can't be mmapped at all).
func openMmap(path string) (*mmapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mapOpenErr(err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %q", path)
	}

	size := fi.Size()
	if size <= 0 {
		// Regular files report a size; block devices on Linux usually do
		// too via stat, but some raw character devices don't. Let the
		// caller fall back to a buffered source in that case.
		f.Close()
		return nil, errors.Errorf("source: %q reports non-positive size, cannot mmap", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "mmap %q", path)
	}

	return &mmapSource{f: f, data: data}, nil
}

func (m *mmapSource) Len() uint64 {
	return uint64(len(m.data))
}

func (m *mmapSource) ReadAt(offset uint64, buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil || offset >= uint64(len(m.data)) {
		return 0, nil
	}
	n := copy(buf, m.data[offset:])
	return n, nil
}

func (m *mmapSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	closeErr := m.f.Close()
	if err != nil {
		return errors.Wrap(err, "munmap")
	}
	return errors.Wrap(closeErr, "close")
}
