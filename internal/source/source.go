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

// Package source provides a uniform, read-only, random-access byte provider
// over a file, a memory-mapped region, a raw device, or an in-memory buffer.
package source

import (
	"github.com/pkg/errors"
)

// ErrAccessDenied is returned when the host refuses access to the source
// (e.g. a raw device opened without sufficient privileges).
var ErrAccessDenied = errors.New("corescan/source: access denied")

// ErrNotFound is returned when the source path does not resolve to anything.
var ErrNotFound = errors.New("corescan/source: not found")

// ByteSource is a logical read-only byte array of known total length.
// Implementations must tolerate ranges that extend past Len(): Read fills
// as many bytes as are available and returns a short count, never an error,
// for EOF conditions.
type ByteSource interface {
	// Len returns the total length of the source in bytes.
	Len() uint64

	// ReadAt fills buf starting at offset and returns the number of bytes
	// written. It returns 0, nil at or past EOF. It never returns an error
	// for a short read caused solely by reaching EOF.
	ReadAt(offset uint64, buf []byte) (int, error)

	// Close releases any resources (file handles, mappings) held by the
	// source. Close is idempotent.
	Close() error
}

// DefaultBufferedCeiling is a size limit of 4 GiB. Open and the buffered
// fallback do not apply it: the buffered fallback reads through a 1 MiB
// buffer and exposes the whole source, with no cap on its length.
const DefaultBufferedCeiling = 4 << 30 // 4 GiB
