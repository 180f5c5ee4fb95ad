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

// Package carver's strict mode replaces the plain end-marker heuristics
// with the format-aware parsers internal/format carries: actual JPEG
// segment walking, PNG chunk/CRC validation, and MP3 frame-by-frame sync,
// at the cost of being pickier about what it accepts as a valid end.
package carver

import (
	"bufio"
	"io"

	"github.com/sscafiti/corescan/internal/format"
	"github.com/sscafiti/corescan/internal/source"
)

// readerAtWrapper adapts a source.ByteSource to io.ReaderAt so the strict
// parsers can be driven through a bufio.Reader over an io.SectionReader.
type readerAtWrapper struct {
	src source.ByteSource
}

func (w readerAtWrapper) ReadAt(p []byte, off int64) (int, error) {
	n, err := w.src.ReadAt(uint64(off), p)
	if n < len(p) && err == nil {
		err = io.EOF
	}
	return n, err
}

// strictEnd attempts format-aware end detection for the signatures that
// have one. The bool result is false when no strict parser exists for
// name or the strict parser rejected the candidate outright; callers fall
// back to the plain heuristic in that case.
func strictEnd(src source.ByteSource, name string, offset, total, maxSize uint64) (uint64, bool, error) {
	limit := offset + maxSize
	if limit > total {
		limit = total
	}
	if limit <= offset {
		return 0, false, nil
	}

	section := io.NewSectionReader(readerAtWrapper{src: src}, int64(offset), int64(limit-offset))
	fr := format.NewReader(bufio.NewReaderSize(section, 64<<10))

	switch name {
	case "JPEG", "JPEG_ALT":
		n, err := format.ScanJPEG(fr)
		if err != nil {
			return 0, false, nil
		}
		return offset + n, true, nil
	case "PNG":
		n, err := format.ScanPNG(fr)
		if err != nil {
			return 0, false, nil
		}
		return offset + n, true, nil
	case "MP3":
		res, err := format.ScanMP3(fr)
		if err != nil || res == nil {
			return 0, false, nil
		}
		return offset + res.Size, true, nil
	default:
		return 0, false, nil
	}
}
