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

package volume

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/source"
)

var ntfsOEMID = []byte("NTFS    ")

// DecodeNTFS checks the OEM ID field at offset 3 for the exact eight-byte
// "NTFS    " marker.
func DecodeNTFS(src source.ByteSource) (Descriptor, bool, error) {
	buf := make([]byte, 48)
	n, err := src.ReadAt(0, buf)
	if err != nil {
		return Descriptor{}, false, errors.Wrap(err, "read boot sector")
	}
	if n < 48 {
		return Descriptor{}, false, nil
	}

	if !bytes.Equal(buf[3:11], ntfsOEMID) {
		return Descriptor{}, false, nil
	}

	bytesPerSector := binary.LittleEndian.Uint16(buf[11:13])
	if !validSectorSizes[bytesPerSector] {
		return Descriptor{}, false, nil
	}

	totalSectors := binary.LittleEndian.Uint64(buf[40:48])

	return Descriptor{
		Kind:             NTFS,
		BytesPerSector:   bytesPerSector,
		SectorsPerClust:  buf[13],
		NTFSTotalSectors: totalSectors,
	}, true, nil
}
