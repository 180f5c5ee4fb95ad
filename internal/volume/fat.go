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
	"strings"

	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/source"
)

const bootSectorWindow = 2048

// DecodeFAT inspects the boot sector's BIOS Parameter Block. ok is false
// when the bytes don't look like a FAT16/FAT32 boot sector; that is not an
// error.
func DecodeFAT(src source.ByteSource) (Descriptor, bool, error) {
	buf := make([]byte, bootSectorWindow)
	n, err := src.ReadAt(0, buf)
	if err != nil {
		return Descriptor{}, false, errors.Wrap(err, "read boot sector")
	}
	if n < 36 {
		return Descriptor{}, false, nil
	}

	if buf[0] != 0xEB && buf[0] != 0xE9 {
		return Descriptor{}, false, nil
	}

	if bytes.Equal(buf[3:11], ntfsOEMID) {
		// NTFS boot sectors also start with a 0xEB jump; the OEM ID is the
		// only field that reliably tells the two apart at offset 0.
		return Descriptor{}, false, nil
	}

	bytesPerSector := binary.LittleEndian.Uint16(buf[11:13])
	if !validSectorSizes[bytesPerSector] {
		return Descriptor{}, false, nil
	}

	sectorsPerCluster := buf[13]
	rootEntries := binary.LittleEndian.Uint16(buf[17:19])

	totalSectors16 := binary.LittleEndian.Uint16(buf[19:21])
	totalSectors32 := binary.LittleEndian.Uint32(buf[32:36])
	totalSectors := uint32(totalSectors16)
	if totalSectors16 == 0 {
		totalSectors = totalSectors32
	}

	kind := FAT16
	if rootEntries == 0 {
		kind = FAT32
	}

	oem := strings.TrimSpace(string(buf[3:11]))

	return Descriptor{
		Kind:            kind,
		OEMName:         oem,
		BytesPerSector:  bytesPerSector,
		SectorsPerClust: sectorsPerCluster,
		TotalSectors:    totalSectors,
	}, true, nil
}
