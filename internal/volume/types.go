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

// Package volume decodes filesystem superblocks (FAT16/32, NTFS, EXT2/3/4)
// from a byte source. Detectors return "not this filesystem" rather than an
// error on mismatch.
package volume

// Kind tags which filesystem a Descriptor describes.
type Kind int

const (
	FAT16 Kind = iota
	FAT32
	NTFS
	EXT
)

func (k Kind) String() string {
	switch k {
	case FAT16:
		return "FAT16"
	case FAT32:
		return "FAT32"
	case NTFS:
		return "NTFS"
	case EXT:
		return "EXT"
	default:
		return "unknown"
	}
}

// Descriptor is the tagged {FAT16 | FAT32 | NTFS | EXT} decode result.
type Descriptor struct {
	Kind Kind

	// FAT16/FAT32
	OEMName         string
	BytesPerSector  uint16
	SectorsPerClust uint8
	TotalSectors    uint32

	// NTFS
	NTFSTotalSectors uint64

	// EXT
	TotalInodes uint32
	TotalBlocks uint32
	BlockSize   uint32
}

// VolumeSizeMB returns the FAT/NTFS volume size in whole megabytes.
func (d Descriptor) VolumeSizeMB() uint64 {
	switch d.Kind {
	case FAT16, FAT32:
		return uint64(d.TotalSectors) * uint64(d.BytesPerSector) / (1024 * 1024)
	case NTFS:
		return d.NTFSTotalSectors * uint64(d.BytesPerSector) / (1024 * 1024)
	default:
		return 0
	}
}

var validSectorSizes = map[uint16]bool{512: true, 1024: true, 2048: true, 4096: true}
