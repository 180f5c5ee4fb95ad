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

package partition

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/source"
)

// rawMBREntry mirrors the on-disk 16-byte partition entry layout; restruct
// decodes it directly off the sector buffer.
type rawMBREntry struct {
	Status      uint8
	StartCHS    [3]byte
	Type        uint8
	EndCHS      [3]byte
	StartLBA    uint32
	SectorCount uint32
}

const (
	mbrSize           = 512
	mbrEntryTableBase = 446
	mbrEntrySize      = 16
	mbrSignatureOff   = 510
)

// DecodeMBR reads sector 0 and returns an MBRKind Table, or a Kind == None
// Table if the trailing 0x55AA signature is absent. It never returns an
// error for malformed-but-readable input — only I/O failures against src
// are errors.
func DecodeMBR(src source.ByteSource) (Table, error) {
	sector := make([]byte, mbrSize)
	n, err := src.ReadAt(0, sector)
	if err != nil {
		return Table{}, errors.Wrap(err, "read sector 0")
	}
	if n < mbrSize {
		return Table{}, nil
	}

	if binary.LittleEndian.Uint16(sector[mbrSignatureOff:]) != 0xAA55 {
		return Table{}, nil
	}

	entries := make([]Entry, 0, 4)
	for i := 0; i < 4; i++ {
		off := mbrEntryTableBase + i*mbrEntrySize
		raw, err := decodeMBREntry(sector[off : off+mbrEntrySize])
		if err != nil {
			return Table{}, errors.Wrapf(err, "decode entry %d", i+1)
		}

		if isEmptyEntry(raw) {
			continue
		}

		entries = append(entries, Entry{
			Index:       i + 1,
			Bootable:    raw.Status == 0x80,
			TypeCode:    raw.Type,
			TypeName:    TypeName(raw.Type),
			StartLBA:    raw.StartLBA,
			SectorCount: raw.SectorCount,
		})
	}

	return Table{Kind: MBRKind, Entries: entries}, nil
}

func decodeMBREntry(raw []byte) (rawMBREntry, error) {
	var e rawMBREntry
	if err := restruct.Unpack(raw, binary.LittleEndian, &e); err != nil {
		return rawMBREntry{}, err
	}
	return e, nil
}

func isEmptyEntry(e rawMBREntry) bool {
	if e.Status == 0 && e.Type == 0 {
		return true
	}
	return e.SectorCount == 0
}
