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
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/go-restruct/restruct"
	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/source"
)

// rawGPTHeader is the 92-byte GPT header. The spec's core only needs
// EntryCount/EntrySize, but we decode the whole header so HeaderCRCValid
// and TableCRCValid can be offered as extra, optional checks (§4.3 says
// "if validation is desired an implementer may add it without breaking
// this contract").
type rawGPTHeader struct {
	Signature          [8]byte
	Revision           uint32
	HeaderSize         uint32
	HeaderCRC32        uint32
	Reserved           uint32
	CurrentLBA         uint64
	BackupLBA          uint64
	FirstUsableLBA     uint64
	LastUsableLBA      uint64
	DiskGUID           [16]byte
	PartitionTableLBA  uint64
	NumPartitions      uint32
	PartitionEntrySize uint32
	PartitionTableCRC  uint32
}

const (
	gptSignature = "EFI PART"
	sectorSize   = 512
)

// GPTDetail is the extended, CRC-checked view DecodeGPTDetail returns
// alongside the core Table.
type GPTDetail struct {
	GPTInfo
	HeaderCRCValid bool
	TableCRCValid  bool
}

// DecodeGPT reads LBA 1 and returns a GPTKind Table, or Kind == None if the
// "EFI PART" signature is absent.
func DecodeGPT(src source.ByteSource) (Table, error) {
	hdr, ok, err := readGPTHeader(src)
	if err != nil {
		return Table{}, err
	}
	if !ok {
		return Table{}, nil
	}

	return Table{
		Kind: GPTKind,
		GPT: GPTInfo{
			EntryCount: hdr.NumPartitions,
			EntrySize:  hdr.PartitionEntrySize,
		},
	}, nil
}

// DecodeGPTDetail additionally verifies the header and partition-table
// CRC32 checksums, reading the partition entry array to do so.
func DecodeGPTDetail(src source.ByteSource) (GPTDetail, bool, error) {
	hdr, raw, ok, err := readGPTHeaderRaw(src)
	if err != nil {
		return GPTDetail{}, false, err
	}
	if !ok {
		return GPTDetail{}, false, nil
	}

	headerOK := verifyHeaderCRC(hdr, raw)

	tableSize := uint64(hdr.NumPartitions) * uint64(hdr.PartitionEntrySize)
	tableOffset := hdr.PartitionTableLBA * sectorSize
	tableBuf := make([]byte, tableSize)
	n, err := src.ReadAt(tableOffset, tableBuf)
	if err != nil {
		return GPTDetail{}, false, errors.Wrap(err, "read partition entry array")
	}
	tableOK := uint64(n) == tableSize && crc32.ChecksumIEEE(tableBuf) == hdr.PartitionTableCRC

	return GPTDetail{
		GPTInfo:        GPTInfo{EntryCount: hdr.NumPartitions, EntrySize: hdr.PartitionEntrySize},
		HeaderCRCValid: headerOK,
		TableCRCValid:  tableOK,
	}, true, nil
}

func readGPTHeader(src source.ByteSource) (rawGPTHeader, bool, error) {
	hdr, _, ok, err := readGPTHeaderRaw(src)
	return hdr, ok, err
}

func readGPTHeaderRaw(src source.ByteSource) (rawGPTHeader, []byte, bool, error) {
	buf := make([]byte, sectorSize)
	n, err := src.ReadAt(sectorSize, buf)
	if err != nil {
		return rawGPTHeader{}, nil, false, errors.Wrap(err, "read LBA 1")
	}
	if n < sectorSize {
		return rawGPTHeader{}, nil, false, nil
	}

	if !bytes.Equal(buf[:8], []byte(gptSignature)) {
		return rawGPTHeader{}, nil, false, nil
	}

	var hdr rawGPTHeader
	if err := restruct.Unpack(buf, binary.LittleEndian, &hdr); err != nil {
		return rawGPTHeader{}, nil, false, errors.Wrap(err, "decode GPT header")
	}
	return hdr, buf, true, nil
}

func verifyHeaderCRC(hdr rawGPTHeader, raw []byte) bool {
	if uint64(hdr.HeaderSize) > uint64(len(raw)) {
		return false
	}
	scratch := make([]byte, hdr.HeaderSize)
	copy(scratch, raw[:hdr.HeaderSize])
	for i := 16; i < 20; i++ {
		scratch[i] = 0
	}
	return crc32.ChecksumIEEE(scratch) == hdr.HeaderCRC32
}
