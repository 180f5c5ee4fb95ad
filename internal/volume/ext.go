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
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/source"
)

const (
	extSuperblockOffset = 1024
	extMagic            = 0xEF53
)

// DecodeEXT inspects the EXT2/3/4 superblock, which lives at a fixed
// 1024-byte offset independent of any boot sector that may precede it.
func DecodeEXT(src source.ByteSource) (Descriptor, bool, error) {
	buf := make([]byte, 1024)
	n, err := src.ReadAt(extSuperblockOffset, buf)
	if err != nil {
		return Descriptor{}, false, errors.Wrap(err, "read superblock")
	}
	if n < 60 {
		return Descriptor{}, false, nil
	}

	if binary.LittleEndian.Uint16(buf[56:58]) != extMagic {
		return Descriptor{}, false, nil
	}

	totalInodes := binary.LittleEndian.Uint32(buf[0:4])
	totalBlocks := binary.LittleEndian.Uint32(buf[4:8])
	logBlockSize := binary.LittleEndian.Uint32(buf[24:28])
	blockSize := uint32(1024) << logBlockSize

	return Descriptor{
		Kind:        EXT,
		TotalInodes: totalInodes,
		TotalBlocks: totalBlocks,
		BlockSize:   blockSize,
	}, true, nil
}
