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

package scanner

import (
	"bytes"
	"encoding/binary"

	"github.com/sscafiti/corescan/internal/source"
)

// validate applies the per-type plausibility check at candidate offset o.
// Types without a specific rule accept whenever the header itself fits
// inside the source.
func validate(src source.ByteSource, name string, o uint64, headerLen int, total uint64) bool {
	switch name {
	case "DOCX":
		return windowContains(src, o, 2000, []byte("word/"))
	case "XLSX":
		return windowContains(src, o, 2000, []byte("xl/"))
	case "PDF":
		return windowContains(src, o, 20, []byte("%PDF-1.")) || windowContains(src, o, 20, []byte("%PDF-2."))
	case "EXE":
		return validateEXE(src, o, total)
	case "MP3":
		return validateMP3(src, o)
	default:
		return o+uint64(headerLen) <= total
	}
}

func windowContains(src source.ByteSource, o uint64, windowLen int, needle []byte) bool {
	buf := make([]byte, windowLen)
	n, err := src.ReadAt(o, buf)
	if err != nil || n == 0 {
		return false
	}
	return bytes.Contains(buf[:n], needle)
}

func validateEXE(src source.ByteSource, o uint64, total uint64) bool {
	hdr := make([]byte, 0x40)
	n, err := src.ReadAt(o, hdr)
	if err != nil || n < 0x40 {
		return false
	}
	lfanew := binary.LittleEndian.Uint32(hdr[0x3C:0x40])
	peOffset := o + uint64(lfanew)
	if peOffset+2 > total {
		return false
	}
	peMagic := make([]byte, 2)
	n, err = src.ReadAt(peOffset, peMagic)
	if err != nil || n < 2 {
		return false
	}
	return peMagic[0] == 'P' && peMagic[1] == 'E'
}

func validateMP3(src source.ByteSource, o uint64) bool {
	buf := make([]byte, 2)
	n, err := src.ReadAt(o, buf)
	if err != nil || n < 2 {
		return false
	}
	return buf[0] == 0xFF && (buf[1]&0xE0) == 0xE0
}
