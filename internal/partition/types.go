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

// Package partition decodes MBR and GPT partition tables from a byte
// source, yielding descriptive values rather than raising on malformed
// input.
package partition

// Kind tags which variant a Table holds.
type Kind int

const (
	None Kind = iota
	MBRKind
	GPTKind
)

func (k Kind) String() string {
	switch k {
	case MBRKind:
		return "MBR"
	case GPTKind:
		return "GPT"
	default:
		return "none"
	}
}

// Entry describes one MBR primary partition.
type Entry struct {
	Index       int
	Bootable    bool
	TypeCode    byte
	TypeName    string
	StartLBA    uint32
	SectorCount uint32
}

// SizeMiB returns the partition's size rounded down to whole mebibytes,
// assuming 512-byte sectors.
func (e Entry) SizeMiB() uint64 {
	return (uint64(e.SectorCount) * 512) / (1024 * 1024)
}

// GPTInfo carries the header-level facts the engine records for GPT; full
// partition-entry decoding is left to a consumer that needs it.
type GPTInfo struct {
	EntryCount uint32
	EntrySize  uint32
}

// Table is the tagged {MBR | GPT | absent} result of decoding a source.
type Table struct {
	Kind    Kind
	Entries []Entry // populated when Kind == MBRKind
	GPT     GPTInfo // populated when Kind == GPTKind
}

// Present reports whether decoding found a recognizable table.
func (t Table) Present() bool { return t.Kind != None }
