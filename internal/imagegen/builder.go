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

package imagegen

// Builder assembles an exact byte layout for test fixtures: known offsets,
// known gaps, no randomness.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Offset returns the current length of the buffer, i.e. where the next
// Bytes/Zeros call will land.
func (b *Builder) Offset() uint64 {
	return uint64(len(b.buf))
}

// Bytes appends data verbatim and returns the offset it was written at.
func (b *Builder) Bytes(data []byte) uint64 {
	off := b.Offset()
	b.buf = append(b.buf, data...)
	return off
}

// Zeros appends n zero bytes and returns the offset they start at.
func (b *Builder) Zeros(n int) uint64 {
	off := b.Offset()
	b.buf = append(b.buf, make([]byte, n)...)
	return off
}

// PadTo appends zero bytes until the buffer reaches at least offset. It is
// a no-op if the buffer is already that long.
func (b *Builder) PadTo(offset uint64) {
	if offset <= b.Offset() {
		return
	}
	b.buf = append(b.buf, make([]byte, offset-b.Offset())...)
}

// Build returns the assembled image.
func (b *Builder) Build() []byte {
	return b.buf
}
