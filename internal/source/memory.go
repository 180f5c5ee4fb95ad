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

package source

// memorySource wraps an already-resident byte slice. Used by tests and by
// callers re-analyzing a payload that was already carved into memory.
type memorySource struct {
	data []byte
}

// NewMemory builds a ByteSource over data without copying it. Callers must
// not mutate data afterward.
func NewMemory(data []byte) ByteSource {
	return &memorySource{data: data}
}

func (m *memorySource) Len() uint64 {
	return uint64(len(m.data))
}

func (m *memorySource) ReadAt(offset uint64, buf []byte) (int, error) {
	if offset >= uint64(len(m.data)) {
		return 0, nil
	}
	return copy(buf, m.data[offset:]), nil
}

func (m *memorySource) Close() error {
	return nil
}
