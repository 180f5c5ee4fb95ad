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

import "github.com/sscafiti/corescan/internal/source"

// DecodeAny tries every detector and returns every match. FAT and NTFS both
// read the boot sector at offset 0 and are mutually exclusive by
// construction (DecodeFAT rejects a boot sector whose OEM ID is "NTFS    ",
// and DecodeNTFS accepts only that OEM ID); EXT's superblock lives at a
// disjoint offset and may coexist with either.
func DecodeAny(src source.ByteSource) ([]Descriptor, error) {
	var found []Descriptor

	if d, ok, err := DecodeFAT(src); err != nil {
		return nil, err
	} else if ok {
		found = append(found, d)
	}

	if d, ok, err := DecodeNTFS(src); err != nil {
		return nil, err
	} else if ok {
		found = append(found, d)
	}

	if d, ok, err := DecodeEXT(src); err != nil {
		return nil, err
	} else if ok {
		found = append(found, d)
	}

	return found, nil
}
