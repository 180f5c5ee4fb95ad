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

import (
	"errors"
	"os"

	pkgerrors "github.com/pkg/errors"
)

// Open resolves path to a ByteSource, preferring an mmap'd view and falling
// back to a buffered stream when mmap is rejected (pipes, some raw character
// devices, zero-size stat results). It never falls back after mmap
// succeeds — only a failed attempt triggers the buffered path.
func Open(path string) (ByteSource, error) {
	if m, err := openMmap(path); err == nil {
		return m, nil
	}

	b, err := openBuffered(path)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// mapOpenErr translates os.Open failures into the sentinel errors §7 of the
// spec requires the rest of the engine to branch on.
func mapOpenErr(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return pkgerrors.Wrap(ErrNotFound, err.Error())
	case errors.Is(err, os.ErrPermission):
		return pkgerrors.Wrap(ErrAccessDenied, err.Error())
	default:
		return pkgerrors.WithStack(err)
	}
}
