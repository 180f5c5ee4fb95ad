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

package carver

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sscafiti/corescan/internal/sigcatalog"
)

// Save writes carved.Payload to destDir/recovered_<SIG>_<NNNN><ext>,
// creating destDir if it doesn't exist. index is zero-padded to four
// digits.
func Save(carved CarvedFile, destDir string, index int) (string, error) {
	sig, ok := sigcatalog.Get(carved.Signature)
	if !ok {
		return "", errors.Errorf("carver: unknown signature %q", carved.Signature)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create %q", destDir)
	}

	name := fmt.Sprintf("recovered_%s_%04d%s", carved.Signature, index, sig.Extension)
	path := filepath.Join(destDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create %q", path)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 32*1024)
	if _, err := w.Write(carved.Payload); err != nil {
		return "", errors.Wrapf(err, "write %q", path)
	}
	if err := w.Flush(); err != nil {
		return "", errors.Wrapf(err, "flush %q", path)
	}

	return path, nil
}
