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

package cmd

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sscafiti/corescan/internal/carver"
	"github.com/sscafiti/corescan/internal/sigcatalog"
	"github.com/sscafiti/corescan/internal/source"
	"github.com/sscafiti/corescan/pkg/dfxml"
)

var recoveredNamePattern = regexp.MustCompile(`^recovered_(.+)_\d{4}`)

func newCarveCommand() *cobra.Command {
	var (
		dfxmlPath  string
		destDir    string
		maxMiB     int
		strictMode bool
	)

	cmd := &cobra.Command{
		Use:   "carve <image>",
		Short: "extract files listed in a DFXML report from a disk image",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if dfxmlPath == "" {
				return errors.New("--dfxml is required")
			}

			imagePath := args[0]
			src, err := source.Open(imagePath)
			if err != nil {
				return errors.Wrapf(err, "open %q", imagePath)
			}
			defer src.Close()

			f, err := os.Open(dfxmlPath)
			if err != nil {
				return errors.Wrapf(err, "open %q", dfxmlPath)
			}
			defer f.Close()

			objects, err := dfxml.ReadFileObjects(f)
			if err != nil {
				return errors.Wrapf(err, "parse %q", dfxmlPath)
			}

			maxSize := uint64(maxMiB) << 20

			for i, obj := range objects {
				sigName, ok := signatureFromFilename(obj.Filename)
				if !ok {
					fmt.Fprintf(os.Stderr, "skipping %s: unrecognized filename\n", obj.Filename)
					continue
				}
				sig, ok := sigcatalog.Get(sigName)
				if !ok {
					fmt.Fprintf(os.Stderr, "skipping %s: unknown signature %q\n", obj.Filename, sigName)
					continue
				}
				offset := obj.ByteRuns.Runs[0].ImgOffset

				carved, err := carver.CarveWithOptions(src, sig, offset, carver.Options{MaxSize: maxSize, Strict: strictMode})
				if err != nil {
					fmt.Fprintf(os.Stderr, "skipping %s at offset %d: %v\n", obj.Filename, offset, err)
					continue
				}

				path, err := carver.Save(carved, destDir, i)
				if err != nil {
					return errors.Wrap(err, "save carved file")
				}
				fmt.Printf("recovered %s (%d bytes)\n", path, carved.PayloadLength)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dfxmlPath, "dfxml", "", "DFXML report produced by the analyze command")
	cmd.Flags().StringVar(&destDir, "output", "recovered", "directory to write recovered files into")
	cmd.Flags().IntVar(&maxMiB, "max-carve-mib", 50, "maximum bytes to carve per file, in MiB")
	cmd.Flags().BoolVar(&strictMode, "strict-carving", false, "use format-aware end detection instead of heuristics")

	return cmd
}

func signatureFromFilename(name string) (string, bool) {
	m := recoveredNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
