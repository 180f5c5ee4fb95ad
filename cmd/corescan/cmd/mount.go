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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sscafiti/corescan/internal/fuseview"
	"github.com/sscafiti/corescan/internal/orchestrator"
	"github.com/sscafiti/corescan/internal/scanner"
	"github.com/sscafiti/corescan/internal/source"
	"github.com/sscafiti/corescan/pkg/dfxml"
)

func newMountCommand() *cobra.Command {
	var (
		dfxmlPath string
		maxMiB    int
	)

	cmd := &cobra.Command{
		Use:   "mount <image> <mountpoint>",
		Short: "expose files listed in a DFXML report as a read-only FUSE filesystem",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			if dfxmlPath == "" {
				return errors.New("--dfxml is required")
			}

			imagePath, mountpoint := args[0], args[1]

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

			detections := make([]orchestrator.SizedDetection, 0, len(objects))
			for _, obj := range objects {
				sigName, ok := signatureFromFilename(obj.Filename)
				if !ok || len(obj.ByteRuns.Runs) == 0 {
					fmt.Fprintf(os.Stderr, "skipping %s: unrecognized entry\n", obj.Filename)
					continue
				}
				detections = append(detections, orchestrator.SizedDetection{
					Detection: scanner.Detection{
						Signature: sigName,
						Offset:    obj.ByteRuns.Runs[0].ImgOffset,
					},
					CarvedLength: obj.FileSize,
				})
			}

			result := orchestrator.Result{Detections: detections}
			maxSize := uint64(maxMiB) << 20

			fmt.Printf("mounting %d recoverable files at %s (ctrl-c to unmount)\n", len(detections), mountpoint)
			return fuseview.Mount(mountpoint, src, result, maxSize)
		},
	}

	cmd.Flags().StringVar(&dfxmlPath, "dfxml", "", "DFXML report produced by the analyze command")
	cmd.Flags().IntVar(&maxMiB, "max-carve-mib", 50, "maximum bytes to carve per file, in MiB")

	return cmd
}
