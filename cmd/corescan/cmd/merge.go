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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sscafiti/corescan/internal/imagegen"
	"github.com/sscafiti/corescan/pkg/util/format"
)

func newMergeCommand() *cobra.Command {
	var (
		outPath   string
		gapMin    int
		gapMax    int
		blockSize int
	)

	cmd := &cobra.Command{
		Use:   "merge <file-or-dir>...",
		Short: "concatenate files into a synthetic disk image with randomized gaps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if outPath == "" {
				return errors.New("--output is required")
			}

			opts := imagegen.Options{
				Gap:       imagegen.GapRange{Min: gapMin, Max: gapMax},
				BlockSize: blockSize,
			}

			written, err := imagegen.MergeFilesToPath(outPath, args, opts)
			if err != nil {
				return errors.Wrap(err, "merge")
			}

			fmt.Printf("wrote %s to %s\n", format.FormatBytes(written), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "output", "", "path to write the synthetic image to")
	cmd.Flags().IntVar(&gapMin, "gap-min", 64, "minimum random gap between files, in bytes")
	cmd.Flags().IntVar(&gapMax, "gap-max", 4096, "maximum random gap between files, in bytes")
	cmd.Flags().IntVar(&blockSize, "block-size", 512, "pad each file's length (except the last) up to a multiple of this many bytes")

	return cmd
}
