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
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sscafiti/corescan/internal/config"
	"github.com/sscafiti/corescan/internal/logging"
	"github.com/sscafiti/corescan/internal/orchestrator"
	"github.com/sscafiti/corescan/internal/report"
	"github.com/sscafiti/corescan/internal/scanner"
	"github.com/sscafiti/corescan/internal/source"
	"github.com/sscafiti/corescan/pkg/dfxml"
	"github.com/sscafiti/corescan/pkg/pbar"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		chunkSizeMiB  int
		maxCarveMiB   int
		blockSize     int
		enableFilter  bool
		selectedTypes []string
		logFilePath   string
		logLevel      string
		strictCarving bool
		reportPath    string
		dfxmlPath     string
		quiet         bool
		segments      []string
	)

	cmd := &cobra.Command{
		Use:   "analyze [image]",
		Short: "scan a disk image for partitions, filesystems, and recoverable files",
		Long: "scan a disk image for partitions, filesystems, and recoverable files.\n" +
			"Pass a single image path, or repeat --segment for a raw image that was\n" +
			"split across multiple fixed-size files (image.001, image.002, ...); the\n" +
			"segments are read in the order given and treated as one contiguous image.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) == 0 && len(segments) == 0 {
				return errors.New("analyze requires either an image path or one or more --segment flags")
			}
			if len(args) == 1 && len(segments) > 0 {
				return errors.New("analyze takes either an image path or --segment flags, not both")
			}
			defaults, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !c.Flags().Changed("chunk-size-mib") {
				chunkSizeMiB = defaults.ChunkSizeMiB
			}
			if !c.Flags().Changed("max-carve-mib") {
				maxCarveMiB = defaults.MaxCarveMiB
			}
			if !c.Flags().Changed("block-size") {
				blockSize = defaults.BlockSize
			}
			if !c.Flags().Changed("enable-filter") {
				enableFilter = defaults.EnableFilter
			}
			if len(selectedTypes) == 0 {
				selectedTypes = defaults.SelectedTypes
			}
			if logFilePath == "" {
				logFilePath = defaults.LogFilePath
			}
			if !c.Flags().Changed("log-level") {
				logLevel = defaults.LogLevel
			}
			if !c.Flags().Changed("strict-carving") {
				strictCarving = defaults.StrictCarving
			}

			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				level = slog.LevelInfo
			}
			logger, logFile, err := logging.New(logFilePath, level)
			if err != nil {
				return errors.Wrap(err, "open log file")
			}
			if logFile != nil {
				defer logFile.Close()
			}

			var (
				imagePath string
				src       source.ByteSource
			)
			if len(segments) > 0 {
				imagePath = segments[0]
				src, err = source.OpenSegments(segments)
				if err != nil {
					return errors.Wrapf(err, "open %d segment(s) starting at %q", len(segments), imagePath)
				}
			} else {
				imagePath = args[0]
				src, err = source.Open(imagePath)
				if err != nil {
					return errors.Wrapf(err, "open %q", imagePath)
				}
			}
			defer src.Close()

			opts := orchestrator.Options{
				ScanConfig: scanner.Config{
					SelectedTypes: selectedTypes,
					FilterEnabled: enableFilter,
					ChunkSize:     chunkSizeMiB << 20,
				},
				BlockSize:     blockSize,
				MaxCarveSize:  uint64(maxCarveMiB) << 20,
				StrictCarving: strictCarving,
				Logger:        logger,
			}

			bar := pbar.New(int64(src.Len()))
			start := time.Now()

			progress := func(pct float64) bool {
				if !quiet {
					bar.Render(pct, pct == 0 || pct >= 100)
				}
				return true
			}

			result, err := orchestrator.Analyze(src, opts, progress)
			if !quiet {
				bar.Finish()
			}
			if err != nil {
				return errors.Wrap(err, "analyze")
			}

			duration := time.Since(start)

			out := os.Stdout
			if reportPath != "" {
				f, err := os.Create(reportPath)
				if err != nil {
					return errors.Wrapf(err, "create %q", reportPath)
				}
				defer f.Close()
				if err := report.Write(f, imagePath, result, duration); err != nil {
					return err
				}
				fmt.Printf("report written to %s\n", reportPath)
			} else {
				if err := report.Write(out, imagePath, result, duration); err != nil {
					return err
				}
			}

			if dfxmlPath != "" {
				if err := writeDFXML(dfxmlPath, imagePath, src.Len(), result); err != nil {
					return errors.Wrapf(err, "write dfxml %q", dfxmlPath)
				}
				fmt.Printf("dfxml report written to %s\n", dfxmlPath)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSizeMiB, "chunk-size-mib", 1, "scan chunk size in MiB")
	cmd.Flags().IntVar(&maxCarveMiB, "max-carve-mib", 50, "maximum bytes to carve per detection, in MiB")
	cmd.Flags().IntVar(&blockSize, "block-size", 4096, "recoverability estimator block size")
	cmd.Flags().BoolVar(&enableFilter, "enable-filter", true, "apply false-positive filtering to scan results")
	cmd.Flags().StringSliceVar(&selectedTypes, "ext", nil, "signature names to scan for (comma separated); empty means all")
	cmd.Flags().StringVar(&logFilePath, "log-file", "", "path to append structured logs to")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	cmd.Flags().BoolVar(&strictCarving, "strict-carving", false, "use format-aware end detection instead of heuristics")
	cmd.Flags().StringVar(&reportPath, "output", "", "write the text report to a file instead of stdout")
	cmd.Flags().StringVar(&dfxmlPath, "dfxml", "", "write a DFXML sidecar report to this path")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress the progress bar")
	cmd.Flags().StringArrayVar(&segments, "segment", nil, "path to one segment of a split raw image; repeat in order instead of passing a single image argument")

	return cmd
}

func writeDFXML(path, sourcePath string, sourceSize uint64, result orchestrator.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := dfxml.NewDFXMLWriter(f)
	if err := w.WriteHeader(dfxml.BuildHeader(sourcePath, sourceSize, 512, "1.0")); err != nil {
		return err
	}
	for i, d := range result.Detections {
		if err := w.WriteFileObject(dfxml.FileObjectFor(i, d)); err != nil {
			return err
		}
	}
	return w.Close()
}
