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

// Package report renders an orchestrator.Result as a plain-text summary
// fit for a terminal or a saved .txt alongside a recovery run.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/sscafiti/corescan/internal/orchestrator"
	"github.com/sscafiti/corescan/internal/partition"
	"github.com/sscafiti/corescan/pkg/util/format"
)

// Write renders result to w. sourcePath and duration are caller-supplied
// context the Orchestrator itself doesn't track.
func Write(w io.Writer, sourcePath string, result orchestrator.Result, duration time.Duration) error {
	fmt.Fprintf(w, "corescan analysis report\n")
	fmt.Fprintf(w, "=========================\n")
	fmt.Fprintf(w, "source:          %s\n", sourcePath)
	fmt.Fprintf(w, "duration:        %s\n", duration.Round(time.Millisecond))
	fmt.Fprintf(w, "recoverability:  %.1f%%\n", result.Recoverability)
	if result.Cancelled {
		fmt.Fprintf(w, "status:          cancelled\n")
	}
	fmt.Fprintln(w)

	writePartitions(w, result.Partitions)
	writeVolumes(w, result)
	writeDetections(w, result)

	return nil
}

func writePartitions(w io.Writer, table partition.Table) {
	fmt.Fprintf(w, "partitions\n----------\n")
	if !table.Present() {
		fmt.Fprintf(w, "  none found\n\n")
		return
	}
	fmt.Fprintf(w, "  scheme: %s\n", table.Kind)
	if table.Kind == partition.GPTKind {
		fmt.Fprintf(w, "  entries: %d (entry size %d bytes)\n", table.GPT.EntryCount, table.GPT.EntrySize)
	}
	for _, e := range table.Entries {
		fmt.Fprintf(w, "  [%d] %-28s start_lba=%-12d size=%s boot=%v\n",
			e.Index, e.TypeName, e.StartLBA, format.FormatBytes(int64(e.SizeMiB())*1<<20), e.Bootable)
	}
	fmt.Fprintln(w)
}

func writeVolumes(w io.Writer, result orchestrator.Result) {
	fmt.Fprintf(w, "filesystems\n-----------\n")
	if len(result.Volumes) == 0 {
		fmt.Fprintf(w, "  none found\n\n")
		return
	}
	for _, v := range result.Volumes {
		fmt.Fprintf(w, "  %-6s oem=%-9q size=%s\n", v.Kind, v.OEMName, format.FormatBytes(int64(v.VolumeSizeMB())*1<<20))
	}
	fmt.Fprintln(w)
}

func writeDetections(w io.Writer, result orchestrator.Result) {
	fmt.Fprintf(w, "recovered files (%d)\n--------------------\n", len(result.Detections))
	if len(result.Detections) == 0 {
		fmt.Fprintf(w, "  none found\n")
		return
	}
	for i, d := range result.Detections {
		fmt.Fprintf(w, "  %4d  %-10s offset=%-12d size=%s\n",
			i+1, d.Signature, d.Offset, format.FormatBytes(int64(d.CarvedLength)))
	}
}
