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

// Package pbar renders a single-line terminal progress bar driven by the
// percent-complete callback that internal/orchestrator reports through.
package pbar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sscafiti/corescan/pkg/util/format"
)

const MinRefreshRate = time.Millisecond * 500

// State tracks the bar's start time and last render so Render can throttle
// and estimate the time remaining.
type State struct {
	TotalBytes      int64
	DetectionsFound int

	startTime      time.Time
	lastPercent    float64
	lastUpdateTime time.Time
}

// New initializes a bar against a known total size in bytes. totalBytes may
// be 0 when the source size isn't known up front; the bar still renders a
// percentage, just without a byte count.
func New(totalBytes int64) *State {
	return &State{
		TotalBytes:     totalBytes,
		startTime:      time.Now(),
		lastUpdateTime: time.Unix(0, 0),
	}
}

// Render prints the bar at the given percent [0, 100]. force bypasses the
// minimum refresh interval, for the first and last calls of a run.
func (s *State) Render(percent float64, force bool) {
	if !force && (s.lastUpdateTime.IsZero() || time.Since(s.lastUpdateTime) < MinRefreshRate) {
		return
	}

	const barLength = 20
	filledLen := int(float64(barLength) * percent / 100)
	if filledLen > barLength {
		filledLen = barLength
	}
	var bar string
	if filledLen >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filledLen) + ">" + strings.Repeat(" ", barLength-filledLen-1)
	}

	elapsed := time.Since(s.startTime)
	etaStr := "calculating..."
	if percent > 0 && percent < 100 {
		totalEstimate := elapsed.Seconds() / (percent / 100)
		remaining := time.Duration(totalEstimate-elapsed.Seconds()) * time.Second
		if remaining > 0 {
			etaStr = fmt.Sprintf("%02d:%02d:%02d remaining",
				int(remaining.Hours()),
				int(remaining.Minutes())%60,
				int(remaining.Seconds())%60)
		}
	} else if percent >= 100 {
		etaStr = "done"
	}

	s.lastUpdateTime = time.Now()
	s.lastPercent = percent

	sizeInfo := ""
	if s.TotalBytes > 0 {
		sizeInfo = fmt.Sprintf(" of %s", format.FormatBytes(s.TotalBytes))
	}

	fmt.Fprintf(os.Stdout, "\r[INFO] Progress: [%s] %3.0f%%%s | Detections: %d | [%s]    ",
		bar, percent, sizeInfo, s.DetectionsFound, etaStr)
	os.Stdout.Sync()
}

// Finish moves the cursor past the bar line once a run completes.
func (s *State) Finish() {
	fmt.Println()
}
