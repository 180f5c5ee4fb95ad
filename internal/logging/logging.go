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

// Package logging wires structured phase/event logging for an analysis run
// and formats terminal error chains the way the rest of the dsoprea stack
// does (log.Wrap / log.PrintError).
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	dsologging "github.com/dsoprea/go-logging"
)

// New builds a slog.Logger writing to logFilePath, or discarding output
// when logFilePath is empty.
func New(logFilePath string, level slog.Level) (*slog.Logger, *os.File, error) {
	var w io.Writer
	var file *os.File

	if logFilePath == "" {
		w = io.Discard
	} else {
		if dir := filepath.Dir(logFilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, file = f, f
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), file, nil
}

// ReportFatal prints a wrapped error's full cause chain to stderr, in the
// same shape as the exfat command-line tools (log.Wrap + log.PrintError),
// and returns a process exit code.
func ReportFatal(err error) int {
	if err == nil {
		return 0
	}
	dsologging.PrintError(dsologging.Wrap(err))
	return 1
}
