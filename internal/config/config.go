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

// Package config loads default run options from an ini file, layered
// beneath whatever flags the cobra command surface sets explicitly.
package config

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// Defaults mirrors the subset of scan/carve options a site wants to pin in
// an ini file instead of repeating on every invocation.
type Defaults struct {
	ChunkSizeMiB   int      `ini-name:"chunk_size_mib" long:"chunk-size-mib" description:"scan chunk size in MiB" default:"1"`
	MaxCarveMiB    int      `ini-name:"max_carve_mib" long:"max-carve-mib" description:"maximum bytes to carve per detection, in MiB" default:"50"`
	BlockSize      int      `ini-name:"block_size" long:"block-size" description:"recoverability estimator block size" default:"4096"`
	EnableFilter   bool     `ini-name:"enable_filter" long:"enable-filter" description:"apply false-positive filtering to scan results" default:"true"`
	SelectedTypes  []string `ini-name:"selected_types" long:"selected-types" description:"signature names to scan for; empty means all"`
	LogFilePath    string   `ini-name:"log_file" long:"log-file" description:"path to append structured logs to"`
	LogLevel       string   `ini-name:"log_level" long:"log-level" description:"debug, info, warn, or error" default:"info"`
	StrictCarving  bool     `ini-name:"strict_carving" long:"strict-carving" description:"use format-aware end detection instead of heuristics"`
}

// Default returns the struct's declared defaults without touching disk.
func Default() Defaults {
	var d Defaults
	p := flags.NewParser(&d, flags.Default|flags.IgnoreUnknown)
	p.ParseArgs(nil)
	return d
}

// Load reads an ini file at path into Defaults, starting from the struct's
// declared defaults. A missing file is not an error; Load returns the bare
// defaults in that case.
func Load(path string) (Defaults, error) {
	d := Default()
	if path == "" {
		return d, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return d, nil
	}

	p := flags.NewParser(&d, flags.Default)
	iniParser := flags.NewIniParser(p)
	if err := iniParser.ParseFile(path); err != nil {
		return Defaults{}, errors.Wrapf(err, "parse config %s", path)
	}
	return d, nil
}
