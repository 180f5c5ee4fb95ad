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

// Package sigcatalog ships the frozen table of known file-type signatures.
package sigcatalog

import "fmt"

// Signature is an immutable record describing one recognizable file type.
type Signature struct {
	Name      string
	Header    []byte
	Footer    []byte // nil if the format has no reliable footer
	Extension string
	MinSize   int
}

var catalog = map[string]Signature{
	"PDF": {
		Name: "PDF", Header: b(0x25, 0x50, 0x44, 0x46), Footer: []byte("%%EOF"),
		Extension: ".pdf", MinSize: 1024,
	},
	"PNG": {
		Name: "PNG", Header: b(0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A),
		Footer: []byte{'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82},
		Extension: ".png", MinSize: 512,
	},
	"JPEG": {
		Name: "JPEG", Header: b(0xFF, 0xD8, 0xFF, 0xE0), Footer: b(0xFF, 0xD9),
		Extension: ".jpg", MinSize: 512,
	},
	"JPEG_ALT": {
		Name: "JPEG_ALT", Header: b(0xFF, 0xD8, 0xFF, 0xE1), Footer: b(0xFF, 0xD9),
		Extension: ".jpg", MinSize: 512,
	},
	"ZIP": {
		Name: "ZIP", Header: b(0x50, 0x4B, 0x03, 0x04), Footer: b(0x50, 0x4B, 0x05, 0x06),
		Extension: ".zip", MinSize: 1024,
	},
	"DOCX": {
		Name: "DOCX", Header: b(0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00),
		Extension: ".docx", MinSize: 2048,
	},
	"XLSX": {
		Name: "XLSX", Header: b(0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00),
		Extension: ".xlsx", MinSize: 2048,
	},
	"GIF": {
		Name: "GIF", Header: []byte("GIF89a"), Footer: b(0x00, 0x3B),
		Extension: ".gif", MinSize: 256,
	},
	"GIF87": {
		Name: "GIF87", Header: []byte("GIF87a"), Footer: b(0x00, 0x3B),
		Extension: ".gif", MinSize: 256,
	},
	"BMP": {
		Name: "BMP", Header: b(0x42, 0x4D),
		Extension: ".bmp", MinSize: 512,
	},
	"MP3": {
		Name: "MP3", Header: b(0xFF, 0xFB),
		Extension: ".mp3", MinSize: 4096,
	},
	"MP4": {
		Name: "MP4", Header: b(0x00, 0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70),
		Extension: ".mp4", MinSize: 4096,
	},
	"AVI": {
		Name: "AVI", Header: b(0x52, 0x49, 0x46, 0x46),
		Extension: ".avi", MinSize: 4096,
	},
	"EXE": {
		Name: "EXE", Header: b(0x4D, 0x5A, 0x90, 0x00),
		Extension: ".exe", MinSize: 2048,
	},
	"RAR": {
		Name: "RAR", Header: b(0x52, 0x61, 0x72, 0x21, 0x1A, 0x07),
		Extension: ".rar", MinSize: 1024,
	},
	"7Z": {
		Name: "7Z", Header: b(0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C),
		Extension: ".7z", MinSize: 1024,
	},
}

func b(vals ...byte) []byte { return vals }

func init() {
	for name, sig := range catalog {
		if len(sig.Header) < 1 {
			panic(fmt.Sprintf("sigcatalog: %s: empty header", name))
		}
		if sig.MinSize < len(sig.Header) {
			panic(fmt.Sprintf("sigcatalog: %s: min_size %d < header length %d", name, sig.MinSize, len(sig.Header)))
		}
		if sig.Name != name {
			panic(fmt.Sprintf("sigcatalog: key %q does not match Signature.Name %q", name, sig.Name))
		}
	}
}

// Get returns the signature registered under name.
func Get(name string) (Signature, bool) {
	s, ok := catalog[name]
	return s, ok
}

// All returns every catalog entry. Iteration order of the returned slice is
// not meaningful and must not be relied upon by callers.
func All() []Signature {
	out := make([]Signature, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s)
	}
	return out
}

// Names returns every registered signature name.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	return out
}

// MaxHeaderLen returns the length of the longest header among the given
// names (or the whole catalog when names is empty).
func MaxHeaderLen(names []string) int {
	max := 0
	for _, s := range resolve(names) {
		if len(s.Header) > max {
			max = len(s.Header)
		}
	}
	return max
}

// resolve maps a name subset (nil/empty meaning "all") to Signature values,
// silently dropping unknown names.
func resolve(names []string) []Signature {
	if len(names) == 0 {
		return All()
	}
	out := make([]Signature, 0, len(names))
	for _, n := range names {
		if s, ok := catalog[n]; ok {
			out = append(out, s)
		}
	}
	return out
}
