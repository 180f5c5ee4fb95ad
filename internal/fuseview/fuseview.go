//go:build linux
// +build linux

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

// Package fuseview exposes a completed analysis as a read-only FUSE
// filesystem: one directory per detected signature type, one file per
// detection, carved on demand against the original ByteSource.
package fuseview

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/sscafiti/corescan/internal/carver"
	"github.com/sscafiti/corescan/internal/orchestrator"
	"github.com/sscafiti/corescan/internal/sigcatalog"
	"github.com/sscafiti/corescan/internal/source"
)

// RecoverFS is the root of the mounted tree. It never writes back to src.
type RecoverFS struct {
	src        source.ByteSource
	bySig      map[string][]entry
	maxCarve   uint64
	mountpoint string
}

type entry struct {
	name   string
	offset uint64
	size   uint64
}

// New groups detections by signature name, one FUSE subdirectory per name.
func New(src source.ByteSource, detections []orchestrator.SizedDetection, maxCarveSize uint64) *RecoverFS {
	bySig := make(map[string][]entry)
	counts := make(map[string]int)
	for _, d := range detections {
		ext := ""
		if sig, ok := sigcatalog.Get(d.Signature); ok {
			ext = sig.Extension
		}
		idx := counts[d.Signature]
		counts[d.Signature] = idx + 1
		bySig[d.Signature] = append(bySig[d.Signature], entry{
			name:   fmt.Sprintf("recovered_%s_%04d%s", d.Signature, idx, ext),
			offset: d.Offset,
			size:   d.CarvedLength,
		})
	}
	return &RecoverFS{src: src, bySig: bySig, maxCarve: maxCarveSize}
}

func (r *RecoverFS) Root() (fs.Node, error) {
	return &rootDir{fs: r}, nil
}

// rootDir lists one subdirectory per signature name that has detections.
type rootDir struct {
	fs *RecoverFS
}

func (*rootDir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *rootDir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	if entries, ok := d.fs.bySig[name]; ok {
		return &sigDir{fs: d.fs, signature: name, entries: entries}, nil
	}
	return nil, fuse.ENOENT
}

func (d *rootDir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	names := make([]string, 0, len(d.fs.bySig))
	for name := range d.fs.bySig {
		names = append(names, name)
	}
	sort.Strings(names)

	dirents := make([]fuse.Dirent, len(names))
	for i, name := range names {
		dirents[i] = fuse.Dirent{Inode: uint64(i + 1), Name: name, Type: fuse.DT_Dir}
	}
	return dirents, nil
}

// sigDir lists every detection carved under one signature name.
type sigDir struct {
	fs        *RecoverFS
	signature string
	entries   []entry
}

func (*sigDir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *sigDir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	for _, e := range d.entries {
		if e.name == name {
			return &carvedFile{fs: d.fs, signature: d.signature, entry: e}, nil
		}
	}
	return nil, fuse.ENOENT
}

func (d *sigDir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirents := make([]fuse.Dirent, len(d.entries))
	for i, e := range d.entries {
		dirents[i] = fuse.Dirent{Inode: uint64(i + 1), Name: e.name, Type: fuse.DT_File}
	}
	return dirents, nil
}

// carvedFile lazily carves its payload on first read and caches it for the
// life of the mount; a recovery browse session re-reads the same handful
// of files repeatedly, so the cache trades a bounded amount of memory for
// not re-running end-detection on every Read call.
type carvedFile struct {
	fs        *RecoverFS
	signature string
	entry     entry

	mu      sync.Mutex
	payload []byte
	carved  bool
}

func (f *carvedFile) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = f.entry.size
	a.Mtime = time.Now()
	return nil
}

func (f *carvedFile) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	payload, err := f.ensureCarved()
	if err != nil {
		return err
	}

	offset := req.Offset
	size := req.Size
	if offset >= int64(len(payload)) {
		resp.Data = []byte{}
		return nil
	}
	end := offset + int64(size)
	if end > int64(len(payload)) {
		end = int64(len(payload))
	}
	resp.Data = payload[offset:end]
	return nil
}

func (f *carvedFile) ensureCarved() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.carved {
		return f.payload, nil
	}

	sig, ok := sigcatalog.Get(f.signature)
	if !ok {
		return nil, fuse.ENOENT
	}
	carved, err := carver.Carve(f.fs.src, sig, f.entry.offset, f.fs.maxCarve)
	if err != nil {
		return nil, err
	}
	f.payload = carved.Payload
	f.carved = true
	return f.payload, nil
}
