/*
 * files.go, part of goreport.
 *
 * Copyright 2026 the goreport authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package report

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

//Compression formats, chosen from the file extension.
const (
	plainFormat = iota
	zstdFormat
	gzipFormat
	s2Format
)

func formatFromName(name string) int {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		return zstdFormat
	case ".gz":
		return gzipFormat
	case ".s2":
		return s2Format
	default:
		return plainFormat
	}
}

//readCloser reads from a decompressor and closes it, and the file under it,
//on Close.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

//Open opens the file at path for reading. Files ending in .zst or .zstd are read
//through a z-standard decoder, .gz through gzip and .s2 through s2. Anything else
//is read as is. The caller must Close the returned reader.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	buffered := bufio.NewReader(f)
	switch formatFromName(path) {
	case zstdFormat:
		d, err := zstd.NewReader(buffered)
		if err != nil {
			f.Close()
			return nil, err
		}
		//*zstd.Decoder's Close returns nothing.
		return &readCloser{d, []func() error{func() error { d.Close(); return nil }, f.Close}}, nil
	case gzipFormat:
		g, err := gzip.NewReader(buffered)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{g, []func() error{g.Close, f.Close}}, nil
	case s2Format:
		return &readCloser{s2.NewReader(buffered), []func() error{f.Close}}, nil
	default:
		return &readCloser{buffered, []func() error{f.Close}}, nil
	}
}

//writeCloser flushes and closes the compressor, then the file.
type writeCloser struct {
	io.Writer
	closers []func() error
}

func (w *writeCloser) Close() error {
	var err error
	for _, c := range w.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

//Create creates (or truncates) the file at path for writing, compressing the
//content according to the extension, as in Open. The caller must Close the
//returned writer, or the compressed stream will be incomplete.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch formatFromName(path) {
	case zstdFormat:
		z, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, err
		}
		return &writeCloser{z, []func() error{z.Close, f.Close}}, nil
	case gzipFormat:
		g, err := gzip.NewWriterLevel(f, gzip.BestCompression)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &writeCloser{g, []func() error{g.Close, f.Close}}, nil
	case s2Format:
		s := s2.NewWriter(f)
		return &writeCloser{s, []func() error{s.Close, f.Close}}, nil
	default:
		b := bufio.NewWriter(f)
		return &writeCloser{b, []func() error{b.Flush, f.Close}}, nil
	}
}
