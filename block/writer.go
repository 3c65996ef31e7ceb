// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package block

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"sync"

	"github.com/dsnet/blocksort/bwt"
	"github.com/dsnet/blocksort/internal/errors"
	"github.com/dsnet/blocksort/mtf"
)

type WriterConfig struct {
	// BlockSize is the length of each raw block, within [1, MaxBlockSize].
	// If zero, DefaultBlockSize is used.
	//
	// Highly repetitive data, such as a long run of one byte, is sorted in
	// time quadratic in BlockSize. See DefaultBlockSize.
	BlockSize int

	// Concurrency is the number of blocks transformed in parallel.
	// The output is identical regardless of this setting. If zero, 1 is used.
	Concurrency int

	_ struct{} // Blank field to prevent unkeyed struct literals
}

// A Writer is an io.WriteCloser that block-sorts everything written to it.
type Writer struct {
	InputOffset  int64 // Total number of bytes issued to Write
	OutputOffset int64 // Total number of bytes written to underlying io.Writer
	NumBlocks    int64 // Number of blocks written

	wr      io.Writer
	blkSize int
	jobs    int

	buf      []byte  // Pending raw data, up to jobs blocks
	frames   []frame // Scratch space for a batch of encoded blocks
	crc      uint32  // Combined CRC-32 of all raw data written so far
	wroteHdr bool
	err      error
}

// frame is a single encoded block.
type frame struct {
	data []byte // Frame header followed by the MTF of the last column
	size int
	crc  uint32
	err  error
}

// NewWriter returns a new Writer writing to w. If conf is nil, then the
// default configuration is used.
func NewWriter(w io.Writer, conf *WriterConfig) (*Writer, error) {
	var blkSize, jobs int
	if conf != nil {
		blkSize, jobs = conf.BlockSize, conf.Concurrency
	}
	if blkSize == 0 {
		blkSize = DefaultBlockSize
	}
	if jobs == 0 {
		jobs = 1
	}
	if blkSize < 1 || blkSize > MaxBlockSize {
		return nil, errorf(errors.Invalid, "block size %d out of range [1, %d]", blkSize, MaxBlockSize)
	}
	if jobs < 1 {
		return nil, errorf(errors.Invalid, "invalid concurrency: %d", jobs)
	}

	zw := &Writer{blkSize: blkSize, jobs: jobs}
	zw.Reset(w)
	return zw, nil
}

// Reset discards the Writer's state and makes it equivalent to the result
// of a call to NewWriter, but writing to w instead. The configuration is kept.
func (zw *Writer) Reset(w io.Writer) error {
	*zw = Writer{
		wr:      w,
		blkSize: zw.blkSize,
		jobs:    zw.jobs,
		buf:     zw.buf[:0],
		frames:  zw.frames,
	}
	return nil
}

func (zw *Writer) Write(buf []byte) (int, error) {
	if zw.err != nil {
		return 0, zw.err
	}
	if zw.buf == nil {
		zw.buf = make([]byte, 0, zw.blkSize*zw.jobs)
	}

	var wrCnt int
	for len(buf) > 0 {
		n := copy(zw.buf[len(zw.buf):cap(zw.buf)], buf)
		zw.buf = zw.buf[:len(zw.buf)+n]
		buf = buf[n:]
		wrCnt += n
		if len(zw.buf) == cap(zw.buf) {
			if zw.err = zw.flush(); zw.err != nil {
				break
			}
		}
	}
	zw.InputOffset += int64(wrCnt)
	return wrCnt, zw.err
}

// Close writes any pending blocks and the stream trailer.
// It does not close the underlying io.Writer.
func (zw *Writer) Close() error {
	if zw.err == errClosed {
		return nil
	}
	if zw.err != nil {
		return zw.err
	}
	if zw.err = zw.flush(); zw.err != nil {
		return zw.err
	}

	var b [trailerSize]byte
	binary.BigEndian.PutUint32(b[4:], zw.crc)
	if zw.err = zw.write(b[:]); zw.err != nil {
		return zw.err
	}
	zw.err = errClosed
	return nil
}

// flush encodes and writes all pending data.
func (zw *Writer) flush() error {
	if !zw.wroteHdr {
		if err := zw.write([]byte(magic)); err != nil {
			return err
		}
		zw.wroteHdr = true
	}

	// Split the pending data into blocks.
	zw.frames = zw.frames[:0]
	for b := zw.buf; len(b) > 0; {
		n := len(b)
		if n > zw.blkSize {
			n = zw.blkSize
		}
		zw.frames = append(zw.frames, frame{data: b[:n]})
		b = b[n:]
	}

	// Each block gets fresh working buffers, so blocks may be transformed
	// concurrently without sharing state.
	if len(zw.frames) == 1 || zw.jobs == 1 {
		for i := range zw.frames {
			zw.frames[i].encode()
		}
	} else {
		var wg sync.WaitGroup
		for i := range zw.frames {
			wg.Add(1)
			go func(f *frame) {
				defer wg.Done()
				f.encode()
			}(&zw.frames[i])
		}
		wg.Wait()
	}

	for i := range zw.frames {
		f := &zw.frames[i]
		if f.err != nil {
			return errWrap(f.err, errors.Internal)
		}
		if err := zw.write(f.data); err != nil {
			return err
		}
		zw.crc = combineCRC(zw.crc, f.crc, int64(f.size))
		zw.NumBlocks++
		f.data = nil
	}
	zw.buf = zw.buf[:0]
	return nil
}

func (zw *Writer) write(b []byte) error {
	n, err := zw.wr.Write(b)
	zw.OutputOffset += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	return err
}

// encode replaces the raw block in f.data with its encoded frame.
func (f *frame) encode() {
	raw := f.data
	f.size = len(raw)
	f.crc = crc32.ChecksumIEEE(raw)

	first, last, err := bwt.Transform(raw)
	if err != nil {
		f.err = err
		return
	}
	hdr := frameHeader{size: uint32(f.size), crc: f.crc, first: uint32(first)}
	out := make([]byte, frameHeaderSize, frameHeaderSize+len(last))
	hdr.marshal(out)
	f.data = mtf.New().EncodeBytes(out, last)
}
