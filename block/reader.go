// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package block

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/dsnet/blocksort/bwt"
	"github.com/dsnet/blocksort/internal/errors"
	"github.com/dsnet/blocksort/mtf"
)

type ReaderConfig struct {
	_ struct{} // Blank field to prevent unkeyed struct literals
}

// A Reader is an io.ReadCloser that inverts the output of a Writer.
type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read
	NumBlocks    int64 // Number of blocks decoded

	rd      io.Reader
	mtf     mtf.Codec
	hdr     [frameHeaderSize]byte
	data    []byte // Scratch space for the encoded block
	last    []byte // Scratch space for the BWT last column
	buf     []byte // Decoded data not yet emitted by Read
	crc     uint32 // Combined CRC-32 of all blocks decoded so far
	readHdr bool
	err     error
}

// NewReader returns a new Reader reading from r. If conf is nil, then the
// default configuration is used.
func NewReader(r io.Reader, conf *ReaderConfig) (*Reader, error) {
	zr := new(Reader)
	zr.Reset(r)
	return zr, nil
}

// Reset discards the Reader's state and makes it equivalent to the result
// of a call to NewReader, but reading from r instead.
func (zr *Reader) Reset(r io.Reader) error {
	*zr = Reader{
		rd:   r,
		data: zr.data,
		last: zr.last,
	}
	return nil
}

func (zr *Reader) Read(buf []byte) (int, error) {
	for {
		if len(zr.buf) > 0 {
			cnt := copy(buf, zr.buf)
			zr.buf = zr.buf[cnt:]
			zr.OutputOffset += int64(cnt)
			return cnt, nil
		}
		if zr.err != nil {
			return 0, zr.err
		}
		zr.err = zr.decodeBlock()
	}
}

// Close ends the Reader. It reports any error encountered other than io.EOF.
// It does not close the underlying io.Reader.
func (zr *Reader) Close() error {
	if zr.err == errClosed || zr.err == io.EOF {
		zr.err = errClosed
		return nil
	}
	err := zr.err // Return the persistent error
	zr.err = errClosed
	return err
}

// decodeBlock reads the next frame and places its raw data into zr.buf.
// It returns io.EOF once the stream trailer has been verified and the
// underlying reader is exhausted.
func (zr *Reader) decodeBlock() (err error) {
	defer errors.Recover(&err)

	if !zr.readHdr {
		zr.readFull(zr.hdr[:len(magic)])
		if string(zr.hdr[:len(magic)]) != magic {
			panicf(errors.Corrupted, "invalid stream magic")
		}
		zr.readHdr = true
	}

	zr.readFull(zr.hdr[:4])
	size := binary.BigEndian.Uint32(zr.hdr[:4])
	if size == 0 {
		zr.readFull(zr.hdr[4:trailerSize])
		if crc := binary.BigEndian.Uint32(zr.hdr[4:]); crc != zr.crc {
			panicf(errors.Corrupted, "mismatching stream checksum: got 0x%08x, want 0x%08x", zr.crc, crc)
		}

		// The stream ends at the trailer.
		var b [1]byte
		n, err := io.ReadFull(zr.rd, b[:])
		zr.InputOffset += int64(n)
		if n > 0 {
			panicf(errors.Corrupted, "trailing data after stream")
		}
		if err != io.EOF {
			errors.Panic(err)
		}
		return io.EOF
	}
	if size > MaxBlockSize {
		panicf(errors.Corrupted, "block size %d exceeds %d", size, MaxBlockSize)
	}
	zr.readFull(zr.hdr[4:frameHeaderSize])
	var hdr frameHeader
	hdr.unmarshal(zr.hdr[:])

	if cap(zr.data) < int(size) {
		zr.data = make([]byte, size)
	}
	data := zr.data[:size]
	zr.readFull(data)

	zr.mtf.Reset()
	zr.last = zr.mtf.DecodeBytes(zr.last[:0], data)
	if hdr.first >= size {
		panicf(errors.Corrupted, "first row index %d out of range [0, %d)", hdr.first, size)
	}
	raw, err := bwt.InverseTransform(int(hdr.first), zr.last)
	if err != nil {
		errors.Panic(errWrap(err, errors.Corrupted))
	}
	if crc := crc32.ChecksumIEEE(raw); crc != hdr.crc {
		panicf(errors.Corrupted, "mismatching block checksum: got 0x%08x, want 0x%08x", crc, hdr.crc)
	}

	zr.crc = combineCRC(zr.crc, hdr.crc, int64(size))
	zr.buf = raw
	zr.NumBlocks++
	return nil
}

// readFull fills b from the underlying reader, treating any early end of
// input as io.ErrUnexpectedEOF.
func (zr *Reader) readFull(b []byte) {
	n, err := io.ReadFull(zr.rd, b)
	zr.InputOffset += int64(n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		errors.Panic(err)
	}
}
