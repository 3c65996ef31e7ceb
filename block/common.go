// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package block implements a framed container for block-sorted data.
//
// A stream is split into blocks, each of which goes through the
// Burrows-Wheeler transform followed by the move-to-front transform.
// No entropy coding is performed; the output is meant to be fed into one.
//
// Stream format (all integers are big-endian):
//
//	magic:  "BSRT"
//	frames: zero or more of
//		size:  uint32  // Length of the raw block, within [1, MaxBlockSize]
//		crc:   uint32  // CRC-32 (IEEE) of the raw block
//		first: uint32  // BWT first row index
//		data:  [size]byte  // MTF of the BWT last column
//	end:    uint32 zero, then the uint32 CRC-32 of the entire raw stream
//
// Since each block has its own checksum, the stream checksum is computed by
// combining block checksums rather than by hashing the stream sequentially.
// This allows blocks to be transformed concurrently.
package block

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/dsnet/blocksort/internal/errors"
	hashutil "github.com/dsnet/golib/hashmerge"
)

const (
	magic = "BSRT"

	MaxBlockSize = 1 << 24

	// DefaultBlockSize matches the largest bzip2 block size.
	//
	// Sorting a block takes time quadratic in the length of its longest
	// repeated substring. A block made of one repeated byte at this size
	// takes on the order of half an hour to transform; use a smaller block
	// size for inputs with long runs of a single byte.
	DefaultBlockSize = 900000

	frameHeaderSize = 12
	trailerSize     = 8
)

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "block", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}

// errWrap converts a lower-level errors.Error to be one from this package.
// The replaceCode passed in will be used to replace the code for any errors
// with the errors.Invalid code.
//
// For the Reader, set this to errors.Corrupted.
// For the Writer, set this to errors.Internal.
func errWrap(err error, replaceCode int) error {
	if cerr, ok := err.(errors.Error); ok {
		if errors.IsInvalid(cerr) {
			cerr.Code = replaceCode
		}
		err = errorf(cerr.Code, "%s", cerr.Msg)
	}
	return err
}

var errClosed = errorf(errors.Closed, "")

// combineCRC returns the CRC-32 of the concatenation of two byte strings,
// where len2 is the length of the second string.
func combineCRC(crc1, crc2 uint32, len2 int64) uint32 {
	return hashutil.CombineCRC32(crc32.IEEE, crc1, crc2, len2)
}

type frameHeader struct {
	size  uint32
	crc   uint32
	first uint32
}

func (h *frameHeader) marshal(b []byte) {
	binary.BigEndian.PutUint32(b[0:], h.size)
	binary.BigEndian.PutUint32(b[4:], h.crc)
	binary.BigEndian.PutUint32(b[8:], h.first)
}

func (h *frameHeader) unmarshal(b []byte) {
	h.size = binary.BigEndian.Uint32(b[0:])
	h.crc = binary.BigEndian.Uint32(b[4:])
	h.first = binary.BigEndian.Uint32(b[8:])
}
