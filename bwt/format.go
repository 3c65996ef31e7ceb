// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bwt

import (
	"encoding/binary"
	"math"

	"github.com/dsnet/blocksort/internal/errors"
)

// HeaderSize is the length of the first row index that precedes the last
// column in the serialized form.
const HeaderSize = 4

// Encode returns the serialized transform of block: the first row index as a
// 4-byte big-endian integer followed by the last column.
func Encode(block []byte) ([]byte, error) {
	if uint64(len(block)) > math.MaxUint32 {
		return nil, errorf(errors.Invalid, "block size %d exceeds %d", len(block), uint64(math.MaxUint32))
	}
	first, last, err := Transform(block)
	if err != nil {
		return nil, err
	}
	out := make([]byte, HeaderSize+len(last))
	binary.BigEndian.PutUint32(out, uint32(first))
	copy(out[HeaderSize:], last)
	return out, nil
}

// Decode inverts Encode. The block length is implied by the length of data.
func Decode(data []byte) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, errorf(errors.Invalid, "truncated header: got %d bytes, want %d", len(data), HeaderSize)
	}
	first := binary.BigEndian.Uint32(data)
	last := data[HeaderSize:]
	if uint64(first) >= uint64(len(last)) {
		if len(last) == 0 {
			return nil, errorf(errors.Invalid, "empty last column")
		}
		return nil, errorf(errors.Invalid, "first row index %d out of range [0, %d)", first, len(last))
	}
	return InverseTransform(int(first), last)
}
