// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package mtf implements the move-to-front transform.
//
// Each byte is replaced by its current rank in a recency list of all 256 byte
// values, and is then promoted to rank zero. Runs of a repeated byte become
// runs of zeros. The list starts out as the identity ordering.
//
// For example, encoding "AAB" produces the indexes {65, 0, 66}.
//
// The transform is inherently sequential: every symbol depends on the state
// left behind by all symbols before it.
package mtf

import "github.com/dsnet/blocksort/internal"

// Codec holds the recency list shared by the encoder and decoder.
// The zero value is not ready for use; call Reset or use New.
type Codec struct {
	dict [internal.AlphabetSize]uint8
}

// New returns a Codec in the identity state.
func New() *Codec {
	c := new(Codec)
	c.Reset()
	return c
}

// Reset restores the identity ordering.
func (c *Codec) Reset() {
	c.dict = internal.IdentityLUT
}

// Encode returns the current rank of val and moves val to the front.
func (c *Codec) Encode(val byte) (idx uint8) {
	// Reverse lookup idx in dict.
	for di, dv := range c.dict {
		if dv == val {
			idx = uint8(di)
			break
		}
	}
	copy(c.dict[1:], c.dict[:idx])
	c.dict[0] = val
	return idx
}

// Decode returns the value at rank idx and moves it to the front.
func (c *Codec) Decode(idx uint8) (val byte) {
	val = c.dict[idx] // Forward lookup val in dict
	copy(c.dict[1:], c.dict[:idx])
	c.dict[0] = val
	return val
}

// EncodeBytes appends the encoding of vals to dst and returns the result.
func (c *Codec) EncodeBytes(dst, vals []byte) []byte {
	for _, val := range vals {
		dst = append(dst, c.Encode(val))
	}
	return dst
}

// DecodeBytes appends the decoding of idxs to dst and returns the result.
func (c *Codec) DecodeBytes(dst, idxs []byte) []byte {
	for _, idx := range idxs {
		dst = append(dst, c.Decode(idx))
	}
	return dst
}

// Encode returns the move-to-front encoding of vals using a fresh state.
func Encode(vals []byte) []byte {
	return New().EncodeBytes(make([]byte, 0, len(vals)), vals)
}

// Decode returns the move-to-front decoding of idxs using a fresh state.
func Decode(idxs []byte) []byte {
	return New().DecodeBytes(make([]byte, 0, len(idxs)), idxs)
}
