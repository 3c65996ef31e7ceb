// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package internal is a collection of common block-sorting helpers.
//
// For performance reasons, these packages lack strong error checking and
// require that the caller to ensure that strict invariants are kept.
package internal

// AlphabetSize is the number of distinct symbols in a block.
const AlphabetSize = 256

// IdentityLUT returns the input key itself.
var IdentityLUT [AlphabetSize]byte

func init() {
	for i := range IdentityLUT {
		IdentityLUT[i] = uint8(i)
	}
}

// Histogram counts the number of occurrences of each byte value in buf.
func Histogram(buf []byte) (cnts [AlphabetSize]int) {
	for _, b := range buf {
		cnts[b]++
	}
	return cnts
}

// Cumulate converts a histogram in place into starting offsets, such that
// cnts[b] is the total number of bytes strictly less than b.
func Cumulate(cnts *[AlphabetSize]int) {
	var sum int
	for i, v := range cnts {
		cnts[i] = sum
		sum += v
	}
}
