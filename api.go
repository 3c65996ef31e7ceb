// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package blocksort is a collection of the reversible transforms that form the
// preprocessing stage of a block-sorting compressor.
//
// The suffix, bwt, and mtf packages operate on complete, memory-resident
// blocks of raw bytes. The block package frames a byte stream into such blocks.
// None of the packages perform entropy coding.
package blocksort

import "github.com/dsnet/blocksort/internal/errors"

// Error is the wrapper type for errors specific to this library.
type Error interface {
	error
	BlockSortError()

	// IsInvalid reports whether the API was misused, such as supplying an
	// empty block or an out-of-range first row index.
	IsInvalid() bool

	// IsCorrupted reports whether the input stream was corrupted.
	IsCorrupted() bool
}

var _ Error = errors.Error{}
