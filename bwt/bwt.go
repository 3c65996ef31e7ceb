// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bwt implements the Burrows-Wheeler transform and its inverse.
//
// The transform of a block is the last column of the table of all rotations of
// the block sorted in lexicographical order, together with the row in which the
// original block ends up. Sorting clusters bytes that precede similar
// contexts, which makes the output more amenable to later entropy coding.
//
// References:
//	http://www.hpl.hp.com/techreports/Compaq-DEC/SRC-RR-124.pdf
//	https://www.quora.com/How-can-I-optimize-burrows-wheeler-transform-and-inverse-transform-to-work-in-O-n-time-O-n-space
package bwt

import (
	"fmt"

	"github.com/dsnet/blocksort/internal"
	"github.com/dsnet/blocksort/internal/errors"
	"github.com/dsnet/blocksort/suffix"
)

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "bwt", Msg: fmt.Sprintf(f, a...)}
}

// Transform computes the Burrows-Wheeler transform of block.
//
// It returns the position of the unrotated block within the sorted rotations,
// and the last column of the sorted rotations. The input is not modified.
// An empty block is invalid.
func Transform(block []byte) (first int, last []byte, err error) {
	if len(block) == 0 {
		return 0, nil, errorf(errors.Invalid, "empty block")
	}
	order, err := suffix.Sort(block)
	if err != nil {
		return 0, nil, err
	}

	n := len(block)
	last = make([]byte, n)
	for k, i := range order {
		if i == 0 {
			first = k
			i = n
		}
		last[k] = block[i-1]
	}
	return first, last, nil
}

// InverseTransform recovers the block from the index of its first row and the
// last column of its sorted rotations, in O(n) time. The input is not modified.
func InverseTransform(first int, last []byte) ([]byte, error) {
	n := len(last)
	if n == 0 {
		return nil, errorf(errors.Invalid, "empty last column")
	}
	if first < 0 || first >= n {
		return nil, errorf(errors.Invalid, "first row index %d out of range [0, %d)", first, n)
	}

	// Step 1: Compute cumm, where cumm[ch] reports the total number of
	// characters that precede the character ch in the alphabet.
	cumm := internal.Histogram(last)
	internal.Cumulate(&cumm)

	// Step 2: Stably bucket the positions of last by their byte value.
	// The k-th occurrence of ch in the sorted first column corresponds to the
	// k-th occurrence of ch in the last column, so next[i] is the row whose
	// rotation starts one position after the rotation in row i.
	// The first column itself is last permuted by next.
	next := make([]int, n)
	sorted := make([]byte, n)
	for i, b := range last {
		next[cumm[b]] = i
		sorted[cumm[b]] = b
		cumm[b]++
	}

	// Step 3: Walk the cycle from the first row.
	block := make([]byte, n)
	cur := first
	for i := range block {
		block[i] = sorted[cur]
		cur = next[cur]
	}
	return block, nil
}
