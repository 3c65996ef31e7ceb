// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package suffix implements a circular suffix array.
//
// A circular suffix of a block is the rotation that starts at some offset and
// wraps around to the beginning after the last byte. The Array sorts all n
// rotations of a block in lexicographical order.
package suffix

// The sort is a three-way radix quicksort (also known as multikey quicksort)
// by Bentley and Sedgewick. Rotations are partitioned on the byte at some
// depth d into those less than, equal to, and greater than a pivot byte.
// Only the equal partition advances to depth d+1.
//
// Once d reaches n, every rotation in a partition has been compared in full,
// so they are all identical (which occurs for periodic blocks like "abab").
// A sentinel lower than any byte value is used at those depths so that the
// refinement stops; the relative order of identical rotations is arbitrary.
//
// The expected running time is O(n log n) for typical inputs. Highly
// repetitive blocks, such as a long run of a single byte, degrade to O(n^2)
// since each comparison must scan deep into the rotations before differing.
// Pending partitions are kept on an explicit stack rather than on the call
// stack, so the stack depth does not depend on the input.
//
// References:
//	https://www.cs.princeton.edu/~rs/strings/paper.pdf
//	https://algs4.cs.princeton.edu/51radix/Quick3string.java.html

import (
	"fmt"

	"github.com/dsnet/blocksort/internal/errors"
)

// Partitions smaller than this are finished with insertion sort.
const insertionCutoff = 15

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "suffix", Msg: fmt.Sprintf(f, a...)}
}

// Array is the sorted order of all circular suffixes of a block.
type Array struct {
	index []int
}

// New computes the circular suffix array of block.
// The block is not retained or modified. An empty block is invalid.
func New(block []byte) (*Array, error) {
	idx, err := Sort(block)
	if err != nil {
		return nil, err
	}
	return &Array{index: idx}, nil
}

// Len reports the number of suffixes, which equals the length of the block.
func (a *Array) Len() int { return len(a.index) }

// Index returns the offset in the block of the i-th smallest rotation.
// It panics with an invalid argument error if i is not within [0, Len()).
func (a *Array) Index(i int) int {
	if i < 0 || i >= len(a.index) {
		errors.Panic(errorf(errors.Invalid, "index %d out of range [0, %d)", i, len(a.index)))
	}
	return a.index[i]
}

// Order returns a copy of the entire suffix order.
func (a *Array) Order() []int {
	return append([]int(nil), a.index...)
}

// Sort returns the permutation of [0, len(block)) that orders the rotations of
// block from smallest to largest.
func Sort(block []byte) ([]int, error) {
	if len(block) == 0 {
		return nil, errorf(errors.Invalid, "empty block")
	}
	idx := make([]int, len(block))
	for i := range idx {
		idx[i] = i
	}
	s := sorter{block: block, index: idx}
	s.sort()
	return idx, nil
}

// span is a pending partition index[lo:hi] whose rotations share the first
// depth bytes.
type span struct {
	lo, hi, depth int
}

type sorter struct {
	block []byte
	index []int
	stack []span
}

// charAt returns the byte at depth d of the rotation starting at offset i,
// or -1 once the rotation has been fully consumed.
func (s *sorter) charAt(i, d int) int {
	n := len(s.block)
	if d >= n {
		return -1
	}
	if i += d; i >= n {
		i -= n
	}
	return int(s.block[i])
}

func (s *sorter) push(lo, hi, depth int) {
	if hi-lo > 1 {
		s.stack = append(s.stack, span{lo, hi, depth})
	}
}

func (s *sorter) sort() {
	s.push(0, len(s.index), 0)
	for len(s.stack) > 0 {
		sp := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		if sp.hi-sp.lo < insertionCutoff {
			s.insertionSort(sp.lo, sp.hi, sp.depth)
			continue
		}

		// Partition into [lo:lt] < v, [lt:gt] == v, [gt:hi] > v.
		idx := s.index
		v := s.charAt(idx[sp.lo], sp.depth)
		lt, gt := sp.lo, sp.hi
		for i := sp.lo + 1; i < gt; {
			switch c := s.charAt(idx[i], sp.depth); {
			case c < v:
				idx[lt], idx[i] = idx[i], idx[lt]
				lt++
				i++
			case c > v:
				gt--
				idx[gt], idx[i] = idx[i], idx[gt]
			default:
				i++
			}
		}

		s.push(sp.lo, lt, sp.depth)
		if v >= 0 {
			s.push(lt, gt, sp.depth+1)
		}
		s.push(gt, sp.hi, sp.depth)
	}
}

// insertionSort sorts index[lo:hi] assuming all rotations share the first d
// bytes.
func (s *sorter) insertionSort(lo, hi, d int) {
	idx := s.index
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && s.less(idx[j], idx[j-1], d); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

// less reports whether the rotation at offset i sorts strictly before the
// rotation at offset j, comparing from depth d.
func (s *sorter) less(i, j, d int) bool {
	n := len(s.block)
	if i += d; i >= n {
		i -= n
	}
	if j += d; j >= n {
		j -= n
	}
	for ; d < n; d++ {
		if bi, bj := s.block[i], s.block[j]; bi != bj {
			return bi < bj
		}
		if i++; i == n {
			i = 0
		}
		if j++; j == n {
			j = 0
		}
	}
	return false
}
