// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"sort"
	"strings"
)

// Corpus generates n bytes of deterministic test data.
type Corpus func(n int) []byte

// Corpora is the set of named synthetic inputs used by tests and benchmarks.
// Each one targets a different behavior of the block sorter:
//
//	zeros:   a single repeated symbol (worst case for suffix sorting)
//	random:  uniformly random bytes over the full alphabet
//	repeats: random data with frequent back-references
//	digits:  decimal digits with a skewed distribution
//	text:    English-like words separated by spaces and newlines
var Corpora = map[string]Corpus{
	"zeros":   Zeros,
	"random":  Random,
	"repeats": Repeats,
	"digits":  Digits,
	"text":    Text,
}

// CorpusNames returns the names of Corpora in sorted order.
func CorpusNames() []string {
	var ss []string
	for s := range Corpora {
		ss = append(ss, s)
	}
	sort.Strings(ss)
	return ss
}

func Zeros(n int) []byte { return make([]byte, n) }

func Random(n int) []byte { return NewRand(0).Bytes(n) }

// Repeats produces data where a large bulk is a copy from some distance ago.
func Repeats(n int) []byte {
	r := NewRand(1)
	randLen := func() int {
		switch p := r.Float32(); {
		case p <= 0.25:
			return 4 + r.Intn(4)
		case p <= 0.50:
			return 8 + r.Intn(8)
		case p <= 0.75:
			return 16 + r.Intn(48)
		default:
			return 64 + r.Intn(192)
		}
	}

	b := make([]byte, 0, n)
	for len(b) < n {
		l := randLen()
		if len(b) == 0 || r.Float32() <= 0.3 {
			b = append(b, r.Bytes(l)...)
			continue
		}
		d := 1 + r.Intn(len(b))
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}
	return b[:n]
}

func Digits(n int) []byte {
	r := NewRand(2)
	b := make([]byte, n)
	for i := range b {
		// Squaring skews towards lower digits.
		f := r.Float32()
		b[i] = '0' + byte(f*f*10)
	}
	return b
}

var words = strings.Fields(`
	the of and to a in that it is was he for on are as with his they at be
	this from have or by one had not but what all were when we there can an
	your which their said if do will each about how up out them then she many
	some so these would other into has more her two like him see time could
	no make than first been its who now people my made over did down only way
	find use may water long little very after words called just where most
	know block sorting transform rotation suffix array move front symbol`)

func Text(n int) []byte {
	r := NewRand(3)
	b := make([]byte, 0, n+16)
	for col := 0; len(b) < n; {
		w := words[r.Intn(len(words))]
		if col+len(w) > 72 {
			b = append(b, '\n')
			col = 0
		} else if col > 0 {
			b = append(b, ' ')
			col++
		}
		b = append(b, w...)
		col += len(w)
	}
	return b[:n]
}
