// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bwt

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"strings"
	"testing"

	"github.com/dsnet/blocksort/internal/errors"
	"github.com/dsnet/blocksort/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func ss(s string) string {
	const limit = 256
	if len(s) > limit {
		return fmt.Sprintf("%q...", s[:limit])
	}
	return fmt.Sprintf("%q", s)
}

func TestBurrowsWheelerTransform(t *testing.T) {
	var vectors = []struct {
		input  string // The input test string
		output string // Expected output string after BWT (skip if empty)
		first  int    // The BWT origin pointer
	}{{
		input:  "ABRACADABRA!",
		output: "ARD!RCAAAABB",
		first:  3,
	}, {
		input:  "X",
		output: "X",
		first:  0,
	}, {
		input:  "AA",
		output: "AA",
		first:  0,
	}, {
		input:  "Hello, world!",
		output: ",do!lHrellwo ",
		first:  3,
	}, {
		input:  "SIX.MIXED.PIXIES.SIFT.SIXTY.PIXIE.DUST.BOXES",
		output: "TEXYDST.E.IXIXIXXSSMPPS.B..E.S.EUSFXDIIOIIIT",
		first:  29,
	}, {
		input:  "0123456789",
		output: "9012345678",
		first:  0,
	}, {
		input:  "9876543210",
		output: "1234567890",
		first:  9,
	}, {
		input:  "The quick brown fox jumped over the lazy dog.",
		output: "kynxederg.l ie hhpv otTu c uwd rfm eb qjoooza",
		first:  9,
	}, {
		input: strings.Repeat("Mary had a little lamb, its fleece was white as snow", 8) +
			"Nary had a little lamb, its fleece was white as snow",
		output: "dddddddddeeeeeeeeesssssssssyyyyyyyyy,,,,,,,,,eeeeeee" +
			"eeaaaaaaaaassssssssseeeeeeeeesssssssssbbbbbbbbbwwwww" +
			"wwww         hhhhhhhhhlllllllllNMMMMMMMM         www" +
			"wwwwwwmmmmmmmmmeeeeeeeeeaaaaaaaaatttttttttlllllllllc" +
			"cccccccceeeeeeeeelllllllll                  wwwwwwww" +
			"whhhhhhhhh         lllllllll         tttttttttffffff" +
			"fff         aaaaaaaaasssssssssnnnnnnnnnaaaaaaaaatttt" +
			"tttttaaaaaaaaaaaaaaaaaa         iiiiiiiiitttttttttii" +
			"iiiiiiiiiiiiiiiiooooooooo                  rrrrrrrrr",
		first: 99,
	}, {
		input:  "\x00\xff\x00\x80\x00",
		output: "\x80\xff\x00\x00\x00",
		first:  2,
	}}

	for i, v := range vectors {
		input := []byte(v.input)
		first, last, err := Transform(input)
		if err != nil {
			t.Errorf("test %d, unexpected Transform error: %v", i, err)
			continue
		}
		if string(input) != v.input {
			t.Errorf("test %d, input was mutated", i)
		}
		if string(last) != v.output {
			t.Errorf("test %d, output mismatch:\ngot  %v\nwant %v", i, ss(string(last)), ss(v.output))
		}
		if first != v.first {
			t.Errorf("test %d, pointer mismatch: got %d, want %d", i, first, v.first)
		}

		output, err := InverseTransform(first, last)
		if err != nil {
			t.Errorf("test %d, unexpected InverseTransform error: %v", i, err)
			continue
		}
		if string(output) != v.input {
			t.Errorf("test %d, input mismatch:\ngot  %v\nwant %v", i, ss(string(output)), ss(v.input))
		}
	}
}

func TestRoundTrip(t *testing.T) {
	var allBytes []byte
	for i := 0; i < 256; i++ {
		allBytes = append(allBytes, byte(i))
	}

	inputs := map[string][]byte{
		"alphabet":     allBytes,
		"alphabet-xor": testutil.ResizeData(allBytes, 4000),
		"periodic":     bytes.Repeat([]byte("ABAB\x00"), 200),
		"runs":         append(bytes.Repeat([]byte{0}, 500), bytes.Repeat([]byte{0xff}, 500)...),
	}
	for _, name := range testutil.CorpusNames() {
		for _, n := range []int{1, 2, 17, 1000, 10000} {
			inputs[fmt.Sprintf("%s:%d", name, n)] = testutil.Corpora[name](n)
		}
	}

	for name, input := range inputs {
		first, last, err := Transform(input)
		if err != nil {
			t.Errorf("%s, unexpected Transform error: %v", name, err)
			continue
		}
		if !testutil.SameMultiset(input, last) {
			t.Errorf("%s, last column is not a permutation of the input", name)
		}
		if first < 0 || first >= len(input) {
			t.Errorf("%s, first row index %d out of range", name, first)
		}
		output, err := InverseTransform(first, last)
		if err != nil {
			t.Errorf("%s, unexpected InverseTransform error: %v", name, err)
			continue
		}
		if !bytes.Equal(output, input) {
			t.Errorf("%s, round-trip mismatch:\ngot  %v\nwant %v", name, ss(string(output)), ss(string(input)))
		}
	}
}

func TestDeterministic(t *testing.T) {
	for _, name := range []string{"random", "text"} {
		input := testutil.Corpora[name](1 << 16)
		first, last, err := Transform(input)
		if !assert.Nil(t, err) {
			continue
		}
		first2, last2, _ := Transform(input)
		assert.Equal(t, first, first2, "%s, Transform is not deterministic", name)
		assert.Equal(t, md5.Sum(last), md5.Sum(last2), "%s, Transform is not deterministic", name)
	}
}

func TestInvalid(t *testing.T) {
	var vectors = []struct {
		first int
		last  []byte
	}{
		{0, nil},
		{0, []byte{}},
		{1, []byte("A")},
		{-1, []byte("AB")},
		{12, []byte("ARD!RCAAAABB")},
	}

	for i, v := range vectors {
		if _, err := InverseTransform(v.first, v.last); !errors.IsInvalid(err) {
			t.Errorf("test %d, mismatching error: got %v, want invalid argument", i, err)
		}
	}

	if _, _, err := Transform(nil); !errors.IsInvalid(err) {
		t.Errorf("mismatching error: got %v, want invalid argument", err)
	}
}

func TestFormat(t *testing.T) {
	out, err := Encode([]byte("ABRACADABRA!"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("\x00\x00\x00\x03ARD!RCAAAABB"), out)

	in, err := Decode(out)
	assert.Nil(t, err)
	assert.Equal(t, []byte("ABRACADABRA!"), in)

	var vectors = []struct {
		input string
	}{
		{""},
		{"\x00\x00\x00"},
		{"\x00\x00\x00\x00"},
		{"\x00\x00\x00\x01X"},
		{"\xff\xff\xff\xffXYZ"},
	}
	for i, v := range vectors {
		if _, err := Decode([]byte(v.input)); !errors.IsInvalid(err) {
			t.Errorf("test %d, mismatching error: got %v, want invalid argument", i, err)
		}
	}

	_, err = Encode(nil)
	assert.True(t, errors.IsInvalid(err))
}

func BenchmarkTransform(b *testing.B) {
	input := testutil.Corpora["text"](1 << 16)
	b.SetBytes(int64(len(input)))
	for i := 0; i < b.N; i++ {
		Transform(input)
	}
}

func BenchmarkInverseTransform(b *testing.B) {
	input := testutil.Corpora["text"](1 << 16)
	first, last, _ := Transform(input)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		InverseTransform(first, last)
	}
}
