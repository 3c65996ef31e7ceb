// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Benchmark tool to compare entropy coders with and without the block-sorting
// stage in front of them. Individual implementations are referred to as codecs.
//
// Example usage:
//	$ go build -o bsbench .
//	$ ./bsbench \
//		-tests   ratio,encRate    \
//		-codecs  huff,bs+huff,xz  \
//		-corpora text,repeats     \
//		-levels  6                \
//		-sizes   1e4,1e5,1e6
//
// Each test prints a table with one row per corpus, level, and size, and one
// column pair per codec. The delta column is relative to the first codec.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dsnet/blocksort/internal/testutil"
	"github.com/dsnet/blocksort/internal/tool/bench"
	strconv "github.com/dsnet/golib/unitconv"
)

const (
	defaultLevels = "6"
	defaultSizes  = "1e4,1e5,1e6"
)

var (
	testToEnum = map[string]int{
		"encRate": bench.TestEncodeRate,
		"decRate": bench.TestDecodeRate,
		"ratio":   bench.TestCompressRatio,
	}
	enumToTest = map[int]string{
		bench.TestEncodeRate:    "encRate",
		bench.TestDecodeRate:    "decRate",
		bench.TestCompressRatio: "ratio",
	}
)

func defaultTests() string {
	var d []int
	for k := range enumToTest {
		d = append(d, k)
	}
	sort.Ints(d)
	var s []string
	for _, v := range d {
		s = append(s, enumToTest[v])
	}
	return strings.Join(s, ",")
}

// slowCorpora are excluded by default since a long run of one byte is the
// worst case for sorting, and block-sorting 1e6 zeros takes over half an hour.
var slowCorpora = map[string]bool{"zeros": true}

func defaultCorpora() string {
	var s []string
	for _, c := range testutil.CorpusNames() {
		if !slowCorpora[c] {
			s = append(s, c)
		}
	}
	return strings.Join(s, ",")
}

// defaultCodecs pairs every codec with its block-sorted variant.
func defaultCodecs() string {
	var s []string
	for _, c := range bench.CodecNames() {
		s = append(s, c, bench.PreprocessPrefix+c)
	}
	return strings.Join(s, ",")
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("bsbench: ")

	// Setup flag arguments.
	f0 := flag.String("tests", defaultTests(), "List of different benchmark tests")
	f1 := flag.String("codecs", defaultCodecs(), "List of codecs to benchmark")
	f2 := flag.String("corpora", defaultCorpora(), "List of input corpora to benchmark (zeros is slow)")
	f3 := flag.String("levels", defaultLevels, "List of compression levels to benchmark")
	f4 := flag.String("sizes", defaultSizes, "List of input sizes to benchmark")
	flag.Parse()

	// Parse the flag arguments.
	var sep = regexp.MustCompile("[,:]")
	var codecs, corpora []string
	var tests, levels, sizes []int
	corpora = sep.Split(*f2, -1)
	for _, s := range sep.Split(*f0, -1) {
		if _, ok := testToEnum[s]; !ok {
			log.Fatalf("invalid test: %q", s)
		}
		tests = append(tests, testToEnum[s])
	}
	for _, s := range strings.Split(*f1, ",") {
		if _, ok := bench.Lookup(s); !ok {
			log.Fatalf("unknown codec: %q", s)
		}
		codecs = append(codecs, s)
	}
	for _, s := range corpora {
		if _, ok := testutil.Corpora[s]; !ok {
			log.Fatalf("unknown corpus: %q", s)
		}
	}
	for _, s := range sep.Split(*f3, -1) {
		lvl, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			log.Fatalf("invalid level: %q", s)
		}
		levels = append(levels, int(lvl))
	}
	for _, s := range sep.Split(*f4, -1) {
		nf, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil || nf < 1 {
			log.Fatalf("invalid size: %q", s)
		}
		sizes = append(sizes, int(nf))
	}

	ts := time.Now()
	runBenchmarks(codecs, corpora, tests, levels, sizes)
	te := time.Now()
	fmt.Printf("RUNTIME: %v\n", te.Sub(ts))
}

func runBenchmarks(codecs, corpora []string, tests, levels, sizes []int) {
	for _, t := range tests {
		var results [][]bench.Result
		var names []string
		var title, suffix string

		fmt.Printf("BENCHMARK: %s\n", enumToTest[t])

		// Progress ticker.
		var cnt int
		tick := func() {
			total := len(codecs) * len(corpora) * len(levels) * len(sizes)
			pct := 100.0 * float64(cnt) / float64(total)
			fmt.Fprintf(os.Stderr, "\t[%6.2f%%] %d of %d\r", pct, cnt, total)
			cnt++
		}

		// Perform the bench. This may take some time.
		switch t {
		case bench.TestEncodeRate:
			title, suffix = "MB/s", ""
			results, names = bench.BenchmarkEncoderSuite(codecs, corpora, levels, sizes, tick)
		case bench.TestDecodeRate:
			title, suffix = "MB/s", ""
			results, names = bench.BenchmarkDecoderSuite(codecs, corpora, levels, sizes, tick)
		case bench.TestCompressRatio:
			title, suffix = "ratio", "x"
			results, names = bench.BenchmarkRatioSuite(codecs, corpora, levels, sizes, tick)
		default:
			panic("unknown test")
		}

		// Print all of the results.
		bench.PrintResults(os.Stdout, results, names, codecs, title, suffix)
		fmt.Println()
	}
}
