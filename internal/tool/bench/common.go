// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench measures how block-sorting affects downstream entropy coders
// with respect to encode speed, decode speed, and ratio.
//
// Every registered codec can be benchmarked as is, or with its input first
// passed through the BWT and MTF stages by prefixing its name with "bs+".
package bench

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/dsnet/blocksort/block"
	"github.com/dsnet/blocksort/internal/testutil"
	strconv "github.com/dsnet/golib/unitconv"
)

const (
	TestEncodeRate = iota
	TestDecodeRate
	TestCompressRatio
)

// PreprocessPrefix selects the block-sorted variant of a codec.
const PreprocessPrefix = "bs+"

type Encoder func(io.Writer, int) io.WriteCloser
type Decoder func(io.Reader) io.ReadCloser

type Codec struct {
	Encoder Encoder
	Decoder Decoder
}

// Codecs is the set of registered entropy coders keyed by name.
var Codecs map[string]Codec

func RegisterCodec(name string, enc Encoder, dec Decoder) {
	if Codecs == nil {
		Codecs = make(map[string]Codec)
	}
	Codecs[name] = Codec{Encoder: enc, Decoder: dec}
}

// CodecNames returns the names of all registered codecs in sorted order.
func CodecNames() []string {
	var ss []string
	for s := range Codecs {
		ss = append(ss, s)
	}
	sort.Strings(ss)
	return ss
}

// Lookup returns the codec with the given name. Names with PreprocessPrefix
// return the registered codec wrapped by Preprocessed.
func Lookup(name string) (Codec, bool) {
	if strings.HasPrefix(name, PreprocessPrefix) {
		c, ok := Codecs[strings.TrimPrefix(name, PreprocessPrefix)]
		if !ok {
			return Codec{}, false
		}
		return Preprocessed(c, nil), true
	}
	c, ok := Codecs[name]
	return c, ok
}

// Preprocessed wraps c such that data is block-sorted before it is encoded
// by c, and inverted after it is decoded by c.
func Preprocessed(c Codec, conf *block.WriterConfig) Codec {
	return Codec{
		Encoder: func(w io.Writer, lvl int) io.WriteCloser {
			ew := c.Encoder(w, lvl)
			zw, err := block.NewWriter(ew, conf)
			if err != nil {
				panic(err)
			}
			return &chainWriter{zw, ew}
		},
		Decoder: func(r io.Reader) io.ReadCloser {
			er := c.Decoder(r)
			zr, err := block.NewReader(er, nil)
			if err != nil {
				panic(err)
			}
			return &chainReader{zr, er}
		},
	}
}

type chainWriter struct {
	zw *block.Writer
	ew io.WriteCloser
}

func (w *chainWriter) Write(b []byte) (int, error) { return w.zw.Write(b) }
func (w *chainWriter) Close() error {
	err1 := w.zw.Close()
	err2 := w.ew.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

type chainReader struct {
	zr *block.Reader
	er io.ReadCloser
}

func (r *chainReader) Read(b []byte) (int, error) { return r.zr.Read(b) }
func (r *chainReader) Close() error {
	err1 := r.zr.Close()
	err2 := r.er.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// BenchmarkEncoder benchmarks a single encoder on the given input data using
// the selected compression level and reports the result.
func BenchmarkEncoder(input []byte, enc Encoder, lvl int) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if enc == nil {
			b.Fatalf("unexpected error: nil Encoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			wr := enc(ioutil.Discard, lvl)
			_, err := io.Copy(wr, bytes.NewReader(input))
			if err := wr.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(input)))
		}
	})
}

// BenchmarkDecoder benchmarks a single decoder on the given pre-compressed
// input data and reports the result.
func BenchmarkDecoder(input []byte, dec Decoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if dec == nil {
			b.Fatalf("unexpected error: nil Decoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			rd := dec(bufio.NewReader(bytes.NewReader(input)))
			cnt, err := io.Copy(ioutil.Discard, rd)
			if err := rd.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(cnt)
		}
	})
}

type Result struct {
	R float64 // Rate (MB/s) or ratio (rawSize/compSize)
	D float64 // Delta ratio relative to primary benchmark
}

// BenchmarkEncoderSuite runs multiple benchmarks across all encoder
// implementations, corpora, levels, and sizes.
//
// The values returned have the following structure:
//	results: [len(corpora)*len(levels)*len(sizes)][len(codecs)]Result
//	names:   [len(corpora)*len(levels)*len(sizes)]string
func BenchmarkEncoderSuite(codecs, corpora []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, corpora, levels, sizes, tick,
		func(input []byte, c Codec, lvl int) Result {
			result := BenchmarkEncoder(input, c.Encoder, lvl)
			return rate(result)
		})
}

// BenchmarkDecoderSuite runs multiple benchmarks across all decoder
// implementations, corpora, levels, and sizes. Since block-sorted streams
// can only be read by their own decoder, each codec decodes its own output.
func BenchmarkDecoderSuite(codecs, corpora []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, corpora, levels, sizes, tick,
		func(input []byte, c Codec, lvl int) Result {
			output, err := compress(input, c.Encoder, lvl)
			if err != nil {
				return Result{}
			}
			result := BenchmarkDecoder(output, c.Decoder)
			return rate(result)
		})
}

// BenchmarkRatioSuite computes the compression ratio across all encoder
// implementations, corpora, levels, and sizes.
func BenchmarkRatioSuite(codecs, corpora []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, corpora, levels, sizes, tick,
		func(input []byte, c Codec, lvl int) Result {
			output, err := compress(input, c.Encoder, lvl)
			if err != nil || len(output) == 0 {
				return Result{}
			}
			ratio := float64(len(input)) / float64(len(output))
			return Result{R: ratio}
		})
}

func rate(result testing.BenchmarkResult) Result {
	if result.N == 0 {
		return Result{}
	}
	us := (float64(result.T.Nanoseconds()) / 1e3) / float64(result.N)
	return Result{R: float64(result.Bytes) / us}
}

func compress(input []byte, enc Encoder, lvl int) ([]byte, error) {
	buf := new(bytes.Buffer)
	wr := enc(buf, lvl)
	if _, err := io.Copy(wr, bytes.NewReader(input)); err != nil {
		return nil, err
	}
	if err := wr.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type benchFunc func(input []byte, codec Codec, level int) Result

func benchmarkSuite(codecs, corpora []string, levels, sizes []int, tick func(), run benchFunc) ([][]Result, []string) {
	// Allocate buffers for the result.
	d0 := len(corpora) * len(levels) * len(sizes)
	d1 := len(codecs)
	results := make([][]Result, d0)
	for i := range results {
		results[i] = make([]Result, d1)
	}
	names := make([]string, d0)

	// Run the benchmark for every codec, corpus, level, and size.
	var i int
	for _, f := range corpora {
		gen := testutil.Corpora[f]
		for _, l := range levels {
			for _, n := range sizes {
				names[i] = getName(f, l, n)
				var b []byte
				if gen != nil {
					b = gen(n)
				}
				for j, name := range codecs {
					if tick != nil {
						tick()
					}
					if c, ok := Lookup(name); ok && b != nil {
						results[i][j] = run(b, c, l)
					}
					results[i][j].D = results[i][j].R / results[i][0].R
				}
				i++
			}
		}
	}
	return results, names
}

func getName(f string, l, n int) string {
	var sn string
	switch n {
	case 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9:
		s := fmt.Sprintf("%e", float64(n))
		re := regexp.MustCompile("\\.0*e\\+0*")
		sn = re.ReplaceAllString(s, "e")
	default:
		s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
		sn = strings.Replace(s, ".00", "", -1)
	}
	return fmt.Sprintf("%s:%d:%s", f, l, sn)
}

// PrintResults writes the results as a table with one column pair per codec.
func PrintResults(w io.Writer, results [][]Result, names, codecs []string, title, suffix string) {
	// Allocate result table.
	cells := make([][]string, 1+len(names))
	for i := range cells {
		cells[i] = make([]string, 1+2*len(codecs))
	}

	// Label the first row.
	cells[0][0] = "benchmark"
	for i, c := range codecs {
		cells[0][1+2*i] = c + " " + title
		cells[0][2+2*i] = "delta"
	}

	// Insert all rows.
	for j, row := range results {
		cells[1+j][0] = names[j]
		for i, r := range row {
			if r.R != 0 && !math.IsNaN(r.R) && !math.IsInf(r.R, 0) {
				cells[1+j][1+2*i] = fmt.Sprintf("%.2f", r.R) + suffix
			}
			if r.D != 0 && !math.IsNaN(r.D) && !math.IsInf(r.D, 0) {
				cells[1+j][2+2*i] = fmt.Sprintf("%.2f", r.D) + "x"
			}
		}
	}

	// Compute the maximum lengths.
	maxLens := make([]int, 1+2*len(codecs))
	for _, row := range cells {
		for i, s := range row {
			if maxLens[i] < len(s) {
				maxLens[i] = len(s)
			}
		}
	}

	// Print padded versions of all cells.
	for _, row := range cells {
		fmt.Fprint(w, "\t")
		for i, s := range row {
			switch {
			case i == 0: // Column 0
				row[i] = s + strings.Repeat(" ", maxLens[i]-len(s))
			case i%2 == 1: // Column 1, 3, 5, 7, ...
				row[i] = strings.Repeat(" ", 6+maxLens[i]-len(s)) + s
			case i%2 == 0: // Column 2, 4, 6, 8, ...
				row[i] = strings.Repeat(" ", 2+maxLens[i]-len(s)) + s
			}
			fmt.Fprint(w, row[i])
		}
		fmt.Fprintln(w)
	}
}
