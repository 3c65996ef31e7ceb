// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command blocksort applies a block-sorting transform to standard input and
// writes the result to standard output.
//
// Usage:
//	blocksort [-t bwt|mtf|block] [-b size] [-j jobs] (-|+)
//
// The final argument selects the direction: "-" applies the forward transform
// and "+" applies the inverse. The transforms are:
//
//	bwt:   Burrows-Wheeler transform of the entire input as a single block,
//	       preceded by the 4-byte big-endian first row index.
//	mtf:   move-to-front encoding of the input.
//	block: framed BWT followed by MTF, split into blocks of the given size.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"math"
	"os"

	"github.com/dsnet/blocksort/block"
	"github.com/dsnet/blocksort/bwt"
	"github.com/dsnet/blocksort/mtf"
	strconv "github.com/dsnet/golib/unitconv"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("blocksort: ")

	bw := bufio.NewWriter(os.Stdout)
	if err := run(os.Args[1:], bufio.NewReader(os.Stdin), bw); err != nil {
		log.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, r io.Reader, w io.Writer) error {
	fs := flag.NewFlagSet("blocksort", flag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	typ := fs.String("t", "bwt", "Transform to apply: bwt, mtf, or block")
	size := fs.String("b", "9e5", "Block size used by the block transform")
	jobs := fs.Int("j", 1, "Number of blocks transformed concurrently")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("no direction (- or +) specified")
	}
	var forward bool
	switch fs.Arg(0) {
	case "-":
		forward = true
	case "+":
		forward = false
	default:
		return fmt.Errorf("invalid direction %q: only - or + is allowed", fs.Arg(0))
	}

	switch *typ {
	case "bwt":
		in, err := ioutil.ReadAll(r)
		if err != nil {
			return err
		}
		var out []byte
		if forward {
			out, err = bwt.Encode(in)
		} else {
			out, err = bwt.Decode(in)
		}
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "mtf":
		if forward {
			_, err := io.Copy(mtf.NewWriter(w), r)
			return err
		}
		_, err := io.Copy(w, mtf.NewReader(r))
		return err
	case "block":
		if forward {
			nf, err := strconv.ParsePrefix(*size, strconv.AutoParse)
			if err != nil {
				return fmt.Errorf("invalid block size %q: %v", *size, err)
			}
			if nf < 1 || nf > block.MaxBlockSize || nf != math.Trunc(nf) {
				return fmt.Errorf("invalid block size %q: must be an integer within [1, %d]", *size, block.MaxBlockSize)
			}
			zw, err := block.NewWriter(w, &block.WriterConfig{BlockSize: int(nf), Concurrency: *jobs})
			if err != nil {
				return err
			}
			if _, err := io.Copy(zw, r); err != nil {
				return err
			}
			return zw.Close()
		}
		zr, err := block.NewReader(r, nil)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, zr); err != nil {
			return err
		}
		return zr.Close()
	default:
		return fmt.Errorf("unknown transform %q", *typ)
	}
}
