// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"io"
	"io/ioutil"
)

// The raw codec performs no entropy coding. Combined with the block-sorting
// stage as "bs+raw", it measures the preprocessing stage on its own.
func init() {
	RegisterCodec("raw",
		func(w io.Writer, lvl int) io.WriteCloser {
			return nopWriteCloser{w}
		},
		func(r io.Reader) io.ReadCloser {
			return ioutil.NopCloser(r)
		})
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
