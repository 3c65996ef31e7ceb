// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package mtf

import "io"

// Writer move-to-front encodes all bytes written to it.
// The stream has no header; its length is that of the input.
type Writer struct {
	OutputOffset int64 // Total number of bytes written to underlying io.Writer

	wr  io.Writer
	mtf Codec
	buf [4096]byte
	err error
}

// NewWriter creates a new Writer encoding into w.
func NewWriter(w io.Writer) *Writer {
	mw := new(Writer)
	mw.Reset(w)
	return mw
}

// Reset discards the Writer's state and makes it equivalent to the result
// of a call to NewWriter, but writing to w instead.
func (mw *Writer) Reset(w io.Writer) {
	*mw = Writer{wr: w}
	mw.mtf.Reset()
}

func (mw *Writer) Write(buf []byte) (int, error) {
	var wrCnt int
	for len(buf) > 0 && mw.err == nil {
		chunk := buf
		if len(chunk) > len(mw.buf) {
			chunk = chunk[:len(mw.buf)]
		}
		out := mw.mtf.EncodeBytes(mw.buf[:0], chunk)
		var n int
		n, mw.err = mw.wr.Write(out)
		mw.OutputOffset += int64(n)
		if n < len(out) && mw.err == nil {
			mw.err = io.ErrShortWrite
		}
		wrCnt += n
		buf = buf[len(chunk):]
	}
	return wrCnt, mw.err
}

// Reader move-to-front decodes all bytes read from the underlying io.Reader.
type Reader struct {
	InputOffset int64 // Total number of bytes read from underlying io.Reader

	rd  io.Reader
	mtf Codec
}

// NewReader creates a new Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	mr := new(Reader)
	mr.Reset(r)
	return mr
}

// Reset discards the Reader's state and makes it equivalent to the result
// of a call to NewReader, but reading from r instead.
func (mr *Reader) Reset(r io.Reader) {
	*mr = Reader{rd: r}
	mr.mtf.Reset()
}

func (mr *Reader) Read(buf []byte) (int, error) {
	n, err := mr.rd.Read(buf)
	mr.InputOffset += int64(n)
	for i, idx := range buf[:n] {
		buf[i] = mr.mtf.Decode(idx)
	}
	return n, err
}
