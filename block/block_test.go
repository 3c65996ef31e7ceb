// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package block

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"io/ioutil"
	"testing"
	"testing/iotest"

	"github.com/dsnet/blocksort/bwt"
	"github.com/dsnet/blocksort/internal/errors"
	"github.com/dsnet/blocksort/internal/testutil"
	"github.com/dsnet/blocksort/mtf"
	"github.com/stretchr/testify/assert"
)

func encode(t *testing.T, input []byte, conf *WriterConfig) []byte {
	t.Helper()
	var bb bytes.Buffer
	zw, err := NewWriter(&bb, conf)
	if err != nil {
		t.Fatalf("unexpected NewWriter error: %v", err)
	}
	if _, err := io.Copy(zw, bytes.NewReader(input)); err != nil {
		t.Fatalf("unexpected Write error: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unexpected Close error: %v", err)
	}
	return bb.Bytes()
}

func decode(input []byte) ([]byte, error) {
	zr, err := NewReader(bytes.NewReader(input), nil)
	if err != nil {
		return nil, err
	}
	output, err := ioutil.ReadAll(zr)
	if err != nil {
		return output, err
	}
	return output, zr.Close()
}

func TestRoundTrip(t *testing.T) {
	var vectors = []struct {
		input []byte
		conf  *WriterConfig
	}{
		{input: nil},
		{input: []byte("X")},
		{input: []byte("ABRACADABRA!")},
		{input: testutil.Corpora["text"](100000)},
		{input: testutil.Corpora["text"](100000), conf: &WriterConfig{BlockSize: 1000}},
		{input: testutil.Corpora["random"](50000), conf: &WriterConfig{BlockSize: 4096, Concurrency: 4}},
		{input: testutil.Corpora["repeats"](50000), conf: &WriterConfig{BlockSize: 1, Concurrency: 3}},
		{input: testutil.Corpora["zeros"](20000), conf: &WriterConfig{BlockSize: 3000, Concurrency: 2}},
		{input: testutil.Corpora["digits"](65536), conf: &WriterConfig{BlockSize: 8192, Concurrency: 8}},
	}

	for i, v := range vectors {
		output, err := decode(encode(t, v.input, v.conf))
		if err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		if !bytes.Equal(output, v.input) {
			t.Errorf("test %d, output mismatch: got %d bytes, want %d bytes", i, len(output), len(v.input))
		}
	}
}

func TestConcurrency(t *testing.T) {
	// The output must not depend on how many blocks are transformed at once.
	input := testutil.Corpora["text"](200000)
	want := encode(t, input, &WriterConfig{BlockSize: 10000})
	for _, jobs := range []int{2, 3, 7, 32} {
		got := encode(t, input, &WriterConfig{BlockSize: 10000, Concurrency: jobs})
		if !bytes.Equal(got, want) {
			t.Errorf("concurrency %d, output mismatch", jobs)
		}
	}
}

func TestFormat(t *testing.T) {
	got := encode(t, []byte("ABRACADABRA!"), nil)

	input := []byte("ABRACADABRA!")
	first, last, _ := bwt.Transform(input)
	crc := crc32.ChecksumIEEE(input)
	var want []byte
	want = append(want, "BSRT"...)
	want = binary.BigEndian.AppendUint32(want, 12)
	want = binary.BigEndian.AppendUint32(want, crc)
	want = binary.BigEndian.AppendUint32(want, uint32(first))
	want = append(want, mtf.Encode(last)...)
	want = binary.BigEndian.AppendUint32(want, 0)
	want = binary.BigEndian.AppendUint32(want, crc)
	assert.Equal(t, want, got)

	// Empty streams have only the magic and trailer.
	assert.Equal(t, []byte("BSRT\x00\x00\x00\x00\x00\x00\x00\x00"), encode(t, nil, nil))
}

func TestStreamChecksum(t *testing.T) {
	input := testutil.Corpora["repeats"](30000)
	output := encode(t, input, &WriterConfig{BlockSize: 7000, Concurrency: 2})
	crc := binary.BigEndian.Uint32(output[len(output)-4:])
	assert.Equal(t, crc32.ChecksumIEEE(input), crc)
}

func TestCorrupted(t *testing.T) {
	valid := encode(t, testutil.Corpora["text"](5000), &WriterConfig{BlockSize: 2048})
	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte(nil), valid...))
	}

	var vectors = []struct {
		desc  string
		input []byte
		check func(error) bool
	}{{
		desc:  "bad magic",
		input: mutate(func(b []byte) []byte { b[0] = 'X'; return b }),
		check: errors.IsCorrupted,
	}, {
		desc:  "oversized block",
		input: mutate(func(b []byte) []byte { b[4] = 0xff; return b }),
		check: errors.IsCorrupted,
	}, {
		desc:  "block checksum",
		input: mutate(func(b []byte) []byte { b[20] ^= 0x01; return b }),
		check: errors.IsCorrupted,
	}, {
		desc:  "first row out of range",
		input: mutate(func(b []byte) []byte { binary.BigEndian.PutUint32(b[12:], 2048); return b }),
		check: errors.IsCorrupted,
	}, {
		desc:  "stream checksum",
		input: mutate(func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b }),
		check: errors.IsCorrupted,
	}, {
		desc:  "empty",
		input: nil,
		check: func(err error) bool { return err == io.ErrUnexpectedEOF },
	}, {
		desc:  "truncated frame",
		input: valid[:100],
		check: func(err error) bool { return err == io.ErrUnexpectedEOF },
	}, {
		desc:  "truncated trailer",
		input: valid[:len(valid)-2],
		check: func(err error) bool { return err == io.ErrUnexpectedEOF },
	}, {
		desc:  "trailing data",
		input: append(append([]byte(nil), valid...), "GARBAGE"...),
		check: errors.IsCorrupted,
	}, {
		desc:  "concatenated streams",
		input: append(append([]byte(nil), valid...), valid...),
		check: errors.IsCorrupted,
	}}

	for _, v := range vectors {
		_, err := decode(v.input)
		if !v.check(err) {
			t.Errorf("%s, unexpected error: %v", v.desc, err)
		}
	}
}

func TestReader(t *testing.T) {
	input := testutil.Corpora["digits"](10000)
	output := encode(t, input, &WriterConfig{BlockSize: 999})

	zr, _ := NewReader(iotest.OneByteReader(bytes.NewReader(output)), nil)
	got, err := ioutil.ReadAll(iotest.HalfReader(zr))
	assert.Nil(t, err)
	assert.Equal(t, input, got)
	assert.Equal(t, int64(len(output)), zr.InputOffset)
	assert.Equal(t, int64(len(input)), zr.OutputOffset)
	assert.Equal(t, int64(11), zr.NumBlocks)

	assert.Nil(t, zr.Close())
	_, err = zr.Read(make([]byte, 1))
	assert.True(t, errors.IsClosed(err), "got %v, want closed handler", err)

	// Reset allows the Reader to be reused.
	zr.Reset(bytes.NewReader(output))
	got, err = ioutil.ReadAll(zr)
	assert.Nil(t, err)
	assert.Equal(t, input, got)

	// Persistent errors are reported by Close.
	zr.Reset(bytes.NewReader(output[:50]))
	_, err = ioutil.ReadAll(zr)
	assert.Equal(t, io.ErrUnexpectedEOF, err)
	assert.Equal(t, io.ErrUnexpectedEOF, zr.Close())

	// Data past the trailer is an error rather than being ignored.
	zr.Reset(bytes.NewReader(append(append([]byte(nil), output...), 0)))
	got, err = ioutil.ReadAll(zr)
	assert.True(t, errors.IsCorrupted(err), "got %v, want corrupted input", err)
	assert.Equal(t, input, got)
	assert.Equal(t, int64(len(output)+1), zr.InputOffset)
	assert.True(t, errors.IsCorrupted(zr.Close()))
}

func TestWriter(t *testing.T) {
	var vectors = []struct {
		conf *WriterConfig
		ok   bool
	}{
		{conf: nil, ok: true},
		{conf: &WriterConfig{}, ok: true},
		{conf: &WriterConfig{BlockSize: MaxBlockSize}, ok: true},
		{conf: &WriterConfig{BlockSize: MaxBlockSize + 1}},
		{conf: &WriterConfig{BlockSize: -1}},
		{conf: &WriterConfig{Concurrency: -2}},
	}
	for i, v := range vectors {
		_, err := NewWriter(ioutil.Discard, v.conf)
		if v.ok && err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
		}
		if !v.ok && !errors.IsInvalid(err) {
			t.Errorf("test %d, mismatching error: got %v, want invalid argument", i, err)
		}
	}

	var bb bytes.Buffer
	zw, _ := NewWriter(&bb, &WriterConfig{BlockSize: 100})
	n, err := zw.Write(make([]byte, 250))
	assert.Equal(t, 250, n)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), zw.NumBlocks)
	assert.Nil(t, zw.Close())
	assert.Equal(t, int64(3), zw.NumBlocks)
	assert.Equal(t, int64(250), zw.InputOffset)
	assert.Equal(t, int64(bb.Len()), zw.OutputOffset)
	assert.Nil(t, zw.Close(), "second Close must succeed")
	_, err = zw.Write([]byte{0})
	assert.True(t, errors.IsClosed(err), "got %v, want closed handler", err)

	// Errors from the underlying writer persist.
	bw := &testutil.BuggyWriter{W: ioutil.Discard, N: 10, Err: io.ErrClosedPipe}
	zw.Reset(bw)
	zw.Write(make([]byte, 1000))
	assert.Equal(t, io.ErrClosedPipe, zw.Close())
}

func BenchmarkWriter(b *testing.B) {
	input := testutil.Corpora["text"](1 << 18)
	for _, jobs := range []int{1, 4} {
		b.Run(fmt.Sprintf("Concurrency:%d", jobs), func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			for i := 0; i < b.N; i++ {
				zw, _ := NewWriter(ioutil.Discard, &WriterConfig{BlockSize: 1 << 16, Concurrency: jobs})
				zw.Write(input)
				zw.Close()
			}
		})
	}
}
