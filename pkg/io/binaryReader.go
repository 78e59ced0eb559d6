package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxArraySize is the maximum size of an array which can be decoded.
// It is taken from https://github.com/neo-project/neo/blob/master/neo/IO/Helper.cs#L130
const MaxArraySize = 0x1000000

// ErrTooBig is returned when the encoded length exceeds the allowed maximum.
var ErrTooBig = errors.New("byte-slice is too big")

// BinReader is a convenient wrapper around an io.Reader and err object.
// Used to simplify error handling when reading into a struct with many fields.
type BinReader struct {
	r   io.Reader
	uv  [8]byte
	Err error
}

// NewBinReaderFromIO makes a BinReader from io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf makes a BinReader from a byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	r := bytes.NewReader(b)
	return NewBinReaderFromIO(r)
}

// ReadB reads a byte from the underlying io.Reader. On read failures it
// returns zero.
func (r *BinReader) ReadB() byte {
	r.ReadBytes(r.uv[:1])
	if r.Err != nil {
		return 0
	}
	return r.uv[0]
}

// ReadVarUint reads a variable-length-encoded integer from the
// underlying reader.
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}

	var b = r.ReadB()

	if b == 0xfd {
		r.ReadBytes(r.uv[:2])
		if r.Err != nil {
			return 0
		}
		return uint64(binary.LittleEndian.Uint16(r.uv[:2]))
	}
	if b == 0xfe {
		r.ReadBytes(r.uv[:4])
		if r.Err != nil {
			return 0
		}
		return uint64(binary.LittleEndian.Uint32(r.uv[:4]))
	}
	if b == 0xff {
		r.ReadBytes(r.uv[:8])
		if r.Err != nil {
			return 0
		}
		return binary.LittleEndian.Uint64(r.uv[:8])
	}

	return uint64(b)
}

// ReadVarBytes reads the next set of bytes from the underlying reader.
// ReadVarUInt() is used to determine how large that slice is.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	ms := MaxArraySize
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	if n > uint64(ms) {
		r.Err = fmt.Errorf("%w: %d > %d", ErrTooBig, n, ms)
		return nil
	}
	if r.Err != nil {
		return nil
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	return b
}

// ReadBytes copies a fixed-size buffer from the reader to the provided slice.
func (r *BinReader) ReadBytes(buf []byte) {
	if r.Err != nil {
		return
	}

	_, r.Err = io.ReadFull(r.r, buf)
}
