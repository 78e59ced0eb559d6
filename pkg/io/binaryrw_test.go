package io

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mocks io.Writer that fails on write.
type badRW struct{}

func (w *badRW) Write(p []byte) (int, error) {
	return 0, errors.New("it always fails")
}

func (w *badRW) Read(p []byte) (int, error) {
	return w.Write(p)
}

func TestWriteVarUint1(t *testing.T) {
	var (
		val = uint64(1)
	)
	bw := NewBufBinWriter()
	bw.WriteVarUint(val)
	require.NoError(t, bw.Err)
	buf := bw.Bytes()
	assert.Equal(t, 1, len(buf))
	br := NewBinReaderFromBuf(buf)
	res := br.ReadVarUint()
	require.NoError(t, br.Err)
	assert.Equal(t, val, res)
}

func TestWriteVarUintBoundaries(t *testing.T) {
	testCases := []struct {
		val uint64
		len int
	}{
		{0xfc, 1},
		{0xfd, 3},
		{1000, 3},
		{0xffff, 5},
		{100000, 5},
		{0xffffffff, 9},
		{1000000000000, 9},
	}
	for _, tc := range testCases {
		bw := NewBufBinWriter()
		bw.WriteVarUint(tc.val)
		require.NoError(t, bw.Err)
		buf := bw.Bytes()
		require.Equal(t, tc.len, len(buf), "value %d", tc.val)
		br := NewBinReaderFromBuf(buf)
		require.Equal(t, tc.val, br.ReadVarUint())
		require.NoError(t, br.Err)
	}
}

func TestWriteBytes(t *testing.T) {
	var (
		bin = []byte{0xde, 0xad, 0xbe, 0xef}
	)
	bw := NewBufBinWriter()
	bw.WriteBytes(bin)
	require.NoError(t, bw.Err)
	buf := bw.Bytes()
	assert.Equal(t, 4, len(buf))
	assert.Equal(t, byte(0xde), buf[0])

	bw = NewBufBinWriter()
	bw.Err = errors.New("smth bad")
	bw.WriteBytes(bin)
	assert.Equal(t, 0, bw.Len())
}

func TestWriterErrHandling(t *testing.T) {
	var badio = &badRW{}
	bw := NewBinWriterFromIO(badio)
	bw.WriteB(0x12)
	assert.NotNil(t, bw.Err)
	// these should work (without panic), preserving the Err
	bw.WriteVarUint(0)
	bw.WriteVarBytes([]byte{0x55, 0xaa})
	bw.WriteBytes([]byte{0x55, 0xaa})
	assert.NotNil(t, bw.Err)
}

func TestReaderErrHandling(t *testing.T) {
	br := NewBinReaderFromBuf([]byte{})
	br.ReadB()
	assert.NotNil(t, br.Err)
	// these should work (without panic), preserving the Err
	assert.Equal(t, uint64(0), br.ReadVarUint())
	assert.Nil(t, br.ReadVarBytes())
	assert.NotNil(t, br.Err)
}

func TestReaderFromIO(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBinWriterFromIO(&buf)
	bw.WriteVarBytes([]byte{0xde, 0xad})
	bw.WriteB(0x42)
	require.NoError(t, bw.Err)

	br := NewBinReaderFromIO(&buf)
	require.Equal(t, []byte{0xde, 0xad}, br.ReadVarBytes())
	require.Equal(t, byte(0x42), br.ReadB())
	require.NoError(t, br.Err)

	br = NewBinReaderFromIO(&badRW{})
	br.ReadB()
	require.Error(t, br.Err)
}

func TestBufBinWriter_Len(t *testing.T) {
	val := []byte{0xde}
	bw := NewBufBinWriter()
	bw.WriteBytes(val)
	require.Equal(t, 1, bw.Len())
}

func TestBufBinWriterDrained(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteB(1)
	require.Equal(t, []byte{1}, bw.Bytes())
	require.Nil(t, bw.Bytes())
	require.ErrorIs(t, bw.Err, ErrDrained)

	bw.Reset()
	bw.WriteB(2)
	require.Equal(t, []byte{2}, bw.Bytes())
}

func TestWriteVarBytes(t *testing.T) {
	var (
		bin = []byte{0xde, 0xad, 0xbe, 0xef}
	)
	bw := NewBufBinWriter()
	bw.WriteVarBytes(bin)
	require.NoError(t, bw.Err)
	buf := bw.Bytes()
	assert.Equal(t, 5, len(buf))
	br := NewBinReaderFromBuf(buf)
	res := br.ReadVarBytes()
	require.NoError(t, br.Err)
	assert.Equal(t, bin, res)
}

func TestReadVarBytesTooBig(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteVarBytes(make([]byte, 10))
	br := NewBinReaderFromBuf(bw.Bytes())
	require.Nil(t, br.ReadVarBytes(5))
	require.ErrorIs(t, br.Err, ErrTooBig)
}

func TestReadTruncated(t *testing.T) {
	br := NewBinReaderFromBuf([]byte{0x05, 0x01, 0x02})
	br.ReadVarBytes()
	require.Error(t, br.Err)
}
