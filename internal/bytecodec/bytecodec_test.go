package bytecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadU32LE(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	v, offset, err := ReadU32LE(data, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), v)
	assert.Equal(t, 4, offset)

	_, _, err = ReadU32LE(data, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestReadU32BE(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	v, offset, err := ReadU32BE(data, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v)
	assert.Equal(t, 4, offset)
}

func TestReadU64LE(t *testing.T) {
	data := make([]byte, 8)
	PutU64LE(data, 0, 0x0102030405060708)

	v, offset, err := ReadU64LE(data, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), v)
	assert.Equal(t, 8, offset)
}

func TestFixedString(t *testing.T) {
	data := make([]byte, 12)
	next := PutFixedString(data, 0, 12, "ATU_00000001")
	assert.Equal(t, 12, next)

	s, next, err := ReadFixedString(data, 0, 12)
	assert.NoError(t, err)
	assert.Equal(t, 12, next)
	assert.Equal(t, "ATU_00000001", s)

	data2 := make([]byte, 12)
	PutFixedString(data2, 0, 12, "short")
	s2, _, err := ReadFixedString(data2, 0, 12)
	assert.NoError(t, err)
	assert.Equal(t, "short", s2)
}

func TestFixedStringOutOfBounds(t *testing.T) {
	data := make([]byte, 4)
	_, _, err := ReadFixedString(data, 0, 12)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}
