// Package bytecodec provides endian-aware packed integer decoding and
// sample-format conversion/interleave used by the RIFF chunk engine and
// the sample stream.
package bytecodec

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrOutOfBounds is returned when a read would run past the end of the
// supplied buffer.
var ErrOutOfBounds = errors.New("bytecodec: read out of bounds")

// ReadU16LE reads a little-endian uint16 at offset, returning the value and
// the offset immediately following it.
func ReadU16LE(data []byte, offset int) (uint16, int, error) {
	if offset < 0 || offset+2 > len(data) {
		return 0, offset, ErrOutOfBounds
	}
	return binary.LittleEndian.Uint16(data[offset:]), offset + 2, nil
}

// ReadU16BE is the big-endian counterpart of ReadU16LE.
func ReadU16BE(data []byte, offset int) (uint16, int, error) {
	if offset < 0 || offset+2 > len(data) {
		return 0, offset, ErrOutOfBounds
	}
	return binary.BigEndian.Uint16(data[offset:]), offset + 2, nil
}

// ReadU32LE reads a little-endian uint32 at offset.
func ReadU32LE(data []byte, offset int) (uint32, int, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, offset, ErrOutOfBounds
	}
	return binary.LittleEndian.Uint32(data[offset:]), offset + 4, nil
}

// ReadU32BE is the big-endian counterpart of ReadU32LE.
func ReadU32BE(data []byte, offset int) (uint32, int, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, offset, ErrOutOfBounds
	}
	return binary.BigEndian.Uint32(data[offset:]), offset + 4, nil
}

// ReadU64LE reads a little-endian uint64 at offset.
func ReadU64LE(data []byte, offset int) (uint64, int, error) {
	if offset < 0 || offset+8 > len(data) {
		return 0, offset, ErrOutOfBounds
	}
	return binary.LittleEndian.Uint64(data[offset:]), offset + 8, nil
}

// ReadU64BE is the big-endian counterpart of ReadU64LE.
func ReadU64BE(data []byte, offset int) (uint64, int, error) {
	if offset < 0 || offset+8 > len(data) {
		return 0, offset, ErrOutOfBounds
	}
	return binary.BigEndian.Uint64(data[offset:]), offset + 8, nil
}

// ReadF64LE reads a little-endian IEEE-754 double at offset.
func ReadF64LE(data []byte, offset int) (float64, int, error) {
	bits, next, err := ReadU64LE(data, offset)
	if err != nil {
		return 0, offset, err
	}
	return math.Float64frombits(bits), next, nil
}

// ReadF64BE is the big-endian counterpart of ReadF64LE.
func ReadF64BE(data []byte, offset int) (float64, int, error) {
	bits, next, err := ReadU64BE(data, offset)
	if err != nil {
		return 0, offset, err
	}
	return math.Float64frombits(bits), next, nil
}

// PutU16LE writes a little-endian uint16 at offset and returns the next offset.
func PutU16LE(data []byte, offset int, v uint16) int {
	binary.LittleEndian.PutUint16(data[offset:], v)
	return offset + 2
}

// PutU32LE writes a little-endian uint32 at offset and returns the next offset.
func PutU32LE(data []byte, offset int, v uint32) int {
	binary.LittleEndian.PutUint32(data[offset:], v)
	return offset + 4
}

// PutU64LE writes a little-endian uint64 at offset and returns the next offset.
func PutU64LE(data []byte, offset int, v uint64) int {
	binary.LittleEndian.PutUint64(data[offset:], v)
	return offset + 8
}

// ReadFixedString reads a fixed-width byte field and trims it at the first
// NUL byte, matching the chna/bext fixed-length ASCII field convention.
func ReadFixedString(data []byte, offset, length int) (string, int, error) {
	if offset < 0 || offset+length > len(data) {
		return "", offset, ErrOutOfBounds
	}
	field := data[offset : offset+length]
	end := 0
	for end < len(field) && field[end] != 0 {
		end++
	}
	return string(field[:end]), offset + length, nil
}

// PutFixedString writes s into a fixed-width field, NUL-padding the remainder.
// It truncates s if it does not fit.
func PutFixedString(data []byte, offset, length int, s string) int {
	field := data[offset : offset+length]
	n := copy(field, s)
	for i := n; i < length; i++ {
		field[i] = 0
	}
	return offset + length
}
