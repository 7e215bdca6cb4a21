package bytecodec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SampleFormat identifies the on-disk representation of one audio sample.
type SampleFormat int

// Supported sample formats, per spec §4.1.
const (
	PCM16 SampleFormat = iota
	PCM24
	PCM32
	Float32
	Float64
)

// BytesPerSample returns the storage width in bytes of one sample in f.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case PCM16:
		return 2
	case PCM24:
		return 3
	case PCM32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

func (f SampleFormat) String() string {
	switch f {
	case PCM16:
		return "PCM16"
	case PCM24:
		return "PCM24"
	case PCM32:
		return "PCM32"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	default:
		return fmt.Sprintf("SampleFormat(%d)", int(f))
	}
}

// Buffer describes one side of a sample transfer: the backing byte slice,
// its sample format and endianness, and the channel window/stride to use.
type Buffer struct {
	Data         []byte
	Format       SampleFormat
	BigEndian    bool
	FirstChannel int // channel offset into the interleaved frame
	Stride       int // total channel count of the interleaved frame (frame stride in samples)
}

// frameBytes returns the number of bytes occupied by one interleaved frame.
func (b Buffer) frameBytes() int {
	return b.Stride * b.Format.BytesPerSample()
}

// TransferSamples copies nframes frames of nchan channels from src to dst,
// converting sample format, endianness, channel offset and stride on each
// side in a single pass. It is value-preserving across integer widths
// (sign-extend on widen, saturate on narrow) and scales to/from floats in
// [-1.0, 1.0).
func TransferSamples(dst, src Buffer, nchan, nframes int) error {
	sBytes := src.Format.BytesPerSample()
	dBytes := dst.Format.BytesPerSample()
	if sBytes == 0 || dBytes == 0 {
		return fmt.Errorf("bytecodec: unsupported sample format")
	}

	sFrame := src.frameBytes()
	dFrame := dst.frameBytes()

	needSrc := nframes * sFrame
	needDst := nframes * dFrame
	if needSrc > len(src.Data) || needDst > len(dst.Data) {
		return ErrOutOfBounds
	}

	for frame := 0; frame < nframes; frame++ {
		sBase := frame * sFrame
		dBase := frame * dFrame
		for ch := 0; ch < nchan; ch++ {
			sOff := sBase + (src.FirstChannel+ch)*sBytes
			dOff := dBase + (dst.FirstChannel+ch)*dBytes

			v := decodeSample(src.Data[sOff:sOff+sBytes], src.Format, src.BigEndian)
			encodeSample(dst.Data[dOff:dOff+dBytes], v, dst.Format, dst.BigEndian)
		}
	}
	return nil
}

// decodeSample reads one sample, normalized to a signed 64-bit value scaled
// so that full-scale corresponds to +/- (1<<62), which gives enough headroom
// to widen/narrow and convert to/from float without intermediate overflow.
const normShift = 62

func decodeSample(raw []byte, format SampleFormat, bigEndian bool) int64 {
	switch format {
	case PCM16:
		u := order(bigEndian).Uint16(raw)
		return int64(int16(u)) << (normShift - 15)
	case PCM24:
		var u uint32
		if bigEndian {
			u = uint32(raw[0])<<16 | uint32(raw[1])<<8 | uint32(raw[2])
		} else {
			u = uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16
		}
		// sign-extend 24 -> 32
		if u&0x800000 != 0 {
			u |= 0xFF000000
		}
		return int64(int32(u)) << (normShift - 23)
	case PCM32:
		u := order(bigEndian).Uint32(raw)
		return int64(int32(u)) << (normShift - 31)
	case Float32:
		u := order(bigEndian).Uint32(raw)
		f := math.Float32frombits(u)
		return floatToNorm(float64(f))
	case Float64:
		u := order(bigEndian).Uint64(raw)
		f := math.Float64frombits(u)
		return floatToNorm(f)
	default:
		return 0
	}
}

func encodeSample(dst []byte, v int64, format SampleFormat, bigEndian bool) {
	switch format {
	case PCM16:
		s := saturate(v>>(normShift-15), -1<<15, 1<<15-1)
		order(bigEndian).PutUint16(dst, uint16(int16(s)))
	case PCM24:
		s := saturate(v>>(normShift-23), -1<<23, 1<<23-1)
		u := uint32(int32(s)) & 0xFFFFFF
		if bigEndian {
			dst[0] = byte(u >> 16)
			dst[1] = byte(u >> 8)
			dst[2] = byte(u)
		} else {
			dst[0] = byte(u)
			dst[1] = byte(u >> 8)
			dst[2] = byte(u >> 16)
		}
	case PCM32:
		s := saturate(v>>(normShift-31), -1<<31, 1<<31-1)
		order(bigEndian).PutUint32(dst, uint32(int32(s)))
	case Float32:
		f := float32(normToFloat(v))
		order(bigEndian).PutUint32(dst, math.Float32bits(f))
	case Float64:
		f := normToFloat(v)
		order(bigEndian).PutUint64(dst, math.Float64bits(f))
	}
}

func floatToNorm(f float64) int64 {
	if f >= 1.0 {
		f = 1.0 - 1.0/float64(int64(1)<<normShift)
	}
	if f < -1.0 {
		f = -1.0
	}
	return int64(f * float64(int64(1)<<normShift))
}

func normToFloat(v int64) float64 {
	return float64(v) / float64(int64(1)<<normShift)
}

// ScaleSample multiplies the single sample in buf (format/bigEndian) by
// gain in-place, routing through the same normalized intermediate as
// TransferSamples so widen/narrow rounding stays consistent.
func ScaleSample(buf []byte, format SampleFormat, bigEndian bool, gain float64) {
	v := decodeSample(buf, format, bigEndian)
	scaled := int64(float64(v) * gain)
	encodeSample(buf, scaled, format, bigEndian)
}

func saturate(v int64, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func order(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
