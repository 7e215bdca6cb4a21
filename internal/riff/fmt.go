package riff

import (
	"fmt"

	"github.com/go-adm/bwf/internal/bytecodec"
	"github.com/go-adm/bwf/internal/sample"
)

const (
	formatPCM        uint16 = 0x0001
	formatIEEEFloat  uint16 = 0x0003
	formatExtensible uint16 = 0xFFFE
)

type fmtChunk struct {
	sample.SoundFormat
	formatCode uint16
	blockAlign uint16
}

func newFmtChunk(*Context) Chunk { return &fmtChunk{} }

func (c *fmtChunk) Dispose() Disposition { return Load }

func (c *fmtChunk) ProcessRead(ctx *Context, body []byte) error {
	var off int
	var err error
	var bitsPerSample uint16

	if c.formatCode, off, err = bytecodec.ReadU16LE(body, off); err != nil {
		return err
	}
	if c.Channels, off, err = bytecodec.ReadU16LE(body, off); err != nil {
		return err
	}
	if c.SampleRate, off, err = bytecodec.ReadU32LE(body, off); err != nil {
		return err
	}
	off += 4 // avg bytes/sec, derivable, not retained
	if c.blockAlign, off, err = bytecodec.ReadU16LE(body, off); err != nil {
		return err
	}
	if bitsPerSample, off, err = bytecodec.ReadU16LE(body, off); err != nil {
		return err
	}
	c.BitsPerSample = bitsPerSample
	c.BigEndian = false // fmt always stores little-endian samples (spec §4.3)

	if c.formatCode == formatExtensible && off+2 <= len(body) {
		var extSize uint16
		if extSize, off, err = bytecodec.ReadU16LE(body, off); err == nil && extSize >= 22 && off+int(extSize) <= len(body) {
			var validBits uint16
			if validBits, off, err = bytecodec.ReadU16LE(body, off); err == nil && validBits != 0 {
				c.BitsPerSample = validBits
			}
			off += 4 // channel mask
			var subFormat uint16
			if subFormat, _, err = bytecodec.ReadU16LE(body, off); err == nil {
				c.formatCode = subFormat
			}
		}
	}

	sf, err := sampleFormatOf(c.formatCode, c.BitsPerSample)
	if err != nil {
		return err
	}
	c.Format = sf
	ctx.engine.format = &c.SoundFormat
	return nil
}

func sampleFormatOf(formatCode uint16, bits uint16) (bytecodec.SampleFormat, error) {
	switch {
	case formatCode == formatPCM && bits == 16:
		return bytecodec.PCM16, nil
	case formatCode == formatPCM && bits == 24:
		return bytecodec.PCM24, nil
	case formatCode == formatPCM && bits == 32:
		return bytecodec.PCM32, nil
	case formatCode == formatIEEEFloat && bits == 32:
		return bytecodec.Float32, nil
	case formatCode == formatIEEEFloat && bits == 64:
		return bytecodec.Float64, nil
	default:
		return 0, fmt.Errorf("riff: unsupported fmt chunk (code=0x%04x, bits=%d)", formatCode, bits)
	}
}

// CreateWriteData emits a plain WAVEFORMAT (16-byte) body; extensible
// formats are only ever produced by a source file this engine does not
// itself author (spec §4.3, "When writing, chooses 24-bit PCM for any
// integer format other than explicit 16-bit, 32-bit for float...").
func (c *fmtChunk) CreateWriteData(*Context) ([]byte, error) {
	body := make([]byte, 16)
	formatCode := formatPCM
	if c.Format == bytecodec.Float32 || c.Format == bytecodec.Float64 {
		formatCode = formatIEEEFloat
	}
	bitsPerSample := uint16(c.Format.BytesPerSample() * 8)
	blockAlign := c.Channels * bitsPerSample / 8
	byteRate := c.SampleRate * uint32(blockAlign)

	off := bytecodec.PutU16LE(body, 0, formatCode)
	off = bytecodec.PutU16LE(body, off, c.Channels)
	off = bytecodec.PutU32LE(body, off, c.SampleRate)
	off = bytecodec.PutU32LE(body, off, byteRate)
	off = bytecodec.PutU16LE(body, off, blockAlign)
	bytecodec.PutU16LE(body, off, bitsPerSample)
	return body, nil
}

// WriteFormatFor derives the on-write sample width per spec §4.3's policy:
// 24-bit PCM for any non-16-bit integer format, 32-bit for float, 64-bit
// for double.
func WriteFormatFor(sf bytecodec.SampleFormat) bytecodec.SampleFormat {
	switch sf {
	case bytecodec.PCM16, bytecodec.Float32, bytecodec.Float64:
		return sf
	default:
		return bytecodec.PCM24
	}
}
