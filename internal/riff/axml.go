package riff

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
)

// axmlChunk carries the raw ADM XML payload. Byte-order-mark sniffing and
// UTF-16->UTF-8 transcoding happen here since BWF files are occasionally
// authored with a UTF-16 axml payload (spec §4.3 names this chunk "loads
// as UTF-8 text", but real-world files disagree about the encoding).
type axmlChunk struct {
	XML []byte
}

func newAxmlChunk(*Context) Chunk { return &axmlChunk{} }

func (c *axmlChunk) Dispose() Disposition { return Load }

func (c *axmlChunk) ProcessRead(_ *Context, body []byte) error {
	decoded, err := decodeXMLBytes(body)
	if err != nil {
		return err
	}
	c.XML = decoded
	return nil
}

func (c *axmlChunk) CreateWriteData(*Context) ([]byte, error) {
	return c.XML, nil
}

// decodeXMLBytes strips a UTF-8 BOM verbatim and transcodes a UTF-16
// (LE or BE) payload to UTF-8; anything else passes through unchanged.
func decodeXMLBytes(body []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}):
		return body[3:], nil
	case bytes.HasPrefix(body, []byte{0xFF, 0xFE}) || bytes.HasPrefix(body, []byte{0xFE, 0xFF}):
		decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		return decoder.Bytes(body)
	default:
		return body, nil
	}
}
