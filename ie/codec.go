package ie

import (
	"encoding/binary"
	"fmt"
)

// Cursor is an incremental big-endian-bit-order octet reader/writer over a
// single information-element payload. RR, MM, GCC and the sysinfo decoder
// all build their messages by appending/decoding through a Cursor instead of
// hand-rolling index arithmetic, threading a running slice through
// Append*/Decode* pairs.
type Cursor struct {
	buf []byte
}

// NewCursor wraps an existing payload for decoding.
func NewCursor(b []byte) *Cursor { return &Cursor{buf: b} }

// NewEncoder starts an empty payload for encoding.
func NewEncoder() *Cursor { return &Cursor{} }

// Bytes returns the cursor's current payload (encoded so far, or remaining
// to decode).
func (c *Cursor) Bytes() []byte { return c.buf }

// Len reports the number of unread/unwritten bytes.
func (c *Cursor) Len() int { return len(c.buf) }

// ErrShortRead is returned by Decode* helpers when the cursor is exhausted.
var ErrShortRead = fmt.Errorf("ie: short read")

// AppendByte appends a single octet.
func (c *Cursor) AppendByte(b byte) *Cursor {
	c.buf = append(c.buf, b)
	return c
}

// AppendBytes appends a run of octets.
func (c *Cursor) AppendBytes(b ...byte) *Cursor {
	c.buf = append(c.buf, b...)
	return c
}

// DecodeByte pops and returns the next octet.
func (c *Cursor) DecodeByte() (byte, error) {
	if len(c.buf) < 1 {
		return 0, ErrShortRead
	}
	v := c.buf[0]
	c.buf = c.buf[1:]
	return v, nil
}

// DecodeBytes pops and returns the next n octets.
func (c *Cursor) DecodeBytes(n int) ([]byte, error) {
	if len(c.buf) < n {
		return nil, ErrShortRead
	}
	v := c.buf[:n]
	c.buf = c.buf[n:]
	return v, nil
}

// AppendUint16BE appends a big-endian 16-bit value (used for LAC, MCC/MNC
// coded fields, reference numbers).
func (c *Cursor) AppendUint16BE(v uint16) *Cursor {
	c.buf = append(c.buf, byte(v>>8), byte(v))
	return c
}

// DecodeUint16BE pops a big-endian 16-bit value.
func (c *Cursor) DecodeUint16BE() (uint16, error) {
	b, err := c.DecodeBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// AppendUint32BE appends a big-endian 32-bit value (callref, TMSI, Kc
// sequence material).
func (c *Cursor) AppendUint32BE(v uint32) *Cursor {
	c.buf = append(c.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	return c
}

// DecodeUint32BE pops a big-endian 32-bit value.
func (c *Cursor) DecodeUint32BE() (uint32, error) {
	b, err := c.DecodeBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// AppendLV appends a length octet followed by the value (a
// tag-less LV information element, the common shape for
// variable-length 04.08 IEs carried inside this core).
func (c *Cursor) AppendLV(v []byte) *Cursor {
	c.buf = append(c.buf, byte(len(v)))
	c.buf = append(c.buf, v...)
	return c
}

// DecodeLV pops a length-prefixed value.
func (c *Cursor) DecodeLV() ([]byte, error) {
	n, err := c.DecodeByte()
	if err != nil {
		return nil, err
	}
	return c.DecodeBytes(int(n))
}
