// SPDX-License-Identifier: EPL-2.0

// Package fields decodes fixed binary header layouts field by field in any
// of the byte modes, so struct padding never enters the picture.
package fields

import "github.com/ik5/sndf/byteorder"

// Cursor walks a header block.
type Cursor struct {
	b    []byte
	off  int
	mode byteorder.Mode
}

func New(b []byte, mode byteorder.Mode) *Cursor {
	return &Cursor{b: b, mode: mode}
}

// Long reads a 32-bit field.
func (c *Cursor) Long() int32 {
	v := byteorder.Uint32(c.b[c.off:], c.mode)
	c.off += 4

	return int32(v)
}

// Word reads a 16-bit field.
func (c *Cursor) Word() int16 {
	v := byteorder.Uint16(c.b[c.off:], c.mode)
	c.off += 2

	return int16(v)
}

func (c *Cursor) Byte() byte {
	v := c.b[c.off]
	c.off++

	return v
}

// Bytes returns the next n raw bytes.
func (c *Cursor) Bytes(n int) []byte {
	v := c.b[c.off : c.off+n]
	c.off += n

	return v
}

// Skip advances over n bytes.
func (c *Cursor) Skip(n int) { c.off += n }

// Offset returns the number of bytes consumed.
func (c *Cursor) Offset() int { return c.off }
