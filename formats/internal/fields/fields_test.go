// SPDX-License-Identifier: EPL-2.0

package fields

import (
	"testing"

	"github.com/ik5/sndf/byteorder"
)

func TestCursor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode byteorder.Mode
		b    []byte
	}{
		{"big endian", byteorder.BigEndian(), []byte{0x00, 0x00, 0x6A, 0x1A, 0xFF, 0x38, 'a', 'b', 0x7F}},
		{"little endian", byteorder.LittleEndian(), []byte{0x1A, 0x6A, 0x00, 0x00, 0x38, 0xFF, 'a', 'b', 0x7F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := New(tt.b, tt.mode)
			if got := c.Long(); got != 0x6A1A {
				t.Errorf("Long() = %#x, want 0x6a1a", got)
			}
			if got := c.Word(); got != -200 {
				t.Errorf("Word() = %d, want -200", got)
			}
			if got := string(c.Bytes(2)); got != "ab" {
				t.Errorf("Bytes(2) = %q, want \"ab\"", got)
			}
			if got := c.Byte(); got != 0x7F {
				t.Errorf("Byte() = %#x, want 0x7f", got)
			}
			if c.Offset() != len(tt.b) {
				t.Errorf("Offset() = %d, want %d", c.Offset(), len(tt.b))
			}
		})
	}
}
