// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float32
		want int16
	}{
		{"zero", 0, 0},
		{"full scale", 1, 32767},
		{"negative full scale", -1, -32767},
		{"half", 0.5, 16383},
		{"clipped high", 1.5, 32767},
		{"clipped low", -3, -32767},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.in); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestInt16ToFloat32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int16
		want float32
	}{
		{0, 0},
		{math.MinInt16, -1},
		{16384, 0.5},
		{math.MaxInt16, 32767.0 / 32768},
	}

	for _, tt := range tests {
		if got := Int16ToFloat32(tt.in); got != tt.want {
			t.Errorf("Int16ToFloat32(%d) = %v, want %v", tt.in, got, tt.want)
		}
		if back := Float32ToInt16(Int16ToFloat32(tt.in)); math.Abs(float64(back)-float64(tt.in)) > 1 {
			t.Errorf("Float32ToInt16(Int16ToFloat32(%d)) = %d", tt.in, back)
		}
	}
}

func TestSign24(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int32
	}{
		{0x000001, 1},
		{0x7FFFFF, 0x7FFFFF},
		{0x800000, -0x800000},
		{0x12FFFFFF, -1},
	}

	for _, tt := range tests {
		if got := Sign24(tt.in); got != tt.want {
			t.Errorf("Sign24(%#x) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := Int32ToFloat32(math.MinInt32); got != -1 {
		t.Errorf("Int32ToFloat32(MinInt32) = %v", got)
	}
}
