// SPDX-License-Identifier: EPL-2.0

package utils

func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// Int16ToFloat32 maps a 16-bit sample into [-1,1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768
}

// Int32ToFloat32 maps a 32-bit sample into [-1,1).
func Int32ToFloat32(v int32) float32 {
	return float32(float64(v) / 2147483648)
}

// Sign24 sign-extends the low 24 bits of v.
func Sign24(v int32) int32 {
	return v << 8 >> 8
}
