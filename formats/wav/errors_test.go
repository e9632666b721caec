// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"testing"
)

func TestErrors_IsComparison(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotWavFile", ErrNotWavFile},
		{"ErrUnsupportedWavLayout", ErrUnsupportedWavLayout},
		{"ErrUnsupportedBitDepth", ErrUnsupportedBitDepth},
		{"ErrTruncatedChunk", ErrTruncatedChunk},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !errors.Is(tt.err, tt.err) {
				t.Errorf("errors.Is(%s, %s) = false, want true", tt.name, tt.name)
			}

			otherErr := errors.New("some other error")
			if errors.Is(otherErr, tt.err) {
				t.Errorf("errors.Is(otherErr, %s) = true, want false", tt.name)
			}

			wrappedErr := errors.Join(tt.err, errors.New("additional context"))
			if !errors.Is(wrappedErr, tt.err) {
				t.Errorf("errors.Is(wrappedErr, %s) = false, want true", tt.name)
			}
		})
	}
}

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	messages := make(map[string]string)
	allErrors := map[string]error{
		"ErrNotWavFile":           ErrNotWavFile,
		"ErrUnsupportedWavLayout": ErrUnsupportedWavLayout,
		"ErrUnsupportedBitDepth":  ErrUnsupportedBitDepth,
		"ErrTruncatedChunk":       ErrTruncatedChunk,
		"ErrUnsupportedFormat":    ErrUnsupportedFormat,
	}

	for name, err := range allErrors {
		msg := err.Error()
		if existing, found := messages[msg]; found {
			t.Errorf("%s has same message as %s: %q", name, existing, msg)
		}
		messages[msg] = name
	}
}
