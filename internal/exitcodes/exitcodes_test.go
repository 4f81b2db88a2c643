package exitcodes

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: Success},
		{name: "failures", err: ErrTestsFailed, expected: TestFailure},
		{name: "wrapped failures", err: fmt.Errorf("suite demo: %w", ErrTestsFailed), expected: TestFailure},
		{name: "other error", err: errors.New("boom"), expected: RuntimeErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
