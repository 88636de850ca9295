package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameCount(t *testing.T) {
	tests := []struct {
		name         string
		participants int
		expected     int
	}{
		{"Empty field", 0, 6},
		{"Small field", 5, 6},
		{"Upper small boundary", 8, 6},
		{"Lower medium boundary", 9, 7},
		{"Medium field", 10, 7},
		{"Upper medium boundary", 12, 7},
		{"Lower large boundary", 13, 8},
		{"Large field", 40, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GameCount(tt.participants))
		})
	}
}

func TestGameCountMonotonic(t *testing.T) {
	prev := GameCount(0)
	for n := 1; n <= 64; n++ {
		current := GameCount(n)
		assert.GreaterOrEqual(t, current, prev, "game count must not shrink as the field grows (n=%d)", n)
		prev = current
	}
}
