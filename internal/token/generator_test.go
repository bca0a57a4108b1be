package token

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Next_WellFormed(t *testing.T) {
	g := NewGenerator(rand.NewPCG(1, 2))

	for i := 0; i < 100; i++ {
		code := g.Next(nil)
		assert.True(t, IsWellFormed(code), "code %q should be well formed", code)
	}
}

func TestGenerator_Next_RetriesOnCollision(t *testing.T) {
	first := NewGenerator(rand.NewPCG(7, 7)).Next(nil)

	calls := 0
	second := NewGenerator(rand.NewPCG(7, 7)).Next(func(code string) bool {
		calls++
		return code == first
	})

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, calls)
}

func TestIsWellFormed(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"ABC12", true},
		{"00000", true},
		{"abc12", false},
		{"ABC1", false},
		{"ABC123", false},
		{"AB-12", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWellFormed(tt.code))
		})
	}
}

func TestCodeSet_DeduplicatesInOrder(t *testing.T) {
	set := NewCodeSet("B0000", "A0000", "B0000")

	assert.Equal(t, 2, set.Size())
	assert.Equal(t, []string{"B0000", "A0000"}, set.Codes())
	assert.True(t, set.Contains("A0000"))
	assert.False(t, set.Contains("C0000"))
}
