package token

import (
	"math/rand/v2"
	"strings"
)

// Generator draws random token codes.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator reading from src. A nil src seeds a
// fresh PCG source.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src)}
}

// Next returns a code for which taken reports false. The loop ends only
// on a free code; the code space is 36^5.
func (g *Generator) Next(taken func(code string) bool) string {
	for {
		code := g.draw()
		if taken == nil || !taken(code) {
			return code
		}
	}
}

func (g *Generator) draw() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(CodeAlphabet[g.rng.IntN(len(CodeAlphabet))])
	}
	return b.String()
}
