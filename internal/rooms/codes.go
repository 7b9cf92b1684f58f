package rooms

import (
	"math/rand/v2"

	"sketch-imprint/internal/game"
)

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultCodeLength = 4
)

// CodeGenerator hands out room codes. It is owned by one Manager and only
// used under the manager's lock.
type CodeGenerator struct {
	length int
	rng    *rand.Rand
}

// NewCodeGenerator uses rng when given, otherwise a crypto-seeded source.
func NewCodeGenerator(length int, rng *rand.Rand) *CodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	if rng == nil {
		rng = game.NewRand()
	}
	return &CodeGenerator{length: length, rng: rng}
}

// Next returns a code for which taken reports false.
func (g *CodeGenerator) Next(taken func(string) bool) string {
	for {
		code := g.candidate()
		if !taken(code) {
			return code
		}
	}
}

func (g *CodeGenerator) candidate() string {
	buf := make([]byte, g.length)
	for i := range buf {
		buf[i] = codeAlphabet[g.rng.IntN(len(codeAlphabet))]
	}
	return string(buf)
}
