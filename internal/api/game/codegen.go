package game

import (
	"fmt"
	"math/rand/v2"
)

// CodeGenerator produces candidate room codes. Candidates are not assumed
// unique; the store checks them against live rooms.
type CodeGenerator interface {
	Generate() string
}

type digitCodeGenerator struct {
	length int
	limit  int
}

// NewDigitCodeGenerator returns a generator of zero-padded decimal codes of
// the given length, e.g. "048213" for length 6.
func NewDigitCodeGenerator(length int) CodeGenerator {
	limit := 1
	for range length {
		limit *= 10
	}
	return &digitCodeGenerator{length: length, limit: limit}
}

func (g *digitCodeGenerator) Generate() string {
	return fmt.Sprintf("%0*d", g.length, rand.IntN(g.limit))
}
