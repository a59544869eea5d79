package pomcp

import "math/rand"

// RandomGenerator is the explicit source of randomness required by
// sampleAParticle and by untried-action sampling. It is always passed in by
// the caller -- never read from a package-level generator -- so determinism
// is a property of the caller's seeding.
type RandomGenerator interface {
	// Intn returns a uniform random int in [0, n). It panics if n <= 0.
	Intn(n int) int
}

// mathRandGenerator adapts a *rand.Rand to RandomGenerator.
type mathRandGenerator struct {
	r *rand.Rand
}

// NewRandomGenerator returns a RandomGenerator backed by math/rand, seeded
// with the given seed.
func NewRandomGenerator(seed int64) RandomGenerator {
	return &mathRandGenerator{r: rand.New(rand.NewSource(seed))}
}

func (g *mathRandGenerator) Intn(n int) int {
	return g.r.Intn(n)
}
