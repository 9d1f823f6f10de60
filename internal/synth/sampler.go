package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Sampler implementation names accepted by NewSampler.
const (
	SamplerPCG   = "pcg"
	SamplerGonum = "gonum"
)

// Sampler supplies every random draw the generators consume. Implementations
// must be deterministic for a given seed so seeded runs reproduce exactly.
// Read feeds identity-token generation from the same stream.
type Sampler interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// IntN returns a uniform integer in [0, n). n must be positive.
	IntN(n int) int
	// Normal returns a draw from N(mean, stddev).
	Normal(mean, stddev float64) float64
	// LogNormal returns a draw whose logarithm is N(mu, sigma).
	LogNormal(mu, sigma float64) float64
	// Poisson returns a draw from a Poisson distribution with rate lambda.
	Poisson(lambda float64) float64
	// Perm returns a random permutation of [0, n).
	Perm(n int) []int
	// Read fills p with bytes from the same underlying stream.
	Read(p []byte) (n int, err error)
}

// NewSampler constructs the implementation registered under name, seeded
// deterministically. An empty name selects the stdlib implementation.
func NewSampler(name string, seed uint64) (Sampler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SamplerPCG:
		return NewRandSampler(seed), nil
	case SamplerGonum:
		return NewGonumSampler(seed), nil
	default:
		return nil, fmt.Errorf("sampler: unknown implementation %q", name)
	}
}

// RandomSeed returns a seed from the process-wide generator, for runs where
// reproducibility is not requested.
func RandomSeed() uint64 {
	return rand.Uint64()
}

// pcgSource is the seeded PCG stream both sampler implementations share.
type pcgSource struct {
	rng *rand.Rand
}

func newPCGSource(seed uint64) pcgSource {
	return pcgSource{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (s pcgSource) Float64() float64 { return s.rng.Float64() }

func (s pcgSource) IntN(n int) int { return s.rng.IntN(n) }

func (s pcgSource) Perm(n int) []int { return s.rng.Perm(n) }

// Read fills p from successive Uint64 draws. math/rand/v2 dropped Rand.Read,
// so the chunking lives here. The returned error is always nil.
func (s pcgSource) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := s.rng.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// RandSampler draws everything from math/rand/v2, with hand-rolled normal,
// log-normal, and Poisson transforms.
type RandSampler struct {
	pcgSource
}

// NewRandSampler returns a stdlib-only sampler seeded from seed.
func NewRandSampler(seed uint64) *RandSampler {
	return &RandSampler{pcgSource: newPCGSource(seed)}
}

func (s *RandSampler) Normal(mean, stddev float64) float64 {
	return mean + stddev*s.rng.NormFloat64()
}

func (s *RandSampler) LogNormal(mu, sigma float64) float64 {
	return math.Exp(mu + sigma*s.rng.NormFloat64())
}

// Poisson uses Knuth's multiplication method. The rates used here stay under
// two, so the loop terminates after a handful of iterations.
func (s *RandSampler) Poisson(lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	count := 0
	product := 1.0
	for {
		product *= s.rng.Float64()
		if product <= limit {
			return float64(count)
		}
		count++
	}
}
