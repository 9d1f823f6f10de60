package synth

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// GonumSampler routes the distribution draws through gonum's distuv package
// while sharing the seeded uniform stream with the identity reader. The
// *rand.Rand inside pcgSource satisfies distuv's Source requirement directly.
type GonumSampler struct {
	pcgSource
}

// NewGonumSampler returns a gonum-backed sampler seeded from seed.
func NewGonumSampler(seed uint64) *GonumSampler {
	return &GonumSampler{pcgSource: newPCGSource(seed)}
}

func (s *GonumSampler) Normal(mean, stddev float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: stddev, Src: s.rng}.Rand()
}

func (s *GonumSampler) LogNormal(mu, sigma float64) float64 {
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: s.rng}.Rand()
}

func (s *GonumSampler) Poisson(lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	return distuv.Poisson{Lambda: lambda, Src: s.rng}.Rand()
}
