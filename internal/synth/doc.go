// Package synth implements the correlated record-synthesis model that
// fabricates plausible hospital-admission records.
//
// A Generator owns an immutable Catalog (diagnosis parameters, medication
// formulary, categorical pools) and an injected Sampler, and assembles one
// Record per call in a fixed dependency order: age drives diagnosis, the two
// together drive stay length and vitals, and an additive risk score over the
// assembled fields drives the readmission label. Cross-field relationships
// are correlated rather than independent noise, and every numeric field is
// clamped to a plausible range regardless of distribution tails.
//
// All randomness flows through the Sampler interface so callers control
// determinism: the same seed, sampler implementation, and call count always
// reproduce the same record sequence. Generation performs no I/O and never
// fails under a validated catalog.
package synth
