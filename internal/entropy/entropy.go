// Package entropy blends several randomness sources into a single seed
// for the PRNG when the caller has not supplied a deterministic seed
// (spec.md §4.2: "absent, an entropy-seeded PRNG is used").
//
// Adapted from the teacher's internal/hardware entropy pool: several
// independent EntropySource implementations are tried in order of
// decreasing trust and whitened together with SHA-256, so the failure
// of any single source (no TPM present, syscall unsupported) degrades
// gracefully instead of aborting.
package entropy

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
)

// ErrNoSources is returned when every entropy source failed.
var ErrNoSources = errors.New("entropy: no usable entropy source")

// Source is a single entropy provider.
type Source interface {
	// Name identifies the source for diagnostics.
	Name() string
	// Available reports whether the source can currently be used.
	Available() bool
	// Read returns n bytes of entropy.
	Read(n int) ([]byte, error)
}

// osSource reads from the operating system's CSPRNG.
type osSource struct{}

func (osSource) Name() string      { return "OS Random" }
func (osSource) Available() bool   { return true }
func (osSource) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// defaultSources returns the entropy sources to blend, most to least
// trusted: TPM hardware RNG, the getrandom(2) syscall, then crypto/rand.
// The latter two overlap in practice but blending costs nothing and
// means a broken syscall wrapper never loses us entropy outright.
func defaultSources() []Source {
	return []Source{
		newTPMSource(),
		newSyscallSource(),
		osSource{},
	}
}

// Seed returns n bytes of blended entropy suitable for keying
// internal/prng's HMAC-DRBG. Every available source contributes;
// unavailable or failing sources are skipped. At least one source
// (crypto/rand) is always available, so Seed only fails if that
// invariant is somehow violated.
func Seed(n int) ([]byte, error) {
	return SeedFrom(defaultSources(), n)
}

// SeedFrom blends entropy from the given sources. Exported for tests,
// which substitute fakes to exercise the degrade-gracefully paths.
func SeedFrom(sources []Source, n int) ([]byte, error) {
	h := sha256.New()
	contributed := false
	for _, s := range sources {
		if s == nil || !s.Available() {
			continue
		}
		buf, err := s.Read(n)
		if err != nil || len(buf) == 0 {
			continue
		}
		h.Write(buf)
		contributed = true
	}
	if !contributed {
		return nil, ErrNoSources
	}

	// Stretch the SHA-256 whitening digest to the requested length via
	// counter-mode expansion: SHA-256 over the digest and a little-endian
	// block counter. (internal/prng's output stream is also counter mode,
	// but keyed HMAC-SHA256 over a big-endian counter.)
	out := make([]byte, 0, n)
	var counter uint32
	seedDigest := h.Sum(nil)
	for len(out) < n {
		block := sha256.New()
		block.Write(seedDigest)
		block.Write([]byte{byte(counter), byte(counter >> 8), byte(counter >> 16), byte(counter >> 24)})
		out = append(out, block.Sum(nil)...)
		counter++
	}
	return out[:n], nil
}
