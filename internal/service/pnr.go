package service

import (
	"math/rand"
	"regexp"
	"strconv"
)

// A PNR is a 10-digit numeric string in [1000000000, 9999999999]. It is the
// sole external lookup key for anonymous status queries, so it needs good
// distribution but no cryptographic strength.
const (
	pnrMin = 1_000_000_000
	pnrMax = 9_999_999_999

	// maxPNRAttempts bounds the regenerate-on-collision loop; the unique
	// constraint on bookings.pnr_number is the backstop.
	maxPNRAttempts = 5
)

var pnrPattern = regexp.MustCompile(`^[0-9]{10}$`)

// IsValidPNR reports whether s is a well-formed reference.
func IsValidPNR(s string) bool {
	return pnrPattern.MatchString(s)
}

// PNRGenerator draws candidate references from a uniform source. The draw
// function is injectable for tests.
type PNRGenerator struct {
	intN func(n int64) int64
}

func NewPNRGenerator() *PNRGenerator {
	return &PNRGenerator{intN: rand.Int63n}
}

func (g *PNRGenerator) Generate() string {
	n := pnrMin + g.intN(pnrMax-pnrMin+1)
	return strconv.FormatInt(n, 10)
}
