package spectral

import "github.com/pkg/errors"

// ErrNotCoprime is returned when the flux fraction is not fully reduced.
var ErrNotCoprime = errors.New("flux fraction must be coprime")

// Gcd returns the greatest common divisor of a and b.
func Gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// modInverse returns p^-1 mod q for coprime p, q via the extended
// Euclidean algorithm.
func modInverse(p, q int) int {
	t, newT := 0, 1
	r, newR := q, ((p % q) + q) % q
	for newR != 0 {
		quot := r / newR
		t, newT = newT, t-quot*newT
		r, newR = newR, r-quot*newR
	}
	return ((t % q) + q) % q
}

// Diophantine solves the gap-labelling equation r = q*s + p*t for the gap
// below filling r/q of a Hofstadter model at flux p/q, with the Chern
// number t restricted to |t| <= q/2. The pair (s, t) is unique under that
// restriction when q is odd; for even q the boundary case t = q/2 is kept
// positive.
func Diophantine(r, p, q int) (s, t int, err error) {
	if q < 1 {
		return 0, 0, errors.Errorf("flux denominator must be positive, got %d", q)
	}
	if Gcd(p, q) != 1 {
		return 0, 0, errors.Wrapf(ErrNotCoprime, "%d/%d", p, q)
	}

	t = (r * modInverse(p, q)) % q
	if t > q/2 {
		t -= q
	}
	s = (r - p*t) / q

	return s, t, nil
}
