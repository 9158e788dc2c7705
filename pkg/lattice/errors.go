package lattice

import "github.com/pkg/errors"

var (
	ErrUnknownLattice = errors.New("unknown lattice kind")
	ErrNoHopping      = errors.New("at least one non-zero hopping amplitude must be set")
	ErrBadAngle       = errors.New("obliqueness angle fraction must have a positive denominator")
)
