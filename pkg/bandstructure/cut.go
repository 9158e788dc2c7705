package bandstructure

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bandflux/butterfly/pkg/hofstadter"
	"github.com/bandflux/butterfly/pkg/lattice"
)

// PathPoint is one sample of a symmetry-path cut: the accumulated path
// coordinate, the label of the symmetry point it coincides with (empty in
// between), and the band energies.
type PathPoint struct {
	Coord    float64
	Label    string
	Energies []float64
}

// defaultPath is the loop through the high-symmetry points of the
// magnetic Brillouin zone.
var defaultPath = []string{"G", "Y", "S", "X", "G"}

// Cut computes the 2D band-structure cut along the symmetry path, with
// pointsPerSegment samples on every leg.
func Cut(ctx context.Context, opts Options, pointsPerSegment int) ([]PathPoint, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	if pointsPerSegment < 2 {
		return nil, errors.Errorf("need at least 2 points per segment, got %d", pointsPerSegment)
	}

	model, err := hofstadter.NewModel(opts.P, opts.Q,
		hofstadter.WithCell(opts.Cell),
		hofstadter.WithHopping(opts.T...),
		hofstadter.WithPeriod(opts.Period),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build model")
	}
	cell := model.Magnetic()

	toK := func(frac lattice.Vec) lattice.Vec {
		return cell.B1.Scale(frac[0]).Add(cell.B2.Scale(frac[1]))
	}

	var points []PathPoint
	coord := 0.0
	for leg := 0; leg+1 < len(defaultPath); leg++ {
		from := cell.SymPoints[defaultPath[leg]]
		to := cell.SymPoints[defaultPath[leg+1]]
		step := toK(to).Sub(toK(from)).Norm() / float64(pointsPerSegment)

		for i := 0; i < pointsPerSegment; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			f := float64(i) / float64(pointsPerSegment)
			frac := lattice.Vec{
				from[0] + f*(to[0]-from[0]),
				from[1] + f*(to[1]-from[1]),
			}
			energies, err := model.Energies(toK(frac))
			if err != nil {
				return nil, errors.Wrapf(err, "unable to diagonalize on leg %s-%s", defaultPath[leg], defaultPath[leg+1])
			}

			label := ""
			if i == 0 {
				label = defaultPath[leg]
			}
			points = append(points, PathPoint{Coord: coord, Label: label, Energies: energies})
			coord += step
		}
	}

	// close the loop on the final symmetry point
	last := cell.SymPoints[defaultPath[len(defaultPath)-1]]
	energies, err := model.Energies(toK(last))
	if err != nil {
		return nil, errors.Wrap(err, "unable to diagonalize at path end")
	}
	points = append(points, PathPoint{Coord: coord, Label: defaultPath[len(defaultPath)-1], Energies: energies})

	return points, nil
}
