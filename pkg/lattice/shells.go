package lattice

import (
	"math"
	"sort"
)

// Hop is a single hopping term: a Cartesian displacement R between two
// sites, its (DM, DN) displacement in Cartesian unit-frame units, the
// 1-based neighbour shell it belongs to, and the (M0, N0) cell the hop
// starts from. MTot = M0 + DM is the column the hop ends in, which decides
// the Hamiltonian stripe the term contributes to.
type Hop struct {
	R      Vec
	Norm   float64
	Shell  int
	DM, DN int
	M0, N0 int
	MTot   int
}

// Path is an independent hopping path of one hop (single-site basis) or
// two chained hops (two-site basis).
type Path struct {
	Hops []Hop
	MTot int
}

// ShellGroup collects all paths sharing a total column displacement.
type ShellGroup struct {
	MTot  int
	Paths []Path
}

// Shells is the complete set of hopping paths, grouped by total column
// displacement in ascending order.
type Shells struct {
	Double bool // paths chain two hops
	Groups []ShellGroup
}

// Group returns the group with the given total displacement, or nil.
func (s Shells) Group(mTot int) *ShellGroup {
	for i := range s.Groups {
		if s.Groups[i].MTot == mTot {
			return &s.Groups[i]
		}
	}
	return nil
}

// MaxShell returns the highest neighbour shell present.
func (s Shells) MaxShell() int {
	max := 0
	for _, g := range s.Groups {
		for _, p := range g.Paths {
			for _, h := range p.Hops {
				if h.Shell > max {
					max = h.Shell
				}
			}
		}
	}
	return max
}

// round10 rounds to 10 decimal places so radii can be compared exactly.
func round10(x float64) float64 {
	return math.Round(x*1e10) / 1e10
}

// hopsFrom enumerates the hopping vectors reachable from the cell
// (m0, n0) for the requested neighbour shells. shells holds the 1-based
// shell numbers with a non-zero amplitude, ascending.
func (c *Cell) hopsFrom(m0, n0 int, shells []int) []Hop {
	maxShell := shells[len(shells)-1]
	cart1, cart2 := c.cart()
	origin := cart1.Scale(float64(m0)).Add(cart2.Scale(float64(n0)))

	var hops []Hop
	for i := -maxShell; i <= maxShell; i++ {
		for j := -maxShell; j <= maxShell; j++ {
			cellVec := c.A1.Scale(float64(i)).Add(c.A2.Scale(float64(j)))
			for _, site := range c.Basis {
				r := cellVec.Add(site).Sub(origin)
				norm := round10(r.Norm())
				if norm == 0 {
					continue
				}
				hops = append(hops, Hop{
					R:    r,
					Norm: norm,
					// matches the original bookkeeping convention of
					// rounding half-integer frame displacements to even
					DM: int(math.RoundToEven(r[0] / cart1[0])),
					DN: int(math.RoundToEven(r[1] / cart2[1])),
					M0: m0,
					N0: n0,
				})
			}
		}
	}

	sort.Slice(hops, func(a, b int) bool { return hops[a].Norm < hops[b].Norm })

	// label shells by distinct radius, ascending
	radii := make([]float64, 0)
	for i := range hops {
		if len(radii) == 0 || hops[i].Norm != radii[len(radii)-1] {
			radii = append(radii, hops[i].Norm)
		}
		hops[i].Shell = len(radii)
		hops[i].MTot = hops[i].M0 + hops[i].DM
	}

	// keep only the requested shells
	want := make(map[int]struct{}, len(shells))
	for _, s := range shells {
		want[s] = struct{}{}
	}
	kept := hops[:0]
	for _, h := range hops {
		if _, ok := want[h.Shell]; ok {
			kept = append(kept, h)
		}
	}

	return kept
}

// FindShells discovers the hopping paths selected by the amplitude list t,
// given in ascending-neighbour order with zero entries skipped. For a
// single-site basis the paths are single hops; for a two-site basis they
// chain two hops, origin to neighbour to second neighbour cell.
func (c *Cell) FindShells(t []float64) (Shells, error) {
	var shellNums []int
	for i, amp := range t {
		if amp != 0 {
			shellNums = append(shellNums, i+1)
		}
	}
	if len(shellNums) == 0 {
		return Shells{}, ErrNoHopping
	}

	base := c.hopsFrom(0, 0, shellNums)
	all := base
	if len(c.Basis) > 1 {
		seen := map[[2]int]struct{}{{0, 0}: {}}
		for _, h := range base {
			end := [2]int{h.M0 + h.DM, h.N0 + h.DN}
			if _, ok := seen[end]; ok {
				continue
			}
			seen[end] = struct{}{}
			all = append(all, c.hopsFrom(end[0], end[1], shellNums)...)
		}
	}

	// drop backtracking hops, the ones that land in the origin cell
	kept := all[:0]
	for _, h := range all {
		if h.M0+h.DM == 0 && h.N0+h.DN == 0 {
			continue
		}
		kept = append(kept, h)
	}

	var paths []Path
	for _, first := range kept {
		if first.M0 != 0 || first.N0 != 0 {
			continue
		}
		for _, second := range kept {
			if first.M0+first.DM != second.M0 || first.N0+first.DN != second.N0 {
				continue
			}
			mTot := first.MTot
			if abs(second.MTot) >= abs(first.MTot) {
				mTot = second.MTot
			}
			paths = append(paths, Path{Hops: []Hop{first, second}, MTot: mTot})
		}
	}

	double := len(paths) > 0
	if !double {
		for _, h := range kept {
			if h.M0 != 0 || h.N0 != 0 {
				continue
			}
			paths = append(paths, Path{Hops: []Hop{h}, MTot: h.MTot})
		}
	}

	groups := map[int][]Path{}
	for _, p := range paths {
		groups[p.MTot] = append(groups[p.MTot], p)
	}
	mTots := make([]int, 0, len(groups))
	for m := range groups {
		mTots = append(mTots, m)
	}
	sort.Ints(mTots)

	shells := Shells{Double: double, Groups: make([]ShellGroup, len(mTots))}
	for i, m := range mTots {
		shells.Groups[i] = ShellGroup{MTot: m, Paths: groups[m]}
	}

	return shells, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
