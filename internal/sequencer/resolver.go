package sequencer

import (
	"math"
	"math/rand"
	"sort"
)

// resolvedBeat is a winner of the beat-competition algorithm, still in
// bar-fraction time; prepareBar converts these into sample-accurate Events.
type resolvedBeat struct {
	start    float64
	duration float64
}

type displacedBeat struct {
	end  float64
	prob float64
}

// timeEps groups beats whose start times agree to within one part in 2^20
// of a bar as "the same start time" — beats from different divisions land
// on exactly the same rational instant (e.g. t=0, t=0.5) far more often
// than floating-point rounding would otherwise suggest, so this tolerance
// only guards against representation noise, never against genuinely
// distinct musical positions.
const timeEps = 1.0 / (1 << 20)

// resolveBeats runs the literal beat-competition algorithm of spec.md
// §4.1 steps 1-4 and returns the winners in start-time order.
func resolveBeats(beats []beat, rng *rand.Rand) []resolvedBeat {
	sort.SliceStable(beats, func(i, j int) bool {
		if math.Abs(beats[i].start-beats[j].start) > timeEps {
			return beats[i].start < beats[j].start
		}
		if beats[i].duration != beats[j].duration {
			return beats[i].duration > beats[j].duration // largest duration first
		}
		return divisionOrder(beats[i].division) < divisionOrder(beats[j].division)
	})

	var (
		occupiedUntil float64
		displaced     []displacedBeat
		winners       []resolvedBeat
	)

	i := 0
	for i < len(beats) {
		t := beats[i].start
		j := i
		for j < len(beats) && math.Abs(beats[j].start-t) <= timeEps {
			j++
		}
		group := beats[i:j]
		i = j

		if t < occupiedUntil-timeEps {
			continue // step 4a: skip this time entirely
		}

		S := 0.0
		for _, c := range group {
			S += c.prob
		}

		L := 0.0
		for _, d := range displaced {
			if d.end > t+timeEps {
				L += d.prob
			}
		}

		R := int(math.Max(0, 127-L))
		roll := rollInt(rng, R)

		if float64(roll) < S {
			winnerIdx := mapRollToWinner(group, roll)
			for k, c := range group {
				if k == winnerIdx {
					continue
				}
				displaced = append(displaced, displacedBeat{end: t + c.duration, prob: c.prob})
			}
			w := group[winnerIdx]
			winners = append(winners, resolvedBeat{
				start:    w.start,
				duration: w.duration,
			})
			occupiedUntil = t + w.duration
		} else {
			for _, c := range group {
				displaced = append(displaced, displacedBeat{end: t + c.duration, prob: c.prob})
			}
		}
	}

	sort.Slice(winners, func(i, j int) bool { return winners[i].start < winners[j].start })
	return winners
}

// mapRollToWinner performs the "proportional mapping of roll into the
// cumulative prob(c_i)" from spec.md §4.1 step 4e.
func mapRollToWinner(group []beat, roll int) int {
	cum := 0.0
	r := float64(roll)
	for idx, c := range group {
		cum += c.prob
		if r < cum {
			return idx
		}
	}
	return len(group) - 1
}
