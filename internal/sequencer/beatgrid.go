package sequencer

import "plldrift/internal/param"

// beat is one (division, index) candidate from the beat grid, carrying its
// start time and nominal duration as bar-fractions (spec.md §3 "Beat grid").
type beat struct {
	division param.Division
	index    int
	start    float64 // bar-fraction [0,1)
	duration float64 // bar-fraction
	prob     float64 // 0..127
}

// enumerateBeats returns every beat with probability > 0 across all
// divisions (spec.md §4.1 step 1).
func enumerateBeats(snap param.Snapshot) []beat {
	var out []beat
	for _, d := range param.AllDivisions {
		n := param.DivisionLen(d)
		for i := 0; i < n; i++ {
			p := snap.BeatProbability(d, i)
			if p <= 0 {
				continue
			}
			out = append(out, beat{
				division: d,
				index:    i,
				start:    float64(i) / float64(n),
				duration: 1 / float64(n),
				prob:     p,
			})
		}
	}
	return out
}

// divisionOrder gives the deterministic tiebreak rank used by spec.md §4.1
// step 2 ("tiebreak by division id"); it is the index into param.AllDivisions.
func divisionOrder(d param.Division) int {
	for i, cand := range param.AllDivisions {
		if cand == d {
			return i
		}
	}
	return -1
}
