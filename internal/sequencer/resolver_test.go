package sequencer

import (
	"math/rand"
	"testing"
)

func TestResolveBeatsSkipsUnoccupiedButNotEmpty(t *testing.T) {
	beats := []beat{
		{division: 4, index: 0, start: 0, duration: 0.25, prob: 127},
	}
	rng := rand.New(rand.NewSource(1))
	winners := resolveBeats(beats, rng)
	if len(winners) != 1 {
		t.Fatalf("a single full-probability beat should always win, got %d winners", len(winners))
	}
	if winners[0].start != 0 || winners[0].duration != 0.25 {
		t.Fatalf("winner fields mismatch: %+v", winners[0])
	}
}

func TestResolveBeatsZeroProbabilityNeverWins(t *testing.T) {
	beats := []beat{
		{division: 4, index: 0, start: 0, duration: 0.25, prob: 0},
	}
	rng := rand.New(rand.NewSource(1))
	winners := resolveBeats(beats, rng)
	if len(winners) != 0 {
		t.Fatalf("a zero-probability beat should never win, got %d winners", len(winners))
	}
}

func TestResolveBeatsWinnersDoNotOverlap(t *testing.T) {
	beats := []beat{
		{division: 4, index: 0, start: 0, duration: 0.5, prob: 127},
		{division: 8, index: 2, start: 0.25, duration: 0.125, prob: 127},
		{division: 4, index: 1, start: 0.5, duration: 0.5, prob: 127},
	}
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		winners := resolveBeats(beats, rng)
		for i := 1; i < len(winners); i++ {
			prevEnd := winners[i-1].start + winners[i-1].duration
			if winners[i].start < prevEnd-timeEps {
				t.Fatalf("seed %d: winner %d (start %v) overlaps previous winner ending at %v", seed, i, winners[i].start, prevEnd)
			}
		}
	}
}

func TestMapRollToWinnerRespectsCumulativeWeights(t *testing.T) {
	group := []beat{
		{prob: 10},
		{prob: 20},
		{prob: 30},
	}
	if got := mapRollToWinner(group, 5); got != 0 {
		t.Fatalf("roll within first cumulative band should pick index 0, got %d", got)
	}
	if got := mapRollToWinner(group, 15); got != 1 {
		t.Fatalf("roll within second cumulative band should pick index 1, got %d", got)
	}
	if got := mapRollToWinner(group, 35); got != 2 {
		t.Fatalf("roll within third cumulative band should pick index 2, got %d", got)
	}
}
