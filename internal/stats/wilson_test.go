package stats

import "testing"

func TestWilsonLowerBoundBelowObservedRate(t *testing.T) {
	cases := []struct{ wins, games int }{
		{1, 1}, {9, 10}, {28, 40}, {60, 100}, {540, 1000}, {0, 25},
	}
	for _, c := range cases {
		bound := WilsonLowerBound(c.wins, c.games)
		rate := float64(c.wins) / float64(c.games)
		if bound > rate {
			t.Errorf("%d/%d: bound %v exceeds observed rate %v", c.wins, c.games, bound, rate)
		}
		if bound < 0 || bound > 1 {
			t.Errorf("%d/%d: bound %v out of [0,1]", c.wins, c.games, bound)
		}
	}
}

// TestWilsonGapShrinksWithSampleSize fixes the win rate at 60% and checks
// the bound approaches it monotonically as the sample grows.
func TestWilsonGapShrinksWithSampleSize(t *testing.T) {
	prevGap := 1.0
	for _, games := range []int{10, 50, 100, 500, 1000, 10000} {
		wins := games * 6 / 10
		gap := 0.6 - WilsonLowerBound(wins, games)
		if gap < 0 {
			t.Fatalf("games=%d: bound above observed rate", games)
		}
		if gap >= prevGap {
			t.Errorf("games=%d: gap %v did not shrink from %v", games, gap, prevGap)
		}
		prevGap = gap
	}
}

// TestWilsonDemotesSmallSampleFlukes: a 1-game 100% option must rank below a
// 40-game 70% option under the lower bound.
func TestWilsonDemotesSmallSampleFlukes(t *testing.T) {
	fluke := WilsonLowerBound(1, 1)
	solid := WilsonLowerBound(28, 40)
	if fluke >= solid {
		t.Errorf("1/1 bound %v should rank below 28/40 bound %v", fluke, solid)
	}
}

func TestWilsonZeroGames(t *testing.T) {
	if got := WilsonLowerBound(0, 0); got != 0 {
		t.Errorf("zero games: got %v, want 0", got)
	}
}
