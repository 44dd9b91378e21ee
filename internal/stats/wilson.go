package stats

import "math"

// wilsonZ is the normal quantile for a 95% confidence bound.
const wilsonZ = 1.96

// WilsonLowerBound returns the 95%-confidence lower bound of the true win
// probability given wins out of games. The bound is always at or below the
// observed rate and converges to it as games grows, which demotes
// small-sample flukes below large-sample solid performers when ranking.
// Returns 0 when games is 0.
func WilsonLowerBound(wins, games int) float64 {
	if games <= 0 {
		return 0
	}
	n := float64(games)
	p := float64(wins) / n
	z := wilsonZ
	z2 := z * z
	num := p + z2/(2*n) - z*math.Sqrt(p*(1-p)/n+z2/(4*n*n))
	bound := num / (1 + z2/n)
	if bound < 0 {
		return 0
	}
	return bound
}
