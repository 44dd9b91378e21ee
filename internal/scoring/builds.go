package scoring

import (
	"math"
	"sort"

	"github.com/riftlab/riftgrade/internal/model"
	"github.com/riftlab/riftgrade/internal/stats"
)

// RankerParams are the tuned constants of the discrete build-choice ranker.
type RankerParams struct {
	// MinGames is the confidence floor: options with fewer games are not
	// ranked as reliable alternatives.
	MinGames int
	// FullConfidenceGames saturates the confidence weight at 1.0.
	FullConfidenceGames int
	// DecayConstant controls the exponential rank-to-score decay.
	DecayConstant float64
	// TopScore is the score of the rank-1 choice.
	TopScore float64
	// UnseenScore is the fixed score for a choice the cohort has never
	// observed, distinct from "known but weak".
	UnseenScore float64
}

// DefaultRankerParams returns the tuned ranker constants.
func DefaultRankerParams() RankerParams {
	return RankerParams{
		MinGames:            10,
		FullConfidenceGames: 20,
		DecayConstant:       5,
		TopScore:            90,
		UnseenScore:         40,
	}
}

// Ranker scores discrete choices by confidence-adjusted win-rate rank.
type Ranker struct {
	p RankerParams
}

// NewRanker returns a ranker with the given params.
func NewRanker(p RankerParams) *Ranker {
	return &Ranker{p: p}
}

// rankedOption pairs a choice key with its record for sorting.
type rankedOption struct {
	Choice string
	stats.ChoiceStats
}

// reliableOptions filters the table to the confidence floor and sorts
// descending by win rate (games, then key, break ties for determinism).
func (r *Ranker) reliableOptions(options stats.ChoiceTable) []rankedOption {
	out := make([]rankedOption, 0, len(options))
	for choice, rec := range options {
		if rec.Games < r.p.MinGames {
			continue
		}
		out = append(out, rankedOption{Choice: choice, ChoiceStats: rec})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].WinRate(), out[j].WinRate()
		if ri != rj {
			return ri > rj
		}
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Choice < out[j].Choice
	})
	return out
}

// RankChoice scores the player's choice against the cohort's options.
//
// The exact choice is located by 1-indexed rank among the reliable options;
// a below-floor choice with at least one observation ranks just past the end
// of the reliable list. An entirely unseen choice gets the fixed unseen
// score. score = round(TopScore * e^(-(rank-1)/DecayConstant)).
func (r *Ranker) RankChoice(category, playerChoice string, options stats.ChoiceTable) model.BuildChoiceResult {
	res := model.BuildChoiceResult{
		Category:     category,
		PlayerChoice: playerChoice,
	}

	reliable := r.reliableOptions(options)
	res.TotalOptions = len(reliable)
	if len(reliable) > 0 {
		res.TopChoice = reliable[0].Choice
		res.TopWinRate = reliable[0].WinRate()
	}

	rec, seen := options[playerChoice]
	if !seen || rec.Games == 0 {
		res.Unseen = true
		res.Score = r.p.UnseenScore
		return res
	}

	res.PlayerGames = rec.Games
	res.PlayerWinRate = rec.WinRate()
	res.Confidence = r.Confidence(rec.Games)

	rank := len(reliable) + 1
	for i := range reliable {
		if reliable[i].Choice == playerChoice {
			rank = i + 1
			break
		}
	}
	res.Rank = rank
	res.IsTopTier = rank <= 3 && rank <= len(reliable)
	res.Score = r.scoreFromRank(rank)
	return res
}

// scoreFromRank applies the exponential rank decay, clamped at 0.
func (r *Ranker) scoreFromRank(rank int) float64 {
	s := math.Round(r.p.TopScore * math.Exp(-float64(rank-1)/r.p.DecayConstant))
	if s < 0 {
		return 0
	}
	return s
}

// Confidence is a monotonic weight in [0,1], saturating once the full-
// confidence games threshold is reached.
func (r *Ranker) Confidence(games int) float64 {
	if r.p.FullConfidenceGames <= 0 || games >= r.p.FullConfidenceGames {
		return 1
	}
	if games <= 0 {
		return 0
	}
	return float64(games) / float64(r.p.FullConfidenceGames)
}

// BestOption is one candidate from BestChoices, ranked by its Wilson lower
// bound rather than raw win rate.
type BestOption struct {
	Choice     string
	Games      int
	Wins       int
	WinRate    float64
	LowerBound float64
}

// BestChoices ranks the cohort's options for one category by the 95% Wilson
// lower bound of the true win probability, excluding candidates below the
// minimum-games floor. Used for "best build" selection, not per-match
// scoring: it refuses to recommend a 1-game 100%-win-rate fluke.
func (r *Ranker) BestChoices(options stats.ChoiceTable) []BestOption {
	out := make([]BestOption, 0, len(options))
	for choice, rec := range options {
		if rec.Games < r.p.MinGames {
			continue
		}
		out = append(out, BestOption{
			Choice:     choice,
			Games:      rec.Games,
			Wins:       rec.Wins,
			WinRate:    rec.WinRate(),
			LowerBound: stats.WilsonLowerBound(rec.Wins, rec.Games),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LowerBound != out[j].LowerBound {
			return out[i].LowerBound > out[j].LowerBound
		}
		return out[i].Choice < out[j].Choice
	})
	return out
}
