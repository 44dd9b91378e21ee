package stats

import "github.com/riftlab/riftgrade/internal/model"

// ChoiceStats is the win/games record for one discrete option in a cohort.
type ChoiceStats struct {
	Games int
	Wins  int
}

// WinRate returns wins/games as a fraction, 0 when games is 0.
func (c ChoiceStats) WinRate() float64 {
	if c.Games == 0 {
		return 0
	}
	return float64(c.Wins) / float64(c.Games)
}

// ChoiceTable maps a normalized choice key to its record.
type ChoiceTable map[string]ChoiceStats

// CohortSnapshot is the aggregate for one cohort key: games/wins, Welford
// states per continuous metric and win/games tables per discrete category.
// The same shape serves both full snapshots read from the store and in-memory
// deltas accumulated by the buffer.
type CohortSnapshot struct {
	Key     model.CohortKey
	Games   uint64
	Wins    uint64
	Metrics map[string]Welford
	Choices map[string]ChoiceTable
}

// NewCohortSnapshot returns an empty snapshot for the key.
func NewCohortSnapshot(key model.CohortKey) *CohortSnapshot {
	return &CohortSnapshot{
		Key:     key,
		Metrics: make(map[string]Welford),
		Choices: make(map[string]ChoiceTable),
	}
}

// Empty reports whether the snapshot holds no observations.
func (s *CohortSnapshot) Empty() bool {
	return s == nil || s.Games == 0
}

// Metric returns the Welford state for a metric name; the zero state when
// the metric has never been observed.
func (s *CohortSnapshot) Metric(name string) Welford {
	if s == nil {
		return Welford{}
	}
	return s.Metrics[name]
}

// Choice returns the choice table for a category, which may be nil.
func (s *CohortSnapshot) Choice(category string) ChoiceTable {
	if s == nil {
		return nil
	}
	return s.Choices[category]
}

// Observe folds one match observation into the snapshot: every continuous
// metric updates its Welford state and every non-empty discrete key bumps
// its win/games record.
func (s *CohortSnapshot) Observe(o *model.MatchObservation) {
	s.Games++
	if o.Win {
		s.Wins++
	}
	for _, name := range model.AllMetrics {
		v, ok := o.Metric(name)
		if !ok {
			continue
		}
		w := s.Metrics[name]
		w.Update(v)
		s.Metrics[name] = w
	}
	for _, category := range model.AllCategories {
		choice := o.Choice(category)
		if choice == "" {
			continue
		}
		table := s.Choices[category]
		if table == nil {
			table = make(ChoiceTable)
			s.Choices[category] = table
		}
		rec := table[choice]
		rec.Games++
		if o.Win {
			rec.Wins++
		}
		table[choice] = rec
	}
}

// MergeInto folds another snapshot for the same key into this one.
func (s *CohortSnapshot) MergeInto(other *CohortSnapshot) {
	if other == nil {
		return
	}
	s.Games += other.Games
	s.Wins += other.Wins
	for name, w := range other.Metrics {
		s.Metrics[name] = Merge(s.Metrics[name], w)
	}
	for category, table := range other.Choices {
		dst := s.Choices[category]
		if dst == nil {
			dst = make(ChoiceTable)
			s.Choices[category] = dst
		}
		for choice, rec := range table {
			cur := dst[choice]
			cur.Games += rec.Games
			cur.Wins += rec.Wins
			dst[choice] = cur
		}
	}
}
