// Package phase defines the budget phase sequence and the capability set each
// phase grants. Everything here is a pure table lookup so the query engine,
// the ballot engine and the authoring service all read the same rules.
package phase

import "slices"

// Kind identifies a budget phase.
type Kind string

const (
	Informing        Kind = "informing"
	Accepting        Kind = "accepting"
	Reviewing        Kind = "reviewing"
	Selecting        Kind = "selecting"
	Valuating        Kind = "valuating"
	PublishingPrices Kind = "publishing_prices"
	Balloting        Kind = "balloting"
	ReviewingBallots Kind = "reviewing_ballots"
	Finished         Kind = "finished"
)

// Sort names an investment ordering.
type Sort string

const (
	SortRandom          Sort = "random"
	SortConfidenceScore Sort = "confidence_score"
	SortPrice           Sort = "price"
	SortMostRecent      Sort = "most_recent"
)

// Filter names an investment classification filter.
type Filter string

const (
	FilterNotUnfeasible Filter = "not_unfeasible"
	FilterFeasible      Filter = "feasible"
	FilterUnfeasible    Filter = "unfeasible"
	FilterUnselected    Filter = "unselected"
	FilterSelected      Filter = "selected"
	FilterWinners       Filter = "winners"
)

// Filters lists every filter in presentation order.
var Filters = []Filter{
	FilterNotUnfeasible, FilterFeasible, FilterUnfeasible,
	FilterUnselected, FilterSelected, FilterWinners,
}

// Sequence is the forward order of phases.
var Sequence = []Kind{
	Informing, Accepting, Reviewing, Selecting, Valuating,
	PublishingPrices, Balloting, ReviewingBallots, Finished,
}

// Capabilities is the set of actions and attributes a phase makes legal.
type Capabilities struct {
	Phase                Kind   `json:"phase"`
	InvestmentsCreatable bool   `json:"investments_creatable"`
	InvestmentsEditable  bool   `json:"investments_editable"`
	PricesPublished      bool   `json:"prices_published"`
	ResultsVisible       bool   `json:"results_visible"`
	WinnerVisible        bool   `json:"winner_visible"`
	BallotOpen           bool   `json:"ballot_open"`
	DefaultSort          Sort   `json:"default_sort"`
	Sorts                []Sort `json:"sorts"`
	DefaultFilter        Filter `json:"default_filter"`
}

var table = map[Kind]Capabilities{
	Informing: {
		DefaultSort:   SortRandom,
		Sorts:         []Sort{SortRandom},
		DefaultFilter: FilterNotUnfeasible,
	},
	Accepting: {
		InvestmentsCreatable: true,
		InvestmentsEditable:  true,
		DefaultSort:          SortMostRecent,
		Sorts:                []Sort{SortRandom, SortMostRecent},
		DefaultFilter:        FilterNotUnfeasible,
	},
	Reviewing: {
		DefaultSort:   SortRandom,
		Sorts:         []Sort{SortRandom, SortMostRecent},
		DefaultFilter: FilterNotUnfeasible,
	},
	Selecting: {
		DefaultSort:   SortConfidenceScore,
		Sorts:         []Sort{SortRandom, SortConfidenceScore, SortMostRecent},
		DefaultFilter: FilterNotUnfeasible,
	},
	Valuating: {
		DefaultSort:   SortConfidenceScore,
		Sorts:         []Sort{SortRandom, SortConfidenceScore},
		DefaultFilter: FilterNotUnfeasible,
	},
	PublishingPrices: {
		PricesPublished: true,
		DefaultSort:     SortRandom,
		Sorts:           []Sort{SortRandom, SortConfidenceScore},
		DefaultFilter:   FilterSelected,
	},
	Balloting: {
		PricesPublished: true,
		BallotOpen:      true,
		DefaultSort:     SortRandom,
		Sorts:           []Sort{SortRandom, SortConfidenceScore, SortPrice},
		DefaultFilter:   FilterSelected,
	},
	ReviewingBallots: {
		PricesPublished: true,
		DefaultSort:     SortRandom,
		Sorts:           []Sort{SortRandom, SortConfidenceScore},
		DefaultFilter:   FilterSelected,
	},
	Finished: {
		PricesPublished: true,
		WinnerVisible:   true,
		DefaultSort:     SortRandom,
		Sorts:           []Sort{SortRandom},
		DefaultFilter:   FilterWinners,
	},
}

// Valid reports whether k is one of the known phases.
func Valid(k Kind) bool {
	_, ok := table[k]
	return ok
}

// Normalize maps unknown phase names to Informing, the most restrictive phase.
func Normalize(k Kind) Kind {
	if Valid(k) {
		return k
	}
	return Informing
}

// CapabilitiesFor returns the capability set of phase k. resultsEnabled only
// matters for Finished, where it makes the results visible.
func CapabilitiesFor(k Kind, resultsEnabled bool) Capabilities {
	k = Normalize(k)
	c := table[k]
	c.Phase = k
	c.Sorts = slices.Clone(c.Sorts)
	if k == Finished && resultsEnabled {
		c.ResultsVisible = true
	}
	return c
}

// AllowsSort reports whether s is a legal ordering in this phase.
func (c Capabilities) AllowsSort(s Sort) bool {
	return slices.Contains(c.Sorts, s)
}

// Index returns the position of k in Sequence, or -1 when unknown.
func Index(k Kind) int {
	return slices.Index(Sequence, k)
}

// Next returns the first phase after current for which enabled reports true.
// A nil enabled func treats every phase as enabled. ok is false when current
// is the last phase or no later phase is enabled.
func Next(current Kind, enabled func(Kind) bool) (next Kind, ok bool) {
	i := Index(current)
	if i < 0 {
		return "", false
	}
	for _, k := range Sequence[i+1:] {
		if enabled == nil || enabled(k) {
			return k, true
		}
	}
	return "", false
}

// ValidFilter reports whether f is a known filter.
func ValidFilter(f Filter) bool {
	return slices.Contains(Filters, f)
}
