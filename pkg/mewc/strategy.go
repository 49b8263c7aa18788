package mewc

import (
	"errors"
	"strings"

	errs "github.com/matzehuels/mewc/pkg/errors"
)

// ErrUnknownStrategy is returned when a strategy selector does not name one of
// the supported solvers. It is always wrapped in a structured error with code
// INVALID_STRATEGY.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy selects the solver used by [Solve].
type Strategy string

const (
	// Exact enumerates maximal cliques with Bron–Kerbosch and pivoting.
	Exact Strategy = "exact"
	// Constructive is a single greedy pass over a vertex ranking.
	Constructive Strategy = "constructive"
	// LocalSearch improves a greedy seed by swapping out low-contribution
	// members until no improving move remains.
	LocalSearch Strategy = "local-search"
	// Grasp repeats randomized greedy construction followed by a bounded
	// local-search refinement.
	Grasp Strategy = "grasp"
)

// Strategies returns all supported strategies in a stable order.
func Strategies() []Strategy {
	return []Strategy{Exact, Constructive, LocalSearch, Grasp}
}

// String returns the selector name.
func (s Strategy) String() string { return string(s) }

// Description returns a one-line summary used in help text and pickers.
func (s Strategy) Description() string {
	switch s {
	case Exact:
		return "Bron–Kerbosch enumeration, optimal but exponential"
	case Constructive:
		return "single greedy pass, fastest"
	case LocalSearch:
		return "greedy seed improved by member swaps"
	case Grasp:
		return "randomized construction plus local refinement"
	default:
		return ""
	}
}

// ParseStrategy resolves a selector name. Underscores are accepted in place
// of dashes, so "local_search" matches the output file naming.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	switch s {
	case Exact, Constructive, LocalSearch, Grasp:
		return s, nil
	}
	return "", errs.Wrap(errs.ErrCodeInvalidStrategy, ErrUnknownStrategy, "%q (want one of exact, constructive, local-search, grasp)", name)
}

// FileSuffix returns the selector with dashes replaced by underscores,
// as used in result file names.
func (s Strategy) FileSuffix() string {
	return strings.ReplaceAll(string(s), "-", "_")
}
