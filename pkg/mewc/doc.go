// Package mewc solves the Maximum Edge-Weighted Clique problem: find a set of
// pairwise connected vertices maximizing the total weight of the edges among
// them.
//
// # Strategies
//
// Four solvers share the [Solver] interface:
//
//   - [ExactSolver]: Bron–Kerbosch enumeration of maximal cliques with
//     pivoting. Optimal, exponential in the worst case.
//   - [ConstructiveSolver]: one greedy pass over a degree or weight ranking.
//   - [LocalSearchSolver]: greedy seed improved by removing low-contribution
//     members and re-extending the remainder.
//   - [GraspSolver]: randomized restricted-candidate construction followed by
//     bounded local-search refinement, best of several trials.
//
// [Solve] dispatches on a [Strategy]:
//
//	res, err := mewc.Solve(ctx, g, mewc.Exact, mewc.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Clique) // {1 2 4} w=15
//
// # Budgets
//
// Every solver honors Options.Timeout, Options.MaxIterations and ctx. The
// budget is checked every few hundred work units. On timeout or iteration
// exhaustion the best clique found so far is returned with Result.Complete
// false; on cancellation ctx.Err() is returned alongside it. Returned cliques
// are always valid.
//
// # Concurrency
//
// Solvers never modify the input graph and keep all search state local to
// the call, so one graph may be solved by several strategies at once. An
// Options.Rand shared between concurrent calls must not be used.
package mewc
