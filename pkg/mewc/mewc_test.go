package mewc

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
)

func paperGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return buildGraph(t, 4, [][3]int64{{1, 2, 6}, {1, 3, 3}, {1, 4, 4}, {2, 4, 5}})
}

func buildGraph(t *testing.T, n int, edges [][3]int64) *graph.Graph {
	t.Helper()
	g := graph.New()
	for id := 1; id <= n; id++ {
		require.NoError(t, g.AddVertex(id))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(int(e[0]), int(e[1]), e[2]))
	}
	return g
}

func completeGraph(t *testing.T, n int, w int64) *graph.Graph {
	t.Helper()
	var edges [][3]int64
	for u := 1; u <= n; u++ {
		for v := u + 1; v <= n; v++ {
			edges = append(edges, [3]int64{int64(u), int64(v), w})
		}
	}
	return buildGraph(t, n, edges)
}

// randomGraph builds a G(n, p) instance with weights in 1..100.
func randomGraph(t *testing.T, seed uint64, n int, p float64) *graph.Graph {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	g := graph.New()
	for id := 1; id <= n; id++ {
		require.NoError(t, g.AddVertex(id))
	}
	for u := 1; u <= n; u++ {
		for v := u + 1; v <= n; v++ {
			if rng.Float64() < p {
				require.NoError(t, g.AddEdge(u, v, 1+rng.Int64N(100)))
			}
		}
	}
	return g
}

// bruteForce returns the maximum clique weight by checking every subset.
func bruteForce(g *graph.Graph) int64 {
	ids := g.Vertices()
	var best int64
	for mask := 1; mask < 1<<len(ids); mask++ {
		var set []int
		for i, id := range ids {
			if mask&(1<<i) != 0 {
				set = append(set, id)
			}
		}
		if w, ok := graph.CliqueWeight(g, set); ok && w > best {
			best = w
		}
	}
	return best
}

func requireValid(t *testing.T, g *graph.Graph, res Result) {
	t.Helper()
	members := res.Clique.Members()
	w, ok := graph.CliqueWeight(g, members)
	require.True(t, ok, "%s returned a non-clique %v", res.Strategy, members)
	require.Equal(t, w, res.Clique.Weight(), "%s reported a wrong weight", res.Strategy)
}

func TestPaperCase(t *testing.T) {
	g := paperGraph(t)

	res, err := Solve(context.Background(), g, Exact, Options{})
	require.NoError(t, err)
	require.True(t, res.Complete)
	require.Equal(t, []int{1, 2, 4}, res.Clique.Members())
	require.Equal(t, int64(15), res.Clique.Weight())

	for _, s := range Strategies() {
		t.Run(string(s), func(t *testing.T) {
			res, err := Solve(context.Background(), g, s, Options{})
			require.NoError(t, err)
			requireValid(t, g, res)
			require.Equal(t, s, res.Strategy)
			require.LessOrEqual(t, res.Clique.Weight(), int64(15))
		})
	}
}

func TestHeuristicsOnPaperCase(t *testing.T) {
	g := paperGraph(t)
	for _, s := range []Strategy{Constructive, LocalSearch} {
		res, err := Solve(context.Background(), g, s, Options{})
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 4}, res.Clique.Members(), s)
	}
}

func TestCompleteGraph(t *testing.T) {
	const w = 3
	for n := 1; n <= 8; n++ {
		g := completeGraph(t, n, w)
		want := int64(w * n * (n - 1) / 2)

		res, err := Solve(context.Background(), g, Exact, Options{})
		require.NoError(t, err)
		require.Equal(t, n, res.Clique.Size(), "K%d", n)
		require.Equal(t, want, res.Clique.Weight(), "K%d", n)

		res, err = Solve(context.Background(), g, Constructive, Options{})
		require.NoError(t, err)
		require.Equal(t, want, res.Clique.Weight(), "K%d constructive", n)

		if n >= 2 {
			res, err = Solve(context.Background(), g, LocalSearch, Options{})
			require.NoError(t, err)
			require.Equal(t, want, res.Clique.Weight(), "K%d local search", n)
		}
	}
}

func TestZeroEdges(t *testing.T) {
	graphs := map[string]*graph.Graph{
		"empty":    graph.New(),
		"single":   buildGraph(t, 1, nil),
		"isolated": buildGraph(t, 5, nil),
	}
	for name, g := range graphs {
		for _, s := range Strategies() {
			t.Run(name+"/"+string(s), func(t *testing.T) {
				res, err := Solve(context.Background(), g, s, Options{})
				require.NoError(t, err)
				requireValid(t, g, res)
				require.LessOrEqual(t, res.Clique.Size(), 1)
				require.Zero(t, res.Clique.Weight())
				if g.VertexCount() == 0 {
					require.True(t, res.Clique.IsEmpty())
				}
			})
		}
	}
}

func TestSmallGraphsAgainstBruteForce(t *testing.T) {
	ctx := context.Background()
	for seed := uint64(1); seed <= 40; seed++ {
		n := 4 + int(seed%9) // 4..12
		p := []float64{0.2, 0.5, 0.8}[seed%3]
		g := randomGraph(t, seed, n, p)
		optimum := bruteForce(g)

		exact, err := Solve(ctx, g, Exact, Options{})
		require.NoError(t, err)
		requireValid(t, g, exact)
		require.Equal(t, optimum, exact.Clique.Weight(), "seed %d", seed)

		for _, s := range []Strategy{Constructive, LocalSearch, Grasp} {
			res, err := Solve(ctx, g, s, Options{Seed: seed})
			require.NoError(t, err)
			requireValid(t, g, res)
			require.GreaterOrEqual(t, res.Clique.Weight(), int64(0))
			require.LessOrEqual(t, res.Clique.Weight(), exact.Clique.Weight(), "seed %d %s", seed, s)
		}
	}
}

func TestExactAtLeastConstructive(t *testing.T) {
	ctx := context.Background()
	for seed := uint64(100); seed < 120; seed++ {
		g := randomGraph(t, seed, 15, 0.6)
		for _, r := range []Ranking{RankDegree, RankWeight} {
			c, err := Solve(ctx, g, Constructive, Options{Ranking: r})
			require.NoError(t, err)
			e, err := Solve(ctx, g, Exact, Options{})
			require.NoError(t, err)
			require.GreaterOrEqual(t, e.Clique.Weight(), c.Clique.Weight())
		}
	}
}

func TestLocalSearchTraceIncreases(t *testing.T) {
	ctx := context.Background()
	for seed := uint64(1); seed <= 20; seed++ {
		g := randomGraph(t, seed, 30, 0.5)
		res, err := Solve(ctx, g, LocalSearch, Options{})
		require.NoError(t, err)
		requireValid(t, g, res)

		require.NotEmpty(t, res.Trace)
		for i := 1; i < len(res.Trace); i++ {
			require.Greater(t, res.Trace[i], res.Trace[i-1], "trace must increase: %v", res.Trace)
		}
		require.Equal(t, res.Trace[len(res.Trace)-1], res.Clique.Weight())
	}
}

func TestDeterministicWeight(t *testing.T) {
	g := randomGraph(t, 7, 25, 0.5)
	for _, s := range Strategies() {
		a, err := Solve(context.Background(), g, s, Options{Seed: 9})
		require.NoError(t, err)
		b, err := Solve(context.Background(), g, s, Options{Seed: 9})
		require.NoError(t, err)
		require.True(t, a.Clique.Equal(b.Clique), "%s: %v vs %v", s, a.Clique, b.Clique)

		w1, _ := graph.CliqueWeight(g, a.Clique.Members())
		w2, _ := graph.CliqueWeight(g, a.Clique.Members())
		require.Equal(t, w1, w2)
	}
}

func TestGraspInjectedRand(t *testing.T) {
	g := randomGraph(t, 3, 20, 0.5)
	run := func() Result {
		res, err := Solve(context.Background(), g, Grasp, Options{
			Rand:       rand.New(rand.NewPCG(11, 12)),
			GraspAlpha: 1,
		})
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	require.True(t, a.Clique.Equal(b.Clique))
	requireValid(t, g, a)
}

func TestGraspPurelyGreedy(t *testing.T) {
	// With alpha 0 only the heaviest candidates are admissible; ties are
	// broken at random but the construction never picks a lighter vertex.
	g := buildGraph(t, 3, [][3]int64{{1, 2, 10}})
	res, err := Solve(context.Background(), g, Grasp, Options{GraspAlpha: 0})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, res.Clique.Members())
}

func TestConstructiveRanking(t *testing.T) {
	// Vertex 1 has the highest degree; the heaviest edge is elsewhere.
	g := buildGraph(t, 6, [][3]int64{{1, 2, 1}, {1, 3, 1}, {1, 4, 1}, {5, 6, 100}})

	res, err := Solve(context.Background(), g, Constructive, Options{Ranking: RankDegree})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, res.Clique.Members())

	res, err = Solve(context.Background(), g, Constructive, Options{Ranking: RankWeight})
	require.NoError(t, err)
	require.Equal(t, []int{5, 6}, res.Clique.Members())
	require.Equal(t, int64(100), res.Clique.Weight())
}

func TestLocalSearchLocalOptimum(t *testing.T) {
	// The seed grows around the hub 1 into {1,2,3}. No single removal gains
	// more than it loses and the clique is too small for pair removals, so the
	// search stops short of the heavy triangle {5,6,7}.
	g := buildGraph(t, 7, [][3]int64{
		{1, 2, 1}, {1, 3, 1}, {1, 4, 1}, {1, 5, 1},
		{2, 3, 1}, {2, 4, 1},
		{5, 6, 50}, {5, 7, 50}, {6, 7, 50},
	})
	res, err := Solve(context.Background(), g, LocalSearch, Options{})
	require.NoError(t, err)
	requireValid(t, g, res)
	require.Equal(t, []int{1, 2, 3}, res.Clique.Members())
	require.Equal(t, []int64{3}, res.Trace)

	exact, err := Solve(context.Background(), g, Exact, Options{})
	require.NoError(t, err)
	require.Equal(t, []int{5, 6, 7}, exact.Clique.Members())
	require.Equal(t, int64(150), exact.Clique.Weight())
}

func TestUnknownStrategy(t *testing.T) {
	_, err := ParseStrategy("tabu")
	require.ErrorIs(t, err, ErrUnknownStrategy)
	require.True(t, errs.Is(err, errs.ErrCodeInvalidStrategy))

	_, err = Solve(context.Background(), paperGraph(t), Strategy("tabu"), Options{})
	require.ErrorIs(t, err, ErrUnknownStrategy)
	require.Equal(t, errs.ErrCodeInvalidStrategy, errs.GetCode(err))
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"exact", Exact},
		{"constructive", Constructive},
		{"local-search", LocalSearch},
		{"local_search", LocalSearch},
		{" GRASP ", Grasp},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got)
	}
	require.Equal(t, "local_search", LocalSearch.FileSuffix())
}

func TestIterationBudget(t *testing.T) {
	g := randomGraph(t, 5, 40, 0.7)
	for _, s := range Strategies() {
		t.Run(string(s), func(t *testing.T) {
			res, err := Solve(context.Background(), g, s, Options{MaxIterations: 3})
			require.NoError(t, err)
			require.False(t, res.Complete)
			require.LessOrEqual(t, res.Iterations, int64(3))
			requireValid(t, g, res)
		})
	}
}

func TestCanceledContext(t *testing.T) {
	g := randomGraph(t, 5, 30, 0.6)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range Strategies() {
		res, err := Solve(ctx, g, s, Options{})
		require.True(t, errors.Is(err, context.Canceled), "%s: %v", s, err)
		require.False(t, res.Complete)
		requireValid(t, g, res)
	}
}

func TestInvalidOptions(t *testing.T) {
	_, err := Solve(context.Background(), paperGraph(t), Grasp, Options{GraspAlpha: 2})
	require.Error(t, err)
	require.Equal(t, errs.ErrCodeInvalidConfig, errs.GetCode(err))

	_, err = Solve(context.Background(), paperGraph(t), Constructive, Options{Ranking: "random"})
	require.Error(t, err)
}

func TestInvalidAlphaRejected(t *testing.T) {
	g := paperGraph(t)
	for _, alpha := range []float64{math.NaN(), math.Inf(1), -0.5} {
		_, err := Solve(context.Background(), g, Grasp, Options{GraspAlpha: alpha})
		require.Error(t, err, "alpha %v", alpha)
		require.Equal(t, errs.ErrCodeInvalidConfig, errs.GetCode(err))
	}
}

func TestDefaultOptionsEditedAreChecked(t *testing.T) {
	g := paperGraph(t)

	opts := DefaultOptions()
	opts.GraspAlpha = -1
	_, err := Solve(context.Background(), g, Grasp, opts)
	require.Error(t, err)

	opts = DefaultOptions()
	opts.Ranking = "bogus"
	_, err = Solve(context.Background(), g, Constructive, opts)
	require.Error(t, err)

	opts = DefaultOptions()
	require.NoError(t, opts.ValidateAndSetDefaults())
	require.NoError(t, opts.ValidateAndSetDefaults())
	require.Equal(t, DefaultGraspTrials, opts.GraspTrials)
}

func TestGraspConstructionFallsBackToTopCandidate(t *testing.T) {
	g := randomGraph(t, 3, 12, 0.6)
	opts := DefaultOptions()
	opts.GraspAlpha = math.NaN() // no candidate passes the threshold

	v := newView(g)
	members, err := searchGrasp(v, newBudget(context.Background(), Grasp, &opts), &opts)
	require.NoError(t, err)
	require.NotEmpty(t, members)
	_, err = v.clique(g, members)
	require.NoError(t, err)
}

func TestExactTieKeepsFirstEnumerated(t *testing.T) {
	// two disjoint triangles of weight 15; the one holding vertex 1 is
	// enumerated first
	g := buildGraph(t, 6, [][3]int64{
		{4, 5, 5}, {4, 6, 5}, {5, 6, 5},
		{1, 2, 5}, {1, 3, 5}, {2, 3, 5},
	})
	for range 3 {
		res, err := Solve(context.Background(), g, Exact, Options{})
		require.NoError(t, err)
		require.True(t, res.Complete)
		require.Equal(t, int64(15), res.Clique.Weight())
		require.Equal(t, []int{1, 2, 3}, res.Clique.Members())
	}
}

func TestTimeoutBudget(t *testing.T) {
	g := randomGraph(t, 9, 60, 0.9)
	for _, s := range Strategies() {
		t.Run(string(s), func(t *testing.T) {
			res, err := Solve(context.Background(), g, s, Options{Timeout: time.Nanosecond})
			require.NoError(t, err)
			require.False(t, res.Complete)
			requireValid(t, g, res)
		})
	}
}

func TestProgressEvents(t *testing.T) {
	var events []ProgressEvent
	res, err := Solve(context.Background(), paperGraph(t), Exact, Options{
		Progress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	require.True(t, last.Improved)
	require.Equal(t, res.Clique.Weight(), last.Weight)
	require.Equal(t, Exact, last.Strategy)
}

func TestEnumerateMaximalCliques(t *testing.T) {
	var got [][]int
	err := EnumerateMaximalCliques(context.Background(), paperGraph(t), func(c graph.Clique) bool {
		got = append(got, c.Members())
		return true
	})
	require.NoError(t, err)
	require.Equal(t, [][]int{{1, 2, 4}, {1, 3}}, got)

	count := 0
	err = EnumerateMaximalCliques(context.Background(), paperGraph(t), func(graph.Clique) bool {
		count++
		return false
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSolverDoesNotMutateGraph(t *testing.T) {
	g := randomGraph(t, 21, 20, 0.5)
	before := g.Edges()
	for _, s := range Strategies() {
		_, err := Solve(context.Background(), g, s, Options{})
		require.NoError(t, err)
	}
	require.Equal(t, before, g.Edges())
	require.NoError(t, g.Validate())
}
