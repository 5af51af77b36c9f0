package itinerary_test

import (
	"math"
	"testing"
	"time"

	"git.solver4all.com/azaryc2s/itinerary"
	"git.solver4all.com/azaryc2s/itinerary/milp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enumSolver is an exact Solver for tiny instances: it enumerates every
// day-partition and every per-day visiting order, keeps only assignments
// the model itself accepts via Violated, and returns the best one. The
// degree and path-count rows restrict each day to one chain over its
// visited attractions, so chains per partition are the whole feasible
// space and the enumeration is complete. Ties on the objective go to the
// assignment visiting more attractions. It lets the full pipeline run
// without a MILP install.
type enumSolver struct {
	inst *itinerary.Instance
	req  itinerary.Request
}

func (s *enumSolver) Solve(m *milp.Model, _ time.Duration) (milp.Result, error) {
	// rebuilding the model yields the identical variable layout, so the
	// index helpers can address the passed model's assignment vector
	pm, err := itinerary.BuildModel(s.inst, s.req)
	if err != nil {
		return milp.Result{}, err
	}
	n, d := pm.N, pm.D

	best := milp.Result{Status: milp.Infeasible}
	bestVisited := -1

	assign := make([]int, n) // day index per attraction, -1 = skipped
	var walk func(i int)
	walk = func(i int) {
		if i < n {
			for day := -1; day < d; day++ {
				assign[i] = day
				walk(i + 1)
			}
			return
		}
		days := make([][]int, d)
		for a, day := range assign {
			if day >= 0 {
				days[day] = append(days[day], a)
			}
		}
		for _, routes := range orderings(days) {
			x := buildAssignment(pm, routes)
			if m.Violated(x, 1e-9) != "" {
				continue
			}
			obj := m.EvalObjective(x)
			visited := 0
			for _, r := range routes {
				visited += len(r)
			}
			if best.X == nil || obj > best.Obj+1e-9 ||
				(math.Abs(obj-best.Obj) <= 1e-9 && visited > bestVisited) {
				best = milp.Result{Status: milp.Optimal, X: x, Obj: obj, Bound: obj}
				bestVisited = visited
			}
		}
	}
	walk(0)
	return best, nil
}

// orderings expands per-day subsets into every combination of per-day
// visiting orders.
func orderings(days [][]int) [][][]int {
	result := [][][]int{{}}
	for _, subset := range days {
		perms := permutations(subset)
		var next [][][]int
		for _, prefix := range result {
			for _, p := range perms {
				combined := make([][]int, len(prefix), len(prefix)+1)
				copy(combined, prefix)
				next = append(next, append(combined, p))
			}
		}
		result = next
	}
	return result
}

func permutations(set []int) [][]int {
	if len(set) == 0 {
		return [][]int{{}}
	}
	var result [][]int
	for i, v := range set {
		rest := make([]int, 0, len(set)-1)
		rest = append(rest, set[:i]...)
		rest = append(rest, set[i+1:]...)
		for _, p := range permutations(rest) {
			result = append(result, append([]int{v}, p...))
		}
	}
	return result
}

// buildAssignment translates per-day routes into the model's variable
// vector: visits, consecutive arcs, 1-based path positions and the
// day-used flags.
func buildAssignment(pm *itinerary.PlanModel, routes [][]int) []float64 {
	x := make([]float64, len(pm.Model.Vars))
	for day, route := range routes {
		if len(route) > 0 {
			x[pm.UsedIndex(day)] = 1.0
		}
		for pos, a := range route {
			x[pm.VisitIndex(a, day)] = 1.0
			x[pm.OrderIndex(a, day)] = float64(pos + 1)
			if pos > 0 {
				x[pm.ArcIndex(route[pos-1], a, day)] = 1.0
			}
		}
	}
	return x
}

func delhiInstance() *itinerary.Instance {
	attractions := []itinerary.Attraction{
		{Name: "Red Fort", AvgTimeHr: 2, EntryFee: 100, FunScore: 5, Category: "history"},
		{Name: "Akshardham", AvgTimeHr: 3, EntryFee: 150, FunScore: 8, Category: "culture"},
		{Name: "Lotus Temple", AvgTimeHr: 1, EntryFee: 50, FunScore: 3, Category: "culture"},
	}
	return &itinerary.Instance{
		Name:        "delhi-mini",
		Attractions: attractions,
		Distances:   uniformDistances(len(attractions), 1.0),
	}
}

func uniformDistances(n int, km float64) [][]float64 {
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			if i != j {
				d[i][j] = km
			}
		}
	}
	return d
}

func TestPlan_SingleDayScenario(t *testing.T) {
	inst := delhiInstance()
	req := itinerary.Request{
		NumDays:      1,
		DailyHours:   5,
		DailyBudget:  300,
		Alpha:        0,
		CostPerKm:    20,
		AvgSpeedKmph: 20,
	}

	it, res, err := itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
	require.NoError(t, err)
	require.Equal(t, milp.Optimal, it.Status)

	// Akshardham+Lotus Temple (fun 11, 4.05h, cost 220) beats every other
	// feasible set under the 5 hour cap.
	assert.ElementsMatch(t, []int{1, 2}, it.Days[0].Attractions)
	assert.InDelta(t, 11.0, it.Summary.TotalFun, 1e-9)
	assert.InDelta(t, 11.0, res.Obj, 1e-9)
	assert.InDelta(t, 4.05, it.Days[0].TimeHr, 1e-9)
	assert.InDelta(t, 220.0, it.Days[0].Cost, 1e-9)
	assert.InDelta(t, 1.0, it.Days[0].DistanceKm, 1e-9)
	assert.Equal(t, 2, it.Summary.VisitedCount)
	assert.Equal(t, 1, it.Summary.OmittedCount)

	// same inputs, same itinerary
	again, _, err := itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
	require.NoError(t, err)
	assert.Equal(t, it, again)
}

func TestPlan_ZeroDistancesSelectsByFun(t *testing.T) {
	inst := &itinerary.Instance{
		Name: "zero-dist",
		Attractions: []itinerary.Attraction{
			{Name: "a", AvgTimeHr: 2, FunScore: 9},
			{Name: "b", AvgTimeHr: 2, FunScore: 7},
			{Name: "c", AvgTimeHr: 2, FunScore: 5},
			{Name: "d", AvgTimeHr: 2, FunScore: 3},
		},
		Distances: uniformDistances(4, 0),
	}
	req := itinerary.Request{NumDays: 1, DailyHours: 5, DailyBudget: 100, CostPerKm: 10}

	it, _, err := itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
	require.NoError(t, err)
	require.Equal(t, milp.Optimal, it.Status)
	assert.ElementsMatch(t, []int{0, 1}, it.Days[0].Attractions)
	assert.InDelta(t, 16.0, it.Summary.TotalFun, 1e-9)
	assert.Zero(t, it.Summary.TotalDistanceKm)
}

func TestPlan_PositiveAlphaKeepsDayConnected(t *testing.T) {
	inst := &itinerary.Instance{
		Name: "connected",
		Attractions: []itinerary.Attraction{
			{Name: "a", AvgTimeHr: 1, EntryFee: 10, FunScore: 6},
			{Name: "b", AvgTimeHr: 1, EntryFee: 10, FunScore: 7},
			{Name: "c", AvgTimeHr: 1, EntryFee: 10, FunScore: 5},
			{Name: "d", AvgTimeHr: 1, EntryFee: 10, FunScore: 4},
		},
		Distances: uniformDistances(4, 1.0),
	}
	req := itinerary.Request{NumDays: 1, DailyHours: 8, DailyBudget: 500, Alpha: 0.5, CostPerKm: 10}

	it, _, err := itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
	require.NoError(t, err)
	require.Equal(t, milp.Optimal, it.Status)

	// the distance penalty rewards dropping arcs, but a day must stay one
	// chain: all four visits pay for all three connecting hops
	assert.Len(t, it.Days[0].Attractions, 4)
	assert.InDelta(t, 3.0, it.Days[0].DistanceKm, 1e-9)
	assert.InDelta(t, 22.0, it.Summary.TotalFun, 1e-9)
}

func TestPlan_SingleAttractionDay(t *testing.T) {
	inst := &itinerary.Instance{
		Name: "solo",
		Attractions: []itinerary.Attraction{
			{Name: "only", AvgTimeHr: 2, EntryFee: 100, FunScore: 5},
		},
		Distances: uniformDistances(1, 0),
	}
	req := itinerary.Request{NumDays: 1, DailyHours: 8, DailyBudget: 500, CostPerKm: 20}

	it, _, err := itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
	require.NoError(t, err)
	require.Equal(t, milp.Optimal, it.Status)
	assert.Equal(t, []int{0}, it.Days[0].Attractions)
	assert.InDelta(t, 5.0, it.Summary.TotalFun, 1e-9)
	assert.Zero(t, it.Summary.TotalDistanceKm)
	assert.Equal(t, 1, it.Summary.VisitedCount)
}

func TestPlan_ZeroBudgetIsInfeasible(t *testing.T) {
	inst := delhiInstance()
	req := itinerary.Request{NumDays: 2, DailyHours: 8, DailyBudget: 0, CostPerKm: 20}

	it, _, err := itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
	require.NoError(t, err)
	assert.Equal(t, milp.Infeasible, it.Status)
	require.Len(t, it.Days, 2)
	for _, day := range it.Days {
		assert.Empty(t, day.Attractions)
	}
	assert.Zero(t, it.Summary.VisitedCount)
	assert.Equal(t, 3, it.Summary.OmittedCount)
}

func TestPlan_AlphaMonotonicity(t *testing.T) {
	inst := delhiInstance()
	base := itinerary.Request{NumDays: 1, DailyHours: 6, DailyBudget: 400, CostPerKm: 20}

	funAt := func(alpha float64) float64 {
		req := base
		req.Alpha = alpha
		it, _, err := itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
		require.NoError(t, err)
		return it.Summary.TotalFun
	}

	// shrinking the distance penalty can only keep or raise the best fun
	assert.GreaterOrEqual(t, funAt(0)+1e-9, funAt(0.5))
	assert.GreaterOrEqual(t, funAt(0.5)+1e-9, funAt(5))
}

func TestPlan_MultiDayRespectsBudgetsAndUniqueness(t *testing.T) {
	inst := &itinerary.Instance{
		Name: "two-days",
		Attractions: []itinerary.Attraction{
			{Name: "a", AvgTimeHr: 2, EntryFee: 100, FunScore: 6},
			{Name: "b", AvgTimeHr: 2, EntryFee: 120, FunScore: 7},
			{Name: "c", AvgTimeHr: 1.5, EntryFee: 80, FunScore: 4},
			{Name: "d", AvgTimeHr: 1, EntryFee: 60, FunScore: 5},
		},
		Distances: uniformDistances(4, 2.0),
	}
	req := itinerary.Request{NumDays: 2, DailyHours: 4, DailyBudget: 250, Alpha: 0.01, CostPerKm: 10}

	it, _, err := itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
	require.NoError(t, err)
	require.Len(t, it.Days, 2)

	seen := map[int]bool{}
	for _, day := range it.Days {
		assert.LessOrEqual(t, day.TimeHr, req.DailyHours+1e-9)
		assert.LessOrEqual(t, day.Cost, req.DailyBudget+1e-9)
		for _, a := range day.Attractions {
			assert.False(t, seen[a], "attraction %d planned twice", a)
			seen[a] = true
		}
	}
	assert.Equal(t, len(seen), it.Summary.VisitedCount)
}

func TestPlan_ThematicWeightsSteerSelection(t *testing.T) {
	inst := &itinerary.Instance{
		Name: "themed",
		Attractions: []itinerary.Attraction{
			{Name: "museum", AvgTimeHr: 2, EntryFee: 50, FunScore: 6, Category: "history"},
			{Name: "fort", AvgTimeHr: 2, EntryFee: 50, FunScore: 6, Category: "history"},
			{Name: "market", AvgTimeHr: 2, EntryFee: 50, FunScore: 7, Category: "food"},
			{Name: "bazaar", AvgTimeHr: 2, EntryFee: 50, FunScore: 7, Category: "food"},
		},
		Distances: uniformDistances(4, 1.0),
	}
	req := itinerary.Request{NumDays: 1, DailyHours: 4.5, DailyBudget: 500, CostPerKm: 5}

	it, _, err := itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 3}, it.Days[0].Attractions)

	req.ThematicWeights = map[string]float64{"history": 2.0, "food": 0.5}
	it, _, err = itinerary.Plan(inst, req, &enumSolver{inst: inst, req: req})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1}, it.Days[0].Attractions)
	// totals report the weighted scores the objective optimized
	assert.InDelta(t, 24.0, it.Summary.TotalFun, 1e-9)
}

// stubSolver hands back a canned result.
type stubSolver struct {
	res milp.Result
}

func (s *stubSolver) Solve(_ *milp.Model, _ time.Duration) (milp.Result, error) {
	return s.res, nil
}

func TestPlan_TimedOutKeepsIncumbent(t *testing.T) {
	inst := delhiInstance()
	req := itinerary.Request{NumDays: 1, DailyHours: 8, DailyBudget: 500, CostPerKm: 20}

	pm, err := itinerary.BuildModel(inst, req)
	require.NoError(t, err)
	x := buildAssignment(pm, [][]int{{0, 2}})

	it, _, err := itinerary.Plan(inst, req, &stubSolver{res: milp.Result{Status: milp.TimedOut, X: x, Obj: 8}})
	require.NoError(t, err)
	assert.Equal(t, milp.TimedOut, it.Status)
	assert.Equal(t, []int{0, 2}, it.Days[0].Attractions)
	assert.InDelta(t, 8.0, it.Summary.TotalFun, 1e-9)
}

func TestPlan_TimedOutWithoutIncumbent(t *testing.T) {
	inst := delhiInstance()
	req := itinerary.Request{NumDays: 1, DailyHours: 8, DailyBudget: 500, CostPerKm: 20}

	it, _, err := itinerary.Plan(inst, req, &stubSolver{res: milp.Result{Status: milp.TimedOut}})
	require.NoError(t, err)
	assert.Equal(t, milp.TimedOut, it.Status)
	assert.Empty(t, it.Days[0].Attractions)
	assert.Equal(t, 3, it.Summary.OmittedCount)
}
