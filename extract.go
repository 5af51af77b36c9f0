package itinerary

import (
	"fmt"

	"git.solver4all.com/azaryc2s/itinerary/milp"
)

// Binary variables are rounded against this threshold; MILP backends may
// report values like 0.9999997 for a selected arc.
const binThreshold = 0.5

// overshootTol absorbs the solver's integrality slack scaled by the
// budget coefficients. Re-summed totals beyond it break the daily caps
// and the itinerary must not be returned.
const overshootTol = 1e-4

// Extract decodes a solve result into the day-partitioned itinerary. The
// arc set of every day is walked from the smallest-position visited
// attraction and must consume exactly the visited set; anything else is a
// formulation or tolerance defect and reported as ErrReconstruction. All
// per-day totals are re-summed from the reconstructed paths instead of
// trusting the solver's objective value.
func (pm *PlanModel) Extract(res milp.Result) (*Itinerary, error) {
	it := &Itinerary{Days: make([]Day, pm.D), Status: res.Status}
	for day := range it.Days {
		it.Days[day].Attractions = []int{}
	}
	if res.X == nil || res.Status == milp.Infeasible {
		it.Summary.OmittedCount = pm.N
		return it, nil
	}
	if len(res.X) != len(pm.Model.Vars) {
		return nil, fmt.Errorf("%w: assignment has %d values for %d variables", ErrReconstruction, len(res.X), len(pm.Model.Vars))
	}

	seenTrip := make([]bool, pm.N)
	for day := 0; day < pm.D; day++ {
		route, err := pm.reconstructDay(res.X, day)
		if err != nil {
			return nil, err
		}
		for _, i := range route {
			if seenTrip[i] {
				return nil, fmt.Errorf("%w: attraction %d appears on more than one day", ErrReconstruction, i)
			}
			seenTrip[i] = true
		}
		d := pm.dayTotals(route)
		if d.TimeHr > pm.Req.DailyHours+overshootTol {
			return nil, fmt.Errorf("%w: day route %v takes %.4f hours but only %.4f are allowed", ErrReconstruction, route, d.TimeHr, pm.Req.DailyHours)
		}
		if d.Cost > pm.Req.DailyBudget+overshootTol {
			return nil, fmt.Errorf("%w: day route %v costs %.4f but the budget is %.4f", ErrReconstruction, route, d.Cost, pm.Req.DailyBudget)
		}
		it.Days[day] = d
	}

	for _, d := range it.Days {
		it.Summary.TotalFun += d.Fun
		it.Summary.TotalDistanceKm += d.DistanceKm
		it.Summary.TotalCost += d.Cost
		it.Summary.TotalTimeHr += d.TimeHr
		it.Summary.VisitedCount += len(d.Attractions)
	}
	it.Summary.OmittedCount = pm.N - it.Summary.VisitedCount

	// An exhausted search that selected nothing means no attraction fits
	// the budgets at all - report that as "no itinerary possible".
	if it.Summary.VisitedCount == 0 && (res.Status == milp.Optimal || res.Status == milp.Feasible) {
		it.Status = milp.Infeasible
	}
	return it, nil
}

// reconstructDay walks the selected arcs of one day into a single path.
func (pm *PlanModel) reconstructDay(x []float64, day int) ([]int, error) {
	visited := make([]bool, pm.N)
	visitCount := 0
	for i := 0; i < pm.N; i++ {
		if x[pm.VisitIndex(i, day)] > binThreshold {
			visited[i] = true
			visitCount++
		}
	}

	succ := make(map[int]int)
	arcCount := 0
	for i := 0; i < pm.N; i++ {
		for j := 0; j < pm.N; j++ {
			if j == i || x[pm.ArcIndex(i, j, day)] <= binThreshold {
				continue
			}
			if !visited[i] || !visited[j] {
				return nil, fmt.Errorf("%w: day %d uses arc %d->%d touching an unvisited attraction", ErrReconstruction, day, i, j)
			}
			if _, dup := succ[i]; dup {
				return nil, fmt.Errorf("%w: day %d has two outgoing arcs at attraction %d", ErrReconstruction, day, i)
			}
			succ[i] = j
			arcCount++
		}
	}

	if visitCount == 0 {
		if arcCount > 0 {
			return nil, fmt.Errorf("%w: day %d selects arcs but no attractions", ErrReconstruction, day)
		}
		return []int{}, nil
	}

	// The path head carries the smallest position value by the MTZ
	// ordering, so start the walk there.
	start := -1
	for i := 0; i < pm.N; i++ {
		if visited[i] && (start < 0 || x[pm.OrderIndex(i, day)] < x[pm.OrderIndex(start, day)]) {
			start = i
		}
	}

	route := make([]int, 0, visitCount)
	seen := make([]bool, pm.N)
	for cur := start; ; {
		if seen[cur] {
			return nil, fmt.Errorf("%w: day %d revisits attraction %d (subtour survived)", ErrReconstruction, day, cur)
		}
		seen[cur] = true
		route = append(route, cur)
		next, ok := succ[cur]
		if !ok {
			break
		}
		cur = next
	}

	if len(route) != visitCount {
		return nil, fmt.Errorf("%w: day %d walk covered %d of %d visited attractions", ErrReconstruction, day, len(route), visitCount)
	}
	if arcCount != len(route)-1 {
		return nil, fmt.Errorf("%w: day %d has %d arcs for a %d-attraction path", ErrReconstruction, day, arcCount, len(route))
	}
	return route, nil
}

// dayTotals re-sums the metrics over a reconstructed route.
func (pm *PlanModel) dayTotals(route []int) Day {
	d := Day{Attractions: route}
	for k, i := range route {
		d.Fun += pm.Fun[i]
		d.TimeHr += pm.Inst.Attractions[i].AvgTimeHr
		d.Cost += pm.Inst.Attractions[i].EntryFee
		if k > 0 {
			d.DistanceKm += pm.Inst.Distances[route[k-1]][i]
		}
	}
	d.TimeHr += d.DistanceKm / pm.Req.Speed()
	d.Cost += d.DistanceKm * pm.Req.CostPerKm
	return d
}
