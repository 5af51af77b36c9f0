package itinerary

import (
	"fmt"

	"git.solver4all.com/azaryc2s/itinerary/milp"
)

// addConstraints emits the full linear constraint set. Any AddConstr
// failure means a broken variable index, never bad user input.
func (pm *PlanModel) addConstraints() error {
	steps := []func() error{
		pm.addDegree,
		pm.addPathCount,
		pm.addUniqueness,
		pm.addTimeBudget,
		pm.addMoneyBudget,
		pm.addSubtourElimination,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("%w: %v", ErrModelConstruction, err)
		}
	}
	return nil
}

// addDegree caps every node at one outgoing and one incoming arc per day
// and forbids arcs touching unvisited nodes:
//
//	sum_j Y_i_j_d <= X_i_d
//	sum_j Y_j_i_d <= X_i_d
//
// Together with the MTZ ordering the selected arcs of a day form disjoint
// simple open chains over the visited attractions.
func (pm *PlanModel) addDegree() error {
	for day := 0; day < pm.D; day++ {
		for i := 0; i < pm.N; i++ {
			var (
				out []int32
				in  []int32
				val []float64
			)
			for j := 0; j < pm.N; j++ {
				if j == i {
					continue
				}
				out = append(out, pm.ArcIndex(i, j, day))
				in = append(in, pm.ArcIndex(j, i, day))
				val = append(val, 1.0)
			}
			out = append(out, pm.VisitIndex(i, day))
			in = append(in, pm.VisitIndex(i, day))
			val = append(val, -1.0)
			err := pm.Model.AddConstr(out, val, milp.LessEqual, 0.0, fmt.Sprintf("out_%d_%d", i, day))
			if err != nil {
				return err
			}
			err = pm.Model.AddConstr(in, val, milp.LessEqual, 0.0, fmt.Sprintf("in_%d_%d", i, day))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// addPathCount welds each day's chains into one. Under the degree caps the
// arcs split the visited set into (visits - arcs) chains, so
//
//	sum_i X_i_d - sum_ij Y_i_j_d = W_d
//
// with binary W_d allows exactly one chain on a used day and nothing on an
// empty one. Without this row a solver could shed an arc's distance
// penalty by planning two disconnected chains.
func (pm *PlanModel) addPathCount() error {
	for day := 0; day < pm.D; day++ {
		var (
			ind []int32
			val []float64
		)
		for i := 0; i < pm.N; i++ {
			ind = append(ind, pm.VisitIndex(i, day))
			val = append(val, 1.0)
			for j := 0; j < pm.N; j++ {
				if j == i {
					continue
				}
				ind = append(ind, pm.ArcIndex(i, j, day))
				val = append(val, -1.0)
			}
		}
		ind = append(ind, pm.UsedIndex(day))
		val = append(val, -1.0)
		err := pm.Model.AddConstr(ind, val, milp.Equal, 0.0, fmt.Sprintf("path_%d", day))
		if err != nil {
			return err
		}
	}
	return nil
}

// addUniqueness keeps every attraction to at most one visit over the trip.
func (pm *PlanModel) addUniqueness() error {
	for i := 0; i < pm.N; i++ {
		ind := make([]int32, pm.D)
		val := make([]float64, pm.D)
		for day := 0; day < pm.D; day++ {
			ind[day] = pm.VisitIndex(i, day)
			val[day] = 1.0
		}
		err := pm.Model.AddConstr(ind, val, milp.LessEqual, 1.0, fmt.Sprintf("once_%d", i))
		if err != nil {
			return err
		}
	}
	return nil
}

// addTimeBudget caps visit durations plus travel time per day.
func (pm *PlanModel) addTimeBudget() error {
	for day := 0; day < pm.D; day++ {
		var (
			ind []int32
			val []float64
		)
		for i := 0; i < pm.N; i++ {
			ind = append(ind, pm.VisitIndex(i, day))
			val = append(val, pm.Inst.Attractions[i].AvgTimeHr)
		}
		for i := 0; i < pm.N; i++ {
			for j := 0; j < pm.N; j++ {
				if j == i {
					continue
				}
				ind = append(ind, pm.ArcIndex(i, j, day))
				val = append(val, pm.TravelHr[i][j])
			}
		}
		err := pm.Model.AddConstr(ind, val, milp.LessEqual, pm.Req.DailyHours, fmt.Sprintf("time_%d", day))
		if err != nil {
			return err
		}
	}
	return nil
}

// addMoneyBudget caps entry fees plus travel cost per day.
func (pm *PlanModel) addMoneyBudget() error {
	for day := 0; day < pm.D; day++ {
		var (
			ind []int32
			val []float64
		)
		for i := 0; i < pm.N; i++ {
			ind = append(ind, pm.VisitIndex(i, day))
			val = append(val, pm.Inst.Attractions[i].EntryFee)
		}
		for i := 0; i < pm.N; i++ {
			for j := 0; j < pm.N; j++ {
				if j == i {
					continue
				}
				ind = append(ind, pm.ArcIndex(i, j, day))
				val = append(val, pm.Req.CostPerKm*pm.Inst.Distances[i][j])
			}
		}
		err := pm.Model.AddConstr(ind, val, milp.LessEqual, pm.Req.DailyBudget, fmt.Sprintf("budget_%d", day))
		if err != nil {
			return err
		}
	}
	return nil
}

// addSubtourElimination emits the MTZ family per day:
//
//	U_i - U_j + N*Y_i_j_d <= N - 1   for i != j
//	U_i >= X_i_d, U_i <= N*X_i_d
//
// The position must strictly increase along any selected arc, which a
// closed loop cannot satisfy, so every chain the degree caps allow stays
// open.
func (pm *PlanModel) addSubtourElimination() error {
	n := float64(pm.N)
	for day := 0; day < pm.D; day++ {
		for i := 0; i < pm.N; i++ {
			ind := []int32{pm.OrderIndex(i, day), pm.VisitIndex(i, day)}
			val := []float64{1.0, -1.0}
			err := pm.Model.AddConstr(ind, val, milp.GreaterEqual, 0.0, fmt.Sprintf("mtz_lo_%d_%d", i, day))
			if err != nil {
				return err
			}
			ind = []int32{pm.OrderIndex(i, day), pm.VisitIndex(i, day)}
			val = []float64{1.0, -n}
			err = pm.Model.AddConstr(ind, val, milp.LessEqual, 0.0, fmt.Sprintf("mtz_hi_%d_%d", i, day))
			if err != nil {
				return err
			}
			for j := 0; j < pm.N; j++ {
				if j == i {
					continue
				}
				ind = []int32{pm.OrderIndex(i, day), pm.OrderIndex(j, day), pm.ArcIndex(i, j, day)}
				val = []float64{1.0, -1.0, n}
				err = pm.Model.AddConstr(ind, val, milp.LessEqual, n-1.0, fmt.Sprintf("mtz_%d_%d_%d", i, j, day))
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}
