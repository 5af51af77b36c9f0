package itinerary

import (
	"fmt"

	"git.solver4all.com/azaryc2s/itinerary/milp"
)

// PlanModel is the per-request MILP formulation. Variables live in four
// blocks: visit X_i_d, arc Y_i_j_d (ordered pairs, i != j), position U_i_d
// and day-used W_d, addressed through index arithmetic so no handle map is
// needed.
type PlanModel struct {
	Inst *Instance
	Req  Request

	N int // attractions
	D int // days

	// Fun carries the thematically weighted scores the objective uses.
	Fun      []float64
	TravelHr [][]float64

	Model *milp.Model

	visitStart int32
	arcStart   int32
	orderStart int32
	usedStart  int32
}

// BuildModel validates the request against the instance, allocates all
// decision variables with their objective coefficients and emits the
// constraint set. The returned model is independent of any other request.
func BuildModel(inst *Instance, req Request) (*PlanModel, error) {
	if err := validate(inst, req); err != nil {
		return nil, err
	}
	n := len(inst.Attractions)
	d := req.NumDays

	pm := &PlanModel{
		Inst:     inst,
		Req:      req,
		N:        n,
		D:        d,
		Fun:      weightedFun(inst.Attractions, req.ThematicWeights),
		TravelHr: travelHours(inst.Distances, req.Speed()),
		Model:    milp.NewModel("itinerary", true),
	}

	// X_i_d - attraction i is visited on day d
	pm.visitStart = int32(len(pm.Model.Vars))
	for day := 0; day < d; day++ {
		for i := 0; i < n; i++ {
			pm.Model.AddVar(pm.Fun[i], 0.0, 1.0, milp.Binary, fmt.Sprintf("X_%d_%d", i, day))
		}
	}

	// Y_i_j_d - the route travels directly from i to j on day d
	pm.arcStart = int32(len(pm.Model.Vars))
	for day := 0; day < d; day++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				pm.Model.AddVar(-req.Alpha*inst.Distances[i][j], 0.0, 1.0, milp.Binary,
					fmt.Sprintf("Y_%d_%d_%d", i, j, day))
			}
		}
	}

	// U_i_d - position of i in day d's path, forced to 0 when unvisited
	// and onto [1,N] when visited by the linked constraints
	pm.orderStart = int32(len(pm.Model.Vars))
	for day := 0; day < d; day++ {
		for i := 0; i < n; i++ {
			pm.Model.AddVar(0.0, 0.0, float64(n), milp.Continuous, fmt.Sprintf("U_%d_%d", i, day))
		}
	}

	// W_d - day d visits at least one attraction
	pm.usedStart = int32(len(pm.Model.Vars))
	for day := 0; day < d; day++ {
		pm.Model.AddVar(0.0, 0.0, 1.0, milp.Binary, fmt.Sprintf("W_%d", day))
	}

	if err := pm.addConstraints(); err != nil {
		return nil, err
	}
	return pm, nil
}

func validate(inst *Instance, req Request) error {
	if inst == nil || len(inst.Attractions) < 1 {
		return fmt.Errorf("%w: instance has no attractions", ErrInvalidConfiguration)
	}
	if req.NumDays < 1 {
		return fmt.Errorf("%w: num_days is %d", ErrInvalidConfiguration, req.NumDays)
	}
	if req.DailyHours <= 0 {
		return fmt.Errorf("%w: daily_hours is %f", ErrInvalidConfiguration, req.DailyHours)
	}
	if req.DailyBudget < 0 {
		return fmt.Errorf("%w: daily_budget is %f", ErrInvalidConfiguration, req.DailyBudget)
	}
	if req.Alpha < 0 {
		return fmt.Errorf("%w: alpha is %f", ErrInvalidConfiguration, req.Alpha)
	}
	if req.CostPerKm < 0 {
		return fmt.Errorf("%w: cost_per_km is %f", ErrInvalidConfiguration, req.CostPerKm)
	}
	if req.AvgSpeedKmph < 0 {
		return fmt.Errorf("%w: avg_speed_kmph is %f", ErrInvalidConfiguration, req.AvgSpeedKmph)
	}
	for cat, w := range req.ThematicWeights {
		if w <= 0 {
			return fmt.Errorf("%w: thematic weight for %q is %f", ErrInvalidConfiguration, cat, w)
		}
	}
	for i, a := range inst.Attractions {
		if a.FunScore < 0 {
			return fmt.Errorf("%w: attraction %d has negative fun score %f", ErrInvalidConfiguration, i, a.FunScore)
		}
		if a.AvgTimeHr < 0 || a.EntryFee < 0 {
			return fmt.Errorf("%w: attraction %d has negative time or fee", ErrInvalidConfiguration, i)
		}
	}
	return ValidateDistances(inst.Distances, len(inst.Attractions))
}

// weightedFun pre-scales the fun scores by category. This is the only
// place the thematic weights enter the model.
func weightedFun(attractions []Attraction, weights map[string]float64) []float64 {
	fun := make([]float64, len(attractions))
	for i, a := range attractions {
		w := 1.0
		if weights != nil {
			if wc, ok := weights[a.Category]; ok {
				w = wc
			}
		}
		fun[i] = a.FunScore * w
	}
	return fun
}

func travelHours(dist [][]float64, speedKmph float64) [][]float64 {
	t := make([][]float64, len(dist))
	for i := range dist {
		t[i] = make([]float64, len(dist[i]))
		for j := range dist[i] {
			t[i][j] = dist[i][j] / speedKmph
		}
	}
	return t
}

// VisitIndex addresses X_i_d.
func (pm *PlanModel) VisitIndex(i, day int) int32 {
	return pm.visitStart + int32(day*pm.N+i)
}

// ArcIndex addresses Y_i_j_d for i != j.
func (pm *PlanModel) ArcIndex(i, j, day int) int32 {
	col := j
	if j > i {
		col = j - 1
	}
	return pm.arcStart + int32(day*pm.N*(pm.N-1)+i*(pm.N-1)+col)
}

// OrderIndex addresses U_i_d.
func (pm *PlanModel) OrderIndex(i, day int) int32 {
	return pm.orderStart + int32(day*pm.N+i)
}

// UsedIndex addresses W_d.
func (pm *PlanModel) UsedIndex(day int) int32 {
	return pm.usedStart + int32(day)
}
