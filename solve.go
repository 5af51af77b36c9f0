package itinerary

import (
	"fmt"

	"git.solver4all.com/azaryc2s/itinerary/milp"
)

// Plan runs the whole pipeline for one request: validate and build the
// model, hand it to the solver, reconstruct the routes and package the
// itinerary. The raw solve result is returned alongside so callers can
// record the objective and its bound. Infeasibility and timeouts come back
// through the itinerary's Status, not as errors; errors mean bad input or
// a defect.
func Plan(inst *Instance, req Request, solver milp.Solver) (*Itinerary, milp.Result, error) {
	pm, err := BuildModel(inst, req)
	if err != nil {
		return nil, milp.Result{}, err
	}
	res, err := solver.Solve(pm.Model, req.TimeLimit())
	if err != nil {
		return nil, milp.Result{}, fmt.Errorf("itinerary: solving: %w", err)
	}
	it, err := pm.Extract(res)
	if err != nil {
		return nil, milp.Result{}, err
	}
	return it, res, nil
}
