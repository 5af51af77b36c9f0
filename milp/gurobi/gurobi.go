// Package gurobi adapts a milp.Model to the gorobi bindings. The whole
// model is handed to Gurobi up front (variables with bounds and objective
// coefficients, then the constraint rows), optimized once and translated
// back into a milp.Result.
package gurobi

import (
	"fmt"
	"log"
	"time"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
	"git.solver4all.com/azaryc2s/itinerary/milp"
)

type Solver struct {
	// LogFile is passed to gurobi.LoadEnv. Empty means "gurobi.log".
	LogFile string
	// LogToConsole re-enables the solver chatter that is off by default.
	LogToConsole bool
}

func (s *Solver) Solve(m *milp.Model, timeLimit time.Duration) (milp.Result, error) {
	logFile := s.LogFile
	if logFile == "" {
		logFile = "gurobi.log"
	}
	env, err := gurobi.LoadEnv(logFile)
	if err != nil {
		return milp.Result{}, fmt.Errorf("gurobi: loading env: %w", err)
	}
	defer env.Free()
	if !s.LogToConsole {
		env.SetIntParam("LogToConsole", int32(0))
	}
	if timeLimit > 0 {
		err = env.SetDblParam(gurobi.DBL_PAR_TIMELIMIT, timeLimit.Seconds())
		if err != nil {
			return milp.Result{}, fmt.Errorf("gurobi: setting time limit: %w", err)
		}
	}

	varCount := len(m.Vars)
	obj := make([]float64, varCount)
	lb := make([]float64, varCount)
	ub := make([]float64, varCount)
	vtype := make([]int8, varCount)
	names := make([]string, varCount)
	for i, v := range m.Vars {
		obj[i] = v.Obj
		lb[i] = v.LB
		ub[i] = v.UB
		names[i] = v.Name
		switch v.Type {
		case milp.Binary:
			vtype[i] = gurobi.BINARY
		case milp.Integer:
			vtype[i] = gurobi.INTEGER
		default:
			vtype[i] = gurobi.CONTINUOUS
		}
	}

	model, err := env.NewModel(m.Name, int32(varCount), obj, lb, ub, vtype, names)
	if err != nil {
		return milp.Result{}, fmt.Errorf("gurobi: creating model: %w", err)
	}
	defer model.Free()

	var sense int32 = gurobi.MINIMIZE
	if m.Maximize {
		sense = gurobi.MAXIMIZE
	}
	err = model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, sense)
	if err != nil {
		return milp.Result{}, fmt.Errorf("gurobi: setting model sense: %w", err)
	}

	for _, c := range m.Constrs {
		err = model.AddConstr(c.Ind, c.Val, int8(c.Sense), c.RHS, c.Name)
		if err != nil {
			return milp.Result{}, fmt.Errorf("gurobi: adding constraint %s: %w", c.Name, err)
		}
	}

	err = model.Optimize()
	if err != nil {
		return milp.Result{}, fmt.Errorf("gurobi: optimize: %w", err)
	}

	optimstatus, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return milp.Result{}, fmt.Errorf("gurobi: reading status: %w", err)
	}
	solCount, err := model.GetIntAttr(gurobi.INT_ATTR_SOLCOUNT)
	if err != nil {
		return milp.Result{}, fmt.Errorf("gurobi: reading solution count: %w", err)
	}

	res := milp.Result{Status: translateStatus(optimstatus, solCount)}
	if res.Status == milp.Infeasible || solCount == 0 {
		return res, nil
	}

	res.Obj, err = model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	if err != nil {
		return milp.Result{}, fmt.Errorf("gurobi: reading objective: %w", err)
	}
	res.Bound, err = model.GetDblAttr(gurobi.DBL_ATTR_OBJBOUND)
	if err != nil {
		// no bound on some stop reasons, keep the incumbent
		log.Printf("gurobi: couldn't retrieve the objective bound: %s", err.Error())
		res.Bound = res.Obj
	}
	res.X, err = model.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(varCount))
	if err != nil {
		return milp.Result{}, fmt.Errorf("gurobi: reading assignment: %w", err)
	}
	return res, nil
}

func translateStatus(optimstatus int32, solCount int32) milp.Status {
	switch optimstatus {
	case gurobi.OPTIMAL:
		return milp.Optimal
	case gurobi.INFEASIBLE, gurobi.INF_OR_UNBD:
		return milp.Infeasible
	case gurobi.TIME_LIMIT:
		return milp.TimedOut
	default:
		if solCount > 0 {
			return milp.Feasible
		}
		return milp.Infeasible
	}
}
