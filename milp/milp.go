// Package milp holds a backend-independent mixed-integer linear model:
// variables, constraints in ind/val form, a single linear objective and
// the Solver contract. Any backend that handles binary and bounded
// continuous variables with linear constraints can be plugged in.
package milp

import (
	"fmt"
	"time"
)

type VarType int8

const (
	Continuous VarType = iota
	Binary
	Integer
)

// Sense values match the operator characters the gurobi bindings use.
type Sense int8

const (
	LessEqual    Sense = '<'
	GreaterEqual Sense = '>'
	Equal        Sense = '='
)

type Var struct {
	Name string
	Type VarType
	LB   float64
	UB   float64
	// Obj is the coefficient of this variable in the objective.
	Obj float64
}

// Constr is one linear constraint: sum(Val[k] * x[Ind[k]]) Sense RHS.
type Constr struct {
	Ind   []int32
	Val   []float64
	Sense Sense
	RHS   float64
	Name  string
}

type Model struct {
	Name     string
	Maximize bool
	Vars     []Var
	Constrs  []Constr
}

func NewModel(name string, maximize bool) *Model {
	return &Model{Name: name, Maximize: maximize}
}

// AddVar appends a variable and returns its index.
func (m *Model) AddVar(obj, lb, ub float64, vtype VarType, name string) int32 {
	m.Vars = append(m.Vars, Var{Name: name, Type: vtype, LB: lb, UB: ub, Obj: obj})
	return int32(len(m.Vars) - 1)
}

// AddConstr appends a linear constraint. Mismatched slice lengths or an
// out-of-range variable index are bookkeeping faults and rejected here.
func (m *Model) AddConstr(ind []int32, val []float64, sense Sense, rhs float64, name string) error {
	if len(ind) != len(val) {
		return fmt.Errorf("milp: constraint %s has %d indices but %d values", name, len(ind), len(val))
	}
	for _, i := range ind {
		if i < 0 || int(i) >= len(m.Vars) {
			return fmt.Errorf("milp: constraint %s references unknown variable %d", name, i)
		}
	}
	m.Constrs = append(m.Constrs, Constr{Ind: ind, Val: val, Sense: sense, RHS: rhs, Name: name})
	return nil
}

// EvalObjective computes the objective value of an assignment.
func (m *Model) EvalObjective(x []float64) float64 {
	obj := 0.0
	for i := range m.Vars {
		obj += m.Vars[i].Obj * x[i]
	}
	return obj
}

// Violated returns the name of the first constraint or variable bound the
// assignment breaks by more than eps, or "" when the assignment is feasible.
func (m *Model) Violated(x []float64, eps float64) string {
	if len(x) != len(m.Vars) {
		return "assignment length"
	}
	for i, v := range m.Vars {
		if x[i] < v.LB-eps || x[i] > v.UB+eps {
			return v.Name
		}
	}
	for _, c := range m.Constrs {
		lhs := 0.0
		for k := range c.Ind {
			lhs += c.Val[k] * x[c.Ind[k]]
		}
		switch c.Sense {
		case LessEqual:
			if lhs > c.RHS+eps {
				return c.Name
			}
		case GreaterEqual:
			if lhs < c.RHS-eps {
				return c.Name
			}
		case Equal:
			if lhs > c.RHS+eps || lhs < c.RHS-eps {
				return c.Name
			}
		}
	}
	return ""
}

type Status string

const (
	Optimal    Status = "Optimal"
	Feasible   Status = "Feasible"
	Infeasible Status = "Infeasible"
	TimedOut   Status = "TimedOut"
)

// Result is a solve outcome. X is nil when no integer-feasible assignment
// was found before the solver stopped.
type Result struct {
	Status Status
	X      []float64
	Obj    float64
	Bound  float64
}

// Solver is the adapter contract. A timeLimit of zero means no limit; on
// expiry the backend returns its incumbent with status TimedOut instead of
// blocking.
type Solver interface {
	Solve(m *Model, timeLimit time.Duration) (Result, error)
}
