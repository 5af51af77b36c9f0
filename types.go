package itinerary

import (
	"time"

	"git.solver4all.com/azaryc2s/itinerary/milp"
)

// DefaultAvgSpeedKmph converts travel distance to travel time when the
// request does not specify a speed.
const DefaultAvgSpeedKmph = 20.0

type Attraction struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AvgTimeHr float64 `json:"avg_time_hr"`
	EntryFee  float64 `json:"entry_fee"`
	FunScore  float64 `json:"fun_score"`
	Category  string  `json:"category"`
}

type Instance struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`

	Attractions []Attraction `json:"attractions"`
	// Distances is the symmetric km-matrix indexed like Attractions.
	Distances [][]float64 `json:"distances"`

	Solution *Solution `json:"solution,omitempty"`
}

// Request carries the per-trip parameters. A zero AvgSpeedKmph falls back
// to DefaultAvgSpeedKmph; a zero TimeLimitSec means no limit.
type Request struct {
	NumDays         int                `json:"num_days" yaml:"num_days"`
	DailyHours      float64            `json:"daily_hours" yaml:"daily_hours"`
	DailyBudget     float64            `json:"daily_budget" yaml:"daily_budget"`
	Alpha           float64            `json:"alpha" yaml:"alpha"`
	CostPerKm       float64            `json:"cost_per_km" yaml:"cost_per_km"`
	AvgSpeedKmph    float64            `json:"avg_speed_kmph" yaml:"avg_speed_kmph"`
	ThematicWeights map[string]float64 `json:"thematic_weights,omitempty" yaml:"thematic_weights"`
	TimeLimitSec    float64            `json:"time_limit_sec" yaml:"time_limit_sec"`
}

func (r Request) Speed() float64 {
	if r.AvgSpeedKmph > 0 {
		return r.AvgSpeedKmph
	}
	return DefaultAvgSpeedKmph
}

func (r Request) TimeLimit() time.Duration {
	return time.Duration(r.TimeLimitSec * float64(time.Second))
}

// Day holds one day's reconstructed route. Attractions are indices into
// Instance.Attractions in visiting order.
type Day struct {
	Attractions []int   `json:"ordered_attraction_ids"`
	Fun         float64 `json:"fun"`
	DistanceKm  float64 `json:"distance_km"`
	TimeHr      float64 `json:"time_hr"`
	Cost        float64 `json:"cost"`
}

type Summary struct {
	TotalFun        float64 `json:"total_fun"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	TotalCost       float64 `json:"total_cost"`
	TotalTimeHr     float64 `json:"total_time_hr"`
	VisitedCount    int     `json:"visited_count"`
	OmittedCount    int     `json:"omitted_count"`
}

type Itinerary struct {
	Days    []Day       `json:"days"`
	Summary Summary     `json:"summary"`
	Status  milp.Status `json:"solve_status"`
}

type Solution struct {
	Itinerary Itinerary `json:"itinerary"`
	Obj       float64   `json:"obj"`
	Bound     float64   `json:"bound"`

	Time    string  `json:"time"`
	System  SysInfo `json:"system"`
	Comment string  `json:"comment"`
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string
	CPU      string
	RAM      string
}
