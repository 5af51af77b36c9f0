package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"git.solver4all.com/azaryc2s/itinerary"
	"git.solver4all.com/azaryc2s/itinerary/milp/gurobi"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
	"gopkg.in/yaml.v3"
)

var (
	inputF   *string
	outputF  *string
	requestF *string

	days      *int
	hours     *float64
	budget    *float64
	alpha     *float64
	costKm    *float64
	speed     *float64
	timeLimit *float64
)

func main() {
	inputF = flag.String("input", "input.json", "Path to the input instance")
	outputF = flag.String("output", "", "Path to the output file. By default the input file will be overwritten adding the solution")
	requestF = flag.String("request", "", "Path to a YAML request file. Overrides the request flags")

	days = flag.Int("days", 3, "Number of travel days")
	hours = flag.Float64("hours", 8.0, "Available time per day in hours")
	budget = flag.Float64("budget", 1500, "Budget per day")
	alpha = flag.Float64("alpha", 0.01, "Distance penalty weight per km")
	costKm = flag.Float64("costkm", 20, "Travel cost per km")
	speed = flag.Float64("speed", itinerary.DefaultAvgSpeedKmph, "Average travel speed in km/h")
	timeLimit = flag.Float64("timelimit", 60, "Solver time limit in seconds")

	flag.Parse()

	req := itinerary.Request{
		NumDays:      *days,
		DailyHours:   *hours,
		DailyBudget:  *budget,
		Alpha:        *alpha,
		CostPerKm:    *costKm,
		AvgSpeedKmph: *speed,
		TimeLimitSec: *timeLimit,
	}
	if *requestF != "" {
		reqStr, err := os.ReadFile(*requestF)
		if err != nil {
			log.Printf("At %s: %s\n", *requestF, err.Error())
			return
		}
		err = yaml.Unmarshal(reqStr, &req)
		if err != nil {
			log.Printf("At %s: %s\n", *requestF, err.Error())
			return
		}
	}

	instStr, err := os.ReadFile(*inputF)
	if err != nil {
		log.Printf("At %s: %s\n", *inputF, err.Error())
		return
	}
	var inst itinerary.Instance
	err = json.Unmarshal(instStr, &inst)
	if err != nil {
		log.Printf("At %s: %s\n", *inputF, err.Error())
		return
	}
	if inst.Distances == nil {
		inst.Distances = itinerary.CalcDistanceMatrix(inst.Attractions)
	}

	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	sol := itinerary.Solution{System: itinerary.SysInfo{
		Platform: hostStat.Platform,
		CPU:      cpuStat[0].ModelName,
		RAM:      fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024),
	}}

	solver := &gurobi.Solver{LogFile: "itinerary-gurobi.log"}
	startTime := time.Now()
	it, res, err := itinerary.Plan(&inst, req, solver)
	sol.Time = time.Since(startTime).String()
	if err != nil {
		log.Printf("At %s: %s\n", *inputF, err.Error())
		return
	}
	log.Println("---OPTIMIZATION DONE---")

	sol.Itinerary = *it
	sol.Obj = res.Obj
	sol.Bound = res.Bound
	inst.Solution = &sol

	for d, day := range it.Days {
		fmt.Printf("Day %d: %v (fun %.2f, %.2f km, %.2f h, cost %.2f)\n",
			d+1, day.Attractions, day.Fun, day.DistanceKm, day.TimeHr, day.Cost)
	}
	fmt.Printf("Status %s: fun %.2f, %.2f km, %.2f h, cost %.2f, visited %d, omitted %d\n",
		it.Status, it.Summary.TotalFun, it.Summary.TotalDistanceKm, it.Summary.TotalTimeHr,
		it.Summary.TotalCost, it.Summary.VisitedCount, it.Summary.OmittedCount)

	writeSolution(&inst)
}

func writeSolution(inst *itinerary.Instance) {
	jsonInst, err := json.MarshalIndent(inst, "", "\t")
	if err != nil {
		log.Printf("At %s: %s\n", *inputF, err.Error())
		return
	}
	jsonInst = []byte(itinerary.SanitizeJsonArrayLineBreaks(string(jsonInst)))
	fileName := *outputF
	if fileName == "" {
		fileName = *inputF //overwrite the input file
	}
	err = os.WriteFile(fileName, jsonInst, 0644)
	if err != nil {
		log.Printf("At %s: %s\n", fileName, err.Error())
		return
	}
}
