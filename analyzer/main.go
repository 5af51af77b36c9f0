package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"git.solver4all.com/azaryc2s/itinerary"
)

func main() {
	if len(os.Args) < 2 {
		log.Printf("No arguments passed!")
		return
	}
	dirName := os.Args[1]
	dir, err := os.ReadDir(dirName)
	if err != nil {
		log.Printf("Couldn't open directory %s: %s\n", os.Args[1], err.Error())
		return
	}
	fmt.Printf("Name,Status,Time,Obj,Bound,Fun,DistanceKm,TimeHr,Cost,Visited,Omitted,Dimension,Comment\n")
	for _, f := range dir {
		fileName := dirName + "/" + f.Name()
		if !strings.Contains(fileName, ".json") {
			continue
		}
		inst := itinerary.Instance{}
		instStr, err := os.ReadFile(fileName)
		if err != nil {
			log.Printf("Couldn't read %s: %s\n", f.Name(), err.Error())
			return
		}
		err = json.Unmarshal(instStr, &inst)
		if err != nil {
			log.Printf("Couldn't parse %s: %s\n", f.Name(), err.Error())
			return
		}
		var sol itinerary.Solution
		if inst.Solution != nil {
			sol = *inst.Solution
		}
		err = checkRoutes(inst, sol)
		if err != nil {
			sol.Comment += fmt.Sprintf("ANALYZER: Error = %s", err.Error())
		}
		s := sol.Itinerary.Summary
		fmt.Printf("%s,%s,%s,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%d,%d,%d,%s\n",
			inst.Name, sol.Itinerary.Status, sol.Time, sol.Obj, sol.Bound,
			s.TotalFun, s.TotalDistanceKm, s.TotalTimeHr, s.TotalCost,
			s.VisitedCount, s.OmittedCount, len(inst.Attractions), sol.Comment)
	}
}

// checkRoutes re-validates a stored solution against its instance: every
// attraction at most once and all route indices in range.
func checkRoutes(inst itinerary.Instance, sol itinerary.Solution) error {
	used := make([]bool, len(inst.Attractions))
	for d, day := range sol.Itinerary.Days {
		for _, a := range day.Attractions {
			if a < 0 || a >= len(inst.Attractions) {
				return fmt.Errorf("day %d references unknown attraction %d", d+1, a)
			}
			if used[a] {
				return fmt.Errorf("attraction %d appears more than once", a)
			}
			used[a] = true
		}
	}
	return nil
}
