package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"

	"git.solver4all.com/azaryc2s/itinerary"
	"git.solver4all.com/azaryc2s/itinerary/milp/gurobi"
	"github.com/gin-gonic/gin"
)

func main() {
	instanceF := flag.String("instance", "instance.json", "Path to the city instance")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	instStr, err := os.ReadFile(*instanceF)
	if err != nil {
		log.Fatalf("At %s: %s", *instanceF, err.Error())
	}
	var inst itinerary.Instance
	if err := json.Unmarshal(instStr, &inst); err != nil {
		log.Fatalf("At %s: %s", *instanceF, err.Error())
	}
	if inst.Distances == nil {
		inst.Distances = itinerary.CalcDistanceMatrix(inst.Attractions)
	}

	solver := &gurobi.Solver{LogFile: "itinerary-server-gurobi.log"}

	r := gin.Default()
	r.GET("/attractions", func(c *gin.Context) {
		c.JSON(http.StatusOK, inst.Attractions)
	})
	r.POST("/plan", func(c *gin.Context) {
		var req itinerary.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// every request builds its own model, so concurrent plans
		// don't share any solver state
		it, _, err := itinerary.Plan(&inst, req, solver)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, itinerary.ErrInvalidConfiguration) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, it)
	})

	log.Printf("Serving %s with %d attractions on %s", inst.Name, len(inst.Attractions), *addr)
	if err := r.Run(*addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
