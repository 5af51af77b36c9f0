package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"git.solver4all.com/azaryc2s/itinerary"
)

var nodes itinerary.ArrayIntFlags
var categories itinerary.ArrayStringFlags

func main() {
	flag.Var(&nodes, "n", "List of numbers of attractions")
	flag.Var(&categories, "cat", "List of category tags (defaults to food,culture,history,adventure)")
	name := flag.String("name", "zarychta", "Name for the instance")
	count := flag.Int("count", 10, "Number of instances per size")
	lat := flag.Float64("lat", 28.6139, "Latitude of the city center")
	lng := flag.Float64("lng", 77.2090, "Longitude of the city center")
	radius := flag.Float64("radius", 12.0, "Radius in km the attractions are scattered over")
	maxFee := flag.Float64("fee", 300, "Max entry fee for an attraction")

	flag.Parse()

	if len(categories) == 0 {
		categories = itinerary.ArrayStringFlags{"food", "culture", "history", "adventure"}
	}

	rand.Seed(time.Now().UnixNano())
	for l := 0; l < *count; l++ {
		for i := 0; i < len(nodes); i++ {
			n := nodes[i]
			attractions := make([]itinerary.Attraction, n)
			for a := 0; a < n; a++ {
				// uniform offset inside the radius; one degree of
				// latitude is ~111 km, longitude shrinks with cos(lat)
				latOff := (rand.Float64()*2 - 1) * *radius / 111.0
				lngOff := (rand.Float64()*2 - 1) * *radius / (111.0 * math.Cos(*lat*math.Pi/180.0))
				cat := categories[rand.Intn(len(categories))]
				attractions[a] = itinerary.Attraction{
					Name:      fmt.Sprintf("%s_%d", cat, a),
					Latitude:  *lat + latOff,
					Longitude: *lng + lngOff,
					AvgTimeHr: 0.5 + float64(rand.Intn(6))*0.5,
					EntryFee:  float64(rand.Intn(int(*maxFee/10)+1)) * 10,
					FunScore:  float64(1 + rand.Intn(10)),
					Category:  cat,
				}
			}
			comment := fmt.Sprintf("%s instance Nr. %d with %d attractions around (%.4f, %.4f)", *name, l, n, *lat, *lng)
			instName := fmt.Sprintf("%s_%d_%d", *name, n, l)
			inst := itinerary.Instance{
				Name:        instName,
				Comment:     comment,
				Attractions: attractions,
				Distances:   itinerary.CalcDistanceMatrix(attractions),
			}

			jsonInst, err := json.MarshalIndent(inst, "", "\t")
			if err != nil {
				log.Fatal(err)
			}
			jsonInst = []byte(itinerary.SanitizeJsonArrayLineBreaks(string(jsonInst)))
			err = os.WriteFile(fmt.Sprintf("%s.json", instName), jsonInst, 0644)
			if err != nil {
				log.Fatal(err)
			}
		}
	}
}
