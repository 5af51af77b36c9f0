package itinerary

import (
	"fmt"

	"github.com/golang/geo/s2"
)

const earthRadiusKm = 6371.0

// SymmetryTol is the largest asymmetry |d[i][j]-d[j][i]| a distance matrix
// may carry before it is rejected.
const SymmetryTol = 1e-6

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * earthRadiusKm
}

// CalcDistanceMatrix builds the symmetric km-matrix from the attraction
// coordinates.
func CalcDistanceMatrix(attractions []Attraction) [][]float64 {
	n := len(attractions)
	d := make([][]float64, n)
	for i := 0; i < n; i++ {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			dist := HaversineKm(attractions[i].Latitude, attractions[i].Longitude,
				attractions[j].Latitude, attractions[j].Longitude)
			d[i][j] = dist
			d[j][i] = dist
		}
	}
	return d
}

// ValidateDistances checks the matrix against the catalogue size: square,
// zero diagonal, non-negative and symmetric within SymmetryTol.
func ValidateDistances(d [][]float64, n int) error {
	if len(d) != n {
		return fmt.Errorf("%w: distance matrix has %d rows for %d attractions", ErrInvalidConfiguration, len(d), n)
	}
	for i := 0; i < n; i++ {
		if len(d[i]) != n {
			return fmt.Errorf("%w: distance matrix row %d has %d columns for %d attractions", ErrInvalidConfiguration, i, len(d[i]), n)
		}
		if d[i][i] != 0 {
			return fmt.Errorf("%w: distance matrix diagonal entry %d is %f", ErrInvalidConfiguration, i, d[i][i])
		}
		for j := 0; j < n; j++ {
			if d[i][j] < 0 {
				return fmt.Errorf("%w: negative distance %f between %d and %d", ErrInvalidConfiguration, d[i][j], i, j)
			}
			if j < i {
				asym := d[i][j] - d[j][i]
				if asym > SymmetryTol || asym < -SymmetryTol {
					return fmt.Errorf("%w: distance matrix is asymmetric at (%d,%d): %f vs %f", ErrInvalidConfiguration, i, j, d[i][j], d[j][i])
				}
			}
		}
	}
	return nil
}
