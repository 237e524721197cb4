package geometry

import (
	"math"
	"sort"

	"github.com/landsearch-microservice/internal/domain"
)

// Turn directions reported by orientation
const (
	turnCollinear        = 0
	turnClockwise        = 1
	turnCounterClockwise = 2
)

// ArrangeRing orders ring candidates into a traversable polygon ring:
// the lexicographically lowest point anchors the ring and the rest
// follow counter-clockwise. Points that would bend the ring back on
// itself are dropped, as are duplicates of the anchor. Fewer than
// three points, or points without coordinates, come back unchanged.
func ArrangeRing(points []domain.ConvertedCoords) []domain.ConvertedCoords {
	if len(points) < 3 {
		return points
	}
	for _, p := range points {
		if p.Latitude == nil || p.Longitude == nil {
			return points
		}
	}

	anchor := points[0]
	for _, p := range points[1:] {
		if *p.Latitude < *anchor.Latitude ||
			(*p.Latitude == *anchor.Latitude && *p.Longitude < *anchor.Longitude) {
			anchor = p
		}
	}

	rest := make([]domain.ConvertedCoords, 0, len(points)-1)
	for _, p := range points {
		if samePoint(p, anchor) {
			continue
		}
		rest = append(rest, p)
	}
	if len(rest) == 0 {
		return points
	}

	sort.SliceStable(rest, func(i, j int) bool {
		ai := angleFrom(anchor, rest[i])
		aj := angleFrom(anchor, rest[j])
		if ai != aj {
			return ai < aj
		}
		return squaredDistance(anchor, rest[i]) < squaredDistance(anchor, rest[j])
	})

	stack := []domain.ConvertedCoords{anchor, rest[0]}
	for _, candidate := range rest[1:] {
		// Back up while the turn through the candidate is not
		// counter-clockwise, then take the candidate regardless.
		for len(stack) > 1 &&
			orientation(stack[len(stack)-2], stack[len(stack)-1], candidate) != turnCounterClockwise {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, candidate)
	}

	return stack
}

// orientation classifies the turn p1 -> p2 -> p3 in lat/lon space
func orientation(p1, p2, p3 domain.ConvertedCoords) int {
	val := (*p2.Latitude-*p1.Latitude)*(*p3.Longitude-*p2.Longitude) -
		(*p2.Longitude-*p1.Longitude)*(*p3.Latitude-*p2.Latitude)
	if val == 0 {
		return turnCollinear
	}
	if val > 0 {
		return turnClockwise
	}
	return turnCounterClockwise
}

func angleFrom(from, to domain.ConvertedCoords) float64 {
	return math.Atan2(*to.Latitude-*from.Latitude, *to.Longitude-*from.Longitude)
}

func squaredDistance(a, b domain.ConvertedCoords) float64 {
	dLat := *b.Latitude - *a.Latitude
	dLon := *b.Longitude - *a.Longitude
	return dLat*dLat + dLon*dLon
}

func samePoint(a, b domain.ConvertedCoords) bool {
	return *a.Latitude == *b.Latitude &&
		*a.Longitude == *b.Longitude &&
		a.RefPoint == b.RefPoint
}
