package geometry

import (
	"math"

	"github.com/engelsjk/polygol"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/landsearch-microservice/internal/domain"
)

// Overlap stats error messages
const (
	errInsufficientPoints = "Insufficient points"
	errInvalidPolygon     = "Invalid polygon"
)

// RingFromPoints builds a closed orb.Ring from ring points, in (lon,
// lat) axis order. Returns false when fewer than three points have
// usable coordinates.
func RingFromPoints(points []domain.ConvertedCoords) (orb.Ring, bool) {
	if len(points) < 3 {
		return nil, false
	}

	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		if p.Latitude == nil || p.Longitude == nil {
			return nil, false
		}
		ring = append(ring, orb.Point{*p.Longitude, *p.Latitude})
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	if len(ring) < 4 {
		return nil, false
	}

	return ring, true
}

// RingIsValid reports whether a closed ring bounds a usable polygon:
// no two non-adjacent edges may touch or cross, and the ring must
// enclose a non-zero area.
func RingIsValid(ring orb.Ring) bool {
	n := len(ring) - 1
	if n < 3 {
		return false
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsIntersect(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return false
			}
		}
	}

	return RingArea(ring) > 0
}

// RingsIntersect reports whether two closed rings share any area or
// boundary. Touching counts.
func RingsIntersect(a, b orb.Ring) bool {
	if !a.Bound().Intersects(b.Bound()) {
		return false
	}

	for i := 0; i < len(a)-1; i++ {
		for j := 0; j < len(b)-1; j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}

	// No edge contact: either disjoint or one ring contains the other
	return pointInRing(a[0], b) || pointInRing(b[0], a)
}

// RingArea returns the absolute planar area of a ring in squared
// degrees, matching how parcel areas are stored and compared.
func RingArea(ring orb.Ring) float64 {
	return math.Abs(planar.Area(ring))
}

// ComputeOverlap compares two point sets as polygons and reports how
// much of the smaller one is covered by the intersection. Degenerate or
// invalid input produces a zeroed record with the error field set
// instead of failing the search.
func ComputeOverlap(coords1, coords2 []domain.ConvertedCoords) domain.OverlapStats {
	if len(coords1) < 3 || len(coords2) < 3 {
		return domain.OverlapStats{Error: errInsufficientPoints}
	}

	ring1, ok1 := RingFromPoints(coords1)
	ring2, ok2 := RingFromPoints(coords2)
	if !ok1 || !ok2 || !RingIsValid(ring1) || !RingIsValid(ring2) {
		return domain.OverlapStats{Error: errInvalidPolygon}
	}

	area1 := RingArea(ring1)
	area2 := RingArea(ring2)

	overlapArea := 0.0
	overlapPercentage := 0.0
	if RingsIntersect(ring1, ring2) {
		overlapArea = intersectionArea(ring1, ring2)
		if smaller := math.Min(area1, area2); smaller > 0 {
			overlapPercentage = overlapArea / smaller * 100
		}
	}

	return domain.OverlapStats{
		OverlapPercentage: round2(overlapPercentage),
		OverlapArea:       round6(overlapArea),
		Poly1Area:         round6(area1),
		Poly2Area:         round6(area2),
	}
}

// intersectionArea clips the rings against each other and sums the
// planar area of the pieces; outer rings add, holes subtract
func intersectionArea(a, b orb.Ring) float64 {
	clipped, err := polygol.Intersection(ringToGeom(a), ringToGeom(b))
	if err != nil {
		return 0
	}

	total := 0.0
	for _, poly := range clipped {
		for i, ringCoords := range poly {
			ring := make(orb.Ring, len(ringCoords))
			for j, pt := range ringCoords {
				ring[j] = orb.Point{pt[0], pt[1]}
			}
			if i == 0 {
				total += RingArea(ring)
			} else {
				total -= RingArea(ring)
			}
		}
	}

	return total
}

func ringToGeom(ring orb.Ring) polygol.Geom {
	coords := make([][]float64, len(ring))
	for i, p := range ring {
		coords[i] = []float64{p[0], p[1]}
	}
	return polygol.Geom{{coords}}
}

// pointInRing is an even-odd ray cast; boundary contact is resolved by
// the segment tests before this runs
func pointInRing(p orb.Point, ring orb.Ring) bool {
	inside := false
	n := len(ring) - 1
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[i+1]
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1]) + a[0]
			if p[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}

// segmentsIntersect is boundary-inclusive: shared endpoints and
// collinear overlap both count
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := crossProduct(p3, p4, p1)
	d2 := crossProduct(p3, p4, p2)
	d3 := crossProduct(p1, p2, p3)
	d4 := crossProduct(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(p3, p4, p1):
		return true
	case d2 == 0 && onSegment(p3, p4, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, p3):
		return true
	case d4 == 0 && onSegment(p1, p2, p4):
		return true
	}
	return false
}

func crossProduct(a, b, p orb.Point) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
