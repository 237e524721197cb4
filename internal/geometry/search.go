package geometry

import (
	"math"

	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/pkg/utils"
)

// DefaultExactTolerance is the per-axis matching tolerance for exact
// searches, in degrees.
const DefaultExactTolerance = 0.01

// Engine runs coordinate searches over a parcel corpus snapshot. The
// corpus is never mutated; parcels with unusable geometry are logged
// and skipped rather than failing the search.
type Engine struct {
	logger    *zap.Logger
	tolerance float64
}

// NewEngine creates a search engine. A non-positive tolerance selects
// DefaultExactTolerance.
func NewEngine(logger *zap.Logger, tolerance float64) *Engine {
	if tolerance <= 0 {
		tolerance = DefaultExactTolerance
	}
	return &Engine{
		logger:    logger,
		tolerance: tolerance,
	}
}

// Overlap finds all parcels whose ring intersects the query polygon and
// computes overlap stats for each. The returned slices are
// index-aligned and always of equal length. Fewer than three usable
// query coordinates, or a self-intersecting query polygon, yield an
// empty result.
func (e *Engine) Overlap(corpus []*domain.ProcessedParcel, coords []*domain.ConvertedCoords) ([]*domain.ProcessedParcel, []domain.OverlapStats) {
	matches := make([]*domain.ProcessedParcel, 0)
	overlaps := make([]domain.OverlapStats, 0)

	query := make([]domain.ConvertedCoords, 0, len(coords))
	for _, c := range coords {
		if c != nil {
			query = append(query, *c)
		}
	}
	if len(query) < 3 {
		return matches, overlaps
	}

	queryRing, ok := RingFromPoints(query)
	if !ok || !RingIsValid(queryRing) {
		e.logger.Warn("query polygon is not usable, returning no overlaps",
			zap.Int("coordinates", len(query)))
		return matches, overlaps
	}

	for _, plot := range corpus {
		if len(plot.PointList) < 3 {
			continue
		}
		plotRing, ok := RingFromPoints(plot.PointList)
		if !ok || !RingIsValid(plotRing) {
			e.logger.Warn("skipping parcel with invalid polygon",
				zap.String("parcel_id", plot.ID))
			continue
		}
		if !RingsIntersect(queryRing, plotRing) {
			continue
		}

		matches = append(matches, plot)
		overlaps = append(overlaps, ComputeOverlap(query, plot.PointList))
	}

	return matches, overlaps
}

// Radius finds all parcels with at least one ring point within radiusKm
// of any query coordinate. The boundary is inclusive.
func (e *Engine) Radius(corpus []*domain.ProcessedParcel, coords []*domain.ConvertedCoords, radiusKm float64) []*domain.ProcessedParcel {
	matches := make([]*domain.ProcessedParcel, 0)

	for _, plot := range corpus {
		if parcelWithinRadius(plot, coords, radiusKm) {
			matches = append(matches, plot)
		}
	}

	return matches
}

// Exact finds all parcels with a ring point approximately equal to any
// query coordinate. Axes are compared independently; a missing value on
// either side of a comparison passes that axis. A non-positive
// tolerance selects the engine default.
func (e *Engine) Exact(corpus []*domain.ProcessedParcel, coords []*domain.ConvertedCoords, tolerance float64) []*domain.ProcessedParcel {
	if tolerance <= 0 {
		tolerance = e.tolerance
	}

	matches := make([]*domain.ProcessedParcel, 0)
	for _, plot := range corpus {
		if parcelMatchesExact(plot, coords, tolerance) {
			matches = append(matches, plot)
		}
	}

	return matches
}

func parcelWithinRadius(plot *domain.ProcessedParcel, coords []*domain.ConvertedCoords, radiusKm float64) bool {
	for _, point := range plot.PointList {
		if point.Latitude == nil || point.Longitude == nil {
			continue
		}
		for _, probe := range coords {
			if probe == nil || probe.Latitude == nil || probe.Longitude == nil {
				continue
			}
			d := utils.HaversineDistance(*probe.Latitude, *probe.Longitude, *point.Latitude, *point.Longitude)
			if d <= radiusKm {
				return true
			}
		}
	}
	return false
}

func parcelMatchesExact(plot *domain.ProcessedParcel, coords []*domain.ConvertedCoords, tolerance float64) bool {
	for _, point := range plot.PointList {
		for _, probe := range coords {
			if probe == nil {
				continue
			}
			if approxMatch(probe.Latitude, probe.Longitude, point.Latitude, point.Longitude, tolerance) {
				return true
			}
		}
	}
	return false
}

// approxMatch compares two coordinates axis by axis within the
// tolerance; a nil value on either side passes its axis
func approxMatch(lat1, lon1, lat2, lon2 *float64, tolerance float64) bool {
	latOK := lat1 == nil || lat2 == nil || math.Abs(*lat1-*lat2) <= tolerance
	lonOK := lon1 == nil || lon2 == nil || math.Abs(*lon1-*lon2) <= tolerance
	return latOK && lonOK
}
