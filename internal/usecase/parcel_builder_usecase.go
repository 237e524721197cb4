package usecase

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/geometry"
	"github.com/landsearch-microservice/internal/pkg/errors"
	"github.com/landsearch-microservice/internal/pkg/metrics"
	"github.com/landsearch-microservice/internal/pkg/utils"
)

// CoordinateConverter reprojects Ghana National Grid positions to WGS84
type CoordinateConverter interface {
	ToLatLon(northing, easting float64) (lat, lon float64, err error)
}

// ParcelBuilderUseCase turns raw extraction output into a processed
// parcel: converts every survey and boundary coordinate, flags
// reference beacons by name, removes the reference pillar and arranges
// the remaining points into a polygon ring. Individual bad points are
// skipped and reported as diagnostics; the parcel as a whole only fails
// when no geometry can be built at all.
type ParcelBuilderUseCase struct {
	converter CoordinateConverter
	matcher   *geometry.ReferenceNameMatcher
	logger    *zap.Logger
}

// NewParcelBuilderUseCase - creates a new ParcelBuilderUseCase
func NewParcelBuilderUseCase(
	converter CoordinateConverter,
	matcher *geometry.ReferenceNameMatcher,
	logger *zap.Logger,
) *ParcelBuilderUseCase {
	return &ParcelBuilderUseCase{
		converter: converter,
		matcher:   matcher,
		logger:    logger,
	}
}

// Build processes one raw land document into a parcel with converted
// coordinates and an assembled point list. The returned diagnostics
// list the points that were dropped along the way.
func (uc *ParcelBuilderUseCase) Build(raw *domain.RawLandData) (*domain.ProcessedParcel, []domain.SkippedPoint, error) {
	if raw == nil || raw.SitePlanData == nil || raw.SitePlanData.PlanData == nil {
		return nil, nil, errors.ErrInsufficientPoints.WithDetails(map[string]interface{}{
			"reason": "missing site plan data",
		})
	}

	skipped := make([]domain.SkippedPoint, 0)

	surveyPoints := uc.buildSurveyPoints(raw.SitePlanData.PlanData, &skipped)
	boundaryPoints := uc.buildBoundaryPoints(raw.SitePlanData.NorthEasterns, &skipped)

	// The point list starts from every converted survey coordinate
	candidates := make([]domain.ConvertedCoords, 0, len(surveyPoints))
	for _, sp := range surveyPoints {
		candidates = append(candidates, *sp.ConvertedCoords)
	}

	refIndex, err := geometry.FindReferenceIndex(candidates)
	if err != nil {
		uc.logger.Error("Failed to locate reference pillar",
			zap.Int("survey_points", len(candidates)),
			zap.Error(err))
		return nil, skipped, errors.ErrInsufficientPoints.WithDetails(map[string]interface{}{
			"survey_points": len(candidates),
		})
	}

	ring := make([]domain.ConvertedCoords, 0, len(candidates)-1)
	for i, c := range candidates {
		if i != refIndex {
			ring = append(ring, c)
		}
	}

	parcel := &domain.ProcessedParcel{
		ID:             uuid.NewString(),
		PlotInfo:       buildPlotInfo(raw),
		SurveyPoints:   surveyPoints,
		BoundaryPoints: boundaryPoints,
		PointList:      geometry.ArrangeRing(ring),
	}

	return parcel, skipped, nil
}

// Recompute rebuilds the converted coordinates and the point list of an
// already processed parcel after its grid coordinates were edited.
// With removeReference the reference pillar is located again and
// excluded from the ring; otherwise every converted point takes part.
// The caller decides whether to persist the result.
func (uc *ParcelBuilderUseCase) Recompute(parcel *domain.ProcessedParcel, removeReference bool) (*domain.ProcessedParcel, []domain.SkippedPoint, error) {
	if parcel == nil {
		return nil, nil, errors.ErrInvalidRequest
	}

	skipped := make([]domain.SkippedPoint, 0)

	out := *parcel
	out.SurveyPoints = make([]domain.SurveyPoint, len(parcel.SurveyPoints))
	copy(out.SurveyPoints, parcel.SurveyPoints)

	for i := range out.SurveyPoints {
		sp := &out.SurveyPoints[i]
		if sp.OriginalCoords == nil || sp.OriginalCoords.X == nil || sp.OriginalCoords.Y == nil {
			skipped = append(skipped, domain.SkippedPoint{
				Section: "survey",
				Index:   i,
				Reason:  "missing grid coordinates",
			})
			continue
		}

		lat, lon, err := uc.converter.ToLatLon(*sp.OriginalCoords.X, *sp.OriginalCoords.Y)
		if err != nil {
			// Keep the previous converted value for this point
			uc.logger.Warn("Failed to reconvert survey point",
				zap.Int("index", i),
				zap.String("point_name", sp.PointName),
				zap.Error(err))
			skipped = append(skipped, domain.SkippedPoint{
				Section: "survey",
				Index:   i,
				Reason:  err.Error(),
			})
			continue
		}

		sp.ConvertedCoords = &domain.ConvertedCoords{
			Latitude:  &lat,
			Longitude: &lon,
			RefPoint:  sp.OriginalCoords.RefPoint,
		}
	}

	out.BoundaryPoints = make([]domain.BoundaryPoint, len(parcel.BoundaryPoints))
	copy(out.BoundaryPoints, parcel.BoundaryPoints)
	for i := range out.BoundaryPoints {
		bp := &out.BoundaryPoints[i]
		lat, lon, err := uc.converter.ToLatLon(bp.Northing, bp.Easting)
		if err != nil {
			uc.logger.Warn("Failed to reconvert boundary point",
				zap.Int("index", i),
				zap.Error(err))
			skipped = append(skipped, domain.SkippedPoint{
				Section: "boundary",
				Index:   i,
				Reason:  err.Error(),
			})
			continue
		}
		bp.Latitude = utils.RoundTo(lat, 8)
		bp.Longitude = utils.RoundTo(lon, 8)
	}

	candidates := make([]domain.ConvertedCoords, 0, len(out.SurveyPoints))
	for _, sp := range out.SurveyPoints {
		if sp.ConvertedCoords != nil && sp.ConvertedCoords.Latitude != nil && sp.ConvertedCoords.Longitude != nil {
			candidates = append(candidates, *sp.ConvertedCoords)
		}
	}

	if removeReference {
		refIndex, err := geometry.FindReferenceIndex(candidates)
		if err != nil {
			return nil, skipped, errors.ErrInsufficientPoints.WithDetails(map[string]interface{}{
				"survey_points": len(candidates),
			})
		}
		ring := make([]domain.ConvertedCoords, 0, len(candidates)-1)
		for i, c := range candidates {
			if i != refIndex {
				ring = append(ring, c)
			}
		}
		candidates = ring
	}

	out.PointList = geometry.ArrangeRing(candidates)
	return &out, skipped, nil
}

// buildSurveyPoints converts the survey table arrays point by point.
// A point needs both grid coordinates; everything else about it is
// optional. Conversion failures drop the point, not the parcel.
func (uc *ParcelBuilderUseCase) buildSurveyPoints(plan *domain.RawPlanData, skipped *[]domain.SkippedPoint) []domain.SurveyPoint {
	n := len(plan.XCoords)
	if len(plan.YCoords) > n {
		n = len(plan.YCoords)
	}
	if len(plan.From) > n {
		n = len(plan.From)
	}

	points := make([]domain.SurveyPoint, 0, n)
	for i := 0; i < n; i++ {
		if i >= len(plan.XCoords) || i >= len(plan.YCoords) {
			*skipped = append(*skipped, domain.SkippedPoint{
				Section: "survey",
				Index:   i,
				Reason:  "missing grid coordinates",
			})
			continue
		}

		x := plan.XCoords[i]
		y := plan.YCoords[i]
		name := ""
		if i < len(plan.From) {
			name = plan.From[i]
		}
		isRef := uc.matcher.Match(name)

		lat, lon, err := uc.converter.ToLatLon(x, y)
		if err != nil {
			uc.logger.Warn("Failed to convert survey point",
				zap.Int("index", i),
				zap.String("point_name", name),
				zap.Error(err))
			metrics.PointsDroppedTotal.Inc()
			*skipped = append(*skipped, domain.SkippedPoint{
				Section: "survey",
				Index:   i,
				Reason:  err.Error(),
			})
			continue
		}

		points = append(points, domain.SurveyPoint{
			PointName: name,
			OriginalCoords: &domain.OriginalCoords{
				X:        &x,
				Y:        &y,
				RefPoint: isRef,
			},
			ConvertedCoords: &domain.ConvertedCoords{
				Latitude:  &lat,
				Longitude: &lon,
				RefPoint:  isRef,
			},
			NextPoint: nextPointFor(plan, i),
		})
	}

	return points
}

// buildBoundaryPoints converts the pillar coordinates printed around
// the plan edge. A missing easting defaults to zero, matching how the
// sheets are read.
func (uc *ParcelBuilderUseCase) buildBoundaryPoints(ne *domain.RawNorthEasterns, skipped *[]domain.SkippedPoint) []domain.BoundaryPoint {
	points := make([]domain.BoundaryPoint, 0)
	if ne == nil {
		return points
	}

	for i, north := range ne.Norths {
		east := 0.0
		if i < len(ne.Easterns) {
			east = ne.Easterns[i]
		}

		lat, lon, err := uc.converter.ToLatLon(north, east)
		if err != nil {
			uc.logger.Warn("Failed to convert boundary point",
				zap.Int("index", i),
				zap.Error(err))
			metrics.PointsDroppedTotal.Inc()
			*skipped = append(*skipped, domain.SkippedPoint{
				Section: "boundary",
				Index:   i,
				Reason:  err.Error(),
			})
			continue
		}

		points = append(points, domain.BoundaryPoint{
			Point:     fmt.Sprintf("Boundary_%d", i+1),
			Northing:  north,
			Easting:   east,
			Latitude:  utils.RoundTo(lat, 8),
			Longitude: utils.RoundTo(lon, 8),
		})
	}

	return points
}

func nextPointFor(plan *domain.RawPlanData, i int) *domain.NextPoint {
	np := &domain.NextPoint{}
	if i < len(plan.To) {
		np.Name = plan.To[i]
	}
	if i < len(plan.Bearing) {
		np.Bearing = plan.Bearing[i]
	}
	if np.Bearing != "" {
		dec := geometry.BearingToDecimal(np.Bearing)
		np.BearingDecimal = &dec
	}
	if i < len(plan.Distance) {
		d := plan.Distance[i]
		np.Distance = &d
	}
	return np
}

func buildPlotInfo(raw *domain.RawLandData) *domain.PlotInfo {
	area := utils.ToFloat(raw.Area)
	return &domain.PlotInfo{
		PlotNumber:           raw.PlotNumber,
		Area:                 &area,
		Metric:               raw.Metric,
		Locality:             raw.Locality,
		District:             raw.District,
		Region:               raw.Region,
		Owners:               raw.Owners,
		Date:                 raw.Date,
		Scale:                raw.Scale,
		OtherLocationDetails: raw.OtherLocationDetails,
		SurveyorsName:        raw.SurveyorsName,
		SurveyorsLocation:    raw.SurveyorsLocation,
		SurveyorsRegNumber:   raw.SurveyorsRegNumber,
		RegionalNumber:       raw.RegionalNumber,
		ReferenceNumber:      raw.ReferenceNumber,
	}
}
