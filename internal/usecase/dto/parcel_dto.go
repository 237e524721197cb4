package dto

import (
	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/pkg/utils"
)

// Float fields are rounded to 6 decimal places on the way out. Grid
// coordinates are coarser than that already; for converted degrees the
// rounding strips sub-micro reprojection noise. Stored documents keep
// full precision, only responses are rounded.

// OriginalCoordsDTO - grid position of a survey point
type OriginalCoordsDTO struct {
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	RefPoint bool     `json:"ref_point"`
}

// ConvertedCoordsDTO - WGS84 position of a survey or ring point
type ConvertedCoordsDTO struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	RefPoint  bool     `json:"ref_point"`
}

// NextPointDTO - traverse leg to the following survey point
type NextPointDTO struct {
	Name           string   `json:"name"`
	Bearing        string   `json:"bearing"`
	BearingDecimal *float64 `json:"bearing_decimal"`
	Distance       *float64 `json:"distance"`
}

// SurveyPointDTO - one processed survey table row
type SurveyPointDTO struct {
	PointName       string              `json:"point_name"`
	OriginalCoords  *OriginalCoordsDTO  `json:"original_coords"`
	ConvertedCoords *ConvertedCoordsDTO `json:"converted_coords"`
	NextPoint       *NextPointDTO       `json:"next_point"`
}

// BoundaryPointDTO - converted boundary pillar
type BoundaryPointDTO struct {
	Point     string  `json:"point"`
	Northing  float64 `json:"northing"`
	Easting   float64 `json:"easting"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlotInfoDTO - descriptive plan fields. IsSearchPlan marks the
// caller's own plan in search results.
type PlotInfoDTO struct {
	PlotNumber           string   `json:"plot_number"`
	Area                 *float64 `json:"area"`
	Metric               string   `json:"metric"`
	Locality             string   `json:"locality"`
	District             string   `json:"district"`
	Region               string   `json:"region"`
	Owners               []string `json:"owners"`
	Date                 string   `json:"date"`
	Scale                string   `json:"scale"`
	OtherLocationDetails string   `json:"other_location_details"`
	SurveyorsName        string   `json:"surveyors_name"`
	SurveyorsLocation    string   `json:"surveyors_location"`
	SurveyorsRegNumber   string   `json:"surveyors_reg_number"`
	RegionalNumber       string   `json:"regional_number"`
	ReferenceNumber      string   `json:"reference_number"`
	IsSearchPlan         bool     `json:"is_search_plan,omitempty"`
}

// ParcelDTO - full processed site plan as served to clients
type ParcelDTO struct {
	ID             string               `json:"id"`
	PlotInfo       *PlotInfoDTO         `json:"plot_info"`
	SurveyPoints   []SurveyPointDTO     `json:"survey_points"`
	BoundaryPoints []BoundaryPointDTO   `json:"boundary_points"`
	PointList      []ConvertedCoordsDTO `json:"point_list"`
}

// OverlapStatsDTO - polygon comparison result for one search match
type OverlapStatsDTO struct {
	OverlapPercentage float64 `json:"overlap_percentage"`
	OverlapArea       float64 `json:"overlap_area"`
	Poly1Area         float64 `json:"poly1_area"`
	Poly2Area         float64 `json:"poly2_area"`
	Error             string  `json:"error,omitempty"`
}

// SkippedPointDTO - diagnostic for a point dropped during processing
type SkippedPointDTO struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
}

// ConvertParcel maps a domain parcel to its transport form
func ConvertParcel(p *domain.ProcessedParcel) ParcelDTO {
	out := ParcelDTO{
		ID:             p.ID,
		PlotInfo:       convertPlotInfo(p.PlotInfo),
		SurveyPoints:   make([]SurveyPointDTO, 0, len(p.SurveyPoints)),
		BoundaryPoints: make([]BoundaryPointDTO, 0, len(p.BoundaryPoints)),
		PointList:      make([]ConvertedCoordsDTO, 0, len(p.PointList)),
	}

	for _, sp := range p.SurveyPoints {
		out.SurveyPoints = append(out.SurveyPoints, SurveyPointDTO{
			PointName:       sp.PointName,
			OriginalCoords:  convertOriginalCoords(sp.OriginalCoords),
			ConvertedCoords: convertConvertedCoords(sp.ConvertedCoords),
			NextPoint:       convertNextPoint(sp.NextPoint),
		})
	}

	for _, bp := range p.BoundaryPoints {
		out.BoundaryPoints = append(out.BoundaryPoints, BoundaryPointDTO{
			Point:     bp.Point,
			Northing:  utils.RoundTo(bp.Northing, 6),
			Easting:   utils.RoundTo(bp.Easting, 6),
			Latitude:  utils.RoundTo(bp.Latitude, 6),
			Longitude: utils.RoundTo(bp.Longitude, 6),
		})
	}

	for _, pt := range p.PointList {
		c := domain.ConvertedCoords{Latitude: pt.Latitude, Longitude: pt.Longitude, RefPoint: pt.RefPoint}
		out.PointList = append(out.PointList, *convertConvertedCoords(&c))
	}

	return out
}

// ConvertParcels maps a slice of parcels, skipping nil entries
func ConvertParcels(parcels []*domain.ProcessedParcel) []ParcelDTO {
	out := make([]ParcelDTO, 0, len(parcels))
	for _, p := range parcels {
		if p == nil {
			continue
		}
		out = append(out, ConvertParcel(p))
	}
	return out
}

// ConvertOverlap maps domain overlap stats to the transport form
func ConvertOverlap(s domain.OverlapStats) OverlapStatsDTO {
	return OverlapStatsDTO{
		OverlapPercentage: s.OverlapPercentage,
		OverlapArea:       s.OverlapArea,
		Poly1Area:         s.Poly1Area,
		Poly2Area:         s.Poly2Area,
		Error:             s.Error,
	}
}

// ConvertSkippedPoints maps processing diagnostics
func ConvertSkippedPoints(points []domain.SkippedPoint) []SkippedPointDTO {
	out := make([]SkippedPointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, SkippedPointDTO{
			Section: p.Section,
			Index:   p.Index,
			Reason:  p.Reason,
		})
	}
	return out
}

func convertPlotInfo(info *domain.PlotInfo) *PlotInfoDTO {
	if info == nil {
		return nil
	}
	return &PlotInfoDTO{
		PlotNumber:           info.PlotNumber,
		Area:                 roundPtr(info.Area),
		Metric:               info.Metric,
		Locality:             info.Locality,
		District:             info.District,
		Region:               info.Region,
		Owners:               info.Owners,
		Date:                 info.Date,
		Scale:                info.Scale,
		OtherLocationDetails: info.OtherLocationDetails,
		SurveyorsName:        info.SurveyorsName,
		SurveyorsLocation:    info.SurveyorsLocation,
		SurveyorsRegNumber:   info.SurveyorsRegNumber,
		RegionalNumber:       info.RegionalNumber,
		ReferenceNumber:      info.ReferenceNumber,
	}
}

func convertOriginalCoords(c *domain.OriginalCoords) *OriginalCoordsDTO {
	if c == nil {
		return nil
	}
	return &OriginalCoordsDTO{
		X:        roundPtr(c.X),
		Y:        roundPtr(c.Y),
		RefPoint: c.RefPoint,
	}
}

func convertConvertedCoords(c *domain.ConvertedCoords) *ConvertedCoordsDTO {
	if c == nil {
		return nil
	}
	return &ConvertedCoordsDTO{
		Latitude:  roundPtr(c.Latitude),
		Longitude: roundPtr(c.Longitude),
		RefPoint:  c.RefPoint,
	}
}

func convertNextPoint(np *domain.NextPoint) *NextPointDTO {
	if np == nil {
		return nil
	}
	return &NextPointDTO{
		Name:           np.Name,
		Bearing:        np.Bearing,
		BearingDecimal: roundPtr(np.BearingDecimal),
		Distance:       roundPtr(np.Distance),
	}
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := utils.RoundTo(*v, 6)
	return &r
}
