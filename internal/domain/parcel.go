package domain

// Raw extraction output for a single site plan. Fields arrive from the
// document-extraction service as parallel arrays: index i across the
// plan_data arrays describes the same survey point, and shorter arrays
// mean the trailing values are absent.

// RawPlanData - survey table of a site plan (parallel arrays)
type RawPlanData struct {
	From     []string  `json:"from"`
	XCoords  []float64 `json:"x_coords"`
	Ref      []bool    `json:"ref"`
	YCoords  []float64 `json:"y_coords"`
	Bearing  []string  `json:"bearing"`
	Distance []float64 `json:"distance"`
	To       []string  `json:"to"`
}

// RawNorthEasterns - boundary pillar coordinates in Ghana National Grid
type RawNorthEasterns struct {
	Norths   []float64 `json:"norths"`
	Easterns []float64 `json:"easterns"`
}

// RawSitePlanData - geometric part of the extraction output
type RawSitePlanData struct {
	PlanData      *RawPlanData      `json:"plan_data"`
	NorthEasterns *RawNorthEasterns `json:"north_easterns"`
}

// RawLandData - complete extraction output for one document
type RawLandData struct {
	Owners               []string         `json:"owners"`
	PlotNumber           string           `json:"plot_number"`
	Date                 string           `json:"date"`
	Area                 string           `json:"area"`
	Metric               string           `json:"metric"`
	Scale                string           `json:"scale"`
	Locality             string           `json:"locality"`
	District             string           `json:"district"`
	Region               string           `json:"region"`
	OtherLocationDetails string           `json:"other_location_details"`
	SurveyorsName        string           `json:"surveyors_name"`
	SurveyorsLocation    string           `json:"surveyors_location"`
	SurveyorsRegNumber   string           `json:"surveyors_reg_number"`
	RegionalNumber       string           `json:"regional_number"`
	ReferenceNumber      string           `json:"reference_number"`
	SitePlanData         *RawSitePlanData `json:"site_plan_data"`
}

// OriginalCoords - point position on the Ghana National Grid.
// X is the northing, Y the easting (survey sheet convention).
type OriginalCoords struct {
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	RefPoint bool     `json:"ref_point"`
}

// ConvertedCoords - point position in WGS84. Also the element type of
// the assembled ring (point_list); documents loaded from storage may
// carry null coordinates.
type ConvertedCoords struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	RefPoint  bool     `json:"ref_point"`
}

// NextPoint - traverse leg from a survey point to the next one
type NextPoint struct {
	Name           string   `json:"name"`
	Bearing        string   `json:"bearing"`
	BearingDecimal *float64 `json:"bearing_decimal"`
	Distance       *float64 `json:"distance"`
}

// SurveyPoint - one row of the processed survey table
type SurveyPoint struct {
	PointName       string           `json:"point_name"`
	OriginalCoords  *OriginalCoords  `json:"original_coords"`
	ConvertedCoords *ConvertedCoords `json:"converted_coords"`
	NextPoint       *NextPoint       `json:"next_point"`
}

// BoundaryPoint - converted boundary pillar, labelled Boundary_<n>
type BoundaryPoint struct {
	Point     string  `json:"point"`
	Northing  float64 `json:"northing"`
	Easting   float64 `json:"easting"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlotInfo - descriptive fields passed through from the extraction
type PlotInfo struct {
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
}

// ProcessedParcel - fully processed site plan. ID is assigned once at
// creation (storage row id, or a fresh uuid when built ad hoc) and never
// changes afterwards. PointList is the ordered polygon ring with the
// reference pillar removed.
type ProcessedParcel struct {
	ID             string            `json:"id"`
	PlotInfo       *PlotInfo         `json:"plot_info"`
	SurveyPoints   []SurveyPoint     `json:"survey_points"`
	BoundaryPoints []BoundaryPoint   `json:"boundary_points"`
	PointList      []ConvertedCoords `json:"point_list"`
}

// ParcelStatus values for staging rows
const (
	ParcelStatusFailed      = 0
	ParcelStatusUnprocessed = 1
)

// SkippedPoint - diagnostic for a survey or boundary point dropped
// while building parcel geometry. Processing continues past individual
// bad points; the diagnostics travel with the result.
type SkippedPoint struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
}

// PlotMetadata - distinct attribute values across a parcel set,
// used by clients to populate filter dropdowns
type PlotMetadata struct {
	Regions     []string `json:"regions"`
	Districts   []string `json:"districts"`
	Localities  []string `json:"localities"`
	PlotNumbers []string `json:"plot_numbers"`
}
