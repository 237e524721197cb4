package domain

// MatchType selects the coordinate-matching strategy of a search.
// Anything other than the two point modes falls back to polygon overlap.
type MatchType string

const (
	MatchExact  MatchType = "exact"
	MatchRadius MatchType = "radius"
)

// SearchFilters - coordinate search query. Coordinates are the query
// polygon vertices (overlap mode) or probe points (radius/exact mode);
// null entries are tolerated and skipped. PlotNumber flags the caller's
// own plan in the results. Attribute filters narrow the corpus before
// any coordinate matching.
type SearchFilters struct {
	PlotNumber   string             `json:"plot_number"`
	Locality     string             `json:"locality"`
	District     string             `json:"district"`
	Region       string             `json:"region"`
	SearchRadius float64            `json:"search_radius"`
	Match        MatchType          `json:"match"`
	Tolerance    float64            `json:"tolerance"`
	Coordinates  []*ConvertedCoords `json:"coordinates"`
}

// OverlapStats - polygon comparison result for one matched parcel.
// Areas are planar, in squared degrees, matching the stored geometry.
type OverlapStats struct {
	OverlapPercentage float64 `json:"overlap_percentage"`
	OverlapArea       float64 `json:"overlap_area"`
	Poly1Area         float64 `json:"poly1_area"`
	Poly2Area         float64 `json:"poly2_area"`
	Error             string  `json:"error,omitempty"`
}

// SearchResult - matched parcels plus, for overlap mode, the stats for
// each match. Matches and Overlaps are index-aligned and always of
// equal length; point modes leave Overlaps nil.
type SearchResult struct {
	Matches  []*ProcessedParcel `json:"matches"`
	Overlaps []OverlapStats     `json:"overlaps,omitempty"`
}
