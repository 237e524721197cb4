package dto

import "github.com/landsearch-microservice/internal/domain"

// SearchResponse - result of a site plan search. Matches and Overlaps
// are index aligned: Overlaps[i] describes how Matches[i] relates to
// the query polygon, and stays empty for radius and exact searches.
type SearchResponse struct {
	Matches  []ParcelDTO       `json:"matches"`
	Overlaps []OverlapStatsDTO `json:"overlaps,omitempty"`
	Total    int               `json:"total"`
}

// NewSearchResponse builds the response and marks the caller's own
// plan: a match whose plot number equals the queried one gets the
// is_search_plan flag so clients can exclude it from the hit list.
func NewSearchResponse(result *domain.SearchResult, queryPlotNumber string) *SearchResponse {
	resp := &SearchResponse{
		Matches: ConvertParcels(result.Matches),
		Total:   len(result.Matches),
	}
	if len(result.Overlaps) > 0 {
		resp.Overlaps = make([]OverlapStatsDTO, 0, len(result.Overlaps))
		for _, s := range result.Overlaps {
			resp.Overlaps = append(resp.Overlaps, ConvertOverlap(s))
		}
	}
	if queryPlotNumber == "" {
		return resp
	}
	for i := range resp.Matches {
		if resp.Matches[i].PlotInfo != nil && resp.Matches[i].PlotInfo.PlotNumber == queryPlotNumber {
			resp.Matches[i].PlotInfo.IsSearchPlan = true
		}
	}
	return resp
}

// ProcessResponse - result of processing one raw document
type ProcessResponse struct {
	Parcel        ParcelDTO         `json:"parcel"`
	SkippedPoints []SkippedPointDTO `json:"skipped_points,omitempty"`
	Stored        bool              `json:"stored"`
}

// RecomputeResponse - parcel with freshly converted coordinates.
// The result is returned for review and not persisted.
type RecomputeResponse struct {
	Parcel        ParcelDTO         `json:"parcel"`
	SkippedPoints []SkippedPointDTO `json:"skipped_points,omitempty"`
}

// ParcelListResponse - a page of parcels
type ParcelListResponse struct {
	Parcels []ParcelDTO `json:"parcels"`
	Total   int         `json:"total"`
}

// StoreResponse - identifier of a stored parcel
type StoreResponse struct {
	ID string `json:"id"`
}

// BulkStoreResponse - identifiers of parcels stored in one call
type BulkStoreResponse struct {
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

// MetadataResponse - distinct filter values across stored parcels
type MetadataResponse struct {
	Metadata domain.PlotMetadata `json:"metadata"`
}
