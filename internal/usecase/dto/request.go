package dto

import "github.com/landsearch-microservice/internal/domain"

// CoordinateRequest - one polygon vertex in a search query
type CoordinateRequest struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	RefPoint  bool     `json:"ref_point"`
}

// SearchRequest - parameters of a site plan search. Match selects the
// strategy; with an empty value the polygon overlap comparison runs.
type SearchRequest struct {
	PlotNumber   string              `json:"plot_number" validate:"omitempty,max=100"`
	Locality     string              `json:"locality" validate:"omitempty,max=200"`
	District     string              `json:"district" validate:"omitempty,max=200"`
	Region       string              `json:"region" validate:"omitempty,max=200"`
	SearchRadius float64             `json:"search_radius" validate:"omitempty,min=0"`
	Match        string              `json:"match" validate:"omitempty,oneof=exact radius overlap"`
	Tolerance    float64             `json:"tolerance" validate:"omitempty,min=0"`
	Coordinates  []CoordinateRequest `json:"coordinates" validate:"required,min=1,dive"`
}

// ToFilters maps the request onto the domain search filters
func (r *SearchRequest) ToFilters() domain.SearchFilters {
	coords := make([]*domain.ConvertedCoords, 0, len(r.Coordinates))
	for _, c := range r.Coordinates {
		coords = append(coords, &domain.ConvertedCoords{
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			RefPoint:  c.RefPoint,
		})
	}
	return domain.SearchFilters{
		PlotNumber:   r.PlotNumber,
		Locality:     r.Locality,
		District:     r.District,
		Region:       r.Region,
		SearchRadius: r.SearchRadius,
		Match:        domain.MatchType(r.Match),
		Tolerance:    r.Tolerance,
		Coordinates:  coords,
	}
}

// ProcessRequest - raw extraction output submitted for processing.
// Store controls whether the result lands in the staging table; it
// defaults to true when omitted.
type ProcessRequest struct {
	UserID   string              `json:"user_id" validate:"required,max=100"`
	UploadID string              `json:"upload_id" validate:"required,uuid"`
	FileName string              `json:"file_name" validate:"required,max=255"`
	Store    *bool               `json:"store"`
	Document *domain.RawLandData `json:"document" validate:"required"`
}

// ShouldStore reports whether the processed parcel must be persisted
func (r *ProcessRequest) ShouldStore() bool {
	return r.Store == nil || *r.Store
}

// StoreRequest - reviewed parcel submitted for approval
type StoreRequest struct {
	UserID string                  `json:"user_id" validate:"required,max=100"`
	Parcel *domain.ProcessedParcel `json:"parcel" validate:"required"`
}

// BulkStoreRequest - a batch of parcels stored as approved in one call
type BulkStoreRequest struct {
	UserID  string                    `json:"user_id" validate:"required,max=100"`
	Parcels []*domain.ProcessedParcel `json:"parcels" validate:"required,min=1"`
}
