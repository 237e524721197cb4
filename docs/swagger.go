// Package docs LandSearch Microservice API.
//
// Microservice for Ghana site plan geometry and search. Converts surveyed
// grid coordinates to WGS84, assembles parcel boundary measurements into
// polygon rings, and answers overlap, radius and exact coordinate queries
// across the stored corpus.
//
// Main capabilities:
// - Process raw extraction output into reviewable site plans
// - Stage, approve and manage the stored plan corpus
// - Search site plans by polygon overlap, radius or exact points
// - Export plan geometry as GeoJSON for map clients
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- application/geo+json
//
// swagger:meta
package docs
