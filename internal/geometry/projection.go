package geometry

import (
	"fmt"

	"github.com/twpayne/go-proj/v10"
)

// Default CRS codes: Ghana National Grid to WGS84
const (
	DefaultSourceCRS = "EPSG:2136"
	DefaultTargetCRS = "EPSG:4326"
)

// GridConverter reprojects Ghana National Grid coordinates to WGS84.
// The underlying PROJ transformation is built once and reused for every
// point; PJ handles are safe for concurrent use.
type GridConverter struct {
	pj *proj.PJ
}

// NewGridConverter builds the transformation between the two CRS codes.
// A bad code or a missing grid definition fails here, not per point.
func NewGridConverter(sourceCRS, targetCRS string) (*GridConverter, error) {
	if sourceCRS == "" {
		sourceCRS = DefaultSourceCRS
	}
	if targetCRS == "" {
		targetCRS = DefaultTargetCRS
	}

	pj, err := proj.NewCRSToCRS(sourceCRS, targetCRS, nil)
	if err != nil {
		return nil, fmt.Errorf("create transformation %s -> %s: %w", sourceCRS, targetCRS, err)
	}

	return &GridConverter{pj: pj}, nil
}

// ToLatLon converts one grid position to WGS84. Survey sheets list the
// northing as the x coordinate, so callers pass (x, y) pairs directly.
// Axis order is not normalized: EPSG:2136 input is (easting, northing)
// and EPSG:4326 output is (latitude, longitude).
func (c *GridConverter) ToLatLon(northing, easting float64) (lat, lon float64, err error) {
	out, err := c.pj.Forward(proj.NewCoord(easting, northing, 0, 0))
	if err != nil {
		return 0, 0, fmt.Errorf("transform point (%f, %f): %w", northing, easting, err)
	}
	return out.X(), out.Y(), nil
}

// Close releases the PROJ transformation handle
func (c *GridConverter) Close() {
	if c.pj != nil {
		c.pj.Destroy()
	}
}
