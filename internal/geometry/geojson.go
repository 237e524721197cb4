package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/landsearch-microservice/internal/domain"
)

// ParcelFeature renders the assembled ring of a parcel as a GeoJSON
// Feature, with the descriptive plot fields as properties. Fails when
// the parcel has no usable ring.
func ParcelFeature(parcel *domain.ProcessedParcel) (*geojson.Feature, error) {
	if parcel == nil {
		return nil, fmt.Errorf("nil parcel")
	}

	ring, ok := RingFromPoints(parcel.PointList)
	if !ok {
		return nil, fmt.Errorf("parcel %s has no usable ring", parcel.ID)
	}

	feature := geojson.NewFeature(orb.Polygon{ring})
	feature.ID = parcel.ID
	feature.Properties = geojson.Properties{
		"id": parcel.ID,
	}

	if info := parcel.PlotInfo; info != nil {
		feature.Properties["plot_number"] = info.PlotNumber
		feature.Properties["region"] = info.Region
		feature.Properties["district"] = info.District
		feature.Properties["locality"] = info.Locality
		feature.Properties["owners"] = info.Owners
		feature.Properties["metric"] = info.Metric
		feature.Properties["date"] = info.Date
		if info.Area != nil {
			feature.Properties["area"] = *info.Area
		}
	}

	return feature, nil
}
