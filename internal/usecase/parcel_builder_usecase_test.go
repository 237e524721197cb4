package usecase_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/geometry"
	"github.com/landsearch-microservice/internal/pkg/errors"
	"github.com/landsearch-microservice/internal/usecase"
)

// stubConverter maps grid coordinates to degrees linearly so tests can
// reason about the resulting geometry without a PROJ installation
type stubConverter struct {
	fn func(northing, easting float64) (float64, float64, error)
}

func (s *stubConverter) ToLatLon(northing, easting float64) (float64, float64, error) {
	if s.fn != nil {
		return s.fn(northing, easting)
	}
	return northing / 100000.0, easting / 100000.0, nil
}

func newBuilder(t *testing.T, conv usecase.CoordinateConverter) *usecase.ParcelBuilderUseCase {
	t.Helper()
	matcher, err := geometry.NewReferenceNameMatcher("")
	require.NoError(t, err)
	return usecase.NewParcelBuilderUseCase(conv, matcher, zap.NewNop())
}

// surveyFixture is a small plan: four corner pillars around a plot in
// the Ghana National Grid plus a distant CORS reference station
func surveyFixture() *domain.RawLandData {
	return &domain.RawLandData{
		Owners:     []string{"Kwame Mensah", "Abena Mensah"},
		PlotNumber: "TN/1042",
		Date:       "14/03/2021",
		Area:       "0.25 Acres",
		Metric:     "Acres",
		Scale:      "1:2500",
		Locality:   "Adenta",
		District:   "Adentan Municipal",
		Region:     "Greater Accra",
		SitePlanData: &domain.RawSitePlanData{
			PlanData: &domain.RawPlanData{
				From: []string{
					"SGGA 3456/21/1",
					"SGGA 3456/21/2",
					"SGGA 3456/21/3",
					"SGGA 3456/21/4",
					"CORS GCS 121 122",
				},
				XCoords: []float64{1214986.33, 1215099.12, 1215243.77, 1215130.50, 1220000.00},
				YCoords: []float64{398201.45, 398150.20, 398260.08, 398310.90, 405000.00},
				Ref:     []bool{false, false, false, false, false},
				Bearing: []string{"13°10'", "95°30'", "185°45'", "275°00'"},
				Distance: []float64{
					120.5, 98.2, 121.0, 97.8,
				},
				To: []string{
					"SGGA 3456/21/2",
					"SGGA 3456/21/3",
					"SGGA 3456/21/4",
					"SGGA 3456/21/1",
				},
			},
			NorthEasterns: &domain.RawNorthEasterns{
				Norths:   []float64{1214990.50, 1215100.25},
				Easterns: []float64{398205.00},
			},
		},
	}
}

func TestParcelBuilderBuild(t *testing.T) {
	builder := newBuilder(t, &stubConverter{})

	parcel, skipped, err := builder.Build(surveyFixture())
	require.NoError(t, err)
	require.NotNil(t, parcel)
	assert.Empty(t, skipped)
	assert.NotEmpty(t, parcel.ID)

	t.Run("survey points are converted in order", func(t *testing.T) {
		require.Len(t, parcel.SurveyPoints, 5)

		first := parcel.SurveyPoints[0]
		assert.Equal(t, "SGGA 3456/21/1", first.PointName)
		require.NotNil(t, first.OriginalCoords)
		assert.InDelta(t, 1214986.33, *first.OriginalCoords.X, 1e-9)
		assert.InDelta(t, 398201.45, *first.OriginalCoords.Y, 1e-9)
		require.NotNil(t, first.ConvertedCoords)
		assert.InDelta(t, 12.1498633, *first.ConvertedCoords.Latitude, 1e-9)
		assert.InDelta(t, 3.9820145, *first.ConvertedCoords.Longitude, 1e-9)
	})

	t.Run("reference station is flagged by name", func(t *testing.T) {
		for i, sp := range parcel.SurveyPoints {
			want := i == 4
			assert.Equal(t, want, sp.OriginalCoords.RefPoint, "original ref flag at %d", i)
			assert.Equal(t, want, sp.ConvertedCoords.RefPoint, "converted ref flag at %d", i)
		}
	})

	t.Run("point list excludes the reference station", func(t *testing.T) {
		require.Len(t, parcel.PointList, 4)
		for _, pt := range parcel.PointList {
			assert.Less(t, *pt.Latitude, 12.16, "reference station leaked into the ring")
		}
	})

	t.Run("point list is an arranged ring of the corners", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, pt := range parcel.PointList {
			seen[fmt.Sprintf("%.7f/%.7f", *pt.Latitude, *pt.Longitude)] = true
		}
		for _, want := range []string{
			"12.1498633/3.9820145",
			"12.1509912/3.9815020",
			"12.1524377/3.9826008",
			"12.1513050/3.9831090",
		} {
			assert.True(t, seen[want], "corner %s missing from the ring", want)
		}
		// the anchor is the southernmost corner
		assert.InDelta(t, 12.1498633, *parcel.PointList[0].Latitude, 1e-9)
	})

	t.Run("traverse legs carry bearing and distance", func(t *testing.T) {
		np := parcel.SurveyPoints[0].NextPoint
		require.NotNil(t, np)
		assert.Equal(t, "SGGA 3456/21/2", np.Name)
		assert.Equal(t, "13°10'", np.Bearing)
		require.NotNil(t, np.BearingDecimal)
		assert.InDelta(t, 13.0+10.0/60.0, *np.BearingDecimal, 1e-9)
		require.NotNil(t, np.Distance)
		assert.InDelta(t, 120.5, *np.Distance, 1e-9)
	})

	t.Run("last point has an empty traverse leg", func(t *testing.T) {
		np := parcel.SurveyPoints[4].NextPoint
		require.NotNil(t, np)
		assert.Empty(t, np.Name)
		assert.Empty(t, np.Bearing)
		assert.Nil(t, np.BearingDecimal)
		assert.Nil(t, np.Distance)
	})

	t.Run("boundary pillars are converted and rounded", func(t *testing.T) {
		require.Len(t, parcel.BoundaryPoints, 2)

		bp := parcel.BoundaryPoints[0]
		assert.Equal(t, "Boundary_1", bp.Point)
		assert.InDelta(t, 1214990.50, bp.Northing, 1e-9)
		assert.InDelta(t, 398205.00, bp.Easting, 1e-9)
		assert.InDelta(t, 12.149905, bp.Latitude, 1e-9)
		assert.InDelta(t, 3.98205, bp.Longitude, 1e-9)

		// missing easting defaults to zero
		bp = parcel.BoundaryPoints[1]
		assert.Equal(t, "Boundary_2", bp.Point)
		assert.Zero(t, bp.Easting)
		assert.Zero(t, bp.Longitude)
	})

	t.Run("plot info passes through with parsed area", func(t *testing.T) {
		info := parcel.PlotInfo
		require.NotNil(t, info)
		assert.Equal(t, "TN/1042", info.PlotNumber)
		require.NotNil(t, info.Area)
		assert.InDelta(t, 0.25, *info.Area, 1e-9)
		assert.Equal(t, "Acres", info.Metric)
		assert.Equal(t, "Greater Accra", info.Region)
		assert.Equal(t, "Adentan Municipal", info.District)
		assert.Equal(t, "Adenta", info.Locality)
		assert.Equal(t, []string{"Kwame Mensah", "Abena Mensah"}, info.Owners)
	})
}

func TestParcelBuilderBuild_MissingData(t *testing.T) {
	builder := newBuilder(t, &stubConverter{})

	cases := []struct {
		name string
		raw  *domain.RawLandData
	}{
		{name: "nil document", raw: nil},
		{name: "no site plan data", raw: &domain.RawLandData{PlotNumber: "TN/1"}},
		{
			name: "no plan data",
			raw: &domain.RawLandData{
				SitePlanData: &domain.RawSitePlanData{},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parcel, _, err := builder.Build(tc.raw)
			assert.Nil(t, parcel)
			require.Error(t, err)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ErrInsufficientPoints.Code, appErr.Code)
		})
	}
}

func TestParcelBuilderBuild_TooFewPoints(t *testing.T) {
	builder := newBuilder(t, &stubConverter{})

	raw := surveyFixture()
	raw.SitePlanData.PlanData.From = raw.SitePlanData.PlanData.From[:1]
	raw.SitePlanData.PlanData.XCoords = raw.SitePlanData.PlanData.XCoords[:1]
	raw.SitePlanData.PlanData.YCoords = raw.SitePlanData.PlanData.YCoords[:1]

	parcel, _, err := builder.Build(raw)
	assert.Nil(t, parcel)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrInsufficientPoints.Code, appErr.Code)
}

func TestParcelBuilderBuild_SkipsUnconvertiblePoint(t *testing.T) {
	conv := &stubConverter{fn: func(northing, easting float64) (float64, float64, error) {
		if northing == 1215243.77 {
			return 0, 0, fmt.Errorf("point outside projection bounds")
		}
		return northing / 100000.0, easting / 100000.0, nil
	}}
	builder := newBuilder(t, conv)

	parcel, skipped, err := builder.Build(surveyFixture())
	require.NoError(t, err)

	assert.Len(t, parcel.SurveyPoints, 4)
	require.Len(t, skipped, 1)
	assert.Equal(t, "survey", skipped[0].Section)
	assert.Equal(t, 2, skipped[0].Index)
	assert.Contains(t, skipped[0].Reason, "projection bounds")
}

func TestParcelBuilderBuild_ShortCoordinateArrays(t *testing.T) {
	builder := newBuilder(t, &stubConverter{})

	raw := surveyFixture()
	// third point loses its easting
	raw.SitePlanData.PlanData.YCoords = raw.SitePlanData.PlanData.YCoords[:2]
	raw.SitePlanData.PlanData.XCoords = raw.SitePlanData.PlanData.XCoords[:4]
	raw.SitePlanData.PlanData.From = raw.SitePlanData.PlanData.From[:4]

	parcel, skipped, err := builder.Build(raw)
	require.NoError(t, err)

	assert.Len(t, parcel.SurveyPoints, 2)
	assert.Len(t, skipped, 2)
	for i, s := range skipped {
		assert.Equal(t, "survey", s.Section)
		assert.Equal(t, i+2, s.Index)
		assert.Equal(t, "missing grid coordinates", s.Reason)
	}
}

func TestParcelBuilderBuild_ZeroCoordinateIsPresent(t *testing.T) {
	builder := newBuilder(t, &stubConverter{})

	raw := surveyFixture()
	raw.SitePlanData.PlanData.XCoords[1] = 0

	parcel, skipped, err := builder.Build(raw)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, parcel.SurveyPoints, 5)
	assert.Zero(t, *parcel.SurveyPoints[1].OriginalCoords.X)
}

func TestParcelBuilderBuild_NoBoundarySection(t *testing.T) {
	builder := newBuilder(t, &stubConverter{})

	raw := surveyFixture()
	raw.SitePlanData.NorthEasterns = nil

	parcel, skipped, err := builder.Build(raw)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Empty(t, parcel.BoundaryPoints)
	assert.Len(t, parcel.SurveyPoints, 5)
}

func TestParcelBuilderRecompute(t *testing.T) {
	conv := &stubConverter{}
	builder := newBuilder(t, conv)

	parcel, _, err := builder.Build(surveyFixture())
	require.NoError(t, err)
	require.Len(t, parcel.PointList, 4)

	// the grid-to-degree mapping changes, as after a datum correction
	conv.fn = func(northing, easting float64) (float64, float64, error) {
		return northing/100000.0 + 1.0, easting/100000.0 + 1.0, nil
	}

	t.Run("reconverts every point from its grid coordinates", func(t *testing.T) {
		out, skipped, err := builder.Recompute(parcel, false)
		require.NoError(t, err)
		assert.Empty(t, skipped)

		assert.InDelta(t, 13.1498633, *out.SurveyPoints[0].ConvertedCoords.Latitude, 1e-9)
		assert.InDelta(t, 4.9820145, *out.SurveyPoints[0].ConvertedCoords.Longitude, 1e-9)
		assert.InDelta(t, 13.149905, out.BoundaryPoints[0].Latitude, 1e-9)
		assert.InDelta(t, 4.98205, out.BoundaryPoints[0].Longitude, 1e-9)

		// without removal the reference station joins the ring; it is
		// so far out that one corner ends up inside the new boundary
		// and gets absorbed during arrangement
		require.Len(t, out.PointList, 4)
		assert.InDelta(t, 13.1498633, *out.PointList[0].Latitude, 1e-9)
		refInRing := false
		for _, pt := range out.PointList {
			if *pt.Latitude > 13.19 {
				refInRing = true
			}
		}
		assert.True(t, refInRing, "reference station missing from the ring")
	})

	t.Run("keeps the reference flags", func(t *testing.T) {
		out, _, err := builder.Recompute(parcel, false)
		require.NoError(t, err)
		assert.True(t, out.SurveyPoints[4].ConvertedCoords.RefPoint)
		assert.False(t, out.SurveyPoints[0].ConvertedCoords.RefPoint)
	})

	t.Run("removes the reference station on request", func(t *testing.T) {
		out, _, err := builder.Recompute(parcel, true)
		require.NoError(t, err)
		assert.Len(t, out.PointList, 4)
		for _, pt := range out.PointList {
			assert.Less(t, *pt.Latitude, 13.16)
		}
	})

	t.Run("does not mutate the input parcel", func(t *testing.T) {
		_, _, err := builder.Recompute(parcel, false)
		require.NoError(t, err)
		assert.InDelta(t, 12.1498633, *parcel.SurveyPoints[0].ConvertedCoords.Latitude, 1e-9)
		assert.Len(t, parcel.PointList, 4)
	})
}

func TestParcelBuilderRecompute_KeepsPreviousOnError(t *testing.T) {
	conv := &stubConverter{}
	builder := newBuilder(t, conv)

	parcel, _, err := builder.Build(surveyFixture())
	require.NoError(t, err)

	conv.fn = func(northing, easting float64) (float64, float64, error) {
		if northing == 1214986.33 {
			return 0, 0, fmt.Errorf("grid sector unavailable")
		}
		return northing/100000.0 + 1.0, easting/100000.0 + 1.0, nil
	}

	out, skipped, err := builder.Recompute(parcel, false)
	require.NoError(t, err)

	// the failing point keeps its previous converted value
	assert.InDelta(t, 12.1498633, *out.SurveyPoints[0].ConvertedCoords.Latitude, 1e-9)
	assert.InDelta(t, 13.1509912, *out.SurveyPoints[1].ConvertedCoords.Latitude, 1e-9)

	require.Len(t, skipped, 1)
	assert.Equal(t, "survey", skipped[0].Section)
	assert.Equal(t, 0, skipped[0].Index)
	assert.Contains(t, skipped[0].Reason, "grid sector")
}

func TestParcelBuilderRecompute_NilParcel(t *testing.T) {
	builder := newBuilder(t, &stubConverter{})

	out, _, err := builder.Recompute(nil, false)
	assert.Nil(t, out)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrInvalidRequest.Code, appErr.Code)
}
