package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landsearch-microservice/internal/domain"
)

func ringOf(pairs ...[2]float64) []domain.ConvertedCoords {
	points := make([]domain.ConvertedCoords, 0, len(pairs))
	for _, pair := range pairs {
		points = append(points, coord(pair[0], pair[1]))
	}
	return points
}

func pairsOf(points []domain.ConvertedCoords) [][2]float64 {
	pairs := make([][2]float64, 0, len(points))
	for _, p := range points {
		pairs = append(pairs, [2]float64{*p.Latitude, *p.Longitude})
	}
	return pairs
}

func TestArrangeRing_FewerThanThreePoints(t *testing.T) {
	tests := []struct {
		name   string
		points []domain.ConvertedCoords
	}{
		{name: "empty", points: nil},
		{name: "single point", points: ringOf([2]float64{5.0, -0.2})},
		{name: "two points", points: ringOf([2]float64{5.0, -0.2}, [2]float64{5.1, -0.3})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ArrangeRing(tt.points)
			assert.Equal(t, tt.points, result)
		})
	}
}

func TestArrangeRing_MissingCoordinates(t *testing.T) {
	lat := 5.0
	points := []domain.ConvertedCoords{
		coord(0, 0),
		{Latitude: &lat, Longitude: nil},
		coord(1, 1),
	}

	result := ArrangeRing(points)
	assert.Equal(t, points, result)
}

func TestArrangeRing_SquareFromShuffledCorners(t *testing.T) {
	input := ringOf(
		[2]float64{1, 1},
		[2]float64{0, 0},
		[2]float64{1, 0},
		[2]float64{0, 1},
	)

	result := ArrangeRing(input)

	expected := [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	assert.Equal(t, expected, pairsOf(result))
}

func TestArrangeRing_OrderIndependent(t *testing.T) {
	corners := [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	permutations := [][][2]float64{
		{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		{{1, 0}, {1, 1}, {0, 1}, {0, 0}},
		{{0, 1}, {1, 0}, {0, 0}, {1, 1}},
		{{1, 1}, {0, 0}, {0, 1}, {1, 0}},
	}

	for _, perm := range permutations {
		result := ArrangeRing(ringOf(perm...))
		assert.Equal(t, corners, pairsOf(result))
	}
}

func TestArrangeRing_CollinearMidpointDropped(t *testing.T) {
	input := ringOf(
		[2]float64{0, 0},
		[2]float64{0, 1},
		[2]float64{0, 2},
		[2]float64{1, 2},
	)

	result := ArrangeRing(input)

	expected := [][2]float64{{0, 0}, {0, 2}, {1, 2}}
	assert.Equal(t, expected, pairsOf(result))
}

func TestArrangeRing_ReflexCornerDropped(t *testing.T) {
	// (1,1) sits inside the triangle spanned by the other corners
	input := ringOf(
		[2]float64{0, 0},
		[2]float64{0, 2},
		[2]float64{1, 1},
		[2]float64{2, 2},
		[2]float64{2, 0},
	)

	result := ArrangeRing(input)

	expected := [][2]float64{{0, 0}, {0, 2}, {2, 2}, {2, 0}}
	assert.Equal(t, expected, pairsOf(result))
}

func TestArrangeRing_DuplicateAnchorsRemoved(t *testing.T) {
	input := ringOf(
		[2]float64{0, 0},
		[2]float64{0, 0},
		[2]float64{0, 1},
		[2]float64{1, 1},
		[2]float64{1, 0},
	)

	result := ArrangeRing(input)

	expected := [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	assert.Equal(t, expected, pairsOf(result))
}

func TestArrangeRing_AllPointsIdentical(t *testing.T) {
	input := ringOf(
		[2]float64{5.5, -0.25},
		[2]float64{5.5, -0.25},
		[2]float64{5.5, -0.25},
	)

	result := ArrangeRing(input)
	assert.Equal(t, input, result)
}

func TestArrangeRing_ProducesValidRing(t *testing.T) {
	input := ringOf(
		[2]float64{5.6032, -0.1870},
		[2]float64{5.6041, -0.1842},
		[2]float64{5.6019, -0.1855},
		[2]float64{5.6025, -0.1833},
		[2]float64{5.6048, -0.1861},
	)

	result := ArrangeRing(input)
	require.GreaterOrEqual(t, len(result), 3)

	ring, ok := RingFromPoints(result)
	require.True(t, ok)
	assert.True(t, RingIsValid(ring))

	// The arranged ring always turns the same way
	for i := 0; i+2 < len(result); i++ {
		assert.Equal(t, turnCounterClockwise, orientation(result[i], result[i+1], result[i+2]))
	}
}
