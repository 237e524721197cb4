package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landsearch-microservice/internal/domain"
)

func TestRingFromPoints(t *testing.T) {
	t.Run("closes an open triangle", func(t *testing.T) {
		ring, ok := RingFromPoints(ringOf(
			[2]float64{0, 0},
			[2]float64{0, 1},
			[2]float64{1, 0},
		))

		require.True(t, ok)
		assert.Len(t, ring, 4)
		assert.Equal(t, ring[0], ring[len(ring)-1])
	})

	t.Run("keeps an already closed ring", func(t *testing.T) {
		ring, ok := RingFromPoints(ringOf(
			[2]float64{0, 0},
			[2]float64{0, 1},
			[2]float64{1, 0},
			[2]float64{0, 0},
		))

		require.True(t, ok)
		assert.Len(t, ring, 4)
	})

	t.Run("rejects fewer than three points", func(t *testing.T) {
		_, ok := RingFromPoints(ringOf([2]float64{0, 0}, [2]float64{0, 1}))
		assert.False(t, ok)
	})

	t.Run("rejects missing coordinates", func(t *testing.T) {
		lat := 5.0
		points := []domain.ConvertedCoords{
			coord(0, 0),
			{Latitude: &lat, Longitude: nil},
			coord(1, 0),
		}

		_, ok := RingFromPoints(points)
		assert.False(t, ok)
	})

	t.Run("stores points in lon lat order", func(t *testing.T) {
		ring, ok := RingFromPoints(ringOf(
			[2]float64{5.6, -0.2},
			[2]float64{5.7, -0.2},
			[2]float64{5.7, -0.1},
		))

		require.True(t, ok)
		assert.Equal(t, orb.Point{-0.2, 5.6}, ring[0])
	})
}

func TestRingIsValid(t *testing.T) {
	t.Run("simple square", func(t *testing.T) {
		ring, ok := RingFromPoints(ringOf(
			[2]float64{0, 0},
			[2]float64{0, 1},
			[2]float64{1, 1},
			[2]float64{1, 0},
		))

		require.True(t, ok)
		assert.True(t, RingIsValid(ring))
	})

	t.Run("self intersecting bowtie", func(t *testing.T) {
		ring := orb.Ring{{0, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0}}
		assert.False(t, RingIsValid(ring))
	})

	t.Run("collinear points enclose no area", func(t *testing.T) {
		ring, ok := RingFromPoints(ringOf(
			[2]float64{0, 0},
			[2]float64{0, 1},
			[2]float64{0, 2},
		))

		require.True(t, ok)
		assert.False(t, RingIsValid(ring))
	})
}

func TestRingsIntersect(t *testing.T) {
	square := func(minX, minY, maxX, maxY float64) orb.Ring {
		return orb.Ring{
			{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
		}
	}

	tests := []struct {
		name     string
		a        orb.Ring
		b        orb.Ring
		expected bool
	}{
		{
			name:     "overlapping squares",
			a:        square(0, 0, 1, 1),
			b:        square(0.5, 0.5, 1.5, 1.5),
			expected: true,
		},
		{
			name:     "disjoint squares",
			a:        square(0, 0, 1, 1),
			b:        square(2, 2, 3, 3),
			expected: false,
		},
		{
			name:     "one square inside the other",
			a:        square(0, 0, 3, 3),
			b:        square(1, 1, 2, 2),
			expected: true,
		},
		{
			name:     "squares touching at a corner",
			a:        square(0, 0, 1, 1),
			b:        square(1, 1, 2, 2),
			expected: true,
		},
		{
			name:     "squares sharing an edge",
			a:        square(0, 0, 1, 1),
			b:        square(1, 0, 2, 1),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RingsIntersect(tt.a, tt.b))
			assert.Equal(t, tt.expected, RingsIntersect(tt.b, tt.a))
		})
	}
}

func TestRingArea(t *testing.T) {
	unitSquare := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	assert.InDelta(t, 1.0, RingArea(unitSquare), 1e-9)

	// Orientation must not flip the sign
	reversed := orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	assert.InDelta(t, 1.0, RingArea(reversed), 1e-9)
}

func TestComputeOverlap_IdenticalTriangles(t *testing.T) {
	triangle := ringOf(
		[2]float64{0, 0},
		[2]float64{0, 1},
		[2]float64{1, 0},
	)

	stats := ComputeOverlap(triangle, triangle)

	require.Empty(t, stats.Error)
	assert.InDelta(t, 100.0, stats.OverlapPercentage, 1e-9)
	assert.InDelta(t, 0.5, stats.OverlapArea, 1e-9)
	assert.Equal(t, stats.Poly1Area, stats.Poly2Area)
	assert.Equal(t, stats.OverlapArea, stats.Poly1Area)
}

func TestComputeOverlap_PartialOverlap(t *testing.T) {
	square1 := ringOf(
		[2]float64{0, 0},
		[2]float64{0, 1},
		[2]float64{1, 1},
		[2]float64{1, 0},
	)
	square2 := ringOf(
		[2]float64{0.5, 0.5},
		[2]float64{0.5, 1.5},
		[2]float64{1.5, 1.5},
		[2]float64{1.5, 0.5},
	)

	stats := ComputeOverlap(square1, square2)

	require.Empty(t, stats.Error)
	assert.InDelta(t, 25.0, stats.OverlapPercentage, 1e-6)
	assert.InDelta(t, 0.25, stats.OverlapArea, 1e-9)
	assert.InDelta(t, 1.0, stats.Poly1Area, 1e-9)
	assert.InDelta(t, 1.0, stats.Poly2Area, 1e-9)
}

func TestComputeOverlap_ContainedPolygon(t *testing.T) {
	outer := ringOf(
		[2]float64{0, 0},
		[2]float64{0, 4},
		[2]float64{4, 4},
		[2]float64{4, 0},
	)
	inner := ringOf(
		[2]float64{1, 1},
		[2]float64{1, 2},
		[2]float64{2, 2},
		[2]float64{2, 1},
	)

	stats := ComputeOverlap(outer, inner)

	require.Empty(t, stats.Error)
	assert.InDelta(t, 100.0, stats.OverlapPercentage, 1e-6)
	assert.InDelta(t, 1.0, stats.OverlapArea, 1e-9)
	assert.InDelta(t, 16.0, stats.Poly1Area, 1e-9)
	assert.InDelta(t, 1.0, stats.Poly2Area, 1e-9)
}

func TestComputeOverlap_DisjointPolygons(t *testing.T) {
	square1 := ringOf(
		[2]float64{0, 0},
		[2]float64{0, 1},
		[2]float64{1, 1},
		[2]float64{1, 0},
	)
	square2 := ringOf(
		[2]float64{5, 5},
		[2]float64{5, 6},
		[2]float64{6, 6},
		[2]float64{6, 5},
	)

	stats := ComputeOverlap(square1, square2)

	require.Empty(t, stats.Error)
	assert.Zero(t, stats.OverlapPercentage)
	assert.Zero(t, stats.OverlapArea)
	assert.InDelta(t, 1.0, stats.Poly1Area, 1e-9)
	assert.InDelta(t, 1.0, stats.Poly2Area, 1e-9)
}

func TestComputeOverlap_InsufficientPoints(t *testing.T) {
	pair := ringOf([2]float64{0, 0}, [2]float64{0, 1})
	triangle := ringOf([2]float64{0, 0}, [2]float64{0, 1}, [2]float64{1, 0})

	stats := ComputeOverlap(pair, triangle)
	assert.Equal(t, "Insufficient points", stats.Error)
	assert.Zero(t, stats.OverlapPercentage)

	stats = ComputeOverlap(triangle, pair)
	assert.Equal(t, "Insufficient points", stats.Error)
}

func TestComputeOverlap_InvalidPolygon(t *testing.T) {
	bowtie := ringOf(
		[2]float64{0, 0},
		[2]float64{1, 1},
		[2]float64{1, 0},
		[2]float64{0, 1},
	)
	triangle := ringOf([2]float64{0, 0}, [2]float64{0, 1}, [2]float64{1, 0})

	stats := ComputeOverlap(bowtie, triangle)
	assert.Equal(t, "Invalid polygon", stats.Error)
	assert.Zero(t, stats.OverlapArea)
}
