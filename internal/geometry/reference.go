package geometry

import (
	"fmt"
	"math"
	"regexp"

	"github.com/landsearch-microservice/internal/domain"
)

// DefaultReferenceNamePattern matches survey beacon names such as
// "CORS GCS 121 122" or "SGA.GA J12 4 5". Points named this way are
// control pillars, not plot corners.
const DefaultReferenceNamePattern = `^[A-Z]+(?:\.[A-Z]+)?\s[A-Z0-9]+\s(?:\d+\s?)+$`

// ReferenceNameMatcher flags survey point names that look like
// national control beacons
type ReferenceNameMatcher struct {
	re *regexp.Regexp
}

// NewReferenceNameMatcher compiles the beacon name pattern; an empty
// pattern selects the default.
func NewReferenceNameMatcher(pattern string) (*ReferenceNameMatcher, error) {
	if pattern == "" {
		pattern = DefaultReferenceNamePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile reference name pattern: %w", err)
	}
	return &ReferenceNameMatcher{re: re}, nil
}

// Match reports whether the name looks like a reference beacon.
// Empty names never match.
func (m *ReferenceNameMatcher) Match(name string) bool {
	return name != "" && m.re.MatchString(name)
}

// FindReferenceIndex locates the reference pillar among converted ring
// candidates: the point with the highest mean distance to all the
// others, computed in plain degree space. Ties resolve to the larger
// index. At least two points are required.
func FindReferenceIndex(points []domain.ConvertedCoords) (int, error) {
	if len(points) < 2 {
		return 0, fmt.Errorf("need at least 2 points to find a reference, got %d", len(points))
	}
	for i, p := range points {
		if p.Latitude == nil || p.Longitude == nil {
			return 0, fmt.Errorf("point %d has no coordinates", i)
		}
	}

	bestScore := math.Inf(-1)
	bestIndex := 0
	for i, p := range points {
		total := 0.0
		for j, other := range points {
			if i == j {
				continue
			}
			total += math.Hypot(
				*p.Latitude-*other.Latitude,
				*p.Longitude-*other.Longitude,
			)
		}
		score := total / float64(len(points)-1)
		if score >= bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	return bestIndex, nil
}
