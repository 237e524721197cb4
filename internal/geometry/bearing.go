package geometry

import (
	"strings"

	"github.com/landsearch-microservice/internal/pkg/utils"
)

var dmsCleaner = strings.NewReplacer("°", " ", "'", " ")

// BearingToDecimal converts a bearing like "13°10'" to decimal degrees
// (degrees plus minutes divided by sixty). Extraction output is noisy,
// so parsing is total: blank input and unparseable tokens contribute 0.
func BearingToDecimal(dms string) float64 {
	s := strings.TrimSpace(dms)
	if s == "" {
		return 0
	}

	parts := strings.Fields(dmsCleaner.Replace(s))
	if len(parts) == 0 {
		return 0
	}

	degrees := utils.ToFloat(parts[0])
	minutes := 0.0
	if len(parts) > 1 {
		minutes = utils.ToFloat(parts[1])
	}

	return degrees + minutes/60
}
