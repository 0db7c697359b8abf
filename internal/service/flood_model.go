package service

import (
	"fmt"
	"math"

	"github.com/floodwatch/backend/pkg/utils"
)

// CalculateFloodRisk scores flood danger 0-99 from the last hour's rainfall and
// the district's base flood depth. 50 mm/h of rain alone saturates the rain term.
func CalculateFloodRisk(rainfall, baseDepth float64) int {
	rainScore := math.Min(100, rainfall/50*100)
	depthScore := math.Min(50, baseDepth*10)

	total := rainScore*0.7 + depthScore*0.3
	return int(utils.Clamp(total, 0, 99))
}

// EstimateWaterLevel returns the expected standing water in meters.
func EstimateWaterLevel(baseDepth, rainfall float64) float64 {
	return utils.RoundTo(baseDepth+rainfall*0.01, 2)
}

// FloodComment is the advice shown next to a risk score.
func FloodComment(score int, rainfall, temperature float64, location string) string {
	switch {
	case score >= 80:
		return fmt.Sprintf("[Severe] Heavy rain (%gmm) is falling in '%s'. The flooding risk is very high, prepare immediately.", rainfall, location)
	case score >= 50:
		return fmt.Sprintf("[Caution] Flooding is possible in '%s'. Check storm drains and avoid underground parking.", location)
	case rainfall > 0:
		return fmt.Sprintf("[Rain] It is raining (%gmm) but the flooding risk is currently low. Keep an eye on the forecast.", rainfall)
	default:
		return fmt.Sprintf("[Safe] No precipitation right now. (%g°C, clear)", temperature)
	}
}
