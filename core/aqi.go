package core

// AQILevel is the Chinese AQI band for a PM2.5 concentration. It drives logs
// and metrics only; frames never carry textual annotations.
type AQILevel int

const (
	AQIExcellent AQILevel = iota
	AQIGood
	AQILightlyPolluted
	AQIModeratelyPolluted
	AQIHeavilyPolluted
	AQISeverelyPolluted
)

// aqiBreakpoints are the PM2.5 upper bounds (µg/m³, exclusive) for each band
// below severe.
var aqiBreakpoints = []float64{35, 75, 115, 150, 250}

// AQILevelFor bands a raw PM2.5 concentration in µg/m³.
func AQILevelFor(pm25 float64) AQILevel {
	for i, limit := range aqiBreakpoints {
		if pm25 < limit {
			return AQILevel(i)
		}
	}
	return AQISeverelyPolluted
}

func (l AQILevel) String() string {
	switch l {
	case AQIExcellent:
		return "excellent"
	case AQIGood:
		return "good"
	case AQILightlyPolluted:
		return "lightly_polluted"
	case AQIModeratelyPolluted:
		return "moderately_polluted"
	case AQIHeavilyPolluted:
		return "heavily_polluted"
	case AQISeverelyPolluted:
		return "severely_polluted"
	default:
		return "unknown"
	}
}
