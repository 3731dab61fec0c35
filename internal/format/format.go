// Package format holds the pure presentation helpers: internal enum codes
// to display names, and numeric rounding. Codes missing from a map pass
// through unchanged so new server-side values render without a client
// update.
package format

import "math"

var factionNames = map[string]string{
	"MAGOS":   "Magos",
	"VERTA":   "Verta",
	"MONSTER": "Monster",
}

var characterNames = map[string]string{
	"KIM":   "Kim",
	"HYTTY": "Hytty",
	"SLIME": "Slime",
}

func FactionName(code string) string {
	if name, ok := factionNames[code]; ok {
		return name
	}
	return code
}

func CharacterName(code string) string {
	if name, ok := characterNames[code]; ok {
		return name
	}
	return code
}

// WinRatePercent rounds a 0-100 win rate to the nearest whole percent.
func WinRatePercent(winRate float64) int {
	return int(math.Round(winRate))
}
