package ledger

import "math"

// Level curve constants. The curve is intentionally super-linear so each
// level costs progressively more points; the exact shape is load-bearing
// for existing reward balances and must not change.
const (
	pointsPerLevelUnit = 100
	levelStep          = 10
)

// LevelForPoints derives the level and the XP span to the next level from
// a point total:
//
//	level       = floor(sqrt(totalPoints/100)) + 1
//	xpToNext    = ((level+1)*10)^2 - (level*10)^2
func LevelForPoints(totalPoints int) (level, xpToNextLevel int) {
	if totalPoints < 0 {
		totalPoints = 0
	}

	level = int(math.Floor(math.Sqrt(float64(totalPoints)/pointsPerLevelUnit))) + 1

	next := (level + 1) * levelStep
	cur := level * levelStep
	xpToNextLevel = next*next - cur*cur

	return level, xpToNextLevel
}

// PointsForLevel returns the minimum point total that yields the level.
// Inverse of LevelForPoints, useful for progress displays.
func PointsForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return n * n * pointsPerLevelUnit
}
