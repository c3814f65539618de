package pathfind

import "github.com/talgya/hexworld/internal/world"

// HasLineOfSight reports whether no hex strictly between a and b on the
// straight hex line is an obstacle. The endpoints themselves are not tested.
func HasLineOfSight(a, b world.HexCoord, blocked ObstacleFunc) bool {
	line := world.Line(a, b)
	for i := 1; i < len(line)-1; i++ {
		if isBlocked(blocked, line[i]) {
			return false
		}
	}
	return true
}

// SmoothPath pulls a path taut: from each waypoint it jumps to the furthest
// later waypoint with clear line of sight. The result keeps the original
// endpoints and is never longer than the input.
func SmoothPath(path Path, blocked ObstacleFunc) Path {
	if len(path) <= 2 {
		return append(Path(nil), path...)
	}

	smoothed := Path{path[0]}
	i := 0
	for i < len(path)-1 {
		next := i + 1
		for j := len(path) - 1; j > i+1; j-- {
			if HasLineOfSight(path[i], path[j], blocked) {
				next = j
				break
			}
		}
		smoothed = append(smoothed, path[next])
		i = next
	}
	return smoothed
}
