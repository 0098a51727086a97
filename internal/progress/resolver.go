package progress

import (
	"math"

	"backend-racepath/internal/route"
	"backend-racepath/internal/shared/geo"
)

// Resolve maps a record's cumulative distance onto the route geometry. Pure:
// neither argument is mutated, so concurrent calls against one shared route
// are safe.
func Resolve(rt route.Route, rec Record) View {
	fraction := 0.0
	if rt.TotalDistanceMi > 0 {
		fraction = rec.CumulativeMi / rt.TotalDistanceMi
		if fraction < 0 {
			fraction = 0
		} else if fraction > 1 {
			fraction = 1
		}
	}

	completed, remaining := geo.SplitAtFraction(rt.Waypoints, fraction)

	// Milestones compare against the unclamped cumulative total: a finisher
	// who over-logged has still passed every marker.
	var reached []route.Milestone
	for _, m := range rt.Milestones {
		if m.Mile <= rec.CumulativeMi {
			reached = append(reached, m)
		}
	}

	return View{
		Fraction:          fraction,
		PercentComplete:   math.Round(fraction*1000) / 10,
		CurrentPosition:   geo.PositionAtFraction(rt.Waypoints, fraction),
		CompletedPath:     completed,
		RemainingPath:     remaining,
		MilestonesReached: reached,
		CumulativeMi:      rec.CumulativeMi,
		Status:            rec.Status,
	}
}
