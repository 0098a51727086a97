package route

import (
	"errors"
	"time"

	"backend-racepath/internal/shared/geo"
)

const (
	DisciplineSwim = "swim"
	DisciplineBike = "bike"
	DisciplineRun  = "run"
)

var (
	// ErrIndexOutOfRange means an operation referenced a waypoint index
	// outside the current bounds. The route is left unchanged.
	ErrIndexOutOfRange = errors.New("waypoint index out of range")

	// ErrInvalidSegment means a segment tag would overlap or run backwards
	// relative to the existing segments. The route is left unchanged.
	ErrInvalidSegment = errors.New("segment out of order")

	// ErrDegenerateRoute means the operation needs path geometry but the
	// route has fewer than two waypoints.
	ErrDegenerateRoute = errors.New("route needs at least 2 waypoints")
)

// Segment tags a contiguous index range of the waypoint sequence with a
// discipline, for multi-discipline routes.
type Segment struct {
	Discipline string `json:"discipline"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// Milestone is a fixed point of interest along the route, referenced by
// absolute mile marker, independent of waypoint indices.
type Milestone struct {
	Mile     float64   `json:"mile"`
	Label    string    `json:"label"`
	Position geo.Point `json:"position"`
}

type Route struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Discipline      string      `json:"discipline"`
	Waypoints       []geo.Point `json:"waypoints"`
	Segments        []Segment   `json:"segments"`
	Milestones      []Milestone `json:"milestones"`
	TotalDistanceMi float64     `json:"total_distance_mi"`
	CreatedBy       string      `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (r *Route) recompute() {
	r.TotalDistanceMi = geo.TotalDistance(r.Waypoints)
}

// SetWaypoints replaces the waypoint sequence and recomputes the total
// distance. Segments whose end index no longer fits the new sequence are
// truncated.
func (r *Route) SetWaypoints(points []geo.Point) {
	r.Waypoints = points

	kept := r.Segments[:0]
	for _, s := range r.Segments {
		if s.EndIndex <= len(points)-1 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	r.Segments = kept
	r.recompute()
}

// InsertWaypoint inserts p at the given index, or at the nearest segment when
// at is nil. Returns the index actually used.
func (r *Route) InsertWaypoint(p geo.Point, at *int) (int, error) {
	idx := len(r.Waypoints)
	if at != nil {
		idx = *at
	} else if len(r.Waypoints) >= 2 {
		idx = geo.NearestSegmentInsertIndex(r.Waypoints, p)
	}
	if idx < 0 || idx > len(r.Waypoints) {
		return 0, ErrIndexOutOfRange
	}

	r.Waypoints = append(r.Waypoints, geo.Point{})
	copy(r.Waypoints[idx+1:], r.Waypoints[idx:])
	r.Waypoints[idx] = p
	r.recompute()
	return idx, nil
}

// MoveWaypoint replaces the waypoint at index i in place.
func (r *Route) MoveWaypoint(i int, p geo.Point) error {
	if i < 0 || i >= len(r.Waypoints) {
		return ErrIndexOutOfRange
	}
	r.Waypoints[i] = p
	r.recompute()
	return nil
}

// RemoveWaypoint removes the waypoint at index i. Segment indices referencing
// removed or shifted positions are not repaired; callers that edit tagged
// regions must re-tag.
func (r *Route) RemoveWaypoint(i int) error {
	if i < 0 || i >= len(r.Waypoints) {
		return ErrIndexOutOfRange
	}
	r.Waypoints = append(r.Waypoints[:i], r.Waypoints[i+1:]...)
	r.recompute()
	return nil
}

// AddSegmentTag appends a segment spanning from the end of the previous
// segment (or 0) to endIndex. The end index must be strictly greater than the
// previous segment's end and inside the waypoint bounds.
func (r *Route) AddSegmentTag(discipline string, endIndex int) error {
	start := 0
	prevEnd := -1
	if n := len(r.Segments); n > 0 {
		prevEnd = r.Segments[n-1].EndIndex
		start = prevEnd
	}
	if endIndex <= prevEnd {
		return ErrInvalidSegment
	}
	if endIndex > len(r.Waypoints)-1 {
		return ErrIndexOutOfRange
	}

	r.Segments = append(r.Segments, Segment{
		Discipline: discipline,
		StartIndex: start,
		EndIndex:   endIndex,
	})
	return nil
}

// AddMilestone places a labeled marker at the given absolute mile along the
// route. The position is interpolated from the current waypoints.
func (r *Route) AddMilestone(mile float64, label string) error {
	if len(r.Waypoints) < 2 || r.TotalDistanceMi == 0 {
		return ErrDegenerateRoute
	}
	r.Milestones = append(r.Milestones, Milestone{
		Mile:     mile,
		Label:    label,
		Position: geo.PositionAtFraction(r.Waypoints, mile/r.TotalDistanceMi),
	})
	return nil
}
