package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"backend-racepath/internal/route"
	"backend-racepath/internal/shared/geo"
)

// Mode selects which point list is authoritative: the draft's rendered
// waypoints in free-draw, or the sparse control points in road-snap. The two
// lists are mutually exclusive; SetMode is the single place where one is
// committed into the other.
type Mode string

const (
	ModeFreeDraw Mode = "free_draw"
	ModeRoadSnap Mode = "road_snap"
)

// disciplineCycle is the fixed transition order for multi-discipline routes.
var disciplineCycle = []string{route.DisciplineSwim, route.DisciplineBike, route.DisciplineRun}

// SnapClient is satisfied by *routing.Client.
type SnapClient interface {
	Snap(ctx context.Context, points []geo.Point, profile string) ([]geo.Point, error)
}

// Publisher receives the session view after every mutation. Rendering layers
// subscribe through it and redraw; they never mutate editor state directly.
type Publisher func(sessionID string, payload []byte)

type Options struct {
	SnapClient       SnapClient
	Debounce         time.Duration
	SnapTimeout      time.Duration
	MaxControlPoints int
	Publish          Publisher
}

// Session is one author's draft route plus editing state. Single-author by
// construction; the mutex only guards against the snap goroutine.
type Session struct {
	ID string

	mu            sync.Mutex
	draft         *route.Route
	mode          Mode
	controlPoints []geo.Point
	snapped       []geo.Point
	cycleIdx      int

	snapTimer    *time.Timer
	snapInFlight bool
	snapping     bool
	snapGen      int
	snapErr      string

	routes *route.Service
	opts   Options
}

// SessionView is the broadcast/query snapshot of a session.
type SessionView struct {
	SessionID       string            `json:"session_id"`
	Mode            Mode              `json:"mode"`
	Waypoints       []geo.Point       `json:"waypoints"`
	ControlPoints   []geo.Point       `json:"control_points"`
	Segments        []route.Segment   `json:"segments"`
	Milestones      []route.Milestone `json:"milestones"`
	TotalDistanceMi float64           `json:"total_distance_mi"`
	NextDiscipline  string            `json:"next_discipline"`
	Snapping        bool              `json:"snapping"`
	SnapError       string            `json:"snap_error,omitempty"`
}

// Click appends a waypoint in free-draw mode, or a control point in road-snap
// mode.
func (s *Session) Click(p geo.Point) {
	s.mu.Lock()
	if s.mode == ModeRoadSnap {
		s.controlPoints = append(s.controlPoints, p)
		s.scheduleSnapLocked()
	} else {
		at := len(s.draft.Waypoints)
		_, _ = s.draft.InsertWaypoint(p, &at)
	}
	s.mu.Unlock()
	s.broadcast()
}

// DragEnd moves the waypoint (or control point) at index i.
func (s *Session) DragEnd(i int, p geo.Point) error {
	s.mu.Lock()
	var err error
	if s.mode == ModeRoadSnap {
		if i < 0 || i >= len(s.controlPoints) {
			err = route.ErrIndexOutOfRange
		} else {
			s.controlPoints[i] = p
			s.scheduleSnapLocked()
		}
	} else {
		err = s.draft.MoveWaypoint(i, p)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.broadcast()
	return nil
}

// RightClick inserts a point into the nearest segment of the active list.
func (s *Session) RightClick(p geo.Point) {
	s.mu.Lock()
	if s.mode == ModeRoadSnap {
		idx := geo.NearestSegmentInsertIndex(s.controlPoints, p)
		s.controlPoints = append(s.controlPoints, geo.Point{})
		copy(s.controlPoints[idx+1:], s.controlPoints[idx:])
		s.controlPoints[idx] = p
		s.scheduleSnapLocked()
	} else {
		if idx, err := s.draft.InsertWaypoint(p, nil); err == nil {
			s.invalidateSegmentsLocked(idx)
		}
	}
	s.mu.Unlock()
	s.broadcast()
}

// Undo pops the most recent point from the active list. No-op when empty.
func (s *Session) Undo() {
	s.mu.Lock()
	if s.mode == ModeRoadSnap {
		if n := len(s.controlPoints); n > 0 {
			s.controlPoints = s.controlPoints[:n-1]
			s.scheduleSnapLocked()
		}
	} else {
		if n := len(s.draft.Waypoints); n > 0 {
			_ = s.draft.RemoveWaypoint(n - 1)
			s.invalidateSegmentsLocked(n - 1)
		}
	}
	s.mu.Unlock()
	s.broadcast()
}

// ClearAll empties both point lists, segment tags and milestones, and cancels
// any pending snap.
func (s *Session) ClearAll() {
	s.mu.Lock()
	if s.snapTimer != nil {
		s.snapTimer.Stop()
		s.snapTimer = nil
	}
	s.snapGen++
	s.controlPoints = nil
	s.snapped = nil
	s.snapErr = ""
	s.cycleIdx = 0
	s.draft.Segments = nil
	s.draft.Milestones = nil
	s.draft.SetWaypoints(nil)
	s.mu.Unlock()
	s.broadcast()
}

// SetSegmentTransition tags everything since the previous transition with the
// next discipline in the fixed swim/bike/run cycle, ending at the current end
// of the draft. A rejected transition leaves the draft unchanged.
func (s *Session) SetSegmentTransition() error {
	s.mu.Lock()
	if s.cycleIdx >= len(disciplineCycle) {
		s.mu.Unlock()
		return fmt.Errorf("%w: discipline cycle exhausted", route.ErrInvalidSegment)
	}
	if len(s.draft.Waypoints) == 0 {
		s.mu.Unlock()
		return route.ErrDegenerateRoute
	}
	err := s.draft.AddSegmentTag(disciplineCycle[s.cycleIdx], len(s.draft.Waypoints)-1)
	if err == nil {
		s.cycleIdx++
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.broadcast()
	return nil
}

// SetMode switches between free-draw and road-snap. Leaving snap mode commits
// the last fetched dense polyline, or the raw control points when no fetch
// has completed, into the draft.
func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	if m == s.mode {
		s.mu.Unlock()
		return
	}
	if s.mode == ModeRoadSnap {
		if s.snapTimer != nil {
			s.snapTimer.Stop()
			s.snapTimer = nil
		}
		if len(s.snapped) > 0 {
			s.draft.SetWaypoints(append([]geo.Point(nil), s.snapped...))
		} else if len(s.controlPoints) > 0 {
			s.draft.SetWaypoints(append([]geo.Point(nil), s.controlPoints...))
		}
	}
	s.mode = m
	s.snapGen++
	s.mu.Unlock()
	s.broadcast()
}

// AddMilestone places a labeled marker at an absolute mile along the draft.
func (s *Session) AddMilestone(mile float64, label string) error {
	s.mu.Lock()
	err := s.draft.AddMilestone(mile, label)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.broadcast()
	return nil
}

// Commit persists the draft. In snap mode the authoritative list is committed
// first, same as toggling snap off.
func (s *Session) Commit(ctx context.Context, name, createdBy string) (route.Route, error) {
	s.SetMode(ModeFreeDraw)

	s.mu.Lock()
	if len(s.draft.Waypoints) < 2 {
		s.mu.Unlock()
		return route.Route{}, route.ErrDegenerateRoute
	}
	if name != "" {
		s.draft.Name = name
	}
	if createdBy != "" {
		s.draft.CreatedBy = createdBy
	}
	draft := *s.draft
	s.mu.Unlock()

	var persisted route.Route
	var err error
	if draft.ID == "" {
		persisted, err = s.routes.CreateRoute(ctx, draft)
	} else {
		persisted, err = s.routes.UpdateRoute(ctx, draft)
	}
	if err != nil {
		return route.Route{}, err
	}

	s.mu.Lock()
	s.draft.ID = persisted.ID
	s.mu.Unlock()
	return persisted, nil
}

func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() SessionView {
	next := ""
	if s.cycleIdx < len(disciplineCycle) {
		next = disciplineCycle[s.cycleIdx]
	}
	return SessionView{
		SessionID:       s.ID,
		Mode:            s.mode,
		Waypoints:       append([]geo.Point(nil), s.draft.Waypoints...),
		ControlPoints:   append([]geo.Point(nil), s.controlPoints...),
		Segments:        append([]route.Segment(nil), s.draft.Segments...),
		Milestones:      append([]route.Milestone(nil), s.draft.Milestones...),
		TotalDistanceMi: s.draft.TotalDistanceMi,
		NextDiscipline:  next,
		Snapping:        s.snapping,
		SnapError:       s.snapErr,
	}
}

// invalidateSegmentsLocked drops segment tags when a structural edit lands at
// or before an existing segment boundary. Tags are index-based, so inserting
// or removing waypoints inside a tagged region desyncs them; requiring a
// re-tag is the explicit alternative to silently wrong boundaries.
func (s *Session) invalidateSegmentsLocked(idx int) {
	n := len(s.draft.Segments)
	if n == 0 {
		return
	}
	if idx <= s.draft.Segments[n-1].EndIndex {
		s.draft.Segments = nil
		s.cycleIdx = 0
	}
}

func (s *Session) broadcast() {
	if s.opts.Publish == nil {
		return
	}
	payload, err := json.Marshal(s.View())
	if err != nil {
		log.Printf("editor broadcast marshal error: %v", err)
		return
	}
	s.opts.Publish(s.ID, payload)
}
