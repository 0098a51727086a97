package editor

import (
	"context"
	"time"

	"backend-racepath/internal/routing"
	"backend-racepath/internal/shared/geo"
)

// The road-snap adapter is a debounced, coalescing bridge between control
// point edits and the external routing service. Every control-point change
// resets the timer; the request that eventually fires carries only the most
// recent control-point set, and at most one request is in flight per session.

// scheduleSnapLocked (re)arms the debounce timer. Caller holds s.mu.
func (s *Session) scheduleSnapLocked() {
	if s.mode != ModeRoadSnap {
		return
	}
	if s.snapTimer != nil {
		s.snapTimer.Stop()
	}
	s.snapTimer = time.AfterFunc(s.opts.Debounce, s.runSnap)
}

func (s *Session) runSnap() {
	s.mu.Lock()
	if s.mode != ModeRoadSnap {
		s.mu.Unlock()
		return
	}
	if s.snapInFlight {
		// Coalesce behind the outstanding request.
		s.snapTimer = time.AfterFunc(s.opts.Debounce, s.runSnap)
		s.mu.Unlock()
		return
	}
	if len(s.controlPoints) < 2 {
		s.mu.Unlock()
		return
	}

	points := append([]geo.Point(nil), s.controlPoints...)
	if s.opts.MaxControlPoints > 0 {
		points = routing.Downsample(points, s.opts.MaxControlPoints)
	}
	profile := routing.ProfileForDiscipline(s.draft.Discipline)

	if profile == "" || s.opts.SnapClient == nil {
		// No road profile for this discipline: the straight-line path through
		// the control points is the dense result.
		s.applySnapLocked(points)
		s.mu.Unlock()
		s.broadcast()
		return
	}

	s.snapInFlight = true
	s.snapping = true
	gen := s.snapGen
	s.mu.Unlock()
	s.broadcast()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.SnapTimeout)
	dense, err := s.opts.SnapClient.Snap(ctx, points, profile)
	cancel()

	s.mu.Lock()
	s.snapInFlight = false
	s.snapping = false
	switch {
	case gen != s.snapGen:
		// A clear or mode switch superseded this request while it was in
		// flight; the result is stale, drop it.
	case err != nil:
		// Previous dense polyline stays untouched; the error is surfaced as a
		// retryable state on the session view.
		s.snapErr = err.Error()
	default:
		s.applySnapLocked(dense)
	}
	s.mu.Unlock()
	s.broadcast()
}

func (s *Session) applySnapLocked(dense []geo.Point) {
	s.snapErr = ""
	s.snapped = dense
	s.draft.SetWaypoints(append([]geo.Point(nil), dense...))
}
