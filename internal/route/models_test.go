package route

import (
	"errors"
	"math"
	"testing"

	"backend-racepath/internal/shared/geo"
)

func TestSetWaypointsRecomputesAndTruncatesSegments(t *testing.T) {
	var rt Route
	rt.SetWaypoints([]geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 0, Lng: 2}, {Lat: 0, Lng: 3}})
	if rt.TotalDistanceMi <= 0 {
		t.Fatalf("expected positive distance")
	}
	if err := rt.AddSegmentTag(DisciplineSwim, 1); err != nil {
		t.Fatalf("tag: %v", err)
	}
	if err := rt.AddSegmentTag(DisciplineBike, 3); err != nil {
		t.Fatalf("tag: %v", err)
	}

	rt.SetWaypoints([]geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 0, Lng: 2}})
	if len(rt.Segments) != 1 || rt.Segments[0].EndIndex != 1 {
		t.Fatalf("expected out-of-bounds segment truncated, got %+v", rt.Segments)
	}

	total := geo.TotalDistance(rt.Waypoints)
	if math.Abs(rt.TotalDistanceMi-total) > 1e-12 {
		t.Fatalf("distance not recomputed: %v vs %v", rt.TotalDistanceMi, total)
	}
}

func TestInsertWaypointNearestSegment(t *testing.T) {
	var rt Route
	rt.SetWaypoints([]geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 10}})

	idx, err := rt.InsertWaypoint(geo.Point{Lat: 1, Lng: 5}, nil)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
	want := []geo.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 5}, {Lat: 0, Lng: 10}}
	for i, p := range want {
		if rt.Waypoints[i] != p {
			t.Fatalf("unexpected waypoints: %v", rt.Waypoints)
		}
	}
}

func TestInsertWaypointExplicitIndex(t *testing.T) {
	var rt Route
	rt.SetWaypoints([]geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}})

	// Append via explicit index, the free-draw click path.
	at := 2
	if _, err := rt.InsertWaypoint(geo.Point{Lat: 0, Lng: 2}, &at); err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(rt.Waypoints) != 3 || rt.Waypoints[2] != (geo.Point{Lat: 0, Lng: 2}) {
		t.Fatalf("unexpected waypoints: %v", rt.Waypoints)
	}

	bad := 7
	if _, err := rt.InsertWaypoint(geo.Point{}, &bad); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestMoveAndRemoveWaypoint(t *testing.T) {
	var rt Route
	rt.SetWaypoints([]geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 0, Lng: 2}})
	before := rt.TotalDistanceMi

	if err := rt.MoveWaypoint(1, geo.Point{Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if rt.TotalDistanceMi == before {
		t.Fatalf("expected distance to change after move")
	}
	if err := rt.MoveWaypoint(5, geo.Point{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}

	if err := rt.RemoveWaypoint(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(rt.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(rt.Waypoints))
	}
	if err := rt.RemoveWaypoint(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestAddSegmentTagOrdering(t *testing.T) {
	var rt Route
	points := make([]geo.Point, 10)
	for i := range points {
		points[i] = geo.Point{Lat: 0, Lng: float64(i)}
	}
	rt.SetWaypoints(points)

	if err := rt.AddSegmentTag(DisciplineSwim, 8); err != nil {
		t.Fatalf("tag: %v", err)
	}
	if rt.Segments[0].StartIndex != 0 || rt.Segments[0].EndIndex != 8 {
		t.Fatalf("unexpected segment: %+v", rt.Segments[0])
	}

	// Out-of-order end index is rejected and segments stay unchanged.
	if err := rt.AddSegmentTag(DisciplineBike, 5); !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment, got %v", err)
	}
	if len(rt.Segments) != 1 {
		t.Fatalf("segments mutated on rejected tag")
	}

	if err := rt.AddSegmentTag(DisciplineBike, 9); err != nil {
		t.Fatalf("tag: %v", err)
	}
	if rt.Segments[1].StartIndex != 8 {
		t.Fatalf("segment should start at previous end, got %+v", rt.Segments[1])
	}

	if err := rt.AddSegmentTag(DisciplineRun, 20); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange for end beyond bounds, got %v", err)
	}
}

func TestAddMilestone(t *testing.T) {
	var rt Route
	if err := rt.AddMilestone(1, "aid station"); !errors.Is(err, ErrDegenerateRoute) {
		t.Fatalf("expected ErrDegenerateRoute, got %v", err)
	}

	rt.SetWaypoints([]geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}})
	if err := rt.AddMilestone(rt.TotalDistanceMi/2, "halfway"); err != nil {
		t.Fatalf("milestone: %v", err)
	}
	m := rt.Milestones[0]
	if m.Label != "halfway" {
		t.Fatalf("unexpected milestone: %+v", m)
	}
	if math.Abs(m.Position.Lng-0.5) > 1e-6 {
		t.Fatalf("unexpected milestone position: %+v", m.Position)
	}
}
