package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// NYC (40.7128, -74.006) to Boston (42.3601, -71.0589) ~ 190 mi
	d := Haversine(Point{40.7128, -74.006}, Point{42.3601, -71.0589})
	if d < 180 || d > 200 {
		t.Fatalf("unexpected distance: %v", d)
	}

	if d := Haversine(Point{10, 20}, Point{10, 20}); d != 0 {
		t.Fatalf("expected zero distance for identical points, got %v", d)
	}
}

func TestSegmentLengthsAndTotalDistance(t *testing.T) {
	if got := SegmentLengths(nil); got != nil {
		t.Fatalf("expected nil for empty input")
	}
	if got := SegmentLengths([]Point{{0, 0}}); got != nil {
		t.Fatalf("expected nil for single point")
	}

	points := []Point{{0, 0}, {0, 1}, {0, 2}, {1, 2}}
	lengths := SegmentLengths(points)
	if len(lengths) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(lengths))
	}

	sum := 0.0
	for _, l := range lengths {
		if l < 0 {
			t.Fatalf("negative segment length: %v", l)
		}
		sum += l
	}
	if total := TotalDistance(points); total != sum {
		t.Fatalf("total %v != sum of segments %v", total, sum)
	}

	if TotalDistance([]Point{{5, 5}}) != 0 {
		t.Fatalf("expected zero total for single point")
	}
}

func TestPositionAtFractionBoundaries(t *testing.T) {
	points := []Point{{0, 0}, {0, 5}, {0, 10}}

	if got := PositionAtFraction(points, 0); got != points[0] {
		t.Fatalf("fraction 0 should return first point, got %v", got)
	}
	if got := PositionAtFraction(points, -0.5); got != points[0] {
		t.Fatalf("negative fraction should clamp to first point")
	}
	if got := PositionAtFraction(points, 1); got != points[2] {
		t.Fatalf("fraction 1 should return last point, got %v", got)
	}
	if got := PositionAtFraction(points, 1.7); got != points[2] {
		t.Fatalf("fraction >1 should clamp to last point")
	}

	mid := PositionAtFraction(points, 0.5)
	if math.Abs(mid.Lng-5) > 1e-6 || math.Abs(mid.Lat) > 1e-6 {
		t.Fatalf("unexpected midpoint: %v", mid)
	}
}

func TestPositionAtFractionDegenerate(t *testing.T) {
	if got := PositionAtFraction(nil, 0.5); got != (Point{}) {
		t.Fatalf("expected zero point for empty path")
	}
	if got := PositionAtFraction([]Point{{3, 4}}, 0.5); got != (Point{Lat: 3, Lng: 4}) {
		t.Fatalf("expected single point back")
	}
}

func TestPositionAtFractionZeroLengthSegments(t *testing.T) {
	// Duplicate consecutive points must not panic or divide by zero.
	points := []Point{{0, 0}, {0, 0}, {0, 10}, {0, 10}}
	for _, f := range []float64{0, 0.25, 0.5, 0.75, 1} {
		got := PositionAtFraction(points, f)
		if math.IsNaN(got.Lat) || math.IsNaN(got.Lng) {
			t.Fatalf("NaN position at fraction %v", f)
		}
	}

	// Path that is entirely zero-length.
	same := []Point{{2, 2}, {2, 2}}
	if got := PositionAtFraction(same, 0.5); got != (Point{Lat: 2, Lng: 2}) {
		t.Fatalf("zero-length path should return first point, got %v", got)
	}
}

func TestSplitAtFraction(t *testing.T) {
	points := []Point{{0, 0}, {0, 4}, {0, 8}}

	completed, remaining := SplitAtFraction(points, 0)
	if completed != nil || len(remaining) != len(points) {
		t.Fatalf("fraction 0 should leave everything remaining")
	}

	completed, remaining = SplitAtFraction(points, 1)
	if remaining != nil || len(completed) != len(points) {
		t.Fatalf("fraction 1 should complete everything")
	}

	completed, remaining = SplitAtFraction(points, 0.5)
	if len(completed) == 0 || len(remaining) == 0 {
		t.Fatalf("expected both halves non-empty")
	}
	boundary := PositionAtFraction(points, 0.5)
	if completed[len(completed)-1] != boundary || remaining[0] != boundary {
		t.Fatalf("halves must meet at the interpolated position")
	}

	// Reconstruction: both halves together cover the original distance.
	total := TotalDistance(points)
	reconstructed := TotalDistance(completed) + TotalDistance(remaining)
	if math.Abs(total-reconstructed) > 1e-6 {
		t.Fatalf("split lost distance: %v vs %v", total, reconstructed)
	}
}

func TestSplitAtFractionSweep(t *testing.T) {
	points := []Point{{37.77, -122.42}, {37.8, -122.4}, {37.81, -122.35}, {37.85, -122.3}}
	total := TotalDistance(points)

	for f := 0.0; f <= 1.0; f += 0.1 {
		completed, remaining := SplitAtFraction(points, f)
		reconstructed := TotalDistance(completed) + TotalDistance(remaining)
		if math.Abs(total-reconstructed) > 1e-6 {
			t.Fatalf("fraction %v: split distance %v != %v", f, reconstructed, total)
		}
	}
}

func TestNearestSegmentInsertIndex(t *testing.T) {
	points := []Point{{0, 0}, {0, 10}}
	if idx := NearestSegmentInsertIndex(points, Point{Lat: 1, Lng: 5}); idx != 1 {
		t.Fatalf("expected insert index 1, got %d", idx)
	}

	three := []Point{{0, 0}, {0, 10}, {10, 10}}
	if idx := NearestSegmentInsertIndex(three, Point{Lat: 5, Lng: 10.1}); idx != 2 {
		t.Fatalf("expected insert index 2, got %d", idx)
	}

	// Degenerate inputs append.
	if idx := NearestSegmentInsertIndex(nil, Point{Lat: 1, Lng: 1}); idx != 0 {
		t.Fatalf("expected append index 0, got %d", idx)
	}
	if idx := NearestSegmentInsertIndex([]Point{{0, 0}}, Point{Lat: 1, Lng: 1}); idx != 1 {
		t.Fatalf("expected append index 1, got %d", idx)
	}
}

func TestPointToSegmentDistance(t *testing.T) {
	a, b := Point{0, 0}, Point{Lat: 0, Lng: 10}

	// Perpendicular projection lands inside the segment.
	mid := PointToSegmentDistance(Point{Lat: 1, Lng: 5}, a, b)
	end := Haversine(Point{Lat: 1, Lng: 5}, a)
	if mid >= end {
		t.Fatalf("projection should beat endpoint distance: %v vs %v", mid, end)
	}

	// Beyond the end, the projection clamps to the endpoint.
	past := PointToSegmentDistance(Point{Lat: 0, Lng: 12}, a, b)
	want := Haversine(Point{Lat: 0, Lng: 12}, b)
	if math.Abs(past-want) > 1e-9 {
		t.Fatalf("clamped distance %v != endpoint distance %v", past, want)
	}

	// Zero-length segment falls back to point distance.
	d := PointToSegmentDistance(Point{Lat: 1, Lng: 1}, a, a)
	if math.Abs(d-Haversine(Point{Lat: 1, Lng: 1}, a)) > 1e-9 {
		t.Fatalf("unexpected zero-segment distance")
	}
}
