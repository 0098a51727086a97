package geo

import "math"

// EarthRadiusMi is the mean Earth radius in miles.
const EarthRadiusMi = 3958.8

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Haversine returns the great-circle distance between two points in miles.
func Haversine(a, b Point) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMi * c
}

// SegmentLengths returns the distance in miles between each consecutive pair
// of points. Fewer than two points yields an empty slice.
func SegmentLengths(points []Point) []float64 {
	if len(points) < 2 {
		return nil
	}
	lengths := make([]float64, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		lengths[i] = Haversine(points[i], points[i+1])
	}
	return lengths
}

// TotalDistance returns the cumulative path length in miles.
func TotalDistance(points []Point) float64 {
	total := 0.0
	for _, l := range SegmentLengths(points) {
		total += l
	}
	return total
}

// PositionAtFraction returns the point that lies fraction of the way along the
// cumulative path length. Fractions outside [0,1] clamp to the endpoints.
// Zero-length segments are skipped when locating the containing segment.
// With fewer than two points the result is best-effort: the single point, or
// the zero Point for an empty path.
func PositionAtFraction(points []Point, fraction float64) Point {
	if len(points) == 0 {
		return Point{}
	}
	if len(points) == 1 || fraction <= 0 {
		return points[0]
	}
	if fraction >= 1 {
		return points[len(points)-1]
	}

	total := TotalDistance(points)
	if total == 0 {
		return points[0]
	}

	target := fraction * total
	walked := 0.0
	for i := 0; i < len(points)-1; i++ {
		length := Haversine(points[i], points[i+1])
		if length == 0 {
			continue
		}
		if walked+length >= target {
			t := (target - walked) / length
			return interpolate(points[i], points[i+1], t)
		}
		walked += length
	}
	return points[len(points)-1]
}

// SplitAtFraction partitions the path into completed and remaining polylines
// meeting at PositionAtFraction. The boundary point appears in both halves so
// each half is a connected path.
func SplitAtFraction(points []Point, fraction float64) (completed, remaining []Point) {
	if len(points) < 2 {
		return nil, points
	}
	if fraction <= 0 {
		return nil, points
	}
	if fraction >= 1 {
		return points, nil
	}

	total := TotalDistance(points)
	if total == 0 {
		return nil, points
	}

	target := fraction * total
	walked := 0.0
	for i := 0; i < len(points)-1; i++ {
		length := Haversine(points[i], points[i+1])
		if length == 0 || walked+length < target {
			walked += length
			continue
		}
		t := (target - walked) / length
		boundary := interpolate(points[i], points[i+1], t)

		completed = append(completed, points[:i+1]...)
		completed = append(completed, boundary)
		remaining = append(remaining, boundary)
		remaining = append(remaining, points[i+1:]...)
		return completed, remaining
	}
	return points, nil
}

// NearestSegmentInsertIndex returns the index at which p should be inserted to
// keep path order, choosing the segment with the minimum point-to-segment
// distance. With fewer than two points it returns the append index.
func NearestSegmentInsertIndex(points []Point, p Point) int {
	if len(points) < 2 {
		return len(points)
	}

	best := 1
	bestDist := math.Inf(1)
	for i := 0; i < len(points)-1; i++ {
		d := PointToSegmentDistance(p, points[i], points[i+1])
		if d < bestDist {
			bestDist = d
			best = i + 1
		}
	}
	return best
}

// PointToSegmentDistance returns the distance in miles from p to the nearest
// point on segment ab. The projection parameter is clamped to [0,1] so the
// distance is to the segment itself, not the infinite line.
func PointToSegmentDistance(p, a, b Point) float64 {
	if a == b {
		return Haversine(p, a)
	}

	// Local equirectangular projection around the segment midpoint keeps the
	// math planar; adequate at route-editing scale.
	midLat := (a.Lat + b.Lat) / 2 * math.Pi / 180
	scale := math.Cos(midLat)

	ax, ay := a.Lng*scale, a.Lat
	bx, by := b.Lng*scale, b.Lat
	px, py := p.Lng*scale, p.Lat

	dx, dy := bx-ax, by-ay
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	nearest := interpolate(a, b, t)
	return Haversine(p, nearest)
}

func interpolate(a, b Point, t float64) Point {
	return Point{
		Lat: a.Lat + t*(b.Lat-a.Lat),
		Lng: a.Lng + t*(b.Lng-a.Lng),
	}
}
