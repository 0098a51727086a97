package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backend-racepath/internal/shared/geo"

	"github.com/twpayne/go-polyline"
)

const (
	ProfileFoot = "foot"
	ProfileBike = "bike"
)

var (
	// ErrNoRoute means the provider could not find a road-following path
	// through the given control points. Retryable with different points.
	ErrNoRoute = errors.New("no route found")

	// ErrProviderUnavailable covers network failures, timeouts and provider
	// errors. Always retryable.
	ErrProviderUnavailable = errors.New("routing service unavailable")
)

// Client talks to an OSRM-compatible routing service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Snap requests a road-following polyline through the ordered control points.
// The result replaces the whole path or nothing; a failed request never
// yields a partial polyline.
func (c *Client) Snap(ctx context.Context, points []geo.Point, profile string) ([]geo.Point, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 control points", ErrNoRoute)
	}

	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=polyline",
		c.baseURL, profile, encodeCoords(points))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var parsed struct {
		Code   string `json:"code"`
		Routes []struct {
			Geometry string `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, ErrNoRoute
	}

	coords, _, err := polyline.DecodeCoords([]byte(parsed.Routes[0].Geometry))
	if err != nil {
		return nil, fmt.Errorf("%w: bad polyline: %v", ErrProviderUnavailable, err)
	}

	dense := make([]geo.Point, len(coords))
	for i, c := range coords {
		dense[i] = geo.Point{Lat: c[0], Lng: c[1]}
	}
	return dense, nil
}

// ProfileForDiscipline maps a race discipline to the nearest supported travel
// profile. Swim has no road profile; the empty string tells the adapter to
// pass control points through as a straight-line path.
func ProfileForDiscipline(discipline string) string {
	switch discipline {
	case "bike":
		return ProfileBike
	case "run":
		return ProfileFoot
	case "swim":
		return ""
	default:
		return ProfileFoot
	}
}

// Downsample bounds the request size: when points exceed max, keep the first,
// the last and an even stride through the middle.
func Downsample(points []geo.Point, max int) []geo.Point {
	if max < 2 || len(points) <= max {
		return points
	}

	sampled := make([]geo.Point, 0, max)
	sampled = append(sampled, points[0])
	step := float64(len(points)-1) / float64(max-1)
	for i := 1; i < max-1; i++ {
		sampled = append(sampled, points[int(float64(i)*step)])
	}
	return append(sampled, points[len(points)-1])
}

func encodeCoords(points []geo.Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(';')
		}
		// OSRM takes lng,lat pairs.
		b.WriteString(strconv.FormatFloat(p.Lng, 'f', 6, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Lat, 'f', 6, 64))
	}
	return b.String()
}
