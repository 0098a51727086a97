package routing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend-racepath/internal/shared/geo"

	"github.com/twpayne/go-polyline"
)

func osrmOK(coords [][]float64) []byte {
	body := map[string]any{
		"code": "Ok",
		"routes": []map[string]any{
			{"geometry": string(polyline.EncodeCoords(coords))},
		},
	}
	raw, _ := json.Marshal(body)
	return raw
}

func TestSnapDecodesPolyline(t *testing.T) {
	coords := [][]float64{{38.5, -120.2}, {40.7, -120.95}, {43.252, -126.453}}

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write(osrmOK(coords))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	dense, err := client.Snap(context.Background(), []geo.Point{{Lat: 38.5, Lng: -120.2}, {Lat: 43.252, Lng: -126.453}}, ProfileFoot)
	if err != nil {
		t.Fatalf("snap: %v", err)
	}
	if len(dense) != 3 {
		t.Fatalf("expected 3 decoded points, got %d", len(dense))
	}
	if dense[0].Lat != 38.5 || dense[2].Lng != -126.453 {
		t.Fatalf("unexpected decoded points: %+v", dense)
	}
	if !strings.Contains(gotPath, "/route/v1/foot/") {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
}

func TestSnapNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Snap(context.Background(), []geo.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}, ProfileBike)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestSnapProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Snap(context.Background(), []geo.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}, ProfileFoot)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestSnapNetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 50*time.Millisecond)
	_, err := client.Snap(context.Background(), []geo.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}, ProfileFoot)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestSnapTooFewPoints(t *testing.T) {
	client := NewClient("http://example.invalid", time.Second)
	_, err := client.Snap(context.Background(), []geo.Point{{Lat: 0, Lng: 0}}, ProfileFoot)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute for single control point, got %v", err)
	}
}

func TestProfileForDiscipline(t *testing.T) {
	if ProfileForDiscipline("bike") != ProfileBike {
		t.Fatalf("bike should map to bike profile")
	}
	if ProfileForDiscipline("run") != ProfileFoot {
		t.Fatalf("run should map to foot profile")
	}
	if ProfileForDiscipline("swim") != "" {
		t.Fatalf("swim has no road profile")
	}
	if ProfileForDiscipline("") != ProfileFoot {
		t.Fatalf("unknown discipline should fall back to foot")
	}
}

func TestDownsample(t *testing.T) {
	points := make([]geo.Point, 100)
	for i := range points {
		points[i] = geo.Point{Lat: float64(i), Lng: 0}
	}

	sampled := Downsample(points, 10)
	if len(sampled) != 10 {
		t.Fatalf("expected 10 points, got %d", len(sampled))
	}
	if sampled[0] != points[0] || sampled[9] != points[99] {
		t.Fatalf("endpoints must survive downsampling")
	}
	for i := 1; i < len(sampled); i++ {
		if sampled[i].Lat <= sampled[i-1].Lat {
			t.Fatalf("stride must be monotonic: %+v", sampled)
		}
	}

	// Under the limit, input passes through untouched.
	small := []geo.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}
	if got := Downsample(small, 10); len(got) != 3 {
		t.Fatalf("expected pass-through, got %d points", len(got))
	}
}
