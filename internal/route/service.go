package route

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"backend-racepath/internal/db"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Service struct {
	db       db.Querier
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewService(db db.Querier, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{db: db, cache: cache, cacheTTL: cacheTTL}
}

func (s *Service) CreateRoute(ctx context.Context, input Route) (Route, error) {
	input.ID = uuid.NewString()
	input.recompute()

	waypoints, segments, milestones, err := marshalGeometry(input)
	if err != nil {
		return Route{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO routes (id, name, discipline, waypoints, segments, milestones, total_distance_mi, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at
	`, input.ID, input.Name, input.Discipline, waypoints, segments, milestones, input.TotalDistanceMi, input.CreatedBy)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Route{}, err
	}
	return input, nil
}

// GetRoute loads a route, reading through the cache. Persisted routes are
// immutable to participants, so cached copies only go stale on author edits,
// which invalidate the key.
func (s *Service) GetRoute(ctx context.Context, id string) (Route, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey(id)).Bytes(); err == nil {
			var rt Route
			if err := json.Unmarshal(raw, &rt); err == nil {
				return rt, nil
			}
		}
	}

	row := s.db.QueryRow(ctx, `
		SELECT id, name, discipline, waypoints, segments, milestones, total_distance_mi, created_by, created_at, updated_at
		FROM routes WHERE id=$1
	`, id)
	rt, err := scanRoute(row)
	if err != nil {
		return Route{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(rt); err == nil {
			if err := s.cache.Set(ctx, cacheKey(id), raw, s.cacheTTL).Err(); err != nil {
				log.Printf("route cache set error: %v", err)
			}
		}
	}
	return rt, nil
}

func (s *Service) UpdateRoute(ctx context.Context, input Route) (Route, error) {
	input.recompute()

	waypoints, segments, milestones, err := marshalGeometry(input)
	if err != nil {
		return Route{}, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE routes
		SET name=$2, discipline=$3, waypoints=$4, segments=$5, milestones=$6,
		    total_distance_mi=$7, updated_at=now()
		WHERE id=$1
		RETURNING created_by, created_at, updated_at
	`, input.ID, input.Name, input.Discipline, waypoints, segments, milestones, input.TotalDistanceMi)
	if err := row.Scan(&input.CreatedBy, &input.CreatedAt, &input.UpdatedAt); err != nil {
		return Route{}, err
	}

	s.invalidate(ctx, input.ID)
	return input, nil
}

func (s *Service) DeleteRoute(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM routes WHERE id=$1`, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) ListRoutes(ctx context.Context) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, discipline, waypoints, segments, milestones, total_distance_mi, created_by, created_at, updated_at
		FROM routes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
		log.Printf("route cache del error: %v", err)
	}
}

func cacheKey(id string) string {
	return "route:" + id
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (Route, error) {
	var rt Route
	var waypoints, segments, milestones []byte
	if err := row.Scan(&rt.ID, &rt.Name, &rt.Discipline, &waypoints, &segments, &milestones,
		&rt.TotalDistanceMi, &rt.CreatedBy, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return Route{}, err
	}
	if err := json.Unmarshal(waypoints, &rt.Waypoints); err != nil {
		return Route{}, err
	}
	if err := json.Unmarshal(segments, &rt.Segments); err != nil {
		return Route{}, err
	}
	if err := json.Unmarshal(milestones, &rt.Milestones); err != nil {
		return Route{}, err
	}
	return rt, nil
}

func marshalGeometry(rt Route) (waypoints, segments, milestones []byte, err error) {
	if waypoints, err = json.Marshal(rt.Waypoints); err != nil {
		return nil, nil, nil, err
	}
	if segments, err = json.Marshal(rt.Segments); err != nil {
		return nil, nil, nil, err
	}
	if milestones, err = json.Marshal(rt.Milestones); err != nil {
		return nil, nil, nil, err
	}
	return waypoints, segments, milestones, nil
}
