package progress

import (
	"context"

	"backend-racepath/internal/db"
	"backend-racepath/internal/route"
)

type Service struct {
	db     db.Querier
	routes *route.Service
}

func NewService(db db.Querier, routes *route.Service) *Service {
	return &Service{db: db, routes: routes}
}

func (s *Service) Enroll(ctx context.Context, participantID, routeID string) (Record, error) {
	rec := Record{
		ParticipantID: participantID,
		RouteID:       routeID,
		Status:        StatusActive,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO progress_records (participant_id, route_id, cumulative_mi, status)
		VALUES ($1,$2,0,$3)
		RETURNING updated_at
	`, rec.ParticipantID, rec.RouteID, rec.Status)
	if err := row.Scan(&rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, participantID, routeID string) (Record, error) {
	row := s.db.QueryRow(ctx, `
		SELECT participant_id, route_id, cumulative_mi, status, updated_at
		FROM progress_records
		WHERE participant_id=$1 AND route_id=$2
	`, participantID, routeID)
	var rec Record
	if err := row.Scan(&rec.ParticipantID, &rec.RouteID, &rec.CumulativeMi, &rec.Status, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// LogDistance appends delta miles to the participant's running total. The
// stored value is never clamped; the record flips to completed once the total
// reaches the route's length.
func (s *Service) LogDistance(ctx context.Context, participantID, routeID string, delta float64) (Record, error) {
	if delta <= 0 {
		return Record{}, ErrInvalidDistance
	}

	rec, err := s.Get(ctx, participantID, routeID)
	if err != nil {
		return Record{}, err
	}
	if rec.Status != StatusActive {
		return Record{}, ErrNotActive
	}

	rt, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return Record{}, err
	}

	rec.CumulativeMi += delta
	if rt.TotalDistanceMi > 0 && rec.CumulativeMi >= rt.TotalDistanceMi {
		rec.Status = StatusCompleted
	}

	row := s.db.QueryRow(ctx, `
		UPDATE progress_records
		SET cumulative_mi=$3, status=$4, updated_at=now()
		WHERE participant_id=$1 AND route_id=$2
		RETURNING updated_at
	`, rec.ParticipantID, rec.RouteID, rec.CumulativeMi, rec.Status)
	if err := row.Scan(&rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Abandon(ctx context.Context, participantID, routeID string) (Record, error) {
	return s.transition(ctx, participantID, routeID, StatusActive, StatusAbandoned)
}

// Reenroll flips an abandoned record back to active. The prior cumulative
// distance is preserved.
func (s *Service) Reenroll(ctx context.Context, participantID, routeID string) (Record, error) {
	return s.transition(ctx, participantID, routeID, StatusAbandoned, StatusActive)
}

func (s *Service) transition(ctx context.Context, participantID, routeID, from, to string) (Record, error) {
	rec, err := s.Get(ctx, participantID, routeID)
	if err != nil {
		return Record{}, err
	}
	if rec.Status != from {
		return Record{}, ErrNotActive
	}

	rec.Status = to
	row := s.db.QueryRow(ctx, `
		UPDATE progress_records
		SET status=$3, updated_at=now()
		WHERE participant_id=$1 AND route_id=$2
		RETURNING updated_at
	`, rec.ParticipantID, rec.RouteID, rec.Status)
	if err := row.Scan(&rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Progress loads the route and the participant's record and resolves the
// renderable view.
func (s *Service) Progress(ctx context.Context, participantID, routeID string) (View, error) {
	rec, err := s.Get(ctx, participantID, routeID)
	if err != nil {
		return View{}, err
	}
	rt, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return View{}, err
	}
	return Resolve(rt, rec), nil
}
