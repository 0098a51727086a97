package editor

import (
	"errors"

	"backend-racepath/internal/route"
	"backend-racepath/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

type pointBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func RegisterRoutes(r fiber.Router, mgr *Manager) {
	r.Post("/sessions", func(c *fiber.Ctx) error {
		var body struct {
			RouteID string `json:"route_id"`
		}
		_ = c.BodyParser(&body)
		s, err := mgr.Open(c.Context(), body.RouteID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.Status(fiber.StatusCreated).JSON(s.View())
	})

	r.Get("/sessions/:id", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return c.JSON(s.View())
	})

	r.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		mgr.Close(c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/sessions/:id/click", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		var body pointBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		s.Click(geo.Point{Lat: body.Lat, Lng: body.Lng})
		return c.JSON(s.View())
	})

	r.Post("/sessions/:id/drag-end", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		var body struct {
			Index int     `json:"index"`
			Lat   float64 `json:"lat"`
			Lng   float64 `json:"lng"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := s.DragEnd(body.Index, geo.Point{Lat: body.Lat, Lng: body.Lng}); err != nil {
			return rejected(err)
		}
		return c.JSON(s.View())
	})

	r.Post("/sessions/:id/right-click", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		var body pointBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		s.RightClick(geo.Point{Lat: body.Lat, Lng: body.Lng})
		return c.JSON(s.View())
	})

	r.Post("/sessions/:id/undo", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		s.Undo()
		return c.JSON(s.View())
	})

	r.Post("/sessions/:id/clear", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		s.ClearAll()
		return c.JSON(s.View())
	})

	r.Post("/sessions/:id/transition", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		if err := s.SetSegmentTransition(); err != nil {
			return rejected(err)
		}
		return c.JSON(s.View())
	})

	r.Post("/sessions/:id/milestones", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		var body struct {
			Mile  float64 `json:"mile"`
			Label string  `json:"label"`
		}
		if err := c.BodyParser(&body); err != nil || body.Label == "" {
			return fiber.NewError(fiber.StatusBadRequest, "mile and label required")
		}
		if err := s.AddMilestone(body.Mile, body.Label); err != nil {
			return rejected(err)
		}
		return c.JSON(s.View())
	})

	r.Post("/sessions/:id/mode", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		var body struct {
			Mode Mode `json:"mode"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Mode != ModeFreeDraw && body.Mode != ModeRoadSnap {
			return fiber.NewError(fiber.StatusBadRequest, "unknown mode")
		}
		s.SetMode(body.Mode)
		return c.JSON(s.View())
	})

	r.Post("/sessions/:id/commit", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		var body struct {
			Name      string `json:"name"`
			CreatedBy string `json:"created_by"`
		}
		_ = c.BodyParser(&body)
		persisted, err := s.Commit(c.Context(), body.Name, body.CreatedBy)
		if err != nil {
			return rejected(err)
		}
		return c.Status(fiber.StatusCreated).JSON(persisted)
	})
}

// rejected maps a refused editor action onto a status the author can act on.
// The draft is untouched in every case.
func rejected(err error) error {
	switch {
	case errors.Is(err, route.ErrIndexOutOfRange),
		errors.Is(err, route.ErrInvalidSegment),
		errors.Is(err, route.ErrDegenerateRoute):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
