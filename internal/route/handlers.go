package route

import (
	"backend-racepath/internal/shared/geo"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type waypointPayload struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

type milestonePayload struct {
	Mile  float64 `json:"mile" validate:"min=0"`
	Label string  `json:"label" validate:"required"`
}

type routePayload struct {
	Name       string             `json:"name" validate:"required"`
	Discipline string             `json:"discipline" validate:"omitempty,oneof=swim bike run"`
	CreatedBy  string             `json:"created_by" validate:"required"`
	Waypoints  []waypointPayload  `json:"waypoints" validate:"min=2,dive"`
	Milestones []milestonePayload `json:"milestones" validate:"dive"`
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req routePayload
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			if len(req.Waypoints) < 2 {
				return fiber.NewError(fiber.StatusUnprocessableEntity, ErrDegenerateRoute.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rt, err := buildRoute(req)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		created, err := svc.CreateRoute(c.Context(), rt)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		routes, err := svc.ListRoutes(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(routes)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		rt, err := svc.GetRoute(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.JSON(rt)
	})

	r.Put("/:id", func(c *fiber.Ctx) error {
		var req routePayload
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			if len(req.Waypoints) < 2 {
				return fiber.NewError(fiber.StatusUnprocessableEntity, ErrDegenerateRoute.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rt, err := buildRoute(req)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		rt.ID = c.Params("id")
		updated, err := svc.UpdateRoute(c.Context(), rt)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteRoute(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func buildRoute(req routePayload) (Route, error) {
	points := make([]geo.Point, len(req.Waypoints))
	for i, wp := range req.Waypoints {
		points[i] = geo.Point{Lat: wp.Lat, Lng: wp.Lng}
	}

	rt := Route{
		Name:       req.Name,
		Discipline: req.Discipline,
		CreatedBy:  req.CreatedBy,
	}
	rt.SetWaypoints(points)

	for _, m := range req.Milestones {
		if err := rt.AddMilestone(m.Mile, m.Label); err != nil {
			return Route{}, err
		}
	}
	return rt, nil
}
