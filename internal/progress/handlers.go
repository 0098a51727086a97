package progress

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/:routeID/enroll", func(c *fiber.Ctx) error {
		var body struct {
			ParticipantID string `json:"participant_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ParticipantID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "participant_id required")
		}
		rec, err := svc.Enroll(c.Context(), body.ParticipantID, c.Params("routeID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	})

	r.Post("/:routeID/log", func(c *fiber.Ctx) error {
		var body struct {
			ParticipantID string  `json:"participant_id"`
			Miles         float64 `json:"miles"`
		}
		if err := c.BodyParser(&body); err != nil || body.ParticipantID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "participant_id required")
		}
		rec, err := svc.LogDistance(c.Context(), body.ParticipantID, c.Params("routeID"), body.Miles)
		switch {
		case errors.Is(err, ErrInvalidDistance):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotActive):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(rec)
	})

	r.Post("/:routeID/abandon", func(c *fiber.Ctx) error {
		var body struct {
			ParticipantID string `json:"participant_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ParticipantID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "participant_id required")
		}
		rec, err := svc.Abandon(c.Context(), body.ParticipantID, c.Params("routeID"))
		if errors.Is(err, ErrNotActive) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(rec)
	})

	r.Post("/:routeID/reenroll", func(c *fiber.Ctx) error {
		var body struct {
			ParticipantID string `json:"participant_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ParticipantID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "participant_id required")
		}
		rec, err := svc.Reenroll(c.Context(), body.ParticipantID, c.Params("routeID"))
		if errors.Is(err, ErrNotActive) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(rec)
	})

	r.Get("/:routeID", func(c *fiber.Ctx) error {
		participantID := c.Query("participant_id")
		if participantID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "participant_id required")
		}
		view, err := svc.Progress(c.Context(), participantID, c.Params("routeID"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "progress not found")
		}
		return c.JSON(view)
	})
}
