// handlers/competition_routes.go
package handlers

import (
	"errors"
	"time"

	"club-management-system/middleware"
	"club-management-system/models"
	"club-management-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusFor maps the service failure taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func SetupCompetitionRoutes(app *fiber.App, registry *services.CompetitionRegistry, seasons services.SeasonStore) {
	// 🔓 Public routes
	app.Get("/competitions", func(c *fiber.Ctx) error {
		if seasonID := c.Query("season_id"); seasonID != "" {
			competitions, err := registry.ListBySeason(seasonID)
			if err != nil {
				return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
			}
			return c.JSON(competitions)
		}
		competitions, err := registry.List()
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(competitions)
	})

	app.Get("/competitions/:id", func(c *fiber.Ctx) error {
		competition, err := registry.Get(c.Params("id"))
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(competition)
	})

	app.Get("/seasons", func(c *fiber.Ctx) error {
		all, err := seasons.ListAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch seasons"})
		}
		return c.JSON(all)
	})

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/competitions", func(c *fiber.Ctx) error {
		var req competitionRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		competition := req.toModel("")
		if err := registry.Add(competition); err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(competition)
	})

	secured.Put("/competitions/:id", func(c *fiber.Ctx) error {
		var req competitionRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		competition := req.toModel(c.Params("id"))
		if err := registry.Update(competition); err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(competition)
	})

	secured.Delete("/competitions/:id", func(c *fiber.Ctx) error {
		if err := registry.Delete(c.Params("id")); err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Competition deleted successfully"})
	})

	// Operator lifecycle overrides
	secured.Post("/competitions/:id/deactivate", func(c *fiber.Ctx) error {
		if err := registry.Deactivate(c.Params("id")); err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Competition deactivated"})
	})

	secured.Post("/competitions/:id/reactivate", func(c *fiber.Ctx) error {
		if err := registry.Reactivate(c.Params("id")); err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Competition reactivated"})
	})

	secured.Post("/seasons", func(c *fiber.Ctx) error {
		var req struct {
			Name      string    `json:"name"`
			StartDate time.Time `json:"start_date"`
			EndDate   time.Time `json:"end_date"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Name == "" || req.EndDate.Before(req.StartDate) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid season name or dates"})
		}
		season := &models.Season{
			ID:        uuid.NewString(),
			Name:      req.Name,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		}
		if err := seasons.Create(season); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create season"})
		}
		return c.Status(fiber.StatusCreated).JSON(season)
	})
}

type competitionRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	PointsReward int64           `json:"points_reward"`
	StartDate    *time.Time      `json:"start_date"`
	EndDate      *time.Time      `json:"end_date"`
	GoalType     models.GoalType `json:"goal_type"`
	GoalValue    int64           `json:"goal_value"`
	SeasonID     string          `json:"season_id"`
}

func (r *competitionRequest) toModel(id string) *models.Competition {
	return &models.Competition{
		ID:           id,
		Name:         r.Name,
		Description:  r.Description,
		PointsReward: r.PointsReward,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		GoalType:     r.GoalType,
		GoalValue:    r.GoalValue,
		SeasonID:     r.SeasonID,
	}
}
