// handlers/statistics_routes.go
package handlers

import (
	"strconv"

	"club-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStatisticsRoutes(app *fiber.App, stats *services.StatisticsAggregator) {
	// Read-only, gateway-authed but public to any user context
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		n, _ := strconv.Atoi(c.Query("limit", "10"))
		entries, err := stats.Leaderboard(n)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(entries)
	})

	app.Get("/clubs/:id/statistics", func(c *fiber.Ctx) error {
		result, err := stats.ClubStatistics(c.Params("id"))
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(result)
	})

	app.Get("/clubs/:id/rank", func(c *fiber.Ctx) error {
		rank, err := stats.ClubRank(c.Params("id"))
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"club_id": c.Params("id"), "rank": rank})
	})

	app.Get("/seasons/:id/statistics", func(c *fiber.Ctx) error {
		topN, _ := strconv.Atoi(c.Query("top", "10"))
		result, err := stats.SeasonStatistics(c.Params("id"), topN)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(result)
	})

	app.Get("/competitions/:id/statistics", func(c *fiber.Ctx) error {
		result, err := stats.CompetitionStatistics(c.Params("id"))
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(result)
	})
}
